package server

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/adityasissodiya/campuspodcastlite/internal/media"
	"github.com/adityasissodiya/campuspodcastlite/internal/models"
	"github.com/adityasissodiya/campuspodcastlite/internal/storage"
	"github.com/charmbracelet/log"
)

// Library resolves request names to opened files inside the storage root.
type Library interface {
	Open(name string) (*os.File, *models.AudioFile, error)
}

// MediaHandler streams stored audio with byte-range support.
// Implements the Handler interface for registration with a Router.
type MediaHandler struct {
	library   Library
	chunkSize int
	logger    *log.Logger
}

// NewMediaHandler creates a MediaHandler reading chunkSize bytes per chunk; a non-positive size uses
// [media.DefaultChunkSize].
func NewMediaHandler(library Library, chunkSize int, logger *log.Logger) *MediaHandler {
	if chunkSize <= 0 {
		chunkSize = media.DefaultChunkSize
	}
	return &MediaHandler{library: library, chunkSize: chunkSize, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *MediaHandler) Routes() []string {
	return []string{"GET /audio/{name...}"}
}

// ServeHTTP answers with the full file, a partial range, 416 or 404.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, af, err := h.library.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to open audio", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	outcome := media.ParseRangeHeader(r.Header, af.Size)
	switch outcome.Kind {
	case media.NoRangeRequested:
		defer f.Close()
		h.serveFull(w, r, f, af)
	case media.Unsatisfiable:
		f.Close()
		w.Header().Set("Content-Range", "bytes */"+strconv.FormatInt(af.Size, 10))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	case media.Satisfiable:
		h.serveRange(w, r, f, af, outcome.Range)
	}
}

// serveFull sends the whole file. Only requests without a Range header reach this path, so
// ServeContent never applies range logic of its own.
func (h *MediaHandler) serveFull(w http.ResponseWriter, r *http.Request, f *os.File, af *models.AudioFile) {
	w.Header().Set("Content-Type", af.ContentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("ETag", storage.ETag(af))
	http.ServeContent(w, r, af.Name, af.ModTime, f)
}

func (h *MediaHandler) serveRange(w http.ResponseWriter, r *http.Request, f *os.File, af *models.AudioFile, br media.ByteRange) {
	stream, err := media.Open(f, br, media.WithChunkSize(h.chunkSize))
	if err != nil {
		h.logger.Error("failed to open range", "name", af.Name, "range", br, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	plan := media.Plan(br, af.Size, af.ContentType)
	plan.Apply(w.Header())
	w.Header().Set("ETag", storage.ETag(af))
	w.Header().Set("Last-Modified", af.ModTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(plan.Status())

	if r.Method == http.MethodHead {
		return
	}

	ctx := r.Context()
	for {
		if ctx.Err() != nil {
			h.logger.Debug("client went away", "name", af.Name, "remaining", stream.Remaining())
			return
		}
		chunk, ok := stream.Next()
		if !ok {
			break
		}
		if _, err := w.Write(chunk); err != nil {
			h.logger.Debug("write failed", "name", af.Name, "remaining", stream.Remaining(), "error", err)
			return
		}
	}

	if err := stream.Err(); err != nil {
		h.logger.Warn("short stream", "name", af.Name, "range", br, "remaining", stream.Remaining(), "error", err)
	}
}
