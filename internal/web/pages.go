package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/adityasissodiya/campuspodcastlite/internal/models"
	"github.com/adityasissodiya/campuspodcastlite/internal/storage"
	"github.com/charmbracelet/log"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	msgNoFile      = "No file selected"
	msgUnsupported = "Unsupported file type"
	msgBadName     = "Invalid file name"
)

// Library is the storage the pages read from and upload into.
type Library interface {
	List() ([]models.AudioFile, error)
	Resolve(name string) (*models.AudioFile, error)
	Save(filename string, r io.Reader, limit int64) (*models.AudioFile, error)
}

// PagesOpts configures [NewPages].
type PagesOpts struct {
	MaxUpload int64    // request body cap for POST /upload; 0 disables it
	Allowed   []string // extensions advertised on the upload form
	Logger    *log.Logger
}

type pageData struct {
	Title     string
	Message   string
	Files     []models.AudioFile
	File      *models.AudioFile
	Accept    string
	MaxUpload string
}

// Pages renders the HTML front end.
type Pages struct {
	lib       Library
	maxUpload int64
	accept    string
	logger    *log.Logger
	pages     map[string]*template.Template
	mux       *http.ServeMux
}

// NewPages parses the embedded templates and returns the page handler.
func NewPages(lib Library, opts PagesOpts) (*Pages, error) {
	p := &Pages{
		lib:       lib,
		maxUpload: opts.MaxUpload,
		logger:    opts.Logger,
		pages:     make(map[string]*template.Template),
		mux:       http.NewServeMux(),
	}
	if p.logger == nil {
		p.logger = log.Default()
	}

	exts := make([]string, 0, len(opts.Allowed))
	for _, ext := range opts.Allowed {
		exts = append(exts, "."+strings.TrimPrefix(strings.ToLower(ext), "."))
	}
	p.accept = strings.Join(exts, ",")

	funcs := template.FuncMap{"pathEscape": pathEscape}
	for _, name := range []string{"index", "upload", "player"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.pages[name] = tmpl
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	p.mux.HandleFunc("GET /{$}", p.index)
	p.mux.HandleFunc("GET /upload", p.uploadForm)
	p.mux.HandleFunc("POST /upload", p.upload)
	p.mux.HandleFunc("GET /player/{name...}", p.player)
	p.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	return p, nil
}

// Routes returns the patterns served by [Pages].
func (p *Pages) Routes() []string {
	return []string{"GET /{$}", "GET /upload", "POST /upload", "GET /player/{name...}", "GET /static/"}
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mux.ServeHTTP(w, r)
}

func (p *Pages) index(w http.ResponseWriter, r *http.Request) {
	files, err := p.lib.List()
	if err != nil {
		p.logger.Error("failed to list library", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	p.render(w, "index", pageData{
		Title:   "Library",
		Message: r.URL.Query().Get("message"),
		Files:   files,
	})
}

func (p *Pages) uploadForm(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Upload", Accept: p.accept}
	if p.maxUpload > 0 {
		data.MaxUpload = models.FormatBytes(p.maxUpload)
	}
	p.render(w, "upload", data)
}

func (p *Pages) upload(w http.ResponseWriter, r *http.Request) {
	if p.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, p.maxUpload)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			redirectWithMessage(w, r, msgNoFile)
		default:
			http.Error(w, "Malformed upload", http.StatusBadRequest)
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		redirectWithMessage(w, r, msgNoFile)
		return
	}

	af, err := p.lib.Save(header.Filename, file, p.maxUpload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			redirectWithMessage(w, r, msgUnsupported)
		case errors.Is(err, storage.ErrEmptyFilename):
			redirectWithMessage(w, r, msgBadName)
		case errors.Is(err, storage.ErrTooLarge), errors.As(err, &tooLarge):
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
		default:
			p.logger.Error("failed to store upload", "filename", header.Filename, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	p.logger.Info("upload stored", "name", af.Name, "bytes", af.Size, "digest", af.Digest)
	http.Redirect(w, r, "/player/"+pathEscape(af.Name), http.StatusFound)
}

func (p *Pages) player(w http.ResponseWriter, r *http.Request) {
	af, err := p.lib.Resolve(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			http.NotFound(w, r)
			return
		}
		p.logger.Error("failed to resolve audio", "name", r.PathValue("name"), "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	p.render(w, "player", pageData{Title: af.Name, File: af})
}

func (p *Pages) render(w http.ResponseWriter, page string, data pageData) {
	var buf bytes.Buffer
	if err := p.pages[page].ExecuteTemplate(&buf, "base", data); err != nil {
		p.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// pathEscape escapes name for use as URL path segments, keeping its slashes.
func pathEscape(name string) string {
	return (&url.URL{Path: name}).EscapedPath()
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?message="+url.QueryEscape(msg), http.StatusFound)
}
