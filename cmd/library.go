package main

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/adityasissodiya/campuspodcastlite/internal/formatter"
	"github.com/adityasissodiya/campuspodcastlite/internal/media"
	"github.com/adityasissodiya/campuspodcastlite/internal/models"
	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/adityasissodiya/campuspodcastlite/internal/storage"
	"github.com/urfave/cli/v3"
)

// LibraryList prints the stored uploads in the requested format.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	_, lib, err := r.openLibrary(cmd)
	if err != nil {
		return err
	}

	files, err := lib.List()
	if err != nil {
		return err
	}

	return formatter.Write(r.output, format, formatter.Listing{Root: lib.Root(), Files: files}, r.palette)
}

// inspectResult is the response a GET /audio/{name} would produce.
type inspectResult struct {
	File    *models.AudioFile `json:"file"`
	Range   *string           `json:"range"`
	Outcome string            `json:"outcome"`
	Status  int               `json:"status"`
	Headers http.Header       `json:"headers"`
}

// LibraryInspect runs the range parser against a stored file and prints the status and headers the
// media endpoint would send, optionally followed by the body.
func (r *Runner) LibraryInspect(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: file name", shared.ErrMissingArgument)
	}

	config, lib, err := r.openLibrary(cmd)
	if err != nil {
		return err
	}

	f, af, err := lib.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	var header *string
	if cmd.IsSet("range") {
		v := cmd.String("range")
		header = &v
	}

	outcome := media.ParseRange(header, af.Size)
	result := inspectResult{File: af, Range: header, Outcome: outcome.String(), Headers: http.Header{}}

	switch outcome.Kind {
	case media.NoRangeRequested:
		result.Status = http.StatusOK
		result.Headers.Set("Content-Type", af.ContentType)
		result.Headers.Set("Content-Length", strconv.FormatInt(af.Size, 10))
		result.Headers.Set("Accept-Ranges", "bytes")
		result.Headers.Set("ETag", storage.ETag(af))
	case media.Unsatisfiable:
		result.Status = http.StatusRequestedRangeNotSatisfiable
		result.Headers.Set("Content-Range", "bytes */"+strconv.FormatInt(af.Size, 10))
	case media.Satisfiable:
		plan := media.Plan(outcome.Range, af.Size, af.ContentType)
		result.Status = plan.Status()
		plan.Apply(result.Headers)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", r.palette.Title(fmt.Sprintf("%s (%s, %s)", af.Name, af.HumanSize(), af.ContentType)))
		if header != nil {
			fmt.Fprintf(&b, "Range: %q\n", *header)
		} else {
			b.WriteString("Range: (none)\n")
		}
		fmt.Fprintf(&b, "Outcome: %s\n", outcome)
		fmt.Fprintf(&b, "HTTP %d %s\n", result.Status, http.StatusText(result.Status))
		for _, key := range slices.Sorted(maps.Keys(result.Headers)) {
			fmt.Fprintf(&b, "%s: %s\n", key, result.Headers.Get(key))
		}
		if err := r.writePlain("%s", b.String()); err != nil {
			return err
		}
	}

	if !cmd.Bool("body") {
		return nil
	}
	return r.writeInspectBody(f, af, outcome, config.Stream.ChunkSize)
}

func (r *Runner) writeInspectBody(f media.Resource, af *models.AudioFile, outcome media.RangeOutcome, chunkSize int) error {
	var window media.ByteRange
	switch {
	case outcome.Kind == media.Satisfiable:
		window = outcome.Range
	case outcome.Kind == media.NoRangeRequested && af.Size > 0:
		window = media.ByteRange{Start: 0, End: af.Size - 1}
	default:
		return nil
	}

	stream, err := media.Open(f, window, media.WithChunkSize(chunkSize))
	if err != nil {
		return err
	}
	if _, err := stream.WriteTo(r.output); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	if err := stream.Err(); err != nil {
		r.logger.Warn("short stream", "name", af.Name, "remaining", stream.Remaining(), "error", err)
	}
	return nil
}

// openLibrary loads the config for cmd and opens the upload directory it names.
func (r *Runner) openLibrary(cmd *cli.Command) (*shared.Config, *storage.Library, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	lib, err := storage.NewLibrary(config.Storage.Path, config.Storage.AllowedExtensions)
	if err != nil {
		return nil, nil, err
	}
	return config, lib, nil
}
