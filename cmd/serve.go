package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/adityasissodiya/campuspodcastlite/internal/server"
	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/adityasissodiya/campuspodcastlite/internal/storage"
	"github.com/adityasissodiya/campuspodcastlite/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := storage.NewLibrary(config.Storage.Path, config.Storage.AllowedExtensions)
	if err != nil {
		return err
	}

	handler, err := r.buildHandler(config, lib)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Server.Addr(), err)
	}

	r.logger.Info("serving library", "storage", lib.Root(), "chunk_size", config.Stream.ChunkSize)

	if cmd.Bool("open") {
		url := "http://" + ln.Addr().String() + "/"
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	srv := server.NewServer(server.ServerOpts{
		Handler:           handler,
		Logger:            r.logger,
		ReadHeaderTimeout: config.Server.ReadHeaderTimeout(),
		ShutdownTimeout:   config.Server.ShutdownTimeout(),
	})
	return srv.Serve(ctx, ln)
}

// buildHandler wires the middleware stack, the /audio endpoint and the pages.
//
// The upload limiter is added after the media handler is registered so range requests are never
// throttled.
func (r *Runner) buildHandler(config *shared.Config, lib *storage.Library) (http.Handler, error) {
	router := server.NewBasicRouter()
	router.Use(server.RequestID, server.Logging(r.logger), server.Recover(r.logger))

	router.Handler(server.NewMediaHandler(lib, config.Stream.ChunkSize, shared.WithLogger(r.logger, "component", "media")))

	pages, err := web.NewPages(lib, web.PagesOpts{
		MaxUpload: config.Storage.MaxUploadBytes,
		Allowed:   config.Storage.AllowedExtensions,
		Logger:    shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return nil, err
	}
	router.Use(server.RateLimit(server.NewUploadLimiter(config.Upload), http.MethodPost))
	router.Handler(pages)

	return router, nil
}
