package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-bfhl/components/bfhlform"
	"github.com/goliatone/go-bfhl/internal/config"
	"github.com/goliatone/go-bfhl/internal/templatewatch"
	"github.com/goliatone/go-bfhl/pkg/contract"
	"github.com/goliatone/go-bfhl/pkg/render/template/gotemplate"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		templates string
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the submission form over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("templates") {
				cfg.Server.Templates = templates
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("serve: listen %s: %w", cfg.Server.Addr, err)
			}
			return serve(cmd.Context(), ln, cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&templates, "templates", "", "directory with page templates overriding the embedded ones")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload templates from --templates when they change")
	return cmd
}

// serve runs the HTTP server on ln, plus the template watcher when enabled,
// until ctx is done. Shutdown is graceful within server.shutdown_timeout.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, logger *zap.Logger) error {
	handler, engine, err := newServer(ctx, cfg, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("api", cfg.API.BaseURL))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return nil
	})

	switch {
	case cfg.Server.Watch && cfg.Server.Templates != "":
		watcher := templatewatch.New(cfg.Server.Templates, engine, templatewatch.WithLogger(logger))
		g.Go(func() error { return watcher.Run(gctx) })
	case cfg.Server.Watch:
		logger.Warn("serve: --watch needs a templates directory, not watching")
	}

	return g.Wait()
}

// newServer wires the page, the contract document served beside it and the
// health check.
func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (http.Handler, *gotemplate.Engine, error) {
	doc, err := contract.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	apiClient := newClient(cfg)
	if got := apiClient.Options().Path; got != doc.Path {
		logger.Warn("serve: api path differs from contract", zap.String("path", got), zap.String("contract", doc.Path))
	}

	engineOpts := []gotemplate.Option{gotemplate.WithFS(bfhlform.Templates())}
	if cfg.Server.Templates != "" {
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.Server.Templates))
	}
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, nil, err
	}

	page := bfhlform.New(
		bfhlform.WithTitle(cfg.Page.Title),
		bfhlform.WithIntro(cfg.Page.Intro),
		bfhlform.WithMaxUploadBytes(cfg.Page.MaxUploadBytes),
		bfhlform.WithTheme(themeConfig(cfg.Theme)),
		bfhlform.WithSubmitter(apiClient),
		bfhlform.WithRenderer(engine),
		bfhlform.WithLogger(logger),
	)

	mux := http.NewServeMux()
	if _, err := page.RegisterRoutes(mux, ""); err != nil {
		return nil, nil, err
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux, engine, nil
}
