package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"speechd/internal/config"
	"speechd/internal/httpapi"
	"speechd/internal/logging"
	"speechd/internal/manager"
	"speechd/internal/registry"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP server",
		Example: "  speechd serve --addr :8000 --models-dir ~/.cache/speechd/models --max-parallel-transcriptions 4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this file, rotated by size")
	f.IntVar(&opts.maxParallel, "max-parallel-transcriptions", -1, "report unhealthy at this many active transcriptions (-1 = from config, unset disables)")
	f.IntVar(&opts.loadTimeout, "load-timeout-seconds", 0, "cap on how long POST /api/ps waits for a load (0 = no cap)")
	f.Int64Var(&opts.maxUpload, "max-upload-bytes", 0, "maximum transcription upload size (default 25 MiB)")
	f.BoolVar(&opts.corsEnabled, "cors", false, "enable CORS")
	f.StringVar(&opts.corsOrigins, "cors-origins", "", "comma separated allowed CORS origins")
	f.IntVar(&opts.shutdownSecs, "shutdown-timeout-seconds", 10, "grace period for in-flight requests on shutdown")
	return cmd
}

func runServe(ctx context.Context, opts *options) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
		Console:   opts.console,
	}, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	loader, err := registry.NewFileLoader(cfg.ModelsDir, logger)
	if err != nil {
		return err
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Loader:    loader,
		Publisher: httpapi.MetricsPublisher{},
		Logger:    &logger,
	})

	applyHTTPConfig(cfg, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("models_dir", loader.Root()).
			Str("max_upload", humanize.IBytes(uint64(cfg.MaxUploadBytes))).
			Msg("speechd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.shutdownSecs)*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		err := srv.Shutdown(shutdownCtx)
		if cerr := mgr.Close(shutdownCtx); cerr != nil {
			logger.Warn().Err(cerr).Msg("unload on shutdown")
		}
		return err
	})
	if opts.configPath != "" {
		w, err := config.NewWatcher(opts.configPath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			g.Go(func() error {
				return w.Run(gctx, func(c config.Config) { reload(opts, c, logger) })
			})
		}
	}
	return g.Wait()
}

// applyHTTPConfig pushes startup configuration into the HTTP layer.
func applyHTTPConfig(cfg config.Config, logger zerolog.Logger) {
	httpapi.SetLogger(logger)
	httpapi.SetRequestLogLevel(cfg.LogLevel)
	httpapi.SetMaxUploadBytes(cfg.MaxUploadBytes)
	httpapi.SetLoadTimeoutSeconds(int64(cfg.LoadTimeoutSeconds))
	httpapi.SetMaxParallelTranscriptions(cfg.MaxParallelTranscriptions)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)
}

// reload applies the settings that may change while serving: the admission
// limit and the log level (process and per-request default). Flags still take
// precedence over the file.
func reload(opts *options, c config.Config, logger zerolog.Logger) {
	opts.apply(&c)
	c.ApplyDefaults()
	httpapi.SetMaxParallelTranscriptions(c.MaxParallelTranscriptions)
	if err := logging.SetLevel(c.LogLevel); err != nil {
		logger.Warn().Err(err).Msg("keeping previous log level")
	} else {
		httpapi.SetRequestLogLevel(c.LogLevel)
	}
	ev := logger.Info().Str("log_level", c.LogLevel)
	if c.MaxParallelTranscriptions != nil {
		ev = ev.Int("max_parallel_transcriptions", *c.MaxParallelTranscriptions)
	}
	ev.Msg("settings reloaded")
}
