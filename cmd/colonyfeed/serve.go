package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"colonyfeed/internal/config"
	"colonyfeed/internal/feed"
	"colonyfeed/internal/metrics"
	"colonyfeed/internal/output"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New("colonyfeed")
	chainClient, pipeline, err := connect(ctx, cfg.Config, m, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	mux := http.NewServeMux()
	mux.Handle("/events", eventsHandler(pipeline, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.Metrics {
		mux.Handle("/metrics", m.Handler())
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve start",
			zap.String("listen", cfg.Listen),
			zap.String("colony", cfg.ColonyAddress.Hex()),
			zap.Bool("metrics", cfg.Metrics),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("serve stop")
	return server.Shutdown(shutdownCtx)
}

// eventsHandler recomputes the feed on every request.
func eventsHandler(pipeline *feed.Pipeline, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		format := output.FormatJSON
		if name := r.URL.Query().Get("format"); name != "" {
			parsed, err := output.ParseFormat(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			format = parsed
		}

		records, err := pipeline.Events(r.Context())
		if err != nil {
			logger.Warn("events request failed", zap.Error(err))
			http.Error(w, "feed unavailable", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", contentType(format))
		if err := output.Write(w, format, records); err != nil {
			logger.Warn("write events response", zap.Error(err))
		}
	})
}

func contentType(format output.Format) string {
	switch format {
	case output.FormatJSON:
		return "application/json"
	case output.FormatJSONL:
		return "application/x-ndjson"
	case output.FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}
