package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	config "github.com/pochkachaiki/datamaker/internal/config/data_maker"
	"github.com/pochkachaiki/datamaker/internal/maker"
	"github.com/pochkachaiki/datamaker/internal/random"
	"github.com/pochkachaiki/datamaker/internal/record"
	"github.com/pochkachaiki/datamaker/internal/writer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

func main() {
	cfg := config.MustLoad()

	// records go to stdout for the stdout sink, keep logs apart
	logOut := io.Writer(os.Stdout)
	if cfg.Sink == config.SinkStdout {
		logOut = os.Stderr
	}
	slog.SetDefault(setupLogger(logOut, cfg.Level()))

	opts, err := cfg.Options()
	if err != nil {
		slog.Error("invalid options", "err", err)
		os.Exit(1)
	}
	workerID := opts.WorkerID()

	slog.Info("starting data maker", "worker_id", workerID, "worker_number", opts.WorkerNumber,
		"model_number", opts.ModelNumber, "device_number", opts.DeviceNumber, "sink", cfg.Sink,
		"topic", cfg.TopicID, "metrics_addr", cfg.MetricsAddr)

	factory, err := record.NewFactory(random.New(cfg.Seed), record.Options{
		WorkerID:     workerID,
		ModelNumber:  opts.ModelNumber,
		DeviceNumber: opts.DeviceNumber,
	})
	if err != nil {
		slog.Error("record factory error", "err", err)
		os.Exit(1)
	}

	w, err := writer.New(cfg, workerID)
	if err != nil {
		slog.Error("writer error", "err", err)
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				slog.Error("metrics server error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutdown signal received")
		cancel()
	}()

	m := maker.New(opts, factory, w, cfg.DrainTimeout)
	if err := m.Run(ctx); err != nil {
		slog.Error("data maker failed", "err", err)
		os.Exit(1)
	}

	slog.Info("data maker stopped")
}
