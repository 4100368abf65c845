package maker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/pochkachaiki/datamaker/internal/config/data_maker"
	"github.com/pochkachaiki/datamaker/internal/metrics"
	"github.com/pochkachaiki/datamaker/internal/models/device"
	"github.com/pochkachaiki/datamaker/internal/writer"
)

// RecordFactory produces one record per call.
type RecordFactory interface {
	NewRecord() device.Record
}

type Maker struct {
	opts         config.Options
	factory      RecordFactory
	writer       writer.Writer
	drainTimeout time.Duration
}

func New(opts config.Options, factory RecordFactory, w writer.Writer, drainTimeout time.Duration) *Maker {
	return &Maker{
		opts:         opts,
		factory:      factory,
		writer:       w,
		drainTimeout: drainTimeout,
	}
}

// Run opens the writer and writes records until the loop policy is exhausted
// or ctx is cancelled. The writer is closed before Run returns.
func (m *Maker) Run(ctx context.Context) (err error) {
	if err := m.writer.Open(ctx); err != nil {
		return fmt.Errorf("open writer: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), m.drainTimeout)
		defer cancel()
		if cerr := m.writer.Close(closeCtx); cerr != nil {
			slog.Error("close writer error", "err", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	slog.InfoContext(ctx, "maker started", "worker_index", m.opts.WorkerIndex,
		"interval", m.opts.Interval, "loop_number", m.opts.LoopNumber)

	var pause *time.Timer
	if m.opts.Interval > 0 {
		pause = time.NewTimer(m.opts.Interval)
		pause.Stop()
		defer pause.Stop()
	}

	for loops := 0; ; loops++ {
		r := m.factory.NewRecord()
		metrics.RecordsGenerated.Inc()

		if err := m.writer.Write(ctx, r); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return m.stopped(ctx, loops)
			}
			if !errors.Is(err, device.ErrSerialization) {
				return fmt.Errorf("write record: %w", err)
			}
			metrics.SerializationErrors.Inc()
			slog.ErrorContext(ctx, "write error", "device_id", r.DeviceID, "err", err)
		}

		if !m.needLoop(loops) {
			slog.InfoContext(ctx, "maker finished", "records", loops+1)
			return nil
		}

		if ctx.Err() != nil {
			return m.stopped(ctx, loops)
		}
		if pause == nil {
			continue
		}

		// the pause starts after the write returned
		pause.Reset(m.opts.Interval)
		select {
		case <-ctx.Done():
			return m.stopped(ctx, loops)
		case <-pause.C:
		}
	}
}

func (m *Maker) needLoop(loops int) bool {
	return m.opts.LoopNumber == 0 || loops < m.opts.LoopNumber
}

func (m *Maker) stopped(ctx context.Context, loops int) error {
	slog.InfoContext(ctx, "maker stopped", "records", loops+1)
	return nil
}
