// Package writer publishes device records to a message broker.
//
// Publishing is fire-and-forget: Write encodes the record and starts the
// publish, the broker outcome is delivered to a ResultHandler once known.
// Close waits for in-flight publishes until its context expires.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	config "github.com/pochkachaiki/datamaker/internal/config/data_maker"
	"github.com/pochkachaiki/datamaker/internal/metrics"
	"github.com/pochkachaiki/datamaker/internal/models/device"
)

const defaultMaxInFlight = 64

type Writer interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, r device.Record) error
	Close(ctx context.Context) error
}

// ResultHandler receives the outcome of a single publish.
type ResultHandler func(sink, deviceID, messageID string, elapsed time.Duration, err error)

type Option func(*publisher)

func WithResultHandler(h ResultHandler) Option {
	return func(p *publisher) {
		p.onResult = h
	}
}

// WithMaxInFlight caps the number of publishes awaiting a broker outcome.
// Write blocks once the cap is reached.
func WithMaxInFlight(n int) Option {
	return func(p *publisher) {
		if n > 0 {
			p.slots = make(chan struct{}, n)
		}
	}
}

// New returns the writer selected by cfg.Sink.
func New(cfg *config.Config, workerID string, opts ...Option) (Writer, error) {
	switch cfg.Sink {
	case config.SinkPubSub:
		return NewPubSub(cfg.ProjectID, cfg.TopicID, opts...), nil
	case config.SinkRabbitMQ:
		return NewRabbit(cfg.RabbitURI, cfg.TopicID, opts...), nil
	case config.SinkMQTT:
		clientID := cfg.MQTTClientID
		if clientID == "" {
			clientID = "data-maker-" + workerID
		}
		return NewMQTT(cfg.MQTTBroker, clientID, cfg.TopicID, opts...), nil
	case config.SinkRedis:
		return NewRedis(cfg.RedisAddr, cfg.TopicID, opts...), nil
	case config.SinkMongoDB:
		return NewMongo(cfg.MongoURI, cfg.MongoDB, cfg.TopicID, opts...), nil
	case config.SinkHTTP:
		return NewHTTP(cfg.HTTPURL, opts...), nil
	case config.SinkStdout:
		return NewStream(os.Stdout, opts...), nil
	}
	return nil, fmt.Errorf("%w: unknown sink %q", device.ErrInvalidConfiguration, cfg.Sink)
}

// Encode returns the wire form of r.
func Encode(r device.Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", device.ErrSerialization, r.DeviceID, err)
	}
	return b, nil
}

// LogResult logs the publish outcome and records it in the metrics.
func LogResult(sink, deviceID, messageID string, elapsed time.Duration, err error) {
	metrics.PublishDuration.WithLabelValues(sink).Observe(elapsed.Seconds())
	if err != nil {
		metrics.Published.WithLabelValues(sink, metrics.ResultFailure).Inc()
		slog.Error("publish error", "sink", sink, "device_id", deviceID, "err", err)
		return
	}
	metrics.Published.WithLabelValues(sink, metrics.ResultSuccess).Inc()
	slog.Debug("published record", "sink", sink, "device_id", deviceID, "message_id", messageID)
}

// publisher holds the state shared by every sink: the open flag, the
// lifetime context of background publishes and the in-flight set.
type publisher struct {
	sink     string
	onResult ResultHandler
	slots    chan struct{}

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	pending *sync.WaitGroup
}

func (p *publisher) setup(sink string, opts []Option) {
	p.sink = sink
	p.onResult = LogResult
	for _, opt := range opts {
		opt(p)
	}
	if p.slots == nil {
		p.slots = make(chan struct{}, defaultMaxInFlight)
	}
}

// begin marks the publisher open. Every open gets its own in-flight set so a
// drain that timed out never races with new publishes. Callers hold p.mu.
func (p *publisher) begin() {
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.pending = &sync.WaitGroup{}
}

func (p *publisher) isOpen() bool {
	return p.cancel != nil
}

// async runs publish in the background and reports its result. It blocks
// while the in-flight limit is reached. Callers hold p.mu.
func (p *publisher) async(ctx context.Context, deviceID string, publish func(ctx context.Context) (string, error)) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	life := p.ctx
	start := time.Now()
	p.pending.Go(func() {
		defer func() { <-p.slots }()
		id, err := publish(life)
		p.onResult(p.sink, deviceID, id, time.Since(start), err)
	})
	return nil
}

func (p *publisher) report(deviceID, messageID string, start time.Time, err error) {
	p.onResult(p.sink, deviceID, messageID, time.Since(start), err)
}

// end waits for in-flight publishes until ctx is done, then cancels the rest.
// Callers hold p.mu. It reports whether the publisher was open.
func (p *publisher) end(ctx context.Context) (bool, error) {
	if !p.isOpen() {
		return false, nil
	}

	pending := p.pending
	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("drain %s publishes: %w", p.sink, ctx.Err())
	}

	p.cancel()
	p.cancel = nil
	return true, err
}
