package writer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	vkit "cloud.google.com/go/pubsub/apiv1"
	"github.com/googleapis/gax-go/v2"
	"github.com/pochkachaiki/datamaker/internal/models/device"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

const (
	initialRetryDelay    = 100 * time.Millisecond
	retryDelayMultiplier = 2.0
	maxRetryDelay        = 3 * time.Second
	totalPublishTimeout  = 30 * time.Second
)

var retryableCodes = []codes.Code{
	codes.Aborted,
	codes.Canceled,
	codes.Internal,
	codes.ResourceExhausted,
	codes.Unknown,
	codes.Unavailable,
	codes.DeadlineExceeded,
}

// PubSub publishes records to a Google Cloud Pub/Sub topic.
type PubSub struct {
	publisher
	projectID string
	topicID   string
	client    *pubsub.Client
	topic     *pubsub.Topic

	clientOpts []option.ClientOption
}

func NewPubSub(projectID, topicID string, opts ...Option) *PubSub {
	w := &PubSub{projectID: projectID, topicID: topicID}
	w.setup("pubsub", opts)
	return w
}

func publishRetry() gax.Retryer {
	return gax.OnCodes(retryableCodes, gax.Backoff{
		Initial:    initialRetryDelay,
		Max:        maxRetryDelay,
		Multiplier: retryDelayMultiplier,
	})
}

func (w *PubSub) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isOpen() {
		return nil
	}

	client, err := pubsub.NewClientWithConfig(ctx, w.projectID, &pubsub.ClientConfig{
		PublisherCallOptions: &vkit.PublisherCallOptions{
			Publish: []gax.CallOption{gax.WithRetry(publishRetry)},
		},
	}, w.clientOpts...)
	if err != nil {
		return fmt.Errorf("pubsub client: %w", err)
	}

	topic := client.Topic(w.topicID)
	topic.PublishSettings.Timeout = totalPublishTimeout

	w.client, w.topic = client, topic
	w.begin()
	return nil
}

func (w *PubSub) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpen() {
		return device.ErrWriterClosed
	}

	res := w.topic.Publish(w.ctx, &pubsub.Message{Data: body})
	return w.async(ctx, r.DeviceID, res.Get)
}

func (w *PubSub) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wasOpen, err := w.end(ctx)
	if !wasOpen {
		return nil
	}
	w.topic.Stop()
	return errors.Join(err, w.client.Close())
}
