package writer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pochkachaiki/datamaker/internal/models/device"
	"github.com/pochkachaiki/datamaker/internal/queue"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errNack = errors.New("broker rejected message")

// Rabbit publishes records to a durable RabbitMQ queue and waits for
// publisher confirms in the background.
type Rabbit struct {
	publisher
	uri   string
	queue string
	conn  *amqp.Connection
	ch    *amqp.Channel
}

func NewRabbit(uri, queueName string, opts ...Option) *Rabbit {
	w := &Rabbit{uri: uri, queue: queueName}
	w.setup("rabbitmq", opts)
	return w
}

func (w *Rabbit) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isOpen() {
		return nil
	}

	conn, err := queue.NewRabbitConnection(w.uri)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	ch, err := queue.OpenConfirmChannel(conn, w.queue)
	if err != nil {
		conn.Close()
		return err
	}

	w.conn, w.ch = conn, ch
	w.begin()
	return nil
}

func (w *Rabbit) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpen() {
		return device.ErrWriterClosed
	}

	start := time.Now()
	dc, err := w.ch.PublishWithDeferredConfirmWithContext(ctx, "", w.queue, false, false, amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    r.DeviceID,
		Timestamp:    r.Timestamp,
		Body:         body,
	})
	if err != nil {
		w.report(r.DeviceID, "", start, err)
		return nil
	}

	return w.async(ctx, r.DeviceID, func(ctx context.Context) (string, error) {
		ok, err := dc.WaitContext(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errNack
		}
		return strconv.FormatUint(dc.DeliveryTag, 10), nil
	})
}

func (w *Rabbit) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wasOpen, err := w.end(ctx)
	if !wasOpen {
		return nil
	}
	return errors.Join(err, w.ch.Close(), w.conn.Close())
}
