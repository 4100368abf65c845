package writer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pochkachaiki/datamaker/internal/models/device"
	"github.com/redis/go-redis/v9"
)

// Redis publishes records on a pub/sub channel. The message id is the number
// of subscribers that received it.
type Redis struct {
	publisher
	addr    string
	channel string
	rdb     *redis.Client
}

func NewRedis(addr, channel string, opts ...Option) *Redis {
	w := &Redis{addr: addr, channel: channel}
	w.setup("redis", opts)
	return w
}

func (w *Redis) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isOpen() {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: w.addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	w.rdb = rdb
	w.begin()
	return nil
}

func (w *Redis) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpen() {
		return device.ErrWriterClosed
	}

	rdb := w.rdb
	return w.async(ctx, r.DeviceID, func(ctx context.Context) (string, error) {
		n, err := rdb.Publish(ctx, w.channel, body).Result()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	})
}

func (w *Redis) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wasOpen, err := w.end(ctx)
	if !wasOpen {
		return nil
	}
	if cerr := w.rdb.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
