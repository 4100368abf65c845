package writer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pochkachaiki/datamaker/internal/models/device"
)

const (
	contentType = "application/json"
	httpTimeout = 5 * time.Second
)

// HTTP posts every record to a collector endpoint.
type HTTP struct {
	publisher
	url    string
	client *http.Client
}

func NewHTTP(url string, opts ...Option) *HTTP {
	h := &HTTP{url: url}
	h.setup("http", opts)
	return h
}

func (h *HTTP) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.isOpen() {
		return nil
	}
	h.client = &http.Client{Timeout: httpTimeout}
	h.begin()
	return nil
}

func (h *HTTP) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.isOpen() {
		return device.ErrWriterClosed
	}

	client := h.client
	return h.async(ctx, r.DeviceID, func(ctx context.Context) (string, error) {
		return send(ctx, client, h.url, body)
	})
}

func (h *HTTP) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.end(ctx)
	return err
}

// send posts one encoded record and returns the response status as message id.
func send(ctx context.Context, client *http.Client, url string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Status, nil
}
