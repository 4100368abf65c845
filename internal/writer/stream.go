package writer

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/pochkachaiki/datamaker/internal/models/device"
)

// Stream writes one JSON record per line to an io.Writer.
type Stream struct {
	publisher
	out io.Writer
	seq int
}

func NewStream(out io.Writer, opts ...Option) *Stream {
	s := &Stream{out: out}
	s.setup("stdout", opts)
	return s
}

func (s *Stream) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen() {
		s.begin()
	}
	return nil
}

func (s *Stream) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen() {
		return device.ErrWriterClosed
	}

	start := time.Now()
	s.seq++
	_, err = s.out.Write(append(body, '\n'))
	s.report(r.DeviceID, strconv.Itoa(s.seq), start, err)
	return nil
}

func (s *Stream) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.end(ctx)
	return err
}
