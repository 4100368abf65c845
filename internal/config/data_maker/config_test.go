package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/pochkachaiki/datamaker/internal/models/device"
)

func TestWorkerIDWidth(t *testing.T) {
	cases := []struct {
		index, number int
		want          string
	}{
		{0, 1, "0"},
		{5, 9, "5"},
		{3, 10, "03"},
		{3, 12, "03"},
		{42, 99, "42"},
		{7, 100, "007"},
		{123, 1000, "0123"},
	}

	for _, c := range cases {
		is := is.New(t)
		opts, err := NewOptions(c.index, c.number, 0, 0, 10, 1000)
		is.NoErr(err)
		is.Equal(opts.WorkerID(), c.want)
	}
}

func TestNewOptionsRejectsOutOfBounds(t *testing.T) {
	cases := map[string][6]int{
		"negative worker index":  {-1, 1, 0, 0, 10, 1000},
		"zero worker number":     {0, 0, 0, 0, 10, 1000},
		"index beyond number":    {2, 2, 0, 0, 10, 1000},
		"negative interval":      {0, 1, -1, 0, 10, 1000},
		"negative loop number":   {0, 1, 0, -1, 10, 1000},
		"zero model number":      {0, 1, 0, 0, 0, 1000},
		"negative device number": {0, 1, 0, 0, 10, -5},
	}

	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			_, err := NewOptions(a[0], a[1], a[2], a[3], a[4], a[5])
			is.True(errors.Is(err, device.ErrInvalidConfiguration))
		})
	}
}

func TestNewOptionsConvertsInterval(t *testing.T) {
	is := is.New(t)

	opts, err := NewOptions(0, 1, 250, 0, 10, 1000)
	is.NoErr(err)
	is.Equal(opts.Interval, 250*time.Millisecond)
}

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SINK", "stdout")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.WorkerIndex, 0)
	is.Equal(cfg.WorkerNumber, 1)
	is.Equal(cfg.ModelNumber, 10)
	is.Equal(cfg.DeviceNumber, 1000)
	is.Equal(cfg.Interval, 1000)
	is.Equal(cfg.LoopNumber, 3)
	is.Equal(cfg.TopicID, "device-records")
	is.Equal(cfg.DrainTimeout, time.Minute)
}

func TestLoadRequiresBrokerIdentifiers(t *testing.T) {
	is := is.New(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SINK", "pubsub")
	t.Setenv("PROJECT_ID", "")
	t.Setenv("TOPIC_ID", "")

	_, err := Load()
	is.True(errors.Is(err, device.ErrInvalidConfiguration))

	t.Setenv("PROJECT_ID", "demo-project")
	_, err = Load()
	is.True(errors.Is(err, device.ErrInvalidConfiguration))

	t.Setenv("TOPIC_ID", "telemetry")
	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.TopicID, "telemetry")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"worker index":   {"WORKER_INDEX", "-1"},
		"worker number":  {"WORKER_NUMBER", "0"},
		"interval":       {"INTERVAL", "-1"},
		"sink":           {"SINK", "carrier-pigeon"},
		"record factory": {"RECORD_FACTORY", "other"},
		"log level":      {"LOG_LEVEL", "loud"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			t.Setenv("CONFIG_PATH", "")
			t.Setenv("SINK", "stdout")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			is.True(errors.Is(err, device.ErrInvalidConfiguration))
		})
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("sink: http\nhttp_url: http://localhost:8080/records\nworker_number: 12\nworker_index: 3\n"), 0o600)
	is.NoErr(err)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Sink, SinkHTTP)

	opts, err := cfg.Options()
	is.NoErr(err)
	is.Equal(opts.WorkerID(), "03")
}

func TestLoadFailsOnMissingConfigFile(t *testing.T) {
	is := is.New(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	is.True(err != nil)
}

func TestLevelIsParsedFromConfig(t *testing.T) {
	is := is.New(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SINK", "stdout")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Level(), slog.LevelDebug)

	is.Equal((&Config{LogLevel: "WARN"}).Level(), slog.LevelWarn)
	is.Equal((&Config{LogLevel: "bogus"}).Level(), slog.LevelInfo)
}
