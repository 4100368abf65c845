package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/pochkachaiki/datamaker/internal/models/device"
	"github.com/pochkachaiki/datamaker/internal/random"
)

const (
	DefaultWorkerID     = "0"
	DefaultDeviceNumber = 1000
	DefaultNumberFormat = "S%08d"

	deviceFormat    = "D%s-%s-%s"
	timestampWindow = 5 * time.Hour
	maxRetry        = 5
)

// Options configures a Factory. Zero values select the defaults. Models, when
// non-nil, is used as the pool instead of building ModelNumber new models.
type Options struct {
	WorkerID     string
	Models       []device.Model
	ModelNumber  int
	DeviceNumber int
	NumberFormat string
}

// Factory samples records against a fixed model pool.
//
// The pool is read-only after construction. Concurrent NewRecord calls are
// safe as long as the random source is.
type Factory struct {
	src          random.Source
	workerID     string
	models       []device.Model
	deviceNumber int
	numberFormat string
}

// NewFactory validates opts, applies defaults and builds the model pool if
// none is supplied.
func NewFactory(src random.Source, opts Options) (*Factory, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: random source is required", device.ErrInvalidConfiguration)
	}

	if opts.WorkerID == "" {
		opts.WorkerID = DefaultWorkerID
	}

	switch {
	case opts.DeviceNumber < 0:
		return nil, fmt.Errorf("%w: device number must be positive, got %d", device.ErrInvalidConfiguration, opts.DeviceNumber)
	case opts.DeviceNumber == 0:
		opts.DeviceNumber = DefaultDeviceNumber
	}

	if opts.NumberFormat == "" {
		opts.NumberFormat = DefaultNumberFormat
	}
	if s := fmt.Sprintf(opts.NumberFormat, 0); strings.Contains(s, "%!") {
		return nil, fmt.Errorf("%w: bad device number format %q", device.ErrInvalidConfiguration, opts.NumberFormat)
	}

	models := opts.Models
	if models != nil {
		if len(models) == 0 {
			return nil, fmt.Errorf("%w: model list is empty", device.ErrInvalidConfiguration)
		}
		models = append([]device.Model(nil), models...)
	} else {
		n := opts.ModelNumber
		if n == 0 {
			n = DefaultModelNumber
		}
		var err error
		if models, err = BuildModels(src, n); err != nil {
			return nil, err
		}
	}

	return &Factory{
		src:          src,
		workerID:     opts.WorkerID,
		models:       models,
		deviceNumber: opts.DeviceNumber,
		numberFormat: opts.NumberFormat,
	}, nil
}

// NewRecord samples a model uniformly and returns a fresh record for it.
func (f *Factory) NewRecord() device.Record {
	m := f.models[f.src.IntN(len(f.models))]
	serial := fmt.Sprintf(f.numberFormat, f.src.IntN(f.deviceNumber))

	return device.Record{
		DeviceID:       fmt.Sprintf(deviceFormat, f.workerID, m.ModelID, serial),
		DeviceType:     m.DeviceType,
		Version:        m.Version,
		Timestamp:      f.src.Past(time.Now(), timestampWindow).UTC(),
		Retry:          f.src.IntN(maxRetry),
		DeviceData:     m.DeviceData,
		SensorData:     f.sensorData(),
		SensorMetadata: m.SensorMetadata,
	}
}

func (f *Factory) sensorData() device.SensorData {
	return device.SensorData{
		Temperature: f.src.IntRange(-30, 50),
		Humidity:    f.src.IntN(100),
		Occupancy:   f.src.IntN(100),
		Occupied:    f.src.IntN(2),
		Speed:       f.src.IntN(400),
	}
}

// Models returns a copy of the pool.
func (f *Factory) Models() []device.Model {
	return append([]device.Model(nil), f.models...)
}

func (f *Factory) WorkerID() string {
	return f.workerID
}
