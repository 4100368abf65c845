package record

import (
	"fmt"
	"time"

	"github.com/pochkachaiki/datamaker/internal/models/device"
	"github.com/pochkachaiki/datamaker/internal/random"
)

const (
	DefaultModelNumber = 10

	modelFormat   = "M%08d"
	versionFormat = "ver.%d.%d.%d"

	productionWindow = 5 * 365 * 24 * time.Hour
	maxFloor         = 32
)

// BuildModels creates n models with sequential ids starting at M00000001.
func BuildModels(src random.Source, n int) ([]device.Model, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: model number must be positive, got %d", device.ErrInvalidConfiguration, n)
	}

	now := time.Now()
	models := make([]device.Model, 0, n)
	for i := 1; i <= n; i++ {
		models = append(models, newModel(src, i, now))
	}
	return models, nil
}

func newModel(src random.Source, seq int, now time.Time) device.Model {
	return device.Model{
		ModelID:    fmt.Sprintf(modelFormat, seq),
		DeviceType: src.Brand(),
		Version:    fmt.Sprintf(versionFormat, src.IntN(2), src.IntN(2), src.IntN(6)),
		DeviceData: device.DeviceData{
			Latitude:       src.Float64Range(-90, 90),
			Longitude:      src.Float64Range(-180, 180),
			ProductionDate: src.Past(now, productionWindow).UTC(),
			Floor:          src.IntN(maxFloor) + 1,
			Room:           src.Name(),
		},
		SensorMetadata: device.SensorMetadata{
			Signal: src.IntN(2),
			Status: device.Status{
				Battery: src.Float64Range(0, 1),
				Network: src.Float64Range(0, 1),
			},
		},
	}
}
