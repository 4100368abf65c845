package device

import (
	"errors"
	"time"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrSerialization        = errors.New("record serialization failed")
	ErrWriterClosed         = errors.New("writer is not open")
)

// DeviceData is fixed per model.
type DeviceData struct {
	Latitude       float64   `json:"latitude" bson:"latitude"`
	Longitude      float64   `json:"longitude" bson:"longitude"`
	ProductionDate time.Time `json:"production_date" bson:"production_date"`
	Floor          int       `json:"floor" bson:"floor"`
	Room           string    `json:"room" bson:"room"`
}

type Status struct {
	Battery float64 `json:"battery" bson:"battery"`
	Network float64 `json:"network" bson:"network"`
}

// SensorMetadata is fixed per model.
type SensorMetadata struct {
	Signal int    `json:"signal" bson:"signal"`
	Status Status `json:"status" bson:"status"`
}

// SensorData is generated fresh for every record.
type SensorData struct {
	Temperature int `json:"temperature" bson:"temperature"`
	Humidity    int `json:"humidity" bson:"humidity"`
	Occupancy   int `json:"occupancy" bson:"occupancy"`
	Occupied    int `json:"occupied" bson:"occupied"`
	Speed       int `json:"speed" bson:"speed"`
}

// Model is a device kind shared by many records. Models are never mutated
// after the pool is built.
type Model struct {
	ModelID        string
	DeviceType     string
	Version        string
	DeviceData     DeviceData
	SensorMetadata SensorMetadata
}

// Record is one simulated telemetry event.
type Record struct {
	DeviceID       string         `json:"deviceId" bson:"device_id"`
	DeviceType     string         `json:"deviceType" bson:"device_type"`
	Version        string         `json:"version" bson:"version"`
	Timestamp      time.Time      `json:"timestamp" bson:"timestamp"`
	Retry          int            `json:"retry" bson:"retry"`
	DeviceData     DeviceData     `json:"deviceData" bson:"device_data"`
	SensorData     SensorData     `json:"sensorData" bson:"sensor_data"`
	SensorMetadata SensorMetadata `json:"sensorMetadata" bson:"sensor_metadata"`
}
