package config

import (
	"fmt"
	"strconv"
	"time"
)

// Options is the run policy of one worker.
type Options struct {
	WorkerIndex  int
	WorkerNumber int
	Interval     time.Duration
	// LoopNumber is the number of iterations after the first one. Zero loops
	// until cancelled.
	LoopNumber   int
	ModelNumber  int
	DeviceNumber int
}

// NewOptions validates the run policy. interval is in milliseconds.
func NewOptions(workerIndex, workerNumber, interval, loopNumber, modelNumber, deviceNumber int) (Options, error) {
	switch {
	case workerIndex < 0:
		return Options{}, invalid("worker index was %d", workerIndex)
	case workerNumber <= 0:
		return Options{}, invalid("worker number was %d", workerNumber)
	case workerIndex >= workerNumber:
		return Options{}, invalid("worker index %d is not below worker number %d", workerIndex, workerNumber)
	case interval < 0:
		return Options{}, invalid("interval was %d", interval)
	case loopNumber < 0:
		return Options{}, invalid("loop number was %d", loopNumber)
	case modelNumber <= 0:
		return Options{}, invalid("model number was %d", modelNumber)
	case deviceNumber <= 0:
		return Options{}, invalid("device number was %d", deviceNumber)
	}

	return Options{
		WorkerIndex:  workerIndex,
		WorkerNumber: workerNumber,
		Interval:     time.Duration(interval) * time.Millisecond,
		LoopNumber:   loopNumber,
		ModelNumber:  modelNumber,
		DeviceNumber: deviceNumber,
	}, nil
}

// WorkerID pads the worker index to the digit count of the worker number.
func (o Options) WorkerID() string {
	return fmt.Sprintf("%0*d", len(strconv.Itoa(o.WorkerNumber)), o.WorkerIndex)
}
