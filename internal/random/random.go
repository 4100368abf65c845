// Package random provides the random source shared by the model pool and the
// record factory.
package random

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Source supplies uniformly distributed values and fake descriptive labels.
type Source interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
	// IntRange returns a value in [min, max). max must be greater than min.
	IntRange(min, max int) int
	// Float64Range returns a value in [min, max].
	Float64Range(min, max float64) float64
	// Past returns a time before now, at most within earlier.
	Past(now time.Time, within time.Duration) time.Time
	// Brand returns a vehicle brand name.
	Brand() string
	// Name returns a person-like name.
	Name() string
}

// Faker is a Source backed by gofakeit. It is safe for concurrent use.
type Faker struct {
	mu sync.Mutex
	f  *gofakeit.Faker
}

// New returns a Faker seeded with seed. A zero seed picks a random seed.
func New(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (s *Faker) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.IntRange(0, n-1)
}

func (s *Faker) IntRange(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.IntRange(min, max-1)
}

func (s *Faker) Float64Range(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Float64Range(min, max)
}

func (s *Faker) Past(now time.Time, within time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := int(within / time.Millisecond)
	if ms < 1 {
		return now
	}
	return now.Add(-time.Duration(s.f.IntRange(1, ms)) * time.Millisecond)
}

func (s *Faker) Brand() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.CarMaker()
}

func (s *Faker) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Name()
}
