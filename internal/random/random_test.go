package random

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestSameSeedProducesSameSequence(t *testing.T) {
	is := is.New(t)

	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		is.Equal(a.IntN(1000), b.IntN(1000))
		is.Equal(a.Brand(), b.Brand())
	}
}

func TestIntBoundsAreHalfOpen(t *testing.T) {
	is := is.New(t)

	s := New(7)
	for i := 0; i < 5000; i++ {
		n := s.IntN(3)
		is.True(n >= 0 && n < 3)

		r := s.IntRange(-30, 50)
		is.True(r >= -30 && r < 50)
	}
	is.Equal(s.IntN(1), 0)
}

func TestFloatRange(t *testing.T) {
	is := is.New(t)

	s := New(7)
	for i := 0; i < 5000; i++ {
		f := s.Float64Range(-90, 90)
		is.True(f >= -90 && f <= 90)
	}
}

func TestPastStaysWithinWindow(t *testing.T) {
	is := is.New(t)

	s := New(3)
	now := time.Now()
	for i := 0; i < 1000; i++ {
		p := s.Past(now, 5*time.Hour)
		is.True(p.Before(now))
		is.True(!p.Before(now.Add(-5 * time.Hour)))
	}
}

func TestLabelsAreNotEmpty(t *testing.T) {
	is := is.New(t)

	s := New(0)
	is.True(s.Brand() != "")
	is.True(s.Name() != "")
}
