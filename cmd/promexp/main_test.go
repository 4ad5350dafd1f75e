package main

import (
	"testing"
	"time"

	"github.com/calmh/baropi/baro"
	"github.com/stretchr/testify/assert"
)

type fixedReading struct {
	r   baro.Reading
	err error
}

func (f fixedReading) Latest() (baro.Reading, error) { return f.r, f.err }

func TestLatest(t *testing.T) {
	_, ok := latest(baro.NewSampler(nil, time.Second))
	assert.False(t, ok, "no reading before the first cycle")

	want := baro.Reading{Pressure: 101325, Temperature: 2100, Time: time.Unix(1700000000, 0)}
	r, ok := latest(fixedReading{r: want})
	assert.True(t, ok)
	assert.Equal(t, want, r)

	// A failed cycle keeps the last good reading.
	r, ok = latest(fixedReading{r: want, err: baro.ErrNoReading})
	assert.True(t, ok)
	assert.Equal(t, want, r)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 21.35, round(21.3456, 2))
	assert.Equal(t, 101325.0, round(101325.04, 1))
}
