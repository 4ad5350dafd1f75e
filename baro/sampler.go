package baro

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var ErrNoReading = errors.New("no reading yet")

// DefaultInterval replaces a non-positive sampling interval.
const DefaultInterval = time.Second

// Sampler owns a Sensor and runs measurement cycles on an interval. It is
// the only caller of the sensor; the latest reading is available to any
// number of goroutines through Latest.
type Sampler struct {
	sensor Sensor
	intv   time.Duration

	// wait blocks for the conversion latency; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time

	mut      sync.Mutex
	last     Reading
	err      error
	cycles   int
	failures int
	handlers []func(Reading)
}

func NewSampler(sensor Sensor, intv time.Duration) *Sampler {
	if intv <= 0 {
		intv = DefaultInterval
	}
	return &Sampler{
		sensor: sensor,
		intv:   intv,
		wait:   sleep,
		now:    time.Now,
		err:    ErrNoReading,
	}
}

// OnReading registers fn to be called from the sampling goroutine with every
// successful reading. Register handlers before Serve.
func (s *Sampler) OnReading(fn func(Reading)) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Cycle performs one full measurement: each channel is started, waited out
// and read, then the reading is calculated. The temperature channel is
// skipped when the sensor produces it from the pressure conversion.
func (s *Sampler) Cycle(ctx context.Context) (Reading, error) {
	if !s.sensor.SharedConversion() {
		if err := s.sensor.StartTemperature(); err != nil {
			return Reading{}, fmt.Errorf("start temperature: %w", err)
		}
		if err := s.wait(ctx, s.sensor.TemperatureLatency()); err != nil {
			return Reading{}, err
		}
		if err := s.sensor.ReadTemperature(); err != nil {
			return Reading{}, fmt.Errorf("read temperature: %w", err)
		}
	}

	if err := s.sensor.StartPressure(); err != nil {
		return Reading{}, fmt.Errorf("start pressure: %w", err)
	}
	if err := s.wait(ctx, s.sensor.PressureLatency()); err != nil {
		return Reading{}, err
	}
	if err := s.sensor.ReadPressure(); err != nil {
		return Reading{}, fmt.Errorf("read pressure: %w", err)
	}

	p, t := s.sensor.Calculate()
	return Reading{Pressure: p, Temperature: t, Time: s.now()}, nil
}

// Serve detects the sensor and then samples until ctx is cancelled. Failed
// cycles are logged and counted; the next tick tries again.
func (s *Sampler) Serve(ctx context.Context) error {
	if err := s.sensor.Detect(); err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	ticker := time.NewTicker(s.intv)
	defer ticker.Stop()
	for {
		r, err := s.Cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Println("sample:", err)
		}
		s.update(r, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Sampler) update(r Reading, err error) {
	s.mut.Lock()
	s.cycles++
	if err != nil {
		s.failures++
		s.err = err
		s.mut.Unlock()
		return
	}
	s.last = r
	s.err = nil
	handlers := s.handlers
	s.mut.Unlock()

	for _, fn := range handlers {
		fn(r)
	}
}

// Latest returns the most recent reading, and the error of the most recent
// cycle if it failed.
func (s *Sampler) Latest() (Reading, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.last, s.err
}

// Stats returns the number of cycles run and how many of them failed.
func (s *Sampler) Stats() (cycles, failures int) {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.cycles, s.failures
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
