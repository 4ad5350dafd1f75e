package main

import (
	"sync"
	"time"

	"github.com/calmh/baropi/baro"
)

// Window keeps the readings of the last period and summarizes them, so a
// scrape sees a smoothed pressure and how much it moved.
type Window struct {
	mut      sync.Mutex
	readings []baro.Reading
}

func NewWindow(total, intv time.Duration) *Window {
	size := int(total / intv)
	if size < 1 {
		size = 1
	}
	return &Window{readings: make([]baro.Reading, 0, size)}
}

func (w *Window) Add(r baro.Reading) {
	w.mut.Lock()
	defer w.mut.Unlock()
	if len(w.readings) < cap(w.readings) {
		w.readings = append(w.readings, r)
	} else {
		copy(w.readings, w.readings[1:])
		w.readings[len(w.readings)-1] = r
	}
}

// MeanPressure returns the average pressure in Pa over the window.
func (w *Window) MeanPressure() float64 {
	w.mut.Lock()
	defer w.mut.Unlock()
	if len(w.readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range w.readings {
		sum += float64(r.Pressure)
	}
	return sum / float64(len(w.readings))
}

// Spread returns max - min pressure in Pa over the window.
func (w *Window) Spread() float64 {
	w.mut.Lock()
	defer w.mut.Unlock()
	if len(w.readings) == 0 {
		return 0
	}
	min := w.readings[0].Pressure
	max := w.readings[0].Pressure
	for i := 1; i < len(w.readings); i++ {
		if w.readings[i].Pressure < min {
			min = w.readings[i].Pressure
		}
		if w.readings[i].Pressure > max {
			max = w.readings[i].Pressure
		}
	}
	return float64(max - min)
}
