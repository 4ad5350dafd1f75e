// Package baro is the generic barometer capability seen by the flight
// controller, and a sampler that runs the staged conversion cycle on behalf
// of a caller.
package baro

import (
	"time"

	"github.com/calmh/baropi/bmp280"
)

// Sensor is a barometer with separate temperature and pressure conversion
// channels. Each channel is started, left alone for its latency, then read.
// Calculate turns the last readings into physical units.
type Sensor interface {
	Detect() error

	StartTemperature() error
	ReadTemperature() error
	TemperatureLatency() time.Duration

	StartPressure() error
	ReadPressure() error
	PressureLatency() time.Duration

	// SharedConversion is true when the temperature channel is a no-op and
	// temperature is collected by the pressure channel.
	SharedConversion() bool

	Calculate() (pressurePa, temperatureCenti int32)
}

var _ Sensor = (*bmp280.Dev)(nil)

// Reading is one compensated measurement.
type Reading struct {
	Pressure    int32     `json:"pressure_pa"`  // Pa
	Temperature int32     `json:"temp_centi_c"` // 0.01 °C
	Time        time.Time `json:"time"`
}

func (r Reading) PressureHPa() float64 {
	return float64(r.Pressure) / 100
}

func (r Reading) Celsius() float64 {
	return float64(r.Temperature) / 100
}
