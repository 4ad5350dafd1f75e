// Package bmp280 drives a Bosch BMP280 barometric pressure and temperature
// sensor over I2C in forced mode.
//
// The driver never waits. A measurement cycle is StartPressure, a pause of at
// least PressureLatency chosen by the caller, ReadPressure, then Calculate.
package bmp280

import (
	"errors"
	"fmt"
	"time"

	"github.com/calmh/baropi/i2c"
)

var (
	ErrDeviceNotFound = errors.New("bmp280: device not found")
	ErrNotDetected    = errors.New("bmp280: device not detected")
)

// State tracks where the device is in the measurement cycle.
type State int

const (
	StateUninitialized State = iota
	StateNotPresent
	StateCalibrated
	StateMeasuring
	StateDataReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateNotPresent:
		return "not present"
	case StateCalibrated:
		return "calibrated"
	case StateMeasuring:
		return "measuring"
	case StateDataReady:
		return "data ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dev is one BMP280. It is not safe for concurrent use; a single caller
// issues start, read and calculate in turn.
type Dev struct {
	bus     i2c.Bus
	opts    Opts
	ctrl    uint8
	latency time.Duration

	state       State
	initialized bool
	cal         Calibration

	frame      [frameLen]byte
	rawP, rawT int32
}

// New returns a driver for the device on bus. Nothing is sent to the device
// until Detect. A nil opts means DefaultOpts.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Address == 0 {
		o.Address = Address
	}
	if !o.Pressure.valid() {
		return nil, fmt.Errorf("bmp280: invalid pressure oversampling code %d", o.Pressure)
	}
	if !o.Temperature.valid() {
		return nil, fmt.Errorf("bmp280: invalid temperature oversampling code %d", o.Temperature)
	}
	return &Dev{
		bus:     bus,
		opts:    o,
		ctrl:    o.ctrlMeas(),
		latency: time.Duration(o.latencyMicros()) * time.Microsecond,
	}, nil
}

// Detect verifies the chip identity, loads the calibration block and arms the
// first forced conversion. Once it has succeeded further calls return nil
// without bus traffic. A wrong identity returns ErrDeviceNotFound; calling
// Detect again tries again.
func (d *Dev) Detect() error {
	if d.initialized {
		return nil
	}

	r := i2c.NewReader(d.bus, d.opts.Address)
	id := r.Byte(regChipID)
	if err := r.Error(); err != nil {
		return fmt.Errorf("read chip id: %w", err)
	}
	if id != chipID {
		d.state = StateNotPresent
		return fmt.Errorf("%w: chip id 0x%02x at address 0x%02x", ErrDeviceNotFound, id, d.opts.Address)
	}

	block := r.Block(regCalib, calibLen)
	if err := r.Error(); err != nil {
		return fmt.Errorf("read calibration: %w", err)
	}
	cal, err := parseCalibration(block)
	if err != nil {
		return fmt.Errorf("parse calibration: %w", err)
	}
	d.cal = cal

	if err := d.arm(); err != nil {
		return err
	}
	d.initialized = true
	d.state = StateCalibrated
	return nil
}

func (d *Dev) arm() error {
	if err := d.bus.WriteRegister(d.opts.Address, regCtrlMeas, d.ctrl); err != nil {
		return fmt.Errorf("write control register: %w", err)
	}
	return nil
}

func (d *Dev) State() State {
	return d.state
}

// Calibration returns a copy of the loaded calibration, including the TFine
// of the last temperature compensation.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

func (d *Dev) Opts() Opts {
	return d.opts
}

func (d *Dev) String() string {
	return fmt.Sprintf("BMP280{0x%02x, P %s, T %s}", d.opts.Address, d.opts.Pressure, d.opts.Temperature)
}
