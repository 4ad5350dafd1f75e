package bmp280

import (
	"fmt"
	"time"
)

// The BMP280 measures temperature as part of every pressure conversion, and
// both land in the one measurement frame. The temperature channel therefore
// has nothing to do: its start and read are no-ops with zero latency and no
// bus traffic, and its data arrives through ReadPressure.

// SharedConversion reports that temperature is produced by the pressure
// channel.
func (d *Dev) SharedConversion() bool {
	return true
}

func (d *Dev) StartTemperature() error {
	return nil
}

func (d *Dev) ReadTemperature() error {
	return nil
}

func (d *Dev) TemperatureLatency() time.Duration {
	return 0
}

// StartPressure arms a forced conversion. The device drops back to sleep
// after each conversion, so this is needed before every ReadPressure.
// Arming again before reading just restarts the conversion.
func (d *Dev) StartPressure() error {
	if !d.initialized {
		return ErrNotDetected
	}
	if err := d.arm(); err != nil {
		return err
	}
	d.state = StateMeasuring
	return nil
}

// ReadPressure collects the raw pressure and temperature of the last
// conversion. Reading before PressureLatency has passed returns stale data
// without error.
func (d *Dev) ReadPressure() error {
	if !d.initialized {
		return ErrNotDetected
	}
	if err := d.bus.ReadRegisters(d.opts.Address, regPressMSB, d.frame[:]); err != nil {
		return fmt.Errorf("read measurement: %w", err)
	}
	d.rawP, d.rawT = decodeFrame(d.frame[:])
	d.state = StateDataReady
	return nil
}

// PressureLatency is the worst case conversion time for the configured
// oversampling.
func (d *Dev) PressureLatency() time.Duration {
	return d.latency
}

// Raw returns the last collected uncompensated pressure and temperature.
func (d *Dev) Raw() (pressure, temperature int32) {
	return d.rawP, d.rawT
}

// decodeFrame splits the measurement burst: press_msb, press_lsb,
// press_xlsb, temp_msb, temp_lsb, temp_xlsb.
func decodeFrame(frame []byte) (rawP, rawT int32) {
	rawP = int32(decode20(frame[0], frame[1], frame[2]))
	rawT = int32(decode20(frame[3], frame[4], frame[5]))
	return rawP, rawT
}

// decode20 joins a big endian 20 bit reading; only the top nibble of xlsb
// carries data.
func decode20(msb, lsb, xlsb byte) uint32 {
	return uint32(msb)<<12 | uint32(lsb)<<4 | uint32(xlsb)>>4
}
