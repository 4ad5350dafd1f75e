package i2c

import (
	"fmt"

	"gobot.io/x/gobot/sysfs"
)

// A Device is the subset of gobot's sysfs I2C device used here, as returned
// by sysfs.NewI2cDevice (gobot.io/x/gobot/sysfs).
type Device interface {
	SetAddress(address int) error
	Read(b []byte) (n int, err error)
	Write(b []byte) (n int, err error)
	ReadByteData(reg uint8) (val uint8, err error)
	WriteByteData(reg, val uint8) error
}

// SysfsBus drives a Linux /dev/i2c-N character device. The slave address is
// set before every transaction since several drivers may share one Device.
type SysfsBus struct {
	dev Device
}

func NewSysfsBus(dev Device) *SysfsBus {
	return &SysfsBus{dev: dev}
}

func (b *SysfsBus) ReadRegisters(addr, reg uint8, buf []byte) error {
	if err := b.dev.SetAddress(int(addr)); err != nil {
		return fmt.Errorf("set device address: %w", err)
	}
	if len(buf) == 1 {
		val, err := b.dev.ReadByteData(reg)
		if err != nil {
			return fmt.Errorf("read byte register: %w", err)
		}
		buf[0] = val
		return nil
	}
	// Bursts are a register pointer write followed by a plain read; the
	// sensor auto-increments the register address.
	if _, err := b.dev.Write([]byte{reg}); err != nil {
		return fmt.Errorf("write register pointer: %w", err)
	}
	n, err := b.dev.Read(buf)
	if err != nil {
		return fmt.Errorf("read block: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("read block: short read, %d of %d bytes", n, len(buf))
	}
	return nil
}

func (b *SysfsBus) WriteRegister(addr, reg, val uint8) error {
	if err := b.dev.SetAddress(int(addr)); err != nil {
		return fmt.Errorf("set device address: %w", err)
	}
	if err := b.dev.WriteByteData(reg, val); err != nil {
		return fmt.Errorf("write byte register: %w", err)
	}
	return nil
}

const (
	BackendSysfs  = "sysfs"
	BackendPeriph = "periph"
)

// Open opens an I2C bus through the named backend. For sysfs the device is
// a character device path; for periph it is a bus name, "" meaning the first
// bus found.
func Open(backend, device string) (Bus, func() error, error) {
	switch backend {
	case BackendSysfs:
		dev, err := sysfs.NewI2cDevice(device)
		if err != nil {
			return nil, nil, fmt.Errorf("open I2C device: %w", err)
		}
		return NewSysfsBus(dev), dev.Close, nil
	case BackendPeriph:
		return OpenPeriph(device)
	default:
		return nil, nil, fmt.Errorf("unknown I2C backend %q", backend)
	}
}
