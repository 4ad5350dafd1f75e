package i2c

import (
	"fmt"

	pi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus adapts a periph.io I2C bus. Register reads are a write of the
// register address followed by a repeated-start read.
type PeriphBus struct {
	bus pi2c.Bus
}

func NewPeriphBus(bus pi2c.Bus) *PeriphBus {
	return &PeriphBus{bus: bus}
}

// OpenPeriph initializes the periph host drivers and opens the named bus
// ("" selects the first one available).
func OpenPeriph(name string) (*PeriphBus, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("periph host init: %w", err)
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open bus %q: %w", name, err)
	}
	return NewPeriphBus(bc), bc.Close, nil
}

func (b *PeriphBus) ReadRegisters(addr, reg uint8, buf []byte) error {
	if err := b.bus.Tx(uint16(addr), []byte{reg}, buf); err != nil {
		return fmt.Errorf("tx 0x%02x: %w", addr, err)
	}
	return nil
}

func (b *PeriphBus) WriteRegister(addr, reg, val uint8) error {
	if err := b.bus.Tx(uint16(addr), []byte{reg, val}, nil); err != nil {
		return fmt.Errorf("tx 0x%02x: %w", addr, err)
	}
	return nil
}
