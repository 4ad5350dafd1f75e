package i2c

import "fmt"

// A Bus performs register transactions against devices on an I2C bus. Every
// call is synchronous and returns as soon as the transfer is done.
type Bus interface {
	// ReadRegisters fills buf with consecutive registers starting at reg,
	// in a single burst transaction.
	ReadRegisters(addr, reg uint8, buf []byte) error
	// WriteRegister writes one byte to reg.
	WriteRegister(addr, reg, val uint8) error
}

// A Reader latches the first bus error so that a sequence of register reads
// can be checked once at the end.
type Reader struct {
	bus   Bus
	addr  uint8
	error error
}

func NewReader(bus Bus, addr uint8) *Reader {
	return &Reader{bus: bus, addr: addr}
}

func (r *Reader) Error() error {
	return r.error
}

// Read returns n bytes starting at reg.
func (r *Reader) Read(reg uint8, n int) ([]byte, error) {
	res := make([]byte, n)
	if err := r.bus.ReadRegisters(r.addr, reg, res); err != nil {
		return nil, fmt.Errorf("read registers 0x%02x+%d: %w", reg, n, err)
	}
	return res, nil
}

// Block is Read with the error latched. After an error it returns a zeroed
// slice of length n without touching the bus.
func (r *Reader) Block(reg uint8, n int) []byte {
	if r.error != nil {
		return make([]byte, n)
	}
	data, err := r.Read(reg, n)
	if err != nil {
		r.error = err
		return make([]byte, n)
	}
	return data
}

func (r *Reader) Byte(reg uint8) int {
	return int(r.Block(reg, 1)[0])
}
