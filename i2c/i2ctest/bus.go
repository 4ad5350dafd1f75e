// Package i2ctest provides an in-memory register bus for driver tests.
package i2ctest

import (
	"fmt"
	"sync"
)

// Read records one ReadRegisters call.
type Read struct {
	Addr uint8
	Reg  uint8
	Len  int
}

// Write records one WriteRegister call.
type Write struct {
	Addr uint8
	Reg  uint8
	Val  uint8
}

// Bus is a fake i2c.Bus backed by a 256 byte register file per address.
// Reads past 0xff wrap around. Writes land in the register file so a later
// read of the same register sees them.
type Bus struct {
	mut    sync.Mutex
	regs   map[uint8]*[256]byte
	Reads  []Read
	Writes []Write

	// ReadErr and WriteErr, when set, are returned by every call.
	ReadErr  error
	WriteErr error
}

func NewBus() *Bus {
	return &Bus{regs: make(map[uint8]*[256]byte)}
}

// Set stores data into consecutive registers starting at reg.
func (b *Bus) Set(addr, reg uint8, data ...byte) {
	b.mut.Lock()
	defer b.mut.Unlock()
	file := b.file(addr)
	for i, v := range data {
		file[uint8(int(reg)+i)] = v
	}
}

// Get returns the current value of a register.
func (b *Bus) Get(addr, reg uint8) byte {
	b.mut.Lock()
	defer b.mut.Unlock()
	return b.file(addr)[reg]
}

func (b *Bus) ReadRegisters(addr, reg uint8, buf []byte) error {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.Reads = append(b.Reads, Read{Addr: addr, Reg: reg, Len: len(buf)})
	if b.ReadErr != nil {
		return b.ReadErr
	}
	if len(buf) > 256 {
		return fmt.Errorf("read of %d bytes", len(buf))
	}
	file := b.file(addr)
	for i := range buf {
		buf[i] = file[uint8(int(reg)+i)]
	}
	return nil
}

func (b *Bus) WriteRegister(addr, reg, val uint8) error {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.Writes = append(b.Writes, Write{Addr: addr, Reg: reg, Val: val})
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.file(addr)[reg] = val
	return nil
}

// CountReads returns how many reads of n bytes started at reg.
func (b *Bus) CountReads(reg uint8, n int) int {
	b.mut.Lock()
	defer b.mut.Unlock()
	c := 0
	for _, r := range b.Reads {
		if r.Reg == reg && r.Len == n {
			c++
		}
	}
	return c
}

// CountWrites returns how many writes went to reg.
func (b *Bus) CountWrites(reg uint8) int {
	b.mut.Lock()
	defer b.mut.Unlock()
	c := 0
	for _, w := range b.Writes {
		if w.Reg == reg {
			c++
		}
	}
	return c
}

// Traffic returns the total number of bus calls made so far.
func (b *Bus) Traffic() int {
	b.mut.Lock()
	defer b.mut.Unlock()
	return len(b.Reads) + len(b.Writes)
}

func (b *Bus) file(addr uint8) *[256]byte {
	f, ok := b.regs[addr]
	if !ok {
		f = new([256]byte)
		b.regs[addr] = f
	}
	return f
}
