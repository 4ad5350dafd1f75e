package i2c

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// fakeDevice has the method set of gobot's sysfs i2cDevice (v1.14) and
// nothing more. Write records the register pointer; Read serves regs from it.
type fakeDevice struct {
	addr    int
	regs    [256]byte
	ptr     uint8
	short   bool
	written [][]byte
	err     error
}

func (d *fakeDevice) SetAddress(address int) error {
	d.addr = address
	return d.err
}

func (d *fakeDevice) Write(b []byte) (int, error) {
	d.written = append(d.written, append([]byte(nil), b...))
	if len(b) > 0 {
		d.ptr = b[0]
	}
	return len(b), nil
}

func (d *fakeDevice) Read(b []byte) (int, error) {
	n := copy(b, d.regs[d.ptr:])
	if d.short {
		n--
	}
	return n, nil
}

func (d *fakeDevice) ReadByteData(reg uint8) (uint8, error) {
	return d.regs[reg], nil
}

func (d *fakeDevice) WriteByteData(reg, val uint8) error {
	d.regs[reg] = val
	return nil
}

func (d *fakeDevice) Close() error                              { return nil }
func (d *fakeDevice) ReadByte() (byte, error)                   { return d.regs[d.ptr], nil }
func (d *fakeDevice) WriteByte(val byte) error                  { return nil }
func (d *fakeDevice) ReadWordData(reg uint8) (uint16, error)    { return 0, nil }
func (d *fakeDevice) WriteWordData(reg uint8, val uint16) error { return nil }
func (d *fakeDevice) WriteBlockData(reg uint8, b []byte) error  { return nil }

var _ Device = (*fakeDevice)(nil)

func TestSysfsBus(t *testing.T) {
	dev := &fakeDevice{}
	dev.regs[0xd0] = 0x58
	copy(dev.regs[0xf7:], []byte{9, 8, 7})
	bus := NewSysfsBus(dev)

	one := make([]byte, 1)
	require.NoError(t, bus.ReadRegisters(0x76, 0xd0, one))
	assert.Equal(t, byte(0x58), one[0])
	assert.Equal(t, 0x76, dev.addr)
	assert.Empty(t, dev.written)

	three := make([]byte, 3)
	require.NoError(t, bus.ReadRegisters(0x77, 0xf7, three))
	assert.Equal(t, []byte{9, 8, 7}, three)
	assert.Equal(t, 0x77, dev.addr)
	assert.Equal(t, [][]byte{{0xf7}}, dev.written)

	require.NoError(t, bus.WriteRegister(0x76, 0xf4, 0x31))
	assert.Equal(t, byte(0x31), dev.regs[0xf4])
}

func TestSysfsBusCalibrationBurst(t *testing.T) {
	dev := &fakeDevice{}
	for i := 0; i < 24; i++ {
		dev.regs[0x88+i] = byte(i + 1)
	}
	bus := NewSysfsBus(dev)

	buf := make([]byte, 24)
	require.NoError(t, bus.ReadRegisters(0x76, 0x88, buf))
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(24), buf[23])
	assert.Equal(t, [][]byte{{0x88}}, dev.written)
}

func TestSysfsBusShortRead(t *testing.T) {
	bus := NewSysfsBus(&fakeDevice{short: true})
	assert.Error(t, bus.ReadRegisters(0x76, 0xf7, make([]byte, 6)))
}

func TestSysfsBusAddressError(t *testing.T) {
	fail := errors.New("ebusy")
	bus := NewSysfsBus(&fakeDevice{err: fail})
	assert.ErrorIs(t, bus.ReadRegisters(0x76, 0xd0, make([]byte, 1)), fail)
	assert.ErrorIs(t, bus.ReadRegisters(0x76, 0xf7, make([]byte, 6)), fail)
	assert.ErrorIs(t, bus.WriteRegister(0x76, 0xf4, 0), fail)
}

type fakePeriph struct {
	addr uint16
	w    []byte
	r    []byte
}

func (b *fakePeriph) String() string                    { return "fake" }
func (b *fakePeriph) SetSpeed(f physic.Frequency) error { return nil }

func (b *fakePeriph) Tx(addr uint16, w, r []byte) error {
	b.addr = addr
	b.w = append([]byte(nil), w...)
	copy(r, b.r)
	return nil
}

func TestPeriphBus(t *testing.T) {
	fake := &fakePeriph{r: []byte{0x58}}
	bus := NewPeriphBus(fake)

	buf := make([]byte, 1)
	require.NoError(t, bus.ReadRegisters(0x76, 0xd0, buf))
	assert.Equal(t, uint16(0x76), fake.addr)
	assert.Equal(t, []byte{0xd0}, fake.w)
	assert.Equal(t, byte(0x58), buf[0])

	require.NoError(t, bus.WriteRegister(0x77, 0xf4, 0x31))
	assert.Equal(t, uint16(0x77), fake.addr)
	assert.Equal(t, []byte{0xf4, 0x31}, fake.w)
}
