package bmp280

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode20(t *testing.T) {
	cases := []struct {
		msb, lsb, xlsb byte
		out            uint32
	}{
		{0xab, 0xcd, 0xe0, 0xab<<12 | 0xcd<<4 | 0xe0>>4},
		{0xab, 0xcd, 0xe0, 703710},
		{0xab, 0xcd, 0xef, 703710}, // low nibble of xlsb is not data
		{0xff, 0xff, 0xff, 1<<20 - 1},
		{0x00, 0x00, 0x0f, 0},
		{0x80, 0x00, 0x00, 524288},
	}

	for _, tc := range cases {
		if res := decode20(tc.msb, tc.lsb, tc.xlsb); res != tc.out {
			t.Errorf("%d != expected %d for %02x %02x %02x", res, tc.out, tc.msb, tc.lsb, tc.xlsb)
		}
	}
}

func TestDecodeFrame(t *testing.T) {
	p, temp := decodeFrame([]byte{0x5a, 0x3c, 0x10, 0x80, 0x00, 0x00})
	assert.Equal(t, int32(0x5a3c1), p)
	assert.Equal(t, int32(0x80000), temp)
}

func TestCompensateReference(t *testing.T) {
	cal := Calibration{Coefficients: reference}

	temp := cal.compensateTemperature(519888)
	assert.InDelta(t, 25.08, temp, 0.01)
	assert.Equal(t, int32(128422), cal.TFine)

	press := cal.compensatePressure(415148)
	assert.InDelta(t, 100653.26, press, 0.01)
	assert.Equal(t, int32(128422), cal.TFine, "pressure compensation only reads TFine")
}

func TestCompensatePressureUsesTFine(t *testing.T) {
	cal := Calibration{Coefficients: reference}
	cal.compensateTemperature(519888)
	warm := cal.compensatePressure(415148)
	cal.compensateTemperature(400000)
	cold := cal.compensatePressure(415148)
	assert.NotEqual(t, warm, cold)
}

func TestCompensatePressureZeroDivisor(t *testing.T) {
	c := reference
	c.P1 = 0

	for _, tfine := range []int32{0, 128422, -50000, 1 << 20} {
		for _, raw := range []int32{0, 415148, 1<<20 - 1} {
			cal := Calibration{Coefficients: c, TFine: tfine}
			assert.Equal(t, 0.0, cal.compensatePressure(raw), "TFine %d raw %d", tfine, raw)
		}
	}

	var zero Calibration
	assert.Equal(t, 0.0, zero.compensatePressure(415148))
}
