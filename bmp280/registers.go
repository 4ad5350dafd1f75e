package bmp280

import "fmt"

// I2C addresses; SDO low selects Address, SDO high AlternateAddress.
const (
	Address          uint8 = 0x76
	AlternateAddress uint8 = 0x77
)

const (
	chipID = 0x58

	regCalib    = 0x88 // dig_T1 LSB, 24 bytes through dig_P9 MSB
	regChipID   = 0xd0
	regCtrlMeas = 0xf4
	regPressMSB = 0xf7 // press MSB, LSB, XLSB then temp MSB, LSB, XLSB

	calibLen = 24
	frameLen = 6

	modeForced = 0x01
)

// Worst case conversion timing from the data sheet, in 1/16 ms.
const (
	tInitMax           = 20 // 1.25 ms
	tMeasurePerOsrsMax = 37 // 2.3125 ms
	tSetupPressureMax  = 10 // 0.625 ms
)

// Oversampling is the osrs_t / osrs_p register code.
type Oversampling uint8

const (
	OversampleSkipped Oversampling = iota
	Oversample1x
	Oversample2x
	Oversample4x
	Oversample8x
	Oversample16x
)

// Samples returns the number of internal samples taken per conversion.
func (o Oversampling) Samples() int {
	return (1 << o) >> 1
}

func (o Oversampling) String() string {
	if o == OversampleSkipped {
		return "skipped"
	}
	return fmt.Sprintf("%dx", o.Samples())
}

func (o Oversampling) valid() bool {
	return o <= Oversample16x
}

// ParseOversampling accepts a sample count (0, 1, 2, 4, 8, 16).
func ParseOversampling(samples int) (Oversampling, error) {
	for o := OversampleSkipped; o <= Oversample16x; o++ {
		if o.Samples() == samples {
			return o, nil
		}
	}
	return 0, fmt.Errorf("bmp280: unsupported oversampling %d", samples)
}

// Opts holds the sensor configuration applied at detection.
type Opts struct {
	Address     uint8
	Pressure    Oversampling
	Temperature Oversampling
}

// DefaultOpts is pressure x8, temperature x1, the usual flight controller
// trade-off between noise and conversion time.
var DefaultOpts = Opts{
	Address:     Address,
	Pressure:    Oversample8x,
	Temperature: Oversample1x,
}

// ctrlMeas packs the control register: osrs_t in bits 7..5, osrs_p in bits
// 4..2, mode in bits 1..0.
func (o *Opts) ctrlMeas() uint8 {
	return uint8(o.Pressure)<<2 | uint8(o.Temperature)<<5 | modeForced
}

// latencyMicros is the maximum time until a forced conversion started with
// these settings has completed, rounded up to whole milliseconds.
func (o *Opts) latencyMicros() int {
	t := tInitMax + tMeasurePerOsrsMax*(o.Temperature.Samples()+o.Pressure.Samples())
	if o.Pressure != OversampleSkipped {
		t += tSetupPressureMax
	}
	return ((t + 15) / 16) * 1000
}
