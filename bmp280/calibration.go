package bmp280

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Coefficients are the factory trimming values in register order. The layout
// matches the 24 byte little endian block at 0x88.
type Coefficients struct {
	T1 uint16
	T2 int16
	T3 int16
	P1 uint16
	P2 int16
	P3 int16
	P4 int16
	P5 int16
	P6 int16
	P7 int16
	P8 int16
	P9 int16
}

// Calibration is the per-device compensation state. TFine is written by
// temperature compensation and read by pressure compensation; it is only
// valid for the frame temperature was last compensated for.
type Calibration struct {
	Coefficients
	TFine int32
}

func parseCalibration(data []byte) (Calibration, error) {
	var cal Calibration
	if len(data) != calibLen {
		return cal, fmt.Errorf("calibration block is %d bytes, expected %d", len(data), calibLen)
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &cal.Coefficients); err != nil {
		return cal, err
	}
	return cal, nil
}
