package bmp280

// Floating point compensation from the BMP280 data sheet, section 8.1.

// compensateTemperature returns degrees Celsius and updates TFine.
func (c *Calibration) compensateTemperature(rawT int32) float64 {
	adc := float64(rawT)
	t1 := float64(c.T1)

	var1 := (adc/16384 - t1/1024) * float64(c.T2)
	d := adc/131072 - t1/8192
	var2 := d * d * float64(c.T3)

	c.TFine = int32(var1 + var2)
	return (var1 + var2) / 5120
}

// compensatePressure returns pascals using the TFine left by the preceding
// temperature compensation. Zero is returned when the calibration makes the
// divisor vanish.
func (c *Calibration) compensatePressure(rawP int32) float64 {
	var1 := float64(c.TFine)/2 - 64000
	var2 := var1 * var1 * float64(c.P6) / 32768
	var2 += var1 * float64(c.P5) * 2
	var2 = var2/4 + float64(c.P4)*65536
	var1 = (float64(c.P3)*var1*var1/524288 + float64(c.P2)*var1) / 524288
	var1 = (1 + var1/32768) * float64(c.P1)
	if var1 == 0 {
		return 0
	}

	p := 1048576 - float64(rawP)
	p = (p - var2/4096) * 6250 / var1
	var1 = float64(c.P9) * p * p / 2147483648
	var2 = p * float64(c.P8) / 32768
	return p + (var1+var2+float64(c.P7))/16
}

// Calculate compensates the last collected frame. Temperature always runs
// first so pressure sees this frame's TFine. Pressure is truncated to whole
// pascals; temperature is truncated to whole degrees and reported in
// hundredths.
func (d *Dev) Calculate() (pressurePa, temperatureCenti int32) {
	t := d.cal.compensateTemperature(d.rawT)
	p := d.cal.compensatePressure(d.rawP)
	return int32(p), int32(t) * 100
}
