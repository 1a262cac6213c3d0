package stc3100

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Reading is one consistent set of decoded values.
type Reading struct {
	ChargeMilliampHours float64 `json:"charge_mah"`
	ChargePercent       float64 `json:"charge_percent"`
	Voltage             float64 `json:"voltage_v"`
	Current             float64 `json:"current_ma"`
	Temperature         float64 `json:"temperature_c"`
}

// Potential returns the battery voltage as a periph unit.
func (r Reading) Potential() physic.ElectricPotential {
	return physic.ElectricPotential(r.Voltage * float64(physic.Volt))
}

// Draw returns the instantaneous current as a periph unit. Negative values
// mean the battery is discharging.
func (r Reading) Draw() physic.ElectricCurrent {
	return physic.ElectricCurrent(r.Current * float64(physic.MilliAmpere))
}

// Temp returns the die temperature as a periph unit.
func (r Reading) Temp() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(r.Temperature*float64(physic.Celsius))
}

// Decoder turns raw register values into physical units. It holds no state
// besides its immutable calibration and is safe for concurrent use.
type Decoder struct {
	p     Profile
	shunt float64
}

// NewDecoder returns a Decoder for the given profile and shunt resistance.
func NewDecoder(p Profile, shuntMilliohm int) Decoder {
	return Decoder{p: p, shunt: float64(shuntMilliohm)}
}

// le16 reassembles a register pair: low byte at the lower address.
func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// Charge returns the accumulated charge in mA·h.
func (d Decoder) Charge(raw uint16) float64 {
	raw &= d.p.ChargeMask
	return float64(raw) * (d.p.ChargeConstant / d.shunt) / 4096
}

// ChargePercent returns the charge accumulator as a percentage of its full
// scale.
func (d Decoder) ChargePercent(raw uint16) float64 {
	raw &= d.p.ChargeMask
	return float64(raw) / float64(d.p.ChargeMask) * 100
}

// Voltage returns the battery voltage in volts.
func (d Decoder) Voltage(raw uint16) float64 {
	raw &= d.p.VoltageMask
	return float64(raw) * d.p.VoltageLSB / 1000
}

// Current returns the instantaneous current in mA.
func (d Decoder) Current(raw uint16) float64 {
	v := signExtend(raw, d.p.CurrentMask)
	return float64(v) * (d.p.CurrentConstant / d.shunt) / 4096
}

// Temperature returns the die temperature in °C.
func (d Decoder) Temperature(raw uint16) float64 {
	raw &= d.p.TempMask
	return float64(raw) * d.p.TempLSB
}

// Block decodes the ReadAll buffer starting at RegChargeLow. The counter
// pair at offset 2 is skipped.
func (d Decoder) Block(b []byte) (Reading, error) {
	if len(b) < blockLen {
		return Reading{}, fmt.Errorf("stc3100: block of %d bytes, want %d", len(b), blockLen)
	}
	charge := le16(b[0:])
	return Reading{
		ChargeMilliampHours: d.Charge(charge),
		ChargePercent:       d.ChargePercent(charge),
		Current:             d.Current(le16(b[RegCurrentLow-RegChargeLow:])),
		Voltage:             d.Voltage(le16(b[RegVoltageLow-RegChargeLow:])),
		Temperature:         d.Temperature(le16(b[RegTempLow-RegChargeLow:])),
	}, nil
}

// signExtend masks raw to the width of mask (a run of low ones) and
// interprets the result as two's complement.
func signExtend(raw, mask uint16) int32 {
	v := int32(raw & mask)
	full := int32(mask) + 1
	if v >= full/2 {
		v -= full
	}
	return v
}
