package stc3100

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestVoltage_FormulaAndMonotonic(t *testing.T) {
	d := NewDecoder(ProfileDatasheet, 30)
	prev := -1.0
	for r := 0; r <= 0xFFFF; r++ {
		got := d.Voltage(uint16(r))
		want := float64(r&0x0FFF) * 2.44 / 1000
		if !approx(got, want) {
			t.Fatalf("Voltage(0x%04X) = %v, want %v", r, got, want)
		}
		// monotonic within each 12-bit window; the reserved bits wrap it
		if r&0x0FFF != 0 && got < prev {
			t.Fatalf("Voltage(0x%04X) = %v < previous %v", r, got, prev)
		}
		prev = got
	}
}

func TestCurrent_SignBoundary(t *testing.T) {
	for _, shunt := range []int{10, 30, 50} {
		d := NewDecoder(ProfileDatasheet, shunt)
		for r := 0; r <= 0x3FFF; r++ {
			got := d.Current(uint16(r))
			if r < 0x2000 && got < 0 {
				t.Fatalf("shunt %d: Current(0x%04X) = %v, want >= 0", shunt, r, got)
			}
			if r >= 0x2000 && got >= 0 {
				t.Fatalf("shunt %d: Current(0x%04X) = %v, want < 0", shunt, r, got)
			}
		}

		lsb := (48210.0 / float64(shunt)) / 4096
		below := d.Current(0x1FFF)
		above := d.Current(0x2000)
		if !approx(math.Abs(above)-math.Abs(below), lsb) {
			t.Errorf("shunt %d: |%v| and |%v| differ by more than one LSB", shunt, above, below)
		}
		if !approx(d.Current(0x3FFF), -lsb) {
			t.Errorf("shunt %d: Current(0x3FFF) = %v, want %v", shunt, d.Current(0x3FFF), -lsb)
		}
	}
}

func TestCurrent_IgnoresReservedBits(t *testing.T) {
	d := NewDecoder(ProfileDatasheet, 30)
	if d.Current(0xC064) != d.Current(0x0064) {
		t.Errorf("bits 14-15 changed the current")
	}
}

func TestCurrent_RoundTrip(t *testing.T) {
	d := NewDecoder(ProfileDatasheet, 25)
	lsb := (48210.0 / 25) / 4096
	for v := -0x2000; v < 0x2000; v += 7 {
		ma := float64(v) * lsb
		raw := uint16(int(math.Round(ma/lsb))) & 0x3FFF
		if got := d.Current(raw); math.Abs(got-ma) > 1e-6 {
			t.Fatalf("round trip %v mA -> 0x%04X -> %v mA", ma, raw, got)
		}
	}
}

func TestCharge_Profiles(t *testing.T) {
	full := NewDecoder(ProfileDatasheet, 50)
	masked := NewDecoder(ProfileMasked12, 50)

	if got, want := full.Charge(0xF002), float64(0xF002)*(27443.0/50)/4096; !approx(got, want) {
		t.Errorf("datasheet Charge = %v, want %v", got, want)
	}
	if got, want := masked.Charge(0xF002), 2*(27443.0/50)/4096; !approx(got, want) {
		t.Errorf("masked12 Charge = %v, want %v", got, want)
	}
	if got := full.ChargePercent(0xFFFF); got != 100 {
		t.Errorf("ChargePercent(full) = %v", got)
	}
	if got := masked.ChargePercent(0xFFFF); got != 100 {
		t.Errorf("masked ChargePercent(full) = %v", got)
	}
	if got := full.ChargePercent(0); got != 0 {
		t.Errorf("ChargePercent(0) = %v", got)
	}
}

func TestTemperature(t *testing.T) {
	d := NewDecoder(ProfileDatasheet, 30)
	tests := []struct {
		raw  uint16
		want float64
	}{
		{0x0000, 0},
		{0x0040, 8},
		{0x00C8, 25},
		{0xF0C8, 25},
	}
	for _, tt := range tests {
		if got := d.Temperature(tt.raw); got != tt.want {
			t.Errorf("Temperature(0x%04X) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestBlock_Short(t *testing.T) {
	d := NewDecoder(ProfileDatasheet, 30)
	if _, err := d.Block(sampleBlock[:9]); err == nil {
		t.Error("expected error for 9-byte block")
	}
}

func TestReading_Units(t *testing.T) {
	r := Reading{Voltage: 4.5, Current: -250, Temperature: 25}
	if got := r.Potential(); got != 4500*physic.MilliVolt {
		t.Errorf("Potential() = %s", got)
	}
	if got := r.Draw(); got != -250*physic.MilliAmpere {
		t.Errorf("Draw() = %s", got)
	}
	if got := r.Temp(); got != physic.ZeroCelsius+25*physic.Celsius {
		t.Errorf("Temp() = %s", got)
	}
}
