package stc3100

import (
	"tinygo.org/x/drivers"
)

// DriversTransport adapts a TinyGo drivers.I2C bus so the gauge can run on a
// microcontroller.
type DriversTransport struct {
	bus drivers.I2C
	w   [2]byte
}

// NewDriversTransport returns a Transport on a TinyGo bus.
func NewDriversTransport(bus drivers.I2C) *DriversTransport {
	return &DriversTransport{bus: bus}
}

func (t *DriversTransport) WriteRegister(addr uint16, reg, val byte) error {
	t.w[0] = reg
	t.w[1] = val
	return t.bus.Tx(addr, t.w[:2], nil)
}

func (t *DriversTransport) ReadRegisters(addr uint16, reg byte, n int) ([]byte, error) {
	t.w[0] = reg
	buf := make([]byte, n)
	if err := t.bus.Tx(addr, t.w[:1], buf); err != nil {
		return nil, err
	}
	return buf, nil
}
