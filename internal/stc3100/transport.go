package stc3100

import (
	"periph.io/x/conn/v3/i2c"
)

// Transport is the bus capability the gauge needs: single-byte register
// writes and contiguous block reads. Retries and timeouts are its business.
type Transport interface {
	WriteRegister(addr uint16, reg, val byte) error
	ReadRegisters(addr uint16, reg byte, n int) ([]byte, error)
}

// I2CTransport adapts a periph I²C bus.
type I2CTransport struct {
	bus i2c.Bus
}

// NewI2CTransport returns a Transport on a periph bus.
func NewI2CTransport(bus i2c.Bus) *I2CTransport {
	return &I2CTransport{bus: bus}
}

func (t *I2CTransport) WriteRegister(addr uint16, reg, val byte) error {
	dev := &i2c.Dev{Addr: addr, Bus: t.bus}
	return dev.Tx([]byte{reg, val}, nil)
}

func (t *I2CTransport) ReadRegisters(addr uint16, reg byte, n int) ([]byte, error) {
	dev := &i2c.Dev{Addr: addr, Bus: t.bus}
	buf := make([]byte, n)
	if err := dev.Tx([]byte{reg}, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
