//go:build linux

package stc3100

import (
	"fmt"

	"github.com/go-daq/smbus"
)

// SMBusTransport adapts a Linux SMBus connection from go-daq/smbus.
type SMBusTransport struct {
	conn *smbus.Conn
}

// OpenSMBus opens /dev/i2c-<bus> with the gauge address selected.
func OpenSMBus(bus int, addr uint16) (*SMBusTransport, error) {
	if addr > 0x7F {
		return nil, fmt.Errorf("stc3100: smbus address 0x%X out of range", addr)
	}
	conn, err := smbus.Open(bus, uint8(addr))
	if err != nil {
		return nil, fmt.Errorf("stc3100: open smbus %d: %w", bus, err)
	}
	return &SMBusTransport{conn: conn}, nil
}

func (t *SMBusTransport) WriteRegister(addr uint16, reg, val byte) error {
	return t.conn.WriteReg(uint8(addr), reg, val)
}

func (t *SMBusTransport) ReadRegisters(addr uint16, reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.conn.ReadBlockData(uint8(addr), reg, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (t *SMBusTransport) Close() error {
	return t.conn.Close()
}
