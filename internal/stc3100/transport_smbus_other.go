//go:build !linux

package stc3100

import "errors"

// SMBusTransport is only available on Linux.
type SMBusTransport struct{}

func OpenSMBus(bus int, addr uint16) (*SMBusTransport, error) {
	return nil, errors.New("stc3100: smbus transport requires linux")
}

func (t *SMBusTransport) WriteRegister(addr uint16, reg, val byte) error {
	return errors.New("stc3100: smbus transport requires linux")
}

func (t *SMBusTransport) ReadRegisters(addr uint16, reg byte, n int) ([]byte, error) {
	return nil, errors.New("stc3100: smbus transport requires linux")
}

func (t *SMBusTransport) Close() error { return nil }
