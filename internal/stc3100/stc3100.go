// Package stc3100 drives the ST STC3100 battery monitor (coulomb counter).
//
// The driver never caches and never retries: each call is one or two bus
// transactions on the injected Transport. It is not safe for concurrent use;
// share a device between goroutines through a Guard.
package stc3100

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// MinSettle is the worst-case A/D conversion time the calibration cycle has
// to wait for.
const MinSettle = 500 * time.Millisecond

// Resolution selects the A/D resolution of the current and voltage converter.
type Resolution int

const (
	Res14Bit Resolution = 0
	Res13Bit Resolution = 1
	Res12Bit Resolution = 2
)

func (r Resolution) modeBits() byte { return byte(r) << 1 }

func (r Resolution) String() string {
	switch r {
	case Res14Bit:
		return "14bit"
	case Res13Bit:
		return "13bit"
	case Res12Bit:
		return "12bit"
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Opts holds the device configuration.
type Opts struct {
	Addr          uint16
	Resolution    Resolution
	ShuntMilliohm int

	// Profile defaults to ProfileDatasheet when left zero.
	Profile Profile

	// Settle is how long Calibrate waits between the calibrate and stop
	// commands. Zero means MinSettle.
	Settle time.Duration
}

func (o Opts) withDefaults() Opts {
	if o.Addr == 0 {
		o.Addr = Addr
	}
	if o.Profile == (Profile{}) {
		o.Profile = ProfileDatasheet
	}
	if o.Settle == 0 {
		o.Settle = MinSettle
	}
	return o
}

// Validate reports whether New would accept o. Zero Addr, Profile and Settle
// are filled with their defaults before checking.
func (o Opts) Validate() error {
	o = o.withDefaults()
	switch o.Resolution {
	case Res14Bit, Res13Bit, Res12Bit:
	default:
		return fmt.Errorf("%w: resolution %d not in {0,1,2}", ErrInvalidConfig, int(o.Resolution))
	}
	if o.ShuntMilliohm < 10 || o.ShuntMilliohm > 50 {
		return fmt.Errorf("%w: shunt %d mOhm not in [10,50]", ErrInvalidConfig, o.ShuntMilliohm)
	}
	if err := o.Profile.validate(); err != nil {
		return err
	}
	if o.Settle < MinSettle {
		return fmt.Errorf("%w: settle %s shorter than %s", ErrInvalidConfig, o.Settle, MinSettle)
	}
	return nil
}

// DefaultOpts is a 30 mΩ shunt at 14-bit resolution on the default address.
var DefaultOpts = Opts{
	Addr:          Addr,
	Resolution:    Res14Bit,
	ShuntMilliohm: 30,
	Profile:       ProfileDatasheet,
	Settle:        MinSettle,
}

// STC3100 is a handle to one gauge.
type STC3100 struct {
	t     Transport
	addr  uint16
	res   Resolution
	dec   Decoder
	opts  Opts
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSTC3100 returns a gauge on a periph I²C bus.
func NewSTC3100(bus i2c.Bus, opts *Opts) (*STC3100, error) {
	return New(NewI2CTransport(bus), opts)
}

// New validates opts and returns a gauge talking through t. Nothing is sent
// on the bus; call Calibrate and Start explicitly.
func New(t Transport, opts *Opts) (*STC3100, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidConfig)
	}
	o := DefaultOpts
	if opts != nil {
		o = opts.withDefaults()
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &STC3100{
		t:     t,
		addr:  o.Addr,
		res:   o.Resolution,
		dec:   NewDecoder(o.Profile, o.ShuntMilliohm),
		opts:  o,
		sleep: sleepCtx,
	}, nil
}

// String implements conn.Resource.
func (s *STC3100) String() string {
	return fmt.Sprintf("STC3100{addr:0x%02X, %s, %dmΩ, %s}", s.addr, s.res, s.opts.ShuntMilliohm, s.opts.Profile.Name)
}

// Halt stops the converter.
//
// Halt implements conn.Resource.
func (s *STC3100) Halt() error {
	return s.Stop()
}

// Opts returns the effective configuration.
func (s *STC3100) Opts() Opts { return s.opts }

// Decoder returns the decoder bound to this gauge's calibration.
func (s *STC3100) Decoder() Decoder { return s.dec }

// Calibrate runs the converter once with the calibration flag set, waits for
// the conversion to settle and stops the device again. It must run before
// the first meaningful reading. If ctx is cancelled during the wait the stop
// command is still sent.
func (s *STC3100) Calibrate(ctx context.Context) error {
	if err := s.writeReg(RegMode, ModeRun|ModeCalibrate|s.res.modeBits()); err != nil {
		return err
	}
	waitErr := s.sleep(ctx, s.opts.Settle)
	if err := s.writeReg(RegMode, ModeStop); err != nil {
		return err
	}
	if waitErr != nil {
		return fmt.Errorf("stc3100: calibration interrupted: %w", waitErr)
	}
	return nil
}

// Start puts the gauge in operating mode without recalibrating.
func (s *STC3100) Start() error {
	return s.writeReg(RegMode, ModeRun|s.res.modeBits())
}

// Stop puts the gauge in standby. Accumulators keep their value.
func (s *STC3100) Stop() error {
	return s.writeReg(RegMode, ModeStop)
}

// Reset clears the charge and counter accumulators. The run bit is left
// untouched.
func (s *STC3100) Reset() error {
	return s.writeReg(RegCtrl, CtrlResetAccumulators)
}

// ReadCharge returns the accumulated charge in mA·h.
func (s *STC3100) ReadCharge() (float64, error) {
	raw, err := s.readWord(RegChargeLow)
	if err != nil {
		return 0, err
	}
	return s.dec.Charge(raw), nil
}

// ReadChargePercent returns the charge accumulator as a percentage of its
// full scale.
func (s *STC3100) ReadChargePercent() (float64, error) {
	raw, err := s.readWord(RegChargeLow)
	if err != nil {
		return 0, err
	}
	return s.dec.ChargePercent(raw), nil
}

// ReadVoltage returns the battery voltage in volts.
func (s *STC3100) ReadVoltage() (float64, error) {
	raw, err := s.readWord(RegVoltageLow)
	if err != nil {
		return 0, err
	}
	return s.dec.Voltage(raw), nil
}

// ReadCurrent returns the current in mA, negative when discharging.
func (s *STC3100) ReadCurrent() (float64, error) {
	raw, err := s.readWord(RegCurrentLow)
	if err != nil {
		return 0, err
	}
	return s.dec.Current(raw), nil
}

// ReadTemperature returns the die temperature in °C.
func (s *STC3100) ReadTemperature() (float64, error) {
	raw, err := s.readWord(RegTempLow)
	if err != nil {
		return 0, err
	}
	return s.dec.Temperature(raw), nil
}

// ReadCounter returns the number of conversions since the last reset.
func (s *STC3100) ReadCounter() (uint16, error) {
	return s.readWord(RegCounterLow)
}

// ReadAll reads registers 0x02..0x0B in a single transfer so that the four
// values come from the same conversion cycle.
func (s *STC3100) ReadAll() (Reading, error) {
	b, err := s.read(RegChargeLow, blockLen)
	if err != nil {
		return Reading{}, err
	}
	return s.dec.Block(b)
}

// ReadPartID returns the part type register, 0x10 on an STC3100.
func (s *STC3100) ReadPartID() (byte, error) {
	b, err := s.read(RegPartID, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUniqueID returns the 6-byte device id, most significant byte first.
func (s *STC3100) ReadUniqueID() ([uniqueIDLen]byte, error) {
	var id [uniqueIDLen]byte
	b, err := s.read(RegUniqueID, uniqueIDLen)
	if err != nil {
		return id, err
	}
	for i := range id {
		id[i] = b[uniqueIDLen-1-i]
	}
	return id, nil
}

// ReadCRC returns the CRC of the device id.
func (s *STC3100) ReadCRC() (byte, error) {
	b, err := s.read(RegCRC, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Probe checks that the device answers with the STC3100 part type.
func (s *STC3100) Probe() error {
	id, err := s.ReadPartID()
	if err != nil {
		return err
	}
	if id != PartType {
		return fmt.Errorf("%w: 0x%02X", ErrUnexpectedPartID, id)
	}
	return nil
}

func (s *STC3100) writeReg(reg, val byte) error {
	if err := s.t.WriteRegister(s.addr, reg, val); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func (s *STC3100) read(reg byte, n int) ([]byte, error) {
	b, err := s.t.ReadRegisters(s.addr, reg, n)
	if err != nil {
		return nil, &TransportError{Op: "read", Reg: reg, Err: err}
	}
	if len(b) < n {
		return nil, &TransportError{Op: "read", Reg: reg, Err: fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, len(b), n)}
	}
	return b, nil
}

func (s *STC3100) readWord(reg byte) (uint16, error) {
	b, err := s.read(reg, 2)
	if err != nil {
		return 0, err
	}
	return le16(b), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ conn.Resource = &STC3100{}
