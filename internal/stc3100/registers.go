package stc3100

const Addr = 0x70

const (
	RegMode = 0x00
	RegCtrl = 0x01

	RegChargeLow   = 0x02
	RegChargeHigh  = 0x03
	RegCounterLow  = 0x04
	RegCounterHigh = 0x05
	RegCurrentLow  = 0x06
	RegCurrentHigh = 0x07
	RegVoltageLow  = 0x08
	RegVoltageHigh = 0x09
	RegTempLow     = 0x0A
	RegTempHigh    = 0x0B

	RegPartID   = 0x18
	RegUniqueID = 0x19 // 6 bytes, 0x19..0x1E
	RegCRC      = 0x1F
)

const (
	// Mode register bits. Resolution lives in bits 1 and 2.
	ModeStop      = 0b00000
	ModeRun       = 0b10000
	ModeCalibrate = 0b01000

	// Writing this to RegCtrl clears the charge and counter accumulators.
	CtrlResetAccumulators = 0x02

	// PartType is the value of RegPartID on a genuine STC3100.
	PartType = 0x10

	// Bytes covered by a ReadAll block: charge, counter, current, voltage, temperature.
	blockLen = RegTempHigh - RegChargeLow + 1

	uniqueIDLen = 6
)
