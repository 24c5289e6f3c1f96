// Package ft6336 implements a driver for the FocalTech FT6336
// capacitive touch controllers, connected over I²C.
//
// The driver owns its connection exclusively and performs no locking;
// callers sharing a device across goroutines must serialize access
// themselves.
//
// Datasheet: https://www.buydisplay.com/download/ic/FT6236-FT6336-FT6436L-FT6436_Datasheet.pdf
package ft6336

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// Addr is the fixed I²C address of the controller.
const Addr uint16 = 0x38

const (
	regMode             = 0x00
	regTouchData        = 0x02
	regAutoMonitor      = 0x86
	regAutoMonitorDelay = 0x87
	regScanRate         = 0x88
	regMonitorScanRate  = 0x89
	regFreqHopping      = 0x8B
	regChipCodeMid      = 0x9F
	regChipCodeLow      = 0xA0
	regAppLibVersion    = 0xA1
	regChipCodeHigh     = 0xA3
	regInterruptMode    = 0xA4
	regPowerMode        = 0xA5
	regFirmwareVersion  = 0xA6
	regVendorID         = 0xA8
	regReleaseCode      = 0xAF

	maxAutoMonitorDelay = 0x64
	minScanRate         = 0x04
	maxScanRate         = 0x14
)

// PowerMode selects the scan state of the controller.
type PowerMode uint8

const (
	Active PowerMode = iota
	Monitor
	Standby
	Hibernate
)

// powerModeFrom maps a register byte to a PowerMode. Values the chip
// family does not define read back as Active.
func powerModeFrom(v uint8) PowerMode {
	switch m := PowerMode(v); m {
	case Active, Monitor, Standby, Hibernate:
		return m
	default:
		return Active
	}
}

func (m PowerMode) String() string {
	switch m {
	case Active:
		return "active"
	case Monitor:
		return "monitor"
	case Standby:
		return "standby"
	case Hibernate:
		return "hibernate"
	default:
		return fmt.Sprintf("PowerMode(%d)", uint8(m))
	}
}

// Dev is a handle to an FT6336 controller.
type Dev struct {
	c conn.Conn
	// Allocate enough space for a full touch report read.
	buf [1 + rawBlockLen]byte
}

// New returns a driver for the controller on bus b, at its fixed
// address.
func New(b i2c.Bus) *Dev {
	return NewConn(&i2c.Dev{Bus: b, Addr: Addr})
}

// NewConn returns a driver on an already addressed connection.
func NewConn(c conn.Conn) *Dev {
	return &Dev{c: c}
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("FT6336{%s}", d.c)
}

// Halt puts the controller in hibernate mode.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.SetPowerMode(Hibernate)
}

// Init switches to work mode, to avoid the rare case that the
// controller is left in factory mode.
//
// Init is safe to call at any time.
func (d *Dev) Init() error {
	return d.writeReg(regMode, 0x00)
}

// ChipCode returns the chip code bytes.
//
//   - FT6236G: low 0x00
//   - FT6336G: low 0x01
//   - FT6336U: low 0x02
//   - FT6426: low 0x03
func (d *Dev) ChipCode() (low, mid, high uint8, err error) {
	if low, err = d.readReg(regChipCodeLow); err != nil {
		return
	}
	if mid, err = d.readReg(regChipCodeMid); err != nil {
		return
	}
	high, err = d.readReg(regChipCodeHigh)
	return
}

// AppLibVersion returns the app library version. The register pair is
// stored big endian, high byte first.
func (d *Dev) AppLibVersion() (low, high uint8, err error) {
	resp := d.buf[1:3]
	if err := d.readBuf(regAppLibVersion, resp); err != nil {
		return 0, 0, err
	}
	return resp[1], resp[0], nil
}

// FirmwareVersion returns the firmware version byte.
func (d *Dev) FirmwareVersion() (uint8, error) {
	return d.readReg(regFirmwareVersion)
}

// VendorID returns the vendor ID byte.
func (d *Dev) VendorID() (uint8, error) {
	return d.readReg(regVendorID)
}

// ReleaseCode returns the release code ID of custom reference
// versions.
func (d *Dev) ReleaseCode() (uint8, error) {
	return d.readReg(regReleaseCode)
}

// SetFrequencyHopping enables or disables frequency hopping. Hopping
// helps against charger noise but is rarely needed otherwise.
func (d *Dev) SetFrequencyHopping(enable bool) error {
	return d.writeReg(regFreqHopping, b2u8(enable))
}

// InterruptByPulse makes the INT pin pulse on new touch events.
//
// In either interrupt mode, touch release generates no interrupt.
func (d *Dev) InterruptByPulse() error {
	return d.writeReg(regInterruptMode, 0x01)
}

// InterruptByState makes the INT pin drive low while touch events are
// pending.
//
// In either interrupt mode, touch release generates no interrupt.
func (d *Dev) InterruptByState() error {
	return d.writeReg(regInterruptMode, 0x00)
}

// SetAutoMonitorMode controls whether the chip drops into monitor mode
// by itself after a period without touches.
func (d *Dev) SetAutoMonitorMode(enable bool) error {
	return d.writeReg(regAutoMonitor, b2u8(enable))
}

// SetAutoMonitorModeDelay sets the idle time, in seconds, before the
// chip enters monitor mode. The chip default is 30 seconds; values
// above 100 are clamped.
func (d *Dev) SetAutoMonitorModeDelay(seconds uint8) error {
	if seconds > maxAutoMonitorDelay {
		seconds = maxAutoMonitorDelay
	}
	return d.writeReg(regAutoMonitorDelay, seconds)
}

// SetScanRate sets the active mode scan rate in Hertz. The chip
// accepts 4 to 20 Hz; values outside that range are clamped.
func (d *Dev) SetScanRate(hz uint8) error {
	return d.writeReg(regScanRate, clampScanRate(hz))
}

// SetMonitorScanRate sets the monitor mode scan rate in Hertz. The
// chip accepts 4 to 20 Hz; values outside that range are clamped.
func (d *Dev) SetMonitorScanRate(hz uint8) error {
	return d.writeReg(regMonitorScanRate, clampScanRate(hz))
}

// SetPowerMode sets the controller scan state.
func (d *Dev) SetPowerMode(mode PowerMode) error {
	return d.writeReg(regPowerMode, uint8(mode))
}

// PowerMode reads back the controller scan state.
func (d *Dev) PowerMode() (PowerMode, error) {
	v, err := d.readReg(regPowerMode)
	if err != nil {
		return Active, err
	}
	return powerModeFrom(v), nil
}

func clampScanRate(hz uint8) uint8 {
	switch {
	case hz < minScanRate:
		return minScanRate
	case hz > maxScanRate:
		return maxScanRate
	default:
		return hz
	}
}

func b2u8(v bool) uint8 {
	if v {
		return 0x01
	}
	return 0x00
}

func (d *Dev) readReg(reg uint8) (uint8, error) {
	req, resp := d.buf[:1], d.buf[1:2]
	req[0] = reg
	if err := d.c.Tx(req, resp); err != nil {
		return 0, fmt.Errorf("ft6336: %w", err)
	}
	return resp[0], nil
}

// readBuf reads len(buf) bytes starting at reg. buf may alias the
// tail of d.buf.
func (d *Dev) readBuf(reg uint8, buf []byte) error {
	req := d.buf[:1]
	req[0] = reg
	if err := d.c.Tx(req, buf); err != nil {
		return fmt.Errorf("ft6336: %w", err)
	}
	return nil
}

func (d *Dev) writeReg(reg, value uint8) error {
	req := d.buf[:2]
	req[0], req[1] = reg, value
	if err := d.c.Tx(req, nil); err != nil {
		return fmt.Errorf("ft6336: %w", err)
	}
	return nil
}

var _ conn.Resource = (*Dev)(nil)
