// Package sim provides an in-memory model of the FT6336 touch
// controller for tests and development without hardware.
package sim

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"tactile.dev/ft6336"
)

const (
	regTouchData = 0x02
	recordLen    = 6
	maxPoints    = 2
)

// Write is one register write observed by the simulator.
type Write struct {
	Reg, Value uint8
}

// Bus simulates the controller behind an i2c.Bus: a 256-byte register
// file answering write-then-read and two-byte write transactions at
// the chip's fixed address.
type Bus struct {
	mu     sync.Mutex
	regs   [256]byte
	writes []Write
	err    error
}

// New returns a simulated bus with FT6336U identification defaults.
func New() *Bus {
	b := &Bus{}
	b.regs[0x9F] = 0x26 // chip code mid
	b.regs[0xA0] = 0x02 // chip code low, FT6336U
	b.regs[0xA3] = 0x64 // chip code high
	b.regs[0xA6] = 0x10 // firmware version
	b.regs[0xA8] = 0x11 // FocalTech vendor ID
	b.regs[0x87] = 30   // auto-monitor delay default
	return b
}

// String implements i2c.Bus.
func (b *Bus) String() string {
	return "ft6336sim"
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return nil
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		err := b.err
		b.err = nil
		return err
	}
	if addr != ft6336.Addr {
		return fmt.Errorf("ft6336sim: no device at address %#02x", addr)
	}
	switch {
	case len(w) == 1 && len(r) > 0:
		reg := int(w[0])
		for i := range r {
			r[i] = b.regs[(reg+i)&0xFF]
		}
	case len(w) == 2 && len(r) == 0:
		b.regs[w[0]] = w[1]
		b.writes = append(b.writes, Write{Reg: w[0], Value: w[1]})
	default:
		return fmt.Errorf("ft6336sim: unsupported transaction: %d byte write, %d byte read", len(w), len(r))
	}
	return nil
}

// FailNext makes the next transaction fail with err.
func (b *Bus) FailNext(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// SetRegister presets a register value, e.g. an identification byte.
func (b *Bus) SetRegister(reg, value uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs[reg] = value
}

// SetTouches loads up to two points into the touch report registers.
// Record 0 holds the first point given.
func (b *Bus) SetTouches(pts ...ft6336.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(pts) > maxPoints {
		pts = pts[:maxPoints]
	}
	b.regs[regTouchData] = uint8(len(pts))
	for i, p := range pts {
		rec := b.regs[regTouchData+1+i*recordLen:]
		rec[0] = uint8(p.Action)<<6 | uint8(p.X>>8)&0x0F
		rec[1] = uint8(p.X)
		rec[2] = p.Index<<4 | uint8(p.Y>>8)&0x0F
		rec[3] = uint8(p.Y)
		rec[4], rec[5] = 0, 0
	}
}

// Writes returns the register writes seen so far.
func (b *Bus) Writes() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Write(nil), b.writes...)
}

// LastWrite returns the most recent register write.
func (b *Bus) LastWrite() (Write, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.writes) == 0 {
		return Write{}, false
	}
	return b.writes[len(b.writes)-1], true
}

// Register returns the current value of a register.
func (b *Bus) Register(reg uint8) uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[reg]
}
