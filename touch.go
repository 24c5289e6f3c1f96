// Touch report decoding.
//
// Not every chip variant reports the gesture, weight and area fields
// (they may be all zeros), so only minimum touch detection is
// implemented here.

package ft6336

import (
	"fmt"
	"iter"
)

// PointAction is the 2-bit action field of a touch record.
type PointAction uint8

const (
	PressDown PointAction = iota
	LiftUp
	Contact
	// NoAction is the fallback for action values the chip family
	// does not define.
	NoAction
)

func actionFrom(v uint8) PointAction {
	if v <= uint8(Contact) {
		return PointAction(v)
	}
	return NoAction
}

func (a PointAction) String() string {
	switch a {
	case PressDown:
		return "press down"
	case LiftUp:
		return "lift up"
	case Contact:
		return "contact"
	case NoAction:
		return "no action"
	default:
		return fmt.Sprintf("PointAction(%d)", uint8(a))
	}
}

// Point is one decoded touch.
type Point struct {
	// Index is the 4-bit track ID assigned by the chip.
	Index  uint8
	Action PointAction
	// X and Y are unsigned 12-bit panel coordinates.
	X, Y uint16
}

const (
	// recordLen is the size of one point record in the report.
	recordLen = 6
	// maxPoints is the number of simultaneous touches the chip
	// tracks.
	maxPoints = 2
	// rawBlockLen covers the count byte plus two full records.
	rawBlockLen = 1 + maxPoints*recordLen
	// minBlockLen is the shortest read that still decodes both
	// records; the trailing weight and area bytes of the second
	// record are not needed.
	minBlockLen = 1 + recordLen + 4
)

// Points iterates over the touch records of one raw report,
// highest-numbered record first. The zero value is an exhausted
// report; an exhausted Points is terminal until replaced by a fresh
// read.
type Points struct {
	// data[0] holds the remaining count, followed by the point
	// records.
	data [rawBlockLen]byte
}

// DecodePoints returns an iterator over the touch records in raw, a
// report block as read from the touch data registers: one count byte
// followed by the point records.
//
// The declared count is an upper bound only. It is clamped to the
// records raw actually holds, so a corrupted count byte can never
// cause reads past the block.
func DecodePoints(raw []byte) Points {
	var p Points
	if len(raw) == 0 {
		return p
	}
	copy(p.data[1:], raw[1:])
	count := int(raw[0])
	// A record is decodable when its first four bytes are present.
	if avail := (len(raw) + 1) / recordLen; count > avail {
		count = avail
	}
	if count > maxPoints {
		count = maxPoints
	}
	p.data[0] = uint8(count)
	return p
}

// Next returns the next decoded point, or ok == false when the report
// is exhausted.
func (p *Points) Next() (pt Point, ok bool) {
	if p.data[0] == 0 {
		return Point{}, false
	}
	p.data[0]--
	rec := p.data[1+int(p.data[0])*recordLen:]
	return Point{
		Index:  rec[2] >> 4,
		Action: actionFrom(rec[0] >> 6),
		X:      uint16(rec[0]&0x0F)<<8 | uint16(rec[1]),
		Y:      uint16(rec[2]&0x0F)<<8 | uint16(rec[3]),
	}, true
}

// All returns the remaining points as a single-use iterator, draining
// p as it goes.
func (p *Points) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for {
			pt, ok := p.Next()
			if !ok || !yield(pt) {
				return
			}
		}
	}
}

// TouchCount reads the number of active touches.
func (d *Dev) TouchCount() (uint8, error) {
	return d.readReg(regTouchData)
}

// TouchesRaw reads the full touch report block: the count byte and
// both complete point records.
func (d *Dev) TouchesRaw() ([rawBlockLen]byte, error) {
	var raw [rawBlockLen]byte
	err := d.readBuf(regTouchData, raw[:])
	return raw, err
}

// TouchPoints reads the current touch report and returns an iterator
// over its points. The read covers the minimum block that decodes
// both records.
func (d *Dev) TouchPoints() (Points, error) {
	raw := d.buf[1 : 1+minBlockLen]
	if err := d.readBuf(regTouchData, raw); err != nil {
		return Points{}, err
	}
	return DecodePoints(raw), nil
}
