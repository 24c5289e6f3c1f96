package ft6336

import "testing"

// encodeRecord packs a point into the 6-byte record layout used by
// the touch report.
func encodeRecord(rec []byte, action PointAction, index uint8, x, y uint16) {
	rec[0] = uint8(action)<<6 | uint8(x>>8)&0x0F
	rec[1] = uint8(x)
	rec[2] = index<<4 | uint8(y>>8)&0x0F
	rec[3] = uint8(y)
}

func TestDecodeEmpty(t *testing.T) {
	var raw [minBlockLen]byte
	pts := DecodePoints(raw[:])
	if _, ok := pts.Next(); ok {
		t.Error("report with count 0 yielded a point")
	}
}

func TestDecodeSingle(t *testing.T) {
	var raw [minBlockLen]byte
	raw[0] = 1
	encodeRecord(raw[1:], PressDown, 3, 120, 1500)
	pts := DecodePoints(raw[:])
	pt, ok := pts.Next()
	if !ok {
		t.Fatal("report with count 1 yielded no point")
	}
	want := Point{Index: 3, Action: PressDown, X: 120, Y: 1500}
	if pt != want {
		t.Errorf("decoded %+v, want %+v", pt, want)
	}
	if _, ok := pts.Next(); ok {
		t.Error("report with count 1 yielded a second point")
	}
}

func TestDecodeOrder(t *testing.T) {
	// Two records; the second record (offset 7) must be yielded
	// before the first (offset 1).
	var raw [minBlockLen]byte
	raw[0] = 2
	encodeRecord(raw[1:], Contact, 0, 100, 200)
	encodeRecord(raw[7:], Contact, 1, 300, 400)
	pts := DecodePoints(raw[:])
	first, ok := pts.Next()
	if !ok || first.Index != 1 || first.X != 300 || first.Y != 400 {
		t.Errorf("first point = %+v (ok=%v), want record at offset 7", first, ok)
	}
	second, ok := pts.Next()
	if !ok || second.Index != 0 || second.X != 100 || second.Y != 200 {
		t.Errorf("second point = %+v (ok=%v), want record at offset 1", second, ok)
	}
	if _, ok := pts.Next(); ok {
		t.Error("report with count 2 yielded a third point")
	}
}

func TestRoundTrip(t *testing.T) {
	coords := []uint16{0, 1, 0x7FF, 0xABC, 0xFFF}
	indices := []uint8{0, 1, 7, 15}
	for _, action := range []PointAction{PressDown, LiftUp, Contact} {
		for _, index := range indices {
			for _, x := range coords {
				for _, y := range coords {
					var raw [minBlockLen]byte
					raw[0] = 1
					encodeRecord(raw[1:], action, index, x, y)
					pts := DecodePoints(raw[:])
					pt, ok := pts.Next()
					if !ok {
						t.Fatal("no point decoded")
					}
					want := Point{Index: index, Action: action, X: x, Y: y}
					if pt != want {
						t.Fatalf("decoded %+v, want %+v", pt, want)
					}
				}
			}
		}
	}
}

func TestUnknownAction(t *testing.T) {
	var raw [minBlockLen]byte
	raw[0] = 1
	encodeRecord(raw[1:], 3, 0, 10, 20)
	pts := DecodePoints(raw[:])
	pt, ok := pts.Next()
	if !ok {
		t.Fatal("no point decoded")
	}
	if pt.Action != NoAction {
		t.Errorf("action code 3 decoded to %v, want %v", pt.Action, NoAction)
	}
	if actionFrom(3) != NoAction {
		t.Errorf("actionFrom(3) = %v, want %v", actionFrom(3), NoAction)
	}
}

func TestCorruptCount(t *testing.T) {
	// A count byte beyond the block capacity must clamp, never read
	// out of bounds.
	for _, size := range []int{minBlockLen, rawBlockLen} {
		raw := make([]byte, size)
		raw[0] = 255
		encodeRecord(raw[1:], Contact, 0, 11, 22)
		encodeRecord(raw[7:], Contact, 1, 33, 44)
		pts := DecodePoints(raw)
		n := 0
		for range pts.All() {
			n++
		}
		if n != maxPoints {
			t.Errorf("block size %d with count 255 yielded %d points, want %d", size, n, maxPoints)
		}
	}
}

func TestTruncatedBlock(t *testing.T) {
	tests := []struct {
		size, count int
		want        int
	}{
		{13, 2, 2},
		{11, 2, 2}, // second record decodable without its trailing bytes
		{7, 2, 1},
		{5, 2, 1},
		{4, 2, 0},
		{1, 2, 0},
		{0, 0, 0},
	}
	for _, tc := range tests {
		raw := make([]byte, tc.size)
		if tc.size > 0 {
			raw[0] = uint8(tc.count)
		}
		pts := DecodePoints(raw)
		n := 0
		for range pts.All() {
			n++
		}
		if n != tc.want {
			t.Errorf("block size %d count %d yielded %d points, want %d", tc.size, tc.count, n, tc.want)
		}
	}
}

func TestExhaustedIsTerminal(t *testing.T) {
	var raw [minBlockLen]byte
	raw[0] = 1
	pts := DecodePoints(raw[:])
	if _, ok := pts.Next(); !ok {
		t.Fatal("no point decoded")
	}
	for i := 0; i < 3; i++ {
		if _, ok := pts.Next(); ok {
			t.Fatal("exhausted report yielded a point")
		}
	}
	for range pts.All() {
		t.Fatal("exhausted report yielded a point through All")
	}
}

func TestPowerModeFallback(t *testing.T) {
	for _, m := range []PowerMode{Active, Monitor, Standby, Hibernate} {
		if got := powerModeFrom(uint8(m)); got != m {
			t.Errorf("powerModeFrom(%d) = %v, want %v", uint8(m), got, m)
		}
	}
	if got := powerModeFrom(5); got != Active {
		t.Errorf("powerModeFrom(5) = %v, want %v", got, Active)
	}
}
