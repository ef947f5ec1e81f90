package input

import "testing"

func TestShiftOrderIsABSelectStartUDLR(t *testing.T) {
	c := New()
	for _, b := range []Button{A, B, Select, Start, Up, Down, Left, Right} {
		c.SetButton(b, true)
	}
	c.Write(0x01) // strobe high
	c.Write(0x00) // latch

	want := []uint8{1, 1, 1, 1, 1, 1, 1, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("ninth read: got %d want 1", got)
	}
}

func TestShiftOrderMixedButtons(t *testing.T) {
	c := New()
	c.SetButton(A, true)
	c.SetButton(Start, true)
	c.Write(0x01)
	c.Write(0x00)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
}

func TestStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.Write(0x01)
	c.SetButton(A, true)
	if got := c.Read(); got != 1 {
		t.Fatalf("strobe-high read: got %d want 1", got)
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("strobe-high repeated read: got %d want 1", got)
	}
}
