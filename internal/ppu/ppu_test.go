package ppu

import (
	"testing"

	"nescore/internal/cartridge"
)

func testCartridge(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, 16+16*1024)
	copy(rom, []byte("NES\x1A"))
	rom[4] = 1 // one 16KB PRG bank
	rom[5] = 0 // CHR-RAM
	cart, err := cartridge.Load(rom)
	if err != nil {
		t.Fatalf("unexpected error building test cartridge: %v", err)
	}
	return cart
}

func writePPUAddr(p *PPU, addr uint16) {
	p.WriteRegister(6, uint8(addr>>8))
	p.WriteRegister(6, uint8(addr))
}

func TestPaletteMirrorAliasing(t *testing.T) {
	p := New(testCartridge(t))
	writePPUAddr(p, 0x3F00)
	for i := uint8(0); i < 0x20; i++ {
		p.WriteRegister(7, i)
	}
	cases := []struct{ mirrored, base uint16 }{
		{0x3F10, 0x3F00}, {0x3F14, 0x3F04}, {0x3F18, 0x3F08}, {0x3F1C, 0x3F0C},
	}
	for _, c := range cases {
		writePPUAddr(p, c.mirrored)
		p.ReadRegister(7) // dummy buffered read to land the address
		got := p.palette[paletteIndex(c.mirrored)]
		want := p.palette[paletteIndex(c.base)]
		if got != want {
			t.Errorf("alias %#x: got %#x want %#x (base %#x)", c.mirrored, got, want, c.base)
		}
	}
}

func TestPPUAddrDataRoundTrip(t *testing.T) {
	p := New(testCartridge(t))
	writePPUAddr(p, 0x2005)
	p.WriteRegister(7, 0xAB)

	writePPUAddr(p, 0x2005)
	p.ReadRegister(7)           // returns the stale byte and loads 0xAB into the read buffer
	got := p.ReadRegister(7)    // now returns the buffered 0xAB
	if got != 0xAB {
		t.Fatalf("got %#x want 0xAB", got)
	}
}

func TestPPUDataAutoIncrement(t *testing.T) {
	p := New(testCartridge(t))
	writePPUAddr(p, 0x2000)
	for i := uint8(0); i < 4; i++ {
		p.WriteRegister(7, i)
	}
	if p.v != 0x2004 {
		t.Fatalf("v after 4 writes: got %#x want 0x2004", p.v)
	}

	writePPUAddr(p, 0x2000)
	p.ReadRegister(7) // discard: primes the buffer with byte 0
	for i := uint8(1); i <= 3; i++ {
		if got := p.ReadRegister(7); got != i-1 {
			t.Fatalf("buffered read %d: got %#x want %#x", i, got, i-1)
		}
	}
}

func TestStatusReadClearsVBLAndToggle(t *testing.T) {
	p := New(testCartridge(t))
	p.status |= 0x80
	p.w = true
	got := p.ReadRegister(2)
	if got&0x80 == 0 {
		t.Fatal("expected VBL bit set on the read that clears it")
	}
	if p.status&0x80 != 0 {
		t.Fatal("VBL flag should be cleared after the read")
	}
	if p.w {
		t.Fatal("write toggle should be cleared by a PPUSTATUS read")
	}
}

func TestFrameReadyLatchesOncePerFrame(t *testing.T) {
	p := New(testCartridge(t))
	ticks := 341 * 262
	seen := 0
	for i := 0; i < ticks; i++ {
		p.Tick()
		if p.FrameReady() {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one frame-ready edge in one frame's worth of ticks, got %d", seen)
	}
}

func TestNMIRequestedOnVBlankWhenEnabled(t *testing.T) {
	p := New(testCartridge(t))
	p.WriteRegister(0, 0x80) // enable NMI
	for p.scanline != 241 || p.dot != 1 {
		p.Tick()
	}
	p.Tick() // the dot==1 tick itself raises NMI
	if !p.NMIRequested() {
		t.Fatal("expected NMI request at scanline 241 dot 1 with NMI enabled")
	}
}
