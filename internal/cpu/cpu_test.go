package cpu

import "testing"

// flatBus is a 64KB RAM-backed Bus used only to exercise the CPU in
// isolation; the real memory-map routing lives in internal/bus.
type flatBus struct {
	mem [65536]uint8
}

func (b *flatBus) Read(addr uint16) uint8        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v uint8)    { b.mem[addr] = v }

func newTestCPU(program ...uint8) (*CPU, *flatBus) {
	b := &flatBus{}
	copy(b.mem[0x8000:], program)
	b.mem[0xFFFC] = 0x00
	b.mem[0xFFFD] = 0x80
	c := New()
	c.Reset()
	for i := 0; i < 7; i++ {
		c.Tick(b)
	}
	return c, b
}

func runInstruction(c *CPU, b Bus) {
	c.Tick(b) // opcode fetch
	for !c.BetweenInstructions() {
		c.Tick(b)
	}
}

func TestResetTakesSevenCycles(t *testing.T) {
	b := &flatBus{}
	b.mem[0xFFFC] = 0x34
	b.mem[0xFFFD] = 0x12
	c := New()
	c.Reset()
	for i := 0; i < 7; i++ {
		c.Tick(b)
	}
	if c.PC != 0x1234 {
		t.Fatalf("PC after reset: got %#x want 0x1234", c.PC)
	}
	if c.Cycles != 7 {
		t.Fatalf("cycles after reset: got %d want 7", c.Cycles)
	}
}

func TestImmediateLDATakesTwoCycles(t *testing.T) {
	c, b := newTestCPU(0xA9, 0x42)
	before := c.Cycles
	runInstruction(c, b)
	if c.A != 0x42 {
		t.Fatalf("A: got %#x want 0x42", c.A)
	}
	if got := c.Cycles - before; got != 2 {
		t.Fatalf("cycles: got %d want 2", got)
	}
}

func TestAbsoluteXReadNoCrossTakesFourCycles(t *testing.T) {
	c, b := newTestCPU(0xBD, 0x00, 0x20) // LDA $2000,X
	b.mem[0x2000] = 0x55
	c.X = 0
	before := c.Cycles
	runInstruction(c, b)
	if c.A != 0x55 {
		t.Fatalf("A: got %#x want 0x55", c.A)
	}
	if got := c.Cycles - before; got != 4 {
		t.Fatalf("cycles: got %d want 4", got)
	}
}

func TestAbsoluteXReadCrossingPageTakesFiveCycles(t *testing.T) {
	c, b := newTestCPU(0xBD, 0xFF, 0x20) // LDA $20FF,X
	b.mem[0x2100] = 0x77
	c.X = 1
	before := c.Cycles
	runInstruction(c, b)
	if c.A != 0x77 {
		t.Fatalf("A: got %#x want 0x77", c.A)
	}
	if got := c.Cycles - before; got != 5 {
		t.Fatalf("cycles: got %d want 5", got)
	}
}

func TestSTAAbsoluteXAlwaysTakesFiveCycles(t *testing.T) {
	c, b := newTestCPU(0x9D, 0x00, 0x20) // STA $2000,X
	c.A = 0x99
	c.X = 0
	before := c.Cycles
	runInstruction(c, b)
	if b.mem[0x2000] != 0x99 {
		t.Fatalf("mem[$2000]: got %#x want 0x99", b.mem[0x2000])
	}
	if got := c.Cycles - before; got != 5 {
		t.Fatalf("cycles: got %d want 5", got)
	}
}

func TestASLAbsoluteXTakesSevenCycles(t *testing.T) {
	c, b := newTestCPU(0x1E, 0x00, 0x20) // ASL $2000,X
	b.mem[0x2000] = 0x01
	c.X = 0
	before := c.Cycles
	runInstruction(c, b)
	if b.mem[0x2000] != 0x02 {
		t.Fatalf("mem[$2000]: got %#x want 0x02", b.mem[0x2000])
	}
	if got := c.Cycles - before; got != 7 {
		t.Fatalf("cycles: got %d want 7", got)
	}
}

func TestBranchNotTakenTakesTwoCycles(t *testing.T) {
	c, b := newTestCPU(0x10, 0x02) // BPL +2
	c.N = true                     // branch not taken
	before := c.Cycles
	runInstruction(c, b)
	if got := c.Cycles - before; got != 2 {
		t.Fatalf("cycles: got %d want 2", got)
	}
}

func TestBranchTakenSamePageTakesThreeCycles(t *testing.T) {
	c, b := newTestCPU(0x10, 0x02) // BPL +2, from $8000 -> $8004
	c.N = false
	before := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x8004 {
		t.Fatalf("PC: got %#x want 0x8004", c.PC)
	}
	if got := c.Cycles - before; got != 3 {
		t.Fatalf("cycles: got %d want 3", got)
	}
}

func TestBranchTakenCrossingPageTakesFourCycles(t *testing.T) {
	b := &flatBus{}
	b.mem[0xFFFC], b.mem[0xFFFD] = 0x00, 0x80
	prog := []uint8{0x10, 0x7F} // BPL +127, from $80F0: next-PC $80F2 -> target $8171, crosses page
	copy(b.mem[0x80F0:], prog)
	c := New()
	c.Reset()
	for i := 0; i < 7; i++ {
		c.Tick(b)
	}
	c.PC = 0x80F0
	before := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x8171 {
		t.Fatalf("PC: got %#x want 0x8171", c.PC)
	}
	if got := c.Cycles - before; got != 4 {
		t.Fatalf("cycles: got %d want 4", got)
	}
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, b := newTestCPU(0x20, 0x00, 0x90) // JSR $9000
	b.mem[0x9000] = 0x60                 // RTS
	jsrCycles := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x9000 {
		t.Fatalf("PC after JSR: got %#x want 0x9000", c.PC)
	}
	if got := c.Cycles - jsrCycles; got != 6 {
		t.Fatalf("JSR cycles: got %d want 6", got)
	}
	rtsCycles := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x8003 {
		t.Fatalf("PC after RTS: got %#x want 0x8003", c.PC)
	}
	if got := c.Cycles - rtsCycles; got != 6 {
		t.Fatalf("RTS cycles: got %d want 6", got)
	}
}

func TestBRKPushesStatusWithBSetAndJumpsToIRQVector(t *testing.T) {
	c, b := newTestCPU(0x00) // BRK
	b.mem[0xFFFE] = 0x00
	b.mem[0xFFFF] = 0x90
	before := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x9000 {
		t.Fatalf("PC after BRK: got %#x want 0x9000", c.PC)
	}
	if got := c.Cycles - before; got != 7 {
		t.Fatalf("BRK cycles: got %d want 7", got)
	}
	if !c.I {
		t.Fatal("I flag should be set after BRK")
	}
	pushed := b.mem[stackBase+uint16(c.SP)+1]
	if pushed&flagB == 0 {
		t.Fatal("status byte pushed by BRK should have B set")
	}
}

func TestNMIInterruptsBetweenInstructions(t *testing.T) {
	c, b := newTestCPU(0xEA, 0xEA, 0xEA) // NOP NOP NOP
	b.mem[0xFFFA] = 0x00
	b.mem[0xFFFB] = 0xA0
	runInstruction(c, b) // first NOP completes
	c.SetNMI(true)
	c.SetNMI(false) // falling edge latches the NMI
	before := c.Cycles
	runInstruction(c, b)
	if c.PC != 0xA000 {
		t.Fatalf("PC after NMI: got %#x want 0xA000", c.PC)
	}
	if got := c.Cycles - before; got != 7 {
		t.Fatalf("NMI cycles: got %d want 7", got)
	}
}

func TestIRQIgnoredWhenInterruptDisableSet(t *testing.T) {
	c, b := newTestCPU(0xEA, 0xEA)
	c.I = true
	runInstruction(c, b)
	c.SetIRQ(true)
	before := c.Cycles
	runInstruction(c, b)
	if c.PC != 0x8002 {
		t.Fatalf("PC should just advance past the NOP, got %#x", c.PC)
	}
	_ = before
}

func TestTraceFormatMatchesNestestShape(t *testing.T) {
	c, b := newTestCPU(0x4C, 0x00, 0x90) // JMP $9000
	c.Tick(b)                            // opcode fetch: decodes the instruction
	got := c.StateForTrace(0x8000, 0x4C, "JMP $9000", Absolute, func(a uint16) uint8 { return b.Read(a) }, 0, 0)

	wantPrefix := "8000  4C 00 90  JMP $9000"
	if len(got) < len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("trace line prefix: got %q, want prefix %q", got, wantPrefix)
	}
	wantSuffix := "A:00 X:00 Y:00 P:34 SP:FD PPU:  0,  0 CYC:8"
	if len(got) < len(wantSuffix) || got[len(got)-len(wantSuffix):] != wantSuffix {
		t.Fatalf("trace line suffix: got %q, want suffix %q", got, wantSuffix)
	}
}
