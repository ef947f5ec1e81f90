package cartridge

// nrom implements Mapper 0: no bank switching. A single 16KB PRG bank
// is mirrored across $8000-$FFFF; a 32KB image is mapped straight
// through. CHR is either a fixed 8KB ROM bank or, when the header
// declared zero CHR chunks, 8KB of writable CHR-RAM.
type nrom struct {
	cart     *Cartridge
	prgMask  int
}

func newNROM(cart *Cartridge) *nrom {
	mask := 0x3FFF
	if len(cart.PRGROM) > prgBankSize {
		mask = 0x7FFF
	}
	return &nrom{cart: cart, prgMask: mask}
}

func (m *nrom) CPUMapRead(addr uint16) Result {
	switch {
	case addr >= 0x8000:
		return Result{Kind: ReadFromPRG, Offset: int(addr) & m.prgMask}
	case addr >= 0x6000 && addr < 0x8000:
		return Result{Kind: Handled, Value: m.cart.readPRGRAM(int(addr - 0x6000))}
	default:
		return Result{Kind: Passthrough}
	}
}

func (m *nrom) CPUMapWrite(addr uint16, value uint8) Result {
	if addr >= 0x6000 && addr < 0x8000 {
		return Result{Kind: WriteToPRGRAM, Offset: int(addr - 0x6000)}
	}
	return Result{Kind: Passthrough}
}

func (m *nrom) PPUMapRead(addr uint16) Result {
	if addr < 0x2000 {
		return Result{Kind: ReadFromCHR, Offset: int(addr)}
	}
	return Result{Kind: Passthrough}
}

func (m *nrom) PPUMapWrite(addr uint16, value uint8) Result {
	if addr < 0x2000 {
		return Result{Kind: ReadFromCHR, Offset: int(addr)}
	}
	return Result{Kind: Passthrough}
}
