// Package ppu implements the NES Picture Processing Unit (2C02): the
// dot-clocked pixel pipeline, the $2000-$2007 register gateway, and
// sprite evaluation.
package ppu

import "nescore/internal/cartridge"

// Width and Height are the visible frame buffer dimensions.
const (
	Width  = 256
	Height = 240
)

// PPU is the NES picture processing unit. A single Tick advances one
// dot; three Ticks occur per CPU tick (see the NES top-level aggregate).
type PPU struct {
	cart *cartridge.Cartridge

	// CPU-visible registers
	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// Loopy scroll/address state
	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8
	lastBus    uint8 // last byte written to $2000-$2007, for open-bus reads

	nametable [2][0x400]uint8
	palette   [32]uint8
	oam       [256]uint8
	secondary [32]uint8
	spriteIdx [8]uint8 // which OAM sprite each secondary-OAM slot came from

	spriteCount int

	scanline int // -1..260
	dot      int // 0..340
	oddFrame bool

	frameReady bool
	nmiLine    bool

	bgShiftLow, bgShiftHigh     uint16
	attrShiftLow, attrShiftHigh uint16
	nextTileID, nextTileAttr    uint8
	nextTileLow, nextTileHigh   uint8

	spritePatternLow, spritePatternHigh [8]uint8
	spriteAttr, spriteX                [8]uint8

	sprite0InSecondary bool

	FrameBuffer [Width * Height]uint32
}

// New creates a PPU wired to the cartridge it will read CHR and
// nametable data through.
func New(cart *cartridge.Cartridge) *PPU {
	p := &PPU{cart: cart}
	p.Reset()
	return p
}

// Reset returns the PPU to its post-power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status, p.oamAddr = 0, 0, 0, 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.scanline, p.dot = -1, 0
	p.oddFrame = false
	p.frameReady = false
	p.nmiLine = false
	for i := range p.oam {
		p.oam[i] = 0
	}
	for i := range p.FrameBuffer {
		p.FrameBuffer[i] = 0x000000FF
	}
}

// FrameReady reports and clears the one-frame completion latch.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// NMIRequested reports and clears the one-shot NMI edge.
func (p *PPU) NMIRequested() bool {
	r := p.nmiLine
	p.nmiLine = false
	return r
}

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }
func (p *PPU) showBackground() bool   { return p.mask&0x08 != 0 }
func (p *PPU) showSprites() bool      { return p.mask&0x10 != 0 }

// nametableIndex maps a $2000-$2FFF PPU address to one of the two
// physical 1KB nametables per the cartridge's fixed mirroring mode.
func (p *PPU) nametableIndex(addr uint16) (table int, off uint16) {
	addr &= 0x0FFF
	table = int(addr / 0x400)
	off = addr % 0x400
	switch p.cart.Mirror() {
	case cartridge.MirrorVertical:
		return table % 2, off
	case cartridge.MirrorHorizontal:
		return table / 2, off
	default: // four-screen: not physically backed beyond two banks here
		return table % 2, off
	}
}

func (p *PPU) readNametable(addr uint16) uint8 {
	t, off := p.nametableIndex(addr)
	return p.nametable[t][off]
}

func (p *PPU) writeNametable(addr uint16, value uint8) {
	t, off := p.nametableIndex(addr)
	p.nametable[t][off] = value
}

// paletteIndex applies the $3F10/$14/$18/$1C mirror-to-$3F00/04/08/0C
// aliasing rule.
func paletteIndex(addr uint16) uint16 {
	a := addr & 0x1F
	if a >= 0x10 && a%4 == 0 {
		a -= 0x10
	}
	return a
}

// busRead reads the PPU's own 14-bit address space: pattern tables via
// the cartridge, nametables (mirrored), and their $3000-$3EFF mirror.
func (p *PPU) busRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.cart.ReadPPU(addr)
	case addr < 0x3F00:
		return p.readNametable(addr)
	default:
		return p.palette[paletteIndex(addr)]
	}
}

func (p *PPU) busWrite(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.cart.WritePPU(addr, value)
	case addr < 0x3F00:
		p.writeNametable(addr, value)
	default:
		p.palette[paletteIndex(addr)] = value
	}
}

func vramIncrement(ctrl uint8) uint16 {
	if ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

// ReadRegister implements the CPU-visible $2000-$2007 read semantics.
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		result := (p.status & 0xE0) | (p.lastBus & 0x1F)
		p.status &^= 0x80
		p.w = false
		return result
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readPPUData()
	default:
		return p.lastBus
	}
}

func (p *PPU) readPPUData() uint8 {
	addr := p.v & 0x3FFF
	var result uint8
	if addr >= 0x3F00 {
		result = p.palette[paletteIndex(addr)]
		p.readBuffer = p.readNametable(addr - 0x1000)
	} else {
		result = p.readBuffer
		p.readBuffer = p.busRead(addr)
	}
	p.v += vramIncrement(p.ctrl)
	return result
}

// WriteRegister implements the CPU-visible $2000-$2007 write semantics.
func (p *PPU) WriteRegister(reg uint16, value uint8) {
	p.lastBus = value
	switch reg & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.x = value & 0x07
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = (p.t &^ 0x7F00) | (uint16(value&0x3F) << 8)
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.busWrite(p.v&0x3FFF, value)
		p.v += vramIncrement(p.ctrl)
	}
}

// WriteOAM is the bus's entry point during OAMDMA.
func (p *PPU) WriteOAM(index uint8, value uint8) {
	p.oam[index] = value
}

// OAMAddr returns the current OAMADDR value, which OAMDMA uses as the
// starting write offset into OAM.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

// loopy helpers

func incrementCoarseX(v uint16) uint16 {
	if v&0x001F == 31 {
		v &^= 0x001F
		v ^= 0x0400
	} else {
		v++
	}
	return v
}

func incrementY(v uint16) uint16 {
	if v&0x7000 != 0x7000 {
		v += 0x1000
		return v
	}
	v &^= 0x7000
	y := (v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	v = (v &^ 0x03E0) | (y << 5)
	return v
}

func (p *PPU) transferX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) transferY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

func (p *PPU) loadShiftersFromLatches() {
	p.bgShiftLow = (p.bgShiftLow &^ 0x00FF) | uint16(p.nextTileLow)
	p.bgShiftHigh = (p.bgShiftHigh &^ 0x00FF) | uint16(p.nextTileHigh)
	var lo, hi uint8
	if p.nextTileAttr&0x01 != 0 {
		lo = 0xFF
	}
	if p.nextTileAttr&0x02 != 0 {
		hi = 0xFF
	}
	p.attrShiftLow = (p.attrShiftLow &^ 0x00FF) | uint16(lo)
	p.attrShiftHigh = (p.attrShiftHigh &^ 0x00FF) | uint16(hi)
}

func (p *PPU) shiftBackground() {
	if !p.showBackground() {
		return
	}
	p.bgShiftLow <<= 1
	p.bgShiftHigh <<= 1
	p.attrShiftLow <<= 1
	p.attrShiftHigh <<= 1
}

// fetchBackgroundByte performs the one nametable/attribute/pattern
// fetch appropriate to the current dot within its 8-dot group.
func (p *PPU) fetchBackgroundByte() {
	switch p.dot % 8 {
	case 1:
		p.loadShiftersFromLatches()
		p.nextTileID = p.readNametable(0x2000 | (p.v & 0x0FFF))
	case 3:
		addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		attr := p.readNametable(addr)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.nextTileAttr = (attr >> shift) & 0x03
	case 5:
		base := uint16(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.nextTileLow = p.busRead(base + uint16(p.nextTileID)*16 + fineY)
	case 7:
		base := uint16(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.nextTileHigh = p.busRead(base + uint16(p.nextTileID)*16 + fineY + 8)
	case 0:
		p.v = incrementCoarseX(p.v)
	}
}

func spriteHeight(ctrl uint8) int {
	if ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

// evaluateSprites runs the simplified (non-cycle-exact) secondary OAM
// scan: clears secondary OAM, then walks primary OAM collecting the
// first 8 sprites intersecting the next scanline, flagging overflow on
// a 9th.
func (p *PPU) evaluateSprites() {
	for i := range p.secondary {
		p.secondary[i] = 0xFF
	}
	p.spriteCount = 0
	p.sprite0InSecondary = false
	height := spriteHeight(p.ctrl)
	nextLine := p.scanline + 1

	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if nextLine >= y && nextLine < y+height {
			if p.spriteCount == 8 {
				p.status |= 0x20
				break
			}
			if i == 0 {
				p.sprite0InSecondary = true
			}
			p.spriteIdx[p.spriteCount] = uint8(i)
			copy(p.secondary[p.spriteCount*4:p.spriteCount*4+4], p.oam[i*4:i*4+4])
			p.spriteCount++
		}
	}

	p.fetchSpritePatterns()
}

func (p *PPU) fetchSpritePatterns() {
	height := spriteHeight(p.ctrl)
	for s := 0; s < p.spriteCount; s++ {
		y := p.secondary[s*4]
		tile := p.secondary[s*4+1]
		attr := p.secondary[s*4+2]
		x := p.secondary[s*4+3]

		row := (p.scanline + 1) - int(y)
		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0
		if flipV {
			row = height - 1 - row
		}

		var base uint16
		var index uint16
		if height == 16 {
			base = uint16(tile&0x01) * 0x1000
			index = uint16(tile &^ 0x01)
			if row >= 8 {
				index++
				row -= 8
			}
		} else {
			if p.ctrl&0x08 != 0 {
				base = 0x1000
			}
			index = uint16(tile)
		}

		lo := p.busRead(base + index*16 + uint16(row))
		hi := p.busRead(base + index*16 + uint16(row) + 8)
		if flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spritePatternLow[s] = lo
		p.spritePatternHigh[s] = hi
		p.spriteAttr[s] = attr
		p.spriteX[s] = x
	}
	for s := p.spriteCount; s < 8; s++ {
		p.spritePatternLow[s] = 0
		p.spritePatternHigh[s] = 0
	}
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// backgroundPixel returns the 2-bit color index and palette number for
// the current fine-x-selected pixel of the shift registers.
func (p *PPU) backgroundPixel() (color, palette uint8) {
	if !p.showBackground() {
		return 0, 0
	}
	if p.dot < 9 && p.mask&0x02 == 0 {
		return 0, 0
	}
	sel := uint16(0x8000) >> p.x
	lo := uint8(0)
	hi := uint8(0)
	if p.bgShiftLow&sel != 0 {
		lo = 1
	}
	if p.bgShiftHigh&sel != 0 {
		hi = 1
	}
	color = lo | (hi << 1)
	plo := uint8(0)
	phi := uint8(0)
	if p.attrShiftLow&sel != 0 {
		plo = 1
	}
	if p.attrShiftHigh&sel != 0 {
		phi = 1
	}
	palette = plo | (phi << 1)
	return
}

type spritePixel struct {
	color, palette uint8
	priority       bool
	isSprite0      bool
	opaque         bool
}

func (p *PPU) spritePixelAt() spritePixel {
	if !p.showSprites() {
		return spritePixel{}
	}
	if p.dot < 9 && p.mask&0x04 == 0 {
		return spritePixel{}
	}
	x := p.dot - 1
	for s := 0; s < p.spriteCount; s++ {
		offset := x - int(p.spriteX[s])
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint8(7 - offset)
		lo := (p.spritePatternLow[s] >> bit) & 1
		hi := (p.spritePatternHigh[s] >> bit) & 1
		color := lo | (hi << 1)
		if color == 0 {
			continue
		}
		return spritePixel{
			color:     color,
			palette:   p.spriteAttr[s] & 0x03,
			priority:  p.spriteAttr[s]&0x20 == 0,
			isSprite0: p.spriteIdx[s] == 0 && p.sprite0InSecondary,
			opaque:    true,
		}
	}
	return spritePixel{}
}

func (p *PPU) renderPixel() {
	bgColor, bgPalette := p.backgroundPixel()
	sp := p.spritePixelAt()

	var finalIndex uint16
	switch {
	case bgColor == 0 && !sp.opaque:
		finalIndex = 0x3F00
	case bgColor == 0 && sp.opaque:
		finalIndex = 0x3F10 + uint16(sp.palette)*4 + uint16(sp.color)
	case bgColor != 0 && !sp.opaque:
		finalIndex = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	default:
		if bgColor != 0 && sp.opaque && sp.isSprite0 && p.renderingEnabled() && p.dot >= 1 && p.dot <= 255 {
			p.status |= 0x40
		}
		if sp.priority {
			finalIndex = 0x3F10 + uint16(sp.palette)*4 + uint16(sp.color)
		} else {
			finalIndex = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
		}
	}

	colorIndex := p.palette[paletteIndex(finalIndex)]
	pix := rgba(colorIndex, p.mask&0x01 != 0, p.mask>>5)
	x := p.dot - 1
	y := p.scanline
	if x >= 0 && x < Width && y >= 0 && y < Height {
		p.FrameBuffer[y*Width+x] = pix
	}
}

// Tick advances the PPU by exactly one dot.
func (p *PPU) Tick() {
	visibleOrPrerender := p.scanline >= -1 && p.scanline < 240
	fetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 340)

	if visibleOrPrerender {
		if p.scanline == -1 && p.dot == 1 {
			p.status &^= 0xE0 // VBL, sprite-0 hit, overflow cleared at pre-render start
		}

		if fetchWindow {
			p.shiftBackground()
			p.fetchBackgroundByte()
		}

		if p.dot == 256 {
			p.v = incrementY(p.v)
		}
		if p.dot == 257 {
			p.transferX()
			if p.scanline >= 0 {
				p.evaluateSprites()
			}
		}
		if p.scanline == -1 && p.dot >= 280 && p.dot <= 304 {
			p.transferY()
		}
	}

	if p.scanline >= 0 && p.scanline < 240 && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= 0x80
		p.frameReady = true
		if p.ctrl&0x80 != 0 {
			p.nmiLine = true
		}
	}

	p.dot++
	if p.scanline == -1 && p.dot == 340 && p.oddFrame && p.renderingEnabled() {
		p.dot = 341 // skip the short scanline's last dot
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
		}
	}
}

// Scanline and Dot expose the current dot-clock position, used by the
// CPU trace formatter (§6) and by tests.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }
