package ppu

// rgbPalette is the canonical 64-entry 2C02 NTSC palette, RGB order.
// Index is the 6-bit color produced by background/sprite compositing.
var rgbPalette = [64][3]uint8{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {60, 60, 60}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {160, 162, 160}, {0, 0, 0}, {0, 0, 0},
}

// rgba packs a 6-bit NES color index into a row-major RGBA8 pixel,
// applying the optional grayscale mask and color-emphasis bits from
// PPUMASK the way real hardware's final DAC stage does.
func rgba(index uint8, grayscale bool, emphasis uint8) uint32 {
	index &= 0x3F
	if grayscale {
		index &= 0x30
	}
	c := rgbPalette[index]
	r, g, b := uint32(c[0]), uint32(c[1]), uint32(c[2])

	// Emphasis bits dim the other two channels; a crude but standard
	// approximation of the 2C02's analog emphasis behavior.
	if emphasis&0x01 != 0 { // emphasize red
		g = g * 3 / 4
		b = b * 3 / 4
	}
	if emphasis&0x02 != 0 { // emphasize green
		r = r * 3 / 4
		b = b * 3 / 4
	}
	if emphasis&0x04 != 0 { // emphasize blue
		r = r * 3 / 4
		g = g * 3 / 4
	}
	return (r << 24) | (g << 16) | (b << 8) | 0xFF
}
