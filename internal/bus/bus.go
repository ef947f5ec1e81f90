// Package bus implements the CPU-side 16-bit address decoding that
// wires RAM, the PPU, the cartridge and the controllers into the
// single memory map the CPU ticks against.
package bus

import (
	"nescore/internal/cartridge"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

// CPUBus is the cpu.Bus the CPU core ticks against. It owns CPU RAM
// but only holds non-owning references to the PPU, the cartridge and
// the two controllers, which the top-level NES aggregate owns.
type CPUBus struct {
	ram         [2048]uint8
	ppu         *ppu.PPU
	cart        *cartridge.Cartridge
	controllers [2]*input.Controller

	cpuCycle          uint64
	dmaStallRemaining int
}

// New wires a CPUBus to the given PPU, cartridge and controller pair.
func New(cart *cartridge.Cartridge, p *ppu.PPU, pads [2]*input.Controller) *CPUBus {
	return &CPUBus{cart: cart, ppu: p, controllers: pads}
}

// SetCPUCycle records the CPU's current total cycle count so that an
// OAMDMA trigger can decide between 513 and 514 stolen cycles by the
// parity rule in §4.3.
func (b *CPUBus) SetCPUCycle(n uint64) { b.cpuCycle = n }

// DMAStallCycles reports how many CPU cycles of the in-progress OAMDMA
// stall remain; the master clock must not tick the CPU while it is
// nonzero.
func (b *CPUBus) DMAStallCycles() int { return b.dmaStallRemaining }

// ConsumeDMAStallCycle accounts for one elapsed stall cycle.
func (b *CPUBus) ConsumeDMAStallCycle() {
	if b.dmaStallRemaining > 0 {
		b.dmaStallRemaining--
	}
}

// Read implements cpu.Bus.
func (b *CPUBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(addr & 7)
	case addr == 0x4016:
		return b.controllers[0].Read()
	case addr == 0x4017:
		return b.controllers[1].Read()
	case addr < 0x4020:
		return 0 // open bus: $4014 is write-only, APU regs not modeled by the core
	default:
		return b.cart.ReadCPU(addr)
	}
}

// Write implements cpu.Bus.
func (b *CPUBus) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = v
	case addr < 0x4000:
		b.ppu.WriteRegister(addr&7, v)
	case addr == 0x4014:
		b.triggerOAMDMA(v)
	case addr == 0x4016:
		b.controllers[0].Write(v)
		b.controllers[1].Write(v)
	case addr == 0x4017:
		// APU frame-counter control; the core has no APU.
	case addr < 0x4020:
		// remaining APU/IO range: ignored
	default:
		b.cart.WriteCPU(addr, v)
	}
}

func (b *CPUBus) triggerOAMDMA(page uint8) {
	base := uint16(page) << 8
	start := b.ppu.OAMAddr()
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(start+uint8(i), b.Read(base+uint16(i)))
	}
	stall := 513
	if b.cpuCycle%2 == 1 {
		stall = 514
	}
	b.dmaStallRemaining = stall
}
