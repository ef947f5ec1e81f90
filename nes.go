// Package nescore is the top-level aggregate wiring the CPU, PPU, bus,
// cartridge and controllers into a single master-clocked emulator
// core: one CPU tick per three PPU ticks, single-threaded and lock
// free, matching the NES's own 1:3 CPU:PPU clock ratio.
package nescore

import (
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

// Width and Height are the visible frame buffer dimensions.
const (
	Width  = ppu.Width
	Height = ppu.Height
)

// Button identifies one of the eight buttons on an NES controller.
type Button = input.Button

const (
	ButtonA      = input.A
	ButtonB      = input.B
	ButtonSelect = input.Select
	ButtonStart  = input.Start
	ButtonUp     = input.Up
	ButtonDown   = input.Down
	ButtonLeft   = input.Left
	ButtonRight  = input.Right
)

// NES owns every core component. It is the sole owner of the
// cartridge; the bus and PPU each hold a non-owning reference to it,
// since the master clock never drives the CPU and PPU concurrently
// and so never needs to arbitrate between them.
type NES struct {
	cart        *cartridge.Cartridge
	cpu         *cpu.CPU
	ppu         *ppu.PPU
	bus         *bus.CPUBus
	controllers [2]*input.Controller
}

// New parses rom as an iNES image and assembles a fresh NES, already
// Reset so PC holds the reset vector.
func New(rom []byte) (*NES, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}
	p := ppu.New(cart)
	pads := [2]*input.Controller{input.New(), input.New()}
	b := bus.New(cart, p, pads)
	n := &NES{
		cart:        cart,
		cpu:         cpu.New(),
		ppu:         p,
		bus:         b,
		controllers: pads,
	}
	n.Reset()
	return n, nil
}

// Reset reinitializes CPU and PPU state and runs the CPU's 7-cycle
// reset sequence to completion so PC is loaded from the reset vector.
func (n *NES) Reset() {
	n.ppu.Reset()
	n.cpu.Reset()
	for i := 0; i < 7; i++ {
		n.bus.SetCPUCycle(n.cpu.Cycles)
		n.cpu.Tick(n.bus)
	}
}

// SetButton updates a controller's button shadow state; the host
// calls this between frames.
func (n *NES) SetButton(controllerID int, b Button, pressed bool) {
	if controllerID < 0 || controllerID > 1 {
		return
	}
	n.controllers[controllerID].SetButton(b, pressed)
}

// FrameBuffer returns the PPU's current RGBA8 framebuffer, row-major,
// top-to-bottom, 256x240.
func (n *NES) FrameBuffer() *[ppu.Width * ppu.Height]uint32 {
	return &n.ppu.FrameBuffer
}

// StepCycle advances the master clock by exactly one CPU-cycle slot:
// three PPU ticks, then either a CPU tick or, while an OAMDMA stall is
// in progress, the accounting for one stolen cycle with the CPU held
// idle. The PPU always ticks regardless of a stall in progress.
func (n *NES) StepCycle() {
	for i := 0; i < 3; i++ {
		n.ppu.Tick()
	}
	if n.ppu.NMIRequested() {
		n.cpu.TriggerNMI()
	}
	if n.bus.DMAStallCycles() > 0 {
		n.bus.ConsumeDMAStallCycle()
		return
	}
	n.bus.SetCPUCycle(n.cpu.Cycles)
	n.cpu.Tick(n.bus)
}

// StepFrame runs the master clock until the PPU latches a completed
// frame.
func (n *NES) StepFrame() {
	for {
		n.StepCycle()
		if n.ppu.FrameReady() {
			return
		}
	}
}

// CPUStateForTrace formats the state of the instruction about to run
// (i.e. call this right after the CPU has fetched its opcode but
// before ticking further) in the nestest golden-log format described
// in §6. instrPC/opcode should be captured at the same instant.
func (n *NES) CPUStateForTrace(instrPC uint16, opcode uint8) string {
	return n.cpu.StateForTrace(instrPC, opcode, n.cpu.Mnemonic(), n.cpu.AddressingMode(), n.bus.Read, n.ppu.Scanline(), n.ppu.Dot())
}
