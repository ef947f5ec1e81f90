package cpu

import "fmt"

// operandBytes reports how many bytes (beyond the opcode) a mode
// consumes, for the trace formatter's byte-column.
func operandBytes(mode Mode) int {
	switch mode {
	case Implied, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndexedIndirect, IndirectIndexed:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 0
	}
}

// StateForTrace renders the CPU state at the start of the instruction
// currently in flight in the nestest golden-log format:
//
//	<PC:4hex>  <op bytes, space-padded to 9 cols>  <MNEMONIC, padded to 31>  A:.. X:.. Y:.. P:.. SP:.. PPU:scanline,dot CYC:total
//
// instrPC/instrOpcode are the PC and opcode byte captured at the start
// of the instruction (before PC advanced past them); peek reads bytes
// without triggering side effects, for display only.
func (c *CPU) StateForTrace(instrPC uint16, instrOpcode uint8, mnemonic string, mode Mode, peek func(addr uint16) uint8, scanline, dot int) string {
	n := operandBytes(mode)
	bytesCol := fmt.Sprintf("%02X", instrOpcode)
	operands := make([]uint8, n)
	for i := 0; i < n; i++ {
		operands[i] = peek(instrPC + 1 + uint16(i))
		bytesCol += fmt.Sprintf(" %02X", operands[i])
	}
	for len(bytesCol) < 9 {
		bytesCol += " "
	}

	asm := mnemonic
	for len(asm) < 31 {
		asm += " "
	}

	return fmt.Sprintf("%04X  %s %s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		instrPC, bytesCol, asm, c.A, c.X, c.Y, c.StatusByte(), c.SP, scanline, dot, c.Cycles)
}
