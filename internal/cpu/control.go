package cpu

// This file builds the control-flow and stack instructions whose
// cycle shape doesn't fit the generic read/write/RMW builders: JMP,
// JSR, RTS, RTI, BRK, PHA/PHP/PLA/PLP and the conditional branches.

func buildJMPAbsolute() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
		func(c *CPU, b Bus) {
			hi := b.Read(c.PC)
			c.PC = (uint16(hi) << 8) | uint16(c.operandLo)
		},
	}
}

// buildJMPIndirect reproduces the page-wrap bug: when the pointer's
// low byte is 0xFF, the high byte of the target is fetched from the
// start of the same page rather than the next one.
func buildJMPIndirect() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
		func(c *CPU, b Bus) {
			hi := b.Read(c.PC)
			c.PC++
			c.ptr = (uint16(hi) << 8) | uint16(c.operandLo)
		},
		func(c *CPU, b Bus) { c.scratch = b.Read(c.ptr) },
		func(c *CPU, b Bus) {
			hiAddr := (c.ptr & 0xFF00) | ((c.ptr + 1) & 0x00FF)
			hi := b.Read(hiAddr)
			c.PC = (uint16(hi) << 8) | uint16(c.scratch)
		},
	}
}

func buildJSR() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
		func(c *CPU, b Bus) { b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), uint8(c.PC>>8)); c.SP-- },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), uint8(c.PC)); c.SP-- },
		func(c *CPU, b Bus) {
			hi := b.Read(c.PC)
			c.PC = (uint16(hi) << 8) | uint16(c.operandLo)
		},
	}
}

func buildRTS() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) { c.SP++; c.scratch = b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) {
			c.SP++
			hi := b.Read(stackBase + uint16(c.SP))
			c.PC = (uint16(hi) << 8) | uint16(c.scratch)
		},
		func(c *CPU, b Bus) { b.Read(c.PC); c.PC++ },
	}
}

func buildRTI() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) {
			c.SP++
			bFlag := c.B
			c.SetStatusByte(b.Read(stackBase + uint16(c.SP)))
			c.B = bFlag
		},
		func(c *CPU, b Bus) { c.SP++; c.scratch = b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) {
			c.SP++
			hi := b.Read(stackBase + uint16(c.SP))
			c.PC = (uint16(hi) << 8) | uint16(c.scratch)
		},
	}
}

func buildBRK() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC); c.PC++ },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), uint8(c.PC>>8)); c.SP-- },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), uint8(c.PC)); c.SP-- },
		func(c *CPU, b Bus) {
			b.Write(stackBase+uint16(c.SP), c.StatusByte()|flagB)
			c.SP--
			c.I = true
		},
		func(c *CPU, b Bus) { c.scratch = b.Read(irqVector) },
		func(c *CPU, b Bus) {
			hi := b.Read(irqVector + 1)
			c.PC = (uint16(hi) << 8) | uint16(c.scratch)
		},
	}
}

func buildPHA() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), c.A); c.SP-- },
	}
}

func buildPHP() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Write(stackBase+uint16(c.SP), c.StatusByte()|flagB); c.SP-- },
	}
}

func buildPLA() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) {
			c.SP++
			c.A = b.Read(stackBase + uint16(c.SP))
			c.setZN(c.A)
		},
	}
}

func buildPLP() []microOp {
	return []microOp{
		func(c *CPU, b Bus) { b.Read(c.PC) },
		func(c *CPU, b Bus) { b.Read(stackBase + uint16(c.SP)) },
		func(c *CPU, b Bus) {
			c.SP++
			bFlag := c.B
			c.SetStatusByte(b.Read(stackBase + uint16(c.SP)))
			c.B = bFlag
		},
	}
}

// buildBranch builds a conditional branch. The offset-read tick
// always happens; when the branch is taken it appends a tick that
// applies the new PC (the cycle real hardware spends re-driving the
// address bus with the target address), and when that crosses a page
// it appends one more fixup tick, matching the real 6502's dynamic
// 2/3/4-cycle branch timing.
func buildBranch(cond func(c *CPU) bool) []microOp {
	return []microOp{
		func(c *CPU, b Bus) {
			offset := int8(b.Read(c.PC))
			c.PC++
			if !cond(c) {
				return
			}
			oldPC := c.PC
			newPC := uint16(int32(oldPC) + int32(offset))
			c.branchTarget = newPC
			c.pageCrossed = (oldPC & 0xFF00) != (newPC & 0xFF00)
			c.queue = append(c.queue, func(c *CPU, b Bus) {
				b.Read(c.PC)
				c.PC = c.branchTarget
				if c.pageCrossed {
					c.queue = append(c.queue, func(c *CPU, b Bus) {
						b.Read(c.PC)
					})
				}
			})
		},
	}
}
