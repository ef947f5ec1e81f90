package cpu

// resolveAddress returns the micro-ops that compute c.operandAddr (and,
// for indexed modes, c.pageCrossed/c.baseHi) for the given mode. It
// does not perform the final data access; callers append that via
// readAccess/writeAccess/rmwAccess. Implied, Accumulator and Immediate
// have no separate resolution step and are built directly by their
// callers.
func (c *CPU) resolveAddress(mode Mode) []microOp {
	switch mode {
	case ZeroPage:
		return []microOp{
			func(c *CPU, b Bus) { c.operandAddr = uint16(b.Read(c.PC)); c.PC++ },
		}
	case ZeroPageX:
		return []microOp{
			func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
			func(c *CPU, b Bus) {
				b.Read(uint16(c.operandLo))
				c.operandAddr = uint16(c.operandLo + c.X)
			},
		}
	case ZeroPageY:
		return []microOp{
			func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
			func(c *CPU, b Bus) {
				b.Read(uint16(c.operandLo))
				c.operandAddr = uint16(c.operandLo + c.Y)
			},
		}
	case Absolute:
		return []microOp{
			func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
			func(c *CPU, b Bus) {
				hi := b.Read(c.PC)
				c.PC++
				c.operandAddr = (uint16(hi) << 8) | uint16(c.operandLo)
			},
		}
	case AbsoluteX:
		return c.absoluteIndexedSteps(func(c *CPU) uint8 { return c.X })
	case AbsoluteY:
		return c.absoluteIndexedSteps(func(c *CPU) uint8 { return c.Y })
	case IndexedIndirect:
		return []microOp{
			func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
			func(c *CPU, b Bus) {
				b.Read(uint16(c.operandLo))
				c.ptr = uint16(c.operandLo + c.X)
			},
			func(c *CPU, b Bus) { c.scratch = b.Read(c.ptr) },
			func(c *CPU, b Bus) {
				hi := b.Read((c.ptr + 1) & 0x00FF)
				c.operandAddr = (uint16(hi) << 8) | uint16(c.scratch)
			},
		}
	case IndirectIndexed:
		return []microOp{
			func(c *CPU, b Bus) { c.ptr = uint16(b.Read(c.PC)); c.PC++ },
			func(c *CPU, b Bus) { c.scratch = b.Read(c.ptr) },
			func(c *CPU, b Bus) {
				hi := b.Read((c.ptr + 1) & 0x00FF)
				base := (uint16(hi) << 8) | uint16(c.scratch)
				addr := base + uint16(c.Y)
				c.operandAddr = addr
				c.baseHi = hi
				c.pageCrossed = (addr & 0xFF00) != (uint16(hi) << 8)
			},
		}
	default:
		return nil
	}
}

func (c *CPU) absoluteIndexedSteps(index func(c *CPU) uint8) []microOp {
	return []microOp{
		func(c *CPU, b Bus) { c.operandLo = b.Read(c.PC); c.PC++ },
		func(c *CPU, b Bus) {
			hi := b.Read(c.PC)
			c.PC++
			base := (uint16(hi) << 8) | uint16(c.operandLo)
			addr := base + uint16(index(c))
			c.operandAddr = addr
			c.baseHi = hi
			c.pageCrossed = (addr & 0xFF00) != (uint16(hi) << 8)
		},
	}
}

// needsUnconditionalExtra reports whether the mode always charges its
// extra indexed-addressing cycle on a write/RMW access, regardless of
// whether the index actually crossed a page (real 6502 behavior: the
// CPU can't know in advance it won't need the corrected-page read, so
// writes and read-modify-writes always pay for it).
func needsUnconditionalExtra(mode Mode) bool {
	switch mode {
	case AbsoluteX, AbsoluteY, IndirectIndexed:
		return true
	default:
		return false
	}
}

// readAccess builds the final data-fetch micro-op for a read-type
// instruction. For indexed modes that crossed a page it performs the
// hardware's speculative wrong-page read this tick and defers the
// corrected read (and the instruction's effect) to a micro-op it
// appends to the queue; when no page was crossed the single read
// already has the right value and the effect runs immediately.
func (c *CPU) readAccess(exec func(c *CPU, v uint8)) microOp {
	return func(c *CPU, b Bus) {
		if c.pageCrossed {
			guess := (uint16(c.baseHi) << 8) | (c.operandAddr & 0x00FF)
			b.Read(guess)
			addr := c.operandAddr
			c.queue = append(c.queue, func(c *CPU, b Bus) {
				exec(c, b.Read(addr))
			})
			return
		}
		exec(c, b.Read(c.operandAddr))
	}
}

// writeAccess builds the micro-ops for a write-type instruction,
// charging the unconditional extra cycle the indexed-write modes
// always pay.
func (c *CPU) writeAccess(valueFn func(c *CPU) uint8) []microOp {
	if needsUnconditionalExtra(c.mode) {
		return []microOp{
			func(c *CPU, b Bus) {
				guess := (uint16(c.baseHi) << 8) | (c.operandAddr & 0x00FF)
				b.Read(guess)
			},
			func(c *CPU, b Bus) { b.Write(c.operandAddr, valueFn(c)) },
		}
	}
	return []microOp{
		func(c *CPU, b Bus) { b.Write(c.operandAddr, valueFn(c)) },
	}
}

// rmwAccess builds the read/dummy-write/write triple shared by every
// read-modify-write instruction (ASL, LSR, ROL, ROR, INC, DEC on
// memory), charging the unconditional extra cycle for abs,X.
func (c *CPU) rmwAccess(op func(c *CPU, v uint8) uint8) []microOp {
	var ops []microOp
	if needsUnconditionalExtra(c.mode) {
		ops = append(ops, func(c *CPU, b Bus) {
			guess := (uint16(c.baseHi) << 8) | (c.operandAddr & 0x00FF)
			b.Read(guess)
		})
	}
	ops = append(ops,
		func(c *CPU, b Bus) { c.scratch = b.Read(c.operandAddr) },
		func(c *CPU, b Bus) { b.Write(c.operandAddr, c.scratch) },
		func(c *CPU, b Bus) {
			result := op(c, c.scratch)
			b.Write(c.operandAddr, result)
		},
	)
	return ops
}

func (c *CPU) buildRead(mode Mode, exec func(c *CPU, v uint8)) []microOp {
	if mode == Immediate {
		return []microOp{func(c *CPU, b Bus) {
			v := b.Read(c.PC)
			c.PC++
			exec(c, v)
		}}
	}
	q := c.resolveAddress(mode)
	return append(q, c.readAccess(exec))
}

func (c *CPU) buildWrite(mode Mode, valueFn func(c *CPU) uint8) []microOp {
	q := c.resolveAddress(mode)
	return append(q, c.writeAccess(valueFn)...)
}

func (c *CPU) buildRMW(mode Mode, op func(c *CPU, v uint8) uint8) []microOp {
	q := c.resolveAddress(mode)
	return append(q, c.rmwAccess(op)...)
}

// buildImplied covers both Implied and Accumulator instructions: one
// dummy read of the next opcode byte (the bus access real hardware
// performs while decoding), then the instruction's effect.
func buildImplied(exec func(c *CPU)) []microOp {
	return []microOp{func(c *CPU, b Bus) {
		b.Read(c.PC)
		exec(c)
	}}
}
