// cmpxchg.go - CMPXCHG (0FB0/0FB1) and CMPXCHG8B (0FC7 /1)
//
// Grounded in original_source/instructions_0f.c's instr_0FB0/0FB1/0FC7,
// and spec.md §4.5's invariant that the accumulator (AL/AX/EAX or
// EDX:EAX) is both the comparand and, on mismatch, the value overwritten
// with the current destination contents. Memory-form mismatches also
// write the unchanged value straight back to memory (spec.md §4.5:
// "maintaining the memory-write side effect on miss"), which is why
// every handler here pre-checks writability before the compare instead
// of only on the match path.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// opCMPXCHG8 implements 0FB0 (CMPXCHG r/m8, r8).
func opCMPXCHG8(c *CPU) {
	mem := !c.isRegisterForm()
	var addr uint32
	if mem {
		addr = c.ModrmResolve()
		c.writableOrPageFault(addr, 1)
	}
	acc := byte(c.Reg32[EAX])
	dst := c.ReadE8()
	c.cmp8(acc, dst)
	if acc == dst {
		c.SetE8(c.ReadG8())
	} else {
		c.SetReg8(EAX, dst)
		if mem {
			c.safeWrite8(addr, dst)
		}
	}
}

// opCMPXCHG implements 0FB1 (CMPXCHG r/m16, r16 / r/m32, r32).
func opCMPXCHG(c *CPU) {
	mem := !c.isRegisterForm()
	var addr uint32
	if mem {
		width := 2
		if c.IsOsize32() {
			width = 4
		}
		addr = c.ModrmResolve()
		c.writableOrPageFault(addr, width)
	}

	if c.IsOsize32() {
		acc := c.Reg32[EAX]
		dst := c.ReadE32S()
		c.cmp32(acc, dst)
		if acc == dst {
			c.SetE32(c.ReadG32S())
		} else {
			c.SetReg32(EAX, dst)
			if mem {
				c.safeWrite32(addr, dst)
			}
		}
		return
	}
	acc := uint16(c.Reg32[EAX])
	dst := c.ReadE16()
	c.cmp16(acc, dst)
	if acc == dst {
		c.SetE16(c.ReadG16())
	} else {
		c.SetReg16(EAX, dst)
		if mem {
			c.safeWrite16(addr, dst)
		}
	}
}

// opCMPXCHG8B implements 0FC7 /1: compares EDX:EAX against the 64-bit
// memory operand; on match, stores ECX:EBX; on mismatch, reloads
// EDX:EAX from memory and writes the original halves straight back
// (spec.md §4.5's scenario 3). Memory only - the register-form encoding
// is #UD (original_source's `modrm_byte[0] >= 0xC0` check).
func opCMPXCHG8B(c *CPU) {
	if c.isRegisterForm() {
		c.triggerUD()
	}
	addr := c.ModrmResolve()
	c.writableOrPageFault(addr, 8)
	lo, hi := c.safeRead64(addr)

	if c.Reg32[EAX] == lo && c.Reg32[EDX] == hi {
		c.SetZF(true)
		c.safeWrite64(addr, c.Reg32[EBX], c.Reg32[ECX])
	} else {
		c.SetZF(false)
		c.SetReg32(EAX, lo)
		c.SetReg32(EDX, hi)
		c.safeWrite64(addr, lo, hi)
	}
}
