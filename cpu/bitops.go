// bitops.go - BT/BTS/BTR/BTC family, BSF/BSR, POPCNT
//
// Grounded in original_source/instructions_0f.c's instr_0FA3/0FAB/0FB3/
// 0FBB and the Group 8 immediate forms (instr_0FBA), and spec.md §4.3's
// register-vs-memory divergence: the register form masks the bit index to
// the operand width, the memory form treats it as an unmasked bit
// displacement that can address bytes outside the one the ModR/M names.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// opBT implements 0FA3 (BT Ev,Gv): CF := bit(e, g), no write to e.
func opBT(c *CPU) {
	if c.IsOsize32() {
		bit := int32(c.ReadG32S())
		if c.isRegisterForm() {
			v := c.ReadE32S()
			c.SetCF(btBitReg32(v, byte(bit)))
			return
		}
		addr, bitInByte := btMemAddr(c.ModrmResolve(), bit)
		v := c.safeRead8(addr)
		c.SetCF(v&(1<<bitInByte) != 0)
	} else {
		bit := int32(int16(c.ReadG16()))
		if c.isRegisterForm() {
			v := c.ReadE16()
			c.SetCF(btBitReg16(v, byte(bit)))
			return
		}
		addr, bitInByte := btMemAddr(c.ModrmResolve(), bit)
		v := c.safeRead8(addr)
		c.SetCF(v&(1<<bitInByte) != 0)
	}
}

// bitRW abstracts the read-test-modify-write shape BTS/BTR/BTC share,
// applying op to the tested bit and writing the result back.
func (c *CPU) bitRW32(bit int32, op func(v uint32, mask uint32) uint32) {
	if c.isRegisterForm() {
		v := c.ReadE32S()
		mask := uint32(1) << (uint32(bit) & 31)
		c.SetCF(v&mask != 0)
		c.SetE32(op(v, mask))
		return
	}
	addr, bitInByte := btMemAddr(c.ModrmResolve(), bit)
	v := c.safeRead8(addr)
	mask := byte(1) << bitInByte
	c.SetCF(v&mask != 0)
	c.safeWrite8(addr, byte(op(uint32(v), uint32(mask))))
}

func (c *CPU) bitRW16(bit int32, op func(v uint32, mask uint32) uint32) {
	if c.isRegisterForm() {
		v := c.ReadE16()
		mask := uint32(1) << (uint32(bit) & 15)
		c.SetCF(uint32(v)&mask != 0)
		c.SetE16(uint16(op(uint32(v), mask)))
		return
	}
	addr, bitInByte := btMemAddr(c.ModrmResolve(), bit)
	v := c.safeRead8(addr)
	mask := byte(1) << bitInByte
	c.SetCF(v&mask != 0)
	c.safeWrite8(addr, byte(op(uint32(v), uint32(mask))))
}

func bitSet(v, mask uint32) uint32   { return v | mask }
func bitClear(v, mask uint32) uint32 { return v &^ mask }
func bitTog(v, mask uint32) uint32   { return v ^ mask }

// opBTS/opBTR/opBTC implement 0FAB/0FB3/0FBB.
func opBTS(c *CPU) {
	if c.IsOsize32() {
		c.bitRW32(int32(c.ReadG32S()), bitSet)
	} else {
		c.bitRW16(int32(int16(c.ReadG16())), bitSet)
	}
}

func opBTR(c *CPU) {
	if c.IsOsize32() {
		c.bitRW32(int32(c.ReadG32S()), bitClear)
	} else {
		c.bitRW16(int32(int16(c.ReadG16())), bitClear)
	}
}

func opBTC(c *CPU) {
	if c.IsOsize32() {
		c.bitRW32(int32(c.ReadG32S()), bitTog)
	} else {
		c.bitRW16(int32(int16(c.ReadG16())), bitTog)
	}
}

// opGrp8 implements 0FBA: BT/BTS/BTR/BTC with an imm8 bit index, selected
// by the ModR/M reg field (/4=BT /5=BTS /6=BTR /7=BTC; /0-3 are #UD).
func opGrp8(c *CPU) {
	reg := c.modrmReg()
	if reg < 4 {
		c.triggerUD()
	}
	if !c.isRegisterForm() {
		// Resolve (and cache) the memory operand's address now: it sits
		// between the ModR/M and the trailing imm8 in the instruction
		// stream, so SIB/disp bytes must be consumed before the
		// immediate is read.
		c.ModrmResolve()
	}
	imm := int32(c.ReadOp8())
	switch reg {
	case 4:
		if c.IsOsize32() {
			v := c.ReadE32S()
			c.SetCF(btBitReg32(v, byte(imm)))
		} else {
			v := c.ReadE16()
			c.SetCF(btBitReg16(v, byte(imm)))
		}
	case 5:
		if c.IsOsize32() {
			c.bitRW32(imm, bitSet)
		} else {
			c.bitRW16(imm, bitSet)
		}
	case 6:
		if c.IsOsize32() {
			c.bitRW32(imm, bitClear)
		} else {
			c.bitRW16(imm, bitClear)
		}
	case 7:
		if c.IsOsize32() {
			c.bitRW32(imm, bitTog)
		} else {
			c.bitRW16(imm, bitTog)
		}
	}
}

// opBSF/opBSR implement 0FBC/0FBD.
func opBSF(c *CPU) {
	if c.IsOsize32() {
		v := c.ReadE32S()
		r, zero := c.bsf32(v)
		c.SetZF(zero)
		if !zero {
			c.WriteG32(r)
		}
	} else {
		v := c.ReadE16()
		r, zero := c.bsf16(v)
		c.SetZF(zero)
		if !zero {
			c.WriteG16(r)
		}
	}
}

func opBSR(c *CPU) {
	if c.IsOsize32() {
		v := c.ReadE32S()
		r, zero := c.bsr32(v)
		c.SetZF(zero)
		if !zero {
			c.WriteG32(r)
		}
	} else {
		v := c.ReadE16()
		r, zero := c.bsr16(v)
		c.SetZF(zero)
		if !zero {
			c.WriteG16(r)
		}
	}
}

// opPOPCNT implements 0FB8 under the F3 mandatory prefix (the bare 0FB8
// slot without F3 is the historical JMPE stub, #UD here per spec.md's
// Non-goals excluding IA-64 interoperation).
func opPOPCNT(c *CPU) {
	if c.Prefixes&PrefixF3 == 0 {
		c.triggerUD()
	}
	if c.IsOsize32() {
		v := c.ReadE32S()
		r := popcount32(v)
		c.SetZF(r == 0)
		c.WriteG32(r)
	} else {
		v := c.ReadE16()
		r := popcount16(v)
		c.SetZF(r == 0)
		c.WriteG16(r)
	}
	c.FlagsChanged &^= FlagCF | FlagOF | FlagSF | FlagAF | FlagPF
	c.Flags &^= FlagCF | FlagOF | FlagSF | FlagAF | FlagPF
}
