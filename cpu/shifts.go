// shifts.go - SHLD/SHRD (0FA4/0FA5, 0FAC/0FAD)
//
// Thin ModR/M/operand wiring around the shld16/32 and shrd16/32 primitives
// in alu.go. Grounded in original_source/instructions_0f.c's instr_0FA4/
// 0FA5/0FAC/0FAD.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

func opSHLDImm(c *CPU) {
	if c.IsOsize32() {
		dst := c.ReadWriteE32()
		fill := c.ReadG32S()
		imm := c.ReadOp8()
		c.WriteE32(c.shld32(dst, fill, imm))
	} else {
		dst := c.ReadWriteE16()
		fill := c.ReadG16()
		imm := c.ReadOp8()
		c.WriteE16(c.shld16(dst, fill, imm))
	}
}

func opSHLDCL(c *CPU) {
	if c.IsOsize32() {
		dst := c.ReadWriteE32()
		fill := c.ReadG32S()
		cl := byte(c.Reg32[ECX])
		c.WriteE32(c.shld32(dst, fill, cl))
	} else {
		dst := c.ReadWriteE16()
		fill := c.ReadG16()
		cl := byte(c.Reg32[ECX])
		c.WriteE16(c.shld16(dst, fill, cl))
	}
}

func opSHRDImm(c *CPU) {
	if c.IsOsize32() {
		dst := c.ReadWriteE32()
		fill := c.ReadG32S()
		imm := c.ReadOp8()
		c.WriteE32(c.shrd32(dst, fill, imm))
	} else {
		dst := c.ReadWriteE16()
		fill := c.ReadG16()
		imm := c.ReadOp8()
		c.WriteE16(c.shrd16(dst, fill, imm))
	}
}

func opSHRDCL(c *CPU) {
	if c.IsOsize32() {
		dst := c.ReadWriteE32()
		fill := c.ReadG32S()
		cl := byte(c.Reg32[ECX])
		c.WriteE32(c.shrd32(dst, fill, cl))
	} else {
		dst := c.ReadWriteE16()
		fill := c.ReadG16()
		cl := byte(c.Reg32[ECX])
		c.WriteE16(c.shrd16(dst, fill, cl))
	}
}
