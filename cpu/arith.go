// arith.go - IMUL Gv,Ev (0FAF) and XADD (0FC0/0FC1)
//
// Grounded in original_source/instructions_0f.c's instr_0FAF/0FC0/0FC1.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// opIMUL implements 0FAF: the two-operand signed multiply form, g *= e.
func opIMUL(c *CPU) {
	if c.IsOsize32() {
		a := int64(int32(c.ReadG32S()))
		b := int64(int32(c.ReadE32S()))
		full := a * b
		r := uint32(full)
		c.WriteG32(r)
		overflow := full != int64(int32(r))
		c.SetCF(overflow)
		c.setFlag(FlagOF, overflow)
		c.FlagsChanged &^= FlagOF
	} else {
		a := int32(int16(c.ReadG16()))
		b := int32(int16(c.ReadE16()))
		full := a * b
		r := uint16(full)
		c.WriteG16(r)
		overflow := full != int32(int16(r))
		c.SetCF(overflow)
		c.setFlag(FlagOF, overflow)
		c.FlagsChanged &^= FlagOF
	}
}

func opXADD8(c *CPU) {
	e := c.ReadE8()
	g := c.ReadG8()
	newE, oldE := c.xadd8(e, g)
	c.SetE8(newE)
	c.WriteG8(oldE)
}

func opXADD(c *CPU) {
	if c.IsOsize32() {
		e := c.ReadE32S()
		g := c.ReadG32S()
		newE, oldE := c.xadd32(e, g)
		c.SetE32(newE)
		c.WriteG32(oldE)
	} else {
		e := c.ReadE16()
		g := c.ReadG16()
		newE, oldE := c.xadd16(e, g)
		c.SetE16(newE)
		c.WriteG16(oldE)
	}
}
