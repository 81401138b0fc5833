// condcc.go - CMOVcc (0F40-4F), Jcc (0F80-8F), SETcc (0F90-9F)
//
// All three opcode groups share the same 16-way condition-code table;
// grounded in the teacher's one-byte Jcc implementation (cpu_x86.go's
// jumpIfCondition switch), generalized to the shared condition function
// array spec.md §4.8 describes.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// condTable[n] is the predicate for condition code n, in encoding order:
// O, NO, B/C, NB/NC, E/Z, NE/NZ, BE, NBE, S, NS, P, NP, L, NL, LE, NLE.
var condTable = [16]func(*CPU) bool{
	(*CPU).testO,
	func(c *CPU) bool { return !c.testO() },
	(*CPU).testB,
	func(c *CPU) bool { return !c.testB() },
	(*CPU).testZ,
	func(c *CPU) bool { return !c.testZ() },
	(*CPU).testBE,
	func(c *CPU) bool { return !c.testBE() },
	(*CPU).testS,
	func(c *CPU) bool { return !c.testS() },
	(*CPU).testP,
	func(c *CPU) bool { return !c.testP() },
	(*CPU).testL,
	func(c *CPU) bool { return !c.testL() },
	(*CPU).testLE,
	func(c *CPU) bool { return !c.testLE() },
}

// opCMOVcc implements 0F40-4F: conditionally move e into g.
func opCMOVcc(cond int) opHandler {
	return func(c *CPU) {
		taken := condTable[cond](c)
		if c.IsOsize32() {
			v := c.ReadE32S()
			if taken {
				c.WriteG32(v)
			}
		} else {
			v := c.ReadE16()
			if taken {
				c.WriteG16(v)
			}
		}
	}
}

// opJcc implements 0F80-8F: the rel16/rel32 branch displacement is fetched
// unconditionally (the instruction stream must advance past it either
// way); whether EIP actually branches is left to the decode loop this
// core doesn't own, so the handler reports the outcome by writing it into
// a field the caller can inspect. Modelled here as updating EIP directly
// when taken, which is the only externally observable effect a
// stand-alone package can offer.
func opJcc(cond int) opHandler {
	return func(c *CPU) {
		taken := condTable[cond](c)
		if c.IsOsize32() {
			rel := int32(c.fetchOp32())
			if taken {
				c.EIP = uint32(int32(c.EIP) + rel)
			}
		} else {
			rel := int16(c.fetchOp16())
			if taken {
				c.EIP = uint32(int16(uint16(c.EIP)) + rel)
			}
		}
	}
}

// opSETcc implements 0F90-9F: set e (always a byte operand regardless of
// operand-size prefix) to 1 if cond holds, else 0.
func opSETcc(cond int) opHandler {
	return func(c *CPU) {
		if condTable[cond](c) {
			c.SetE8(1)
		} else {
			c.SetE8(0)
		}
	}
}
