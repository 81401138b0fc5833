// prefetch.go - PREFETCH group (0F18), multi-byte NOP (0F1F), and the
// relaxed PREFETCHW (0F0D)
//
// Prefetch hints have no observable effect without a real cache model;
// resolving the address of a memory operand (which consumes its SIB and
// displacement bytes) is the only externally visible behaviour left. This
// core's address resolution checks no segment limits, so these opcodes
// never fault on the address. Matches original_source/instructions_0f.c's
// instr_0F18 and instr_0F1F. spec.md §9 leaves 0F0D's severity as an open
// question between "fatal stub" and "benign no-op"; resolved here (see
// DESIGN.md) towards the no-op reading PREFETCHW's prefetch-group
// neighbours already use, register-form included.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// opPREFETCH implements 0F18: resolves the memory operand, accepts the
// register-form encoding as a no-op, and otherwise does nothing.
func opPREFETCH(c *CPU) {
	if !c.isRegisterForm() {
		c.ModrmResolve()
	}
}

// opNOP implements 0F1F: a multi-byte NOP whose size is carried entirely
// by the ModR/M (+ SIB/disp) encoding; resolving it (for its memory form)
// is enough to consume the right number of instruction bytes.
func opNOP(c *CPU) {
	if !c.isRegisterForm() {
		c.ModrmResolve()
	}
}

// opPREFETCHW implements 0F0D: like PREFETCH, including accepting the
// register-form encoding as a no-op, per the Open Question resolution in
// DESIGN.md.
func opPREFETCHW(c *CPU) {
	if !c.isRegisterForm() {
		c.ModrmResolve()
	}
}
