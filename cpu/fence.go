// fence.go - Group 15 (0FAE): FXSAVE/FXRSTOR/LDMXCSR/STMXCSR and the
// memory-ordering fences.
//
// A single-threaded core has no reordering to fence against, so
// LFENCE/MFENCE/SFENCE are no-ops beyond requiring a register-form
// encoding (memory-form is invalid for those three). FXSAVE/FXRSTOR
// persist exactly the state spec.md §3 actually models (XMM + MXCSR),
// not the full legacy x87/MMX frame real hardware writes, since x87 state
// itself is out of this core's scope. Grounded in
// original_source/instructions_0f.c's instr_0FAE.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// fxFrameSize is the byte span this core's reduced FXSAVE image occupies
// (16 bytes per XMM register, plus 4 bytes for MXCSR at the front).
const fxFrameSize = 4 + 8*16

func opGrp15(c *CPU) {
	if c.isRegisterForm() {
		switch c.modrmReg() {
		case 5: // LFENCE
		case 6: // MFENCE
		case 7: // SFENCE
		default:
			c.triggerUD()
		}
		return
	}

	switch c.modrmReg() {
	case 0:
		opFXSAVE(c)
	case 1:
		opFXRSTOR(c)
	case 2:
		opLDMXCSR(c)
	case 3:
		opSTMXCSR(c)
	default:
		c.triggerUD()
	}
}

func opFXSAVE(c *CPU) {
	addr := c.ModrmResolve()
	c.writableOrPageFault(addr, fxFrameSize)
	c.safeWrite32(addr, c.MXCSR&MXCSRMask)
	for i, x := range c.XMM {
		c.safeWrite128(addr+4+uint32(i*16), x)
	}
}

func opFXRSTOR(c *CPU) {
	addr := c.ModrmResolve()
	c.MXCSR = c.safeRead32(addr) & MXCSRMask
	for i := range c.XMM {
		c.XMM[i] = c.safeRead128(addr + 4 + uint32(i*16))
	}
}

func opLDMXCSR(c *CPU) {
	v := c.safeRead32(c.ModrmResolve())
	if v&^MXCSRMask != 0 {
		c.triggerGP(0)
	}
	c.MXCSR = v
}

func opSTMXCSR(c *CPU) {
	c.safeWrite32(c.ModrmResolve(), c.MXCSR)
}
