// system_ops.go - descriptor-table, control-register and privileged
// housekeeping opcodes: 0F00/0F01 (Grp6/Grp7), 0F02/0F03 (LAR/LSL), 0F06
// (CLTS), 0F08/0F09 (INVD/WBINVD), 0F20-23 (MOV CRn/DRn), and the
// deliberately-unmodelled 0F33/0F37/0FAA (RDPMC/GETSEC/RSM).
//
// Grounded in original_source/instructions_0f.c's instr_0F00/0F01/0F02/
// 0F03/0F06/0F08/0F09/0F20-0F23, with the protected-mode gating spec.md
// §4.2 and §4.9 describe.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// opGrp6 implements 0F00: reg field selects SLDT(/0)/STR(/1)/LLDT(/2)/
// LTR(/3)/VERR(/4)/VERW(/5); /6 and /7 are #UD. The whole group requires
// protected mode and not-VM86 (spec.md §4.2, §8's "Real-mode gate").
func opGrp6(c *CPU) {
	if !c.ProtectedMode || c.vm86Mode() {
		c.triggerUD()
	}
	switch c.modrmReg() {
	case 0:
		c.SetE16(c.Seg[LDTR].Selector)
	case 1:
		c.SetE16(c.Seg[TR].Selector)
	case 2:
		if c.CPL != 0 {
			c.triggerGP(0)
		}
		c.loadLDT(c.ReadE16())
	case 3:
		if c.CPL != 0 {
			c.triggerGP(0)
		}
		c.loadTR(c.ReadE16())
	case 4:
		c.SetZF(c.verr(c.ReadE16()))
	case 5:
		c.SetZF(c.verw(c.ReadE16()))
	default:
		c.triggerUD()
	}
}

// opGrp7 implements 0F01: reg field selects SGDT(/0)/SIDT(/1)/LGDT(/2)/
// LIDT(/3)/SMSW(/4)/LMSW(/6)/INVLPG(/7, memory-form only). /5 is #UD.
func opGrp7(c *CPU) {
	switch c.modrmReg() {
	case 0:
		addr := c.ModrmResolve()
		c.writableOrPageFault(addr, 6)
		c.safeWrite16(addr, c.GDTR.Size)
		c.safeWrite32(addr+2, c.GDTR.Offset)
	case 1:
		addr := c.ModrmResolve()
		c.writableOrPageFault(addr, 6)
		c.safeWrite16(addr, c.IDTR.Size)
		c.safeWrite32(addr+2, c.IDTR.Offset)
	case 2:
		if c.CPL != 0 {
			c.triggerGP(0)
		}
		addr := c.ModrmResolve()
		c.GDTR.Size = c.safeRead16(addr)
		c.GDTR.Offset = c.safeRead32(addr + 2)
	case 3:
		if c.CPL != 0 {
			c.triggerGP(0)
		}
		addr := c.ModrmResolve()
		c.IDTR.Size = c.safeRead16(addr)
		c.IDTR.Offset = c.safeRead32(addr + 2)
	case 4:
		c.SetE16(uint16(c.CR[0]))
	case 6:
		if c.CPL != 0 {
			c.triggerGP(0)
		}
		v := c.ReadE16()
		updated := (c.CR[0] &^ 0xF) | uint32(v)&0xF
		if c.ProtectedMode {
			updated |= CR0_PE // LMSW cannot clear PE
		}
		c.setCR0(updated)
	case 7:
		if c.isRegisterForm() {
			c.triggerUD()
		}
		c.invlpg(c.ModrmResolve())
	default:
		c.triggerUD()
	}
}

// opLAR implements 0F02: AL/AX/EAX-adjacent g-register gets the access
// rights for the e-operand's selector if the selector names a valid
// descriptor (no privilege check is made); ZF reports success. Requires protected mode and not-VM86 (spec.md §4.2,
// §8's "Real-mode gate").
func opLAR(c *CPU) {
	if !c.ProtectedMode || c.vm86Mode() {
		c.triggerUD()
	}
	sel := c.ReadE16()
	v, ok := c.lar(sel)
	c.SetZF(ok)
	if ok {
		if c.IsOsize32() {
			c.WriteG32(v)
		} else {
			c.WriteG16(uint16(v))
		}
	}
}

// opLSL implements 0F03: like LAR but returns the segment limit. Same
// protected-mode/not-VM86 gate as LAR.
func opLSL(c *CPU) {
	if !c.ProtectedMode || c.vm86Mode() {
		c.triggerUD()
	}
	sel := c.ReadE16()
	v, ok := c.lsl(sel)
	c.SetZF(ok)
	if ok {
		if c.IsOsize32() {
			c.WriteG32(v)
		} else {
			c.WriteG16(uint16(v))
		}
	}
}

// opCLTS implements 0F06: clear CR0.TS. Privileged.
func opCLTS(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	c.CR[0] &^= CR0_TS
}

// opINVD implements 0F08: like WBINVD, a safe no-op for a core with no
// cache to invalidate.
func opINVD(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
}

// opWBINVD implements 0F09: privileged, otherwise a no-op.
func opWBINVD(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
}

// opMOVCRFromReg implements 0F22 (MOV CRn,r32): reg field names the
// control register, r/m (mod bits ignored) names the GPR source.
func opMOVCRFromReg(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	cr := c.modrmReg()
	if cr > 4 || cr == 1 {
		c.triggerUD()
	}
	v := c.ReadRegE32S()
	switch cr {
	case 0:
		c.setCR0(v)
	case 2:
		c.CR[2] = v
	case 3:
		c.CR[3] = v &^ cr3Reserved
		c.clearTLB()
	case 4:
		c.setCR4(v)
	}
}

// setCR0 implements the CR0-write routine spec.md §4.2 requires every
// CR0 write (MOV CR0,r32 and LMSW) delegate to: it tracks the derived
// ProtectedMode and PagingEnabled flags this core's invariants (spec.md
// §4.2: "After any non-LMSW write that sets CR0.PE, CPL/segment-size
// consistency must hold before the next instruction retires") depend
// on. set_cr0's real body lives outside the filtered original_source
// pack (declared extern at instructions_0f.c:66, called at :167,:449),
// so the CPL-size recompute here is this core's own: entering or
// leaving protected mode drops the stale CS/SS default-size bits a
// prior mode's segment loads left behind, since no far control
// transfer has reloaded CS yet to supply new ones.
func (c *CPU) setCR0(v uint32) {
	wasProtected := c.ProtectedMode
	c.CR[0] = v
	c.ProtectedMode = v&CR0_PE != 0
	c.PagingEnabled = v&CR0_PG != 0
	if c.ProtectedMode != wasProtected {
		c.csSize32 = false
		c.StackSize32 = false
	}
}

// setCR4 implements the CR4-write routine spec.md §4.2 and §8 describe:
// reserved bits fault rather than get silently masked
// (original_source/instructions_0f.c:470-472's `trigger_gp(0)`), a PGE
// transition invalidates the TLB in the direction matching the
// transition, PSE is mirrored into the derived PageSizeExtensions flag,
// and PAE is unimplemented (instructions_0f.c:489-497's `assert(false)`
// path) - a fatal assertion, not an architectural fault, since no guest
// could legitimately recover from this core lacking PAE support.
func (c *CPU) setCR4(v uint32) {
	if v&cr4Reserved != 0 {
		c.triggerGP(0)
	}
	old := c.CR[4]
	c.CR[4] = v
	if (old^v)&CR4_PGE != 0 {
		if v&CR4_PGE != 0 {
			c.clearTLB()
		} else {
			c.fullClearTLB()
		}
	}
	c.PageSizeExtensions = v&CR4_PSE != 0
	if v&CR4_PAE != 0 {
		panic("CR4.PAE set: PAE paging is not implemented by this core")
	}
}

// opMOVCRToReg implements 0F20 (MOV r32,CRn).
func opMOVCRToReg(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	cr := c.modrmReg()
	if cr > 4 || cr == 1 {
		c.triggerUD()
	}
	c.WriteRegE32(c.CR[cr])
}

// opMOVDRFromReg implements 0F23 (MOV DRn,r32).
func opMOVDRFromReg(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	dr := c.modrmReg()
	if dr > 7 {
		c.triggerUD()
	}
	c.DR[dr] = c.ReadRegE32S()
}

// opMOVDRToReg implements 0F21 (MOV r32,DRn).
func opMOVDRToReg(c *CPU) {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	dr := c.modrmReg()
	if dr > 7 {
		c.triggerUD()
	}
	c.WriteRegE32(c.DR[dr])
}

// opRDPMC, opGETSEC and opRSM are deliberately left unmodelled: the
// performance-monitoring counters, SMX leaf dispatch and SMM resume
// machinery are out of scope, consistent with spec.md's Non-goals. They
// are wired into their dispatch slots by name and, like the default
// opUnimplemented slots, raise #UD.
func opRDPMC(c *CPU) { c.triggerUD() }
func opGETSEC(c *CPU) { c.triggerUD() }
func opRSM(c *CPU)   { c.triggerUD() }
