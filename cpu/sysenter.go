// sysenter.go - SYSENTER (0F34) and SYSEXIT (0F35)
//
// Fast system-call transitions that synthesize CS/SS/ESP/EIP directly
// from the SYSENTER MSR triple rather than walking a descriptor table,
// per spec.md §4.10 and original_source/instructions_0f.c's instr_0F34/
// 0F35. SYSENTER always loads CS/SS from fixed offsets of
// MSR_SYSENTER_CS (flat, non-conforming, DPL0/3 as appropriate); this
// core models the selector/CPL transition without a real GDT walk, since
// segment descriptor contents for these synthesized selectors are never
// actually read. Both require protected mode (spec.md §4.10) and both
// force 32-bit stack and CS defaults and mark the privilege transition
// via cplChanged/diverged (spec.md §6's external-interface list).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

func opSYSENTER(c *CPU) {
	if !c.ProtectedMode {
		c.triggerGP(0)
	}
	if c.SysenterCS == 0 {
		c.triggerGP(0)
	}
	c.Seg[CS] = SegmentRegister{Selector: uint16(c.SysenterCS &^ 3), Base: 0, Limit: 0xFFFFFFFF}
	c.Seg[SS] = SegmentRegister{Selector: uint16((c.SysenterCS &^ 3) + 8), Base: 0, Limit: 0xFFFFFFFF}
	c.StackSize32 = true
	c.updateCSSize(0x400)
	c.CPL = 0
	c.cplChanged()
	c.diverged()
	c.Flags &^= FlagVM | FlagIF
	c.Reg32[ESP] = c.SysenterESP
	c.EIP = c.SysenterEIP
}

func opSYSEXIT(c *CPU) {
	if !c.ProtectedMode {
		c.triggerGP(0)
	}
	if c.CPL != 0 {
		c.triggerGP(0)
	}
	if c.SysenterCS == 0 {
		c.triggerGP(0)
	}
	c.Seg[CS] = SegmentRegister{Selector: uint16((c.SysenterCS + 16) | 3), Base: 0, Limit: 0xFFFFFFFF}
	c.Seg[SS] = SegmentRegister{Selector: uint16((c.SysenterCS + 24) | 3), Base: 0, Limit: 0xFFFFFFFF}
	c.StackSize32 = true
	c.updateCSSize(0x400)
	c.CPL = 3
	c.cplChanged()
	c.diverged()
	c.Reg32[ESP] = c.Reg32[ECX]
	c.EIP = c.Reg32[EDX]
}
