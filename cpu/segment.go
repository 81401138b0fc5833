// segment.go - segment/descriptor-table/privilege engine
//
// spec.md §1 places segment loading, descriptor validation and CPL
// transitions out of scope as an "external collaborator". This file
// provides a workable stand-in grounded in the teacher's flat-model
// segment handling (cpu_x86.go's CS/DS/ES/SS fields), generalized to a
// selector-indexed descriptor fetch so LSS/LFS/LGS, VERR/VERW, LAR/LSL
// and MOV-to-Sreg-adjacent 0F ops have real (if simplified) semantics
// to drive rather than being no-ops.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// descriptor is the subset of a GDT/LDT segment descriptor this core
// interprets: base, limit, and the access-rights byte in its native
// on-the-wire position (bits 8-15 of the second descriptor dword).
type descriptor struct {
	base   uint32
	limit  uint32
	rights uint16 // access byte in bits 0-7, flags nibble in bits 8-11
	valid  bool
}

// fetchDescriptor reads an 8-byte descriptor at the GDT/LDT for selector
// sel. Index 0 ("the null descriptor") is always valid-but-unusable.
func (c *CPU) fetchDescriptor(sel uint16) descriptor {
	if sel>>3 == 0 {
		return descriptor{}
	}
	tableBase, tableLimit := c.GDTR.Offset, uint32(c.GDTR.Size)
	if sel&4 != 0 {
		tableBase, tableLimit = c.Seg[LDTR].Base, c.Seg[LDTR].Limit
	}
	idx := uint32(sel >> 3)
	addr := tableBase + idx*8
	if idx*8+7 > tableLimit {
		return descriptor{}
	}

	lo := c.safeRead32(addr)
	hi := c.safeRead32(addr + 4)

	limit := lo&0xFFFF | hi&0xF0000
	base := (lo >> 16) | (hi&0xFF)<<16 | hi&0xFF000000
	rights := uint16(hi>>8) & 0xFF
	flags := uint16(hi>>20) & 0xF
	if flags&0x8 != 0 { // G bit: limit is in 4K pages
		limit = limit<<12 | 0xFFF
	}

	return descriptor{base: base, limit: limit, rights: rights | flags<<8, valid: true}
}

// switchSeg loads seg with the descriptor for selector sel, honouring
// the protected-mode null-selector rule for DS/ES/FS/GS (a null selector
// is legal to load but marks the segment unusable) while SS/CS always
// require a valid, present descriptor.
func (c *CPU) switchSeg(seg int, sel uint16) {
	if !c.ProtectedMode || c.vm86Mode() {
		c.Seg[seg] = SegmentRegister{Selector: sel, Base: uint32(sel) << 4, Limit: 0xFFFF}
		return
	}

	if sel>>3 == 0 && seg != SS && seg != CS {
		c.Seg[seg] = SegmentRegister{Selector: 0, Null: true}
		return
	}

	d := c.fetchDescriptor(sel)
	if !d.valid || d.rights&0x80 == 0 { // not present
		c.triggerGP(uint32(sel) &^ 7)
		return
	}

	c.Seg[seg] = SegmentRegister{Selector: sel, Base: d.base, Limit: d.limit}
	if seg == CS {
		c.updateCSSize(d.rights)
	}
}

// updateCSSize tracks the D bit (default operand size) off the
// descriptor's flags nibble, mirroring csSize32's role in the teacher's
// prefix-size resolution.
func (c *CPU) updateCSSize(rights uint16) {
	c.csSize32 = rights&0x400 != 0
}

// cplChanged and diverged are the privilege-transition hooks spec.md §6
// lists alongside load_ldt/switch_seg/update_cs_size as downstream
// collaborators of the dispatcher. This core has no descriptor cache or
// prefetch queue to invalidate, so cplChanged is a hook point for a
// future one; diverged records that control flow jumped somewhere the
// sequential decode loop wasn't already going to fetch from, so the
// caller re-fetches at the new EIP rather than continuing the current
// instruction stream.
func (c *CPU) cplChanged() {}

func (c *CPU) diverged() {
	c.Diverged = true
}

// loadLDT and loadTR implement 0F00 /2 (LLDT) and /3 (LTR): load the
// selector into LDTR/TR after resolving its descriptor in the GDT.
func (c *CPU) loadLDT(sel uint16) {
	if sel>>3 == 0 {
		c.Seg[LDTR] = SegmentRegister{Selector: 0, Null: true}
		return
	}
	d := c.fetchDescriptor(sel)
	if !d.valid {
		c.triggerGP(uint32(sel) &^ 7)
	}
	c.Seg[LDTR] = SegmentRegister{Selector: sel, Base: d.base, Limit: d.limit}
}

func (c *CPU) loadTR(sel uint16) {
	if sel>>3 == 0 {
		c.triggerGP(0)
	}
	d := c.fetchDescriptor(sel)
	if !d.valid {
		c.triggerGP(uint32(sel) &^ 7)
	}
	c.Seg[TR] = SegmentRegister{Selector: sel, Base: d.base, Limit: d.limit}
}

// lss loads seg:off into (seg register, GPR reg) for LSS/LFS/LGS — a
// 32/16-bit offset followed by a 16-bit selector, both read from the
// same memory operand.
func (c *CPU) lss32(seg int, reg byte, addr uint32) {
	off := c.safeRead32(addr)
	sel := c.safeRead16(addr + 4)
	c.switchSeg(seg, sel)
	c.SetReg32(reg, off)
}

func (c *CPU) lss16(seg int, reg byte, addr uint32) {
	off := c.safeRead16(addr)
	sel := c.safeRead16(addr + 2)
	c.switchSeg(seg, sel)
	c.SetReg16(reg, off)
}

// verr/verw implement 0F00 /4 and /5: report (in ZF, via the returned
// bool) whether sel passes the check, without faulting on a bad selector.
// verr only checks that sel names a present descriptor; verw additionally
// requires type bit 1 (the writable bit of a data segment). Neither
// compares the descriptor's DPL with CPL or RPL, and verw does not check
// the code/data bit.
func (c *CPU) verr(sel uint16) bool {
	if sel>>3 == 0 {
		return false
	}
	d := c.fetchDescriptor(sel)
	if !d.valid {
		return false
	}
	return d.rights&0x80 != 0 // present
}

func (c *CPU) verw(sel uint16) bool {
	if sel>>3 == 0 {
		return false
	}
	d := c.fetchDescriptor(sel)
	if !d.valid || d.rights&0x80 == 0 {
		return false
	}
	return d.rights&0x2 != 0 // writable data segment
}

// lar/lsl implement 0F02/0F03: return the access-rights word (lar) or
// segment limit (lsl) for sel, and whether the lookup succeeded.
func (c *CPU) lar(sel uint16) (uint32, bool) {
	if sel>>3 == 0 {
		return 0, false
	}
	d := c.fetchDescriptor(sel)
	if !d.valid {
		return 0, false
	}
	return uint32(d.rights) << 8, true
}

func (c *CPU) lsl(sel uint16) (uint32, bool) {
	if sel>>3 == 0 {
		return 0, false
	}
	d := c.fetchDescriptor(sel)
	if !d.valid {
		return 0, false
	}
	return d.limit, true
}
