// modrm.go - ModR/M decode and the e/g operand-I/O family
//
// spec.md §1 places ModR/M resolution and the read_e*/read_g*/set_e*/
// write_e*/write_g* family out of scope as external collaborators. This
// file provides them, generalizing the teacher's calcEffectiveAddress16/32
// and readRM8/16/32 (cpu_x86.go) from a flat memory model to one that
// honours the active segment's Base, and from a single RM width to the
// full e8/e16/e32/g8/g16/g32 (plus sign-extended s-variants) family the
// semantics set actually calls.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// ReadModRMByte fetches (and caches) the current instruction's ModR/M
// byte. Handlers that don't use a ModR/M byte never call this.
func (c *CPU) ReadModRMByte() byte {
	if !c.modrmLoaded {
		c.modrm = c.fetchOp8()
		c.modrmLoaded = true
	}
	return c.modrm
}

func (c *CPU) modrmMod() byte { return c.ReadModRMByte() >> 6 & 3 }
func (c *CPU) modrmReg() byte { return c.ReadModRMByte() >> 3 & 7 }
func (c *CPU) modrmRM() byte  { return c.ReadModRMByte() & 7 }

// isRegisterForm reports whether the current ModR/M encodes a register
// operand (mod==3) rather than memory.
func (c *CPU) isRegisterForm() bool { return c.ReadModRMByte() >= 0xC0 }

// fetchOp8/16/32 read an instruction-stream byte/word/dword at EIP and
// advance EIP — the byte-fetch path spec.md places out of scope, needed
// here only to pull in ModR/M bytes, displacements and immediates.
func (c *CPU) fetchOp8() byte {
	v := c.Bus.Read(c.EIP)
	c.EIP++
	return v
}

func (c *CPU) fetchOp16() uint16 {
	lo := c.fetchOp8()
	hi := c.fetchOp8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) fetchOp32() uint32 {
	b0 := c.fetchOp8()
	b1 := c.fetchOp8()
	b2 := c.fetchOp8()
	b3 := c.fetchOp8()
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

// ReadOp8 reads an imm8 that follows the ModR/M byte (and any
// displacement) — e.g. PSHUFD's order byte, or the SHLD/SHRD immediate
// count.
func (c *CPU) ReadOp8() byte { return c.fetchOp8() }

// ModrmResolve computes and caches the effective linear address for a
// memory-form ModR/M. Calling it on a register-form ModR/M is a
// programmer error in the caller (mirrors the original's own assertions
// that modrm_byte < 0xC0 before resolving).
func (c *CPU) ModrmResolve() uint32 {
	if c.dispAddrSet {
		return c.dispAddr
	}
	var addr uint32
	var seg = DS
	if c.AddressSize32 {
		addr, seg = c.effectiveAddress32()
	} else {
		addr, seg = c.effectiveAddress16()
	}
	addr += c.Seg[seg].Base
	c.dispAddr = addr
	c.dispAddrSet = true
	return addr
}

func (c *CPU) effectiveAddress16() (uint32, int) {
	mod := c.modrmMod()
	rm := c.modrmRM()
	seg := DS
	var base uint16

	switch rm {
	case 0:
		base = uint16(c.Reg32[EBX]) + uint16(c.Reg32[ESI])
	case 1:
		base = uint16(c.Reg32[EBX]) + uint16(c.Reg32[EDI])
	case 2:
		base = uint16(c.Reg32[EBP]) + uint16(c.Reg32[ESI])
		seg = SS
	case 3:
		base = uint16(c.Reg32[EBP]) + uint16(c.Reg32[EDI])
		seg = SS
	case 4:
		base = uint16(c.Reg32[ESI])
	case 5:
		base = uint16(c.Reg32[EDI])
	case 6:
		if mod == 0 {
			base = c.fetchOp16()
		} else {
			base = uint16(c.Reg32[EBP])
			seg = SS
		}
	case 7:
		base = uint16(c.Reg32[EBX])
	}

	switch mod {
	case 1:
		disp := int8(c.fetchOp8())
		base = uint16(int16(base) + int16(disp))
	case 2:
		base += c.fetchOp16()
	}

	return uint32(base), seg
}

func (c *CPU) effectiveAddress32() (uint32, int) {
	mod := c.modrmMod()
	rm := c.modrmRM()
	seg := DS
	var addr uint32

	if rm == 4 {
		sib := c.fetchOp8()
		scale := sib >> 6 & 3
		index := sib >> 3 & 7
		base := sib & 7

		if base == 5 && mod == 0 {
			addr = c.fetchOp32()
		} else {
			addr = c.Reg32[base]
			if base == ESP || base == EBP {
				seg = SS
			}
		}
		if index != 4 {
			addr += c.Reg32[index] << scale
		}
	} else if rm == 5 && mod == 0 {
		addr = c.fetchOp32()
	} else {
		addr = c.Reg32[rm]
		if rm == ESP || rm == EBP {
			seg = SS
		}
	}

	switch mod {
	case 1:
		disp := int8(c.fetchOp8())
		addr = uint32(int32(addr) + int32(disp))
	case 2:
		addr += c.fetchOp32()
	}

	return addr, seg
}

// -----------------------------------------------------------------------------
// e-operand family: register-or-memory, width implied by the call site
// -----------------------------------------------------------------------------

func (c *CPU) ReadE8() byte {
	if c.isRegisterForm() {
		return c.Reg8(c.modrmRM())
	}
	return c.safeRead8(c.ModrmResolve())
}

func (c *CPU) ReadE8S() int8 { return int8(c.ReadE8()) }

func (c *CPU) SetE8(v byte) {
	if c.isRegisterForm() {
		c.SetReg8(c.modrmRM(), v)
	} else {
		c.safeWrite8(c.ModrmResolve(), v)
	}
}

func (c *CPU) WriteE8(v byte) { c.SetE8(v) }

func (c *CPU) ReadE16() uint16 {
	if c.isRegisterForm() {
		return c.Reg16(c.modrmRM())
	}
	return c.safeRead16(c.ModrmResolve())
}

func (c *CPU) ReadE16S() int16 { return int16(c.ReadE16()) }

func (c *CPU) SetE16(v uint16) {
	if c.isRegisterForm() {
		c.SetReg16(c.modrmRM(), v)
	} else {
		c.safeWrite16(c.ModrmResolve(), v)
	}
}

func (c *CPU) WriteE16(v uint16) { c.SetE16(v) }

func (c *CPU) ReadE32S() uint32 {
	if c.isRegisterForm() {
		return c.GetReg32(c.modrmRM())
	}
	return c.safeRead32(c.ModrmResolve())
}

func (c *CPU) SetE32(v uint32) {
	if c.isRegisterForm() {
		c.SetReg32(c.modrmRM(), v)
	} else {
		c.safeWrite32(c.ModrmResolve(), v)
	}
}

func (c *CPU) WriteE32(v uint32) { c.SetE32(v) }

// ReadWriteE16/32 read the e-operand once while caching the memory
// address (if any) so a subsequent WriteE16/32 in the same handler
// writes back to the same location — the read-modify-write pattern
// SHLD/SHRD/XADD need.
func (c *CPU) ReadWriteE16() uint16 { return c.ReadE16() }
func (c *CPU) ReadWriteE32() uint32 { return c.ReadE32S() }

// -----------------------------------------------------------------------------
// g-operand family: always the ModR/M reg field, always a register
// -----------------------------------------------------------------------------

func (c *CPU) ReadG8() byte    { return c.Reg8(c.modrmReg()) }
func (c *CPU) ReadG16() uint16 { return c.Reg16(c.modrmReg()) }
func (c *CPU) ReadG16S() int16 { return int16(c.Reg16(c.modrmReg())) }
func (c *CPU) ReadG32S() uint32 { return c.GetReg32(c.modrmReg()) }

func (c *CPU) WriteG8(v byte)    { c.SetReg8(c.modrmReg(), v) }
func (c *CPU) WriteG16(v uint16) { c.SetReg16(c.modrmReg(), v) }
func (c *CPU) WriteG32(v uint32) { c.SetReg32(c.modrmReg(), v) }

// ReadRegE16/ReadRegE32S ignore the mod bits entirely and honour only the
// r/m register index — the encoding spec.md §4.2 calls out for MOV
// CRn/DRn ("the 'mod' bits of the ModR/M are ignored").
func (c *CPU) ReadRegE16() uint16  { return c.Reg16(c.modrmRM()) }
func (c *CPU) ReadRegE32S() uint32 { return c.GetReg32(c.modrmRM()) }
func (c *CPU) WriteRegE16(v uint16) { c.SetReg16(c.modrmRM(), v) }
func (c *CPU) WriteRegE32(v uint32) { c.SetReg32(c.modrmRM(), v) }

// -----------------------------------------------------------------------------
// xmm operand family
// -----------------------------------------------------------------------------

func (c *CPU) ReadXMM128() XMMRegister { return c.XMM[c.modrmReg()] }
func (c *CPU) ReadXMM64() XMMRegister  { return c.XMM[c.modrmReg()] }

func (c *CPU) WriteXMM128(a, b, d, e uint32) {
	c.XMM[c.modrmReg()].SetU32x4(a, b, d, e)
}

// ReadXMMMem128 reads a 128-bit xmm/m128 e-operand.
func (c *CPU) ReadXMMMem128() XMMRegister {
	if c.isRegisterForm() {
		return c.XMM[c.modrmRM()]
	}
	return c.safeRead128(c.ModrmResolve())
}

// ReadXMMMem64 reads a 64-bit xmm/m64 e-operand (low 8 bytes only).
func (c *CPU) ReadXMMMem64() XMMRegister {
	if c.isRegisterForm() {
		return c.XMM[c.modrmRM()]
	}
	var x XMMRegister
	lo, hi := c.safeRead64(c.ModrmResolve())
	x.SetU32(0, lo)
	x.SetU32(1, hi)
	return x
}
