// sse.go - the partial SSE2/MMX integer subset spec.md §4.11 names
//
// Grounded in original_source/instructions_0f.c's instr_660F6E/660F7E/
// 660F6F/F30F6F/660F7F/F30F7F/660FD6/660FEF/660F74/660FD7/660F70/0F77,
// and in spec.md §4.1's mandatory-prefix variant-selection table (0x66 >
// 0xF3 > 0xF2 > none). Each handler here corresponds to exactly one
// prefix variant; dispatch.go is responsible for routing on c.Prefixes
// before calling in.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// Mandatory-prefix bits, carried in c.Prefixes by the decode loop this
// core doesn't own (spec.md §4.1).
const (
	Prefix66 uint16 = 1 << iota
	PrefixF2
	PrefixF3
)

// requireSSEAvailable implements the MMX/SSE task-switch check spec.md
// §4.9 requires as the first action of every SSE/MMX handler: CR0.TS
// means the FPU/SSE state hasn't been restored since the last task
// switch (#NM, checked first); CR0.EM means no SIMD unit is present at
// all (#UD). Order grounded in original_source/instructions_0f.c's
// instr_0F77: "if(cr[0]&CR0_TS) trigger_nm(); else trigger_ud();".
func (c *CPU) requireSSEAvailable() {
	if c.CR[0]&CR0_TS != 0 {
		c.triggerNM()
	}
	if c.CR[0]&CR0_EM != 0 {
		c.triggerUD()
	}
}

// opMOVAPS_store implements 0F29 (MOVAPS xmm/m128, xmm): aligned store,
// alignment-fault checking left to the Bus.
func opMOVAPS_store(c *CPU) {
	c.requireSSEAvailable()
	v := c.ReadXMM128()
	if c.isRegisterForm() {
		c.XMM[c.modrmRM()] = v
		return
	}
	c.safeWrite128(c.ModrmResolve(), v)
}

// opPUNPCKLBW implements 660F60: interleave the low 8 bytes of dst and
// src, widening each byte pair into a byte lane.
func opPUNPCKLBW(c *CPU) {
	c.requireSSEAvailable()
	src := c.ReadXMMMem64()
	dstIdx := c.modrmReg()
	dst := c.XMM[dstIdx]
	var out XMMRegister
	for i := 0; i < 8; i++ {
		out.SetU8(i*2, dst.U8(i))
		out.SetU8(i*2+1, src.U8(i))
	}
	c.XMM[dstIdx] = out
}

// opMOVD_toXMM implements 660F6E (MOVD xmm, r/m32): zero-extends the
// 32-bit source into the low dword of xmm, clearing the rest.
func opMOVD_toXMM(c *CPU) {
	c.requireSSEAvailable()
	v := c.ReadE32S()
	var out XMMRegister
	out.SetU32(0, v)
	c.XMM[c.modrmReg()] = out
}

// opMOVD_fromXMM implements 660F7E (MOVD r/m32, xmm).
func opMOVD_fromXMM(c *CPU) {
	c.requireSSEAvailable()
	v := c.XMM[c.modrmReg()].U32(0)
	c.SetE32(v)
}

// opMOVQ_load implements F30F7E (MOVQ xmm, xmm/m64): zero-extends the
// low 64 bits, clearing the upper half.
func opMOVQ_load(c *CPU) {
	c.requireSSEAvailable()
	src := c.ReadXMMMem64()
	var out XMMRegister
	out.SetU64(0, src.U64(0))
	c.XMM[c.modrmReg()] = out
}

// opMOVDQA_load/opMOVDQU_load implement 660F6F / F30F6F: full 128-bit
// load, differing only in the alignment requirement a real CPU enforces
// (not modelled separately here since the Bus owns memory layout).
func opMOVDQA_load(c *CPU) {
	c.requireSSEAvailable()
	c.XMM[c.modrmReg()] = c.ReadXMMMem128()
}

func opMOVDQU_load(c *CPU) {
	c.requireSSEAvailable()
	c.XMM[c.modrmReg()] = c.ReadXMMMem128()
}

// opMOVDQA_store/opMOVDQU_store implement 660F7F / F30F7F.
func opMOVDQA_store(c *CPU) {
	c.requireSSEAvailable()
	v := c.XMM[c.modrmReg()]
	if c.isRegisterForm() {
		c.XMM[c.modrmRM()] = v
		return
	}
	c.safeWrite128(c.ModrmResolve(), v)
}

func opMOVDQU_store(c *CPU) { opMOVDQA_store(c) }

// opPSHUFD implements 660F70: shuffle the four dwords of src into dst
// according to the imm8 order byte (two bits select each destination
// lane's source lane).
func opPSHUFD(c *CPU) {
	c.requireSSEAvailable()
	src := c.ReadXMMMem128()
	order := c.ReadOp8()
	var out XMMRegister
	for lane := 0; lane < 4; lane++ {
		sel := order >> (uint(lane) * 2) & 3
		out.SetU32(lane, src.U32(int(sel)))
	}
	c.XMM[c.modrmReg()] = out
}

// opPCMPEQB implements 660F74: per-byte equality compare, each matching
// lane set to all-ones.
func opPCMPEQB(c *CPU) {
	c.requireSSEAvailable()
	src := c.ReadXMMMem128()
	dstIdx := c.modrmReg()
	dst := c.XMM[dstIdx]
	var out XMMRegister
	for i := 0; i < 16; i++ {
		if dst.U8(i) == src.U8(i) {
			out.SetU8(i, 0xFF)
		}
	}
	c.XMM[dstIdx] = out
}

// opPXOR implements 660FEF.
func opPXOR(c *CPU) {
	c.requireSSEAvailable()
	src := c.ReadXMMMem128()
	dstIdx := c.modrmReg()
	dst := c.XMM[dstIdx]
	var out XMMRegister
	for i := 0; i < 4; i++ {
		out.SetU32(i, dst.U32(i)^src.U32(i))
	}
	c.XMM[dstIdx] = out
}

// opPMOVMSKB implements 660FD7: packs the sign bit of each of the 16
// bytes of the source xmm register into the low 16 bits of a GPR.
func opPMOVMSKB(c *CPU) {
	c.requireSSEAvailable()
	src := c.XMM[c.modrmRM()]
	var mask uint32
	for i := 0; i < 16; i++ {
		if src.U8(i)&0x80 != 0 {
			mask |= 1 << uint(i)
		}
	}
	c.WriteG32(mask)
}

// opMOVQ_store implements 660FD6: store the low 64 bits of an xmm
// register to a 64-bit memory/xmm destination.
func opMOVQ_store(c *CPU) {
	c.requireSSEAvailable()
	src := c.XMM[c.modrmReg()]
	if c.isRegisterForm() {
		var out XMMRegister
		out.SetU64(0, src.U64(0))
		c.XMM[c.modrmRM()] = out
		return
	}
	addr := c.ModrmResolve()
	c.safeWrite64(addr, src.U32(0), src.U32(1))
}

// opMOVNTDQ implements 660FE7: a non-temporal 128-bit store; the
// non-temporal hint has no observable effect without a real cache model,
// so this is functionally a 128-bit store, memory-destination only (the
// register-form encoding is invalid).
func opMOVNTDQ(c *CPU) {
	c.requireSSEAvailable()
	if c.isRegisterForm() {
		c.triggerUD()
	}
	c.safeWrite128(c.ModrmResolve(), c.XMM[c.modrmReg()])
}

// opEMMS implements 0F77: clears the MMX/x87 tag word. This core doesn't
// model x87 tag state, so it's a no-op beyond requiring FPU availability
// and rejecting the rep/opsize prefixes real hardware asserts against
// (original_source/instructions_0f.c:978: "dbg_assert((*prefixes &
// (PREFIX_MASK_REP | PREFIX_MASK_OPSIZE)) == 0)").
func opEMMS(c *CPU) {
	if c.Prefixes&(Prefix66|PrefixF2|PrefixF3) != 0 {
		c.triggerUD()
	}
	c.requireSSEAvailable()
}

// opUD2 implements 0F0B: guaranteed #UD, used by software as a trap.
func opUD2(c *CPU) { c.triggerUD() }

// opUnimplemented is wired into every 0F slot spec.md's Non-goals exclude
// outright (undefined opcodes, the obsolete 0FA6/0FA7 CMPXCHG forms, the
// 0FFF Windows 98 ICEBP quirk byte).
func opUnimplemented(c *CPU) { c.triggerUD() }
