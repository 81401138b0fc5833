// dispatch.go - the 256-entry 0F dispatch tables
//
// Generalizes the teacher's initExtendedOps (cpu_x86.go) from a single
// [256]func(*CPU_X86) real-mode table to the two operand-size-keyed
// tables (dispatch16/dispatch32) this core's protected-mode instruction
// set needs; mandatory-prefix variant selection (0x66/0xF2/0xF3, priority
// 0x66 > 0xF3 > 0xF2 > none per spec.md §4.1) happens inside the handful
// of handlers whose semantics actually depend on it, selected here by
// small per-opcode routing wrappers.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

type opHandler func(*CPU)

// mandatory-prefix routing wrappers: these opcodes mean different things
// depending on which of 0x66/0xF2/0xF3 (if any) prefixed them. Forms this
// core doesn't model (the bare, non-prefixed MMX originals; PSHUFLW/
// PSHUFHW) raise #UD rather than silently misbehaving.

func opGroup60(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opPUNPCKLBW(c)
		return
	}
	c.triggerUD()
}

func opGroup6E(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opMOVD_toXMM(c)
		return
	}
	c.triggerUD()
}

func opGroup6F(c *CPU) {
	switch {
	case c.Prefixes&Prefix66 != 0:
		opMOVDQA_load(c)
	case c.Prefixes&PrefixF3 != 0:
		opMOVDQU_load(c)
	default:
		c.triggerUD()
	}
}

func opGroup70(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opPSHUFD(c)
		return
	}
	c.triggerUD()
}

func opGroup74(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opPCMPEQB(c)
		return
	}
	c.triggerUD()
}

func opGroup7E(c *CPU) {
	switch {
	case c.Prefixes&Prefix66 != 0:
		opMOVD_fromXMM(c)
	case c.Prefixes&PrefixF3 != 0:
		opMOVQ_load(c)
	default:
		c.triggerUD()
	}
}

func opGroup7F(c *CPU) {
	switch {
	case c.Prefixes&Prefix66 != 0:
		opMOVDQA_store(c)
	case c.Prefixes&PrefixF3 != 0:
		opMOVDQU_store(c)
	default:
		c.triggerUD()
	}
}

func opGroupD6(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opMOVQ_store(c)
		return
	}
	c.triggerUD()
}

func opGroupD7(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opPMOVMSKB(c)
		return
	}
	c.triggerUD()
}

func opGroupE7(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opMOVNTDQ(c)
		return
	}
	c.triggerUD()
}

func opGroupEF(c *CPU) {
	if c.Prefixes&Prefix66 != 0 {
		opPXOR(c)
		return
	}
	c.triggerUD()
}

func opGroupC7(c *CPU) {
	switch c.modrmReg() {
	case 1:
		opCMPXCHG8B(c)
	case 6:
		opRDRAND(c)
	default:
		c.triggerUD()
	}
}

// populateDispatch fills every one of the 256 slots of t. Handlers whose
// behaviour depends on operand size read c.OperandSize32 themselves
// (set by Execute0F before the handler runs), so the same populated
// table serves both dispatch16 and dispatch32 — the two tables exist as
// distinct fields only because spec.md's state model keys the dispatch
// lookup on operand size explicitly (see Execute0F).
func populateDispatch(t *[256]opHandler) {
	for i := range t {
		t[i] = opUnimplemented
	}

	t[0x00] = opGrp6
	t[0x01] = opGrp7
	t[0x02] = opLAR
	t[0x03] = opLSL
	t[0x06] = opCLTS
	t[0x08] = opINVD
	t[0x09] = opWBINVD
	t[0x0B] = opUD2
	t[0x0D] = opPREFETCHW
	t[0x18] = opPREFETCH
	t[0x1F] = opNOP

	t[0x20] = opMOVCRToReg
	t[0x21] = opMOVDRToReg
	t[0x22] = opMOVCRFromReg
	t[0x23] = opMOVDRFromReg
	t[0x29] = opMOVAPS_store

	t[0x30] = opWRMSR
	t[0x31] = opRDTSC
	t[0x32] = opRDMSR
	t[0x33] = opRDPMC
	t[0x34] = opSYSENTER
	t[0x35] = opSYSEXIT
	t[0x37] = opGETSEC

	for i := 0; i < 16; i++ {
		t[0x40+i] = opCMOVcc(i)
	}

	t[0x60] = opGroup60
	t[0x6E] = opGroup6E
	t[0x6F] = opGroup6F
	t[0x70] = opGroup70
	t[0x74] = opGroup74
	t[0x77] = opEMMS
	t[0x7E] = opGroup7E
	t[0x7F] = opGroup7F

	for i := 0; i < 16; i++ {
		t[0x80+i] = opJcc(i)
	}
	for i := 0; i < 16; i++ {
		t[0x90+i] = opSETcc(i)
	}

	t[0xA0] = opPushFS
	t[0xA1] = opPopFS
	t[0xA2] = opCPUID
	t[0xA3] = opBT
	t[0xA4] = opSHLDImm
	t[0xA5] = opSHLDCL
	t[0xA8] = opPushGS
	t[0xA9] = opPopGS
	t[0xAA] = opRSM
	t[0xAB] = opBTS
	t[0xAC] = opSHRDImm
	t[0xAD] = opSHRDCL
	t[0xAE] = opGrp15
	t[0xAF] = opIMUL

	t[0xB0] = opCMPXCHG8
	t[0xB1] = opCMPXCHG
	t[0xB2] = opLSSGen(SS)
	t[0xB3] = opBTR
	t[0xB4] = opLSSGen(FS)
	t[0xB5] = opLSSGen(GS)
	t[0xB8] = opPOPCNT
	t[0xBA] = opGrp8
	t[0xBB] = opBTC
	t[0xBC] = opBSF
	t[0xBD] = opBSR

	t[0xC0] = opXADD8
	t[0xC1] = opXADD
	t[0xC7] = opGroupC7
	for i := byte(0); i < 8; i++ {
		t[0xC8+i] = opBSWAP(i)
	}

	t[0xD6] = opGroupD6
	t[0xD7] = opGroupD7
	t[0xE7] = opGroupE7
	t[0xEF] = opGroupEF
}

func (c *CPU) initDispatch16() { populateDispatch(&c.dispatch16) }
func (c *CPU) initDispatch32() { populateDispatch(&c.dispatch32) }
