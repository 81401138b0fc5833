// msr.go - WRMSR/RDMSR (0F30/0F32) and RDTSC (0F31)
//
// The MSR store is a sparse key/value space by design (spec.md §3: "A
// sparse key/value store keyed by 32-bit index"), but this core only
// ever needs to recognise the handful of indices spec.md §3 names by
// name: the SYSENTER trio, the TSC, APIC_BASE, and a tail of MSRs real
// guests probe but that have no architectural effect on this core
// (BIOS_SIGN_ID, MISC_ENABLE, MCG_CAP, KERNEL_GS_BASE, PLATFORM_ID,
// RTIT_CTL, SMI_COUNT, PKG_C2_RESIDENCY). Grounded in
// original_source/instructions_0f.c's instr_0F30/0F32: every one of
// those MSRs hits a `break` with no side effect, while the index
// `default` case is `assert(false)` — an implementation-defined fatal
// assertion, not an architectural fault, matching spec.md §3/§4.6/§8's
// "unknown indices: fatal" and §5's "unreachable opcode slot in the
// tables is a fatal assertion".
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

import "fmt"

// Well-known MSR indices this core models directly.
const (
	MSR_SYSENTER_CS  = 0x174
	MSR_SYSENTER_ESP = 0x175
	MSR_SYSENTER_EIP = 0x176
	MSR_TSC          = 0x10
	MSR_APIC_BASE    = 0x1B

	// Recognised but architecturally inert on this core: accepted by
	// WRMSR without side effects, read back as zero by RDMSR
	// (original_source/instructions_0f.c:604-618,680-712).
	MSR_PLATFORM_ID      = 0x17
	MSR_BIOS_SIGN_ID     = 0x8B
	MSR_MISC_ENABLE      = 0x1A0
	MSR_MCG_CAP          = 0x179
	MSR_KERNEL_GS_BASE   = 0xC0000102
	MSR_RTIT_CTL         = 0x570
	MSR_SMI_COUNT        = 0x34
	MSR_PKG_C2_RESIDENCY = 0x60D
)

// TSCRate is the number of TSC counts Microtick advances the counter by
// each time RDTSC samples it, standing in for the real CPU's clock
// frequency.
const TSCRate = 1000

func (c *CPU) requirePrivilegedMSR() {
	if c.CPL != 0 {
		c.triggerGP(0)
	}
}

// fatalUnknownMSR implements the "implementation-defined fatal
// assertion" spec.md §3/§4.6/§8 require for an MSR index this core has
// never heard of. It is deliberately not a *Fault: an unknown MSR is a
// host/guest configuration defect, not an architectural exception a
// guest could ever legitimately trigger and recover from.
func fatalUnknownMSR(idx uint32) {
	panic(fmt.Sprintf("unknown MSR index %#x", idx))
}

// opWRMSR implements 0F30: ECX selects the MSR, EDX:EAX is the value.
// Privileged (CPL0-only).
func opWRMSR(c *CPU) {
	c.requirePrivilegedMSR()
	idx := c.Reg32[ECX]
	lo, hi := c.Reg32[EAX], c.Reg32[EDX]

	switch idx {
	case MSR_SYSENTER_CS:
		c.SysenterCS = lo & 0xFFFF
	case MSR_SYSENTER_ESP:
		c.SysenterESP = lo
	case MSR_SYSENTER_EIP:
		c.SysenterEIP = lo
	case MSR_TSC:
		c.TSCOffset = int64(uint64(lo) | uint64(hi)<<32)
	case MSR_APIC_BASE:
		c.APICEnabled = lo&0x800 != 0
	case MSR_BIOS_SIGN_ID, MSR_MISC_ENABLE, MSR_MCG_CAP, MSR_KERNEL_GS_BASE,
		MSR_PLATFORM_ID, MSR_RTIT_CTL, MSR_SMI_COUNT, MSR_PKG_C2_RESIDENCY:
		// Accepted without side effects: these are real MSRs guests
		// probe or write for feature-detection reasons this core
		// doesn't model.
	default:
		fatalUnknownMSR(idx)
	}
}

// opRDMSR implements 0F32: reads the MSR ECX names into EDX:EAX.
func opRDMSR(c *CPU) {
	c.requirePrivilegedMSR()
	idx := c.Reg32[ECX]

	var lo, hi uint32
	switch idx {
	case MSR_SYSENTER_CS:
		lo = c.SysenterCS
	case MSR_SYSENTER_ESP:
		lo = c.SysenterESP
	case MSR_SYSENTER_EIP:
		lo = c.SysenterEIP
	case MSR_TSC:
		n := uint64(c.TSCOffset)
		lo, hi = uint32(n), uint32(n>>32)
	case MSR_APIC_BASE:
		if c.APICEnabled {
			lo = 0x800
		}
	case MSR_BIOS_SIGN_ID, MSR_MISC_ENABLE, MSR_MCG_CAP, MSR_KERNEL_GS_BASE,
		MSR_PLATFORM_ID, MSR_RTIT_CTL, MSR_SMI_COUNT, MSR_PKG_C2_RESIDENCY:
		// Accepted but unmodelled: returns 0 (spec.md §4.6).
	default:
		fatalUnknownMSR(idx)
	}
	c.SetReg32(EAX, lo)
	c.SetReg32(EDX, hi)
}

// opRDTSC implements 0F31: requires CPL0 or CR4.TSD clear, else #GP(0).
// Writes EDX:EAX = Microtick()*TSCRate + offset, where offset is whatever
// WRMSR(TSC) last set — a deterministic logical clock rather than wall
// time so tests can assert exact values. Unlike RDMSR(TSC), each call
// advances the counter, matching real hardware's free-running behaviour.
func opRDTSC(c *CPU) {
	if c.CPL != 0 && c.CR[4]&CR4_TSD != 0 {
		c.triggerGP(0)
	}
	n := uint64(c.Microtick()*TSCRate + c.TSCOffset)
	c.SetReg32(EAX, uint32(n))
	c.SetReg32(EDX, uint32(n>>32))
}
