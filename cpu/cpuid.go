// cpuid.go - CPUID (0FA2)
//
// A deterministic, minimal leaf set: leaf 0 reports the vendor string and
// max supported leaf (1); leaf 1 reports family/model/stepping and a
// feature bitmap with TSC, MSR, CMPXCHG8B, SEP, PGE, CMOV, MMX, FXSR, SSE
// and SSE2 set (only a subset of SSE/SSE2 and a reduced FXSAVE image are
// modelled behind the last three). Unrecognised leaves fall back to leaf
// 0, matching older hardware's behaviour and
// original_source/instructions_0f.c's instr_0FA2 (which has no leaf
// dispatch at all and always returns one fixed answer — this generalizes
// that into a two-leaf table per spec.md's supplemented CPUID feature,
// see SPEC_FULL.md).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

const (
	cpuidFeatTSC     = 1 << 4
	cpuidFeatMSR     = 1 << 5
	cpuidFeatCX8     = 1 << 8
	cpuidFeatSEP     = 1 << 11
	cpuidFeatPGE     = 1 << 13
	cpuidFeatCMOV    = 1 << 15
	cpuidFeatMMX     = 1 << 23
	cpuidFeatFXSR    = 1 << 24
	cpuidFeatSSE     = 1 << 25
	cpuidFeatSSE2    = 1 << 26
)

func opCPUID(c *CPU) {
	leaf := c.Reg32[EAX]

	switch leaf {
	case 1:
		c.Reg32[EAX] = 0x000006B1 // family 6, model 11, stepping 1
		c.Reg32[EBX] = 0
		c.Reg32[ECX] = 0
		c.Reg32[EDX] = cpuidFeatTSC | cpuidFeatMSR | cpuidFeatCX8 |
			cpuidFeatSEP | cpuidFeatPGE | cpuidFeatCMOV |
			cpuidFeatMMX | cpuidFeatFXSR | cpuidFeatSSE | cpuidFeatSSE2
	default:
		// Leaf 0's 12-byte vendor string "GenuIA32Epal", packed
		// little-endian as EBX:EDX:ECX.
		c.Reg32[EAX] = 1
		c.Reg32[EBX] = 0x756E6547 // "Genu"
		c.Reg32[EDX] = 0x32334149 // "IA32"
		c.Reg32[ECX] = 0x6C617045 // "Epal" (padding to 12 bytes)
	}
}
