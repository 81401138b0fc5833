// rdrand.go - RDRAND (0FC7 /6)
//
// spec.md §4.12 requires RDRAND to clear every arithmetic flag on every
// execution and set CF only on success; grounded in
// original_source/instructions_0f.c's instr_0FC7 reg==6 case, which
// always reports success (no hardware entropy source to exhaust).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

// RandSource abstracts the entropy source RDRAND draws from, letting
// tests supply deterministic values without touching crypto/rand.
type RandSource interface {
	Uint64() uint64
}

// SetRandSource sets the CPU's entropy source; nil means RDRAND always
// reports failure (CF=0), matching real hardware under entropy
// exhaustion.
func (c *CPU) SetRandSource(r RandSource) { c.rand = r }

func opRDRAND(c *CPU) {
	c.Flags &^= FlagsAll
	c.FlagsChanged &^= FlagsAll

	if c.rand == nil {
		return
	}
	v := c.rand.Uint64()
	if c.IsOsize32() {
		c.SetE32(uint32(v))
	} else {
		c.SetE16(uint16(v))
	}
	c.SetCF(true)
}
