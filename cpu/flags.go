// flags.go - EFLAGS bits, lazy-flag dirty mask, condition predicates
//
// Carries over the teacher's x86Flag* bit constants and getFlag/setFlag
// accessor pair, extended with the protection-sensitive bits (VM) spec.md
// §3 names and with the flags_changed dirty mask the lazy-flags design
// requires (spec.md §9: "a write that doesn't clear the dirty bits will
// be silently overwritten by subsequent lazy recomputation").
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

const (
	FlagCF   = 1 << 0
	FlagPF   = 1 << 2
	FlagAF   = 1 << 4
	FlagZF   = 1 << 6
	FlagSF   = 1 << 7
	FlagTF   = 1 << 8
	FlagIF   = 1 << 9
	FlagDF   = 1 << 10
	FlagOF   = 1 << 11
	FlagIOPL = 3 << 12
	FlagNT   = 1 << 14
	FlagRF   = 1 << 16
	FlagVM   = 1 << 17
	FlagAC   = 1 << 18
	FlagVIF  = 1 << 19
	FlagVIP  = 1 << 20
	FlagID   = 1 << 21

	// FlagsAll is every arithmetic flag bit RDRAND clears on every
	// execution (spec.md §4.12).
	FlagsAll = FlagCF | FlagPF | FlagAF | FlagZF | FlagSF | FlagOF
)

func (c *CPU) getFlag(mask uint32) bool { return c.Flags&mask != 0 }

func (c *CPU) setFlag(mask uint32, set bool) {
	if set {
		c.Flags |= mask
	} else {
		c.Flags &^= mask
	}
}

// markFlagsClean clears the dirty bits for mask, marking that this write
// is the authoritative value (not to be recomputed lazily).
func (c *CPU) markFlagsClean(mask uint32) {
	c.FlagsChanged &^= mask
}

func (c *CPU) CF() bool { return c.getFlag(FlagCF) }
func (c *CPU) ZF() bool { return c.getFlag(FlagZF) }
func (c *CPU) SF() bool { return c.getFlag(FlagSF) }
func (c *CPU) OF() bool { return c.getFlag(FlagOF) }
func (c *CPU) PF() bool { return c.getFlag(FlagPF) }
func (c *CPU) AF() bool { return c.getFlag(FlagAF) }
func (c *CPU) DF() bool { return c.getFlag(FlagDF) }
func (c *CPU) IF() bool { return c.getFlag(FlagIF) }

func (c *CPU) SetZF(v bool) {
	c.setFlag(FlagZF, v)
	c.markFlagsClean(FlagZF)
}

func (c *CPU) SetCF(v bool) {
	c.setFlag(FlagCF, v)
	c.markFlagsClean(FlagCF)
}

// vm86Mode reports whether EFLAGS.VM is set; VM86 is gated off the same
// bit the protected-mode predicates check, per spec.md §3's invariant
// "Protected-mode-only instructions must fail with #UD when PE=0 or VM=1".
func (c *CPU) vm86Mode() bool { return c.getFlag(FlagVM) }

// Condition predicates for CMOVcc/Jcc/SETcc (spec.md §4.8). These belong
// to the "flag-test predicates" family spec.md §1 lists as an external
// collaborator, but are implemented here since nothing else in this
// module provides them.
func (c *CPU) testO() bool  { return c.OF() }
func (c *CPU) testB() bool  { return c.CF() }
func (c *CPU) testZ() bool  { return c.ZF() }
func (c *CPU) testBE() bool { return c.CF() || c.ZF() }
func (c *CPU) testS() bool  { return c.SF() }
func (c *CPU) testP() bool  { return c.PF() }
func (c *CPU) testL() bool  { return c.SF() != c.OF() }
func (c *CPU) testLE() bool { return c.ZF() || c.SF() != c.OF() }

// parity reports whether the low byte of v has an even number of bits
// set (used by ALU primitives that still need to touch PF).
func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}
