// alu.go - arithmetic/bit-manipulation primitives shared by the 0F handlers
//
// spec.md §1 places the core ALU (add/sub/flag synthesis) out of scope
// as an external collaborator the 0F layer calls into. This file provides
// the specific primitives the 0F opcode set needs that a one-byte-opcode
// ALU wouldn't already have: the comparisons behind CMOVcc source
// selection, XADD's exchange-then-add, double-precision shifts, bit
// scan/count, byte-swap, and the three addressing-mode-sensitive bit-test
// flavours (BT/BTS/BTR/BTC) spec.md §4.3 calls out as the one place
// register and memory operands diverge in semantics. Grounded in the
// teacher's flag-synthesis shape (cpu_x86_ops.go's add8/sub8 family) and
// resolved against original_source/instructions_0f.c where the prose
// spec left the exact masking rule ambiguous.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

func (c *CPU) setPZS(v uint32, width int) {
	var sign uint32
	switch width {
	case 8:
		sign = 0x80
	case 16:
		sign = 0x8000
	default:
		sign = 0x80000000
	}
	c.setFlag(FlagZF, v == 0)
	c.setFlag(FlagSF, v&sign != 0)
	c.setFlag(FlagPF, parity(byte(v)))
	c.FlagsChanged &^= FlagZF | FlagSF | FlagPF
}

// cmp8/16/32 perform a non-destructive subtract, updating CF/OF/ZF/SF/PF
// (AF is left unchanged) the way the 0F compare-and-branch style instructions need (CMPXCHG's
// compare phase, VERR/VERW-adjacent bookkeeping).
func (c *CPU) cmp32(a, b uint32) {
	r := a - b
	c.setFlag(FlagCF, a < b)
	c.setFlag(FlagOF, (a^b)&(a^r)&0x80000000 != 0)
	c.setPZS(r, 32)
}

func (c *CPU) cmp16(a, b uint16) {
	r := a - b
	c.setFlag(FlagCF, a < b)
	c.setFlag(FlagOF, (a^b)&(a^r)&0x8000 != 0)
	c.setPZS(uint32(r), 16)
}

func (c *CPU) cmp8(a, b byte) {
	r := a - b
	c.setFlag(FlagCF, a < b)
	c.setFlag(FlagOF, (a^b)&(a^r)&0x80 != 0)
	c.setPZS(uint32(r), 8)
}

// xadd8/16/32 exchange the e and g operands then store their sum into e,
// returning the pre-exchange e value for the caller to place in g.
func (c *CPU) xadd32(e, g uint32) (newE, oldE uint32) {
	sum := e + g
	c.setFlag(FlagCF, sum < e)
	c.setFlag(FlagOF, (e^g)&0x80000000 == 0 && (e^sum)&0x80000000 != 0)
	c.setPZS(sum, 32)
	return sum, e
}

func (c *CPU) xadd16(e, g uint16) (newE, oldE uint16) {
	sum := e + g
	c.setFlag(FlagCF, sum < e)
	c.setFlag(FlagOF, (e^g)&0x8000 == 0 && (e^sum)&0x8000 != 0)
	c.setPZS(uint32(sum), 16)
	return sum, e
}

func (c *CPU) xadd8(e, g byte) (newE, oldE byte) {
	sum := e + g
	c.setFlag(FlagCF, sum < e)
	c.setFlag(FlagOF, (e^g)&0x80 == 0 && (e^sum)&0x80 != 0)
	c.setPZS(uint32(sum), 8)
	return sum, e
}

// shld16/32, shrd16/32 implement the double-precision shifts: the count
// is always masked to 0-31 regardless of operand width, per spec.md §4.4's
// invariant ("a CL/imm8 count above the operand width is taken mod 32, not
// mod the operand width, even for the 16-bit forms") and confirmed against
// original_source/instructions_0f.c's instr_0FA4/0FAC (`count &= 0x1F`).
func (c *CPU) shld32(dst, fill uint32, count byte) uint32 {
	count &= 0x1F
	if count == 0 {
		return dst
	}
	result := dst<<count | fill>>(32-count)
	c.setFlag(FlagCF, dst&(1<<(32-count)) != 0)
	c.setFlag(FlagOF, count == 1 && (dst^result)&0x80000000 != 0)
	c.setPZS(result, 32)
	return result
}

func (c *CPU) shld16(dst, fill uint16, count byte) uint16 {
	count &= 0x1F
	if count == 0 || count > 16 {
		return dst
	}
	result := dst<<count | fill>>(16-count)
	c.setFlag(FlagCF, dst&(1<<(16-count)) != 0)
	c.setFlag(FlagOF, count == 1 && (dst^result)&0x8000 != 0)
	c.setPZS(uint32(result), 16)
	return result
}

func (c *CPU) shrd32(dst, fill uint32, count byte) uint32 {
	count &= 0x1F
	if count == 0 {
		return dst
	}
	result := dst>>count | fill<<(32-count)
	c.setFlag(FlagCF, dst&(1<<(count-1)) != 0)
	c.setFlag(FlagOF, count == 1 && (dst^result)&0x80000000 != 0)
	c.setPZS(result, 32)
	return result
}

func (c *CPU) shrd16(dst, fill uint16, count byte) uint16 {
	count &= 0x1F
	if count == 0 || count > 16 {
		return dst
	}
	result := dst>>count | fill<<(16-count)
	c.setFlag(FlagCF, dst&(1<<(count-1)) != 0)
	c.setFlag(FlagOF, count == 1 && (dst^result)&0x8000 != 0)
	c.setPZS(uint32(result), 16)
	return result
}

// bsf16/32, bsr16/32 implement bit-scan forward/reverse. A zero source
// leaves the destination undefined (spec.md §4.3's documented edge case);
// this implementation leaves dst untouched, matching the common hardware
// behaviour original_source/instructions_0f.c relies on (it never writes
// the destination in that branch either).
func (c *CPU) bsf32(src uint32) (result uint32, zero bool) {
	if src == 0 {
		return 0, true
	}
	for i := 0; i < 32; i++ {
		if src&(1<<uint(i)) != 0 {
			return uint32(i), false
		}
	}
	return 0, true
}

func (c *CPU) bsf16(src uint16) (result uint16, zero bool) {
	if src == 0 {
		return 0, true
	}
	for i := 0; i < 16; i++ {
		if src&(1<<uint(i)) != 0 {
			return uint16(i), false
		}
	}
	return 0, true
}

func (c *CPU) bsr32(src uint32) (result uint32, zero bool) {
	if src == 0 {
		return 0, true
	}
	for i := 31; i >= 0; i-- {
		if src&(1<<uint(i)) != 0 {
			return uint32(i), false
		}
	}
	return 0, true
}

func (c *CPU) bsr16(src uint16) (result uint16, zero bool) {
	if src == 0 {
		return 0, true
	}
	for i := 15; i >= 0; i-- {
		if src&(1<<uint(i)) != 0 {
			return uint16(i), false
		}
	}
	return 0, true
}

func popcount32(v uint32) uint32 {
	var n uint32
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

func popcount16(v uint16) uint16 {
	var n uint16
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

func bswap32(v uint32) uint32 {
	return v>>24 | v&0xFF0000>>8 | v&0xFF00<<8 | v<<24
}

// Bit-test family (spec.md §4.3): the register form masks the bit index
// to the operand width (15 or 31); the memory form treats the index as an
// unmasked signed byte/word displacement into further bytes of memory,
// never wrapping within a single word. Confirmed against
// original_source/instructions_0f.c's instr_0FA3/0FAB/0FB3/0FBB, which
// index `mem + (bit_base >> 3)` for the memory form and `reg & 31` (or 15)
// for the register form.

func btBitReg32(v uint32, bit byte) bool  { return v&(1<<(bit&31)) != 0 }
func btBitReg16(v uint16, bit byte) bool  { return v&(1<<(bit&15)) != 0 }

// btMemAddr computes the byte address and in-byte bit offset for a
// memory-form bit test at displacement bit (possibly negative, possibly
// wider than a byte) from base.
func btMemAddr(base uint32, bit int32) (addr uint32, bitInByte byte) {
	byteOff := bit >> 3
	bitInByte = byte(bit & 7)
	return uint32(int64(base) + int64(byteOff)), bitInByte
}
