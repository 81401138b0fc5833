package cpu

import "testing"

func TestBTRegisterMasksToWidth(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 1 << 3
	c.Reg32[ECX] = 3 + 32 // bit index 35, masked to 3 for a 32-bit register

	// BT eax, ecx -> ModR/M 0xC8 (mod=11, reg=001(ecx/g), rm=000(eax/e))
	op := c.setCode(bus, 0, 0xA3, 0xC8)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if !c.CF() {
		t.Fatalf("expected CF=1 for bit 3 set (index 35 mod 32)")
	}
}

func TestBTMemoryDoesNotMaskBitIndex(t *testing.T) {
	c, bus := newTestCPU()
	// byte at 0x1004 holds bit 3 of the dword range starting at 0x1000
	// when the bit index is 8*4+3=35 (one dword past the base byte).
	bus.Write(0x1004, 1<<3)
	c.Reg32[EBX] = 0x1000
	c.Reg32[ECX] = 35

	// BT [ebx], ecx -> ModR/M 0x0B (mod=00, reg=001, rm=011(ebx))
	op := c.setCode(bus, 0, 0xA3, 0x0B)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if !c.CF() {
		t.Fatalf("expected CF=1: memory BT must not mask the bit index to 31")
	}
}

func TestBSFZeroSourceSetsZF(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0
	c.Reg32[ECX] = 0xFFFFFFFF // destination pre-set, must be left untouched

	// BSF ecx, eax -> ModR/M 0xC8 (mod=11, reg=001(ecx/g), rm=000(eax/e))
	op := c.setCode(bus, 0, 0xBC, 0xC8)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if !c.ZF() {
		t.Fatalf("expected ZF=1 for a zero source")
	}
	if c.Reg32[ECX] != 0xFFFFFFFF {
		t.Fatalf("BSF must leave destination untouched on a zero source, got %#x", c.Reg32[ECX])
	}
}

func TestBSRFindsHighestSetBit(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0b1001
	c.Reg32[ECX] = 0

	op := c.setCode(bus, 0, 0xBD, 0xC8)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.ZF() {
		t.Fatalf("expected ZF=0 for a nonzero source")
	}
	if c.Reg32[ECX] != 3 {
		t.Fatalf("expected highest set bit index 3, got %d", c.Reg32[ECX])
	}
}
