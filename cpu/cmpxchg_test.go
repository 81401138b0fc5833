package cpu

import "testing"

func TestCMPXCHG8BMatch(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0x1111
	c.Reg32[EDX] = 0x2222
	c.Reg32[EBX] = 0x3333
	c.Reg32[ECX] = 0x4444
	c.safeWrite64(0x2000, 0x1111, 0x2222)

	// Address the operand through EBP rather than EAX, so the comparand in
	// EAX is not also the base register.
	c.Reg32[EBP] = 0x2000
	// mod=01 reg=001 rm=101 (ebp) + disp8
	op := c.setCode(bus, 0, 0xC7, 0x4D, 0x00)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if !c.ZF() {
		t.Fatalf("expected ZF set on match")
	}
	lo, hi := c.safeRead64(0x2000)
	if lo != 0x3333 || hi != 0x4444 {
		t.Fatalf("memory not updated on match: lo=%#x hi=%#x", lo, hi)
	}
}

func TestCMPXCHG8BMismatch(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0x1111
	c.Reg32[EDX] = 0x2222
	c.Reg32[EBX] = 0x3333
	c.Reg32[ECX] = 0x4444
	c.safeWrite64(0x2000, 0x9999, 0x8888)
	c.Reg32[EBP] = 0x2000

	op := c.setCode(bus, 0, 0xC7, 0x4D, 0x00)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.ZF() {
		t.Fatalf("expected ZF clear on mismatch")
	}
	if c.Reg32[EAX] != 0x9999 || c.Reg32[EDX] != 0x8888 {
		t.Fatalf("EDX:EAX not reloaded on mismatch: eax=%#x edx=%#x", c.Reg32[EAX], c.Reg32[EDX])
	}
}
