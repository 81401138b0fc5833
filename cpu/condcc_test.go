package cpu

import "testing"

func TestCMOVZTaken(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0x12345678 // source (r/m field)
	c.Reg32[ECX] = 0          // destination (reg field)
	c.setFlag(FlagZF, true)

	// CMOVZ ecx, eax -> ModR/M 0xC8 (mod=11, reg=001(ecx/g), rm=000(eax/e))
	op := c.setCode(bus, 0, 0x44, 0xC8)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg32[ECX] != 0x12345678 {
		t.Fatalf("CMOVZ did not move on ZF=1: got %#x", c.Reg32[ECX])
	}
}

func TestCMOVZNotTaken(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0x12345678
	c.Reg32[ECX] = 0xAAAAAAAA
	c.setFlag(FlagZF, false)

	op := c.setCode(bus, 0, 0x44, 0xC8)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg32[ECX] != 0xAAAAAAAA {
		t.Fatalf("CMOVZ moved on ZF=0: got %#x", c.Reg32[ECX])
	}
}

func TestSETcc(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(FlagCF, true)
	// SETB al -> ModR/M 0xC0 (mod=11, reg=000(unused), rm=000(al))
	op := c.setCode(bus, 0, 0x92, 0xC0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg8(EAX) != 1 {
		t.Fatalf("SETB with CF=1: got %d", c.Reg8(EAX))
	}
}

func TestJccTaken(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(FlagZF, true)
	op := c.setCode(bus, 0, 0x84, 0x10, 0x00, 0x00, 0x00)
	start := c.EIP
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.EIP != start+4+0x10 {
		t.Fatalf("JZ did not branch correctly: EIP=%#x", c.EIP)
	}
}
