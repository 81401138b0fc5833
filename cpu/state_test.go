package cpu

import "testing"

func TestReg8Aliasing(t *testing.T) {
	c, _ := newTestCPU()
	c.Reg32[EAX] = 0x12345678
	if c.Reg8(0) != 0x78 {
		t.Fatalf("al: got %#x", c.Reg8(0))
	}
	if c.Reg8(4) != 0x56 {
		t.Fatalf("ah: got %#x", c.Reg8(4))
	}
	c.SetReg8(4, 0xFF)
	if c.Reg32[EAX] != 0x1234FF78 {
		t.Fatalf("SetReg8(ah) corrupted other bytes: %#x", c.Reg32[EAX])
	}
}

func TestExecute0FUnreachableSlotPanics(t *testing.T) {
	c, _ := newTestCPU()
	c.dispatch32[0x05] = nil // simulate a hole the populate pass should never leave

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a nil dispatch slot")
		}
	}()
	c.Execute0F(0x05, true)
}

func TestExecute0FRecoversFault(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 3
	op := c.setCode(bus, 0, 0x06) // CLTS, privileged
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultGP {
		t.Fatalf("expected #GP recovered as a normal return value, got %v", f)
	}
}

func TestUD2Faults(t *testing.T) {
	c, bus := newTestCPU()
	op := c.setCode(bus, 0, 0x0B)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD, got %v", f)
	}
}
