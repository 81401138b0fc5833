package cpu

import "testing"

func TestMOVCRRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 0
	c.Reg32[EAX] = CR0_PE

	// MOV CR0, eax -> ModR/M 0xC0 (mod=11, reg=000(cr0), rm=000(eax))
	op := c.setCode(bus, 0, 0x22, 0xC0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.CR[0] != CR0_PE {
		t.Fatalf("CR0 not set: %#x", c.CR[0])
	}

	c.Reg32[ECX] = 0
	// MOV ecx, CR0 -> ModR/M 0xC1 (mod=11, reg=000(cr0), rm=001(ecx))
	op = c.setCode(bus, c.EIP, 0x20, 0xC1)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg32[ECX] != CR0_PE {
		t.Fatalf("CR0 readback mismatch: %#x", c.Reg32[ECX])
	}
}

func TestMOVCRUnprivilegedFaults(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 3
	op := c.setCode(bus, 0, 0x22, 0xC0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultGP {
		t.Fatalf("expected #GP at CPL3, got %v", f)
	}
}

func TestGrp7SMSWUnprivileged(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 3
	c.CR[0] = CR0_PE | CR0_EM
	// SMSW eax -> ModR/M 0xE0 (mod=11, reg=100(/4), rm=000(eax))
	op := c.setCode(bus, 0, 0x01, 0xE0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("SMSW must be unprivileged: %v", f)
	}
	if c.Reg32[EAX] != uint32(uint16(CR0_PE|CR0_EM)) {
		t.Fatalf("SMSW mismatch: %#x", c.Reg32[EAX])
	}
}

func TestMOVCR0EntersProtectedMode(t *testing.T) {
	c, bus := newTestCPU()
	c.ProtectedMode = false
	c.CPL = 0
	c.Reg32[EAX] = CR0_PE

	op := c.setCode(bus, 0, 0x22, 0xC0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if !c.ProtectedMode {
		t.Fatalf("MOV CR0,eax with PE set must enter protected mode")
	}
}

func TestMOVCR4ReservedBitsFault(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 0
	c.Reg32[EAX] = 1 << 12 // reserved CR4 bit

	// MOV CR4, eax -> ModR/M 0xE0 (mod=11, reg=100(cr4), rm=000(eax))
	op := c.setCode(bus, 0, 0x22, 0xE0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultGP {
		t.Fatalf("expected #GP for a reserved CR4 bit, got %v", f)
	}
	if c.CR[4] != 0 {
		t.Fatalf("CR4 must be unchanged on a reserved-bit fault, got %#x", c.CR[4])
	}
}

func TestMOVCR4PGETransitionInvalidatesTLB(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 0
	c.Reg32[EAX] = CR4_PGE

	op := c.setCode(bus, 0, 0x22, 0xE0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	setGen := c.tlb.generation
	if setGen == 0 {
		t.Fatalf("expected clear_tlb() when PGE becomes set")
	}

	c.Reg32[EAX] = 0
	op = c.setCode(bus, c.EIP, 0x22, 0xE0)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.tlb.generation <= setGen {
		t.Fatalf("expected full_clear_tlb() when PGE becomes clear")
	}
}

func TestMOVCR4PAEIsFatal(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 0
	c.Reg32[EAX] = CR4_PAE
	op := c.setCode(bus, 0, 0x22, 0xE0)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a fatal assertion panic for CR4.PAE")
		}
	}()
	c.Execute0F(op, true)
}

func TestGrp6RequiresProtectedMode(t *testing.T) {
	c, bus := newTestCPU()
	c.ProtectedMode = false

	// SLDT eax -> ModR/M 0xC0 (mod=11, reg=000(/0), rm=000(eax))
	op := c.setCode(bus, 0, 0x00, 0xC0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD with PE=0, got %v", f)
	}
}

func TestGrp6RequiresNotVM86(t *testing.T) {
	c, bus := newTestCPU()
	c.Flags |= FlagVM

	op := c.setCode(bus, 0, 0x00, 0xC0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD under VM86, got %v", f)
	}
}

func TestLARRequiresProtectedMode(t *testing.T) {
	c, bus := newTestCPU()
	c.ProtectedMode = false

	op := c.setCode(bus, 0, 0x02, 0xC0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD with PE=0, got %v", f)
	}
}

func TestLSLRequiresProtectedMode(t *testing.T) {
	c, bus := newTestCPU()
	c.ProtectedMode = false

	op := c.setCode(bus, 0, 0x03, 0xC0)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD with PE=0, got %v", f)
	}
}

func TestINVDPrivileged(t *testing.T) {
	c, bus := newTestCPU()
	c.CPL = 3
	op := c.setCode(bus, 0, 0x08)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultGP {
		t.Fatalf("expected #GP at CPL3, got %v", f)
	}
}
