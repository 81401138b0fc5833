package cpu

import "testing"

func TestPSHUFDReverse(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = Prefix66
	c.XMM[1].SetU32x4(0x11111111, 0x22222222, 0x33333333, 0x44444444)

	// PSHUFD xmm0, xmm1, imm8 -> ModR/M 0xC1 (mod=11, reg=000(xmm0), rm=001(xmm1))
	// order byte 0x1B = 00 01 10 11 reverses the four dwords.
	op := c.setCode(bus, 0, 0x70, 0xC1, 0x1B)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	got := c.XMM[0]
	if got.U32(0) != 0x44444444 || got.U32(1) != 0x33333333 ||
		got.U32(2) != 0x22222222 || got.U32(3) != 0x11111111 {
		t.Fatalf("PSHUFD reverse mismatch: %#x %#x %#x %#x",
			got.U32(0), got.U32(1), got.U32(2), got.U32(3))
	}
}

func TestPSHUFDRequiresPrefix66(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = 0
	op := c.setCode(bus, 0, 0x70, 0xC1, 0x1B)

	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD without 0x66 prefix, got %v", f)
	}
}

func TestPXORRequiresFPUPresent(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = Prefix66
	c.CR[0] |= CR0_EM

	op := c.setCode(bus, 0, 0xEF, 0xD2)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD with CR0.EM set, got %v", f)
	}
}

func TestPXORRequiresNoTaskSwitchPending(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = Prefix66
	c.CR[0] |= CR0_TS

	op := c.setCode(bus, 0, 0xEF, 0xD2)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultNM {
		t.Fatalf("expected #NM with CR0.TS set, got %v", f)
	}
}

func TestEMMSRejectsCR0EM(t *testing.T) {
	c, bus := newTestCPU()
	c.CR[0] |= CR0_EM
	op := c.setCode(bus, 0, 0x77)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD with CR0.EM set, got %v", f)
	}
}

func TestEMMSRejectsRepOpsizePrefix(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = Prefix66
	op := c.setCode(bus, 0, 0x77)
	f := c.Execute0F(op, true)
	if f == nil || f.Kind != FaultUD {
		t.Fatalf("expected #UD for EMMS with a mandatory prefix, got %v", f)
	}
}

func TestPXORSelf(t *testing.T) {
	c, bus := newTestCPU()
	c.Prefixes = Prefix66
	c.XMM[2].SetU32x4(0xDEADBEEF, 0xCAFEBABE, 1, 2)

	// PXOR xmm2, xmm2 -> ModR/M 0xD2 (mod=11, reg=010, rm=010)
	op := c.setCode(bus, 0, 0xEF, 0xD2)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	for i := 0; i < 4; i++ {
		if c.XMM[2].U32(i) != 0 {
			t.Fatalf("PXOR xmm,xmm should zero the register, got %#x at lane %d", c.XMM[2].U32(i), i)
		}
	}
}
