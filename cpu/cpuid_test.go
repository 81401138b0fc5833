package cpu

import "testing"

func TestCPUIDLeafZeroVendorString(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 0
	op := c.setCode(bus, 0, 0xA2)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg32[EAX] != 1 {
		t.Fatalf("expected max leaf 1, got %d", c.Reg32[EAX])
	}
}

func TestCPUIDLeafOneFeatureBits(t *testing.T) {
	c, bus := newTestCPU()
	c.Reg32[EAX] = 1
	op := c.setCode(bus, 0, 0xA2)
	if f := c.Execute0F(op, true); f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if c.Reg32[EDX]&cpuidFeatCMOV == 0 {
		t.Fatalf("expected the CMOV feature bit set")
	}
	if c.Reg32[EDX]&cpuidFeatMSR == 0 {
		t.Fatalf("expected the MSR feature bit set")
	}
}
