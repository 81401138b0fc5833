// cpu_test.go - shared test fixtures
//
// testBus is a flat byte-slice Bus, mirroring the teacher's TestX86Bus
// fixture (cpu_x86_test.go) used across the one-byte-opcode test suite.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

type testBus struct {
	mem [1 << 20]byte
}

func (b *testBus) Read(addr uint32) byte        { return b.mem[addr&0xFFFFF] }
func (b *testBus) Write(addr uint32, v byte)    { b.mem[addr&0xFFFFF] = v }

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	c := NewCPU(bus)
	c.ProtectedMode = true
	c.AddressSize32 = true
	c.Seg[DS] = SegmentRegister{Limit: 0xFFFFFFFF}
	c.Seg[SS] = SegmentRegister{Limit: 0xFFFFFFFF}
	c.Seg[CS] = SegmentRegister{Limit: 0xFFFFFFFF}
	return c, bus
}

// setCode writes opcode bytes (everything after the escaped 0x0F) at EIP
// and returns the opcode byte to pass to Execute0F.
func (c *CPU) setCode(bus *testBus, at uint32, bytes ...byte) byte {
	c.EIP = at + 1
	bus.mem[at] = bytes[0]
	for i, b := range bytes[1:] {
		bus.mem[at+1+uint32(i)] = b
	}
	return bytes[0]
}
