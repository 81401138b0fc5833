// farptr.go - PUSH/POP FS,GS (0FA0/0FA1/0FA8/0FA9) and LSS/LFS/LGS
// (0FB2/0FB4/0FB5)
//
// FS/GS have no one-byte push/pop encoding (unlike the legacy segment
// registers), so the 0F map carries them; grounded in
// original_source/instructions_0f.c's instr_0FA0/0FA1/0FA8/0FA9/0FB2/
// 0FB4/0FB5, using the same stack-width rule (ESP vs SP, per
// StackSize32) the one-byte PUSH/POP opcodes this core's caller already
// implements.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
package cpu

func (c *CPU) pushWidth() uint32 {
	if c.IsOsize32() {
		return 4
	}
	return 2
}

func (c *CPU) push(v uint32) {
	n := c.pushWidth()
	sp := c.Reg32[ESP] - n
	addr := c.Seg[SS].Base + sp
	if n == 4 {
		c.safeWrite32(addr, v)
	} else {
		c.safeWrite16(addr, uint16(v))
	}
	if c.StackSize32 {
		c.Reg32[ESP] = sp
	} else {
		c.SetReg16(ESP, uint16(sp))
	}
}

func (c *CPU) pop() uint32 {
	n := c.pushWidth()
	sp := c.Reg32[ESP]
	addr := c.Seg[SS].Base + sp
	var v uint32
	if n == 4 {
		v = c.safeRead32(addr)
	} else {
		v = uint32(c.safeRead16(addr))
	}
	if c.StackSize32 {
		c.Reg32[ESP] = sp + n
	} else {
		c.SetReg16(ESP, uint16(sp+n))
	}
	return v
}

func opPushFS(c *CPU) { c.push(uint32(c.Seg[FS].Selector)) }
func opPopFS(c *CPU)  { c.switchSeg(FS, uint16(c.pop())) }
func opPushGS(c *CPU) { c.push(uint32(c.Seg[GS].Selector)) }
func opPopGS(c *CPU)  { c.switchSeg(GS, uint16(c.pop())) }

// opLSSGen builds an LSS/LFS/LGS handler for the named segment; the
// register-form encoding is invalid (there's no register to read a
// selector:offset pair from), matching real hardware's #UD there.
func opLSSGen(seg int) opHandler {
	return func(c *CPU) {
		if c.isRegisterForm() {
			c.triggerUD()
		}
		reg := c.modrmReg()
		addr := c.ModrmResolve()
		if c.IsOsize32() {
			c.lss32(seg, reg, addr)
		} else {
			c.lss16(seg, reg, addr)
		}
	}
}
