package cpu_test

import (
	"testing"

	"github.com/terrysimons/mos6502-sub003/cpu"
)

func TestUndocumented(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		setup  func(c *cpu.CPU)
		check  func(t *testing.T, c *cpu.CPU)
		cycles uint64
	}{
		{
			name:  "LAX zp",
			code:  []byte{0xa7, 0x10},
			setup: func(c *cpu.CPU) { c.Mem.StoreByte(0x10, 0x5a) },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x5a)
				if c.Reg.X != 0x5a {
					t.Errorf("X incorrect: $%02X", c.Reg.X)
				}
			},
			cycles: 3,
		},
		{
			name:  "SAX zp",
			code:  []byte{0x87, 0x20},
			setup: func(c *cpu.CPU) { c.Reg.A, c.Reg.X = 0xf0, 0x3c },
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x30)
			},
			cycles: 3,
		},
		{
			name: "SLO abs",
			code: []byte{0x0f, 0x00, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x2000, 0x81)
				c.Reg.A = 0x01
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x2000, 0x02)
				expectACC(t, c, 0x03)
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 6,
		},
		{
			name: "RLA zp",
			code: []byte{0x27, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x20, 0x80)
				c.Reg.A = 0xff
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x00)
				expectACC(t, c, 0x00)
				expectFlag(t, c, cpu.Carry, true)
				expectFlag(t, c, cpu.Zero, true)
			},
			cycles: 5,
		},
		{
			name: "SRE zp",
			code: []byte{0x47, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x20, 0x03)
				c.Reg.A = 0x01
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x01)
				expectACC(t, c, 0x00)
				expectFlag(t, c, cpu.Carry, true)
				expectFlag(t, c, cpu.Zero, true)
			},
			cycles: 5,
		},
		{
			name: "RRA zp",
			code: []byte{0x67, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x20, 0x02)
				c.Reg.A = 0x10
				c.SetFlag(cpu.Carry, true)
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x81)
				expectACC(t, c, 0x91)
				expectFlag(t, c, cpu.Carry, false)
			},
			cycles: 5,
		},
		{
			name: "DCP zp",
			code: []byte{0xc7, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x20, 0x11)
				c.Reg.A = 0x10
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x10)
				expectFlag(t, c, cpu.Zero, true)
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 5,
		},
		{
			name: "ISC zp",
			code: []byte{0xe7, 0x20},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreByte(0x20, 0x0f)
				c.Reg.A = 0x20
				c.SetFlag(cpu.Carry, true)
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20, 0x10)
				expectACC(t, c, 0x10)
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 5,
		},
		{
			name:  "ANE",
			code:  []byte{0x8b, 0x0f},
			setup: func(c *cpu.CPU) { c.Reg.A, c.Reg.X = 0x00, 0xff },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x0e)
			},
			cycles: 2,
		},
		{
			name:  "LXA",
			code:  []byte{0xab, 0x5a},
			setup: func(c *cpu.CPU) { c.Reg.A = 0x00 },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x4a)
				if c.Reg.X != 0x4a {
					t.Errorf("X incorrect: $%02X", c.Reg.X)
				}
			},
			cycles: 2,
		},
		{
			name:  "ANC",
			code:  []byte{0x0b, 0x80},
			setup: func(c *cpu.CPU) { c.Reg.A = 0xff },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x80)
				expectFlag(t, c, cpu.Negative, true)
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 2,
		},
		{
			name:  "ALR",
			code:  []byte{0x4b, 0x03},
			setup: func(c *cpu.CPU) { c.Reg.A = 0xff },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x01)
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 2,
		},
		{
			name: "ARR",
			code: []byte{0x6b, 0xc0},
			setup: func(c *cpu.CPU) {
				c.Reg.A = 0xff
				c.SetFlag(cpu.Carry, true)
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0xe0)
				expectFlag(t, c, cpu.Carry, true)
				expectFlag(t, c, cpu.Overflow, false)
			},
			cycles: 2,
		},
		{
			name:  "SBX",
			code:  []byte{0xcb, 0x10},
			setup: func(c *cpu.CPU) { c.Reg.A, c.Reg.X = 0xf0, 0x3c },
			check: func(t *testing.T, c *cpu.CPU) {
				if c.Reg.X != 0x20 {
					t.Errorf("X incorrect: $%02X", c.Reg.X)
				}
				expectFlag(t, c, cpu.Carry, true)
			},
			cycles: 2,
		},
		{
			name: "USBC",
			code: []byte{0xeb, 0x01},
			setup: func(c *cpu.CPU) {
				c.Reg.A = 0x05
				c.SetFlag(cpu.Carry, true)
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0x04)
			},
			cycles: 2,
		},
		{
			name:  "SHX no page cross",
			code:  []byte{0x9e, 0xf0, 0x20},
			setup: func(c *cpu.CPU) { c.Reg.X, c.Reg.Y = 0x0f, 0x01 },
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x20f1, 0x01)
			},
			cycles: 5,
		},
		{
			name:  "SHX page cross",
			code:  []byte{0x9e, 0xf0, 0x20},
			setup: func(c *cpu.CPU) { c.Reg.X, c.Reg.Y = 0x0f, 0x20 },
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x0110, 0x01)
				expectMem(t, c, 0x2110, 0x00)
			},
			cycles: 5,
		},
		{
			name:  "SHY",
			code:  []byte{0x9c, 0x00, 0x30},
			setup: func(c *cpu.CPU) { c.Reg.X, c.Reg.Y = 0x05, 0xff },
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x3005, 0x31)
			},
			cycles: 5,
		},
		{
			name: "SHA (zp),Y",
			code: []byte{0x93, 0x40},
			setup: func(c *cpu.CPU) {
				c.Mem.StoreAddress(0x40, 0x20f0)
				c.Reg.A, c.Reg.X, c.Reg.Y = 0xff, 0x0f, 0x20
			},
			check: func(t *testing.T, c *cpu.CPU) {
				expectMem(t, c, 0x0110, 0x01)
			},
			cycles: 6,
		},
		{
			name:  "TAS",
			code:  []byte{0x9b, 0x00, 0x30},
			setup: func(c *cpu.CPU) { c.Reg.A, c.Reg.X, c.Reg.Y = 0xff, 0x0f, 0x00 },
			check: func(t *testing.T, c *cpu.CPU) {
				expectSP(t, c, 0x0f)
				expectMem(t, c, 0x3000, 0x01)
			},
			cycles: 5,
		},
		{
			name:  "LAS",
			code:  []byte{0xbb, 0x00, 0x30},
			setup: func(c *cpu.CPU) { c.Mem.StoreByte(0x3000, 0xf3) },
			check: func(t *testing.T, c *cpu.CPU) {
				expectACC(t, c, 0xf1)
				expectSP(t, c, 0xf1)
				expectFlag(t, c, cpu.Negative, true)
			},
			cycles: 4,
		},
		{
			name:  "NOP abs,X",
			code:  []byte{0x1c, 0xf0, 0x20},
			setup: func(c *cpu.CPU) { c.Reg.X = 0x20 },
			check: func(t *testing.T, c *cpu.CPU) {
				expectPC(t, c, 0x1003)
			},
			cycles: 5,
		},
		{
			name: "NOP zp",
			code: []byte{0x04, 0x20},
			check: func(t *testing.T, c *cpu.CPU) {
				expectPC(t, c, 0x1002)
			},
			cycles: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, cpu.NMOS6502, 0x1000, tt.code...)
			if tt.setup != nil {
				tt.setup(c)
			}
			o := c.Step()
			if o.Reason != cpu.NoStop {
				t.Fatalf("unexpected outcome: %s", o)
			}
			if o.Cycles != tt.cycles {
				t.Errorf("cycles incorrect. exp: %d, got: %d", tt.cycles, o.Cycles)
			}
			tt.check(t, c)
		})
	}
}

func TestMagicConstants(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(0x1000, []byte{
		0x8b, 0x0f, // ANE #$0F
		0xab, 0xf0, // LXA #$F0
	})
	mem.StoreAddress(0xfffc, 0x1000)

	cfg := cpu.DefaultConfig(cpu.NMOS6502)
	cfg.ANEMagic = 0xff
	cfg.LXAMagic = 0x00
	c := cpu.NewCPUWithConfig(cfg, mem)
	c.Reset()

	c.Reg.X = 0xff
	c.Step()
	expectACC(t, c, 0x0f)

	c.Reg.A = 0x3c
	c.Step()
	expectACC(t, c, 0x30)
	if c.Reg.X != 0x30 {
		t.Errorf("X incorrect: $%02X", c.Reg.X)
	}
}
