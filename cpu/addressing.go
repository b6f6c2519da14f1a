// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Zero Page,X)
	IDY             // (Zero Page),Y
	ACC             // Accumulator (no operand)
	IZP             // (Zero Page), 65c02 only
	IAX             // (Absolute,X), 65c02 JMP only
)

var modeNames = [...]string{
	"IMM", "IMP", "REL", "ZPG", "ZPX", "ZPY", "ABS",
	"ABX", "ABY", "IND", "IDX", "IDY", "ACC", "IZP", "IAX",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "???"
}

// OperandSize returns the number of operand bytes following the opcode.
func (m Mode) OperandSize() int {
	switch m {
	case IMP, ACC:
		return 0
	case ABS, ABX, ABY, IND, IAX:
		return 2
	default:
		return 1
	}
}

// An Operand is the result of resolving an addressing mode.
type Operand struct {
	// Addr is the effective address. For IMM it is the address of the
	// immediate byte; for REL it is the branch target. It is unused by IMP
	// and ACC.
	Addr uint16

	// Base is the address before indexing was applied. The SHA, SHX, SHY
	// and TAS opcodes derive their stored value from its high byte.
	Base uint16

	// Crossed is true when indexing or a branch target crossed a page.
	Crossed bool
}

// Resolve computes the operand of the instruction at PC as if it were about
// to execute in the given mode. It does not change any CPU state.
func (cpu *CPU) Resolve(mode Mode) Operand {
	pc := cpu.Reg.PC
	cpu.Reg.PC++
	op := cpu.resolve(mode)
	cpu.Reg.PC = pc
	return op
}

// resolve reads the operand bytes at PC, advances PC past them and returns
// the effective address.
func (cpu *CPU) resolve(mode Mode) Operand {
	pc := cpu.Reg.PC
	var op Operand

	switch mode {
	case IMP, ACC:
		// no operand

	case IMM:
		op.Addr = pc
		op.Base = pc

	case REL:
		next := pc + 1
		op.Base = next
		op.Addr = next + uint16(int8(cpu.Mem.LoadByte(pc)))
		op.Crossed = (op.Addr & 0xff00) != (next & 0xff00)

	case ZPG:
		op.Addr = uint16(cpu.Mem.LoadByte(pc))
		op.Base = op.Addr

	case ZPX:
		zp := cpu.Mem.LoadByte(pc)
		op.Base = uint16(zp)
		op.Addr = offsetZeroPage(zp, cpu.Reg.X)

	case ZPY:
		zp := cpu.Mem.LoadByte(pc)
		op.Base = uint16(zp)
		op.Addr = offsetZeroPage(zp, cpu.Reg.Y)

	case ABS:
		op.Addr = cpu.Mem.LoadAddress(pc)
		op.Base = op.Addr

	case ABX:
		op.Base = cpu.Mem.LoadAddress(pc)
		op.Addr, op.Crossed = offsetAddress(op.Base, cpu.Reg.X)

	case ABY:
		op.Base = cpu.Mem.LoadAddress(pc)
		op.Addr, op.Crossed = offsetAddress(op.Base, cpu.Reg.Y)

	case IND:
		op.Base = cpu.Mem.LoadAddress(pc)
		op.Addr = cpu.loadIndirect(op.Base)

	case IAX:
		op.Base = cpu.Mem.LoadAddress(pc)
		op.Addr = cpu.Mem.LoadAddress(op.Base + uint16(cpu.Reg.X))

	case IDX:
		zp := cpu.Mem.LoadByte(pc) + cpu.Reg.X
		op.Addr = cpu.loadZeroPageAddress(zp)
		op.Base = op.Addr

	case IDY:
		op.Base = cpu.loadZeroPageAddress(cpu.Mem.LoadByte(pc))
		op.Addr, op.Crossed = offsetAddress(op.Base, cpu.Reg.Y)

	case IZP:
		op.Addr = cpu.loadZeroPageAddress(cpu.Mem.LoadByte(pc))
		op.Base = op.Addr

	default:
		panic("invalid addressing mode")
	}

	cpu.Reg.PC = pc + uint16(mode.OperandSize())
	return op
}

// loadZeroPageAddress reads a pointer from the zero page. The high byte of a
// pointer at $FF is read from $00.
func (cpu *CPU) loadZeroPageAddress(zp byte) uint16 {
	lo := cpu.Mem.LoadByte(uint16(zp))
	hi := cpu.Mem.LoadByte(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}

// loadIndirect reads the target of a JMP (ind). The NMOS 6502 does not carry
// into the pointer's high byte, so a pointer at $xxFF reads its high byte
// from $xx00.
func (cpu *CPU) loadIndirect(ptr uint16) uint16 {
	if cpu.Arch == NMOS && ptr&0x00ff == 0x00ff {
		lo := cpu.Mem.LoadByte(ptr)
		hi := cpu.Mem.LoadByte(ptr & 0xff00)
		return uint16(lo) | uint16(hi)<<8
	}
	return cpu.Mem.LoadAddress(ptr)
}
