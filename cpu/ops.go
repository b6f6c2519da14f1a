// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Add with carry
func (cpu *CPU) adc(inst *Instruction, op Operand) {
	if cpu.Arch == CMOS && cpu.Reg.PS.Has(Decimal) {
		cpu.deltaCycles++
	}
	cpu.Reg.A, cpu.Reg.PS = adc(cpu.Arch, cpu.Reg.A, cpu.load(inst, op), cpu.Reg.PS)
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction, op Operand) {
	cpu.Reg.A &= cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = asl(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, op Operand) {
	if !cpu.Reg.PS.Has(Carry) {
		cpu.branch(op)
	}
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, op Operand) {
	if cpu.Reg.PS.Has(Carry) {
		cpu.branch(op)
	}
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, op Operand) {
	if cpu.Reg.PS.Has(Zero) {
		cpu.branch(op)
	}
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction, op Operand) {
	cpu.Reg.PS = bit(cpu.Reg.A, cpu.load(inst, op), cpu.Reg.PS, inst.Mode == IMM)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, op Operand) {
	if cpu.Reg.PS.Has(Negative) {
		cpu.branch(op)
	}
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, op Operand) {
	if !cpu.Reg.PS.Has(Zero) {
		cpu.branch(op)
	}
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, op Operand) {
	if !cpu.Reg.PS.Has(Negative) {
		cpu.branch(op)
	}
}

// Branch always (65c02 only)
func (cpu *CPU) bra(inst *Instruction, op Operand) {
	cpu.branch(op)
}

// Break. The byte after the opcode is skipped, so the return address is
// the opcode address plus two.
func (cpu *CPU) brk(inst *Instruction, op Operand) {
	cpu.Reg.PC++
	cpu.handleInterrupt(true, vectorBRK)
	cpu.brkSignaled = true
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, op Operand) {
	if !cpu.Reg.PS.Has(Overflow) {
		cpu.branch(op)
	}
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, op Operand) {
	if cpu.Reg.PS.Has(Overflow) {
		cpu.branch(op)
	}
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(Carry, false)
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(Decimal, false)
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(InterruptDisable, false)
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(Overflow, false)
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction, op Operand) {
	cpu.Reg.PS = compare(cpu.Reg.A, cpu.load(inst, op), cpu.Reg.PS)
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction, op Operand) {
	cpu.Reg.PS = compare(cpu.Reg.X, cpu.load(inst, op), cpu.Reg.PS)
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction, op Operand) {
	cpu.Reg.PS = compare(cpu.Reg.Y, cpu.load(inst, op), cpu.Reg.PS)
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction, op Operand) {
	v := cpu.load(inst, op) - 1
	cpu.updateNZ(v)
	cpu.store(inst, op, v)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction, op Operand) {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction, op Operand) {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction, op Operand) {
	cpu.Reg.A ^= cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction, op Operand) {
	v := cpu.load(inst, op) + 1
	cpu.updateNZ(v)
	cpu.store(inst, op, v)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction, op Operand) {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction, op Operand) {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, op Operand) {
	cpu.Reg.PC = op.Addr
}

// Jump to subroutine
func (cpu *CPU) jsr(inst *Instruction, op Operand) {
	cpu.pushAddress(cpu.Reg.PC - 1)
	cpu.Reg.PC = op.Addr
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, op Operand) {
	cpu.Reg.Y = cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = lsr(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, op Operand) {
	// Do nothing
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction, op Operand) {
	cpu.Reg.A |= cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.SavePS(true))
}

// Push X register (65c02 only)
func (cpu *CPU) phx(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.X)
}

// Push Y register (65c02 only)
func (cpu *CPU) phy(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.Y)
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.pop()
	cpu.updateNZ(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(inst *Instruction, op Operand) {
	cpu.Reg.RestorePS(cpu.pop())
}

// Pull (pop) X register (65c02 only)
func (cpu *CPU) plx(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.pop()
	cpu.updateNZ(cpu.Reg.X)
}

// Pull (pop) Y register (65c02 only)
func (cpu *CPU) ply(inst *Instruction, op Operand) {
	cpu.Reg.Y = cpu.pop()
	cpu.updateNZ(cpu.Reg.Y)
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = rol(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = ror(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
}

// Return from Interrupt
func (cpu *CPU) rti(inst *Instruction, op Operand) {
	cpu.Reg.RestorePS(cpu.pop())
	cpu.Reg.PC = cpu.popAddress()
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction, op Operand) {
	addr := cpu.popAddress()
	cpu.Reg.PC = addr + 1
}

// Subtract with Carry
func (cpu *CPU) sbc(inst *Instruction, op Operand) {
	if cpu.Arch == CMOS && cpu.Reg.PS.Has(Decimal) {
		cpu.deltaCycles++
	}
	cpu.Reg.A, cpu.Reg.PS = sbc(cpu.Arch, cpu.Reg.A, cpu.load(inst, op), cpu.Reg.PS)
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(Carry, true)
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(Decimal, true)
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, op Operand) {
	cpu.Reg.PS.Set(InterruptDisable, true)
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, op Operand) {
	cpu.store(inst, op, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, op Operand) {
	cpu.store(inst, op, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, op Operand) {
	cpu.store(inst, op, cpu.Reg.Y)
}

// Store Zero (65c02 only)
func (cpu *CPU) stz(inst *Instruction, op Operand) {
	cpu.store(inst, op, 0)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction, op Operand) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
}

// Test and Reset Bits (65c02 only)
func (cpu *CPU) trb(inst *Instruction, op Operand) {
	v := cpu.load(inst, op)
	cpu.Reg.PS.Set(Zero, v&cpu.Reg.A == 0)
	cpu.store(inst, op, v&^cpu.Reg.A)
}

// Test and Set Bits (65c02 only)
func (cpu *CPU) tsb(inst *Instruction, op Operand) {
	v := cpu.load(inst, op)
	cpu.Reg.PS.Set(Zero, v&cpu.Reg.A == 0)
	cpu.store(inst, op, v|cpu.Reg.A)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(inst *Instruction, op Operand) {
	cpu.Reg.SP = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
}

//
// Undocumented NMOS instructions
//

// AND then Logical Shift Right
func (cpu *CPU) alr(inst *Instruction, op Operand) {
	cpu.Reg.A, cpu.Reg.PS = lsr(cpu.Reg.A&cpu.load(inst, op), cpu.Reg.PS)
}

// AND, copying the Negative flag into Carry
func (cpu *CPU) anc(inst *Instruction, op Operand) {
	cpu.Reg.A &= cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
	cpu.Reg.PS.Set(Carry, cpu.Reg.A&0x80 != 0)
}

// AND X with the Accumulator and immediate value (unstable)
func (cpu *CPU) ane(inst *Instruction, op Operand) {
	cpu.Reg.A = (cpu.Reg.A | cpu.Config.ANEMagic) & cpu.Reg.X & cpu.load(inst, op)
	cpu.updateNZ(cpu.Reg.A)
}

// AND then Rotate Right
func (cpu *CPU) arr(inst *Instruction, op Operand) {
	cpu.Reg.A, cpu.Reg.PS = arr(cpu.Reg.A, cpu.load(inst, op), cpu.Reg.PS)
}

// Decrement memory, then compare it to the Accumulator
func (cpu *CPU) dcp(inst *Instruction, op Operand) {
	v := cpu.load(inst, op) - 1
	cpu.store(inst, op, v)
	cpu.Reg.PS = compare(cpu.Reg.A, v, cpu.Reg.PS)
}

// Increment memory, then subtract it from the Accumulator
func (cpu *CPU) isc(inst *Instruction, op Operand) {
	v := cpu.load(inst, op) + 1
	cpu.store(inst, op, v)
	cpu.Reg.A, cpu.Reg.PS = sbc(cpu.Arch, cpu.Reg.A, v, cpu.Reg.PS)
}

// Halt the CPU. The program counter stays on the opcode until reset.
func (cpu *CPU) jam(inst *Instruction, op Operand) {
	cpu.Reg.PC = cpu.LastPC
	cpu.jammed = true
}

// AND memory with the stack pointer into A, X and SP
func (cpu *CPU) las(inst *Instruction, op Operand) {
	v := cpu.load(inst, op) & cpu.Reg.SP
	cpu.Reg.A, cpu.Reg.X, cpu.Reg.SP = v, v, v
	cpu.updateNZ(v)
}

// Load Accumulator and X register
func (cpu *CPU) lax(inst *Instruction, op Operand) {
	v := cpu.load(inst, op)
	cpu.Reg.A, cpu.Reg.X = v, v
	cpu.updateNZ(v)
}

// Load Accumulator and X register from an immediate value (unstable)
func (cpu *CPU) lxa(inst *Instruction, op Operand) {
	v := (cpu.Reg.A | cpu.Config.LXAMagic) & cpu.load(inst, op)
	cpu.Reg.A, cpu.Reg.X = v, v
	cpu.updateNZ(v)
}

// Rotate memory left, then AND it into the Accumulator
func (cpu *CPU) rla(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = rol(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
	cpu.Reg.A &= v
	cpu.updateNZ(cpu.Reg.A)
}

// Rotate memory right, then add it to the Accumulator
func (cpu *CPU) rra(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = ror(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
	cpu.Reg.A, cpu.Reg.PS = adc(cpu.Arch, cpu.Reg.A, v, cpu.Reg.PS)
}

// Store Accumulator AND X register
func (cpu *CPU) sax(inst *Instruction, op Operand) {
	cpu.store(inst, op, cpu.Reg.A&cpu.Reg.X)
}

// Subtract from Accumulator AND X register into X
func (cpu *CPU) sbx(inst *Instruction, op Operand) {
	cpu.Reg.X, cpu.Reg.PS = sbx(cpu.Reg.A, cpu.Reg.X, cpu.load(inst, op), cpu.Reg.PS)
}

// Store Accumulator AND X AND (high byte + 1)
func (cpu *CPU) sha(inst *Instruction, op Operand) {
	cpu.storeHigh(op, cpu.Reg.A&cpu.Reg.X)
}

// Store X AND (high byte + 1)
func (cpu *CPU) shx(inst *Instruction, op Operand) {
	cpu.storeHigh(op, cpu.Reg.X)
}

// Store Y AND (high byte + 1)
func (cpu *CPU) shy(inst *Instruction, op Operand) {
	cpu.storeHigh(op, cpu.Reg.Y)
}

// Shift memory left, then OR it into the Accumulator
func (cpu *CPU) slo(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = asl(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
	cpu.Reg.A |= v
	cpu.updateNZ(cpu.Reg.A)
}

// Shift memory right, then XOR it into the Accumulator
func (cpu *CPU) sre(inst *Instruction, op Operand) {
	var v byte
	v, cpu.Reg.PS = lsr(cpu.load(inst, op), cpu.Reg.PS)
	cpu.store(inst, op, v)
	cpu.Reg.A ^= v
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer Accumulator AND X to the stack pointer, then store it AND
// (high byte + 1)
func (cpu *CPU) tas(inst *Instruction, op Operand) {
	cpu.Reg.SP = cpu.Reg.A & cpu.Reg.X
	cpu.storeHigh(op, cpu.Reg.SP)
}

// storeHigh stores v ANDed with the high byte of the unindexed address plus
// one. When indexing crosses a page, the stored value also replaces the
// high byte of the target address.
func (cpu *CPU) storeHigh(op Operand, v byte) {
	v &= byte(op.Base>>8) + 1
	addr := op.Addr
	if op.Crossed {
		addr = uint16(v)<<8 | addr&0x00ff
	}
	cpu.storeByte(cpu, addr, v)
}
