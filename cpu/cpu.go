// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a cycle-counted emulator for the NMOS 6502 family
// and the CMOS 65c02.
package cpu

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Arch           Architecture    // CPU architecture
	Variant        Variant         // CPU model
	Config         Config          // construction-time options
	Reg            Registers       // CPU registers
	Mem            Memory          // assigned memory
	Cycles         uint64          // total executed CPU cycles since reset
	LastPC         uint16          // address of the most recently fetched opcode
	InstSet        *InstructionSet // Instruction set used by the CPU
	IllegalOpcodes uint64          // number of undefined opcodes fetched
	state          State
	remaining      int64 // cycle budget left for Execute; negative is debt
	deltaCycles    int8
	jammed         bool
	brkSignaled    bool
	dataHit        *DataBreakpoint
	debugger       *Debugger
	storeByte      func(cpu *CPU, addr uint16, v byte)
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// interruptCycles is the cost of servicing an IRQ or NMI.
const interruptCycles = 7

// NewCPU creates an emulated CPU of the requested variant bound to the
// specified memory, using the default configuration.
func NewCPU(v Variant, m Memory) *CPU {
	return NewCPUWithConfig(DefaultConfig(v), m)
}

// NewCPUWithConfig creates an emulated CPU from a configuration. It panics
// if the variant is unknown or the memory is nil. Call Reset before
// executing code.
func NewCPUWithConfig(cfg Config, m Memory) *CPU {
	if !cfg.Variant.Valid() {
		panic("invalid cpu variant")
	}
	if m == nil {
		panic("cpu requires memory")
	}

	arch := cfg.Variant.Architecture()
	cpu := &CPU{
		Arch:      arch,
		Variant:   cfg.Variant,
		Config:    cfg,
		Mem:       m,
		InstSet:   cachedInstructionSet(arch, cfg.Strict),
		state:     StateReset,
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// Reconfigure switches the CPU to a new configuration. Registers, the cycle
// counter, the budget, the jam state and any attached debugger carry over.
// It panics if the variant is unknown.
func (cpu *CPU) Reconfigure(cfg Config) {
	if !cfg.Variant.Valid() {
		panic("invalid cpu variant")
	}
	cpu.Arch = cfg.Variant.Architecture()
	cpu.Variant = cfg.Variant
	cpu.Config = cfg
	cpu.InstSet = cachedInstructionSet(cpu.Arch, cfg.Strict)
}

// Reset performs a CPU reset. The program counter is loaded from the reset
// vector at $FFFC, A, X and Y are zeroed, all status flags are cleared, and
// the stack pointer is set to $FD. The cycle counter and budget are cleared
// and a jammed CPU is released.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Reg.PC = cpu.Mem.LoadAddress(vectorReset)
	cpu.LastPC = cpu.Reg.PC
	cpu.Cycles = 0
	cpu.remaining = 0
	cpu.jammed = false
	cpu.brkSignaled = false
	cpu.dataHit = nil
	cpu.state = StateReset
}

// State returns the current execution state.
func (cpu *CPU) State() State {
	return cpu.state
}

// Jammed reports whether a JAM opcode has halted the CPU.
func (cpu *CPU) Jammed() bool {
	return cpu.jammed
}

// Remaining returns the unused cycle budget. A negative value is the
// overshoot of the last Execute call, which the next budget pays off.
func (cpu *CPU) Remaining() int64 {
	return cpu.remaining
}

// ClearBudget discards any remaining budget or carried debt.
func (cpu *CPU) ClearBudget() {
	cpu.remaining = 0
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Flag returns 1 if the status flag f is set and 0 otherwise.
func (cpu *CPU) Flag(f Status) byte {
	return cpu.Reg.PS.Bit(f)
}

// SetFlag sets or clears the status flag f.
func (cpu *CPU) SetFlag(f Status, on bool) {
	cpu.Reg.PS.Set(f, on)
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	opcode := cpu.Mem.LoadByte(addr)
	inst := cpu.InstSet.Lookup(opcode)
	return addr + uint16(inst.Length)
}

// Execute runs instructions until the cycle budget is exhausted or a
// terminal condition occurs. The budget is added to whatever the previous
// call left over, so an instruction that overshoots one budget is paid for
// by the next. A negative budget runs without limit.
func (cpu *CPU) Execute(budget Budget) Outcome {
	unbounded := budget < 0
	if !unbounded {
		cpu.remaining += int64(budget)
	}

	start := cpu.Cycles
	first := true
	for {
		if cpu.jammed {
			cpu.state = StateJammed
			return Outcome{
				Cycles: cpu.Cycles - start,
				Reason: Jammed,
				Opcode: cpu.Mem.LoadByte(cpu.Reg.PC),
				Addr:   cpu.Reg.PC,
			}
		}

		// Execution breakpoints are ignored on the first fetch so that a
		// stopped program can be resumed.
		if !first && cpu.debugger != nil && cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC) {
			cpu.state = StateBreakpoint
			return Outcome{Cycles: cpu.Cycles - start, Reason: BreakpointHit, Addr: cpu.Reg.PC}
		}
		first = false

		if !unbounded && cpu.remaining <= 0 {
			cpu.state = StateBudgetExhausted
			return Outcome{Cycles: cpu.Cycles - start, Reason: BudgetExhausted, Addr: cpu.Reg.PC}
		}

		before := cpu.Cycles
		o := cpu.step()
		if !unbounded {
			cpu.remaining -= int64(cpu.Cycles - before)
		}

		if o.Reason != NoStop {
			o.Cycles = cpu.Cycles - start
			return o
		}
	}
}

// Step executes exactly one instruction, ignoring the cycle budget and
// execution breakpoints.
func (cpu *CPU) Step() Outcome {
	start := cpu.Cycles
	if cpu.jammed {
		cpu.state = StateJammed
		return Outcome{Reason: Jammed, Opcode: cpu.Mem.LoadByte(cpu.Reg.PC), Addr: cpu.Reg.PC}
	}
	o := cpu.step()
	o.Cycles = cpu.Cycles - start
	return o
}

// step fetches, decodes and executes one instruction.
func (cpu *CPU) step() Outcome {
	// Fetch the opcode and advance the PC
	cpu.state = StateFetching
	addr := cpu.Reg.PC
	opcode := cpu.Mem.LoadByte(addr)
	inst := cpu.InstSet.Lookup(opcode)
	cpu.LastPC = addr
	cpu.Reg.PC++
	cpu.Cycles++

	if inst.fn == nil {
		cpu.Reg.PC = addr
		cpu.IllegalOpcodes++
		cpu.state = StateIllegalOpcode
		if cpu.debugger != nil {
			cpu.debugger.onIllegalOpcode(cpu, addr, opcode)
		}
		return Outcome{Reason: IllegalOpcode, Opcode: opcode, Addr: addr}
	}

	// Resolve the operand and execute the instruction
	cpu.state = StateExecuting
	op := cpu.resolve(inst.Mode)
	cpu.deltaCycles = 0
	inst.fn(cpu, inst, op)

	// Charge the rest of the base cost plus any conditional cycles
	extra := int(cpu.deltaCycles)
	if inst.Extra == ExtraPageCross && op.Crossed {
		extra++
	}
	cpu.Cycles += uint64(int(inst.Cycles) - 1 + extra)

	switch {
	case cpu.jammed:
		cpu.state = StateJammed
		return Outcome{Reason: Jammed, Opcode: opcode, Addr: addr}

	case cpu.brkSignaled:
		cpu.brkSignaled = false
		cpu.state = StateBreakSignaled
		return Outcome{Reason: BreakEncountered, Addr: addr}

	case cpu.dataHit != nil:
		b := cpu.dataHit
		cpu.dataHit = nil
		cpu.state = StateBreakpoint
		return Outcome{Reason: BreakpointHit, Addr: b.Address}
	}

	cpu.state = StateFetching
	return Outcome{Reason: NoStop, Addr: cpu.Reg.PC}
}

// IRQ raises a maskable interrupt. It is ignored, and IRQ returns false, if
// the interrupt disable flag is set or the CPU is jammed.
func (cpu *CPU) IRQ() bool {
	if cpu.jammed || cpu.Reg.PS.Has(InterruptDisable) {
		return false
	}
	cpu.serviceInterrupt(vectorIRQ)
	return true
}

// NMI raises a non-maskable interrupt. A jammed CPU ignores it.
func (cpu *CPU) NMI() bool {
	if cpu.jammed {
		return false
	}
	cpu.serviceInterrupt(vectorNMI)
	return true
}

// serviceInterrupt vectors an externally raised interrupt. A data
// breakpoint hit by the stack pushes is reported to the debugger's handler
// only; it must not stop the next instruction.
func (cpu *CPU) serviceInterrupt(addr uint16) {
	cpu.handleInterrupt(false, addr)
	cpu.dataHit = nil
	cpu.Cycles += interruptCycles
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Load the operand value of an instruction.
func (cpu *CPU) load(inst *Instruction, op Operand) byte {
	if inst.Mode == ACC {
		return cpu.Reg.A
	}
	return cpu.Mem.LoadByte(op.Addr)
}

// Store a value to the operand of an instruction.
func (cpu *CPU) store(inst *Instruction, op Operand, v byte) {
	if inst.Mode == ACC {
		cpu.Reg.A = v
		return
	}
	cpu.storeByte(cpu, op.Addr, v)
}

// Execute a branch to the resolved target.
func (cpu *CPU) branch(op Operand) {
	cpu.Reg.PC = op.Addr
	cpu.deltaCycles++
	if op.Crossed {
		cpu.deltaCycles++
	}
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr', then let the debugger
// check its data breakpoints.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
	if b := cpu.debugger.onDataStore(cpu, addr, v); b != nil && cpu.dataHit == nil {
		cpu.dataHit = b
	}
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | (uint16(hi) << 8)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.PS = cpu.Reg.PS.withNZ(v)
}

// Handle an interrupt by storing the program counter and status flags on
// the stack. Then switch the program counter to the requested address.
func (cpu *CPU) handleInterrupt(brk bool, addr uint16) {
	cpu.pushAddress(cpu.Reg.PC)
	cpu.push(cpu.Reg.SavePS(brk))

	cpu.Reg.PS.Set(InterruptDisable, true)
	if cpu.Arch == CMOS {
		cpu.Reg.PS.Set(Decimal, false)
	}

	cpu.Reg.PC = cpu.Mem.LoadAddress(addr)
}
