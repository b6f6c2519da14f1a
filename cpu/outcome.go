// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// A Budget is the number of CPU cycles Execute may consume.
type Budget int64

// Unbounded is the budget that lets Execute run until a terminal condition
// occurs. Any negative budget is treated as Unbounded.
const Unbounded Budget = -1

// State describes where the CPU is in its fetch-decode-execute cycle.
type State byte

// CPU execution states
const (
	StateReset State = iota
	StateFetching
	StateExecuting
	StateBudgetExhausted
	StateBreakSignaled
	StateIllegalOpcode
	StateJammed
	StateBreakpoint
)

var stateNames = [...]string{
	"reset",
	"fetching",
	"executing",
	"budget exhausted",
	"break signaled",
	"illegal opcode",
	"jammed",
	"breakpoint",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// StopReason explains why Step or Execute returned.
type StopReason byte

// Stop reasons
const (
	// NoStop is returned by Step when the instruction completed without
	// raising any terminal condition.
	NoStop StopReason = iota

	// BudgetExhausted means the cycle budget ran out. Call Execute again
	// with a new budget to continue.
	BudgetExhausted

	// BreakEncountered means a BRK instruction executed. The CPU has already
	// vectored through $FFFE; calling Execute again runs the handler.
	BreakEncountered

	// IllegalOpcode means the instruction set has no operation for the
	// fetched opcode. PC still addresses the offending opcode.
	IllegalOpcode

	// Jammed means an NMOS JAM opcode halted the CPU. Only Reset recovers.
	Jammed

	// BreakpointHit means an attached debugger's execution or data
	// breakpoint triggered.
	BreakpointHit
)

var reasonNames = [...]string{
	"none",
	"budget exhausted",
	"break encountered",
	"illegal opcode",
	"jammed",
	"breakpoint hit",
}

func (r StopReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("StopReason(%d)", byte(r))
}

// An Outcome reports the result of a call to Step or Execute.
type Outcome struct {
	Cycles uint64     // cycles consumed by the call
	Reason StopReason // why the call returned
	Opcode byte       // offending opcode for IllegalOpcode and Jammed
	Addr   uint16     // address of the BRK, illegal or JAM opcode, or breakpoint
}

// Err returns an error describing an abnormal outcome (IllegalOpcode or
// Jammed). Budget exhaustion, BRK and breakpoints are ordinary control flow
// and yield nil.
func (o Outcome) Err() error {
	switch o.Reason {
	case IllegalOpcode:
		return &IllegalOpcodeError{Opcode: o.Opcode, Addr: o.Addr}
	case Jammed:
		return &JamError{Opcode: o.Opcode, Addr: o.Addr}
	default:
		return nil
	}
}

func (o Outcome) String() string {
	switch o.Reason {
	case IllegalOpcode, Jammed:
		return fmt.Sprintf("%s ($%02X at $%04X) after %d cycles", o.Reason, o.Opcode, o.Addr, o.Cycles)
	case NoStop:
		return fmt.Sprintf("%d cycles", o.Cycles)
	default:
		return fmt.Sprintf("%s at $%04X after %d cycles", o.Reason, o.Addr, o.Cycles)
	}
}

// IllegalOpcodeError represents an opcode that has no operation in the
// CPU's instruction set.
type IllegalOpcodeError struct {
	Opcode byte
	Addr   uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// JamError represents an NMOS JAM opcode that halted the CPU.
type JamError struct {
	Opcode byte
	Addr   uint16
}

func (e *JamError) Error() string {
	return fmt.Sprintf("cpu jammed by opcode $%02X at $%04X", e.Opcode, e.Addr)
}
