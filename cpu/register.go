// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"
)

// Status is the packed 6502 processor status register.
type Status byte

// Bits assigned to the processor status byte
const (
	Carry            Status = 1 << 0
	Zero             Status = 1 << 1
	InterruptDisable Status = 1 << 2
	Decimal          Status = 1 << 3
	Break            Status = 1 << 4
	Reserved         Status = 1 << 5
	Overflow         Status = 1 << 6
	Negative         Status = 1 << 7
)

// Has reports whether every bit in f is set.
func (ps Status) Has(f Status) bool {
	return ps&f == f
}

// Bit returns 1 if flag f is set and 0 otherwise.
func (ps Status) Bit(f Status) byte {
	if ps&f != 0 {
		return 1
	}
	return 0
}

// Set sets or clears the flag bits in f, leaving all other bits untouched.
func (ps *Status) Set(f Status, on bool) {
	if on {
		*ps |= f
	} else {
		*ps &^= f
	}
}

// withNZ returns ps with the Negative and Zero flags updated from v.
func (ps Status) withNZ(v byte) Status {
	ps &^= Negative | Zero
	if v == 0 {
		ps |= Zero
	}
	return ps | Status(v&0x80)
}

var flagNames = []struct {
	flag Status
	name string
	char byte
}{
	{Negative, "negative", 'N'},
	{Overflow, "overflow", 'V'},
	{Reserved, "reserved", '-'},
	{Break, "break", 'B'},
	{Decimal, "decimal", 'D'},
	{InterruptDisable, "interrupt", 'I'},
	{Zero, "zero", 'Z'},
	{Carry, "carry", 'C'},
}

// String returns the flags in NV-BDIZC order, with clear flags shown as '.'.
func (ps Status) String() string {
	var b [8]byte
	for i, f := range flagNames {
		if ps&f.flag != 0 {
			b[i] = f.char
		} else {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// ParseFlag converts a flag name ("carry", "zero", "interrupt", "decimal",
// "break", "overflow", "negative") or its single-letter abbreviation into a
// status flag.
func ParseFlag(s string) (Status, error) {
	s = strings.ToLower(s)
	for _, f := range flagNames {
		if f.flag == Reserved {
			continue
		}
		if s == f.name || (len(s) == 1 && s[0] == f.char+'a'-'A') {
			return f.flag, nil
		}
	}
	if s == "sign" {
		return Negative, nil
	}
	return 0, fmt.Errorf("unknown flag '%s'", s)
}

// Registers contains the state of all 6502 registers.
type Registers struct {
	A  byte   // accumulator
	X  byte   // X indexing register
	Y  byte   // Y indexing register
	SP byte   // stack pointer ($100 + SP = stack memory location)
	PC uint16 // program counter
	PS Status // processor status
}

// RegisterID names a register for generic access.
type RegisterID byte

// All addressable registers
const (
	RegA RegisterID = iota
	RegX
	RegY
	RegSP
	RegPC
	RegPS
)

var registerNames = [...]string{"A", "X", "Y", "SP", "PC", "PS"}

func (id RegisterID) String() string {
	if int(id) < len(registerNames) {
		return registerNames[id]
	}
	return fmt.Sprintf("RegisterID(%d)", byte(id))
}

// Width returns the register size in bytes.
func (id RegisterID) Width() int {
	if id == RegPC {
		return 2
	}
	return 1
}

// ParseRegister converts a register name into a RegisterID. The names "s"
// and "p" are accepted as aliases of "sp" and "ps".
func ParseRegister(s string) (RegisterID, error) {
	switch strings.ToLower(s) {
	case "a":
		return RegA, nil
	case "x":
		return RegX, nil
	case "y":
		return RegY, nil
	case "sp", "s":
		return RegSP, nil
	case "pc", ".":
		return RegPC, nil
	case "ps", "p":
		return RegPS, nil
	}
	return 0, fmt.Errorf("unknown register '%s'", s)
}

// Get returns the value of the register identified by id.
func (r *Registers) Get(id RegisterID) uint16 {
	switch id {
	case RegA:
		return uint16(r.A)
	case RegX:
		return uint16(r.X)
	case RegY:
		return uint16(r.Y)
	case RegSP:
		return uint16(r.SP)
	case RegPC:
		return r.PC
	case RegPS:
		return uint16(r.PS)
	default:
		panic("invalid register")
	}
}

// Set updates the register identified by id. Values are truncated to the
// register width.
func (r *Registers) Set(id RegisterID, v uint16) {
	switch id {
	case RegA:
		r.A = byte(v)
	case RegX:
		r.X = byte(v)
	case RegY:
		r.Y = byte(v)
	case RegSP:
		r.SP = byte(v)
	case RegPC:
		r.PC = v
	case RegPS:
		r.PS = Status(v)
	default:
		panic("invalid register")
	}
}

// SavePS returns the processor status as it is pushed onto the stack. The
// reserved bit is always set, and the break bit is set if requested.
func (r *Registers) SavePS(brk bool) byte {
	ps := (r.PS | Reserved) &^ Break
	if brk {
		ps |= Break
	}
	return byte(ps)
}

// RestorePS restores the processor status from a byte pulled off the stack.
// The break and reserved bits do not exist in the register and are ignored.
func (r *Registers) RestorePS(v byte) {
	r.PS = (r.PS & (Break | Reserved)) | (Status(v) &^ (Break | Reserved))
}

// Init initializes all registers. A, X, Y = 0. SP = $FD. PC = 0. PS = 0.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xfd
	r.PC = 0
	r.PS = 0
}

// String returns a compact one-line summary of the registers.
func (r *Registers) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, r.PS, r.SP, r.PC)
}
