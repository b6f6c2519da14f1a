// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "errors"

// MemorySize is the size of the 6502 address space.
const MemorySize = 64 * 1024

// Errors
var (
	ErrMemorySize = errors.New("memory image must be exactly 65536 bytes")
)

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. Addresses wrap at $FFFF and accesses never fail.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte

	// LoadBytes loads multiple bytes from the address and stores them into
	// the buffer 'b'.
	LoadBytes(addr uint16, b []byte)

	// LoadAddress loads a little-endian 16-bit value from the requested
	// address and returns it.
	LoadAddress(addr uint16) uint16

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte)

	// StoreBytes stores multiple bytes to the requested address.
	StoreBytes(addr uint16, b []byte)

	// StoreAddress stores a little-endian 16-bit value 'v' to the requested
	// address.
	StoreAddress(addr uint16, v uint16)
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer.
type FlatMemory struct {
	b [MemorySize]byte
}

// NewFlatMemory creates a new, zero-filled 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// NewFlatMemoryFromImage creates a memory space initialized from a complete
// 64K memory image.
func NewFlatMemoryFromImage(image []byte) (*FlatMemory, error) {
	if len(image) != MemorySize {
		return nil, ErrMemorySize
	}
	m := &FlatMemory{}
	copy(m.b[:], image)
	return m, nil
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address, wrapping around to $0000
// after $FFFF.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.b[addr]
		addr++
	}
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it. The high byte of an address stored at $FFFF is read from $0000.
func (m *FlatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address, wrapping around
// to $0000 after $FFFF.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for _, v := range b {
		m.b[addr] = v
		addr++
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[addr+1] = byte(v >> 8)
}

// Fill sets every byte of memory to v.
func (m *FlatMemory) Fill(v byte) {
	for i := range m.b {
		m.b[i] = v
	}
}

// Return the offset address 'addr' + 'offset'. If the offset
// crossed a page boundary, return 'pageCrossed' as true.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	pageCrossed = ((newAddr & 0xff00) != (addr & 0xff00))
	return newAddr, pageCrossed
}

// Offset a zero-page address 'addr' by 'offset'. If the address
// exceeds the zero-page address space, wrap it.
func offsetZeroPage(addr byte, offset byte) uint16 {
	return uint16(addr + offset)
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
