// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"
)

// Architecture selects the silicon family: NMOS 6502 or CMOS 65c02.
type Architecture byte

const (
	// NMOS 6502 CPU
	NMOS Architecture = iota

	// CMOS 65c02 CPU
	CMOS
)

func (a Architecture) String() string {
	switch a {
	case NMOS:
		return "NMOS"
	case CMOS:
		return "CMOS"
	default:
		return fmt.Sprintf("Architecture(%d)", byte(a))
	}
}

// Variant identifies a specific member of the 6502 family.
type Variant byte

// Supported CPU variants
const (
	NMOS6502  Variant = iota // MOS 6502
	NMOS6502A                // MOS 6502A, 2MHz part
	NMOS6502C                // 6502C (Atari SALLY)
	CMOS65C02                // CMOS 65c02

	variantCount
)

type variantModel struct {
	name  string
	key   string
	arch  Architecture
	clock int // typical clock frequency in Hz
}

var models = [variantCount]variantModel{
	NMOS6502:  {"MOS Technology 6502", "6502", NMOS, 1000000},
	NMOS6502A: {"MOS Technology 6502A", "6502a", NMOS, 2000000},
	NMOS6502C: {"MOS Technology 6502C", "6502c", NMOS, 1790000},
	CMOS65C02: {"CMOS 65C02", "65c02", CMOS, 1000000},
}

// Valid reports whether v names a supported variant.
func (v Variant) Valid() bool {
	return v < variantCount
}

// Architecture returns the silicon family of the variant. All NMOS variants
// share the same instruction set.
func (v Variant) Architecture() Architecture {
	return models[v].arch
}

// Name returns a descriptive name for the variant.
func (v Variant) Name() string {
	return models[v].name
}

// ClockHz returns the typical clock frequency of the part. It is
// informational only; the emulator never paces itself to wall-clock time.
func (v Variant) ClockHz() int {
	return models[v].clock
}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", byte(v))
	}
	return models[v].key
}

// ParseVariant converts a variant key such as "6502", "6502a", "6502c" or
// "65c02" into a Variant. The comparison is case-insensitive.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v := Variant(0); v < variantCount; v++ {
		if models[v].key == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown cpu variant '%s'", s)
}

// Default values for the unstable undocumented opcode constants.
const (
	DefaultANEMagic = 0xee
	DefaultLXAMagic = 0xee
)

// Config holds the construction-time options of a CPU.
type Config struct {
	Variant Variant

	// Strict builds an instruction set in which every undocumented opcode is
	// left undefined. Executing one stops the CPU with IllegalOpcode.
	Strict bool

	// ANEMagic and LXAMagic are the chip-dependent constants ORed into the
	// accumulator by the unstable ANE ($8B) and LXA ($AB) opcodes.
	ANEMagic byte
	LXAMagic byte
}

// DefaultConfig returns the default configuration for a variant.
func DefaultConfig(v Variant) Config {
	return Config{
		Variant:  v,
		ANEMagic: DefaultANEMagic,
		LXAMagic: DefaultLXAMagic,
	}
}
