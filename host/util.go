// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/terrysimons/mos6502-sub003/cpu"
)

func codeString(b []byte) string {
	switch len(b) {
	case 1:
		return fmt.Sprintf("%02X", b[0])
	case 2:
		return fmt.Sprintf("%02X %02X", b[0], b[1])
	case 3:
		return fmt.Sprintf("%02X %02X %02X", b[0], b[1], b[2])
	default:
		return ""
	}
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// parseNumber converts a numeric literal into a value. A '$' or "0x"
// prefix selects hexadecimal, a '%' or "0b" prefix selects binary and a
// '#' prefix forces decimal. Unprefixed literals are decimal unless
// hexMode is set.
func parseNumber(s string, hexMode bool) (uint64, error) {
	base := 10
	if hexMode {
		base = 16
	}

	t := strings.ToLower(s)
	switch {
	case strings.HasPrefix(t, "$"):
		t, base = t[1:], 16
	case strings.HasPrefix(t, "0x"):
		t, base = t[2:], 16
	case strings.HasPrefix(t, "%"):
		t, base = t[1:], 2
	case strings.HasPrefix(t, "0b") && !hexMode:
		t, base = t[2:], 2
	case strings.HasPrefix(t, "#"):
		t, base = t[1:], 10
	}

	v, err := strconv.ParseUint(t, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return v, nil
}

// operandString formats the operand bytes of an instruction in assembler
// notation. Relative branches show their target address.
func operandString(mode cpu.Mode, addr uint16, b []byte) string {
	var v uint16
	switch len(b) {
	case 2:
		v = uint16(b[1])
	case 3:
		v = uint16(b[1]) | uint16(b[2])<<8
	}

	switch mode {
	case cpu.IMM:
		return fmt.Sprintf("#$%02X", v)
	case cpu.ZPG:
		return fmt.Sprintf("$%02X", v)
	case cpu.ZPX:
		return fmt.Sprintf("$%02X,X", v)
	case cpu.ZPY:
		return fmt.Sprintf("$%02X,Y", v)
	case cpu.ABS:
		return fmt.Sprintf("$%04X", v)
	case cpu.ABX:
		return fmt.Sprintf("$%04X,X", v)
	case cpu.ABY:
		return fmt.Sprintf("$%04X,Y", v)
	case cpu.IND:
		return fmt.Sprintf("($%04X)", v)
	case cpu.IDX:
		return fmt.Sprintf("($%02X,X)", v)
	case cpu.IDY:
		return fmt.Sprintf("($%02X),Y", v)
	case cpu.IZP:
		return fmt.Sprintf("($%02X)", v)
	case cpu.IAX:
		return fmt.Sprintf("($%04X,X)", v)
	case cpu.REL:
		return fmt.Sprintf("$%04X", addr+2+uint16(int8(v)))
	case cpu.ACC:
		return "A"
	default:
		return ""
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}
