// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"
)

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRA
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPHX
	symPHY
	symPLA
	symPLP
	symPLX
	symPLY
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTZ
	symSTX
	symSTY
	symTAX
	symTAY
	symTRB
	symTSB
	symTSX
	symTXA
	symTXS
	symTYA

	// undocumented NMOS instructions
	symALR
	symANC
	symANE
	symARR
	symDCP
	symISC
	symJAM
	symLAS
	symLAX
	symLXA
	symRLA
	symRRA
	symSAX
	symSBX
	symSHA
	symSHX
	symSHY
	symSLO
	symSRE
	symTAS
	symUSBC
)

type instfunc func(c *CPU, inst *Instruction, op Operand)

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   [2]instfunc // NMOS=0, CMOS=1
}

var impl = []opcodeImpl{
	{symADC, "ADC", [2]instfunc{(*CPU).adc, (*CPU).adc}},
	{symAND, "AND", [2]instfunc{(*CPU).and, (*CPU).and}},
	{symASL, "ASL", [2]instfunc{(*CPU).asl, (*CPU).asl}},
	{symBCC, "BCC", [2]instfunc{(*CPU).bcc, (*CPU).bcc}},
	{symBCS, "BCS", [2]instfunc{(*CPU).bcs, (*CPU).bcs}},
	{symBEQ, "BEQ", [2]instfunc{(*CPU).beq, (*CPU).beq}},
	{symBIT, "BIT", [2]instfunc{(*CPU).bit, (*CPU).bit}},
	{symBMI, "BMI", [2]instfunc{(*CPU).bmi, (*CPU).bmi}},
	{symBNE, "BNE", [2]instfunc{(*CPU).bne, (*CPU).bne}},
	{symBPL, "BPL", [2]instfunc{(*CPU).bpl, (*CPU).bpl}},
	{symBRA, "BRA", [2]instfunc{nil, (*CPU).bra}},
	{symBRK, "BRK", [2]instfunc{(*CPU).brk, (*CPU).brk}},
	{symBVC, "BVC", [2]instfunc{(*CPU).bvc, (*CPU).bvc}},
	{symBVS, "BVS", [2]instfunc{(*CPU).bvs, (*CPU).bvs}},
	{symCLC, "CLC", [2]instfunc{(*CPU).clc, (*CPU).clc}},
	{symCLD, "CLD", [2]instfunc{(*CPU).cld, (*CPU).cld}},
	{symCLI, "CLI", [2]instfunc{(*CPU).cli, (*CPU).cli}},
	{symCLV, "CLV", [2]instfunc{(*CPU).clv, (*CPU).clv}},
	{symCMP, "CMP", [2]instfunc{(*CPU).cmp, (*CPU).cmp}},
	{symCPX, "CPX", [2]instfunc{(*CPU).cpx, (*CPU).cpx}},
	{symCPY, "CPY", [2]instfunc{(*CPU).cpy, (*CPU).cpy}},
	{symDEC, "DEC", [2]instfunc{(*CPU).dec, (*CPU).dec}},
	{symDEX, "DEX", [2]instfunc{(*CPU).dex, (*CPU).dex}},
	{symDEY, "DEY", [2]instfunc{(*CPU).dey, (*CPU).dey}},
	{symEOR, "EOR", [2]instfunc{(*CPU).eor, (*CPU).eor}},
	{symINC, "INC", [2]instfunc{(*CPU).inc, (*CPU).inc}},
	{symINX, "INX", [2]instfunc{(*CPU).inx, (*CPU).inx}},
	{symINY, "INY", [2]instfunc{(*CPU).iny, (*CPU).iny}},
	{symJMP, "JMP", [2]instfunc{(*CPU).jmp, (*CPU).jmp}},
	{symJSR, "JSR", [2]instfunc{(*CPU).jsr, (*CPU).jsr}},
	{symLDA, "LDA", [2]instfunc{(*CPU).lda, (*CPU).lda}},
	{symLDX, "LDX", [2]instfunc{(*CPU).ldx, (*CPU).ldx}},
	{symLDY, "LDY", [2]instfunc{(*CPU).ldy, (*CPU).ldy}},
	{symLSR, "LSR", [2]instfunc{(*CPU).lsr, (*CPU).lsr}},
	{symNOP, "NOP", [2]instfunc{(*CPU).nop, (*CPU).nop}},
	{symORA, "ORA", [2]instfunc{(*CPU).ora, (*CPU).ora}},
	{symPHA, "PHA", [2]instfunc{(*CPU).pha, (*CPU).pha}},
	{symPHP, "PHP", [2]instfunc{(*CPU).php, (*CPU).php}},
	{symPHX, "PHX", [2]instfunc{nil, (*CPU).phx}},
	{symPHY, "PHY", [2]instfunc{nil, (*CPU).phy}},
	{symPLA, "PLA", [2]instfunc{(*CPU).pla, (*CPU).pla}},
	{symPLP, "PLP", [2]instfunc{(*CPU).plp, (*CPU).plp}},
	{symPLX, "PLX", [2]instfunc{nil, (*CPU).plx}},
	{symPLY, "PLY", [2]instfunc{nil, (*CPU).ply}},
	{symROL, "ROL", [2]instfunc{(*CPU).rol, (*CPU).rol}},
	{symROR, "ROR", [2]instfunc{(*CPU).ror, (*CPU).ror}},
	{symRTI, "RTI", [2]instfunc{(*CPU).rti, (*CPU).rti}},
	{symRTS, "RTS", [2]instfunc{(*CPU).rts, (*CPU).rts}},
	{symSBC, "SBC", [2]instfunc{(*CPU).sbc, (*CPU).sbc}},
	{symSEC, "SEC", [2]instfunc{(*CPU).sec, (*CPU).sec}},
	{symSED, "SED", [2]instfunc{(*CPU).sed, (*CPU).sed}},
	{symSEI, "SEI", [2]instfunc{(*CPU).sei, (*CPU).sei}},
	{symSTA, "STA", [2]instfunc{(*CPU).sta, (*CPU).sta}},
	{symSTZ, "STZ", [2]instfunc{nil, (*CPU).stz}},
	{symSTX, "STX", [2]instfunc{(*CPU).stx, (*CPU).stx}},
	{symSTY, "STY", [2]instfunc{(*CPU).sty, (*CPU).sty}},
	{symTAX, "TAX", [2]instfunc{(*CPU).tax, (*CPU).tax}},
	{symTAY, "TAY", [2]instfunc{(*CPU).tay, (*CPU).tay}},
	{symTRB, "TRB", [2]instfunc{nil, (*CPU).trb}},
	{symTSB, "TSB", [2]instfunc{nil, (*CPU).tsb}},
	{symTSX, "TSX", [2]instfunc{(*CPU).tsx, (*CPU).tsx}},
	{symTXA, "TXA", [2]instfunc{(*CPU).txa, (*CPU).txa}},
	{symTXS, "TXS", [2]instfunc{(*CPU).txs, (*CPU).txs}},
	{symTYA, "TYA", [2]instfunc{(*CPU).tya, (*CPU).tya}},

	{symALR, "ALR", [2]instfunc{(*CPU).alr, nil}},
	{symANC, "ANC", [2]instfunc{(*CPU).anc, nil}},
	{symANE, "ANE", [2]instfunc{(*CPU).ane, nil}},
	{symARR, "ARR", [2]instfunc{(*CPU).arr, nil}},
	{symDCP, "DCP", [2]instfunc{(*CPU).dcp, nil}},
	{symISC, "ISC", [2]instfunc{(*CPU).isc, nil}},
	{symJAM, "JAM", [2]instfunc{(*CPU).jam, nil}},
	{symLAS, "LAS", [2]instfunc{(*CPU).las, nil}},
	{symLAX, "LAX", [2]instfunc{(*CPU).lax, nil}},
	{symLXA, "LXA", [2]instfunc{(*CPU).lxa, nil}},
	{symRLA, "RLA", [2]instfunc{(*CPU).rla, nil}},
	{symRRA, "RRA", [2]instfunc{(*CPU).rra, nil}},
	{symSAX, "SAX", [2]instfunc{(*CPU).sax, nil}},
	{symSBX, "SBX", [2]instfunc{(*CPU).sbx, nil}},
	{symSHA, "SHA", [2]instfunc{(*CPU).sha, nil}},
	{symSHX, "SHX", [2]instfunc{(*CPU).shx, nil}},
	{symSHY, "SHY", [2]instfunc{(*CPU).shy, nil}},
	{symSLO, "SLO", [2]instfunc{(*CPU).slo, nil}},
	{symSRE, "SRE", [2]instfunc{(*CPU).sre, nil}},
	{symTAS, "TAS", [2]instfunc{(*CPU).tas, nil}},
	{symUSBC, "USBC", [2]instfunc{(*CPU).sbc, nil}},
}

// Extra describes the conditional cycle cost of an instruction beyond its
// base cycle count.
type Extra byte

// Extra cycle rules
const (
	// ExtraNone means the base cycle count is exact.
	ExtraNone Extra = iota

	// ExtraPageCross adds a cycle when indexing crosses a page boundary.
	ExtraPageCross

	// ExtraBranch adds a cycle when the branch is taken and another when
	// the target lies on a different page.
	ExtraBranch

	// ExtraDummyRead marks indexed stores and read-modify-write forms that
	// always spend a cycle on a dummy read. The base count includes it.
	ExtraDummyRead
)

func (e Extra) String() string {
	switch e {
	case ExtraNone:
		return ""
	case ExtraPageCross:
		return "+p"
	case ExtraBranch:
		return "+b"
	case ExtraDummyRead:
		return "d"
	default:
		return "?"
	}
}

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym    opsym // internal opcode symbol
	mode   Mode  // addressing mode
	opcode byte  // opcode hex value
	length byte  // length of opcode + operand in bytes
	cycles byte  // number of CPU cycles to execute command
	extra  Extra // conditional cycle rule
}

const (
	xNone   = ExtraNone
	xPage   = ExtraPageCross
	xBranch = ExtraBranch
	xDummy  = ExtraDummyRead
)

// Documented (opcode, mode) pairs shared by all variants
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2, 2, xNone},
	{symLDA, ZPG, 0xa5, 2, 3, xNone},
	{symLDA, ZPX, 0xb5, 2, 4, xNone},
	{symLDA, ABS, 0xad, 3, 4, xNone},
	{symLDA, ABX, 0xbd, 3, 4, xPage},
	{symLDA, ABY, 0xb9, 3, 4, xPage},
	{symLDA, IDX, 0xa1, 2, 6, xNone},
	{symLDA, IDY, 0xb1, 2, 5, xPage},

	{symLDX, IMM, 0xa2, 2, 2, xNone},
	{symLDX, ZPG, 0xa6, 2, 3, xNone},
	{symLDX, ZPY, 0xb6, 2, 4, xNone},
	{symLDX, ABS, 0xae, 3, 4, xNone},
	{symLDX, ABY, 0xbe, 3, 4, xPage},

	{symLDY, IMM, 0xa0, 2, 2, xNone},
	{symLDY, ZPG, 0xa4, 2, 3, xNone},
	{symLDY, ZPX, 0xb4, 2, 4, xNone},
	{symLDY, ABS, 0xac, 3, 4, xNone},
	{symLDY, ABX, 0xbc, 3, 4, xPage},

	{symSTA, ZPG, 0x85, 2, 3, xNone},
	{symSTA, ZPX, 0x95, 2, 4, xNone},
	{symSTA, ABS, 0x8d, 3, 4, xNone},
	{symSTA, ABX, 0x9d, 3, 5, xDummy},
	{symSTA, ABY, 0x99, 3, 5, xDummy},
	{symSTA, IDX, 0x81, 2, 6, xNone},
	{symSTA, IDY, 0x91, 2, 6, xDummy},

	{symSTX, ZPG, 0x86, 2, 3, xNone},
	{symSTX, ZPY, 0x96, 2, 4, xNone},
	{symSTX, ABS, 0x8e, 3, 4, xNone},

	{symSTY, ZPG, 0x84, 2, 3, xNone},
	{symSTY, ZPX, 0x94, 2, 4, xNone},
	{symSTY, ABS, 0x8c, 3, 4, xNone},

	{symADC, IMM, 0x69, 2, 2, xNone},
	{symADC, ZPG, 0x65, 2, 3, xNone},
	{symADC, ZPX, 0x75, 2, 4, xNone},
	{symADC, ABS, 0x6d, 3, 4, xNone},
	{symADC, ABX, 0x7d, 3, 4, xPage},
	{symADC, ABY, 0x79, 3, 4, xPage},
	{symADC, IDX, 0x61, 2, 6, xNone},
	{symADC, IDY, 0x71, 2, 5, xPage},

	{symSBC, IMM, 0xe9, 2, 2, xNone},
	{symSBC, ZPG, 0xe5, 2, 3, xNone},
	{symSBC, ZPX, 0xf5, 2, 4, xNone},
	{symSBC, ABS, 0xed, 3, 4, xNone},
	{symSBC, ABX, 0xfd, 3, 4, xPage},
	{symSBC, ABY, 0xf9, 3, 4, xPage},
	{symSBC, IDX, 0xe1, 2, 6, xNone},
	{symSBC, IDY, 0xf1, 2, 5, xPage},

	{symCMP, IMM, 0xc9, 2, 2, xNone},
	{symCMP, ZPG, 0xc5, 2, 3, xNone},
	{symCMP, ZPX, 0xd5, 2, 4, xNone},
	{symCMP, ABS, 0xcd, 3, 4, xNone},
	{symCMP, ABX, 0xdd, 3, 4, xPage},
	{symCMP, ABY, 0xd9, 3, 4, xPage},
	{symCMP, IDX, 0xc1, 2, 6, xNone},
	{symCMP, IDY, 0xd1, 2, 5, xPage},

	{symCPX, IMM, 0xe0, 2, 2, xNone},
	{symCPX, ZPG, 0xe4, 2, 3, xNone},
	{symCPX, ABS, 0xec, 3, 4, xNone},

	{symCPY, IMM, 0xc0, 2, 2, xNone},
	{symCPY, ZPG, 0xc4, 2, 3, xNone},
	{symCPY, ABS, 0xcc, 3, 4, xNone},

	{symBIT, ZPG, 0x24, 2, 3, xNone},
	{symBIT, ABS, 0x2c, 3, 4, xNone},

	{symCLC, IMP, 0x18, 1, 2, xNone},
	{symSEC, IMP, 0x38, 1, 2, xNone},
	{symCLI, IMP, 0x58, 1, 2, xNone},
	{symSEI, IMP, 0x78, 1, 2, xNone},
	{symCLD, IMP, 0xd8, 1, 2, xNone},
	{symSED, IMP, 0xf8, 1, 2, xNone},
	{symCLV, IMP, 0xb8, 1, 2, xNone},

	{symBCC, REL, 0x90, 2, 2, xBranch},
	{symBCS, REL, 0xb0, 2, 2, xBranch},
	{symBEQ, REL, 0xf0, 2, 2, xBranch},
	{symBNE, REL, 0xd0, 2, 2, xBranch},
	{symBMI, REL, 0x30, 2, 2, xBranch},
	{symBPL, REL, 0x10, 2, 2, xBranch},
	{symBVC, REL, 0x50, 2, 2, xBranch},
	{symBVS, REL, 0x70, 2, 2, xBranch},

	{symBRK, IMP, 0x00, 1, 7, xNone},

	{symAND, IMM, 0x29, 2, 2, xNone},
	{symAND, ZPG, 0x25, 2, 3, xNone},
	{symAND, ZPX, 0x35, 2, 4, xNone},
	{symAND, ABS, 0x2d, 3, 4, xNone},
	{symAND, ABX, 0x3d, 3, 4, xPage},
	{symAND, ABY, 0x39, 3, 4, xPage},
	{symAND, IDX, 0x21, 2, 6, xNone},
	{symAND, IDY, 0x31, 2, 5, xPage},

	{symORA, IMM, 0x09, 2, 2, xNone},
	{symORA, ZPG, 0x05, 2, 3, xNone},
	{symORA, ZPX, 0x15, 2, 4, xNone},
	{symORA, ABS, 0x0d, 3, 4, xNone},
	{symORA, ABX, 0x1d, 3, 4, xPage},
	{symORA, ABY, 0x19, 3, 4, xPage},
	{symORA, IDX, 0x01, 2, 6, xNone},
	{symORA, IDY, 0x11, 2, 5, xPage},

	{symEOR, IMM, 0x49, 2, 2, xNone},
	{symEOR, ZPG, 0x45, 2, 3, xNone},
	{symEOR, ZPX, 0x55, 2, 4, xNone},
	{symEOR, ABS, 0x4d, 3, 4, xNone},
	{symEOR, ABX, 0x5d, 3, 4, xPage},
	{symEOR, ABY, 0x59, 3, 4, xPage},
	{symEOR, IDX, 0x41, 2, 6, xNone},
	{symEOR, IDY, 0x51, 2, 5, xPage},

	{symINC, ZPG, 0xe6, 2, 5, xNone},
	{symINC, ZPX, 0xf6, 2, 6, xNone},
	{symINC, ABS, 0xee, 3, 6, xNone},
	{symINC, ABX, 0xfe, 3, 7, xDummy},

	{symDEC, ZPG, 0xc6, 2, 5, xNone},
	{symDEC, ZPX, 0xd6, 2, 6, xNone},
	{symDEC, ABS, 0xce, 3, 6, xNone},
	{symDEC, ABX, 0xde, 3, 7, xDummy},

	{symINX, IMP, 0xe8, 1, 2, xNone},
	{symINY, IMP, 0xc8, 1, 2, xNone},
	{symDEX, IMP, 0xca, 1, 2, xNone},
	{symDEY, IMP, 0x88, 1, 2, xNone},

	{symJMP, ABS, 0x4c, 3, 3, xNone},
	{symJMP, IND, 0x6c, 3, 5, xNone},

	{symJSR, ABS, 0x20, 3, 6, xNone},
	{symRTS, IMP, 0x60, 1, 6, xNone},
	{symRTI, IMP, 0x40, 1, 6, xNone},

	{symNOP, IMP, 0xea, 1, 2, xNone},

	{symTAX, IMP, 0xaa, 1, 2, xNone},
	{symTXA, IMP, 0x8a, 1, 2, xNone},
	{symTAY, IMP, 0xa8, 1, 2, xNone},
	{symTYA, IMP, 0x98, 1, 2, xNone},
	{symTXS, IMP, 0x9a, 1, 2, xNone},
	{symTSX, IMP, 0xba, 1, 2, xNone},

	{symPHA, IMP, 0x48, 1, 3, xNone},
	{symPLA, IMP, 0x68, 1, 4, xNone},
	{symPHP, IMP, 0x08, 1, 3, xNone},
	{symPLP, IMP, 0x28, 1, 4, xNone},

	{symASL, ACC, 0x0a, 1, 2, xNone},
	{symASL, ZPG, 0x06, 2, 5, xNone},
	{symASL, ZPX, 0x16, 2, 6, xNone},
	{symASL, ABS, 0x0e, 3, 6, xNone},
	{symASL, ABX, 0x1e, 3, 7, xDummy},

	{symLSR, ACC, 0x4a, 1, 2, xNone},
	{symLSR, ZPG, 0x46, 2, 5, xNone},
	{symLSR, ZPX, 0x56, 2, 6, xNone},
	{symLSR, ABS, 0x4e, 3, 6, xNone},
	{symLSR, ABX, 0x5e, 3, 7, xDummy},

	{symROL, ACC, 0x2a, 1, 2, xNone},
	{symROL, ZPG, 0x26, 2, 5, xNone},
	{symROL, ZPX, 0x36, 2, 6, xNone},
	{symROL, ABS, 0x2e, 3, 6, xNone},
	{symROL, ABX, 0x3e, 3, 7, xDummy},

	{symROR, ACC, 0x6a, 1, 2, xNone},
	{symROR, ZPG, 0x66, 2, 5, xNone},
	{symROR, ZPX, 0x76, 2, 6, xNone},
	{symROR, ABS, 0x6e, 3, 6, xNone},
	{symROR, ABX, 0x7e, 3, 7, xDummy},
}

// 65c02 additions, and entries whose timing differs from the NMOS part
var cmosData = []opcodeData{
	{symLDA, IZP, 0xb2, 2, 5, xNone},
	{symSTA, IZP, 0x92, 2, 5, xNone},
	{symADC, IZP, 0x72, 2, 5, xNone},
	{symSBC, IZP, 0xf2, 2, 5, xNone},
	{symCMP, IZP, 0xd2, 2, 5, xNone},
	{symAND, IZP, 0x32, 2, 5, xNone},
	{symORA, IZP, 0x12, 2, 5, xNone},
	{symEOR, IZP, 0x52, 2, 5, xNone},

	{symSTZ, ZPG, 0x64, 2, 3, xNone},
	{symSTZ, ZPX, 0x74, 2, 4, xNone},
	{symSTZ, ABS, 0x9c, 3, 4, xNone},
	{symSTZ, ABX, 0x9e, 3, 5, xDummy},

	{symBIT, IMM, 0x89, 2, 2, xNone},
	{symBIT, ZPX, 0x34, 2, 4, xNone},
	{symBIT, ABX, 0x3c, 3, 4, xPage},

	{symBRA, REL, 0x80, 2, 2, xBranch},

	{symINC, ACC, 0x1a, 1, 2, xNone},
	{symDEC, ACC, 0x3a, 1, 2, xNone},

	{symJMP, IND, 0x6c, 3, 6, xNone},
	{symJMP, IAX, 0x7c, 3, 6, xNone},

	{symTRB, ZPG, 0x14, 2, 5, xNone},
	{symTRB, ABS, 0x1c, 3, 6, xNone},
	{symTSB, ZPG, 0x04, 2, 5, xNone},
	{symTSB, ABS, 0x0c, 3, 6, xNone},

	{symPHX, IMP, 0xda, 1, 3, xNone},
	{symPLX, IMP, 0xfa, 1, 4, xNone},
	{symPHY, IMP, 0x5a, 1, 3, xNone},
	{symPLY, IMP, 0x7a, 1, 4, xNone},

	{symASL, ABX, 0x1e, 3, 6, xPage},
	{symLSR, ABX, 0x5e, 3, 6, xPage},
	{symROL, ABX, 0x3e, 3, 6, xPage},
	{symROR, ABX, 0x7e, 3, 6, xPage},
}

// Undocumented NMOS (opcode, mode) pairs
var nmosData = []opcodeData{
	{symSLO, ZPG, 0x07, 2, 5, xNone},
	{symSLO, ZPX, 0x17, 2, 6, xNone},
	{symSLO, ABS, 0x0f, 3, 6, xNone},
	{symSLO, ABX, 0x1f, 3, 7, xDummy},
	{symSLO, ABY, 0x1b, 3, 7, xDummy},
	{symSLO, IDX, 0x03, 2, 8, xNone},
	{symSLO, IDY, 0x13, 2, 8, xDummy},

	{symRLA, ZPG, 0x27, 2, 5, xNone},
	{symRLA, ZPX, 0x37, 2, 6, xNone},
	{symRLA, ABS, 0x2f, 3, 6, xNone},
	{symRLA, ABX, 0x3f, 3, 7, xDummy},
	{symRLA, ABY, 0x3b, 3, 7, xDummy},
	{symRLA, IDX, 0x23, 2, 8, xNone},
	{symRLA, IDY, 0x33, 2, 8, xDummy},

	{symSRE, ZPG, 0x47, 2, 5, xNone},
	{symSRE, ZPX, 0x57, 2, 6, xNone},
	{symSRE, ABS, 0x4f, 3, 6, xNone},
	{symSRE, ABX, 0x5f, 3, 7, xDummy},
	{symSRE, ABY, 0x5b, 3, 7, xDummy},
	{symSRE, IDX, 0x43, 2, 8, xNone},
	{symSRE, IDY, 0x53, 2, 8, xDummy},

	{symRRA, ZPG, 0x67, 2, 5, xNone},
	{symRRA, ZPX, 0x77, 2, 6, xNone},
	{symRRA, ABS, 0x6f, 3, 6, xNone},
	{symRRA, ABX, 0x7f, 3, 7, xDummy},
	{symRRA, ABY, 0x7b, 3, 7, xDummy},
	{symRRA, IDX, 0x63, 2, 8, xNone},
	{symRRA, IDY, 0x73, 2, 8, xDummy},

	{symDCP, ZPG, 0xc7, 2, 5, xNone},
	{symDCP, ZPX, 0xd7, 2, 6, xNone},
	{symDCP, ABS, 0xcf, 3, 6, xNone},
	{symDCP, ABX, 0xdf, 3, 7, xDummy},
	{symDCP, ABY, 0xdb, 3, 7, xDummy},
	{symDCP, IDX, 0xc3, 2, 8, xNone},
	{symDCP, IDY, 0xd3, 2, 8, xDummy},

	{symISC, ZPG, 0xe7, 2, 5, xNone},
	{symISC, ZPX, 0xf7, 2, 6, xNone},
	{symISC, ABS, 0xef, 3, 6, xNone},
	{symISC, ABX, 0xff, 3, 7, xDummy},
	{symISC, ABY, 0xfb, 3, 7, xDummy},
	{symISC, IDX, 0xe3, 2, 8, xNone},
	{symISC, IDY, 0xf3, 2, 8, xDummy},

	{symSAX, ZPG, 0x87, 2, 3, xNone},
	{symSAX, ZPY, 0x97, 2, 4, xNone},
	{symSAX, ABS, 0x8f, 3, 4, xNone},
	{symSAX, IDX, 0x83, 2, 6, xNone},

	{symLAX, ZPG, 0xa7, 2, 3, xNone},
	{symLAX, ZPY, 0xb7, 2, 4, xNone},
	{symLAX, ABS, 0xaf, 3, 4, xNone},
	{symLAX, ABY, 0xbf, 3, 4, xPage},
	{symLAX, IDX, 0xa3, 2, 6, xNone},
	{symLAX, IDY, 0xb3, 2, 5, xPage},

	{symANC, IMM, 0x0b, 2, 2, xNone},
	{symANC, IMM, 0x2b, 2, 2, xNone},
	{symALR, IMM, 0x4b, 2, 2, xNone},
	{symARR, IMM, 0x6b, 2, 2, xNone},
	{symANE, IMM, 0x8b, 2, 2, xNone},
	{symLXA, IMM, 0xab, 2, 2, xNone},
	{symSBX, IMM, 0xcb, 2, 2, xNone},
	{symUSBC, IMM, 0xeb, 2, 2, xNone},

	{symSHA, IDY, 0x93, 2, 6, xDummy},
	{symSHA, ABY, 0x9f, 3, 5, xDummy},
	{symSHX, ABY, 0x9e, 3, 5, xDummy},
	{symSHY, ABX, 0x9c, 3, 5, xDummy},
	{symTAS, ABY, 0x9b, 3, 5, xDummy},
	{symLAS, ABY, 0xbb, 3, 4, xPage},

	{symNOP, IMP, 0x1a, 1, 2, xNone},
	{symNOP, IMP, 0x3a, 1, 2, xNone},
	{symNOP, IMP, 0x5a, 1, 2, xNone},
	{symNOP, IMP, 0x7a, 1, 2, xNone},
	{symNOP, IMP, 0xda, 1, 2, xNone},
	{symNOP, IMP, 0xfa, 1, 2, xNone},
	{symNOP, IMM, 0x80, 2, 2, xNone},
	{symNOP, IMM, 0x82, 2, 2, xNone},
	{symNOP, IMM, 0x89, 2, 2, xNone},
	{symNOP, IMM, 0xc2, 2, 2, xNone},
	{symNOP, IMM, 0xe2, 2, 2, xNone},
	{symNOP, ZPG, 0x04, 2, 3, xNone},
	{symNOP, ZPG, 0x44, 2, 3, xNone},
	{symNOP, ZPG, 0x64, 2, 3, xNone},
	{symNOP, ZPX, 0x14, 2, 4, xNone},
	{symNOP, ZPX, 0x34, 2, 4, xNone},
	{symNOP, ZPX, 0x54, 2, 4, xNone},
	{symNOP, ZPX, 0x74, 2, 4, xNone},
	{symNOP, ZPX, 0xd4, 2, 4, xNone},
	{symNOP, ZPX, 0xf4, 2, 4, xNone},
	{symNOP, ABS, 0x0c, 3, 4, xNone},
	{symNOP, ABX, 0x1c, 3, 4, xPage},
	{symNOP, ABX, 0x3c, 3, 4, xPage},
	{symNOP, ABX, 0x5c, 3, 4, xPage},
	{symNOP, ABX, 0x7c, 3, 4, xPage},
	{symNOP, ABX, 0xdc, 3, 4, xPage},
	{symNOP, ABX, 0xfc, 3, 4, xPage},

	{symJAM, IMP, 0x02, 1, 2, xNone},
	{symJAM, IMP, 0x12, 1, 2, xNone},
	{symJAM, IMP, 0x22, 1, 2, xNone},
	{symJAM, IMP, 0x32, 1, 2, xNone},
	{symJAM, IMP, 0x42, 1, 2, xNone},
	{symJAM, IMP, 0x52, 1, 2, xNone},
	{symJAM, IMP, 0x62, 1, 2, xNone},
	{symJAM, IMP, 0x72, 1, 2, xNone},
	{symJAM, IMP, 0x92, 1, 2, xNone},
	{symJAM, IMP, 0xb2, 1, 2, xNone},
	{symJAM, IMP, 0xd2, 1, 2, xNone},
	{symJAM, IMP, 0xf2, 1, 2, xNone},
}

// Unused 65c02 opcodes. They behave as NOPs that consume the listed
// operand bytes and cycles and nothing else.
type unused struct {
	opcode byte
	mode   Mode
	length byte
	cycles byte
}

var unusedData = []unused{
	{0x02, IMM, 2, 2},
	{0x22, IMM, 2, 2},
	{0x42, IMM, 2, 2},
	{0x62, IMM, 2, 2},
	{0x82, IMM, 2, 2},
	{0xc2, IMM, 2, 2},
	{0xe2, IMM, 2, 2},
	{0x44, ZPG, 2, 3},
	{0x54, ZPX, 2, 4},
	{0xd4, ZPX, 2, 4},
	{0xf4, ZPX, 2, 4},
	{0x5c, ABS, 3, 8},
	{0xdc, ABS, 3, 4},
	{0xfc, ABS, 3, 4},
}

func init() {
	// Every opcode in columns 3, 7, B and F is a single-byte, single-cycle
	// NOP on the 65c02.
	for hi := 0; hi < 16; hi++ {
		for _, lo := range []int{0x3, 0x7, 0xb, 0xf} {
			unusedData = append(unusedData, unused{byte(hi<<4 | lo), IMP, 1, 1})
		}
	}

	for arch := NMOS; arch <= CMOS; arch++ {
		instructionSets[arch][0] = newInstructionSet(arch, false)
		instructionSets[arch][1] = newInstructionSet(arch, true)
	}
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name         string   // all-caps name of the instruction
	Mode         Mode     // addressing mode
	Opcode       byte     // hexadecimal opcode value
	Length       byte     // combined size of opcode and operand, in bytes
	Cycles       byte     // base CPU cycles, including the opcode fetch
	Extra        Extra    // conditional extra cycle rule
	Undocumented bool     // not part of the manufacturer's instruction set
	fn           instfunc // emulator implementation of the function
}

// Defined reports whether the instruction has an implementation. Only
// undocumented opcodes in a strict instruction set are undefined.
func (inst *Instruction) Defined() bool {
	return inst.fn != nil
}

func (inst *Instruction) String() string {
	return fmt.Sprintf("%s %s ($%02X) %d/%d%s", inst.Name, inst.Mode, inst.Opcode,
		inst.Length, inst.Cycles, inst.Extra)
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	Arch         Architecture
	Strict       bool
	instructions [256]Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
// Every opcode has an entry.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// NewInstructionSet creates the instruction set described by a CPU
// configuration. The ANE and LXA constants are read from the CPU at run time,
// so only the variant's architecture and strictness matter here.
func NewInstructionSet(cfg Config) *InstructionSet {
	if !cfg.Variant.Valid() {
		panic("invalid cpu variant")
	}
	return newInstructionSet(cfg.Variant.Architecture(), cfg.Strict)
}

// Create an instruction set for a CPU architecture.
func newInstructionSet(arch Architecture, strict bool) *InstructionSet {
	set := &InstructionSet{Arch: arch, Strict: strict}

	// Create a map from symbol to implementation for fast lookups.
	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	set.variants = make(map[string][]*Instruction)

	add := func(d *opcodeData, undocumented bool) {
		impl := symToImpl[d.sym]
		inst := &set.instructions[d.opcode]
		*inst = Instruction{
			Name:         impl.name,
			Mode:         d.mode,
			Opcode:       d.opcode,
			Length:       d.length,
			Cycles:       d.cycles,
			Extra:        d.extra,
			Undocumented: undocumented,
			fn:           impl.fn[arch],
		}
		if inst.fn == nil {
			panic(fmt.Sprintf("no %s implementation of %s", arch, impl.name))
		}
		if undocumented && strict {
			inst.fn = nil
		}
	}

	for i := range data {
		add(&data[i], false)
	}

	switch arch {
	case NMOS:
		for i := range nmosData {
			add(&nmosData[i], true)
		}

	case CMOS:
		for i := range cmosData {
			add(&cmosData[i], false)
		}
		for _, u := range unusedData {
			inst := &set.instructions[u.opcode]
			*inst = Instruction{
				Name:         "NOP",
				Mode:         u.mode,
				Opcode:       u.opcode,
				Length:       u.length,
				Cycles:       u.cycles,
				Undocumented: true,
			}
			if !strict {
				inst.fn = (*CPU).nop
			}
		}
	}

	for i := range set.instructions {
		inst := &set.instructions[i]
		if inst.Name == "" {
			panic(fmt.Sprintf("missing %s instruction for opcode $%02X", arch, i))
		}
		if int(inst.Length) != 1+inst.Mode.OperandSize() {
			panic(fmt.Sprintf("inconsistent length for opcode $%02X", i))
		}
		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

// Instruction sets indexed by architecture and strictness. They are built
// once at init and never modified.
var instructionSets [2][2]*InstructionSet

func cachedInstructionSet(arch Architecture, strict bool) *InstructionSet {
	if strict {
		return instructionSets[arch][1]
	}
	return instructionSets[arch][0]
}

// GetInstructionSet returns the shared, non-strict instruction set for the
// requested CPU variant.
func GetInstructionSet(v Variant) *InstructionSet {
	if !v.Valid() {
		panic("invalid cpu variant")
	}
	return cachedInstructionSet(v.Architecture(), false)
}
