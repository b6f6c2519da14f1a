package cpu

import "testing"

func TestInstructionSetTotal(t *testing.T) {
	for arch := NMOS; arch <= CMOS; arch++ {
		for _, strict := range []bool{false, true} {
			set := cachedInstructionSet(arch, strict)
			defined := 0
			for i := 0; i < 256; i++ {
				inst := set.Lookup(byte(i))
				if inst.Name == "" || inst.Opcode != byte(i) {
					t.Errorf("%s strict=%v: bad entry for $%02X: %+v", arch, strict, i, inst)
				}
				if inst.Defined() {
					defined++
				}
				if strict && inst.Undocumented && inst.Defined() {
					t.Errorf("%s strict: undocumented $%02X is defined", arch, i)
				}
				if !inst.Undocumented && !inst.Defined() {
					t.Errorf("%s strict=%v: documented $%02X is undefined", arch, strict, i)
				}
			}

			exp := 256
			if strict {
				switch arch {
				case NMOS:
					exp = 151
				case CMOS:
					exp = 178
				}
			}
			if defined != exp {
				t.Errorf("%s strict=%v: %d defined opcodes, exp %d", arch, strict, defined, exp)
			}
		}
	}
}

func TestInstructionCycles(t *testing.T) {
	tests := []struct {
		arch   Architecture
		opcode byte
		name   string
		mode   Mode
		cycles byte
		extra  Extra
	}{
		{NMOS, 0xa9, "LDA", IMM, 2, ExtraNone},
		{NMOS, 0xb1, "LDA", IDY, 5, ExtraPageCross},
		{NMOS, 0x91, "STA", IDY, 6, ExtraDummyRead},
		{NMOS, 0xfe, "INC", ABX, 7, ExtraDummyRead},
		{CMOS, 0xfe, "INC", ABX, 7, ExtraDummyRead},
		{NMOS, 0x1e, "ASL", ABX, 7, ExtraDummyRead},
		{CMOS, 0x1e, "ASL", ABX, 6, ExtraPageCross},
		{NMOS, 0x6c, "JMP", IND, 5, ExtraNone},
		{CMOS, 0x6c, "JMP", IND, 6, ExtraNone},
		{NMOS, 0x00, "BRK", IMP, 7, ExtraNone},
		{NMOS, 0xd0, "BNE", REL, 2, ExtraBranch},
		{CMOS, 0x80, "BRA", REL, 2, ExtraBranch},
		{NMOS, 0x80, "NOP", IMM, 2, ExtraNone},
		{NMOS, 0xb3, "LAX", IDY, 5, ExtraPageCross},
		{NMOS, 0x03, "SLO", IDX, 8, ExtraNone},
		{NMOS, 0xeb, "USBC", IMM, 2, ExtraNone},
		{NMOS, 0x92, "JAM", IMP, 2, ExtraNone},
		{CMOS, 0x92, "STA", IZP, 5, ExtraNone},
		{CMOS, 0x5c, "NOP", ABS, 8, ExtraNone},
		{CMOS, 0x1a, "INC", ACC, 2, ExtraNone},
	}

	for _, tt := range tests {
		inst := cachedInstructionSet(tt.arch, false).Lookup(tt.opcode)
		if inst.Name != tt.name || inst.Mode != tt.mode || inst.Cycles != tt.cycles || inst.Extra != tt.extra {
			t.Errorf("%s $%02X: exp %s %s %d%s, got %s", tt.arch, tt.opcode,
				tt.name, tt.mode, tt.cycles, tt.extra, inst)
		}
	}
}

func TestGetInstructions(t *testing.T) {
	set := GetInstructionSet(NMOS6502)
	if n := len(set.GetInstructions("lda")); n != 8 {
		t.Errorf("NMOS LDA variants: exp 8, got %d", n)
	}
	if n := len(set.GetInstructions("STZ")); n != 0 {
		t.Errorf("NMOS STZ variants: exp 0, got %d", n)
	}

	set = GetInstructionSet(CMOS65C02)
	if n := len(set.GetInstructions("lda")); n != 9 {
		t.Errorf("CMOS LDA variants: exp 9, got %d", n)
	}
	if n := len(set.GetInstructions("JMP")); n != 3 {
		t.Errorf("CMOS JMP variants: exp 3, got %d", n)
	}
	if n := len(set.GetInstructions("LAX")); n != 0 {
		t.Errorf("CMOS LAX variants: exp 0, got %d", n)
	}
}

func TestNewInstructionSet(t *testing.T) {
	set := NewInstructionSet(Config{Variant: NMOS6502C, Strict: true})
	if set.Arch != NMOS || !set.Strict {
		t.Errorf("unexpected set: arch=%s strict=%v", set.Arch, set.Strict)
	}
	if set.Lookup(0xa7).Defined() {
		t.Error("strict set defines LAX")
	}
}
