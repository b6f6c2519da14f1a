package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terrysimons/mos6502-sub003/cpu"
)

func runHost(t *testing.T, h *Host, commands ...string) string {
	t.Helper()
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(strings.Join(commands, "\n")), &out, false)
	return out.String()
}

func expectOutput(t *testing.T, out, s string) {
	t.Helper()
	if !strings.Contains(out, s) {
		t.Errorf("output missing %q:\n%s", s, out)
	}
}

func expectPC(t *testing.T, h *Host, pc uint16) {
	t.Helper()
	if h.cpu.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, h.cpu.Reg.PC)
	}
}

func expectMem(t *testing.T, h *Host, addr uint16, v byte) {
	t.Helper()
	if got := h.cpu.Mem.LoadByte(addr); got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestStep(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $1000 $a9 $ff $a2 $10",
		"register pc $1000",
		"step 2",
	)

	if h.cpu.Reg.A != 0xff || h.cpu.Reg.X != 0x10 {
		t.Errorf("registers incorrect: %s", h.cpu.Reg.String())
	}
	if h.cpu.Cycles != 4 {
		t.Errorf("cycles incorrect. exp: 4, got: %d", h.cpu.Cycles)
	}
	expectPC(t, h, 0x1004)
}

func TestRegister(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"register a $42",
		"register sp $80",
		"register carry 1",
		"register pc 4096",
		"register q 1",
		"register",
	)

	if h.cpu.Reg.A != 0x42 || h.cpu.Reg.SP != 0x80 || !h.cpu.Reg.PS.Has(cpu.Carry) {
		t.Errorf("registers incorrect: %s", h.cpu.Reg.String())
	}
	expectPC(t, h, 0x1000)
	expectOutput(t, out, "Register A set to $42.")
	expectOutput(t, out, "Flag CARRY set to true.")
	expectOutput(t, out, "Unknown register or flag 'q'.")
	expectOutput(t, out, "A=42")
}

func TestRunBudget(t *testing.T) {
	code := "memory set $1000 $a9 $01 $4c $02 $10"
	for _, slice := range []string{"10000", "4", "1"} {
		h := New()
		runHost(t, h, code, "register pc $1000", "set runslice "+slice, "run 11")

		if h.cpu.Cycles != 11 {
			t.Errorf("slice %s: cycles incorrect. exp: 11, got: %d", slice, h.cpu.Cycles)
		}
		expectPC(t, h, 0x1002)
	}
}

func TestRunBreakpoint(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $01 $ea $ea $ea $ea $00",
		"breakpoint add $1005",
		"register pc $1000",
		"run",
		"breakpoint list",
	)

	expectPC(t, h, 0x1005)
	expectOutput(t, out, "Breakpoint hit at $1005.")
	expectOutput(t, out, "$1005 true")

	// Resuming from the breakpoint runs on to the BRK.
	out = runHost(t, h,
		"memory set $fffe $00 $20",
		"breakpoint disable $1005",
		"breakpoint enable $1005",
		"run",
	)
	expectPC(t, h, 0x2000)
	expectOutput(t, out, "BRK at $1006")

	out = runHost(t, h, "breakpoint remove $1005", "breakpoint remove $1005")
	expectOutput(t, out, "Breakpoint at $1005 removed.")
	expectOutput(t, out, "No breakpoint was set on $1005.")
}

func TestRunDataBreakpoint(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $41 $8d $00 $02 $a9 $42 $8d $00 $02 $ea",
		"databreakpoint add $0200 $42",
		"register pc $1000",
		"run",
		"databreakpoint list",
	)

	expectPC(t, h, 0x100a)
	expectMem(t, h, 0x0200, 0x42)
	expectOutput(t, out, "Data breakpoint hit on address $0200.")
	expectOutput(t, out, "$0200 true     $42")

	out = runHost(t, h, "databreakpoint remove $0200", "databreakpoint list")
	expectOutput(t, out, "Data breakpoint at $0200 removed.")
	if strings.Contains(out, "$0200 true") {
		t.Errorf("data breakpoint still listed:\n%s", out)
	}
}

func TestIllegalAndJam(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set variant 6502",
		"set strict true",
		"memory set $1000 $a7 $10",
		"register pc $1000",
		"run",
	)
	expectOutput(t, out, "Illegal opcode $A7 at $1000.")
	expectPC(t, h, 0x1000)
	if h.cpu.IllegalOpcodes != 1 {
		t.Errorf("illegal opcode count incorrect: %d", h.cpu.IllegalOpcodes)
	}

	out = runHost(t, h,
		"set strict false",
		"memory set $1000 $02",
		"run",
	)
	expectOutput(t, out, "CPU jammed by opcode $02 at $1000.")
	if !h.cpu.Jammed() {
		t.Error("CPU not jammed")
	}
}

func TestInterrupts(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $fffa $00 $40",
		"memory set $fffe $00 $30",
		"register pc $1000",
		"irq",
	)
	expectPC(t, h, 0x3000)
	expectOutput(t, out, "IRQ serviced. PC=$3000.")

	out = runHost(t, h, "irq", "nmi")
	expectOutput(t, out, "IRQ ignored.")
	expectPC(t, h, 0x4000)
}

func TestSettings(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set variant 6502c",
		"set ane $ff",
		"set variant z80",
		"set s 1",
		"set lxa 300",
	)

	if h.cpu.Variant != cpu.NMOS6502C {
		t.Errorf("variant incorrect: %s", h.cpu.Variant)
	}
	if h.cpu.Config.ANEMagic != 0xff {
		t.Errorf("ANE magic incorrect: $%02X", h.cpu.Config.ANEMagic)
	}
	if h.cpu.Config.LXAMagic != cpu.DefaultLXAMagic {
		t.Errorf("LXA magic changed: $%02X", h.cpu.Config.LXAMagic)
	}
	expectOutput(t, out, "unknown cpu variant 'z80'")
	expectOutput(t, out, "out of range")

	out = runHost(t, h, "set")
	expectOutput(t, out, "Variant")
	expectOutput(t, out, "\"6502c\"")
}

func TestSettingsPreserveState(t *testing.T) {
	h := New()
	runHost(t, h, "register a $12", "register pc $2000", "breakpoint add $2000")

	runHost(t, h, "set variant 6502")
	if h.cpu.Variant != cpu.NMOS6502 {
		t.Fatalf("variant not changed: %s", h.cpu.Variant)
	}
	if h.cpu.Reg.A != 0x12 {
		t.Errorf("A lost: $%02X", h.cpu.Reg.A)
	}
	expectPC(t, h, 0x2000)
	if h.debugger.GetBreakpoint(0x2000) == nil {
		t.Error("breakpoint lost")
	}
}

func TestSettingsKeepJam(t *testing.T) {
	h := New()
	runHost(t, h,
		"set variant 6502",
		"memory set $1000 $02",
		"register pc $1000",
		"run",
	)
	if !h.cpu.Jammed() {
		t.Fatal("CPU not jammed")
	}

	out := runHost(t, h, "set anemagic $11", "set variant 6502c", "run")
	if !h.cpu.Jammed() {
		t.Error("changing settings released the jam")
	}
	expectOutput(t, out, "CPU jammed by opcode $02 at $1000.")

	runHost(t, h, "reset")
	if h.cpu.Jammed() {
		t.Error("reset did not release the jam")
	}
}

func TestHexMode(t *testing.T) {
	h := New()
	runHost(t, h, "set hex true", "memory set 1000 ea ff", "register pc 1000")
	expectMem(t, h, 0x1000, 0xea)
	expectMem(t, h, 0x1001, 0xff)
	expectPC(t, h, 0x1000)
}

func TestMemory(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $41 $42",
		"memory dump $1000 2",
		"memory fill $10 4 $aa",
	)
	expectOutput(t, out, "1000- 41 42")
	expectMem(t, h, 0x10, 0xaa)
	expectMem(t, h, 0x13, 0xaa)
	expectMem(t, h, 0x14, 0x00)

	runHost(t, h, "memory fill $5a")
	expectMem(t, h, 0x0000, 0x5a)
	expectMem(t, h, 0xffff, 0x5a)
}

func TestMemoryDumpRepeat(t *testing.T) {
	h := New()
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(
		"memory set $1000 $41 $42 $43 $44\n"+
			"memory dump $1000 2\n"+
			"\n"), &out, true)
	expectOutput(t, out.String(), "1000- 41 42")
	expectOutput(t, out.String(), "1002- 43 44")

	out.Reset()
	h.RunCommands(strings.NewReader("m $ 1\n"), &out, false)
	expectOutput(t, out.String(), "1004- 00")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	prog := filepath.Join(dir, "prog.bin")
	if err := os.WriteFile(prog, []byte{0xa9, 0x07}, 0o644); err != nil {
		t.Fatal(err)
	}

	image := make([]byte, cpu.MemorySize)
	image[0xfffc], image[0xfffd] = 0x00, 0x80
	image[0x8000] = 0xea
	imagePath := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		t.Fatal(err)
	}

	small := filepath.Join(dir, "small.bin")
	if err := os.WriteFile(small, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	h := New()
	runHost(t, h, "load "+prog+" $3000", "step")
	expectMem(t, h, 0x3000, 0xa9)
	if h.cpu.Reg.A != 0x07 {
		t.Errorf("A incorrect: $%02X", h.cpu.Reg.A)
	}

	out := runHost(t, h, "load "+imagePath)
	expectPC(t, h, 0x8000)
	expectMem(t, h, 0x8000, 0xea)
	expectMem(t, h, 0x3000, 0x00)
	expectOutput(t, out, "as a memory image")

	out = runHost(t, h, "load "+small)
	expectOutput(t, out, "failed to load 'small.bin'")
	expectOutput(t, out, cpu.ErrMemorySize.Error())

	out = runHost(t, h, "load "+filepath.Join(dir, "missing.bin")+" $1000")
	expectOutput(t, out, "ERROR: failed to load 'missing.bin'")
}

func TestTraceRun(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $ea $ea $ea",
		"register pc $1000",
		"set trace true",
		"run 4",
	)
	expectPC(t, h, 0x1002)
	expectOutput(t, out, "1000-   EA          NOP")
	expectOutput(t, out, "1001-   EA          NOP")
}

func TestHelp(t *testing.T) {
	h := New()
	out := runHost(t, h, "help")
	expectOutput(t, out, "Breakpoint commands")
	expectOutput(t, out, "Run the CPU")

	out = runHost(t, h, "help breakpoint add")
	expectOutput(t, out, "Usage: breakpoint add <address>")
	expectOutput(t, out, "Shortcut: ba")

	out = runHost(t, h, "breakpoint add")
	expectOutput(t, out, "Usage: breakpoint add <address>")

	out = runHost(t, h, "memory")
	expectOutput(t, out, "memory commands:")
	expectOutput(t, out, "Set memory at address")

	out = runHost(t, h, "help mem")
	expectOutput(t, out, "Fill a range of memory")

	out = runHost(t, h, "help bogus")
	expectOutput(t, out, "Help topic 'bogus' not found.")
}

func TestUnknownAndQuit(t *testing.T) {
	h := New()
	out := runHost(t, h, "frobnicate", "# comment", "quit", "register a $55")
	if !strings.Contains(strings.ToLower(out), "not found") {
		t.Errorf("unknown command not reported:\n%s", out)
	}
	if h.cpu.Reg.A != 0 {
		t.Error("command after quit was executed")
	}
}

func TestReset(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $fffc $34 $12",
		"register a $55",
		"reset",
	)
	expectPC(t, h, 0x1234)
	if h.cpu.Reg.A != 0 || h.cpu.Cycles != 0 {
		t.Errorf("reset incomplete: %s C=%d", h.cpu.Reg.String(), h.cpu.Cycles)
	}
	expectOutput(t, out, "CPU reset. PC=$1234.")
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		s       string
		hexMode bool
		v       uint64
		ok      bool
	}{
		{"42", false, 42, true},
		{"42", true, 0x42, true},
		{"$ff", false, 0xff, true},
		{"0x1F", false, 0x1f, true},
		{"%1010", false, 10, true},
		{"0b11", false, 3, true},
		{"0b11", true, 0xb11, true},
		{"#10", true, 10, true},
		{"ff", false, 0, false},
		{"$", false, 0, false},
	}

	for _, tt := range tests {
		v, err := parseNumber(tt.s, tt.hexMode)
		if (err == nil) != tt.ok || v != tt.v {
			t.Errorf("parseNumber(%q, %v): got %d, %v", tt.s, tt.hexMode, v, err)
		}
	}
}

func TestOperandString(t *testing.T) {
	tests := []struct {
		mode cpu.Mode
		addr uint16
		b    []byte
		s    string
	}{
		{cpu.IMM, 0x1000, []byte{0xa9, 0x05}, "#$05"},
		{cpu.ZPX, 0x1000, []byte{0xb5, 0x10}, "$10,X"},
		{cpu.ABY, 0x1000, []byte{0xb9, 0x34, 0x12}, "$1234,Y"},
		{cpu.IND, 0x1000, []byte{0x6c, 0xff, 0x10}, "($10FF)"},
		{cpu.IDY, 0x1000, []byte{0xb1, 0x20}, "($20),Y"},
		{cpu.IAX, 0x1000, []byte{0x7c, 0x00, 0x20}, "($2000,X)"},
		{cpu.REL, 0x1000, []byte{0xd0, 0xfe}, "$1000"},
		{cpu.ACC, 0x1000, []byte{0x0a}, "A"},
	}

	for _, tt := range tests {
		if s := operandString(tt.mode, tt.addr, tt.b); s != tt.s {
			t.Errorf("%s: exp %q, got %q", tt.mode, tt.s, s)
		}
	}
}

func TestSettingsField(t *testing.T) {
	s := newSettings()
	if f, err := s.Field("mem"); err != nil || f.name != "MemDumpBytes" {
		t.Errorf("Field(mem): got %v, %v", f, err)
	}
	if _, err := s.Field("s"); err == nil {
		t.Error("Field(s) should be ambiguous")
	}
	if err := s.Set("runslice", uint64(50)); err != nil || s.RunSlice != 50 {
		t.Errorf("Set(runslice): got %d, %v", s.RunSlice, err)
	}
	if err := s.Set("strict", "yes"); err == nil {
		t.Error("Set(strict) accepted a string")
	}
}
