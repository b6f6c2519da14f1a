package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScriptRegistersAndMemory(t *testing.T) {
	h := New()
	err := h.RunScriptString(`
		poke(0x1000, 0xa9)
		poke(0x1001, 0x42)
		setreg("pc", 0x1000)

		local c, r = step()
		assert(c == 2, "cycles " .. c)
		assert(r == "none", "reason " .. r)
		assert(reg("a") == 0x42)
		assert(reg("pc") == 0x1002)
		assert(peek(0x1001) == 0x42)
		assert(cycles() == 2)

		setflag("carry", true)
		assert(flag("c"))
		setflag("c", 0)
		assert(not flag("carry"))
	`)
	if err != nil {
		t.Fatal(err)
	}
	if h.cpu.Reg.A != 0x42 {
		t.Errorf("A incorrect: $%02X", h.cpu.Reg.A)
	}
}

func TestScriptExecute(t *testing.T) {
	h := New()
	err := h.RunScriptString(`
		-- JMP $1000
		poke(0x1000, 0x4c)
		poke(0x1001, 0x00)
		poke(0x1002, 0x10)
		setreg("pc", 0x1000)

		local c, r = execute(30)
		assert(c == 30, "cycles " .. c)
		assert(r == "budget exhausted", r)

		-- BRK through $2000
		poke(0xfffe, 0x00)
		poke(0xffff, 0x20)
		poke(0x1000, 0x00)
		c, r = execute(0)
		assert(r == "break encountered", r)
		assert(reg("pc") == 0x2000)
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestScriptReset(t *testing.T) {
	h := New()
	err := h.RunScriptString(`
		poke(0xfffc, 0x00)
		poke(0xfffd, 0xc0)
		setreg("a", 0x99)
		reset()
		assert(reg("pc") == 0xc000)
		assert(reg("a") == 0)
		assert(cycles() == 0)
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestScriptErrors(t *testing.T) {
	h := New()
	tests := []string{
		`reg("q")`,
		`poke(0x10000, 1)`,
		`poke(0, 256)`,
		`flag("sideways")`,
		`error("boom")`,
	}
	for _, src := range tests {
		if err := h.RunScriptString(src); err == nil {
			t.Errorf("%s: expected an error", src)
		}
	}
}

func TestScriptCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lua")
	src := `print("hello", 6502)
setreg("x", 7)`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	h := New()
	out := runHost(t, h, "script "+path)
	expectOutput(t, out, "hello\t6502")
	if h.cpu.Reg.X != 7 {
		t.Errorf("X incorrect: $%02X", h.cpu.Reg.X)
	}

	out = runHost(t, h, "script "+filepath.Join(dir, "missing.lua"))
	if !strings.Contains(out, "ERROR: script 'missing.lua' failed") {
		t.Errorf("missing script not reported:\n%s", out)
	}
}
