// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/terrysimons/mos6502-sub003/cpu"
	lua "github.com/yuin/gopher-lua"
)

// RunScript loads a Lua script from disk and runs it against the host's
// CPU and memory.
func (h *Host) RunScript(filename string) error {
	L := h.newScriptState()
	defer L.Close()

	if err := L.DoFile(filename); err != nil {
		return errors.Wrapf(err, "script '%s' failed", filepath.Base(filename))
	}
	return nil
}

// RunScriptString runs a Lua chunk against the host's CPU and memory.
func (h *Host) RunScriptString(src string) error {
	L := h.newScriptState()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return errors.Wrap(err, "script failed")
	}
	return nil
}

func (h *Host) newScriptState() *lua.LState {
	L := lua.NewState()
	funcs := map[string]lua.LGFunction{
		"reset":   h.luaReset,
		"step":    h.luaStep,
		"execute": h.luaExecute,
		"reg":     h.luaReg,
		"setreg":  h.luaSetReg,
		"flag":    h.luaFlag,
		"setflag": h.luaSetFlag,
		"peek":    h.luaPeek,
		"poke":    h.luaPoke,
		"cycles":  h.luaCycles,
		"print":   h.luaPrint,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

func (h *Host) luaReset(L *lua.LState) int {
	h.cpu.Reset()
	return 0
}

// step() runs one instruction and returns its cycle cost and stop reason.
func (h *Host) luaStep(L *lua.LState) int {
	o := h.cpu.Step()
	L.Push(lua.LNumber(o.Cycles))
	L.Push(lua.LString(o.Reason.String()))
	return 2
}

// execute(n) runs with a budget of n cycles; n <= 0 runs without limit.
func (h *Host) luaExecute(L *lua.LState) int {
	n := L.OptInt64(1, 0)
	budget := cpu.Unbounded
	if n > 0 {
		budget = cpu.Budget(n)
	}
	o := h.cpu.Execute(budget)
	L.Push(lua.LNumber(o.Cycles))
	L.Push(lua.LString(o.Reason.String()))
	return 2
}

func (h *Host) luaReg(L *lua.LState) int {
	id := checkRegister(L, 1)
	L.Push(lua.LNumber(h.cpu.Reg.Get(id)))
	return 1
}

func (h *Host) luaSetReg(L *lua.LState) int {
	id := checkRegister(L, 1)
	v := L.CheckInt(2)
	h.cpu.Reg.Set(id, uint16(v))
	return 0
}

func (h *Host) luaFlag(L *lua.LState) int {
	f := checkFlag(L, 1)
	L.Push(lua.LBool(h.cpu.Reg.PS.Has(f)))
	return 1
}

func (h *Host) luaSetFlag(L *lua.LState) int {
	f := checkFlag(L, 1)
	v := L.Get(2)
	on := lua.LVAsBool(v)
	if n, ok := v.(lua.LNumber); ok {
		on = n != 0
	}
	h.cpu.SetFlag(f, on)
	return 0
}

func (h *Host) luaPeek(L *lua.LState) int {
	addr := checkAddress(L, 1)
	L.Push(lua.LNumber(h.cpu.Mem.LoadByte(addr)))
	return 1
}

func (h *Host) luaPoke(L *lua.LState) int {
	addr := checkAddress(L, 1)
	v := L.CheckInt(2)
	if v < 0 || v > 0xff {
		L.ArgError(2, "byte value out of range")
	}
	h.cpu.Mem.StoreByte(addr, byte(v))
	return 0
}

func (h *Host) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(h.cpu.Cycles))
	return 1
}

func (h *Host) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	args := make([]string, n)
	for i := 1; i <= n; i++ {
		args[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}

func checkRegister(L *lua.LState, n int) cpu.RegisterID {
	id, err := cpu.ParseRegister(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return id
}

func checkFlag(L *lua.LState, n int) cpu.Status {
	f, err := cpu.ParseFlag(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return f
}

func checkAddress(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(v)
}
