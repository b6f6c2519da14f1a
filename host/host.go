// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with a 6502-family CPU, 64K of memory, a built-in debugger and a Lua
// scripting bridge.
//
// Within the host it is possible to load machine code into memory, step
// through it, run it with a cycle budget, measure the number of CPU cycles
// elapsed, raise interrupts, set address and data breakpoints, dump the
// contents of memory, and manipulate CPU registers and memory.
package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/pkg/errors"
	"github.com/terrysimons/mos6502-sub003/cpu"
)

var errQuit = errors.New("Exiting program")

// A Host represents a fully emulated 6502 system, 64K of memory, a built-in
// debugger, and other useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *selection
	settings    *settings
	nextDump    uint16
	interrupted atomic.Bool
}

// New creates a new 6502 host environment with a 65c02 CPU.
func New() *Host {
	h := &Host{
		output:   bufio.NewWriter(io.Discard),
		settings: newSettings(),
		mem:      cpu.NewFlatMemory(),
	}

	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	if err := h.applyConfig(); err != nil {
		panic(err)
	}
	h.cpu.Reset()
	return h
}

// CPU returns the host's emulated CPU.
func (h *Host) CPU() *cpu.CPU {
	return h.cpu
}

// SetOutput directs host output, including Lua print calls, to w.
func (h *Host) SetOutput(w io.Writer) {
	h.output = bufio.NewWriter(w)
}

// Configure switches the CPU to cfg. Registers, memory, the cycle counter,
// the jam state and breakpoints are preserved.
func (h *Host) Configure(cfg cpu.Config) error {
	if !cfg.Variant.Valid() {
		return errors.Errorf("invalid cpu variant %d", cfg.Variant)
	}
	h.settings.Variant = cfg.Variant.String()
	h.settings.Strict = cfg.Strict
	h.settings.ANEMagic = cfg.ANEMagic
	h.settings.LXAMagic = cfg.LXAMagic
	return h.applyConfig()
}

// applyConfig brings the CPU in line with the CPU-related settings,
// creating it on first use.
func (h *Host) applyConfig() error {
	v, err := cpu.ParseVariant(h.settings.Variant)
	if err != nil {
		return err
	}

	cfg := cpu.Config{
		Variant:  v,
		Strict:   h.settings.Strict,
		ANEMagic: h.settings.ANEMagic,
		LXAMagic: h.settings.LXAMagic,
	}
	switch {
	case h.cpu == nil:
		h.cpu = cpu.NewCPUWithConfig(cfg, h.mem)
		h.cpu.AttachDebugger(h.debugger)
	case h.cpu.Config != cfg:
		h.cpu.Reconfigure(cfg)
	}
	return nil
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. Lines starting
// with '#' are comments.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		var c selection
		if line != "" {
			n, args, err := cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
			if t, ok := n.(*cmd.Tree); ok {
				t.DisplayHelp(h.output)
				h.flush()
				continue
			}
			c = selection{cmd: n.(*cmd.Command), args: args}
		} else if h.lastCmd != nil && interactive {
			c = *h.lastCmd
		}

		if c.cmd == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.cmd.Data.(func(*Host, selection) error)
		err = handler(h, c)
		if err == errQuit {
			break
		}
		if err != nil {
			h.printf("ERROR: %v\n", err)
		}
	}
	h.flush()
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine, such as a signal handler.
func (h *Host) Break() {
	h.interrupted.Store(true)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		h.println(h.decode(h.cpu.Reg.PC))
	}
}

// decode returns a one-line view of the instruction at addr followed by the
// register contents and the cycle counter.
func (h *Host) decode(addr uint16) string {
	inst := h.cpu.GetInstruction(addr)

	b := make([]byte, inst.Length)
	h.cpu.Mem.LoadBytes(addr, b)

	var line string
	switch {
	case !inst.Defined():
		line = "???"
	case inst.Mode.OperandSize() == 0 && inst.Mode != cpu.ACC:
		line = inst.Name
	default:
		line = inst.Name + " " + operandString(inst.Mode, addr, b)
	}

	return fmt.Sprintf("%04X-   %-8s    %-15s %s C=%-12d",
		addr, codeString(b), line, h.cpu.Reg.String(), h.cpu.Cycles)
}

func (h *Host) displayUsage(c selection) {
	if c.cmd.Usage == "" {
		h.println("<no help text>")
		return
	}
	c.cmd.DisplayUsage(h.output)
	h.flush()
}

func (h *Host) cmdHelp(c selection) error {
	err := cmds.GetHelp(h.output, c.args)
	h.flush()
	if err != nil {
		h.printf("Help topic '%s' not found.\n", strings.Join(c.args, " "))
	}
	return nil
}

func (h *Host) cmdBreakpointList(c selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c selection) error {
	b, ok := h.lookupBreakpoint(c)
	if !ok {
		return nil
	}

	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c selection) error {
	b, ok := h.lookupBreakpoint(c)
	if !ok {
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointDisable(c selection) error {
	b, ok := h.lookupBreakpoint(c)
	if !ok {
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) lookupBreakpoint(c selection) (*cpu.Breakpoint, bool) {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil, false
	}

	addr, err := h.parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil, false
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil, false
	}
	return b, true
}

func (h *Host) cmdDataBreakpointList(c selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.args) > 1 {
		value, err := h.parseByte(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdIRQ(c selection) error {
	if !h.cpu.IRQ() {
		h.println("IRQ ignored.")
		return nil
	}
	h.printf("IRQ serviced. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdNMI(c selection) error {
	if !h.cpu.NMI() {
		h.println("NMI ignored.")
		return nil
	}
	h.printf("NMI serviced. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdLoad(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := c.args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	loadAddr := -1
	if len(c.args) >= 2 {
		addr, err := h.parseAddr(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		loadAddr = int(addr)
	}

	return h.Load(filename, loadAddr)
}

// Load reads a binary file into memory. If addr is negative the file must
// be a full 64K memory image; it replaces memory and the CPU is reset.
// Otherwise the file is stored at addr and the program counter is set to
// addr.
func (h *Host) Load(filename string, addr int) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to load '%s'", filepath.Base(filename))
	}

	if addr < 0 {
		m, err := cpu.NewFlatMemoryFromImage(b)
		if err != nil {
			return errors.Wrapf(err, "failed to load '%s'", filepath.Base(filename))
		}
		h.mem = m
		h.cpu.Mem = m
		h.cpu.Reset()
		h.printf("Loaded '%s' as a memory image. PC=$%04X.\n", filepath.Base(filename), h.cpu.Reg.PC)
		return nil
	}

	if len(b) == 0 || addr+len(b) > cpu.MemorySize {
		return errors.Errorf("'%s' does not fit at $%04X", filepath.Base(filename), addr)
	}

	origin := uint16(addr)
	h.cpu.Mem.StoreBytes(origin, b)
	h.cpu.SetPC(origin)
	h.printf("Loaded '%s' to $%04X..$%04X\n", filepath.Base(filename), origin, addr+len(b)-1)
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}

	var addr uint16
	switch c.args[0] {
	case "$":
		addr = h.nextDump
	default:
		a, err := h.parseAddr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.args) >= 2 {
		n, err := h.parseNumber(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = int(n)
	}
	if bytes <= 0 {
		return nil
	}
	bytes = min(bytes, cpu.MemorySize)

	h.dumpMemory(addr, bytes)

	h.nextDump = addr + uint16(bytes)
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c selection) error {
	if len(c.args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.args)-1)
	for _, s := range c.args[1:] {
		v, err := h.parseByte(s)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, v)
	}

	h.cpu.Mem.StoreBytes(addr, b)
	h.printf("Stored %d byte(s) at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdMemoryFill(c selection) error {
	switch len(c.args) {
	case 1:
		v, err := h.parseByte(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.mem.Fill(v)
		h.printf("Memory filled with $%02X.\n", v)

	case 3:
		addr, err := h.parseAddr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count, err := h.parseNumber(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		v, err := h.parseByte(c.args[2])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		for i := uint64(0); i < count && i < cpu.MemorySize; i++ {
			h.cpu.Mem.StoreByte(addr+uint16(i), v)
		}
		h.printf("Filled %d byte(s) at $%04X with $%02X.\n", min(count, cpu.MemorySize), addr, v)

	default:
		h.displayUsage(c)
	}
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c selection) error {
	if len(c.args) == 0 {
		h.println(h.decode(h.cpu.Reg.PC))
		return nil
	}
	if len(c.args) < 2 {
		h.displayUsage(c)
		return nil
	}

	key, value := c.args[0], c.args[1]

	if id, err := cpu.ParseRegister(key); err == nil {
		v, err := h.parseNumber(value)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.Reg.Set(id, uint16(v))
		if id.Width() == 1 {
			h.printf("Register %s set to $%02X.\n", id, byte(v))
		} else {
			h.printf("Register %s set to $%04X.\n", id, uint16(v))
		}
		return nil
	}

	f, err := cpu.ParseFlag(key)
	if err != nil {
		h.printf("Unknown register or flag '%s'.\n", key)
		return nil
	}
	on, err := stringToBool(value)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.cpu.SetFlag(f, on)
	h.printf("Flag %s set to %v.\n", strings.ToUpper(key), on)
	return nil
}

func (h *Host) cmdReset(c selection) error {
	h.cpu.Reset()
	h.printf("CPU reset. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c selection) error {
	total := int64(cpu.Unbounded)
	if len(c.args) > 0 {
		n, err := h.parseNumber(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		total = int64(n)
	}

	if total < 0 {
		h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
	} else {
		h.printf("Running from $%04X for %d cycles.\n", h.cpu.Reg.PC, total)
	}

	o := h.run(total)
	h.reportOutcome(o)
	h.displayPC()
	return nil
}

// run executes the CPU in slices of settings.RunSlice cycles until a
// terminal condition occurs, the total budget is spent or Break is called.
// A negative total runs without limit.
func (h *Host) run(total int64) cpu.Outcome {
	h.interrupted.Store(false)
	h.cpu.ClearBudget()

	var spent uint64
	for {
		slice := int64(max(h.settings.RunSlice, 1))
		if h.settings.TraceRun {
			slice = 1
		}
		if total >= 0 {
			left := total - int64(spent)
			if left <= 0 {
				return cpu.Outcome{Cycles: spent, Reason: cpu.BudgetExhausted, Addr: h.cpu.Reg.PC}
			}
			slice = min(slice, left)
		}

		o := h.cpu.Execute(cpu.Budget(slice))
		if h.settings.TraceRun && o.Cycles > 0 {
			h.println(h.decode(h.cpu.LastPC))
		}
		spent += o.Cycles
		o.Cycles = spent

		if o.Reason != cpu.BudgetExhausted {
			return o
		}
		if h.interrupted.Load() {
			h.println("Interrupted.")
			return o
		}
	}
}

func (h *Host) reportOutcome(o cpu.Outcome) {
	switch o.Reason {
	case cpu.BudgetExhausted:
		h.printf("Stopped at $%04X after %d cycles.\n", o.Addr, o.Cycles)
	case cpu.BreakEncountered:
		h.printf("BRK at $%04X after %d cycles.\n", o.Addr, o.Cycles)
	case cpu.Jammed:
		h.printf("CPU jammed by opcode $%02X at $%04X. Reset to continue.\n", o.Opcode, o.Addr)
	}
}

func (h *Host) cmdScript(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c)
		return nil
	}
	return h.RunScript(c.args[0])
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := c.args[0], strings.Join(c.args[1:], " ")
		if err := h.Set(key, value); err != nil {
			h.printf("%v\n", err)
		} else {
			h.println("Setting updated.")
		}
	}

	return nil
}

// Set changes the value of the setting whose name starts with key.
func (h *Host) Set(key, value string) error {
	f, err := h.settings.Field(key)
	if err != nil {
		return err
	}

	switch f.kind {
	case reflect.String:
		if f.name == "Variant" {
			if _, err := cpu.ParseVariant(value); err != nil {
				return err
			}
		}
		err = h.settings.Set(key, value)

	case reflect.Bool:
		var v bool
		v, err = stringToBool(value)
		if err == nil {
			err = h.settings.Set(key, v)
		}

	default:
		var v uint64
		v, err = parseNumber(value, h.settings.HexMode)
		if err == nil && f.kind == reflect.Uint8 && v > 0xff {
			err = fmt.Errorf("value '%s' out of range", value)
		}
		if err == nil {
			err = h.settings.Set(key, v)
		}
	}

	if err != nil {
		return err
	}
	return h.applyConfig()
}

func (h *Host) cmdStep(c selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.args) > 0 {
		n, err := h.parseNumber(c.args[0])
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.interrupted.Store(false)
	for i := count - 1; i >= 0; i-- {
		o := h.cpu.Step()
		if o.Reason != cpu.NoStop {
			h.reportOutcome(o)
			h.displayPC()
			break
		}
		switch {
		case i == h.settings.StepLinesToDisplay:
			h.println("...")
		case i < h.settings.StepLinesToDisplay:
			h.displayPC()
		}
		if h.interrupted.Load() {
			h.println("Interrupted.")
			break
		}
	}
	return nil
}

func (h *Host) dumpMemory(addr0 uint16, bytes int) {
	addr1 := addr0 + uint16(bytes-1)
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.cpu.Mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint32(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := h.cpu.Mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) parseNumber(s string) (uint64, error) {
	return parseNumber(s, h.settings.HexMode)
}

// parseAddr converts a register name or a numeric literal into an address.
func (h *Host) parseAddr(s string) (uint16, error) {
	if id, err := cpu.ParseRegister(s); err == nil && id != cpu.RegPS {
		v := h.cpu.Reg.Get(id)
		if id == cpu.RegSP {
			v |= 0x0100
		}
		return v, nil
	}

	v, err := h.parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v > 0xffff {
		return 0, fmt.Errorf("address '%s' out of range", s)
	}
	return uint16(v), nil
}

func (h *Host) parseByte(s string) (byte, error) {
	v, err := h.parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v > 0xff {
		return 0, fmt.Errorf("byte value '%s' out of range", s)
	}
	return byte(v), nil
}

func (h *Host) onBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
}

func (h *Host) onDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	if c.LastPC != c.Reg.PC {
		h.println(h.decode(c.LastPC))
	}
}

func (h *Host) onIllegalOpcode(c *cpu.CPU, addr uint16, opcode byte) {
	h.printf("Illegal opcode $%02X at $%04X.\n", opcode, addr)
}
