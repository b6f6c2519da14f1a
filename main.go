// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/beevik/term"
	"github.com/terrysimons/mos6502-sub003/cpu"
	"github.com/terrysimons/mos6502-sub003/host"
)

var (
	variant  string
	strict   bool
	image    string
	batch    bool
	aneMagic uint
	lxaMagic uint
)

func init() {
	flag.StringVar(&variant, "cpu", "65c02", "cpu variant (6502, 6502a, 6502c, 65c02)")
	flag.BoolVar(&strict, "strict", false, "treat undocumented opcodes as illegal")
	flag.StringVar(&image, "image", "", "64K memory image to load at startup")
	flag.BoolVar(&batch, "batch", false, "exit after running the command files")
	flag.UintVar(&aneMagic, "ane", cpu.DefaultANEMagic, "ANE opcode constant")
	flag.UintVar(&lxaMagic, "lxa", cpu.DefaultLXAMagic, "LXA opcode constant")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: mos6502 [options] [script.cmd|script.lua] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	v, err := cpu.ParseVariant(variant)
	if err != nil {
		exitOnError(err)
	}

	h := host.New()
	h.SetOutput(os.Stdout)
	cfg := cpu.Config{
		Variant:  v,
		Strict:   strict,
		ANEMagic: byte(aneMagic),
		LXAMagic: byte(lxaMagic),
	}
	if err := h.Configure(cfg); err != nil {
		exitOnError(err)
	}

	if image != "" {
		if err := h.Load(image, -1); err != nil {
			exitOnError(err)
		}
	}

	// Run commands and scripts named on the command line.
	for _, filename := range flag.Args() {
		if strings.ToLower(filepath.Ext(filename)) == ".lua" {
			if err := h.RunScript(filename); err != nil {
				exitOnError(err)
			}
			continue
		}

		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	if batch {
		return
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	h.RunCommands(os.Stdin, os.Stdout, interactive)
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
