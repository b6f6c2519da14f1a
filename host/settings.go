// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/pkg/errors"
)

type settings struct {
	Variant            string `doc:"cpu variant (6502, 6502a, 6502c, 65c02)"`
	Strict             bool   `doc:"treat undocumented opcodes as illegal"`
	ANEMagic           uint8  `doc:"constant used by the unstable ANE opcode"`
	LXAMagic           uint8  `doc:"constant used by the unstable LXA opcode"`
	HexMode            bool   `doc:"hexadecimal input mode"`
	MemDumpBytes       int    `doc:"default number of memory bytes to dump"`
	StepLinesToDisplay int    `doc:"max lines to display when stepping"`
	RunSlice           int    `doc:"cycles run between interrupt checks"`
	TraceRun           bool   `doc:"display each instruction while running"`
}

func newSettings() *settings {
	return &settings{
		Variant:            "65c02",
		Strict:             false,
		ANEMagic:           0xee,
		LXAMagic:           0xee,
		HexMode:            false,
		MemDumpBytes:       64,
		StepLinesToDisplay: 20,
		RunSlice:           10000,
		TraceRun:           false,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-20s \"%s\"", f.name, v.String())
		case reflect.Uint8:
			s = fmt.Sprintf("    %-20s $%02X", f.name, uint8(v.Uint()))
		default:
			s = fmt.Sprintf("    %-20s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-34s (%s)\n", s, f.doc)
	}
}

// Field returns the setting whose name starts with the unambiguous prefix
// key.
func (s *settings) Field(key string) (*settingsField, error) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return nil, errors.Wrapf(err, "setting '%s'", key)
	}
	return f, nil
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := s.Field(key)
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := s.Field(key)
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vInConverted)

	return nil
}
