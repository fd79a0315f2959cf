package model

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a readable listing of the class to w.
func Disassemble(w io.Writer, c *ClassHolder) error {
	var header = "class " + c.Name
	if c.Parent != "" && c.Parent != ObjectClass {
		header += " extends " + c.Parent
	}
	if len(c.Interfaces) > 0 {
		header += " implements " + strings.Join(c.Interfaces, ", ")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, f := range c.Fields {
		if _, err := fmt.Fprintf(w, "  %v field %s %s\n", f.Level, f.Name, f.Type); err != nil {
			return err
		}
	}
	for _, m := range c.Methods {
		var static = ""
		if m.Static {
			static = " static"
		}
		if _, err := fmt.Fprintf(w, "  %v%s method %s%s\n", m.Level, static, m.Name, m.Desc); err != nil {
			return err
		}
		if m.Program == nil {
			continue
		}
		for _, block := range m.Program.Blocks {
			if len(m.Program.Blocks) > 1 {
				if _, err := fmt.Fprintf(w, "   $%d:\n", block.Index); err != nil {
					return err
				}
			}
			for _, insn := range block.Instructions {
				if _, err := fmt.Fprintf(w, "    %v\n", insn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Listing returns the disassembly of every class, separated by blank lines.
func Listing(classes ...*ClassHolder) string {
	var buf bytes.Buffer
	for i, c := range classes {
		if i > 0 {
			buf.WriteByte('\n')
		}
		Disassemble(&buf, c)
	}
	return buf.String()
}
