package model

import "fmt"

// Verify checks that the body of m is well formed:
//   - every variable belongs to the program and is assigned at most once,
//   - no instruction reads a variable before the instruction assigning it,
//   - every block ends with an Exit.
//
// The receiver and parameters count as assigned on entry.
func Verify(m *MethodHolder) error {
	var prog = m.Program
	if prog == nil {
		return fmt.Errorf("%s%s: no program", m.Name, m.Desc)
	}
	if len(prog.Variables) < m.Arity() {
		return fmt.Errorf("%s%s: %d variables, need %d for receiver and parameters",
			m.Name, m.Desc, len(prog.Variables), m.Arity())
	}
	if len(prog.Blocks) == 0 {
		return fmt.Errorf("%s%s: no blocks", m.Name, m.Desc)
	}

	var defined = make([]bool, len(prog.Variables))
	for i := 0; i < m.Arity(); i++ {
		defined[i] = true
	}
	var owned = func(v *Variable) bool {
		return v.Index >= 0 && v.Index < len(prog.Variables) && prog.Variables[v.Index] == v
	}

	for _, block := range prog.Blocks {
		for n, insn := range block.Instructions {
			for _, use := range insn.Uses() {
				if use == nil || !owned(use) {
					return fmt.Errorf("%s%s: block %d, insn %d (%v): foreign variable",
						m.Name, m.Desc, block.Index, n, insn)
				}
				if !defined[use.Index] {
					return fmt.Errorf("%s%s: block %d, insn %d (%v): %v read before assignment",
						m.Name, m.Desc, block.Index, n, insn, use)
				}
			}
			if def := insn.Def(); def != nil {
				if !owned(def) {
					return fmt.Errorf("%s%s: block %d, insn %d (%v): foreign variable",
						m.Name, m.Desc, block.Index, n, insn)
				}
				if defined[def.Index] {
					return fmt.Errorf("%s%s: block %d, insn %d (%v): %v assigned twice",
						m.Name, m.Desc, block.Index, n, insn, def)
				}
				defined[def.Index] = true
			}
		}
		var last = len(block.Instructions) - 1
		if last < 0 || block.Instructions[last].Opcode() != Exit {
			return fmt.Errorf("%s%s: block %d does not end with an exit", m.Name, m.Desc, block.Index)
		}
	}
	return nil
}
