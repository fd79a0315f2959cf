// Package jsgen renders synthesized classes as JavaScript, so that compiled
// templates can run in a browser or an embedded interpreter.
//
// Classes live in a table named by Options.Table (default "$classes"), keyed
// by their full name. The runtime classes referenced by the emitted code,
// such as the DomBuilder and the directive components, must be registered in
// the same table before a template is rendered. A class is a constructor
// function; instance methods are set on its prototype and static methods on
// the function itself, both under their plain names. Fields are plain
// properties.
package jsgen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robfig/flavour/model"
)

// DefaultTable is the global holding the class table.
const DefaultTable = "$classes"

type Options struct {
	Table string
}

type state struct {
	wr           io.Writer
	table        string
	cls          *model.ClassHolder // current class, for errors
	indentLevels int
}

// Write renders classes to out. It starts with a prelude defining the table
// and the root Object class, if they do not exist yet.
func Write(out io.Writer, classes []*model.ClassHolder, opts Options) (err error) {
	defer errRecover(&err)
	var s = &state{wr: out, table: opts.Table}
	if s.table == "" {
		s.table = DefaultTable
	}
	s.prelude()
	for _, cls := range classes {
		s.visitClass(cls)
	}
	return nil
}

// errorf formats the error and terminates processing.
func (s *state) errorf(format string, args ...interface{}) {
	if s.cls != nil {
		format = "class " + s.cls.Name + ": " + format
	}
	panic(fmt.Errorf(format, args...))
}

// errRecover is the handler that turns panics into returns from the top
// level of Write.
func errRecover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if err, ok := e.(error); ok {
		*errp = err
		return
	}
	*errp = fmt.Errorf("%v", e)
}

func (s *state) prelude() {
	s.jsln("var ", s.table, " = ", s.table, " || {};")
	var object = s.class(model.ObjectClass)
	s.jsln("if (!", object, ") {")
	s.indentLevels++
	s.jsln(object, " = function() {};")
	s.jsln(object, ".prototype[\"<init>\"] = function() {};")
	s.indentLevels--
	s.jsln("}")
}

func (s *state) visitClass(cls *model.ClassHolder) {
	s.cls = cls
	var header = "// class " + cls.Name
	if len(cls.Interfaces) > 0 {
		header += " implements " + strings.Join(cls.Interfaces, ", ")
	}
	s.jsln("")
	s.jsln(header)
	s.jsln(s.class(cls.Name), " = function() {};")
	if cls.Parent != "" && cls.Parent != model.ObjectClass {
		s.jsln(s.class(cls.Name), ".prototype = Object.create(", s.class(cls.Parent), ".prototype);")
	}

	var seen = make(map[string]bool)
	for _, m := range cls.Methods {
		var key = m.Name
		if m.Static {
			key = "static " + key
		}
		if seen[key] {
			s.errorf("overloaded method %s", m.Name)
		}
		seen[key] = true
		s.visitMethod(cls, m)
	}
	s.cls = nil
}

func (s *state) visitMethod(cls *model.ClassHolder, m *model.MethodHolder) {
	if m.Program == nil {
		s.errorf("method %s%s has no body", m.Name, m.Desc)
	}
	if len(m.Program.Blocks) != 1 {
		s.errorf("method %s%s has %d blocks", m.Name, m.Desc, len(m.Program.Blocks))
	}

	var first, target = 0, s.class(cls.Name) + ".prototype"
	if m.Static {
		target = s.class(cls.Name)
	} else {
		first = 1
	}
	var params []string
	for i := first; i < m.Arity(); i++ {
		params = append(params, vname(m.Program.Variables[i]))
	}

	s.jsln(target, "[", strconv.Quote(m.Name), "] = function(", strings.Join(params, ", "), ") {")
	s.indentLevels++
	if !m.Static {
		s.jsln("var ", vname(m.Program.Variables[0]), " = this;")
	}
	for _, insn := range m.Program.Blocks[0].Instructions {
		s.visitInstruction(insn)
	}
	s.indentLevels--
	s.jsln("};")
}

func (s *state) visitInstruction(insn model.Instruction) {
	switch insn := insn.(type) {
	case *model.ConstructInstruction:
		s.assign(insn.Receiver, "Object.create(", s.class(insn.Type), ".prototype)")
	case *model.InvokeInstruction:
		s.visitInvoke(insn)
	case *model.GetFieldInstruction:
		s.assign(insn.Receiver, vname(insn.Instance), "[", strconv.Quote(insn.Field.FieldName), "]")
	case *model.PutFieldInstruction:
		s.jsln(vname(insn.Instance), "[", strconv.Quote(insn.Field.FieldName), "] = ", vname(insn.Value), ";")
	case *model.CastInstruction:
		s.assign(insn.Receiver, vname(insn.Value))
	case *model.StringConstantInstruction:
		s.assign(insn.Receiver, strconv.Quote(insn.Constant))
	case *model.ExitInstruction:
		if insn.ValueToReturn == nil {
			s.jsln("return;")
		} else {
			s.jsln("return ", vname(insn.ValueToReturn), ";")
		}
	default:
		s.errorf("unsupported instruction: %v", insn)
	}
}

func (s *state) visitInvoke(insn *model.InvokeInstruction) {
	var method = strconv.Quote(insn.Method.Name)
	var args = vnames(insn.Arguments)
	var call string
	switch {
	case insn.Instance == nil:
		call = s.class(insn.Method.ClassName) + "[" + method + "](" + strings.Join(args, ", ") + ")"
	case insn.Type == model.Special:
		call = s.class(insn.Method.ClassName) + ".prototype[" + method + "].call(" +
			strings.Join(append([]string{vname(insn.Instance)}, args...), ", ") + ")"
	default:
		call = vname(insn.Instance) + "[" + method + "](" + strings.Join(args, ", ") + ")"
	}
	if insn.Receiver == nil {
		s.jsln(call, ";")
		return
	}
	s.assign(insn.Receiver, call)
}

func (s *state) assign(v *model.Variable, expr ...string) {
	s.jsln(append([]string{"var ", vname(v), " = "}, append(expr, ";")...)...)
}

// class returns the expression naming the constructor of className.
func (s *state) class(className string) string {
	return s.table + "[" + strconv.Quote(className) + "]"
}

func vname(v *model.Variable) string {
	return "v" + strconv.Itoa(v.Index)
}

func vnames(vars []*model.Variable) []string {
	var names []string
	for _, v := range vars {
		names = append(names, vname(v))
	}
	return names
}

func (s *state) indent() {
	for i := 0; i < s.indentLevels; i++ {
		s.wr.Write([]byte("  "))
	}
}

func (s *state) jsln(args ...string) {
	s.indent()
	for _, arg := range args {
		s.wr.Write([]byte(arg))
	}
	s.wr.Write([]byte("\n"))
}
