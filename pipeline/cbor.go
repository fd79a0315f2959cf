package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/robfig/flavour/model"
)

// ClassRecord is the wire form of a synthesized class. A class stream is a
// sequence of CBOR-encoded ClassRecords.
type ClassRecord struct {
	Name       string         `cbor:"name"`
	Parent     string         `cbor:"parent,omitempty"`
	Interfaces []string       `cbor:"interfaces,omitempty"`
	Fields     []FieldRecord  `cbor:"fields,omitempty"`
	Methods    []MethodRecord `cbor:"methods,omitempty"`
}

type FieldRecord struct {
	Name   string `cbor:"name"`
	Type   string `cbor:"type"`
	Access string `cbor:"access"`
}

type MethodRecord struct {
	Name   string         `cbor:"name"`
	Desc   string         `cbor:"desc"`
	Access string         `cbor:"access"`
	Static bool           `cbor:"static,omitempty"`
	Blocks [][]InsnRecord `cbor:"blocks"`
}

// InsnRecord is one instruction. Def is -1 when nothing is assigned. Uses
// lists variable indexes in operand order; for an instance invocation the
// instance comes first.
type InsnRecord struct {
	Op       string `cbor:"op"`
	Def      int    `cbor:"def"`
	Uses     []int  `cbor:"uses,omitempty"`
	Ref      string `cbor:"ref,omitempty"`
	Type     string `cbor:"type,omitempty"`
	Const    string `cbor:"const,omitempty"`
	Dispatch string `cbor:"dispatch,omitempty"`
	Static   bool   `cbor:"static,omitempty"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("pipeline: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// NewClassRecord converts cls to its wire form.
func NewClassRecord(cls *model.ClassHolder) ClassRecord {
	var rec = ClassRecord{Name: cls.Name, Parent: cls.Parent, Interfaces: cls.Interfaces}
	for _, f := range cls.Fields {
		rec.Fields = append(rec.Fields, FieldRecord{f.Name, string(f.Type), f.Level.String()})
	}
	for _, m := range cls.Methods {
		var mr = MethodRecord{Name: m.Name, Desc: m.Desc.String(), Access: m.Level.String(), Static: m.Static}
		if m.Program != nil {
			for _, block := range m.Program.Blocks {
				var code []InsnRecord
				for _, insn := range block.Instructions {
					code = append(code, newInsnRecord(insn))
				}
				mr.Blocks = append(mr.Blocks, code)
			}
		}
		rec.Methods = append(rec.Methods, mr)
	}
	return rec
}

func newInsnRecord(insn model.Instruction) InsnRecord {
	var r = InsnRecord{Op: insn.Opcode().String(), Def: -1}
	if def := insn.Def(); def != nil {
		r.Def = def.Index
	}
	for _, use := range insn.Uses() {
		r.Uses = append(r.Uses, use.Index)
	}
	switch insn := insn.(type) {
	case *model.ConstructInstruction:
		r.Ref = insn.Type
	case *model.InvokeInstruction:
		r.Ref = insn.Method.String()
		r.Dispatch = insn.Type.String()
		r.Static = insn.Instance == nil
	case *model.GetFieldInstruction:
		r.Ref = insn.Field.String()
		r.Type = string(insn.FieldType)
	case *model.PutFieldInstruction:
		r.Ref = insn.Field.String()
		r.Type = string(insn.FieldType)
	case *model.CastInstruction:
		r.Type = string(insn.TargetType)
	case *model.StringConstantInstruction:
		r.Const = insn.Constant
	}
	return r
}

// WriteClasses streams classes to w, one CBOR item per class.
func WriteClasses(w io.Writer, classes []*model.ClassHolder) error {
	var enc = cborEncMode.NewEncoder(w)
	for _, cls := range classes {
		if err := enc.Encode(NewClassRecord(cls)); err != nil {
			return fmt.Errorf("pipeline: encode %s: %w", cls.Name, err)
		}
	}
	return nil
}

// ReadClasses reads a class stream written by WriteClasses.
func ReadClasses(r io.Reader) ([]ClassRecord, error) {
	var dec = cbor.NewDecoder(r)
	var records []ClassRecord
	for {
		var rec ClassRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: decode class %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}
