package model

import "strconv"

// Program is a method body.
type Program struct {
	Variables []*Variable
	Blocks    []*BasicBlock
}

// Variable is a value slot of a Program, assigned at most once.
type Variable struct {
	Index int
}

func (v *Variable) String() string {
	if v == nil {
		return "@?"
	}
	return "@" + strconv.Itoa(v.Index)
}

func NewProgram() *Program {
	return &Program{}
}

func (p *Program) CreateVariable() *Variable {
	v := &Variable{len(p.Variables)}
	p.Variables = append(p.Variables, v)
	return v
}

func (p *Program) CreateBasicBlock() *BasicBlock {
	b := &BasicBlock{Index: len(p.Blocks), program: p}
	p.Blocks = append(p.Blocks, b)
	return b
}

// BasicBlock is a strictly ordered instruction sequence.
type BasicBlock struct {
	Index        int
	Instructions []Instruction
	program      *Program
}

func (b *BasicBlock) Program() *Program {
	return b.program
}

func (b *BasicBlock) Add(insns ...Instruction) {
	b.Instructions = append(b.Instructions, insns...)
}
