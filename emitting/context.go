package emitting

import (
	"fmt"
	"sort"

	"github.com/robfig/flavour/model"
)

// Agent is the host build pipeline as seen by the emitter.
type Agent interface {
	// GenerateClassName returns a class name no other class uses.
	GenerateClassName() string
	// SubmitClass hands over a finished class. The emitter does not touch
	// the class afterwards.
	SubmitClass(cls *model.ClassHolder) error
}

// EmittedVariable is a directive variable visible to nested content. Depth is
// the position on the ownership chain of the class holding its field.
type EmittedVariable struct {
	Name  string
	Depth int
	Type  model.ValueType
}

// Context is the scope and symbol table of one template compilation.
//
// The ownership chain is the stack of classes enclosing the code being
// emitted; each class reaches the one below it through OwnerField. Every
// entry of the chain has a snapshot of the variables looked up while it was
// the innermost scope. Variables are kept as a stack per name, so that a
// nested directive may shadow a variable of an outer one.
type Context struct {
	agent     Agent
	chain     []string
	boundVars []map[string]*EmittedVariable
	variables map[string][]*EmittedVariable
	captures  map[string][]string
	submitted []string
}

func NewContext(agent Agent) *Context {
	return &Context{
		agent:     agent,
		variables: make(map[string][]*EmittedVariable),
		captures:  make(map[string][]string),
	}
}

// Agent returns the pipeline the compilation submits classes to.
func (c *Context) Agent() Agent {
	return c.agent
}

// EnterScope pushes owner onto the ownership chain together with a fresh,
// empty snapshot.
func (c *Context) EnterScope(owner string) {
	c.chain = append(c.chain, owner)
	c.boundVars = append(c.boundVars, make(map[string]*EmittedVariable))
}

// ExitScope pops the innermost scope and returns its snapshot: every name
// looked up in it, mapped to the binding found or nil. All variables bound
// in the scope must have been unbound. The names found in enclosing scopes
// are recorded as the captures of the scope's class.
func (c *Context) ExitScope() map[string]*EmittedVariable {
	if len(c.chain) == 0 {
		assertf("exit from an empty scope stack")
	}
	var depth = len(c.chain) - 1
	for name, stack := range c.variables {
		if stack[len(stack)-1].Depth >= depth {
			assertf("variable %s is still bound when leaving %s", name, c.chain[depth])
		}
	}
	var vars = c.boundVars[depth]
	var captured []string
	for name, v := range vars {
		if v != nil && v.Depth < depth {
			captured = append(captured, name)
		}
	}
	if len(captured) > 0 {
		sort.Strings(captured)
		c.captures[c.chain[depth]] = captured
	}
	c.boundVars = c.boundVars[:depth]
	c.chain = c.chain[:depth]
	return vars
}

// Captures maps every class that has left the ownership chain to the
// sorted names of the enclosing variables its code read.
func (c *Context) Captures() map[string][]string {
	return c.captures
}

// SubmitClass verifies every method body of cls and hands it to the
// pipeline.
func (c *Context) SubmitClass(cls *model.ClassHolder) error {
	for _, m := range cls.Methods {
		if err := model.Verify(m); err != nil {
			return fmt.Errorf("class %s: %v", cls.Name, err)
		}
	}
	if err := c.agent.SubmitClass(cls); err != nil {
		return fmt.Errorf("submitting %s: %v", cls.Name, err)
	}
	c.submitted = append(c.submitted, cls.Name)
	return nil
}

// Submitted lists the classes submitted so far, in order.
func (c *Context) Submitted() []string {
	return c.submitted
}

// Depth is the length of the ownership chain.
func (c *Context) Depth() int {
	return len(c.chain)
}

// Owner returns the innermost class of the ownership chain.
func (c *Context) Owner() string {
	if len(c.chain) == 0 {
		assertf("no enclosing class")
	}
	return c.chain[len(c.chain)-1]
}

// Chain returns a copy of the ownership chain, outermost first.
func (c *Context) Chain() []string {
	return append([]string(nil), c.chain...)
}

// Lookup returns the innermost binding of name, or nil if it is unbound.
// The result is recorded in the snapshot of the current scope.
func (c *Context) Lookup(name string) *EmittedVariable {
	if len(c.boundVars) == 0 {
		assertf("lookup of %s outside of any scope", name)
	}
	var v *EmittedVariable
	if stack := c.variables[name]; len(stack) > 0 {
		v = stack[len(stack)-1]
	}
	c.boundVars[len(c.boundVars)-1][name] = v
	return v
}

// Bind makes name refer to a field of the innermost class, shadowing any
// outer binding of the same name.
func (c *Context) Bind(name string, typ model.ValueType) {
	if len(c.chain) == 0 {
		assertf("bind of %s outside of any scope", name)
	}
	c.variables[name] = append(c.variables[name], &EmittedVariable{
		Name:  name,
		Depth: len(c.chain) - 1,
		Type:  typ,
	})
}

// Unbind removes the innermost binding of name, making the shadowed binding
// (if any) visible again. Only bindings of the innermost scope may be
// removed.
func (c *Context) Unbind(name string) {
	var stack = c.variables[name]
	if len(stack) == 0 {
		assertf("unbind of unbound variable %s", name)
	}
	if top := stack[len(stack)-1]; top.Depth != len(c.chain)-1 {
		assertf("unbind of %s bound at depth %d from depth %d", name, top.Depth, len(c.chain)-1)
	}
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(c.variables, name)
	} else {
		c.variables[name] = stack
	}
}

// AddLinkConstructor gives cls a constructor taking the instance of the
// innermost class of the ownership chain and storing it in OwnerField.
func (c *Context) AddLinkConstructor(cls *model.ClassHolder) {
	var ownerType = model.Object(c.Owner())
	cls.AddField(&model.FieldHolder{Name: OwnerField, Type: ownerType, Level: model.Public})

	var ctor = model.NewMethodHolder("<init>", ownerType, model.Void)
	var prog = model.NewProgram()
	var thisVar = prog.CreateVariable()
	var ownerVar = prog.CreateVariable()
	var block = prog.CreateBasicBlock()

	var parent = cls.Parent
	if parent == "" {
		parent = model.ObjectClass
	}
	block.Add(&model.InvokeInstruction{
		Type:     model.Special,
		Instance: thisVar,
		Method:   model.NewMethodReference(parent, "<init>", model.Void),
	})
	block.Add(&model.PutFieldInstruction{
		Instance:  thisVar,
		Field:     model.FieldReference{ClassName: cls.Name, FieldName: OwnerField},
		FieldType: ownerType,
		Value:     ownerVar,
	})
	block.Add(&model.ExitInstruction{})

	ctor.Program = prog
	cls.AddMethod(ctor)
}

// EmitVariableRead appends to site the instructions reading the variable
// name: one OwnerField read per ownership level between the reading class
// and the class holding the variable, then the variable field itself. It
// returns false when name is unbound.
func (c *Context) EmitVariableRead(site Site, name string) (*model.Variable, model.ValueType, bool) {
	var v = c.Lookup(name)
	if v == nil {
		return nil, "", false
	}
	var depth = c.indexOf(site.Class)
	if depth < 0 {
		assertf("class %s is not on the ownership chain", site.Class)
	}
	if v.Depth > depth {
		assertf("variable %s is bound inside %s", name, site.Class)
	}

	var prog = site.Block.Program()
	var cur, curClass = site.This, site.Class
	for i := depth; i > v.Depth; i-- {
		var outer = c.chain[i-1]
		var r = prog.CreateVariable()
		site.Block.Add(&model.GetFieldInstruction{
			Instance:  cur,
			Field:     model.FieldReference{ClassName: curClass, FieldName: OwnerField},
			FieldType: model.Object(outer),
			Receiver:  r,
		})
		cur, curClass = r, outer
	}
	var r = prog.CreateVariable()
	site.Block.Add(&model.GetFieldInstruction{
		Instance:  cur,
		Field:     model.FieldReference{ClassName: curClass, FieldName: VarField(name)},
		FieldType: v.Type,
		Receiver:  r,
	})
	return r, v.Type, true
}

func (c *Context) indexOf(className string) int {
	for i := len(c.chain) - 1; i >= 0; i-- {
		if c.chain[i] == className {
			return i
		}
	}
	return -1
}
