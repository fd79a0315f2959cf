// Package emitting compiles template trees into synthesized classes.
//
// Every directive occurrence becomes a class of its own: a Fragment for
// directives standing in the tree, a Modifier for attribute directives, and a
// Variable sink per variable a directive exposes. Directive content becomes a
// Template class. The target has no closures, so each synthesized class keeps
// a single back-reference to the instance that created it, and nested code
// reaches outer variables by following those references.
package emitting

import (
	"fmt"
	"runtime"

	"github.com/robfig/flavour/ast"
	"github.com/robfig/flavour/errortypes"
	"github.com/robfig/flavour/model"
)

// Translator replaces text literals, e.g. with their translation for a
// locale.
type Translator interface {
	Translate(text string) string
}

// Options configure a compilation.
type Options struct {
	Agent    Agent       // required
	Exprs    ExprEmitter // defaults to LinkedLambdas
	Messages Translator  // optional
	File     string      // source file name, for error positions
}

// Result describes the classes produced for one template.
type Result struct {
	Template string   // the template's name
	Class    string   // the root Template class
	Classes  []string // every class submitted, in submission order

	// Captures lists, for each class pushed on the ownership chain, the
	// variables of enclosing classes its code read.
	Captures map[string][]string
}

// Compile emits the classes of one template and submits them to
// opts.Agent. The root class is a Template linked to an instance of the
// template's model class.
func Compile(tmpl *ast.TemplateNode, opts Options) (res *Result, err error) {
	if opts.Agent == nil {
		return nil, fmt.Errorf("template %s: no pipeline agent", tmpl.Name)
	}
	if opts.Exprs == nil {
		opts.Exprs = LinkedLambdas{}
	}
	var c = &compilation{
		ctx:  NewContext(opts.Agent),
		opts: opts,
		res:  &Result{Template: tmpl.Name},
	}
	defer c.errRecover(&err)

	c.at(tmpl)
	var owner = tmpl.Model
	if owner == "" {
		owner = model.ObjectClass
	}
	c.ctx.EnterScope(owner)
	c.res.Class = c.emitTemplate(tmpl.Body)
	c.ctx.ExitScope()
	if c.ctx.Depth() != 0 {
		assertf("ownership chain not empty after compilation: %v", c.ctx.Chain())
	}
	c.res.Classes = c.ctx.Submitted()
	c.res.Captures = c.ctx.Captures()
	return c.res, nil
}

type compilation struct {
	ctx  *Context
	opts Options
	res  *Result
	node ast.Node // current node, for errors
}

// body is the method body being emitted, with the current builder handle.
type body struct {
	Site
	builder *model.Variable
}

// at marks the state to be on node n, for error reporting.
func (c *compilation) at(node ast.Node) {
	c.node = node
}

// errRecover is the handler that turns panics into returns from Compile,
// annotated with the position of the node being compiled.
func (c *compilation) errRecover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if _, ok := e.(runtime.Error); ok {
		panic(e)
	}
	var err, ok = e.(error)
	if !ok {
		err = &InternalError{fmt.Sprint(e)}
	}
	var pos ast.Pos
	if c.node != nil {
		pos = c.node.Position()
	}
	var file = c.opts.File
	if file == "" {
		file = c.res.Template
	}
	*errp = errortypes.WrapTemplatePos(file, pos.Line, pos.Col, err)
}

// walk emits the instructions of node into b.
func (c *compilation) walk(b *body, node ast.Node) {
	var outer = c.node
	c.at(node)
	switch node := node.(type) {
	case *ast.Element:
		c.visitElement(b, node)
	case *ast.Text:
		c.visitText(b, node)
	case *ast.DirectiveBinding:
		c.visitDirective(b, node)
	case *ast.AttributeDirectiveBinding:
		c.visitAttributeDirective(b, node)
	default:
		assertf("unknown node (%T): %v", node, node)
	}
	c.node = outer
}

func (c *compilation) visitElement(b *body, node *ast.Element) {
	var open = "open"
	if node.HasDirectiveChildren() {
		open = "openSlot"
	}
	c.builderCall(b, open, []model.ValueType{model.Object(model.StringClass)},
		c.stringConstant(b, node.Name))

	for _, attr := range node.Attributes {
		var name = c.stringConstant(b, attr.Name)
		var value = c.stringConstant(b, attr.Value)
		c.builderCall(b, "attribute",
			[]model.ValueType{model.Object(model.StringClass), model.Object(model.StringClass)},
			name, value)
	}

	for _, dir := range node.AttributeDirectives {
		c.walk(b, dir)
	}

	for _, child := range node.Nodes {
		c.walk(b, child)
	}

	c.builderCall(b, "close", nil)
}

func (c *compilation) visitText(b *body, node *ast.Text) {
	var value = node.Value
	if c.opts.Messages != nil {
		value = c.opts.Messages.Translate(value)
	}
	c.builderCall(b, "text", []model.ValueType{model.Object(model.StringClass)},
		c.stringConstant(b, value))
}

func (c *compilation) visitDirective(b *body, node *ast.DirectiveBinding) {
	var className = c.emitComponentFragmentClass(node)
	var fragment = c.construct(b.Site, className)
	c.builderCall(b, "add", []model.ValueType{model.Object(FragmentClass)}, fragment)
}

func (c *compilation) visitAttributeDirective(b *body, node *ast.AttributeDirectiveBinding) {
	var className = c.emitModifierClass(node)
	var modifier = c.construct(b.Site, className)
	c.builderCall(b, "add", []model.ValueType{model.Object(ModifierClass)}, modifier)
}

// emitTemplate emits a Template class rendering nodes, linked to the
// innermost class of the ownership chain.
func (c *compilation) emitTemplate(nodes []ast.Node) string {
	var cls = c.newClass(TemplateClass)
	c.ctx.AddLinkConstructor(cls)
	c.ctx.EnterScope(cls.Name)

	var builderType = model.Object(DomBuilderClass)
	var method = model.NewMethodHolder("render", builderType, builderType)
	var prog = model.NewProgram()
	var b = &body{Site: Site{Class: cls.Name, This: prog.CreateVariable()}}
	b.builder = prog.CreateVariable()
	b.Block = prog.CreateBasicBlock()

	for _, node := range nodes {
		c.walk(b, node)
	}
	b.Block.Add(&model.ExitInstruction{ValueToReturn: b.builder})

	method.Program = prog
	cls.AddMethod(method)
	c.ctx.ExitScope()
	c.submit(cls)
	return cls.Name
}

func (c *compilation) emitComponentFragmentClass(node *ast.DirectiveBinding) string {
	var cls = c.newClass(FragmentClass)
	c.emitDirectiveFields(cls, node.Variables)
	c.ctx.AddLinkConstructor(cls)
	c.ctx.EnterScope(cls.Name)

	var method = model.NewMethodHolder("create", model.Object(ComponentClass))
	var prog = model.NewProgram()
	var w = Site{Class: cls.Name, This: prog.CreateVariable()}
	w.Block = prog.CreateBasicBlock()

	var component = prog.CreateVariable()
	w.Block.Add(&model.ConstructInstruction{Type: node.ClassName, Receiver: component})

	var slot = prog.CreateVariable()
	w.Block.Add(&model.InvokeInstruction{
		Type:     model.Special,
		Method:   model.NewMethodReference(SlotClass, "create", model.Object(SlotClass)),
		Receiver: slot,
	})
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Special,
		Instance:  component,
		Method:    model.NewMethodReference(node.ClassName, "<init>", model.Object(SlotClass), model.Void),
		Arguments: []*model.Variable{slot},
	})

	for _, v := range node.Variables {
		c.emitVariable(w, cls, node.ClassName, v, component)
	}
	for _, f := range node.Functions {
		c.emitFunction(w, node.ClassName, f, component)
	}
	if node.ContentMethod != "" {
		c.emitContent(w, node, component)
	}
	if node.NameMethod != "" {
		c.emitDirectiveName(w, node.ClassName, node.NameMethod, node.Name, component)
	}
	w.Block.Add(&model.ExitInstruction{ValueToReturn: component})

	method.Program = prog
	cls.AddMethod(method)

	c.unbindVariables(node.Variables)
	c.ctx.ExitScope()
	c.submit(cls)
	return cls.Name
}

func (c *compilation) emitModifierClass(node *ast.AttributeDirectiveBinding) string {
	var cls = c.newClass(ModifierClass)
	c.emitDirectiveFields(cls, node.Variables)
	c.ctx.AddLinkConstructor(cls)
	c.ctx.EnterScope(cls.Name)

	var method = model.NewMethodHolder("apply", model.Object(ElementClass), model.Object(RenderableClass))
	var prog = model.NewProgram()
	var w = Site{Class: cls.Name, This: prog.CreateVariable()}
	var elem = prog.CreateVariable()
	w.Block = prog.CreateBasicBlock()

	var component = prog.CreateVariable()
	w.Block.Add(&model.ConstructInstruction{Type: node.ClassName, Receiver: component})
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Special,
		Instance:  component,
		Method:    model.NewMethodReference(node.ClassName, "<init>", model.Object(ElementClass), model.Void),
		Arguments: []*model.Variable{elem},
	})

	for _, v := range node.Variables {
		c.emitVariable(w, cls, node.ClassName, v, component)
	}
	for _, f := range node.Functions {
		c.emitFunction(w, node.ClassName, f, component)
	}
	if node.NameMethod != "" {
		c.emitDirectiveName(w, node.ClassName, node.NameMethod, node.Name, component)
	}
	w.Block.Add(&model.ExitInstruction{ValueToReturn: component})

	method.Program = prog
	cls.AddMethod(method)

	c.unbindVariables(node.Variables)
	c.ctx.ExitScope()
	c.submit(cls)
	return cls.Name
}

func (c *compilation) emitDirectiveFields(cls *model.ClassHolder, vars []ast.VariableBinding) {
	for _, v := range vars {
		cls.AddField(&model.FieldHolder{
			Name:  VarField(v.Name),
			Type:  convertValueType(v.Type),
			Level: model.Public,
		})
	}
}

// emitVariable hands a new sink for v to the component and makes v visible
// to the code emitted after it.
func (c *compilation) emitVariable(w Site, owner *model.ClassHolder, componentClass string,
	v ast.VariableBinding, component *model.Variable) {
	var sinkClass = c.emitVariableClass(owner, v)
	var sink = c.construct(w, sinkClass)

	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Virtual,
		Instance:  component,
		Method:    c.setter(v.Setter, componentClass, model.Object(VariableClass)),
		Arguments: []*model.Variable{sink},
	})

	c.ctx.Bind(v.Name, convertValueType(v.Type))
}

// emitVariableClass emits the Variable sink storing values of v into its
// field on owner.
func (c *compilation) emitVariableClass(owner *model.ClassHolder, v ast.VariableBinding) string {
	var cls = c.newClass(VariableClass)
	c.ctx.AddLinkConstructor(cls)

	var method = model.NewMethodHolder("set", model.Object(model.ObjectClass), model.Void)
	var prog = model.NewProgram()
	var thisVar = prog.CreateVariable()
	var valueVar = prog.CreateVariable()
	var block = prog.CreateBasicBlock()
	var varType = convertValueType(v.Type)

	var ownerVar = prog.CreateVariable()
	block.Add(&model.GetFieldInstruction{
		Instance:  thisVar,
		Field:     model.FieldReference{ClassName: cls.Name, FieldName: OwnerField},
		FieldType: model.Object(owner.Name),
		Receiver:  ownerVar,
	})

	if varType != model.Object(model.ObjectClass) {
		var castVar = prog.CreateVariable()
		block.Add(&model.CastInstruction{Value: valueVar, TargetType: varType, Receiver: castVar})
		valueVar = castVar
	}

	block.Add(&model.PutFieldInstruction{
		Instance:  ownerVar,
		Field:     model.FieldReference{ClassName: owner.Name, FieldName: VarField(v.Name)},
		FieldType: varType,
		Value:     valueVar,
	})
	block.Add(&model.ExitInstruction{})

	method.Program = prog
	cls.AddMethod(method)
	c.submit(cls)
	return cls.Name
}

func (c *compilation) emitFunction(w Site, componentClass string, f ast.FunctionBinding,
	component *model.Variable) {
	var value, err = c.opts.Exprs.EmitLambda(c.ctx, w, f.LambdaType, f.Plan)
	if err != nil {
		panic(err)
	}
	if value == nil {
		assertf("expression emitter returned no value for %s", f.Setter)
	}
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Virtual,
		Instance:  component,
		Method:    c.setter(f.Setter, componentClass, model.Object(f.LambdaType)),
		Arguments: []*model.Variable{value},
	})
}

// emitContent hands the directive's content to the component as a Template
// class, the capability content classes are emitted with. The setter is
// therefore declared to take a Template, not a Fragment.
func (c *compilation) emitContent(w Site, node *ast.DirectiveBinding, component *model.Variable) {
	var contentClass = c.emitTemplate(node.Content)
	var content = c.construct(w, contentClass)
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Virtual,
		Instance:  component,
		Method:    model.NewMethodReference(node.ClassName, node.ContentMethod, model.Object(TemplateClass), model.Void),
		Arguments: []*model.Variable{content},
	})
}

func (c *compilation) emitDirectiveName(w Site, className, methodName, directiveName string,
	component *model.Variable) {
	var name = w.Block.Program().CreateVariable()
	w.Block.Add(&model.StringConstantInstruction{Constant: directiveName, Receiver: name})
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Virtual,
		Instance:  component,
		Method:    model.NewMethodReference(className, methodName, model.Object(model.StringClass), model.Void),
		Arguments: []*model.Variable{name},
	})
}

func (c *compilation) unbindVariables(vars []ast.VariableBinding) {
	for i := len(vars) - 1; i >= 0; i-- {
		c.ctx.Unbind(vars[i].Name)
	}
}

// construct emits the allocation of className linked to the receiver of w.
func (c *compilation) construct(w Site, className string) *model.Variable {
	var v = w.Block.Program().CreateVariable()
	w.Block.Add(&model.ConstructInstruction{Type: className, Receiver: v})
	w.Block.Add(&model.InvokeInstruction{
		Type:      model.Special,
		Instance:  v,
		Method:    model.NewMethodReference(className, "<init>", model.Object(w.Class), model.Void),
		Arguments: []*model.Variable{w.This},
	})
	return v
}

// builderCall emits a DomBuilder call on the current handle and replaces the
// handle with its result.
func (c *compilation) builderCall(b *body, name string, params []model.ValueType, args ...*model.Variable) {
	var desc = append(append([]model.ValueType(nil), params...), model.Object(DomBuilderClass))
	var r = b.Block.Program().CreateVariable()
	b.Block.Add(&model.InvokeInstruction{
		Type:      model.Virtual,
		Instance:  b.builder,
		Method:    model.NewMethodReference(DomBuilderClass, name, desc...),
		Arguments: args,
		Receiver:  r,
	})
	b.builder = r
}

func (c *compilation) stringConstant(b *body, value string) *model.Variable {
	var v = b.Block.Program().CreateVariable()
	b.Block.Add(&model.StringConstantInstruction{Constant: value, Receiver: v})
	return v
}

func (c *compilation) setter(ref ast.MethodRef, componentClass string, param model.ValueType) model.MethodReference {
	var owner = ref.Owner
	if owner == "" {
		owner = componentClass
	}
	return model.NewMethodReference(owner, ref.Name, param, model.Void)
}

func (c *compilation) newClass(iface string) *model.ClassHolder {
	var name = c.ctx.Agent().GenerateClassName()
	if name == "" {
		assertf("pipeline generated an empty class name")
	}
	var cls = model.NewClassHolder(name)
	cls.Interfaces = []string{iface}
	return cls
}

func (c *compilation) submit(cls *model.ClassHolder) {
	if err := c.ctx.SubmitClass(cls); err != nil {
		assertf("%v", err)
	}
}
