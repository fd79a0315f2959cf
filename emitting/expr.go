package emitting

import (
	"fmt"

	"github.com/robfig/flavour/model"
	"github.com/robfig/flavour/plan"
)

// Site is a place instructions are being emitted to: a block of a method of
// Class, whose receiver is This.
type Site struct {
	Class string
	This  *model.Variable
	Block *model.BasicBlock
}

// ExprEmitter compiles the plan of a function binding into a value of the
// functional interface lambdaType. It appends its instructions to site.Block
// and returns the single variable holding the compiled closure. Variables of
// enclosing directives are read through ctx.EmitVariableRead.
type ExprEmitter interface {
	EmitLambda(ctx *Context, site Site, lambdaType string, lambda *plan.Lambda) (*model.Variable, error)
}

// LinkedLambdas is the default ExprEmitter. For every binding it synthesizes
// a class implementing lambdaType, linked to the instance of site.Class. Its
// lambda.Method reads the captured variables through the owner chain each
// time it is called and passes them to the static lambda.Class.Method
// holding the compiled expression.
type LinkedLambdas struct{}

func (LinkedLambdas) EmitLambda(ctx *Context, site Site, lambdaType string, lambda *plan.Lambda) (*model.Variable, error) {
	if lambda == nil || lambda.Class == "" || lambda.Method == "" {
		return nil, fmt.Errorf("function binding without a compiled plan")
	}
	if ctx.Owner() != site.Class {
		return nil, &InternalError{fmt.Sprintf("lambda emitted in %s while %s is the innermost class",
			site.Class, ctx.Owner())}
	}

	var cls = model.NewClassHolder(ctx.Agent().GenerateClassName())
	if lambdaType != "" {
		cls.Interfaces = []string{lambdaType}
	}
	ctx.AddLinkConstructor(cls)

	var result = model.Object(model.ObjectClass)
	if lambda.Void {
		result = model.Void
	}
	var method = model.NewMethodHolder(lambda.Method, result)
	var prog = model.NewProgram()
	var body = Site{Class: cls.Name, This: prog.CreateVariable()}
	body.Block = prog.CreateBasicBlock()

	ctx.EnterScope(cls.Name)
	var args []*model.Variable
	var desc []model.ValueType
	for _, name := range lambda.Captures {
		v, typ, ok := ctx.EmitVariableRead(body, name)
		if !ok {
			ctx.ExitScope()
			return nil, &UnresolvedError{Name: name}
		}
		args = append(args, v)
		desc = append(desc, typ)
	}
	ctx.ExitScope()

	var call = &model.InvokeInstruction{
		Type:      model.Special,
		Method:    model.NewMethodReference(lambda.Class, lambda.Method, append(desc, result)...),
		Arguments: args,
	}
	if lambda.Void {
		body.Block.Add(call, &model.ExitInstruction{})
	} else {
		call.Receiver = prog.CreateVariable()
		body.Block.Add(call, &model.ExitInstruction{ValueToReturn: call.Receiver})
	}
	method.Program = prog
	cls.AddMethod(method)
	if err := ctx.SubmitClass(cls); err != nil {
		return nil, err
	}

	var r = site.Block.Program().CreateVariable()
	site.Block.Add(&model.ConstructInstruction{Type: cls.Name, Receiver: r})
	site.Block.Add(&model.InvokeInstruction{
		Type:      model.Special,
		Instance:  r,
		Method:    model.NewMethodReference(cls.Name, "<init>", model.Object(site.Class), model.Void),
		Arguments: []*model.Variable{site.This},
	})
	return r, nil
}
