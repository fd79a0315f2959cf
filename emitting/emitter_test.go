package emitting

import (
	"errors"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/google/go-cmp/cmp"
	"github.com/robfig/flavour/ast"
	"github.com/robfig/flavour/errortypes"
	"github.com/robfig/flavour/exprtype"
	"github.com/robfig/flavour/model"
	"github.com/robfig/flavour/pipeline"
	"github.com/robfig/flavour/plan"
)

var intType = exprtype.Primitive{Kind: exprtype.Int}

func compile(t *testing.T, body []ast.Node, opts Options) (*Result, *pipeline.Collector) {
	t.Helper()
	var col = pipeline.NewCollector("c$")
	opts.Agent = col
	if opts.File == "" {
		opts.File = "page.json"
	}
	res, err := Compile(&ast.TemplateNode{Name: "page", Model: "Page", Body: body}, opts)
	if err != nil {
		t.Fatal(err)
	}
	return res, col
}

func assertListing(t *testing.T, col *pipeline.Collector, name, expected string) {
	t.Helper()
	var cls = col.Class(name)
	if cls == nil {
		t.Fatalf("class %s was not submitted", name)
	}
	if actual := model.Listing(cls); actual != expected {
		t.Errorf("class %s differs:\n%v", name, diff.LineDiff(expected, actual))
	}
}

func classesImplementing(col *pipeline.Collector, iface string) []string {
	var names []string
	for _, cls := range col.Classes() {
		if cls.Implements(iface) {
			names = append(names, cls.Name)
		}
	}
	return names
}

func TestElement(t *testing.T) {
	var res, col = compile(t, []ast.Node{
		&ast.Element{
			Name:       "div",
			Attributes: []ast.Attribute{{Name: "class", Value: "a"}},
			Nodes:      []ast.Node{&ast.Text{Value: "hi"}},
		},
	}, Options{})

	if res.Class != "c$1" || !cmp.Equal(res.Classes, []string{"c$1"}) {
		t.Errorf("unexpected classes %v (root %v)", res.Classes, res.Class)
	}
	assertListing(t, col, "c$1", `class c$1 implements flavour.templates.Template
  public field this$owner LPage;
  public method <init>(LPage;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$1.this$owner as LPage; := @1
    return
  public method render(Lflavour.templates.DomBuilder;)Lflavour.templates.DomBuilder;
    @2 := "div"
    @3 := invoke virtual @1 flavour.templates.DomBuilder.open(LString;)Lflavour.templates.DomBuilder; (@2)
    @4 := "class"
    @5 := "a"
    @6 := invoke virtual @3 flavour.templates.DomBuilder.attribute(LString;LString;)Lflavour.templates.DomBuilder; (@4, @5)
    @7 := "hi"
    @8 := invoke virtual @6 flavour.templates.DomBuilder.text(LString;)Lflavour.templates.DomBuilder; (@7)
    @9 := invoke virtual @8 flavour.templates.DomBuilder.close()Lflavour.templates.DomBuilder; ()
    return @9
`)
}

func forEach(content ...ast.Node) *ast.DirectiveBinding {
	return &ast.DirectiveBinding{
		Pos:       ast.Pos{Line: 2, Col: 3},
		ClassName: "std.ForEach",
		Name:      "std:foreach",
		Variables: []ast.VariableBinding{{
			Name:   "item",
			Type:   intType,
			Setter: ast.MethodRef{Owner: "std.ForEach", Name: "setElementVariable"},
		}},
		ContentMethod: "setBody",
		Content:       content,
	}
}

func TestDirectiveWithVariable(t *testing.T) {
	var res, col = compile(t, []ast.Node{
		&ast.Element{Name: "ul", Nodes: []ast.Node{
			forEach(&ast.Element{Name: "li", Nodes: []ast.Node{&ast.Text{Value: "x"}}}),
		}},
	}, Options{})

	if diff := cmp.Diff([]string{"c$3", "c$4", "c$2", "c$1"}, res.Classes); diff != "" {
		t.Errorf("submission order differs:\n%s", diff)
	}
	if n := classesImplementing(col, FragmentClass); len(n) != 1 {
		t.Errorf("expected one fragment, got %v", n)
	}
	if n := classesImplementing(col, VariableClass); len(n) != 1 {
		t.Errorf("expected one variable sink, got %v", n)
	}
	if n := classesImplementing(col, TemplateClass); len(n) != 2 {
		t.Errorf("expected root and content templates, got %v", n)
	}

	assertListing(t, col, "c$2", `class c$2 implements flavour.templates.Fragment
  public field var$item I
  public field this$owner Lc$1;
  public method <init>(Lc$1;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$2.this$owner as Lc$1; := @1
    return
  public method create()Lflavour.templates.Component;
    @1 := new std.ForEach
    @2 := invoke special flavour.templates.Slot.create()Lflavour.templates.Slot; ()
    invoke special @1 std.ForEach.<init>(Lflavour.templates.Slot;)V (@2)
    @3 := new c$3
    invoke special @3 c$3.<init>(Lc$2;)V (@0)
    invoke virtual @1 std.ForEach.setElementVariable(Lflavour.templates.Variable;)V (@3)
    @4 := new c$4
    invoke special @4 c$4.<init>(Lc$2;)V (@0)
    invoke virtual @1 std.ForEach.setBody(Lflavour.templates.Template;)V (@4)
    return @1
`)

	assertListing(t, col, "c$3", `class c$3 implements flavour.templates.Variable
  public field this$owner Lc$2;
  public method <init>(Lc$2;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$3.this$owner as Lc$2; := @1
    return
  public method set(LObject;)V
    @2 := field @0.c$3.this$owner as Lc$2;
    @3 := cast @1 to I
    field @2.c$2.var$item as I := @3
    return
`)

	var root = model.Listing(col.Class("c$1"))
	for _, want := range []string{
		`@3 := invoke virtual @1 flavour.templates.DomBuilder.openSlot(LString;)Lflavour.templates.DomBuilder; (@2)`,
		`@4 := new c$2`,
		`invoke special @4 c$2.<init>(Lc$1;)V (@0)`,
		`@5 := invoke virtual @3 flavour.templates.DomBuilder.add(Lflavour.templates.Fragment;)Lflavour.templates.DomBuilder; (@4)`,
		`@6 := invoke virtual @5 flavour.templates.DomBuilder.close()Lflavour.templates.DomBuilder; ()`,
		`return @6`,
	} {
		if !strings.Contains(root, want) {
			t.Errorf("root template lacks %q:\n%s", want, root)
		}
	}

	if content := model.Listing(col.Class("c$4")); !strings.Contains(content, "public field this$owner Lc$2;") {
		t.Errorf("content template is not linked to the fragment:\n%s", content)
	}
	if len(res.Captures) != 0 {
		t.Errorf("expected no captures, got %v", res.Captures)
	}
}

func TestNestedCapture(t *testing.T) {
	var widget = &ast.DirectiveBinding{
		ClassName: "app.Widget",
		Name:      "app:widget",
		Functions: []ast.FunctionBinding{{
			Setter:     ast.MethodRef{Name: "setAction"},
			Plan:       &plan.Lambda{Class: "app.Handler", Method: "run", Captures: []string{"item"}, Void: true},
			LambdaType: "app.Action",
		}},
	}
	var res, col = compile(t, []ast.Node{forEach(widget)}, Options{})

	assertListing(t, col, "c$5", `class c$5 implements flavour.templates.Fragment
  public field this$owner Lc$4;
  public method <init>(Lc$4;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$5.this$owner as Lc$4; := @1
    return
  public method create()Lflavour.templates.Component;
    @1 := new app.Widget
    @2 := invoke special flavour.templates.Slot.create()Lflavour.templates.Slot; ()
    invoke special @1 app.Widget.<init>(Lflavour.templates.Slot;)V (@2)
    @3 := new c$6
    invoke special @3 c$6.<init>(Lc$5;)V (@0)
    invoke virtual @1 app.Widget.setAction(Lapp.Action;)V (@3)
    return @1
`)

	assertListing(t, col, "c$6", `class c$6 implements app.Action
  public field this$owner Lc$5;
  public method <init>(Lc$5;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$6.this$owner as Lc$5; := @1
    return
  public method run()V
    @1 := field @0.c$6.this$owner as Lc$5;
    @2 := field @1.c$5.this$owner as Lc$4;
    @3 := field @2.c$4.this$owner as Lc$2;
    @4 := field @3.c$2.var$item as I
    invoke special app.Handler.run(I)V (@4)
    return
`)

	if diff := cmp.Diff(map[string][]string{"c$6": {"item"}}, res.Captures); diff != "" {
		t.Errorf("captures differ:\n%s", diff)
	}
}

func TestFunctionInOwnScope(t *testing.T) {
	var dir = forEach()
	dir.ContentMethod = ""
	dir.Functions = []ast.FunctionBinding{{
		Setter:     ast.MethodRef{Owner: "std.ForEach", Name: "setKey"},
		Plan:       &plan.Lambda{Class: "app.Key", Method: "key", Captures: []string{"item"}},
		LambdaType: "app.KeyFunction",
	}}
	var res, col = compile(t, []ast.Node{dir}, Options{})

	var listing = model.Listing(col.Class("c$2"))
	for _, want := range []string{
		`@4 := new c$4`,
		`invoke special @4 c$4.<init>(Lc$2;)V (@0)`,
		`invoke virtual @1 std.ForEach.setKey(Lapp.KeyFunction;)V (@4)`,
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("fragment lacks %q:\n%s", want, listing)
		}
	}
	if strings.Contains(listing, "var$item") {
		t.Errorf("the fragment must not read item while creating the component:\n%s", listing)
	}

	// The key function reads the field on every call, so it sees the values
	// stored by the variable sink after the component was created.
	assertListing(t, col, "c$4", `class c$4 implements app.KeyFunction
  public field this$owner Lc$2;
  public method <init>(Lc$2;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$4.this$owner as Lc$2; := @1
    return
  public method key()LObject;
    @1 := field @0.c$4.this$owner as Lc$2;
    @2 := field @1.c$2.var$item as I
    @3 := invoke special app.Key.key(I)LObject; (@2)
    return @3
`)
	if diff := cmp.Diff([]string{"c$3", "c$4", "c$2", "c$1"}, res.Classes); diff != "" {
		t.Errorf("submission order differs:\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"c$4": {"item"}}, res.Captures); diff != "" {
		t.Errorf("captures differ:\n%s", diff)
	}
}

func TestLambdaWithoutCaptures(t *testing.T) {
	var widget = &ast.DirectiveBinding{
		ClassName: "app.Widget",
		Functions: []ast.FunctionBinding{{
			Setter:     ast.MethodRef{Name: "setAction"},
			Plan:       &plan.Lambda{Class: "app.Handler", Method: "run", Void: true},
			LambdaType: "app.Action",
		}},
	}
	var _, col = compile(t, []ast.Node{widget}, Options{})

	assertListing(t, col, "c$3", `class c$3 implements app.Action
  public field this$owner Lc$2;
  public method <init>(Lc$2;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$3.this$owner as Lc$2; := @1
    return
  public method run()V
    invoke special app.Handler.run()V ()
    return
`)
}

func TestAttributeDirective(t *testing.T) {
	var _, col = compile(t, []ast.Node{
		&ast.Element{
			Name: "div",
			AttributeDirectives: []*ast.AttributeDirectiveBinding{{
				ClassName:  "app.Tooltip",
				Name:       "app:tooltip",
				NameMethod: "setName",
			}},
		},
	}, Options{})

	assertListing(t, col, "c$2", `class c$2 implements flavour.templates.Modifier
  public field this$owner Lc$1;
  public method <init>(Lc$1;)V
    invoke special @0 Object.<init>()V ()
    field @0.c$2.this$owner as Lc$1; := @1
    return
  public method apply(Lflavour.dom.HTMLElement;)Lflavour.templates.Renderable;
    @2 := new app.Tooltip
    invoke special @2 app.Tooltip.<init>(Lflavour.dom.HTMLElement;)V (@1)
    @3 := "app:tooltip"
    invoke virtual @2 app.Tooltip.setName(LString;)V (@3)
    return @2
`)

	var root = model.Listing(col.Class("c$1"))
	if !strings.Contains(root, "DomBuilder.open(LString;)") {
		t.Errorf("element with only attribute directives should not open a slot:\n%s", root)
	}
	if !strings.Contains(root, "add(Lflavour.templates.Modifier;)") {
		t.Errorf("modifier was not added:\n%s", root)
	}
}

func TestObjectVariableIsNotCast(t *testing.T) {
	var dir = forEach()
	dir.Variables[0].Type = exprtype.GenericReference{Var: &exprtype.TypeVar{Name: "T"}}
	var _, col = compile(t, []ast.Node{dir}, Options{})

	var sink = model.Listing(col.Class("c$3"))
	if strings.Contains(sink, "cast") {
		t.Errorf("unexpected cast in sink:\n%s", sink)
	}
	if !strings.Contains(sink, "field @2.c$2.var$item as LObject; := @1") {
		t.Errorf("sink does not store the value:\n%s", sink)
	}
}

type upper struct{}

func (upper) Translate(s string) string { return strings.ToUpper(s) }

func TestTranslator(t *testing.T) {
	var _, col = compile(t, []ast.Node{&ast.Text{Value: "hello"}}, Options{Messages: upper{}})
	if root := model.Listing(col.Class("c$1")); !strings.Contains(root, `@2 := "HELLO"`) {
		t.Errorf("text was not translated:\n%s", root)
	}
}

func TestUnresolvedVariable(t *testing.T) {
	var col = pipeline.NewCollector("c$")
	var _, err = Compile(&ast.TemplateNode{Name: "page", Body: []ast.Node{
		&ast.DirectiveBinding{
			Pos:       ast.Pos{Line: 3, Col: 5},
			ClassName: "app.Widget",
			Functions: []ast.FunctionBinding{{
				Setter: ast.MethodRef{Name: "setAction"},
				Plan:   &plan.Lambda{Class: "app.Handler", Method: "run", Captures: []string{"missing"}},
			}},
		},
	}}, Options{Agent: col, File: "page.json"})

	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) || unresolved.Name != "missing" {
		t.Fatalf("expected an unresolved variable error, got %v", err)
	}
	var pos = errortypes.ToErrTemplatePos(err)
	if pos == nil || pos.File() != "page.json" || pos.Line() != 3 || pos.Col() != 5 {
		t.Errorf("unexpected position in %v", err)
	}
	if col.Len() != 0 {
		t.Errorf("no class should be submitted after a failure, got %d", col.Len())
	}
}

type bogusNode struct {
	ast.Pos
}

func TestInternalErrors(t *testing.T) {
	var tests = []struct {
		name string
		body []ast.Node
		msg  string
	}{
		{"unknown node", []ast.Node{&bogusNode{ast.Pos{Line: 4, Col: 1}}}, "unknown node"},
		{"unsupported type", []ast.Node{&ast.DirectiveBinding{
			ClassName: "app.Widget",
			Variables: []ast.VariableBinding{{Name: "x", Type: nil}},
		}}, "unsupported type"},
		{"missing plan", []ast.Node{&ast.DirectiveBinding{
			ClassName: "app.Widget",
			Functions: []ast.FunctionBinding{{Setter: ast.MethodRef{Name: "f"}}},
		}}, "without a compiled plan"},
	}

	for _, test := range tests {
		var _, err = Compile(&ast.TemplateNode{Name: "page", Body: test.body},
			Options{Agent: pipeline.NewCollector("")})
		if err == nil || !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: expected %q, got %v", test.name, test.msg, err)
		}
		if !errortypes.IsErrTemplatePos(err) {
			t.Errorf("%s: error lacks a position: %v", test.name, err)
		}
	}

	var _, err = Compile(&ast.TemplateNode{Name: "page", Body: []ast.Node{&bogusNode{}}},
		Options{Agent: pipeline.NewCollector("")})
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Errorf("expected an internal error, got %T", err)
	}
}

func TestNoAgent(t *testing.T) {
	if _, err := Compile(&ast.TemplateNode{Name: "page"}, Options{}); err == nil {
		t.Errorf("expected an error without an agent")
	}
}

func TestParsedTemplate(t *testing.T) {
	var f, err = ast.ParseFile("list.json", []byte(`{"templates": [{"name": "list", "model": "app.List", "body": [
	  {"kind": "directive", "name": "std:foreach", "class": "std.ForEach", "line": 1, "col": 1,
	   "variables": [{"name": "item", "type": {"class": "app.Item"},
	                  "setter": {"owner": "std.ForEach", "name": "setElementVariable"}}],
	   "contentMethod": "setBody",
	   "content": [{"kind": "directive", "name": "app:button", "class": "app.Button",
	                "functions": [{"setter": {"name": "setOnClick"}, "lambdaType": "app.Handler",
	                               "plan": {"class": "app.Click", "method": "onClick", "captures": ["item"]}}]}]}
	]}]}`))
	if err != nil {
		t.Fatal(err)
	}

	var col = pipeline.NewCollector("c$")
	res, err := Compile(f.Templates[0], Options{Agent: col, File: f.Name})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Classes) != 6 || col.Len() != 6 {
		t.Errorf("expected 6 classes, got %v", res.Classes)
	}
	if !strings.Contains(model.Listing(col.Class("c$1")), "this$owner Lapp.List;") {
		t.Errorf("root template is not linked to the model")
	}
	if diff := cmp.Diff(map[string][]string{"c$6": {"item"}}, res.Captures); diff != "" {
		t.Errorf("captures differ:\n%s", diff)
	}
	if lambda := model.Listing(col.Class("c$6")); !strings.Contains(lambda, "invoke special app.Click.onClick(Lapp.Item;)LObject; (@4)") {
		t.Errorf("lambda does not call the compiled expression:\n%s", lambda)
	}
}
