package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robfig/flavour/errortypes"
	"github.com/robfig/flavour/exprtype"
	"github.com/robfig/flavour/plan"
)

const listFile = `{"templates": [{"name": "list", "model": "app.List", "line": 1, "col": 1, "body": [
  {"kind": "element", "name": "ul", "line": 2, "col": 3,
   "attributes": [{"name": "class", "value": "items"}],
   "attributeDirectives": [{"name": "app:sortable", "class": "app.Sortable", "nameMethod": "setName",
                            "variables": [{"name": "order", "type": {"array": {"var": "T", "bound": {"class": "app.Key"}}},
                                           "setter": {"name": "setOrder"}}]}],
   "children": [
    {"kind": "directive", "name": "std:foreach", "class": "std.ForEach", "line": 3, "col": 5,
     "variables": [{"name": "item", "type": {"class": "java.util.Map", "args": [{"class": "String"}, {"primitive": "int"}]},
                    "setter": {"owner": "std.ForEach", "name": "setElementVariable"}}],
     "functions": [{"setter": {"name": "setKey"}, "lambdaType": "app.KeyFunction",
                    "plan": {"class": "app.Key", "method": "apply", "captures": ["item"]}}],
     "contentMethod": "setBody",
     "content": [{"kind": "text", "value": "hi", "line": 4, "col": 7}]}
  ]}
]}]}`

func TestParseFile(t *testing.T) {
	f, err := ParseFile("list.json", []byte(listFile))
	if err != nil {
		t.Fatal(err)
	}

	var bound = &exprtype.TypeVar{Name: "T", UpperBound: exprtype.GenericClass{Name: "app.Key"}}
	var expected = &File{Name: "list.json", Templates: []*TemplateNode{{
		Pos:   Pos{1, 1},
		Name:  "list",
		Model: "app.List",
		Body: []Node{&Element{
			Pos:        Pos{2, 3},
			Name:       "ul",
			Attributes: []Attribute{{"class", "items"}},
			AttributeDirectives: []*AttributeDirectiveBinding{{
				ClassName: "app.Sortable",
				Name:      "app:sortable",
				Variables: []VariableBinding{{
					Name:   "order",
					Type:   exprtype.GenericArray{Elem: exprtype.GenericReference{Var: bound}},
					Setter: MethodRef{Name: "setOrder"},
				}},
				NameMethod: "setName",
			}},
			Nodes: []Node{&DirectiveBinding{
				Pos:       Pos{3, 5},
				ClassName: "std.ForEach",
				Name:      "std:foreach",
				Variables: []VariableBinding{{
					Name: "item",
					Type: exprtype.GenericClass{Name: "java.util.Map", Args: []exprtype.ValueType{
						exprtype.GenericClass{Name: "String"},
						exprtype.Primitive{Kind: exprtype.Int},
					}},
					Setter: MethodRef{"std.ForEach", "setElementVariable"},
				}},
				Functions: []FunctionBinding{{
					Setter:     MethodRef{Name: "setKey"},
					Plan:       &plan.Lambda{Class: "app.Key", Method: "apply", Captures: []string{"item"}},
					LambdaType: "app.KeyFunction",
				}},
				ContentMethod: "setBody",
				Content:       []Node{&Text{Pos{4, 7}, "hi"}},
			}},
		}},
	}}}
	if diff := cmp.Diff(expected, f); diff != "" {
		t.Errorf("parsed file differs:\n%s", diff)
	}

	var body = f.Templates[0].Body[0].String()
	var want = `<ul class="items" app:sortable={ class="app.Sortable" var:order:T extends app.Key[] }>` +
		`<std:foreach class="std.ForEach" var:item:java.util.Map<String, int> fn:setKey>hi</std:foreach></ul>`
	if body != want {
		t.Errorf("expected\n%s\ngot\n%s", want, body)
	}
	if !f.Templates[0].Body[0].(*Element).HasDirectiveChildren() {
		t.Errorf("ul has a directive child")
	}
}

func TestParseFileErrors(t *testing.T) {
	var tests = []struct {
		name    string
		content string
		err     string
	}{
		{"no name", `{"templates": [{"line": 3, "col": 1}]}`,
			"f.json:3:1: template without a name"},
		{"no tag", `{"templates": [{"name": "t", "body": [{"kind": "element", "line": 2, "col": 2}]}]}`,
			"f.json:2:2: element without a tag name"},
		{"unknown kind", `{"templates": [{"name": "t", "body": [{"kind": "if", "line": 5, "col": 9}]}]}`,
			`f.json:5:9: unknown node kind "if"`},
		{"no class", `{"templates": [{"name": "t", "body": [{"kind": "directive", "name": "d", "line": 1, "col": 1}]}]}`,
			"f.json:1:1: directive d without a component class"},
		{"untyped variable", `{"templates": [{"name": "t", "body": [{"kind": "directive", "name": "d", "class": "C",
			"line": 1, "col": 1, "variables": [{"name": "x"}]}]}]}`,
			"f.json:1:1: variable x of d has no type"},
		{"bad primitive", `{"templates": [{"name": "t", "body": [{"kind": "directive", "name": "d", "class": "C",
			"line": 1, "col": 1, "variables": [{"name": "x", "type": {"primitive": "integer"}}]}]}]}`,
			`f.json:1:1: variable x of d: unknown primitive "integer"`},
		{"no plan", `{"templates": [{"name": "t", "body": [{"kind": "directive", "name": "d", "class": "C",
			"line": 1, "col": 1, "functions": [{"setter": {"name": "f"}}]}]}]}`,
			"f.json:1:1: function f of d has no plan"},
	}

	for _, test := range tests {
		var _, err = ParseFile("f.json", []byte(test.content))
		if err == nil || err.Error() != test.err {
			t.Errorf("%s: expected %q, got %v", test.name, test.err, err)
			continue
		}
		if !errortypes.IsErrTemplatePos(err) {
			t.Errorf("%s: error has no position", test.name)
		}
	}
}
