// Package template holds the parsed templates of a bundle.
package template

import (
	"fmt"
	"sort"

	"github.com/robfig/flavour/ast"
)

// Registry is the set of templates to compile, by name.
type Registry struct {
	Files     []*ast.File
	Templates []Template
}

// Template is a parsed template together with the file it was read from.
type Template struct {
	Node *ast.TemplateNode
	File string
}

// Add adds the templates of a parsed file to the registry. Template names
// must be unique across files.
func (r *Registry) Add(f *ast.File) error {
	var seen = make(map[string]bool)
	for _, tn := range f.Templates {
		if prev := r.Template(tn.Name); prev != nil {
			return fmt.Errorf("%s:%v: template %q already defined in %s", f.Name, tn.Pos, tn.Name, prev.File)
		}
		if seen[tn.Name] {
			return fmt.Errorf("%s:%v: template %q defined twice", f.Name, tn.Pos, tn.Name)
		}
		seen[tn.Name] = true
	}
	r.Files = append(r.Files, f)
	for _, tn := range f.Templates {
		r.Templates = append(r.Templates, Template{tn, f.Name})
	}
	return nil
}

// Template returns the template with the given name, or nil.
func (r *Registry) Template(name string) *Template {
	for _, t := range r.Templates {
		if t.Node.Name == name {
			return &t
		}
	}
	return nil
}

// Names returns the names of all templates, sorted.
func (r *Registry) Names() []string {
	var names []string
	for _, t := range r.Templates {
		names = append(names, t.Node.Name)
	}
	sort.Strings(names)
	return names
}
