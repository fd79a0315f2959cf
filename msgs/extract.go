package msgs

import (
	"fmt"
	"strings"

	"github.com/robfig/flavour/ast"
	"github.com/robfig/gettext/po"
)

// Extractor collects the text of templates into a PO template, one message
// per distinct text, referencing every place it occurs.
type Extractor struct {
	File  po.File
	index map[string]int
}

// Extract adds the text nodes of every template in f.
func (e *Extractor) Extract(f *ast.File) {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	for _, t := range f.Templates {
		e.extract(f.Name, t.Name, t)
	}
}

func (e *Extractor) extract(file, template string, node ast.Node) {
	switch node := node.(type) {
	case *ast.Text:
		if strings.TrimSpace(node.Value) == "" {
			return
		}
		var ref = fmt.Sprintf("%s:%d", file, node.Line)
		if i, ok := e.index[node.Value]; ok {
			e.File.Messages[i].References = append(e.File.Messages[i].References, ref)
			return
		}
		e.index[node.Value] = len(e.File.Messages)
		e.File.Messages = append(e.File.Messages, po.Message{
			Comment: po.Comment{
				ExtractedComments: []string{"template " + template},
				References:        []string{ref},
			},
			Id: node.Value,
		})
	default:
		if parent, ok := node.(ast.ParentNode); ok {
			for _, child := range parent.Children() {
				e.extract(file, template, child)
			}
		}
	}
}
