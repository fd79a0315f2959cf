// Package plan holds the pre-compiled expression plans that the template
// parser attaches to directive function bindings.
package plan

// Lambda is a compiled closure. Class holds the compiled expression as a
// static method named Method, taking the current values of Captures in
// order. The emitted closure implements the functional interface method of
// the same name.
type Lambda struct {
	Class    string   `json:"class"`
	Method   string   `json:"method"`
	Captures []string `json:"captures"` // names of template variables the closure reads
	Void     bool     `json:"void"`     // Method returns nothing
}
