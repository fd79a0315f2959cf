package emitting

// Runtime types the emitted code is written against.
const (
	DomBuilderClass = "flavour.templates.DomBuilder"
	ComponentClass  = "flavour.templates.Component"
	FragmentClass   = "flavour.templates.Fragment"
	ModifierClass   = "flavour.templates.Modifier"
	VariableClass   = "flavour.templates.Variable"
	RenderableClass = "flavour.templates.Renderable"
	SlotClass       = "flavour.templates.Slot"
	TemplateClass   = "flavour.templates.Template"
	ElementClass    = "flavour.dom.HTMLElement"
)

// OwnerField is the back-reference from a synthesized class to the instance
// that created it.
const OwnerField = "this$owner"

// VarField is the field holding the current value of a directive variable.
func VarField(name string) string {
	return "var$" + name
}
