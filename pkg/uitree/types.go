// Package uitree extracts a structural UI node tree from a unit's body
// expression tree: widget nodes, control-flow nodes, captured state
// variables, and modifier directives.
package uitree

// Node is the closed set of UI tree node kinds. Consumers dispatch with an
// exhaustive type switch; adding a kind must break every switch.
type Node interface{ isNode() }

// Widget is a leaf or container UI construct.
type Widget struct {
	Name      string
	Args      []NamedArg
	Modifiers []ModifierDirective
	Children  []Node
}

// Conditional is a two-way branch. Condition is opaque source text.
// At least one branch is non-empty (the extractor drops empty conditionals).
type Conditional struct {
	Condition string
	Then      []Node
	Else      []Node
}

// MultiBranch is a multi-way dispatch. Subject is opaque source text,
// "" when the dispatch has no subject. An else-like branch carries the
// literal condition "true".
type MultiBranch struct {
	Subject  string
	Branches []Branch
}

// Branch is one arm of a MultiBranch.
type Branch struct {
	Condition string
	Nodes     []Node
}

// Iteration is a loop over a range or collection. Source is opaque text.
type Iteration struct {
	Variable string
	Source   string
	Children []Node
}

func (*Widget) isNode()      {}
func (*Conditional) isNode() {}
func (*MultiBranch) isNode() {}
func (*Iteration) isNode()   {}

// NamedArg is one classified widget argument. Name is "" for positional.
type NamedArg struct {
	Name  string
	Value Value
}

// Value is the closed set of classified argument shapes.
type Value interface{ isValue() }

// StringLit is a string literal with quotes stripped.
type StringLit struct{ Val string }

// IntLit is an integer literal.
type IntLit struct{ Val int64 }

// DoubleLit is a floating-point literal.
type DoubleLit struct{ Val float64 }

// BoolLit is a boolean literal.
type BoolLit struct{ Val bool }

// Reference is a bare identifier.
type Reference struct{ Name string }

// Call is a nested invocation, arguments kept as raw text.
type Call struct {
	Name    string
	RawArgs []string
}

// Closure is a lambda, kept as raw source text.
type Closure struct{ Text string }

// Raw is the fallback for any unrecognized shape.
type Raw struct{ Text string }

// Null is an explicit null literal.
type Null struct{}

func (StringLit) isValue() {}
func (IntLit) isValue()    {}
func (DoubleLit) isValue() {}
func (BoolLit) isValue()   {}
func (Reference) isValue() {}
func (Call) isValue()      {}
func (Closure) isValue()   {}
func (Raw) isValue()       {}
func (Null) isValue()      {}

// ModifierDirective is one call of a fluent style chain. Args maps argument
// name (or decimal index for positional args) to raw argument text.
// Directive order is chain-walk order, not application order.
type ModifierDirective struct {
	Name string
	Args map[string]string
}

// StateFlavor classifies how a captured state variable is backed.
type StateFlavor string

const (
	FlavorPlain           StateFlavor = "plain"
	FlavorPersisted       StateFlavor = "persisted"
	FlavorListCell        StateFlavor = "listCell"
	FlavorMapCell         StateFlavor = "mapCell"
	FlavorDerived         StateFlavor = "derived"
	FlavorStreamProjected StateFlavor = "streamProjected"
)

// Untyped marks a state variable whose type could not be annotated or
// inferred from its initializer.
const Untyped = "untyped"

// StateVariable is one reactive local binding captured from a body.
type StateVariable struct {
	Name        string
	Type        string // source-ecosystem type name, or Untyped
	Flavor      StateFlavor
	Initializer string
}

// Result is the full extraction output for one declaration body.
type Result struct {
	Nodes     []Node
	States    []StateVariable
	HasUINode bool
}
