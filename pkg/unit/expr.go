package unit

// ExprKind tags the expression forms in the front-end exchange format.
// The extractor switches exhaustively over these; unknown kinds are treated
// as opaque raw text and ignored for node extraction.
type ExprKind string

const (
	// ExprBlock is a statement sequence ({ ... }).
	ExprBlock ExprKind = "block"
	// ExprCall is a function/constructor invocation, possibly chained
	// through Receiver (a.b(1).c(2)).
	ExprCall ExprKind = "call"
	// ExprSelect is a qualified/member access; Selector is the rightmost part.
	ExprSelect ExprKind = "select"
	// ExprIf is a two-way conditional.
	ExprIf ExprKind = "if"
	// ExprWhen is a multi-branch dispatch.
	ExprWhen ExprKind = "when"
	// ExprFor is iteration over a range or collection.
	ExprFor ExprKind = "for"
	// ExprLambda is a closure; Body holds its statements, Text the raw source.
	ExprLambda ExprKind = "lambda"
	// ExprName is a bare identifier reference.
	ExprName ExprKind = "name"
	// ExprLiteral is a literal; Text holds the source form (quotes included).
	ExprLiteral ExprKind = "literal"
	// ExprDecl is a local binding (val/var); Text holds the initializer source.
	ExprDecl ExprKind = "decl"
	// ExprRaw is anything the front-end did not model further.
	ExprRaw ExprKind = "raw"
)

// Expr is one node of a unit's body expression tree. It is a single
// kind-tagged struct rather than a Go sum type so the front-end can emit it
// as plain JSON; only the fields relevant to Kind are populated.
type Expr struct {
	Kind ExprKind `json:"kind"`

	// Text carries raw source: literal form, identifier, condition,
	// initializer, lambda source, or unmodeled text.
	Text string `json:"text,omitempty"`

	// Call fields.
	Callee   string     `json:"callee,omitempty"`
	Receiver *Expr      `json:"receiver,omitempty"`
	Args     []Argument `json:"args,omitempty"`

	// Select field: the rightmost selector expression.
	Selector *Expr `json:"selector,omitempty"`

	// If fields. Condition is opaque source text.
	Condition string `json:"condition,omitempty"`
	Then      []Expr `json:"then,omitempty"`
	Else      []Expr `json:"else,omitempty"`

	// When fields. Subject is opaque source text, "" when absent.
	Subject  string       `json:"subject,omitempty"`
	Branches []WhenBranch `json:"branches,omitempty"`

	// For fields. Source is the opaque range/collection text.
	Variable string `json:"variable,omitempty"`
	Source   string `json:"source,omitempty"`

	// Body holds block statements, lambda bodies, and loop bodies.
	Body []Expr `json:"body,omitempty"`

	// Decl fields: binding name and optional declared type.
	Name     string `json:"name,omitempty"`
	DeclType string `json:"decl_type,omitempty"`
}

// Argument is one call argument, named or positional.
type Argument struct {
	Name  string `json:"name,omitempty"` // "" for positional
	Value Expr   `json:"value"`
}

// WhenBranch is one arm of a multi-branch dispatch. IsElse marks the
// else-like arm; its Condition is empty.
type WhenBranch struct {
	Condition string `json:"condition,omitempty"`
	IsElse    bool   `json:"is_else,omitempty"`
	Body      []Expr `json:"body,omitempty"`
}

// knownKinds is the closed set of expression kinds the core understands.
var knownKinds = map[ExprKind]bool{
	ExprBlock:   true,
	ExprCall:    true,
	ExprSelect:  true,
	ExprIf:      true,
	ExprWhen:    true,
	ExprFor:     true,
	ExprLambda:  true,
	ExprName:    true,
	ExprLiteral: true,
	ExprDecl:    true,
	ExprRaw:     true,
}

// KnownKind reports whether k is part of the exchange format.
func KnownKind(k ExprKind) bool { return knownKinds[k] }
