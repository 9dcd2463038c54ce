package unit

// SourceUnit is one source file as delivered by the external Kotlin front-end.
// Units are immutable after load; re-running the pipeline rebuilds fresh ones.
type SourceUnit struct {
	// Path identifies the unit within the project (front-end relative path).
	Path string `json:"path"`

	// Package is the declared package name of the unit.
	Package string `json:"package"`

	// Imports lists the unit's import paths verbatim (may end in ".*").
	Imports []string `json:"imports,omitempty"`

	// Declarations are the top-level declarations in source order.
	Declarations []Declaration `json:"declarations,omitempty"`
}

// DeclKind distinguishes the declaration forms the front-end emits.
type DeclKind string

const (
	DeclClass    DeclKind = "class"
	DeclFunction DeclKind = "function"
	DeclProperty DeclKind = "property"
)

// Declaration is one top-level class, function, or property.
type Declaration struct {
	Kind      DeclKind `json:"kind"`
	Name      string   `json:"name"`
	Modifiers []string `json:"modifiers,omitempty"` // e.g. "data", "composable", "private"

	// SuperTypes lists super-class / interface names (classes only).
	SuperTypes []string `json:"super_types,omitempty"`

	// Type is the declared type annotation (properties, function returns).
	Type string `json:"type,omitempty"`

	// Parameters are constructor or function parameters in source order.
	Parameters []Parameter `json:"parameters,omitempty"`

	// Body is the parsed body expression for function-likes; nil otherwise.
	Body *Expr `json:"body,omitempty"`

	// BodyText is the raw body source, kept for complexity scoring and for
	// the AI-fallback handoff.
	BodyText string `json:"body_text,omitempty"`
}

// Parameter is a function or constructor parameter.
type Parameter struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Default  string `json:"default,omitempty"` // raw default-value text, "" if none
	Nullable bool   `json:"nullable,omitempty"`
}

// IsComposable reports whether the declaration is a UI-emitting function.
func (d *Declaration) IsComposable() bool {
	if d.Kind != DeclFunction {
		return false
	}
	for _, m := range d.Modifiers {
		if m == "composable" {
			return true
		}
	}
	return false
}

// HasUI reports whether any declaration in the unit emits UI.
func (u *SourceUnit) HasUI() bool {
	for i := range u.Declarations {
		if u.Declarations[i].IsComposable() {
			return true
		}
	}
	return false
}
