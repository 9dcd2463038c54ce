// Package unit defines the SourceUnit exchange format produced by the
// external front-end, plus loading, validation, and indexing of unit files.
package unit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Project holds every loaded unit of one conversion run.
type Project struct {
	Name  string       `json:"name"`
	Units []SourceUnit `json:"units"`
}

// Index provides O(1) lookups into a loaded project.
type Index struct {
	// UnitByPath maps unit path -> *SourceUnit.
	UnitByPath map[string]*SourceUnit

	// DeclarationUnit maps top-level declaration name -> owning unit path.
	// Later units overwrite earlier entries for a colliding name.
	DeclarationUnit map[string]string
}

// Validate checks a single unit for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (u *SourceUnit) Validate() []error {
	var errs []error

	if u.Path == "" {
		errs = append(errs, fmt.Errorf("unit path is required"))
	}
	if u.Package == "" {
		errs = append(errs, fmt.Errorf("unit %q: package is required", u.Path))
	}

	declNames := make(map[string]bool, len(u.Declarations))
	for i, d := range u.Declarations {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("unit %q declarations[%d]: name is required", u.Path, i))
			continue
		}
		switch d.Kind {
		case DeclClass, DeclFunction, DeclProperty:
		default:
			errs = append(errs, fmt.Errorf("unit %q declaration %q: unknown kind %q", u.Path, d.Name, d.Kind))
		}
		if declNames[d.Name] {
			errs = append(errs, fmt.Errorf("unit %q: duplicate declaration name %q", u.Path, d.Name))
			continue
		}
		declNames[d.Name] = true

		if d.Body != nil {
			errs = append(errs, validateExpr(u.Path, d.Name, d.Body)...)
		}
	}

	return errs
}

// validateExpr checks that every expression kind in the tree is known.
func validateExpr(unitPath, declName string, e *Expr) []error {
	var errs []error
	if !KnownKind(e.Kind) {
		errs = append(errs, fmt.Errorf("unit %q declaration %q: unknown expression kind %q", unitPath, declName, e.Kind))
	}
	for _, child := range exprChildren(e) {
		errs = append(errs, validateExpr(unitPath, declName, child)...)
	}
	return errs
}

// exprChildren returns every nested expression of e, in source order.
func exprChildren(e *Expr) []*Expr {
	var out []*Expr
	if e.Receiver != nil {
		out = append(out, e.Receiver)
	}
	if e.Selector != nil {
		out = append(out, e.Selector)
	}
	for i := range e.Args {
		out = append(out, &e.Args[i].Value)
	}
	for i := range e.Then {
		out = append(out, &e.Then[i])
	}
	for i := range e.Else {
		out = append(out, &e.Else[i])
	}
	for bi := range e.Branches {
		for i := range e.Branches[bi].Body {
			out = append(out, &e.Branches[bi].Body[i])
		}
	}
	for i := range e.Body {
		out = append(out, &e.Body[i])
	}
	return out
}

// BuildIndex creates lookup maps for fast access.
// Should be called after validation passes. Units are indexed in slice
// order, so a project loaded from sorted paths indexes deterministically.
func (p *Project) BuildIndex() *Index {
	idx := &Index{
		UnitByPath:      make(map[string]*SourceUnit, len(p.Units)),
		DeclarationUnit: make(map[string]string),
	}
	for i := range p.Units {
		u := &p.Units[i]
		idx.UnitByPath[u.Path] = u
		for j := range u.Declarations {
			idx.DeclarationUnit[u.Declarations[j].Name] = u.Path
		}
	}
	return idx
}

// LoadFromBytes parses one SourceUnit from raw JSON and validates it.
func LoadFromBytes(data []byte) (*SourceUnit, error) {
	var u SourceUnit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to parse unit JSON: %w", err)
	}
	if errs := u.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("unit validation failed: %w", errors.Join(errs...))
	}
	return &u, nil
}

// LoadFromFile loads a single unit file from disk.
func LoadFromFile(path string) (*SourceUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit file: %w", err)
	}
	return LoadFromBytes(data)
}
