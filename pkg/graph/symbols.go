// Package graph builds the inter-unit dependency graph: a symbol table over
// every loaded unit, plus "depends on" edges resolved from imports and
// referenced type names.
package graph

import (
	"strings"
	"unicode"

	"github.com/gnana997/composeport/pkg/unit"
)

// SymbolTable maps declared symbol names to their owning unit path.
// Every symbol is registered under both its short and qualified form.
// Later registrations overwrite earlier ones for a colliding short name;
// determinism comes from registering units in a fixed (sorted-path) order.
type SymbolTable struct {
	// byName maps short and qualified names -> defining unit path.
	byName map[string]string

	// qualified preserves registration order for wildcard-prefix resolution.
	qualified []string
}

// NewSymbolTable builds the table from units in slice order.
func NewSymbolTable(units []unit.SourceUnit) *SymbolTable {
	st := &SymbolTable{byName: make(map[string]string)}
	for i := range units {
		st.registerUnit(&units[i])
	}
	return st
}

func (st *SymbolTable) registerUnit(u *unit.SourceUnit) {
	for i := range u.Declarations {
		d := &u.Declarations[i]
		if d.Kind != unit.DeclClass && d.Kind != unit.DeclFunction {
			continue
		}
		st.byName[d.Name] = u.Path
		q := u.Package + "." + d.Name
		st.byName[q] = u.Path
		st.qualified = append(st.qualified, q)
	}
}

// Lookup returns the unit path defining name (short or qualified).
func (st *SymbolTable) Lookup(name string) (string, bool) {
	path, ok := st.byName[name]
	return path, ok
}

// LookupPrefix returns the unit defining the first registered symbol whose
// qualified name starts with prefix + ".". Used for wildcard imports.
func (st *SymbolTable) LookupPrefix(prefix string) (string, bool) {
	prefix = prefix + "."
	for _, q := range st.qualified {
		if strings.HasPrefix(q, prefix) {
			return st.byName[q], true
		}
	}
	return "", false
}

// Size returns the number of registered name entries.
func (st *SymbolTable) Size() int { return len(st.byName) }

// builtinTypes are UI-primitive and language built-in names excluded from
// the referenced-type scan: they can never resolve to a project unit.
var builtinTypes = map[string]bool{
	// Kotlin built-ins.
	"Int": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Boolean": true, "String": true,
	"Char": true, "Unit": true, "Any": true, "Nothing": true,
	"List": true, "MutableList": true, "Set": true, "MutableSet": true,
	"Map": true, "MutableMap": true, "Array": true, "Pair": true,
	// Compose UI primitives.
	"Text": true, "Button": true, "Column": true, "Row": true, "Box": true,
	"Image": true, "Icon": true, "Card": true, "Scaffold": true,
	"Spacer": true, "Divider": true, "LazyColumn": true, "LazyRow": true,
	"TextField": true, "OutlinedTextField": true, "Checkbox": true,
	"Switch": true, "TopAppBar": true, "FloatingActionButton": true,
	"Modifier": true, "Color": true, "Dp": true, "Alignment": true,
	"Arrangement": true, "MaterialTheme": true,
}

// ReferencedTypes collects the capitalized type names a unit refers to:
// super-types, property/parameter/return annotations, and a heuristic scan
// of raw body text for an uppercase-led identifier immediately followed by
// a call or generic-open token. Built-in names are excluded.
func ReferencedTypes(u *unit.SourceUnit) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(name string) {
		name = baseTypeName(name)
		if name == "" || builtinTypes[name] || seen[name] {
			return
		}
		if !unicode.IsUpper(rune(name[0])) {
			return
		}
		seen[name] = true
		refs = append(refs, name)
	}

	for i := range u.Declarations {
		d := &u.Declarations[i]
		for _, s := range d.SuperTypes {
			add(s)
		}
		add(d.Type)
		for _, p := range d.Parameters {
			add(p.Type)
		}
		for _, name := range scanBodyTypes(d.BodyText) {
			add(name)
		}
	}
	return refs
}

// baseTypeName strips nullability and generic parameters from a type text.
func baseTypeName(t string) string {
	t = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "?"))
	if open := strings.Index(t, "<"); open >= 0 {
		t = t[:open]
	}
	return t
}

// scanBodyTypes finds uppercase-led identifiers followed by '(' or '<' in
// raw body text. A lexical heuristic only; false negatives degrade to a
// missing edge, never an error.
func scanBodyTypes(body string) []string {
	var out []string
	i := 0
	for i < len(body) {
		c := rune(body[i])
		if !unicode.IsUpper(c) {
			i++
			continue
		}
		// Must start an identifier, not continue one.
		if i > 0 && isIdentChar(rune(body[i-1])) {
			i++
			continue
		}
		j := i + 1
		for j < len(body) && isIdentChar(rune(body[j])) {
			j++
		}
		if j < len(body) && (body[j] == '(' || body[j] == '<') {
			out = append(out, body[i:j])
		}
		i = j
	}
	return out
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
