package graph

import (
	"strings"

	"github.com/gnana997/composeport/pkg/unit"
)

// Edge records that From depends on To. Self-edges are never added.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the project dependency graph.
type Graph struct {
	// Paths lists every unit path in registration order.
	Paths []string

	// Edges holds the deduplicated dependency edges.
	Edges []Edge

	// DependsOn maps unit path -> paths it depends on (edge targets).
	DependsOn map[string][]string

	// Dependents maps unit path -> paths that depend on it (edge sources).
	Dependents map[string][]string
}

// Build resolves every unit's imports and referenced types against the
// symbol table and returns the resulting graph. Unresolvable imports and
// references add no edge; resolution never fails.
func Build(units []unit.SourceUnit, symbols *SymbolTable) *Graph {
	g := &Graph{
		DependsOn:  make(map[string][]string, len(units)),
		Dependents: make(map[string][]string, len(units)),
	}
	edgeSeen := make(map[Edge]bool)

	addEdge := func(from, to string) {
		if to == from || to == "" {
			return
		}
		e := Edge{From: from, To: to}
		if edgeSeen[e] {
			return
		}
		edgeSeen[e] = true
		g.Edges = append(g.Edges, e)
		g.DependsOn[from] = append(g.DependsOn[from], to)
		g.Dependents[to] = append(g.Dependents[to], from)
	}

	for i := range units {
		u := &units[i]
		g.Paths = append(g.Paths, u.Path)

		for _, imp := range u.Imports {
			if to, ok := resolveImport(imp, symbols); ok {
				addEdge(u.Path, to)
			}
		}
		for _, ref := range ReferencedTypes(u) {
			if to, ok := symbols.Lookup(ref); ok {
				addEdge(u.Path, to)
			}
		}
	}
	return g
}

// resolveImport maps one import path to its defining unit:
// exact symbol match first, then wildcard prefix, then the trailing
// identifier of a dotted path.
func resolveImport(imp string, symbols *SymbolTable) (string, bool) {
	if path, ok := symbols.Lookup(imp); ok {
		return path, true
	}
	if strings.HasSuffix(imp, ".*") {
		return symbols.LookupPrefix(strings.TrimSuffix(imp, ".*"))
	}
	if dot := strings.LastIndex(imp, "."); dot >= 0 {
		return symbols.Lookup(imp[dot+1:])
	}
	return "", false
}
