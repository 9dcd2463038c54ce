// Package typemap translates Kotlin type names into their Dart equivalents.
// The translation is purely lexical: nullability suffix, recursive generic
// parameters, then an ordered table lookup with an identity fallback, so
// mapping never fails and is idempotent on names already in Dart form.
package typemap

import "strings"

// domainTypes maps Compose/Android framework types to Flutter equivalents.
// Checked first so framework names win over same-named primitives.
var domainTypes = map[string]string{
	"Modifier":    "Widget",
	"Color":       "Color",
	"Dp":          "double",
	"TextUnit":    "double",
	"TextStyle":   "TextStyle",
	"FontWeight":  "FontWeight",
	"Shape":       "ShapeBorder",
	"Painter":     "ImageProvider",
	"ImageVector": "IconData",
	"Alignment":   "Alignment",
	"Arrangement": "MainAxisAlignment",
	"Composable":  "Widget",
}

// primitiveTypes maps Kotlin primitives to Dart built-ins.
var primitiveTypes = map[string]string{
	"Int":     "int",
	"Long":    "int",
	"Short":   "int",
	"Byte":    "int",
	"Float":   "double",
	"Double":  "double",
	"Boolean": "bool",
	"String":  "String",
	"Char":    "String",
	"CharSequence": "String",
	"Unit":    "void",
	"Any":     "Object",
	"Nothing": "Never",
}

// collectionTypes maps Kotlin collection interfaces and implementations.
// Mutability is a Kotlin-side distinction only; Dart collections are mutable.
var collectionTypes = map[string]string{
	"List":         "List",
	"MutableList":  "List",
	"ArrayList":    "List",
	"Array":        "List",
	"Set":          "Set",
	"MutableSet":   "Set",
	"HashSet":      "Set",
	"Map":          "Map",
	"MutableMap":   "Map",
	"HashMap":      "Map",
	"Sequence":     "Iterable",
	"Iterable":     "Iterable",
	"Collection":   "Iterable",
	"Pair":         "MapEntry",
}

// tables is the lookup order: domain first, then primitives, then collections.
var tables = []map[string]string{domainTypes, primitiveTypes, collectionTypes}

// TypeDescriptor is a parsed type name: base, nullability, generic params.
type TypeDescriptor struct {
	Base     string
	Nullable bool
	Params   []TypeDescriptor
}

// Map translates a full type name, including generic parameters and a
// trailing nullability marker. Unknown base names pass through unchanged.
func Map(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return ""
	}

	nullable := strings.HasSuffix(typeName, "?")
	if nullable {
		typeName = strings.TrimSuffix(typeName, "?")
	}

	mapped := mapBare(typeName)
	if nullable {
		mapped += "?"
	}
	return mapped
}

// MapName translates a bare type name with no generic or nullability
// handling. Used by the generator for callee-name rewriting.
func MapName(name string) string {
	for _, table := range tables {
		if to, ok := table[name]; ok {
			return to
		}
	}
	return name
}

// mapBare handles the generic-parameter recursion for a name with any
// nullability suffix already stripped.
func mapBare(typeName string) string {
	open := strings.Index(typeName, "<")
	if open < 0 || !strings.HasSuffix(typeName, ">") {
		return MapName(typeName)
	}

	base := MapName(strings.TrimSpace(typeName[:open]))
	inner := typeName[open+1 : len(typeName)-1]

	params := splitParams(inner)
	for i, p := range params {
		params[i] = Map(p)
	}
	return base + "<" + strings.Join(params, ", ") + ">"
}

// splitParams splits a generic parameter list on top-level commas only.
func splitParams(s string) []string {
	var params []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	params = append(params, strings.TrimSpace(s[start:]))
	return params
}

// Parse breaks a type name into a TypeDescriptor. Like Map it never fails;
// malformed generic syntax degrades to a descriptor with the raw base name.
func Parse(typeName string) TypeDescriptor {
	typeName = strings.TrimSpace(typeName)

	d := TypeDescriptor{}
	if strings.HasSuffix(typeName, "?") {
		d.Nullable = true
		typeName = strings.TrimSuffix(typeName, "?")
	}

	open := strings.Index(typeName, "<")
	if open < 0 || !strings.HasSuffix(typeName, ">") {
		d.Base = typeName
		return d
	}

	d.Base = strings.TrimSpace(typeName[:open])
	for _, p := range splitParams(typeName[open+1 : len(typeName)-1]) {
		d.Params = append(d.Params, Parse(p))
	}
	return d
}

// String reassembles a descriptor into source form.
func (d TypeDescriptor) String() string {
	s := d.Base
	if len(d.Params) > 0 {
		parts := make([]string, len(d.Params))
		for i, p := range d.Params {
			parts[i] = p.String()
		}
		s += "<" + strings.Join(parts, ", ") + ">"
	}
	if d.Nullable {
		s += "?"
	}
	return s
}
