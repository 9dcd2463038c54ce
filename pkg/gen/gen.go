// Package gen renders extracted UI trees and plain declarations into Dart
// source. Rendering is total: every rule has an explicit fallback, so
// generation never fails for a well-formed node tree.
package gen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gnana997/composeport/pkg/modifier"
	"github.com/gnana997/composeport/pkg/typemap"
	"github.com/gnana997/composeport/pkg/uitree"
	"github.com/gnana997/composeport/pkg/unit"
)

// Output is the per-unit generation record handed to the caller.
type Output struct {
	TargetFile     string   `json:"target_file"`
	Imports        []string `json:"imports"`
	Code           string   `json:"code"`
	Stateful       bool     `json:"stateful"`
	SourceLines    int      `json:"source_lines"`
	GeneratedLines int      `json:"generated_lines"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Generator renders one unit at a time. Not safe for concurrent use; the
// pipeline creates one per worker invocation.
type Generator struct {
	warnings []string
}

// New creates a Generator.
func New() *Generator { return &Generator{} }

func (g *Generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

func modifierKnown(name string) bool { return modifier.Known(name) }

// GenerateUnit renders every declaration of a unit into one Dart file.
func (g *Generator) GenerateUnit(u *unit.SourceUnit) *Output {
	g.warnings = nil

	var blocks []string
	stateful := false
	sourceLines := 0

	for i := range u.Declarations {
		d := &u.Declarations[i]
		sourceLines += strings.Count(d.BodyText, "\n") + 1

		switch {
		case d.IsComposable():
			res := uitree.Extract(d.Body)
			blocks = append(blocks, g.renderComponent(d, res))
			if len(res.States) > 0 {
				stateful = true
			}
		case d.Kind == unit.DeclClass:
			blocks = append(blocks, g.renderClass(d))
		case d.Kind == unit.DeclFunction:
			blocks = append(blocks, g.renderFunction(d))
		case d.Kind == unit.DeclProperty:
			blocks = append(blocks, g.renderProperty(d))
		}
	}

	code := strings.Join(blocks, "\n\n")
	imports := []string{}
	if u.HasUI() {
		imports = append(imports, "package:flutter/material.dart")
	}

	return &Output{
		TargetFile:     TargetFileName(u.Path),
		Imports:        imports,
		Code:           code,
		Stateful:       stateful,
		SourceLines:    sourceLines,
		GeneratedLines: strings.Count(code, "\n") + 1,
		Warnings:       append([]string(nil), g.warnings...),
	}
}

// GenerateComponent renders a single composable declaration; used by tests
// and the MCP convert_unit tool.
func (g *Generator) GenerateComponent(d *unit.Declaration) (code string, stateful bool) {
	g.warnings = nil
	res := uitree.Extract(d.Body)
	return g.renderComponent(d, res), len(res.States) > 0
}

// renderComponent renders a composable as a widget class: stateful when the
// body captured at least one state variable, stateless otherwise.
func (g *Generator) renderComponent(d *unit.Declaration, res uitree.Result) string {
	if len(res.States) > 0 {
		return g.renderStateful(d, res)
	}
	return g.renderStateless(d, res)
}

func (g *Generator) renderStateless(d *unit.Declaration, res uitree.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s extends StatelessWidget {\n", d.Name)
	g.renderConstructor(&b, d, d.Name)
	g.renderFields(&b, d)
	b.WriteString("\n  @override\n")
	b.WriteString("  Widget build(BuildContext context) {\n")
	fmt.Fprintf(&b, "    return %s;\n", g.renderRoot(res.Nodes, "    "))
	b.WriteString("  }\n}")
	return b.String()
}

func (g *Generator) renderStateful(d *unit.Declaration, res uitree.Result) string {
	stateName := "_" + d.Name + "State"

	var b strings.Builder
	fmt.Fprintf(&b, "class %s extends StatefulWidget {\n", d.Name)
	g.renderConstructor(&b, d, d.Name)
	g.renderFields(&b, d)
	b.WriteString("\n  @override\n")
	fmt.Fprintf(&b, "  State<%s> createState() => %s();\n", d.Name, stateName)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "class %s extends State<%s> {\n", stateName, d.Name)
	for _, sv := range res.States {
		b.WriteString("  " + stateField(sv) + "\n")
	}
	b.WriteString("\n  @override\n")
	b.WriteString("  Widget build(BuildContext context) {\n")
	fmt.Fprintf(&b, "    return %s;\n", g.renderRoot(res.Nodes, "    "))
	b.WriteString("  }\n}")
	return b.String()
}

// renderConstructor emits the const constructor: parameters without a
// default and non-nullable become required named parameters.
func (g *Generator) renderConstructor(b *strings.Builder, d *unit.Declaration, name string) {
	if len(d.Parameters) == 0 {
		fmt.Fprintf(b, "  const %s({super.key});\n", name)
		return
	}
	parts := []string{"super.key"}
	for _, p := range d.Parameters {
		if p.Default == "" && !p.Nullable {
			parts = append(parts, "required this."+p.Name)
		} else if p.Default != "" {
			parts = append(parts, fmt.Sprintf("this.%s = %s", p.Name, defaultValueText(p.Default)))
		} else {
			parts = append(parts, "this."+p.Name)
		}
	}
	fmt.Fprintf(b, "  const %s({%s});\n", name, strings.Join(parts, ", "))
}

// renderFields emits one final field per parameter with its mapped type.
func (g *Generator) renderFields(b *strings.Builder, d *unit.Declaration) {
	for _, p := range d.Parameters {
		t := typemap.Map(p.Type)
		if t == "" {
			t = "Object?"
		} else if p.Nullable && !strings.HasSuffix(t, "?") {
			t += "?"
		}
		fmt.Fprintf(b, "  final %s %s;\n", t, p.Name)
	}
}

// stateField renders one captured state variable as a mutable field of the
// State class. The source name is kept as-is: the build body renders
// captured expression text verbatim, so a renamed field would leave the
// body referencing an identifier that no longer exists.
func stateField(sv uitree.StateVariable) string {
	init := stateInitializer(sv)
	if sv.Type == uitree.Untyped {
		return fmt.Sprintf("var %s = %s;", sv.Name, init)
	}
	return fmt.Sprintf("%s %s = %s;", typemap.Map(sv.Type), sv.Name, init)
}

// stateInitializer reduces a reactive-cell initializer to its seed value.
func stateInitializer(sv uitree.StateVariable) string {
	switch sv.Flavor {
	case uitree.FlavorListCell:
		return "[]"
	case uitree.FlavorMapCell:
		return "{}"
	}
	init := sv.Initializer
	if open := strings.LastIndex(init, "("); open >= 0 {
		rest := init[open+1:]
		if close := strings.Index(rest, ")"); close >= 0 {
			if seed := strings.TrimSpace(rest[:close]); seed != "" {
				return seed
			}
		}
	}
	switch sv.Type {
	case "Boolean":
		return "false"
	case "Int":
		return "0"
	case "Double":
		return "0.0"
	case "String":
		return "''"
	}
	return "null"
}

// renderClass renders a non-UI class: final fields and a const constructor
// from the primary-constructor parameters.
func (g *Generator) renderClass(d *unit.Declaration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s {\n", d.Name)

	if len(d.Parameters) > 0 {
		parts := make([]string, 0, len(d.Parameters))
		for _, p := range d.Parameters {
			if p.Default != "" {
				parts = append(parts, fmt.Sprintf("this.%s = %s", p.Name, defaultValueText(p.Default)))
			} else if p.Nullable {
				parts = append(parts, "this."+p.Name)
			} else {
				parts = append(parts, "required this."+p.Name)
			}
		}
		fmt.Fprintf(&b, "  const %s({%s});\n\n", d.Name, strings.Join(parts, ", "))
		for _, p := range d.Parameters {
			t := typemap.Map(p.Type)
			if t == "" {
				t = "Object?"
			} else if p.Nullable && !strings.HasSuffix(t, "?") {
				t += "?"
			}
			fmt.Fprintf(&b, "  final %s %s;\n", t, p.Name)
		}
	} else {
		fmt.Fprintf(&b, "  const %s();\n", d.Name)
	}

	b.WriteString("}")
	return b.String()
}

// renderFunction renders a non-UI function: mapped signature, with the
// original body preserved in a comment above an unimplemented stub. Body
// translation for plain logic is the AI collaborator's job.
func (g *Generator) renderFunction(d *unit.Declaration) string {
	ret := typemap.Map(d.Type)
	if ret == "" {
		ret = "void"
	}

	params := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		t := typemap.Map(p.Type)
		if t == "" {
			t = "Object?"
		}
		params = append(params, t+" "+p.Name)
	}

	var b strings.Builder
	if d.BodyText != "" {
		b.WriteString("// Original body:\n")
		for _, line := range strings.Split(strings.TrimSpace(d.BodyText), "\n") {
			b.WriteString("// " + line + "\n")
		}
	}
	fmt.Fprintf(&b, "%s %s(%s) {\n  throw UnimplementedError();\n}", ret, lowerFirst(d.Name), strings.Join(params, ", "))
	return b.String()
}

// renderProperty renders a top-level property as a final variable.
func (g *Generator) renderProperty(d *unit.Declaration) string {
	init := defaultValueText(d.BodyText)
	if init == "" {
		init = "null"
	}
	if d.Type != "" {
		return fmt.Sprintf("final %s %s = %s;", typemap.Map(d.Type), d.Name, init)
	}
	return fmt.Sprintf("final %s = %s;", d.Name, init)
}

// defaultValueText rewrites a raw Kotlin default-value snippet into Dart:
// string quotes, constant rewriting, unit suffix stripping.
func defaultValueText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return quoteString(raw[1 : len(raw)-1])
	}
	return rewriteConstant(modifier.DimensionText(raw))
}

// TargetFileName derives the Dart file name from a unit path:
// `ui/ProfileCard.kt` becomes `profile_card.dart`.
func TargetFileName(unitPath string) string {
	base := unitPath
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	base = strings.TrimSuffix(base, ".unit")
	return snakeCase(base) + ".dart"
}

// snakeCase converts CamelCase to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
