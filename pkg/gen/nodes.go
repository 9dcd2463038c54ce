package gen

import (
	"fmt"
	"strings"

	"github.com/gnana997/composeport/pkg/modifier"
	"github.com/gnana997/composeport/pkg/uitree"
)

const indentStep = "  "

// renderRoot renders a body's node list in expression position: a single
// root renders directly, multiple roots auto-wrap in the default vertical
// stack, an empty list renders the nothing placeholder.
func (g *Generator) renderRoot(nodes []uitree.Node, indent string) string {
	switch len(nodes) {
	case 0:
		return nothingPlaceholder
	case 1:
		return g.renderNode(nodes[0], indent)
	default:
		return g.wrapInColumn(nodes, indent)
	}
}

// renderNode renders one node in expression position. The switch is
// exhaustive over the Node union; a new node kind must be handled here.
func (g *Generator) renderNode(n uitree.Node, indent string) string {
	switch node := n.(type) {
	case *uitree.Widget:
		return g.renderWidget(node, indent)
	case *uitree.Conditional:
		return g.renderConditional(node, indent)
	case *uitree.MultiBranch:
		return g.renderMultiBranch(node, indent)
	case *uitree.Iteration:
		// A lone iteration needs a children slot to spread into.
		return g.wrapInColumn([]uitree.Node{node}, indent)
	default:
		return nothingPlaceholder
	}
}

// renderChildEntry renders one node in children-list position, where an
// iteration becomes a spread element.
func (g *Generator) renderChildEntry(n uitree.Node, indent string) string {
	if it, ok := n.(*uitree.Iteration); ok {
		return g.renderSpread(it, indent)
	}
	return g.renderNode(n, indent)
}

// renderChildren renders a children list as a multi-line Dart list literal.
func (g *Generator) renderChildren(children []uitree.Node, indent string) string {
	if len(children) == 0 {
		return "[]"
	}
	inner := indent + indentStep
	var b strings.Builder
	b.WriteString("[\n")
	for _, c := range children {
		b.WriteString(inner)
		b.WriteString(g.renderChildEntry(c, inner))
		b.WriteString(",\n")
	}
	b.WriteString(indent)
	b.WriteString("]")
	return b.String()
}

// wrapInColumn wraps nodes in the default vertical-stack container.
func (g *Generator) wrapInColumn(nodes []uitree.Node, indent string) string {
	inner := indent + indentStep
	return fmt.Sprintf("Column(\n%schildren: %s,\n%s)",
		inner, g.renderChildren(nodes, inner), indent)
}

// renderBranchBody renders a branch's nodes for use inside a ternary:
// multi-node branches auto-wrap vertically, empty branches render the
// nothing placeholder.
func (g *Generator) renderBranchBody(nodes []uitree.Node, indent string) string {
	if len(nodes) == 0 {
		return nothingPlaceholder
	}
	return g.renderRoot(nodes, indent)
}

// renderConditional renders an if/else as a ternary expression.
func (g *Generator) renderConditional(n *uitree.Conditional, indent string) string {
	return fmt.Sprintf("%s ? %s : %s",
		conditionText(n.Condition),
		g.renderBranchBody(n.Then, indent),
		g.renderBranchBody(n.Else, indent))
}

// renderMultiBranch renders a when-dispatch as a left-to-right chain of
// ternaries. A non-empty final branch terminates the chain; the nothing
// placeholder terminates it otherwise.
func (g *Generator) renderMultiBranch(n *uitree.MultiBranch, indent string) string {
	if len(n.Branches) == 0 {
		return nothingPlaceholder
	}

	last := n.Branches[len(n.Branches)-1]
	terminal := nothingPlaceholder
	prefix := n.Branches
	if len(last.Nodes) > 0 {
		terminal = g.renderBranchBody(last.Nodes, indent)
		prefix = n.Branches[:len(n.Branches)-1]
	}

	out := terminal
	for i := len(prefix) - 1; i >= 0; i-- {
		b := prefix[i]
		out = fmt.Sprintf("%s ? %s : %s",
			g.branchCondition(n.Subject, b.Condition),
			g.renderBranchBody(b.Nodes, indent),
			out)
	}
	return out
}

// branchCondition renders one branch condition: an else-like branch renders
// the literal "true"; with a subject present, the condition compares
// against it.
func (g *Generator) branchCondition(subject, condition string) string {
	if condition == "true" || condition == "" {
		return "true"
	}
	cond := conditionText(condition)
	if subject != "" {
		return fmt.Sprintf("%s == %s", subject, cond)
	}
	return cond
}

// renderSpread renders an iteration as a spread map expression inside a
// children list, binding the loop variable.
func (g *Generator) renderSpread(n *uitree.Iteration, indent string) string {
	body := g.renderRoot(n.Children, indent)
	return fmt.Sprintf("...%s.map((%s) => %s)",
		iterationSource(n.Source), n.Variable, body)
}

// iterationSource rewrites a Kotlin range like `0..5` or `0 until 5` into a
// Dart-generate expression; collections pass through unchanged.
func iterationSource(src string) string {
	src = strings.TrimSpace(src)
	if lo, hi, ok := splitRange(src, ".."); ok {
		return fmt.Sprintf("List.generate(%s - %s + 1, (i) => %s + i)", hi, lo, lo)
	}
	if lo, hi, ok := splitRange(src, " until "); ok {
		return fmt.Sprintf("List.generate(%s - %s, (i) => %s + i)", hi, lo, lo)
	}
	return src
}

// splitRange splits a binary range expression on sep.
func splitRange(src, sep string) (lo, hi string, ok bool) {
	idx := strings.Index(src, sep)
	if idx < 0 {
		return "", "", false
	}
	lo = strings.TrimSpace(src[:idx])
	hi = strings.TrimSpace(src[idx+len(sep):])
	if lo == "" || hi == "" {
		return "", "", false
	}
	return lo, hi, true
}

// conditionText cleans up a condition snippet for Dart: the source text is
// opaque, only the null-safety-neutral pieces are touched.
func conditionText(cond string) string {
	return strings.TrimSpace(cond)
}

// applyModifiers nests the rendered widget text inside its wrapper chain.
func applyModifiers(directives []uitree.ModifierDirective, rendered string) string {
	return modifier.Apply(directives, rendered)
}
