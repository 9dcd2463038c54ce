package uitree

import (
	"strconv"
	"strings"

	"github.com/gnana997/composeport/pkg/unit"
)

// ClassifyArgument maps one argument expression to a Value. Raw is the
// fallback for every unrecognized shape, so classification is total.
func ClassifyArgument(e *unit.Expr) Value {
	switch e.Kind {
	case unit.ExprLiteral:
		return classifyLiteral(e.Text)

	case unit.ExprName:
		return Reference{Name: e.Text}

	case unit.ExprCall:
		raw := make([]string, 0, len(e.Args))
		for i := range e.Args {
			raw = append(raw, RawText(&e.Args[i].Value))
		}
		return Call{Name: e.Callee, RawArgs: raw}

	case unit.ExprLambda:
		return Closure{Text: e.Text}

	default:
		return Raw{Text: RawText(e)}
	}
}

// classifyLiteral inspects the literal's source form.
func classifyLiteral(text string) Value {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "null":
		return Null{}
	case trimmed == "true":
		return BoolLit{Val: true}
	case trimmed == "false":
		return BoolLit{Val: false}
	case len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"':
		return StringLit{Val: trimmed[1 : len(trimmed)-1]}
	}
	if n, err := strconv.ParseInt(strings.TrimSuffix(trimmed, "L"), 10, 64); err == nil {
		return IntLit{Val: n}
	}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "f"), 64); err == nil {
		return DoubleLit{Val: f}
	}
	return Raw{Text: text}
}

// RawText reconstructs best-effort source text for an expression. Used for
// modifier argument maps and nested-call arguments where the original
// snippet is wanted verbatim.
func RawText(e *unit.Expr) string {
	if e == nil {
		return ""
	}
	if e.Text != "" {
		return e.Text
	}
	switch e.Kind {
	case unit.ExprCall:
		parts := make([]string, 0, len(e.Args))
		for i := range e.Args {
			a := &e.Args[i]
			if a.Name != "" {
				parts = append(parts, a.Name+" = "+RawText(&a.Value))
			} else {
				parts = append(parts, RawText(&a.Value))
			}
		}
		callText := e.Callee + "(" + strings.Join(parts, ", ") + ")"
		if e.Receiver != nil {
			if recv := RawText(e.Receiver); recv != "" {
				return recv + "." + callText
			}
		}
		return callText
	case unit.ExprSelect:
		return RawText(e.Selector)
	default:
		return ""
	}
}
