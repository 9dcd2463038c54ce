package uitree

import (
	"strconv"
	"strings"

	"github.com/gnana997/composeport/pkg/unit"
)

// stateMarkers map reactive-cell call markers in an initializer to the
// state flavor they imply. More specific markers are checked first.
var stateMarkers = []struct {
	marker string
	flavor StateFlavor
}{
	{"rememberSaveable", FlavorPersisted},
	{"mutableStateListOf", FlavorListCell},
	{"mutableStateMapOf", FlavorMapCell},
	{"derivedStateOf", FlavorDerived},
	{"collectAsState", FlavorStreamProjected},
	{"mutableStateOf", FlavorPlain},
	{"remember", FlavorPlain},
}

// captureState turns a local binding into a StateVariable when its
// initializer text matches a reactive-cell marker.
func captureState(e *unit.Expr) (StateVariable, bool) {
	init := e.Text
	flavor, ok := stateFlavor(init)
	if !ok {
		return StateVariable{}, false
	}

	typ := e.DeclType
	if typ == "" {
		typ = inferStateType(init)
	}

	return StateVariable{
		Name:        e.Name,
		Type:        typ,
		Flavor:      flavor,
		Initializer: init,
	}, true
}

// stateFlavor finds the first matching reactive-cell marker.
func stateFlavor(initializer string) (StateFlavor, bool) {
	for _, m := range stateMarkers {
		if strings.Contains(initializer, m.marker) {
			return m.flavor, true
		}
	}
	return "", false
}

// inferStateType applies literal-shape heuristics to the innermost
// initializer value. Returns Untyped when no shape matches.
func inferStateType(initializer string) string {
	inner := innermostArgument(initializer)
	switch {
	case inner == "true" || inner == "false":
		return "Boolean"
	case len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"':
		return "String"
	}
	if _, err := strconv.ParseInt(inner, 10, 64); err == nil {
		return "Int"
	}
	if _, err := strconv.ParseFloat(strings.TrimSuffix(inner, "f"), 64); err == nil {
		return "Double"
	}
	return Untyped
}

// innermostArgument extracts the deepest parenthesized argument of a
// marker chain like `remember { mutableStateOf(0) }`.
func innermostArgument(text string) string {
	open := strings.LastIndex(text, "(")
	if open < 0 {
		return strings.TrimSpace(text)
	}
	rest := text[open+1:]
	if close := strings.Index(rest, ")"); close >= 0 {
		rest = rest[:close]
	}
	return strings.TrimSpace(rest)
}
