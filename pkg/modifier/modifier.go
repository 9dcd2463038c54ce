// Package modifier resolves fluent style-chain directives into Flutter
// wrapper widgets. Directives apply in reverse of extraction order: the
// first directive walked ends up as the innermost wrapper, the last as the
// outermost, which reproduces the source chain's paint order.
package modifier

import (
	"fmt"
	"strings"

	"github.com/gnana997/composeport/pkg/uitree"
)

// Wrapper is one resolved wrapper construct: rendered as
// `Name(Args, child: <inner>)`, or `Name(child: <inner>)` when Args is "".
type Wrapper struct {
	Name string
	Args string
}

// rule pairs a wrapper name with an argument-text synthesis function over
// the directive's raw argument map.
type rule struct {
	wrapper string
	synth   func(args map[string]string) string
}

// rules is the fixed directive table. Unknown directive names resolve to
// nothing and are dropped silently.
var rules = map[string]rule{
	"padding": {"Padding", func(args map[string]string) string {
		return "padding: " + paddingInsets(args)
	}},
	"size": {"SizedBox", func(args map[string]string) string {
		v := DimensionText(firstArg(args, "size", "0"))
		return fmt.Sprintf("width: %s, height: %s", v, v)
	}},
	"width": {"SizedBox", func(args map[string]string) string {
		return "width: " + DimensionText(firstArg(args, "width", "0"))
	}},
	"height": {"SizedBox", func(args map[string]string) string {
		return "height: " + DimensionText(firstArg(args, "height", "0"))
	}},
	"fillMaxWidth": {"SizedBox", func(map[string]string) string {
		return "width: double.infinity"
	}},
	"fillMaxHeight": {"SizedBox", func(map[string]string) string {
		return "height: double.infinity"
	}},
	"fillMaxSize": {"SizedBox.expand", func(map[string]string) string {
		return ""
	}},
	"background": {"DecoratedBox", func(args map[string]string) string {
		return "decoration: BoxDecoration(color: " + ColorText(firstArg(args, "color", "0")) + ")"
	}},
	"clickable": {"GestureDetector", func(args map[string]string) string {
		return "onTap: " + CallbackText(firstArg(args, "onClick", "0"))
	}},
	"clip": {"ClipRRect", func(args map[string]string) string {
		return "borderRadius: BorderRadius.circular(" + cornerRadius(firstArg(args, "shape", "0")) + ")"
	}},
	"weight": {"Expanded", func(args map[string]string) string {
		return "flex: " + DimensionText(firstArg(args, "weight", "0"))
	}},
	"align": {"Align", func(args map[string]string) string {
		return "alignment: " + AlignmentText(firstArg(args, "alignment", "0"))
	}},
	"alpha": {"Opacity", func(args map[string]string) string {
		return "opacity: " + DimensionText(firstArg(args, "alpha", "0"))
	}},
	"border": {"DecoratedBox", func(args map[string]string) string {
		return "decoration: BoxDecoration(border: Border.all(width: " + DimensionText(firstArg(args, "width", "0")) + "))"
	}},
}

// Resolve maps one directive to its wrapper. ok is false for unknown names.
func Resolve(d uitree.ModifierDirective) (Wrapper, bool) {
	r, ok := rules[d.Name]
	if !ok {
		return Wrapper{}, false
	}
	return Wrapper{Name: r.wrapper, Args: r.synth(d.Args)}, true
}

// Known reports whether a directive name has a wrapper rule.
func Known(name string) bool {
	_, ok := rules[name]
	return ok
}

// Apply nests inner inside the wrappers for the given directives. The first
// directive in the slice becomes the innermost wrapper, the last the
// outermost. Unknown directives contribute no wrapper.
func Apply(directives []uitree.ModifierDirective, inner string) string {
	out := inner
	for _, d := range directives {
		w, ok := Resolve(d)
		if !ok {
			continue
		}
		if w.Args == "" {
			out = fmt.Sprintf("%s(child: %s)", w.Name, out)
		} else {
			out = fmt.Sprintf("%s(%s, child: %s)", w.Name, w.Args, out)
		}
	}
	return out
}

// firstArg returns the named argument if present, else the given positional
// key, else "".
func firstArg(args map[string]string, name, index string) string {
	if v, ok := args[name]; ok {
		return v
	}
	return args[index]
}

// paddingInsets builds EdgeInsets text from a padding directive's arguments.
// Distinct horizontal/vertical values use EdgeInsets.symmetric.
func paddingInsets(args map[string]string) string {
	h, hasH := args["horizontal"]
	v, hasV := args["vertical"]
	if hasH || hasV {
		var parts []string
		if hasH {
			parts = append(parts, "horizontal: "+DimensionText(h))
		}
		if hasV {
			parts = append(parts, "vertical: "+DimensionText(v))
		}
		return "EdgeInsets.symmetric(" + strings.Join(parts, ", ") + ")"
	}
	all := firstArg(args, "all", "0")
	if all == "" {
		return "EdgeInsets.zero"
	}
	return "EdgeInsets.all(" + DimensionText(all) + ")"
}

// cornerRadius pulls a numeric radius out of a shape argument like
// `RoundedCornerShape(8.dp)`; falls back to the raw dimension text.
func cornerRadius(shape string) string {
	if open := strings.Index(shape, "("); open >= 0 {
		if close := strings.LastIndex(shape, ")"); close > open {
			return DimensionText(shape[open+1 : close])
		}
	}
	return DimensionText(shape)
}

// DimensionText strips density-independent unit suffixes (.dp, .sp, f)
// from a numeric source snippet, leaving a Dart number or expression.
func DimensionText(text string) string {
	text = strings.TrimSpace(text)
	for _, suffix := range []string{".dp", ".sp"} {
		text = strings.TrimSuffix(text, suffix)
	}
	return strings.TrimSuffix(text, "f")
}

// colorNames maps Compose color constants to Flutter Colors entries.
var colorNames = map[string]string{
	"Color.Black":       "Colors.black",
	"Color.White":       "Colors.white",
	"Color.Red":         "Colors.red",
	"Color.Green":       "Colors.green",
	"Color.Blue":        "Colors.blue",
	"Color.Yellow":      "Colors.yellow",
	"Color.Gray":        "Colors.grey",
	"Color.LightGray":   "Colors.grey",
	"Color.DarkGray":    "Colors.blueGrey",
	"Color.Cyan":        "Colors.cyan",
	"Color.Magenta":     "Colors.purple",
	"Color.Transparent": "Colors.transparent",
}

// ColorText rewrites a Compose color constant; other color expressions pass
// through unchanged.
func ColorText(text string) string {
	text = strings.TrimSpace(text)
	if mapped, ok := colorNames[text]; ok {
		return mapped
	}
	return text
}

// alignmentNames maps Compose alignment constants to Flutter Alignment.
var alignmentNames = map[string]string{
	"Alignment.TopStart":     "Alignment.topLeft",
	"Alignment.TopCenter":    "Alignment.topCenter",
	"Alignment.TopEnd":       "Alignment.topRight",
	"Alignment.CenterStart":  "Alignment.centerLeft",
	"Alignment.Center":       "Alignment.center",
	"Alignment.CenterEnd":    "Alignment.centerRight",
	"Alignment.BottomStart":  "Alignment.bottomLeft",
	"Alignment.BottomCenter": "Alignment.bottomCenter",
	"Alignment.BottomEnd":    "Alignment.bottomRight",
}

// AlignmentText rewrites a Compose alignment constant; unknown values pass
// through unchanged.
func AlignmentText(text string) string {
	text = strings.TrimSpace(text)
	if mapped, ok := alignmentNames[text]; ok {
		return mapped
	}
	return text
}

// CallbackText rewrites a Kotlin closure snippet into a Dart callback.
// `{ expr }` becomes `() => expr`, a block body becomes `() { ... }`, a bare
// reference passes through, and "" yields the default no-op callback.
func CallbackText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "() {}"
	}
	if !strings.HasPrefix(text, "{") {
		return text
	}
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}"))
	if body == "" {
		return "() {}"
	}
	if strings.ContainsAny(body, ";\n") {
		stmts := body
		if !strings.HasSuffix(stmts, ";") {
			stmts += ";"
		}
		return "() { " + stmts + " }"
	}
	return "() => " + body
}
