package gen

import (
	"fmt"
	"strings"

	"github.com/gnana997/composeport/pkg/modifier"
	"github.com/gnana997/composeport/pkg/typemap"
	"github.com/gnana997/composeport/pkg/uitree"
)

// nothingPlaceholder renders an explicitly empty UI slot.
const nothingPlaceholder = "const SizedBox.shrink()"

// renderValue turns a classified argument value into Dart source. Every
// branch has a fallback, so rendering is total.
func renderValue(v uitree.Value) string {
	switch val := v.(type) {
	case uitree.StringLit:
		return quoteString(val.Val)
	case uitree.IntLit:
		return fmt.Sprintf("%d", val.Val)
	case uitree.DoubleLit:
		return trimFloat(val.Val)
	case uitree.BoolLit:
		if val.Val {
			return "true"
		}
		return "false"
	case uitree.Reference:
		return rewriteConstant(val.Name)
	case uitree.Call:
		args := make([]string, len(val.RawArgs))
		for i, a := range val.RawArgs {
			args[i] = rewriteConstant(modifier.DimensionText(a))
		}
		return typemap.MapName(val.Name) + "(" + strings.Join(args, ", ") + ")"
	case uitree.Closure:
		return modifier.CallbackText(val.Text)
	case uitree.Raw:
		return rewriteConstant(val.Text)
	case uitree.Null:
		return "null"
	default:
		return nothingPlaceholder
	}
}

// quoteString emits a single-quoted Dart string literal.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// trimFloat formats a float without trailing zero noise.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// arrangementNames maps Compose Arrangement constants to MainAxisAlignment.
var arrangementNames = map[string]string{
	"Arrangement.Start":        "MainAxisAlignment.start",
	"Arrangement.End":          "MainAxisAlignment.end",
	"Arrangement.Top":          "MainAxisAlignment.start",
	"Arrangement.Bottom":       "MainAxisAlignment.end",
	"Arrangement.Center":       "MainAxisAlignment.center",
	"Arrangement.SpaceBetween": "MainAxisAlignment.spaceBetween",
	"Arrangement.SpaceAround":  "MainAxisAlignment.spaceAround",
	"Arrangement.SpaceEvenly":  "MainAxisAlignment.spaceEvenly",
}

// crossAlignmentNames maps Compose Alignment constants used on the cross
// axis of Row/Column to CrossAxisAlignment.
var crossAlignmentNames = map[string]string{
	"Alignment.Start":            "CrossAxisAlignment.start",
	"Alignment.End":              "CrossAxisAlignment.end",
	"Alignment.CenterHorizontally": "CrossAxisAlignment.center",
	"Alignment.CenterVertically": "CrossAxisAlignment.center",
	"Alignment.Top":              "CrossAxisAlignment.start",
	"Alignment.Bottom":           "CrossAxisAlignment.end",
}

// fontWeightNames maps Compose FontWeight constants.
var fontWeightNames = map[string]string{
	"FontWeight.Bold":   "FontWeight.bold",
	"FontWeight.Normal": "FontWeight.normal",
	"FontWeight.Light":  "FontWeight.w300",
	"FontWeight.Medium": "FontWeight.w500",
}

// rewriteConstant rewrites domain enumeration constants (colors,
// alignments, arrangements, font weights, icons) into their Flutter
// spellings; anything unrecognized passes through unchanged.
func rewriteConstant(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nothingPlaceholder
	}
	if mapped, ok := arrangementNames[text]; ok {
		return mapped
	}
	if mapped, ok := crossAlignmentNames[text]; ok {
		return mapped
	}
	if mapped, ok := fontWeightNames[text]; ok {
		return mapped
	}
	if icon, ok := iconName(text); ok {
		return icon
	}
	text = modifier.ColorText(text)
	text = modifier.AlignmentText(text)
	return text
}

// iconName rewrites `Icons.Default.Home` style references to `Icons.home`.
func iconName(text string) (string, bool) {
	const prefix = "Icons.Default."
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(text, prefix)
	if name == "" {
		return "Icons.circle", true
	}
	return "Icons." + strings.ToLower(name[:1]) + name[1:], true
}

// argValue finds a named argument's rendered value; ok is false if absent.
func argValue(w *uitree.Widget, name string) (string, bool) {
	for _, a := range w.Args {
		if a.Name == name {
			return renderValue(a.Value), true
		}
	}
	return "", false
}

// firstPositional renders the first positional argument, or the named
// fallback, or "" when neither exists.
func firstPositional(w *uitree.Widget, namedFallback string) (string, bool) {
	for _, a := range w.Args {
		if a.Name == "" {
			return renderValue(a.Value), true
		}
	}
	if namedFallback != "" {
		return argValue(w, namedFallback)
	}
	return "", false
}
