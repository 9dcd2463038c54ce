package gen

import (
	"fmt"
	"strings"

	"github.com/gnana997/composeport/pkg/typemap"
	"github.com/gnana997/composeport/pkg/uitree"
)

// widgetRule renders one recognized widget kind.
type widgetRule func(g *Generator, w *uitree.Widget, indent string) string

// widgetRules is the per-widget dispatch table. Unrecognized names fall back
// to the generic renderer. Populated in init: the rule bodies recurse back
// through renderWidget, which reads this table.
var widgetRules map[string]widgetRule

func init() {
	widgetRules = map[string]widgetRule{
		"Text":                 renderText,
		"Button":               renderButton("ElevatedButton"),
		"TextButton":           renderButton("TextButton"),
		"OutlinedButton":       renderButton("OutlinedButton"),
		"IconButton":           renderIconButton,
		"FloatingActionButton": renderFab,
		"TextField":            renderTextField,
		"OutlinedTextField":    renderTextField,
		"Image":                renderImage,
		"Icon":                 renderIcon,
		"Column":               renderLinear("Column", "verticalArrangement", "horizontalAlignment"),
		"Row":                  renderLinear("Row", "horizontalArrangement", "verticalAlignment"),
		"Box":                  renderBox,
		"LazyColumn":           renderLazy(""),
		"LazyRow":              renderLazy("Axis.horizontal"),
		"Card":                 renderCard,
		"Scaffold":             renderScaffold,
		"TopAppBar":            renderTopAppBar,
		"Spacer":               renderSpacer,
		"Divider":              renderDivider,
		"Checkbox":             renderToggle("Checkbox", "checked"),
		"Switch":               renderToggle("Switch", "checked"),
	}
}

// renderWidget dispatches a widget node through the rule table, then nests
// the result inside its modifier wrappers.
func (g *Generator) renderWidget(w *uitree.Widget, indent string) string {
	var rendered string
	if rule, ok := widgetRules[w.Name]; ok {
		rendered = rule(g, w, indent)
	} else {
		rendered = g.renderGeneric(w, indent)
	}
	for _, d := range w.Modifiers {
		if !modifierKnown(d.Name) {
			g.warnf("unknown modifier %q dropped", d.Name)
		}
	}
	return applyModifiers(w.Modifiers, rendered)
}

// --- leaf widgets ---

func renderText(g *Generator, w *uitree.Widget, _ string) string {
	text, ok := firstPositional(w, "text")
	if !ok {
		text = "''"
	}

	var styleParts []string
	if v, ok := argValue(w, "fontSize"); ok {
		styleParts = append(styleParts, "fontSize: "+dimension(v))
	}
	if v, ok := argValue(w, "fontWeight"); ok {
		styleParts = append(styleParts, "fontWeight: "+v)
	}
	if v, ok := argValue(w, "color"); ok {
		styleParts = append(styleParts, "color: "+v)
	}

	if len(styleParts) == 0 {
		return fmt.Sprintf("Text(%s)", text)
	}
	return fmt.Sprintf("Text(%s, style: TextStyle(%s))", text, strings.Join(styleParts, ", "))
}

func renderIcon(g *Generator, w *uitree.Widget, _ string) string {
	icon, ok := firstPositional(w, "imageVector")
	if !ok {
		icon = "Icons.circle"
	}
	return fmt.Sprintf("Icon(%s)", icon)
}

func renderImage(g *Generator, w *uitree.Widget, _ string) string {
	src, ok := firstPositional(w, "painter")
	if !ok {
		src = "''"
	}
	if strings.HasPrefix(src, "'http") {
		return fmt.Sprintf("Image.network(%s)", src)
	}
	return fmt.Sprintf("Image.asset(%s)", src)
}

func renderSpacer(_ *Generator, _ *uitree.Widget, _ string) string {
	// Size comes from the modifier chain wrappers.
	return "const SizedBox()"
}

func renderDivider(_ *Generator, _ *uitree.Widget, _ string) string {
	return "const Divider()"
}

// --- interactive widgets ---

// renderButton renders Compose button flavors that take an onClick callback
// and a trailing content closure.
func renderButton(dartName string) widgetRule {
	return func(g *Generator, w *uitree.Widget, indent string) string {
		onPressed := callbackArg(w, "onClick")
		child := g.singleChild(w.Children, indent)
		return fmt.Sprintf("%s(onPressed: %s, child: %s)", dartName, onPressed, child)
	}
}

func renderIconButton(g *Generator, w *uitree.Widget, indent string) string {
	onPressed := callbackArg(w, "onClick")
	icon := g.singleChild(w.Children, indent)
	return fmt.Sprintf("IconButton(onPressed: %s, icon: %s)", onPressed, icon)
}

func renderFab(g *Generator, w *uitree.Widget, indent string) string {
	onPressed := callbackArg(w, "onClick")
	child := g.singleChild(w.Children, indent)
	return fmt.Sprintf("FloatingActionButton(onPressed: %s, child: %s)", onPressed, child)
}

func renderTextField(g *Generator, w *uitree.Widget, _ string) string {
	parts := []string{}
	if v, ok := argValue(w, "onValueChange"); ok {
		parts = append(parts, "onChanged: "+callbackWithParam(v))
	} else {
		parts = append(parts, "onChanged: (value) {}")
	}
	if label, ok := argValue(w, "label"); ok {
		parts = append(parts, fmt.Sprintf("decoration: InputDecoration(labelText: %s)", labelText(label)))
	}
	return fmt.Sprintf("TextField(%s)", strings.Join(parts, ", "))
}

// renderToggle renders two-state widgets carrying a value plus change
// callback.
func renderToggle(dartName, valueArg string) widgetRule {
	return func(g *Generator, w *uitree.Widget, _ string) string {
		value, ok := argValue(w, valueArg)
		if !ok {
			value = "false"
		}
		onChanged := "(value) {}"
		if v, ok := argValue(w, "onCheckedChange"); ok {
			onChanged = callbackWithParam(v)
		}
		return fmt.Sprintf("%s(value: %s, onChanged: %s)", dartName, value, onChanged)
	}
}

// --- containers ---

// renderLinear renders Column/Row with axis-alignment argument mapping.
func renderLinear(dartName, mainArg, crossArg string) widgetRule {
	return func(g *Generator, w *uitree.Widget, indent string) string {
		inner := indent + indentStep
		var b strings.Builder
		b.WriteString(dartName)
		b.WriteString("(\n")
		if v, ok := argValue(w, mainArg); ok {
			fmt.Fprintf(&b, "%smainAxisAlignment: %s,\n", inner, v)
		}
		if v, ok := argValue(w, crossArg); ok {
			fmt.Fprintf(&b, "%scrossAxisAlignment: %s,\n", inner, v)
		}
		fmt.Fprintf(&b, "%schildren: %s,\n%s)", inner, g.renderChildren(w.Children, inner), indent)
		return b.String()
	}
}

func renderBox(g *Generator, w *uitree.Widget, indent string) string {
	inner := indent + indentStep
	var b strings.Builder
	b.WriteString("Stack(\n")
	if v, ok := argValue(w, "contentAlignment"); ok {
		fmt.Fprintf(&b, "%salignment: %s,\n", inner, v)
	}
	fmt.Fprintf(&b, "%schildren: %s,\n%s)", inner, g.renderChildren(w.Children, inner), indent)
	return b.String()
}

// renderLazy renders virtualized list containers.
func renderLazy(scrollDirection string) widgetRule {
	return func(g *Generator, w *uitree.Widget, indent string) string {
		inner := indent + indentStep
		var b strings.Builder
		b.WriteString("ListView(\n")
		if scrollDirection != "" {
			fmt.Fprintf(&b, "%sscrollDirection: %s,\n", inner, scrollDirection)
		}
		fmt.Fprintf(&b, "%schildren: %s,\n%s)", inner, g.renderChildren(w.Children, inner), indent)
		return b.String()
	}
}

func renderCard(g *Generator, w *uitree.Widget, indent string) string {
	return fmt.Sprintf("Card(child: %s)", g.singleChild(w.Children, indent))
}

func renderScaffold(g *Generator, w *uitree.Widget, indent string) string {
	inner := indent + indentStep
	var b strings.Builder
	b.WriteString("Scaffold(\n")
	if v, ok := argValue(w, "topBar"); ok {
		fmt.Fprintf(&b, "%sappBar: %s,\n", inner, v)
	}
	if v, ok := argValue(w, "floatingActionButton"); ok {
		fmt.Fprintf(&b, "%sfloatingActionButton: %s,\n", inner, v)
	}
	fmt.Fprintf(&b, "%sbody: %s,\n%s)", inner, g.renderRoot(w.Children, inner), indent)
	return b.String()
}

func renderTopAppBar(g *Generator, w *uitree.Widget, _ string) string {
	title, ok := argValue(w, "title")
	if !ok {
		title = nothingPlaceholder
	}
	return fmt.Sprintf("AppBar(title: %s)", title)
}

// --- generic fallback ---

// renderGeneric handles unrecognized widget names: mapped callee name,
// mapped argument names, and a single child/children slot chosen by arity.
// Totality over any well-formed node is guaranteed here.
func (g *Generator) renderGeneric(w *uitree.Widget, indent string) string {
	name := typemap.MapName(w.Name)
	if name == w.Name {
		// Identity fallback: the name is in neither the widget rule table
		// nor the type tables.
		g.warnf("unknown widget %q rendered generically", w.Name)
	}

	var parts []string
	for _, a := range w.Args {
		if a.Name == "" {
			parts = append(parts, renderValue(a.Value))
		} else {
			parts = append(parts, mapArgName(a.Name)+": "+renderValue(a.Value))
		}
	}

	switch len(w.Children) {
	case 0:
	case 1:
		parts = append(parts, "child: "+g.renderNode(w.Children[0], indent))
	default:
		parts = append(parts, "children: "+g.renderChildren(w.Children, indent))
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// genericArgNames maps common Compose argument names onto Flutter ones for
// the generic renderer.
var genericArgNames = map[string]string{
	"onClick":       "onPressed",
	"onValueChange": "onChanged",
	"text":          "title",
	"enabled":       "enabled",
	"contentAlignment": "alignment",
}

func mapArgName(name string) string {
	if mapped, ok := genericArgNames[name]; ok {
		return mapped
	}
	return name
}

// --- shared helpers ---

// singleChild renders a children list into one child slot: zero children
// render the nothing placeholder, multiple wrap vertically.
func (g *Generator) singleChild(children []uitree.Node, indent string) string {
	if len(children) == 0 {
		return nothingPlaceholder
	}
	return g.renderRoot(children, indent)
}

// callbackArg renders a named callback argument, defaulting to a no-op.
func callbackArg(w *uitree.Widget, name string) string {
	if v, ok := argValue(w, name); ok {
		return v
	}
	return "() {}"
}

// callbackWithParam adapts a rendered callback to the single-parameter
// Flutter change-handler shape.
func callbackWithParam(rendered string) string {
	if strings.HasPrefix(rendered, "() ") {
		return "(value) " + strings.TrimPrefix(rendered, "() ")
	}
	return rendered
}

// labelText keeps string labels as-is; a widget-valued label (Compose
// `label = { Text("...") }`) degrades to its raw text.
func labelText(rendered string) string {
	if strings.HasPrefix(rendered, "'") {
		return rendered
	}
	return "'" + strings.Trim(rendered, "'") + "'"
}

// dimension strips unit suffixes from a rendered numeric argument.
func dimension(rendered string) string {
	for _, suffix := range []string{".dp", ".sp"} {
		rendered = strings.TrimSuffix(rendered, suffix)
	}
	return rendered
}
