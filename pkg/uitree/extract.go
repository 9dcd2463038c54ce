package uitree

import (
	"strconv"
	"unicode"

	"github.com/gnana997/composeport/pkg/unit"
)

// knownWidgets are lowercase-safe widget callees emitted as Widget nodes
// even without an uppercase-led name.
var knownWidgets = map[string]bool{
	"item":  true,
	"items": true,
}

// transparentScopes are memoization/effect wrappers that never emit a node;
// extraction recurses straight into their trailing closure body.
var transparentScopes = map[string]bool{
	"remember":         true,
	"key":              true,
	"LaunchedEffect":   true,
	"DisposableEffect": true,
	"SideEffect":       true,
}

// placeholderLoopVar names a loop variable the source left implicit.
const placeholderLoopVar = "it"

// Extract walks a declaration body into UI nodes and captured state.
// The walk is pure: every call returns freshly built slices.
func Extract(body *unit.Expr) Result {
	if body == nil {
		return Result{}
	}
	nodes, states := walk(body)
	return Result{
		Nodes:     nodes,
		States:    states,
		HasUINode: len(nodes) > 0,
	}
}

// walk applies the extraction rules to one expression.
func walk(e *unit.Expr) ([]Node, []StateVariable) {
	switch e.Kind {
	case unit.ExprBlock:
		return walkAll(e.Body)

	case unit.ExprCall:
		return walkCall(e)

	case unit.ExprSelect:
		// Only the rightmost selector is walked; left qualifiers carry no
		// extractable nodes.
		if e.Selector != nil {
			return walk(e.Selector)
		}
		return nil, nil

	case unit.ExprIf:
		thenNodes, thenStates := walkAll(e.Then)
		elseNodes, elseStates := walkAll(e.Else)
		states := mergeStates(thenStates, elseStates)
		if len(thenNodes) == 0 && len(elseNodes) == 0 {
			return nil, states
		}
		return []Node{&Conditional{
			Condition: e.Condition,
			Then:      thenNodes,
			Else:      elseNodes,
		}}, states

	case unit.ExprWhen:
		return walkWhen(e)

	case unit.ExprFor:
		children, states := walkAll(e.Body)
		if len(children) == 0 {
			return nil, states
		}
		variable := e.Variable
		if variable == "" {
			variable = placeholderLoopVar
		}
		return []Node{&Iteration{
			Variable: variable,
			Source:   e.Source,
			Children: children,
		}}, states

	case unit.ExprDecl:
		if sv, ok := captureState(e); ok {
			return nil, []StateVariable{sv}
		}
		return nil, nil

	case unit.ExprLambda:
		return walkAll(e.Body)

	default:
		// Names, literals, raw text: nothing to extract.
		return nil, nil
	}
}

// walkAll recurses a statement list and merges the results.
func walkAll(exprs []unit.Expr) ([]Node, []StateVariable) {
	var nodes []Node
	var states []StateVariable
	for i := range exprs {
		n, s := walk(&exprs[i])
		nodes = append(nodes, n...)
		states = mergeStates(states, s)
	}
	return nodes, states
}

// walkCall handles invocation expressions: widget emission, transparent
// scopes, and plain calls (which may still capture state in closures).
func walkCall(e *unit.Expr) ([]Node, []StateVariable) {
	if transparentScopes[e.Callee] {
		if body := trailingClosure(e); body != nil {
			return walkAll(body.Body)
		}
		return nil, nil
	}

	if !isWidgetCallee(e.Callee) {
		// Not a widget: no node, but closures passed to it may still
		// declare state (e.g. a helper running a builder lambda).
		var states []StateVariable
		for i := range e.Args {
			v := &e.Args[i].Value
			if v.Kind == unit.ExprLambda {
				_, s := walkAll(v.Body)
				states = mergeStates(states, s)
			}
		}
		return nil, states
	}

	w := &Widget{Name: e.Callee}
	var states []StateVariable

	for i := range e.Args {
		arg := &e.Args[i]
		switch {
		case arg.Name == "modifier":
			w.Modifiers = WalkModifierChain(&arg.Value)
		case arg.Name == "content":
			// The content slot never classifies as an argument; a
			// non-lambda value here is dropped.
			if arg.Value.Kind == unit.ExprLambda {
				children, s := walkAll(arg.Value.Body)
				w.Children = append(w.Children, children...)
				states = mergeStates(states, s)
			}
		case arg.Name == "" && arg.Value.Kind == unit.ExprLambda && i == len(e.Args)-1:
			// Trailing closure: the widget's content slot.
			children, s := walkAll(arg.Value.Body)
			w.Children = append(w.Children, children...)
			states = mergeStates(states, s)
		default:
			w.Args = append(w.Args, NamedArg{
				Name:  arg.Name,
				Value: ClassifyArgument(&arg.Value),
			})
		}
	}

	return []Node{w}, states
}

// walkWhen handles multi-branch dispatch.
func walkWhen(e *unit.Expr) ([]Node, []StateVariable) {
	var states []StateVariable
	var branches []Branch
	anyNonEmpty := false

	for bi := range e.Branches {
		b := &e.Branches[bi]
		nodes, s := walkAll(b.Body)
		states = mergeStates(states, s)
		cond := b.Condition
		if b.IsElse || cond == "" {
			cond = "true"
		}
		if len(nodes) > 0 {
			anyNonEmpty = true
		}
		branches = append(branches, Branch{Condition: cond, Nodes: nodes})
	}

	if !anyNonEmpty {
		return nil, states
	}
	return []Node{&MultiBranch{Subject: e.Subject, Branches: branches}}, states
}

// isWidgetCallee reports whether a callee name emits a Widget node:
// uppercase-led, or a member of the known-widget set.
func isWidgetCallee(name string) bool {
	if name == "" {
		return false
	}
	if knownWidgets[name] {
		return true
	}
	return unicode.IsUpper(rune(name[0]))
}

// trailingClosure returns the last argument when it is an unnamed lambda.
func trailingClosure(e *unit.Expr) *unit.Expr {
	if len(e.Args) == 0 {
		return nil
	}
	last := &e.Args[len(e.Args)-1]
	if last.Name == "" && last.Value.Kind == unit.ExprLambda {
		return &last.Value
	}
	return nil
}

// mergeStates concatenates state lists into a fresh slice.
func mergeStates(a, b []StateVariable) []StateVariable {
	if len(b) == 0 {
		return a
	}
	out := make([]StateVariable, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// WalkModifierChain decomposes a fluent style chain into directives in
// left-to-right chain-walk order. The chain root (the bare Modifier
// reference) is excluded.
func WalkModifierChain(e *unit.Expr) []ModifierDirective {
	var directives []ModifierDirective

	var walk func(x *unit.Expr)
	walk = func(x *unit.Expr) {
		if x == nil || x.Kind != unit.ExprCall {
			return
		}
		walk(x.Receiver)
		directives = append(directives, ModifierDirective{
			Name: x.Callee,
			Args: directiveArgs(x.Args),
		})
	}
	walk(e)
	return directives
}

// directiveArgs builds the raw argument map: name, or decimal index for
// positional arguments.
func directiveArgs(args []unit.Argument) map[string]string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]string, len(args))
	for i := range args {
		key := args[i].Name
		if key == "" {
			key = strconv.Itoa(i)
		}
		out[key] = RawText(&args[i].Value)
	}
	return out
}
