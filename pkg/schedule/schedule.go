// Package schedule orders conversion work over the dependency graph:
// a dependencies-first topological order, cycle diagnostics, and a
// prioritized task list with complexity scoring and AI-fallback flags.
package schedule

import (
	"sort"
	"strings"

	"github.com/gnana997/composeport/pkg/graph"
	"github.com/gnana997/composeport/pkg/unit"
)

// Priority tiers for conversion tasks. Lower value converts earlier.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String returns the tier name for reports.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ConversionTask is the scheduling record for one unit. Immutable once built.
type ConversionTask struct {
	UnitPath        string   `json:"unit_path"`
	Priority        Priority `json:"priority"`
	DependencyCount int      `json:"dependency_count"`
	Complexity      int      `json:"complexity"`
	RequiresAI      bool     `json:"requires_ai"`
}

// Result is the full scheduler output for one project.
type Result struct {
	// Order is the conversion order: for every edge A->B (A depends on B),
	// B precedes A. Cycle members are appended after the acyclic prefix in
	// registration order; scheduling is never blocked.
	Order []string

	// Tasks is the task list sorted by (priority, dependency count,
	// complexity) ascending.
	Tasks []ConversionTask

	// Cycles holds diagnostic cycle paths (first node repeated at the end).
	Cycles [][]string
}

// complexityAIThreshold flags units whose rule-based conversion is likely
// to need the external assistant.
const complexityAIThreshold = 40

// Declaration weights for the complexity score.
const (
	weightClass         = 10
	weightComposableFn  = 8
	weightFunction      = 5
	weightProperty      = 1
)

// Plan computes the conversion order, cycle diagnostics, and task list.
func Plan(units []unit.SourceUnit, g *graph.Graph) *Result {
	res := &Result{
		Order:  topoOrder(g),
		Cycles: DetectCycles(g),
	}

	byPath := make(map[string]*unit.SourceUnit, len(units))
	for i := range units {
		byPath[units[i].Path] = &units[i]
	}

	for _, path := range res.Order {
		u := byPath[path]
		if u == nil {
			continue
		}
		deps := len(g.DependsOn[path])
		complexity := Complexity(u)
		res.Tasks = append(res.Tasks, ConversionTask{
			UnitPath:        path,
			Priority:        taskPriority(u, deps),
			DependencyCount: deps,
			Complexity:      complexity,
			RequiresAI:      complexity > complexityAIThreshold || u.HasUI(),
		})
	}

	sort.SliceStable(res.Tasks, func(i, j int) bool {
		a, b := res.Tasks[i], res.Tasks[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.DependencyCount != b.DependencyCount {
			return a.DependencyCount < b.DependencyCount
		}
		return a.Complexity < b.Complexity
	})

	return res
}

// topoOrder runs Kahn's algorithm with the remaining-dependency count as
// the in-degree: units with no unconverted dependencies are emitted first,
// so every dependency precedes its dependents. Units left over after the
// acyclic prefix (cycle members) are appended in registration order.
func topoOrder(g *graph.Graph) []string {
	remaining := make(map[string]int, len(g.Paths))
	for _, p := range g.Paths {
		remaining[p] = len(g.DependsOn[p])
	}

	var queue []string
	for _, p := range g.Paths {
		if remaining[p] == 0 {
			queue = append(queue, p)
		}
	}

	order := make([]string, 0, len(g.Paths))
	emitted := make(map[string]bool, len(g.Paths))

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		order = append(order, p)
		emitted[p] = true

		for _, dep := range g.Dependents[p] {
			remaining[dep]--
			if remaining[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	// Residual: members of a cycle. Appended, never blocking.
	for _, p := range g.Paths {
		if !emitted[p] {
			order = append(order, p)
		}
	}
	return order
}

// DetectCycles runs a recursion-stack DFS and returns every cycle path
// found via a back-edge, as unit paths with the entry node repeated at the
// end. Diagnostics only; scheduling proceeds regardless.
func DetectCycles(g *graph.Graph) [][]string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(g.Paths))
	var stack []string
	var cycles [][]string

	var visit func(p string)
	visit = func(p string) {
		state[p] = inStack
		stack = append(stack, p)

		for _, dep := range g.DependsOn[p] {
			switch state[dep] {
			case unvisited:
				visit(dep)
			case inStack:
				// Back-edge: slice the stack from the repeated node and
				// close the loop.
				for i, s := range stack {
					if s == dep {
						cycle := append([]string{}, stack[i:]...)
						cycle = append(cycle, dep)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[p] = done
	}

	for _, p := range g.Paths {
		if state[p] == unvisited {
			visit(p)
		}
	}
	return cycles
}

// taskPriority assigns the tier: leaf units (no outgoing dependencies)
// convert first, UI-bearing units next, everything else last.
func taskPriority(u *unit.SourceUnit, dependencyCount int) Priority {
	if dependencyCount == 0 {
		return PriorityHigh
	}
	if u.HasUI() {
		return PriorityMedium
	}
	return PriorityLow
}

// branchMarkers approximate a cyclomatic count over raw body text.
var branchMarkers = []string{"if ", "if(", "when ", "when(", "for ", "for(", "while ", "while(", "catch"}

// Complexity scores a unit: weighted declaration counts plus a
// cyclomatic-style count of branches, loops, and exception handlers.
func Complexity(u *unit.SourceUnit) int {
	score := 0
	for i := range u.Declarations {
		d := &u.Declarations[i]
		switch d.Kind {
		case unit.DeclClass:
			score += weightClass
		case unit.DeclFunction:
			if d.IsComposable() {
				score += weightComposableFn
			}
			score += weightFunction
		case unit.DeclProperty:
			score += weightProperty
		}
		for _, marker := range branchMarkers {
			score += strings.Count(d.BodyText, marker)
		}
	}
	return score
}
