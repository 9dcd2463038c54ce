package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/composeport/pkg/graph"
	"github.com/gnana997/composeport/pkg/unit"
)

// --- helpers ---

func projectGraph(units []unit.SourceUnit) *graph.Graph {
	return graph.Build(units, graph.NewSymbolTable(units))
}

func composableUnit(path, name string) unit.SourceUnit {
	return unit.SourceUnit{Path: path, Package: "com.app", Declarations: []unit.Declaration{
		{Kind: unit.DeclFunction, Name: name, Modifiers: []string{"composable"}},
	}}
}

func indexOf(order []string, path string) int {
	for i, p := range order {
		if p == path {
			return i
		}
	}
	return -1
}

// --- topological order ---

func TestPlan_DependenciesConvertFirst(t *testing.T) {
	// screen depends on model; model must be scheduled before screen.
	units := []unit.SourceUnit{
		{Path: "screen.unit.json", Package: "com.app.ui",
			Imports:      []string{"com.app.models.User"},
			Declarations: []unit.Declaration{{Kind: unit.DeclFunction, Name: "UserScreen"}}},
		{Path: "user.unit.json", Package: "com.app.models",
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "User"}}},
	}
	plan := Plan(units, projectGraph(units))

	require.Len(t, plan.Order, 2)
	assert.Less(t, indexOf(plan.Order, "user.unit.json"), indexOf(plan.Order, "screen.unit.json"))
	assert.Empty(t, plan.Cycles)
}

func TestPlan_EveryEdgeRespected(t *testing.T) {
	// c -> b -> a chain plus d -> a.
	units := []unit.SourceUnit{
		{Path: "c.unit.json", Package: "p", Imports: []string{"p.B"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "C"}}},
		{Path: "d.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "D"}}},
		{Path: "b.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "B"}}},
		{Path: "a.unit.json", Package: "p",
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "A"}}},
	}
	g := projectGraph(units)
	plan := Plan(units, g)

	for _, e := range g.Edges {
		assert.Less(t, indexOf(plan.Order, e.To), indexOf(plan.Order, e.From),
			"%s must precede its dependent %s", e.To, e.From)
	}
}

// --- cycles ---

func TestPlan_CycleStillScheduled(t *testing.T) {
	// a -> b -> c -> a.
	units := []unit.SourceUnit{
		{Path: "a.unit.json", Package: "p", Imports: []string{"p.B"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "A"}}},
		{Path: "b.unit.json", Package: "p", Imports: []string{"p.C"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "B"}}},
		{Path: "c.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "C"}}},
	}
	plan := Plan(units, projectGraph(units))

	// All members scheduled despite the cycle.
	assert.Len(t, plan.Order, 3)
	assert.Len(t, plan.Tasks, 3)

	require.Len(t, plan.Cycles, 1)
	cycle := plan.Cycles[0]
	require.GreaterOrEqual(t, len(cycle), 4)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle path closes on its entry node")
}

func TestDetectCycles_Acyclic(t *testing.T) {
	units := []unit.SourceUnit{
		{Path: "b.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "B"}}},
		{Path: "a.unit.json", Package: "p",
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "A"}}},
	}
	assert.Empty(t, DetectCycles(projectGraph(units)))
}

func TestDetectCycles_SelfContainedPair(t *testing.T) {
	// a <-> b.
	units := []unit.SourceUnit{
		{Path: "a.unit.json", Package: "p", Imports: []string{"p.B"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "A"}}},
		{Path: "b.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "B"}}},
	}
	cycles := DetectCycles(projectGraph(units))
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 3)
}

// --- priorities ---

func TestPlan_Priorities(t *testing.T) {
	units := []unit.SourceUnit{
		{Path: "model.unit.json", Package: "p",
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "Model"}}},
		{Path: "screen.unit.json", Package: "p", Imports: []string{"p.Model"},
			Declarations: []unit.Declaration{
				{Kind: unit.DeclFunction, Name: "Screen", Modifiers: []string{"composable"}}}},
		{Path: "helper.unit.json", Package: "p", Imports: []string{"p.Model"},
			Declarations: []unit.Declaration{{Kind: unit.DeclFunction, Name: "format"}}},
	}
	plan := Plan(units, projectGraph(units))

	byPath := make(map[string]ConversionTask)
	for _, task := range plan.Tasks {
		byPath[task.UnitPath] = task
	}
	assert.Equal(t, PriorityHigh, byPath["model.unit.json"].Priority)
	assert.Equal(t, PriorityMedium, byPath["screen.unit.json"].Priority)
	assert.Equal(t, PriorityLow, byPath["helper.unit.json"].Priority)

	// Task list is sorted by priority tier.
	assert.Equal(t, "model.unit.json", plan.Tasks[0].UnitPath)
	assert.Equal(t, "helper.unit.json", plan.Tasks[2].UnitPath)
}

// --- complexity ---

func TestComplexity_Weights(t *testing.T) {
	u := unit.SourceUnit{Declarations: []unit.Declaration{
		{Kind: unit.DeclClass, Name: "A"},
		{Kind: unit.DeclFunction, Name: "f"},
		{Kind: unit.DeclFunction, Name: "Screen", Modifiers: []string{"composable"}},
		{Kind: unit.DeclProperty, Name: "p"},
	}}
	// class 10 + function 5 + composable (8+5) + property 1.
	assert.Equal(t, 29, Complexity(&u))
}

func TestComplexity_BranchMarkers(t *testing.T) {
	u := unit.SourceUnit{Declarations: []unit.Declaration{
		{Kind: unit.DeclFunction, Name: "f",
			BodyText: "if (x) { } else { }\nfor (i in xs) { }\nwhen (y) { }"},
	}}
	// function 5 + if + for + when.
	assert.Equal(t, 8, Complexity(&u))
}

// --- requires-AI flag ---

func TestPlan_RequiresAI(t *testing.T) {
	units := []unit.SourceUnit{
		composableUnit("screen.unit.json", "HomeScreen"),
		{Path: "plain.unit.json", Package: "com.app",
			Declarations: []unit.Declaration{{Kind: unit.DeclFunction, Name: "format"}}},
	}
	plan := Plan(units, projectGraph(units))

	byPath := make(map[string]ConversionTask)
	for _, task := range plan.Tasks {
		byPath[task.UnitPath] = task
	}
	assert.True(t, byPath["screen.unit.json"].RequiresAI, "UI-bearing unit needs review")
	assert.False(t, byPath["plain.unit.json"].RequiresAI)
}

func TestPlan_RequiresAIOverThreshold(t *testing.T) {
	var decls []unit.Declaration
	for i := 0; i < 5; i++ {
		decls = append(decls, unit.Declaration{Kind: unit.DeclClass, Name: "C"})
	}
	units := []unit.SourceUnit{{Path: "big.unit.json", Package: "p", Declarations: decls}}
	plan := Plan(units, projectGraph(units))

	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, 50, plan.Tasks[0].Complexity)
	assert.True(t, plan.Tasks[0].RequiresAI)
}
