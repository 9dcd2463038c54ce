package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/composeport/pkg/unit"
)

// --- helpers ---

// fakeAssistant records calls and returns a canned response.
type fakeAssistant struct {
	response string
	err      error
	calls    int
	lastConv Conventions
}

func (f *fakeAssistant) ConvertUnit(_ context.Context, _ string, conv Conventions) (string, error) {
	f.calls++
	f.lastConv = conv
	return f.response, f.err
}

// panicAssistant aborts any conversion it is offered.
type panicAssistant struct{}

func (panicAssistant) ConvertUnit(context.Context, string, Conventions) (string, error) {
	panic("assistant transport failure")
}

func composableUnit(path, name string) unit.SourceUnit {
	return unit.SourceUnit{Path: path, Package: "com.app", Declarations: []unit.Declaration{
		{Kind: unit.DeclFunction, Name: name, Modifiers: []string{"composable"},
			Body: &unit.Expr{Kind: unit.ExprBlock, Body: []unit.Expr{
				{Kind: unit.ExprCall, Callee: "Text", Args: []unit.Argument{
					{Value: unit.Expr{Kind: unit.ExprLiteral, Text: `"hi"`}},
				}},
			}}},
	}}
}

func classUnit(path, pkg, name string) unit.SourceUnit {
	return unit.SourceUnit{Path: path, Package: pkg, Declarations: []unit.Declaration{
		{Kind: unit.DeclClass, Name: name},
	}}
}

func newConverter(t *testing.T, opts Options) *Converter {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

// --- single-unit conversion ---

func TestConvertUnit_RuleBased(t *testing.T) {
	c := newConverter(t, Options{})
	u := composableUnit("ui/greeting.unit.json", "Greeting")

	res := c.ConvertUnit(context.Background(), &u)
	require.Empty(t, res.Err)
	require.NotNil(t, res.Output)
	assert.Equal(t, "greeting.dart", res.Output.TargetFile)
	assert.Contains(t, res.Output.Code, "class Greeting extends StatelessWidget")
	assert.False(t, res.UsedAI)
}

func TestConvertUnit_AssistantReplacesOutput(t *testing.T) {
	fake := &fakeAssistant{response: "class Greeting {}\n"}
	c := newConverter(t, Options{Assistant: fake})
	u := composableUnit("ui/greeting.unit.json", "Greeting")

	res := c.ConvertUnit(context.Background(), &u)
	require.Empty(t, res.Err)
	assert.True(t, res.UsedAI)
	assert.Equal(t, "class Greeting {}\n", res.Output.Code)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "flutter", fake.lastConv.Framework)
}

func TestConvertUnit_AssistantFailureKeepsRuleBased(t *testing.T) {
	fake := &fakeAssistant{err: errors.New("quota exceeded")}
	c := newConverter(t, Options{Assistant: fake})
	u := composableUnit("ui/greeting.unit.json", "Greeting")

	res := c.ConvertUnit(context.Background(), &u)
	require.Empty(t, res.Err)
	assert.False(t, res.UsedAI)
	assert.Contains(t, res.Output.Code, "StatelessWidget")
	assert.Equal(t, 1, fake.calls)
}

func TestConvertUnit_NonUIUnitSkipsAssistant(t *testing.T) {
	fake := &fakeAssistant{response: "whatever"}
	c := newConverter(t, Options{Assistant: fake})
	u := classUnit("models/user.unit.json", "com.app", "User")

	res := c.ConvertUnit(context.Background(), &u)
	require.Empty(t, res.Err)
	assert.False(t, res.UsedAI)
	assert.Zero(t, fake.calls)
}

// --- output cache ---

func TestConvertUnit_CacheHit(t *testing.T) {
	fake := &fakeAssistant{response: "cached output"}
	c := newConverter(t, Options{Assistant: fake})
	u := composableUnit("ui/greeting.unit.json", "Greeting")

	first := c.ConvertUnit(context.Background(), &u)
	second := c.ConvertUnit(context.Background(), &u)

	assert.Equal(t, 1, fake.calls, "second conversion must come from the cache")
	assert.Equal(t, first.Output, second.Output)
}

func TestConvertUnit_CacheKeyedByContent(t *testing.T) {
	c := newConverter(t, Options{})
	u := composableUnit("ui/greeting.unit.json", "Greeting")

	first := c.ConvertUnit(context.Background(), &u)
	assert.Contains(t, first.Output.Code, "class Greeting")

	u.Declarations[0].Name = "Farewell"
	second := c.ConvertUnit(context.Background(), &u)
	assert.Contains(t, second.Output.Code, "class Farewell")
}

// --- project conversion ---

func TestConvertProject_Success(t *testing.T) {
	c := newConverter(t, Options{Workers: 2})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		classUnit("models/user.unit.json", "com.app.models", "User"),
		composableUnit("ui/greeting.unit.json", "Greeting"),
	}}

	report := c.ConvertProject(context.Background(), p)

	assert.True(t, report.Success)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "demo", report.Project)
	assert.Len(t, report.Results, 2)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Cycles)
	for _, r := range report.Results {
		assert.NotNil(t, r.Output)
	}
}

func TestConvertProject_ResultsFollowTaskOrder(t *testing.T) {
	c := newConverter(t, Options{Workers: 4})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		classUnit("a.unit.json", "p", "A"),
		classUnit("b.unit.json", "p", "B"),
		classUnit("c.unit.json", "p", "C"),
	}}

	report := c.ConvertProject(context.Background(), p)
	require.Len(t, report.Results, 3)
	for i, task := range report.Tasks {
		assert.Equal(t, task.UnitPath, report.Results[i].UnitPath)
	}
}

func TestConvertProject_DependencyImports(t *testing.T) {
	c := newConverter(t, Options{})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		classUnit("models/user.unit.json", "com.app.models", "User"),
		{Path: "ui/screen.unit.json", Package: "com.app.ui",
			Imports: []string{"com.app.models.User"},
			Declarations: []unit.Declaration{
				{Kind: unit.DeclFunction, Name: "UserScreen", Modifiers: []string{"composable"},
					Body: &unit.Expr{Kind: unit.ExprBlock}},
			}},
	}}

	report := c.ConvertProject(context.Background(), p)
	require.True(t, report.Success)

	var screen *UnitResult
	for i := range report.Results {
		if report.Results[i].UnitPath == "ui/screen.unit.json" {
			screen = &report.Results[i]
		}
	}
	require.NotNil(t, screen)
	assert.Contains(t, screen.Output.Imports, "user.dart")
}

func TestConvertUnit_ThenProject_KeepsDependencyImports(t *testing.T) {
	c := newConverter(t, Options{})
	screen := unit.SourceUnit{Path: "ui/screen.unit.json", Package: "com.app.ui",
		Imports: []string{"com.app.models.User"},
		Declarations: []unit.Declaration{
			{Kind: unit.DeclFunction, Name: "UserScreen", Modifiers: []string{"composable"},
				Body: &unit.Expr{Kind: unit.ExprBlock}},
		}}
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		classUnit("models/user.unit.json", "com.app.models", "User"),
		screen,
	}}

	// Single-unit conversion first (watch mode, convert_unit): no graph,
	// so no dependency imports.
	single := c.ConvertUnit(context.Background(), &screen)
	require.Empty(t, single.Err)
	assert.NotContains(t, single.Output.Imports, "user.dart")

	// A project run on the same converter cache-hits the unit but must
	// still wire the graph-derived import.
	report := c.ConvertProject(context.Background(), p)
	require.True(t, report.Success)
	var screenRes *UnitResult
	for i := range report.Results {
		if report.Results[i].UnitPath == "ui/screen.unit.json" {
			screenRes = &report.Results[i]
		}
	}
	require.NotNil(t, screenRes)
	assert.Contains(t, screenRes.Output.Imports, "user.dart")

	// And the project run must not leak its imports back into the cache.
	again := c.ConvertUnit(context.Background(), &screen)
	require.Empty(t, again.Err)
	assert.NotContains(t, again.Output.Imports, "user.dart")
}

func TestConvertProject_UnitFailureIsolated(t *testing.T) {
	// The class unit never consults the assistant; the composable does and
	// panics inside it.
	c := newConverter(t, Options{Workers: 2, Assistant: panicAssistant{}})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		classUnit("models/user.unit.json", "com.app.models", "User"),
		composableUnit("ui/greeting.unit.json", "Greeting"),
	}}

	report := c.ConvertProject(context.Background(), p)

	assert.False(t, report.Success)
	require.Contains(t, report.Errors, "ui/greeting.unit.json")
	assert.Contains(t, report.Errors["ui/greeting.unit.json"], "conversion panicked")

	require.Len(t, report.Results, 2)
	for _, r := range report.Results {
		if r.UnitPath == "models/user.unit.json" {
			assert.Empty(t, r.Err, "sibling unit must convert")
			assert.NotNil(t, r.Output)
		}
	}
}

func TestConvertProject_CycleReported(t *testing.T) {
	c := newConverter(t, Options{})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		{Path: "a.unit.json", Package: "p", Imports: []string{"p.B"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "A"}}},
		{Path: "b.unit.json", Package: "p", Imports: []string{"p.A"},
			Declarations: []unit.Declaration{{Kind: unit.DeclClass, Name: "B"}}},
	}}

	report := c.ConvertProject(context.Background(), p)
	assert.True(t, report.Success, "cycles never block conversion")
	assert.Len(t, report.Cycles, 1)
	assert.Len(t, report.Results, 2)
}

func TestConvertProject_WarningsCollected(t *testing.T) {
	c := newConverter(t, Options{})
	p := &unit.Project{Name: "demo", Units: []unit.SourceUnit{
		{Path: "ui/custom.unit.json", Package: "com.app",
			Declarations: []unit.Declaration{
				{Kind: unit.DeclFunction, Name: "Screen", Modifiers: []string{"composable"},
					Body: &unit.Expr{Kind: unit.ExprBlock, Body: []unit.Expr{
						{Kind: unit.ExprCall, Callee: "MysteryWidget"},
					}}},
			}},
	}}

	report := c.ConvertProject(context.Background(), p)
	assert.True(t, report.Success)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "MysteryWidget")
}

// --- conventions ---

func TestNew_DefaultConventions(t *testing.T) {
	c := newConverter(t, Options{})
	assert.Equal(t, "flutter", c.conventions.Framework)
}

// --- content hashing ---

func TestContentHash_Distinguishes(t *testing.T) {
	a := classUnit("a.unit.json", "p", "A")
	b := classUnit("a.unit.json", "p", "B")
	assert.NotEqual(t, contentHash(&a), contentHash(&b))
	assert.Equal(t, contentHash(&a), contentHash(&a))
}
