package unit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func validUnit() SourceUnit {
	return SourceUnit{
		Path:    "ui/Greeting.unit.json",
		Package: "com.app.ui",
		Declarations: []Declaration{
			{Kind: DeclFunction, Name: "Greeting", Modifiers: []string{"composable"},
				Body: &Expr{Kind: ExprBlock, Body: []Expr{
					{Kind: ExprCall, Callee: "Text", Args: []Argument{
						{Value: Expr{Kind: ExprLiteral, Text: `"hi"`}},
					}},
				}}},
		},
	}
}

// --- Validate ---

func TestValidate_OK(t *testing.T) {
	u := validUnit()
	assert.Empty(t, u.Validate())
}

func TestValidate_MissingPathAndPackage(t *testing.T) {
	u := SourceUnit{}
	errs := u.Validate()
	assert.Len(t, errs, 2)
}

func TestValidate_UnknownDeclKind(t *testing.T) {
	u := validUnit()
	u.Declarations = append(u.Declarations, Declaration{Kind: "enum", Name: "Color"})
	errs := u.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown kind")
}

func TestValidate_DuplicateDeclName(t *testing.T) {
	u := validUnit()
	u.Declarations = append(u.Declarations, Declaration{Kind: DeclFunction, Name: "Greeting"})
	errs := u.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate")
}

func TestValidate_UnknownExprKindNested(t *testing.T) {
	u := validUnit()
	u.Declarations[0].Body.Body[0].Args[0].Value = Expr{Kind: "spread"}
	errs := u.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown expression kind")
}

// --- composable detection ---

func TestIsComposable(t *testing.T) {
	d := Declaration{Kind: DeclFunction, Name: "A", Modifiers: []string{"private", "composable"}}
	assert.True(t, d.IsComposable())

	d = Declaration{Kind: DeclFunction, Name: "B"}
	assert.False(t, d.IsComposable())
}

func TestHasUI(t *testing.T) {
	u := validUnit()
	assert.True(t, u.HasUI())

	u.Declarations[0].Modifiers = nil
	assert.False(t, u.HasUI())
}

// --- BuildIndex ---

func TestBuildIndex(t *testing.T) {
	p := Project{Units: []SourceUnit{
		validUnit(),
		{Path: "models/user.unit.json", Package: "com.app.models",
			Declarations: []Declaration{{Kind: DeclClass, Name: "User"}}},
	}}
	idx := p.BuildIndex()

	assert.Same(t, &p.Units[1], idx.UnitByPath["models/user.unit.json"])
	assert.Equal(t, "ui/Greeting.unit.json", idx.DeclarationUnit["Greeting"])
	assert.Equal(t, "models/user.unit.json", idx.DeclarationUnit["User"])
}

// --- loading ---

func TestLoadFromBytes_OK(t *testing.T) {
	data := []byte(`{
		"path": "ui/Greeting.unit.json",
		"package": "com.app.ui",
		"imports": ["com.app.models.User"],
		"declarations": [
			{"kind": "function", "name": "Greeting", "modifiers": ["composable"],
			 "body": {"kind": "block", "body": [
				{"kind": "call", "callee": "Text",
				 "args": [{"value": {"kind": "literal", "text": "\"hi\""}}]}
			 ]}}
		]
	}`)
	u, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "com.app.ui", u.Package)
	require.Len(t, u.Declarations, 1)
	assert.True(t, u.Declarations[0].IsComposable())
	require.NotNil(t, u.Declarations[0].Body)
	assert.Equal(t, ExprBlock, u.Declarations[0].Body.Kind)
}

func TestLoadFromBytes_InvalidJSON(t *testing.T) {
	_, err := LoadFromBytes([]byte("{not json"))
	assert.Error(t, err)
}

func TestLoadFromBytes_ValidationFailure(t *testing.T) {
	_, err := LoadFromBytes([]byte(`{"path": "a.unit.json"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package is required")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.unit.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"path": "greeting.unit.json", "package": "com.app"}`), 0644))

	u, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "com.app", u.Package)

	_, err = LoadFromFile(filepath.Join(dir, "missing.unit.json"))
	assert.Error(t, err)
}
