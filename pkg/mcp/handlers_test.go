package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/composeport/pkg/convert"
	"github.com/gnana997/composeport/pkg/project"
)

// --- helpers ---

func testServer(t *testing.T) *Server {
	t.Helper()
	conv, err := convert.New(convert.Options{})
	require.NoError(t, err)
	loader := project.NewLoader(nil, nil)
	t.Cleanup(func() { loader.Close() })
	return NewServer(conv, loader, nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "convert_unit":
		handler = s.handleConvertUnit
	case "convert_project":
		handler = s.handleConvertProject
	case "list_tasks":
		handler = s.handleListTasks
	case "get_cycles":
		handler = s.handleGetCycles
	case "map_type":
		handler = s.handleMapType
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

const greetingUnitJSON = `{
	"path": "ui/greeting.unit.json",
	"package": "com.app.ui",
	"declarations": [
		{"kind": "function", "name": "Greeting", "modifiers": ["composable"],
		 "body": {"kind": "block", "body": [
			{"kind": "call", "callee": "Text",
			 "args": [{"value": {"kind": "literal", "text": "\"hi\""}}]}
		 ]}}
	]
}`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ui"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui", "greeting.unit.json"),
		[]byte(greetingUnitJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.unit.json"), []byte(`{
		"path": "user.unit.json",
		"package": "com.app.models",
		"declarations": [{"kind": "class", "name": "User"}]
	}`), 0644))
	return dir
}

// --- convert_unit ---

func TestHandleConvertUnit(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_unit", map[string]any{
		"unit_json": greetingUnitJSON,
	}))
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Equal(t, "greeting.dart", out["target_file"])
	assert.Contains(t, out["code"], "StatelessWidget")
}

func TestHandleConvertUnit_MissingParam(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_unit", nil))
	assert.True(t, result.IsError)
}

func TestHandleConvertUnit_InvalidUnit(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_unit", map[string]any{
		"unit_json": `{"path": "x"}`,
	}))
	assert.True(t, result.IsError)
}

// --- convert_project ---

func TestHandleConvertProject(t *testing.T) {
	s := testServer(t)
	root := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "out")

	result := callTool(t, s, makeRequest("convert_project", map[string]any{
		"root":    root,
		"out_dir": outDir,
	}))
	assert.False(t, result.IsError)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &report))
	assert.Equal(t, true, report["success"])

	_, err := os.Stat(filepath.Join(outDir, "greeting.dart"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "user.dart"))
	assert.NoError(t, err)
}

// --- list_tasks ---

func TestHandleListTasks(t *testing.T) {
	s := testServer(t)
	root := writeProject(t)

	result := callTool(t, s, makeRequest("list_tasks", map[string]any{"root": root}))
	assert.False(t, result.IsError)

	var out struct {
		Order []string         `json:"order"`
		Tasks []map[string]any `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Len(t, out.Order, 2)
	assert.Len(t, out.Tasks, 2)
}

func TestHandleListTasks_MissingRoot(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_tasks", nil))
	assert.True(t, result.IsError)
}

// --- get_cycles ---

func TestHandleGetCycles_NoCycles(t *testing.T) {
	s := testServer(t)
	root := writeProject(t)

	result := callTool(t, s, makeRequest("get_cycles", map[string]any{"root": root}))
	assert.False(t, result.IsError)

	var out struct {
		Cycles [][]string `json:"cycles"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Empty(t, out.Cycles)
}

// --- map_type ---

func TestHandleMapType(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("map_type", map[string]any{
		"type": "Map<String, Int?>",
	}))
	assert.False(t, result.IsError)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.Equal(t, "Map<String, int?>", out["target"])
}
