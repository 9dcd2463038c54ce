package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/composeport/pkg/gen"
	"github.com/gnana997/composeport/pkg/graph"
	"github.com/gnana997/composeport/pkg/project"
	"github.com/gnana997/composeport/pkg/schedule"
	"github.com/gnana997/composeport/pkg/typemap"
	"github.com/gnana997/composeport/pkg/unit"
)

// jsonResult marshals a value into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleConvertUnit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("unit_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	u, err := unit.LoadFromBytes([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := s.converter.ConvertUnit(ctx, u)
	if res.Err != "" {
		return mcp.NewToolResultError(res.Err), nil
	}
	return jsonResult(res.Output)
}

func (s *Server) handleConvertProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outDir := req.GetString("out_dir", "")

	p, err := s.loader.LoadProject(root, s.scan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := s.converter.ConvertProject(ctx, p)

	if outDir != "" {
		outputs := make([]*gen.Output, 0, len(report.Results))
		for i := range report.Results {
			if report.Results[i].Output != nil {
				outputs = append(outputs, report.Results[i].Output)
			}
		}
		if err := project.WriteOutputs(outDir, outputs); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return jsonResult(report)
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := s.planProject(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"order": plan.Order,
		"tasks": plan.Tasks,
	})
}

func (s *Server) handleGetCycles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := s.planProject(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"cycles": plan.Cycles})
}

func (s *Server) handleMapType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{
		"source": typeName,
		"target": typemap.Map(typeName),
	})
}

// planProject loads the project named by the request's root argument and
// runs the scheduler over it.
func (s *Server) planProject(req mcp.CallToolRequest) (*schedule.Result, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return nil, err
	}
	p, err := s.loader.LoadProject(root, s.scan)
	if err != nil {
		return nil, err
	}
	symbols := graph.NewSymbolTable(p.Units)
	g := graph.Build(p.Units, symbols)
	return schedule.Plan(p.Units, g), nil
}
