package mcp

import "github.com/mark3labs/mcp-go/mcp"

func convertUnitTool() mcp.Tool {
	return mcp.NewTool("convert_unit",
		mcp.WithDescription("Convert one parsed source unit (JSON) into Flutter/Dart source"),
		mcp.WithString("unit_json",
			mcp.Required(),
			mcp.Description("SourceUnit document as emitted by the front-end"),
		),
	)
}

func convertProjectTool() mcp.Tool {
	return mcp.NewTool("convert_project",
		mcp.WithDescription("Convert every unit under a project root and return the run report"),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Project root directory containing *.unit.json files"),
		),
		mcp.WithString("out_dir",
			mcp.Description("Directory to write generated .dart files into (omit to skip writing)"),
		),
	)
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("Return the scheduled conversion task list: priorities, dependency counts, complexity, AI flags"),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Project root directory"),
		),
	)
}

func getCyclesTool() mcp.Tool {
	return mcp.NewTool("get_cycles",
		mcp.WithDescription("Return dependency cycle diagnostics for a project"),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Project root directory"),
		),
	)
}

func mapTypeTool() mcp.Tool {
	return mcp.NewTool("map_type",
		mcp.WithDescription("Translate a Kotlin type name (generics and nullability included) to its Dart equivalent"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Type name text, e.g. 'Map<String, Int?>'"),
		),
	)
}
