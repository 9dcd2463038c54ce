package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnana997/composeport/pkg/assist"
	"github.com/gnana997/composeport/pkg/convert"
	"github.com/gnana997/composeport/pkg/gen"
	"github.com/gnana997/composeport/pkg/graph"
	mcpserver "github.com/gnana997/composeport/pkg/mcp"
	"github.com/gnana997/composeport/pkg/mcplog"
	"github.com/gnana997/composeport/pkg/project"
	"github.com/gnana997/composeport/pkg/schedule"
	"github.com/gnana997/composeport/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]
	switch command {
	case "convert":
		runConvert(args)
	case "schedule":
		runSchedule(args)
	case "inspect":
		runInspect(args)
	case "serve":
		runServe(args)
	case "watch":
		runWatch(args)
	case "setup":
		runSetup(args)
	case "version":
		fmt.Printf("composeport %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: composeport <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convert    Convert a project of unit files to Dart")
	fmt.Println("  schedule   Print the conversion plan for a project")
	fmt.Println("  inspect    Inspect a single unit file")
	fmt.Println("  serve      Start MCP server on stdio")
	fmt.Println("  watch      Re-convert unit files as they change")
	fmt.Println("  setup      Register the MCP server with detected AI agents")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}

// booleanFlags take no value; everything else starting with "--" consumes
// the next argument.
var booleanFlags = map[string]bool{
	"--json": true,
	"--body": true,
	"--auto": true,
}

// flagValue returns the value following --name, or "".
func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

// positional returns the first argument that is neither a flag nor a flag
// value.
func positional(args []string) string {
	skip := false
	for _, arg := range args {
		if skip {
			skip = false
			continue
		}
		if strings.HasPrefix(arg, "--") {
			skip = !booleanFlags[arg]
			continue
		}
		return arg
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

// newAssistant builds the Gemini fallback when GEMINI_API_KEY is set.
// Returns nil (no error) when the key is absent.
func newAssistant(ctx context.Context, model string, logger *slog.Logger) (convert.Assistant, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil
	}
	return assist.NewGemini(ctx, apiKey, model, logger)
}

func runConvert(args []string) {
	root := positional(args)
	if root == "" {
		root = "."
	}
	outDir := resolveOutDir(flagValue(args, "--out"))
	model := resolveModel(flagValue(args, "--model"))

	logger := util.NewLogger(util.DefaultLoggerConfig())
	util.SetDefault(logger)

	loader := project.NewLoader(nil, logger)
	defer loader.Close()

	p, err := loader.LoadProject(root, project.DefaultScanConfig())
	if err != nil {
		fatalf("failed to load project: %v", err)
	}
	if len(p.Units) == 0 {
		fatalf("no unit files found under %s", root)
	}

	ctx := context.Background()
	assistant, err := newAssistant(ctx, model, logger)
	if err != nil {
		logger.Warn("assistant unavailable, continuing rule-based only", "error", err)
		assistant = nil
	}

	conv, err := convert.New(convert.Options{Assistant: assistant, Logger: logger})
	if err != nil {
		fatalf("failed to create converter: %v", err)
	}

	report := conv.ConvertProject(ctx, p)

	var outputs []*gen.Output
	for _, r := range report.Results {
		if r.Err == "" && r.Output != nil {
			outputs = append(outputs, r.Output)
		}
	}
	if err := project.WriteOutputs(outDir, outputs); err != nil {
		fatalf("failed to write outputs: %v", err)
	}

	fmt.Printf("converted %d/%d units -> %s (warnings: %d)\n",
		len(outputs), len(report.Results), outDir, len(report.Warnings))
	for _, cycle := range report.Cycles {
		fmt.Printf("  cycle: %s\n", strings.Join(cycle, " -> "))
	}
	if !report.Success {
		for _, r := range report.Results {
			if r.Err != "" {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", r.UnitPath, r.Err)
			}
		}
		os.Exit(1)
	}
}

func runSchedule(args []string) {
	root := positional(args)
	if root == "" {
		root = "."
	}

	logger := util.NewLogger(util.DefaultLoggerConfig())
	loader := project.NewLoader(nil, logger)
	defer loader.Close()

	p, err := loader.LoadProject(root, project.DefaultScanConfig())
	if err != nil {
		fatalf("failed to load project: %v", err)
	}

	symbols := graph.NewSymbolTable(p.Units)
	g := graph.Build(p.Units, symbols)
	plan := schedule.Plan(p.Units, g)

	if hasFlag(args, "--json") {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			fatalf("failed to encode plan: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	printPlanHuman(plan)
}

func runInspect(args []string) {
	path := positional(args)
	if path == "" {
		fatalf("usage: composeport inspect <unit-file> [--json] [--body]")
	}

	logger := util.NewLogger(util.DefaultLoggerConfig())
	loader := project.NewLoader(nil, logger)
	defer loader.Close()

	u, err := loader.LoadUnit(path)
	if err != nil {
		fatalf("failed to load unit: %v", err)
	}

	if hasFlag(args, "--json") {
		data, err := json.MarshalIndent(u, "", "  ")
		if err != nil {
			fatalf("failed to encode unit: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	printUnitHuman(u, hasFlag(args, "--body"))
}

func runServe(args []string) {
	logPath := resolveLogPath(flagValue(args, "--log"))
	model := resolveModel(flagValue(args, "--model"))

	// stdout carries MCP traffic; everything else goes to stderr.
	logger := util.NewLogger(util.DefaultLoggerConfig())
	util.SetDefault(logger)

	toolLog, err := mcplog.NewLogger(logPath)
	if err != nil {
		fatalf("failed to open tool log: %v", err)
	}
	defer toolLog.Close()

	ctx := context.Background()
	assistant, err := newAssistant(ctx, model, logger)
	if err != nil {
		logger.Warn("assistant unavailable, continuing rule-based only", "error", err)
		assistant = nil
	}

	loader := project.NewLoader(nil, logger)
	defer loader.Close()

	conv, err := convert.New(convert.Options{Assistant: assistant, Logger: logger})
	if err != nil {
		fatalf("failed to create converter: %v", err)
	}

	srv := mcpserver.NewServer(conv, loader, toolLog)
	if err := srv.ServeStdio(); err != nil {
		fatalf("server error: %v", err)
	}
}

func runWatch(args []string) {
	root := positional(args)
	if root == "" {
		root = "."
	}
	outDir := resolveOutDir(flagValue(args, "--out"))
	model := resolveModel(flagValue(args, "--model"))

	logger := util.NewLogger(util.DefaultLoggerConfig())
	util.SetDefault(logger)

	ctx := context.Background()
	assistant, err := newAssistant(ctx, model, logger)
	if err != nil {
		logger.Warn("assistant unavailable, continuing rule-based only", "error", err)
		assistant = nil
	}

	loader := project.NewLoader(nil, logger)
	defer loader.Close()

	conv, err := convert.New(convert.Options{Assistant: assistant, Logger: logger})
	if err != nil {
		fatalf("failed to create converter: %v", err)
	}

	w, err := project.NewWatcher(loader, conv, project.WatchOptions{OutDir: outDir}, logger)
	if err != nil {
		fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(root); err != nil {
		fatalf("failed to start watcher: %v", err)
	}
	fmt.Printf("watching %s (output: %s), Ctrl-C to stop\n", root, outDir)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := w.Stop(); err != nil {
		fatalf("failed to stop watcher: %v", err)
	}
}
