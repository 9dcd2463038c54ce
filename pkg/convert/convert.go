// Package convert drives a whole-project conversion run: graph building,
// scheduling, parallel per-unit generation with an LRU output cache, the
// AI-fallback boundary, and the project report.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/composeport/pkg/gen"
	"github.com/gnana997/composeport/pkg/graph"
	"github.com/gnana997/composeport/pkg/schedule"
	"github.com/gnana997/composeport/pkg/unit"
)

// Conventions are the target-ecosystem parameters handed to the assistant.
type Conventions struct {
	Framework string `json:"framework"` // e.g. "flutter"
	Notes     string `json:"notes,omitempty"`
}

// Assistant is the external AI-fallback collaborator. On success its text
// replaces the rule-based output unconditionally; the core never inspects
// the returned text. A nil Assistant disables the fallback.
type Assistant interface {
	ConvertUnit(ctx context.Context, unitText string, conv Conventions) (string, error)
}

// UnitResult is one unit's outcome within a report.
type UnitResult struct {
	UnitPath string      `json:"unit_path"`
	Output   *gen.Output `json:"output,omitempty"`
	UsedAI   bool        `json:"used_ai,omitempty"`
	Err      string      `json:"error,omitempty"`
}

// Report is the project-level outcome. Success is true only if zero
// per-unit errors were recorded; warnings never block.
type Report struct {
	RunID    string                    `json:"run_id"`
	Project  string                    `json:"project"`
	Tasks    []schedule.ConversionTask `json:"tasks"`
	Cycles   [][]string                `json:"cycles,omitempty"`
	Results  []UnitResult              `json:"results"`
	Errors   map[string]string         `json:"errors,omitempty"`
	Warnings []string                  `json:"warnings,omitempty"`
	Success  bool                      `json:"success"`
	Duration time.Duration             `json:"duration_ns"`
}

// Options configure a Converter.
type Options struct {
	// Workers is the pool size; 0 auto-detects.
	Workers int

	// CacheSize bounds the per-unit output LRU cache. 0 uses the default.
	CacheSize int

	// Assistant handles requires-AI tasks; nil disables the fallback.
	Assistant Assistant

	// Conventions passed to the assistant.
	Conventions Conventions

	// Logger; nil uses slog.Default().
	Logger *slog.Logger
}

const defaultCacheSize = 1024

// Converter runs project and single-unit conversions. Safe for reuse
// across runs; the output cache persists between them.
type Converter struct {
	workers     int
	assistant   Assistant
	conventions Conventions
	cache       *lru.Cache[string, *gen.Output]
	logger      *slog.Logger
}

// New creates a Converter.
func New(opts Options) (*Converter, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	size := opts.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *gen.Output](size)
	if err != nil {
		return nil, err
	}
	if opts.Conventions.Framework == "" {
		opts.Conventions.Framework = "flutter"
	}
	return &Converter{
		workers:     opts.Workers,
		assistant:   opts.Assistant,
		conventions: opts.Conventions,
		cache:       cache,
		logger:      opts.Logger,
	}, nil
}

// ConvertProject runs the full pipeline over a loaded project.
func (c *Converter) ConvertProject(ctx context.Context, p *unit.Project) *Report {
	start := time.Now()

	symbols := graph.NewSymbolTable(p.Units)
	g := graph.Build(p.Units, symbols)
	plan := schedule.Plan(p.Units, g)

	report := &Report{
		RunID:   uuid.NewString(),
		Project: p.Name,
		Tasks:   plan.Tasks,
		Cycles:  plan.Cycles,
		Errors:  make(map[string]string),
	}
	for _, cycle := range plan.Cycles {
		c.logger.Warn("dependency cycle detected", "cycle", cycle)
	}

	idx := p.BuildIndex()
	pool := newWorkerPool(c.workers, func(ctx context.Context, job unitJob) UnitResult {
		return c.convertOne(ctx, job.Unit, job.Task, g)
	}, c.logger)
	pool.Start()

	submitted := make(chan int, 1)
	go func() {
		count := 0
		for i, task := range plan.Tasks {
			u := idx.UnitByPath[task.UnitPath]
			if u == nil {
				continue
			}
			if err := pool.Submit(unitJob{Unit: u, Task: task, JobID: i}); err != nil {
				c.logger.Error("job submission failed", "unit", task.UnitPath, "error", err)
				break
			}
			count++
		}
		pool.FinishSubmitting()
		submitted <- count
	}()

	// Reassemble in task order so reports are deterministic regardless of
	// worker completion order. The collector waits for the number of jobs
	// actually submitted: missing units or a submission failure mean fewer
	// results than tasks.
	ordered := make([]*UnitResult, len(plan.Tasks))
	received := 0
	expected := -1
	for expected < 0 || received < expected {
		select {
		case n := <-submitted:
			expected = n
		case jr, ok := <-pool.Results():
			if !ok {
				expected = received
				continue
			}
			r := jr.Result
			ordered[jr.JobID] = &r
			received++
		}
	}
	pool.Stop()

	for _, r := range ordered {
		if r == nil {
			continue
		}
		report.Results = append(report.Results, *r)
		if r.Err != "" {
			report.Errors[r.UnitPath] = r.Err
		}
		if r.Output != nil {
			report.Warnings = append(report.Warnings, r.Output.Warnings...)
		}
	}

	report.Success = len(report.Errors) == 0
	report.Duration = time.Since(start)
	c.logger.Info("project conversion finished",
		"run_id", report.RunID,
		"units", len(report.Results),
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"success", report.Success)
	return report
}

// ConvertUnit converts a single unit outside a scheduled run (watch mode,
// MCP convert_unit). Dependency-derived imports are omitted.
func (c *Converter) ConvertUnit(ctx context.Context, u *unit.SourceUnit) UnitResult {
	task := schedule.ConversionTask{
		UnitPath:   u.Path,
		Complexity: schedule.Complexity(u),
		RequiresAI: u.HasUI(),
	}
	return c.convertOne(ctx, u, task, nil)
}

// convertOne converts one unit: cache lookup by content hash, rule-based
// generation, then the AI fallback for flagged tasks. The cached output is
// graph-independent; dependency imports are appended onto a copy per call,
// so a single-unit conversion never poisons a later project run (and vice
// versa). Never returns a partial result without an Err.
func (c *Converter) convertOne(ctx context.Context, u *unit.SourceUnit, task schedule.ConversionTask, g *graph.Graph) UnitResult {
	key := contentHash(u)
	if out, ok := c.cache.Get(key); ok {
		c.logger.Debug("output cache hit", "unit", u.Path)
		return UnitResult{UnitPath: u.Path, Output: withDepImports(out, u, g)}
	}

	out := gen.New().GenerateUnit(u)
	res := UnitResult{UnitPath: u.Path, Output: out}

	if task.RequiresAI && c.assistant != nil {
		raw, err := json.Marshal(u)
		if err == nil {
			text, aiErr := c.assistant.ConvertUnit(ctx, string(raw), c.conventions)
			if aiErr != nil {
				c.logger.Warn("assistant failed, keeping rule-based output",
					"unit", u.Path, "error", aiErr)
			} else if text != "" {
				out.Code = text
				out.GeneratedLines = countLines(text)
				res.UsedAI = true
			}
		}
	}

	c.cache.Add(key, out)
	res.Output = withDepImports(out, u, g)
	return res
}

// withDepImports returns a copy of out with the unit's graph-derived
// dependency imports appended. The original stays untouched so the cached
// value remains valid for runs without a graph.
func withDepImports(out *gen.Output, u *unit.SourceUnit, g *graph.Graph) *gen.Output {
	if g == nil {
		return out
	}
	deps := g.DependsOn[u.Path]
	if len(deps) == 0 {
		return out
	}
	wired := *out
	wired.Imports = make([]string, 0, len(out.Imports)+len(deps))
	wired.Imports = append(wired.Imports, out.Imports...)
	for _, dep := range deps {
		wired.Imports = append(wired.Imports, gen.TargetFileName(dep))
	}
	return &wired
}

// contentHash fingerprints a unit for the output cache.
func contentHash(u *unit.SourceUnit) string {
	data, err := json.Marshal(u)
	if err != nil {
		return u.Path
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
