package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/composeport/pkg/gen"
	"github.com/gnana997/composeport/pkg/unit"
	"github.com/gnana997/composeport/pkg/util"
)

// Loader reads unit files through the mmap-backed file cache.
type Loader struct {
	cache  util.FileCache
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil cache gets a default one.
func NewLoader(cache util.FileCache, logger *slog.Logger) *Loader {
	if cache == nil {
		cache = util.NewFileCache(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cache: cache, logger: logger}
}

// Close releases the underlying file cache.
func (l *Loader) Close() error { return l.cache.Close() }

// LoadUnit reads and validates one unit file.
func (l *Loader) LoadUnit(path string) (*unit.SourceUnit, error) {
	data, err := l.cache.ReadAll(path)
	if err != nil {
		return nil, err
	}
	u, err := unit.LoadFromBytes([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unit file %q: %w", path, err)
	}
	return u, nil
}

// LoadProject discovers and loads every unit under rootDir. A unit that
// fails to load is skipped with a warning; loading a project never fails on
// a single bad unit.
func (l *Loader) LoadProject(rootDir string, cfg ScanConfig) (*unit.Project, error) {
	paths, err := DiscoverUnits(rootDir, cfg)
	if err != nil {
		return nil, err
	}

	p := &unit.Project{Name: filepath.Base(rootDir)}
	for _, path := range paths {
		u, err := l.LoadUnit(path)
		if err != nil {
			l.logger.Warn("skipping unloadable unit file", "path", path, "error", err)
			continue
		}
		p.Units = append(p.Units, *u)
	}
	l.logger.Info("project loaded", "root", rootDir, "units", len(p.Units))
	return p, nil
}

// WriteOutputs writes generated Dart files under outDir, one file per
// output record, prefixing the rendered imports.
func WriteOutputs(outDir string, outputs []*gen.Output) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, out := range outputs {
		if out == nil {
			continue
		}
		path := filepath.Join(outDir, out.TargetFile)
		if err := os.WriteFile(path, []byte(RenderFile(out)), 0644); err != nil {
			return fmt.Errorf("failed to write %q: %w", path, err)
		}
	}
	return nil
}

// RenderFile assembles one output record into full file text: import
// statements, a blank line, then the rendered declarations.
func RenderFile(out *gen.Output) string {
	var b strings.Builder
	for _, imp := range out.Imports {
		fmt.Fprintf(&b, "import '%s';\n", imp)
	}
	if len(out.Imports) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(out.Code)
	if !strings.HasSuffix(out.Code, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
