// FileCache provides fast access to source-unit files via memory-mapped
// reads. Unit JSON files are read repeatedly across conversion runs (watch
// mode re-converts single units), so they are mapped once and sliced on
// demand, with a graceful os.ReadFile fallback when mmap fails.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides cached, memory-mapped file access.
//
// Thread-safe: reads don't block each other (RWMutex); only loads and
// Close take the write lock.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// ReadAll returns the full file contents as a string.
	ReadAll(filePath string) (string, error)

	// Size returns the number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases descriptors.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached files. 0 means unlimited.
	MaxFiles int

	// Logger for warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig covers typical projects (thousands of units).
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{MaxFiles: 10000}
}

// MappedFile is one memory-mapped (or fallback-loaded) file.
type MappedFile struct {
	Path     string
	Data     mmap.MMap // nil for empty files
	File     *os.File  // nil for fallback entries
	Size     int64
	MappedAt time.Time
}

// FileCacheStats tracks cumulative cache metrics.
type FileCacheStats struct {
	FilesLoaded  int64
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	MmapFailures int64
}

// NewFileCache creates a FileCache. A nil config uses defaults.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &fileCacheImpl{
		config:        config,
		cache:         make(map[string]*MappedFile),
		fallbackCache: make(map[string][]byte),
		logger:        config.Logger,
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	cache         map[string]*MappedFile
	fallbackCache map[string][]byte
	mu            sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

func (fc *fileCacheImpl) Get(filePath string) (*MappedFile, error) {
	// Fast path under the read lock.
	fc.mu.RLock()
	if mf, ok := fc.cache[filePath]; ok {
		fc.mu.RUnlock()
		fc.bump(&fc.stats.CacheHits)
		return mf, nil
	}
	if data, ok := fc.fallbackCache[filePath]; ok {
		fc.mu.RUnlock()
		fc.bump(&fc.stats.CacheHits)
		return wrapFallback(filePath, data), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check after acquiring the write lock.
	if mf, ok := fc.cache[filePath]; ok {
		fc.bump(&fc.stats.CacheHits)
		return mf, nil
	}
	if data, ok := fc.fallbackCache[filePath]; ok {
		fc.bump(&fc.stats.CacheHits)
		return wrapFallback(filePath, data), nil
	}

	if fc.config.MaxFiles > 0 && len(fc.cache)+len(fc.fallbackCache) >= fc.config.MaxFiles {
		fc.bump(&fc.stats.CacheMisses)
		return nil, fmt.Errorf("file cache limit reached: %d files", fc.config.MaxFiles)
	}

	mf, err := fc.loadFile(filePath)
	if err != nil {
		fc.bump(&fc.stats.CacheMisses)
		return nil, err
	}
	if mf.File != nil || mf.Size == 0 {
		fc.cache[filePath] = mf
	}
	fc.bump(&fc.stats.FilesLoaded)
	return mf, nil
}

// loadFile opens and maps a file, falling back to os.ReadFile when the
// mapping fails. Must hold the write lock.
func (fc *fileCacheImpl) loadFile(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	// Empty files can't be mapped.
	if stat.Size() == 0 {
		return &MappedFile{Path: filePath, File: file, MappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "error", err)
		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			file.Close()
			return nil, fmt.Errorf("mmap and fallback both failed for %q: %v; %w", filePath, err, readErr)
		}
		fc.fallbackCache[filePath] = raw
		fc.bump(&fc.stats.MmapFailures)
		file.Close()
		return wrapFallback(filePath, raw), nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
	}, nil
}

func wrapFallback(filePath string, data []byte) *MappedFile {
	return &MappedFile{
		Path:     filePath,
		Data:     mmap.MMap(data),
		Size:     int64(len(data)),
		MappedAt: time.Now(),
	}
}

func (fc *fileCacheImpl) ReadAll(filePath string) (string, error) {
	mf, err := fc.Get(filePath)
	if err != nil {
		return "", err
	}
	return string(mf.Data), nil
}

func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.cache) + len(fc.fallbackCache)
}

func (fc *fileCacheImpl) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.cache) + len(fc.fallbackCache)
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	return stats
}

func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if mf.Data != nil {
			if err := mf.Data.Unmap(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
			}
		}
		if mf.File != nil {
			if err := mf.File.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", path, err))
			}
		}
	}
	fc.cache = make(map[string]*MappedFile)
	fc.fallbackCache = make(map[string][]byte)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCacheImpl) bump(counter *int64) {
	fc.statsMu.Lock()
	*counter++
	fc.statsMu.Unlock()
}
