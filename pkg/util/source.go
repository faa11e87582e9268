package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

// SourceCache hands out read-only views of source files.
//
// Files are memory-mapped on Acquire and unmapped on Release, so a batch
// run over thousands of files only keeps the in-flight ones mapped. When
// mmap fails (special files, exotic filesystems) the file is read into
// memory instead.
//
// Thread-safe: Acquire and Release may be called from many goroutines.
// A path acquired twice is mapped once and reference counted.
type SourceCache interface {
	// Acquire returns the contents of filePath. Every successful Acquire
	// must be paired with a Release. The returned slice is only valid
	// until then.
	Acquire(filePath string) (*MappedFile, error)

	// Release drops one reference to filePath, unmapping it when the
	// last reference goes away.
	Release(filePath string) error

	// Size returns the number of currently mapped files.
	Size() int

	// Stats returns cumulative cache metrics.
	Stats() SourceCacheStats

	// Close unmaps everything still mapped.
	Close() error
}

// SourceCacheConfig controls SourceCache behavior.
type SourceCacheConfig struct {
	// MaxOpenFiles bounds the number of simultaneously mapped files.
	// 0 means unlimited. Acquire fails when the limit is reached.
	MaxOpenFiles int

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultSourceCacheConfig returns limits suitable for a worker pool of
// GetOptimalPoolSize() workers.
func DefaultSourceCacheConfig() *SourceCacheConfig {
	return &SourceCacheConfig{
		MaxOpenFiles: 1024,
	}
}

// MappedFile is one acquired source file.
type MappedFile struct {
	Path string

	// Data is the file content. It aliases the mapping and must not be
	// retained after Release. Nil for empty files.
	Data mmap.MMap

	Size int64

	file     *os.File
	mapped   bool
	refCount int
}

// Bytes returns the content as a byte slice.
func (mf *MappedFile) Bytes() []byte {
	return []byte(mf.Data)
}

// SourceCacheStats tracks cache metrics.
type SourceCacheStats struct {
	// FilesMapped counts successful mmaps
	FilesMapped int64
	// Fallbacks counts files read with os.ReadFile after mmap failed
	Fallbacks int64
	// SharedHits counts Acquire calls served by an existing mapping
	SharedHits int64
	// BytesRead is the total size of all acquired files
	BytesRead int64
}

// NewSourceCache creates a SourceCache. A nil config uses DefaultSourceCacheConfig().
func NewSourceCache(config *SourceCacheConfig) SourceCache {
	if config == nil {
		config = DefaultSourceCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &sourceCache{
		maxOpen: config.MaxOpenFiles,
		logger:  logger,
		files:   make(map[string]*MappedFile),
	}
}

type sourceCache struct {
	maxOpen int
	logger  *slog.Logger

	mu    sync.Mutex
	files map[string]*MappedFile

	filesMapped atomic.Int64
	fallbacks   atomic.Int64
	sharedHits  atomic.Int64
	bytesRead   atomic.Int64
}

func (sc *sourceCache) Acquire(filePath string) (*MappedFile, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if mf, ok := sc.files[filePath]; ok {
		mf.refCount++
		sc.sharedHits.Add(1)
		return mf, nil
	}

	if sc.maxOpen > 0 && len(sc.files) >= sc.maxOpen {
		return nil, fmt.Errorf("source cache limit reached: %d open files", sc.maxOpen)
	}

	mf, err := sc.load(filePath)
	if err != nil {
		return nil, err
	}
	mf.refCount = 1
	sc.files[filePath] = mf
	sc.bytesRead.Add(mf.Size)

	return mf, nil
}

// load maps filePath, falling back to os.ReadFile. Must be called with mu held.
func (sc *sourceCache) load(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%q is a directory", filePath)
	}

	// mmap cannot map zero bytes
	if stat.Size() == 0 {
		file.Close()
		return &MappedFile{Path: filePath}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		sc.logger.Warn("mmap failed, using fallback",
			"file", filePath,
			"size", stat.Size(),
			"error", err)

		content, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		sc.fallbacks.Add(1)
		return &MappedFile{Path: filePath, Data: mmap.MMap(content), Size: int64(len(content))}, nil
	}

	sc.filesMapped.Add(1)
	return &MappedFile{
		Path:   filePath,
		Data:   data,
		Size:   stat.Size(),
		file:   file,
		mapped: true,
	}, nil
}

func (sc *sourceCache) Release(filePath string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	mf, ok := sc.files[filePath]
	if !ok {
		return fmt.Errorf("release of unknown file %q", filePath)
	}
	mf.refCount--
	if mf.refCount > 0 {
		return nil
	}
	delete(sc.files, filePath)
	return unmap(mf)
}

func unmap(mf *MappedFile) error {
	var firstErr error
	if mf.mapped {
		if err := mf.Data.Unmap(); err != nil {
			firstErr = fmt.Errorf("unmap %q: %w", mf.Path, err)
		}
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %q: %w", mf.Path, err)
		}
	}
	mf.Data = nil
	return firstErr
}

func (sc *sourceCache) Size() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.files)
}

func (sc *sourceCache) Stats() SourceCacheStats {
	return SourceCacheStats{
		FilesMapped: sc.filesMapped.Load(),
		Fallbacks:   sc.fallbacks.Load(),
		SharedHits:  sc.sharedHits.Load(),
		BytesRead:   sc.bytesRead.Load(),
	}
}

func (sc *sourceCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	for path, mf := range sc.files {
		if err := unmap(mf); err != nil {
			sc.logger.Warn("failed to release file", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	sc.files = make(map[string]*MappedFile)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
