package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer persists generated files under a target directory with bounded
// parallelism. Files whose content is unchanged on disk are left alone.
type Writer struct {
	target  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks what a Writer did.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
}

// NewWriter creates a writer for the target directory.
func NewWriter(target string) *Writer {
	return &Writer{
		target:  target,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes files in parallel. Two files with the same name in one
// batch are rejected before anything is written.
func (w *Writer) Write(ctx context.Context, files []*File) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if !filepath.IsLocal(f.Name) {
			return &GenerationError{Phase: "write", Class: f.ClassName, File: f.Name, Message: "file name escapes the output directory"}
		}
		key := filepath.Clean(f.Name)
		if other, ok := seen[key]; ok {
			return &GenerationError{Phase: "write", Class: f.ClassName, File: f.Name, Message: fmt.Sprintf("file also generated for class %s", other)}
		}
		seen[key] = f.ClassName
	}
	if err := os.MkdirAll(w.target, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// writeFile writes a single file.
func (w *Writer) writeFile(f *File) error {
	path := filepath.Join(w.target, f.Name)
	content := []byte(f.Source)
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.mu.Unlock()
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &GenerationError{Phase: "write", Class: f.ClassName, File: f.Name, Cause: err}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return &GenerationError{Phase: "write", Class: f.ClassName, File: f.Name, Cause: err}
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.mu.Unlock()
	return nil
}
