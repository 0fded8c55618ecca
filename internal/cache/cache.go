// Package cache keeps compilation results between runs: an in-memory LRU
// backed by a msgpack index file in a cache directory.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/oraudt/compiler"
	"github.com/syssam/oraudt/compiler/diag"
	"github.com/syssam/oraudt/compiler/gen"
)

// IndexFile is the name of the index file inside the cache directory.
const IndexFile = "index.msgpack"

// DefaultSize is the number of results kept when Open is given a
// non-positive size.
const DefaultSize = 1024

// indexVersion changes whenever the encoded layout changes. An index with
// another version is discarded.
const indexVersion = 1

type (
	index struct {
		Version int     `msgpack:"version"`
		Entries []entry `msgpack:"entries"`
	}
	entry struct {
		Key         string       `msgpack:"key"`
		Path        string       `msgpack:"path"`
		Files       []file       `msgpack:"files"`
		Diagnostics []diagnostic `msgpack:"diagnostics"`
	}
	file struct {
		Name      string `msgpack:"name"`
		Namespace string `msgpack:"namespace"`
		ClassName string `msgpack:"class"`
		Source    string `msgpack:"source"`
	}
	diagnostic struct {
		Code     string `msgpack:"code"`
		Severity int    `msgpack:"severity"`
		Message  string `msgpack:"message"`
		Path     string `msgpack:"path"`
	}
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report an unreadable index.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is a compiler.Cache. It is safe for concurrent use.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	lru   *lru.Cache[string, *compiler.Result]
	dirty bool
}

var _ compiler.Cache = (*Store)(nil)

// Open returns a Store holding at most size results, loaded from the index
// in dir. An empty dir keeps results in memory only. A missing index
// starts empty; an unreadable one is logged as a warning and ignored.
func Open(dir string, size int, opts ...Option) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *compiler.Result](size)
	if err != nil {
		return nil, fmt.Errorf("oraudt/cache: %w", err)
	}
	s := &Store{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
		lru:    c,
	}
	for _, opt := range opts {
		opt(s)
	}
	if dir == "" {
		return s, nil
	}
	if err := s.load(); err != nil {
		s.logger.Warn("ignoring cache index", slog.String("path", s.path()), slog.Any("error", err))
	}
	return s, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, IndexFile)
}

func (s *Store) load() error {
	buf, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var idx index
	if err := msgpack.Unmarshal(buf, &idx); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if idx.Version != indexVersion {
		return fmt.Errorf("index version %d, want %d", idx.Version, indexVersion)
	}
	// Entries are stored least recently used first.
	for _, e := range idx.Entries {
		s.lru.Add(e.Key, e.result())
	}
	return nil
}

// Get returns the result stored under key.
func (s *Store) Get(key string) (*compiler.Result, bool) {
	return s.lru.Get(key)
}

// Put stores r under key. Results with a parse error are not stored.
func (s *Store) Put(key string, r *compiler.Result) {
	if r == nil || r.Err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Add(key, r)
	s.dirty = true
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	return s.lru.Len()
}

// Flush writes the index when results were added since the last flush.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" || !s.dirty {
		return nil
	}
	idx := index{Version: indexVersion}
	for _, key := range s.lru.Keys() {
		if r, ok := s.lru.Peek(key); ok {
			idx.Entries = append(idx.Entries, newEntry(key, r))
		}
	}
	buf, err := msgpack.Marshal(&idx)
	if err != nil {
		return fmt.Errorf("oraudt/cache: encode index: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("oraudt/cache: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, IndexFile+".*")
	if err != nil {
		return fmt.Errorf("oraudt/cache: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("oraudt/cache: write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("oraudt/cache: write index: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("oraudt/cache: write index: %w", err)
	}
	s.dirty = false
	return nil
}

// Clear drops every result and removes the index file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Purge()
	s.dirty = false
	if s.dir == "" {
		return nil
	}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("oraudt/cache: %w", err)
	}
	return nil
}

func newEntry(key string, r *compiler.Result) entry {
	e := entry{Key: key, Path: r.Path}
	for _, f := range r.Files {
		e.Files = append(e.Files, file{
			Name:      f.Name,
			Namespace: f.Namespace,
			ClassName: f.ClassName,
			Source:    f.Source,
		})
	}
	for _, d := range r.Diagnostics {
		e.Diagnostics = append(e.Diagnostics, diagnostic{
			Code:     d.Code,
			Severity: int(d.Severity),
			Message:  d.Message,
			Path:     d.Path,
		})
	}
	return e
}

func (e entry) result() *compiler.Result {
	r := &compiler.Result{Path: e.Path}
	for _, f := range e.Files {
		r.Files = append(r.Files, &gen.File{
			Name:      f.Name,
			Namespace: f.Namespace,
			ClassName: f.ClassName,
			Source:    f.Source,
		})
	}
	for _, d := range e.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
			Code:     d.Code,
			Severity: diag.Severity(d.Severity),
			Message:  d.Message,
			Path:     d.Path,
		})
	}
	return r
}
