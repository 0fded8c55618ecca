package cache

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/oraudt/compiler"
	"github.com/syssam/oraudt/compiler/diag"
	"github.com/syssam/oraudt/compiler/gen"
)

func result(path string) *compiler.Result {
	return &compiler.Result{
		Path: path,
		Files: []*gen.File{
			{Name: "A.g.cs", Namespace: "N", ClassName: "A", Source: "// a\n"},
		},
		Diagnostics: diag.List{
			diag.FoundFile.New(path, path),
			diag.EmptyFile.New(path, path),
		},
	}
}

func TestStore(t *testing.T) {
	t.Run("memory only", func(t *testing.T) {
		s, err := Open("", 2)
		require.NoError(t, err)
		s.Put("a", result("a.oraudt"))
		s.Put("b", result("b.oraudt"))
		s.Put("c", result("c.oraudt"))
		assert.Equal(t, 2, s.Len())
		_, ok := s.Get("a")
		assert.False(t, ok, "least recently used entry is evicted")
		r, ok := s.Get("c")
		require.True(t, ok)
		assert.Equal(t, "c.oraudt", r.Path)
		assert.NoError(t, s.Flush())
	})

	t.Run("skips failed results", func(t *testing.T) {
		s, err := Open("", 0)
		require.NoError(t, err)
		s.Put("a", &compiler.Result{Path: "a.oraudt", Err: assert.AnError})
		s.Put("b", nil)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("persists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache")
		s, err := Open(dir, 10)
		require.NoError(t, err)
		want := result("a.oraudt")
		s.Put("a", want)
		require.NoError(t, s.Flush())
		assert.FileExists(t, filepath.Join(dir, IndexFile))

		s, err = Open(dir, 10)
		require.NoError(t, err)
		got, ok := s.Get("a")
		require.True(t, ok)
		assert.Equal(t, want, got)
		assert.Equal(t, diag.Warning, got.Diagnostics[1].Severity)
	})

	t.Run("keeps recency order", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(dir, 2)
		require.NoError(t, err)
		s.Put("a", result("a.oraudt"))
		s.Put("b", result("b.oraudt"))
		_, _ = s.Get("a")
		require.NoError(t, s.Flush())

		s, err = Open(dir, 2)
		require.NoError(t, err)
		s.Put("c", result("c.oraudt"))
		_, ok := s.Get("b")
		assert.False(t, ok)
		_, ok = s.Get("a")
		assert.True(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(dir, 10)
		require.NoError(t, err)
		s.Put("a", result("a.oraudt"))
		require.NoError(t, s.Flush())
		require.NoError(t, s.Clear())
		assert.Equal(t, 0, s.Len())
		assert.NoFileExists(t, filepath.Join(dir, IndexFile))
		assert.NoError(t, s.Clear())
	})

	t.Run("corrupt index", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("not msgpack"), 0o644))
		var buf bytes.Buffer
		s, err := Open(dir, 10, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "ignoring cache index")

		s.Put("a", result("a.oraudt"))
		require.NoError(t, s.Flush())
		s, err = Open(dir, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStoreCompiler(t *testing.T) {
	s, err := Open(t.TempDir(), 10)
	require.NoError(t, err)
	c := compiler.New(compiler.WithCache(s))
	doc := &compiler.Document{Path: "/src/App/Udts/a.oraudt", Module: "App", Contents: "CLASS A A_T FIELDS [ int Id ]"}

	first := c.Compile(context.Background(), doc)
	require.Len(t, first.Files, 1)
	assert.Equal(t, 1, s.Len())
	cached, ok := s.Get(c.Key(doc))
	require.True(t, ok)
	assert.Same(t, first, cached)
	assert.Same(t, first, c.Compile(context.Background(), doc))
}
