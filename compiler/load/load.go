// Package load discovers and reads oraudt specification documents.
package load

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtension is the extension of specification documents.
const DefaultExtension = ".oraudt"

// skipDirs are build output directories that may hold stale copies of
// specification documents.
var skipDirs = []string{"bin", "obj", "node_modules"}

// Document is one specification document handed to the compiler.
type Document struct {
	// Path of the document. Relative paths are relative to the working directory.
	Path string `json:"path"`
	// Module is the project or assembly name, used as a namespace hint.
	Module string `json:"module,omitempty"`
	// Root is the project root directory.
	Root string `json:"root,omitempty"`
	// Contents is the document text.
	Contents string `json:"-"`
}

// IsEmpty reports whether the document holds only whitespace.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(strings.TrimPrefix(d.Contents, "\ufeff")) == ""
}

// Config holds the configuration for loading documents.
type Config struct {
	// Root is the directory that is searched recursively.
	Root string
	// Module is the project name attached to every loaded document.
	Module string
	// Extension of specification documents, matched case-insensitively.
	// Defaults to DefaultExtension.
	Extension string
}

// Discover returns the paths of all specification documents under Root,
// in lexical order. Hidden directories and build output directories
// are skipped.
func (c *Config) Discover() ([]string, error) {
	if c.Root == "" {
		return nil, fmt.Errorf("oraudt/load: missing root directory")
	}
	ext := c.extension()
	var paths []string
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != c.Root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("oraudt/load: discover %s: %w", c.Root, err)
	}
	return paths, nil
}

// Load discovers and reads all specification documents under Root.
func (c *Config) Load() ([]*Document, error) {
	paths, err := c.Discover()
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := c.Read(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Read reads a single document. The path does not need to be under Root
// or carry the configured extension.
func (c *Config) Read(path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oraudt/load: read document: %w", err)
	}
	return &Document{
		Path:     path,
		Module:   c.Module,
		Root:     c.Root,
		Contents: string(buf),
	}, nil
}

// Match reports whether path has the configured extension.
func (c *Config) Match(path string) bool {
	return strings.EqualFold(filepath.Ext(path), c.extension())
}

func (c *Config) extension() string {
	ext := c.Extension
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// SkipDir reports whether a directory with the given name is not searched
// for documents: hidden directories and build output directories.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".." ||
		slices.Contains(skipDirs, strings.ToLower(name))
}
