package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/syssam/oraudt/schema"
)

const (
	// DefaultExtension is the extension of generated files.
	DefaultExtension = "cs"
	// DefaultIndent is one level of indentation in generated files.
	DefaultIndent = "    "

	defaultHeader = "// <auto-generated />\n// Code generated by oraudt. DO NOT EDIT."
)

// DefaultUsings are the namespaces imported by every generated file.
var DefaultUsings = []string{
	"System",
	"System.Diagnostics",
	"Oracle.ManagedDataAccess.Client",
	"Oracle.ManagedDataAccess.Types",
}

// Config holds the global codegen configuration. A Config is not mutated
// by the generator and may be shared between goroutines once built.
type Config struct {
	// Header is written verbatim at the top of each generated file.
	// An empty header is allowed.
	Header string

	// Extension of generated file names, without the leading dot.
	Extension string

	// Indent is one level of indentation.
	Indent string

	// Usings lists the namespaces imported by each generated file, in order.
	Usings []string

	// Features lists the enabled feature-flags.
	Features []Feature

	// Templates override or extend the default templates by name.
	Templates []*Template
}

// DefaultConfig returns a new Config holding the default settings.
func DefaultConfig() *Config {
	return &Config{
		Header:    defaultHeader,
		Extension: DefaultExtension,
		Indent:    DefaultIndent,
		Usings:    slices.Clone(DefaultUsings),
		Features:  DefaultFeatures(),
	}
}

// FileName returns the name of the file generated for spec. An explicit
// file name wins, otherwise the name is <ClassName>.g.<Extension>.
func (c *Config) FileName(spec *schema.Class) string {
	if name := strings.TrimSpace(spec.FileName); name != "" {
		return name
	}
	ext := c.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return spec.ClassName + ".g." + ext
}

// Namespace returns the namespace of the file generated for spec. An
// explicit namespace wins over fallback.
func (c *Config) Namespace(spec *schema.Class, fallback string) string {
	if ns := strings.TrimSpace(spec.Namespace); ns != "" {
		return ns
	}
	return strings.TrimSpace(fallback)
}

// FeatureEnabled reports if the given feature name is enabled.
// It's exported to be used by the template engine as follows:
//
//	{{ with $.Config.FeatureEnabled "csharp/nullable-disable" }}
//		...
//	{{ end }}
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, err := FeatureByName(name); err != nil {
		return false, err
	}
	return c.HasFeature(name), nil
}

// HasFeature reports whether the feature is enabled, without checking
// that the name is registered.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Fingerprint returns a digest of every setting that affects generated
// output. Two configs with equal fingerprints render identical files.
func (c *Config) Fingerprint() string {
	h := sha256.New()
	write := func(s string) {
		_, _ = io.WriteString(h, s)
		_, _ = h.Write([]byte{0})
	}
	write(c.Header)
	write(c.Extension)
	write(c.Indent)
	for _, u := range c.Usings {
		write(u)
	}
	names := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		names = append(names, strings.ToLower(f.Name))
	}
	slices.Sort(names)
	for _, n := range names {
		write(n)
	}
	for _, t := range c.Templates {
		// Templates returns the associated templates in map order.
		tts := t.Templates()
		slices.SortFunc(tts, func(a, b *template.Template) int {
			return strings.Compare(a.Name(), b.Name())
		})
		for _, tt := range tts {
			write(tt.Name())
			if tt.Tree != nil && tt.Tree.Root != nil {
				write(tt.Tree.Root.String())
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
