package gen

import (
	"errors"
	"slices"
	"strings"
	"unicode"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = strings.TrimRight(header, "\n")
		return nil
	}
}

// WithExtension sets the extension of generated file names.
// A leading dot is ignored.
func WithExtension(ext string) Option {
	return func(c *Config) error {
		ext = strings.TrimPrefix(ext, ".")
		switch {
		case ext == "":
			return NewConfigError("Extension", nil, "extension cannot be empty")
		case strings.ContainsAny(ext, `/\`):
			return NewConfigError("Extension", ext, "extension must not contain a path separator")
		}
		c.Extension = ext
		return nil
	}
}

// WithIndent sets one level of indentation, e.g. four spaces or a tab.
func WithIndent(indent string) Option {
	return func(c *Config) error {
		if indent == "" {
			return NewConfigError("Indent", nil, "indent cannot be empty")
		}
		if strings.Trim(indent, " \t") != "" {
			return NewConfigError("Indent", indent, "indent must contain only spaces and tabs")
		}
		c.Indent = indent
		return nil
	}
}

// WithUsings adds namespaces to the using directives of each generated
// file. Namespaces already present are skipped.
func WithUsings(namespaces ...string) Option {
	return func(c *Config) error {
		for _, ns := range namespaces {
			if ns == "" || strings.ContainsFunc(ns, func(r rune) bool {
				return unicode.IsSpace(r) || r == ';'
			}) {
				return NewConfigError("Usings", ns, "invalid namespace")
			}
			if !slices.Contains(c.Usings, ns) {
				c.Usings = append(c.Usings, ns)
			}
		}
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables the registered features with the given names.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, err := FeatureByName(name)
			if err != nil {
				return err
			}
			if err := WithFeatures(f)(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithTemplates adds custom templates for code generation.
// A template named like a default one ("class", "factory", "array",
// "array/factory", "types", "header", "file") replaces it.
func WithTemplates(templates ...*Template) Option {
	return func(c *Config) error {
		for _, t := range templates {
			if t == nil {
				return NewConfigError("Templates", nil, "template cannot be nil")
			}
		}
		c.Templates = append(c.Templates, templates...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
