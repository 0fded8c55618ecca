package gen

import (
	"embed"
	"io/fs"
	"maps"
	"text/template"
	"text/template/parse"
)

//go:embed template/*.tmpl
var templateDir embed.FS

// templates holds the default templates. Generators clone it before
// applying overrides.
var templates = MustParse(NewTemplate("oraudt").ParseFS(templateDir, "template/*.tmpl"))

// Template wraps the standard template.Template to
// provide additional functionality for oraudt extensions.
type Template struct {
	*template.Template
	FuncMap template.FuncMap
}

// NewTemplate creates an empty template with the standard codegen functions.
func NewTemplate(name string) *Template {
	t := &Template{Template: template.New(name)}
	return t.Funcs(Funcs)
}

// Funcs merges the given funcMap with the template functions.
func (t *Template) Funcs(funcMap template.FuncMap) *Template {
	t.Template.Funcs(funcMap)
	if t.FuncMap == nil {
		t.FuncMap = template.FuncMap{}
	}
	maps.Copy(t.FuncMap, funcMap)
	return t
}

// Parse parses text as a template body for t.
func (t *Template) Parse(text string) (*Template, error) {
	if _, err := t.Template.Parse(text); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFS is like ParseFiles or ParseGlob but reads from the file system fsys
// instead of the host operating system's file system.
func (t *Template) ParseFS(fsys fs.FS, patterns ...string) (*Template, error) {
	if _, err := t.Template.ParseFS(fsys, patterns...); err != nil {
		return nil, err
	}
	return t, nil
}

// AddParseTree adds the given parse tree to the template.
func (t *Template) AddParseTree(name string, tree *parse.Tree) (*Template, error) {
	if _, err := t.Template.AddParseTree(name, tree); err != nil {
		return nil, err
	}
	return t, nil
}

// Clone returns a copy of t whose associated templates can be redefined
// without affecting t.
func (t *Template) Clone() (*Template, error) {
	c, err := t.Template.Clone()
	if err != nil {
		return nil, err
	}
	return &Template{Template: c, FuncMap: maps.Clone(t.FuncMap)}, nil
}

// MustParse is a helper that wraps a call to a function returning
// (*Template, error) and panics if the error is non-nil.
func MustParse(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// merge adds every template defined in src to t, replacing templates of
// the same name.
func (t *Template) merge(src *Template) error {
	t.Funcs(src.FuncMap)
	for _, tt := range src.Templates() {
		if tt.Tree == nil || tt.Tree.Root == nil || len(tt.Tree.Root.Nodes) == 0 {
			continue
		}
		if _, err := t.AddParseTree(tt.Name(), tt.Tree); err != nil {
			return err
		}
	}
	return nil
}
