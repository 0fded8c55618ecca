package gen

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/syssam/oraudt/schema"
)

// TemplateData is the value the templates execute on.
type TemplateData struct {
	// Spec is the specification being rendered.
	Spec *schema.Class
	// Namespace is the resolved namespace; empty renders the types in the
	// global namespace.
	Namespace string
	// Header is the file header comment.
	Header string
	// Usings are the imported namespaces, in order.
	Usings []string
	// NullableDisable reports whether "#nullable disable" is emitted.
	NullableDisable bool
	// Config is the generator configuration.
	Config *Config
	// Body holds the rendered types while the "file" template executes.
	Body string
}

// File is one generated source file.
type File struct {
	// Name is the file name, relative to the output directory.
	Name string `json:"name" yaml:"name"`
	// Namespace the types were generated in.
	Namespace string `json:"namespace" yaml:"namespace"`
	// ClassName of the specification the file was generated from.
	ClassName string `json:"class" yaml:"class"`
	// Source is the generated source text.
	Source string `json:"-" yaml:"-"`
}

// Generator renders specifications into C# source. It holds no mutable
// state after construction and may be used concurrently.
type Generator struct {
	cfg  *Config
	tmpl *Template
	err  error
}

// NewGenerator returns a Generator for cfg. A nil cfg uses DefaultConfig.
// Template overrides that fail to merge are reported by Generate.
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g := &Generator{cfg: cfg}
	g.tmpl, g.err = buildTemplates(cfg)
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

func buildTemplates(cfg *Config) (*Template, error) {
	tmpl, err := templates.Clone()
	if err != nil {
		return nil, err
	}
	var overrides []*Template
	for _, f := range cfg.Features {
		overrides = append(overrides, f.Templates...)
	}
	overrides = append(overrides, cfg.Templates...)
	for _, o := range overrides {
		if err := tmpl.merge(o); err != nil {
			return nil, fmt.Errorf("merge template %q: %w", o.Name(), err)
		}
	}
	return tmpl, nil
}

var defaultGenerator = sync.OnceValue(func() *Generator {
	return NewGenerator(DefaultConfig())
})

// Generate renders spec with the default configuration. An explicit
// namespace on spec wins over namespace.
func Generate(spec *schema.Class, namespace string) (string, error) {
	return defaultGenerator().Generate(spec, namespace)
}

// Generate renders spec into one source document. An explicit namespace on
// spec wins over namespace. Identical inputs always produce identical
// output. Any failure, including a panic while rendering, is returned as
// a *GenerationError.
func (g *Generator) Generate(spec *schema.Class, namespace string) (src string, err error) {
	if spec == nil {
		return "", NewGenerationError("validate", "", "", NewValidationError("", "", nil, "specification is nil"))
	}
	file := g.cfg.FileName(spec)
	defer func() {
		if r := recover(); r != nil {
			src = ""
			err = &GenerationError{Phase: "render", Class: spec.ClassName, File: file, Message: fmt.Sprint(r)}
		}
	}()
	if g.err != nil {
		return "", &GenerationError{Phase: "template", Class: spec.ClassName, File: file, Cause: g.err}
	}
	if err := Validate(spec); err != nil {
		return "", &GenerationError{Phase: "validate", Class: spec.ClassName, File: file, Cause: err}
	}
	data := &TemplateData{
		Spec:            spec,
		Namespace:       g.cfg.Namespace(spec, namespace),
		Header:          g.cfg.Header,
		Usings:          g.cfg.Usings,
		NullableDisable: g.cfg.HasFeature(FeatureNullableDisable.Name),
		Config:          g.cfg,
	}
	var body bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&body, "types", data); err != nil {
		return "", &GenerationError{Phase: "render", Class: spec.ClassName, File: file, Cause: err}
	}
	data.Body = body.String()
	var out bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&out, "file", data); err != nil {
		return "", &GenerationError{Phase: "render", Class: spec.ClassName, File: file, Cause: err}
	}
	indent := g.cfg.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	return expandTabs(out.String(), indent), nil
}

// File renders spec and returns it with its file name and namespace.
func (g *Generator) File(spec *schema.Class, fallbackNamespace string) (*File, error) {
	src, err := g.Generate(spec, fallbackNamespace)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:      g.cfg.FileName(spec),
		Namespace: g.cfg.Namespace(spec, fallbackNamespace),
		ClassName: spec.ClassName,
		Source:    src,
	}, nil
}

// Validate reports whether spec can be rendered. Specifications returned
// by the parser always can.
func Validate(spec *schema.Class) error {
	switch {
	case spec.ClassName == "":
		return NewValidationError("", "", nil, "class name is empty")
	case spec.RecordTypeName == "":
		return NewValidationError(spec.ClassName, "", nil, "record type name is empty")
	case spec.HasCollection() && spec.CollectionTypeName == "":
		return NewValidationError(spec.ClassName, "", spec.CollectionName, "collection type name is empty")
	}
	for i, f := range spec.Fields {
		switch {
		case f == nil:
			return NewValidationError(spec.ClassName, "", i, "field is nil")
		case f.PropertyName == "":
			return NewValidationError(spec.ClassName, "", i, "property name is empty")
		}
	}
	return nil
}
