// Package compiler turns specification documents into generated C# source
// files and the diagnostics reported along the way.
//
// A document that fails to parse produces no files. A specification that
// fails to generate is reported and skipped; the other specifications of
// the same document are still generated.
package compiler

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/oraudt/compiler/diag"
	"github.com/syssam/oraudt/compiler/gen"
	"github.com/syssam/oraudt/compiler/load"
	"github.com/syssam/oraudt/compiler/parse"
	"github.com/syssam/oraudt/schema"
)

// Document is one specification document.
type Document = load.Document

// Discover reads all documents with extension ext under root. An empty
// ext matches load.DefaultExtension.
func Discover(root, ext string) ([]*Document, error) {
	cfg := &load.Config{Root: root, Extension: ext}
	return cfg.Load()
}

// Result is the outcome of compiling one document.
type Result struct {
	// Path of the compiled document.
	Path string
	// Files generated from the document, in declaration order.
	Files []*gen.File
	// Diagnostics reported while compiling the document.
	Diagnostics diag.List
	// Err holds the parse error when the document failed as a whole.
	Err error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithGenConfig sets the generator configuration.
func WithGenConfig(cfg *gen.Config) Option {
	return func(c *Compiler) {
		if cfg != nil {
			c.genConfig = cfg
		}
	}
}

// WithParseOptions adds parser options.
func WithParseOptions(opts ...parse.Option) Option {
	return func(c *Compiler) {
		c.parseOpts = append(c.parseOpts, opts...)
	}
}

// WithWorkers bounds the number of documents compiled in parallel by
// CompileAll.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCache sets the cache consulted before compiling a document.
func WithCache(cache Cache) Option {
	return func(c *Compiler) {
		c.cache = cache
	}
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler compiles documents. It may be used concurrently.
type Compiler struct {
	genConfig *gen.Config
	parseOpts []parse.Option
	workers   int
	cache     Cache
	logger    *slog.Logger

	gen         *gen.Generator
	parser      *parse.Parser
	fingerprint string
}

// New returns a Compiler configured with opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		genConfig: gen.DefaultConfig(),
		workers:   runtime.GOMAXPROCS(0),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	popts := c.parseOpts
	if c.genConfig.HasFeature(gen.FeatureAutoCollections.Name) {
		popts = append(popts, parse.WithAutoCollections())
	}
	c.gen = gen.NewGenerator(c.genConfig)
	c.parser = parse.NewParser(popts...)
	c.fingerprint = c.genConfig.Fingerprint() + "|" + c.parser.Fingerprint()
	return c
}

// Config returns the generator configuration.
func (c *Compiler) Config() *gen.Config {
	return c.genConfig
}

// Key returns the cache key of doc under the compiler settings.
func (c *Compiler) Key(doc *Document) string {
	return CacheKey{
		Path:     doc.Path,
		Module:   doc.Module,
		Root:     doc.Root,
		Contents: doc.Contents,
		Config:   c.fingerprint,
	}.String()
}

// Compile compiles one document. Results served from the cache are shared
// and must not be modified.
func (c *Compiler) Compile(ctx context.Context, doc *Document) *Result {
	var key string
	if c.cache != nil {
		key = c.Key(doc)
		if r, ok := c.cache.Get(key); ok {
			c.logger.DebugContext(ctx, "cache hit", slog.String("path", doc.Path))
			return r
		}
	}
	res := c.compile(ctx, doc)
	res.Diagnostics.Log(ctx, c.logger)
	if c.cache != nil && res.Err == nil && !res.Diagnostics.HasErrors() {
		c.cache.Put(key, res)
	}
	return res
}

func (c *Compiler) compile(ctx context.Context, doc *Document) *Result {
	res := &Result{Path: doc.Path}
	res.Diagnostics.Add(diag.FoundFile.New(doc.Path, doc.Path))
	if doc.IsEmpty() {
		res.Diagnostics.Add(diag.EmptyFile.New(doc.Path, doc.Path))
		return res
	}
	specs, err := c.parser.Parse(doc.Contents)
	if err != nil {
		res.Err = err
		res.Diagnostics.Add(diag.ParseFailed.New(doc.Path, err))
		return res
	}
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		res.Diagnostics.Add(diag.FoundSpec.New(doc.Path, spec.ClassName, diag.Fields(len(spec.Fields))))
		f, err := c.gen.File(spec, c.namespace(doc, spec, &res.Diagnostics))
		if err != nil {
			res.Diagnostics.Add(diag.GenerationFailed.New(doc.Path, err))
			continue
		}
		res.Files = append(res.Files, f)
		res.Diagnostics.Add(diag.GeneratedFile.New(doc.Path, f.Name, f.Namespace))
	}
	return res
}

// namespace returns the namespace spec is generated in when it declares
// none. A failed derivation falls back to the module name.
func (c *Compiler) namespace(doc *Document, spec *schema.Class, l *diag.List) string {
	if ns := strings.TrimSpace(spec.Namespace); ns != "" {
		return ns
	}
	ns, err := DeriveNamespace(doc.Module, doc.Root, doc.Path)
	if err != nil {
		ns = strings.TrimSpace(doc.Module)
		l.Add(diag.NamespaceFallback.New(doc.Path, spec.ClassName, err, ns))
	}
	return ns
}

// CompileAll compiles docs in parallel. Results are in the order of docs.
// The error is non-nil only when ctx is done before every document was
// compiled; the results of compiled documents are still returned.
func (c *Compiler) CompileAll(ctx context.Context, docs []*Document) ([]*Result, error) {
	results := make([]*Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Compile(gctx, doc)
			return nil
		})
	}
	return results, g.Wait()
}

// Files returns the files of all results, in order.
func Files(results []*Result) []*gen.File {
	var files []*gen.File
	for _, r := range results {
		if r != nil {
			files = append(files, r.Files...)
		}
	}
	return files
}

// Diagnostics returns the diagnostics of all results, in order.
func Diagnostics(results []*Result) diag.List {
	var l diag.List
	for _, r := range results {
		if r != nil {
			l.Add(r.Diagnostics...)
		}
	}
	return l
}
