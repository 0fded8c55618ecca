package cmdapi

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/syssam/oraudt/compiler"
	"github.com/syssam/oraudt/compiler/diag"
	"github.com/syssam/oraudt/compiler/gen"
	"github.com/syssam/oraudt/compiler/load"
	"github.com/syssam/oraudt/internal/cache"
	"github.com/syssam/oraudt/internal/config"
)

// pipeline discovers, compiles and writes documents. It is reused across
// the runs of a watch session.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	loader   *load.Config
	compiler *compiler.Compiler
	cache    *cache.Store
	dryRun   bool

	// lastFiles are the files generated by the last run.
	lastFiles []*gen.File
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	genCfg, err := gen.NewConfig(cfg.GenOptions()...)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		cfg:    cfg,
		logger: logger,
		loader: &load.Config{Root: cfg.Root, Module: cfg.Module, Extension: cfg.Extension},
	}
	opts := []compiler.Option{
		compiler.WithGenConfig(genCfg),
		compiler.WithWorkers(cfg.Workers),
		compiler.WithLogger(logger),
	}
	if cfg.CacheDir != "" {
		if p.cache, err = cache.Open(cfg.CacheDir, 0, cache.WithLogger(logger)); err != nil {
			return nil, err
		}
		opts = append(opts, compiler.WithCache(p.cache))
	}
	p.compiler = compiler.New(opts...)
	return p, nil
}

// documents returns the documents named by paths. A directory is searched
// recursively. No paths searches the configured root.
func (p *pipeline) documents(paths []string) ([]*load.Document, error) {
	if len(paths) == 0 {
		return p.loader.Load()
	}
	var docs []*load.Document
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("oraudt: %w", err)
		}
		if !fi.IsDir() {
			doc, err := p.loader.Read(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}
		sub := *p.loader
		sub.Root = path
		found, err := sub.Load()
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

// summary describes one run.
type summary struct {
	Documents int
	Files     int
	Written   int
	Unchanged int
	Errors    int
	Warnings  int
}

func (s summary) String() string {
	return fmt.Sprintf("compiled %s into %s (%d written, %d unchanged), %s, %s",
		diag.Count(s.Documents, "document"),
		diag.Count(s.Files, "file"),
		s.Written,
		s.Unchanged,
		diag.Count(s.Errors, "error"),
		diag.Count(s.Warnings, "warning"),
	)
}

// run compiles the documents named by paths and writes the generated
// files. The returned error is non-nil when a document reported an error
// diagnostic; files of the other documents are still written.
func (p *pipeline) run(ctx context.Context, paths []string) (summary, error) {
	var s summary
	docs, err := p.documents(paths)
	if err != nil {
		return s, err
	}
	results, err := p.compiler.CompileAll(ctx, docs)
	if err != nil {
		return s, err
	}
	files := compiler.Files(results)
	p.lastFiles = files
	diags := compiler.Diagnostics(results)
	s.Documents = len(docs)
	s.Files = len(files)
	s.Errors = diags.Count(diag.Error)
	s.Warnings = diags.Count(diag.Warning)
	if !p.dryRun {
		w := gen.NewWriter(p.cfg.Out).WithWorkers(p.cfg.Workers)
		if err := w.Write(ctx, files); err != nil {
			return s, err
		}
		m := w.Metrics()
		s.Written, s.Unchanged = m.FilesWritten, m.FilesUnchanged
	}
	if p.cache != nil {
		if err := p.cache.Flush(); err != nil {
			p.logger.Warn("flushing cache", slog.Any("error", err))
		}
	}
	return s, compiler.Errors(results)
}
