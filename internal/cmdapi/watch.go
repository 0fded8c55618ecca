package cmdapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/oraudt/compiler/load"
)

// DefaultDebounce is how long the watcher waits for changes to settle
// before recompiling.
const DefaultDebounce = 250 * time.Millisecond

func watchCmd(e *env) *cobra.Command {
	var (
		flags    generateFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerates C# sources whenever a specification document changes.",
		Long: `Generates once, then watches the configured root and regenerates after
documents change. Unchanged documents are served from the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e.applyGenerateFlags(cmd, flags)
			p, err := newPipeline(e.cfg, e.logger)
			if err != nil {
				return err
			}
			w := &watcher{p: p, debounce: debounce, out: cmd.OutOrStdout()}
			return w.watch(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory")
	cmd.Flags().StringVarP(&flags.module, "module", "m", "", "project name used to derive namespaces")
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "quiet period before recompiling")
	return cmd
}

type watcher struct {
	p        *pipeline
	debounce time.Duration
	out      io.Writer
}

func (w *watcher) watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("oraudt: watch: %w", err)
	}
	defer fw.Close()
	if err := w.add(fw, w.p.cfg.Root); err != nil {
		return err
	}
	w.run(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(fw, ev) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.p.logger.Warn("watch error", slog.Any("error", err))
		case <-timer.C:
			w.run(ctx)
		}
	}
}

// relevant reports whether ev may change the generated files. New
// directories are added to the watch list.
func (w *watcher) relevant(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.add(fw, ev.Name); err != nil {
				w.p.logger.Warn("watch directory", slog.String("path", ev.Name), slog.Any("error", err))
			}
			return true
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	return w.p.loader.Match(ev.Name)
}

// add watches dir and its subdirectories, except those never searched
// for documents.
func (w *watcher) add(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path != dir {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && load.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.p.logger.Debug("watching", slog.String("path", path))
		return fw.Add(path)
	})
}

func (w *watcher) run(ctx context.Context) {
	s, err := w.p.run(ctx, nil)
	fmt.Fprintln(w.out, s)
	if err != nil && ctx.Err() == nil {
		w.p.logger.Error("generate failed", slog.Any("error", err))
	}
}
