package cmdapi

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

type generateFlags struct {
	out    string
	module string
	dryRun bool
}

func generateCmd(e *env) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generates C# sources from specification documents.",
		Long: `Generates C# sources from specification documents.

Each path is a document or a directory searched recursively. Without paths,
the configured root is searched. The command fails when any document reports
an error; the files of the other documents are still written.`,
		Example: `  oraudt generate
  oraudt generate --out Generated Data/Udts
  oraudt generate --dry-run orders.oraudt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.applyGenerateFlags(cmd, flags)
			p, err := newPipeline(e.cfg, e.logger)
			if err != nil {
				return err
			}
			p.dryRun = flags.dryRun
			start := time.Now()
			s, err := p.run(cmd.Context(), args)
			if flags.dryRun {
				for _, f := range p.lastFiles {
					fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(e.cfg.Out, f.Name))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			e.logger.Debug("generate finished", "elapsed", time.Since(start))
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory")
	cmd.Flags().StringVarP(&flags.module, "module", "m", "", "project name used to derive namespaces")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the files that would be written")
	return cmd
}

func (e *env) applyGenerateFlags(cmd *cobra.Command, flags generateFlags) {
	if cmd.Flags().Changed("out") {
		e.cfg.Out = flags.out
	}
	if cmd.Flags().Changed("module") {
		e.cfg.Module = flags.module
	}
}
