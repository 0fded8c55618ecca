package cmdapi

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/oraudt/compiler/gen"
	"github.com/syssam/oraudt/compiler/parse"
)

func parseCmd(e *env) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Prints the specifications declared in a document as YAML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("oraudt: %w", err)
			}
			var opts []parse.Option
			if strict {
				opts = append(opts, parse.WithStrictKeywords())
			}
			genCfg, err := gen.NewConfig(e.cfg.GenOptions()...)
			if err != nil {
				return err
			}
			if genCfg.HasFeature(gen.FeatureAutoCollections.Name) {
				opts = append(opts, parse.WithAutoCollections())
			}
			specs, err := parse.Parse(string(buf), opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(specs); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "require upper-case keywords")
	return cmd
}
