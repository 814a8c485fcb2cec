package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/report"
)

func newMeasureCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "measure <file.dxf>...",
		Short: "Measure the parts in DXF drawings",
		Long: `Measures every part in the given drawings and prints one row per part
with its cutting length, net area and hole count, followed by any warnings.
Exits non-zero when a drawing could not be measured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			runner := batch.NewRunner(g.batchOptions(), log, nil)
			run, err := runner.RunFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			rep, err := report.Build(cmd.Context(), run.ID, run.Files, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if err := rep.WriteJSON(out); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, rep.Table())
			}
			return run.Err()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
