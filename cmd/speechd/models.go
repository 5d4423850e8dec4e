package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"speechd/internal/registry"
	"speechd/pkg/types"
)

func newModelsCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "models",
		Short:   "List models found in the models directory",
		Example: "  speechd models --models-dir ./models\n  speechd models --json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			loader, err := registry.NewFileLoader(cfg.ModelsDir, zerolog.Nop())
			if err != nil {
				return err
			}
			models, err := loader.Available()
			if err != nil {
				return err
			}
			if asJSON {
				if models == nil {
					models = []types.Model{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(types.ModelsResponse{Models: models})
			}
			if len(models) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no models under %s\n", loader.Root())
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSIZE\tPATH")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, humanize.IBytes(uint64(m.SizeBytes)), m.Path)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
