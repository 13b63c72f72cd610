package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/registry"
)

var showInclude []string

// showCmd prints one record as a detail card
var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Show one record",
	Long: `Show a single record as a detail card. Union resources display only
the fields of the record's own variant. Included relationships render
inline: referenced records by name, link collections as counts.

Examples:
  limsctl show experiments 4
  limsctl show experiments 4 --include reactor,samples,contaminants
  limsctl show catalysts 2 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringSliceVar(&showInclude, "include", nil, "Relationships to embed, comma-separated")
}

func runShow(ctx context.Context, resource, rawID string) error {
	meta, err := registry.Lookup(resource)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := checkIncludes(meta, showInclude); err != nil {
		return err
	}

	record, err := getRecord(ctx, meta, id, showInclude)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(os.Stdout, record)
	}

	output.Section(fmt.Sprintf("%s/%d", meta.Resource, id))
	fmt.Print(output.RenderDetail(meta, record))
	return nil
}
