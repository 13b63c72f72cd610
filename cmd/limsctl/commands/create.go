package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/rest"
	"github.com/plasmalab/limsctl/pkg/schema"
)

var createFields []string

// createCmd posts a new record
var createCmd = &cobra.Command{
	Use:   "create <resource> --field name=value ...",
	Short: "Create a record",
	Long: `Create a record from --field pairs. Fields are validated against the
resource's rules before anything is sent: required fields, numeric
shape, enum membership, and for union resources the variant tag plus
variant field membership.

Examples:
  limsctl create chemicals --field name=Toluene --field formula=C7H8
  limsctl create analyzers --field name="Bruker Alpha II" \
    --field analyzer_type=ftir --field path_length=0.1 --field scans=16
  limsctl create experiments --field name="plasma run 9" \
    --field experiment_type=plasma --field delivered_power=35.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringArrayVar(&createFields, "field", nil, "Field to set, as name=value (repeatable)")
	_ = createCmd.MarkFlagRequired("field")
}

func runCreate(ctx context.Context, resource string) error {
	meta, err := registry.Lookup(resource)
	if err != nil {
		return err
	}

	values, err := parseFields(createFields)
	if err != nil {
		return err
	}
	if err := schema.ValidateCreate(meta, values); err != nil {
		return err
	}
	payload, err := schema.BuildPayload(meta, values)
	if err != nil {
		return err
	}

	create := query.NewMutation(cache, func(ctx context.Context, body map[string]any) (map[string]any, error) {
		rec, err := rest.Create[map[string]any](ctx, api, meta.Resource, body)
		if err != nil {
			return nil, err
		}
		return *rec, nil
	}).Invalidates(meta.Resource)

	record, err := create.Do(ctx, payload)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(os.Stdout, record)
	}

	output.Success("created %s/%d", meta.Resource, recordID(record))
	fmt.Print(output.RenderDetail(meta, record))
	return nil
}
