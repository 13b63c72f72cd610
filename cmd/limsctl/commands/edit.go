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

var editFields []string

// editCmd updates editable fields of an existing record
var editCmd = &cobra.Command{
	Use:   "edit <resource> <id> --field name=value ...",
	Short: "Edit a record",
	Long: `Edit a record's fields. Immutable fields (username, analyzer_type,
experiment_type) are refused before anything is sent, and for union
resources only the record's own variant fields are accepted.

Examples:
  limsctl edit samples 12 --field mass=0.48
  limsctl edit experiments 4 --field name="plasma run 4b"
  limsctl edit catalysts 2 --field remaining_amount=3.1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringArrayVar(&editFields, "field", nil, "Field to set, as name=value (repeatable)")
	_ = editCmd.MarkFlagRequired("field")
}

func runEdit(ctx context.Context, resource, rawID string) error {
	meta, err := registry.Lookup(resource)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	values, err := parseFields(editFields)
	if err != nil {
		return err
	}

	// The record's variant decides which fields are editable, so the
	// current record is fetched before the update is validated.
	current, err := getRecord(ctx, meta, id, nil)
	if err != nil {
		return err
	}
	variant := ""
	if disc := meta.Discriminator(); disc != nil {
		variant, _ = current[disc.Name].(string)
	}

	if err := schema.ValidateUpdate(meta, variant, values); err != nil {
		return err
	}
	payload, err := schema.BuildPayload(meta, values)
	if err != nil {
		return err
	}

	update := query.NewMutation(cache, func(ctx context.Context, body map[string]any) (map[string]any, error) {
		rec, err := rest.Update[map[string]any](ctx, api, meta.Resource, id, body)
		if err != nil {
			return nil, err
		}
		return *rec, nil
	}).Invalidates(meta.Resource)

	record, err := update.Do(ctx, payload)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(os.Stdout, record)
	}

	output.Success("updated %s/%d", meta.Resource, id)
	fmt.Print(output.RenderDetail(meta, record))
	return nil
}
