package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/rest"
)

var deleteYes bool

// deleteCmd removes a record
var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete a record",
	Long: `Delete a record after confirmation. Deleting a file only marks it
deleted; it stays restorable with "limsctl files restore" until a hard
delete removes it for good.

Examples:
  limsctl delete observations 31
  limsctl delete samples 12 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, resource, rawID string) error {
	meta, err := registry.Lookup(resource)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if !deleteYes && !confirmPrompt(cmd, fmt.Sprintf("Delete %s/%d?", meta.Resource, id)) {
		output.Info("aborted")
		return nil
	}

	del := query.NewMutation(cache, func(ctx context.Context, id int64) (struct{}, error) {
		return struct{}{}, rest.Delete(ctx, api, meta.Resource, id)
	}).Invalidates(meta.Resource)

	if _, err := del.Do(cmd.Context(), id); err != nil {
		return err
	}

	output.Success("deleted %s/%d", meta.Resource, id)
	if meta.Field("is_deleted") != nil {
		output.Muted("soft delete: restore with `limsctl files restore %d`", id)
	}
	return nil
}
