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
)

// filesCmd groups the soft-delete lifecycle operations that only the
// files resource supports.
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "File lifecycle operations",
	Long: `Manage the soft-delete lifecycle of file records. A plain
"limsctl delete files <id>" only marks the record deleted; restore
brings it back, hard-delete removes it for good.`,
}

var filesRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a soft-deleted file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilesRestore(cmd.Context(), args[0])
	},
}

var filesHardDeleteYes bool

var filesHardDeleteCmd = &cobra.Command{
	Use:   "hard-delete <id>",
	Short: "Permanently delete a file",
	Long: `Remove a file record outright. Unlike a soft delete there is no
restore after this; the id stops resolving entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilesHardDelete(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesRestoreCmd)
	filesCmd.AddCommand(filesHardDeleteCmd)

	filesHardDeleteCmd.Flags().BoolVarP(&filesHardDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runFilesRestore(ctx context.Context, rawID string) error {
	meta, err := registry.Lookup("files")
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	restore := query.NewMutation(cache, func(ctx context.Context, id int64) (map[string]any, error) {
		record, err := rest.Restore[map[string]any](ctx, api, meta.Resource, id)
		if err != nil {
			return nil, err
		}
		return *record, nil
	}).Invalidates(meta.Resource)

	record, err := restore.Do(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(os.Stdout, record)
	}
	output.Success("restored %s/%d", meta.Resource, id)
	return nil
}

func runFilesHardDelete(cmd *cobra.Command, rawID string) error {
	meta, err := registry.Lookup("files")
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if !filesHardDeleteYes {
		output.Warning("hard delete cannot be restored")
		if !confirmPrompt(cmd, fmt.Sprintf("permanently delete %s/%d?", meta.Resource, id)) {
			output.Info("aborted")
			return nil
		}
	}

	hardDelete := query.NewMutation(cache, func(ctx context.Context, id int64) (struct{}, error) {
		return struct{}{}, rest.HardDelete(ctx, api, meta.Resource, id)
	}).Invalidates(meta.Resource)

	if _, err := hardDelete.Do(cmd.Context(), id); err != nil {
		return err
	}
	output.Success("permanently deleted %s/%d", meta.Resource, id)
	return nil
}
