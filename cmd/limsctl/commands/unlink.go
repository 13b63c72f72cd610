package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
)

// unlinkCmd detaches a record from a parent's link collection
var unlinkCmd = &cobra.Command{
	Use:   "unlink <parent> <id> <relation> <childID>",
	Short: "Unlink a record from a relationship",
	Long: `Detach a child record from a parent's link collection. The child
record itself is untouched; only the link row is removed.

Examples:
  limsctl unlink experiments 4 samples 2
  limsctl unlink experiments 4 contaminants 7`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnlink(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(unlinkCmd)
}

func runUnlink(ctx context.Context, args []string) error {
	meta, rel, id, err := resolveLink(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	childID, err := parseID(args[3])
	if err != nil {
		return err
	}

	// Removal only consults the linked snapshot, so the child
	// collection is not fetched.
	editor, err := buildEditor(ctx, meta, rel, id, nil, false)
	if err != nil {
		return err
	}
	if err := editor.Remove(ctx, childID); err != nil {
		return fmt.Errorf("%s/%d: %w", rel.Resource, childID, err)
	}
	output.Success("unlinked %s/%d from %s/%d", rel.Resource, childID, meta.Resource, id)
	return nil
}
