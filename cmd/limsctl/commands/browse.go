package commands

import (
	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/tui"
	"github.com/plasmalab/limsctl/pkg/registry"
)

// browseCmd starts the interactive browser
var browseCmd = &cobra.Command{
	Use:   "browse [resource]",
	Short: "Browse the lab interactively",
	Long: `Open the full-screen browser. With no argument it starts on the
resource menu; with a resource it jumps straight to that table.

Keys inside the browser:
  enter  open the selected record
  c/e/d  create, edit, delete
  l      edit link collections
  s      cycle the sort column
  r      refetch
  esc    back, q quit

Examples:
  limsctl browse
  limsctl browse experiments`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initial := ""
		if len(args) == 1 {
			meta, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			initial = meta.Resource
		}
		return tui.RunBrowseUI(api, cache, initial)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
