package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// resourcesCmd prints the resource dashboard
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resources this client knows about",
	Long: `Show every registered resource with its record count, column count
and link collections. Counts come from the API; a resource whose fetch
fails shows a dash and the command still succeeds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResources(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}

type resourceRow struct {
	Resource string   `json:"resource"`
	Records  *int     `json:"records"`
	Fields   int      `json:"fields"`
	Links    []string `json:"links"`
}

func runResources(ctx context.Context) error {
	all := registry.All()
	rows := make([]resourceRow, 0, len(all))
	failed := 0

	for _, meta := range all {
		row := resourceRow{
			Resource: meta.Resource,
			Fields:   len(meta.Fields),
			Links:    linkNames(meta),
		}
		records, err := listRecords(ctx, meta, nil)
		if err != nil {
			failed++
		} else {
			n := len(records)
			row.Records = &n
		}
		rows = append(rows, row)
	}

	if jsonOutput {
		return output.JSON(os.Stdout, rows)
	}

	output.Section(fmt.Sprintf("Resources (%d)", len(rows)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RESOURCE\tRECORDS\tFIELDS\tLINKS")
	_, _ = fmt.Fprintln(w, "--------\t-------\t------\t-----")
	for _, row := range rows {
		count := "—"
		if row.Records != nil {
			count = strconv.Itoa(*row.Records)
		}
		links := "—"
		if len(row.Links) > 0 {
			links = strings.Join(row.Links, ", ")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", row.Resource, count, row.Fields, links)
	}
	_ = w.Flush()

	if failed > 0 {
		fmt.Println()
		output.Warning("%d resource(s) could not be counted", failed)
	}
	return nil
}

func linkNames(meta *schema.ResourceMetadata) []string {
	links := meta.Links()
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.Name)
	}
	return names
}
