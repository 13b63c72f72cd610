package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/relation"
	"github.com/plasmalab/limsctl/pkg/rest"
	"github.com/plasmalab/limsctl/pkg/schema"
)

var (
	linkPPM   string
	linkRatio string
	linkSet   []int64
)

// linkCmd attaches records to a parent's link collection
var linkCmd = &cobra.Command{
	Use:   "link <parent> <id> <relation> [childID]",
	Short: "Link a record into a relationship",
	Long: `Attach a child record to a parent's link collection, or reconcile the
whole collection with --set. Contaminant links carry a feed
concentration (--ppm), carrier links a mix ratio (--ratio).

Examples:
  limsctl link experiments 4 samples 2
  limsctl link experiments 4 contaminants 7 --ppm 120.5
  limsctl link experiments 4 carriers 1 --ratio 0.25
  limsctl link experiments 4 samples --set 1,2,5`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLink(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().StringVar(&linkPPM, "ppm", "", "Feed concentration for contaminant links")
	linkCmd.Flags().StringVar(&linkRatio, "ratio", "", "Mix ratio for carrier links")
	linkCmd.Flags().Int64SliceVar(&linkSet, "set", nil, "Desired child ids; links are added and removed to match")
}

func runLink(ctx context.Context, args []string) error {
	meta, rel, id, err := resolveLink(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if len(args) == 4 && len(linkSet) > 0 {
		return fmt.Errorf("give either a child id or --set, not both")
	}
	if len(args) == 3 && len(linkSet) == 0 {
		return fmt.Errorf("give a child id or --set")
	}

	attrs, err := linkAttrs(rel)
	if err != nil {
		return err
	}
	if len(linkSet) > 0 && attrs != nil {
		return fmt.Errorf("--ppm and --ratio apply to single links, not --set")
	}

	editor, err := buildEditor(ctx, meta, rel, id, attrs, true)
	if err != nil {
		return err
	}

	if len(linkSet) > 0 {
		plan := editor.Plan(linkSet)
		if !plan.HasChanges() {
			output.Info("%s/%d %s already match", meta.Resource, id, rel.Name)
			return nil
		}
		if err := editor.Apply(ctx, plan); err != nil {
			return err
		}
		output.Success("%s/%d %s updated: %d linked, %d unlinked",
			meta.Resource, id, rel.Name, len(plan.Add), len(plan.Remove))
		return nil
	}

	childID, err := parseID(args[3])
	if err != nil {
		return err
	}
	if err := editor.Add(ctx, childID); err != nil {
		return fmt.Errorf("%s/%d: %w", rel.Resource, childID, err)
	}
	output.Success("linked %s/%d to %s/%d", rel.Resource, childID, meta.Resource, id)
	return nil
}

// resolveLink maps the parent resource, record id and relation name
// arguments onto registry metadata.
func resolveLink(parent, rawID, relName string) (*schema.ResourceMetadata, *schema.RelationshipMetadata, int64, error) {
	meta, err := registry.Lookup(parent)
	if err != nil {
		return nil, nil, 0, err
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, nil, 0, err
	}

	links := meta.Links()
	for i := range links {
		if links[i].Name == relName || links[i].Resource == relName {
			return meta, &links[i], id, nil
		}
	}

	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.Name)
	}
	if len(names) == 0 {
		return nil, nil, 0, fmt.Errorf("%s has no link collections", meta.Resource)
	}
	return nil, nil, 0, fmt.Errorf("%s has no %q links (available: %s)", meta.Resource, relName, strings.Join(names, ", "))
}

// linkAttrs builds the link attribute body from the flags, refusing
// attributes the relation does not carry.
func linkAttrs(rel *schema.RelationshipMetadata) (map[string]string, error) {
	attrs := make(map[string]string)
	if linkPPM != "" {
		if rel.LinkAttr != "ppm" {
			return nil, fmt.Errorf("%s links do not carry ppm", rel.Name)
		}
		attrs["ppm"] = linkPPM
	}
	if linkRatio != "" {
		if rel.LinkAttr != "ratio" {
			return nil, fmt.Errorf("%s links do not carry ratio", rel.Name)
		}
		attrs["ratio"] = linkRatio
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}

// linkedRow lets decoded records satisfy the editor's identity facet.
type linkedRow map[string]any

// GetID implements relation.Identifiable.
func (r linkedRow) GetID() int64 { return recordID(r) }

// buildEditor assembles a relationship editor for one parent record:
// the linked snapshot from the parent fetched with the matching
// include, the available set from the child collection, and add/remove
// operations that invalidate both sides on success.
func buildEditor(ctx context.Context, meta *schema.ResourceMetadata, rel *schema.RelationshipMetadata, id int64, attrs map[string]string, withAvailable bool) (*relation.Editor[linkedRow], error) {
	record, err := getRecord(ctx, meta, id, []string{rel.Name})
	if err != nil {
		return nil, err
	}
	linked := embeddedRows(record, rel.Name)

	var available []linkedRow
	if withAvailable {
		children, err := listRecords(ctx, registryMetaOrSelf(rel.Resource), nil)
		if err != nil {
			return nil, err
		}
		available = make([]linkedRow, 0, len(children))
		for _, child := range children {
			available = append(available, linkedRow(child))
		}
	}

	add := query.NewMutation(cache, func(ctx context.Context, childID int64) (struct{}, error) {
		return struct{}{}, rest.Link(ctx, api, meta.Resource, id, rel.Resource, childID, attrs)
	}).Invalidates(meta.Resource, rel.Resource)

	remove := query.NewMutation(cache, func(ctx context.Context, childID int64) (struct{}, error) {
		return struct{}{}, rest.Unlink(ctx, api, meta.Resource, id, rel.Resource, childID)
	}).Invalidates(meta.Resource, rel.Resource)

	ops := relation.Ops{
		Add: func(ctx context.Context, childID int64) error {
			_, err := add.Do(ctx, childID)
			return err
		},
		Remove: func(ctx context.Context, childID int64) error {
			_, err := remove.Do(ctx, childID)
			return err
		},
		Pending: func() bool {
			return add.IsPending() || remove.IsPending()
		},
	}

	return relation.NewEditor(linked, available, ops), nil
}

// embeddedRows extracts an included link collection from a decoded
// record.
func embeddedRows(record map[string]any, relName string) []linkedRow {
	raw, _ := record[relName].([]any)
	out := make([]linkedRow, 0, len(raw))
	for _, item := range raw {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, linkedRow(rec))
		}
	}
	return out
}

// registryMetaOrSelf resolves a child resource's metadata; link targets
// are always registered, so failure is a programming error surfaced as
// a minimal metadata stub.
func registryMetaOrSelf(resource string) *schema.ResourceMetadata {
	if meta, err := registry.Lookup(resource); err == nil {
		return meta
	}
	return &schema.ResourceMetadata{Resource: resource}
}
