package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/rest"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// listRecords fetches a resource collection through the query cache.
func listRecords(ctx context.Context, meta *schema.ResourceMetadata, include []string) ([]map[string]any, error) {
	key := query.Key{Resource: meta.Resource}
	var opts []rest.Option
	if len(include) > 0 {
		key.Params = map[string]string{"include": strings.Join(include, ",")}
		opts = append(opts, rest.WithInclude(include...))
	}

	lists := query.NewResource[[]map[string]any](cache)
	return lists.Fetch(ctx, key, func(ctx context.Context) ([]map[string]any, error) {
		return rest.List[map[string]any](ctx, api, meta.Resource, opts...)
	})
}

// getRecord fetches one record through the query cache.
func getRecord(ctx context.Context, meta *schema.ResourceMetadata, id int64, include []string) (map[string]any, error) {
	key := query.Key{Resource: meta.Resource, ID: id}
	var opts []rest.Option
	if len(include) > 0 {
		key.Params = map[string]string{"include": strings.Join(include, ",")}
		opts = append(opts, rest.WithInclude(include...))
	}

	records := query.NewResource[map[string]any](cache)
	return records.Fetch(ctx, key, func(ctx context.Context) (map[string]any, error) {
		rec, err := rest.Get[map[string]any](ctx, api, meta.Resource, id, opts...)
		if err != nil {
			return nil, err
		}
		return *rec, nil
	})
}

// checkIncludes validates --include names against the resource's
// declared relationships before any request goes out.
func checkIncludes(meta *schema.ResourceMetadata, include []string) error {
	for _, name := range include {
		if meta.Relationship(name) == nil {
			available := strings.Join(meta.Includes(), ", ")
			if available == "" {
				return fmt.Errorf("%s has no relationships to include", meta.Resource)
			}
			return fmt.Errorf("%s has no relationship %q (available: %s)", meta.Resource, name, available)
		}
	}
	return nil
}
