package limsctl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/plasmalab/limsctl/internal/fakeapi"
	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/models"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/relation"
	"github.com/plasmalab/limsctl/pkg/rest"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// harness wires the same stack the CLI and TUI run on, pointed at an
// in-process fake LIMS API.
type harness struct {
	fake  *fakeapi.Server
	api   *rest.Client
	cache *query.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	require.NoError(t, models.RegisterAll())
	fake := fakeapi.New(registry.Default())
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	// No read retries: FailNext injects exactly one failure and a
	// retry would eat it before the assertion sees it.
	api, err := rest.NewClient(rest.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)

	cache, err := query.NewClient(
		query.WithStaleTTL(time.Minute),
		query.WithWorkers(2),
		query.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	return &harness{fake: fake, api: api, cache: cache}
}

func seed(t *testing.T, h *harness, resource string, values map[string]any) int64 {
	t.Helper()
	id, err := h.fake.Seed(resource, values)
	require.NoError(t, err)
	return id
}

// TestExperimentWorkflow walks the path a session takes: create a run
// over HTTP, read it through the cache, attach a contaminant with its
// ppm through a relationship editor, and confirm the mutation
// invalidates the cached list and the include carries the attribute.
func TestExperimentWorkflow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reactorID := seed(t, h, "reactors", map[string]any{"name": "dbd cell", "kind": "dielectric barrier"})
	toluene := seed(t, h, "contaminants", map[string]any{"name": "toluene", "formula": "C7H8"})
	seed(t, h, "contaminants", map[string]any{"name": "acetone", "formula": "C3H6O"})

	power := models.Decimal("45.0")
	created, err := rest.Create[models.Experiment](ctx, h.api, "experiments", models.ExperimentCreate{
		Name:           "dbd toluene sweep",
		ExperimentType: models.ExperimentPlasma,
		ReactorID:      reactorID,
		DeliveredPower: &power,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, models.ExperimentPlasma, created.ExperimentType)

	experiments := query.NewResource[[]models.Experiment](h.cache)
	listKey := query.Key{Resource: "experiments"}
	fetchList := func(ctx context.Context) ([]models.Experiment, error) {
		return rest.List[models.Experiment](ctx, h.api, "experiments")
	}

	rows, err := experiments.Fetch(ctx, listKey, fetchList)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "dbd toluene sweep", rows[0].Name)

	// A fresh entry serves the second read without touching the API.
	before := h.fake.Requests()
	_, err = experiments.Fetch(ctx, listKey, fetchList)
	require.NoError(t, err)
	require.Equal(t, before, h.fake.Requests())

	withLinks, err := rest.Get[models.Experiment](ctx, h.api, "experiments", created.ID,
		rest.WithInclude("contaminants"))
	require.NoError(t, err)
	require.Empty(t, withLinks.Contaminants)

	available, err := rest.List[models.Contaminant](ctx, h.api, "contaminants")
	require.NoError(t, err)
	require.Len(t, available, 2)

	sorted := collection.Sort(available, "name", collection.Ascending)
	require.Equal(t, "acetone", sorted[0].Name)
	require.Equal(t, "toluene", sorted[1].Name)

	var sortState collection.State
	sortState.Toggle("name")
	sortState.Toggle("name")
	require.Equal(t, collection.Descending, sortState.Direction)
	sorted = collection.Sort(available, sortState.Key, sortState.Direction)
	require.Equal(t, "toluene", sorted[0].Name)

	type linkInput struct {
		childID int64
		ppm     string
	}
	link := query.NewMutation(h.cache, func(ctx context.Context, in linkInput) (struct{}, error) {
		return struct{}{}, rest.Link(ctx, h.api, "experiments", created.ID,
			"contaminants", in.childID, map[string]string{"ppm": in.ppm})
	}).Invalidates("experiments", "contaminants")
	unlink := query.NewMutation(h.cache, func(ctx context.Context, childID int64) (struct{}, error) {
		return struct{}{}, rest.Unlink(ctx, h.api, "experiments", created.ID, "contaminants", childID)
	}).Invalidates("experiments", "contaminants")
	ops := relation.Ops{
		Add: func(ctx context.Context, id int64) error {
			_, err := link.Do(ctx, linkInput{childID: id, ppm: "120.5"})
			return err
		},
		Remove: func(ctx context.Context, id int64) error {
			_, err := unlink.Do(ctx, id)
			return err
		},
		Pending: func() bool { return link.IsPending() || unlink.IsPending() },
	}

	linked := make([]models.Contaminant, 0, len(withLinks.Contaminants))
	for _, c := range withLinks.Contaminants {
		linked = append(linked, c.Contaminant)
	}
	editor := relation.NewEditor(linked, available, ops)
	require.Len(t, editor.Selectable(), 2)

	require.NoError(t, editor.Add(ctx, toluene))

	// The link mutation dropped the cached list, so this read refetches.
	before = h.fake.Requests()
	rows, err = experiments.Fetch(ctx, listKey, fetchList)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Greater(t, h.fake.Requests(), before)

	withLinks, err = rest.Get[models.Experiment](ctx, h.api, "experiments", created.ID,
		rest.WithInclude("contaminants"))
	require.NoError(t, err)
	require.Len(t, withLinks.Contaminants, 1)
	require.Equal(t, "toluene", withLinks.Contaminants[0].Name)
	require.Equal(t, models.Decimal("120.5"), withLinks.Contaminants[0].PPM)

	// The editor never touches its own snapshots; rebuild from the
	// fresh include, the way the browse screen does after a mutation.
	linked = linked[:0]
	for _, c := range withLinks.Contaminants {
		linked = append(linked, c.Contaminant)
	}
	editor = relation.NewEditor(linked, available, ops)
	require.True(t, editor.IsLinked(toluene))
	require.ErrorIs(t, editor.Add(ctx, toluene), relation.ErrAlreadyLinked)
	require.Len(t, editor.Selectable(), 1)
	require.Equal(t, "acetone", editor.Selectable()[0].Name)

	require.NoError(t, editor.Remove(ctx, toluene))
	withLinks, err = rest.Get[models.Experiment](ctx, h.api, "experiments", created.ID,
		rest.WithInclude("contaminants"))
	require.NoError(t, err)
	require.Empty(t, withLinks.Contaminants)
}

// TestExperimentTypeImmutable pins the union tag down at every layer:
// the server refuses the change, the edit metadata never offers the
// field, and client-side validation rejects it before the wire.
func TestExperimentTypeImmutable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id := seed(t, h, "experiments", map[string]any{
		"name":            "ozone baseline",
		"experiment_type": "plasma",
	})

	_, err := rest.Update[models.Experiment](ctx, h.api, "experiments", id, map[string]any{
		"experiment_type": "misc",
	})
	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "cannot be changed")

	meta, err := registry.Lookup("experiments")
	require.NoError(t, err)
	for _, f := range meta.EditFields("plasma") {
		require.NotEqual(t, "experiment_type", f.Name)
	}
	require.Error(t, schema.ValidateUpdate(meta, "plasma", map[string]string{"experiment_type": "misc"}))

	got, err := rest.Get[models.Experiment](ctx, h.api, "experiments", id)
	require.NoError(t, err)
	require.Equal(t, models.ExperimentPlasma, got.ExperimentType)
}

// TestFileSoftDeleteLifecycle covers the files tombstone: delete marks,
// restore clears, hard delete leaves nothing to restore.
func TestFileSoftDeleteLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	uploader := seed(t, h, "users", map[string]any{
		"username":  "mgonzalez",
		"full_name": "M. Gonzalez",
	})

	created, err := rest.Create[models.File](ctx, h.api, "files", models.FileCreate{
		Name:         "ftir-run-042.csv",
		ContentType:  "text/csv",
		SizeBytes:    2048,
		UploadedByID: uploader,
	})
	require.NoError(t, err)
	require.False(t, created.IsDeleted)

	require.NoError(t, rest.Delete(ctx, h.api, "files", created.ID))

	got, err := rest.Get[models.File](ctx, h.api, "files", created.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedAt)

	restored, err := rest.Restore[models.File](ctx, h.api, "files", created.ID)
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)
	require.Nil(t, restored.DeletedAt)

	require.NoError(t, rest.HardDelete(ctx, h.api, "files", created.ID))

	_, err = rest.Get[models.File](ctx, h.api, "files", created.ID)
	require.ErrorIs(t, err, rest.ErrNotFound)

	_, err = rest.Restore[models.File](ctx, h.api, "files", created.ID)
	require.ErrorIs(t, err, rest.ErrNotFound)
}

// TestCatalystStockStatus checks the derived stock state over the
// wire: remaining amounts travel as decimal strings and a residue the
// balance cannot weigh reads as depleted.
func TestCatalystStockStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	seed(t, h, "catalysts", map[string]any{
		"name":             "TiO2 batch 12",
		"yield_amount":     "10.0",
		"remaining_amount": "7.5",
	})
	seed(t, h, "catalysts", map[string]any{
		"name":             "ZnO batch 3",
		"yield_amount":     "4.0",
		"remaining_amount": "0.00005",
	})

	rows, err := rest.List[models.Catalyst](ctx, h.api, "catalysts")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]models.Catalyst, len(rows))
	for _, c := range rows {
		byName[c.Name] = c
	}

	tio2 := byName["TiO2 batch 12"]
	require.Equal(t, models.CatalystAvailable, tio2.Status())
	require.Equal(t, 75, tio2.UsagePercent())

	zno := byName["ZnO batch 3"]
	require.Equal(t, models.CatalystDepleted, zno.Status())
	require.Equal(t, 0, zno.UsagePercent())
}

// TestServerErrorSurfacesAndRecovers injects one 500 and checks the
// failure reaches the caller typed, without sticking in the cache.
func TestServerErrorSurfacesAndRecovers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	seed(t, h, "reactors", map[string]any{"name": "quartz tube"})

	reactors := query.NewResource[[]models.Reactor](h.cache)
	key := query.Key{Resource: "reactors"}
	fetch := func(ctx context.Context) ([]models.Reactor, error) {
		return rest.List[models.Reactor](ctx, h.api, "reactors")
	}

	h.fake.FailNext(http.StatusInternalServerError, "maintenance window")
	_, err := reactors.Fetch(ctx, key, fetch)
	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	rows, err := reactors.Fetch(ctx, key, fetch)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
