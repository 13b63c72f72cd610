package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plasmalab/limsctl/cmd/limsctl/output"
	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/query"
	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/relation"
	"github.com/plasmalab/limsctl/pkg/rest"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// BrowseMode represents the current screen of the browser
type BrowseMode int

const (
	ModeMenu BrowseMode = iota
	ModeTable
	ModeDetail
	ModeForm
	ModeLinks
	ModeConfirm
	ModeError
)

// BrowseModel is the main Bubbletea model for the resource browser
type BrowseModel struct {
	api   *rest.Client
	cache *query.Client

	mode BrowseMode
	prev BrowseMode

	menu list.Model

	meta    *schema.ResourceMetadata
	rows    []map[string]any
	table   table.Model
	sort    collection.State
	sortIdx int

	record   map[string]any
	recordID int64

	form     formState
	links    linksState
	linkSess *linkSession

	confirm       ConfirmationDialog
	confirmAction tea.Cmd

	spinner  spinner.Model
	loading  bool
	status   string
	errTitle string
	errText  string

	width  int
	height int
}

// NewBrowseModel creates a browser over the registered resources. A
// non-empty initial resource skips the menu and opens its table.
func NewBrowseModel(api *rest.Client, cache *query.Client, initial string) BrowseModel {
	items := []list.Item{}
	for _, meta := range registry.All() {
		links := make([]string, 0, len(meta.Relationships))
		for _, rel := range meta.Links() {
			links = append(links, rel.Name)
		}
		items = append(items, ResourceItem{
			Resource: meta.Resource,
			Columns:  len(meta.Fields),
			Links:    links,
		})
	}

	l := list.New(items, ResourceItemDelegate{}, 0, 0)
	l.Title = "Lab resources"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(infoStyle))

	m := BrowseModel{
		api:     api,
		cache:   cache,
		mode:    ModeMenu,
		menu:    l,
		table:   table.New(),
		spinner: sp,
	}

	if initial != "" {
		if meta, err := registry.Lookup(initial); err == nil {
			m.openResource(meta)
		}
	}
	return m
}

// Init initializes the model
func (m BrowseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tea.EnterAltScreen}
	if m.mode == ModeTable {
		cmds = append(cmds, loadRowsCmd(m.api, m.cache, m.meta))
	}
	return tea.Batch(cmds...)
}

// openResource points the model at a resource's table and marks it
// loading. The caller dispatches loadRowsCmd.
func (m *BrowseModel) openResource(meta *schema.ResourceMetadata) {
	m.meta = meta
	m.rows = nil
	m.sort = collection.State{}
	m.sortIdx = 0
	m.status = ""
	m.table = newRecordTable(meta)
	if m.height > 0 {
		m.table.SetWidth(m.width - 4)
		m.table.SetHeight(max(3, m.height-8))
	}
	m.mode = ModeTable
	m.prev = ModeMenu
	m.loading = true
}

// Messages
type rowsLoadedMsg struct {
	resource string
	rows     []map[string]any
}

type recordLoadedMsg struct {
	id     int64
	record map[string]any
}

type linksLoadedMsg struct {
	editor  *relation.Editor[linkedRecord]
	session *linkSession
}

type mutationDoneMsg struct {
	verb  string
	links bool
}

type linkErrorMsg struct {
	err error
}

type errorMsg struct {
	err error
}

// linkSession carries the mutations behind one relation's editor. The
// attrs map is set right before an add so the join attribute typed in
// the footer input reaches the request body.
type linkSession struct {
	attrs  map[string]string
	add    *query.Mutation[int64, struct{}]
	remove *query.Mutation[int64, struct{}]
}

// Commands
func loadRowsCmd(api *rest.Client, cache *query.Client, meta *schema.ResourceMetadata) tea.Cmd {
	return func() tea.Msg {
		lists := query.NewResource[[]map[string]any](cache)
		rows, err := lists.Fetch(context.Background(), query.Key{Resource: meta.Resource},
			func(ctx context.Context) ([]map[string]any, error) {
				return rest.List[map[string]any](ctx, api, meta.Resource)
			})
		if err != nil {
			return errorMsg{err: err}
		}
		return rowsLoadedMsg{resource: meta.Resource, rows: rows}
	}
}

func loadRecordCmd(api *rest.Client, cache *query.Client, meta *schema.ResourceMetadata, id int64) tea.Cmd {
	return func() tea.Msg {
		includes := meta.Includes()
		key := query.Key{Resource: meta.Resource, ID: id}
		var opts []rest.Option
		if len(includes) > 0 {
			key.Params = map[string]string{"include": strings.Join(includes, ",")}
			opts = append(opts, rest.WithInclude(includes...))
		}

		records := query.NewResource[map[string]any](cache)
		record, err := records.Fetch(context.Background(), key,
			func(ctx context.Context) (map[string]any, error) {
				rec, err := rest.Get[map[string]any](ctx, api, meta.Resource, id, opts...)
				if err != nil {
					return nil, err
				}
				return *rec, nil
			})
		if err != nil {
			return errorMsg{err: err}
		}
		return recordLoadedMsg{id: id, record: record}
	}
}

func loadLinksCmd(api *rest.Client, cache *query.Client, meta *schema.ResourceMetadata, rel schema.RelationshipMetadata, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		key := query.Key{Resource: meta.Resource, ID: id, Params: map[string]string{"include": rel.Name}}
		records := query.NewResource[map[string]any](cache)
		parent, err := records.Fetch(ctx, key, func(ctx context.Context) (map[string]any, error) {
			rec, err := rest.Get[map[string]any](ctx, api, meta.Resource, id, rest.WithInclude(rel.Name))
			if err != nil {
				return nil, err
			}
			return *rec, nil
		})
		if err != nil {
			return errorMsg{err: err}
		}

		lists := query.NewResource[[]map[string]any](cache)
		children, err := lists.Fetch(ctx, query.Key{Resource: rel.Resource},
			func(ctx context.Context) ([]map[string]any, error) {
				return rest.List[map[string]any](ctx, api, rel.Resource)
			})
		if err != nil {
			return errorMsg{err: err}
		}

		var linked []linkedRecord
		if raw, ok := parent[rel.Name].([]any); ok {
			for _, item := range raw {
				if rec, ok := item.(map[string]any); ok {
					linked = append(linked, linkedRecord(rec))
				}
			}
		}
		available := make([]linkedRecord, 0, len(children))
		for _, child := range children {
			available = append(available, linkedRecord(child))
		}

		sess := &linkSession{}
		sess.add = query.NewMutation(cache, func(ctx context.Context, childID int64) (struct{}, error) {
			return struct{}{}, rest.Link(ctx, api, meta.Resource, id, rel.Resource, childID, sess.attrs)
		}).Invalidates(meta.Resource, rel.Resource)
		sess.remove = query.NewMutation(cache, func(ctx context.Context, childID int64) (struct{}, error) {
			return struct{}{}, rest.Unlink(ctx, api, meta.Resource, id, rel.Resource, childID)
		}).Invalidates(meta.Resource, rel.Resource)

		ops := relation.Ops{
			Add: func(ctx context.Context, childID int64) error {
				_, err := sess.add.Do(ctx, childID)
				return err
			},
			Remove: func(ctx context.Context, childID int64) error {
				_, err := sess.remove.Do(ctx, childID)
				return err
			},
			Pending: func() bool {
				return sess.add.IsPending() || sess.remove.IsPending()
			},
		}

		return linksLoadedMsg{
			editor:  relation.NewEditor(linked, available, ops),
			session: sess,
		}
	}
}

func createCmd(cache *query.Client, api *rest.Client, meta *schema.ResourceMetadata, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		create := query.NewMutation(cache, func(ctx context.Context, body map[string]any) (map[string]any, error) {
			rec, err := rest.Create[map[string]any](ctx, api, meta.Resource, body)
			if err != nil {
				return nil, err
			}
			return *rec, nil
		}).Invalidates(meta.Resource)

		if _, err := create.Do(context.Background(), payload); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{verb: "created"}
	}
}

func updateCmd(cache *query.Client, api *rest.Client, meta *schema.ResourceMetadata, id int64, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		update := query.NewMutation(cache, func(ctx context.Context, body map[string]any) (map[string]any, error) {
			rec, err := rest.Update[map[string]any](ctx, api, meta.Resource, id, body)
			if err != nil {
				return nil, err
			}
			return *rec, nil
		}).Invalidates(meta.Resource)

		if _, err := update.Do(context.Background(), payload); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{verb: "updated"}
	}
}

func deleteCmd(cache *query.Client, api *rest.Client, meta *schema.ResourceMetadata, id int64) tea.Cmd {
	return func() tea.Msg {
		del := query.NewMutation(cache, func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, rest.Delete(ctx, api, meta.Resource, id)
		}).Invalidates(meta.Resource)

		if _, err := del.Do(context.Background(), id); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{verb: "deleted"}
	}
}

func restoreCmd(cache *query.Client, api *rest.Client, meta *schema.ResourceMetadata, id int64) tea.Cmd {
	return func() tea.Msg {
		restore := query.NewMutation(cache, func(ctx context.Context, id int64) (struct{}, error) {
			_, err := rest.Restore[map[string]any](ctx, api, meta.Resource, id)
			return struct{}{}, err
		}).Invalidates(meta.Resource)

		if _, err := restore.Do(context.Background(), id); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{verb: "restored"}
	}
}

func hardDeleteCmd(cache *query.Client, api *rest.Client, meta *schema.ResourceMetadata, id int64) tea.Cmd {
	return func() tea.Msg {
		hard := query.NewMutation(cache, func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, rest.HardDelete(ctx, api, meta.Resource, id)
		}).Invalidates(meta.Resource)

		if _, err := hard.Do(context.Background(), id); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{verb: "permanently deleted"}
	}
}

func addLinkCmd(editor *relation.Editor[linkedRecord], sess *linkSession, id int64, attrs map[string]string) tea.Cmd {
	return func() tea.Msg {
		sess.attrs = attrs
		if err := editor.Add(context.Background(), id); err != nil {
			return linkErrorMsg{err: err}
		}
		return mutationDoneMsg{verb: "linked", links: true}
	}
}

func removeLinkCmd(editor *relation.Editor[linkedRecord], id int64) tea.Cmd {
	return func() tea.Msg {
		if err := editor.Remove(context.Background(), id); err != nil {
			return linkErrorMsg{err: err}
		}
		return mutationDoneMsg{verb: "unlinked", links: true}
	}
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-6)
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(3, msg.Height-8))
		return m, nil

	case tea.FocusMsg:
		// Focus regained; stale cache entries revalidate in the
		// background when configured.
		m.cache.OnFocus()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case rowsLoadedMsg:
		if m.meta == nil || msg.resource != m.meta.Resource {
			return m, nil
		}
		m.rows = msg.rows
		m.applySort()
		m.loading = false
		return m, nil

	case recordLoadedMsg:
		m.record = msg.record
		m.recordID = msg.id
		m.loading = false
		m.mode = ModeDetail
		return m, nil

	case linksLoadedMsg:
		m.links.setSnapshots(msg.editor)
		m.linkSess = msg.session
		m.loading = false
		m.mode = ModeLinks
		return m, nil

	case mutationDoneMsg:
		m.status = msg.verb
		m.loading = true
		if msg.links {
			rel := m.links.rel()
			return m, tea.Batch(
				m.spinner.Tick,
				loadLinksCmd(m.api, m.cache, m.meta, *rel, m.links.parentID),
				loadRowsCmd(m.api, m.cache, m.meta),
			)
		}
		m.mode = ModeTable
		return m, tea.Batch(m.spinner.Tick, loadRowsCmd(m.api, m.cache, m.meta))

	case linkErrorMsg:
		m.links.errMsg = msg.err.Error()
		m.loading = false
		return m, nil

	case errorMsg:
		m.loading = false
		m.errText = msg.err.Error()
		if errors.Is(msg.err, rest.ErrNotFound) {
			m.errTitle = "Not found"
		} else {
			m.errTitle = "Request failed"
		}
		if m.mode != ModeError {
			m.prev = m.mode
		}
		m.mode = ModeError
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == ModeMenu {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Controls stay disabled while a load or mutation is in flight.
	if m.loading {
		if msg.String() == "q" && m.mode != ModeForm {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.mode {
	case ModeMenu:
		return m.handleMenuKey(msg)
	case ModeTable:
		return m.handleTableKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeLinks:
		return m.handleLinksKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeError:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc", "enter":
			m.mode = m.prev
			return m, nil
		}
	}
	return m, nil
}

func (m BrowseModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, every key belongs to the filter input.
	if m.menu.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			item, ok := m.menu.SelectedItem().(ResourceItem)
			if !ok {
				return m, nil
			}
			meta, err := registry.Lookup(item.Resource)
			if err != nil {
				return m, nil
			}
			m.openResource(meta)
			return m, tea.Batch(m.spinner.Tick, loadRowsCmd(m.api, m.cache, m.meta))
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m BrowseModel) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.mode = ModeMenu
		m.status = ""
		return m, nil

	case "enter":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.loading = true
		m.prev = ModeTable
		return m, tea.Batch(m.spinner.Tick, loadRecordCmd(m.api, m.cache, m.meta, recordID(row)))

	case "c":
		m.form = newCreateForm(m.meta)
		m.prev = ModeTable
		m.mode = ModeForm
		m.status = ""
		return m, m.form.syncFocus()

	case "e":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.form = newEditForm(m.meta, recordID(row), row)
		m.prev = ModeTable
		m.mode = ModeForm
		m.status = ""
		return m, m.form.syncFocus()

	case "d":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		id := recordID(row)
		m.stageConfirm(
			"Delete record",
			fmt.Sprintf("Delete %s/%d (%s)?", m.meta.Resource, id, recordLabel(row)),
			deleteCmd(m.cache, m.api, m.meta, id),
		)
		return m, nil

	case "l":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m.openLinks(ModeTable, recordID(row))

	case "s":
		m.cycleSort()
		return m, nil

	case "r":
		m.cache.Invalidate(m.meta.Resource)
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, loadRowsCmd(m.api, m.cache, m.meta))

	case "u":
		row, ok := m.selectedRow()
		if !ok || m.meta.Resource != "files" {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, restoreCmd(m.cache, m.api, m.meta, recordID(row)))

	case "x":
		row, ok := m.selectedRow()
		if !ok || m.meta.Resource != "files" {
			return m, nil
		}
		id := recordID(row)
		m.stageConfirm(
			"Hard delete",
			fmt.Sprintf("Permanently delete %s/%d? There is no restore after this.", m.meta.Resource, id),
			hardDeleteCmd(m.cache, m.api, m.meta, id),
		)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowseModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.mode = ModeTable
		return m, nil

	case "e":
		m.form = newEditForm(m.meta, m.recordID, m.record)
		m.prev = ModeDetail
		m.mode = ModeForm
		return m, m.form.syncFocus()

	case "d":
		m.stageConfirm(
			"Delete record",
			fmt.Sprintf("Delete %s/%d (%s)?", m.meta.Resource, m.recordID, recordLabel(m.record)),
			deleteCmd(m.cache, m.api, m.meta, m.recordID),
		)
		return m, nil

	case "l":
		return m.openLinks(ModeDetail, m.recordID)

	case "u":
		if m.meta.Resource != "files" {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, restoreCmd(m.cache, m.api, m.meta, m.recordID))

	case "x":
		if m.meta.Resource != "files" {
			return m, nil
		}
		m.stageConfirm(
			"Hard delete",
			fmt.Sprintf("Permanently delete %s/%d? There is no restore after this.", m.meta.Resource, m.recordID),
			hardDeleteCmd(m.cache, m.api, m.meta, m.recordID),
		)
		return m, nil
	}
	return m, nil
}

func (m BrowseModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = m.prev
		return m, nil

	case "ctrl+s":
		return m.submitForm()

	case "tab", "down", "enter":
		return m, m.form.focusNext()

	case "shift+tab", "up":
		return m, m.form.focusPrev()

	case "left":
		if m.form.selectorFocused() {
			m.form.cycleVariant(-1)
			return m, nil
		}

	case "right":
		if m.form.selectorFocused() {
			m.form.cycleVariant(1)
			return m, nil
		}
	}

	return m, m.form.updateInputs(msg)
}

func (m BrowseModel) handleLinksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.links.awaitAttr {
		switch msg.String() {
		case "esc":
			m.links.awaitAttr = false
			m.links.attrInput.SetValue("")
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.links.attrInput.Value())
			if value == "" {
				m.links.errMsg = m.links.rel().LinkAttr + " is required"
				return m, nil
			}
			m.links.awaitAttr = false
			m.loading = true
			m.links.errMsg = ""
			attrs := map[string]string{m.links.rel().LinkAttr: value}
			return m, tea.Batch(m.spinner.Tick, addLinkCmd(m.links.editor, m.linkSess, m.links.pendingID, attrs))
		}
		var cmd tea.Cmd
		m.links.attrInput, cmd = m.links.attrInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.mode = m.prev
		m.links.errMsg = ""
		return m, nil

	case "tab":
		m.links.switchPane()
		return m, nil

	case "up", "k":
		m.links.move(-1)
		return m, nil

	case "down", "j":
		m.links.move(1)
		return m, nil

	case "enter":
		id := m.links.selectedID()
		if id == 0 || m.links.editor == nil {
			return m, nil
		}
		m.links.errMsg = ""
		if m.links.pane == paneLinked {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, removeLinkCmd(m.links.editor, id))
		}
		if m.links.needsAttr() {
			m.links.pendingID = id
			m.links.awaitAttr = true
			m.links.attrInput.SetValue("")
			return m, m.links.attrInput.Focus()
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, addLinkCmd(m.links.editor, m.linkSess, id, nil))
	}

	if idx, err := strconv.Atoi(msg.String()); err == nil {
		if m.links.switchRel(idx - 1) {
			rel := m.links.rel()
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadLinksCmd(m.api, m.cache, m.meta, *rel, m.links.parentID))
		}
	}
	return m, nil
}

func (m BrowseModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.confirm.YesSelected = true
		return m, nil
	case "right", "l":
		m.confirm.YesSelected = false
		return m, nil
	case "y":
		m.confirm.YesSelected = true
		return m.runConfirm()
	case "n", "esc", "q":
		m.mode = m.prev
		m.confirmAction = nil
		return m, nil
	case "enter":
		return m.runConfirm()
	}
	return m, nil
}

// runConfirm executes the staged action when Yes is selected, or backs
// out.
func (m BrowseModel) runConfirm() (tea.Model, tea.Cmd) {
	if !m.confirm.YesSelected || m.confirmAction == nil {
		m.mode = m.prev
		m.confirmAction = nil
		return m, nil
	}
	action := m.confirmAction
	m.confirmAction = nil
	m.mode = m.prev
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, action)
}

// stageConfirm arms the dialog with an action dispatched only after an
// explicit Yes.
func (m *BrowseModel) stageConfirm(title, message string, action tea.Cmd) {
	m.confirm = NewConfirmationDialog(title, message)
	m.confirmAction = action
	m.prev = m.mode
	m.mode = ModeConfirm
}

func (m BrowseModel) openLinks(from BrowseMode, id int64) (tea.Model, tea.Cmd) {
	if len(m.meta.Links()) == 0 {
		return m, nil
	}
	m.links = newLinksState(m.meta, id)
	m.linkSess = nil
	m.prev = from
	m.loading = true
	rel := m.links.rel()
	return m, tea.Batch(m.spinner.Tick, loadLinksCmd(m.api, m.cache, m.meta, *rel, id))
}

func (m BrowseModel) submitForm() (tea.Model, tea.Cmd) {
	values := m.form.collectValues()
	if m.form.editing && len(values) == 0 {
		m.form.errMsg = "nothing to change"
		return m, nil
	}

	var err error
	if m.form.editing {
		err = schema.ValidateUpdate(m.meta, m.form.variant(), values)
	} else {
		err = schema.ValidateCreate(m.meta, values)
	}
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}

	payload, err := schema.BuildPayload(m.meta, values)
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}

	m.loading = true
	if m.form.editing {
		return m, tea.Batch(m.spinner.Tick, updateCmd(m.cache, m.api, m.meta, m.form.recordID, payload))
	}
	return m, tea.Batch(m.spinner.Tick, createCmd(m.cache, m.api, m.meta, payload))
}

// selectedRow returns the record under the table cursor.
func (m BrowseModel) selectedRow() (map[string]any, bool) {
	if len(m.rows) == 0 {
		return nil, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil, false
	}
	return m.rows[i], true
}

// cycleSort advances the sort selection: ascending on the first
// sortable column, then flipped, then on to the next column.
func (m *BrowseModel) cycleSort() {
	fields := sortableFields(m.meta)
	if len(fields) == 0 {
		return
	}

	switch {
	case m.sort.Key == "":
		m.sortIdx = 0
		m.sort.Toggle(fields[0].SortKey)
	case m.sort.Direction == collection.Ascending:
		m.sort.Toggle(m.sort.Key)
	default:
		m.sortIdx = (m.sortIdx + 1) % len(fields)
		m.sort = collection.State{}
		m.sort.Toggle(fields[m.sortIdx].SortKey)
	}

	m.applySort()
}

// applySort re-sorts the rows under the active state and rebuilds the
// table contents with the sort marker on the right column.
func (m *BrowseModel) applySort() {
	if m.sort.Key != "" {
		m.rows = collection.Sort(m.rows, m.sort.Key, m.sort.Direction)
	}
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.tableRows())
}

func (m *BrowseModel) columns() []table.Column {
	fields := m.meta.ListFields()
	cols := make([]table.Column, 0, len(fields))
	for _, f := range fields {
		title := f.Label
		if m.sort.Key != "" && (m.sort.Key == f.Name || m.sort.Key == f.SortKey) {
			if m.sort.Direction == collection.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols = append(cols, table.Column{Title: title, Width: output.ColumnWidth(f)})
	}
	return cols
}

func (m *BrowseModel) tableRows() []table.Row {
	fields := m.meta.ListFields()
	rows := make([]table.Row, 0, len(m.rows))
	for _, record := range m.rows {
		row := make(table.Row, 0, len(fields))
		for _, f := range fields {
			row = append(row, output.Cell(m.meta, f, record))
		}
		rows = append(rows, row)
	}
	return rows
}

func sortableFields(meta *schema.ResourceMetadata) []schema.FieldMetadata {
	var out []schema.FieldMetadata
	for _, f := range meta.ListFields() {
		if f.Sortable {
			out = append(out, f)
		}
	}
	return out
}

func newRecordTable(meta *schema.ResourceMetadata) table.Model {
	fields := meta.ListFields()
	cols := make([]table.Column, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, table.Column{Title: f.Label, Width: output.ColumnWidth(f)})
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(colorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorPrimary)
	t.SetStyles(s)

	return t
}

// View renders the UI
func (m BrowseModel) View() string {
	switch m.mode {
	case ModeMenu:
		help := helpLine(
			FormatKey("↑/↓", "navigate"),
			FormatKey("/", "filter"),
			FormatKey("enter", "open"),
			FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, m.menu.View(), help)

	case ModeTable:
		return m.tableView()

	case ModeDetail:
		return m.detailView()

	case ModeForm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())

	case ModeLinks:
		body := m.links.View()
		if m.loading {
			body += "\n" + m.spinner.View() + mutedStyle.Render(" loading…")
		}
		return body

	case ModeConfirm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())

	case ModeError:
		msg := titleStyle.Render(m.errTitle) + "\n\n" +
			errorStyle.Render(m.errText) + "\n\n" +
			helpLine(FormatKey("esc", "back"), FormatKey("q", "quit"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(msg))
	}

	return "Unknown mode"
}

func (m BrowseModel) tableView() string {
	title := titleStyle.Render(m.meta.Resource) + subtitleStyle.Render(fmt.Sprintf("  %d records", len(m.rows)))
	if m.sort.Key != "" {
		dir := "▲"
		if m.sort.Direction == collection.Descending {
			dir = "▼"
		}
		title += subtitleStyle.Render(fmt.Sprintf("  sorted by %s %s", m.sort.Key, dir))
	}

	var status string
	if m.loading {
		status = m.spinner.View() + mutedStyle.Render(" loading…")
	} else if m.status != "" {
		status = successStyle.Render("✓ " + m.status)
	}

	hints := []string{
		FormatKey("enter", "open"),
		FormatKey("c/e/d", "create/edit/delete"),
	}
	if len(m.meta.Links()) > 0 {
		hints = append(hints, FormatKey("l", "links"))
	}
	hints = append(hints, FormatKey("s", "sort"), FormatKey("r", "refetch"))
	if m.meta.Resource == "files" {
		hints = append(hints, FormatKey("u/x", "restore/hard delete"))
	}
	hints = append(hints, FormatKey("esc", "menu"), FormatKey("q", "quit"))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.table.View(),
		status,
		helpLine(hints...),
	)
}

func (m BrowseModel) detailView() string {
	title := titleStyle.Render(fmt.Sprintf("%s/%d", m.meta.Resource, m.recordID))
	if deleted, ok := m.record["is_deleted"].(bool); ok && deleted {
		title += "  " + FormatStatus("deleted")
	}
	card := boxStyle.Render(output.RenderDetail(m.meta, m.record))

	hints := []string{
		FormatKey("e", "edit"),
		FormatKey("d", "delete"),
	}
	if len(m.meta.Links()) > 0 {
		hints = append(hints, FormatKey("l", "links"))
	}
	if m.meta.Resource == "files" {
		hints = append(hints, FormatKey("u/x", "restore/hard delete"))
	}
	hints = append(hints, FormatKey("esc", "back"), FormatKey("q", "quit"))

	return lipgloss.JoinVertical(lipgloss.Left, title, card, helpLine(hints...))
}

// RunBrowseUI starts the interactive resource browser
func RunBrowseUI(api *rest.Client, cache *query.Client, initial string) error {
	p := tea.NewProgram(NewBrowseModel(api, cache, initial), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
