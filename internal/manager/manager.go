package manager

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/model"
)

var (
	// ErrSuperseded is returned by a load whose response arrived after a newer load started.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNothingPending is returned by ConfirmDelete when no delete was requested.
	ErrNothingPending = errors.New("no delete pending")
)

// Record is an entity the manager can edit.
type Record interface {
	Key() string
	IsNew() bool
	Validate() error
}

// Source is the backend collection one manager drives.
type Source[T any] interface {
	List(ctx context.Context, page, size int) (model.Page[T], error)
	Create(ctx context.Context, rec T) error
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, key string) error
}

// Options configure a manager.
type Options[T any] struct {
	// Noun and Plural name the entity in messages, e.g. "destination".
	Noun   string
	Plural string
	// New returns the empty record the add editor starts from.
	New func() T
	// PageSizes lists the allowed page sizes; the first is the default.
	PageSizes []int
	// DeferReload leaves the post-mutation reload of page 1 to the caller,
	// which then sees NeedsReload.
	DeferReload bool
	Notifier    feedback.Notifier
	// Describe turns an error into user-facing text.
	Describe func(error) string
}

// Manager is the state of one paged list screen with its editor and delete
// confirmation. It is safe for concurrent use.
type Manager[T Record] struct {
	src  Source[T]
	opts Options[T]
	log  *slog.Logger

	mu          sync.Mutex
	listSeq     uint64
	editorGen   uint64
	items       []T
	page        int
	size        int
	totalPages  int
	totalCount  int
	loading     bool
	loaded      bool
	needsReload bool
	editing     *T
	fieldErrs   model.FieldErrors
	pendingKey  string
	confirming  bool
}

// New creates a manager on page 1 with the default page size.
func New[T Record](src Source[T], opts Options[T]) *Manager[T] {
	if len(opts.PageSizes) == 0 {
		opts.PageSizes = []int{5, 10, 20, 50}
	}
	if opts.Plural == "" {
		opts.Plural = opts.Noun + "s"
	}
	if opts.Describe == nil {
		opts.Describe = func(err error) string { return err.Error() }
	}
	if opts.Notifier == nil {
		opts.Notifier = feedback.Discard
	}
	return &Manager[T]{
		src:        src,
		opts:       opts,
		log:        slog.Default().With("entity", opts.Noun),
		page:       1,
		size:       opts.PageSizes[0],
		totalPages: 1,
		items:      []T{},
	}
}

func (m *Manager[T]) normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if !slices.Contains(m.opts.PageSizes, size) {
		size = m.opts.PageSizes[0]
	}
	return page, size
}

// LoadPage fetches one page. Only the newest load updates the state; an
// older one returns ErrSuperseded. On failure the previous rows are kept.
func (m *Manager[T]) LoadPage(ctx context.Context, page, size int) error {
	page, size = m.normalize(page, size)

	m.mu.Lock()
	m.listSeq++
	seq := m.listSeq
	m.loading = true
	m.mu.Unlock()

	p, err := m.src.List(ctx, page, size)
	if err == nil && p.TotalPages >= 1 && page > p.TotalPages {
		// Rows disappeared since the page link was rendered.
		page = p.TotalPages
		p, err = m.src.List(ctx, page, size)
	}

	m.mu.Lock()
	if seq != m.listSeq {
		m.mu.Unlock()
		return ErrSuperseded
	}
	m.loading = false
	if err != nil {
		m.mu.Unlock()
		m.log.Error("failed to load page", "page", page, "size", size, "error", err)
		m.notify(feedback.LevelError, "Failed to fetch "+m.opts.Plural+": "+m.opts.Describe(err))
		return err
	}

	m.items = p.Items
	if m.items == nil {
		m.items = []T{}
	}
	m.size = size
	m.totalCount = p.TotalCount
	m.totalPages = max(p.TotalPages, 1)
	m.page = p.CurrentPage
	if m.page < 1 || m.page > m.totalPages {
		m.page = min(page, m.totalPages)
	}
	m.loaded = true
	m.needsReload = false
	m.mu.Unlock()
	return nil
}

// SetPageSize changes the page size and goes back to page 1.
func (m *Manager[T]) SetPageSize(ctx context.Context, size int) error {
	return m.LoadPage(ctx, 1, size)
}

// OpenAdd opens the editor on an empty record.
func (m *Manager[T]) OpenAdd() {
	var rec T
	if m.opts.New != nil {
		rec = m.opts.New()
	}
	m.openEditor(rec)
}

// OpenEdit opens the editor on a copy of rec.
func (m *Manager[T]) OpenEdit(rec T) {
	m.openEditor(rec)
}

// OpenEditKey opens the editor on the loaded row with the given key. It
// reports false, with an error toast, when the row is not on the page.
func (m *Manager[T]) OpenEditKey(key string) bool {
	rec, ok := m.Find(key)
	if !ok {
		m.notify(feedback.LevelError, m.title()+" "+key+" no longer exists")
		return false
	}
	m.openEditor(rec)
	return true
}

func (m *Manager[T]) openEditor(rec T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editorGen++
	m.editing = &rec
	m.fieldErrs = nil
}

// CloseEditor discards the editor. A save still in flight no longer
// touches the editor when it completes.
func (m *Manager[T]) CloseEditor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editorGen++
	m.editing = nil
	m.fieldErrs = nil
}

// Save validates rec and creates or updates it. Invalid records never reach
// the source; their field errors are kept for the editor. On success the
// editor closes, the list goes back to page 1 and a success toast is raised.
// On failure the editor keeps the submitted values and an error toast is raised.
func (m *Manager[T]) Save(ctx context.Context, rec T) error {
	m.mu.Lock()
	if m.editing == nil {
		m.editorGen++
	}
	gen := m.editorGen
	m.editing = &rec
	m.fieldErrs = nil
	m.mu.Unlock()

	if err := rec.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			m.mu.Lock()
			m.fieldErrs = verr.Fields
			m.mu.Unlock()
		}
		return err
	}

	isNew := rec.IsNew()
	var err error
	if isNew {
		err = m.src.Create(ctx, rec)
	} else {
		err = m.src.Update(ctx, rec)
	}
	if err != nil {
		m.log.Error("failed to save", "key", rec.Key(), "new", isNew, "error", err)
		m.notify(feedback.LevelError, "Error saving "+m.opts.Noun+": "+m.opts.Describe(err))
		return err
	}

	m.mu.Lock()
	if gen == m.editorGen {
		m.editorGen++
		m.editing = nil
	}
	m.mu.Unlock()

	if isNew {
		m.log.Info("record created", "key", rec.Key())
		m.notify(feedback.LevelSuccess, m.title()+" added successfully")
	} else {
		m.log.Info("record updated", "key", rec.Key())
		m.notify(feedback.LevelSuccess, m.title()+" updated successfully")
	}
	m.afterMutation(ctx)
	return nil
}

// RequestDelete asks for confirmation before deleting key.
func (m *Manager[T]) RequestDelete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingKey = key
	m.confirming = true
}

// CancelDelete closes the confirmation without deleting.
func (m *Manager[T]) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingKey = ""
	m.confirming = false
}

// ConfirmDelete deletes the pending key. The confirmation closes whatever
// the outcome.
func (m *Manager[T]) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	key, ok := m.pendingKey, m.confirming
	m.mu.Unlock()
	if !ok || key == "" {
		return ErrNothingPending
	}

	err := m.src.Delete(ctx, key)
	m.CancelDelete()
	if err != nil {
		m.log.Error("failed to delete", "key", key, "error", err)
		m.notify(feedback.LevelError, "Error deleting "+m.opts.Noun+": "+m.opts.Describe(err))
		return err
	}

	m.log.Info("record deleted", "key", key)
	m.notify(feedback.LevelSuccess, m.title()+" deleted successfully")
	m.afterMutation(ctx)
	return nil
}

func (m *Manager[T]) afterMutation(ctx context.Context) {
	if m.opts.DeferReload {
		m.mu.Lock()
		m.page = 1
		m.needsReload = true
		m.mu.Unlock()
		return
	}
	// A failed reload raises its own toast.
	_ = m.LoadPage(ctx, 1, m.PageSize())
}

func (m *Manager[T]) notify(level feedback.Level, msg string) {
	m.opts.Notifier.Notify(feedback.Toast{Level: level, Message: msg})
}

func (m *Manager[T]) title() string {
	if m.opts.Noun == "" {
		return "Record"
	}
	return strings.ToUpper(m.opts.Noun[:1]) + m.opts.Noun[1:]
}

// Find returns the loaded row with the given key.
func (m *Manager[T]) Find(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Key() == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the rows of the current page.
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

func (m *Manager[T]) CurrentPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

func (m *Manager[T]) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPages
}

func (m *Manager[T]) TotalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalCount
}

func (m *Manager[T]) PageSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// PageSizes returns the allowed page sizes.
func (m *Manager[T]) PageSizes() []int {
	return slices.Clone(m.opts.PageSizes)
}

// Loading reports whether a load is in flight.
func (m *Manager[T]) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Empty reports whether a completed load found no rows.
func (m *Manager[T]) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded && len(m.items) == 0
}

// NeedsReload reports whether a mutation left page 1 to be reloaded by the caller.
func (m *Manager[T]) NeedsReload() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.needsReload
}

// Editor returns the record under edit.
func (m *Manager[T]) Editor() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editing == nil {
		var zero T
		return zero, false
	}
	return *m.editing, true
}

// FieldErrors returns the validation messages of the last rejected save.
func (m *Manager[T]) FieldErrors() model.FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fieldErrs
}

// PendingDelete returns the key awaiting confirmation.
func (m *Manager[T]) PendingDelete() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingKey, m.confirming
}

func (m *Manager[T]) HasPrev() bool {
	return m.CurrentPage() > 1
}

func (m *Manager[T]) HasNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page < m.totalPages
}

// Links returns the pagination links for the current page.
func (m *Manager[T]) Links() []PageLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Pages(m.page, m.totalPages, 2)
}
