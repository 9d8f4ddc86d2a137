package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/manager"
	"github.com/erazemk/cruisedesk/internal/model"
)

// screen is a paged list with an editor and a delete confirmation, driven
// by a manager over one backend collection. Its state travels in the URL:
// page, size, resize, add, edit and delete.
type screen[T manager.Record] struct {
	Path     string
	Title    string
	Noun     string
	Plural   string
	Entity   string
	Template string

	Source func(*gateway.Client) manager.Source[T]
	New    func() T
	Decode func(url.Values) (T, model.FieldErrors)

	// Prepare runs on a submitted editor before it is saved. When it reports
	// redisplay the editor is shown again and nothing is sent.
	Prepare func(ctx context.Context, s *Server, v url.Values, rec *T) (redisplay bool, errs model.FieldErrors)
	// Lookups loads what the editor's selects offer. editor is nil when no
	// editor is open.
	Lookups func(ctx context.Context, s *Server, editor *T, n feedback.Notifier) any
}

type screenInfo struct {
	Path   string
	Title  string
	Noun   string
	Plural string
}

type screenView[T manager.Record] struct {
	PageData
	Screen screenInfo

	Items      []T
	Empty      bool
	Page       int
	Size       int
	Sizes      []int
	TotalPages int
	TotalCount int
	Links      []manager.PageLink
	HasPrev    bool
	HasNext    bool

	Editing     bool
	IsNew       bool
	Editor      T
	FieldErrors model.FieldErrors

	Confirming    bool
	PendingDelete string

	Lookups any
}

// PageURL links page n at the current size.
func (v *screenView[T]) PageURL(n int) string {
	return screenURL(v.Screen.Path, n, v.Size)
}

// URL links the current page with extra query pairs, such as "edit", key.
func (v *screenView[T]) URL(kv ...string) string {
	return screenURL(v.Screen.Path, v.Page, v.Size, kv...)
}

func (v *screenView[T]) PrevPage() int { return max(v.Page-1, 1) }
func (v *screenView[T]) NextPage() int { return min(v.Page+1, v.TotalPages) }

func screenURL(path string, page, size int, kv ...string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return path + "?" + q.Encode()
}

func (sc *screen[T]) manager(s *Server, r *http.Request, c *feedback.Collector) *manager.Manager[T] {
	src := audit.Wrap(sc.Source(s.Client), s.Audit, sc.Entity, actorOf(GetUser(r.Context())))
	return manager.New[T](src, manager.Options[T]{
		Noun:        sc.Noun,
		Plural:      sc.Plural,
		New:         sc.New,
		PageSizes:   s.PageSizes,
		DeferReload: true,
		Notifier:    c,
		Describe:    gateway.Message,
	})
}

func pageParams(v url.Values) (int, int) {
	page, _ := strconv.Atoi(v.Get("page"))
	size, _ := strconv.Atoi(v.Get("size"))
	return page, size
}

// view handles GET <path>.
func (sc *screen[T]) view(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c := &feedback.Collector{}
		m := sc.manager(s, r, c)
		q := r.URL.Query()

		page, size := pageParams(q)
		if q.Get("resize") == "1" {
			_ = m.SetPageSize(ctx, size)
		} else {
			_ = m.LoadPage(ctx, page, size)
		}

		switch {
		case q.Get("add") == "1":
			m.OpenAdd()
		case q.Get("edit") != "":
			m.OpenEditKey(q.Get("edit"))
		case q.Get("delete") != "":
			m.RequestDelete(q.Get("delete"))
		}

		sc.render(w, r, s, m, c, nil, http.StatusOK)
	}
}

// save handles POST <path>/save.
func (sc *screen[T]) save(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			return
		}
		ctx := r.Context()
		c := &feedback.Collector{}
		m := sc.manager(s, r, c)
		page, size := pageParams(r.PostForm)

		rec, errs := sc.Decode(r.PostForm)
		redisplay := false
		if sc.Prepare != nil {
			var more model.FieldErrors
			redisplay, more = sc.Prepare(ctx, s, r.PostForm, &rec)
			errs.Merge(more)
		}

		if redisplay || len(errs) > 0 {
			status := http.StatusOK
			if !redisplay {
				// Show every rule the record breaks, not only the unparsable fields.
				var verr *model.ValidationError
				if errors.As(rec.Validate(), &verr) {
					errs.Merge(verr.Fields)
				}
				status = http.StatusUnprocessableEntity
			}
			m.OpenEdit(rec)
			_ = m.LoadPage(ctx, page, size)
			sc.render(w, r, s, m, c, errs, status)
			return
		}

		if err := m.Save(ctx, rec); err != nil {
			status := http.StatusOK
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				status = http.StatusUnprocessableEntity
			}
			_ = m.LoadPage(ctx, page, size)
			sc.render(w, r, s, m, c, nil, status)
			return
		}

		s.redirect(w, r, screenURL(sc.Path, 1, m.PageSize()), c)
	}
}

// remove handles POST <path>/delete. The confirmation closes whatever the
// outcome; a successful delete goes back to page 1.
func (sc *screen[T]) remove(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			return
		}
		c := &feedback.Collector{}
		m := sc.manager(s, r, c)
		page, size := pageParams(r.PostForm)

		m.RequestDelete(r.PostFormValue("key"))
		if err := m.ConfirmDelete(r.Context()); err != nil {
			if errors.Is(err, manager.ErrNothingPending) {
				feedback.Error(c, "Choose a "+sc.Noun+" to delete.")
			}
			s.redirect(w, r, screenURL(sc.Path, max(page, 1), sizeOr(size, m.PageSize())), c)
			return
		}
		s.redirect(w, r, screenURL(sc.Path, 1, sizeOr(size, m.PageSize())), c)
	}
}

func sizeOr(size, fallback int) int {
	if size > 0 {
		return size
	}
	return fallback
}

func (sc *screen[T]) render(w http.ResponseWriter, r *http.Request, s *Server, m *manager.Manager[T], c *feedback.Collector, extra model.FieldErrors, status int) {
	v := &screenView[T]{
		Screen:     screenInfo{Path: sc.Path, Title: sc.Title, Noun: sc.Noun, Plural: sc.Plural},
		Items:      m.Items(),
		Empty:      m.Empty(),
		Page:       m.CurrentPage(),
		Size:       m.PageSize(),
		Sizes:      slices.Sorted(slices.Values(m.PageSizes())),
		TotalPages: m.TotalPages(),
		TotalCount: m.TotalCount(),
		Links:      m.Links(),
		HasPrev:    m.HasPrev(),
		HasNext:    m.HasNext(),
	}

	editor, editing := m.Editor()
	if editing {
		v.Editing = true
		v.Editor = editor
		v.IsNew = editor.IsNew()
		v.FieldErrors = model.FieldErrors{}
		v.FieldErrors.Merge(extra)
		v.FieldErrors.Merge(m.FieldErrors())
	}
	v.PendingDelete, v.Confirming = m.PendingDelete()

	if sc.Lookups != nil {
		var ed *T
		if editing {
			ed = &editor
		}
		v.Lookups = sc.Lookups(r.Context(), s, ed, c)
	}

	v.PageData = s.pageData(r, sc.Title, sc.Path, c)
	s.Templates.RenderStatus(w, status, sc.Template, v)
}

// register adds the screen's routes behind the route guard.
func (sc *screen[T]) register(mux *http.ServeMux, s *Server) {
	mux.Handle("GET "+sc.Path, s.requireScreen(sc.Path, sc.view(s)))
	mux.Handle("POST "+sc.Path+"/save", s.requireScreen(sc.Path, sc.save(s)))
	mux.Handle("POST "+sc.Path+"/delete", s.requireScreen(sc.Path, sc.remove(s)))
}
