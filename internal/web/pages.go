package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/nav"
)

// pageData builds the layout data for r. Toasts flashed before a redirect
// come first, then the ones raised while handling r.
func (s *Server) pageData(r *http.Request, title, path string, c *feedback.Collector) PageData {
	user := GetUser(r.Context())
	pd := PageData{
		Title:     title,
		Path:      path,
		User:      user,
		CSRFField: csrf.TemplateField(r),
		Toasts:    s.drainToasts(r),
	}
	if user != nil {
		pd.Menu = nav.Visible(s.Menu, user.Role)
		pd.Expanded = nav.Expanded(pd.Menu, path)
	}
	if c != nil {
		pd.Toasts = append(pd.Toasts, c.Toasts()...)
	}
	return pd
}

func (s *Server) drainToasts(r *http.Request) []feedback.Toast {
	sid := GetSID(r.Context())
	if sid == "" {
		return nil
	}
	toasts, err := s.Toasts.Drain(r.Context(), sid)
	if err != nil {
		slog.Error("failed to drain toasts", "error", err)
	}
	return toasts
}

// flash keeps toasts for the page the browser is redirected to.
func (s *Server) flash(r *http.Request, toasts ...feedback.Toast) {
	sid := GetSID(r.Context())
	if sid == "" || len(toasts) == 0 {
		return
	}
	if err := s.Toasts.Push(r.Context(), sid, toasts...); err != nil {
		slog.Error("failed to store toasts", "error", err)
	}
}

// redirect flashes the collected toasts and answers with 303 to target.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target string, c *feedback.Collector) {
	if c != nil {
		s.flash(r, c.Toasts()...)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func actorOf(u *model.AuthUser) audit.Actor {
	if u == nil {
		return audit.Actor{}
	}
	return audit.Actor{Email: u.Email, Role: string(u.Role)}
}

// recordChange publishes an audit event for a change made outside a manager.
func (s *Server) recordChange(r *http.Request, action, entity, key string) {
	e := audit.NewEvent(actorOf(GetUser(r.Context())), action, entity, key)
	if err := s.Audit.Publish(r.Context(), e); err != nil {
		slog.Error("failed to publish audit event", "entity", entity, "action", action, "key", key, "error", err)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// NavItem is one rendered menu entry.
type NavItem struct {
	Path     string
	Label    string
	Icon     string
	Group    bool
	Active   bool
	Open     bool
	Children []NavItem
}

// Nav returns the menu of the signed-in user with the current entry marked
// and the groups that contain it expanded.
func (p PageData) Nav() []NavItem {
	return navItems(p.Menu, p.Path, p.Expanded)
}

func navItems(nodes []nav.Node, current string, open map[string]bool) []NavItem {
	items := make([]NavItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, NavItem{
			Path:     n.Path,
			Label:    n.Label,
			Icon:     n.Icon,
			Group:    n.IsGroup(),
			Active:   nav.Active(current, n.Path),
			Open:     open[n.Path],
			Children: navItems(n.Children, current, open),
		})
	}
	return items
}
