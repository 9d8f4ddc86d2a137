package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/nav"
	webembed "github.com/erazemk/cruisedesk/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
	fragments *template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"hasRole": func(u *model.AuthUser, roles ...model.Role) bool {
			return u != nil && model.HasRole(u.Role, roles)
		},
		"active": nav.Active,
		"asset": func(name string) string {
			return "/static/" + name + "?v=" + webembed.StaticVersion()
		},
		"fieldError": func(errs model.FieldErrors, field string) template.HTML {
			msg, ok := errs[field]
			if !ok {
				return ""
			}
			return template.HTML(`<span class="field-error">` + template.HTMLEscapeString(msg) + `</span>`)
		},
		"invalid": func(errs model.FieldErrors, field string) bool {
			_, ok := errs[field]
			return ok
		},
		"dec": func(d decimal.NullDecimal) string {
			if !d.Valid {
				return ""
			}
			return d.Decimal.String()
		},
		"money": func(d decimal.NullDecimal) string {
			if !d.Valid {
				return "-"
			}
			return d.Decimal.StringFixed(2)
		},
		"id": func(id int64) string {
			if id == 0 {
				return ""
			}
			return strconv.FormatInt(id, 10)
		},
		"intp": func(n *int) string {
			if n == nil {
				return ""
			}
			return strconv.Itoa(*n)
		},
		"int64p": func(n *int64) string {
			if n == nil {
				return ""
			}
			return strconv.FormatInt(*n, 10)
		},
		"dateInput": model.DateInput,
		"cabinKey": func(i int, field string) string {
			return fmt.Sprintf("cabins.%d.%s", i, field)
		},
		"roleName": func(role model.Role) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleAgent:
				return "Travel agent"
			default:
				return string(role)
			}
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.Templates()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"registration.html",
		"dashboard.html",
		"placeholder.html",
		"destinations.html",
		"ports.html",
		"lines.html",
		"ships.html",
		"inventory.html",
		"promotions.html",
		"markup.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	ts.fragments, err = template.New("fragments").Funcs(FuncMap()).ParseFS(tfs, "fragments.html")
	if err != nil {
		return nil, fmt.Errorf("parsing fragments: %w", err)
	}

	return ts, nil
}

// Render renders a page template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a page template with a non-default status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// RenderFragment renders a partial template without the layout.
func (ts *Templates) RenderFragment(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ts.fragments.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render fragment", "fragment", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title     string
	Path      string
	User      *model.AuthUser
	Menu      []nav.Node
	Expanded  map[string]bool
	CSRFField template.HTML
	Toasts    []feedback.Toast
}

// Server holds all dependencies for page handlers.
type Server struct {
	Client        *gateway.Client
	Templates     *Templates
	Toasts        feedback.Store
	Audit         audit.Publisher
	Menu          []nav.Node
	PageSizes     []int
	SecureCookies bool
}
