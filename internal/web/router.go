package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/nav"
	"github.com/erazemk/cruisedesk/internal/session"
	webembed "github.com/erazemk/cruisedesk/web"
)

// Options configure the console.
type Options struct {
	Client *gateway.Client
	// Toasts defaults to an in-process store.
	Toasts feedback.Store
	// Audit defaults to logging events.
	Audit audit.Publisher
	// Menu defaults to nav.DefaultMenu.
	Menu []nav.Node
	// PageSizes lists the page sizes of every list; the first is the default.
	PageSizes     []int
	SecureCookies bool
	// CSRFKey is the 32 byte CSRF key. Nil disables CSRF protection.
	CSRFKey []byte
}

// NewRouter creates the console router with every screen of the menu registered.
func NewRouter(opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	menu := opts.Menu
	if menu == nil {
		menu = nav.DefaultMenu()
	}
	if err := nav.Validate(menu); err != nil {
		return nil, fmt.Errorf("invalid menu: %w", err)
	}

	s := &Server{
		Client:        opts.Client,
		Templates:     templates,
		Toasts:        opts.Toasts,
		Audit:         opts.Audit,
		Menu:          menu,
		PageSizes:     opts.PageSizes,
		SecureCookies: opts.SecureCookies,
	}
	if s.Toasts == nil {
		s.Toasts = feedback.NewMemoryStore(5 * time.Minute)
	}
	if s.Audit == nil {
		s.Audit = audit.NewLogPublisher(slog.Default())
	}
	if len(s.PageSizes) == 0 {
		s.PageSizes = []int{5, 10, 20, 50}
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", staticFiles())

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)
	mux.HandleFunc("GET /registration", s.RegistrationPage)
	mux.HandleFunc("POST /registration", s.RegistrationSubmit)

	// Screens.
	var walk func([]nav.Node)
	walk = func(nodes []nav.Node) {
		for _, n := range nodes {
			if n.IsGroup() {
				mux.Handle("GET "+n.Path, s.requireGroup(n.Path))
				walk(n.Children)
				continue
			}
			s.registerScreen(mux, n)
		}
	}
	walk(menu)

	// Everything else lands on the default screen or the login page.
	mux.HandleFunc("/", s.Fallback)

	var h http.Handler = mux
	h = CSRFMiddleware(opts.CSRFKey, opts.SecureCookies)(h)
	h = s.CookieRelayMiddleware(h)
	h = s.SessionIDMiddleware(h)
	h = LoggingMiddleware(h)
	h = RecoverMiddleware(h)
	return h, nil
}

func (s *Server) registerScreen(mux *http.ServeMux, n nav.Node) {
	p := n.Path
	switch n.Screen {
	case nav.ScreenDashboard:
		mux.Handle("GET "+p, s.requireScreen(p, s.Dashboard))
	case nav.ScreenDestinations:
		destinationScreen(p).register(mux, s)
	case nav.ScreenPorts:
		portScreen(p).register(mux, s)
	case nav.ScreenLines:
		lineScreen(p).register(mux, s)
	case nav.ScreenShips:
		shipScreen(p).register(mux, s)
		mux.Handle("POST "+p+"/{id}/photo", s.requireScreen(p, s.ShipPhotoSubmit(p)))
		mux.Handle("GET "+p+"/{id}/photo", s.requireScreen(p, s.ShipPhoto))
	case nav.ScreenInventory:
		inventoryScreen(p).register(mux, s)
		mux.Handle("GET "+p+"/options/ports", s.requireScreen(p,
			dependentOptions(s.portChain, s, "destinationId", "departurePortId", "Select departure port")))
		mux.Handle("GET "+p+"/options/ships", s.requireScreen(p,
			dependentOptions(s.shipChain, s, "cruiseLineId", "shipId", "Select ship")))
	case nav.ScreenPromotions:
		mux.Handle("GET "+p, s.requireScreen(p, s.PromotionsPage))
		mux.Handle("POST "+p, s.requireScreen(p, s.PromotionSubmit))
	case nav.ScreenMarkup:
		mux.Handle("GET "+p, s.requireScreen(p, s.MarkupPage))
		mux.Handle("POST "+p, s.requireScreen(p, s.MarkupSubmit))
		mux.Handle("POST "+p+"/calculate", s.requireScreen(p, s.MarkupCalculate))
	default:
		mux.Handle("GET "+p, s.requireScreen(p, s.Placeholder(n.Label, p)))
	}
}

// staticFiles serves the embedded assets. Versioned URLs never change, so
// they may be cached for good.
func staticFiles() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(webembed.Static())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") == webembed.StaticVersion() {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		files.ServeHTTP(w, r)
	})
}

// Fallback handles / and unknown paths.
func (s *Server) Fallback(w http.ResponseWriter, r *http.Request) {
	if session.New(s.Client).Check(r.Context()) == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, nav.DefaultPath, http.StatusSeeOther)
}
