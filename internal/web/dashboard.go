package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/nav"
)

// counter returns how many records a screen lists.
type counter func(ctx context.Context, c *gateway.Client) (int, error)

func countOf[T any](res func(*gateway.Client) *gateway.Resource[T]) counter {
	return func(ctx context.Context, c *gateway.Client) (int, error) {
		p, err := res(c).List(ctx, 1, 1)
		if err != nil {
			return 0, err
		}
		return p.TotalCount, nil
	}
}

var dashboardCounters = map[string]counter{
	nav.ScreenInventory:    countOf((*gateway.Client).Inventories),
	nav.ScreenLines:        countOf((*gateway.Client).Lines),
	nav.ScreenShips:        countOf((*gateway.Client).Ships),
	nav.ScreenDestinations: countOf((*gateway.Client).Destinations),
	nav.ScreenPorts:        countOf((*gateway.Client).Ports),
}

// Tile is one record count on the dashboard.
type Tile struct {
	Label string
	Path  string
	Count string
}

// Dashboard handles GET /dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	var tiles []Tile
	var walk func([]nav.Node)
	walk = func(nodes []nav.Node) {
		for _, n := range nodes {
			if n.IsGroup() {
				walk(n.Children)
				continue
			}
			count, ok := dashboardCounters[n.Screen]
			if !ok {
				continue
			}
			t := Tile{Label: n.Label, Path: n.Path, Count: "-"}
			if total, err := count(r.Context(), s.Client); err != nil {
				slog.Error("failed to count records", "screen", n.Screen, "error", err)
			} else {
				t.Count = strconv.Itoa(total)
			}
			tiles = append(tiles, t)
		}
	}
	walk(nav.Visible(s.Menu, user.Role))

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Name  string
		Tiles []Tile
	}{
		PageData: s.pageData(r, "Home", nav.DefaultPath, nil),
		Name:     displayName(user),
		Tiles:    tiles,
	})
}

// Placeholder renders a screen that has a menu entry but no content yet.
func (s *Server) Placeholder(title, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Templates.Render(w, "placeholder.html", &struct {
			PageData
		}{
			PageData: s.pageData(r, title, path, nil),
		})
	}
}
