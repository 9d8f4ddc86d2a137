package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Options tune the API router.
type Options struct {
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, SecureCookies: opts.SecureCookies}
	destinations := &DestinationsHandler{DB: db}
	ports := &PortsHandler{DB: db}
	lines := &LinesHandler{DB: db}
	ships := &ShipsHandler{DB: db}
	inventories := &InventoriesHandler{DB: db}
	markup := &MarkupHandler{DB: db}
	promotions := &PromotionsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	anyRole := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleAdmin)(h))
	}
	staff := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleAdmin, model.RoleAgent)(h))
	}

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("GET /api/auth/check", anyRole(authHandler.Check))

	// Reference data: read by everyone signed in, written by admins.
	mux.Handle("GET /api/CruiseDestinations", anyRole(destinations.List))
	mux.Handle("POST /api/CruiseDestinations", adminOnly(destinations.Create))
	mux.Handle("POST /api/CruiseDestinations/update", adminOnly(destinations.Update))
	mux.Handle("DELETE /api/CruiseDestinations/{code}", adminOnly(destinations.Delete))

	mux.Handle("GET /api/CruiseDeparturePorts", anyRole(ports.List))
	mux.Handle("GET /api/CruiseDeparturePorts/destination", anyRole(destinations.All))
	mux.Handle("POST /api/CruiseDeparturePorts", adminOnly(ports.Create))
	mux.Handle("POST /api/CruiseDeparturePorts/update", adminOnly(ports.Update))
	mux.Handle("DELETE /api/CruiseDeparturePorts/{id}", adminOnly(ports.Delete))

	mux.Handle("GET /api/CruiseLines", anyRole(lines.List))
	mux.Handle("POST /api/CruiseLines", adminOnly(lines.Create))
	mux.Handle("POST /api/CruiseLines/update", adminOnly(lines.Update))
	mux.Handle("DELETE /api/CruiseLines/{id}", adminOnly(lines.Delete))

	mux.Handle("GET /api/CruiseShips", anyRole(ships.List))
	mux.Handle("GET /api/CruiseShips/CruiseLine", anyRole(lines.All))
	mux.Handle("POST /api/CruiseShips", adminOnly(ships.Create))
	mux.Handle("POST /api/CruiseShips/update", adminOnly(ships.Update))
	mux.Handle("DELETE /api/CruiseShips/{id}", adminOnly(ships.Delete))
	mux.Handle("POST /api/CruiseShips/{id}/image", adminOnly(ships.UploadImage))
	mux.Handle("GET /api/CruiseShips/{id}/image", anyRole(ships.GetImage))

	// Sailings: admins and agents.
	mux.Handle("GET /api/CruiseInventories", staff(inventories.List))
	mux.Handle("POST /api/CruiseInventories", staff(inventories.Create))
	mux.Handle("POST /api/CruiseInventories/update", staff(inventories.Update))
	mux.Handle("DELETE /api/CruiseInventories/{id}", staff(inventories.Delete))
	mux.Handle("GET /api/CruiseInventories/destinations", staff(destinations.All))
	mux.Handle("GET /api/CruiseInventories/cruiselines", staff(lines.All))
	mux.Handle("GET /api/CruiseInventories/departures-by-destination/{code}", staff(ports.ByDestination))
	mux.Handle("GET /api/CruiseInventories/ships-by-cruiseline/{id}", staff(ships.ByLine))

	// Pricing.
	mux.Handle("POST /api/Markup", adminOnly(markup.Create))
	mux.Handle("POST /api/Markup/calculate-markup", adminOnly(markup.Calculate))
	mux.Handle("POST /api/Promotions", staff(promotions.Create))

	return LoggingMiddleware(mux)
}
