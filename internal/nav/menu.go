package nav

import "github.com/erazemk/cruisedesk/internal/model"

// Screens.
const (
	ScreenDashboard    = "dashboard"
	ScreenInventory    = "inventory"
	ScreenLines        = "lines"
	ScreenShips        = "ships"
	ScreenDestinations = "destinations"
	ScreenPorts        = "ports"
	ScreenPromotions   = "promotions"
	ScreenMarkup       = "markup"
	ScreenReports      = "reports"
	ScreenAdmin        = "admin"
	ScreenRoles        = "role-management"
)

// DefaultPath is where signed-in users land.
const DefaultPath = "/dashboard"

var (
	both      = []model.Role{model.RoleAdmin, model.RoleAgent}
	adminOnly = []model.Role{model.RoleAdmin}
	agentOnly = []model.Role{model.RoleAgent}
)

// DefaultMenu returns the console menu.
func DefaultMenu() []Node {
	return []Node{
		{Path: "/dashboard", Label: "Home", Icon: "home", Roles: both, Screen: ScreenDashboard},
		{
			Path: "/inventory", Label: "Inventory", Icon: "boxes", Roles: both,
			Children: []Node{
				{Path: "/inventory/manage-inventory", Label: "Cruise Inventory", Roles: both, Screen: ScreenInventory},
				{Path: "/inventory/manage-lines", Label: "Cruise Lines", Roles: adminOnly, Screen: ScreenLines},
				{Path: "/inventory/manage-ships", Label: "Cruise Ships", Roles: adminOnly, Screen: ScreenShips},
				{Path: "/inventory/manage-destination", Label: "Cruise Destinations", Roles: adminOnly, Screen: ScreenDestinations},
				{Path: "/inventory/manage-departure-port", Label: "Departure Ports", Roles: adminOnly, Screen: ScreenPorts},
			},
		},
		{Path: "/promotions", Label: "Promotions", Icon: "tag", Roles: both, Screen: ScreenPromotions},
		{Path: "/markup", Label: "Markup", Icon: "percent", Roles: adminOnly, Screen: ScreenMarkup},
		{Path: "/reports", Label: "Reports", Icon: "chart", Roles: agentOnly, Screen: ScreenReports},
		{Path: "/admin", Label: "Admin", Icon: "shield", Roles: adminOnly, Screen: ScreenAdmin},
		{Path: "/role-management", Label: "Role Management", Icon: "users", Roles: adminOnly, Screen: ScreenRoles},
	}
}
