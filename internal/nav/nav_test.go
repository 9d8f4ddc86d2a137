package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/model"
)

func paths(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Path)
	}
	return out
}

func TestDefaultMenuIsValid(t *testing.T) {
	require.NoError(t, Validate(DefaultMenu()))
}

func TestVisibleForAdmin(t *testing.T) {
	v := Visible(DefaultMenu(), model.RoleAdmin)
	assert.Equal(t, []string{"/dashboard", "/inventory", "/promotions", "/markup", "/admin", "/role-management"}, paths(v))

	inv, ok := Find(v, "/inventory")
	require.True(t, ok)
	assert.Len(t, inv.Children, 5)
}

func TestVisibleForAgent(t *testing.T) {
	v := Visible(DefaultMenu(), model.RoleAgent)
	assert.Equal(t, []string{"/dashboard", "/inventory", "/promotions", "/reports"}, paths(v))

	inv, ok := Find(v, "/inventory")
	require.True(t, ok)
	assert.Equal(t, []string{"/inventory/manage-inventory"}, paths(inv.Children))
}

func TestVisibleUnknownRoleSeesNothing(t *testing.T) {
	assert.Empty(t, Visible(DefaultMenu(), "Guest"))
	assert.Empty(t, RouteTable(DefaultMenu(), ""))
}

func TestGroupHiddenWithoutVisibleChildren(t *testing.T) {
	tree := []Node{{
		Path: "/settings", Label: "Settings", Roles: []model.Role{model.RoleAdmin, model.RoleAgent},
		Children: []Node{{Path: "/settings/users", Label: "Users", Roles: []model.Role{model.RoleAdmin}, Screen: "users"}},
	}}
	assert.Empty(t, Visible(tree, model.RoleAgent))
	assert.Len(t, Visible(tree, model.RoleAdmin), 1)
}

func TestRouteTable(t *testing.T) {
	agent := RouteTable(DefaultMenu(), model.RoleAgent)
	assert.Equal(t, ScreenInventory, agent["/inventory/manage-inventory"])
	assert.Equal(t, ScreenReports, agent["/reports"])
	assert.NotContains(t, agent, "/inventory/manage-lines")
	assert.NotContains(t, agent, "/markup")
	assert.NotContains(t, agent, "/inventory", "groups are not routes")

	admin := RouteTable(DefaultMenu(), model.RoleAdmin)
	assert.Equal(t, ScreenLines, admin["/inventory/manage-lines"])
	assert.NotContains(t, admin, "/reports")
}

func TestGroupTarget(t *testing.T) {
	target, ok := GroupTarget(DefaultMenu(), model.RoleAgent, "/inventory")
	require.True(t, ok)
	assert.Equal(t, "/inventory/manage-inventory", target)

	_, ok = GroupTarget(DefaultMenu(), model.RoleAdmin, "/markup")
	assert.False(t, ok)
}

func TestExpanded(t *testing.T) {
	tree := DefaultMenu()
	assert.Equal(t, map[string]bool{"/inventory": true}, Expanded(tree, "/inventory/manage-ships"))
	assert.Empty(t, Expanded(tree, "/promotions"))
	assert.Empty(t, Expanded(tree, "/inventory-report"), "a shared prefix is not containment")
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		tree []Node
	}{
		{"group with screen", []Node{{Path: "/g", Label: "G", Roles: both, Screen: "x",
			Children: []Node{{Path: "/g/a", Label: "A", Roles: both, Screen: "a"}}}}},
		{"leaf without screen", []Node{{Path: "/a", Label: "A", Roles: both}}},
		{"duplicate path", []Node{
			{Path: "/a", Label: "A", Roles: both, Screen: "a"},
			{Path: "/a", Label: "A2", Roles: both, Screen: "b"},
		}},
		{"unknown role", []Node{{Path: "/a", Label: "A", Roles: []model.Role{"Root"}, Screen: "a"}}},
		{"child outside group", []Node{{Path: "/g", Label: "G", Roles: both,
			Children: []Node{{Path: "/other", Label: "O", Roles: both, Screen: "o"}}}}},
		{"relative path", []Node{{Path: "a", Label: "A", Roles: both, Screen: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate(tt.tree))
		})
	}
}
