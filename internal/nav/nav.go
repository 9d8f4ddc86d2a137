package nav

import (
	"fmt"
	"strings"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Node is one menu entry. A node with children is a grouping container:
// it has no screen of its own and opens its first visible child.
type Node struct {
	Path     string
	Label    string
	Icon     string
	Roles    []model.Role
	Screen   string
	Children []Node
}

// IsGroup reports whether n only groups other entries.
func (n Node) IsGroup() bool {
	return len(n.Children) > 0
}

// Visible returns the part of tree role may see. A group is kept only when
// role is allowed on it and at least one child survives.
func Visible(tree []Node, role model.Role) []Node {
	var out []Node
	for _, n := range tree {
		if !model.HasRole(role, n.Roles) {
			continue
		}
		if n.IsGroup() {
			children := Visible(n.Children, role)
			if len(children) == 0 {
				continue
			}
			n.Children = children
		}
		out = append(out, n)
	}
	return out
}

// RouteTable maps every screen path role may open to its screen name.
// Groups are not routes.
func RouteTable(tree []Node, role model.Role) map[string]string {
	routes := make(map[string]string)
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.IsGroup() {
				walk(n.Children)
				continue
			}
			routes[n.Path] = n.Screen
		}
	}
	walk(Visible(tree, role))
	return routes
}

// GroupTarget returns where a group path leads for role: its first visible child.
func GroupTarget(tree []Node, role model.Role, path string) (string, bool) {
	n, ok := Find(Visible(tree, role), path)
	if !ok || !n.IsGroup() {
		return "", false
	}
	first := n.Children[0]
	for first.IsGroup() {
		first = first.Children[0]
	}
	return first.Path, true
}

// Find looks up the node with the given path anywhere in tree.
func Find(tree []Node, path string) (Node, bool) {
	for _, n := range tree {
		if n.Path == path {
			return n, true
		}
		if found, ok := Find(n.Children, path); ok {
			return found, true
		}
	}
	return Node{}, false
}

// Active reports whether current is path or lies below it.
func Active(current, path string) bool {
	return current == path || strings.HasPrefix(current, strings.TrimSuffix(path, "/")+"/")
}

// Expanded returns the group paths that contain current.
func Expanded(tree []Node, current string) map[string]bool {
	open := make(map[string]bool)
	var walk func([]Node) bool
	walk = func(nodes []Node) bool {
		hit := false
		for _, n := range nodes {
			if !n.IsGroup() {
				if Active(current, n.Path) {
					hit = true
				}
				continue
			}
			if walk(n.Children) || Active(current, n.Path) {
				open[n.Path] = true
				hit = true
			}
		}
		return hit
	}
	walk(tree)
	return open
}

// Validate checks a menu definition.
func Validate(tree []Node) error {
	seen := make(map[string]bool)
	var walk func(nodes []Node, parent string) error
	walk = func(nodes []Node, parent string) error {
		for _, n := range nodes {
			if !strings.HasPrefix(n.Path, "/") {
				return fmt.Errorf("menu path %q must start with /", n.Path)
			}
			if seen[n.Path] {
				return fmt.Errorf("menu path %q is declared twice", n.Path)
			}
			seen[n.Path] = true
			if n.Label == "" {
				return fmt.Errorf("menu path %q has no label", n.Path)
			}
			if len(n.Roles) == 0 {
				return fmt.Errorf("menu path %q allows no roles", n.Path)
			}
			for _, r := range n.Roles {
				if !r.Valid() {
					return fmt.Errorf("menu path %q names unknown role %q", n.Path, r)
				}
			}
			if parent != "" && !Active(n.Path, parent) {
				return fmt.Errorf("menu path %q is not below its group %q", n.Path, parent)
			}
			if n.IsGroup() {
				if n.Screen != "" {
					return fmt.Errorf("menu group %q must not declare a screen", n.Path)
				}
				if err := walk(n.Children, n.Path); err != nil {
					return err
				}
				continue
			}
			if n.Screen == "" {
				return fmt.Errorf("menu path %q has no screen", n.Path)
			}
		}
		return nil
	}
	return walk(tree, "")
}
