package forms

import (
	"strconv"
	"strings"

	"github.com/erazemk/cruisedesk/internal/model"
)

// ActionKind names what a submit button asks the inventory editor to do.
type ActionKind int

// Editor actions. Only ActionSave sends anything to the backend.
const (
	ActionSave ActionKind = iota
	ActionRefresh
	ActionAddCabin
	ActionRemoveCabin
)

// Action is a decoded editor button press.
type Action struct {
	Kind  ActionKind
	Index int
}

// ParseAction decodes the "action" form value. Anything unrecognised saves.
func ParseAction(s string) Action {
	switch {
	case s == "refresh":
		return Action{Kind: ActionRefresh}
	case s == "add-cabin":
		return Action{Kind: ActionAddCabin}
	case strings.HasPrefix(s, "remove-cabin-"):
		i, err := strconv.Atoi(strings.TrimPrefix(s, "remove-cabin-"))
		if err != nil || i < 0 {
			return Action{Kind: ActionRefresh}
		}
		return Action{Kind: ActionRemoveCabin, Index: i}
	}
	return Action{Kind: ActionSave}
}

// Apply updates inv in place for the cabin actions. It reports whether the
// editor should be redisplayed instead of saved.
func (a Action) Apply(inv *model.Inventory) bool {
	switch a.Kind {
	case ActionAddCabin:
		inv.Cabins = append(inv.Cabins, model.NewCabin())
	case ActionRemoveCabin:
		if a.Index < len(inv.Cabins) {
			inv.Cabins = append(inv.Cabins[:a.Index], inv.Cabins[a.Index+1:]...)
		}
	case ActionRefresh:
	default:
		return false
	}
	return true
}
