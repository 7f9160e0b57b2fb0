package play

import (
	"arena-roguelite/internal/vmath"

	"github.com/gdamore/tcell/v2"
)

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveN
	ActionMoveS
	ActionMoveE
	ActionMoveW
	ActionMoveNE
	ActionMoveNW
	ActionMoveSE
	ActionMoveSW
	ActionStop
	ActionFire
	ActionDoor
	ActionPause
	ActionRespawn
	ActionSkip
	ActionQuit
	ActionChoose1
	ActionChoose2
	ActionChoose3
)

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMoveN
	case tcell.KeyDown:
		return ActionMoveS
	case tcell.KeyRight:
		return ActionMoveE
	case tcell.KeyLeft:
		return ActionMoveW
	case tcell.KeyEscape:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionDoor
	}

	switch ev.Rune() {
	case 'k', 'K', 'w', 'W':
		return ActionMoveN
	case 'j', 'J', 's', 'S':
		return ActionMoveS
	case 'l', 'L', 'd', 'D':
		return ActionMoveE
	case 'h', 'H', 'a', 'A':
		return ActionMoveW
	case 'y', 'Y':
		return ActionMoveNW
	case 'u', 'U':
		return ActionMoveNE
	case 'b', 'B':
		return ActionMoveSW
	case 'n', 'N':
		return ActionMoveSE
	case '.':
		return ActionStop
	case ' ', 'f', 'F':
		return ActionFire
	case 'e', 'E':
		return ActionDoor
	case 'p', 'P':
		return ActionPause
	case 'r', 'R':
		return ActionRespawn
	case 'x', 'X':
		return ActionSkip
	case 'q', 'Q':
		return ActionQuit
	case '1':
		return ActionChoose1
	case '2':
		return ActionChoose2
	case '3':
		return ActionChoose3
	}
	return ActionNone
}

// actionToDir converts a movement action to a unit-ish direction.
func actionToDir(a Action) vmath.Vec {
	switch a {
	case ActionMoveN:
		return vmath.Vec{Y: -1}
	case ActionMoveS:
		return vmath.Vec{Y: 1}
	case ActionMoveE:
		return vmath.Vec{X: 1}
	case ActionMoveW:
		return vmath.Vec{X: -1}
	case ActionMoveNE:
		return vmath.Vec{X: 1, Y: -1}
	case ActionMoveNW:
		return vmath.Vec{X: -1, Y: -1}
	case ActionMoveSE:
		return vmath.Vec{X: 1, Y: 1}
	case ActionMoveSW:
		return vmath.Vec{X: -1, Y: 1}
	}
	return vmath.Vec{}
}

// choiceIndex returns the offer slot a choose action selects.
func choiceIndex(a Action) (int, bool) {
	switch a {
	case ActionChoose1:
		return 0, true
	case ActionChoose2:
		return 1, true
	case ActionChoose3:
		return 2, true
	}
	return 0, false
}
