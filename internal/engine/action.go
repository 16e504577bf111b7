package engine

import "fmt"

// ActionType names an action kind on the wire and in replay logs.
type ActionType string

const (
	ActionStartGame ActionType = "START_GAME"
	ActionTick      ActionType = "TICK"
	ActionMoveLeft  ActionType = "MOVE_LEFT"
	ActionMoveRight ActionType = "MOVE_RIGHT"
	ActionRotateCW  ActionType = "ROTATE_CW"
	ActionRotateCCW ActionType = "ROTATE_CCW"
	ActionSoftDrop  ActionType = "SOFT_DROP"
	ActionHardDrop  ActionType = "HARD_DROP"
	ActionPause     ActionType = "PAUSE"
	ActionResume    ActionType = "RESUME"
	ActionRestart   ActionType = "RESTART"
)

// ActionTypes lists every known action kind.
func ActionTypes() []ActionType {
	return []ActionType{
		ActionStartGame, ActionTick, ActionMoveLeft, ActionMoveRight,
		ActionRotateCW, ActionRotateCCW, ActionSoftDrop, ActionHardDrop,
		ActionPause, ActionResume, ActionRestart,
	}
}

// Valid reports whether t is a known action kind.
func (t ActionType) Valid() bool {
	for _, known := range ActionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Action is a single input to the reducer. The set of implementations is
// closed; Reduce switches over all of them.
type Action interface {
	// Type returns the wire name of the action.
	Type() ActionType
	// Frame returns the frame the action was dispatched on. It is kept for
	// logging and replay; game logic uses GameState.Frame instead.
	Frame() int
	action()
}

// StartGame moves a fresh game from initial to playing.
type StartGame struct{ At int }

// Tick advances the simulation by one fixed step.
type Tick struct{ At int }

// MoveLeft shifts the active block one column left.
type MoveLeft struct{ At int }

// MoveRight shifts the active block one column right.
type MoveRight struct{ At int }

// RotateCW turns the active block clockwise.
type RotateCW struct{ At int }

// RotateCCW turns the active block counter-clockwise.
type RotateCCW struct{ At int }

// SoftDrop moves the active block down one row.
type SoftDrop struct{ At int }

// HardDrop drops and locks the active block.
type HardDrop struct{ At int }

// Pause suspends play.
type Pause struct{ At int }

// Resume continues a paused game.
type Resume struct{ At int }

// Restart discards the game and starts over from the same seed.
type Restart struct{ At int }

func (StartGame) Type() ActionType { return ActionStartGame }
func (Tick) Type() ActionType      { return ActionTick }
func (MoveLeft) Type() ActionType  { return ActionMoveLeft }
func (MoveRight) Type() ActionType { return ActionMoveRight }
func (RotateCW) Type() ActionType  { return ActionRotateCW }
func (RotateCCW) Type() ActionType { return ActionRotateCCW }
func (SoftDrop) Type() ActionType  { return ActionSoftDrop }
func (HardDrop) Type() ActionType  { return ActionHardDrop }
func (Pause) Type() ActionType     { return ActionPause }
func (Resume) Type() ActionType    { return ActionResume }
func (Restart) Type() ActionType   { return ActionRestart }

func (a StartGame) Frame() int { return a.At }
func (a Tick) Frame() int      { return a.At }
func (a MoveLeft) Frame() int  { return a.At }
func (a MoveRight) Frame() int { return a.At }
func (a RotateCW) Frame() int  { return a.At }
func (a RotateCCW) Frame() int { return a.At }
func (a SoftDrop) Frame() int  { return a.At }
func (a HardDrop) Frame() int  { return a.At }
func (a Pause) Frame() int     { return a.At }
func (a Resume) Frame() int    { return a.At }
func (a Restart) Frame() int   { return a.At }

func (StartGame) action() {}
func (Tick) action()      {}
func (MoveLeft) action()  {}
func (MoveRight) action() {}
func (RotateCW) action()  {}
func (RotateCCW) action() {}
func (SoftDrop) action()  {}
func (HardDrop) action()  {}
func (Pause) action()     {}
func (Resume) action()    {}
func (Restart) action()   {}

// NewAction builds the action of the given kind stamped with frame.
func NewAction(t ActionType, frame int) (Action, error) {
	switch t {
	case ActionStartGame:
		return StartGame{At: frame}, nil
	case ActionTick:
		return Tick{At: frame}, nil
	case ActionMoveLeft:
		return MoveLeft{At: frame}, nil
	case ActionMoveRight:
		return MoveRight{At: frame}, nil
	case ActionRotateCW:
		return RotateCW{At: frame}, nil
	case ActionRotateCCW:
		return RotateCCW{At: frame}, nil
	case ActionSoftDrop:
		return SoftDrop{At: frame}, nil
	case ActionHardDrop:
		return HardDrop{At: frame}, nil
	case ActionPause:
		return Pause{At: frame}, nil
	case ActionResume:
		return Resume{At: frame}, nil
	case ActionRestart:
		return Restart{At: frame}, nil
	default:
		return nil, fmt.Errorf("engine: unknown action type %q", t)
	}
}
