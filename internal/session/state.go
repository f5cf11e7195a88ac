package session

// State 是终端会话状态机的状态。
type State int

const (
	AwaitingInput State = iota
	Dispatching
	Rendering
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Dispatching:
		return "dispatching"
	case Rendering:
		return "rendering"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
