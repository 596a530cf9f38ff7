package agent

///////////////////////////////////////////////////////////////////////////////
// TYPES

// State is the position of the conversation loop
type State int

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	StateAwaitingUserInput State = iota
	StateAwaitingServiceResponse
	StateExecutingTools
	StateDone
)

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s State) String() string {
	switch s {
	case StateAwaitingUserInput:
		return "awaiting_user_input"
	case StateAwaitingServiceResponse:
		return "awaiting_service_response"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
