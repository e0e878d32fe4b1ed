package form

type StateType string

const (
	StateInitial    StateType = "initial"
	StateSubmitting StateType = "submitting"
	StateError      StateType = "error"
)

// SaveState is the display state of a submit action.
type SaveState struct {
	Type    StateType
	Message string
}

func (s SaveState) Submitting() bool { return s.Type == StateSubmitting }

// Label picks the button label for the current state.
func (s SaveState) Label(idle, busy string) string {
	if s.Submitting() {
		return busy
	}
	return idle
}

// Action is the state of an ad-hoc action (resend, test ping) that is not
// backed by a Controller.
type Action struct {
	state SaveState
}

func (a *Action) State() SaveState {
	if a.state.Type == "" {
		return SaveState{Type: StateInitial}
	}
	return a.state
}

func (a *Action) Start() { a.state = SaveState{Type: StateSubmitting} }

func (a *Action) Done() { a.state = SaveState{Type: StateInitial} }

func (a *Action) Fail(err error) string {
	msg := Message(err)
	a.state = SaveState{Type: StateError, Message: msg}
	return msg
}
