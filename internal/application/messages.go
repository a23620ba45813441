package application

// Messages returned by menu actions.
type (
	// DoneMsg reports a finished action.
	DoneMsg string
	// InfoMsg carries text to show without ending a run.
	InfoMsg string
	// ErrMsg reports a failed action.
	ErrMsg struct{ Err error }
)
