// Package command defines the units of work applied by the UI loop and the
// queue that serializes them.
package command

// Command is one unit of work for the UI loop. Producers (file watcher,
// control socket, exit forwarder) construct variants and send them through a
// Sink; only the UI loop ever applies them.
type Command interface {
	isCommand()
}

// ReloadConfigAndCss asks the UI loop to re-read the widget document and
// stylesheet. The outcome is reported on Resp.
type ReloadConfigAndCss struct {
	Resp chan<- Response
}

// KillServer terminates the UI loop. It is the single convergence point for
// every shutdown path.
type KillServer struct{}

// OpenWindow shows the named window from the active configuration.
type OpenWindow struct {
	Name string
}

// CloseWindow hides the named window.
type CloseWindow struct {
	Name string
}

// UpdateVar sets one variable in the UI state.
type UpdateVar struct {
	Name  string
	Value string
}

// PrintState requests a rendering of the current variable state on Resp.
type PrintState struct {
	Resp chan<- Response
}

// PrintWindows requests the list of open windows on Resp.
type PrintWindows struct {
	Resp chan<- Response
}

func (ReloadConfigAndCss) isCommand() {}
func (KillServer) isCommand()         {}
func (OpenWindow) isCommand()         {}
func (CloseWindow) isCommand()        {}
func (UpdateVar) isCommand()          {}
func (PrintState) isCommand()         {}
func (PrintWindows) isCommand()       {}

// Response is the outcome of one response-carrying command.
type Response struct {
	Payload string
	Err     string
}

// Success builds a successful response with an optional payload.
func Success(payload string) Response {
	return Response{Payload: payload}
}

// Failure builds a failed response with a message.
func Failure(message string) Response {
	return Response{Err: message}
}

// OK reports whether the response carries no error.
func (r Response) OK() bool {
	return r.Err == ""
}

// NewResponseChannel returns a one-shot response channel. The buffer lets the
// UI loop reply without blocking even when the requester lost interest.
func NewResponseChannel() chan Response {
	return make(chan Response, 1)
}

// Reply delivers one response without blocking. A nil channel and a channel
// whose requester already received a value are both silently ignored.
func Reply(ch chan<- Response, r Response) {
	if ch == nil {
		return
	}
	select {
	case ch <- r:
	default:
	}
}
