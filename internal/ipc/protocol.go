// Package ipc implements the unix-socket control protocol between a running
// daemon and client invocations of the binary.
package ipc

// Request is one newline-delimited JSON control message.
type Request struct {
	ID      string   `json:"id,omitempty"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Response is the single reply written for a request.
type Response struct {
	OK      bool   `json:"ok"`
	Payload string `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Wire command vocabulary accepted by the daemon.
const (
	CommandPing    = "ping"
	CommandReload  = "reload"
	CommandKill    = "kill"
	CommandOpen    = "open"
	CommandClose   = "close"
	CommandUpdate  = "update"
	CommandState   = "state"
	CommandWindows = "windows"
)
