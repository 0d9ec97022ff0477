package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"marquee/internal/command"
)

// QueueHandler translates control requests into commands on the shared
// queue. Every honored request enqueues exactly one command; requests the
// handler answers itself (ping, validation failures) enqueue nothing.
type QueueHandler struct {
	sink   command.Sink
	logger *slog.Logger
}

// NewQueueHandler builds the daemon-side request handler.
func NewQueueHandler(sink command.Sink, logger *slog.Logger) *QueueHandler {
	return &QueueHandler{sink: sink, logger: logger}
}

// Handle dispatches one request. Response-carrying commands block the
// connection goroutine until the UI loop answers; the loop itself is never
// blocked by a slow client.
func (h *QueueHandler) Handle(ctx context.Context, req Request) Response {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	h.logger.Info("control request", "request_id", id, "command", req.Command, "args", req.Args)

	switch req.Command {
	case CommandPing:
		return Response{OK: true, Payload: "pong"}

	case CommandReload:
		return h.roundTrip(ctx, func(resp chan command.Response) command.Command {
			return command.ReloadConfigAndCss{Resp: resp}
		})

	case CommandKill:
		if err := h.sink.Send(command.KillServer{}); err != nil {
			return Response{OK: false, Error: fmt.Sprintf("queue kill command: %v", err)}
		}
		return Response{OK: true, Payload: "killing server"}

	case CommandOpen:
		name, err := oneArg(req, "window name")
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return h.fireAndForget(command.OpenWindow{Name: name})

	case CommandClose:
		name, err := oneArg(req, "window name")
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return h.fireAndForget(command.CloseWindow{Name: name})

	case CommandUpdate:
		assignment, err := oneArg(req, "NAME=VALUE assignment")
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		name, value, found := strings.Cut(assignment, "=")
		if !found || name == "" {
			return Response{OK: false, Error: fmt.Sprintf("malformed assignment %q, expected NAME=VALUE", assignment)}
		}
		return h.fireAndForget(command.UpdateVar{Name: name, Value: value})

	case CommandState:
		return h.roundTrip(ctx, func(resp chan command.Response) command.Command {
			return command.PrintState{Resp: resp}
		})

	case CommandWindows:
		return h.roundTrip(ctx, func(resp chan command.Response) command.Command {
			return command.PrintWindows{Resp: resp}
		})

	default:
		return Response{OK: false, Error: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

func (h *QueueHandler) fireAndForget(cmd command.Command) Response {
	if err := h.sink.Send(cmd); err != nil {
		return Response{OK: false, Error: fmt.Sprintf("queue command: %v", err)}
	}
	return Response{OK: true}
}

func (h *QueueHandler) roundTrip(ctx context.Context, build func(chan command.Response) command.Command) Response {
	resp := command.NewResponseChannel()
	if err := h.sink.Send(build(resp)); err != nil {
		return Response{OK: false, Error: fmt.Sprintf("queue command: %v", err)}
	}

	select {
	case r := <-resp:
		if r.OK() {
			return Response{OK: true, Payload: r.Payload}
		}
		return Response{OK: false, Error: r.Err}
	case <-ctx.Done():
		return Response{OK: false, Error: "daemon shutting down before command completed"}
	}
}

func oneArg(req Request, what string) (string, error) {
	if len(req.Args) != 1 || strings.TrimSpace(req.Args[0]) == "" {
		return "", fmt.Errorf("command %q requires exactly one %s", req.Command, what)
	}
	return req.Args[0], nil
}
