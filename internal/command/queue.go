package command

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Sink.Send after the consumer shut down.
var ErrQueueClosed = errors.New("command queue is closed")

// Queue is an unbounded multi-producer/single-consumer channel of commands.
// Producers never block: a pump goroutine moves commands into an internal
// backlog and hands them to the consumer in arrival order, so FIFO holds per
// producer while ordering across producers follows arrival interleaving.
type Queue struct {
	in        chan Command
	out       chan Command
	closed    chan struct{}
	closeOnce sync.Once
}

// NewQueue starts an empty queue and its pump goroutine.
func NewQueue() *Queue {
	q := &Queue{
		in:     make(chan Command),
		out:    make(chan Command),
		closed: make(chan struct{}),
	}
	go q.pump()
	return q
}

func (q *Queue) pump() {
	defer close(q.out)

	var backlog []Command
	for {
		var out chan Command
		var next Command
		if len(backlog) > 0 {
			out = q.out
			next = backlog[0]
		}

		select {
		case <-q.closed:
			// Commands still in the backlog are dropped; close only
			// happens once the consumer has stopped applying them.
			return
		case cmd := <-q.in:
			backlog = append(backlog, cmd)
		case out <- next:
			backlog = backlog[1:]
		}
	}
}

// Receive exposes the consumer end. The UI loop exclusively owns it; the
// channel closes after Close.
func (q *Queue) Receive() <-chan Command {
	return q.out
}

// Sink returns a cloned producer handle.
func (q *Queue) Sink() Sink {
	return Sink{q: q}
}

// Close stops the pump. Sends racing with Close may be dropped, never
// delivered twice.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}

// Sink is a producer handle onto a queue. Copies share the same queue.
type Sink struct {
	q *Queue
}

// Send enqueues one command. It never blocks on a slow consumer and reports
// ErrQueueClosed once the consumer has shut down.
func (s Sink) Send(cmd Command) error {
	if s.q == nil {
		return ErrQueueClosed
	}
	select {
	case <-s.q.closed:
		return ErrQueueClosed
	case s.q.in <- cmd:
		return nil
	}
}
