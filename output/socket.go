// Package output writes pipeline events to a connected client.
package output

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// Event types sent to clients.
const (
	EventProgress   = "progress"
	EventResult     = "result"
	EventError      = "error"
	EventTranscript = "transcript"
)

// Event is one JSON message on the client socket.
type Event struct {
	Type       string            `json:"type"`
	Progress   float64           `json:"progress,omitempty"`
	Transcript *types.Transcript `json:"transcript,omitempty"`
	BaseURL    string            `json:"baseUrl,omitempty"`
	Message    string            `json:"message,omitempty"`
	Text       string            `json:"text,omitempty"`
	Final      bool              `json:"final,omitempty"`
}

// JSONWriter is the write side of a websocket connection.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

// SocketOutput drains an event channel onto a connection until the channel
// closes or Stop is called.
type SocketOutput struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   JSONWriter
	events <-chan Event
	done   chan struct{}
}

func NewSocketOutput(conn JSONWriter, events <-chan Event) (*SocketOutput, error) {
	if conn == nil {
		return nil, errors.New("connection is required")
	}
	if events == nil {
		return nil, errors.New("event channel is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SocketOutput{
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		events: events,
		done:   make(chan struct{}),
	}, nil
}

func (o *SocketOutput) Start() {
	go func() {
		defer close(o.done)
		for {
			select {
			case <-o.ctx.Done():
				return
			case event, ok := <-o.events:
				if !ok {
					return
				}
				if err := o.conn.WriteJSON(event); err != nil {
					log.Warnw("socket write failed", "event", event.Type, "error", err)
					return
				}
			}
		}
	}()
}

// Done is closed once the writer goroutine has exited.
func (o *SocketOutput) Done() <-chan struct{} {
	return o.done
}

func (o *SocketOutput) Stop() {
	o.cancel()
}
