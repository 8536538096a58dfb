package workers

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/output"
	"github.com/mrsingh-rishi/transcript-studio/queue"
	"github.com/mrsingh-rishi/transcript-studio/types"
)

// TranscriptionWorker turns realtime provider results into client events.
// Final segments are forwarded and kept so the full text can be read back
// when the session ends; partials are only logged.
type TranscriptionWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	input    <-chan types.RealtimeTranscript
	output   chan<- output.Event
	segments *queue.Queue[string]
	done     chan struct{}
}

func NewTranscriptionWorker(input <-chan types.RealtimeTranscript, out chan<- output.Event) (*TranscriptionWorker, error) {
	if input == nil {
		return nil, errors.New("transcription input channel is required")
	}
	if out == nil {
		return nil, errors.New("transcription output channel is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TranscriptionWorker{
		ctx:      ctx,
		cancel:   cancel,
		input:    input,
		output:   out,
		segments: queue.New[string](),
		done:     make(chan struct{}),
	}, nil
}

func (tw *TranscriptionWorker) Start() {
	go func() {
		defer close(tw.done)
		for {
			select {
			case <-tw.ctx.Done():
				return
			case transcript, ok := <-tw.input:
				if !ok {
					return
				}
				if !transcript.Final {
					log.Debugw("partial transcript", "text", transcript.Text, "confidence", transcript.Confidence)
					continue
				}
				log.Infow("final transcript", "text", transcript.Text, "confidence", transcript.Confidence)
				tw.segments.Enqueue(transcript.Text)
				select {
				case tw.output <- output.Event{Type: output.EventTranscript, Text: transcript.Text, Final: true}:
				case <-tw.ctx.Done():
					return
				}
			}
		}
	}()
}

// Done is closed once the worker goroutine has exited.
func (tw *TranscriptionWorker) Done() <-chan struct{} {
	return tw.done
}

// Segments removes and returns the final segments received so far.
func (tw *TranscriptionWorker) Segments() []string {
	return tw.segments.Drain()
}

func (tw *TranscriptionWorker) Stop() {
	tw.cancel()
}
