package server

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/mrsingh-rishi/transcript-studio/output"
	"github.com/mrsingh-rishi/transcript-studio/types"
	"github.com/mrsingh-rishi/transcript-studio/workers"
)

// handleTranscribeSocket reads one binary message holding the media, then
// streams progress events followed by a result or error event.
func (s *Server) handleTranscribeSocket(ws *websocket.Conn) {
	mt, data, err := ws.ReadMessage()
	if err != nil {
		log.Warnw("transcribe socket read failed", "error", err)
		ws.Close()
		return
	}
	if mt != websocket.BinaryMessage {
		_ = ws.WriteJSON(output.Event{Type: output.EventError, Message: "expected a binary message with the media file"})
		ws.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Any further read only returns when the client goes away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()
	defer func() {
		ws.Close()
		<-readerDone
	}()

	events := make(chan output.Event, 16)
	out, err := output.NewSocketOutput(ws, events)
	if err != nil {
		log.Errorw("transcribe socket output", "error", err)
		return
	}
	out.Start()
	defer out.Stop()

	send := func(e output.Event) {
		select {
		case events <- e:
		case <-out.Done():
		case <-ctx.Done():
		}
	}

	transcript, err := s.deps.Transcriber.Transcribe(ctx, types.MediaPayload{
		Data:     data,
		Filename: ws.Query("filename"),
	}, func(percent float64) {
		send(output.Event{Type: output.EventProgress, Progress: percent})
	})
	if err != nil {
		send(output.Event{Type: output.EventError, Message: err.Error()})
	} else {
		baseURL, _ := ws.Locals("baseURL").(string)
		send(output.Event{Type: output.EventResult, Transcript: transcript, BaseURL: baseURL})
	}
	close(events)
	<-out.Done()
}

// handleRealtimeSocket relays binary audio frames to a provider session and
// pushes final transcripts back until either side hangs up.
func (s *Server) handleRealtimeSocket(ws *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := s.deps.Realtime(ctx)
	if err != nil {
		log.Errorw("realtime session failed", "error", err)
		_ = ws.WriteJSON(output.Event{Type: output.EventError, Message: err.Error()})
		ws.Close()
		return
	}

	events := make(chan output.Event, 16)
	worker, err := workers.NewTranscriptionWorker(stream.Transcripts(), events)
	if err != nil {
		stream.Close()
		ws.Close()
		return
	}
	out, err := output.NewSocketOutput(ws, events)
	if err != nil {
		stream.Close()
		ws.Close()
		return
	}
	worker.Start()
	out.Start()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		<-worker.Done()
		close(events)
		<-out.Done()
		// Closes the client socket; also unblocks the read loop when the
		// provider ends first.
		ws.Close()
	}()

	for {
		mt, frame, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if err := stream.SendAudio(frame); err != nil {
			log.Warnw("realtime forward failed", "error", err)
			break
		}
	}

	if err := stream.Close(); err != nil {
		log.Debugw("realtime close", "error", err)
	}
	select {
	case <-out.Done():
		worker.Stop()
	default:
	}
	<-finished

	segments := worker.Segments()
	log.Infow("realtime session ended", "segments", len(segments), "text", strings.Join(segments, " "))
}
