package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	gws "github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

const (
	DefaultSampleRate     = 16000
	DefaultTokenExpiresIn = 3600
)

// RealtimeToken requests a temporary token for a browser or relay to open a
// realtime session without the API key.
func (c *Client) RealtimeToken(ctx context.Context, expiresIn int) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	if expiresIn <= 0 {
		expiresIn = DefaultTokenExpiresIn
	}

	body, err := json.Marshal(map[string]int{"expires_in": expiresIn})
	if err != nil {
		return "", errors.Wrap(err, "encode token request")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/realtime/token", nil, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, failure, err := c.do(req)
	if err != nil {
		return "", errors.Wrap(err, "create realtime token")
	}
	if failure != nil {
		return "", &TokenFailedError{ResponseError: *failure}
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	return out.Token, nil
}

type realtimeMessage struct {
	MessageType string  `json:"message_type"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	Error       string  `json:"error"`
}

// RealtimeSession is a live transcription stream. Audio goes in through
// SendAudio, partial and final texts come out of Transcripts.
type RealtimeSession struct {
	conn        *gws.Conn
	transcripts chan types.RealtimeTranscript
	done        chan struct{}
	writeMu     sync.Mutex
	closeOnce   sync.Once
}

// DialRealtime opens a realtime session authenticated by token.
func (c *Client) DialRealtime(ctx context.Context, token string, sampleRate int) (*RealtimeSession, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	endpoint, err := url.Parse(c.realtimeURL)
	if err != nil {
		return nil, &ConfigurationError{Setting: "realtime URL", Reason: err.Error()}
	}
	query := endpoint.Query()
	query.Set("sample_rate", strconv.Itoa(sampleRate))
	query.Set("token", token)
	endpoint.RawQuery = query.Encode()

	conn, _, err := gws.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial realtime session")
	}
	log.Info("✅ Connected to realtime transcription")

	session := &RealtimeSession{
		conn:        conn,
		transcripts: make(chan types.RealtimeTranscript, 16),
		done:        make(chan struct{}),
	}
	go session.listen()
	return session, nil
}

// Transcripts is closed when the provider ends the session or the
// connection drops.
func (s *RealtimeSession) Transcripts() <-chan types.RealtimeTranscript {
	return s.transcripts
}

// SendAudio forwards one frame of raw PCM audio.
func (s *RealtimeSession) SendAudio(frame []byte) error {
	if len(frame) == 0 {
		return nil
	}
	return s.writeJSON(map[string]string{
		"audio_data": base64.StdEncoding.EncodeToString(frame),
	})
}

// Close asks the provider to end the session and closes the connection.
func (s *RealtimeSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if werr := s.writeJSON(map[string]bool{"terminate_session": true}); werr != nil {
			log.Warnf("realtime terminate: %v", werr)
		}
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, "Closing connection"))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func (s *RealtimeSession) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *RealtimeSession) listen() {
	defer close(s.transcripts)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if !gws.IsCloseError(err, gws.CloseNormalClosure, gws.CloseGoingAway) {
				log.Debugf("realtime read: %v", err)
			}
			return
		}

		var msg realtimeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warnf("realtime parse: %v", err)
			continue
		}

		switch msg.MessageType {
		case "PartialTranscript", "FinalTranscript":
			if msg.Text == "" {
				continue
			}
			select {
			case s.transcripts <- types.RealtimeTranscript{
				Text:       msg.Text,
				Confidence: msg.Confidence,
				Final:      msg.MessageType == "FinalTranscript",
			}:
			case <-s.done:
				return
			}
		case "SessionTerminated":
			return
		case "SessionBegins":
			log.Debug("realtime session started")
		default:
			if msg.Error != "" {
				log.Errorf("realtime error: %s", msg.Error)
				return
			}
		}
	}
}
