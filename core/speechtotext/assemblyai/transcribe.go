package assemblyai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lucasolinas/agents/core/speechtotext"
)

const streamingURL = "wss://streaming.assemblyai.com/v3/ws"

// Transcribe opens the realtime session and starts the read loop.
// Recognized turns flow back through the callbacks until ctx is cancelled
// or the client is closed. A lost connection is redialed per the retry
// policy; when it is exhausted the error callback fires once and the
// stream stays down.
func (c *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{
		SampleRate: 16000,
		Encoding:   "pcm_s16le",
	}
	for _, opt := range opts {
		opt(options)
	}

	conn, err := c.connectWebsocket(*options)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	go c.readAndProcessMessages(ctx, conn, *options)
	return nil
}

func (c *TranscriptionClient) connectWebsocket(options speechtotext.TranscriptionOptions) (*websocket.Conn, error) {
	streamURL, _ := url.Parse(streamingURL)
	queryParams := streamURL.Query()
	queryParams.Set("sample_rate", strconv.Itoa(options.SampleRate))
	queryParams.Set("encoding", options.Encoding)
	queryParams.Set("format_turns", "true")
	if c.endOfTurnConfidence > 0 {
		queryParams.Set("end_of_turn_confidence_threshold",
			strconv.FormatFloat(c.endOfTurnConfidence, 'f', -1, 64))
	}
	streamURL.RawQuery = queryParams.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL.String(),
		http.Header{"Authorization": {c.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to assemblyai: %w", err)
	}
	return conn, nil
}

func (c *TranscriptionClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("assemblyai connection is not open")
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to assemblyai client: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options speechtotext.TranscriptionOptions) {
	// turnOpen tracks whether speech-started fired for the current turn.
	turnOpen := false

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			if ctx.Err() != nil || c.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.clearConn(conn)
				return
			}

			log.Println("Lost assemblyai websocket connection", "error", err)
			conn = c.reconnect(ctx, options)
			if conn == nil {
				return
			}
			turnOpen = false
			continue
		}
		c.processMessage(msg, options, &turnOpen)
	}
}

// reconnect redials until a connection is reestablished or the retry
// policy gives up, in which case the error callback fires and nil is
// returned.
func (c *TranscriptionClient) reconnect(ctx context.Context, options speechtotext.TranscriptionOptions) *websocket.Conn {
	delay := c.retry.BaseDelay
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		wait := delay
		if c.retry.Jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(c.retry.Jitter)))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
		if c.isClosed() {
			return nil
		}

		conn, err := c.connectWebsocket(options)
		if err == nil {
			c.connMu.Lock()
			c.conn = conn
			c.connMu.Unlock()
			return conn
		}
		log.Println("Failed to reconnect to assemblyai", "attempt", attempt, "error", err)

		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}

	c.connMu.Lock()
	c.conn = nil
	c.connMu.Unlock()
	if options.ErrorCallback != nil {
		options.ErrorCallback(fmt.Errorf("assemblyai connection lost after %d reconnect attempts", c.retry.MaxAttempts))
	}
	return nil
}

func (c *TranscriptionClient) processMessage(msg []byte, options speechtotext.TranscriptionOptions, turnOpen *bool) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal assemblyai message", "error", err)
		return
	}

	switch parsedMsg.Type {
	case messageTypeTurn:
		var turn turnMessage
		if err := json.Unmarshal(msg, &turn); err != nil {
			log.Println("Failed to unmarshal assemblyai turn", "error", err)
			return
		}
		c.processTurn(turn, options, turnOpen)

	case messageTypeBegin:
		var begin beginMessage
		if err := json.Unmarshal(msg, &begin); err != nil {
			log.Println("Failed to unmarshal assemblyai session begin", "error", err)
			return
		}

	case messageTypeTermination:
		var termination terminationMessage
		if err := json.Unmarshal(msg, &termination); err != nil {
			log.Println("Failed to unmarshal assemblyai session termination", "error", err)
			return
		}
		log.Println("Assemblyai session terminated",
			"audio_duration_s", termination.AudioDurationSeconds,
			"session_duration_s", termination.SessionDurationSeconds)
	}
}

func (c *TranscriptionClient) processTurn(turn turnMessage, options speechtotext.TranscriptionOptions, turnOpen *bool) {
	if turn.Transcript == "" && !turn.EndOfTurn {
		return
	}

	if !*turnOpen && turn.Transcript != "" {
		*turnOpen = true
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}
	}

	// With formatting on, the end of a turn arrives twice: once raw and
	// once formatted. Only the formatted snapshot is final.
	if turn.EndOfTurn && turn.TurnIsFormatted {
		*turnOpen = false
		if turn.Transcript != "" && options.TranscriptionCallback != nil {
			options.TranscriptionCallback(speechtotext.Transcript{Text: turn.Transcript})
		}
		if options.SpeechEndedCallback != nil {
			options.SpeechEndedCallback()
		}
		if options.EndOfUtteranceCallback != nil {
			options.EndOfUtteranceCallback()
		}
		return
	}

	if options.InterimTranscriptionCallback != nil && turn.Transcript != "" {
		options.InterimTranscriptionCallback(speechtotext.Transcript{Text: turn.Transcript})
	}
}

func (c *TranscriptionClient) isClosed() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.closed
}

func (c *TranscriptionClient) clearConn(conn *websocket.Conn) {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == conn {
		c.conn = nil
	}
}
