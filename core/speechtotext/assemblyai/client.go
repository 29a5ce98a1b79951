// Package assemblyai streams audio to AssemblyAI's v3 realtime API and
// reports recognized turns through the speechtotext callbacks.
package assemblyai

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// RetryPolicy bounds the reconnect loop after an unexpected connection
// loss. Delays grow exponentially from BaseDelay up to MaxDelay, with up
// to Jitter added per attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      time.Duration
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      250 * time.Millisecond,
	}
}

type TranscriptionClient struct {
	apiKey string
	retry  RetryPolicy

	// endOfTurnConfidence overrides the service's default end-of-turn
	// detection threshold when non-zero.
	endOfTurnConfidence float64

	connMu sync.Mutex
	conn   *websocket.Conn
	closed bool
}

type Option func(*TranscriptionClient)

// WithAPIKey overrides the ASSEMBLYAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(c *TranscriptionClient) { c.apiKey = apiKey }
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *TranscriptionClient) { c.retry = policy }
}

// WithEndOfTurnConfidence sets the confidence threshold above which the
// service ends a turn without waiting for the full silence window.
func WithEndOfTurnConfidence(threshold float64) Option {
	return func(c *TranscriptionClient) { c.endOfTurnConfidence = threshold }
}

func NewTranscriptionClient(opts ...Option) (*TranscriptionClient, error) {
	client := &TranscriptionClient{retry: defaultRetryPolicy()}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, ok := os.LookupEnv("ASSEMBLYAI_API_KEY")
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("assemblyai api key not found")
		}
		client.apiKey = apiKey
	}
	return client, nil
}

// Close terminates the session gracefully: the service is asked to flush
// its buffer, then the connection is dropped. No reconnect follows.
func (c *TranscriptionClient) Close(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.closed = true
	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteJSON(terminateMessage{Type: messageTypeTerminate}); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("failed to terminate assemblyai session: %w", err)
	}
	c.conn.Close()
	c.conn = nil
	return nil
}
