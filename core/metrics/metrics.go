// Package metrics defines the measurement payloads carried by
// metrics_collected events. Aggregation and storage live outside the core.
package metrics

import "time"

// AgentMetrics is the closed set of measurement payloads a session emits.
type AgentMetrics interface {
	agentMetrics()
}

// LLMMetrics measures one generation cycle.
type LLMMetrics struct {
	Duration     time.Duration
	TTFT         time.Duration
	InputTokens  int
	OutputTokens int
	ToolCalls    int
}

// STTMetrics measures recognized audio for one utterance.
type STTMetrics struct {
	AudioDuration time.Duration
}

// TTSMetrics measures one synthesis stream.
type TTSMetrics struct {
	Duration      time.Duration
	TTFB          time.Duration
	Characters    int
	AudioDuration time.Duration
}

// EOUMetrics measures end-of-utterance detection latency.
type EOUMetrics struct {
	EndOfUtteranceDelay time.Duration
	TranscriptionDelay  time.Duration
}

func (LLMMetrics) agentMetrics() {}
func (STTMetrics) agentMetrics() {}
func (TTSMetrics) agentMetrics() {}
func (EOUMetrics) agentMetrics() {}
