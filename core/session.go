package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lucasolinas/agents/core/events"
	"github.com/lucasolinas/agents/core/interruptions"
	"github.com/lucasolinas/agents/core/llms"
	"github.com/lucasolinas/agents/core/speechtotext"
)

// AgentSession is the single authority over one spoken conversation
// between a user and an agent: it owns user and agent state, the active
// speech handle, the pending-turn queue, the interruption policy and tool
// execution, and publishes every state transition on its event bus.
//
// U is caller-supplied userdata threaded through to RunContext.
type AgentSession[U any] struct {
	userdata U
	config   sessionConfig

	bus *eventBus

	speechToText speechToText
	generation   generation
	textToSpeech textToSpeech

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu         sync.Mutex
	started    bool
	closing    bool
	closed     bool
	userState  events.UserState
	agentState events.AgentState
	history    []llms.ConversationItem
	active     *activeSpeech
	pending    []*speechRequest
	lastCutOff *interruptedSpeech
	awayTimer  *time.Timer

	tasks     sync.WaitGroup
	closeOnce sync.Once
}

// activeSpeech tracks the turn currently being produced. content is the
// text spoken so far, kept for the false-interruption diagnostic.
type activeSpeech struct {
	handle       *SpeechHandle
	source       events.SpeechSource
	instructions string
	content      string
	cancel       context.CancelFunc
}

// interruptedSpeech is what an interruption destroyed: the partial message
// and the instructions the reply was requested with.
type interruptedSpeech struct {
	message      *llms.ConversationItem
	instructions string
}

type speechRequest struct {
	handle       *SpeechHandle
	source       events.SpeechSource
	instructions string
	run          func(ctx context.Context, handle *SpeechHandle)
}

// NewAgentSession creates a session around the given userdata. The session
// stays in the initializing state until Start.
func NewAgentSession[U any](userdata U, opts ...SessionOption) *AgentSession[U] {
	config := defaultSessionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	s := &AgentSession[U]{
		userdata:   userdata,
		config:     config,
		bus:        newEventBus(),
		userState:  events.UserStateListening,
		agentState: events.AgentStateInitializing,
	}
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())
	s.speechToText = speechToText{client: config.stt}
	s.generation = generation{client: config.llm}
	s.textToSpeech = textToSpeech{
		client:       config.tts,
		extraOptions: config.synthesisOptions,
		onAudioFrame: config.audioFrameCallback,
	}

	if config.callbacks.configured() {
		ch, _ := s.bus.subscribe()
		go func() {
			for event := range ch {
				config.callbacks.dispatch(event)
			}
		}()
	}
	return s
}

// Subscribe returns a channel delivering every session event in emission
// order, and a cancel function releasing the subscription.
func (s *AgentSession[U]) Subscribe() (<-chan events.Event, func()) {
	return s.bus.subscribe()
}

func (s *AgentSession[U]) Userdata() U {
	return s.userdata
}

func (s *AgentSession[U]) UserState() events.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userState
}

func (s *AgentSession[U]) AgentState() events.AgentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentState
}

// CurrentSpeech returns the active speech handle, nil when the agent is
// not producing a turn.
func (s *AgentSession[U]) CurrentSpeech() *SpeechHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active.handle
}

// History returns a snapshot of the conversation so far.
func (s *AgentSession[U]) History() []llms.ConversationItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historySnapshotLocked()
}

// Start connects the recognition stream and moves the agent out of
// initializing. Cancelling ctx closes the session with reason
// job_shutdown. Call Start at most once.
func (s *AgentSession[U]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session already started: %w", ErrInvalidState)
	}
	s.started = true
	s.mu.Unlock()

	if err := s.speechToText.start(s.baseCtx, speechToTextCallbacks{
		onSpeechStarted:  func() { s.updateUserState(events.UserStateSpeaking) },
		onSpeechEnded:    func() { s.updateUserState(events.UserStateListening) },
		onEndOfUtterance: func() { s.updateUserState(events.UserStateListening) },
		onInterimTranscription: func(t speechtotext.Transcript) {
			s.emit(events.NewUserInputTranscribed(t.Text, false, t.SpeakerID))
		},
		onTranscription: func(t speechtotext.Transcript) { s.onFinalTranscript(t) },
		onFatalError: func(err error) {
			s.emit(events.NewError(err, s.speechToText.client))
			s.close(err, events.CloseReasonError)
		},
	}); err != nil {
		s.emit(events.NewError(fmt.Errorf("failed to start recognition: %w", err), s.speechToText.client))
	}

	s.mu.Lock()
	if s.speechToText.configured() {
		s.updateAgentStateLocked(events.AgentStateListening)
	} else {
		s.updateAgentStateLocked(events.AgentStateIdle)
	}
	s.resetAwayTimerLocked()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.CloseWithReason(events.CloseReasonJobShutdown)
		case <-s.baseCtx.Done():
		}
	}()
	return nil
}

// PushAudio forwards captured user audio to the recognition provider.
func (s *AgentSession[U]) PushAudio(audio []byte) error {
	return s.speechToText.SendAudio(audio)
}

// PushUserTranscript injects a final user transcript directly, bypassing
// recognition. It behaves exactly as if the recognizer had produced it.
func (s *AgentSession[U]) PushUserTranscript(text string) {
	s.onFinalTranscript(speechtotext.Transcript{Text: text})
}

// Interrupt cancels the active speech handle regardless of its
// interruption policy. Explicit interrupts are never candidates for
// false-interruption recovery.
func (s *AgentSession[U]) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.interruptSpeechLocked(s.active, false)
}

// ResolveInterruption feeds an external classification verdict for the
// most recent interruption. A spurious verdict emits
// agent_false_interruption with the content that was cut off.
func (s *AgentSession[U]) ResolveInterruption(class interruptions.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutOff := s.lastCutOff
	s.lastCutOff = nil
	if cutOff == nil || !class.Spurious() {
		return
	}
	s.emitLocked(events.NewAgentFalseInterruption(cutOff.message, cutOff.instructions))
}

// Close terminates the session with reason user_initiated.
func (s *AgentSession[U]) Close() {
	s.CloseWithReason(events.CloseReasonUserInitiated)
}

// CloseWithReason terminates the session: the active handle is
// interrupted, in-flight work is cancelled and drained for a bounded grace
// period, and exactly one close event ends the stream. Further turn
// creation is rejected.
func (s *AgentSession[U]) CloseWithReason(reason events.CloseReason) {
	s.close(nil, reason)
}

func (s *AgentSession[U]) close(err error, reason events.CloseReason) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		s.dropPendingLocked()
		if s.active != nil {
			s.active.handle.Interrupt()
			s.active.cancel()
			s.active = nil
		}
		s.stopAwayTimerLocked()
		s.mu.Unlock()

		s.cancelBase()
		if !waitTimeout(&s.tasks, s.config.drainTimeout) {
			logger.Warn("timed out waiting for in-flight work to stop, releasing resources")
		}
		if closeErr := s.speechToText.close(context.Background()); closeErr != nil {
			logger.Warn("failed to close recognition client", "error", closeErr)
		}

		s.mu.Lock()
		s.bus.publish(events.NewClose(err, reason))
		s.closed = true
		s.mu.Unlock()
		s.bus.close()
	})
}

func (s *AgentSession[U]) emit(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(event)
}

func (s *AgentSession[U]) emitLocked(event events.Event) {
	if s.closed {
		return
	}
	s.bus.publish(event)
}

func (s *AgentSession[U]) updateUserState(newState events.UserState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing || s.userState == newState {
		return
	}
	oldState := s.userState
	s.userState = newState
	s.emitLocked(events.NewUserStateChanged(oldState, newState))

	switch newState {
	case events.UserStateSpeaking:
		s.stopAwayTimerLocked()
		if s.active != nil && s.active.handle.AllowInterruptions() {
			s.interruptSpeechLocked(s.active, true)
		}
	case events.UserStateListening:
		s.resetAwayTimerLocked()
	}
}

func (s *AgentSession[U]) updateAgentState(newState events.AgentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateAgentStateLocked(newState)
}

func (s *AgentSession[U]) updateAgentStateLocked(newState events.AgentState) {
	if s.closing || s.agentState == newState {
		return
	}
	oldState := s.agentState
	s.agentState = newState
	s.emitLocked(events.NewAgentStateChanged(oldState, newState))
}

// interruptSpeechLocked terminates the given active turn. The user state
// change that triggered it and the agent state change it causes are
// emitted in that causal order. recordCandidate keeps the destroyed
// content for false-interruption recovery.
func (s *AgentSession[U]) interruptSpeechLocked(active *activeSpeech, recordCandidate bool) {
	if active.handle.Interrupted() {
		return
	}
	active.handle.Interrupt()
	active.cancel()

	if recordCandidate {
		var message *llms.ConversationItem
		if active.content != "" {
			item := llms.NewAssistantMessage(active.content)
			item.Interrupted = true
			message = &item
		}
		s.lastCutOff = &interruptedSpeech{message: message, instructions: active.instructions}
	}

	if s.active == active {
		s.active = nil
	}
	if s.agentState == events.AgentStateSpeaking || s.agentState == events.AgentStateThinking {
		s.updateAgentStateLocked(events.AgentStateListening)
	}
}

// onFinalTranscript commits a user turn. When an interruption is pending
// classification, the transcript is routed through the classifier first:
// genuine speech becomes a turn, noise only resolves the interruption.
func (s *AgentSession[U]) onFinalTranscript(t speechtotext.Transcript) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.emitLocked(events.NewUserInputTranscribed(t.Text, true, t.SpeakerID))
	pendingCutOff := s.lastCutOff != nil && s.config.classifier != nil
	var history []llms.ConversationItem
	if pendingCutOff {
		history = s.historySnapshotLocked()
	}
	s.mu.Unlock()

	if !pendingCutOff {
		s.commitUserTurn(t.Text)
		return
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		class, err := s.config.classifier.Classify(s.baseCtx, t.Text, history)
		if err != nil {
			logger.Warn("failed to classify interruption, treating it as genuine", "error", err)
			class = ""
		}
		s.ResolveInterruption(class)
		if !class.Spurious() {
			s.commitUserTurn(t.Text)
		}
	}()
}

func (s *AgentSession[U]) commitUserTurn(text string) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.appendHistoryLocked(llms.NewUserMessage(text))
	generate := s.generation.configured()
	s.mu.Unlock()

	if generate {
		if _, err := s.createSpeech(events.SpeechSourceGenerateReply, false, speechOptions{}, s.runGenerate("")); err != nil {
			logger.Warn("failed to create reply speech", "error", err)
		}
	}
}

func (s *AgentSession[U]) appendHistory(item llms.ConversationItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendHistoryLocked(item)
}

func (s *AgentSession[U]) appendHistoryLocked(item llms.ConversationItem) {
	s.history = append(s.history, item)
	event, err := events.NewConversationItemAdded(item)
	if err != nil {
		logger.Warn("dropping conversation item event", "error", err)
		return
	}
	s.emitLocked(event)
}

func (s *AgentSession[U]) historySnapshotLocked() []llms.ConversationItem {
	var history []llms.ConversationItem
	copier.Copy(&history, s.history)
	return history
}

func (s *AgentSession[U]) resetAwayTimerLocked() {
	s.stopAwayTimerLocked()
	if s.config.userAwayTimeout <= 0 || s.closing {
		return
	}
	s.awayTimer = time.AfterFunc(s.config.userAwayTimeout, func() {
		s.updateUserState(events.UserStateAway)
	})
}

func (s *AgentSession[U]) stopAwayTimerLocked() {
	if s.awayTimer != nil {
		s.awayTimer.Stop()
		s.awayTimer = nil
	}
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
