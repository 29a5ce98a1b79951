package assemblyai

const (
	messageTypeBegin       = "Begin"
	messageTypeTurn        = "Turn"
	messageTypeTermination = "Termination"
	messageTypeTerminate   = "Terminate"
)

type beginMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ExpiresAt int64  `json:"expires_at"`
}

// turnMessage is one transcript snapshot of the current turn. The service
// sends a snapshot per update; the one with EndOfTurn set (and, when
// formatting is on, TurnIsFormatted) is the turn's final transcript.
type turnMessage struct {
	Type                string  `json:"type"`
	TurnOrder           int     `json:"turn_order"`
	Transcript          string  `json:"transcript"`
	EndOfTurn           bool    `json:"end_of_turn"`
	TurnIsFormatted     bool    `json:"turn_is_formatted"`
	EndOfTurnConfidence float64 `json:"end_of_turn_confidence"`
	Words               []word  `json:"words"`
}

type word struct {
	Text        string  `json:"text"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Confidence  float64 `json:"confidence"`
	WordIsFinal bool    `json:"word_is_final"`
}

type terminationMessage struct {
	Type                   string  `json:"type"`
	AudioDurationSeconds   float64 `json:"audio_duration_seconds"`
	SessionDurationSeconds float64 `json:"session_duration_seconds"`
}

type terminateMessage struct {
	Type string `json:"type"`
}
