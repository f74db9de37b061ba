package dto

type ScanEventType string

const (
	EventVerdict ScanEventType = "verdict"
	EventOutcome ScanEventType = "outcome"
)

// ScanEvent is pushed to live viewers while a run progresses.
type ScanEvent struct {
	RunID   string        `json:"run_id"`
	Type    ScanEventType `json:"type"`
	Index   int           `json:"index,omitempty"`
	Verdict *Verdict      `json:"verdict,omitempty"`
	Outcome *RunOutcome   `json:"outcome,omitempty"`
}
