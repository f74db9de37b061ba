package dto

// Verdict is the outcome for one enumerated image of a scan.
type Verdict struct {
	ImagePath    string `json:"image_path"`
	Detected     bool   `json:"detected"`
	DecodeFailed bool   `json:"decode_failed"`
	ScoreFailed  bool   `json:"score_failed,omitempty"`
}

// Scored reports whether the image reached the detector and produced an answer.
func (v Verdict) Scored() bool {
	return !v.DecodeFailed && !v.ScoreFailed
}
