package dto

// RunCounters accumulates verdicts of one scan. Failed images are never
// part of Scored, and Detected never exceeds Scored.
type RunCounters struct {
	Scored       int `json:"scored"`
	Detected     int `json:"detected"`
	DecodeFailed int `json:"decode_failed"`
	ScoreFailed  int `json:"score_failed"`
}

func (c *RunCounters) Add(v Verdict) {
	switch {
	case v.Scored():
		c.Scored++
		if v.Detected {
			c.Detected++
		}
	case v.DecodeFailed:
		c.DecodeFailed++
	default:
		c.ScoreFailed++
	}
}

// CountVerdicts reduces a verdict sequence into counters.
func CountVerdicts(verdicts []Verdict) RunCounters {
	var c RunCounters
	for _, v := range verdicts {
		c.Add(v)
	}
	return c
}
