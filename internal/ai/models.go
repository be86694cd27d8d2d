package ai

import "time"

// Verdict classifies how risky deleting one flagged path would be
type Verdict string

const (
	VerdictSafeDelete  Verdict = "safe_delete"
	VerdictReviewFirst Verdict = "review_first"
	VerdictKeep        Verdict = "keep"
	VerdictUnknown     Verdict = "unknown"
)

// Recommendation is the advisor's judgement on one flagged path
type Recommendation struct {
	Path       string  `json:"path"`
	Verdict    Verdict `json:"verdict"`
	Confidence int     `json:"confidence"` // 0-100
	Note       string  `json:"note,omitempty"`
}

// ReviewResult carries the parsed output of one API round trip
type ReviewResult struct {
	Recommendations []*Recommendation
	TokensUsed      int
	Included        int // candidates that fit the request
	Skipped         int // candidates cut by the per-request cap
}

// Advice aggregates one review pass over a scan report
type Advice struct {
	Model      string        `json:"model"`
	Reviewed   int           `json:"reviewed"`
	Skipped    int           `json:"skipped,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	TokensUsed int           `json:"tokens_used"`

	Recommendations []*Recommendation `json:"recommendations"`

	// Verdict statistics
	SafeDeleteCount  int `json:"safe_delete_count"`
	ReviewFirstCount int `json:"review_first_count"`
	KeepCount        int `json:"keep_count"`
	UnknownCount     int `json:"unknown_count"`
}

// GetRecommendation returns the recommendation for a specific path
func (a *Advice) GetRecommendation(path string) *Recommendation {
	for _, rec := range a.Recommendations {
		if rec.Path == path {
			return rec
		}
	}
	return nil
}
