package models

import "fmt"

// Finding flags a single path together with the reason it was reported
type Finding struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"` // extra text for limited-scan and error findings
}

// Reason classifies why a path was flagged during a scan
type Reason string

const (
	ReasonEmptyFile    Reason = "empty file"
	ReasonEmptyDir     Reason = "empty directory"
	ReasonMaxDepth     Reason = "max depth reached"
	ReasonMaxFiles     Reason = "max files limit reached"
	ReasonTimeLimit    Reason = "execution time limit reached"
	ReasonMaxFilesMid  Reason = "max files limit reached during processing"
	ReasonTimeLimitMid Reason = "execution time limit reached during processing"
	ReasonLimitedScan  Reason = "limited scan"
	ReasonError        Reason = "error"
)

// IsBudget reports whether the reason marks a scan cut short by one of its
// limits rather than a flagged path
func (r Reason) IsBudget() bool {
	switch r {
	case ReasonMaxDepth, ReasonMaxFiles, ReasonTimeLimit, ReasonMaxFilesMid, ReasonTimeLimitMid, ReasonLimitedScan:
		return true
	}
	return false
}

// String renders the finding in wire format
func (f Finding) String() string {
	switch f.Reason {
	case ReasonLimitedScan:
		return fmt.Sprintf("%s (limited scan: %s)", f.Path, f.Detail)
	case ReasonError:
		return fmt.Sprintf("%s (error: %s)", f.Path, f.Detail)
	default:
		return fmt.Sprintf("%s (%s)", f.Path, f.Reason)
	}
}

// LimitedScan builds the advisory emitted when a directory holds more
// entries than the fan-out cap. processed is the number of entries that
// will be visited, total the number the directory actually holds.
func LimitedScan(path string, processed, total int) Finding {
	return Finding{
		Path:   path,
		Reason: ReasonLimitedScan,
		Detail: fmt.Sprintf("%d/%d items", processed, total),
	}
}

// ErrorFinding wraps a recoverable per-entry failure as a finding
func ErrorFinding(path string, err error) Finding {
	return Finding{
		Path:   path,
		Reason: ReasonError,
		Detail: err.Error(),
	}
}
