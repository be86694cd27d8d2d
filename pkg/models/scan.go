package models

import (
	"fmt"
	"time"
)

// ScanRequest is the immutable input for one scan
type ScanRequest struct {
	Root     string `json:"root"`      // directory to scan
	MaxDepth int    `json:"max_depth"` // requested depth ceiling, clamped by the orchestrator
	MaxFiles int    `json:"max_files"` // requested entry ceiling, clamped by the orchestrator
}

// DuplicateRelation links one duplicate file to the first-seen copy of its
// content
type DuplicateRelation struct {
	Path     string `json:"path"`     // the duplicate
	Original string `json:"original"` // first path observed with the same identity
	Identity string `json:"identity"` // shared content digest
}

// String renders the relation in wire format
func (d DuplicateRelation) String() string {
	return fmt.Sprintf("%s (duplicate of %s)", d.Path, d.Original)
}

// ScanReport contains the complete results of one scan
type ScanReport struct {
	// Summary
	ScanID    string        `json:"scan_id"`
	Root      string        `json:"root"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Processed int           `json:"processed"` // directory entries visited
	Version   string        `json:"version"`

	// Results
	Findings   []Finding           `json:"findings"`
	Duplicates []DuplicateRelation `json:"duplicates"`

	// Truncated is set when any budget cut the traversal short and
	// the results cover only part of the tree.
	Truncated bool `json:"truncated"`
}

// AddFinding appends a finding and keeps the truncation flag current
func (r *ScanReport) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Reason.IsBudget() {
		r.Truncated = true
	}
}

// CountByReason returns the number of findings carrying the given reason
func (r *ScanReport) CountByReason(reason Reason) int {
	count := 0
	for _, f := range r.Findings {
		if f.Reason == reason {
			count++
		}
	}
	return count
}
