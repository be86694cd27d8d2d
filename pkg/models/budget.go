package models

import "time"

// Budget holds the mutable counters threaded through one traversal. A
// single instance is shared by pointer across all recursive calls of one
// scan; it is never reused for another scan.
type Budget struct {
	Start      time.Time     // captured once at scan start
	Processed  int           // entries visited so far, never decreases
	MaxElapsed time.Duration // wall-clock ceiling
	MaxDepth   int           // directory depth ceiling
	MaxFiles   int           // entry-count ceiling
}

// NewBudget starts a fresh budget for one scan
func NewBudget(maxDepth, maxFiles int, maxElapsed time.Duration) *Budget {
	return &Budget{
		Start:      time.Now(),
		MaxElapsed: maxElapsed,
		MaxDepth:   maxDepth,
		MaxFiles:   maxFiles,
	}
}

// TimeExceeded reports whether the wall-clock ceiling has passed
func (b *Budget) TimeExceeded() bool {
	return time.Since(b.Start) > b.MaxElapsed
}

// FilesExhausted reports whether the entry-count ceiling has been reached
func (b *Budget) FilesExhausted() bool {
	return b.Processed >= b.MaxFiles
}

// Note counts one processed directory entry
func (b *Budget) Note() {
	b.Processed++
}
