package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/pkg/models"
	"go.uber.org/zap"
)

// Recorder receives (identity, path) observations for duplicate grouping
type Recorder interface {
	Insert(identity, path string)
}

// Walker performs the bounded depth-first traversal. It owns no scan
// state of its own: the budget travels through the recursion and the
// observations go to the recorder, so one walker can serve many scans.
type Walker struct {
	config   *config.Config
	hasher   Hasher
	recorder Recorder
	logger   *zap.Logger
}

// NewWalker creates a new filesystem walker
func NewWalker(cfg *config.Config, hasher Hasher, recorder Recorder, logger *zap.Logger) *Walker {
	return &Walker{
		config:   cfg,
		hasher:   hasher,
		recorder: recorder,
		logger:   logger,
	}
}

// Walk visits path and everything below it, depth-first and pre-order,
// within the given budget. The returned error is terminal for the whole
// scan; every recoverable failure becomes a finding instead.
func (w *Walker) Walk(path string, depth int, budget *models.Budget) ([]models.Finding, error) {
	if w.shouldExclude(path) {
		w.logger.Debug("Skipping excluded path", zap.String("path", path))
		return nil, nil
	}

	if budget.TimeExceeded() {
		return []models.Finding{{Path: path, Reason: models.ReasonTimeLimit}}, nil
	}

	if budget.FilesExhausted() {
		return []models.Finding{{Path: path, Reason: models.ReasonMaxFiles}}, nil
	}

	if depth > budget.MaxDepth {
		return []models.Finding{{Path: path, Reason: models.ReasonMaxDepth}}, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("directory does not exist: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		w.logger.Debug("Failed to list directory", zap.String("path", path), zap.Error(err))
		return []models.Finding{models.ErrorFinding(path, err)}, nil
	}

	if len(entries) == 0 {
		return []models.Finding{{Path: path, Reason: models.ReasonEmptyDir}}, nil
	}

	var findings []models.Finding

	total := len(entries)
	if total > config.MaxDirEntries {
		findings = append(findings, models.LimitedScan(path, config.MaxDirEntries, total))
		entries = entries[:config.MaxDirEntries]
	}

	for _, entry := range entries {
		budget.Note()
		entryPath := filepath.Join(path, entry.Name())

		info, err := os.Stat(entryPath)
		switch {
		case err != nil:
			findings = append(findings, models.ErrorFinding(entryPath, err))
		case info.IsDir():
			sub, err := w.Walk(entryPath, depth+1, budget)
			if err != nil {
				return findings, err
			}
			findings = append(findings, sub...)
		default:
			findings = append(findings, w.visitFile(entryPath, info)...)
		}

		// Budgets are re-checked after every entry. Subtrees already
		// descended into keep their findings; the rest of this
		// directory is abandoned.
		if budget.TimeExceeded() {
			findings = append(findings, models.Finding{Path: path, Reason: models.ReasonTimeLimitMid})
			break
		}
		if budget.FilesExhausted() {
			findings = append(findings, models.Finding{Path: path, Reason: models.ReasonMaxFilesMid})
			break
		}
	}

	return findings, nil
}

// visitFile emits findings for one file entry and records its content
// identity for duplicate grouping. Zero-size files still take part in
// grouping: their shared digest is what makes two empty files duplicates.
func (w *Walker) visitFile(path string, info os.FileInfo) []models.Finding {
	var findings []models.Finding

	if info.Size() == 0 {
		findings = append(findings, models.Finding{Path: path, Reason: models.ReasonEmptyFile})
	}

	if w.config.ShouldHash(GetExtension(path)) {
		identity, ok, err := w.hasher.Identify(path)
		if err != nil {
			findings = append(findings, models.ErrorFinding(path, err))
		} else if ok {
			w.recorder.Insert(identity, path)
		}
	}

	return findings
}

// shouldExclude checks if the path carries an exclusion marker. This is a
// substring test on the full path, not a component-exact match: a marker
// hiding inside a longer name anywhere on the path also matches.
func (w *Walker) shouldExclude(path string) bool {
	for _, marker := range w.config.Exclude {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// GetExtension returns the file extension without dot
func GetExtension(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
