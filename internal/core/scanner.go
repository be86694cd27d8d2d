package core

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/internal/dupindex"
	"github.com/deadwood-scan/deadwood/internal/filesystem"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// Version is stamped into every scan report
const Version = "0.1.0"

// Scanner is the scan orchestrator. It is safe for concurrent use:
// every Scan call runs on its own budget and its own duplicate index,
// so parallel scans never observe each other's traversal state.
type Scanner struct {
	config *config.Config
	hasher filesystem.Hasher
	logger *zap.Logger
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config: cfg,
		hasher: filesystem.NewMD5Hasher(),
		logger: logger,
	}
}

// Scan traverses the requested directory within clamped limits and
// collects findings and duplicate relations into a fresh report. The
// returned error means the scan could not run at all; partial results
// always come back as findings instead.
func (s *Scanner) Scan(req models.ScanRequest) (*models.ScanReport, error) {
	maxDepth := clamp(req.MaxDepth, 0, config.MaxDepthCeiling)
	maxFiles := clamp(req.MaxFiles, 1, config.MaxFilesCeiling)

	report := &models.ScanReport{
		ScanID:    uuid.New().String(),
		Root:      req.Root,
		StartTime: time.Now(),
		Version:   Version,
	}

	s.logger.Info("Starting scan",
		zap.String("scan_id", report.ScanID),
		zap.String("root", req.Root),
		zap.Int("max_depth", maxDepth),
		zap.Int("max_files", maxFiles))

	index := dupindex.New()
	walker := filesystem.NewWalker(s.config, s.hasher, index, s.logger)
	budget := models.NewBudget(maxDepth, maxFiles, s.config.MaxScanTime)

	findings, err := walker.Walk(req.Root, 0, budget)
	if err != nil {
		s.logger.Error("Scan failed",
			zap.String("scan_id", report.ScanID),
			zap.String("root", req.Root),
			zap.Error(err))
		return nil, err
	}

	for _, finding := range findings {
		report.AddFinding(finding)
	}
	report.Duplicates = index.Relations(s.config.Extensions)
	report.Processed = budget.Processed
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	s.logger.Info("Scan completed",
		zap.String("scan_id", report.ScanID),
		zap.Duration("duration", report.Duration),
		zap.Int("entries_processed", report.Processed),
		zap.Int("findings", len(report.Findings)),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Bool("truncated", report.Truncated))

	return report, nil
}

// clamp forces v into [lo, hi]
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
