package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// reviewClient is the slice of Client the advisor depends on
type reviewClient interface {
	Review(ctx context.Context, report *models.ScanReport) (*ReviewResult, error)
	GetModel() string
}

// Advisor turns one scan report into per-path deletion advice
type Advisor struct {
	client reviewClient
	logger *zap.Logger
}

// NewAdvisor creates an advisor from config
func NewAdvisor(cfg *config.AIConfig, logger *zap.Logger) (*Advisor, error) {
	client, err := NewClient(cfg.Model, cfg.APIToken, cfg.MaxFindings, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Advisor{
		client: client,
		logger: logger,
	}, nil
}

// Review requests verdicts for the report's deletion candidates and
// aggregates them with verdict counts. A report without candidates
// returns empty advice and never touches the API.
func (a *Advisor) Review(ctx context.Context, report *models.ScanReport) (*Advice, error) {
	advice := &Advice{
		Model:     a.client.GetModel(),
		StartTime: time.Now(),
	}

	candidates := report.CountByReason(models.ReasonEmptyFile) +
		report.CountByReason(models.ReasonEmptyDir) +
		len(report.Duplicates)
	if candidates == 0 {
		advice.EndTime = advice.StartTime
		return advice, nil
	}

	a.logger.Info("Requesting deletion advice",
		zap.String("model", advice.Model),
		zap.Int("candidates", candidates))

	result, err := a.client.Review(ctx, report)
	if err != nil {
		return nil, err
	}

	advice.Recommendations = result.Recommendations
	advice.Reviewed = result.Included
	advice.Skipped = result.Skipped
	advice.TokensUsed = result.TokensUsed
	advice.EndTime = time.Now()
	advice.Duration = advice.EndTime.Sub(advice.StartTime)

	for _, rec := range result.Recommendations {
		switch rec.Verdict {
		case VerdictSafeDelete:
			advice.SafeDeleteCount++
		case VerdictReviewFirst:
			advice.ReviewFirstCount++
		case VerdictKeep:
			advice.KeepCount++
		default:
			advice.UnknownCount++
		}
	}

	a.logger.Info("Deletion advice received",
		zap.Int("recommendations", len(advice.Recommendations)),
		zap.Int("safe_delete", advice.SafeDeleteCount),
		zap.Int("review_first", advice.ReviewFirstCount),
		zap.Int("keep", advice.KeepCount),
		zap.Int("tokens_used", advice.TokensUsed))

	return advice, nil
}
