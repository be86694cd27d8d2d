package ai

import (
	"fmt"
	"strings"

	"github.com/deadwood-scan/deadwood/pkg/models"
)

// AdviceSystemPrompt steers the model toward strict JSON verdicts
const AdviceSystemPrompt = `You are reviewing the output of a file-hygiene scanner. The scanner flags
files and directories that look safe to delete: empty files, empty
directories, and byte-identical duplicate copies. Nothing has been deleted yet.

For every listed path, judge how risky deletion would be from the path, its
name, and the reason it was flagged:
- "safe_delete": almost certainly disposable (scratch files, build leftovers, redundant copies)
- "review_first": plausibly disposable but worth a human look (ambiguous name, config-like location, duplicates that may be intentional copies)
- "keep": flagged but likely load-bearing (placeholder files some tools require, marker files, lock files)

Be conservative: when unsure, prefer "review_first" over "safe_delete".

OUTPUT: Valid JSON only, no markdown formatting.
{"recommendations": [{"path": "exact path from the input", "verdict": "safe_delete|review_first|keep", "confidence": 0-100, "note": "one short sentence"}]}`

// BuildAdvicePrompt renders a report's deletion candidates into one user
// prompt. Empty files, empty directories and duplicate relations are
// candidates; budget and error findings are not. At most limit candidates
// are included. Returns the prompt plus how many candidates made it in
// and how many were cut.
func BuildAdvicePrompt(report *models.ScanReport, limit int) (string, int, int) {
	var candidates []string
	for _, finding := range report.Findings {
		switch finding.Reason {
		case models.ReasonEmptyFile, models.ReasonEmptyDir:
			candidates = append(candidates, finding.String())
		}
	}
	for _, dupe := range report.Duplicates {
		candidates = append(candidates, dupe.String())
	}

	total := len(candidates)
	included := total
	skipped := 0
	if limit > 0 && total > limit {
		included = limit
		skipped = total - limit
		candidates = candidates[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("A scan of %s flagged %d deletion candidates", report.Root, total))
	if skipped > 0 {
		sb.WriteString(fmt.Sprintf(" (showing the first %d)", included))
	}
	sb.WriteString(":\n\n")
	for _, candidate := range candidates {
		sb.WriteString("- ")
		sb.WriteString(candidate)
		sb.WriteString("\n")
	}
	sb.WriteString("\nClassify every listed path.")

	return sb.String(), included, skipped
}
