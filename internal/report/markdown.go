package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/deadwood-scan/deadwood/internal/ai"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(report *models.ScanReport, advice *ai.Advice, outputFile string) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Deadwood Scan Report v%s\n\n", report.Version))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Scan ID | `%s` |\n", report.ScanID))
	sb.WriteString(fmt.Sprintf("| Scan Path | `%s` |\n", report.Root))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", report.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| End Time | %s |\n", report.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(report.Duration)))
	sb.WriteString(fmt.Sprintf("| Entries Visited | %d |\n", report.Processed))
	sb.WriteString(fmt.Sprintf("| **Useless Items** | **%d** |\n", len(report.Findings)))
	sb.WriteString(fmt.Sprintf("| **Duplicates** | **%d** |\n", len(report.Duplicates)))
	sb.WriteString("\n")

	if report.Truncated {
		sb.WriteString("> ⚠️ A scan limit interrupted the traversal; results cover only part of the tree.\n\n")
	}

	if len(report.Findings) == 0 && len(report.Duplicates) == 0 {
		sb.WriteString("> ✅ **Nothing useless found**\n\n")
		return os.WriteFile(outputFile, []byte(sb.String()), 0644)
	}

	// Findings
	if len(report.Findings) > 0 {
		sb.WriteString(fmt.Sprintf("## Findings (%d)\n\n", len(report.Findings)))
		sb.WriteString("| Path | Reason |\n")
		sb.WriteString("|------|--------|\n")
		for _, finding := range report.Findings {
			reason := string(finding.Reason)
			if finding.Detail != "" {
				reason = fmt.Sprintf("%s: %s", finding.Reason, finding.Detail)
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", finding.Path, reason))
		}
		sb.WriteString("\n")
	}

	// Duplicates
	if len(report.Duplicates) > 0 {
		sb.WriteString(fmt.Sprintf("## Duplicates (%d)\n\n", len(report.Duplicates)))
		sb.WriteString("| Duplicate | Original |\n")
		sb.WriteString("|-----------|----------|\n")
		for _, dupe := range report.Duplicates {
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` |\n", dupe.Path, dupe.Original))
		}
		sb.WriteString("\n")
	}

	// Advice
	if advice != nil && len(advice.Recommendations) > 0 {
		sb.WriteString("## Deletion Advice\n\n")
		sb.WriteString(fmt.Sprintf("Model `%s` reviewed %d paths", advice.Model, advice.Reviewed))
		if advice.Skipped > 0 {
			sb.WriteString(fmt.Sprintf(" (%d more were cut by the request cap)", advice.Skipped))
		}
		sb.WriteString(fmt.Sprintf(", using %d tokens.\n\n", advice.TokensUsed))

		sb.WriteString("| Path | Verdict | Confidence | Note |\n")
		sb.WriteString("|------|---------|------------|------|\n")
		for _, rec := range advice.Recommendations {
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %d%% | %s |\n",
				rec.Path, rec.Verdict, rec.Confidence, rec.Note))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
