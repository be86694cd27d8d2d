package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/deadwood-scan/deadwood/internal/ai"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// generateText writes the report as its transport text blocks joined by
// blank lines, so a text file and a tool response carry identical content
func (g *Generator) generateText(report *models.ScanReport, advice *ai.Advice, outputFile string) error {
	var sb strings.Builder

	sb.WriteString(strings.Join(RenderBlocks(report), "\n\n"))
	sb.WriteString("\n")

	if advice != nil && len(advice.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(renderAdviceText(advice))
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

// renderAdviceText renders the advice section appended to text reports
func renderAdviceText(advice *ai.Advice) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Deletion advice (%s, %d paths reviewed):\n", advice.Model, advice.Reviewed))
	for _, rec := range advice.Recommendations {
		sb.WriteString(fmt.Sprintf("%s [%s, %d%%]", rec.Path, rec.Verdict, rec.Confidence))
		if rec.Note != "" {
			sb.WriteString(" ")
			sb.WriteString(rec.Note)
		}
		sb.WriteString("\n")
	}
	if advice.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("%d more candidates were cut by the request cap.\n", advice.Skipped))
	}

	return sb.String()
}
