package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/deadwood-scan/deadwood/internal/ai"
	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorOrange  = "\033[38;5;208m"
	colorGray    = "\033[38;5;245m"
)

// isColorSupported checks if stdout is a terminal that renders ANSI colors
func isColorSupported() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// paint wraps s in the given color when the terminal supports it
func paint(color, s string) string {
	if !isColorSupported() {
		return s
	}
	return color + s + colorReset
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// RenderBlocks flattens a report into the transport's ordered text
// blocks: a findings summary line, the findings joined by line breaks,
// a duplicate summary line, and the duplicate relations joined by line
// breaks. Blocks are present even when empty.
func RenderBlocks(report *models.ScanReport) []string {
	findings := make([]string, 0, len(report.Findings))
	for _, finding := range report.Findings {
		findings = append(findings, finding.String())
	}

	duplicates := make([]string, 0, len(report.Duplicates))
	for _, dupe := range report.Duplicates {
		duplicates = append(duplicates, dupe.String())
	}

	return []string{
		fmt.Sprintf("Found %d possibly useless files or directories:", len(findings)),
		strings.Join(findings, "\n"),
		fmt.Sprintf("Found %d duplicate files:", len(duplicates)),
		strings.Join(duplicates, "\n"),
	}
}

// RenderError renders a terminal scan failure as its single text block
func RenderError(err error) string {
	return fmt.Sprintf("Error scanning directory: %s", err.Error())
}

// Generator generates scan reports in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	return &Generator{
		config: cfg,
		logger: logger,
	}, nil
}

// Generate renders the report in the configured format and returns the
// written file's absolute path. An empty format prints to the console
// and writes nothing.
func (g *Generator) Generate(report *models.ScanReport, advice *ai.Advice) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	if format == "" {
		g.printConsole(report, advice)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("DEADWOOD-REPORT-%s.json", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("DEADWOOD-REPORT-%s.txt", timestamp)
		case "md", "markdown":
			outputFile = fmt.Sprintf("DEADWOOD-REPORT-%s.md", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(report, advice, outputFile)
	case "txt", "text":
		err = g.generateText(report, advice, outputFile)
	case "md", "markdown":
		err = g.generateMarkdown(report, advice, outputFile)
	default:
		err = fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// printConsole prints results to stdout with colors
func (g *Generator) printConsole(report *models.ScanReport, advice *ai.Advice) {
	fmt.Println()
	fmt.Printf("%s\n", paint(colorBold+colorOrange, "SCAN COMPLETE"))
	fmt.Println()

	fmt.Printf("  %s      %s\n", paint(colorGray, "Path:"), report.Root)
	fmt.Printf("  %s  %s\n", paint(colorGray, "Duration:"), FormatDuration(report.Duration))
	fmt.Printf("  %s   %d\n", paint(colorGray, "Entries:"), report.Processed)
	if report.Truncated {
		fmt.Printf("  %s   %s\n", paint(colorGray, "Partial:"), paint(colorYellow, "a scan limit interrupted the traversal"))
	}
	fmt.Println()

	if len(report.Findings) == 0 && len(report.Duplicates) == 0 {
		fmt.Printf("  %s\n", paint(colorBold+colorGreen, "✓ Nothing useless found"))
		fmt.Println()
		return
	}

	separator := paint(colorGray, strings.Repeat("─", 63))

	if len(report.Findings) > 0 {
		fmt.Printf("  %s\n", paint(colorBold, fmt.Sprintf("Found %d possibly useless files or directories:", len(report.Findings))))
		fmt.Println(separator)
		for _, finding := range report.Findings {
			fmt.Printf("  %s %s\n", paint(getReasonColor(finding.Reason), "•"), finding.String())
		}
		fmt.Println()
	}

	if len(report.Duplicates) > 0 {
		fmt.Printf("  %s\n", paint(colorBold, fmt.Sprintf("Found %d duplicate files:", len(report.Duplicates))))
		fmt.Println(separator)
		for _, dupe := range report.Duplicates {
			fmt.Printf("  %s %s\n", paint(colorCyan, "•"), dupe.String())
		}
		fmt.Println()
	}

	if advice != nil && len(advice.Recommendations) > 0 {
		fmt.Printf("  %s\n", paint(colorBold+colorMagenta, "DELETION ADVICE"))
		fmt.Println(separator)
		for _, rec := range advice.Recommendations {
			label := fmt.Sprintf("[%s]", strings.ToUpper(string(rec.Verdict)))
			fmt.Printf("  %s %s\n", paint(getVerdictColor(rec.Verdict), label), rec.Path)
			if rec.Note != "" {
				fmt.Printf("      %s\n", paint(colorDim, rec.Note))
			}
		}
		fmt.Println()
		fmt.Printf("  %s     %s\n", paint(colorGray, "Model:"), advice.Model)
		fmt.Printf("  %s  %d\n", paint(colorGray, "Reviewed:"), advice.Reviewed)
		fmt.Printf("  %s    %d\n", paint(colorGray, "Tokens:"), advice.TokensUsed)
		fmt.Println()
	}
}

// getReasonColor returns the ANSI color for a finding reason
func getReasonColor(reason models.Reason) string {
	switch {
	case reason == models.ReasonError:
		return colorRed
	case reason.IsBudget():
		return colorYellow
	default:
		return colorCyan
	}
}

// getVerdictColor returns the ANSI color for an advice verdict
func getVerdictColor(verdict ai.Verdict) string {
	switch verdict {
	case ai.VerdictSafeDelete:
		return colorGreen
	case ai.VerdictReviewFirst:
		return colorYellow
	case ai.VerdictKeep:
		return colorRed
	default:
		return colorGray
	}
}
