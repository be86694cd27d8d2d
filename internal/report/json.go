package report

import (
	"encoding/json"
	"os"

	"github.com/deadwood-scan/deadwood/internal/ai"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// JSONReport combines scan results with deletion advice for JSON output
type JSONReport struct {
	*models.ScanReport
	Advice *ai.Advice `json:"ai_advice,omitempty"`
}

// generateJSON generates a JSON report
func (g *Generator) generateJSON(report *models.ScanReport, advice *ai.Advice, outputFile string) error {
	combined := &JSONReport{
		ScanReport: report,
		Advice:     advice,
	}

	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
