package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/deadwood-scan/deadwood/internal/report"
	"github.com/deadwood-scan/deadwood/pkg/models"
)

// Defaults applied when a tool call omits the optional limits
const (
	DefaultMaxDepth = 5
	DefaultMaxFiles = 1000
)

// scanRunner is the slice of the scan orchestrator the tool depends on
type scanRunner interface {
	Scan(req models.ScanRequest) (*models.ScanReport, error)
}

// NewFindUselessFilesTool builds the handler that runs one bounded scan
// per call and renders the wire text blocks. A terminal scan failure
// becomes an error result with its single error block; it is not a
// protocol-level failure.
func NewFindUselessFilesTool(scanner scanRunner) *ToolHandler {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"directory": map[string]any{
				"type":        "string",
				"description": "Path of the directory to scan",
			},
			"maxDepth": map[string]any{
				"type":        "integer",
				"description": fmt.Sprintf("Traversal depth ceiling, 0-10 (default %d)", DefaultMaxDepth),
			},
			"maxFiles": map[string]any{
				"type":        "integer",
				"description": fmt.Sprintf("Processed entry ceiling, 1-1000 (default %d)", DefaultMaxFiles),
			},
		},
		"required": []string{"directory"},
	}

	return NewToolBuilder("find-useless-files",
		"Scan a directory tree for empty files, empty directories and byte-identical duplicate files. Advisory only, nothing is deleted.").
		WithSchema(schema).
		WithCall(func(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
			directory, _ := args["directory"].(string)
			if directory == "" {
				return nil, errors.New("directory argument is required")
			}

			scanReport, err := scanner.Scan(models.ScanRequest{
				Root:     directory,
				MaxDepth: intArg(args, "maxDepth", DefaultMaxDepth),
				MaxFiles: intArg(args, "maxFiles", DefaultMaxFiles),
			})
			if err != nil {
				return &ToolResult{
					Content: []any{NewTextContent(report.RenderError(err))},
					IsError: true,
				}, nil
			}

			blocks := report.RenderBlocks(scanReport)
			content := make([]any, 0, len(blocks))
			for _, block := range blocks {
				content = append(content, NewTextContent(block))
			}

			return &ToolResult{Content: content}, nil
		}).
		Build()
}

// intArg reads an integer tool argument; JSON numbers arrive as float64
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
