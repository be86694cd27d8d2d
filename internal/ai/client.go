package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/deadwood-scan/deadwood/pkg/models"
)

// Client wraps the Anthropic API client
type Client struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
	limit   int
}

// NewClient creates a new advice client
func NewClient(model, apiToken string, maxFindings, timeoutSeconds int) (*Client, error) {
	// Resolve API token: parameter > environment variable
	token := apiToken
	if token == "" {
		token = os.Getenv("ANTHROPIC_API_KEY")
	}
	if token == "" {
		return nil, errors.New("no API token provided: set --ai-token flag or ANTHROPIC_API_KEY environment variable")
	}

	client := anthropic.NewClient(option.WithAPIKey(token))

	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxFindings <= 0 {
		maxFindings = 50
	}

	return &Client{
		client:  client,
		model:   mapModelName(model),
		timeout: timeout,
		limit:   maxFindings,
	}, nil
}

// mapModelName converts friendly model names to model IDs
func mapModelName(name string) string {
	switch strings.ToLower(name) {
	case "sonnet":
		return "claude-sonnet-4-20250514"
	case "opus":
		return "claude-opus-4-20250514"
	default:
		// Default to haiku if unknown
		return "claude-3-5-haiku-latest"
	}
}

// Review sends the report's deletion candidates for verdicts in a single
// bounded request
func (c *Client) Review(ctx context.Context, report *models.ScanReport) (*ReviewResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt, included, skipped := BuildAdvicePrompt(report, c.limit)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(2048)),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(AdviceSystemPrompt),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	responseText := extractTextContent(message)
	if responseText == "" {
		return nil, errors.New("empty response from API")
	}

	recommendations, err := parseRecommendations(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &ReviewResult{
		Recommendations: recommendations,
		TokensUsed:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		Included:        included,
		Skipped:         skipped,
	}, nil
}

// extractTextContent extracts text from the message response
func extractTextContent(message *anthropic.Message) string {
	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}

// parseRecommendations parses the JSON response into recommendations
func parseRecommendations(text string) ([]*Recommendation, error) {
	// Clean up the response - extract JSON from potential markdown
	text = extractJSON(text)

	var raw struct {
		Recommendations []struct {
			Path       string `json:"path"`
			Verdict    string `json:"verdict"`
			Confidence int    `json:"confidence"`
			Note       string `json:"note"`
		} `json:"recommendations"`
	}

	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	recommendations := make([]*Recommendation, 0, len(raw.Recommendations))
	for _, rec := range raw.Recommendations {
		recommendations = append(recommendations, &Recommendation{
			Path:       rec.Path,
			Verdict:    normalizeVerdict(rec.Verdict),
			Confidence: rec.Confidence,
			Note:       rec.Note,
		})
	}

	return recommendations, nil
}

// normalizeVerdict maps loose model output onto the known verdicts
func normalizeVerdict(s string) Verdict {
	switch Verdict(strings.ToLower(strings.TrimSpace(s))) {
	case VerdictSafeDelete:
		return VerdictSafeDelete
	case VerdictReviewFirst:
		return VerdictReviewFirst
	case VerdictKeep:
		return VerdictKeep
	default:
		return VerdictUnknown
	}
}

// extractJSON extracts JSON from text that might contain markdown code blocks
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	// Try to extract from code blocks
	if strings.Contains(text, "```") {
		start := strings.Index(text, "```json")
		if start == -1 {
			start = strings.Index(text, "```")
		}
		if start != -1 {
			contentStart := strings.Index(text[start:], "\n")
			if contentStart != -1 {
				start = start + contentStart + 1
			}
		}

		end := strings.LastIndex(text, "```")
		if start != -1 && end > start {
			text = text[start:end]
		}
	}

	// Try to find JSON object boundaries
	text = strings.TrimSpace(text)
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")

	if jsonStart != -1 && jsonEnd > jsonStart {
		text = text[jsonStart : jsonEnd+1]
	}

	return strings.TrimSpace(text)
}

// GetModel returns the current model being used
func (c *Client) GetModel() string {
	return c.model
}
