// Package llm is the analysis-service client, backed by the Gemini API. All
// structured calls pin a response schema and treat malformed payloads as
// errors; callers decide whether that is fail-open or fatal.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"escmon/internal/config"
	"escmon/internal/core"

	"google.golang.org/genai"
)

// Client wraps the Gemini SDK with the calls the pipeline needs.
type Client struct {
	gClient     *genai.Client
	modelName   string
	timeout     time.Duration
	temperature float32
}

// NewClient creates an analysis-service client from configuration. The API
// key comes from GEMINI_API_KEY (or its alternatives) via the config layer.
func NewClient(cfg config.Analysis) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("analysis API key is required; set GEMINI_API_KEY")
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		gClient:     gClient,
		modelName:   cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
	}, nil
}

// Research issues a free-text call expanding the digest into a broader brief.
func (c *Client) Research(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

// SelectItems issues a relevance-filter call and parses the numbered subset.
func (c *Client) SelectItems(ctx context.Context, prompt string) (core.ItemSelection, error) {
	text, err := c.generate(ctx, prompt, selectionSchema)
	if err != nil {
		return core.ItemSelection{}, err
	}

	var sel core.ItemSelection
	if err := json.Unmarshal([]byte(cleanJSON(text)), &sel); err != nil {
		return core.ItemSelection{}, fmt.Errorf("malformed selection response: %w", err)
	}
	return sel, nil
}

// ScoreDimension issues one dimension-scoring call.
func (c *Client) ScoreDimension(ctx context.Context, prompt string) (core.DimensionScore, error) {
	text, err := c.generate(ctx, prompt, dimensionSchema)
	if err != nil {
		return core.DimensionScore{}, err
	}

	var ds core.DimensionScore
	if err := json.Unmarshal([]byte(cleanJSON(text)), &ds); err != nil {
		return core.DimensionScore{}, fmt.Errorf("malformed dimension score response: %w", err)
	}
	if ds.Score < 1.0 || ds.Score > 10.0 {
		return core.DimensionScore{}, fmt.Errorf("dimension score %.2f outside [1,10]", ds.Score)
	}
	return ds, nil
}

// Review issues the synthesis call and parses the overall assessment.
func (c *Client) Review(ctx context.Context, prompt string) (core.OverallAssessment, error) {
	text, err := c.generate(ctx, prompt, assessmentSchema)
	if err != nil {
		return core.OverallAssessment{}, err
	}

	var oa core.OverallAssessment
	if err := json.Unmarshal([]byte(cleanJSON(text)), &oa); err != nil {
		return core.OverallAssessment{}, fmt.Errorf("malformed assessment response: %w", err)
	}
	if oa.OverallScore < 1.0 || oa.OverallScore > 10.0 {
		return core.OverallAssessment{}, fmt.Errorf("overall score %.2f outside [1,10]", oa.OverallScore)
	}
	if len(oa.Dimensions) != len(core.Dimensions) {
		return core.OverallAssessment{}, fmt.Errorf("assessment returned %d dimension reviews, want %d", len(oa.Dimensions), len(core.Dimensions))
	}
	return oa, nil
}

// generate runs one content-generation call under the client timeout. A
// non-nil schema switches the call to structured JSON output.
func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	temp := c.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// cleanJSON strips markdown code fences some models wrap around JSON output.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

var selectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"numbers":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}},
		"reasoning": {Type: genai.TypeString},
	},
	Required: []string{"numbers", "reasoning"},
}

var dimensionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":     {Type: genai.TypeNumber},
		"rationale": {Type: genai.TypeString},
	},
	Required: []string{"score", "rationale"},
}

var assessmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overall_score": {Type: genai.TypeNumber},
		"summary":       {Type: genai.TypeString},
		"dimensions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":      {Type: genai.TypeString},
					"score":     {Type: genai.TypeNumber},
					"rationale": {Type: genai.TypeString},
				},
				Required: []string{"name", "score", "rationale"},
			},
		},
		"trend":          {Type: genai.TypeString, Enum: []string{"STABLE", "ESCALATING", "DE-ESCALATING"}},
		"blind_spots":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"contradictions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"corrections":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"overall_score", "summary", "dimensions", "trend"},
}
