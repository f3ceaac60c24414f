// Package llm requests structured analysis reports from an
// OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/yourname/renescens/internal"
)

const Source = "openai"

var ErrEmptyResponse = errors.New("llm: empty completion")

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      internal.Logger
}

func New(cfg Config, logger internal.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// reportSchema is the shape the model must answer with.
var reportSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"summary": {Type: jsonschema.String, Description: "Short overall synthesis"},
		"sections": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"title": {Type: jsonschema.String},
					"items": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
				},
				Required:             []string{"title", "items"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"summary", "sections"},
	AdditionalProperties: false,
}

type reportPayload struct {
	Summary  string                   `json:"summary"`
	Sections []internal.ReportSection `json:"sections"`
}

// CompleteReport sends the prompts and decodes the typed report.
func (c *Client) CompleteReport(ctx context.Context, system, user string) (*internal.AIReport, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "vocal_report",
				Schema: &reportSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		c.logger.Errorf("llm: chat completion failed: %v", err)
		return nil, fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	var payload reportPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("llm: decode report: %w", err)
	}
	if payload.Sections == nil {
		payload.Sections = []internal.ReportSection{}
	}
	c.logger.Debugf("llm: report with %d sections, %d tokens", len(payload.Sections), resp.Usage.TotalTokens)
	return &internal.AIReport{Summary: payload.Summary, Sections: payload.Sections, Source: Source}, nil
}
