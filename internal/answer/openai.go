package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/aangers/ragmeta/internal/llmlog"
	"github.com/aangers/ragmeta/internal/prompts/analysis"
	"github.com/aangers/ragmeta/internal/prompts/qa"
	"github.com/aangers/ragmeta/internal/taxonomy"
)

// analysisSchema constrains the question-analysis output.
var analysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"metadata_category": map[string]any{
			"type": "string",
			"enum": categoryStrings(),
		},
		"currency": map[string]any{
			"type": "string",
			"enum": []string{
				"USD", "EUR", "AUD", "CAD", "GBP", "ZAR", "RUB", "INR",
				"JPY", "CNY", "NOK", "BRL", "RMB", "N/A",
			},
		},
		"search_locations": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"metadata_category", "currency", "search_locations"},
	"additionalProperties": false,
}

// answerSchema constrains the question-answering output.
var answerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"data_analysis": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"reasoning": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"answer_type": map[string]any{
			"type": "string",
			"enum": []string{"number", "boolean", "name", "names"},
		},
		"answer": map[string]any{
			"description": "Final answer: float for number, bool for boolean, string for name, array of strings for names, or \"N/A\"",
		},
		"pages": map[string]any{
			"type":        "integer",
			"description": "Page number with the most relevant information, 0 when none applies",
		},
	},
	"required": []string{"data_analysis", "reasoning", "answer_type", "answer", "pages"},
}

func categoryStrings() []string {
	categories := taxonomy.Categories()
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// OpenAIModel implements Model against the OpenAI chat completions API with
// structured outputs.
type OpenAIModel struct {
	client     openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	calls      *llmlog.Store
	logger     *slog.Logger
}

// OpenAIModelConfig configures an OpenAIModel.
type OpenAIModelConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	Calls      *llmlog.Store
	Logger     *slog.Logger
}

// NewOpenAIModel creates a question model backed by the OpenAI API.
func NewOpenAIModel(cfg OpenAIModelConfig) *OpenAIModel {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIModel{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		calls:      cfg.Calls,
		logger:     logger,
	}
}

// AnalyzeQuestion routes a question onto a metadata category.
func (m *OpenAIModel) AnalyzeQuestion(ctx context.Context, questionText string) (Analysis, error) {
	content, err := m.complete(ctx, "answer.analysis", "question_analysis", analysisSchema,
		analysis.SystemPrompt(), questionText)
	if err != nil {
		return Analysis{}, err
	}

	var result Analysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Analysis{}, fmt.Errorf("failed to decode question analysis: %w", err)
	}
	if !taxonomy.Valid(result.MetadataCategory) {
		return Analysis{}, fmt.Errorf("unknown category %q", result.MetadataCategory)
	}
	return result, nil
}

// AnswerQuestion answers a question from its metadata context.
func (m *OpenAIModel) AnswerQuestion(ctx context.Context, req AnswerRequest) (Answer, error) {
	userContext, err := buildAnswerContext(req)
	if err != nil {
		return Answer{}, err
	}

	content, err := m.complete(ctx, "answer.qa", "question_answer", answerSchema,
		qa.SystemPrompt(), userContext)
	if err != nil {
		return Answer{}, err
	}

	var result Answer
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Answer{}, fmt.Errorf("failed to decode answer: %w", err)
	}
	return result, nil
}

// buildAnswerContext renders the question and its metadata evidence into the
// user message.
func buildAnswerContext(req AnswerRequest) (string, error) {
	elements, err := json.MarshalIndent(req.Elements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize metadata elements: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", req.CompanyName)
	fmt.Fprintf(&b, "Query: %s\n", req.QuestionText)
	fmt.Fprintf(&b, "Type answer: %s\n\n", req.QuestionKind)
	fmt.Fprintf(&b, "Metadata from the annual report:\n%s\n", elements)

	if len(req.SearchLocations) > 0 {
		locations, err := json.Marshal(req.SearchLocations)
		if err != nil {
			return "", fmt.Errorf("failed to serialize search locations: %w", err)
		}
		fmt.Fprintf(&b, "\nIntended metadata headers (not guaranteed, just a guess): %s\n", locations)
	}
	return b.String(), nil
}

func (m *OpenAIModel) complete(ctx context.Context, promptKey, schemaName string, schema map[string]any, systemPrompt, userContent string) (string, error) {
	started := time.Now()

	content, err := retry.DoWithData(
		func() (string, error) {
			completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model:       m.model,
				Temperature: openai.Float(0),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(systemPrompt),
					openai.UserMessage(userContent),
				},
				ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
					OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
						JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
							Name:   schemaName,
							Schema: schema,
						},
					},
				},
			})
			if err != nil {
				return "", err
			}
			if len(completion.Choices) == 0 {
				return "", fmt.Errorf("completion carries no choices")
			}
			return strings.TrimSpace(completion.Choices[0].Message.Content), nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(m.maxRetries)),
		retry.Delay(m.retryDelay),
		retry.LastErrorOnly(true),
	)

	m.record(ctx, promptKey, started, content, err)
	return content, err
}

func (m *OpenAIModel) record(ctx context.Context, promptKey string, started time.Time, content string, callErr error) {
	if m.calls == nil {
		return
	}
	call := llmlog.NewCall(promptKey, m.model).Finish(started, content, callErr)
	if err := m.calls.Record(ctx, call); err != nil {
		m.logger.Warn("failed to record llm call", "prompt_key", promptKey, "error", err)
	}
}
