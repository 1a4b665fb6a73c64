package describe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/aangers/ragmeta/internal/llmlog"
	"github.com/aangers/ragmeta/internal/prompts/describe"
)

// OpenAIDescriber implements Describer against the OpenAI chat completions
// API with bounded retries.
type OpenAIDescriber struct {
	client     openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	calls      *llmlog.Store
	logger     *slog.Logger
}

// OpenAIDescriberConfig configures an OpenAIDescriber.
type OpenAIDescriberConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryDelay time.Duration

	// Calls, when set, receives a record of every request.
	Calls  *llmlog.Store
	Logger *slog.Logger
}

// NewOpenAIDescriber creates a describer backed by the OpenAI API.
func NewOpenAIDescriber(cfg OpenAIDescriberConfig) *OpenAIDescriber {
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

	return &OpenAIDescriber{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		calls:      cfg.Calls,
		logger:     logger,
	}
}

// DescribeImage sends the image to the vision model and returns its analysis.
func (d *OpenAIDescriber) DescribeImage(ctx context.Context, imageBase64 string) (string, error) {
	message := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(describe.ImagePrompt()),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/jpeg;base64," + imageBase64,
		}),
	})
	return d.complete(ctx, "describe.image", message)
}

// DescribeTable sends the HTML table to the model and returns its analysis.
func (d *OpenAIDescriber) DescribeTable(ctx context.Context, tableHTML string) (string, error) {
	prompt := describe.TablePrompt() + "\n\n" + tableHTML
	return d.complete(ctx, "describe.table", openai.UserMessage(prompt))
}

func (d *OpenAIDescriber) complete(ctx context.Context, promptKey string, message openai.ChatCompletionMessageParamUnion) (string, error) {
	started := time.Now()

	content, err := retry.DoWithData(
		func() (string, error) {
			completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model:    d.model,
				Messages: []openai.ChatCompletionMessageParamUnion{message},
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
		retry.Attempts(uint(d.maxRetries)),
		retry.Delay(d.retryDelay),
		retry.LastErrorOnly(true),
	)

	d.record(ctx, promptKey, started, content, err)
	return content, err
}

func (d *OpenAIDescriber) record(ctx context.Context, promptKey string, started time.Time, content string, callErr error) {
	if d.calls == nil {
		return
	}
	call := llmlog.NewCall(promptKey, d.model).Finish(started, content, callErr)
	if err := d.calls.Record(ctx, call); err != nil {
		d.logger.Warn("failed to record llm call", "prompt_key", promptKey, "error", err)
	}
}
