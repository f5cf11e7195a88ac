package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// HTTPOptions configures the OpenAI-compatible endpoint ollama serves
// under /v1.
type HTTPOptions struct {
	BaseURL string
	Model   string
	APIKey  string
}

// HTTP sends one non-streaming chat completion per call.
type HTTP struct {
	api   *openai.Client
	model string
}

var _ Generator = (*HTTP)(nil)

func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("missing base_url")
	}
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		// ollama ignores the key but the client requires one.
		key = "ollama"
	}
	client := openai.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(strings.TrimRight(normalizeBaseURL(base), "/")),
		option.WithMaxRetries(0),
	)
	return &HTTP{api: &client, model: opts.Model}, nil
}

func (h *HTTP) Generate(ctx context.Context, prompt string) (Output, error) {
	resp, err := h.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(h.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr != nil {
			log.WithField("body", strings.TrimSpace(apiErr.RawJSON())).
				Warnf("chat completion failed with http_%d", apiErr.StatusCode)
			return Output{ExitCode: apiErr.StatusCode}, nil
		}
		return Output{}, err
	}
	if len(resp.Choices) == 0 {
		return Output{}, nil
	}
	return Output{Text: resp.Choices[0].Message.Content}, nil
}
