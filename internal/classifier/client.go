package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandalio7/Serena/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client classifies caregiver messages against the taxonomy through an
// OpenAI-compatible chat completion endpoint. The candidate list is ordered
// and immutable: primary first, then fallbacks. Affinity for a model that
// recently worked is the caller's business; pass it as preferred.
type Client struct {
	api        *openai.Client
	candidates []string
	logger     *zap.Logger
}

func New(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:        openai.NewClientWithConfig(apiConfig),
		candidates: cfg.Models,
		logger:     logger,
	}
}

// Classify sends the message text to the first candidate model and walks the
// fallback list on any error (network, service, or malformed response). It
// never returns an error: when every candidate fails the Result carries an
// empty category list and a non-nil Err.
//
// preferred, when non-empty and present in the candidate list, is tried first.
func (c *Client) Classify(ctx context.Context, messageText string, preferred string) Result {
	prompt := BuildPrompt(messageText)

	var errs []error
	for _, model := range c.ordered(preferred) {
		raw, err := c.complete(ctx, model, prompt)
		if err != nil {
			c.logger.Warn("classification model failed, trying next candidate",
				zap.String("model", model),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}

		result, err := ParseResponse(raw)
		if err != nil {
			c.logger.Warn("classification response unparseable, trying next candidate",
				zap.String("model", model),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}

		result.Model = model
		return result
	}

	c.logger.Error("all classification models exhausted", zap.Int("candidates", len(c.candidates)))
	return Failed(errors.Join(errs...))
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ordered returns the candidate list with preferred moved to the front.
func (c *Client) ordered(preferred string) []string {
	if preferred == "" {
		return c.candidates
	}
	ordered := make([]string, 0, len(c.candidates))
	for _, m := range c.candidates {
		if m == preferred {
			ordered = append([]string{m}, ordered...)
		} else {
			ordered = append(ordered, m)
		}
	}
	return ordered
}
