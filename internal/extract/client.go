// Package extract implements the AI-assisted fallback for reading vote
// outcomes and resolution text out of meeting minutes documents. Its output
// is treated as unreliable: callers validate everything against the
// reconciliation matching rules before trusting it.
package extract

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Completer is the single model operation the extractor needs. The SDK
// client satisfies it; tests substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// SDKCompleter implements Completer over the official anthropic-sdk-go.
type SDKCompleter struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewSDKCompleter creates a Completer backed by the Anthropic API.
func NewSDKCompleter(apiKey, model string) *SDKCompleter {
	return &SDKCompleter{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: 4096,
	}
}

func (c *SDKCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	zap.L().Debug("extraction completion",
		zap.String("model", c.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return sb.String(), nil
}
