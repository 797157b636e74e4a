package llms

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	errs "github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
)

// AnthropicOracle implements the core.Oracle interface for Anthropic's models.
type AnthropicOracle struct {
	client  *anthropic.Client
	modelID anthropic.Model
}

// NewAnthropicOracle creates a new AnthropicOracle instance.
func NewAnthropicOracle(apiKey string, model anthropic.Model) (*AnthropicOracle, error) {
	if apiKey == "" {
		return nil, errs.New(errs.InvalidInput, "anthropic API key is required")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicOracle{
		client:  &client,
		modelID: model,
	}, nil
}

// ProviderName implements core.Oracle.
func (a *AnthropicOracle) ProviderName() string {
	return "anthropic"
}

// ModelID implements core.Oracle.
func (a *AnthropicOracle) ModelID() string {
	return string(a.modelID)
}

// GenerateWithContent generates a response with mixed text/image content.
func (a *AnthropicOracle) GenerateWithContent(ctx context.Context, content []core.ContentBlock, options ...core.GenerateOption) (*core.OracleResponse, error) {
	logger := logging.GetLogger()
	opts := core.NewGenerateOptions()
	for _, opt := range options {
		opt(opts)
	}

	messages := convertContentBlocksToMessages(content)
	if len(messages) == 0 {
		return nil, errs.New(errs.InvalidInput, "no content provided")
	}

	params := anthropic.MessageNewParams{
		Model:       a.modelID,
		Messages:    messages,
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
	}
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.SystemPrompt}}
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			logger.Error(ctx, "Anthropic API error: status code %d", apiErr.StatusCode)
		}
		return nil, errs.Wrap(err, errs.OracleCallFailed, "failed to generate response with content")
	}

	if message == nil || len(message.Content) == 0 {
		return nil, errs.New(errs.OracleEmptyResponse, "received empty response from Anthropic API")
	}

	// Extract text from response
	var responseText string
	if block := message.Content[0]; block.Type == "text" {
		responseText = block.Text
	}

	usage := &core.TokenInfo{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	return &core.OracleResponse{Content: responseText, Usage: usage}, nil
}

// convertContentBlocksToMessages converts core.ContentBlock values into a
// single user message with text and base64 image parts.
func convertContentBlocksToMessages(blocks []core.ContentBlock) []anthropic.MessageParam {
	var contentBlockUnions []anthropic.ContentBlockParamUnion

	for _, block := range blocks {
		switch block.Type {
		case core.BlockTypeText:
			if block.Text == "" {
				continue
			}
			contentBlockUnions = append(contentBlockUnions, anthropic.ContentBlockParamUnion{
				OfText: &anthropic.TextBlockParam{
					Text: block.Text,
				},
			})

		case core.BlockTypeImage:
			if len(block.Data) > 0 {
				contentBlockUnions = append(contentBlockUnions, anthropic.ContentBlockParamUnion{
					OfImage: &anthropic.ImageBlockParam{
						Source: anthropic.ImageBlockParamSourceUnion{
							OfBase64: &anthropic.Base64ImageSourceParam{
								Data:      base64.StdEncoding.EncodeToString(block.Data),
								MediaType: anthropic.Base64ImageSourceMediaType(block.MimeType),
							},
						},
					},
				})
			}
		}
	}

	var messages []anthropic.MessageParam
	if len(contentBlockUnions) > 0 {
		messages = append(messages, anthropic.MessageParam{
			Content: contentBlockUnions,
			Role:    anthropic.MessageParamRoleUser,
		})
	}

	return messages
}
