package core

import (
	"context"
	"fmt"
)

// BlockType distinguishes the kinds of content that can be sent to an oracle.
type BlockType string

const (
	BlockTypeText  BlockType = "text"
	BlockTypeImage BlockType = "image"
)

// ContentBlock is a provider-agnostic unit of oracle input. Each provider
// handles its own format conversion.
type ContentBlock struct {
	Type     BlockType `json:"type"`
	Text     string    `json:"text,omitempty"`
	Data     []byte    `json:"-"` // Raw binary data for images
	MimeType string    `json:"mime_type,omitempty"`
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{
		Type: BlockTypeText,
		Text: text,
	}
}

// NewImageBlock creates an image content block.
func NewImageBlock(data []byte, mimeType string) ContentBlock {
	return ContentBlock{
		Type:     BlockTypeImage,
		Data:     data,
		MimeType: mimeType,
	}
}

// String returns a string representation of the content block.
func (cb ContentBlock) String() string {
	switch cb.Type {
	case BlockTypeText:
		return cb.Text
	case BlockTypeImage:
		return fmt.Sprintf("[Image: %s, %d bytes]", cb.MimeType, len(cb.Data))
	default:
		return fmt.Sprintf("[Unknown content type: %s]", cb.Type)
	}
}

// TokenInfo reports token usage for one oracle round trip.
type TokenInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// OracleResponse is the raw result of one oracle call. Content is free text;
// callers that expect JSON run it through utils.ExtractJSONObject.
type OracleResponse struct {
	Content string
	Usage   *TokenInfo
}

// Oracle is the external reasoning service consulted for proposing and
// verifying trajectory edits. It is treated as a black box: one blocking
// round trip per call, no client-side timeout beyond what the context
// carries.
type Oracle interface {
	// GenerateWithContent produces a completion for mixed text/image content.
	GenerateWithContent(ctx context.Context, content []ContentBlock, options ...GenerateOption) (*OracleResponse, error)

	ProviderName() string
	ModelID() string
}

// GenerateOption represents an option for a generation call.
type GenerateOption func(*GenerateOptions)

// GenerateOptions holds configuration for a generation call.
type GenerateOptions struct {
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// NewGenerateOptions creates GenerateOptions with default values.
func NewGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.5,
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = t
	}
}

// WithSystemPrompt sets the system prompt for the call.
func WithSystemPrompt(prompt string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompt = prompt
	}
}
