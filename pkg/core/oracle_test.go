package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentBlockConstructors(t *testing.T) {
	text := NewTextBlock("Task instruction: add an event")
	assert.Equal(t, BlockTypeText, text.Type)
	assert.Equal(t, "Task instruction: add an event", text.Text)

	img := NewImageBlock([]byte{0x89, 'P', 'N', 'G'}, "image/png")
	assert.Equal(t, BlockTypeImage, img.Type)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Len(t, img.Data, 4)
}

func TestContentBlockString(t *testing.T) {
	assert.Equal(t, "hello", NewTextBlock("hello").String())
	assert.Equal(t, "[Image: image/png, 4 bytes]", NewImageBlock([]byte{1, 2, 3, 4}, "image/png").String())
	assert.Contains(t, ContentBlock{Type: "video"}.String(), "Unknown content type")
}

func TestGenerateOptions(t *testing.T) {
	opts := NewGenerateOptions()
	assert.Equal(t, 1024, opts.MaxTokens)
	assert.Equal(t, 0.5, opts.Temperature)
	assert.Empty(t, opts.SystemPrompt)

	for _, opt := range []GenerateOption{
		WithMaxTokens(200),
		WithTemperature(0.3),
		WithSystemPrompt("You are an augmentation assistant."),
	} {
		opt(opts)
	}

	assert.Equal(t, 200, opts.MaxTokens)
	assert.Equal(t, 0.3, opts.Temperature)
	assert.Equal(t, "You are an augmentation assistant.", opts.SystemPrompt)
}
