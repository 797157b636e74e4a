package llms

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
)

// NewOracle creates an oracle instance for the given provider and model.
func NewOracle(provider, modelID, apiKey string) (core.Oracle, error) {
	switch provider {
	case "anthropic":
		return NewAnthropicOracle(apiKey, anthropic.Model(modelID))
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", provider)
	}
}
