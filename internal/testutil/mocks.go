package testutil

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
)

// MockOracle implements core.Oracle for tests.
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GenerateWithContent(ctx context.Context, content []core.ContentBlock, opts ...core.GenerateOption) (*core.OracleResponse, error) {
	args := m.Called(ctx, content, opts)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.OracleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOracle) ProviderName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockOracle) ModelID() string {
	args := m.Called()
	return args.String(0)
}

// TextResponse wraps a raw string into the response shape oracles return.
func TextResponse(text string) *core.OracleResponse {
	return &core.OracleResponse{Content: text}
}

// ScriptedOracle returns canned responses in call order, cycling when the
// script is exhausted. Useful for multi-call flows where per-call testify
// expectations would be noisy.
type ScriptedOracle struct {
	Responses []string
	Calls     int
}

func (s *ScriptedOracle) GenerateWithContent(ctx context.Context, content []core.ContentBlock, opts ...core.GenerateOption) (*core.OracleResponse, error) {
	s.Calls++
	if len(s.Responses) == 0 {
		return nil, fmt.Errorf("scripted oracle has no responses")
	}
	return &core.OracleResponse{Content: s.Responses[(s.Calls-1)%len(s.Responses)]}, nil
}

func (s *ScriptedOracle) ProviderName() string { return "scripted" }
func (s *ScriptedOracle) ModelID() string      { return "scripted-model" }
