package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedOracleCyclesResponses(t *testing.T) {
	oracle := &ScriptedOracle{Responses: []string{"first", "second"}}

	for _, expected := range []string{"first", "second", "first"} {
		resp, err := oracle.GenerateWithContent(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, expected, resp.Content)
	}
	assert.Equal(t, 3, oracle.Calls)
}

func TestScriptedOracleEmptyScriptErrors(t *testing.T) {
	oracle := &ScriptedOracle{}

	resp, err := oracle.GenerateWithContent(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 1, oracle.Calls)
}
