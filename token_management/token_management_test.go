package token_management

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test the four-characters-per-token estimate, rounded up
func TestEstimateTokens(t *testing.T) {
	tm := NewTokenManager()

	assert.Equal(t, 0, tm.EstimateTokens(""))
	assert.Equal(t, 1, tm.EstimateTokens("ab"))
	assert.Equal(t, 1, tm.EstimateTokens("abcd"))
	assert.Equal(t, 2, tm.EstimateTokens("abcde"))
	assert.Equal(t, 25, tm.EstimateTokens(strings.Repeat("x", 100)))
}

// Test usage accumulation and reset
func TestUsedTokens(t *testing.T) {
	tm := NewTokenManager()

	tm.UsedTokens(100, 40)
	tm.UsedTokens(10, 5)

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 155, total)
	assert.Equal(t, 110, input)
	assert.Equal(t, 45, output)

	tm.ClearToken()
	total, input, output = tm.GetCurrentTokenUsage()
	assert.Zero(t, total)
	assert.Zero(t, input)
	assert.Zero(t, output)
}

// Test cost lookup against the embedded pricing table
func TestCalculateCost(t *testing.T) {
	tm := NewTokenManager()

	cost := tm.CalculateCost("openai", "gpt-4o", 1000000, 1000000)
	assert.InDelta(t, 12.5, cost, 0.0001)

	azure := tm.CalculateCost("azure", "gpt-4o", 1000000, 0)
	assert.InDelta(t, 2.5, azure, 0.0001)

	free := tm.CalculateCost("ollama", "llama3.1", 1000000, 1000000)
	assert.Equal(t, 0.0, free)
}

// Test that an unknown model costs zero rather than failing
func TestCalculateCost_UnknownModel(t *testing.T) {
	tm := NewTokenManager()

	assert.Equal(t, 0.0, tm.CalculateCost("openai", "no-such-model", 5000, 5000))
}
