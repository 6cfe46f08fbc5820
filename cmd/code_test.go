package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clion/config"
	"clion/llm"
	"clion/providers"
	"clion/token_management"
)

func testDependencies(t *testing.T) *RootDependencies {
	t.Helper()
	manager, err := llm.NewSessionManager(t.TempDir())
	require.NoError(t, err)
	return &RootDependencies{
		Config: &config.Config{
			AIProviderConfig: &providers.AIProviderConfig{Provider: "ollama", Model: "llama3.1"},
		},
		SessionManager:  manager,
		TokenManagement: token_management.NewTokenManager(),
	}
}

// Test the REPL slash-command dispatch
func TestFindCodeSubCommand(t *testing.T) {
	deps := testDependencies(t)
	session := deps.SessionManager.NewSession()

	for _, command := range []string{"/help", "/clear", "/token", "/clear-token", "/clear-history", "/sessions"} {
		handled, exit := findCodeSubCommand(command, deps, session)
		assert.True(t, handled, command)
		assert.False(t, exit, command)
	}

	handled, exit := findCodeSubCommand("/exit", deps, session)
	assert.False(t, handled)
	assert.True(t, exit)

	handled, exit = findCodeSubCommand("fix the parser", deps, session)
	assert.False(t, handled)
	assert.False(t, exit)
}

// Test that /clear-history drops the session entries
func TestFindCodeSubCommand_ClearHistory(t *testing.T) {
	deps := testDependencies(t)
	session := deps.SessionManager.NewSession()
	session.AddEntry("user", "hello")

	handled, _ := findCodeSubCommand("/clear-history", deps, session)

	assert.True(t, handled)
	assert.Empty(t, session.Entries)
}

// Test that /clear-token resets the usage counters
func TestFindCodeSubCommand_ClearToken(t *testing.T) {
	deps := testDependencies(t)
	session := deps.SessionManager.NewSession()
	deps.TokenManagement.UsedTokens(10, 5)

	handled, _ := findCodeSubCommand("/clear-token", deps, session)

	assert.True(t, handled)
	total, _, _ := deps.TokenManagement.GetCurrentTokenUsage()
	assert.Zero(t, total)
}
