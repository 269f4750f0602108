package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, env.claude, claudeConfig)
	env.write(t, env.cursor, "{broken")

	out, _, err := execute(t, "", "list", "--json")
	require.NoError(t, err)

	var statuses []toolStatus
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))

	byID := make(map[string]toolStatus)
	for _, s := range statuses {
		byID[s.ID] = s
	}
	require.Contains(t, byID, "claude")
	assert.Equal(t, "installed", byID["claude"].Status)
	assert.Equal(t, []string{"github"}, byID["claude"].Servers)
	assert.Equal(t, env.claude, byID["claude"].ConfigPath)

	assert.NotEmpty(t, byID["cursor"].Error, "a broken file is reported, not fatal")
	assert.Equal(t, "installed", byID["cursor"].Status)
}

func TestList_Table(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, env.claude, claudeConfig)

	out, _, err := execute(t, "", "list", "--servers")
	require.NoError(t, err)

	assert.Contains(t, out, "TOOL")
	assert.Contains(t, out, "Claude Code")
	assert.Contains(t, out, "found")
	assert.Contains(t, out, "github  npx -y @modelcontextprotocol/server-github (1 env var)")
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "retention: 5")
	assert.Contains(t, out, "debounce: 300ms")
	assert.Contains(t, out, "resolved:")
	assert.Contains(t, out, env.history)
}
