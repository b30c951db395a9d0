package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search the indexed policy documents", searchCmd.Short)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "hybrid search")
	assert.Contains(t, searchCmd.Long, "BM25")
	assert.Contains(t, searchCmd.Long, "semantic")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("search", "annual leave")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "Annual-Leave-Policy.docx")
	assert.Equal(t, "annual leave", retriever.lastQuery)
	assert.Equal(t, 1, retriever.buildCalls, "search ensures the index first")
}

func TestSearchCmd_LimitFlagPassedThrough(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchLimit = 0 }()

	_, err := executeCommand("search", "-n", "3", "annual leave")

	require.NoError(t, err)
	assert.Equal(t, 3, retriever.lastTopK)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	out, err := executeCommand("search", "--json", "annual leave")

	require.NoError(t, err)
	var results []domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Annual-Leave-Policy.docx", results[0].Source)
}

func TestSearchCmd_FormattedOutput(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchFormatted = false }()

	out, err := executeCommand("search", "--formatted", "annual leave")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 relevant results:")
	assert.Contains(t, out, "Sources: Annual-Leave-Policy.docx")
}

func TestSearchCmd_NoResults(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.results = nil

	out, err := executeCommand("search", "nothing matches this")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_PropagatesSearchError(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.searchErr = domain.ErrIndexNotReady

	_, err := executeCommand("search", "annual leave")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestFirstSnippet(t *testing.T) {
	assert.Equal(t, "short line", firstSnippet("short line\nsecond line"))
	assert.Equal(t, "", firstSnippet(""))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	snippet := firstSnippet(string(long))
	assert.Len(t, []rune(snippet), snippetLen+3)
	assert.Contains(t, snippet, "...")
}
