package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	InitDatabase(filepath.Join(t.TempDir(), "test.db"))
}

func TestTogglePin(t *testing.T) {
	setupTestDB(t)

	pinned, err := TogglePin("abc")
	require.NoError(t, err)
	assert.True(t, pinned)

	ids, err := PinnedIDs()
	require.NoError(t, err)
	assert.True(t, ids["abc"])

	pinned, err = TogglePin("abc")
	require.NoError(t, err)
	assert.False(t, pinned)

	ids, err = PinnedIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSearchHistoryRecall(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, RecordSearch("mods", "sodium"))
	require.NoError(t, RecordSearch("mods", "lithium"))
	require.NoError(t, RecordSearch("mods", "sodium")) // duplicate
	require.NoError(t, RecordSearch("modpacks", "all the mods"))

	recent, err := RecentSearches("mods", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"sodium", "lithium"}, recent)

	recent, err = RecentSearches("modpacks", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"all the mods"}, recent)
}

func TestEmptyQueryNotRecorded(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, RecordSearch("mods", ""))
	recent, err := RecentSearches("mods", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
