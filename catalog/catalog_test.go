package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"craftdeck/bridge"
	"craftdeck/bridge/bridgetest"
	"craftdeck/catalog"
	"craftdeck/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modCorpus(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":    fmt.Sprintf("mod-%d", i),
			"slug":  fmt.Sprintf("mod-%d", i),
			"title": fmt.Sprintf("Mod %d", i),
		}
	}
	return out
}

func TestModSearchPagesThroughBackend(t *testing.T) {
	srv, err := bridgetest.New()
	require.NoError(t, err)
	defer srv.Close()
	srv.SetMods(modCorpus(47))

	client := bridge.NewClient(srv.SocketPath(), "craftdeck/test")
	cursor := pagination.New(catalog.ModSearch(client, catalog.SearchParams{Query: "sodium"}), 20)
	ctx := context.Background()

	require.NoError(t, cursor.Refresh(ctx))
	require.NoError(t, cursor.LoadMore(ctx))
	require.NoError(t, cursor.LoadMore(ctx))

	items := cursor.Items()
	assert.Len(t, items, 47)
	assert.False(t, cursor.HasMore())
	assert.Equal(t, "mod-0", items[0].ID)
	assert.Equal(t, "mod-46", items[46].ID)
}

func TestSearchErrorSurfacesAndRetries(t *testing.T) {
	srv, err := bridgetest.New()
	require.NoError(t, err)
	defer srv.Close()
	srv.SetMods(modCorpus(5))
	srv.FailSearch(true)

	client := bridge.NewClient(srv.SocketPath(), "craftdeck/test")
	cursor := pagination.New(catalog.ModSearch(client, catalog.SearchParams{}), 20)
	ctx := context.Background()

	require.Error(t, cursor.Refresh(ctx))
	assert.Empty(t, cursor.Items())

	srv.FailSearch(false)
	require.NoError(t, cursor.LoadMore(ctx))
	assert.Len(t, cursor.Items(), 5)
	assert.False(t, cursor.HasMore())
}

func TestNewsFeed(t *testing.T) {
	srv, err := bridgetest.New()
	require.NoError(t, err)
	defer srv.Close()
	srv.SetNews([]map[string]any{
		{"id": "n1", "title": "1.21 released", "url": "https://example.com/news/1"},
	})

	client := bridge.NewClient(srv.SocketPath(), "craftdeck/test")
	cursor := pagination.New(catalog.News(client), 20)

	require.NoError(t, cursor.Refresh(context.Background()))
	items := cursor.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1.21 released", items[0].Title)
	assert.False(t, cursor.HasMore())
}
