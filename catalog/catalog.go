// Package catalog defines the typed shapes behind the mod, modpack, and
// news browsers. Search itself is a backend capability; this package only
// builds the query and feeds pages into a pagination cursor.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"craftdeck/bridge"
	"craftdeck/pagination"
)

// ModResult is one hit from a backend mod search.
type ModResult struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Downloads   int64    `json:"downloads"`
	IconURL     string   `json:"icon_url"`
	Color       int      `json:"color"`
	Categories  []string `json:"categories"`
}

// ModpackResult is one hit from a backend modpack search.
type ModpackResult struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Downloads   int64  `json:"downloads"`
	IconURL     string `json:"icon_url"`
	GameVersion string `json:"game_version"`
}

// NewsItem is one launcher news entry.
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// SearchParams filter a mod or modpack search. A change to any of them
// means the consumer should Refresh its cursor.
type SearchParams struct {
	Query       string
	GameVersion string
	Category    string
	Platform    string
}

func (p SearchParams) values(offset, limit int) url.Values {
	vals := url.Values{}
	if p.Query != "" {
		vals.Set("query", p.Query)
	}
	if p.GameVersion != "" {
		vals.Set("game_version", p.GameVersion)
	}
	if p.Category != "" {
		vals.Set("category", p.Category)
	}
	if p.Platform != "" {
		vals.Set("platform", p.Platform)
	}
	vals.Set("offset", strconv.Itoa(offset))
	vals.Set("limit", strconv.Itoa(limit))
	return vals
}

func searchPage[T any](client *bridge.Client, path string, params SearchParams) pagination.FetchFunc[T] {
	return func(ctx context.Context, offset, limit int) ([]T, error) {
		var out struct {
			Hits  []T `json:"hits"`
			Total int `json:"total"`
		}
		if err := client.GetJSON(ctx, path+"?"+params.values(offset, limit).Encode(), &out); err != nil {
			return nil, fmt.Errorf("search %s: %w", path, err)
		}
		return out.Hits, nil
	}
}

// ModSearch returns the page fetcher for a mod search with fixed params.
func ModSearch(client *bridge.Client, params SearchParams) pagination.FetchFunc[ModResult] {
	return searchPage[ModResult](client, "/search/mods", params)
}

// ModpackSearch returns the page fetcher for a modpack search.
func ModpackSearch(client *bridge.Client, params SearchParams) pagination.FetchFunc[ModpackResult] {
	return searchPage[ModpackResult](client, "/search/modpacks", params)
}

// News returns the page fetcher for the launcher news feed.
func News(client *bridge.Client) pagination.FetchFunc[NewsItem] {
	return searchPage[NewsItem](client, "/news", SearchParams{})
}
