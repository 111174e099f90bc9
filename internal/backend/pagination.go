package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const maxPages = 1000

// Page is the paginated envelope of list endpoints.
type Page[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// ListAll follows next links until the collection is exhausted. Endpoints
// answering with a bare array are accepted as a single page.
func ListAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	next, q := path, query
	seen := map[string]bool{}

	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("%s: more than %d pages", path, maxPages)
		}
		if seen[next] {
			break
		}
		seen[next] = true

		var raw json.RawMessage
		if err := c.Get(ctx, next, q, &raw); err != nil {
			return nil, err
		}
		items, nextURL, err := decodePage[T](raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s page %d: %w", path, page+1, err)
		}
		all = append(all, items...)
		next, q = nextURL, nil
	}
	return all, nil
}

func decodePage[T any](raw json.RawMessage) ([]T, string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, "", nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, "", err
		}
		return items, "", nil
	}
	var p Page[T]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, "", err
	}
	next := ""
	if p.Next != nil {
		next = *p.Next
	}
	return p.Results, next, nil
}
