package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// page is Plane's cursor-paginated list envelope.
type page[T any] struct {
	Results         []T    `json:"results"`
	NextCursor      string `json:"next_cursor"`
	NextPageResults bool   `json:"next_page_results"`
}

// decodePage accepts either a bare JSON array or the paginated envelope.
func decodePage[T any](body []byte) (page[T], error) {
	var p page[T]
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &p.Results); err != nil {
			return p, fmt.Errorf("failed to parse response: %w", err)
		}
		return p, nil
	}
	if err := decode(trimmed, &p); err != nil {
		return p, err
	}
	return p, nil
}

// listAll follows next_cursor until Plane reports no further pages or the
// client's page cap is reached.
func listAll[T any](ctx context.Context, c *Client, segments ...string) ([]T, error) {
	var all []T
	cursor := ""

	for pageNum := 0; pageNum < c.maxPages; pageNum++ {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(c.pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		endpoint, err := c.projectsURL(query, segments...)
		if err != nil {
			return nil, err
		}

		resp, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		if err := c.expect(http.MethodGet, endpoint, resp, http.StatusOK); err != nil {
			return nil, err
		}

		p, err := decodePage[T](resp.Body)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)

		if !p.NextPageResults || p.NextCursor == "" || p.NextCursor == cursor {
			return all, nil
		}
		cursor = p.NextCursor
	}

	c.logger.Warn("Stopped listing at page limit",
		zap.Int("max_pages", c.maxPages),
		zap.Int("items", len(all)))
	return all, nil
}
