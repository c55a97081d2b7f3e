// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/company-dns/pkg/types"
)

// SearchResult is the outcome of a global industry-code search.
type SearchResult struct {
	// Codes are in the server's relevance order.
	Codes []types.IndustryCode

	// Total is the server-reported match count, which may exceed len(Codes).
	Total int

	Message string
}

type searchResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Results []types.IndustryCode `json:"results"`
		Total   int                  `json:"total"`
	} `json:"data"`
}

// SearchIndustryCodes searches every taxonomy for descriptions matching
// query. A 404 with a JSON body is the server's "nothing matched" and
// yields an empty result, not an error.
func (c *Client) SearchIndustryCodes(ctx context.Context, query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{}, ErrEmptyQuery
	}
	path := "/V3.0/global/sic/description/" + url.PathEscape(q)

	var resp searchResponse
	err := c.Get(ctx, path, &resp, GetOptions{Operation: "search", CacheTTL: c.cfg.SearchCacheTTL})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 && json.Valid(apiErr.Body) {
			c.logger.Debug("search matched nothing", "query", q)
			return SearchResult{Codes: []types.IndustryCode{}, Message: apiErr.Message}, nil
		}
		return SearchResult{}, fmt.Errorf("searching industry codes for %q: %w", q, err)
	}

	codes := make([]types.IndustryCode, 0, len(resp.Data.Results))
	for _, code := range resp.Data.Results {
		if st, ok := types.ParseSourceType(string(code.SourceType)); ok {
			code.SourceType = st
		}
		codes = append(codes, code)
	}
	total := resp.Data.Total
	if total < len(codes) {
		total = len(codes)
	}
	return SearchResult{Codes: codes, Total: total, Message: resp.Message}, nil
}

// FetchIndustryCodes adapts SearchIndustryCodes to a session fetch function.
func (c *Client) FetchIndustryCodes(ctx context.Context, query string) ([]types.IndustryCode, error) {
	res, err := c.SearchIndustryCodes(ctx, query)
	if err != nil {
		return nil, err
	}
	return res.Codes, nil
}

// SICDetails returns the V2.0 SIC description lookup for code. The
// response is static reference data and is cached for the static TTL.
func (c *Client) SICDetails(ctx context.Context, code string) (json.RawMessage, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyQuery
	}
	body, err := c.GetRaw(ctx, "/V2.0/sic/description/"+url.PathEscape(code),
		GetOptions{Operation: "sic_details", CacheTTL: c.cfg.StaticCacheTTL})
	if err != nil {
		return nil, fmt.Errorf("fetching SIC details for %q: %w", code, err)
	}
	return body, nil
}

// Health calls the service health endpoint. It is never cached.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	body, err := c.GetRaw(ctx, "/health", GetOptions{Operation: "health"})
	if err != nil {
		return nil, fmt.Errorf("checking health: %w", err)
	}
	return body, nil
}
