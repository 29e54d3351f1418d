// Package legalterm implements legal-term lookup (법령용어), including the
// AI-curated term target.
package legalterm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ChangooLee/mcp-kr-legislation/internal/base"
	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
	apierr "github.com/ChangooLee/mcp-kr-legislation/internal/errors"
	"github.com/ChangooLee/mcp-kr-legislation/internal/render"
	"github.com/ChangooLee/mcp-kr-legislation/internal/sanitize"
)

// SearchArgs contains parameters for term search.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"법령용어 (예: 선의취득)"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// DetailArgs identifies one term.
type DetailArgs struct {
	ID    string `json:"id,omitempty" jsonschema_description:"법령용어 일련번호"`
	Query string `json:"query,omitempty" jsonschema_description:"용어명으로 조회 (일련번호 대신)"`
}

// SearchResult is the uniform search outcome.
type SearchResult struct {
	Report     string `json:"report"`
	TotalCount int    `json:"total_count"`
	Count      int    `json:"count"`
}

// ReportText returns the rendered report for the MCP text block.
func (r SearchResult) ReportText() string { return r.Report }

// DetailResult is the uniform detail outcome.
type DetailResult struct {
	Report string `json:"report"`
	Source string `json:"source,omitempty"`
}

// ReportText returns the rendered report for the MCP text block.
func (r DetailResult) ReportText() string { return r.Report }

// Client provides the legal-term tools on top of the shared upstream
// client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// SearchLegalTerm searches the legal-term dictionary.
func (c *Client) SearchLegalTerm(ctx context.Context, args SearchArgs) (SearchResult, error) {
	return c.search(ctx, "lstrm", args)
}

// SearchAILegalTerm searches the AI-curated term data, which links terms
// to related statutes and daily-language equivalents.
func (c *Client) SearchAILegalTerm(ctx context.Context, args SearchArgs) (SearchResult, error) {
	return c.search(ctx, "lstrmAI", args)
}

func (c *Client) search(ctx context.Context, target string, args SearchArgs) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return SearchResult{}, apierr.NewValidationError("query", "", "검색어를 입력해 주세요")
	}

	params := url.Values{}
	params.Set("query", args.Query)
	if args.Display > 0 {
		params.Set("display", strconv.Itoa(args.Display))
	}
	if args.Page > 0 {
		params.Set("page", strconv.Itoa(args.Page))
	}

	raw, err := c.SearchCached(ctx, target, params)
	if err != nil {
		return SearchResult{}, err
	}

	n := envelope.Normalize(raw, target, true)
	if total, ok := envelope.TotalCount(raw, target); ok && total > n.TotalCount {
		n.TotalCount = total
	}

	report := render.SearchReport(n, render.Options{
		Target:     target,
		Query:      args.Query,
		DetailTool: "get_legal_term_detail",
	})
	return SearchResult{Report: report, TotalCount: n.TotalCount, Count: len(n.Items)}, nil
}

// GetLegalTermDetail retrieves one term's definition.
func (c *Client) GetLegalTermDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	params := url.Values{}
	switch {
	case args.ID != "":
		params.Set("ID", args.ID)
	case args.Query != "":
		params.Set("query", args.Query)
	default:
		return DetailResult{}, apierr.NewValidationError("id", "", "일련번호 또는 용어명이 필요합니다")
	}

	key := args.ID
	if key == "" {
		key = args.Query
	}

	raw, err := c.ServiceCached(ctx, "lstrm", key, "", params)
	if err != nil {
		return DetailResult{}, err
	}

	for _, outer := range []string{"LsTrmService", "lstrm", "법령용어"} {
		if body, ok := raw[outer].(map[string]any); ok {
			title := "법령용어"
			if s, ok := body["법령용어명"].(string); ok && s != "" {
				title = sanitize.CleanHTML(s)
			} else if s, ok := body["용어명"].(string); ok && s != "" {
				title = sanitize.CleanHTML(s)
			}
			return DetailResult{Report: render.DetailReport(title, body), Source: "json"}, nil
		}
	}
	return DetailResult{}, fmt.Errorf("legal term detail: %w (keys: %s)",
		envelope.ErrParseFailure, strings.Join(envelope.SortedKeys(raw), ", "))
}
