// Package treaty implements treaty search and detail (조약).
package treaty

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

// SearchArgs contains parameters for treaty search.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"조약명 또는 검색어"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// DetailArgs identifies one treaty.
type DetailArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"조약 일련번호"`
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

// Client provides the treaty tools on top of the shared upstream client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// SearchTreaty searches treaties by name.
func (c *Client) SearchTreaty(ctx context.Context, args SearchArgs) (SearchResult, error) {
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

	raw, err := c.SearchCached(ctx, "trty", params)
	if err != nil {
		return SearchResult{}, err
	}

	n := envelope.Normalize(raw, "trty", true)
	if total, ok := envelope.TotalCount(raw, "trty"); ok && total > n.TotalCount {
		n.TotalCount = total
	}

	report := render.SearchReport(n, render.Options{
		Target:     "trty",
		Query:      args.Query,
		DetailTool: "get_treaty_detail",
	})
	return SearchResult{Report: report, TotalCount: n.TotalCount, Count: len(n.Items)}, nil
}

// GetTreatyDetail retrieves one treaty.
func (c *Client) GetTreatyDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	if strings.TrimSpace(args.ID) == "" {
		return DetailResult{}, apierr.NewValidationError("id", "", "조약 일련번호가 필요합니다")
	}

	params := url.Values{}
	params.Set("ID", args.ID)

	raw, err := c.ServiceCached(ctx, "trty", args.ID, "", params)
	if err != nil {
		return DetailResult{}, err
	}

	for _, key := range []string{"TrtyService", "Trty", "trty", "조약"} {
		if body, ok := raw[key].(map[string]any); ok {
			title := "조약"
			for _, tk := range []string{"조약명한글", "조약명"} {
				if s, ok := body[tk].(string); ok && s != "" {
					title = sanitize.CleanHTML(s)
					break
				}
			}
			return DetailResult{Report: render.DetailReport(title, body), Source: "json"}, nil
		}
	}
	return DetailResult{}, fmt.Errorf("treaty detail: %w (keys: %s)",
		envelope.ErrParseFailure, strings.Join(envelope.SortedKeys(raw), ", "))
}
