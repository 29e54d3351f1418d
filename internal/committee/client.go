package committee

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

// Client provides committee decision tools on top of the shared upstream
// client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// Search looks up decisions of one committee.
func (c *Client) Search(ctx context.Context, target string, args SearchArgs) (SearchResult, error) {
	cm, ok := ByTarget(target)
	if !ok {
		return SearchResult{}, apierr.NewValidationError("target", target, "알 수 없는 위원회입니다")
	}
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
		DetailTool: "get_" + cm.Slug + "_decision_detail",
	})
	return SearchResult{Report: report, TotalCount: n.TotalCount, Count: len(n.Items)}, nil
}

// Detail retrieves one committee decision. Committees vary between JSON
// and HTML detail pages; both are handled.
func (c *Client) Detail(ctx context.Context, target string, args DetailArgs) (DetailResult, error) {
	if _, ok := ByTarget(target); !ok {
		return DetailResult{}, apierr.NewValidationError("target", target, "알 수 없는 위원회입니다")
	}
	if strings.TrimSpace(args.ID) == "" {
		return DetailResult{}, apierr.NewValidationError("id", "", "결정문 일련번호가 필요합니다")
	}

	params := url.Values{}
	params.Set("ID", args.ID)

	raw, err := c.ServiceCached(ctx, target, args.ID, "", params)
	if err == nil {
		body, ok := decisionBody(raw, target)
		if !ok {
			return DetailResult{}, fmt.Errorf("%s detail: %w", target, envelope.ErrParseFailure)
		}
		title := titleOf(body)
		return DetailResult{Report: render.DetailReport(title, body), Source: "json"}, nil
	}

	htmlErr, ok := apierr.IsHTMLOnly(err)
	if !ok {
		return DetailResult{}, err
	}

	sections, perr := sanitize.ParseHTMLDetail(htmlErr.Body, sanitize.DetailGeneric)
	if perr == nil && len(sections) > 0 {
		title := sections["제목"]
		if title == "" {
			title = "결정문"
		}
		return DetailResult{Report: render.SectionsReport(title, sections), Source: "html"}, nil
	}

	link := c.ServiceHTMLURL(target, params)
	return DetailResult{Report: render.HTMLFallback(target, args.ID, link), Source: "link"}, nil
}

// decisionBody unwraps the decision record. Committee detail envelopes use
// the capitalized target as outer key with the record directly or one
// level deeper under the target name.
func decisionBody(raw map[string]any, target string) (map[string]any, bool) {
	for _, key := range []string{outerKey(target), target, "Detc", "detc"} {
		inner, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		if rec, ok := inner[target].(map[string]any); ok {
			return rec, true
		}
		return inner, true
	}
	return nil, false
}

// outerKey capitalizes the target the way the envelope table does.
func outerKey(target string) string {
	if target == "" {
		return ""
	}
	return strings.ToUpper(target[:1]) + target[1:]
}

func titleOf(body map[string]any) string {
	for _, key := range []string{"안건명", "사건명", "제목", "결정례명"} {
		if s, ok := body[key].(string); ok && strings.TrimSpace(s) != "" {
			return sanitize.CleanHTML(s)
		}
	}
	return "결정문"
}
