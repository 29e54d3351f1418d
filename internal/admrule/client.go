// Package admrule implements the administrative-rule and local-ordinance
// tools (행정규칙, 자치법규).
package admrule

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

// Client provides the administrative-rule tools on top of the shared
// upstream client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// SearchAdministrativeRule searches 훈령/예규/고시 records.
func (c *Client) SearchAdministrativeRule(ctx context.Context, args SearchArgs) (SearchResult, error) {
	params, err := searchParams(args)
	if err != nil {
		return SearchResult{}, err
	}
	setStr(params, "org", args.Org)
	setStr(params, "knd", args.Knd)
	return c.runSearch(ctx, "admrul", args.Query, params, "get_administrative_rule_detail")
}

// GetAdministrativeRuleDetail retrieves one administrative rule.
func (c *Client) GetAdministrativeRuleDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "admrul", args, []string{"AdmRulService", "admrul", "행정규칙"}, "행정규칙")
}

// SearchAdmRuleComparison searches old-and-new comparison tables for
// administrative rules.
func (c *Client) SearchAdmRuleComparison(ctx context.Context, args SearchArgs) (SearchResult, error) {
	params, err := searchParams(args)
	if err != nil {
		return SearchResult{}, err
	}
	return c.runSearch(ctx, "admrulOldAndNew", args.Query, params, "")
}

// SearchOrdinance searches local government ordinances.
func (c *Client) SearchOrdinance(ctx context.Context, args SearchArgs) (SearchResult, error) {
	params, err := searchParams(args)
	if err != nil {
		return SearchResult{}, err
	}
	setStr(params, "org", args.Org)
	return c.runSearch(ctx, "ordin", args.Query, params, "get_ordinance_detail")
}

// GetOrdinanceDetail retrieves one ordinance.
func (c *Client) GetOrdinanceDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "ordin", args, []string{"OrdinService", "ordin", "자치법규", "법령"}, "자치법규")
}

// SearchOrdinanceAppendix searches ordinance appendices and forms.
func (c *Client) SearchOrdinanceAppendix(ctx context.Context, args SearchArgs) (SearchResult, error) {
	params, err := searchParams(args)
	if err != nil {
		return SearchResult{}, err
	}
	return c.runSearch(ctx, "ordinfd", args.Query, params, "")
}

// SearchLinkedOrdinance lists ordinances linked to a law.
func (c *Client) SearchLinkedOrdinance(ctx context.Context, args SearchArgs) (SearchResult, error) {
	params, err := searchParams(args)
	if err != nil {
		return SearchResult{}, err
	}
	return c.runSearch(ctx, "lnkLsOrd", args.Query, params, "get_ordinance_detail")
}

func searchParams(args SearchArgs) (url.Values, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, apierr.NewValidationError("query", "", "검색어를 입력해 주세요")
	}
	params := url.Values{}
	params.Set("query", args.Query)
	if args.Display > 0 {
		params.Set("display", strconv.Itoa(args.Display))
	}
	if args.Page > 0 {
		params.Set("page", strconv.Itoa(args.Page))
	}
	return params, nil
}

func (c *Client) runSearch(ctx context.Context, target, query string, params url.Values, detailTool string) (SearchResult, error) {
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
		Query:      query,
		DetailTool: detailTool,
	})
	return SearchResult{Report: report, TotalCount: n.TotalCount, Count: len(n.Items)}, nil
}

func (c *Client) detail(ctx context.Context, target string, args DetailArgs, bodyKeys []string, fallbackTitle string) (DetailResult, error) {
	if strings.TrimSpace(args.ID) == "" {
		return DetailResult{}, apierr.NewValidationError("id", "", "일련번호가 필요합니다")
	}

	params := url.Values{}
	params.Set("ID", args.ID)

	raw, err := c.ServiceCached(ctx, target, args.ID, "", params)
	if err != nil {
		if htmlErr, ok := apierr.IsHTMLOnly(err); ok {
			sections, perr := sanitize.ParseHTMLDetail(htmlErr.Body, sanitize.DetailGeneric)
			if perr == nil && len(sections) > 0 {
				return DetailResult{Report: render.SectionsReport(fallbackTitle, sections), Source: "html"}, nil
			}
			link := c.ServiceHTMLURL(target, params)
			return DetailResult{Report: render.HTMLFallback(target, args.ID, link), Source: "link"}, nil
		}
		return DetailResult{}, err
	}

	for _, key := range bodyKeys {
		if body, ok := raw[key].(map[string]any); ok {
			title := firstString(body, "행정규칙명", "자치법규명", "법령명한글", "제목")
			if title == "" {
				title = fallbackTitle
			}
			// Rule bodies nest basic info the way law details do.
			if basic, ok := body["기본정보"].(map[string]any); ok {
				if t := firstString(basic, "행정규칙명", "자치법규명"); t != "" {
					title = t
				}
			}
			return DetailResult{Report: render.DetailReport(title, flattenShallow(body)), Source: "json"}, nil
		}
	}
	return DetailResult{}, fmt.Errorf("%s detail: %w (keys: %s)",
		target, envelope.ErrParseFailure, strings.Join(envelope.SortedKeys(raw), ", "))
}

// flattenShallow lifts one nesting level so basic-info fields render as
// labeled lines.
func flattenShallow(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for key, value := range body {
		if inner, ok := value.(map[string]any); ok {
			for k, v := range inner {
				out[key+"."+k] = v
			}
			continue
		}
		out[key] = value
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return sanitize.CleanHTML(s)
		}
	}
	return ""
}

func setStr(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
