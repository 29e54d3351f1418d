// Package precedent implements the case-law tools: court precedents,
// Constitutional Court decisions, Ministry of Government Legislation
// interpretations, and administrative appeals.
package precedent

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

// Client provides the case-law tools on top of the shared upstream client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// SearchPrecedent searches court precedents with the full filter set.
func (c *Client) SearchPrecedent(ctx context.Context, args SearchPrecedentArgs) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" && args.CaseNo == "" && args.RefLaw == "" {
		return SearchResult{}, apierr.NewValidationError("query", "", "검색어, 사건번호, 참조법령 중 하나가 필요합니다")
	}

	params := url.Values{}
	params.Set("query", args.Query)
	if args.Search == 2 {
		params.Set("search", "2")
	}
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)
	setStr(params, "org", args.Court)
	setStr(params, "curt", args.CourtNm)
	setStr(params, "JO", args.RefLaw)
	setStr(params, "sort", args.Sort)
	setStr(params, "nb", args.CaseNo)
	setStr(params, "datSrcNm", args.Source)
	if args.DateFrom != "" && args.DateTo != "" {
		params.Set("prncYd", args.DateFrom+"~"+args.DateTo)
	}

	return c.runSearch(ctx, "prec", args.Query, params, "get_precedent_detail")
}

// GetPrecedentDetail retrieves one precedent. Decisions sourced from
// outside the court system only serve HTML; those are parsed, and when
// parsing yields nothing the report links the website instead.
func (c *Client) GetPrecedentDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "prec", args.ID, sanitize.DetailPrecedent)
}

// SearchConstitutionalCourt searches Constitutional Court decisions.
func (c *Client) SearchConstitutionalCourt(ctx context.Context, args SearchArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "detc", args, "get_constitutional_court_detail")
}

// GetConstitutionalCourtDetail retrieves one Constitutional Court decision.
func (c *Client) GetConstitutionalCourtDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "detc", args.ID, sanitize.DetailConstitutional)
}

// SearchLegalInterpretation searches Ministry of Government Legislation
// interpretations (법령해석례).
func (c *Client) SearchLegalInterpretation(ctx context.Context, args SearchArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "expc", args, "get_legal_interpretation_detail")
}

// GetLegalInterpretationDetail retrieves one interpretation.
func (c *Client) GetLegalInterpretationDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "expc", args.ID, sanitize.DetailInterpretation)
}

// SearchAdministrativeTrial searches administrative appeal decisions
// (행정심판례).
func (c *Client) SearchAdministrativeTrial(ctx context.Context, args SearchArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "decc", args, "get_administrative_trial_detail")
}

// GetAdministrativeTrialDetail retrieves one appeal decision.
func (c *Client) GetAdministrativeTrialDetail(ctx context.Context, args DetailArgs) (DetailResult, error) {
	return c.detail(ctx, "decc", args.ID, sanitize.DetailGeneric)
}

func (c *Client) simpleSearch(ctx context.Context, target string, args SearchArgs, detailTool string) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return SearchResult{}, apierr.NewValidationError("query", "", "검색어를 입력해 주세요")
	}
	params := url.Values{}
	params.Set("query", args.Query)
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)
	return c.runSearch(ctx, target, args.Query, params, detailTool)
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

// detail fetches a decision, preferring JSON and degrading to HTML parsing
// and finally to a bare link.
func (c *Client) detail(ctx context.Context, target, id string, kind sanitize.DetailKind) (DetailResult, error) {
	if strings.TrimSpace(id) == "" {
		return DetailResult{}, apierr.NewValidationError("id", "", "일련번호가 필요합니다")
	}

	params := url.Values{}
	params.Set("ID", id)

	raw, err := c.ServiceCached(ctx, target, id, "", params)
	if err == nil {
		return jsonDetail(raw, target)
	}

	htmlErr, ok := apierr.IsHTMLOnly(err)
	if !ok {
		return DetailResult{}, err
	}

	sections, perr := sanitize.ParseHTMLDetail(htmlErr.Body, kind)
	if perr == nil && len(sections) > 0 {
		title := sections["사건명"]
		if title == "" {
			title = sections["안건명"]
		}
		if title == "" {
			title = "상세 내용"
		}
		return DetailResult{Report: render.SectionsReport(title, sections), Source: "html"}, nil
	}

	link := c.ServiceHTMLURL(target, params)
	return DetailResult{Report: render.HTMLFallback(target, id, link), Source: "link"}, nil
}

// jsonDetail renders a JSON decision body. Detail envelopes use the same
// outer keys as search plus singular variants, so resolution is by scan.
func jsonDetail(raw map[string]any, target string) (DetailResult, error) {
	body, ok := detailBody(raw)
	if !ok {
		return DetailResult{}, fmt.Errorf("%s detail: %w (keys: %s)",
			target, envelope.ErrParseFailure, strings.Join(envelope.SortedKeys(raw), ", "))
	}

	title := firstString(body, "사건명", "안건명", "재판사건명", "제목")
	if title == "" {
		title = "상세 내용"
	}
	return DetailResult{Report: render.DetailReport(title, body), Source: "json"}, nil
}

// detailBody unwraps a single-decision envelope: either a known outer key
// holding the record directly, or one more nesting level below it.
func detailBody(raw map[string]any) (map[string]any, bool) {
	keys := []string{
		"PrecService", "prec", "판례",
		"DetcService", "detc", "헌재결정례",
		"ExpcService", "expc", "법령해석례",
		"DeccService", "decc", "행정심판례",
	}
	for _, key := range keys {
		inner, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		// Some envelopes nest the record one level deeper.
		for _, deep := range keys {
			if rec, ok := inner[deep].(map[string]any); ok {
				return rec, true
			}
		}
		return inner, true
	}
	return nil, false
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return sanitize.CleanHTML(s)
		}
	}
	return ""
}

func setInt(params url.Values, key string, value int) {
	if value > 0 {
		params.Set(key, strconv.Itoa(value))
	}
}

func setStr(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
