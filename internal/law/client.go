// Package law implements the statute tools: current-law search and detail,
// English translations, effective-law listings, and the history/comparison
// targets that hang off the same API family.
package law

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ChangooLee/mcp-kr-legislation/internal/base"
	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
	apierr "github.com/ChangooLee/mcp-kr-legislation/internal/errors"
	"github.com/ChangooLee/mcp-kr-legislation/internal/render"
	"github.com/ChangooLee/mcp-kr-legislation/internal/sanitize"
)

// DefaultArticleCount is how many articles an articles-range request
// returns when count is not given.
const DefaultArticleCount = 10

// Client provides the statute tools on top of the shared upstream client.
type Client struct {
	*base.Client
}

// NewClient wraps the shared base client.
func NewClient(b *base.Client) *Client {
	return &Client{Client: b}
}

// SearchLaw searches current laws by name or full text.
func (c *Client) SearchLaw(ctx context.Context, args SearchLawArgs) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return SearchResult{}, apierr.NewValidationError("query", "", "검색어를 입력해 주세요")
	}

	params := url.Values{}
	params.Set("query", args.Query)
	if args.Search == 2 {
		params.Set("search", "2")
		params.Set("section", "bdyText")
	}
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)
	setStr(params, "org", args.Org)
	setStr(params, "knd", args.Knd)
	setStr(params, "sort", args.Sort)
	setStr(params, "date", args.Date)
	setStr(params, "efYd", args.EfYd)
	setStr(params, "ancYd", args.AncYd)
	setStr(params, "nb", args.Nb)
	setStr(params, "rrClsCd", args.RrClsCd)

	return c.runSearch(ctx, "law", args.Query, params, render.Options{
		Target:     "law",
		Query:      args.Query,
		DetailTool: "get_law_detail",
	})
}

// GetLawDetail retrieves one law's full text by ID, serial number, or name.
func (c *Client) GetLawDetail(ctx context.Context, args LawDetailArgs) (DetailResult, error) {
	params, id, err := detailParams(args)
	if err != nil {
		return DetailResult{}, err
	}

	raw, err := c.ServiceCached(ctx, "law", id, "", params)
	if err != nil {
		return DetailResult{}, err
	}

	body, ok := detailBody(raw)
	if !ok {
		return DetailResult{}, fmt.Errorf("law detail: %w (keys: %s)",
			envelope.ErrParseFailure, strings.Join(envelope.SortedKeys(raw), ", "))
	}

	return DetailResult{Report: lawDetailReport(body, 0, DefaultArticleCount), Source: "json"}, nil
}

// GetLawArticlesRange returns a span of articles from one law. The full
// text is served from the detail disk cache, so paging through a long law
// costs one upstream call.
func (c *Client) GetLawArticlesRange(ctx context.Context, args ArticlesRangeArgs) (DetailResult, error) {
	params, id, err := detailParams(LawDetailArgs{ID: args.ID, MST: args.MST})
	if err != nil {
		return DetailResult{}, err
	}
	if args.From <= 0 {
		return DetailResult{}, apierr.NewValidationError("from", strconv.Itoa(args.From), "시작 조문 번호는 1 이상이어야 합니다")
	}
	count := args.Count
	if count <= 0 {
		count = DefaultArticleCount
	}

	raw, err := c.ServiceCached(ctx, "law", id, "", params)
	if err != nil {
		return DetailResult{}, err
	}
	body, ok := detailBody(raw)
	if !ok {
		return DetailResult{}, fmt.Errorf("law detail: %w", envelope.ErrParseFailure)
	}

	return DetailResult{Report: lawDetailReport(body, args.From, count), Source: "json"}, nil
}

// SearchEnglishLaw searches the English translations (elaw).
func (c *Client) SearchEnglishLaw(ctx context.Context, args SearchEnglishLawArgs) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return SearchResult{}, apierr.NewValidationError("query", "", "검색어를 입력해 주세요")
	}

	params := url.Values{}
	params.Set("query", args.Query)
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)

	return c.runSearch(ctx, "elaw", args.Query, params, render.Options{
		Target:     "elaw",
		Query:      args.Query,
		DetailTool: "get_english_law_detail",
	})
}

// GetEnglishLawDetail retrieves one English translation.
func (c *Client) GetEnglishLawDetail(ctx context.Context, args LawDetailArgs) (DetailResult, error) {
	params, id, err := detailParams(args)
	if err != nil {
		return DetailResult{}, err
	}

	raw, err := c.ServiceCached(ctx, "elaw", id, "", params)
	if err != nil {
		return DetailResult{}, err
	}
	body, ok := detailBody(raw)
	if !ok {
		return DetailResult{}, fmt.Errorf("english law detail: %w", envelope.ErrParseFailure)
	}
	return DetailResult{Report: lawDetailReport(body, 0, DefaultArticleCount), Source: "json"}, nil
}

// SearchEffectiveLaw searches effective laws, optionally including ones
// not yet in force.
func (c *Client) SearchEffectiveLaw(ctx context.Context, args SearchEffectiveLawArgs) (SearchResult, error) {
	params := url.Values{}
	params.Set("query", args.Query)
	if args.Status >= 1 && args.Status <= 3 {
		params.Set("nw", strconv.Itoa(args.Status))
	}
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)

	return c.runSearch(ctx, "eflaw", args.Query, params, render.Options{
		Target:     "eflaw",
		Query:      args.Query,
		DetailTool: "get_law_detail",
	})
}

// SearchLawHistory lists every revision of laws matching the query. This
// target is one of the slow ones upstream.
func (c *Client) SearchLawHistory(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "lsHstInf", args, "get_law_detail")
}

// SearchLawNickname resolves well-known nicknames (김영란법 etc.) to the
// formal law name.
func (c *Client) SearchLawNickname(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "lsAbrv", args, "get_law_detail")
}

// SearchDeletedLawData lists deleted law records.
func (c *Client) SearchDeletedLawData(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "delHst", args, "")
}

// SearchOldAndNewLaw searches old-and-new comparison tables.
func (c *Client) SearchOldAndNewLaw(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "oldAndNew", args, "")
}

// SearchThreeWayComparison searches the three-way (현행/개정/연혁)
// comparison tables.
func (c *Client) SearchThreeWayComparison(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "thdCmp", args, "")
}

// SearchLawAppendix searches appendices and attached forms (별표서식).
func (c *Client) SearchLawAppendix(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "licbyl", args, "")
}

// SearchLawSystemDiagram searches the law system diagrams. Slow target.
func (c *Client) SearchLawSystemDiagram(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "lsStmd", args, "")
}

// SearchRelatedLaws lists laws related to the query.
func (c *Client) SearchRelatedLaws(ctx context.Context, args SearchQueryArgs) (SearchResult, error) {
	return c.simpleSearch(ctx, "lnkLs", args, "get_law_detail")
}

// SearchDelegatedLaw retrieves the delegated-legislation view of one law:
// which 시행령/시행규칙 provisions each article delegates to.
func (c *Client) SearchDelegatedLaw(ctx context.Context, args LawDetailArgs) (DetailResult, error) {
	params, id, err := detailParams(args)
	if err != nil {
		return DetailResult{}, err
	}

	raw, err := c.ServiceCached(ctx, "lsDelegated", id, "delegated", params)
	if err != nil {
		return DetailResult{}, err
	}
	body, ok := detailBody(raw)
	if !ok {
		return DetailResult{}, fmt.Errorf("delegated law: %w", envelope.ErrParseFailure)
	}
	title := recordString(body, "기본정보", "법령명_한글")
	if title == "" {
		title = "위임법령"
	}
	return DetailResult{Report: render.DetailReport(title, flatten(body)), Source: "json"}, nil
}

// runSearch is the shared search flow: fetch, normalize, render.
func (c *Client) runSearch(ctx context.Context, target, query string, params url.Values, opts render.Options) (SearchResult, error) {
	raw, err := c.SearchCached(ctx, target, params)
	if err != nil {
		return SearchResult{}, err
	}

	n := envelope.Normalize(raw, target, true)
	if total, ok := envelope.TotalCount(raw, target); ok && total > n.TotalCount {
		n.TotalCount = total
	}

	return SearchResult{
		Report:     render.SearchReport(n, opts),
		TotalCount: n.TotalCount,
		Count:      len(n.Items),
	}, nil
}

func (c *Client) simpleSearch(ctx context.Context, target string, args SearchQueryArgs, detailTool string) (SearchResult, error) {
	params := url.Values{}
	params.Set("query", args.Query)
	setInt(params, "display", args.Display)
	setInt(params, "page", args.Page)

	return c.runSearch(ctx, target, args.Query, params, render.Options{
		Target:     target,
		Query:      args.Query,
		DetailTool: detailTool,
	})
}

// detailParams validates and translates a detail request. Exactly one of
// ID, MST, or LM must be set.
func detailParams(args LawDetailArgs) (url.Values, string, error) {
	params := url.Values{}
	switch {
	case args.ID != "":
		params.Set("ID", args.ID)
		return params, args.ID, nil
	case args.MST != "":
		params.Set("MST", args.MST)
		return params, args.MST, nil
	case args.LM != "":
		params.Set("LM", args.LM)
		return params, args.LM, nil
	default:
		return nil, "", apierr.NewValidationError("id", "", "법령ID, 법령일련번호(MST), 법령명(LM) 중 하나가 필요합니다")
	}
}

// detailBody unwraps the single-object detail envelope.
func detailBody(raw map[string]any) (map[string]any, bool) {
	for _, key := range []string{"법령", "Law", "law"} {
		if body, ok := raw[key].(map[string]any); ok {
			return body, true
		}
	}
	return nil, false
}

// lawDetailReport renders a law detail payload: the basic-info block, then
// a window of articles. from==0 starts at the first article.
func lawDetailReport(body map[string]any, from, count int) string {
	var b strings.Builder

	basic, _ := body["기본정보"].(map[string]any)
	title := recordString(basic, "법령명_한글")
	if title == "" {
		title = recordString(basic, "법령명한글")
	}
	if title == "" {
		title = "법령 상세"
	}
	fmt.Fprintf(&b, "**%s**\n\n", title)

	if len(basic) > 0 {
		b.WriteString("**[기본정보]**\n")
		for _, key := range sortedScalarKeys(basic) {
			fmt.Fprintf(&b, "%s: %s\n", strings.ReplaceAll(key, "_", ""), scalarString(basic[key]))
		}
		b.WriteString("\n")
	}

	articles := articleUnits(body)
	if len(articles) == 0 {
		b.WriteString("조문 정보가 없습니다.\n")
		return strings.TrimRight(b.String(), "\n")
	}

	if from > 0 {
		articles = filterArticles(articles, from, count)
		if len(articles) == 0 {
			fmt.Fprintf(&b, "제%d조부터의 조문을 찾지 못했습니다.\n", from)
			return strings.TrimRight(b.String(), "\n")
		}
	} else if len(articles) > count {
		articles = articles[:count]
	}

	b.WriteString("**[조문]**\n\n")
	for _, article := range articles {
		text := sanitize.CleanHTML(recordString(article, "조문내용"))
		if text == "" {
			continue
		}
		b.WriteString(sanitize.TruncateForLLM(text, 1500, "..."))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// articleUnits digs the article array out of the detail payload. The shape
// is 조문 → 조문단위, where both levels may be a single object instead of
// an array.
func articleUnits(body map[string]any) []map[string]any {
	jo, ok := body["조문"]
	if !ok {
		return nil
	}

	var units any
	switch v := jo.(type) {
	case map[string]any:
		units = v["조문단위"]
	case []any:
		units = v
	default:
		return nil
	}

	switch v := units.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{v}
	}
	return nil
}

// filterArticles keeps count articles starting at number from, skipping
// non-article rows (장/절 headings carry 조문여부 != "조문").
func filterArticles(articles []map[string]any, from, count int) []map[string]any {
	var out []map[string]any
	for _, a := range articles {
		if kind := recordString(a, "조문여부"); kind != "" && kind != "조문" {
			continue
		}
		num, err := strconv.Atoi(recordString(a, "조문번호"))
		if err != nil || num < from {
			continue
		}
		out = append(out, a)
		if len(out) >= count {
			break
		}
	}
	return out
}

// flatten turns a nested detail payload into one flat record for
// render.DetailReport, joining nested keys with a dot.
func flatten(body map[string]any) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, value any)
	walk = func(prefix string, value any) {
		switch v := value.(type) {
		case map[string]any:
			for key, inner := range v {
				next := key
				if prefix != "" {
					next = prefix + "." + key
				}
				walk(next, inner)
			}
		case []any:
			// Arrays render their first few entries only.
			for i, inner := range v {
				if i >= 5 {
					break
				}
				walk(fmt.Sprintf("%s[%d]", prefix, i+1), inner)
			}
		default:
			if s := scalarString(v); s != "" {
				out[prefix] = s
			}
		}
	}
	walk("", body)
	return out
}

func recordString(m map[string]any, keys ...string) string {
	cur := any(m)
	for _, key := range keys {
		inner, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = inner[key]
	}
	return scalarString(cur)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", s), ".0")
	}
	return ""
}

func sortedScalarKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key, value := range m {
		if scalarString(value) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
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
