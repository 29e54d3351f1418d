// Package render turns normalized API results into Markdown-ish reports for
// LLM callers. Formatting is best-effort and total: missing fields fall back
// to placeholders, and identical input always produces identical output.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
	"github.com/ChangooLee/mcp-kr-legislation/internal/sanitize"
)

// DefaultMaxResults limits how many items a search report lists.
const DefaultMaxResults = 50

// Options configures one search report.
type Options struct {
	// Target is the upstream API target the response came from
	Target string

	// Query is echoed in the report header
	Query string

	// MaxResults caps listed items; zero means DefaultMaxResults
	MaxResults int

	// DetailTool, when set, names the follow-up tool in per-item hints
	DetailTool string

	// DetailArg is the hint's argument name (default "id")
	DetailArg string
}

// titleKeys are tried in order for each item's heading. Upstream key names
// are inconsistent across targets, so the list is long on purpose.
var titleKeys = []string{
	"법령명한글", "법령명", "제목", "title", "명칭", "name",
	"현행법령명", "법령명국문", "국문법령명", "lawNm", "lawName",
	"신구법명", "법령약칭명",
	"조약명한글", "조약명",
	"별표명", "서식명", "별표서식명",
	"관련법령명", "기준법령명",
	"분류명", "행정규칙명", "자치법규명",
	"안건명", "사건명", "재판사건명",
	"용어명",
}

// detailField is one labeled line under an item heading.
type detailField struct {
	label string
	keys  []string
}

// detailFields lists the fixed per-item metadata lines, in display order.
var detailFields = []detailField{
	{"법령ID", []string{"법령ID", "ID", "lawId"}},
	{"법령일련번호", []string{"법령일련번호", "MST", "mst", "lawMst", "일련번호"}},
	{"판례일련번호", []string{"판례일련번호", "판례정보일련번호"}},
	{"결정문일련번호", []string{"결정문일련번호", "헌재결정례일련번호"}},
	{"법령해석례일련번호", []string{"법령해석례일련번호"}},
	{"행정규칙일련번호", []string{"행정규칙일련번호", "행정규칙MST"}},
	{"자치법규일련번호", []string{"자치법규일련번호", "자치법규MST"}},
	{"조약일련번호", []string{"조약일련번호", "조약MST"}},
	{"사건번호", []string{"사건번호"}},
	{"법원명", []string{"법원명"}},
	{"선고일자", []string{"선고일자"}},
	{"의결일", []string{"의결일", "의결일자"}},
	{"공포일자", []string{"공포일자", "공포일", "공포년월일"}},
	{"시행일자", []string{"시행일자", "시행일", "시행년월일"}},
	{"소관부처명", []string{"소관부처명", "소관부처", "주무부처"}},
	{"법령구분명", []string{"법령구분명", "법령구분", "법령종류"}},
	{"제개정구분명", []string{"제개정구분명", "제개정구분", "개정구분"}},
}

// idKeys are tried in order when building the follow-up hint.
var idKeys = []string{
	"법령일련번호", "판례일련번호", "판례정보일련번호", "헌재결정례일련번호",
	"결정문일련번호", "법령해석례일련번호", "행정규칙일련번호",
	"자치법규일련번호", "조약일련번호", "용어일련번호",
	"MST", "mst", "법령ID", "ID", "일련번호",
}

// SearchReport renders one search response as a text report.
func SearchReport(n envelope.Normalized, opts Options) string {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if !n.Success {
		return emptyReport(n, opts)
	}

	items := n.Items
	if isLawTarget(opts.Target) {
		items = sortExactMatchFirst(items, opts.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**'%s' 검색 결과** (총 %d건", opts.Query, n.TotalCount)
	if n.TotalCount > maxResults {
		fmt.Fprintf(&b, ", 상위 %d건 표시", maxResults)
	}
	b.WriteString(")\n\n")

	if len(items) > maxResults {
		items = items[:maxResults]
	}

	for i, item := range items {
		writeItem(&b, i+1, item, opts)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeItem(b *strings.Builder, index int, item envelope.Record, opts Options) {
	fmt.Fprintf(b, "**%d. %s**\n", index, itemTitle(item, opts.Target))

	for _, field := range detailFields {
		if value := firstField(item, field.keys); value != "" {
			if field.label == "소관부처명" {
				value = firstMinistry(value)
			}
			fmt.Fprintf(b, "   %s: %s\n", field.label, value)
		}
	}

	if opts.DetailTool != "" {
		if id := firstField(item, idKeys); id != "" {
			arg := opts.DetailArg
			if arg == "" {
				arg = "id"
			}
			fmt.Fprintf(b, "   상세조회: %s(%s=%q)\n", opts.DetailTool, arg, id)
		}
	}
	b.WriteString("\n")
}

// itemTitle picks the best available heading for an item.
func itemTitle(item envelope.Record, target string) string {
	// English laws lead with the English name, Korean name in parens.
	if target == "elaw" {
		if en := fieldString(item, "법령명영문"); en != "" {
			if ko := fieldString(item, "법령명한글"); ko != "" {
				return en + " (" + ko + ")"
			}
			return en
		}
	}

	if title := firstField(item, titleKeys); title != "" {
		return title
	}

	// Deleted-law records carry no name at all, only a serial number.
	if target == "delHst" {
		kind := fieldString(item, "구분명")
		if kind == "" {
			kind = "법령"
		}
		return fmt.Sprintf("삭제된 %s (일련번호: %s)", kind, fieldString(item, "일련번호"))
	}

	return "제목 없음"
}

// emptyReport distinguishes zero hits from parse failures. Both render as
// advisory text; neither is a protocol error.
func emptyReport(n envelope.Normalized, opts Options) string {
	if n.Err != "" && strings.Contains(n.Err, envelope.ErrParseFailure.Error()) {
		return fmt.Sprintf(
			"'%s'에 대한 검색 결과를 해석하지 못했습니다.\n\n응답 최상위 키: %s\n타겟: %s\n\n다른 검색어로 다시 시도해 보세요.",
			opts.Query, strings.Join(n.RawKeys, ", "), opts.Target)
	}
	return fmt.Sprintf("'%s'에 대한 검색 결과가 없습니다.", opts.Query)
}

// sortExactMatchFirst stably orders law search hits: exact title match,
// prefix match, substring match, then the rest.
func sortExactMatchFirst(items []envelope.Record, query string) []envelope.Record {
	normalized := strings.ToLower(strings.ReplaceAll(query, " ", ""))

	rank := func(item envelope.Record) int {
		title := firstField(item, []string{"법령명한글", "법령명", "법령명영문"})
		title = strings.ToLower(strings.ReplaceAll(title, " ", ""))
		switch {
		case title == normalized:
			return 0
		case strings.HasPrefix(title, normalized):
			return 1
		case strings.Contains(title, normalized):
			return 2
		default:
			return 3
		}
	}

	sorted := make([]envelope.Record, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i]) < rank(sorted[j])
	})
	return sorted
}

func isLawTarget(target string) bool {
	return target == "law" || target == "elaw" || target == "eflaw"
}

// firstField returns the first non-empty, cleaned value among keys.
func firstField(item envelope.Record, keys []string) string {
	for _, key := range keys {
		if value := fieldString(item, key); value != "" {
			return value
		}
	}
	return ""
}

// fieldString renders a single field as cleaned text. Arrays use the first
// element; numbers drop the float64 decoding artifacts.
func fieldString(item envelope.Record, key string) string {
	switch v := item[key].(type) {
	case string:
		return sanitize.CleanHTML(v)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return sanitize.CleanHTML(s)
			}
		}
	}
	return ""
}

// firstMinistry deduplicates comma-joined ministry names, keeping the first.
func firstMinistry(value string) string {
	if !strings.Contains(value, ",") {
		return value
	}
	parts := strings.Split(value, ",")
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return value
}
