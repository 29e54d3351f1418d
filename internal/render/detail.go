package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
	"github.com/ChangooLee/mcp-kr-legislation/internal/sanitize"
)

// maxDetailValue caps a single field in a detail report. Long body sections
// (판결요지, 이유, …) can run to tens of thousands of characters.
const maxDetailValue = 2000

// DetailReport renders a detail record as labeled lines under a heading.
// Scalar fields print directly; nested structures are skipped.
func DetailReport(title string, rec envelope.Record) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "**%s**\n%s\n\n", title, strings.Repeat("=", 40))
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wrote := false
	for _, k := range keys {
		value := fieldString(rec, k)
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", k, sanitize.TruncateForLLM(value, maxDetailValue, "..."))
		wrote = true
	}
	if !wrote {
		b.WriteString("표시할 내용이 없습니다.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SectionsReport renders parsed HTML detail sections in a stable order:
// well-known section names first, everything else alphabetically after.
func SectionsReport(title string, sections map[string]string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "**%s**\n%s\n\n", title, strings.Repeat("=", 40))
	}
	if len(sections) == 0 {
		b.WriteString("상세 내용을 추출하지 못했습니다.")
		return b.String()
	}

	preferred := []string{
		"사건명", "안건명", "제목",
		"판시사항", "판결요지", "결정요지", "질의요지", "회신내용", "해석내용",
		"주문", "이유", "결정내용", "내용",
	}
	seen := map[string]bool{}
	for _, name := range preferred {
		if text, ok := sections[name]; ok && text != "" {
			writeSection(&b, name, text)
			seen[name] = true
		}
	}

	rest := make([]string, 0, len(sections))
	for name := range sections {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		writeSection(&b, name, sections[name])
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, name, text string) {
	fmt.Fprintf(b, "### %s\n%s\n\n", name, sanitize.TruncateForLLM(text, maxDetailValue, "..."))
}

// HTMLFallback points the caller at the website when an endpoint refuses to
// serve JSON. Some detail endpoints are HTML-only.
func HTMLFallback(target, id, link string) string {
	return fmt.Sprintf(
		"이 항목(%s, ID: %s)은 JSON 응답을 지원하지 않습니다.\n\n법제처 웹사이트에서 직접 확인하세요: %s",
		target, id, link)
}

// RequestFailure renders a network or upstream failure as advisory text
// with a retry suggestion, per the no-exceptions contract of tool calls.
func RequestFailure(query string, err error) string {
	return fmt.Sprintf(
		"'%s' 요청 처리 중 오류가 발생했습니다: %v\n\n잠시 후 다시 시도하거나, 검색어를 바꿔서 시도해 보세요.",
		query, err)
}
