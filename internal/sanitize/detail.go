package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DetailKind selects the extraction strategy for an HTML detail page.
// A few detail endpoints (court precedents among them) only serve HTML.
type DetailKind string

const (
	DetailPrecedent      DetailKind = "precedent"
	DetailConstitutional DetailKind = "detc"
	DetailInterpretation DetailKind = "expc"
	DetailGeneric        DetailKind = "generic"
)

// maxGenericBody caps the body text extracted from an unrecognized page.
const maxGenericBody = 5000

// ParseHTMLDetail extracts structured fields from an HTML detail response.
// Returns field name → cleaned text. An empty document yields an empty map.
func ParseHTMLDetail(htmlContent string, kind DetailKind) (map[string]string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return map[string]string{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	switch kind {
	case DetailPrecedent:
		return parseSectioned(doc, "사건명", []string{"판결요지", "이유", "주문", "판시사항"}), nil
	case DetailConstitutional:
		return parseSectioned(doc, "사건명", []string{"결정요지", "이유", "주문", "결정내용"}), nil
	case DetailInterpretation:
		return parseSectioned(doc, "안건명", []string{"질의요지", "회신내용", "이유", "해석내용"}), nil
	default:
		return parseGeneric(doc), nil
	}
}

// parseSectioned handles the common detail layout: a heading, metadata
// tables of th/td pairs, and named body sections.
func parseSectioned(doc *goquery.Document, titleField string, sections []string) map[string]string {
	result := map[string]string{}

	if title := firstHeading(doc, "h2", "h3", "title"); title != "" {
		result[titleField] = title
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := CleanHTML(cells.Eq(0).Text())
		value := CleanHTML(cells.Eq(1).Text())
		if key != "" && value != "" {
			result[key] = value
		}
	})

	for _, section := range sections {
		if text := sectionText(doc, section); text != "" {
			result[section] = text
		}
	}

	return result
}

func parseGeneric(doc *goquery.Document) map[string]string {
	result := map[string]string{}

	if title := firstHeading(doc, "h1", "h2", "h3"); title != "" {
		result["제목"] = title
	}

	body := doc.Find("body").Clone()
	body.Find("script, style").Remove()
	text := CleanHTML(body.Text())
	if len(text) > 100 {
		result["내용"] = TruncateForLLM(text, maxGenericBody, "")
	}

	return result
}

func firstHeading(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := CleanHTML(node.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// sectionText finds an element whose text names the section and returns the
// text of the sibling block that follows it.
func sectionText(doc *goquery.Document, name string) string {
	var found string
	doc.Find("div, p, td, th").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), name) {
			return true
		}
		next := sel.Next()
		if next.Length() == 0 {
			return true
		}
		if text := CleanHTML(next.Text()); text != "" && text != name {
			found = text
			return false
		}
		return true
	})
	return found
}
