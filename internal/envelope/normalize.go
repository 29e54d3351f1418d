package envelope

import (
	"github.com/ChangooLee/mcp-kr-legislation/internal/sanitize"
	"github.com/ChangooLee/mcp-kr-legislation/metrics"
)

// Normalized is the uniform result every tool works from, regardless of
// which target produced the response.
type Normalized struct {
	// Success is true when at least one item was extracted
	Success bool `json:"success"`

	// Items are the extracted records, HTML-cleaned when requested
	Items []Record `json:"items"`

	// TotalCount is the number of extracted items. The envelope's own
	// totalCnt may be larger when the response is one page of many.
	TotalCount int `json:"total_count"`

	// Err carries the upstream "no match" message or a parse diagnostic
	Err string `json:"error,omitempty"`

	// RawKeys lists the response's top-level keys, for debugging
	RawKeys []string `json:"raw_keys"`
}

// Normalize resolves the envelope and optionally strips HTML from the
// well-known display fields of each item. Responses that resolved past the
// target's own envelope entry are counted, so a shifted upstream shape
// shows up on the metrics before the table entry goes stale.
func Normalize(raw map[string]any, target string, cleanHTML bool) Normalized {
	items, count, via, err := Resolve(raw, target)
	if via == ViaFallback || via == ViaGeneric {
		metrics.EnvelopeFallbacks.WithLabelValues(target).Inc()
	}

	if cleanHTML {
		for i, item := range items {
			items[i] = sanitize.CleanRecord(item, sanitize.SearchResultFields)
		}
	}

	n := Normalized{
		Success:    count > 0,
		Items:      items,
		TotalCount: count,
		RawKeys:    SortedKeys(raw),
	}
	if err != nil {
		n.Err = err.Error()
	}
	return n
}

// Category groups targets for field selection and formatting.
type Category string

const (
	CategoryLaw            Category = "law"
	CategoryPrecedent      Category = "prec"
	CategoryConstitutional Category = "detc"
	CategoryInterpretation Category = "expc"
	CategoryTrial          Category = "decc"
	CategoryCommittee      Category = "committee"
	CategoryAdmRule        Category = "admrul"
	CategoryOrdinance      Category = "ordin"
	CategoryMinistry       Category = "interpretation"
	CategoryTribunal       Category = "tribunal"
	CategoryTreaty         Category = "treaty"
	CategoryTerm           Category = "term"
	CategoryOther          Category = "other"
)

var committeeTargets = map[string]bool{
	"ppc": true, "fsc": true, "ftc": true, "acr": true, "nlrc": true,
	"ecc": true, "sfc": true, "nhrck": true, "kcc": true, "iaciac": true,
	"oclt": true, "eiac": true,
}

// CategoryOf maps a target to its formatting category.
func CategoryOf(target string) Category {
	switch target {
	case "law", "elaw", "eflaw", "eflawjosub", "lsHstInf", "lsAbrv", "delHst", "lnkLs":
		return CategoryLaw
	case "prec":
		return CategoryPrecedent
	case "detc":
		return CategoryConstitutional
	case "expc":
		return CategoryInterpretation
	case "decc":
		return CategoryTrial
	case "admrul", "admrulOldAndNew":
		return CategoryAdmRule
	case "ordin", "ordinfd", "lnkLsOrd":
		return CategoryOrdinance
	case "trty":
		return CategoryTreaty
	case "lstrm", "lstrmAI":
		return CategoryTerm
	}
	if committeeTargets[target] {
		return CategoryCommittee
	}
	if len(target) > len("CgmExpc") && target[len(target)-len("CgmExpc"):] == "CgmExpc" {
		return CategoryMinistry
	}
	if len(target) > len("SpecialDecc") && target[len(target)-len("SpecialDecc"):] == "SpecialDecc" {
		return CategoryTribunal
	}
	return CategoryOther
}
