// Package envelope normalizes the Ministry of Legislation API's response
// shapes. Each API target nests its result array under a different pair of
// envelope keys; this package maps every known target to a uniform
// (items, count, error) triple.
package envelope

import (
	"errors"
	"fmt"
	"sort"
)

// Record is one search hit or entity. Field names vary per target and are
// mostly Korean (법령명, 사건명, …); no schema is shared beyond that.
type Record = map[string]any

// Entry identifies where a target's result array lives in the response:
// raw[Outer][Inner] is the array (or a bare object for a single hit).
type Entry struct {
	Target string
	Outer  string
	Inner  string
}

// table maps targets to envelope keys. Order matters: the fallback scan in
// ExtractItems walks entries in declaration order, so more common envelopes
// come first. Some entries reflect observed API quirks rather than
// documentation; cmd/probe validates them against live responses.
var table = []Entry{
	// 법령 (laws)
	{"law", "LawSearch", "law"},
	{"elaw", "LawSearch", "law"},
	{"eflaw", "LawSearch", "law"},
	{"eflawjosub", "LawSearch", "eflawjosub"},
	{"lsHstInf", "LawSearch", "law"},
	{"lsAbrv", "LawSearch", "law"},
	{"delHst", "LawSearch", "law"},
	{"lnkLs", "LawSearch", "law"},

	// 판례 (precedents and decisions)
	{"prec", "PrecSearch", "prec"},
	{"detc", "DetcSearch", "Detc"},
	{"expc", "Expc", "expc"},
	{"decc", "Decc", "decc"},

	// 위원회결정문 (committee decisions)
	{"ppc", "Ppc", "ppc"},
	{"fsc", "Fsc", "fsc"},
	{"ftc", "Ftc", "ftc"},
	{"acr", "Acr", "acr"},
	{"nlrc", "Nlrc", "nlrc"},
	{"ecc", "Ecc", "ecc"},
	{"sfc", "Sfc", "sfc"},
	{"nhrck", "Nhrck", "nhrck"},
	{"kcc", "Kcc", "kcc"},
	{"iaciac", "Iaciac", "iaciac"},
	{"oclt", "Oclt", "oclt"},
	{"eiac", "Eiac", "eiac"},

	// 행정규칙 / 자치법규 (administrative rules, ordinances)
	{"admrul", "AdmRulSearch", "admrul"},
	{"ordin", "OrdinSearch", "law"},
	{"ordinfd", "ordinFdList", "ordinFd"},
	{"lnkLsOrd", "OrdinSearch", "law"},

	// 조약 (treaties)
	{"trty", "TrtySearch", "Trty"},

	// 법령용어 (legal terms)
	{"lstrm", "LsTrmSearch", "lstrm"},
	{"lstrmAI", "lstrmAISearch", "법령용어"},

	// 신구법·비교 (old/new comparison)
	{"oldAndNew", "OldAndNewLawSearch", "oldAndNew"},
	{"admrulOldAndNew", "OldAndNewLawSearch", "oldAndNew"},
	{"thdCmp", "thdCmpLawSearch", "thdCmp"},
	{"licbyl", "licBylSearch", "licbyl"},

	// 중앙부처해석 (ministry legal interpretations)
	{"moefCgmExpc", "CgmExpc", "cgmExpc"},
	{"molitCgmExpc", "CgmExpc", "cgmExpc"},
	{"moelCgmExpc", "CgmExpc", "cgmExpc"},
	{"mofCgmExpc", "CgmExpc", "cgmExpc"},
	{"moisCgmExpc", "CgmExpc", "cgmExpc"},
	{"meCgmExpc", "CgmExpc", "cgmExpc"},
	{"ntsCgmExpc", "CgmExpc", "cgmExpc"},
	{"kcsCgmExpc", "CgmExpc", "cgmExpc"},

	// 특별행정심판 (special tribunals)
	{"ttSpecialDecc", "DeccSearch", "Decc"},
	{"kmstSpecialDecc", "DeccSearch", "Decc"},
}

// index provides O(1) target lookup into table.
var index = func() map[string]Entry {
	m := make(map[string]Entry, len(table))
	for _, e := range table {
		m[e.Target] = e
	}
	return m
}()

// Lookup returns the envelope entry for a target.
func Lookup(target string) (Entry, bool) {
	e, ok := index[target]
	return e, ok
}

// Targets returns all known targets in table order.
func Targets() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.Target
	}
	return out
}

// ErrParseFailure is returned when no known envelope shape matches.
var ErrParseFailure = errors.New("unrecognized response structure")

// ErrEmptyResponse is returned for a nil or empty response object.
var ErrEmptyResponse = errors.New("empty response")

// UpstreamError carries the API's own "no match" message, which arrives as a
// bare string under the "Law" key instead of a result envelope.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: %s", e.Message)
}

// genericKeys are tried last, for responses that skip the envelope entirely.
var genericKeys = []string{"법령", "Law", "items", "data", "result"}

// Via reports which resolution pass matched a response.
type Via int

const (
	// ViaNone means no pass matched (empty response, upstream error, or
	// parse failure).
	ViaNone Via = iota

	// ViaTable means the target's own envelope entry matched.
	ViaTable

	// ViaFallback means the scan over other targets' entries matched.
	ViaFallback

	// ViaGeneric means a bare top-level key matched.
	ViaGeneric
)

// ExtractItems finds the result array in a decoded response object.
func ExtractItems(raw map[string]any, target string) ([]Record, int, error) {
	items, count, _, err := Resolve(raw, target)
	return items, count, err
}

// Resolve finds the result array in a decoded response object and reports
// which pass matched.
//
// Resolution order: the upstream string-error convention, the target's own
// table entry, a fallback scan over every table entry (responses sometimes
// arrive under an unexpected envelope), then generic top-level keys. A bare
// object where an array was expected counts as a single hit; a string or
// nil counts as zero hits, not as a failure.
func Resolve(raw map[string]any, target string) ([]Record, int, Via, error) {
	if len(raw) == 0 {
		return nil, 0, ViaNone, ErrEmptyResponse
	}

	if msg, ok := raw["Law"].(string); ok {
		return nil, 0, ViaNone, &UpstreamError{Message: msg}
	}

	if e, ok := index[target]; ok {
		if items, ok := itemsUnder(raw, e); ok {
			return items, len(items), ViaTable, nil
		}
	}

	for _, e := range table {
		if items, ok := itemsUnder(raw, e); ok && len(items) > 0 {
			return items, len(items), ViaFallback, nil
		}
	}

	for _, key := range genericKeys {
		switch v := raw[key].(type) {
		case []any:
			items := asRecords(v)
			return items, len(items), ViaGeneric, nil
		case map[string]any:
			return []Record{v}, 1, ViaGeneric, nil
		}
	}

	return nil, 0, ViaNone, ErrParseFailure
}

// itemsUnder extracts the inner array for one envelope entry. The second
// return is false when the outer key is absent or not an object.
func itemsUnder(raw map[string]any, e Entry) ([]Record, bool) {
	outer, ok := raw[e.Outer].(map[string]any)
	if !ok {
		return nil, false
	}
	switch v := outer[e.Inner].(type) {
	case []any:
		return asRecords(v), true
	case map[string]any:
		return []Record{v}, true
	case nil, string:
		// Some committee and court targets return "" or a notice string
		// for zero hits. Empty, not an error.
		return []Record{}, true
	default:
		return []Record{}, true
	}
}

// asRecords keeps only object elements; upstream arrays occasionally mix in
// stray strings.
func asRecords(v []any) []Record {
	items := make([]Record, 0, len(v))
	for _, el := range v {
		if rec, ok := el.(map[string]any); ok {
			items = append(items, rec)
		}
	}
	return items
}

// TotalCount reads the envelope's own totalCnt field when present. Upstream
// may report a larger total than the returned page; callers use this for
// report headers only.
func TotalCount(raw map[string]any, target string) (int, bool) {
	outers := make([]string, 0, 2)
	if e, ok := index[target]; ok {
		outers = append(outers, e.Outer)
	}
	outers = append(outers, "LawSearch")
	for _, key := range outers {
		if outer, ok := raw[key].(map[string]any); ok {
			if n, ok := asInt(outer["totalCnt"]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		var out int
		if _, err := fmt.Sscanf(n, "%d", &out); err == nil {
			return out, true
		}
	case int:
		return n, true
	}
	return 0, false
}

// SortedKeys returns the response's top-level keys in sorted order, for
// diagnostics in reports and logs.
func SortedKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
