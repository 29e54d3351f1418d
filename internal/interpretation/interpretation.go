// Package interpretation implements the ministry legal-interpretation
// tools (중앙부처 법령해석). Each ministry is one API target sharing a
// single wire shape, so the tools are generated from a table.
package interpretation

// Ministry describes one ministry interpretation target.
type Ministry struct {
	// Target is the upstream API target code (<code>CgmExpc)
	Target string

	// Name is the ministry's Korean name, used in tool descriptions
	Name string

	// Slug is the English tool-name fragment (search_<slug>_interpretation)
	Slug string
}

// Ministries lists every ministry with an interpretation target.
var Ministries = []Ministry{
	{Target: "moefCgmExpc", Name: "기획재정부", Slug: "moef"},
	{Target: "molitCgmExpc", Name: "국토교통부", Slug: "molit"},
	{Target: "moelCgmExpc", Name: "고용노동부", Slug: "moel"},
	{Target: "mofCgmExpc", Name: "해양수산부", Slug: "mof"},
	{Target: "moisCgmExpc", Name: "행정안전부", Slug: "mois"},
	{Target: "meCgmExpc", Name: "환경부", Slug: "me"},
	{Target: "ntsCgmExpc", Name: "국세청", Slug: "nts"},
	{Target: "kcsCgmExpc", Name: "관세청", Slug: "kcs"},
}

// ByTarget returns the ministry for a target code.
func ByTarget(target string) (Ministry, bool) {
	for _, m := range Ministries {
		if m.Target == target {
			return m, true
		}
	}
	return Ministry{}, false
}

// SearchArgs contains parameters for interpretation search.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"검색어 (안건명 또는 본문)"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// DetailArgs identifies one interpretation.
type DetailArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"법령해석례 일련번호"`
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
