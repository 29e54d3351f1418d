// Package committee implements decision search and detail for the twelve
// committees served by the API. Every committee shares one wire shape, so
// the tools are generated from a table instead of written out by hand.
package committee

// Committee describes one committee target.
type Committee struct {
	// Target is the upstream API target code
	Target string

	// Name is the committee's Korean name, used in tool descriptions
	Name string

	// Slug is the English tool-name fragment (search_<slug>_decision)
	Slug string
}

// Committees lists every supported committee.
var Committees = []Committee{
	{Target: "ppc", Name: "개인정보보호위원회", Slug: "privacy_committee"},
	{Target: "fsc", Name: "금융위원회", Slug: "financial_committee"},
	{Target: "ftc", Name: "공정거래위원회", Slug: "fair_trade_committee"},
	{Target: "acr", Name: "국민권익위원회", Slug: "anticorruption_committee"},
	{Target: "nlrc", Name: "노동위원회", Slug: "labor_committee"},
	{Target: "ecc", Name: "중앙환경분쟁조정위원회", Slug: "environment_committee"},
	{Target: "sfc", Name: "증권선물위원회", Slug: "securities_committee"},
	{Target: "nhrck", Name: "국가인권위원회", Slug: "human_rights_committee"},
	{Target: "kcc", Name: "방송통신위원회", Slug: "broadcasting_committee"},
	{Target: "iaciac", Name: "산업재해보상보험재심사위원회", Slug: "industrial_accident_committee"},
	{Target: "oclt", Name: "중앙토지수용위원회", Slug: "land_expropriation_committee"},
	{Target: "eiac", Name: "고용보험심사위원회", Slug: "employment_insurance_committee"},
}

// ByTarget returns the committee for a target code.
func ByTarget(target string) (Committee, bool) {
	for _, cm := range Committees {
		if cm.Target == target {
			return cm, true
		}
	}
	return Committee{}, false
}

// SearchArgs contains parameters for committee decision search.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"검색어 (안건명 또는 본문)"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// DetailArgs identifies one decision.
type DetailArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"결정문 일련번호"`
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
