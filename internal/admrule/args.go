package admrule

// SearchArgs contains parameters for rule and ordinance search.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"검색어 (행정규칙명 또는 자치법규명)"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
	Org     string `json:"org,omitempty" jsonschema_description:"소관부처 또는 지자체 코드"`
	Knd     string `json:"knd,omitempty" jsonschema_description:"종류: 훈령, 예규, 고시 등"`
}

// DetailArgs identifies one rule or ordinance.
type DetailArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"일련번호 (검색 결과의 상세조회 힌트 값)"`
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
