package precedent

// SearchPrecedentArgs contains the full court-precedent filter set.
type SearchPrecedentArgs struct {
	Query    string `json:"query,omitempty" jsonschema_description:"검색어 (사건명 또는 본문); query, case_no, ref_law 중 하나는 필수"`
	Search   int    `json:"search,omitempty" jsonschema_description:"검색범위: 1=사건명(기본), 2=본문검색"`
	Display  int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page     int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
	Court    string `json:"court,omitempty" jsonschema_description:"법원종류: 대법원 또는 하위법원"`
	CourtNm  string `json:"court_name,omitempty" jsonschema_description:"법원명 (예: 서울고등법원)"`
	RefLaw   string `json:"ref_law,omitempty" jsonschema_description:"참조법령명 (예: 도로교통법)"`
	Sort     string `json:"sort,omitempty" jsonschema_description:"정렬: lasc=사건명순, ddes=선고일자역순 등"`
	DateFrom string `json:"date_from,omitempty" jsonschema_description:"선고일자 시작 (YYYYMMDD)"`
	DateTo   string `json:"date_to,omitempty" jsonschema_description:"선고일자 끝 (YYYYMMDD)"`
	CaseNo   string `json:"case_no,omitempty" jsonschema_description:"사건번호 (예: 2023도1234)"`
	Source   string `json:"source,omitempty" jsonschema_description:"데이터출처명 (국세법령정보시스템, 근로복지공단산재판례, 대법원)"`
}

// SearchArgs is the query/display/page set shared by the other case-law
// search tools.
type SearchArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"검색어"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// DetailArgs identifies one decision for detail lookup.
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
