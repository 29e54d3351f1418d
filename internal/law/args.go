package law

// SearchLawArgs contains parameters for current-law search.
type SearchLawArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"법령명 또는 검색어 (예: 도로교통법)"`
	Search  int    `json:"search,omitempty" jsonschema_description:"검색범위: 1=법령명(기본), 2=본문검색"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100, 기본 20)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호 (1부터)"`
	Org     string `json:"org,omitempty" jsonschema_description:"소관부처 코드"`
	Knd     string `json:"knd,omitempty" jsonschema_description:"법령종류 코드 (법률, 대통령령 등)"`
	Sort    string `json:"sort,omitempty" jsonschema_description:"정렬: lasc=법령명순, ldes=법령명역순, dasc=공포일자순, ddes=공포일자역순, efasc=시행일자순, efdes=시행일자역순"`
	Date    string `json:"date,omitempty" jsonschema_description:"공포일자 검색 (YYYYMMDD)"`
	EfYd    string `json:"ef_yd,omitempty" jsonschema_description:"시행일자 범위 (YYYYMMDD~YYYYMMDD)"`
	AncYd   string `json:"anc_yd,omitempty" jsonschema_description:"공포일자 범위 (YYYYMMDD~YYYYMMDD)"`
	Nb      string `json:"nb,omitempty" jsonschema_description:"공포번호"`
	RrClsCd string `json:"rr_cls_cd,omitempty" jsonschema_description:"제개정구분 코드 (제정, 일부개정 등)"`
}

// LawDetailArgs identifies one law for detail lookup.
type LawDetailArgs struct {
	ID  string `json:"id,omitempty" jsonschema_description:"법령ID (search_law 결과의 법령ID)"`
	MST string `json:"mst,omitempty" jsonschema_description:"법령일련번호 (법령ID 대신 사용 가능)"`
	LM  string `json:"lm,omitempty" jsonschema_description:"법령명 (ID를 모를 때 정확한 법령명으로 조회)"`
}

// ArticlesRangeArgs requests a span of articles from one law.
type ArticlesRangeArgs struct {
	ID    string `json:"id,omitempty" jsonschema_description:"법령ID"`
	MST   string `json:"mst,omitempty" jsonschema_description:"법령일련번호"`
	From  int    `json:"from" jsonschema:"required" jsonschema_description:"시작 조문 번호 (예: 1 = 제1조)"`
	Count int    `json:"count,omitempty" jsonschema_description:"조회할 조문 수 (기본 10)"`
}

// SearchEnglishLawArgs contains parameters for English-translation search.
type SearchEnglishLawArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"법령명 (한글 또는 영문)"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// SearchEffectiveLawArgs contains parameters for effective-law search,
// including laws not yet in force.
type SearchEffectiveLawArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"법령명 또는 검색어"`
	Status  int    `json:"status,omitempty" jsonschema_description:"현행 여부: 1=현행, 2=시행예정, 3=현행+시행예정"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// SearchQueryArgs is the minimal query/display/page argument set shared by
// the simpler law search tools.
type SearchQueryArgs struct {
	Query   string `json:"query" jsonschema:"required" jsonschema_description:"법령명 또는 검색어"`
	Display int    `json:"display,omitempty" jsonschema_description:"결과 개수 (최대 100)"`
	Page    int    `json:"page,omitempty" jsonschema_description:"페이지 번호"`
}

// SearchResult is the uniform search outcome: a rendered report plus the
// counts tools log and callers can branch on.
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

	// Source is "json" normally, "html" when parsed from an HTML-only
	// endpoint, or "link" when only a website link could be offered.
	Source string `json:"source,omitempty"`
}

// ReportText returns the rendered report for the MCP text block.
func (r DetailResult) ReportText() string { return r.Report }
