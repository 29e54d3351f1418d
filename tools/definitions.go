package tools

import (
	"fmt"

	"github.com/ChangooLee/mcp-kr-legislation/internal/committee"
	"github.com/ChangooLee/mcp-kr-legislation/internal/interpretation"
)

// coreTools lists the hand-written tool specifications. Committee and
// ministry tools are generated from their tables below.
// Descriptions follow a structured format for LLM tool selection:
// USE WHEN / NOT FOR / PARAMETERS / RETURNS.
var coreTools = []ToolSpec{
	// ==========================================================================
	// 법령 (LAW)
	// ==========================================================================
	{
		Name:     "search_law",
		Method:   "SearchLaw",
		Title:    "법령 검색",
		Category: "law",
		Description: `Search current Korean laws (현행법령) by name or full text.

USE WHEN: User asks about a Korean law by name ("도로교통법 찾아줘"), topic, or needs the law ID for a detail lookup.

NOT FOR: English translations (use search_english_law), ordinances (use search_ordinance), administrative rules (use search_administrative_rule).

PARAMETERS:
- query: Law name or keyword (required)
- search: 1=law name (default), 2=full text
- org/knd/sort/date filters (optional)

RETURNS: Matching laws with 법령ID and 법령일련번호, plus a get_law_detail hint per item.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_law_detail",
		Method:   "GetLawDetail",
		Title:    "법령 본문 조회",
		Category: "law",
		Description: `Retrieve one law's basic info and first articles.

USE WHEN: User wants the text of a specific law and you have its 법령ID, 법령일련번호 (MST), or exact name.

NOT FOR: Finding which law applies (use search_law first), long article ranges (use get_law_articles_range).

PARAMETERS:
- id: 법령ID, or mst: 법령일련번호, or lm: exact law name (one required)

RETURNS: Basic info block and the first articles of the law.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_law_articles_range",
		Method:   "GetLawArticlesRange",
		Title:    "법령 조문 범위 조회",
		Category: "law",
		Description: `Read a span of articles (조문) from one law.

USE WHEN: User asks for specific articles ("도로교통법 제44조부터 보여줘") or pages through a long law.

PARAMETERS:
- id or mst: law identifier (one required)
- from: first article number (required)
- count: how many articles (default 10)

RETURNS: The requested articles' full text. Served from cache after the first call for the same law.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_english_law",
		Method:   "SearchEnglishLaw",
		Title:    "영문 법령 검색",
		Category: "law",
		Description: `Search official English translations of Korean laws.

USE WHEN: User needs a law in English or asks with an English law name.

NOT FOR: Korean text of laws (use search_law).

PARAMETERS:
- query: law name, Korean or English (required)

RETURNS: Matching translations titled "ENGLISH NAME (한글명)".`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_english_law_detail",
		Method:   "GetEnglishLawDetail",
		Title:    "영문 법령 본문 조회",
		Category: "law",
		Description: `Retrieve one English translation's text.

USE WHEN: User wants to read an English translation found via search_english_law.

PARAMETERS:
- id or mst: identifier from search results (one required)

RETURNS: Basic info and first articles in English.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_effective_law",
		Method:   "SearchEffectiveLaw",
		Title:    "시행일 법령 검색",
		Category: "law",
		Description: `Search laws by effective status, including ones not yet in force.

USE WHEN: User asks what version is in force on a date, or about upcoming changes ("내년에 시행되는 개정").

PARAMETERS:
- query: law name (required)
- status: 1=현행, 2=시행예정, 3=both

RETURNS: Matching laws with 시행일자 per item.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_law_history",
		Method:   "SearchLawHistory",
		Title:    "법령 연혁 검색",
		Category: "law",
		Description: `List every historical revision of matching laws.

USE WHEN: User asks how a law changed over time or needs an old version.

NOTE: This upstream endpoint is slow; responses can take up to a minute.

PARAMETERS:
- query: law name (required)

RETURNS: Revisions with 공포일자 and 시행일자.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_law_nickname",
		Method:   "SearchLawNickname",
		Title:    "법령 약칭 검색",
		Category: "law",
		Description: `Resolve a well-known nickname to the formal law name.

USE WHEN: User uses a colloquial name ("김영란법", "민식이법") and you need the formal title.

PARAMETERS:
- query: nickname (required)

RETURNS: Formal law names matching the nickname.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_deleted_law_data",
		Method:   "SearchDeletedLawData",
		Title:    "삭제 법령 데이터 검색",
		Category: "law",
		Description: `List deleted law records.

USE WHEN: User asks about repealed/removed law data entries.

PARAMETERS:
- query: keyword (required)

RETURNS: Deleted records identified by serial number (these records carry no names).`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_old_and_new_law",
		Method:   "SearchOldAndNewLaw",
		Title:    "신구법 비교 검색",
		Category: "law",
		Description: `Search old-and-new (신구조문) comparison tables for amended laws.

USE WHEN: User asks what exactly changed between versions of a law.

PARAMETERS:
- query: law name (required)

RETURNS: Comparison table entries.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_three_way_comparison",
		Method:   "SearchThreeWayComparison",
		Title:    "3단 비교 검색",
		Category: "law",
		Description: `Search three-way comparison tables (법률-시행령-시행규칙).

USE WHEN: User wants a statute's articles lined up against its enforcement decree and rules.

PARAMETERS:
- query: law name (required)

RETURNS: Three-way comparison entries.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_law_appendix",
		Method:   "SearchLawAppendix",
		Title:    "별표서식 검색",
		Category: "law",
		Description: `Search law appendices and attached forms (별표, 서식).

USE WHEN: User asks for a form or appendix table attached to a law ("과태료 부과기준 별표").

PARAMETERS:
- query: keyword (required)

RETURNS: Appendix/form entries with their parent law.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_law_system_diagram",
		Method:   "SearchLawSystemDiagram",
		Title:    "법령체계도 검색",
		Category: "law",
		Description: `Search law system diagrams showing a statute's decree/rule hierarchy.

USE WHEN: User asks how a law relates to its subordinate legislation.

NOTE: Slow upstream endpoint.

PARAMETERS:
- query: law name (required)

RETURNS: System diagram entries.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_related_laws",
		Method:   "SearchRelatedLaws",
		Title:    "관련법령 검색",
		Category: "law",
		Description: `List laws related to the given law.

USE WHEN: User asks which other statutes connect to a law.

PARAMETERS:
- query: law name (required)

RETURNS: Related laws with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_delegated_law",
		Method:   "SearchDelegatedLaw",
		Title:    "위임법령 조회",
		Category: "law",
		Description: `Show which enforcement-decree provisions each article of a law delegates to.

USE WHEN: User asks where a statute article's details are regulated ("제44조의 위임 사항은 어디에?").

PARAMETERS:
- id or mst: law identifier (one required)

RETURNS: Per-article delegation mapping.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},

	// ==========================================================================
	// 판례 (CASE LAW)
	// ==========================================================================
	{
		Name:     "search_precedent",
		Method:   "SearchPrecedent",
		Title:    "판례 검색",
		Category: "precedent",
		Description: `Search court precedents (판례) with full filters.

USE WHEN: User asks about court decisions on a topic, a case number, or precedents citing a law.

NOT FOR: Constitutional Court decisions (use search_constitutional_court), administrative appeals (use search_administrative_trial).

PARAMETERS:
- query: case name or keyword
- case_no: case number (2023도1234)
- ref_law: referenced law name
- court/court_name, date_from/date_to, source filters (optional)

RETURNS: Matching precedents with 판례일련번호 and a get_precedent_detail hint.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_precedent_detail",
		Method:   "GetPrecedentDetail",
		Title:    "판례 본문 조회",
		Category: "precedent",
		Description: `Retrieve one precedent's full text.

USE WHEN: User wants the reasoning of a specific decision found via search_precedent.

PARAMETERS:
- id: 판례일련번호 (required)

RETURNS: 판시사항/판결요지/이유 sections. Decisions from non-court sources are served as parsed HTML or a website link.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_constitutional_court",
		Method:   "SearchConstitutionalCourt",
		Title:    "헌재결정례 검색",
		Category: "precedent",
		Description: `Search Constitutional Court decisions (헌재결정례).

USE WHEN: User asks about constitutionality rulings, 헌법소원, or 위헌 decisions.

PARAMETERS:
- query: keyword (required)

RETURNS: Matching decisions with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_constitutional_court_detail",
		Method:   "GetConstitutionalCourtDetail",
		Title:    "헌재결정례 본문 조회",
		Category: "precedent",
		Description: `Retrieve one Constitutional Court decision.

PARAMETERS:
- id: 헌재결정례 일련번호 (required)

RETURNS: 결정요지 and reasoning sections.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_legal_interpretation",
		Method:   "SearchLegalInterpretation",
		Title:    "법령해석례 검색",
		Category: "precedent",
		Description: `Search Ministry of Government Legislation interpretations (법령해석례).

USE WHEN: User asks how a legal provision is officially interpreted.

NOT FOR: Individual ministries' own interpretations (use the per-ministry tools, e.g. search_moef_interpretation).

PARAMETERS:
- query: keyword (required)

RETURNS: Matching interpretations with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_legal_interpretation_detail",
		Method:   "GetLegalInterpretationDetail",
		Title:    "법령해석례 본문 조회",
		Category: "precedent",
		Description: `Retrieve one interpretation's question and answer.

PARAMETERS:
- id: 법령해석례 일련번호 (required)

RETURNS: 질의요지 and 회신내용 sections.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_administrative_trial",
		Method:   "SearchAdministrativeTrial",
		Title:    "행정심판례 검색",
		Category: "precedent",
		Description: `Search administrative appeal decisions (행정심판례).

USE WHEN: User asks about appeals against administrative dispositions (영업정지, 허가취소 등).

PARAMETERS:
- query: keyword (required)

RETURNS: Matching decisions with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_administrative_trial_detail",
		Method:   "GetAdministrativeTrialDetail",
		Title:    "행정심판례 본문 조회",
		Category: "precedent",
		Description: `Retrieve one administrative appeal decision.

PARAMETERS:
- id: 행정심판례 일련번호 (required)

RETURNS: Decision text sections.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},

	// ==========================================================================
	// 행정규칙 / 자치법규 (ADMIN RULES, ORDINANCES)
	// ==========================================================================
	{
		Name:     "search_administrative_rule",
		Method:   "SearchAdministrativeRule",
		Title:    "행정규칙 검색",
		Category: "admrule",
		Description: `Search administrative rules (훈령, 예규, 고시).

USE WHEN: User asks about ministry-level rules below the statute/decree level.

NOT FOR: Statutes (use search_law), local ordinances (use search_ordinance).

PARAMETERS:
- query: rule name or keyword (required)
- org: ministry code, knd: 훈령/예규/고시 (optional)

RETURNS: Matching rules with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_administrative_rule_detail",
		Method:   "GetAdministrativeRuleDetail",
		Title:    "행정규칙 본문 조회",
		Category: "admrule",
		Description: `Retrieve one administrative rule's text.

PARAMETERS:
- id: 행정규칙일련번호 (required)

RETURNS: Rule info and body.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_admrule_comparison",
		Method:   "SearchAdmRuleComparison",
		Title:    "행정규칙 신구 비교 검색",
		Category: "admrule",
		Description: `Search old-and-new comparison tables for administrative rules.

USE WHEN: User asks what changed in a revised 훈령/예규/고시.

PARAMETERS:
- query: rule name (required)

RETURNS: Comparison entries.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_ordinance",
		Method:   "SearchOrdinance",
		Title:    "자치법규 검색",
		Category: "admrule",
		Description: `Search local government ordinances (조례, 규칙).

USE WHEN: User asks about city/province-level rules ("서울시 주차장 조례").

PARAMETERS:
- query: ordinance name or keyword (required)
- org: local government code (optional)

RETURNS: Matching ordinances with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_ordinance_detail",
		Method:   "GetOrdinanceDetail",
		Title:    "자치법규 본문 조회",
		Category: "admrule",
		Description: `Retrieve one ordinance's text.

PARAMETERS:
- id: 자치법규일련번호 (required)

RETURNS: Ordinance info and body.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_ordinance_appendix",
		Method:   "SearchOrdinanceAppendix",
		Title:    "자치법규 별표서식 검색",
		Category: "admrule",
		Description: `Search ordinance appendices and forms.

PARAMETERS:
- query: keyword (required)

RETURNS: Appendix/form entries with their parent ordinance.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_linked_ordinance",
		Method:   "SearchLinkedOrdinance",
		Title:    "연계 자치법규 검색",
		Category: "admrule",
		Description: `List ordinances linked to a law.

USE WHEN: User asks which local ordinances implement a given statute.

PARAMETERS:
- query: law name (required)

RETURNS: Linked ordinances.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},

	// ==========================================================================
	// 조약 (TREATIES)
	// ==========================================================================
	{
		Name:     "search_treaty",
		Method:   "SearchTreaty",
		Title:    "조약 검색",
		Category: "treaty",
		Description: `Search treaties Korea is party to (조약).

USE WHEN: User asks about international agreements, FTAs, or conventions.

PARAMETERS:
- query: treaty name or keyword (required)

RETURNS: Matching treaties with 조약일련번호.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_treaty_detail",
		Method:   "GetTreatyDetail",
		Title:    "조약 본문 조회",
		Category: "treaty",
		Description: `Retrieve one treaty's details.

PARAMETERS:
- id: 조약일련번호 (required)

RETURNS: Treaty info including signing and effective dates.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},

	// ==========================================================================
	// 법령용어 (LEGAL TERMS)
	// ==========================================================================
	{
		Name:     "search_legal_term",
		Method:   "SearchLegalTerm",
		Title:    "법령용어 검색",
		Category: "term",
		Description: `Search the legal-term dictionary (법령용어).

USE WHEN: User asks what a legal term means ("선의취득이 뭐야?").

PARAMETERS:
- query: term (required)

RETURNS: Matching terms with identifiers.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "search_ai_legal_term",
		Method:   "SearchAILegalTerm",
		Title:    "AI 법령용어 검색",
		Category: "term",
		Description: `Search the AI-curated term data linking legal terms to daily language and related statutes.

USE WHEN: User wants plain-language equivalents of a legal term or the statutes where it appears.

PARAMETERS:
- query: term (required)

RETURNS: Term entries with daily-language mappings.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
	{
		Name:     "get_legal_term_detail",
		Method:   "GetLegalTermDetail",
		Title:    "법령용어 정의 조회",
		Category: "term",
		Description: `Retrieve one term's definition.

PARAMETERS:
- id: term serial number, or query: exact term (one required)

RETURNS: The term's legal definition.`,
		ReadOnly: true, Idempotent: true, OpenWorld: true,
	},
}

// committeeToolSpecs generates search and detail specs for every committee.
func committeeToolSpecs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(committee.Committees)*2)
	for _, cm := range committee.Committees {
		specs = append(specs, ToolSpec{
			Name:     "search_" + cm.Slug + "_decision",
			Method:   "CommitteeSearch",
			Title:    cm.Name + " 결정문 검색",
			Category: "committee",
			Target:   cm.Target,
			Description: fmt.Sprintf(`Search %s decisions (위원회 결정문).

USE WHEN: User asks about %s rulings or resolutions.

PARAMETERS:
- query: keyword (required)

RETURNS: Matching decisions with serial numbers and a detail-tool hint.`, cm.Name, cm.Name),
			ReadOnly: true, Idempotent: true, OpenWorld: true,
		}, ToolSpec{
			Name:     "get_" + cm.Slug + "_decision_detail",
			Method:   "CommitteeDetail",
			Title:    cm.Name + " 결정문 본문 조회",
			Category: "committee",
			Target:   cm.Target,
			Description: fmt.Sprintf(`Retrieve one %s decision.

PARAMETERS:
- id: 결정문 일련번호 (required)

RETURNS: Decision text, parsed from HTML when the committee serves no JSON.`, cm.Name),
			ReadOnly: true, Idempotent: true, OpenWorld: true,
		})
	}
	return specs
}

// ministryToolSpecs generates search and detail specs for every ministry
// interpretation target.
func ministryToolSpecs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(interpretation.Ministries)*2)
	for _, m := range interpretation.Ministries {
		specs = append(specs, ToolSpec{
			Name:     "search_" + m.Slug + "_interpretation",
			Method:   "MinistrySearch",
			Title:    m.Name + " 법령해석 검색",
			Category: "interpretation",
			Target:   m.Target,
			Description: fmt.Sprintf(`Search %s legal interpretations (중앙부처해석).

USE WHEN: User asks how %s interprets its statutes.

NOT FOR: Ministry of Government Legislation interpretations (use search_legal_interpretation).

PARAMETERS:
- query: keyword (required)

RETURNS: Matching interpretations with serial numbers.`, m.Name, m.Name),
			ReadOnly: true, Idempotent: true, OpenWorld: true,
		}, ToolSpec{
			Name:     "get_" + m.Slug + "_interpretation_detail",
			Method:   "MinistryDetail",
			Title:    m.Name + " 법령해석 본문 조회",
			Category: "interpretation",
			Target:   m.Target,
			Description: fmt.Sprintf(`Retrieve one %s interpretation.

PARAMETERS:
- id: 일련번호 (required)

RETURNS: 질의요지 and 회신내용.`, m.Name),
			ReadOnly: true, Idempotent: true, OpenWorld: true,
		})
	}
	return specs
}

// AllTools is the complete tool catalog.
var AllTools = func() []ToolSpec {
	all := make([]ToolSpec, 0, len(coreTools)+len(committee.Committees)*2+len(interpretation.Ministries)*2)
	all = append(all, coreTools...)
	all = append(all, committeeToolSpecs()...)
	all = append(all, ministryToolSpecs()...)
	return all
}()

// ToolsByCategory returns all tools in the given category.
func ToolsByCategory(category string) []ToolSpec {
	var specs []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			specs = append(specs, spec)
		}
	}
	return specs
}
