package tools

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ChangooLee/mcp-kr-legislation/internal/admrule"
	"github.com/ChangooLee/mcp-kr-legislation/internal/committee"
	"github.com/ChangooLee/mcp-kr-legislation/internal/interpretation"
	"github.com/ChangooLee/mcp-kr-legislation/internal/law"
	"github.com/ChangooLee/mcp-kr-legislation/internal/legalterm"
	"github.com/ChangooLee/mcp-kr-legislation/internal/precedent"
	"github.com/ChangooLee/mcp-kr-legislation/internal/render"
	"github.com/ChangooLee/mcp-kr-legislation/internal/treaty"
	"github.com/ChangooLee/mcp-kr-legislation/metrics"
	"github.com/ChangooLee/mcp-kr-legislation/tracing"
)

// HandlerRegistry maps tool specs to their concrete handler
// implementations across the category clients.
type HandlerRegistry struct {
	law            *law.Client
	precedent      *precedent.Client
	committee      *committee.Client
	interpretation *interpretation.Client
	admrule        *admrule.Client
	treaty         *treaty.Client
	legalterm      *legalterm.Client
	logger         *slog.Logger
}

// Clients bundles the category clients for registry construction.
type Clients struct {
	Law            *law.Client
	Precedent      *precedent.Client
	Committee      *committee.Client
	Interpretation *interpretation.Client
	AdmRule        *admrule.Client
	Treaty         *treaty.Client
	LegalTerm      *legalterm.Client
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(clients Clients, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		law:            clients.Law,
		precedent:      clients.Precedent,
		committee:      clients.Committee,
		interpretation: clients.Interpretation,
		admrule:        clients.AdmRule,
		treaty:         clients.Treaty,
		legalterm:      clients.LegalTerm,
		logger:         logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration call.
// Table-driven committee and ministry tools share a method name and
// capture their upstream target in a closure.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	// 법령
	case "SearchLaw":
		register(h, server, tool, spec, h.law.SearchLaw)
	case "GetLawDetail":
		register(h, server, tool, spec, h.law.GetLawDetail)
	case "GetLawArticlesRange":
		register(h, server, tool, spec, h.law.GetLawArticlesRange)
	case "SearchEnglishLaw":
		register(h, server, tool, spec, h.law.SearchEnglishLaw)
	case "GetEnglishLawDetail":
		register(h, server, tool, spec, h.law.GetEnglishLawDetail)
	case "SearchEffectiveLaw":
		register(h, server, tool, spec, h.law.SearchEffectiveLaw)
	case "SearchLawHistory":
		register(h, server, tool, spec, h.law.SearchLawHistory)
	case "SearchLawNickname":
		register(h, server, tool, spec, h.law.SearchLawNickname)
	case "SearchDeletedLawData":
		register(h, server, tool, spec, h.law.SearchDeletedLawData)
	case "SearchOldAndNewLaw":
		register(h, server, tool, spec, h.law.SearchOldAndNewLaw)
	case "SearchThreeWayComparison":
		register(h, server, tool, spec, h.law.SearchThreeWayComparison)
	case "SearchLawAppendix":
		register(h, server, tool, spec, h.law.SearchLawAppendix)
	case "SearchLawSystemDiagram":
		register(h, server, tool, spec, h.law.SearchLawSystemDiagram)
	case "SearchRelatedLaws":
		register(h, server, tool, spec, h.law.SearchRelatedLaws)
	case "SearchDelegatedLaw":
		register(h, server, tool, spec, h.law.SearchDelegatedLaw)

	// 판례·해석례
	case "SearchPrecedent":
		register(h, server, tool, spec, h.precedent.SearchPrecedent)
	case "GetPrecedentDetail":
		register(h, server, tool, spec, h.precedent.GetPrecedentDetail)
	case "SearchConstitutionalCourt":
		register(h, server, tool, spec, h.precedent.SearchConstitutionalCourt)
	case "GetConstitutionalCourtDetail":
		register(h, server, tool, spec, h.precedent.GetConstitutionalCourtDetail)
	case "SearchLegalInterpretation":
		register(h, server, tool, spec, h.precedent.SearchLegalInterpretation)
	case "GetLegalInterpretationDetail":
		register(h, server, tool, spec, h.precedent.GetLegalInterpretationDetail)
	case "SearchAdministrativeTrial":
		register(h, server, tool, spec, h.precedent.SearchAdministrativeTrial)
	case "GetAdministrativeTrialDetail":
		register(h, server, tool, spec, h.precedent.GetAdministrativeTrialDetail)

	// 행정규칙·자치법규
	case "SearchAdministrativeRule":
		register(h, server, tool, spec, h.admrule.SearchAdministrativeRule)
	case "GetAdministrativeRuleDetail":
		register(h, server, tool, spec, h.admrule.GetAdministrativeRuleDetail)
	case "SearchAdmRuleComparison":
		register(h, server, tool, spec, h.admrule.SearchAdmRuleComparison)
	case "SearchOrdinance":
		register(h, server, tool, spec, h.admrule.SearchOrdinance)
	case "GetOrdinanceDetail":
		register(h, server, tool, spec, h.admrule.GetOrdinanceDetail)
	case "SearchOrdinanceAppendix":
		register(h, server, tool, spec, h.admrule.SearchOrdinanceAppendix)
	case "SearchLinkedOrdinance":
		register(h, server, tool, spec, h.admrule.SearchLinkedOrdinance)

	// 조약
	case "SearchTreaty":
		register(h, server, tool, spec, h.treaty.SearchTreaty)
	case "GetTreatyDetail":
		register(h, server, tool, spec, h.treaty.GetTreatyDetail)

	// 법령용어
	case "SearchLegalTerm":
		register(h, server, tool, spec, h.legalterm.SearchLegalTerm)
	case "SearchAILegalTerm":
		register(h, server, tool, spec, h.legalterm.SearchAILegalTerm)
	case "GetLegalTermDetail":
		register(h, server, tool, spec, h.legalterm.GetLegalTermDetail)

	// 위원회 결정문 (table-driven)
	case "CommitteeSearch":
		target := spec.Target
		register(h, server, tool, spec, func(ctx context.Context, args committee.SearchArgs) (committee.SearchResult, error) {
			return h.committee.Search(ctx, target, args)
		})
	case "CommitteeDetail":
		target := spec.Target
		register(h, server, tool, spec, func(ctx context.Context, args committee.DetailArgs) (committee.DetailResult, error) {
			return h.committee.Detail(ctx, target, args)
		})

	// 중앙부처 법령해석 (table-driven)
	case "MinistrySearch":
		target := spec.Target
		register(h, server, tool, spec, func(ctx context.Context, args interpretation.SearchArgs) (interpretation.SearchResult, error) {
			return h.interpretation.Search(ctx, target, args)
		})
	case "MinistryDetail":
		target := spec.Target
		register(h, server, tool, spec, func(ctx context.Context, args interpretation.DetailArgs) (interpretation.DetailResult, error) {
			return h.interpretation.Detail(ctx, target, args)
		})

	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// reporter is implemented by every result type; its text becomes the MCP
// text content block.
type reporter interface {
	ReportText() string
}

// register wires a client method into the MCP server with panic recovery,
// metrics, tracing, and logging. Upstream failures are returned as advisory
// text with IsError set, never as protocol errors, so the calling LLM can
// read the message and adjust.
func register[Args any, Result reporter](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (*mcp.CallToolResult, Result, error) {
		defer h.recoverPanic(spec.Name)

		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		span.SetAttributes(
			attribute.String("mcp.tool.name", spec.Name),
			attribute.String("mcp.tool.category", spec.Category),
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
		)
		if spec.Target != "" {
			span.SetAttributes(attribute.String("mcp.tool.target", spec.Target))
		}

		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			h.logger.Warn("Tool failed", "tool", spec.Name, "error", err)
			var zero Result
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: render.RequestFailure(spec.Name, err)}},
			}, zero, nil
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.ReportText()}},
		}, result, nil
	})
}

// recoverPanic recovers from panics in tool handlers.
func (h *HandlerRegistry) recoverPanic(toolName string) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}
	if spec.Target != "" {
		attrs = append(attrs, "target", spec.Target)
	}

	switch a := args.(type) {
	case law.SearchLawArgs:
		attrs = append(attrs, "query", a.Query)
	case law.SearchQueryArgs:
		attrs = append(attrs, "query", a.Query)
	case law.SearchEnglishLawArgs:
		attrs = append(attrs, "query", a.Query)
	case law.SearchEffectiveLawArgs:
		attrs = append(attrs, "query", a.Query)
	case law.LawDetailArgs:
		attrs = append(attrs, "id", a.ID, "mst", a.MST)
	case law.ArticlesRangeArgs:
		attrs = append(attrs, "id", a.ID, "from", a.From)
	case precedent.SearchPrecedentArgs:
		attrs = append(attrs, "query", a.Query, "case_no", a.CaseNo)
	case precedent.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case precedent.DetailArgs:
		attrs = append(attrs, "id", a.ID)
	case committee.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case committee.DetailArgs:
		attrs = append(attrs, "id", a.ID)
	case interpretation.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case interpretation.DetailArgs:
		attrs = append(attrs, "id", a.ID)
	case admrule.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case admrule.DetailArgs:
		attrs = append(attrs, "id", a.ID)
	case treaty.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case treaty.DetailArgs:
		attrs = append(attrs, "id", a.ID)
	case legalterm.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	case legalterm.DetailArgs:
		attrs = append(attrs, "id", a.ID, "query", a.Query)
	}

	switch r := result.(type) {
	case law.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case law.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case precedent.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case precedent.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case committee.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case committee.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case interpretation.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case interpretation.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case admrule.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case admrule.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case treaty.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case treaty.DetailResult:
		attrs = append(attrs, "source", r.Source)
	case legalterm.SearchResult:
		attrs = append(attrs, "count", r.Count, "total", r.TotalCount)
	case legalterm.DetailResult:
		attrs = append(attrs, "source", r.Source)
	}

	h.logger.Info("Tool executed", attrs...)
}
