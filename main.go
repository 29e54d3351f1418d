// 한국 법제처 OPEN API MCP 서버 - A Model Context Protocol server for
// Korean legislation data (laws, precedents, committee decisions,
// administrative rules, treaties, and legal terms) from law.go.kr.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChangooLee/mcp-kr-legislation/internal/admrule"
	"github.com/ChangooLee/mcp-kr-legislation/internal/base"
	"github.com/ChangooLee/mcp-kr-legislation/internal/committee"
	"github.com/ChangooLee/mcp-kr-legislation/internal/config"
	"github.com/ChangooLee/mcp-kr-legislation/internal/interpretation"
	"github.com/ChangooLee/mcp-kr-legislation/internal/law"
	"github.com/ChangooLee/mcp-kr-legislation/internal/legalterm"
	"github.com/ChangooLee/mcp-kr-legislation/internal/precedent"
	"github.com/ChangooLee/mcp-kr-legislation/internal/treaty"
	"github.com/ChangooLee/mcp-kr-legislation/tools"
	"github.com/ChangooLee/mcp-kr-legislation/tracing"
)

const (
	ServerName    = "mcp-kr-legislation"
	ServerVersion = "1.0.0"
)

const serverInstructions = `한국 법제처 OPEN API MCP 서버 provides tools for Korean legislation research.

Tool categories:
- 법령 (laws): search_law, get_law_detail, get_law_articles_range, history, comparisons, appendices
- 판례 (case law): search_precedent, Constitutional Court, legal interpretations, administrative appeals
- 위원회 결정문: per-committee search/detail tools (개인정보보호위원회, 금융위원회, 공정거래위원회, ...)
- 중앙부처 법령해석: per-ministry interpretation tools (기획재정부, 국토교통부, ...)
- 행정규칙·자치법규: administrative rules and local ordinances
- 조약, 법령용어: treaties and the legal-term dictionary

Start with a search tool, then use the detail tool the search report suggests.
All text is Korean unless the tool says otherwise (search_english_law).

Configure via environment variables:
- LEGISLATION_API_KEY: law.go.kr OC code (required, register at open.law.go.kr)
- LEGISLATION_METRICS_ADDR: optional address for Prometheus metrics (e.g. :9090)`

func main() {
	// stdout carries the MCP protocol; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	baseClient := base.NewClient(cfg, base.WithLogger(logger))
	defer baseClient.Close()

	registry := tools.NewHandlerRegistry(tools.Clients{
		Law:            law.NewClient(baseClient),
		Precedent:      precedent.NewClient(baseClient),
		Committee:      committee.NewClient(baseClient),
		Interpretation: interpretation.NewClient(baseClient),
		AdmRule:        admrule.NewClient(baseClient),
		Treaty:         treaty.NewClient(baseClient),
		LegalTerm:      legalterm.NewClient(baseClient),
	}, logger)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: serverInstructions,
	})

	registry.RegisterAll(server)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	logger.Info("Starting legislation MCP server",
		"name", ServerName,
		"version", ServerVersion,
		"tools", len(tools.AllTools),
		"search_url", cfg.SearchURL,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// serveMetrics exposes Prometheus metrics on a side HTTP listener.
func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "error", err)
	}
}
