// Command probe validates the envelope table against the live API.
//
// Usage:
//
//	LEGISLATION_API_KEY=... go run ./cmd/probe [-query 법] [-target law]
//
// For every known target it issues one minimal search and reports whether
// the response resolved through the declared (outer, inner) envelope keys,
// through the fallback scan, or not at all. Run it after the upstream API
// changes shape or when adding a target.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/ChangooLee/mcp-kr-legislation/internal/base"
	"github.com/ChangooLee/mcp-kr-legislation/internal/config"
	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
)

func main() {
	query := flag.String("query", "법", "Search term used for every probe")
	only := flag.String("target", "", "Probe a single target instead of all")
	timeout := flag.Duration("timeout", 90*time.Second, "Per-request timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// Probing is sequential and patient; the slow targets get the same
	// generous timeout as everything else.
	cfg.Timeout = *timeout
	cfg.SlowTimeout = *timeout
	// Skip the disk cache so every probe hits the live API.
	cfg.CacheDir = ""

	client := base.NewClient(cfg, base.WithLogger(logger))
	defer client.Close()

	targets := envelope.Targets()
	if *only != "" {
		targets = []string{*only}
	}

	fmt.Printf("Probing %d targets against %s\n\n", len(targets), cfg.SearchURL)
	fmt.Printf("%-18s %-10s %-7s %s\n", "TARGET", "RESULT", "ITEMS", "NOTE")

	var tableHits, fallbacks, failures int
	for _, target := range targets {
		result, items, note := probe(client, target, *query)
		fmt.Printf("%-18s %-10s %-7d %s\n", target, result, items, note)

		switch result {
		case "ok":
			tableHits++
		case "fallback":
			fallbacks++
		default:
			failures++
		}
	}

	fmt.Printf("\n%d resolved via table, %d via fallback scan, %d failed\n",
		tableHits, fallbacks, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// probe issues one search and classifies how the response resolved.
func probe(client *base.Client, target, query string) (result string, items int, note string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", "1")

	raw, err := client.Search(ctx, target, params)
	if err != nil {
		return "error", 0, err.Error()
	}

	records, _, via, err := envelope.Resolve(raw, target)
	if err != nil {
		return "no-match", 0, fmt.Sprintf("keys: %v", envelope.SortedKeys(raw))
	}

	switch via {
	case envelope.ViaTable:
		return "ok", len(records), ""
	case envelope.ViaFallback:
		entry, _ := envelope.Lookup(target)
		return "fallback", len(records), fmt.Sprintf("declared %s.%s absent", entry.Outer, entry.Inner)
	default:
		return "fallback", len(records), "resolved via generic keys"
	}
}
