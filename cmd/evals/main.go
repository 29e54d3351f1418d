// Command evals loads and summarizes MCP tool selection evaluations.
//
// Usage:
//
//	go run ./cmd/evals -dir ./evals -suite all
//
// The command validates the suites against the live tool catalog and
// reports coverage. For actual LLM evaluation, implement the
// evals.ToolSelector interface with your LLM harness and feed it to
// EvaluateToolSelection, EvaluateConfusionPairs, and EvaluateArguments.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ChangooLee/mcp-kr-legislation/evals"
	"github.com/ChangooLee/mcp-kr-legislation/tools"
)

func main() {
	dir := flag.String("dir", "./evals", "Directory containing eval JSON files")
	suite := flag.String("suite", "all", "Suite to load: tool_selection, confusion_pairs, arguments, or all")
	verbose := flag.Bool("verbose", false, "Show detailed test information")
	flag.Parse()

	fmt.Println("법제처 OPEN API MCP Server - Evaluation Framework")
	fmt.Println("=================================================")
	fmt.Println()

	switch *suite {
	case "tool_selection":
		loadToolSelection(*dir, *verbose)
	case "confusion_pairs":
		loadConfusionPairs(*dir, *verbose)
	case "arguments":
		loadArguments(*dir, *verbose)
	case "all":
		loadAll(*dir, *verbose)
	default:
		fmt.Fprintf(os.Stderr, "Unknown suite: %s\n", *suite)
		os.Exit(1)
	}
}

func loadToolSelection(dir string, verbose bool) {
	suite, err := evals.LoadToolSelectionSuite(filepath.Join(dir, "tool_selection.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tool selection suite: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tool Selection Suite: %s (v%s)\n", suite.Name, suite.Version)
	fmt.Printf("Total Tests: %d\n\n", len(suite.Tests))

	categories := make(map[string]int)
	byTool := make(map[string]int)
	for _, test := range suite.Tests {
		categories[test.Category]++
		byTool[test.ExpectedTool]++
	}

	fmt.Println("Tests by Category:")
	printCounts(categories)
	fmt.Println("\nTests by Tool:")
	printCounts(byTool)

	if verbose {
		fmt.Println("\nTest Cases:")
		for _, test := range suite.Tests {
			fmt.Printf("  [%s] %s\n", test.ID, test.Input)
			fmt.Printf("    -> %s\n", test.ExpectedTool)
			if len(test.NotTools) > 0 {
				fmt.Printf("    not: %s\n", strings.Join(test.NotTools, ", "))
			}
		}
	}
}

func loadConfusionPairs(dir string, verbose bool) {
	suite, err := evals.LoadConfusionPairSuite(filepath.Join(dir, "confusion_pairs.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading confusion pairs suite: %v\n", err)
		os.Exit(1)
	}

	totalTests := 0
	for _, pair := range suite.Pairs {
		totalTests += len(pair.Tests)
	}

	fmt.Printf("Confusion Pairs Suite: %s (v%s)\n", suite.Name, suite.Version)
	fmt.Printf("Total: %d tests across %d pairs\n\n", totalTests, len(suite.Pairs))

	for _, pair := range suite.Pairs {
		fmt.Printf("  %s:\n", pair.ID)
		fmt.Printf("    Tools: %s\n", strings.Join(pair.Tools, " vs "))
		fmt.Printf("    Rule: %s\n", pair.Disambiguation)

		if verbose {
			for _, test := range pair.Tests {
				fmt.Printf("      %q -> %s (%s)\n", test.Input, test.Expected, test.Reason)
			}
		}
	}
	fmt.Println()
}

func loadArguments(dir string, verbose bool) {
	suite, err := evals.LoadArgumentSuite(filepath.Join(dir, "argument_correctness.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading argument suite: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Argument Suite: %s (v%s)\n", suite.Name, suite.Version)
	fmt.Printf("Total Tests: %d\n\n", len(suite.Tests))

	byTool := make(map[string]int)
	for _, test := range suite.Tests {
		byTool[test.Tool]++
	}
	fmt.Println("Tests by Tool:")
	printCounts(byTool)

	fmt.Println("\nValidation Rules:")
	fmt.Printf("  Query language: %s\n", suite.ValidationRules.QueryLanguage)
	fmt.Printf("  ID format: %s\n", suite.ValidationRules.IDFormat)
	fmt.Printf("  Date format: %s\n", suite.ValidationRules.DateFormat)
	fmt.Printf("  Case numbers: %s\n", suite.ValidationRules.CaseNoFormat)
	fmt.Printf("  Display: %s\n", suite.ValidationRules.DisplayDefault)

	if verbose {
		fmt.Println("\nTest Cases:")
		for _, test := range suite.Tests {
			fmt.Printf("  [%s] %s\n", test.ID, test.Input)
			fmt.Printf("    Tool: %s, Required: %v, Expected: %v\n",
				test.Tool, test.RequiredArgs, test.ExpectedArgs)
			if test.ArgNotes != "" {
				fmt.Printf("    Notes: %s\n", test.ArgNotes)
			}
		}
	}
}

func loadAll(dir string, verbose bool) {
	toolSelection, confusionPairs, arguments, err := evals.LoadAllEvals(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading evals: %v\n", err)
		os.Exit(1)
	}

	confusionTests := 0
	for _, pair := range confusionPairs.Pairs {
		confusionTests += len(pair.Tests)
	}
	totalTests := len(toolSelection.Tests) + confusionTests + len(arguments.Tests)

	fmt.Printf("Loaded all evaluation suites from: %s\n\n", dir)
	fmt.Println("Summary:")
	fmt.Println("--------")
	fmt.Printf("Tool Selection Tests:   %d\n", len(toolSelection.Tests))
	fmt.Printf("Confusion Pair Tests:   %d (across %d pairs)\n", confusionTests, len(confusionPairs.Pairs))
	fmt.Printf("Argument Tests:         %d\n", len(arguments.Tests))
	fmt.Printf("Total Evaluation Tests: %d\n\n", totalTests)

	known := make(map[string]bool, len(tools.AllTools))
	for _, spec := range tools.AllTools {
		known[spec.Name] = true
	}

	if missing := evals.UnknownTools(toolSelection, confusionPairs, arguments, known); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: suites reference tools not in the catalog:\n")
		for _, name := range missing {
			fmt.Fprintf(os.Stderr, "  - %s\n", name)
		}
		os.Exit(1)
	}

	covered := make(map[string]bool)
	for _, test := range toolSelection.Tests {
		covered[test.ExpectedTool] = true
	}
	for _, pair := range confusionPairs.Pairs {
		for _, tool := range pair.Tools {
			covered[tool] = true
		}
	}
	for _, test := range arguments.Tests {
		covered[test.Tool] = true
	}

	fmt.Printf("Catalog: %d tools, %d covered by evals\n", len(tools.AllTools), len(covered))

	if verbose {
		names := make([]string, 0, len(covered))
		for name := range covered {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("\nCovered Tools:")
		for _, name := range names {
			fmt.Printf("  + %s\n", name)
		}
	}
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-40s: %d\n", k, counts[k])
	}
}
