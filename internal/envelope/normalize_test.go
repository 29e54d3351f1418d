package envelope

import (
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/ChangooLee/mcp-kr-legislation/metrics"
)

func TestNormalizeSuccess(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": []any{
				map[string]any{"법령명한글": "민법", "법령ID": "001706"},
			},
		},
	}
	n := Normalize(raw, "law", false)
	if !n.Success {
		t.Error("Success = false, want true")
	}
	if n.TotalCount != 1 || len(n.Items) != 1 {
		t.Errorf("TotalCount = %d, len = %d", n.TotalCount, len(n.Items))
	}
	if n.Err != "" {
		t.Errorf("Err = %q, want empty", n.Err)
	}
	if len(n.RawKeys) != 1 || n.RawKeys[0] != "LawSearch" {
		t.Errorf("RawKeys = %v", n.RawKeys)
	}
}

func TestNormalizeZeroHits(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{"law": nil, "totalCnt": "0"},
	}
	n := Normalize(raw, "law", false)
	if n.Success {
		t.Error("Success = true for zero hits, want false")
	}
	if n.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", n.TotalCount)
	}
	if n.Err != "" {
		t.Errorf("Err = %q, want empty (zero hits is not an error)", n.Err)
	}
}

func TestNormalizeUpstreamError(t *testing.T) {
	raw := map[string]any{"Law": "일치하는 법령이 없습니다"}
	n := Normalize(raw, "law", false)
	if n.Success {
		t.Error("Success = true, want false")
	}
	if !strings.Contains(n.Err, "일치하는 법령이 없습니다") {
		t.Errorf("Err = %q, want upstream message", n.Err)
	}
	if len(n.RawKeys) != 1 || n.RawKeys[0] != "Law" {
		t.Errorf("RawKeys = %v", n.RawKeys)
	}
}

func TestNormalizeCleansHTML(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": []any{
				map[string]any{
					"법령명한글": "<strong>민법</strong>",
					"법령ID":  "<b>001706</b>",
				},
			},
		},
	}
	n := Normalize(raw, "law", true)
	if got := n.Items[0]["법령명한글"]; got != "민법" {
		t.Errorf("법령명한글 = %q, want 민법", got)
	}
	// 법령ID is not in the allow-list; markup survives untouched.
	if got := n.Items[0]["법령ID"]; got != "<b>001706</b>" {
		t.Errorf("법령ID = %q, want unchanged", got)
	}
}

func TestNormalizeNoCleanWhenDisabled(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": []any{map[string]any{"법령명한글": "<strong>민법</strong>"}},
		},
	}
	n := Normalize(raw, "law", false)
	if got := n.Items[0]["법령명한글"]; got != "<strong>민법</strong>" {
		t.Errorf("법령명한글 = %q, want raw markup preserved", got)
	}
}

func fallbackCount(t *testing.T, target string) float64 {
	t.Helper()
	counter, err := metrics.EnvelopeFallbacks.GetMetricWithLabelValues(target)
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestNormalizeCountsFallbackResolution(t *testing.T) {
	// A response under another target's envelope still resolves, but the
	// mismatch must show up on the fallback counter.
	raw := map[string]any{
		"PrecSearch": map[string]any{
			"prec": []any{map[string]any{"사건명": "손해배상"}},
		},
	}
	before := fallbackCount(t, "trty")
	n := Normalize(raw, "trty", false)
	if !n.Success {
		t.Fatal("fallback resolution should still succeed")
	}
	if fallbackCount(t, "trty") != before+1 {
		t.Error("fallback resolution not counted")
	}
}

func TestNormalizeTableHitNotCountedAsFallback(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": []any{map[string]any{"법령명한글": "민법"}},
		},
	}
	before := fallbackCount(t, "law")
	Normalize(raw, "law", false)
	if fallbackCount(t, "law") != before {
		t.Error("table hit counted as fallback")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		target string
		want   Category
	}{
		{"law", CategoryLaw},
		{"elaw", CategoryLaw},
		{"eflaw", CategoryLaw},
		{"lsHstInf", CategoryLaw},
		{"prec", CategoryPrecedent},
		{"detc", CategoryConstitutional},
		{"expc", CategoryInterpretation},
		{"decc", CategoryTrial},
		{"ppc", CategoryCommittee},
		{"nlrc", CategoryCommittee},
		{"eiac", CategoryCommittee},
		{"admrul", CategoryAdmRule},
		{"admrulOldAndNew", CategoryAdmRule},
		{"ordin", CategoryOrdinance},
		{"ordinfd", CategoryOrdinance},
		{"trty", CategoryTreaty},
		{"lstrm", CategoryTerm},
		{"lstrmAI", CategoryTerm},
		{"moefCgmExpc", CategoryMinistry},
		{"kcsCgmExpc", CategoryMinistry},
		{"ttSpecialDecc", CategoryTribunal},
		{"kmstSpecialDecc", CategoryTribunal},
		{"oldAndNew", CategoryOther},
		{"thdCmp", CategoryOther},
		{"nosuch", CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.target); got != tt.want {
			t.Errorf("CategoryOf(%q) = %s, want %s", tt.target, got, tt.want)
		}
	}
}

// Every table target must land in a real category, except the comparison
// targets that deliberately stay in Other.
func TestCategoryOfCoversTable(t *testing.T) {
	wantOther := map[string]bool{
		"oldAndNew": true, "thdCmp": true, "licbyl": true,
	}
	for _, target := range Targets() {
		got := CategoryOf(target)
		if wantOther[target] {
			if got != CategoryOther {
				t.Errorf("CategoryOf(%q) = %s, expected Other", target, got)
			}
			continue
		}
		if got == CategoryOther {
			t.Errorf("CategoryOf(%q) = Other; table target missing a category", target)
		}
	}
}
