package envelope

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		target    string
		wantOuter string
		wantInner string
		wantOK    bool
	}{
		{"law", "LawSearch", "law", true},
		{"prec", "PrecSearch", "prec", true},
		{"ppc", "Ppc", "ppc", true},
		{"trty", "TrtySearch", "Trty", true},
		{"lstrmAI", "lstrmAISearch", "법령용어", true},
		{"moefCgmExpc", "CgmExpc", "cgmExpc", true},
		{"ttSpecialDecc", "DeccSearch", "Decc", true},
		{"nosuch", "", "", false},
	}
	for _, tt := range tests {
		e, ok := Lookup(tt.target)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.target, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if e.Outer != tt.wantOuter || e.Inner != tt.wantInner {
			t.Errorf("Lookup(%q) = (%s, %s), want (%s, %s)",
				tt.target, e.Outer, e.Inner, tt.wantOuter, tt.wantInner)
		}
	}
}

func TestTargetsMatchesTable(t *testing.T) {
	targets := Targets()
	if len(targets) == 0 {
		t.Fatal("Targets() is empty")
	}
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		if seen[target] {
			t.Errorf("duplicate target %q", target)
		}
		seen[target] = true
		if _, ok := Lookup(target); !ok {
			t.Errorf("Targets() lists %q but Lookup misses it", target)
		}
	}
	if targets[0] != "law" {
		t.Errorf("first target = %q, want law (fallback scan order)", targets[0])
	}
}

// Every declared envelope shape must resolve to its own item array.
func TestExtractItemsEveryTarget(t *testing.T) {
	for _, target := range Targets() {
		e, _ := Lookup(target)
		raw := map[string]any{
			e.Outer: map[string]any{
				e.Inner: []any{
					map[string]any{"법령명": "민법"},
				},
			},
		}

		items, count, err := ExtractItems(raw, target)
		if err != nil {
			t.Errorf("%s: unexpected error %v", target, err)
			continue
		}
		if count != 1 || len(items) != 1 {
			t.Errorf("%s: count = %d, len = %d, want 1", target, count, len(items))
			continue
		}
		if items[0]["법령명"] != "민법" {
			t.Errorf("%s: item = %v", target, items[0])
		}
	}
}

func TestExtractItemsSingleObject(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": map[string]any{"법령명": "도로교통법"},
		},
	}
	items, count, err := ExtractItems(raw, "law")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if items[0]["법령명"] != "도로교통법" {
		t.Errorf("item = %v", items[0])
	}
}

func TestExtractItemsEmptyInner(t *testing.T) {
	// Committee targets return "" or nil for zero hits. That is an empty
	// result, not a parse failure.
	for _, inner := range []any{nil, "", "검색결과가 없습니다"} {
		raw := map[string]any{
			"Ppc": map[string]any{"ppc": inner, "totalCnt": "0"},
		}
		items, count, err := ExtractItems(raw, "ppc")
		if err != nil {
			t.Errorf("inner %v: unexpected error %v", inner, err)
			continue
		}
		if count != 0 || len(items) != 0 {
			t.Errorf("inner %v: count = %d, want 0", inner, count)
		}
	}
}

func TestExtractItemsEmptyResponse(t *testing.T) {
	for _, raw := range []map[string]any{nil, {}} {
		_, _, err := ExtractItems(raw, "law")
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("raw %v: err = %v, want ErrEmptyResponse", raw, err)
		}
	}
}

func TestExtractItemsUpstreamError(t *testing.T) {
	raw := map[string]any{"Law": "일치하는 법령이 없습니다"}
	items, count, err := ExtractItems(raw, "law")
	if len(items) != 0 || count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if upstream.Message != "일치하는 법령이 없습니다" {
		t.Errorf("message = %q", upstream.Message)
	}
	if upstream.Error() != "upstream: 일치하는 법령이 없습니다" {
		t.Errorf("Error() = %q", upstream.Error())
	}
}

func TestExtractItemsFallbackScan(t *testing.T) {
	// Response arrives under a different target's envelope. The fallback
	// scan should still find the non-empty array.
	raw := map[string]any{
		"PrecSearch": map[string]any{
			"prec": []any{map[string]any{"사건명": "손해배상"}},
		},
	}
	items, count, err := ExtractItems(raw, "law")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || items[0]["사건명"] != "손해배상" {
		t.Errorf("items = %v", items)
	}
}

func TestExtractItemsGenericKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"items array", map[string]any{"items": []any{map[string]any{"k": "v"}}}},
		{"data array", map[string]any{"data": []any{map[string]any{"k": "v"}}}},
		{"result object", map[string]any{"result": map[string]any{"k": "v"}}},
		{"법령 array", map[string]any{"법령": []any{map[string]any{"k": "v"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, count, err := ExtractItems(tt.raw, "nosuch")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != 1 || items[0]["k"] != "v" {
				t.Errorf("items = %v", items)
			}
		})
	}
}

func TestResolveVia(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		target  string
		want    Via
		wantErr bool
	}{
		{
			name:   "own envelope entry",
			raw:    map[string]any{"LawSearch": map[string]any{"law": []any{map[string]any{"k": "v"}}}},
			target: "law",
			want:   ViaTable,
		},
		{
			name:   "another target's envelope",
			raw:    map[string]any{"PrecSearch": map[string]any{"prec": []any{map[string]any{"k": "v"}}}},
			target: "law",
			want:   ViaFallback,
		},
		{
			name:   "generic key",
			raw:    map[string]any{"items": []any{map[string]any{"k": "v"}}},
			target: "law",
			want:   ViaGeneric,
		},
		{
			name:    "upstream error string",
			raw:     map[string]any{"Law": "일치하는 법령이 없습니다"},
			target:  "law",
			want:    ViaNone,
			wantErr: true,
		},
		{
			name:    "unknown shape",
			raw:     map[string]any{"unexpected": "shape"},
			target:  "law",
			want:    ViaNone,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, via, err := Resolve(tt.raw, tt.target)
			if via != tt.want {
				t.Errorf("via = %v, want %v", via, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractItemsParseFailure(t *testing.T) {
	raw := map[string]any{"unexpected": "shape"}
	_, _, err := ExtractItems(raw, "law")
	if !errors.Is(err, ErrParseFailure) {
		t.Errorf("err = %v, want ErrParseFailure", err)
	}
}

func TestExtractItemsSkipsStrayStrings(t *testing.T) {
	raw := map[string]any{
		"LawSearch": map[string]any{
			"law": []any{
				map[string]any{"법령명": "민법"},
				"stray notice",
				map[string]any{"법령명": "상법"},
			},
		},
	}
	items, count, err := ExtractItems(raw, "law")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (stray string dropped)", count)
	}
	if items[0]["법령명"] != "민법" || items[1]["법령명"] != "상법" {
		t.Errorf("items = %v", items)
	}
}

func TestTotalCount(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]any
		target string
		want   int
		wantOK bool
	}{
		{
			name:   "string count",
			raw:    map[string]any{"LawSearch": map[string]any{"totalCnt": "150"}},
			target: "law",
			want:   150,
			wantOK: true,
		},
		{
			name:   "numeric count",
			raw:    map[string]any{"PrecSearch": map[string]any{"totalCnt": float64(42)}},
			target: "prec",
			want:   42,
			wantOK: true,
		},
		{
			name:   "LawSearch fallback for unknown target",
			raw:    map[string]any{"LawSearch": map[string]any{"totalCnt": "7"}},
			target: "nosuch",
			want:   7,
			wantOK: true,
		},
		{
			name:   "absent",
			raw:    map[string]any{"LawSearch": map[string]any{}},
			target: "law",
			wantOK: false,
		},
		{
			name:   "unparseable",
			raw:    map[string]any{"LawSearch": map[string]any{"totalCnt": "many"}},
			target: "law",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TotalCount(tt.raw, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortedKeys(t *testing.T) {
	raw := map[string]any{"b": 1, "a": 2, "c": 3}
	keys := SortedKeys(raw)
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
