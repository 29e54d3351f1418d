package treaty

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ChangooLee/mcp-kr-legislation/internal/base"
	"github.com/ChangooLee/mcp-kr-legislation/internal/config"
	apierr "github.com/ChangooLee/mcp-kr-legislation/internal/errors"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OC:          "test",
		SearchURL:   srv.URL + "/DRF/lawSearch.do",
		ServiceURL:  srv.URL + "/DRF/lawService.do",
		Referer:     config.DefaultReferer,
		Timeout:     5 * time.Second,
		SlowTimeout: 5 * time.Second,
		MaxRetries:  1,
		UserAgent:   "test",
	}
	b := base.NewClient(cfg, base.WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	t.Cleanup(b.Close)
	return NewClient(b)
}

func TestSearchTreaty(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("target"); got != "trty" {
			t.Errorf("target = %q, want trty", got)
		}
		// Treaty search capitalizes the inner key.
		w.Write([]byte(`{"TrtySearch":{"totalCnt":"1","Trty":[{"조약명한글":"대한민국과 미합중국 간의 상호방위조약","조약일련번호":"188"}]}}`))
	})

	result, err := client.SearchTreaty(context.Background(), SearchArgs{Query: "상호방위"})
	if err != nil {
		t.Fatalf("SearchTreaty failed: %v", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", result.TotalCount)
	}
	if !strings.Contains(result.Report, "상호방위조약") {
		t.Error("report should contain the treaty name")
	}
	if !strings.Contains(result.Report, "get_treaty_detail") {
		t.Error("report should hint at the detail tool")
	}
}

func TestGetTreatyDetail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"TrtyService":{"조약명한글":"한·EU 자유무역협정","발효일자":"20110701"}}`))
	})

	result, err := client.GetTreatyDetail(context.Background(), DetailArgs{ID: "188"})
	if err != nil {
		t.Fatalf("GetTreatyDetail failed: %v", err)
	}
	if !strings.Contains(result.Report, "자유무역협정") {
		t.Error("report should contain the treaty name")
	}
}

func TestGetTreatyDetail_EmptyID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.GetTreatyDetail(context.Background(), DetailArgs{})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
