package interpretation

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
	"github.com/ChangooLee/mcp-kr-legislation/internal/envelope"
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

func TestMinistriesAllInEnvelopeTable(t *testing.T) {
	for _, m := range Ministries {
		entry, ok := envelope.Lookup(m.Target)
		if !ok {
			t.Errorf("ministry %s (%s) missing from envelope table", m.Target, m.Name)
			continue
		}
		if entry.Outer != "CgmExpc" || entry.Inner != "cgmExpc" {
			t.Errorf("ministry %s: envelope = (%s, %s), want (CgmExpc, cgmExpc)", m.Target, entry.Outer, entry.Inner)
		}
	}
}

func TestSearch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("target"); got != "ntsCgmExpc" {
			t.Errorf("target = %q, want ntsCgmExpc", got)
		}
		w.Write([]byte(`{"CgmExpc":{"totalCnt":"1","cgmExpc":[{"안건명":"양도소득세 비과세 요건 질의","회신일자":"20230210","법령해석례일련번호":"3030"}]}}`))
	})

	result, err := client.Search(context.Background(), "ntsCgmExpc", SearchArgs{Query: "양도소득세"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", result.TotalCount)
	}
	if !strings.Contains(result.Report, "양도소득세 비과세 요건 질의") {
		t.Error("report should contain the interpretation title")
	}
	if !strings.Contains(result.Report, "get_nts_interpretation_detail") {
		t.Errorf("report should hint at the ministry's detail tool:\n%s", result.Report)
	}
}

func TestSearch_UnknownMinistry(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Search(context.Background(), "xyzCgmExpc", SearchArgs{Query: "x"})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDetail_JSON(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"CgmExpc":{"cgmExpc":{"안건명":"관세 감면 대상 질의","회신내용":"감면 대상에 해당합니다."}}}`))
	})

	result, err := client.Detail(context.Background(), "kcsCgmExpc", DetailArgs{ID: "42"})
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if result.Source != "json" {
		t.Errorf("Source = %q, want json", result.Source)
	}
	if !strings.Contains(result.Report, "관세 감면 대상 질의") {
		t.Error("report should contain the title")
	}
}

func TestDetail_HTMLParse(t *testing.T) {
	page := `<html><body><h2>질의회신</h2>
		<div>질의요지</div><div>감면 적용 범위에 대한 질의</div>
		<div>회신내용</div><div>관세법 제88조에 따라 감면됩니다.</div>
	</body></html>`
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})

	result, err := client.Detail(context.Background(), "moefCgmExpc", DetailArgs{ID: "7"})
	if err != nil {
		t.Fatalf("HTML detail should not error: %v", err)
	}
	if result.Source != "html" {
		t.Errorf("Source = %q, want html", result.Source)
	}
	if !strings.Contains(result.Report, "관세법 제88조") {
		t.Errorf("report should contain the parsed 회신내용:\n%s", result.Report)
	}
}
