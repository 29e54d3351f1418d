package base

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/time/rate"

	"github.com/ChangooLee/mcp-kr-legislation/internal/config"
	apierr "github.com/ChangooLee/mcp-kr-legislation/internal/errors"
	"github.com/ChangooLee/mcp-kr-legislation/internal/infra"
	"github.com/ChangooLee/mcp-kr-legislation/metrics"
)

func testConfig(searchURL, serviceURL string) *config.Config {
	return &config.Config{
		OC:          "testoc",
		SearchURL:   searchURL,
		ServiceURL:  serviceURL,
		Referer:     config.DefaultReferer,
		Timeout:     5 * time.Second,
		SlowTimeout: 10 * time.Second,
		MaxRetries:  3,
		UserAgent:   "test-agent",
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL+"/DRF/lawSearch.do", srv.URL+"/DRF/lawService.do")
	client := NewClient(cfg, WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	t.Cleanup(client.Close)
	return client, srv
}

func TestNewClient(t *testing.T) {
	cfg := testConfig(config.DefaultSearchURL, config.DefaultServiceURL)
	client := NewClient(cfg)
	defer client.Close()

	if client.HTTPClient == nil {
		t.Error("HTTPClient is nil")
	}
	if client.Logger == nil {
		t.Error("Logger is nil")
	}
	if client.Cache == nil {
		t.Error("Cache is nil")
	}
	if client.Dedup == nil {
		t.Error("Dedup is nil")
	}
	if client.CircuitBreaker == nil {
		t.Error("CircuitBreaker is nil")
	}
	if cap(client.semaphore) != MaxConcurrentRequests {
		t.Errorf("semaphore capacity = %d, want %d", cap(client.semaphore), MaxConcurrentRequests)
	}
}

func TestSearchURL(t *testing.T) {
	cfg := testConfig(config.DefaultSearchURL, config.DefaultServiceURL)
	client := NewClient(cfg)
	defer client.Close()

	params := url.Values{}
	params.Set("query", "도로교통법")
	raw := client.SearchURL("law", params)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("SearchURL produced unparseable URL: %v", err)
	}
	q := u.Query()

	if q.Get("OC") != "testoc" {
		t.Errorf("OC = %q, want testoc", q.Get("OC"))
	}
	if q.Get("target") != "law" {
		t.Errorf("target = %q, want law", q.Get("target"))
	}
	if q.Get("type") != "JSON" {
		t.Errorf("type = %q, want JSON", q.Get("type"))
	}
	// Law-name queries default to section=lawNm.
	if q.Get("section") != "lawNm" {
		t.Errorf("section = %q, want lawNm", q.Get("section"))
	}
}

func TestSearchURL_SectionNotForcedForOtherTargets(t *testing.T) {
	cfg := testConfig(config.DefaultSearchURL, config.DefaultServiceURL)
	client := NewClient(cfg)
	defer client.Close()

	params := url.Values{}
	params.Set("query", "음주운전")
	u, _ := url.Parse(client.SearchURL("prec", params))
	if u.Query().Get("section") != "" {
		t.Errorf("section = %q, want empty for prec", u.Query().Get("section"))
	}
}

func TestSearch_Success(t *testing.T) {
	var gotReferer, gotUA string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"LawSearch":{"totalCnt":"1","law":[{"법령명한글":"도로교통법"}]}}`))
	})

	data, err := client.Search(context.Background(), "law", url.Values{"query": {"도로교통법"}})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if _, ok := data["LawSearch"]; !ok {
		t.Error("expected LawSearch key in response")
	}
	if gotReferer != config.DefaultReferer {
		t.Errorf("Referer = %q, want %q", gotReferer, config.DefaultReferer)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotUA)
	}
}

func TestSearch_EmptyBody(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Search(context.Background(), "law", nil)
	var empty *apierr.EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
}

func TestSearch_AuthFailureHTML(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>사용자인증에 실패하였습니다</body></html>`))
	})

	before := counterValue(t, metrics.AuthFailures)
	_, err := client.Search(context.Background(), "law", nil)
	if !apierr.IsAuth(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if counterValue(t, metrics.AuthFailures) != before+1 {
		t.Error("auth failure not counted")
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestSearch_HTMLOnly(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html><html><body><h2>사건명</h2></body></html>`))
	})

	_, err := client.Search(context.Background(), "licbyl", nil)
	htmlErr, ok := apierr.IsHTMLOnly(err)
	if !ok {
		t.Fatalf("expected HTMLOnlyError, got %v", err)
	}
	if !strings.Contains(htmlErr.Body, "사건명") {
		t.Error("HTMLOnlyError should carry the body")
	}
}

func TestSearch_ResultCodeError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"LawSearch":{"resultCode":"12","resultMsg":"해당하는 데이터가 없습니다"}}`))
	})

	_, err := client.Search(context.Background(), "law", nil)
	if err == nil {
		t.Fatal("expected resultCode error")
	}
	var apiErr *apierr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.ResultCode != "12" {
		t.Errorf("ResultCode = %q, want 12", apiErr.ResultCode)
	}
}

func TestSearch_ResultCodeExemptTargets(t *testing.T) {
	// elaw omits resultCode entirely; its absence is not an error.
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"LawSearch":{"law":[{"법령명한글":"Road Traffic Act"}]}}`))
	})

	if _, err := client.Search(context.Background(), "elaw", nil); err != nil {
		t.Fatalf("elaw search failed: %v", err)
	}
}

func TestSearch_NotFound(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Search(context.Background(), "law", nil)
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"LawSearch":{"law":{"법령명한글":"도로교통법"}}}`))
	})

	if _, err := client.Search(context.Background(), "law", nil); err != nil {
		t.Fatalf("Search failed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSearch_CircuitBreakerOpens(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client.Config.MaxRetries = 1

	for i := 0; i < 5; i++ {
		client.Search(context.Background(), "law", nil)
	}

	_, err := client.Search(context.Background(), "law", nil)
	var open *infra.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen after repeated failures, got %v", err)
	}
}

func TestSearchCached(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"LawSearch":{"totalCnt":"1","law":[{"법령명한글":"도로교통법"}]}}`))
	})

	ctx := context.Background()
	params := url.Values{"query": {"도로교통법"}}

	if _, err := client.SearchCached(ctx, "law", params); err != nil {
		t.Fatalf("first SearchCached failed: %v", err)
	}
	if _, err := client.SearchCached(ctx, "law", params); err != nil {
		t.Fatalf("second SearchCached failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second should hit cache)", calls.Load())
	}
}

func TestServiceCached_DiskCache(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"법령":{"기본정보":{"법령명_한글":"도로교통법"}}}`))
	})
	client.DiskCache = infra.NewDiskCache(t.TempDir(), time.Hour, client.Logger)

	ctx := context.Background()
	params := url.Values{"ID": {"001447"}}

	if _, err := client.ServiceCached(ctx, "law", "001447", "", params); err != nil {
		t.Fatalf("first ServiceCached failed: %v", err)
	}
	if _, err := client.ServiceCached(ctx, "law", "001447", "", params); err != nil {
		t.Fatalf("second ServiceCached failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second should hit disk cache)", calls.Load())
	}

	// A different section is a different cache entry.
	if _, err := client.ServiceCached(ctx, "law", "001447", "1-10", params); err != nil {
		t.Fatalf("sectioned ServiceCached failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2 after new section", calls.Load())
	}
}

func TestServiceHTMLURL(t *testing.T) {
	cfg := testConfig(config.DefaultSearchURL, config.DefaultServiceURL)
	client := NewClient(cfg)
	defer client.Close()

	u, err := url.Parse(client.ServiceHTMLURL("prec", url.Values{"ID": {"12345"}}))
	if err != nil {
		t.Fatalf("ServiceHTMLURL produced unparseable URL: %v", err)
	}
	if u.Query().Get("type") != "HTML" {
		t.Errorf("type = %q, want HTML", u.Query().Get("type"))
	}
	if u.Query().Get("ID") != "12345" {
		t.Errorf("ID = %q, want 12345", u.Query().Get("ID"))
	}
}

func TestSearch_SlowTargetOutlivesBaseTimeout(t *testing.T) {
	// lsHstInf routinely takes longer upstream than the base timeout; the
	// slow timeout must govern, not the base one.
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(600 * time.Millisecond)
		w.Write([]byte(`{"LawSearch":{"law":[{"법령명한글":"도로교통법"}]}}`))
	})
	client.Config.Timeout = 200 * time.Millisecond
	client.Config.SlowTimeout = 5 * time.Second
	client.Config.MaxRetries = 1

	if _, err := client.Search(context.Background(), "lsHstInf", url.Values{"query": {"도로교통법"}}); err != nil {
		t.Fatalf("slow-target search aborted before its own timeout: %v", err)
	}
}

func TestSearch_BaseTimeoutAppliesToNormalTargets(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(600 * time.Millisecond)
		w.Write([]byte(`{}`))
	})
	client.Config.Timeout = 100 * time.Millisecond
	client.Config.SlowTimeout = 5 * time.Second
	client.Config.MaxRetries = 1

	_, err := client.Search(context.Background(), "law", nil)
	if err == nil {
		t.Fatal("expected deadline error for a normal target past the base timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestSearch_HalfOpenClosesOnSuccess(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"LawSearch":{"law":[{"법령명한글":"도로교통법"}]}}`))
	})
	client.CircuitBreaker = infra.NewCircuitBreakerWithConfig(1, 10*time.Millisecond, 2)

	client.CircuitBreaker.RecordFailure()
	if client.CircuitBreaker.State() != infra.CircuitOpen {
		t.Fatal("breaker not open after threshold failure")
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := client.Search(context.Background(), "law", nil); err != nil {
		t.Fatalf("probe search failed: %v", err)
	}
	if got := client.CircuitBreaker.State(); got != infra.CircuitClosed {
		t.Errorf("state = %v after successful probe, want closed", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{`{"LawSearch":{}}`, false},
		{`<!DOCTYPE html><html>`, true},
		{`<html lang="ko">`, true},
		{`<HTML>`, true},
		{`plain text`, false},
	}
	for _, tt := range tests {
		if got := looksLikeHTML(tt.text); got != tt.want {
			t.Errorf("looksLikeHTML(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
