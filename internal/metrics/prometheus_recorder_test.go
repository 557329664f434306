package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObservePluginDuration("sitemap", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncPluginResult("sitemap", ResultSuccess)
	pr.IncRunOutcome("success")
	pr.ObserveModuleGeneration("virtual:vitesse/user-config", 5*time.Millisecond)
	pr.IncConfigReload(true)
	pr.SetPluginCount(2)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestRegistryScrape(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome("success")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler(reg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("scrape status: %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "vitesse_run_outcomes_total") {
		t.Fatalf("scrape missing run outcome counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("scrape missing runtime collector output")
	}
}

func TestNilRecorderSafety(t *testing.T) {
	var pr *PrometheusRecorder
	// Nil receiver must not panic
	pr.ObservePluginDuration("x", time.Second)
	pr.ObserveRunDuration(time.Second)
	pr.IncPluginResult("x", ResultFatal)
	pr.IncRunOutcome("failed")
	pr.ObserveModuleGeneration("x", time.Second)
	pr.IncConfigReload(false)
	pr.SetPluginCount(0)
}
