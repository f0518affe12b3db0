package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/models"
)

func TestInstrumentHandler_UsesPattern(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/stock/portfolio/report/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := c.InstrumentHandler(mux)

	for _, name := range []string{"a.pdf", "b.pdf"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stock/portfolio/report/"+name, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestTotal.WithLabelValues("GET", "/api/stock/portfolio/report/", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestCompletionObserver(t *testing.T) {
	c, err := NewCollector()
	require.NoError(t, err)

	observe := c.CompletionObserver("gemini")
	observe("report", nil, 2*time.Second)
	observe("report", &models.Failure{Reason: models.ReasonRateLimited}, time.Second)
	observe("summary", nil, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.completionTotal.WithLabelValues("gemini", "report", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completionTotal.WithLabelValues("gemini", "report", "rate_limited")))

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "stockbrief_llm_completions_total"))
}
