package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/jobs/:jobId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/"+strings.Repeat("a", i+1), nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/jobs/:jobId", "200"))
	assert.Equal(t, float64(3), got)
}

func TestMetrics_LLMAndHandler(t *testing.T) {
	m := New()
	m.ObserveLLM("gemini", 120*time.Millisecond, nil)
	m.ObserveLLM("gemini", time.Second, errors.New("boom"))
	m.ObserveTransition("applied", "in-progress")
	m.ObserveVerdict("practice", "success")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmCalls.WithLabelValues("gemini", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmCalls.WithLabelValues("gemini", "error")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "application_transitions_total")
	assert.Contains(t, w.Body.String(), "interview_verdicts_total")
}
