package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abhishek622/intellihire/internal/auth"
	"github.com/abhishek622/intellihire/internal/config"
	"github.com/abhishek622/intellihire/internal/handler"
	"github.com/abhishek622/intellihire/internal/metrics"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp() *app {
	maker := auth.NewJWTMaker("0123456789abcdef0123456789abcdef", time.Hour)
	return &app{
		Logger: zap.NewNop(),
		Config: &config.Config{
			Env:     "test",
			Limiter: config.RateLimiterConfig{Requests: 10, Window: time.Minute},
			CORS:    config.CORSConfig{TrustedOrigins: []string{"http://localhost:5173"}},
		},
		Handler:    &handler.Handler{Logger: zap.NewNop(), TokenMaker: maker},
		Metrics:    metrics.New(),
		TokenMaker: maker,
	}
}

func TestRoutes_StatusAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testApp()
	h, err := a.routes()
	require.NoError(t, err)
	engine := h.(*gin.Engine)

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	assert.True(t, registered["PATCH /api/applications/:applicationId"])
	assert.True(t, registered["PATCH /api/jobs/applications/:applicationId/status"])

	path := "/api/jobs/applications/" + uuid.NewString() + "/status"

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, path, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	studentToken, _, err := a.TokenMaker.GenerateToken(uuid.New(), "s@example.com", model.UserRoleStudent)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
