package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abhishek622/intellihire/internal/auth"
	"github.com/abhishek622/intellihire/internal/cache"
	"github.com/abhishek622/intellihire/internal/handler"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	maker := auth.NewJWTMaker("0123456789abcdef0123456789abcdef", time.Hour)

	r := gin.New()
	r.GET("/company", AuthMiddleware(maker, model.UserRoleCompany), func(c *gin.Context) {
		claims := c.MustGet(handler.ClaimsKey).(*auth.UserClaims)
		c.String(http.StatusOK, claims.UserID.String())
	})

	studentToken, _, err := maker.GenerateToken(uuid.New(), "s@example.com", model.UserRoleStudent)
	require.NoError(t, err)
	companyID := uuid.New()
	companyToken, _, err := maker.GenerateToken(companyID, "c@example.com", model.UserRoleCompany)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + companyToken, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + studentToken, want: http.StatusForbidden},
		{name: "ok", header: "Bearer " + companyToken, want: http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/company", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, companyID.String(), w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/interview/start", RateLimit(cache.NewMemoryLimiter(), 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/interview/start", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	open := gin.New()
	open.POST("/x", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(t *testing.T, trusted []string) []int {
		r, err := newEngine(false, trusted)
		require.NoError(t, err)
		r.POST("/interview/start", RateLimit(cache.NewMemoryLimiter(), 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		codes := make([]int, 0, 4)
		for i := 0; i < 4; i++ {
			req := httptest.NewRequest(http.MethodPost, "/interview/start", nil)
			req.RemoteAddr = "192.0.2.1:4321"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		return codes
	}

	assert.Equal(t,
		[]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests},
		serve(t, nil))

	// behind a known load balancer each forwarded client gets its own bucket
	assert.Equal(t,
		[]int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusOK},
		serve(t, []string{"192.0.2.1"}))
}

func TestNewEngine_RejectsBadProxy(t *testing.T) {
	_, err := newEngine(false, []string{"not-an-ip"})
	assert.Error(t, err)
}
