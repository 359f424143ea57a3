package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishek622/intellihire/internal/auth"
	"github.com/abhishek622/intellihire/internal/cache"
	"github.com/abhishek622/intellihire/internal/handler"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware admits requests with a valid bearer token whose role is one
// of roles; no roles admits any authenticated user.
func AuthMiddleware(tokenMaker *auth.JWTMaker, roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, tokenMaker)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		if !claims.HasRole(roles...) {
			response.Forbidden(c, "access denied for role "+string(claims.Role))
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokenMaker *auth.JWTMaker) (*auth.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := tokenMaker.VerifyToken(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// RateLimit caps requests per client IP. A nil limiter disables it.
func RateLimit(limiter cache.Limiter, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.FullPath() + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, limit, window) {
			log.Sugar().Warnw("rate limited", "ip", c.ClientIP(), "path", c.FullPath())
			response.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}

// requestLogger writes one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
