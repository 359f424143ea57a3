package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newEngine builds the bare router. Client IPs come from X-Forwarded-For only
// when the peer is one of trustedProxies.
func newEngine(release bool, trustedProxies []string) (*gin.Engine, error) {
	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	return r, nil
}

func (a *app) routes() (http.Handler, error) {
	r, err := newEngine(!a.Config.IsDevelopment(), a.Config.TrustedProxies)
	if err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(requestLogger(a.Logger))
	r.Use(a.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.Config.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept", "Origin", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		if err := a.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	h := a.Handler
	authed := AuthMiddleware(a.TokenMaker)
	student := AuthMiddleware(a.TokenMaker, model.UserRoleStudent)
	company := AuthMiddleware(a.TokenMaker, model.UserRoleCompany)
	limited := RateLimit(a.Limiter, a.Config.Limiter.Requests, a.Config.Limiter.Window, a.Logger)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authed, h.Me)
	}

	resume := api.Group("/resume")
	{
		resume.POST("/update-text", student, h.UpdateResumeText)
		resume.POST("/format-resume", limited, h.FormatResume)
	}

	jobs := api.Group("/jobs")
	{
		jobs.POST("", company, h.CreateJob)
		jobs.GET("", student, h.ListJobs)
		jobs.GET("/company", company, h.ListCompanyJobs)
		jobs.GET("/:jobId", authed, h.GetJob)
		jobs.POST("/:jobId/apply", student, h.ApplyToJob)
		jobs.GET("/:jobId/applications", company, h.ListJobApplications)
		jobs.GET("/:jobId/applications/export", company, h.ExportJobApplications)
		jobs.PATCH("/applications/:applicationId/status", company, h.UpdateApplicationStatus)
	}

	apps := api.Group("/applications")
	{
		apps.POST("", student, h.CreateApplication)
		apps.GET("/mine", student, h.ListMyApplications)
		apps.GET("/job/:jobId", company, h.ListJobApplications)
		apps.GET("/:applicationId", authed, h.GetApplication)
		apps.POST("/:applicationId/round", authed, h.SubmitRoundResult)
		apps.PATCH("/:applicationId", company, h.UpdateApplicationStatus)
	}

	api.GET("/company/dashboard", company, h.CompanyDashboard)

	iv := api.Group("/interview")
	{
		iv.POST("/start", limited, h.StartInterview)
		iv.POST("/respond", limited, h.RespondInterview)
		iv.POST("/summarize-role", limited, h.SummarizeRole)
		iv.POST("/format-resume", limited, h.FormatResume)
		iv.POST("/conclude", authed, h.ConcludeInterview)
		iv.GET("/mine", authed, h.ListMyInterviews)
		iv.GET("/:id", authed, h.GetInterview)
	}

	return r, nil
}
