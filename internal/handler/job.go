package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/abhishek622/intellihire/internal/export"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateJob(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req model.CreateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("create job bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	job, err := h.Applications.CreateJob(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.fail(c, "create job", err)
		return
	}
	response.Created(c, job)
}

// ListJobs returns the open jobs students can apply to.
func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.Applications.ListOpenJobs(c.Request.Context())
	if err != nil {
		h.fail(c, "list jobs", err)
		return
	}
	response.OK(c, jobs)
}

func (h *Handler) ListCompanyJobs(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	jobs, err := h.Applications.ListCompanyJobs(c.Request.Context(), actor.ID)
	if err != nil {
		h.fail(c, "list company jobs", err)
		return
	}
	response.OK(c, jobs)
}

func (h *Handler) GetJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}
	job, err := h.Applications.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.fail(c, "get job", err)
		return
	}
	response.OK(c, job)
}

func (h *Handler) ApplyToJob(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}
	app, err := h.Applications.Apply(c.Request.Context(), actor.ID, jobID)
	if err != nil {
		h.fail(c, "apply", err)
		return
	}
	response.Created(c, app)
}

func (h *Handler) ListJobApplications(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}
	_, apps, err := h.Applications.ListForJob(c.Request.Context(), actor.ID, jobID)
	if err != nil {
		h.fail(c, "list applications", err)
		return
	}
	response.OK(c, apps)
}

// ExportJobApplications streams the job's applications as an xlsx workbook.
func (h *Handler) ExportJobApplications(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}
	job, apps, err := h.Applications.ListForJob(c.Request.Context(), actor.ID, jobID)
	if err != nil {
		h.fail(c, "export applications", err)
		return
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	if err := export.WriteApplications(&buf, job, apps, now); err != nil {
		h.fail(c, "export applications", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(job, now)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
