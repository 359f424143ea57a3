package handler

import (
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateApplication(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req model.CreateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	app, err := h.Applications.Apply(c.Request.Context(), actor.ID, req.JobID)
	if err != nil {
		h.fail(c, "create application", err)
		return
	}
	response.Created(c, app)
}

func (h *Handler) ListMyApplications(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	apps, err := h.Applications.ListMine(c.Request.Context(), actor.ID)
	if err != nil {
		h.fail(c, "list applications", err)
		return
	}
	response.OK(c, apps)
}

func (h *Handler) GetApplication(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "applicationId")
	if !ok {
		return
	}
	detail, err := h.Applications.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.fail(c, "get application", err)
		return
	}
	response.OK(c, detail)
}

// UpdateApplicationStatus is the company's manual pipeline control.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "applicationId")
	if !ok {
		return
	}
	var req model.UpdateApplicationStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !req.Status.Valid() {
		response.BadRequest(c, "invalid status value")
		return
	}

	app, err := h.Applications.UpdateStatus(c.Request.Context(), actor.ID, id, req.Status)
	if err != nil {
		h.fail(c, "update status", err)
		return
	}
	response.Message(c, "status updated", "application", app)
}

// SubmitRoundResult records one round outcome and advances the application.
func (h *Handler) SubmitRoundResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "applicationId")
	if !ok {
		return
	}
	var req model.RoundResultReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.Applications.SubmitRoundResult(c.Request.Context(), actor, id, req)
	if err != nil {
		h.fail(c, "submit round result", err)
		return
	}
	response.Message(c, "round result saved", "application", app)
}

func (h *Handler) CompanyDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	d, err := h.Applications.Dashboard(c.Request.Context(), actor.ID)
	if err != nil {
		h.fail(c, "load dashboard", err)
		return
	}
	response.OK(c, d)
}
