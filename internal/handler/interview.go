package handler

import (
	"github.com/abhishek622/intellihire/internal/interview"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
)

// StartInterview returns the interviewer's opening question.
func (h *Handler) StartInterview(c *gin.Context) {
	var req model.StartInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.Interviews.Start(c.Request.Context(), interview.Setup{
		Role:       req.Role,
		Resume:     req.Resume,
		RoundType:  req.RoundType,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.fail(c, "start interview", err)
		return
	}
	response.Message(c, msg)
}

// RespondInterview returns the next question for the transcript so far.
func (h *Handler) RespondInterview(c *gin.Context) {
	var req model.RespondInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.Interviews.Respond(c.Request.Context(), interview.Setup{
		Role:       req.Role,
		Resume:     req.Resume,
		RoundType:  req.RoundType,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
	}, req.ChatHistory, req.Answer)
	if err != nil {
		h.fail(c, "respond", err)
		return
	}
	response.Message(c, msg)
}

// ConcludeInterview evaluates and stores the finished interview for the
// authenticated user.
func (h *Handler) ConcludeInterview(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	var req model.ConcludeInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	iv, err := h.Interviews.Conclude(c.Request.Context(), claims.UserID, interview.ConcludeInput{
		History:     req.History,
		ResumeText:  req.ResumeText,
		RoleSummary: req.RoleSummary,
		RoundType:   req.RoundType,
		CustomTopic: req.CustomTopic,
		Difficulty:  req.Difficulty,
		Type:        req.TypeOfInterview,
	})
	if err != nil {
		h.fail(c, "conclude interview", err)
		return
	}
	response.OK(c, gin.H{"interview": iv})
}

func (h *Handler) ListMyInterviews(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	list, err := h.Interviews.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, "list interviews", err)
		return
	}
	response.OK(c, list)
}

func (h *Handler) GetInterview(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	iv, err := h.Interviews.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		h.fail(c, "get interview", err)
		return
	}
	response.OK(c, iv)
}

func (h *Handler) SummarizeRole(c *gin.Context) {
	var req model.SummarizeRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	summary, err := h.Interviews.SummarizeRole(c.Request.Context(), req.Prompt, req.URL)
	if err != nil {
		h.fail(c, "summarize role", err)
		return
	}
	response.OK(c, gin.H{"summary": summary})
}

func (h *Handler) FormatResume(c *gin.Context) {
	var req model.FormatResumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	formatted, err := h.Interviews.FormatResume(c.Request.Context(), req.ResumeText)
	if err != nil {
		h.fail(c, "format resume", err)
		return
	}
	response.OK(c, gin.H{"formatted": formatted})
}
