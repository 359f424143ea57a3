package handler

import (
	"errors"
	"strings"

	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Register creates a student or company account and signs the user in.
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("register bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	user := &model.User{
		UserID:       uuid.New(),
		Role:         req.Role,
		Email:        pkg.NormalizeEmail(req.Email),
		PasswordHash: pwHash,
		FullName:     strings.TrimSpace(req.FullName),
		Education:    strings.TrimSpace(req.Education),
		Skills:       pkg.CleanList(req.Skills),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		RolesOffered: pkg.CleanList(req.RolesOffered),
		CompanySize:  strings.TrimSpace(req.CompanySize),
		Industry:     strings.TrimSpace(req.Industry),
	}
	if err := h.Users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			response.Conflict(c, "email already registered")
			return
		}
		h.Logger.Sugar().Errorw("user create failed", "email", user.Email, "err", err)
		response.InternalError(c, "could not create user")
		return
	}

	h.signIn(c, user, true)
}

// Login verifies credentials and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.Users.GetUserByEmail(c.Request.Context(), pkg.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Sugar().Errorw("login lookup failed", "err", err)
			response.InternalError(c, "")
			return
		}
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", user.Email)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	h.signIn(c, user, false)
}

func (h *Handler) signIn(c *gin.Context, user *model.User, created bool) {
	token, claims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, user.Role)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}
	res := model.LoginRes{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user.Public(),
	}
	if created {
		response.Created(c, res)
		return
	}
	response.OK(c, res)
}

// Me returns the current user profile
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Users.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Unauthorized(c, "")
			return
		}
		h.fail(c, "load profile", err)
		return
	}
	response.OK(c, user.Public())
}

// UpdateResumeText stores the parsed résumé text a student uploaded.
func (h *Handler) UpdateResumeText(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	var req model.UpdateResumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "resume text required")
		return
	}

	ctx := c.Request.Context()
	if err := h.Users.UpdateResumeText(ctx, claims.UserID, req.ResumeText); err != nil {
		h.fail(c, "update resume", err)
		return
	}
	user, err := h.Users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		h.fail(c, "update resume", err)
		return
	}
	response.Message(c, "resume text updated", "user", user.Public())
}
