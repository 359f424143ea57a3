package handler

import (
	"context"
	"errors"

	"github.com/abhishek622/intellihire/internal/application"
	"github.com/abhishek622/intellihire/internal/auth"
	"github.com/abhishek622/intellihire/internal/interview"
	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/abhishek622/intellihire/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key the auth middleware stores claims under.
const ClaimsKey = "claims"

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateResumeText(ctx context.Context, userID uuid.UUID, resume string) error
}

type Handler struct {
	Logger       *zap.Logger
	Users        UserStore
	TokenMaker   *auth.JWTMaker
	Applications *application.Service
	Interviews   *interview.Service
}

// GetClaimsFromContext returns the claims set by the auth middleware, or nil.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.UserClaims)
	return claims
}

func (h *Handler) actor(c *gin.Context) (application.Actor, bool) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return application.Actor{}, false
	}
	return application.Actor{ID: claims.UserID, Role: claims.Role}, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// fail maps a service error onto the response envelope. Anything unknown is
// logged and hidden behind a generic 500.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound),
		errors.Is(err, interview.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, application.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, application.ErrAlreadyApplied),
		errors.Is(err, application.ErrDuplicateRound),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, repository.ErrDuplicate):
		response.Conflict(c, err.Error())
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrInvalidResult),
		errors.Is(err, application.ErrInvalidRound),
		errors.Is(err, application.ErrNotInProgress),
		errors.Is(err, application.ErrInvalidTransition),
		errors.Is(err, application.ErrJobClosed),
		errors.Is(err, interview.ErrInvalidInput),
		errors.Is(err, interview.ErrEmptyTranscript):
		response.BadRequest(c, err.Error())
	default:
		h.Logger.Sugar().Errorw(op+" failed", "path", c.FullPath(), "err", err)
		response.InternalError(c, op+" failed")
	}
}
