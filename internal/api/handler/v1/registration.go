package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campus-api/internal/api/handler/v1/request"
	"github.com/campushub/campus-api/internal/api/handler/v1/response"
	"github.com/campushub/campus-api/internal/domain"
	"github.com/campushub/campus-api/internal/service"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID, userID uint, input domain.RegistrationInput) (*uint, error)
	Unregister(ctx context.Context, eventID, userID uint) error
	GetRegistration(ctx context.Context, eventID, userID uint) (service.RegistrationDetail, error)
}

type RegistrationHandler struct {
	svc  RegistrationService
	uSvc UserService
}

func NewRegistrationHandler(svc RegistrationService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRegister godoc
// @Summary      Register the caller for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID   path      int                      true  "event ID"
// @Param        request   body      request.RegisterRequest  true  "request body"
// @Success      200      {object}   response.RegisterResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/register [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	input := domain.RegistrationInput{
		ParticipationType: domain.ParticipationType(req.ParticipationType),
		TeamAction:        domain.TeamAction(req.TeamAction),
		TeamName:          req.TeamName,
		TeamCode:          req.TeamCode,
		FormData:          req.FormData,
	}
	for _, m := range req.Members {
		input.Members = append(input.Members, domain.TeamMemberInput{
			UserID:    m.UserID,
			Name:      m.Name,
			Email:     m.Email,
			Role:      m.Role,
			AvatarURL: m.AvatarURL,
		})
	}

	teamID, err := h.svc.Register(ctx.Request.Context(), eventID, user.ID, input)
	if err != nil {
		response.RenderErr(ctx, mapRegisterErr(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RegisterResponse{
		Success: true,
		TeamID:  teamID,
	})
}

// mapRegisterErr sorts registration failures into the caller's fault (400),
// missing resources (404) and everything else (500).
func mapRegisterErr(err error) *response.Err {
	var sizeErr *domain.TeamSizeError
	var membersErr *domain.MembersAlreadyRegisteredError

	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return response.ErrNotFound("event")
	case errors.Is(err, service.ErrEventFull):
		return response.ErrBadRequest(service.ErrEventFull)
	case errors.Is(err, service.ErrAlreadyRegistered):
		return response.ErrBadRequest(service.ErrAlreadyRegistered)
	case errors.Is(err, service.ErrTeamCodeNotFound):
		return response.ErrBadRequest(service.ErrTeamCodeNotFound)
	case errors.Is(err, service.ErrTeamNameTaken):
		return response.ErrBadRequest(service.ErrTeamNameTaken)
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrFormInvalid):
		return response.ErrBadRequest(err)
	case errors.As(err, &sizeErr):
		return response.ErrBadRequest(sizeErr)
	case errors.As(err, &membersErr):
		return response.ErrBadRequest(membersErr)
	default:
		return response.ErrInternalServerError(fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err))
	}
}

// HandleUnregister godoc
// @Summary      Cancel the caller's registration for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   response.UnregisterResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/register [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleUnregister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Unregister(ctx.Request.Context(), eventID, user.ID); err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			response.RenderErr(ctx, response.ErrNotFound("registration"))
			return
		}

		err = fmt.Errorf("v1.HandleUnregister -> h.svc.Unregister -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.UnregisterResponse{Success: true})
}

// HandleGetRegistration godoc
// @Summary      Get the caller's registration for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   service.RegistrationDetail
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/registration [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	detail, err := h.svc.GetRegistration(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			response.RenderErr(ctx, response.ErrNotFound("registration"))
			return
		}

		err = fmt.Errorf("v1.HandleGetRegistration -> h.svc.GetRegistration -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, detail)
}
