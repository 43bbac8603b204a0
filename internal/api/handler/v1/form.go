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

type FormService interface {
	ReplaceSchema(ctx context.Context, eventID, callerID uint, fields []domain.FormField) (domain.FormSchema, error)
	GetSchema(ctx context.Context, eventID uint) (domain.FormSchema, error)
}

type FormHandler struct {
	svc  FormService
	uSvc UserService
}

func NewFormHandler(svc FormService, uSvc UserService) *FormHandler {
	return &FormHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleReplaceFormSchema godoc
// @Summary      Replace an event's registration form schema
// @Tags         forms
// @Produce      json
// @Param        eventID   path      int                               true  "event ID"
// @Param        request   body      request.ReplaceFormSchemaRequest  true  "request body"
// @Success      200      {object}   domain.FormSchema
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/form [put]
// @Security     BearerAuth
func (h *FormHandler) HandleReplaceFormSchema(ctx *gin.Context) {
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

	var req request.ReplaceFormSchemaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fields := make([]domain.FormField, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = domain.FormField{
			ID:          f.ID,
			Type:        domain.FieldType(f.Type),
			Label:       f.Label,
			Required:    f.Required,
			Options:     f.Options,
			Description: f.Description,
		}
	}

	schema, err := h.svc.ReplaceSchema(ctx.Request.Context(), eventID, user.ID, fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event"))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOrganizer))
		case errors.Is(err, domain.ErrSchemaInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleReplaceFormSchema -> h.svc.ReplaceSchema -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, schema)
}

// HandleGetFormSchema godoc
// @Summary      Get an event's registration form schema
// @Tags         forms
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.FormSchema
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/form [get]
func (h *FormHandler) HandleGetFormSchema(ctx *gin.Context) {
	eventID, respErr := parseEventID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	schema, err := h.svc.GetSchema(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrFormSchemaNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("form schema"))
			return
		}

		err = fmt.Errorf("v1.HandleGetFormSchema -> h.svc.GetSchema -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, schema)
}
