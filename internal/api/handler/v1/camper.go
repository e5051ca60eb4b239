package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/request"
	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/response"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/service"
)

type CamperService interface {
	ListCampers(ctx context.Context, parentID uint) ([]domain.Camper, error)
	CreateCamper(ctx context.Context, parentID uint, camper domain.Camper, photo string) (domain.Camper, error)
	GetCamper(ctx context.Context, parentID, camperID uint) (domain.Camper, error)
	UpdateCamper(ctx context.Context, parentID uint, camper domain.Camper, photo string) (domain.Camper, error)
}

type CamperHandler struct {
	svc  CamperService
	uSvc UserService
}

func NewCamperHandler(svc CamperService, uSvc UserService) *CamperHandler {
	return &CamperHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListCampers godoc
// @Summary      List the caller's campers
// @Tags         campers
// @Produce      json
// @Success      200  {array}   domain.Camper
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campers [get]
// @Security     BearerAuth
func (h *CamperHandler) HandleListCampers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campers, err := h.svc.ListCampers(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListCampers -> h.svc.ListCampers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campers)
}

// HandleCreateCamper godoc
// @Summary      Add a camper to the caller's family
// @Tags         campers
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCamperRequest true "request body"
// @Success      201      {object}  domain.Camper
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /campers [post]
// @Security     BearerAuth
func (h *CamperHandler) HandleCreateCamper(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCamperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	camper, err := h.svc.CreateCamper(ctx.Request.Context(), user.ID, domain.Camper{
		Name:      req.Name,
		Birthdate: req.Birthdate,
		Grade:     req.Grade,
		Phone:     req.Phone,
	}, req.Photo)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCamper -> h.svc.CreateCamper -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, camper)
}

// HandleGetCamper godoc
// @Summary      Get one of the caller's campers
// @Tags         campers
// @Produce      json
// @Param        camperID  path      int true "camper ID"
// @Success      200       {object}  domain.Camper
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /campers/{camperID} [get]
// @Security     BearerAuth
func (h *CamperHandler) HandleGetCamper(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, ok := parseCamperID(ctx)
	if !ok {
		return
	}

	camper, err := h.svc.GetCamper(ctx.Request.Context(), user.ID, camperID)
	if err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCamper -> h.svc.GetCamper -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, camper)
}

// HandleUpdateCamper godoc
// @Summary      Update one of the caller's campers
// @Tags         campers
// @Accept       json
// @Produce      json
// @Param        camperID  path      int                         true "camper ID"
// @Param        request   body      request.UpdateCamperRequest true "request body"
// @Success      200       {object}  domain.Camper
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /campers/{camperID} [put]
// @Security     BearerAuth
func (h *CamperHandler) HandleUpdateCamper(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, ok := parseCamperID(ctx)
	if !ok {
		return
	}

	var req request.UpdateCamperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	camper, err := h.svc.UpdateCamper(ctx.Request.Context(), user.ID, domain.Camper{
		ID:        camperID,
		Name:      req.Name,
		Birthdate: req.Birthdate,
		Grade:     req.Grade,
		Phone:     req.Phone,
	}, req.Photo)
	if err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateCamper -> h.svc.UpdateCamper -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, camper)
}

func parseCamperID(ctx *gin.Context) (uint, bool) {
	camperID, err := strconv.ParseUint(ctx.Param("camperID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid camper ID %q", ctx.Param("camperID"))))
		return 0, false
	}
	return uint(camperID), true
}
