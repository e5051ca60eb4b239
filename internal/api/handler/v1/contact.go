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

type ContactService interface {
	ListContacts(ctx context.Context, parentID, camperID uint) (service.ContactList, error)
	AddContact(ctx context.Context, parentID, camperID uint, contact domain.EmergencyContact, photo string) (domain.EmergencyContact, error)
	UpdateContact(ctx context.Context, parentID uint, contact domain.EmergencyContact, photo string) (domain.EmergencyContact, error)
	RemoveContact(ctx context.Context, parentID, camperID, contactID uint) error
}

type ContactHandler struct {
	svc  ContactService
	uSvc UserService
}

func NewContactHandler(svc ContactService, uSvc UserService) *ContactHandler {
	return &ContactHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListContacts godoc
// @Summary      List a camper's emergency contacts
// @Description  Contacts come back fully resolved; parent references carry the parent's current name and phone.
// @Tags         contacts
// @Produce      json
// @Param        camperID  path      int true "camper ID"
// @Success      200       {object}  service.ContactList
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /campers/{camperID}/contacts [get]
// @Security     BearerAuth
func (h *ContactHandler) HandleListContacts(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, ok := parseCamperID(ctx)
	if !ok {
		return
	}

	list, err := h.svc.ListContacts(ctx.Request.Context(), user.ID, camperID)
	if err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleListContacts -> h.svc.ListContacts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, list)
}

// HandleAddContact godoc
// @Summary      Add an emergency contact to a camper
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        camperID  path      int                          true "camper ID"
// @Param        request   body      request.CreateContactRequest true "request body"
// @Success      201       {object}  domain.EmergencyContact
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /campers/{camperID}/contacts [post]
// @Security     BearerAuth
func (h *ContactHandler) HandleAddContact(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, ok := parseCamperID(ctx)
	if !ok {
		return
	}

	var req request.CreateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	contact, err := h.svc.AddContact(ctx.Request.Context(), user.ID, camperID, domain.EmergencyContact{
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Priority:     req.Priority,
	}, req.Photo)
	if err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleAddContact -> h.svc.AddContact -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, contact)
}

// HandleUpdateContact godoc
// @Summary      Update an emergency contact
// @Description  Parent-reference contacts accept only relationship and priority changes.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        contactID  path      int                          true "contact ID"
// @Param        request    body      request.UpdateContactRequest true "request body"
// @Success      200        {object}  domain.EmergencyContact
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /contacts/{contactID} [put]
// @Security     BearerAuth
func (h *ContactHandler) HandleUpdateContact(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	contactID, err := strconv.ParseUint(ctx.Param("contactID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid contact ID %q", ctx.Param("contactID"))))
		return
	}

	var req request.UpdateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	contact, err := h.svc.UpdateContact(ctx.Request.Context(), user.ID, domain.EmergencyContact{
		ID:           uint(contactID),
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Priority:     req.Priority,
	}, req.Photo)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("contact", "ID", contactID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateContact -> h.svc.UpdateContact -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, contact)
}

// HandleRemoveContact godoc
// @Summary      Unlink an emergency contact from a camper
// @Tags         contacts
// @Produce      json
// @Param        camperID   path  int true "camper ID"
// @Param        contactID  path  int true "contact ID"
// @Success      204        "unlinked"
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /campers/{camperID}/contacts/{contactID} [delete]
// @Security     BearerAuth
func (h *ContactHandler) HandleRemoveContact(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, ok := parseCamperID(ctx)
	if !ok {
		return
	}

	contactID, err := strconv.ParseUint(ctx.Param("contactID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid contact ID %q", ctx.Param("contactID"))))
		return
	}

	if err := h.svc.RemoveContact(ctx.Request.Context(), user.ID, camperID, uint(contactID)); err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveContact -> h.svc.RemoveContact -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
