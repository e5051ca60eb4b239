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
	"github.com/sunridge-camp/portal-api/internal/booking"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/service"
)

type RegistrationService interface {
	Schedule(ctx context.Context, parentID, camperID uint) ([]domain.DayAvailability, error)
	GetDraft(ctx context.Context, parentID uint) (booking.Selection, error)
	SaveDraft(ctx context.Context, parentID uint, sel booking.Selection) error
	DiscardDraft(ctx context.Context, parentID uint) error
	QuoteOrder(ctx context.Context, parentID uint, camperIDs []uint, sel booking.Selection) (booking.Quote, error)
	SubmitOrder(ctx context.Context, parentID uint, camperIDs []uint, sel booking.Selection) (domain.Order, error)
	EditOrder(ctx context.Context, parentID uint, orderID string, camperIDs []uint, sel booking.Selection) (domain.Order, error)
	ListRegistrations(ctx context.Context, parentID uint) ([]domain.Registration, error)
	AmountDue(ctx context.Context, parentID uint) (int64, error)
	MarkPaymentSent(ctx context.Context, parentID uint, orderID, screenshotB64 string) error
	ConfirmPayment(ctx context.Context, directorID uint, orderID string) (domain.PaymentStatus, error)
	ApproveOrder(ctx context.Context, directorID uint, orderID string) error
	VenmoQR(ctx context.Context, parentID uint, orderID string) ([]byte, error)
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

// HandleGetSchedule godoc
// @Summary      List selectable camp days for a camper
// @Tags         registrations
// @Produce      json
// @Param        camperID  query     int true "camper ID"
// @Success      200       {array}   domain.DayAvailability
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /schedule [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetSchedule(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	camperID, err := strconv.ParseUint(ctx.Query("camperID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid camper ID %q", ctx.Query("camperID"))))
		return
	}

	days, err := h.svc.Schedule(ctx.Request.Context(), user.ID, uint(camperID))
	if err != nil {
		if errors.Is(err, service.ErrCamperNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("camper", "ID", camperID))
			return
		}

		err = fmt.Errorf("v1.HandleGetSchedule -> h.svc.Schedule -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, days)
}

// HandleGetDraft godoc
// @Summary      Load the caller's saved selection draft
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  response.DraftResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/draft [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetDraft(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sel, err := h.svc.GetDraft(ctx.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("draft", "parentID", user.ID))
			return
		}

		err = fmt.Errorf("v1.HandleGetDraft -> h.svc.GetDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.DraftResponse{Selection: selectionToPayload(sel)})
}

// HandleSaveDraft godoc
// @Summary      Save the caller's selection draft
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body  request.SaveDraftRequest true "request body"
// @Success      204      "saved"
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /registrations/draft [put]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleSaveDraft(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SaveDraft(ctx.Request.Context(), user.ID, req.Selection.ToSelection()); err != nil {
		err = fmt.Errorf("v1.HandleSaveDraft -> h.svc.SaveDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDiscardDraft godoc
// @Summary      Discard the caller's selection draft
// @Tags         registrations
// @Success      204  "discarded"
// @Failure      500  {object}  response.Err
// @Router       /registrations/draft [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleDiscardDraft(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DiscardDraft(ctx.Request.Context(), user.ID); err != nil {
		err = fmt.Errorf("v1.HandleDiscardDraft -> h.svc.DiscardDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleQuote godoc
// @Summary      Price a selection without submitting
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body      request.QuoteRequest true "request body"
// @Success      200      {object}  booking.Quote
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /registrations/quote [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleQuote(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	quote, err := h.svc.QuoteOrder(ctx.Request.Context(), user.ID, req.CamperIDs, req.Selection.ToSelection())
	if err != nil {
		h.renderOrderErr(ctx, "HandleQuote", err)
		return
	}

	ctx.JSON(http.StatusOK, quote)
}

// HandleSubmitOrder godoc
// @Summary      Submit the selection as a registration order
// @Description  Creates pending/unpaid rows, one per camper per day, with the full-week discount prorated across rows. The saved draft is cleared.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubmitOrderRequest true "request body"
// @Success      201      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /registrations [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleSubmitOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.SubmitOrder(ctx.Request.Context(), user.ID, req.CamperIDs, req.Selection.ToSelection())
	if err != nil {
		h.renderOrderErr(ctx, "HandleSubmitOrder", err)
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleEditOrder godoc
// @Summary      Replace an order's rows with a new selection
// @Description  The old rows are cancelled and marked replaced-by-edit in the same transaction that inserts the new rows. The order ID and Venmo code survive the edit.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        orderID  path      string                     true "order ID"
// @Param        request  body      request.SubmitOrderRequest true "request body"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID} [put]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleEditOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.EditOrder(ctx.Request.Context(), user.ID, ctx.Param("orderID"), req.CamperIDs, req.Selection.ToSelection())
	if err != nil {
		h.renderOrderErr(ctx, "HandleEditOrder", err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleListRegistrations godoc
// @Summary      List all registrations across the caller's campers
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   domain.Registration
// @Failure      500  {object}  response.Err
// @Router       /registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rows, err := h.svc.ListRegistrations(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListRegistrations -> h.svc.ListRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rows)
}

// HandleAmountDue godoc
// @Summary      Total outstanding balance across the caller's registrations
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  response.AmountDueResponse
// @Failure      500  {object}  response.Err
// @Router       /registrations/amount-due [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleAmountDue(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	due, err := h.svc.AmountDue(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleAmountDue -> h.svc.AmountDue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AmountDueResponse{AmountDueCents: due})
}

// HandlePaymentSent godoc
// @Summary      Mark an order's Venmo payment as sent
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        orderID  path      string                     true "order ID"
// @Param        request  body      request.PaymentSentRequest false "optional screenshot"
// @Success      204      "recorded"
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/payment-sent [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandlePaymentSent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PaymentSentRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := h.svc.MarkPaymentSent(ctx.Request.Context(), user.ID, ctx.Param("orderID"), req.Screenshot); err != nil {
		h.renderOrderErr(ctx, "HandlePaymentSent", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleVenmoQR godoc
// @Summary      Venmo payment QR code for an order
// @Tags         registrations
// @Produce      png
// @Param        orderID  path  string true "order ID"
// @Success      200      {string}  binary "PNG image"
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/venmo-qr [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleVenmoQR(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	png, err := h.svc.VenmoQR(ctx.Request.Context(), user.ID, ctx.Param("orderID"))
	if err != nil {
		h.renderOrderErr(ctx, "HandleVenmoQR", err)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

// HandleConfirmPayment godoc
// @Summary      Director advances an order's payment state
// @Description  sent -> paid when the money shows up, paid -> confirmed once reconciled.
// @Tags         director
// @Produce      json
// @Param        orderID  path      string true "order ID"
// @Success      200      {object}  map[string]string
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/payment/confirm [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleConfirmPayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if respErr := requireDirector(user); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, err := h.svc.ConfirmPayment(ctx.Request.Context(), user.ID, ctx.Param("orderID"))
	if err != nil {
		h.renderOrderErr(ctx, "HandleConfirmPayment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"payment_status": string(status)})
}

// HandleApproveOrder godoc
// @Summary      Director approves a pending order
// @Tags         director
// @Produce      json
// @Param        orderID  path  string true "order ID"
// @Success      204      "approved"
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/approve [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleApproveOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if respErr := requireDirector(user); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.ApproveOrder(ctx.Request.Context(), user.ID, ctx.Param("orderID")); err != nil {
		h.renderOrderErr(ctx, "HandleApproveOrder", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) renderOrderErr(ctx *gin.Context, caller string, err error) {
	switch {
	case errors.Is(err, service.ErrCamperNotFound):
		response.RenderErr(ctx, response.ErrNotFound("camper", "selection", "order"))
	case errors.Is(err, service.ErrOrderNotFound):
		response.RenderErr(ctx, response.ErrNotFound("order", "ID", ctx.Param("orderID")))
	case errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrNoCampersSelected):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrPaymentTransition),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderPaid):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		err = fmt.Errorf("v1.%s -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func selectionToPayload(sel booking.Selection) map[string][]string {
	payload := make(map[string][]string, len(sel))
	for _, date := range sel.Dates() {
		sessions := sel.SessionsOn(date)
		strs := make([]string, 0, len(sessions))
		for _, s := range sessions {
			strs = append(strs, string(s))
		}
		payload[date] = strs
	}
	return payload
}
