package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/response"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/onboarding"
	"github.com/sunridge-camp/portal-api/internal/service"
)

type OnboardingService interface {
	StartWizard(ctx context.Context) (*onboarding.State, error)
	GetWizard(ctx context.Context, id string) (*onboarding.State, error)
	SaveStep(ctx context.Context, id string, data service.StepData) (*onboarding.State, error)
	Next(ctx context.Context, id string) (*onboarding.State, error)
	Back(ctx context.Context, id string) (*onboarding.State, error)
	SkipToPolicies(ctx context.Context, id string) (*onboarding.State, error)
	Complete(ctx context.Context, id, userAgent string) (domain.User, string, error)
}

type OnboardingHandler struct {
	svc OnboardingService
}

func NewOnboardingHandler(svc OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{
		svc: svc,
	}
}

// HandleStartWizard godoc
// @Summary      Start an onboarding wizard session
// @Tags         onboarding
// @Produce      json
// @Success      201  {object}  onboarding.State
// @Failure      500  {object}  response.Err
// @Router       /onboarding [post]
func (h *OnboardingHandler) HandleStartWizard(ctx *gin.Context) {
	state, err := h.svc.StartWizard(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleStartWizard -> h.svc.StartWizard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, state)
}

// HandleGetWizard godoc
// @Summary      Resume an onboarding wizard session
// @Tags         onboarding
// @Produce      json
// @Param        wizardID  path      string true "wizard ID"
// @Success      200       {object}  onboarding.State
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID} [get]
func (h *OnboardingHandler) HandleGetWizard(ctx *gin.Context) {
	state, err := h.svc.GetWizard(ctx.Request.Context(), ctx.Param("wizardID"))
	if err != nil {
		h.renderWizardErr(ctx, "HandleGetWizard", err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleSaveStep godoc
// @Summary      Save the current step's data without advancing
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        wizardID  path      string           true "wizard ID"
// @Param        request   body      service.StepData true "step payload"
// @Success      200       {object}  onboarding.State
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID}/step [put]
func (h *OnboardingHandler) HandleSaveStep(ctx *gin.Context) {
	var data service.StepData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	state, err := h.svc.SaveStep(ctx.Request.Context(), ctx.Param("wizardID"), data)
	if err != nil {
		h.renderWizardErr(ctx, "HandleSaveStep", err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleNext godoc
// @Summary      Validate the current step and advance
// @Tags         onboarding
// @Produce      json
// @Param        wizardID  path      string true "wizard ID"
// @Success      200       {object}  onboarding.State
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID}/next [post]
func (h *OnboardingHandler) HandleNext(ctx *gin.Context) {
	state, err := h.svc.Next(ctx.Request.Context(), ctx.Param("wizardID"))
	if err != nil {
		h.renderWizardErr(ctx, "HandleNext", err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleBack godoc
// @Summary      Step back, discarding the wizard when backing out of step 1
// @Tags         onboarding
// @Produce      json
// @Param        wizardID  path      string true "wizard ID"
// @Success      200       {object}  onboarding.State
// @Success      204       "wizard discarded"
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID}/back [post]
func (h *OnboardingHandler) HandleBack(ctx *gin.Context) {
	state, err := h.svc.Back(ctx.Request.Context(), ctx.Param("wizardID"))
	if err != nil {
		if errors.Is(err, service.ErrWizardExited) {
			ctx.Status(http.StatusNoContent)
			return
		}
		h.renderWizardErr(ctx, "HandleBack", err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleSkipToPolicies godoc
// @Summary      Skip the optional steps and jump to the policy gate
// @Tags         onboarding
// @Produce      json
// @Param        wizardID  path      string true "wizard ID"
// @Success      200       {object}  onboarding.State
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID}/skip-to-policies [post]
func (h *OnboardingHandler) HandleSkipToPolicies(ctx *gin.Context) {
	state, err := h.svc.SkipToPolicies(ctx.Request.Context(), ctx.Param("wizardID"))
	if err != nil {
		h.renderWizardErr(ctx, "HandleSkipToPolicies", err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleComplete godoc
// @Summary      Finish the wizard and create the account
// @Tags         onboarding
// @Produce      json
// @Param        wizardID  path      string true "wizard ID"
// @Success      201       {object}  response.SessionResponse
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /onboarding/{wizardID}/complete [post]
func (h *OnboardingHandler) HandleComplete(ctx *gin.Context) {
	user, token, err := h.svc.Complete(ctx.Request.Context(), ctx.Param("wizardID"), ctx.Request.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}
		h.renderWizardErr(ctx, "HandleComplete", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.SessionResponse{Token: token, User: user})
}

// renderWizardErr maps the wizard's sentinel errors; step validation failures
// surface as 400s with the validation message.
func (h *OnboardingHandler) renderWizardErr(ctx *gin.Context, caller string, err error) {
	switch {
	case errors.Is(err, service.ErrWizardNotFound):
		response.RenderErr(ctx, response.ErrNotFound("wizard", "ID", ctx.Param("wizardID")))
	case errors.Is(err, service.ErrWizardCompleted),
		errors.Is(err, onboarding.ErrSkipNotAllowed):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		var validationErr *onboarding.ValidationError
		if errors.As(err, &validationErr) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		err = fmt.Errorf("v1.%s -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
