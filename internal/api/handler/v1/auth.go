package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/request"
	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/response"
	"github.com/sunridge-camp/portal-api/internal/config"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User, password, userAgent string) (domain.User, string, error)
	Login(ctx context.Context, email, password, userAgent string) (domain.User, string, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignup godoc
// @Summary      Signup a parent account directly
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignupRequest true "request body"
// @Success      201      {object}  response.SessionResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, token, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Role:  domain.RoleParent,
	}, req.Password, ctx.Request.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.SessionResponse{Token: token, User: user})
}

// HandleLogin godoc
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest true "request body"
// @Success      200      {object}  response.SessionResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, token, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password, ctx.Request.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.SessionResponse{Token: token, User: user})
}
