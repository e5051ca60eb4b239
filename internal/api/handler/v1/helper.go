package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/response"
	"github.com/sunridge-camp/portal-api/internal/api/middleware"
	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/service"
)

// getUserFromContext loads the authenticated user behind the JWT middleware's
// user ID claim.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	val, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrPermissionDenied(errors.New("user ID not found in context"))
	}

	userID, ok := val.(uint)
	if !ok {
		return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("invalid user ID in context: %v", val))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}

func requireDirector(user domain.User) *response.Err {
	if user.Role != domain.RoleDirector {
		return response.ErrPermissionDenied(fmt.Errorf("user %v is not a director", user.ID))
	}
	return nil
}
