package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sunridge-camp/portal-api/internal/api/handler/v1/response"
	"github.com/sunridge-camp/portal-api/internal/domain"
)

type HistoryService interface {
	Recent(ctx context.Context, limit int) ([]domain.ChangeEntry, error)
}

type HistoryHandler struct {
	svc  HistoryService
	uSvc UserService
}

func NewHistoryHandler(svc HistoryService, uSvc UserService) *HistoryHandler {
	return &HistoryHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetHistory godoc
// @Summary      Recent change history entries
// @Tags         director
// @Produce      json
// @Param        limit  query     int false "max entries (default 100)"
// @Success      200    {array}   domain.ChangeEntry
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /history [get]
// @Security     BearerAuth
func (h *HistoryHandler) HandleGetHistory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if respErr := requireDirector(user); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := h.svc.Recent(ctx.Request.Context(), limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetHistory -> h.svc.Recent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
