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

type MessageService interface {
	Send(ctx context.Context, sender domain.User, parentID uint, body string) (domain.Message, error)
	Thread(ctx context.Context, reader domain.User, parentID uint) ([]domain.Message, error)
	ListThreads(ctx context.Context) ([]service.ThreadSummary, error)
}

type MessageHandler struct {
	svc  MessageService
	uSvc UserService
}

func NewMessageHandler(svc MessageService, uSvc UserService) *MessageHandler {
	return &MessageHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Description  Parents write to their own thread with the director; directors set parent_id to address a family.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request  body      request.SendMessageRequest true "request body"
// @Success      201      {object}  domain.Message
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /messages [post]
// @Security     BearerAuth
func (h *MessageHandler) HandleSendMessage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if user.Role == domain.RoleDirector && req.ParentID == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("parent_id is required for director messages")))
		return
	}

	msg, err := h.svc.Send(ctx.Request.Context(), user, req.ParentID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSendMessage -> h.svc.Send -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// HandleGetThread godoc
// @Summary      Read a message thread
// @Description  Parents read their own thread; directors pass parentID to read a family's thread. Reading marks the other side's messages read.
// @Tags         messages
// @Produce      json
// @Param        parentID  query     int false "thread parent ID (directors only)"
// @Success      200       {array}   domain.Message
// @Failure      400       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /messages [get]
// @Security     BearerAuth
func (h *MessageHandler) HandleGetThread(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var parentID uint
	if user.Role == domain.RoleDirector {
		id, err := strconv.ParseUint(ctx.Query("parentID"), 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid parent ID %q", ctx.Query("parentID"))))
			return
		}
		parentID = uint(id)
	}

	msgs, err := h.svc.Thread(ctx.Request.Context(), user, parentID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetThread -> h.svc.Thread -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, msgs)
}

// HandleListThreads godoc
// @Summary      Director's inbox, most recent activity first
// @Tags         director
// @Produce      json
// @Success      200  {array}   service.ThreadSummary
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages/threads [get]
// @Security     BearerAuth
func (h *MessageHandler) HandleListThreads(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if respErr := requireDirector(user); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	threads, err := h.svc.ListThreads(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListThreads -> h.svc.ListThreads -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, threads)
}
