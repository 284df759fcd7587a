package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/pkg/httpcontext"
	listUC "github.com/fastygo/todo/usecase/list"
)

type ListHandler struct {
	baseHandler
	uc *listUC.UseCase
}

func NewListHandler(uc *listUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ListHandler {
	return &ListHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the current user's lists
// @Tags lists
// @Router /list [get]
func (h *ListHandler) GetLists(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lists, err := h.uc.ListByOwner(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lists)
}

// @Summary Create a list
// @Tags lists
// @Router /list [post]
func (h *ListHandler) CreateList(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ListRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := req.Validate(); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	list, err := h.uc.Create(stdCtx, userID, req.Input())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, list)
}

// @Summary Get a list with its tasks
// @Tags lists
// @Router /list/{id} [get]
func (h *ListHandler) GetList(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Get(stdCtx, userID, h.pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Partially update a list
// @Tags lists
// @Router /list/{id} [patch]
func (h *ListHandler) UpdateList(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ListUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := req.Validate(); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	list, err := h.uc.Update(stdCtx, userID, h.pathParam(ctx, "id"), req.ListPatch)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Delete a list and its tasks
// @Tags lists
// @Router /list/{id} [delete]
func (h *ListHandler) DeleteList(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res, err := h.uc.Delete(stdCtx, userID, h.pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondMessage(ctx, res.Message)
}
