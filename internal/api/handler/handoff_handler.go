package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// HandoffHandler 交接单模块 HTTP 处理器
type HandoffHandler struct {
	handoffSvc service.HandoffService
}

// NewHandoffHandler 创建 HandoffHandler
func NewHandoffHandler(handoffSvc service.HandoffService) *HandoffHandler {
	return &HandoffHandler{handoffSvc: handoffSvc}
}

// List 交接信息流
// GET /api/v1/handoffs?include_resolved=
func (h *HandoffHandler) List(c *gin.Context) {
	var req dto.ListHandoffsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.handoffSvc.List(c.Request.Context(), req.IncludeResolved)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Get 交接单详情
// GET /api/v1/handoffs/:id
func (h *HandoffHandler) Get(c *gin.Context) {
	result, err := h.handoffSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrHandoffNotFound) {
			response.NotFound(c, 13001, "交接单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListUpdates 交接单更新列表（新者在前）
// GET /api/v1/handoffs/:id/updates
func (h *HandoffHandler) ListUpdates(c *gin.Context) {
	result, err := h.handoffSvc.ListUpdates(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrHandoffNotFound) {
			response.NotFound(c, 13001, "交接单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Create 创建交接单（状态强制 open）
// POST /api/v1/handoffs
func (h *HandoffHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateHandoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13004, "交接单字段不合法")
		return
	}

	result, err := h.handoffSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileRequired) {
			response.Forbidden(c, 12001, "请先完善值班资料")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// AppendUpdate 追加更新（来源 app），成功后返回整体回读的更新列表
// POST /api/v1/handoffs/:id/updates
func (h *HandoffHandler) AppendUpdate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AppendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.handoffSvc.AppendUpdate(c.Request.Context(), c.Param("id"), userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHandoffNotFound):
			response.NotFound(c, 13001, "交接单不存在")
		case errors.Is(err, service.ErrProfileRequired):
			response.Forbidden(c, 12001, "请先完善值班资料")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Resolve 解决交接单
// POST /api/v1/handoffs/:id/resolve
func (h *HandoffHandler) Resolve(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.handoffSvc.Resolve(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHandoffNotFound):
			response.NotFound(c, 13001, "交接单不存在")
		case errors.Is(err, service.ErrAlreadyResolved):
			response.Error(c, http.StatusConflict, 13002, "交接单已解决")
		case errors.Is(err, service.ErrWriteRejected):
			response.Forbidden(c, 13003, "写入被访问控制拒绝")
		case errors.Is(err, service.ErrProfileRequired):
			response.Forbidden(c, 12001, "请先完善值班资料")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
