package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// ProfileHandler 资料模块 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetMe 当前用户资料
// GET /api/v1/profiles/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.profileSvc.GetMe(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 12001, "资料不存在，请先完善")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpsertMe 写入当前用户资料（插入或整体覆盖）
// PUT /api/v1/profiles/me
func (h *ProfileHandler) UpsertMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.profileSvc.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			response.BadRequest(c, 12002, "资料字段不合法")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
