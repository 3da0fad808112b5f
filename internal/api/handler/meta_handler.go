package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// MetaHandler 枚举能力查询 HTTP 处理器
type MetaHandler struct {
	metaSvc service.MetaService
}

// NewMetaHandler 创建 MetaHandler
func NewMetaHandler(metaSvc service.MetaService) *MetaHandler {
	return &MetaHandler{metaSvc: metaSvc}
}

// Categories 类别合法值
// GET /api/v1/meta/categories
func (h *MetaHandler) Categories(c *gin.Context) {
	values, err := h.metaSvc.Categories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MetaResponse{Values: values})
}

// Priorities 优先级合法值（查询失败时返回默认值，永不失败）
// GET /api/v1/meta/priorities
func (h *MetaHandler) Priorities(c *gin.Context) {
	response.OK(c, dto.MetaResponse{Values: h.metaSvc.Priorities(c.Request.Context())})
}
