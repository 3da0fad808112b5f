package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportHandoffs 导出交班记录为 Excel
// GET /api/v1/handoffs/export
func (h *ExportHandler) ExportHandoffs(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportHandoffs(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoHandoffs) {
			response.NotFound(c, 13001, "暂无交接记录可导出")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
