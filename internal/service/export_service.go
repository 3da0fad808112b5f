package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoHandoffs   = errors.New("暂无交接记录可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 交班记录导出为 Excel (.xlsx)，供护理主管离线归档
//   - Sheet "Handoffs"：一行一单，按信息流顺序
//   - Sheet "Updates"：一行一条更新，按单分组、新者在前
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportHandoffs(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportHandoffs(ctx context.Context) (*bytes.Buffer, string, error) {
	// 1. 查询全部交接单并按信息流顺序排列
	handoffs, err := s.repo.Handoff.List(ctx)
	if err != nil {
		s.logger.Error("查询交接单列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(handoffs) == 0 {
		return nil, "", ErrExportNoHandoffs
	}
	policy.SortFeed(handoffs)

	// 2. 构建工作簿
	f := excelize.NewFile()
	defer f.Close()

	const handoffSheet = "Handoffs"
	if err := f.SetSheetName("Sheet1", handoffSheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	header := []interface{}{"ID", "创建时间", "摘要", "类别", "优先级", "位置", "状态", "最后更新", "最后更新人", "创建人"}
	if err := f.SetSheetRow(handoffSheet, "A1", &header); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	for i := range handoffs {
		h := &handoffs[i]
		location := ""
		if h.LocationCode != nil {
			location = *h.LocationCode
		}
		lastUpdate := ""
		if h.LastUpdateAt != nil {
			lastUpdate = h.LastUpdateAt.Format("2006-01-02 15:04")
		}
		lastBy := ""
		if h.LastUpdateBySnapshot != nil {
			lastBy = *h.LastUpdateBySnapshot
		}

		row := []interface{}{
			h.ID,
			h.CreatedAt.Format("2006-01-02 15:04"),
			h.Summary,
			h.Category,
			h.Priority,
			location,
			policy.Normalize(h.Status),
			lastUpdate,
			lastBy,
			h.CreatedByDisplayNameSnapshot,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(handoffSheet, cell, &row); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	// 3. 更新明细 Sheet
	const updateSheet = "Updates"
	if _, err := f.NewSheet(updateSheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	updateHeader := []interface{}{"交接单ID", "时间", "作者", "来源", "内容"}
	if err := f.SetSheetRow(updateSheet, "A1", &updateHeader); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	rowIdx := 2
	for i := range handoffs {
		updates, err := s.repo.Update.ListByHandoff(ctx, handoffs[i].ID)
		if err != nil {
			s.logger.Error("查询交接更新失败", zap.String("handoff_id", handoffs[i].ID), zap.Error(err))
			return nil, "", err
		}
		for j := range updates {
			u := &updates[j]
			row := []interface{}{
				u.HandoffID,
				u.CreatedAt.Format("2006-01-02 15:04"),
				u.AuthorDisplayNameSnapshot,
				u.Source,
				u.Message,
			}
			cell := fmt.Sprintf("A%d", rowIdx)
			if err := f.SetSheetRow(updateSheet, cell, &row); err != nil {
				return nil, "", ErrExportGenerateFail
			}
			rowIdx++
		}
	}

	// 4. 写出
	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("handoffs-%s.xlsx", time.Now().Format("20060102-1504"))
	return buf, filename, nil
}
