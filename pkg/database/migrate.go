package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 交接板 schema 随二进制内嵌发布，部署时无需携带 SQL 文件
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// RunMigrations 将交接板 schema 迁移到最新版本
// 已是最新版本时为空操作；迁移中断遗留的 dirty 状态只告警，交由人工处置
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取内嵌 schema 失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("构建 postgres 迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("构建迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("应用 schema 迁移失败: %w", err)
		}
		logger.Info("交接板 schema 已是最新")
		return nil
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("schema 迁移遗留 dirty 状态，需人工检查", zap.Uint("version", version))
		return nil
	}
	logger.Info("交接板 schema 迁移完成", zap.Uint("version", version))

	return nil
}
