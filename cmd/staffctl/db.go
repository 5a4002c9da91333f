package main

import (
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffline/backend/config"
	"staffline/backend/pkg/database"
)

type sqlEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

// withSQLDB 打开数据库连接，执行 fn 后关闭
func withSQLDB(cmd *cobra.Command, fn func(env *sqlEnv) error) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(&sqlEnv{cfg: cfg, logger: logger, db: db, sqlDB: sqlDB})
}
