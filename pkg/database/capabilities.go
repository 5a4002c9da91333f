package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffline/backend/config"
)

const (
	shiftsTable          = "shifts"
	marketplaceFlagField = "is_marketplace"
)

// Capabilities 启动时一次性探测的可选存储能力
type Capabilities struct {
	// MarketplaceFlag shifts.is_marketplace 列可用
	// 不可用时班次是否在市场中完全以换班申请表为准
	MarketplaceFlag bool
}

// ColumnProber 抽象列存在性探测，便于测试
type ColumnProber interface {
	HasColumn(table, column string) bool
}

type gormProber struct {
	db *gorm.DB
}

func (p gormProber) HasColumn(table, column string) bool {
	return p.db.Migrator().HasColumn(table, column)
}

// NewColumnProber 基于 GORM Migrator 的列探测器
func NewColumnProber(db *gorm.DB) ColumnProber {
	return gormProber{db: db}
}

// DetectCapabilities 根据配置模式解析可选能力
// mode=on/off 时直接采用配置值，auto 时探测表结构
func DetectCapabilities(prober ColumnProber, mode string, logger *zap.Logger) Capabilities {
	var caps Capabilities

	switch mode {
	case config.FlagColumnOn:
		caps.MarketplaceFlag = true
	case config.FlagColumnOff:
		caps.MarketplaceFlag = false
	default:
		caps.MarketplaceFlag = prober.HasColumn(shiftsTable, marketplaceFlagField)
	}

	logger.Info("存储能力探测完成",
		zap.String("mode", mode),
		zap.Bool("marketplace_flag", caps.MarketplaceFlag),
	)
	return caps
}
