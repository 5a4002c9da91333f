package handler

import "staffline/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Marketplace *MarketplaceHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Marketplace: NewMarketplaceHandler(svc.Marketplace),
	}
}
