package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffline/backend/config"
	"staffline/backend/internal/api/handler"
	"staffline/backend/internal/api/middleware"
	"staffline/backend/internal/metrics"
	"staffline/backend/pkg/jwt"
	"staffline/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// db 只用于健康检查，可为 nil
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthCheck(db))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		// 换班市场：角色按组织查询，鉴权在 Service 层完成
		market := authorized.Group("/marketplace")
		{
			market.GET("", h.Marketplace.List)
			market.POST("/drop", h.Marketplace.Drop)
			market.POST("/pickup",
				middleware.RateLimit(rdb, cfg.Marketplace.PickupRateLimit, cfg.Marketplace.PickupRateWindow, middleware.ByUser, logger),
				h.Marketplace.Pickup,
			)
			market.POST("/cancel-drop", h.Marketplace.CancelDrop)
			market.POST("/requests/:id/cancel", h.Marketplace.Cancel)
			market.GET("/history", h.Marketplace.History)
			market.GET("/export", h.Marketplace.Export)
			market.GET("/calendar.ics", h.Marketplace.Calendar)
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
