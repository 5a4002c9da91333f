package service

import (
	"go.uber.org/zap"

	"staffline/backend/config"
	"staffline/backend/internal/metrics"
	"staffline/backend/internal/repository"
	pkgerrors "staffline/backend/pkg/errors"
	"staffline/backend/pkg/saga"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Marketplace MarketplaceService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *Service {
	runner := saga.NewRunner(saga.Options{
		Retries: cfg.Marketplace.CompensationRetries,
		Backoff: cfg.Marketplace.CompensationBackoff,
		AbortOn: []error{pkgerrors.ErrOptimisticLock},
	}, logger, recorder)

	collab := Collaborators{
		Members:  NewMembershipOracle(repo.Membership),
		Blackout: NewBlackoutOracle(repo.BlockedDay),
		Roster:   NewRoster(repo.User),
	}

	return &Service{
		Marketplace: NewMarketplaceService(repo, collab, runner, recorder, MarketplaceOptions{
			Location: cfg.Marketplace.Location(),
		}, logger),
	}
}
