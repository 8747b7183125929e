package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
)

// StatsService serves per-owner task counters with a cache-aside Redis layer.
// A cache failure degrades to a direct count query.
type StatsService struct {
	tasks      repository.TaskRepository
	cache      *redis.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
	prefix     string
	ttl        time.Duration
}

// NewStatsService creates the service. The cache client may be nil.
func NewStatsService(cfg config.StatsConfig, tasks repository.TaskRepository, cache *redis.Client, dispatcher events.Dispatcher, logger *zap.Logger) *StatsService {
	return &StatsService{
		tasks:      tasks,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
		prefix:     cfg.CachePrefix,
		ttl:        cfg.CacheTTL(),
	}
}

// GetStats returns status counters for the owner's tasks.
func (s *StatsService) GetStats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	if cached := s.fromCache(ctx, ownerID); cached != nil {
		return cached, nil
	}

	stats, err := s.tasks.CountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, ownerID, stats)
	return stats, nil
}

// RegisterHandlers subscribes cache invalidation to task mutation events.
func (s *StatsService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTaskCreated, s.handleMutation)
	s.dispatcher.Subscribe(events.EventTaskUpdated, s.handleMutation)
	s.dispatcher.Subscribe(events.EventTaskDeleted, s.handleMutation)
}

func (s *StatsService) handleMutation(ctx context.Context, event events.Event) error {
	s.invalidate(ctx, event.OwnerID)
	return nil
}

func (s *StatsService) fromCache(ctx context.Context, ownerID string) *domain.TaskStats {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, s.prefix+ownerID).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("stats cache get failed", zap.Error(err))
		}
		return nil
	}
	var stats domain.TaskStats
	if err := json.Unmarshal(data, &stats); err != nil {
		s.logger.Debug("stats cache decode failed", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, ownerID string, stats *domain.TaskStats) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.prefix+ownerID, data, s.ttl).Err(); err != nil {
		s.logger.Debug("stats cache set failed", zap.Error(err))
	}
}

func (s *StatsService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.prefix+ownerID).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}
