package cache

import (
	"fmt"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SummaryStoreFactory creates summary stores based on configuration
type SummaryStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SummaryStoreFactoryOption is a functional option for configuring the factory
type SummaryStoreFactoryOption func(*SummaryStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SummaryStoreFactoryOption {
	return func(f *SummaryStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. Default is true.
func WithInMemoryFallback(allow bool) SummaryStoreFactoryOption {
	return func(f *SummaryStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSummaryStoreFactory creates a new factory
func NewSummaryStoreFactory(cfg config.RedisConfig, opts ...SummaryStoreFactoryOption) *SummaryStoreFactory {
	f := &SummaryStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore creates a Redis-backed store
func (f *SummaryStoreFactory) CreateRedisStore() (*RedisSummaryStore, error) {
	store, err := NewRedisSummaryStore(
		RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		},
		WithSummaryTTL(f.redisConfig.SummaryTTL),
		WithSummaryLogger(f.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis summary store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory store. Instances do not share
// the snapshot.
func (f *SummaryStoreFactory) CreateInMemoryStore() *InMemorySummaryStore {
	return NewInMemorySummaryStore(f.redisConfig.SummaryTTL)
}

// CreateStore returns the in-memory store when Redis is disabled, otherwise
// tries Redis and falls back when allowed
func (f *SummaryStoreFactory) CreateStore() (integration.SummaryStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory summary store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("Using Redis summary store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for sync summaries but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory summary store",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
