package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultSummaryKey is where the latest run summary is kept
const DefaultSummaryKey = "catalogsync:summary:last"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSummaryStore keeps the latest SyncSummary as a JSON string
type RedisSummaryStore struct {
	client     *redis.Client
	ownsClient bool
	key        string
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisSummaryStoreOption configures a RedisSummaryStore
type RedisSummaryStoreOption func(*RedisSummaryStore)

// WithSummaryKey overrides DefaultSummaryKey
func WithSummaryKey(key string) RedisSummaryStoreOption {
	return func(s *RedisSummaryStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSummaryTTL expires the snapshot after ttl; zero keeps it forever
func WithSummaryTTL(ttl time.Duration) RedisSummaryStoreOption {
	return func(s *RedisSummaryStore) {
		s.ttl = ttl
	}
}

// WithSummaryLogger sets the logger
func WithSummaryLogger(logger *zap.Logger) RedisSummaryStoreOption {
	return func(s *RedisSummaryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedisSummaryStore connects to Redis and fails if it does not answer
// a ping within 5 seconds
func NewRedisSummaryStore(cfg RedisConfig, opts ...RedisSummaryStoreOption) (*RedisSummaryStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewRedisSummaryStoreWithClient(client, opts...)
	s.ownsClient = true
	return s, nil
}

// NewRedisSummaryStoreWithClient uses an existing client. The caller keeps
// ownership of the client.
func NewRedisSummaryStoreWithClient(client *redis.Client, opts ...RedisSummaryStoreOption) *RedisSummaryStore {
	s := &RedisSummaryStore{
		client: client,
		key:    DefaultSummaryKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save replaces the stored snapshot
func (s *RedisSummaryStore) Save(ctx context.Context, summary integration.SyncSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal sync summary: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store sync summary: %w", err)
	}
	s.logger.Debug("Stored sync summary", zap.String("key", s.key), zap.String("job_id", summary.JobID.String()))
	return nil
}

// Latest returns integration.ErrSummaryNotFound on a miss. A corrupted
// entry is deleted and reported as a miss.
func (s *RedisSummaryStore) Latest(ctx context.Context) (*integration.SyncSummary, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, integration.ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync summary: %w", err)
	}

	var summary integration.SyncSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		s.logger.Warn("Discarding corrupted sync summary", zap.String("key", s.key), zap.Error(err))
		_ = s.client.Del(ctx, s.key)
		return nil, integration.ErrSummaryNotFound
	}
	if summary.Errors == nil {
		summary.Errors = []string{}
	}
	return &summary, nil
}

// Close closes the client if the store created it
func (s *RedisSummaryStore) Close() error {
	if !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

var _ integration.SummaryStore = (*RedisSummaryStore)(nil)
