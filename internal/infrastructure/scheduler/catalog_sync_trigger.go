// Package scheduler runs catalog synchronization on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig wraps every trigger configuration error
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSyncSkipped is returned when a tick finds a run already in flight
	ErrSyncSkipped = errors.New("catalog sync skipped: another run is in progress")
)

// SyncRunner executes one catalog sync pass
type SyncRunner interface {
	Run(ctx context.Context, input appintegration.RunSyncInput) (*appintegration.SyncResponse, error)
	IsRunning() bool
}

// CatalogSyncTriggerConfig holds configuration for the trigger
type CatalogSyncTriggerConfig struct {
	// Interval between two scheduled runs
	Interval time.Duration
	// Timeout bounds one scheduled run; zero means no bound
	Timeout time.Duration
	// RunOnStart triggers once immediately after Start
	RunOnStart bool

	Credentials integration.Credentials
	Options     integration.SyncOptions
}

// Validate checks the interval and credentials
func (c CatalogSyncTriggerConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CatalogSyncTrigger periodically runs a catalog sync
type CatalogSyncTrigger struct {
	config CatalogSyncTriggerConfig
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
}

// NewCatalogSyncTrigger creates a new trigger
func NewCatalogSyncTrigger(config CatalogSyncTriggerConfig, runner SyncRunner, logger *zap.Logger) (*CatalogSyncTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSyncTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the ticker loop. Calling Start twice is a no-op.
func (c *CatalogSyncTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Catalog sync trigger started",
		zap.Duration("interval", c.config.Interval),
		zap.Duration("timeout", c.config.Timeout),
		zap.Bool("run_on_start", c.config.RunOnStart),
	)
	return nil
}

// Stop cancels the loop and any scheduled run, then waits for it to exit
// or for ctx to expire
func (c *CatalogSyncTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Catalog sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (c *CatalogSyncTrigger) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// LastRun returns when the last scheduled run was started
func (c *CatalogSyncTrigger) LastRun() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun
}

func (c *CatalogSyncTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	if c.config.RunOnStart {
		_ = c.Trigger(ctx)
	}

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Trigger(ctx)
		}
	}
}

// Trigger runs one sync now. It returns ErrSyncSkipped when a run is
// already in flight.
func (c *CatalogSyncTrigger) Trigger(ctx context.Context) error {
	if c.runner.IsRunning() {
		c.logger.Info("Scheduled catalog sync skipped, a run is in progress")
		return ErrSyncSkipped
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	c.mu.Lock()
	c.lastRun = time.Now()
	c.mu.Unlock()

	resp, err := c.runner.Run(ctx, appintegration.RunSyncInput{
		Credentials: c.config.Credentials,
		Options:     c.config.Options,
	})
	if errors.Is(err, appintegration.ErrSyncAlreadyRunning) {
		c.logger.Info("Scheduled catalog sync skipped, a run is in progress")
		return ErrSyncSkipped
	}
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if resp != nil {
			fields = append(fields, zap.String("job_id", resp.JobID.String()))
		}
		c.logger.Error("Scheduled catalog sync failed", fields...)
		return err
	}

	c.logger.Info("Scheduled catalog sync finished",
		zap.String("job_id", resp.JobID.String()),
		zap.String("status", resp.Status.String()),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", resp.Skipped),
		zap.Int("errors", len(resp.Errors)),
	)
	return nil
}
