package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

type fakeRunner struct {
	mu          sync.Mutex
	inputs      []appintegration.RunSyncInput
	calls       atomic.Int32
	busy        atomic.Bool
	err         error
	onRun       func(ctx context.Context)
	sawDeadline atomic.Bool
}

func (f *fakeRunner) Run(ctx context.Context, input appintegration.RunSyncInput) (*appintegration.SyncResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline.Store(true)
	}
	if f.onRun != nil {
		f.onRun(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &appintegration.SyncResponse{
		Success: true,
		JobID:   uuid.New(),
		Status:  integration.SyncJobStatusCompleted,
		Created: 1,
		Errors:  []string{},
	}, nil
}

func (f *fakeRunner) IsRunning() bool {
	return f.busy.Load()
}

func validTriggerConfig() CatalogSyncTriggerConfig {
	return CatalogSyncTriggerConfig{
		Interval:    10 * time.Millisecond,
		Timeout:     time.Minute,
		Credentials: integration.Credentials{Endpoint: "shop.example.com", Key: "ck", Secret: "cs"},
		Options:     integration.DefaultSyncOptions(),
	}
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestCatalogSyncTriggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CatalogSyncTriggerConfig)
		valid  bool
	}{
		{"valid", func(*CatalogSyncTriggerConfig) {}, true},
		{"zero interval", func(c *CatalogSyncTriggerConfig) { c.Interval = 0 }, false},
		{"negative timeout", func(c *CatalogSyncTriggerConfig) { c.Timeout = -time.Second }, false},
		{"zero timeout", func(c *CatalogSyncTriggerConfig) { c.Timeout = 0 }, true},
		{"missing secret", func(c *CatalogSyncTriggerConfig) { c.Credentials.Secret = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTriggerConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Trigger Tests
// ---------------------------------------------------------------------------

func TestCatalogSyncTrigger_TriggerPassesConfig(t *testing.T) {
	runner := &fakeRunner{}
	trigger, err := NewCatalogSyncTrigger(validTriggerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.Trigger(context.Background()))

	require.Len(t, runner.inputs, 1)
	assert.Equal(t, "shop.example.com", runner.inputs[0].Credentials.Endpoint)
	assert.Equal(t, integration.DefaultSyncOptions(), runner.inputs[0].Options)
	assert.True(t, runner.sawDeadline.Load(), "the run is bounded by the timeout")
	assert.False(t, trigger.LastRun().IsZero())
}

func TestCatalogSyncTrigger_SkipsWhenBusy(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	runner := &fakeRunner{}
	runner.busy.Store(true)
	trigger, err := NewCatalogSyncTrigger(validTriggerConfig(), runner, zap.New(core))
	require.NoError(t, err)

	err = trigger.Trigger(context.Background())

	assert.ErrorIs(t, err, ErrSyncSkipped)
	assert.Zero(t, runner.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("Scheduled catalog sync skipped, a run is in progress").Len())
}

func TestCatalogSyncTrigger_SkipsOnRunConflict(t *testing.T) {
	runner := &fakeRunner{err: appintegration.ErrSyncAlreadyRunning}
	trigger, err := NewCatalogSyncTrigger(validTriggerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, trigger.Trigger(context.Background()), ErrSyncSkipped)
}

func TestCatalogSyncTrigger_ReportsRunError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("remote down")
	runner := &fakeRunner{err: boom}
	trigger, err := NewCatalogSyncTrigger(validTriggerConfig(), runner, zap.New(core))
	require.NoError(t, err)

	assert.ErrorIs(t, trigger.Trigger(context.Background()), boom)
	assert.Equal(t, 1, logs.FilterMessage("Scheduled catalog sync failed").Len())
}

// ---------------------------------------------------------------------------
// Lifecycle Tests
// ---------------------------------------------------------------------------

func TestCatalogSyncTrigger_StartStop(t *testing.T) {
	runner := &fakeRunner{}
	cfg := validTriggerConfig()
	cfg.RunOnStart = true
	trigger, err := NewCatalogSyncTrigger(cfg, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()), "second start is a no-op")
	assert.True(t, trigger.IsRunning())

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	assert.False(t, trigger.IsRunning())
	require.NoError(t, trigger.Stop(ctx), "second stop is a no-op")

	stopped := runner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runner.calls.Load())
}

func TestCatalogSyncTrigger_StopCancelsRun(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool
	runner := &fakeRunner{onRun: func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	}}
	cfg := validTriggerConfig()
	cfg.RunOnStart = true
	cfg.Interval = time.Hour
	trigger, err := NewCatalogSyncTrigger(cfg, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	assert.True(t, cancelled.Load())
}
