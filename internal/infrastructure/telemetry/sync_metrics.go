package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Attribute keys used by catalog sync metrics
var (
	AttrSyncStatus  = attribute.Key("sync.status")
	AttrSyncMode    = attribute.Key("sync.mode")
	AttrItemOutcome = attribute.Key("sync.item_outcome")
)

// SyncRunDurationBuckets are bucket boundaries for a full sync pass (seconds)
var SyncRunDurationBuckets = []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600}

// SyncMetrics records catalog sync activity. A nil *SyncMetrics is valid and
// records nothing.
type SyncMetrics struct {
	logger *zap.Logger

	runsTotal   metric.Int64Counter
	itemsTotal  metric.Int64Counter
	runDuration metric.Float64Histogram
}

// SyncMetricsConfig holds configuration for sync metrics
type SyncMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// ErrSyncMeterNil is returned when no meter is configured
var ErrSyncMeterNil = errors.New("sync metrics: meter is required")

// NewSyncMetrics creates the sync counters and histogram
func NewSyncMetrics(cfg SyncMetricsConfig) (*SyncMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrSyncMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SyncMetrics{logger: logger}

	var err error
	sm.runsTotal, err = Int64Counter(
		cfg.Meter,
		"catalog_sync_runs_total",
		"Total number of catalog sync runs by final status",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	sm.itemsTotal, err = Int64Counter(
		cfg.Meter,
		"catalog_sync_items_total",
		"Total number of remote records reconciled by outcome",
		"{items}",
	)
	if err != nil {
		return nil, err
	}

	sm.runDuration, err = SecondsHistogram(
		cfg.Meter,
		"catalog_sync_run_duration_seconds",
		"Duration of catalog sync runs",
		SyncRunDurationBuckets,
	)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordRun records one finished run
func (sm *SyncMetrics) RecordRun(ctx context.Context, mode, status string, d time.Duration) {
	if sm == nil {
		return
	}
	attrs := metric.WithAttributes(AttrSyncMode.String(mode), AttrSyncStatus.String(status))
	sm.runsTotal.Add(ctx, 1, attrs)
	sm.runDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordItem records one reconciled record
func (sm *SyncMetrics) RecordItem(ctx context.Context, outcome string) {
	if sm == nil {
		return
	}
	sm.itemsTotal.Add(ctx, 1, metric.WithAttributes(AttrItemOutcome.String(outcome)))
}
