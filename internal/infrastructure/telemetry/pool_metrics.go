package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrPoolState distinguishes in-use from idle connections
var AttrPoolState = attribute.Key("db.client.connection.state")

// RegisterPoolMetrics exports database/sql pool statistics as observable
// instruments read from stats on every collection.
func RegisterPoolMetrics(meter metric.Meter, stats func() sql.DBStats) error {
	connections, err := meter.Int64ObservableGauge(
		"db_client_connections",
		metric.WithDescription("Open database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	maxOpen, err := meter.Int64ObservableGauge(
		"db_client_connections_max",
		metric.WithDescription("Maximum number of open database connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter(
		"db_client_connection_waits_total",
		metric.WithDescription("Connections waited for because the pool was exhausted"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return err
	}
	waitTime, err := meter.Float64ObservableCounter(
		"db_client_connection_wait_seconds_total",
		metric.WithDescription("Total time spent waiting for a connection"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	inUse := metric.WithAttributes(AttrPoolState.String("used"))
	idle := metric.WithAttributes(AttrPoolState.String("idle"))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(connections, int64(s.InUse), inUse)
		o.ObserveInt64(connections, int64(s.Idle), idle)
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		o.ObserveInt64(waits, s.WaitCount)
		o.ObserveFloat64(waitTime, s.WaitDuration.Seconds())
		return nil
	}, connections, maxOpen, waits, waitTime)
	return err
}
