package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes query parameters in spans. Leave off outside
	// development; imported ledger rows can carry sensitive amounts.
	LogFullSQL       bool
	SlowQueryThresh  time.Duration
	DBSystem         string
	WithoutVariables bool
}

// DefaultDBTracingConfig returns the secure defaults: parameters stripped,
// 200ms slow query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin registers otelgorm on a GORM connection plus callbacks
// that mark slow queries and errors on the active span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs the otelgorm plugin and the timing callbacks on
// the given GORM DB. No-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

// registerTimingCallbacks hooks every GORM operation with a before callback
// stamping the start time and an after callback that annotates the span.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []struct {
		op       string
		hook     string
		register func(hook, name string, fn func(*gorm.DB)) error
		before   bool
	}{
		{"create", "gorm:create", func(h, n string, f func(*gorm.DB)) error { return cb.Create().Before(h).Register(n, f) }, true},
		{"query", "gorm:query", func(h, n string, f func(*gorm.DB)) error { return cb.Query().Before(h).Register(n, f) }, true},
		{"update", "gorm:update", func(h, n string, f func(*gorm.DB)) error { return cb.Update().Before(h).Register(n, f) }, true},
		{"delete", "gorm:delete", func(h, n string, f func(*gorm.DB)) error { return cb.Delete().Before(h).Register(n, f) }, true},
		{"row", "gorm:row", func(h, n string, f func(*gorm.DB)) error { return cb.Row().Before(h).Register(n, f) }, true},
		{"raw", "gorm:raw", func(h, n string, f func(*gorm.DB)) error { return cb.Raw().Before(h).Register(n, f) }, true},
		{"create", "gorm:create", func(h, n string, f func(*gorm.DB)) error { return cb.Create().After(h).Register(n, f) }, false},
		{"query", "gorm:query", func(h, n string, f func(*gorm.DB)) error { return cb.Query().After(h).Register(n, f) }, false},
		{"update", "gorm:update", func(h, n string, f func(*gorm.DB)) error { return cb.Update().After(h).Register(n, f) }, false},
		{"delete", "gorm:delete", func(h, n string, f func(*gorm.DB)) error { return cb.Delete().After(h).Register(n, f) }, false},
		{"row", "gorm:row", func(h, n string, f func(*gorm.DB)) error { return cb.Row().After(h).Register(n, f) }, false},
		{"raw", "gorm:raw", func(h, n string, f func(*gorm.DB)) error { return cb.Raw().After(h).Register(n, f) }, false},
	}

	for _, r := range registrations {
		if r.before {
			if err := r.register(r.hook, "wcm_tracing:before_"+r.op, markQueryStart); err != nil {
				return err
			}
			continue
		}
		if err := r.register(r.hook, "wcm_tracing:after_"+r.op, p.annotateSpan); err != nil {
			return err
		}
	}

	return nil
}

// markQueryStart stamps the statement context so the after callback can
// compute elapsed time.
func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotateSpan runs after each operation. It adds row counts and the table
// name, records errors, and flags queries slower than the threshold.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// ErrRecordNotFound is an expected outcome, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(startTime)
	if elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}

type contextKey string

const queryStartTimeKey contextKey = "wcm_query_start_time"
