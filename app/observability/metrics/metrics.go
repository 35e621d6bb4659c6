package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// All recording methods are safe to call on a nil receiver.
type AppMetrics struct {
	TripGenerationsTotal   metric.Int64Counter
	TripCacheHitsTotal     metric.Int64Counter
	TripGenerationDuration metric.Float64Histogram
	ProviderFailuresTotal  metric.Int64Counter
	TripSharesCreatedTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("TripPlanner"))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.TripGenerationsTotal, err = meter.Int64Counter(
		"trip_generations_total",
		metric.WithDescription("Total number of trips built from providers"),
		metric.WithUnit("{trip}"),
	)
	if err != nil {
		return nil, err
	}

	m.TripCacheHitsTotal, err = meter.Int64Counter(
		"trip_cache_hits_total",
		metric.WithDescription("Total number of trip requests served from cache"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.TripGenerationDuration, err = meter.Float64Histogram(
		"trip_generation_duration_seconds",
		metric.WithDescription("Duration of uncached trip generation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.ProviderFailuresTotal, err = meter.Int64Counter(
		"provider_failures_total",
		metric.WithDescription("Total number of failed or empty provider calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.TripSharesCreatedTotal, err = meter.Int64Counter(
		"trip_shares_created_total",
		metric.WithDescription("Total number of share codes issued"),
		metric.WithUnit("{code}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

func (m *AppMetrics) TripGenerated(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.TripGenerationsTotal.Add(ctx, 1)
	m.TripGenerationDuration.Record(ctx, seconds)
}

func (m *AppMetrics) CacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.TripCacheHitsTotal.Add(ctx, 1)
}

func (m *AppMetrics) ProviderFailed(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.ProviderFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

func (m *AppMetrics) ShareCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.TripSharesCreatedTotal.Add(ctx, 1)
}
