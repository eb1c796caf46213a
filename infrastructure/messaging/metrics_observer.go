package messaging

import (
	"context"

	"storefront/application/notify"
	"storefront/pkg/metrics"
)

// MetricsObserver counts notifications per event name
type MetricsObserver struct {
	metrics *metrics.Metrics
}

func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) Name() string { return "metrics" }

func (o *MetricsObserver) Update(_ context.Context, event notify.Event) error {
	o.metrics.Notifications.WithLabelValues(event.Name).Inc()
	return nil
}

var _ notify.Observer = (*MetricsObserver)(nil)
