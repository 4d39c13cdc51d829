package metrics

import (
	"context"
	"time"
)

// The Record functions are no-ops unless ctx carries an application set
// through WithNewRelicApp.

func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	if app, ok := appFromContext(ctx); ok {
		app.RecordCustomEvent(eventName, kvPairs)
	}
}

func RecordCount(ctx context.Context, metricName string, count uint64) {
	if app, ok := appFromContext(ctx); ok {
		app.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records duration in milliseconds.
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	if app, ok := appFromContext(ctx); ok {
		app.RecordCustomMetric(metricName, float64(duration)/float64(time.Millisecond))
	}
}
