package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// WithNewRelicApp returns a context carrying the New Relic application used
// by RecordCount, RecordDuration, RecordEvent and StartTransaction.
func WithNewRelicApp(ctx context.Context, app *newrelic.Application) context.Context {
	if app == nil {
		return ctx
	}
	return context.WithValue(ctx, newRelicContextKey{}, app)
}

func appFromContext(ctx context.Context) (*newrelic.Application, bool) {
	app, ok := ctx.Value(newRelicContextKey{}).(*newrelic.Application)
	return app, ok && app != nil
}

// StartTransaction starts a New Relic transaction for a top-level operation
// (connect, sign, a CLI command, ...) so that TraceMethodCall segments nested
// under ctx are attributed to it. The returned func ends the transaction and is
// safe to call when no application is configured.
func StartTransaction(ctx context.Context, name string) (context.Context, func()) {
	app, ok := appFromContext(ctx)
	if !ok {
		return ctx, func() {}
	}

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}
