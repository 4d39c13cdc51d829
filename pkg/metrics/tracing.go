package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// MethodTracer is a segment of the transaction carried by a context. A nil
// *MethodTracer is valid and does nothing.
type MethodTracer struct {
	txn   *newrelic.Transaction
	seg   *newrelic.Segment
	name  string
	ended bool
}

// TraceMethodCall starts a segment named "<component> <method>". It returns
// nil when ctx carries no transaction.
func TraceMethodCall(ctx context.Context, component, method string) *MethodTracer {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	name := component + " " + method
	return &MethodTracer{
		txn:  txn,
		seg:  txn.StartSegment(name),
		name: name,
	}
}

func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil {
		return
	}
	t.seg.AddAttribute(key, value)
}

// OnError notices err on the transaction, classed by the traced method. Nil
// errors are ignored.
func (t *MethodTracer) OnError(err error) {
	if t == nil || err == nil {
		return
	}

	t.seg.AddAttribute("error", err.Error())
	t.txn.NoticeError(newrelic.Error{
		Message: err.Error(),
		Class:   t.name,
	})
}

// End completes the segment. Subsequent calls have no effect.
func (t *MethodTracer) End() {
	if t == nil || t.ended {
		return
	}
	t.ended = true
	t.seg.End()
}
