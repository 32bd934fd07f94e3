package log

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const ddService = "tasks-service"

// WithDD attaches the Datadog correlation fields (dd.service always,
// dd.trace_id/dd.span_id when ctx carries an active span, as strings — the
// form Datadog expects) so log lines join the request's APM trace.
func WithDD(ctx context.Context, base *zap.Logger, extra ...zap.Field) *zap.Logger {
	extra = append(extra, zap.String("dd.service", ddService))
	if sp, ok := tracer.SpanFromContext(ctx); ok && sp != nil {
		if sc, ok := sp.Context().(ddtrace.SpanContext); ok {
			extra = append(extra,
				zap.String("dd.trace_id", fmt.Sprintf("%d", sc.TraceID())),
				zap.String("dd.span_id", fmt.Sprintf("%d", sc.SpanID())),
			)
		}
	}
	return base.With(extra...)
}
