package restyutil

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type spanKeyType int

var spanKey spanKeyType

// InstrumentClient attaches otel spans to every request made through the
// client. `name` scopes the tracer so separate clients stay apart in
// trace output.
func InstrumentClient(client *resty.Client, name string) {
	tracer := otel.Tracer(name)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, span := tracer.Start(req.Context(), "resty:"+req.Method,
			trace.WithAttributes(
				attribute.String("http.url", req.URL),
				attribute.String("http.method", req.Method),
			),
		)
		ctx = context.WithValue(ctx, spanKey, span)
		req.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		span, ok := res.Request.Context().Value(spanKey).(trace.Span)
		if !ok {
			return nil
		}
		span.SetAttributes(
			attribute.Int("http.status_code", res.StatusCode()),
			attribute.String("http.duration", res.Time().Round(time.Millisecond).String()),
		)
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
		}
		span.End()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		span, ok := req.Context().Value(spanKey).(trace.Span)
		if !ok {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		span.End()
	})
}
