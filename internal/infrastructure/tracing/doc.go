/*
Package tracing provides lightweight request tracing for the dashboard backend.

Every HTTP request gets a span. Trace context arrives and leaves through the
X-Trace-ID and X-Span-ID headers, so a frontend can correlate its calls with
backend log lines. Finished spans are handed to a buffered collector and
written through zap; when the buffer is full spans are dropped, never
blocking the request path.

	tracer := tracing.New("dashboard", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

Handlers can add the trace to their own log lines:

	logger.Info("config deleted", append(tracing.Fields(ctx), zap.String("config", name))...)
*/
package tracing
