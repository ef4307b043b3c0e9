package fnlog

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// RequestContext carries the correlation identifiers of the current
// invocation. Trace and SpanID hold the raw identifiers as supplied by the
// platform; the trace is expanded to its full resource name
// (projects/<project>/traces/<id>) when a record is rendered.
type RequestContext struct {
	Trace       string
	SpanID      string
	ExecutionID string
}

// Unexported new type so that our context key never collides with another.
type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext returns a new context carrying the provided correlation
// identifiers. It is normally called by Middleware or the server interceptors
// rather than by application code.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFromContext retrieves the correlation identifiers stored on
// the context, reporting whether any were found.
func RequestContextFromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(requestContextKey).(RequestContext)
	return rc, ok
}

// requestContextFrom resolves the correlation identifiers for a log record:
// an explicit RequestContext on the context wins, otherwise the gRPC incoming
// metadata is consulted.
func requestContextFrom(ctx context.Context) RequestContext {
	if rc, ok := RequestContextFromContext(ctx); ok {
		return rc
	}
	var rc RequestContext
	if ctx == nil {
		return rc
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if headers := md.Get("x-cloud-trace-context"); len(headers) > 0 {
			rc.Trace, rc.SpanID = parseXCloudTraceContext(headers[0])
		}
		if headers := md.Get("function-execution-id"); len(headers) > 0 {
			rc.ExecutionID = headers[0]
		}
	}
	return rc
}

// parseTraceparent extracts the trace and span identifiers from a W3C
// traceparent header: version-traceid-spanid-flags.
func parseTraceparent(header string) (trace string, spanID string) {
	parts := strings.Split(header, "-")
	if len(parts) < 4 {
		return "", ""
	}
	if len(parts[1]) != 32 || len(parts[2]) != 16 {
		return "", ""
	}
	return parts[1], parts[2]
}

// parseXCloudTraceContext extracts the trace and span identifiers from an
// X-Cloud-Trace-Context header: TRACE_ID/SPAN_ID;o=OPTIONS.
func parseXCloudTraceContext(header string) (trace string, spanID string) {
	trace, rest, found := strings.Cut(header, "/")
	if trace == "" {
		return "", ""
	}
	if found {
		spanID, _, _ = strings.Cut(rest, ";")
	}
	return trace, spanID
}
