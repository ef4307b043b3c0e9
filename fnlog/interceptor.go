package fnlog

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UnaryServerInterceptor normalizes the correlation identifiers from the
// incoming metadata onto the request context, so that handlers and the entry
// renderer agree on the trace regardless of which transport delivered it.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		return handler(annotate(ctx), req)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, &annotatedStream{ServerStream: ss, ctx: annotate(ss.Context())})
	}
}

type annotatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *annotatedStream) Context() context.Context { return s.ctx }

func annotate(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	var rc RequestContext
	if headers := md.Get("x-cloud-trace-context"); len(headers) > 0 {
		rc.Trace, rc.SpanID = parseXCloudTraceContext(headers[0])
	}
	if rc.Trace == "" {
		if headers := md.Get("traceparent"); len(headers) > 0 {
			rc.Trace, rc.SpanID = parseTraceparent(headers[0])
		}
	}
	if headers := md.Get("function-execution-id"); len(headers) > 0 {
		rc.ExecutionID = headers[0]
	}
	if rc == (RequestContext{}) {
		return ctx
	}
	return WithRequestContext(ctx, rc)
}
