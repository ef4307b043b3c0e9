package fnlog

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func Test_parseTraceparent(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantTrace  string
		wantSpanID string
	}{
		{
			name:       "well formed",
			header:     "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
			wantTrace:  "0af7651916cd43dd8448eb211c80319c",
			wantSpanID: "b7ad6b7169203331",
		},
		{name: "too few segments", header: "00-abc", wantTrace: "", wantSpanID: ""},
		{name: "short trace id", header: "00-abc-b7ad6b7169203331-01", wantTrace: "", wantSpanID: ""},
		{name: "empty", header: "", wantTrace: "", wantSpanID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, spanID := parseTraceparent(tt.header)
			if trace != tt.wantTrace || spanID != tt.wantSpanID {
				t.Errorf("parseTraceparent() = %q/%q, want %q/%q", trace, spanID, tt.wantTrace, tt.wantSpanID)
			}
		})
	}
}

func Test_parseXCloudTraceContext(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantTrace  string
		wantSpanID string
	}{
		{
			name:       "trace span and options",
			header:     "105445aa7843bc8bf206b12000100000/1;o=1",
			wantTrace:  "105445aa7843bc8bf206b12000100000",
			wantSpanID: "1",
		},
		{name: "trace only", header: "105445aa7843bc8bf206b12000100000", wantTrace: "105445aa7843bc8bf206b12000100000", wantSpanID: ""},
		{name: "empty", header: "", wantTrace: "", wantSpanID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, spanID := parseXCloudTraceContext(tt.header)
			if trace != tt.wantTrace || spanID != tt.wantSpanID {
				t.Errorf("parseXCloudTraceContext() = %q/%q, want %q/%q", trace, spanID, tt.wantTrace, tt.wantSpanID)
			}
		})
	}
}

func Test_requestContextFrom(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want RequestContext
	}{
		{
			name: "explicit value wins",
			ctx: WithRequestContext(
				metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-cloud-trace-context", "other/9")),
				RequestContext{Trace: "abc", SpanID: "1"},
			),
			want: RequestContext{Trace: "abc", SpanID: "1"},
		},
		{
			name: "grpc metadata fallback",
			ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(
				"x-cloud-trace-context", "abc/7;o=1",
				"function-execution-id", "xid",
			)),
			want: RequestContext{Trace: "abc", SpanID: "7", ExecutionID: "xid"},
		},
		{name: "plain context", ctx: context.Background(), want: RequestContext{}},
		{name: "nil context", ctx: nil, want: RequestContext{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := requestContextFrom(tt.ctx); got != tt.want {
				t.Errorf("requestContextFrom() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
