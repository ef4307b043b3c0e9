package fnlog

import (
	"context"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func Test_entry_render(t *testing.T) {
	payload, err := structpb.NewStruct(map[string]interface{}{"user": "u1"})
	if err != nil {
		t.Fatal(err)
	}

	type args struct {
		environment LoggingEnvironment
		project     string
	}
	tests := []struct {
		name  string
		entry entry
		args  args
		want  string
	}{
		{
			name:  "google info",
			entry: entry{Message: "some message", Level: LevelInfo},
			args:  args{environment: EnvironmentGoogle},
			want:  `{"message":"some message","severity":"INFO"}`,
		},
		{
			name:  "google warning with trace",
			entry: entry{Message: "disk low", Level: LevelWarning, Trace: "abc", SpanID: "1"},
			args:  args{environment: EnvironmentGoogle, project: "p"},
			want:  `{"logging.googleapis.com/spanId":"1","logging.googleapis.com/trace":"projects/p/traces/abc","message":"disk low","severity":"WARNING"}`,
		},
		{
			name:  "trace dropped without project",
			entry: entry{Message: "disk low", Level: LevelWarning, Trace: "abc"},
			args:  args{environment: EnvironmentGoogle},
			want:  `{"message":"disk low","severity":"WARNING"}`,
		},
		{
			name:  "unknown level coerced to info",
			entry: entry{Message: "odd", Level: LogLevel(3)},
			args:  args{environment: EnvironmentGoogle},
			want:  `{"message":"odd","severity":"INFO"}`,
		},
		{
			name:  "payload fields merged",
			entry: entry{Message: "hello", Level: LevelInfo, Payload: payload},
			args:  args{environment: EnvironmentGoogle},
			want:  `{"message":"hello","severity":"INFO","user":"u1"}`,
		},
		{
			name:  "execution id and component as labels",
			entry: entry{Message: "hello", Level: LevelInfo, Component: "svc", ExecutionID: "xid"},
			args:  args{environment: EnvironmentGoogle},
			want:  `{"logging.googleapis.com/labels":{"component":"svc","execution_id":"xid"},"message":"hello","severity":"INFO"}`,
		},
		{
			name:  "local error",
			entry: entry{Message: "some error", Level: LevelError},
			args:  args{environment: EnvironmentLocal},
			want:  "\x1b[31mERROR:    \x1b[0m some error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.render(tt.args.environment, tt.args.project); got != tt.want {
				t.Errorf("render() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entry_resolve(t *testing.T) {
	ctx := WithRequestContext(context.Background(), RequestContext{Trace: "abc", SpanID: "1", ExecutionID: "xid"})
	e := entry{Message: "m", Level: LevelInfo, Ctx: ctx}
	e.resolve()
	if e.Trace != "abc" || e.SpanID != "1" || e.ExecutionID != "xid" {
		t.Errorf("resolve() = %q/%q/%q, want abc/1/xid", e.Trace, e.SpanID, e.ExecutionID)
	}
}
