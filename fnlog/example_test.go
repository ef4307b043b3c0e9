package fnlog_test

import (
	"context"
	"os"

	"github.com/hamilton-scott-jason/cloud-function-logger/fnlog"
)

func ExampleNew() {
	defer fnlog.Reset()
	fnlog.Configure(fnlog.WithWriter(os.Stdout), fnlog.WithEnvironment(fnlog.EnvironmentGoogle))

	logger := fnlog.New("svc")
	logger.Info(context.Background(), "function ready")
	// Output:
	// {"logging.googleapis.com/labels":{"component":"svc"},"message":"function ready","severity":"INFO"}
}

func ExampleWithDebug() {
	defer fnlog.Reset()
	fnlog.Configure(fnlog.WithWriter(os.Stdout), fnlog.WithEnvironment(fnlog.EnvironmentGoogle))

	logger := fnlog.New("svc")
	logger.Debug(context.Background(), "suppressed at the INFO floor")

	logger = fnlog.New("svc", fnlog.WithDebug())
	logger.Debug(context.Background(), "cold start")
	// Output:
	// {"logging.googleapis.com/labels":{"component":"svc"},"message":"cold start","severity":"DEBUG"}
}

func ExampleWithRequestContext() {
	defer fnlog.Reset()
	fnlog.Configure(
		fnlog.WithWriter(os.Stdout),
		fnlog.WithEnvironment(fnlog.EnvironmentGoogle),
		fnlog.WithProject("demo-project"),
	)

	// Middleware populates this from the request headers; done by hand here.
	ctx := fnlog.WithRequestContext(context.Background(), fnlog.RequestContext{
		Trace:       "0af7651916cd43dd8448eb211c80319c",
		SpanID:      "b7ad6b7169203331",
		ExecutionID: "abc123",
	})

	fnlog.New("svc").Warn(ctx, "disk low")
	// Output:
	// {"logging.googleapis.com/labels":{"component":"svc","execution_id":"abc123"},"logging.googleapis.com/spanId":"b7ad6b7169203331","logging.googleapis.com/trace":"projects/demo-project/traces/0af7651916cd43dd8448eb211c80319c","message":"disk low","severity":"WARNING"}
}
