package fnlog

import (
	"context"
	"time"

	"cloud.google.com/go/compute/metadata"
	"github.com/caarlos0/env/v11"
	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"
)

// functionEnv holds the raw runtime variables as set by the current and the
// legacy Cloud Functions runtimes. The X_GOOGLE_ prefixed variants were used
// by the first generation runtime and are kept for warm instances that still
// carry them.
type functionEnv struct {
	GoogleCloudProject    string `env:"GOOGLE_CLOUD_PROJECT"`
	GcloudProject         string `env:"GCLOUD_PROJECT"`
	GCPProject            string `env:"GCP_PROJECT"`
	XGoogleGcloudProject  string `env:"X_GOOGLE_GCLOUD_PROJECT"`
	ProjectID             string `env:"PROJECT_ID"`
	FunctionName          string `env:"FUNCTION_NAME"`
	KService              string `env:"K_SERVICE"`
	XGoogleFunctionName   string `env:"X_GOOGLE_FUNCTION_NAME"`
	FunctionRegion        string `env:"FUNCTION_REGION"`
	XGoogleFunctionRegion string `env:"X_GOOGLE_FUNCTION_REGION"`
	FunctionTarget        string `env:"FUNCTION_TARGET"`
}

// runtimeConfig is the resolved identity of the running function.
type runtimeConfig struct {
	project      string
	functionName string
	region       string
	onGCP        bool
}

// loadRuntimeConfig resolves the function identity from the environment.
// The metadata server is only consulted when the environment already looks
// like a GCP runtime and no project variable is set, so that local and test
// processes never block on a probe.
func loadRuntimeConfig() *runtimeConfig {
	e, err := env.ParseAs[functionEnv]()
	if err != nil {
		return &runtimeConfig{}
	}

	c := &runtimeConfig{
		project:      firstNonEmpty(e.GoogleCloudProject, e.GcloudProject, e.GCPProject, e.XGoogleGcloudProject, e.ProjectID),
		functionName: firstNonEmpty(e.KService, e.FunctionName, e.XGoogleFunctionName),
		region:       firstNonEmpty(e.FunctionRegion, e.XGoogleFunctionRegion),
	}
	c.onGCP = e.KService != "" || e.FunctionTarget != "" || e.FunctionName != ""
	if c.onGCP && c.project == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if project, err := metadata.ProjectIDWithContext(ctx); err == nil {
			c.project = project
		}
	}
	return c
}

// resource returns the monitored resource the function's records belong to.
func (c *runtimeConfig) resource() *mrpb.MonitoredResource {
	return &mrpb.MonitoredResource{
		Type: "cloud_function",
		Labels: map[string]string{
			"project_id":    c.project,
			"region":        c.region,
			"function_name": c.functionName,
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
