package fnlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/grpc/grpclog"
)

var (
	mu         sync.Mutex
	configured bool
	root       sink
	registry   = map[string]*Logger{}
	settings   setupOptions

	// attachments counts sink attachments over the life of the process.
	// It must stay at 1 regardless of how often New runs.
	attachments int

	prevFlags int
)

type setupOptions struct {
	project        string
	environment    LoggingEnvironment
	logID          string
	useAPIClient   bool
	clientOptions  []option.ClientOption
	keepChatter    bool
	sourceLocation bool
	writer         io.Writer
}

// SetupOption is a functional option for the Configure method.
type SetupOption func(*setupOptions)

// WithProject overrides the Google Cloud project resolved from the environment.
func WithProject(project string) SetupOption {
	return func(o *setupOptions) { o.project = project }
}

// WithEnvironment overrides the detected logging environment.
func WithEnvironment(e LoggingEnvironment) SetupOption {
	return func(o *setupOptions) { o.environment = e }
}

// WithLogID overrides the log id used by the API client sink.
func WithLogID(id string) SetupOption {
	return func(o *setupOptions) { o.logID = id }
}

// WithAPIClient ships records through the Cloud Logging API client instead of
// the scraped stdout stream. If the client cannot be constructed, for example
// outside GCP without credentials, setup silently falls back to the stream.
func WithAPIClient() SetupOption {
	return func(o *setupOptions) { o.useAPIClient = true }
}

// WithClientOptions passes client options through to the Cloud Logging client.
func WithClientOptions(opts ...option.ClientOption) SetupOption {
	return func(o *setupOptions) { o.clientOptions = append(o.clientOptions, opts...) }
}

// WithKeepClientChatter leaves the client libraries' own diagnostic loggers
// untouched. The default demotion works around those libraries logging routine
// output at inappropriate severities; once that is fixed upstream this option
// avoids suppressing twice.
func WithKeepClientChatter() SetupOption {
	return func(o *setupOptions) { o.keepChatter = true }
}

// WithSourceLocation stamps records with the file, line and function of the
// call site.
func WithSourceLocation() SetupOption {
	return func(o *setupOptions) { o.sourceLocation = true }
}

// WithWriter directs stream output to w instead of stdout/stderr. Intended
// for tests and local tooling.
func WithWriter(w io.Writer) SetupOption {
	return func(o *setupOptions) { o.writer = w }
}

// Configure applies the options and rebuilds the pipeline. Calling it is
// optional: the first New call performs the same setup with defaults.
func Configure(opts ...SetupOption) {
	mu.Lock()
	defer mu.Unlock()
	for _, opt := range opts {
		opt(&settings)
	}
	teardownLocked()
	setupLocked()
}

// setupLocked wires up the process-wide pipeline. It is a no-op once
// configured, which is what keeps the sink count at one for any number of
// callers; the check runs under mu so concurrent first calls converge.
func setupLocked() {
	if configured {
		return
	}
	cfg := loadRuntimeConfig()
	if settings.project != "" {
		cfg.project = settings.project
	}
	environment := settings.environment
	if environment == "" {
		environment = EnvironmentLocal
		if cfg.onGCP {
			environment = EnvironmentGoogle
		}
	}
	root = buildSink(cfg, environment)
	attachments++
	if !settings.keepChatter {
		demoteClientChatter()
	}
	captureStandardLog()
	configured = true
}

func buildSink(cfg *runtimeConfig, environment LoggingEnvironment) sink {
	if settings.useAPIClient && environment == EnvironmentGoogle {
		logID := settings.logID
		if logID == "" {
			logID = "fnlog"
		}
		if s, err := newAPISink(cfg, logID, settings.clientOptions); err == nil {
			return s
		}
		// Fall through to the scraped stream: a function without credentials
		// must keep logging locally rather than fail.
	}
	w := settings.writer
	if w == nil {
		if environment == EnvironmentGoogle {
			w = os.Stdout
		} else {
			w = os.Stderr
		}
	}
	return &streamSink{w: w, environment: environment, project: cfg.project}
}

func teardownLocked() {
	if !configured {
		return
	}
	_ = root.flush()
	_ = root.close()
	root = nil
	log.SetFlags(prevFlags)
	log.SetOutput(os.Stderr)
	configured = false
}

// Reset tears the pipeline back down to its unconfigured state and forgets all
// named loggers. It exists for tests; a function instance never needs it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	teardownLocked()
	settings = setupOptions{}
	registry = map[string]*Logger{}
	attachments = 0
}

// Flush blocks until buffered records have been delivered. Stream sinks have
// nothing buffered; the API client sink ships its queue. Useful at the end of
// an invocation that must not lose records to a frozen instance.
func Flush() error {
	return currentSink().flush()
}

func pipeline() (sink, bool) {
	mu.Lock()
	defer mu.Unlock()
	setupLocked()
	return root, settings.sourceLocation
}

func currentSink() sink {
	s, _ := pipeline()
	return s
}

// captureStandardLog routes the stdlib default logger through the sink so that
// a dependency calling log.Print cannot emit beside the pipeline. Prefix text
// would prevent the line from being parsed as JSON, so the flags go too.
func captureStandardLog() {
	prevFlags = log.Flags()
	log.SetFlags(0)
	log.SetOutput(stdlogWriter{})
}

type stdlogWriter struct{}

func (stdlogWriter) Write(p []byte) (int, error) {
	currentSink().emit(&entry{
		Message:   strings.TrimSuffix(string(p), "\n"),
		Level:     LevelInfo,
		Component: "stdlog",
	})
	return len(p), nil
}

// demoteClientChatter caps the client libraries' own diagnostics at WARNING:
// gRPC's routine info output is discarded, warnings and errors flow through
// the sink at their own severity, exactly once each. This works around those
// libraries flooding the log at inappropriate severities; see
// WithKeepClientChatter for opting out once the upstream defect is resolved.
func demoteClientChatter() {
	grpclog.SetLoggerV2(chatterLogger{})
}

// chatterLogger implements grpclog.LoggerV2 directly rather than going through
// grpclog.NewLoggerV2, whose writers multi-write a record at several
// severities.
type chatterLogger struct{}

func (chatterLogger) Info(args ...any)                 {}
func (chatterLogger) Infoln(args ...any)               {}
func (chatterLogger) Infof(format string, args ...any) {}

func (chatterLogger) Warning(args ...any)   { chatter(LevelWarning, fmt.Sprint(args...)) }
func (chatterLogger) Warningln(args ...any) { chatter(LevelWarning, sprintln(args...)) }
func (chatterLogger) Warningf(format string, args ...any) {
	chatter(LevelWarning, fmt.Sprintf(format, args...))
}

func (chatterLogger) Error(args ...any)   { chatter(LevelError, fmt.Sprint(args...)) }
func (chatterLogger) Errorln(args ...any) { chatter(LevelError, sprintln(args...)) }
func (chatterLogger) Errorf(format string, args ...any) {
	chatter(LevelError, fmt.Sprintf(format, args...))
}

func (chatterLogger) Fatal(args ...any) {
	chatter(LevelCritical, fmt.Sprint(args...))
	os.Exit(1)
}

func (chatterLogger) Fatalln(args ...any) {
	chatter(LevelCritical, sprintln(args...))
	os.Exit(1)
}

func (chatterLogger) Fatalf(format string, args ...any) {
	chatter(LevelCritical, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (chatterLogger) V(l int) bool { return false }

func sprintln(args ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

// chatter emits a client-library diagnostic through the pipeline.
func chatter(level LogLevel, msg string) {
	currentSink().emit(&entry{Message: msg, Level: level, Component: "client"})
}
