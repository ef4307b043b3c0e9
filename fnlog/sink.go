package fnlog

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/logging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// sink is the single destination attached to the logging pipeline. Setup
// guarantees at most one sink per process, which is the whole duplication
// story: one sink, one record per call site.
type sink interface {
	emit(e *entry)
	flush() error
	close() error
}

// streamSink writes rendered entries to a writer, one line per record. It
// covers both the ingestion mode, where the platform agent scrapes LogEntry
// JSON from stdout, and the local mode with colorized human output.
type streamSink struct {
	mu          sync.Mutex
	w           io.Writer
	environment LoggingEnvironment
	project     string
}

func (s *streamSink) emit(e *entry) {
	line := e.render(s.environment, s.project)
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

func (s *streamSink) flush() error { return nil }
func (s *streamSink) close() error { return nil }

// apiSink ships entries through the Cloud Logging API client instead of the
// scraped stream. Entries carry an insert id so that a delivery retry cannot
// surface the same record twice.
type apiSink struct {
	client  *logging.Client
	logger  *logging.Logger
	project string
}

func newAPISink(cfg *runtimeConfig, logID string, clientOptions []option.ClientOption) (*apiSink, error) {
	if cfg.project == "" {
		return nil, fmt.Errorf("api sink: no project resolvable from the environment")
	}
	client, err := logging.NewClient(context.Background(), "projects/"+cfg.project, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("api sink: %w", err)
	}
	// The client's internal failures are diagnostics, not application errors;
	// they surface at WARNING like the rest of the library chatter.
	client.OnError = func(err error) {
		chatter(LevelWarning, "cloud logging client: "+err.Error())
	}
	return &apiSink{
		client:  client,
		logger:  client.Logger(logID, logging.CommonResource(cfg.resource())),
		project: cfg.project,
	}, nil
}

func (s *apiSink) emit(e *entry) {
	e.resolve()
	var payload interface{} = e.Message
	if fields := e.payloadFields(); fields != nil {
		fields["message"] = e.Message
		payload = fields
	}
	record := logging.Entry{
		Severity: severity(e.Level),
		Payload:  payload,
		InsertID: uuid.NewString(),
		Labels:   e.labels(),
	}
	if e.Trace != "" {
		record.Trace = fmt.Sprintf("projects/%s/traces/%s", s.project, e.Trace)
		record.SpanID = e.SpanID
	}
	s.logger.Log(record)
}

func (s *apiSink) flush() error { return s.logger.Flush() }
func (s *apiSink) close() error { return s.client.Close() }

// severity maps a level to the Cloud Logging client's severity scale.
func severity(l LogLevel) logging.Severity {
	switch l.coerce() {
	case LevelDebug:
		return logging.Debug
	case LevelNotice:
		return logging.Notice
	case LevelWarning:
		return logging.Warning
	case LevelError:
		return logging.Error
	case LevelCritical:
		return logging.Critical
	case LevelAlert:
		return logging.Alert
	case LevelEmergency:
		return logging.Emergency
	default:
		return logging.Info
	}
}
