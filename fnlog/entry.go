package fnlog

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LoggingEnvironment indicates which environment the logs are generated in.
type LoggingEnvironment string

const (
	// EnvironmentLocal outputs rich text format and bypasses any structured logging.
	EnvironmentLocal LoggingEnvironment = "LOCAL"
	// EnvironmentGoogle outputs logs in LogEntry format inline with Google Cloud logging.
	EnvironmentGoogle LoggingEnvironment = "GOOGLE"
)

// logEntrySourceLocation provides additional information about the source code
// location that produced the log entry.
type logEntrySourceLocation struct {
	File     string `json:"file,omitempty"`
	Line     string `json:"line,omitempty"`
	Function string `json:"function,omitempty"`
}

// entry defines a log entry.
// When rendered for the Google environment the attributes follow the LogEntry
// format as per https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry
// which makes Cloud Logging parse severity, trace and labels out of the
// scraped line instead of wrapping it as a plain text payload.
type entry struct {
	Message        string
	Level          LogLevel
	Component      string
	Trace          string
	SpanID         string
	ExecutionID    string
	SourceLocation *logEntrySourceLocation
	Payload        *structpb.Struct
	Ctx            context.Context
}

// resolve fills the correlation fields from the entry's context, if any.
func (e *entry) resolve() {
	rc := requestContextFrom(e.Ctx)
	if e.Trace == "" {
		e.Trace = rc.Trace
	}
	if e.SpanID == "" {
		e.SpanID = rc.SpanID
	}
	if e.ExecutionID == "" {
		e.ExecutionID = rc.ExecutionID
	}
}

// labels returns the LogEntry labels of the entry, or nil if there are none.
func (e *entry) labels() map[string]string {
	labels := map[string]string{}
	if e.Component != "" {
		labels["component"] = e.Component
	}
	if e.ExecutionID != "" {
		labels["execution_id"] = e.ExecutionID
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

// payloadFields returns the structured payload as a plain map, or nil.
func (e *entry) payloadFields() map[string]interface{} {
	if e.Payload == nil {
		return nil
	}
	data, err := protojson.Marshal(e.Payload)
	if err != nil {
		// Degrade to message-only rather than dropping the record.
		return nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// render returns the wire form of the entry for the given environment.
func (e *entry) render(environment LoggingEnvironment, project string) string {
	e.resolve()

	// In the local environment, bypass the structured logging.
	if environment == EnvironmentLocal {
		var prefix string
		switch e.Level {
		case LevelDebug:
			prefix = colorize("DBG:      ", 90)
		case LevelInfo:
			prefix = colorize("INFO:     ", 32)
		case LevelNotice:
			prefix = colorize("NOTICE:   ", 34)
		case LevelWarning:
			prefix = colorize("WARNING:  ", 33)
		case LevelError:
			prefix = colorize("ERROR:    ", 31)
		case LevelAlert:
			prefix = colorize("ALERT:    ", 91)
		case LevelCritical:
			prefix = colorize("CRITICAL: ", 41)
		case LevelEmergency:
			prefix = colorize("EMERGENCY:", 101)
		}
		out := prefix + " " + e.Message
		if fields := e.payloadFields(); fields != nil {
			if data, err := json.Marshal(fields); err == nil {
				out += " " + string(data)
			}
		}
		return out
	}

	m := map[string]interface{}{
		"message":  e.Message,
		"severity": e.Level.coerce().String(),
	}
	for k, v := range e.payloadFields() {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	if e.Trace != "" && project != "" {
		m["logging.googleapis.com/trace"] = fmt.Sprintf("projects/%s/traces/%s", project, e.Trace)
	}
	if e.SpanID != "" {
		m["logging.googleapis.com/spanId"] = e.SpanID
	}
	if labels := e.labels(); labels != nil {
		m["logging.googleapis.com/labels"] = labels
	}
	if e.SourceLocation != nil {
		m["logging.googleapis.com/sourceLocation"] = e.SourceLocation
	}
	out, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf(`{"message": %q, "severity": %q}`, e.Message, e.Level.coerce().String())
	}
	return string(out)
}

// colorize returns the string s wrapped in ANSI code
// Codes available at https://en.wikipedia.org/wiki/ANSI_escape_code#Colors
func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
