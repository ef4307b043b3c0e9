// Package fnlog configures the logging pipeline of a Cloud Function (or Cloud
// Run service) so that every record reaches Google Cloud Logging exactly once,
// at the severity the caller asked for, with trace, span and execution
// correlation attached.
//
// Records are shaped as structured LogEntry output as defined by Google:
// https://cloud.google.com/logging/docs/structured-logging
//
// Call New to obtain a named logger; the first call in a process wires up the
// pipeline, later calls reuse it.
package fnlog // import "github.com/hamilton-scott-jason/cloud-function-logger/fnlog"
