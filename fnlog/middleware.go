package fnlog

import "net/http"

// Middleware stores the correlation identifiers of the incoming request on
// its context: the W3C Traceparent header when present, otherwise the legacy
// X-Cloud-Trace-Context header, plus the Function-Execution-Id assigned by
// the Cloud Functions front end. Malformed headers are ignored, never
// rejected. Wrap the function's handler with it so every record logged while
// serving the request carries the trace.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rc RequestContext
		if header := r.Header.Get("Traceparent"); header != "" {
			rc.Trace, rc.SpanID = parseTraceparent(header)
		}
		if rc.Trace == "" {
			if header := r.Header.Get("X-Cloud-Trace-Context"); header != "" {
				rc.Trace, rc.SpanID = parseXCloudTraceContext(header)
			}
		}
		rc.ExecutionID = r.Header.Get("Function-Execution-Id")
		if rc != (RequestContext{}) {
			r = r.WithContext(WithRequestContext(r.Context(), rc))
		}
		next.ServeHTTP(w, r)
	})
}
