package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// routePatterns collapse parameterised paths into their route so each post
// or tag does not become its own label value. Order matters.
var routePatterns = []struct {
	pattern *regexp.Regexp
	route   string
}{
	{regexp.MustCompile(`^/blog/tags/[^/]+/page/[^/]+$`), "/blog/tags/{tag}/page/{n}"},
	{regexp.MustCompile(`^/blog/tags/[^/]+$`), "/blog/tags/{tag}"},
	{regexp.MustCompile(`^/blog/page/[^/]+$`), "/blog/page/{n}"},
	{regexp.MustCompile(`^/blog/[^/]+$`), "/blog/{slug}"},
	{regexp.MustCompile(`^/static/`), "/static/*"},
	{regexp.MustCompile(`^/files/`), "/files/*"},
}

// staticRoutes are recorded verbatim.
var staticRoutes = map[string]bool{
	"/":           true,
	"/about":      true,
	"/projects":   true,
	"/disclaimer": true,
	"/privacy":    true,
	"/blog":       true,
	"/health":     true,
}

// responseWriter wraps http.ResponseWriter to capture status code and bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath maps a request path to a bounded set of route labels.
// Anything unrecognised (mostly 404s from scanners) is reported as "other".
func normalizePath(path string) string {
	if staticRoutes[path] {
		return path
	}
	for _, rp := range routePatterns {
		if rp.pattern.MatchString(path) {
			return rp.route
		}
	}
	return "other"
}

// Middleware records HTTP request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip metrics endpoint to avoid recursion
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		method := r.Method
		statusCode := strconv.Itoa(rw.statusCode)

		HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	})
}
