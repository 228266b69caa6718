// Package metrics provides Prometheus metrics for the file browser client.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebrowser_http_requests_total",
			Help: "Total number of requests sent to the file server",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebrowser_http_request_duration_seconds",
			Help:    "File server request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload metrics
	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filebrowser_upload_bytes_total",
			Help: "Total bytes of staged files sent in upload requests",
		},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebrowser_uploads_total",
			Help: "Total upload actions",
		},
		[]string{"status"},
	)

	stagedFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filebrowser_staged_files",
			Help: "Number of files currently staged for upload",
		},
	)

	// Mutation metrics
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebrowser_mutations_total",
			Help: "Total mutation actions by kind",
		},
		[]string{"kind", "status"},
	)

	listingRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebrowser_listing_refresh_total",
			Help: "Total listing fetches",
		},
		[]string{"status"},
	)

	// Preview metrics
	previewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebrowser_previews_total",
			Help: "Total preview resolutions by mode",
		},
		[]string{"mode", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records a request to the file server.
func RecordHTTPRequest(method, endpoint string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpload records an upload action.
func RecordUpload(bytes int64, success bool) {
	if success {
		uploadBytesTotal.Add(float64(bytes))
	}
	uploadsTotal.WithLabelValues(status(success)).Inc()
}

// SetStagedFiles sets the staged file gauge.
func SetStagedFiles(n int) {
	stagedFiles.Set(float64(n))
}

// RecordMutation records a create/delete/rename/move action.
func RecordMutation(kind string, success bool) {
	mutationsTotal.WithLabelValues(kind, status(success)).Inc()
}

// RecordListingRefresh records a listing fetch.
func RecordListingRefresh(success bool) {
	listingRefreshTotal.WithLabelValues(status(success)).Inc()
}

// RecordPreview records a preview resolution.
func RecordPreview(mode string, success bool) {
	previewsTotal.WithLabelValues(mode, status(success)).Inc()
}

// Endpoint collapses a request path to a bounded label value. Content
// downloads share one label regardless of the file path.
func Endpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/uploads/"):
		return "/uploads"
	case strings.HasPrefix(path, "/browse/"):
		return "/browse"
	default:
		return path
	}
}

type roundTripper struct {
	next http.RoundTripper
}

// Transport wraps next and records request metrics per endpoint.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &roundTripper{next: next}
}

func (t *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	RecordHTTPRequest(r.Method, Endpoint(r.URL.Path), code, time.Since(start))
	return resp, err
}
