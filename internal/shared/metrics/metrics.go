package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	scanStartedTotal    atomic.Uint64
	scanCompletedTotal  atomic.Uint64
	scanFailedTotal     atomic.Uint64
	uploadRejectedTotal atomic.Uint64
	rateLimitedTotal    atomic.Uint64
	panicsTotal         atomic.Uint64
	cacheHitsTotal      atomic.Uint64
	cacheMissesTotal    atomic.Uint64

	workerReceivedTotal      atomic.Uint64
	workerCompletedTotal     atomic.Uint64
	workerFailedTotal        atomic.Uint64
	workerUnrecoverableTotal atomic.Uint64

	providerFailures = newLabeledCounter()
	providerListings = newLabeledCounter()

	scanDuration   = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	searchDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 20000})
)

// IncScanStarted increments the started counter.
func IncScanStarted() {
	scanStartedTotal.Add(1)
}

// IncScanCompleted increments the completed counter.
func IncScanCompleted() {
	scanCompletedTotal.Add(1)
}

// IncScanFailed increments the failed counter.
func IncScanFailed() {
	scanFailedTotal.Add(1)
}

func IncUploadRejected() {
	uploadRejectedTotal.Add(1)
}

func IncRateLimited() {
	rateLimitedTotal.Add(1)
}

func IncPanics() {
	panicsTotal.Add(1)
}

func IncCacheHit() {
	cacheHitsTotal.Add(1)
}

func IncCacheMiss() {
	cacheMissesTotal.Add(1)
}

// IncWorkerReceived counts queue messages picked up by the worker.
func IncWorkerReceived() {
	workerReceivedTotal.Add(1)
}

func IncWorkerCompleted() {
	workerCompletedTotal.Add(1)
}

func IncWorkerFailed() {
	workerFailedTotal.Add(1)
}

// IncWorkerUnrecoverable counts messages dropped because the payload was unusable.
func IncWorkerUnrecoverable() {
	workerUnrecoverableTotal.Add(1)
}

// IncProviderFailure counts a failed job board search for provider.
func IncProviderFailure(provider string) {
	providerFailures.Add(provider, 1)
}

// AddProviderListings counts listings returned by provider.
func AddProviderListings(provider string, n int) {
	if n <= 0 {
		return
	}
	providerListings.Add(provider, uint64(n))
}

// ObserveScanDurationMs records a scan duration in milliseconds.
func ObserveScanDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	scanDuration.Observe(value)
}

// ObserveSearchDurationMs records a job search fan-out duration in milliseconds.
func ObserveSearchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	searchDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "scan_started_total", "Total scans started", scanStartedTotal.Load())
	writeCounter(&buf, "scan_completed_total", "Total scans completed", scanCompletedTotal.Load())
	writeCounter(&buf, "scan_failed_total", "Total scans failed", scanFailedTotal.Load())
	writeCounter(&buf, "upload_rejected_total", "Uploads rejected before scanning", uploadRejectedTotal.Load())
	writeCounter(&buf, "http_rate_limited_total", "Requests rejected by the rate limiter", rateLimitedTotal.Load())
	writeCounter(&buf, "http_panics_total", "Recovered handler panics", panicsTotal.Load())
	writeCounter(&buf, "job_cache_hits_total", "Job search cache hits", cacheHitsTotal.Load())
	writeCounter(&buf, "job_cache_misses_total", "Job search cache misses", cacheMissesTotal.Load())
	writeCounter(&buf, "worker_messages_received_total", "Queue messages received by the worker", workerReceivedTotal.Load())
	writeCounter(&buf, "worker_messages_completed_total", "Queue messages processed and deleted", workerCompletedTotal.Load())
	writeCounter(&buf, "worker_messages_failed_total", "Queue messages left for redelivery", workerFailedTotal.Load())
	writeCounter(&buf, "worker_messages_unrecoverable_total", "Queue messages dropped as unusable", workerUnrecoverableTotal.Load())
	writeLabeledCounter(&buf, "job_provider_failures_total", "Job board searches that failed", "provider", providerFailures.Snapshot())
	writeLabeledCounter(&buf, "job_provider_listings_total", "Listings returned by job boards", "provider", providerListings.Snapshot())
	writeHistogram(&buf, "scan_duration_ms", "Scan duration in milliseconds", scanDuration.Snapshot())
	writeHistogram(&buf, "job_search_duration_ms", "Job search duration in milliseconds", searchDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Add(label string, n uint64) {
	l.mu.Lock()
	l.values[label] += n
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe stores value in the first bucket that holds it; cumulation happens on render.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
