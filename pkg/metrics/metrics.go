package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "tidesensor",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "fetch_total",
			Subsystem: "kartverket",
			Help:      "Tide API fetches by datatype and result.",
		},
		[]string{"datatype", "result"},
	)

	waterLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "waterlevel_cm",
			Subsystem: "kartverket",
			Help:      "Current water level in centimetres.",
		},
	)

	lastUpdate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "last_update_timestamp_seconds",
			Subsystem: "kartverket",
			Help:      "Unix time of the last completed tide update.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		fetches,
		waterLevel,
		lastUpdate,
	)
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveFetch counts one tide API fetch. It has the signature of a
// kartverket fetch hook.
func ObserveFetch(dt kartverket.Datatype, err error) {
	fetches.With(prometheus.Labels{
		"datatype": dt.String(),
		"result":   fetchResult(err),
	}).Inc()
}

func fetchResult(err error) string {
	var apiErr *kartverket.APIError
	var netErr *kartverket.NetworkError
	var parseErr *kartverket.ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "status_" + strconv.Itoa(apiErr.StatusCode)
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "error"
	}
}

// ObserveUpdate records the outcome of a sensor update. A nil level means the
// sensor has no reading.
func ObserveUpdate(at time.Time, level *float64) {
	lastUpdate.Set(float64(at.Unix()))
	if level != nil {
		waterLevel.Set(*level)
	}
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
