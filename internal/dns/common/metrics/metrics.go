// Package metrics exposes dirdns counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haukened/dirdns/internal/dns/common/log"
)

var (
	metricQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirdns_queries_total",
			Help: "DNS replies sent, by transport and response code.",
		},
		[]string{
			"transport", // udp, tcp
			"rcode",     // NOERROR, FORMERR, NOTIMP
		},
	)
	metricQuestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirdns_questions_total",
			Help: "Questions resolved, by query type.",
		},
		[]string{"qtype"},
	)
	metricTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dirdns_truncated_total",
			Help: "Replies that had answers dropped to fit the size limit.",
		},
	)
	metricSkippedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirdns_skipped_records_total",
			Help: "Zone files that could not be served, by reason.",
		},
		[]string{
			"reason", // body, read, cname_loop
		},
	)
	metricDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirdns_dropped_packets_total",
			Help: "Inbound messages dropped without a reply, by transport.",
		},
		[]string{"transport"},
	)
	metricIndexLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirdns_zone_index_lookups_total",
			Help: "Zone file index lookups, by result.",
		},
		[]string{
			"result", // hit, miss, stale
		},
	)
)

// Skip reasons.
const (
	SkipBody      = "body"
	SkipRead      = "read"
	SkipCNAMELoop = "cname_loop"
)

// Index lookup results.
const (
	IndexHit   = "hit"
	IndexMiss  = "miss"
	IndexStale = "stale"
)

func ObserveReply(transport, rcode string) {
	metricQueries.WithLabelValues(transport, rcode).Inc()
}

func ObserveQuestion(qtype string) {
	metricQuestions.WithLabelValues(qtype).Inc()
}

func ObserveTruncated() {
	metricTruncated.Inc()
}

func ObserveSkipped(reason string) {
	metricSkippedRecords.WithLabelValues(reason).Inc()
}

func ObserveDropped(transport string) {
	metricDropped.WithLabelValues(transport).Inc()
}

func ObserveIndex(result string) {
	metricIndexLookups.WithLabelValues(result).Inc()
}

// Server serves the default registry at /metrics.
type Server struct {
	srv    *http.Server
	logger log.Logger
}

// NewServer returns a metrics server for addr (host:port).
func NewServer(addr string, logger log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start listens in the background until Stop is called.
func (s *Server) Start() {
	go func() {
		s.logger.Info(map[string]any{"address": s.srv.Addr}, "metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{"error": err.Error()}, "metrics server failed")
		}
	}()
}

// Stop shuts the server down, waiting for in-flight scrapes until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
