// Package metrics exposes Prometheus counters for the mail pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// PollPasses counts completed poll passes by outcome (ok, error).
	PollPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingrelay_poll_passes_total",
			Help: "Total number of poll passes by outcome",
		},
		[]string{"outcome"},
	)

	// MessagesScanned counts per-message outcomes of a folder scan.
	// status: delivered, skipped_sender, skipped_empty, fault.
	MessagesScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingrelay_messages_scanned_total",
			Help: "Total number of unseen messages processed by outcome",
		},
		[]string{"status"},
	)

	// NotificationSends counts sink deliveries by status (success, failed).
	NotificationSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingrelay_notification_sends_total",
			Help: "Total number of notification sink calls by status",
		},
		[]string{"status"},
	)

	// FolderErrors counts folders that could not be selected or searched.
	FolderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingrelay_folder_errors_total",
			Help: "Total number of folder select/search failures",
		},
		[]string{"folder"},
	)
)

// RecordPollPass records the outcome of one full poll pass.
func RecordPollPass(outcome string) {
	PollPasses.WithLabelValues(outcome).Inc()
}

// RecordMessage records the processing outcome of a single message.
func RecordMessage(status string) {
	MessagesScanned.WithLabelValues(status).Inc()
}

// RecordSend records one notification sink call.
func RecordSend(status string) {
	NotificationSends.WithLabelValues(status).Inc()
}

// RecordFolderError records a failed folder select or search.
func RecordFolderError(folder string) {
	FolderErrors.WithLabelValues(folder).Inc()
}

// Serve starts the /metrics listener on addr. It blocks, so callers run
// it on its own goroutine; a listener failure is logged, not fatal.
func Serve(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Info("metrics listener starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics listener failed", zap.Error(err))
	}
}
