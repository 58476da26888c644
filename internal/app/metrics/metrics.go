package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveAttempts counts resolution attempts by terminal outcome.
	ResolveAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrdb",
		Name:      "resolve_attempts_total",
		Help:      "Resolution attempts by outcome.",
	}, []string{"outcome"})

	// ScanWriteFailures counts scan audit writes that failed. The failures
	// never reach the requester, so this is the operator-visible signal.
	ScanWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrdb",
		Name:      "scan_write_failures_total",
		Help:      "Scan audit writes that failed.",
	})

	// LinksIssued counts successfully issued link records.
	LinksIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrdb",
		Name:      "links_issued_total",
		Help:      "Link records issued.",
	})
)
