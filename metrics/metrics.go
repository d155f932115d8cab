package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateScans counts credential resolutions at the gate, labelled by
	// outcome: "granted", "denied", or "integrity_error".
	GateScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_gate_scans_total",
		Help: "Total number of gate credential scans by outcome.",
	}, []string{"outcome"})

	// SubmissionsReceived counts accepted photo submissions.
	SubmissionsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "museum_photo_submissions_total",
		Help: "Total number of photo submissions accepted.",
	})

	// ProcessingTasks counts background task completions, labelled by
	// task kind (thumbnail, metadata, score) and status (done, error).
	ProcessingTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_processing_tasks_total",
		Help: "Total number of background processing tasks by kind and status.",
	}, []string{"task", "status"})

	// VisitorsRegistered counts newly created visitor records.
	VisitorsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "museum_visitors_registered_total",
		Help: "Total number of new visitors registered.",
	})

	// CredentialConflicts counts rejected credential claims where the
	// token already belonged to another visitor.
	CredentialConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "museum_credential_conflicts_total",
		Help: "Total number of credential link attempts rejected as conflicts.",
	})

	// HourlyWinners counts winner promotions by the winner service.
	HourlyWinners = promauto.NewCounter(prometheus.CounterOpts{
		Name: "museum_hourly_winners_total",
		Help: "Total number of hourly winners marked.",
	})
)
