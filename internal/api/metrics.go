package api

import (
	"errors"

	"venturesim/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "venturesim",
		Subsystem: "game",
		Name:      "sessions_started_total",
		Help:      "Playthroughs created.",
	})

	decisionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "venturesim",
		Subsystem: "game",
		Name:      "decisions_total",
		Help:      "Decisions submitted to the turn engine, by decision and outcome.",
	}, []string{"decision", "outcome"})

	achievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "venturesim",
		Subsystem: "game",
		Name:      "achievements_unlocked_total",
		Help:      "Achievement unlocks recorded.",
	})
)

// observeDecision records one submitted decision. Labels are collapsed onto
// the closed decision catalog so arbitrary client input cannot grow the
// metric's cardinality.
func observeDecision(label string, err error) {
	d := game.ParseDecision(label)
	name := d.Label
	if d.Kind == game.DecisionUnrecognized {
		name = "UNRECOGNIZED"
	}

	outcome := "ok"
	var insufficient *game.InsufficientFundsError
	switch {
	case err == nil:
	case errors.As(err, &insufficient):
		outcome = "insufficient_funds"
	case errors.Is(err, game.ErrSessionTerminated):
		outcome = "terminated"
	case errors.Is(err, game.ErrTxConflict):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	decisionsApplied.WithLabelValues(name, outcome).Inc()
}
