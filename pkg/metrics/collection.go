// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	joins                    prometheus.CounterVec
	resolvedPugs             prometheus.CounterVec
	rejectedActions          prometheus.CounterVec
	captainSelectElapsedTime prometheus.HistogramVec
	stalledCaptainSelections prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)
	labelDimensions := []string{"community", "game_type"}

	joins := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pug_joins_total",
			Help: "A counter of successful joins per community and game type",
		}, labelDimensions)

	resolvedPugs := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pug_resolved_total",
			Help: "A counter of resolved pugs per community and game type",
		}, labelDimensions)

	rejectedActions := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pug_rejected_actions_total",
			Help: "A counter of rejected pug actions by reason",
		}, append(labelDimensions, "reason"))

	//nolint:promlinter
	captainSelectElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pug_captain_selection_elapsed_time_ms",
			Help:    "A histogram of captain selection elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, append(labelDimensions, "function"))

	stalledCaptainSelections := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pug_stalled_captain_selections_total",
			Help: "A counter of automatic captain selections that could not complete",
		}, append(labelDimensions, "reason"))

	return prometheusMetrics{
		joins:                    *joins,
		resolvedPugs:             *resolvedPugs,
		rejectedActions:          *rejectedActions,
		captainSelectElapsedTime: *captainSelectElapsedTime,
		stalledCaptainSelections: *stalledCaptainSelections,
	}
}

func (metrics prometheusMetrics) AddJoin(community string, gameType string) {
	metrics.joins.With(prometheus.Labels{"community": community, "game_type": gameType}).Add(1)
}

func (metrics prometheusMetrics) AddResolvedPug(community string, gameType string) {
	metrics.resolvedPugs.With(prometheus.Labels{"community": community, "game_type": gameType}).Add(1)
}

func (metrics prometheusMetrics) AddRejectedAction(community string, gameType string, reason string) {
	metrics.rejectedActions.With(prometheus.Labels{"community": community, "game_type": gameType, "reason": reason}).Add(1)
}

func (metrics prometheusMetrics) AddCaptainSelectionElapsedTimeMs(community, gameType, function string, elapsedTime time.Duration) {
	metrics.captainSelectElapsedTime.With(prometheus.Labels{"community": community, "game_type": gameType, "function": function}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddStalledCaptainSelection(community string, gameType string, reason string) {
	metrics.stalledCaptainSelections.With(prometheus.Labels{"community": community, "game_type": gameType, "reason": reason}).Add(1)
}
