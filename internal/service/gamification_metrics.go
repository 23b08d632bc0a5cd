package service

import "github.com/prometheus/client_golang/prometheus"

var (
	gamificationTriggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serviconnect_gamification_triggers_total",
			Help: "Gamification triggers by event kind and outcome",
		},
		[]string{"event", "outcome"},
	)

	gamificationPointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serviconnect_gamification_points_awarded_total",
			Help: "Points granted by committed gamification triggers",
		},
		[]string{"event"},
	)

	gamificationBadgesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serviconnect_gamification_badges_awarded_total",
			Help: "Badges awarded by committed gamification triggers",
		},
		[]string{"badge"},
	)
)

func init() {
	prometheus.MustRegister(gamificationTriggersTotal)
	prometheus.MustRegister(gamificationPointsTotal)
	prometheus.MustRegister(gamificationBadgesTotal)
}

func observeTrigger(res *TriggerResult) {
	gamificationTriggersTotal.WithLabelValues(string(res.Event), string(res.Outcome)).Inc()
	if res.Outcome != OutcomeApplied {
		return
	}
	if res.PointsAwarded > 0 {
		gamificationPointsTotal.WithLabelValues(string(res.Event)).Add(float64(res.PointsAwarded))
	}
	for _, b := range res.AwardedBadges {
		gamificationBadgesTotal.WithLabelValues(b.Name).Inc()
	}
}
