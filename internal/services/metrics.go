package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sheetsScoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gabaritai_sheets_scored_total",
		Help: "Number of answer sheets scored, by session template.",
	}, []string{"template"})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gabaritai_scoring_duration_seconds",
		Help:    "Wall time of a full session scoring pass.",
		Buckets: prometheus.DefBuckets,
	})

	mergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabaritai_project_merges_total",
		Help: "Number of project-level session merges performed.",
	})
)
