package imagearchiver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	errorsTotalMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagearchiver_errors_total",
		Help: "The total number of failed pull or save operations",
	})
	pullsCountMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagearchiver_pulls_total",
		Help: "The total number of image pulls",
	})
	archivesCountMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagearchiver_archives_total",
		Help: "The total number of archives written",
	})
)
