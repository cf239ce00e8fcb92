package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	ListingWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listsync_listing_writes_total",
			Help: "Listing write requests queued, by kind",
		},
		[]string{"kind"}, // create|update|remove
	)

	Sweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listsync_sweeps_total",
			Help: "Bulk reconciliation sweeps, by outcome",
		},
		[]string{"outcome"}, // finished|cancelled
	)

	RemovalRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listsync_removal_retries_total",
			Help: "Full-removal attempts that had to be retried",
		},
	)

	RelistCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listsync_relist_cycles_total",
			Help: "Auto-relist wipe+rebuild cycles run",
		},
	)

	RemoteListings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "listsync_remote_listings",
			Help: "Last observed remote listing count",
		},
	)
)

func init() {
	prometheus.MustRegister(ListingWrites, Sweeps, RemovalRetries, RelistCycles, RemoteListings)
}

func Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
