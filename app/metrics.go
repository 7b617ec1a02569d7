package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloodlink_logins_total",
		Help: "Successful logins.",
	})
	TransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloodlink_transfers_total",
		Help: "Completed inter-hospital blood transfers.",
	})
	UnitsTransferredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloodlink_units_transferred_total",
		Help: "Blood units moved between hospital ledgers.",
	})
	RequestsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloodlink_requests_created_total",
		Help: "Blood requests created.",
	})
	ConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloodlink_conflicts_total",
		Help: "Acceptances lost to a concurrent writer.",
	})
)

func RegisterMetrics(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
