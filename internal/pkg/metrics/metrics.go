package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_recalculations_total",
		Help: "Number of full-period recalculation passes.",
	})

	CorrectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_corrections_total",
		Help: "Number of manual corrections applied to payroll lines.",
	})

	PeriodsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_periods_closed_total",
		Help: "Number of period close transitions.",
	})

	TimesheetImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_timesheet_imports_total",
		Help: "Timesheet import attempts by validation outcome.",
	}, []string{"result"})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
