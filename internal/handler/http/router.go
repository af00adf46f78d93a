package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/tabelhr/payroll-backend-go/internal/config"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	payrollHandler PayrollHandler,
	employeeHandler EmployeeHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tabelhr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/periods", func(r chi.Router) {
			r.Post("/", payrollHandler.OpenPeriod)
			r.Get("/", payrollHandler.ListPeriods)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetPeriod)
				r.Post("/close", payrollHandler.ClosePeriod)
				r.Post("/reopen", payrollHandler.ReopenPeriod)
				r.Post("/recalculate", payrollHandler.Recalculate)
				r.Post("/corrections", payrollHandler.ApplyCorrection)
				r.Get("/corrections", payrollHandler.ListCorrections)
				r.Post("/timesheets", payrollHandler.ImportTimesheets)
				r.Get("/lines", payrollHandler.ListLines)
				r.Get("/totals", payrollHandler.GetTotals)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/register.csv", reportHandler.BankRegister)
					r.Get("/payslips.pdf", reportHandler.Payslips)
				})
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", employeeHandler.Create)
			r.Get("/", employeeHandler.List)
			r.Get("/{id}", employeeHandler.Get)
			r.Patch("/{id}/rate", employeeHandler.UpdateRate)
		})
	})

	return r
}
