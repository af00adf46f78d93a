package main

import (
	"fmt"
	"net/http"

	"github.com/tabelhr/payroll-backend-go/internal/config"
	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/tabelhr/payroll-backend-go/internal/handler/http"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/database"
	"github.com/tabelhr/payroll-backend-go/internal/repository/memory"
	"github.com/tabelhr/payroll-backend-go/internal/repository/postgresql"
	employeeService "github.com/tabelhr/payroll-backend-go/internal/service/employee"
	payrollService "github.com/tabelhr/payroll-backend-go/internal/service/payroll"
	reportService "github.com/tabelhr/payroll-backend-go/internal/service/report"
	timesheetService "github.com/tabelhr/payroll-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var employeeRepo employee.EmployeeRepository
	var payrollRepo payroll.PayrollRepository
	switch cfg.App.Storage {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		employeeRepo = postgresql.NewEmployeeRepository(db)
		payrollRepo = postgresql.NewPayrollRepository(db)
	default:
		employeeRepo = memory.NewEmployeeRepository()
		payrollRepo = memory.NewPayrollRepository()
	}

	calc := payrollService.NewCalculator(cfg.Payroll.TaxRate)
	ingestor := timesheetService.NewIngestor(cfg.Payroll.DailyHourCap)
	payrollSvc := payrollService.NewService(calc, ingestor, payrollRepo, employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	reportSvc := reportService.NewReportService(payrollSvc)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(cfg, payrollHandler, employeeHandler, reportHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
