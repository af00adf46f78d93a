package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabelhr/payroll-backend-go/internal/handler/http/response"
	"github.com/tabelhr/payroll-backend-go/internal/service/report"
)

type ReportHandler interface {
	BankRegister(w http.ResponseWriter, r *http.Request)
	Payslips(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService *report.Service
}

func NewReportHandler(reportService *report.Service) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// BankRegister streams the period's payment register as a CSV attachment.
// The document is rendered into a buffer first so a failed render can still
// produce a clean error envelope.
func (h *reportHandlerImpl) BankRegister(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.reportService.WriteBankRegister(r.Context(), periodID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="register-%s.csv"`, periodID))
	_, _ = w.Write(buf.Bytes())
}

func (h *reportHandlerImpl) Payslips(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.reportService.WritePayslips(r.Context(), periodID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslips-%s.pdf"`, periodID))
	_, _ = w.Write(buf.Bytes())
}
