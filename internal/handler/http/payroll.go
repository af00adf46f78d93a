package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/tabelhr/payroll-backend-go/internal/domain/timesheet"
	"github.com/tabelhr/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	OpenPeriod(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	ClosePeriod(w http.ResponseWriter, r *http.Request)
	ReopenPeriod(w http.ResponseWriter, r *http.Request)

	Recalculate(w http.ResponseWriter, r *http.Request)
	ApplyCorrection(w http.ResponseWriter, r *http.Request)
	ImportTimesheets(w http.ResponseWriter, r *http.Request)

	ListLines(w http.ResponseWriter, r *http.Request)
	GetTotals(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PERIOD LIFECYCLE ==========

func (h *payrollHandlerImpl) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.OpenPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.OpenPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period opened", result)
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ClosePeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ReopenPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ReopenPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Recalculate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApplyCorrection(w http.ResponseWriter, r *http.Request) {
	var req payroll.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ApplyCorrection(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ImportTimesheets accepts a parsed timesheet batch. The upload collaborator
// converts the spreadsheet into rows before calling in; a rejected batch
// comes back as 422 with the full validation report.
func (h *payrollHandlerImpl) ImportTimesheets(w http.ResponseWriter, r *http.Request) {
	var batch timesheet.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ImportTimesheets(r.Context(), chi.URLParam(r, "id"), batch)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Accepted {
		response.UnprocessableEntity(w, result)
		return
	}
	response.Success(w, result)
}

// ========== READS ==========

func (h *payrollHandlerImpl) ListLines(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Lines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetTotals(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Totals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Corrections(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
