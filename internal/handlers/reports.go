package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

type PaymentReportReply struct {
	*model.PaymentReport
}

func (PaymentReportReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// GetPaymentReport builds a payment report for the closed interval given by
// the start and end query parameters (YYYY-MM-DD).
func (h *ServiceHandler) GetPaymentReport(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "start must be a date formatted YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "end must be a date formatted YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		renderError(w, r, http.StatusBadRequest, "end must not precede start")
		return
	}

	report, err := h.reporter.Report(r.Context(), start, end)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to build payment report")
		return
	}
	_ = render.Render(w, r, PaymentReportReply{report})
}
