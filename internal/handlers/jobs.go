package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

type JobSummaryReply struct {
	*model.JobSummary
}

func (JobSummaryReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) GetJobSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.JobSummary().Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		renderNotFoundOrError(w, r, err, "job summary not found")
		return
	}
	_ = render.Render(w, r, JobSummaryReply{summary})
}

type ClaimReply struct {
	*model.Claim
}

func (ClaimReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) GetJobClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.store.Claim().GetByJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		renderNotFoundOrError(w, r, err, "claim not found")
		return
	}
	_ = render.Render(w, r, ClaimReply{claim})
}

type SubmissionReply struct {
	*model.Submission
}

func (SubmissionReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) GetJobSubmission(w http.ResponseWriter, r *http.Request) {
	submission, err := h.store.Submission().GetByJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		renderNotFoundOrError(w, r, err, "submission not found")
		return
	}
	_ = render.Render(w, r, SubmissionReply{submission})
}

type PaymentReply struct {
	*model.Payment
}

func (PaymentReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) GetJobPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.store.Payment().GetByJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		renderNotFoundOrError(w, r, err, "payment not found")
		return
	}
	_ = render.Render(w, r, PaymentReply{payment})
}

func renderNotFoundOrError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, store.ErrRecordNotFound) {
		renderError(w, r, http.StatusNotFound, msg)
		return
	}
	renderError(w, r, http.StatusInternalServerError, "internal error")
}
