package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/photostore"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

// PaymentReporter builds a payment report for a closed date interval.
type PaymentReporter interface {
	Report(ctx context.Context, start, end time.Time) (*model.PaymentReport, error)
}

// ServiceHandler serves the contractor-facing intake API: photo uploads
// plus read access to the records the pipeline produces for a job.
type ServiceHandler struct {
	store    store.Store
	photos   photostore.Store
	reporter PaymentReporter
	validate *validator.Validate
}

func NewServiceHandler(store store.Store, photos photostore.Store, reporter PaymentReporter) *ServiceHandler {
	return &ServiceHandler{
		store:    store,
		photos:   photos,
		reporter: reporter,
		validate: validator.New(),
	}
}

func (h *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/photos/upload", h.UploadPhoto)
		r.Get("/photos/{jobID}", h.ListJobPhotos)
		r.Get("/photos/view/{jobID}/{photoID}", h.ViewPhoto)

		r.Get("/jobs/{jobID}/summary", h.GetJobSummary)
		r.Get("/jobs/{jobID}/claim", h.GetJobClaim)
		r.Get("/jobs/{jobID}/submission", h.GetJobSubmission)
		r.Get("/jobs/{jobID}/payment", h.GetJobPayment)

		r.Get("/reports/payments", h.GetPaymentReport)
	})
}

type HealthReply struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (HealthReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, HealthReply{Status: "healthy", Timestamp: time.Now().Format(time.RFC3339)})
}

type ErrorReply struct {
	Error string `json:"error"`

	statusCode int
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.statusCode)
	return nil
}

func renderError(w http.ResponseWriter, r *http.Request, statusCode int, msg string) {
	_ = render.Render(w, r, ErrorReply{Error: msg, statusCode: statusCode})
}
