package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/handlers"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/photostore"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

type stubReporter struct {
	report *model.PaymentReport
	err    error
}

func (r *stubReporter) Report(ctx context.Context, start, end time.Time) (*model.PaymentReport, error) {
	return r.report, r.err
}

var _ = Describe("intake API", Ordered, func() {
	var (
		s        store.Store
		gormdb   *gorm.DB
		photos   photostore.Store
		reporter *stubReporter
		router   chi.Router
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		photos, err = photostore.NewLocalStore(GinkgoT().TempDir())
		Expect(err).To(BeNil())

		reporter = &stubReporter{}
		router = chi.NewRouter()
		handlers.NewServiceHandler(s, photos, reporter).RegisterRoutes(router)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM photos;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM job_summaries;").Error).To(BeNil())
	})

	uploadRequest := func(jobID, contractorID, filename string) *http.Request {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		if filename != "" {
			part, err := writer.CreateFormFile("photo", filename)
			Expect(err).To(BeNil())
			_, err = part.Write([]byte("fake jpeg bytes"))
			Expect(err).To(BeNil())
		}
		Expect(writer.WriteField("job_id", jobID)).To(Succeed())
		Expect(writer.WriteField("damage_type", "roof")).To(Succeed())
		Expect(writer.WriteField("latitude", "41.25")).To(Succeed())
		Expect(writer.WriteField("longitude", "-95.93")).To(Succeed())
		Expect(writer.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/photos/upload", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		if contractorID != "" {
			req.Header.Set("X-Contractor-ID", contractorID)
		}
		return req
	}

	It("reports healthy", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("healthy"))
	})

	Context("photo upload", func() {
		It("accepts a photo and persists the pending record", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-500", "contractor-1", "roof.jpg"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var reply handlers.UploadReply
			Expect(json.Unmarshal(rec.Body.Bytes(), &reply)).To(Succeed())
			Expect(reply.JobID).To(Equal("job-500"))
			Expect(reply.Status).To(Equal("uploaded"))

			stored, err := s.Photo().List(context.TODO(), store.NewPhotoQueryFilter().WithJobID("job-500"))
			Expect(err).To(BeNil())
			Expect(stored).To(HaveLen(1))
			Expect(stored[0].ContractorID).To(Equal("contractor-1"))
			Expect(stored[0].DamageTypeHint).To(Equal("roof"))
			Expect(stored[0].Status).To(Equal(model.PhotoStatusPending))
			Expect(stored[0].Latitude).ToNot(BeNil())
			Expect(*stored[0].Latitude).To(Equal(41.25))

			Expect(photos.Stat(context.TODO(), stored[0].ObjectKey)).To(Succeed())
		})

		It("requires the contractor header", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-501", "", "roof.jpg"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects unsupported file types with a reason", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-502", "contractor-1", "scan.pdf"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("accepted types are jpg, jpeg, png and heic"))
		})

		It("rejects a request without a photo part", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-503", "contractor-1", ""))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("no photo part"))
		})
	})

	Context("photo listing and viewing", func() {
		It("lists a job's photos with view URLs", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-510", "contractor-1", "siding.png"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/photos/job-510", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var reply handlers.JobPhotosReply
			Expect(json.Unmarshal(rec.Body.Bytes(), &reply)).To(Succeed())
			Expect(reply.PhotoCount).To(Equal(1))
			Expect(reply.Photos[0].URL).To(HavePrefix("/api/v1/photos/view/job-510/"))

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, reply.Photos[0].URL, nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/png"))
			content, err := io.ReadAll(rec.Body)
			Expect(err).To(BeNil())
			Expect(string(content)).To(Equal("fake jpeg bytes"))
		})

		It("returns not found for a job without photos", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/photos/job-none", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns not found when the photo belongs to another job", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest("job-511", "contractor-1", "roof.jpg"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			var reply handlers.UploadReply
			Expect(json.Unmarshal(rec.Body.Bytes(), &reply)).To(Succeed())

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
				fmt.Sprintf("/api/v1/photos/view/job-other/%s", reply.PhotoID), nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("job records", func() {
		It("returns not found for a job without a summary", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-none/summary", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("serves the stored job summary", func() {
			_, err := s.JobSummary().Upsert(context.TODO(), model.JobSummary{
				JobID:           "job-520",
				AssessmentCount: 3,
				DamageSummary: model.MakeJSONField(map[string]model.DamageAverages{
					"roof": {Severity: 0.6, Confidence: 0.85, AreaFraction: 0.4, PhotoCount: 3},
				}),
				Measurements:      model.MakeJSONField(model.MeasurementLists{}),
				OverallSeverity:   0.6,
				OverallConfidence: 0.85,
				Ready:             true,
			})
			Expect(err).To(BeNil())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-520/summary", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"job-520"`))
		})
	})

	Context("payment report", func() {
		It("rejects malformed dates", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments?start=bogus&end=2026-03-31", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an inverted interval", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments?start=2026-03-31&end=2026-03-01", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("serves the report built for the interval", func() {
			reporter.report = &model.PaymentReport{
				ID:             uuid.New(),
				PaymentCount:   2,
				TotalPaid:      3500.00,
				TotalClaimed:   5000.00,
				AveragePayment: 1750.00,
				Records:        model.MakeJSONField([]model.Payment{}),
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments?start=2026-03-01&end=2026-03-31", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"payment_count":2`))
		})
	})
})
