package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/pricing"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

var _ = Describe("claim service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *ClaimService
	)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		svc = NewClaimService(s, adapters.NewSimulatedSubmitter(7), pricing.NewTable(cfg.Pricing))
	})

	BeforeEach(func() {
		svc.nowFunc = func() time.Time { return now }
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM photos;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM job_summaries;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM claims;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM submissions;").Error).To(BeNil())
	})

	roofSummary := func(jobID string) *model.JobSummary {
		return &model.JobSummary{
			JobID:           jobID,
			CreatedAt:       now,
			AssessmentCount: 2,
			DamageSummary: model.MakeJSONField(map[string]model.DamageAverages{
				"water": {Severity: 0.5, Confidence: 0.8, AreaFraction: 0.3, PhotoCount: 1},
				"roof":  {Severity: 0.6, Confidence: 0.85, AreaFraction: 0.4, PhotoCount: 2},
			}),
			Measurements: model.MakeJSONField(model.MeasurementLists{
				Roof: []model.RoofMeasurement{
					{AreaSqFt: 1000, Pitch: "6/12", Material: "asphalt shingle", DamageFraction: 0.5},
				},
			}),
			OverallSeverity:   0.55,
			OverallConfidence: 0.82,
			Ready:             true,
		}
	}

	Context("format", func() {
		It("prices the summary without touching the store", func() {
			claim, err := svc.Format(roofSummary("job-300"))
			Expect(err).To(BeNil())

			Expect(claim.JobID).To(Equal("job-300"))
			Expect(claim.Subtotal).To(Equal(4500.00))
			Expect(claim.TaxRate).To(Equal(0.07))
			Expect(claim.Tax).To(Equal(315.00))
			Expect(claim.Total).To(Equal(4815.00))
			Expect(claim.Status).To(Equal(model.ClaimStatusReady))
			Expect(claim.Damage.Data.DamageTypes).To(Equal([]string{"roof", "water"}))
			Expect(claim.Damage.Data.DateOfLoss).To(Equal(now.Add(-72 * time.Hour)))
			Expect(claim.Damage.Data.OverallSeverity).To(Equal(0.55))
			Expect(claim.LineItems.Data).To(HaveLen(1))
			Expect(claim.LineItems.Data[0].ItemID).To(Equal("RFG-ASPH-RPL"))

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM claims;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(0)))
		})

		It("produces the same totals on every run", func() {
			first, err := svc.Format(roofSummary("job-301"))
			Expect(err).To(BeNil())
			second, err := svc.Format(roofSummary("job-301"))
			Expect(err).To(BeNil())

			Expect(second.Total).To(Equal(first.Total))
			Expect(second.Damage.Data).To(Equal(first.Damage.Data))
			Expect(second.LineItems.Data).To(Equal(first.LineItems.Data))
		})

		It("rejects a missing summary", func() {
			_, err := svc.Format(nil)
			Expect(err).ToNot(BeNil())
		})
	})

	Context("submit", func() {
		It("persists the claim and submission and flips the claim status", func() {
			claim, err := svc.Format(roofSummary("job-310"))
			Expect(err).To(BeNil())

			submission, err := svc.Submit(context.TODO(), claim)
			Expect(err).To(BeNil())
			Expect(submission.ExternalRef).To(MatchRegexp(`^XM-\d{5}$`))
			Expect(submission.EstimatedProcessingDays).To(BeNumerically(">=", 3))
			Expect(submission.EstimatedProcessingDays).To(BeNumerically("<=", 10))
			Expect(submission.EstimatedPayout).To(Equal(4815.00))
			Expect(submission.Status).To(Equal(model.SubmissionStatusSubmitted))
			Expect(submission.SubmittedAt).To(Equal(now))

			stored, err := s.Claim().GetByJob(context.TODO(), "job-310")
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.ClaimStatusSubmitted))
		})

		It("refuses to submit a job twice", func() {
			claim, err := svc.Format(roofSummary("job-311"))
			Expect(err).To(BeNil())
			_, err = svc.Submit(context.TODO(), claim)
			Expect(err).To(BeNil())

			again, err := svc.Format(roofSummary("job-311"))
			Expect(err).To(BeNil())
			_, err = svc.Submit(context.TODO(), again)
			var alreadySubmitted *ErrClaimAlreadySubmitted
			Expect(errors.As(err, &alreadySubmitted)).To(BeTrue())

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM submissions;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Context("ready jobs", func() {
		It("lists ready summaries without a claim and carries the contractor through", func() {
			_, err := s.JobSummary().Upsert(context.TODO(), *roofSummary("job-320"))
			Expect(err).To(BeNil())
			_, err = s.Photo().Create(context.TODO(), model.Photo{
				ID:           uuid.New(),
				JobID:        "job-320",
				ContractorID: "contractor-5",
				ObjectKey:    "job-320/a.jpg",
				Status:       model.PhotoStatusCompleted,
			})
			Expect(err).To(BeNil())

			ready, err := svc.ListReadyJobs(context.TODO())
			Expect(err).To(BeNil())
			Expect(ready).To(Equal([]string{"job-320"}))

			submissions, err := svc.ProcessReadyJobs(context.TODO())
			Expect(err).To(BeNil())
			Expect(submissions).To(HaveLen(1))
			Expect(submissions[0].JobID).To(Equal("job-320"))

			claim, err := s.Claim().GetByJob(context.TODO(), "job-320")
			Expect(err).To(BeNil())
			Expect(claim.ContractorID).To(Equal("contractor-5"))

			ready, err = svc.ListReadyJobs(context.TODO())
			Expect(err).To(BeNil())
			Expect(ready).To(BeEmpty())
		})
	})

	Context("status check", func() {
		submitJob := func(jobID string) *model.Submission {
			claim, err := svc.Format(roofSummary(jobID))
			Expect(err).To(BeNil())
			submission, err := svc.Submit(context.TODO(), claim)
			Expect(err).To(BeNil())
			return submission
		}

		It("errors for a job without a submission", func() {
			_, err := svc.CheckStatus(context.TODO(), "job-none")
			var notFound *ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("keeps the submission pending until the processing time has elapsed", func() {
			submitJob("job-330")

			checked, err := svc.CheckStatus(context.TODO(), "job-330")
			Expect(err).To(BeNil())
			Expect(checked.Status).To(Equal(model.SubmissionStatusSubmitted))
			Expect(checked.ApprovedAt).To(BeNil())
		})

		It("approves the submission once the processing time has elapsed", func() {
			submitJob("job-331")

			svc.nowFunc = func() time.Time { return now.Add(11 * 24 * time.Hour) }
			checked, err := svc.CheckStatus(context.TODO(), "job-331")
			Expect(err).To(BeNil())
			Expect(checked.Status).To(Equal(model.SubmissionStatusApproved))
			Expect(checked.ApprovedAt).ToNot(BeNil())
			Expect(checked.PayoutAmount).ToNot(BeNil())
			Expect(*checked.PayoutAmount).To(Equal(4815.00))

			// a second check is a no-op on an approved submission
			again, err := svc.CheckStatus(context.TODO(), "job-331")
			Expect(err).To(BeNil())
			Expect(again.Status).To(Equal(model.SubmissionStatusApproved))
		})
	})
})
