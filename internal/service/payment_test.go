package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

var _ = Describe("payment service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		mailer *recordingMailer
		svc    *PaymentService
	)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		mailer = &recordingMailer{}
		svc = NewPaymentService(s, adapters.NewSimulatedGateway(), mailer, cfg.Pricing)
	})

	BeforeEach(func() {
		mailer.sent = nil
		svc.nowFunc = func() time.Time { return now }
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM claims;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM submissions;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM payments;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM notifications;").Error).To(BeNil())
		Expect(gormdb.Exec("DELETE FROM payment_reports;").Error).To(BeNil())
	})

	approvedPair := func(jobID, contractorID string, total float64) ApprovedClaim {
		claim, err := s.Claim().Create(context.TODO(), model.Claim{
			ID:           uuid.New(),
			JobID:        jobID,
			ContractorID: contractorID,
			Property:     model.MakeJSONField(model.PropertyInfo{Address: "123 Storm Damage St"}),
			Damage:       model.MakeJSONField(model.DamageInfo{EventType: "Storm"}),
			LineItems:    model.MakeJSONField([]model.LineItem{}),
			Subtotal:     total,
			Total:        total,
			Status:       model.ClaimStatusSubmitted,
		})
		Expect(err).To(BeNil())

		approvedAt := now
		payout := total
		submission, err := s.Submission().Create(context.TODO(), model.Submission{
			ID:                      uuid.New(),
			ClaimID:                 claim.ID,
			JobID:                   jobID,
			ExternalRef:             "XM-12345",
			SubmittedAt:             now.Add(-5 * 24 * time.Hour),
			EstimatedProcessingDays: 3,
			EstimatedPayout:         total,
			Status:                  model.SubmissionStatusApproved,
			ApprovedAt:              &approvedAt,
			PayoutAmount:            &payout,
		})
		Expect(err).To(BeNil())

		return ApprovedClaim{Submission: *submission, Claim: *claim}
	}

	Context("pay", func() {
		It("pays the contractor share rounded to cents", func() {
			pair := approvedPair("job-400", "contractor-9", 4815.00)

			payment, err := svc.Pay(context.TODO(), pair)
			Expect(err).To(BeNil())
			Expect(payment.Amount).To(Equal(3370.50))
			Expect(payment.ClaimTotal).To(Equal(4815.00))
			Expect(payment.Share).To(Equal(0.70))
			Expect(payment.ContractorID).To(Equal("contractor-9"))
			Expect(payment.Method).To(Equal(model.PaymentMethodDirectDeposit))
			Expect(payment.Status).To(Equal(model.PaymentStatusProcessed))
			Expect(payment.ExternalRef).To(Equal("XM-12345"))
			Expect(payment.PaidAt).To(Equal(now))
		})

		It("pays a job at most once", func() {
			pair := approvedPair("job-401", "contractor-9", 1000.00)

			first, err := svc.Pay(context.TODO(), pair)
			Expect(err).To(BeNil())

			second, err := svc.Pay(context.TODO(), pair)
			Expect(err).To(BeNil())
			Expect(second.ID).To(Equal(first.ID))

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM payments;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))
		})

		It("falls back to an unknown contractor", func() {
			pair := approvedPair("job-402", "", 1000.00)

			payment, err := svc.Pay(context.TODO(), pair)
			Expect(err).To(BeNil())
			Expect(payment.ContractorID).To(Equal("unknown"))
		})
	})

	Context("notify", func() {
		It("persists the notification and sends it once", func() {
			pair := approvedPair("job-410", "contractor-9", 4815.00)
			payment, err := svc.Pay(context.TODO(), pair)
			Expect(err).To(BeNil())

			Expect(svc.Notify(context.TODO(), payment)).To(Succeed())
			Expect(mailer.sent).To(HaveLen(1))
			Expect(mailer.sent[0].to).To(Equal("contractor-9"))
			Expect(mailer.sent[0].subject).To(Equal("Payment Processed for Job job-410"))
			Expect(mailer.sent[0].body).To(ContainSubstring("$3370.50"))
			Expect(mailer.sent[0].body).To(ContainSubstring("2026-03-10"))

			// repeated notification is swallowed, no second mail
			Expect(svc.Notify(context.TODO(), payment)).To(Succeed())
			Expect(mailer.sent).To(HaveLen(1))

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM notifications;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Context("process approved claims", func() {
		It("pays and notifies every approved unpaid job exactly once", func() {
			approvedPair("job-420", "contractor-1", 2000.00)
			approvedPair("job-421", "contractor-2", 3000.00)

			payments, err := svc.ProcessApprovedClaims(context.TODO())
			Expect(err).To(BeNil())
			Expect(payments).To(HaveLen(2))
			Expect(mailer.sent).To(HaveLen(2))

			payments, err = svc.ProcessApprovedClaims(context.TODO())
			Expect(err).To(BeNil())
			Expect(payments).To(BeEmpty())
			Expect(mailer.sent).To(HaveLen(2))
		})
	})

	Context("report", func() {
		It("aggregates payments over the closed date interval", func() {
			_, err := svc.Pay(context.TODO(), approvedPair("job-430", "contractor-1", 2000.00))
			Expect(err).To(BeNil())

			svc.nowFunc = func() time.Time { return time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC) }
			_, err = svc.Pay(context.TODO(), approvedPair("job-431", "contractor-2", 3000.00))
			Expect(err).To(BeNil())

			start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
			report, err := svc.Report(context.TODO(), start, end)
			Expect(err).To(BeNil())
			Expect(report.PaymentCount).To(Equal(2))
			Expect(report.TotalPaid).To(Equal(3500.00))
			Expect(report.TotalClaimed).To(Equal(5000.00))
			Expect(report.AveragePayment).To(Equal(1750.00))
			Expect(report.Records.Data).To(HaveLen(2))
		})

		It("reports zeros for an interval without payments", func() {
			start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
			report, err := svc.Report(context.TODO(), start, end)
			Expect(err).To(BeNil())
			Expect(report.PaymentCount).To(Equal(0))
			Expect(report.TotalPaid).To(Equal(0.00))
			Expect(report.AveragePayment).To(Equal(0.00))
		})
	})
})
