package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mailer sends a contractor notification. The persisted notification
// record stays the source of truth; mail delivery is best effort.
type Mailer interface {
	Send(to, subject, body string) error
}

// ApprovedClaim pairs an approved submission with its claim.
type ApprovedClaim struct {
	Submission model.Submission
	Claim      model.Claim
}

// PaymentService pays contractors for approved claims, exactly once per
// job, and produces aggregate payment reports.
type PaymentService struct {
	store   store.Store
	gateway adapters.PaymentGateway
	mailer  Mailer
	cfg     *config.PricingConfig
	nowFunc func() time.Time
}

func NewPaymentService(s store.Store, gateway adapters.PaymentGateway, mailer Mailer, cfg *config.PricingConfig) *PaymentService {
	return &PaymentService{
		store:   s,
		gateway: gateway,
		mailer:  mailer,
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// ListApprovedUnpaid pairs every approved submission with its claim,
// excluding jobs already paid. A submission with a missing claim is
// logged and skipped.
func (ps *PaymentService) ListApprovedUnpaid(ctx context.Context) ([]ApprovedClaim, error) {
	logger := zap.S().Named("payment_service")

	submissions, err := ps.store.Submission().List(ctx, store.NewSubmissionQueryFilter().WithStatus(model.SubmissionStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved submissions: %w", err)
	}

	pairs := make([]ApprovedClaim, 0, len(submissions))
	for i := range submissions {
		jobID := submissions[i].JobID

		if _, err := ps.store.Payment().GetByJob(ctx, jobID); err == nil {
			continue // already paid
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			logger.Errorf("failed to look up payment for job %s: %v", jobID, err)
			continue
		}

		claim, err := ps.store.Claim().GetByJob(ctx, jobID)
		if err != nil {
			logger.Errorf("no claim found for approved job %s: %v", jobID, err)
			continue
		}

		pairs = append(pairs, ApprovedClaim{Submission: submissions[i], Claim: *claim})
	}

	logger.Infof("found %d approved claims ready for payment", len(pairs))
	return pairs, nil
}

// Pay disburses the contractor share of the claim total and persists the
// payment record. Paying a job twice is a no-op returning the original
// record.
func (ps *PaymentService) Pay(ctx context.Context, pair ApprovedClaim) (*model.Payment, error) {
	logger := zap.S().Named("payment_service")

	jobID := pair.Submission.JobID
	amount := decimal.NewFromFloat(pair.Claim.Total).
		Mul(decimal.NewFromFloat(ps.cfg.ContractorShare)).
		Round(2).
		InexactFloat64()

	contractorID := pair.Claim.ContractorID
	if contractorID == "" {
		contractorID = "unknown"
	}

	if _, err := ps.gateway.Disburse(ctx, contractorID, amount); err != nil {
		return nil, fmt.Errorf("disbursement failed for job %s: %w", jobID, err)
	}

	payment := model.Payment{
		ID:           uuid.New(),
		JobID:        jobID,
		ClaimID:      pair.Claim.ID,
		ExternalRef:  pair.Submission.ExternalRef,
		ContractorID: contractorID,
		Amount:       amount,
		ClaimTotal:   pair.Claim.Total,
		Share:        ps.cfg.ContractorShare,
		Method:       model.PaymentMethodDirectDeposit,
		Status:       model.PaymentStatusProcessed,
		Notes:        "Payment for storm damage assessment and documentation",
		PaidAt:       ps.nowFunc().UTC(),
	}

	created, err := ps.store.Payment().Create(ctx, payment)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			logger.Warnf("job %s already paid; keeping the original record", jobID)
			return ps.store.Payment().GetByJob(ctx, jobID)
		}
		return nil, fmt.Errorf("failed to persist payment for job %s: %w", jobID, err)
	}

	metrics.IncreasePaymentsProcessedCount(amount)
	logger.Infof("processed payment of %.2f for job %s (claim total %.2f)", amount, jobID, pair.Claim.Total)
	return created, nil
}

// Notify persists the contractor notification for a payment and sends it
// by mail when a mailer is configured. Terminal side effect; not retried.
func (ps *PaymentService) Notify(ctx context.Context, payment *model.Payment) error {
	logger := zap.S().Named("payment_service")

	recipient := payment.ContractorID
	if recipient == "" {
		recipient = "contractor@example.com"
	}

	notification := model.Notification{
		ID:        uuid.New(),
		CreatedAt: ps.nowFunc().UTC(),
		JobID:     payment.JobID,
		PaymentID: payment.ID,
		Recipient: recipient,
		Subject:   fmt.Sprintf("Payment Processed for Job %s", payment.JobID),
		Body: fmt.Sprintf("Your payment of $%.2f for job %s has been processed on %s. "+
			"The payment will be deposited to your account within 1-2 business days.",
			payment.Amount, payment.JobID, payment.PaidAt.Format("2006-01-02")),
	}

	if _, err := ps.store.Payment().CreateNotification(ctx, notification); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			logger.Warnf("notification for job %s already recorded", payment.JobID)
			return nil
		}
		return fmt.Errorf("failed to persist notification for job %s: %w", payment.JobID, err)
	}

	if ps.mailer != nil {
		if err := ps.mailer.Send(notification.Recipient, notification.Subject, notification.Body); err != nil {
			logger.Errorf("failed to send notification mail for job %s: %v", payment.JobID, err)
		}
	}
	return nil
}

// ProcessApprovedClaims pays and notifies every approved-unpaid job. One
// job's failure never aborts the batch.
func (ps *PaymentService) ProcessApprovedClaims(ctx context.Context) (model.PaymentList, error) {
	logger := zap.S().Named("payment_service")

	pairs, err := ps.ListApprovedUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		logger.Info("no approved claims ready for payment")
		return model.PaymentList{}, nil
	}

	payments := make(model.PaymentList, 0, len(pairs))
	for _, pair := range pairs {
		payment, err := ps.Pay(ctx, pair)
		if err != nil {
			logger.Errorf("failed to process payment for job %s: %v", pair.Submission.JobID, err)
			continue
		}
		if err := ps.Notify(ctx, payment); err != nil {
			logger.Errorf("failed to notify contractor for job %s: %v", payment.JobID, err)
		}
		payments = append(payments, *payment)
	}

	logger.Infof("processed %d payments", len(payments))
	return payments, nil
}

// Report aggregates all payments whose payment date falls within the
// closed interval [start, end] and persists the report.
func (ps *PaymentService) Report(ctx context.Context, start, end time.Time) (*model.PaymentReport, error) {
	logger := zap.S().Named("payment_service")

	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)

	payments, err := ps.store.Payment().List(ctx, store.NewPaymentQueryFilter().WithPaidBetween(from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	totalPaid := decimal.Zero
	totalClaimed := decimal.Zero
	for i := range payments {
		totalPaid = totalPaid.Add(decimal.NewFromFloat(payments[i].Amount))
		totalClaimed = totalClaimed.Add(decimal.NewFromFloat(payments[i].ClaimTotal))
	}

	average := decimal.Zero
	if len(payments) > 0 {
		average = totalPaid.Div(decimal.NewFromInt(int64(len(payments)))).Round(2)
	}

	report := model.PaymentReport{
		ID:             uuid.New(),
		CreatedAt:      ps.nowFunc().UTC(),
		StartDate:      from,
		EndDate:        to,
		PaymentCount:   len(payments),
		TotalPaid:      totalPaid.InexactFloat64(),
		TotalClaimed:   totalClaimed.InexactFloat64(),
		AveragePayment: average.InexactFloat64(),
		Records:        model.MakeJSONField([]model.Payment(payments)),
	}

	created, err := ps.store.Payment().CreateReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to persist payment report: %w", err)
	}

	logger.Infof("payment report %s to %s: %d payments, %.2f paid", from.Format("2006-01-02"), to.Format("2006-01-02"), created.PaymentCount, created.TotalPaid)
	return created, nil
}
