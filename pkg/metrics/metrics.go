package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	stormClaims = "storm_claims"

	photosAssessedTotal    = "photos_assessed_total"
	claimsSubmittedTotal   = "claims_submitted_total"
	claimsApprovedTotal    = "claims_approved_total"
	paymentsProcessedTotal = "payments_processed_total"
	paymentsAmountTotal    = "payments_amount_total"
)

/**
* Metrics definition
**/
var photosAssessedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: stormClaims,
		Name:      photosAssessedTotal,
		Help:      "number of damage photos assessed",
	},
)

var claimsSubmittedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: stormClaims,
		Name:      claimsSubmittedTotal,
		Help:      "number of claims submitted",
	},
)

var claimsApprovedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: stormClaims,
		Name:      claimsApprovedTotal,
		Help:      "number of claim submissions approved",
	},
)

var paymentsProcessedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: stormClaims,
		Name:      paymentsProcessedTotal,
		Help:      "number of contractor payments processed",
	},
)

var paymentsAmountTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: stormClaims,
		Name:      paymentsAmountTotal,
		Help:      "total amount paid out to contractors",
	},
)

func IncreasePhotosAssessedCount() {
	photosAssessedTotalMetric.Inc()
}

func IncreaseClaimsSubmittedCount() {
	claimsSubmittedTotalMetric.Inc()
}

func IncreaseClaimsApprovedCount() {
	claimsApprovedTotalMetric.Inc()
}

func IncreasePaymentsProcessedCount(amount float64) {
	paymentsProcessedTotalMetric.Inc()
	paymentsAmountTotalMetric.Add(amount)
}

func init() {
	prometheus.MustRegister(photosAssessedTotalMetric)
	prometheus.MustRegister(claimsSubmittedTotalMetric)
	prometheus.MustRegister(claimsApprovedTotalMetric)
	prometheus.MustRegister(paymentsProcessedTotalMetric)
	prometheus.MustRegister(paymentsAmountTotalMetric)
}
