package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OTPSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_otp_sent_total",
		Help: "Total number of OTP emails sent",
	})

	OTPSendsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_otp_send_failures_total",
		Help: "Total number of OTP sends that failed",
	})

	OTPVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_otp_verified_total",
		Help: "Total number of successful OTP verifications",
	})

	OTPVerifyFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_otp_verify_failures_total",
		Help: "Total number of rejected OTP verifications",
	})

	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_applications_submitted_total",
		Help: "Total number of funding applications submitted",
	})

	PDFFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_pdf_generation_failures_total",
		Help: "Total number of failed PDF report generations",
	})

	ReviewsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_reviews_recorded_total",
		Help: "Total number of mentor reviews recorded",
	}, []string{"decision"})
)
