package entities

import "encoding/json"

// Gateway event types we act on
const (
	GatewayEventPaymentCaptured = "payment.captured"
	GatewayEventPaymentFailed   = "payment.failed"
	GatewayEventRefundProcessed = "refund.processed"
)

// GatewayEvent is the raw payment-gateway webhook payload as published to the
// queue. EventID is the gateway's id for the event and doubles as the
// consumer-side deduplication key.
type GatewayEvent struct {
	EventID   string          `json:"id"`
	Event     string          `json:"event"`
	CreatedAt int64           `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// CapturedPayment is the payload fragment we need from payment.captured and
// payment.failed events.
type CapturedPayment struct {
	PaymentID    string `json:"paymentId"`
	InvestmentID string `json:"investmentId"`
	AmountPaise  int64  `json:"amountPaise"`
	Reason       string `json:"reason,omitempty"`
}

// SimulationInput represents input for a projection request. Validated
// server-side so the client cannot spoof favorable projections.
type SimulationInput struct {
	PrincipalRupees int64   `json:"principalRupees" binding:"required,gt=0"`
	AnnualRate      float64 `json:"annualRate" binding:"required,gt=0,lte=100"`
	TenureMonths    int     `json:"tenureMonths" binding:"required,gte=1,lte=120"`
}

// ProjectionResult is the outcome of the shared compounding routine. All
// figures are integer paise; rupee strings are derived at the boundary.
type ProjectionResult struct {
	PrincipalPaise int64  `json:"principalPaise"`
	MaturityPaise  int64  `json:"maturityPaise"`
	GainPaise      int64  `json:"gainPaise"`
	PrincipalRupees string `json:"principalRupees"`
	MaturityRupees  string `json:"maturityRupees"`
	GainRupees      string `json:"gainRupees"`
	AnnualRate     float64 `json:"annualRate"`
	TenureMonths   int    `json:"tenureMonths"`
}
