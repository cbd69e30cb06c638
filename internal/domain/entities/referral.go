package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReferralStatus represents referral processing status
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "PENDING"
	ReferralStatusProcessed ReferralStatus = "PROCESSED"
)

// Referral is a directed edge referrer -> referred, created at signup and
// processed once both parties pass the verification and tenure gates.
type Referral struct {
	ID          uuid.UUID      `json:"id"`
	ReferrerID  uuid.UUID      `json:"referrerId"`
	ReferredID  uuid.UUID      `json:"referredId"`
	Status      ReferralStatus `json:"status"`
	ProcessedAt *time.Time     `json:"processedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ReferralStats is the referrer-facing aggregate
type ReferralStats struct {
	TotalInvited     int   `json:"totalInvited"`
	Processed        int   `json:"processed"`
	TotalEarnedPaise int64 `json:"totalEarnedPaise"`
}
