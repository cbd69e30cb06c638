package entities

import (
	"time"

	"github.com/google/uuid"
)

// LegalAgreement is a versioned legal document
type LegalAgreement struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Version     int        `json:"version"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UserAgreementSignature is the single signature row kept per
// (user, agreement) pair. Re-acceptance overwrites it (last-write-wins);
// the forensic fields are refreshed each time.
type UserAgreementSignature struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	AgreementID   uuid.UUID `json:"agreementId"`
	VersionSigned int       `json:"versionSigned"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	SignedAt      time.Time `json:"signedAt"`
}
