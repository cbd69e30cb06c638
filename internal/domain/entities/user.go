package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// KYCStatus represents KYC verification status
type KYCStatus string

const (
	KYCUnverified KYCStatus = "UNVERIFIED"
	KYCPending    KYCStatus = "PENDING"
	KYCVerified   KYCStatus = "VERIFIED"
)

// User represents a platform investor or admin
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	PasswordHash  string     `json:"-"`
	Role          UserRole   `json:"role"`
	KYCStatus     KYCStatus  `json:"kycStatus"`
	KYCVerifiedAt *time.Time `json:"kycVerifiedAt,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	ReferralCode  string     `json:"referralCode"`
	ReferredByID  *uuid.UUID `json:"referredById,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"-"`
}

// AccountAge returns how long the account has existed as of now
func (u *User) AccountAge(now time.Time) time.Duration {
	return now.Sub(u.CreatedAt)
}

// Age returns the user's age in whole years, or -1 when date of birth is unknown
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth == nil {
		return -1
	}
	years := now.Year() - u.DateOfBirth.Year()
	anniversary := u.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Password     string `json:"password" binding:"required,min=8"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	ReferralCode string `json:"referralCode,omitempty"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// ChangePasswordInput represents input for changing user password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=8"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
