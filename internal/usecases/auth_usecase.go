package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
	"preipo-sip.backend/pkg/crypto"
	"preipo-sip.backend/pkg/jwt"
	"preipo-sip.backend/pkg/logger"
)

const referralCodeAttempts = 5

// AuthUsecase handles registration, login and token refresh
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	referralRepo repositories.ReferralRepository
	jwtService   *jwt.JWTService
	audit        *AuditUsecase
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	referralRepo repositories.ReferralRepository,
	jwtService *jwt.JWTService,
	audit *AuditUsecase,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		jwtService:   jwtService,
		audit:        audit,
	}
}

// Register creates a new user account. A valid referral code links the new
// account to its referrer and opens a pending referral; an unknown code is
// ignored rather than failing the signup.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domainerrors.Conflict("email is already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return nil, domainerrors.BadRequest("dateOfBirth must be YYYY-MM-DD")
		}
		dateOfBirth = &parsed
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	referralCode, err := u.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	var referrer *entities.User
	if input.ReferralCode != "" {
		referrer, err = u.userRepo.GetByReferralCode(ctx, strings.ToUpper(input.ReferralCode))
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: passwordHash,
		Role:         entities.UserRoleUser,
		KYCStatus:    entities.KYCUnverified,
		DateOfBirth:  dateOfBirth,
		ReferralCode: referralCode,
	}
	if referrer != nil {
		user.ReferredByID = &referrer.ID
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email is already registered")
		}
		return nil, err
	}

	if referrer != nil {
		referral := &entities.Referral{
			ID:         uuid.New(),
			ReferrerID: referrer.ID,
			ReferredID: user.ID,
			Status:     entities.ReferralStatusPending,
		}
		if err := u.referralRepo.Create(ctx, referral); err != nil {
			// the account exists either way; the referral edge is best-effort
			logger.Error(ctx, "failed to create referral edge",
				zap.String("referrer_id", referrer.ID.String()),
				zap.String("referred_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	u.audit.Record(ctx, "user.registered", "User", user.ID.String(),
		nil,
		map[string]interface{}{"email": user.Email, "referred": referrer != nil},
		nil,
	)

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// Login authenticates a user with email and password
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(401, domainerrors.CodeUnauthorized, "invalid email or password", domainerrors.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.NewAppError(401, domainerrors.CodeUnauthorized, "invalid email or password", domainerrors.ErrInvalidCredentials)
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The user is
// reloaded so role or status changes since issuance take effect.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// ChangePassword verifies the current password and stores a new hash
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(currentPassword, user.PasswordHash) {
		return domainerrors.Unauthorized("current password is incorrect")
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return domainerrors.InternalError(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	u.audit.Record(ctx, "user.password_changed", "User", userID.String(), nil, nil, nil)
	return nil
}

// GetUserByID returns the user profile
func (u *AuthUsecase) GetUserByID(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// SetKYCStatus moves a user through the KYC review states. Admin only.
func (u *AuthUsecase) SetKYCStatus(ctx context.Context, userID uuid.UUID, status entities.KYCStatus) (*entities.User, error) {
	switch status {
	case entities.KYCUnverified, entities.KYCPending, entities.KYCVerified:
	default:
		return nil, domainerrors.BadRequest("unknown kyc status")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.KYCStatus == status {
		return user, nil
	}

	oldStatus := user.KYCStatus
	if err := u.userRepo.UpdateKYCStatus(ctx, userID, status); err != nil {
		return nil, err
	}
	user.KYCStatus = status

	u.audit.Record(ctx, "user.kyc_updated", "User", userID.String(),
		map[string]interface{}{"kyc_status": string(oldStatus)},
		map[string]interface{}{"kyc_status": string(status)},
		nil,
	)
	return user, nil
}

// generateReferralCode produces a short unique uppercase code
func (u *AuthUsecase) generateReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		token, err := crypto.GenerateRandomToken(4)
		if err != nil {
			return "", domainerrors.InternalError(err)
		}
		code := strings.ToUpper(token)

		_, err = u.userRepo.GetByReferralCode(ctx, code)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", domainerrors.InternalServerError("could not allocate a referral code")
}
