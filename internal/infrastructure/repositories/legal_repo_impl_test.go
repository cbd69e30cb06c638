package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

func TestLegalAgreementRepository_CreateGetList(t *testing.T) {
	db := newTestDB(t)
	createLegalTables(t, db)
	repo := NewLegalAgreementRepository(db)
	ctx := context.Background()

	published := time.Now()
	a := &entities.LegalAgreement{
		ID:          uuid.New(),
		Title:       "Terms of Service",
		Version:     3,
		Body:        "long legal text",
		PublishedAt: &published,
	}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Version)
	require.NotNil(t, got.PublishedAt)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestLegalAgreementRepository_UpsertSignature_SingleRow(t *testing.T) {
	db := newTestDB(t)
	createLegalTables(t, db)
	repo := NewLegalAgreementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	agreementID := uuid.New()

	first := &entities.UserAgreementSignature{
		ID:            uuid.New(),
		UserID:        userID,
		AgreementID:   agreementID,
		VersionSigned: 1,
		IPAddress:     "10.0.0.1",
		UserAgent:     "agent-v1",
		SignedAt:      time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.UpsertSignature(ctx, first))

	// re-acceptance overwrites in place, no second row
	second := &entities.UserAgreementSignature{
		ID:            uuid.New(),
		UserID:        userID,
		AgreementID:   agreementID,
		VersionSigned: 2,
		IPAddress:     "10.0.0.2",
		UserAgent:     "agent-v2",
		SignedAt:      time.Now(),
	}
	require.NoError(t, repo.UpsertSignature(ctx, second))

	var count int64
	require.NoError(t, db.Table("user_agreement_signatures").Count(&count).Error)
	require.Equal(t, int64(1), count)

	got, err := repo.GetSignature(ctx, userID, agreementID)
	require.NoError(t, err)
	require.Equal(t, 2, got.VersionSigned)
	require.Equal(t, "10.0.0.2", got.IPAddress)
	require.Equal(t, "agent-v2", got.UserAgent)
}

func TestLegalAgreementRepository_SignaturesIsolatedPerAgreement(t *testing.T) {
	db := newTestDB(t)
	createLegalTables(t, db)
	repo := NewLegalAgreementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	tos := uuid.New()
	privacy := uuid.New()

	require.NoError(t, repo.UpsertSignature(ctx, &entities.UserAgreementSignature{
		ID: uuid.New(), UserID: userID, AgreementID: tos, VersionSigned: 1, SignedAt: time.Now(),
	}))
	require.NoError(t, repo.UpsertSignature(ctx, &entities.UserAgreementSignature{
		ID: uuid.New(), UserID: userID, AgreementID: privacy, VersionSigned: 1, SignedAt: time.Now(),
	}))

	var count int64
	require.NoError(t, db.Table("user_agreement_signatures").Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestLegalAgreementRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createLegalTables(t, db)
	repo := NewLegalAgreementRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetSignature(ctx, uuid.New(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestLegalAgreementRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewLegalAgreementRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &entities.LegalAgreement{ID: uuid.New(), Title: "x", Version: 1, Body: "x"})
	require.Error(t, err)

	_, err = repo.List(ctx)
	require.Error(t, err)

	err = repo.UpsertSignature(ctx, &entities.UserAgreementSignature{ID: uuid.New(), UserID: uuid.New(), AgreementID: uuid.New(), VersionSigned: 1, SignedAt: time.Now()})
	require.Error(t, err)
}
