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

func TestReferralRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createReferralTable(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	referrerID := uuid.New()
	ref := &entities.Referral{
		ID:         uuid.New(),
		ReferrerID: referrerID,
		ReferredID: uuid.New(),
		Status:     entities.ReferralStatusPending,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, ref))

	got, err := repo.GetByID(ctx, ref.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ReferralStatusPending, got.Status)
	require.Nil(t, got.ProcessedAt)

	byReferrer, err := repo.GetByReferrerID(ctx, referrerID)
	require.NoError(t, err)
	require.Len(t, byReferrer, 1)
}

func TestReferralRepository_GetPending_OrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	createReferralTable(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		ref := &entities.Referral{
			ID:         uuid.New(),
			ReferrerID: uuid.New(),
			ReferredID: uuid.New(),
			Status:     entities.ReferralStatusPending,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, ref))
	}
	processed := &entities.Referral{
		ID:         uuid.New(),
		ReferrerID: uuid.New(),
		ReferredID: uuid.New(),
		Status:     entities.ReferralStatusProcessed,
		CreatedAt:  base,
	}
	require.NoError(t, repo.Create(ctx, processed))

	pending, err := repo.GetPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// oldest first
	require.True(t, pending[0].CreatedAt.Before(pending[1].CreatedAt))
}

func TestReferralRepository_MarkProcessed_Idempotent(t *testing.T) {
	db := newTestDB(t)
	createReferralTable(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	ref := &entities.Referral{
		ID:         uuid.New(),
		ReferrerID: uuid.New(),
		ReferredID: uuid.New(),
		Status:     entities.ReferralStatusPending,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, ref))

	require.NoError(t, repo.MarkProcessed(ctx, ref.ID))

	got, err := repo.GetByID(ctx, ref.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ReferralStatusProcessed, got.Status)
	require.NotNil(t, got.ProcessedAt)

	// a second attempt finds no pending row to transition
	err = repo.MarkProcessed(ctx, ref.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReferralRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createReferralTable(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.MarkProcessed(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReferralRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewReferralRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &entities.Referral{ID: uuid.New(), ReferrerID: uuid.New(), ReferredID: uuid.New()})
	require.Error(t, err)

	_, err = repo.GetPending(ctx, 10)
	require.Error(t, err)

	_, err = repo.GetByReferrerID(ctx, uuid.New())
	require.Error(t, err)
}
