package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
)

func TestApiKeyRepository_CRUDAndFinders(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	createAPIKeyTable(t, db)
	repo := NewApiKeyRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	now := time.Now()
	mustExec(t, db, `INSERT INTO organizations(id,name,slug,is_active,created_at,updated_at) VALUES (?,?,?,?,?,?)`,
		orgID.String(), "Acme", "acme", true, now, now)

	ak := &entities.ApiKey{
		OrganizationID:  orgID,
		Name:            "production",
		KeyFingerprint:  "fp_1",
		SecretHash:      "salt:hash",
		Scopes:          []string{"notifications:send", "notifications:read"},
		RateLimitHourly: 100,
		RateLimitDaily:  1000,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.Create(ctx, ak))
	require.NotEqual(t, uuid.Nil, ak.ID)

	byFp, err := repo.FindByFingerprint(ctx, "fp_1")
	require.NoError(t, err)
	require.Equal(t, ak.ID, byFp.ID)
	require.Len(t, byFp.Scopes, 2)
	require.Equal(t, 100, byFp.RateLimitHourly)

	byOrg, err := repo.FindByOrganizationID(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, byOrg, 1)

	byID, err := repo.FindByID(ctx, ak.ID)
	require.NoError(t, err)
	require.Equal(t, "production", byID.Name)

	ak.Name = "production-renamed"
	ak.RateLimitHourly = 200
	require.NoError(t, repo.Update(ctx, ak))

	updated, err := repo.FindByID(ctx, ak.ID)
	require.NoError(t, err)
	require.Equal(t, "production-renamed", updated.Name)
	require.Equal(t, 200, updated.RateLimitHourly)
}

func TestApiKeyRepository_Touch(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	createAPIKeyTable(t, db)
	repo := NewApiKeyRepository(db)
	ctx := context.Background()

	ak := &entities.ApiKey{
		OrganizationID: uuid.New(),
		Name:           "k",
		KeyFingerprint: "fp_touch",
		SecretHash:     "salt:hash",
		IsActive:       true,
	}
	require.NoError(t, repo.Create(ctx, ak))

	usedAt := time.Now()
	require.NoError(t, repo.Touch(ctx, ak.ID, usedAt))

	got, err := repo.FindByID(ctx, ak.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	require.WithinDuration(t, usedAt, *got.LastUsedAt, time.Second)

	// Touching a missing key is a no-op, not an error.
	require.NoError(t, repo.Touch(ctx, uuid.New(), usedAt))
}

func TestApiKeyRepository_DeactivateIsIdempotentAndIrreversible(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	createAPIKeyTable(t, db)
	repo := NewApiKeyRepository(db)
	ctx := context.Background()

	ak := &entities.ApiKey{
		OrganizationID: uuid.New(),
		Name:           "k",
		KeyFingerprint: "fp_deact",
		SecretHash:     "salt:hash",
		IsActive:       true,
	}
	require.NoError(t, repo.Create(ctx, ak))

	require.NoError(t, repo.Deactivate(ctx, ak.ID))
	got, err := repo.FindByID(ctx, ak.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	// Second deactivation succeeds without change.
	require.NoError(t, repo.Deactivate(ctx, ak.ID))
	got, err = repo.FindByID(ctx, ak.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	require.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), domainerrors.ErrNotFound)
}

func TestApiKeyRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	createAPIKeyTable(t, db)
	repo := NewApiKeyRepository(db)
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.FindByID(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.FindByFingerprint(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, &entities.ApiKey{ID: id, Name: "x", Scopes: []string{}, IsActive: true})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
