package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestStorage_CreateAccount(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	acc, err := storage.CreateAccount(ctx, models.AccountDraft{
		Email:       "family@example.com",
		RenewalDate: "2024-01-15",
		Price:       "1100",
		Notes:       "shared",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "family@example.com", acc.Email)
	assert.Equal(t, "2024-01-15", acc.RenewalDate)
	assert.Equal(t, models.Price("1100"), acc.Price)
	assert.Equal(t, "shared", acc.Notes)
	assert.Equal(t, models.StatusActive, acc.Status)
	assert.Equal(t, "2024-01-15", acc.LastRenewalDate)
	assert.True(t, acc.CreatedAt.After(before))

	other := createAccount(t, storage, "solo@example.com", "2024-02-01")
	assert.NotEqual(t, acc.ID, other.ID)
}

func TestStorage_ListAccounts_OrderedByRenewalDate(t *testing.T) {
	storage := setupTestDatabase(t)

	late := createAccount(t, storage, "late@example.com", "2024-05-01")
	early := createAccount(t, storage, "early@example.com", "2024-01-01")
	mid := createAccount(t, storage, "mid@example.com", "2024-03-01")

	got, err := storage.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{early.ID, mid.ID, late.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestStorage_ListAccounts_Empty(t *testing.T) {
	storage := setupTestDatabase(t)

	got, err := storage.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStorage_ListAccountsDueBefore(t *testing.T) {
	storage := setupTestDatabase(t)

	createAccount(t, storage, "a@example.com", "2024-01-10")
	createAccount(t, storage, "b@example.com", "2024-01-12")
	createAccount(t, storage, "c@example.com", "2024-02-01")

	got, err := storage.ListAccountsDueBefore(context.Background(), "2024-01-12")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a@example.com", got[0].Email)
	assert.Equal(t, "b@example.com", got[1].Email)
}

func TestStorage_ReadAccount(t *testing.T) {
	storage := setupTestDatabase(t)
	created := createAccount(t, storage, "a@example.com", "2024-01-10")

	got, err := storage.ReadAccount(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Email, got.Email)

	_, err = storage.ReadAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_UpdateAccount_Merge(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	created, err := storage.CreateAccount(ctx, models.AccountDraft{
		Email:       "a@example.com",
		RenewalDate: "2024-01-10",
		Price:       "500",
		Notes:       "keep me",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		patch models.AccountPatch
		check func(t *testing.T, got *models.Account)
	}{
		{
			name:  "only email changes",
			patch: models.AccountPatch{Email: ptr("b@example.com")},
			check: func(t *testing.T, got *models.Account) {
				assert.Equal(t, "b@example.com", got.Email)
				assert.Equal(t, "2024-01-10", got.RenewalDate)
				assert.Equal(t, models.Price("500"), got.Price)
				assert.Equal(t, "keep me", got.Notes)
			},
		},
		{
			name: "renewal fields",
			patch: models.AccountPatch{
				RenewalDate:     ptr("2024-02-10"),
				LastRenewalDate: ptr("2024-01-10"),
			},
			check: func(t *testing.T, got *models.Account) {
				assert.Equal(t, "2024-02-10", got.RenewalDate)
				assert.Equal(t, "2024-01-10", got.LastRenewalDate)
				assert.Equal(t, "b@example.com", got.Email)
			},
		},
		{
			name:  "empty patch returns current state",
			patch: models.AccountPatch{},
			check: func(t *testing.T, got *models.Account) {
				assert.Equal(t, "2024-02-10", got.RenewalDate)
			},
		},
		{
			name:  "price and notes cleared",
			patch: models.AccountPatch{Price: ptr(models.Price("")), Notes: ptr("")},
			check: func(t *testing.T, got *models.Account) {
				assert.Equal(t, models.Price(""), got.Price)
				assert.Empty(t, got.Notes)
				assert.Equal(t, models.StatusActive, got.Status)
				assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.UpdateAccount(ctx, created.ID, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			tt.check(t, got)
		})
	}
}

func TestStorage_UpdateAccount_NotFound(t *testing.T) {
	storage := setupTestDatabase(t)

	_, err := storage.UpdateAccount(context.Background(), "missing", models.AccountPatch{Notes: ptr("x")})
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_RemoveAccount(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	created := createAccount(t, storage, "a@example.com", "2024-01-10")

	require.NoError(t, storage.RemoveAccount(ctx, created.ID))

	_, err := storage.ReadAccount(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	assert.ErrorIs(t, storage.RemoveAccount(ctx, created.ID), models.ErrAccountNotFound)
}

func TestStorage_CanceledContext(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ReadAccount(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, storage.RemoveAccount(ctx, "any"), context.Canceled)
}

func TestStorage_CheckDatabaseReady(t *testing.T) {
	storage := setupTestDatabase(t)

	assert.NoError(t, storage.CheckDatabaseReady(context.Background()))
}
