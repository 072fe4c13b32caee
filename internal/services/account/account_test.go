package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateAccount(ctx context.Context, draft models.AccountDraft) (*models.Account, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
func (m *RepoMock) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}
func (m *RepoMock) ReadAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
func (m *RepoMock) UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
func (m *RepoMock) RemoveAccount(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	args := make([]any, 0, len(keys)+1)
	args = append(args, ctx)
	for _, k := range keys {
		args = append(args, k)
	}
	return m.Called(args...).Error(0)
}

type recorderStub struct {
	ops []string
}

func (r *recorderStub) ObserveOperation(operation string, err error) {
	if err != nil {
		operation += ":error"
	}
	r.ops = append(r.ops, operation)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func newService(r *RepoMock, c *CacheMock, rec *recorderStub) *AccountService {
	return NewAccountService(r, c, rec, newNoopLogger(), time.Hour)
}

func fixture() []models.Account {
	return []models.Account{
		{ID: "a", Email: "overdue@example.com", RenewalDate: "2024-06-01", Price: "1100", Status: models.StatusActive},
		{ID: "b", Email: "today@example.com", RenewalDate: "2024-06-10", Price: "1500", Status: models.StatusActive},
		{ID: "c", Email: "later@example.com", RenewalDate: "2024-08-01", Notes: "family plan", Status: models.StatusActive},
	}
}

func TestAccountService_List(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		query      tracker.Query
		wantIDs    []string
		wantErr    bool
	}{
		{
			name: "cache miss loads from repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "accounts:all", mock.Anything).Return(false, nil).Once()
				r.On("ListAccounts", mock.Anything).Return(fixture(), nil).Once()
				c.On("Set", mock.Anything, "accounts:all", mock.Anything, time.Hour).Return(nil).Once()
			},
			query:   tracker.DefaultQuery(),
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name: "cache hit skips repo",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "accounts:all", mock.Anything).
					Run(func(args mock.Arguments) {
						dst := args.Get(2).(*[]models.Account)
						*dst = fixture()
					}).Return(true, nil).Once()
			},
			query:   tracker.Query{Bucket: tracker.BucketOverdue, Sort: tracker.SortAsc},
			wantIDs: []string{"a"},
		},
		{
			name: "cache error falls back to repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "accounts:all", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ListAccounts", mock.Anything).Return(fixture(), nil).Once()
				c.On("Set", mock.Anything, "accounts:all", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
			query:   tracker.Query{Search: "FAMILY", Sort: tracker.SortDesc},
			wantIDs: []string{"c"},
		},
		{
			name: "repo error",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "accounts:all", mock.Anything).Return(false, nil).Once()
				r.On("ListAccounts", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			query:   tracker.DefaultQuery(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c, rec := new(RepoMock), new(CacheMock), &recorderStub{}
			tt.setupMocks(r, c)

			got, err := newService(r, c, rec).List(context.Background(), tt.query, testNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, []string{"list:error"}, rec.ops)
			} else {
				require.NoError(t, err)
				ids := make([]string, 0, len(got))
				for _, a := range got {
					ids = append(ids, a.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestAccountService_Stats(t *testing.T) {
	r, c, rec := new(RepoMock), new(CacheMock), &recorderStub{}
	c.On("Get", mock.Anything, "accounts:all", mock.Anything).Return(false, nil).Once()
	r.On("ListAccounts", mock.Anything).Return(fixture(), nil).Once()
	c.On("Set", mock.Anything, "accounts:all", mock.Anything, time.Hour).Return(nil).Once()

	stats, err := newService(r, c, rec).Stats(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 0, stats.DueThisWeek)
	assert.InDelta(t, 2600.0, stats.TotalPrice, 1e-9)
	assert.Equal(t, []string{"stats"}, rec.ops)
}

func TestAccountService_Read(t *testing.T) {
	acc := &models.Account{ID: "x1", Email: "a@b.c", RenewalDate: "2024-07-01"}

	t.Run("from repo then cached", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)
		c.On("Get", mock.Anything, "account:x1", mock.Anything).Return(false, nil).Once()
		r.On("ReadAccount", mock.Anything, "x1").Return(acc, nil).Once()
		c.On("Set", mock.Anything, "account:x1", acc, time.Hour).Return(nil).Once()

		got, err := newService(r, c, &recorderStub{}).Read(context.Background(), "x1")
		require.NoError(t, err)
		assert.Equal(t, acc, got)
		r.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)
		c.On("Get", mock.Anything, "account:missing", mock.Anything).Return(false, nil).Once()
		r.On("ReadAccount", mock.Anything, "missing").Return(nil, models.ErrAccountNotFound).Once()

		_, err := newService(r, c, &recorderStub{}).Read(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestAccountService_Create(t *testing.T) {
	draft := models.AccountDraft{Email: "  new@example.com ", RenewalDate: "2024-07-15", Price: "1100"}
	created := &models.Account{ID: "n1", Email: "new@example.com", RenewalDate: "2024-07-15", Price: "1100", Status: models.StatusActive}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(d models.AccountDraft) bool {
					return d.Email == "new@example.com" && d.RenewalDate == "2024-07-15"
				})).Return(created, nil).Once()
				c.On("Invalidate", mock.Anything, "accounts:all").Return(nil).Once()
				c.On("Set", mock.Anything, "account:n1", created, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "cache failures are ignored",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateAccount", mock.Anything, mock.Anything).Return(created, nil).Once()
				c.On("Invalidate", mock.Anything, "accounts:all").Return(errors.New("redis down")).Once()
				c.On("Set", mock.Anything, "account:n1", created, time.Hour).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "repo error",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := new(RepoMock), new(CacheMock)
			tt.setupMocks(r, c)

			got, err := newService(r, c, &recorderStub{}).Create(context.Background(), draft)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "n1", got.ID)
			}
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestAccountService_Update(t *testing.T) {
	notes := "shared with family"
	patch := models.AccountPatch{Notes: &notes}
	updated := &models.Account{ID: "u1", Email: "a@b.c", RenewalDate: "2024-07-01", Notes: notes}

	r, c := new(RepoMock), new(CacheMock)
	r.On("UpdateAccount", mock.Anything, "u1", patch).Return(updated, nil).Once()
	c.On("Invalidate", mock.Anything, "accounts:all").Return(nil).Once()
	c.On("Set", mock.Anything, "account:u1", updated, time.Hour).Return(nil).Once()

	got, err := newService(r, c, &recorderStub{}).Update(context.Background(), "u1", patch)
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)
	r.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestAccountService_Remove(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "success"},
		{name: "not found still clears cache", repoErr: models.ErrAccountNotFound, wantErr: models.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := new(RepoMock), new(CacheMock)
			r.On("RemoveAccount", mock.Anything, "d1").Return(tt.repoErr).Once()
			c.On("Invalidate", mock.Anything, "accounts:all", "account:d1").Return(nil).Once()

			err := newService(r, c, &recorderStub{}).Remove(context.Background(), "d1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}

	t.Run("backend error keeps cache", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)
		r.On("RemoveAccount", mock.Anything, "d1").Return(errors.New("db error")).Once()

		err := newService(r, c, &recorderStub{}).Remove(context.Background(), "d1")
		assert.Error(t, err)
		c.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountService_Renew(t *testing.T) {
	current := &models.Account{ID: "r1", Email: "a@b.c", RenewalDate: "2024-01-31", LastRenewalDate: "2023-12-31"}
	renewed := &models.Account{ID: "r1", Email: "a@b.c", RenewalDate: "2024-02-29", LastRenewalDate: "2024-01-31"}

	t.Run("moves renewal date one month", func(t *testing.T) {
		r, c, rec := new(RepoMock), new(CacheMock), &recorderStub{}
		r.On("ReadAccount", mock.Anything, "r1").Return(current, nil).Once()
		r.On("UpdateAccount", mock.Anything, "r1", mock.MatchedBy(func(p models.AccountPatch) bool {
			return p.RenewalDate != nil && *p.RenewalDate == "2024-02-29" &&
				p.LastRenewalDate != nil && *p.LastRenewalDate == "2024-01-31" &&
				p.Email == nil && p.Price == nil && p.Notes == nil
		})).Return(renewed, nil).Once()
		c.On("Invalidate", mock.Anything, "accounts:all").Return(nil).Once()
		c.On("Set", mock.Anything, "account:r1", renewed, time.Hour).Return(nil).Once()

		got, err := newService(r, c, rec).Renew(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "2024-02-29", got.RenewalDate)
		assert.Equal(t, "2024-01-31", got.LastRenewalDate)
		assert.Equal(t, []string{"renew"}, rec.ops)
		r.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("empty id fails before any remote call", func(t *testing.T) {
		r, c, rec := new(RepoMock), new(CacheMock), &recorderStub{}

		_, err := newService(r, c, rec).Renew(context.Background(), " ")
		assert.ErrorIs(t, err, tracker.ErrInvalidAccount)
		r.AssertNotCalled(t, "ReadAccount", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"renew:error"}, rec.ops)
	})

	t.Run("unknown id", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)
		r.On("ReadAccount", mock.Anything, "nope").Return(nil, models.ErrAccountNotFound).Once()

		_, err := newService(r, c, &recorderStub{}).Renew(context.Background(), "nope")
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
		r.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
	})
}
