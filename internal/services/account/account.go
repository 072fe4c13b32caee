// Package services содержит бизнес-логику работы с учётными записями:
// операции над хранилищем, кэширование списка и правило продления.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

const listCacheKey = "accounts:all"

func accountCacheKey(id string) string {
	return "account:" + id
}

// AccountRepository определяет методы работы с учётными записями в хранилище.
type AccountRepository interface {
	// CreateAccount добавляет запись и возвращает её с выданным идентификатором.
	CreateAccount(ctx context.Context, draft models.AccountDraft) (*models.Account, error)
	// ListAccounts возвращает все записи по возрастанию даты продления.
	ListAccounts(ctx context.Context) ([]models.Account, error)
	// ReadAccount возвращает запись по идентификатору.
	ReadAccount(ctx context.Context, id string) (*models.Account, error)
	// UpdateAccount сливает патч с записью и возвращает результат.
	UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
	// RemoveAccount удаляет запись.
	RemoveAccount(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Recorder учитывает результаты операций.
type Recorder interface {
	ObserveOperation(operation string, err error)
}

// AccountService реализует операции над учётными записями с кэшированием.
type AccountService struct {
	repo     AccountRepository
	cache    Cache
	recorder Recorder
	log      *slog.Logger
	ttl      time.Duration
}

// NewAccountService создаёт новый экземпляр AccountService.
func NewAccountService(repo AccountRepository, cache Cache, recorder Recorder, log *slog.Logger, ttl time.Duration) *AccountService {
	return &AccountService{
		repo:     repo,
		cache:    cache,
		recorder: recorder,
		log:      log,
		ttl:      ttl,
	}
}

// List возвращает записи, отобранные и упорядоченные по параметрам q.
func (s *AccountService) List(ctx context.Context, q tracker.Query, now time.Time) ([]models.Account, error) {
	all, err := s.all(ctx)
	s.recorder.ObserveOperation("list", err)
	if err != nil {
		return nil, err
	}
	return tracker.SelectAndOrder(all, q, now), nil
}

// Stats возвращает сводку по всем записям.
func (s *AccountService) Stats(ctx context.Context, now time.Time) (models.Stats, error) {
	all, err := s.all(ctx)
	s.recorder.ObserveOperation("stats", err)
	if err != nil {
		return models.Stats{}, err
	}
	return tracker.Summarize(all, now), nil
}

func (s *AccountService) all(ctx context.Context) ([]models.Account, error) {
	var cached []models.Account
	found, err := s.cache.Get(ctx, listCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", listCacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, listCacheKey, accounts, s.ttl); err != nil {
		s.log.Warn("failed to cache account list", slog.String("key", listCacheKey), sl.Err(err))
	}
	return accounts, nil
}

// Read возвращает запись по идентификатору, используя кэш или хранилище.
func (s *AccountService) Read(ctx context.Context, id string) (*models.Account, error) {
	key := accountCacheKey(id)
	var cached models.Account
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		s.recorder.ObserveOperation("read", nil)
		return &cached, nil
	}

	acc, err := s.repo.ReadAccount(ctx, id)
	s.recorder.ObserveOperation("read", err)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, acc)
	return acc, nil
}

// Create добавляет новую запись и сбрасывает кэш списка.
func (s *AccountService) Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error) {
	draft = draft.Normalize()
	acc, err := s.repo.CreateAccount(ctx, draft)
	s.recorder.ObserveOperation("create", err)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new account", slog.String("id", acc.ID))

	s.forgetList(ctx)
	s.remember(ctx, acc)
	return acc, nil
}

// Update перезаписывает переданные в патче поля.
func (s *AccountService) Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	acc, err := s.repo.UpdateAccount(ctx, id, patch.Normalize())
	s.recorder.ObserveOperation("update", err)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated account", slog.String("id", id))

	s.forgetList(ctx)
	s.remember(ctx, acc)
	return acc, nil
}

// Remove удаляет запись и инвалидирует кэш.
func (s *AccountService) Remove(ctx context.Context, id string) error {
	err := s.repo.RemoveAccount(ctx, id)
	s.recorder.ObserveOperation("remove", err)
	if err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		return err
	}
	if invErr := s.cache.Invalidate(ctx, listCacheKey, accountCacheKey(id)); invErr != nil {
		s.log.Warn("failed to remove from cache", slog.String("id", id), sl.Err(invErr))
	}
	if err != nil {
		return err
	}
	s.log.Info("removed account", slog.String("id", id))
	return nil
}

// Renew продлевает запись на один календарный месяц.
// Пустой идентификатор отклоняется до обращения к хранилищу.
func (s *AccountService) Renew(ctx context.Context, id string) (*models.Account, error) {
	const op = "services.account.Renew"
	acc, err := s.renew(ctx, id)
	s.recorder.ObserveOperation("renew", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("renewed account",
		slog.String("id", acc.ID),
		slog.String("last_renewal_date", acc.LastRenewalDate),
		slog.String("renewal_date", acc.RenewalDate),
	)

	s.forgetList(ctx)
	s.remember(ctx, acc)
	return acc, nil
}

func (s *AccountService) renew(ctx context.Context, id string) (*models.Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, tracker.ErrInvalidAccount
	}
	current, err := s.repo.ReadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	patch, err := tracker.RenewalPatch(*current)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateAccount(ctx, id, patch)
}

func (s *AccountService) remember(ctx context.Context, acc *models.Account) {
	key := accountCacheKey(acc.ID)
	if err := s.cache.Set(ctx, key, acc, s.ttl); err != nil {
		s.log.Warn("failed to cache account", slog.String("key", key), sl.Err(err))
	}
}

func (s *AccountService) forgetList(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, listCacheKey); err != nil {
		s.log.Warn("failed to invalidate account list", slog.String("key", listCacheKey), sl.Err(err))
	}
}
