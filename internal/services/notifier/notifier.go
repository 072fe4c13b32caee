// Package services содержит планировщик напоминаний о продлении.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/calendar"
	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/rabbitmq"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

// DueAccountsRepository находит записи, дата продления которых не позже date.
type DueAccountsRepository interface {
	ListAccountsDueBefore(ctx context.Context, date string) ([]models.Account, error)
}

// Publisher отправляет сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Recorder учитывает опубликованные напоминания.
type Recorder interface {
	ReminderPublished(kind string)
}

// NotifierService периодически ищет записи с близким продлением и публикует напоминания.
type NotifierService struct {
	repo        DueAccountsRepository
	publisher   Publisher
	recorder    Recorder
	log         *slog.Logger
	horizonDays int
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(repo DueAccountsRepository, publisher Publisher, recorder Recorder, log *slog.Logger, horizonDays int) *NotifierService {
	return &NotifierService{
		repo:        repo,
		publisher:   publisher,
		recorder:    recorder,
		log:         log,
		horizonDays: horizonDays,
	}
}

// Run выполняет Scan сразу и затем каждые interval, пока не отменён ctx.
func (s *NotifierService) Run(ctx context.Context, interval time.Duration) {
	s.runScan(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("notifier stopped")
			return
		case <-ticker.C:
			s.runScan(ctx)
		}
	}
}

func (s *NotifierService) runScan(ctx context.Context) {
	published, err := s.Scan(ctx, time.Now())
	if err != nil {
		s.log.Error("renewal scan failed", sl.Err(err))
		return
	}
	s.log.Info("renewal scan finished", slog.Int("published", published))
}

// Scan публикует по одному напоминанию на каждую запись, продление которой
// наступает в пределах horizonDays дней от now, включая просроченные.
// Возвращает число опубликованных сообщений.
func (s *NotifierService) Scan(ctx context.Context, now time.Time) (int, error) {
	const op = "services.notifier.Scan"

	limit := calendar.DateAfter(now, s.horizonDays)
	accounts, err := s.repo.ListAccountsDueBefore(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(accounts) == 0 {
		s.log.Info("no upcoming renewals found")
		return 0, nil
	}
	s.log.Info("found upcoming renewals", slog.Int("count", len(accounts)))

	published := 0
	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			return published, fmt.Errorf("%s: %w", op, err)
		}
		reminder, ok := NewReminder(acc, now)
		if !ok {
			s.log.Warn("skipping account with invalid renewal date",
				slog.String("id", acc.ID), slog.String("renewal_date", acc.RenewalDate))
			continue
		}
		kind := RoutingKey(reminder.DaysUntil)
		if err := s.publisher.Publish(kind, reminder); err != nil {
			s.log.Error("failed to publish reminder", slog.String("id", acc.ID), sl.Err(err))
			continue
		}
		s.recorder.ReminderPublished(kind)
		published++
	}
	return published, nil
}

// NewReminder собирает напоминание для записи. ok == false, если дата не разбирается.
func NewReminder(acc models.Account, now time.Time) (models.RenewalReminder, bool) {
	days, ok := tracker.DaysUntil(acc, now)
	if !ok {
		return models.RenewalReminder{}, false
	}
	return models.RenewalReminder{
		AccountID:   acc.ID,
		Email:       acc.Email,
		RenewalDate: acc.RenewalDate,
		DaysUntil:   days,
		Label:       tracker.DueLabel(days),
		Price:       acc.Price.Amount(),
	}, true
}

// RoutingKey выбирает очередь по числу дней до продления.
func RoutingKey(days int) string {
	if tracker.UrgencyOf(days) == tracker.UrgencyOverdue {
		return rabbitmq.RoutingOverdue
	}
	return rabbitmq.RoutingUpcoming
}
