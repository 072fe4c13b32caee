package tracker

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/calendar"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

// ErrInvalidAccount возвращается, когда ссылка на учётную запись не содержит идентификатора.
var ErrInvalidAccount = errors.New("invalid account: missing identifier")

// Renew сдвигает дату продления на один календарный месяц.
// В результате LastRenewalDate равна прежней дате продления, остальные поля не меняются.
func Renew(acc models.Account) (models.Account, error) {
	const op = "tracker.Renew"
	if acc.ID == "" {
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrInvalidAccount)
	}
	next, err := calendar.NextRenewal(acc.RenewalDate)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	acc.LastRenewalDate = acc.RenewalDate
	acc.RenewalDate = next
	return acc, nil
}

// RenewalPatch возвращает патч, который переводит acc в состояние после Renew.
func RenewalPatch(acc models.Account) (models.AccountPatch, error) {
	renewed, err := Renew(acc)
	if err != nil {
		return models.AccountPatch{}, err
	}
	return models.AccountPatch{
		RenewalDate:     &renewed.RenewalDate,
		LastRenewalDate: &renewed.LastRenewalDate,
	}, nil
}
