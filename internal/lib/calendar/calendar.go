// Package calendar содержит календарную арифметику для дат продления:
// разбор дат формата YYYY-MM-DD, подсчёт дней до продления и сдвиг даты на месяц.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout - формат, в котором даты продления хранятся и передаются.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// MaxYear - последний год, который помещается в формат YYYY-MM-DD.
const MaxYear = 9999

// ErrDateOutOfRange возвращается, когда сдвинутая дата не помещается в формат.
var ErrDateOutOfRange = errors.New("date out of range")

// ParseDate разбирает дату формата YYYY-MM-DD как полночь UTC.
func ParseDate(s string) (time.Time, error) {
	const op = "calendar.ParseDate"
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// FormatDate возвращает календарную часть t в формате YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysUntil возвращает количество дней от now до target, округлённое вверх.
// Отрицательное значение означает, что target уже в прошлом.
// Считается в секундах Unix, поэтому не упирается в предел time.Duration
// (около 292 лет).
func DaysUntil(target, now time.Time) int {
	secs := target.Unix() - now.Unix()
	nanos := target.Nanosecond() - now.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}
	if rem > 0 || nanos > 0 {
		days++
	}
	return int(days)
}

// DaysUntilDate считает дни до календарной даты date относительно now.
//
// Дата трактуется как полночь своего дня, а now сохраняет время суток.
// Обе величины переводятся в настенное время UTC, поэтому переход на летнее
// время не влияет на результат. С округлением вверх это ровно разница
// календарных дней: сегодня - 0, завтра - 1, вчера - -1.
func DaysUntilDate(date string, now time.Time) (int, error) {
	target, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return DaysUntil(target, wallUTC(now)), nil
}

// DateAfter возвращает календарную дату через days дней от дня now.
// День now берётся по настенному времени его зоны, как в DaysUntilDate.
func DateAfter(now time.Time, days int) string {
	y, m, d := now.Date()
	return FormatDate(time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC))
}

func wallUTC(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}

// DaysIn возвращает количество дней в месяце.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonth сдвигает дату ровно на один календарный месяц вперёд.
// Если в следующем месяце нет такого дня, берётся его последний день:
// 31 января 2024 превращается в 29 февраля 2024, а не в 2 марта.
func AddMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	next := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	if last := DaysIn(next.Year(), next.Month()); d > last {
		d = last
	}
	return time.Date(next.Year(), next.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextRenewal возвращает дату на месяц позже date в формате YYYY-MM-DD.
func NextRenewal(date string) (string, error) {
	const op = "calendar.NextRenewal"
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	next := AddMonth(t)
	if next.Year() > MaxYear {
		return "", fmt.Errorf("%s: %s: %w", op, date, ErrDateOutOfRange)
	}
	return FormatDate(next), nil
}
