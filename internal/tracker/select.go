package tracker

import (
	"slices"
	"strings"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/calendar"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

// SelectAndOrder возвращает новый срез записей, прошедших текстовый фильтр и
// фильтр диапазона, отсортированный по дате продления. Сортировка устойчивая.
//
// Запись с неразбираемой датой продления попадает только в BucketAll и
// при любом направлении сортировки оказывается после записей с датами.
func SelectAndOrder(accounts []models.Account, q Query, now time.Time) []models.Account {
	needle := strings.ToLower(q.Search)

	type keyed struct {
		acc   models.Account
		date  time.Time
		valid bool
	}
	selected := make([]keyed, 0, len(accounts))
	for _, acc := range accounts {
		if needle != "" && !matchesSearch(acc, needle) {
			continue
		}
		date, err := calendar.ParseDate(acc.RenewalDate)
		valid := err == nil
		if q.Bucket != "" && q.Bucket != BucketAll {
			days, ok := DaysUntil(acc, now)
			if !ok || !q.Bucket.Contains(days) {
				continue
			}
		}
		selected = append(selected, keyed{acc: acc, date: date, valid: valid})
	}

	slices.SortStableFunc(selected, func(a, b keyed) int {
		switch {
		case a.valid != b.valid:
			if a.valid {
				return -1
			}
			return 1
		case !a.valid:
			return 0
		case q.Sort == SortDesc:
			return b.date.Compare(a.date)
		default:
			return a.date.Compare(b.date)
		}
	})

	result := make([]models.Account, len(selected))
	for i, k := range selected {
		result[i] = k.acc
	}
	return result
}

// Summarize считает сводку по всему списку.
func Summarize(accounts []models.Account, now time.Time) models.Stats {
	stats := models.Stats{Total: len(accounts)}
	for _, acc := range accounts {
		stats.TotalPrice += acc.Price.Amount()

		days, ok := DaysUntil(acc, now)
		if !ok {
			continue
		}
		switch {
		case BucketOverdue.Contains(days):
			stats.Overdue++
		case BucketToday.Contains(days):
			stats.DueToday++
		case BucketWeek.Contains(days):
			stats.DueThisWeek++
		}
	}
	return stats
}

// DaysUntil возвращает число дней до продления записи.
// ok == false, если дата продления не разбирается.
func DaysUntil(acc models.Account, now time.Time) (int, bool) {
	days, err := calendar.DaysUntilDate(acc.RenewalDate, now)
	if err != nil {
		return 0, false
	}
	return days, true
}

// CountByBucket раскладывает записи по диапазонам, для BucketAll - общее число.
func CountByBucket(accounts []models.Account, now time.Time) map[Bucket]int {
	counts := make(map[Bucket]int, len(Buckets))
	counts[BucketAll] = len(accounts)
	for _, acc := range accounts {
		days, ok := DaysUntil(acc, now)
		if !ok {
			continue
		}
		for _, b := range Buckets[1:] {
			if b.Contains(days) {
				counts[b]++
			}
		}
	}
	return counts
}

func matchesSearch(acc models.Account, needle string) bool {
	return strings.Contains(strings.ToLower(acc.Email), needle) ||
		(acc.Notes != "" && strings.Contains(strings.ToLower(acc.Notes), needle))
}
