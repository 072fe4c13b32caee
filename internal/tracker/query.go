// Package tracker содержит чистую доменную логику трекера продлений:
// фильтрацию и сортировку списка учётных записей, сводную статистику,
// правило продления и подписи срочности для интерфейса.
package tracker

import (
	"fmt"
	"strings"
)

// Bucket - диапазон дней до продления, по которому фильтруется список.
type Bucket string

const (
	BucketAll     Bucket = "all"
	BucketOverdue Bucket = "overdue"
	BucketToday   Bucket = "today"
	BucketWeek    Bucket = "week"
	BucketMonth   Bucket = "month"
	BucketFuture  Bucket = "future"
)

// Buckets перечисляет все диапазоны в порядке показа в интерфейсе.
var Buckets = []Bucket{BucketAll, BucketOverdue, BucketToday, BucketWeek, BucketMonth, BucketFuture}

// ParseBucket разбирает имя диапазона; пустая строка означает BucketAll.
func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return BucketAll, nil
	}
	b := Bucket(strings.ToLower(s))
	for _, known := range Buckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// Contains сообщает, попадает ли запись с days днями до продления в диапазон.
func (b Bucket) Contains(days int) bool {
	switch b {
	case BucketOverdue:
		return days < 0
	case BucketToday:
		return days == 0
	case BucketWeek:
		return days > 0 && days <= 7
	case BucketMonth:
		return days > 7 && days <= 30
	case BucketFuture:
		return days > 30
	default:
		return true
	}
}

// Label возвращает подпись диапазона для селектора.
func (b Bucket) Label() string {
	switch b {
	case BucketOverdue:
		return "Overdue"
	case BucketToday:
		return "Due Today"
	case BucketWeek:
		return "Next 7 Days"
	case BucketMonth:
		return "8-30 Days"
	case BucketFuture:
		return "Over 30 Days"
	default:
		return "All Accounts"
	}
}

// Next возвращает следующий диапазон по кругу.
func (b Bucket) Next() Bucket {
	for i, known := range Buckets {
		if known == b {
			return Buckets[(i+1)%len(Buckets)]
		}
	}
	return BucketAll
}

// SortOrder - направление сортировки по дате продления.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder разбирает направление сортировки; пустая строка означает SortAsc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Toggle меняет направление на противоположное.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Label возвращает подпись переключателя сортировки.
func (o SortOrder) Label() string {
	if o == SortDesc {
		return "Latest First"
	}
	return "Earliest First"
}

// Query объединяет параметры, выбранные пользователем.
type Query struct {
	Search string
	Bucket Bucket
	Sort   SortOrder
}

// DefaultQuery - все записи, ближайшие продления первыми.
func DefaultQuery() Query {
	return Query{Bucket: BucketAll, Sort: SortAsc}
}
