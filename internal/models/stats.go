package models

// Stats - сводка по всему списку учётных записей без учёта фильтров.
type Stats struct {
	Total       int     `json:"total"`         // Всего записей
	Overdue     int     `json:"overdue"`       // Просроченные
	DueToday    int     `json:"due_today"`     // Продление сегодня
	DueThisWeek int     `json:"due_this_week"` // Продление в ближайшие 1-7 дней
	TotalPrice  float64 `json:"total_price"`   // Сумма цен, нечисловые цены считаются нулём
}

// RenewalReminder - сообщение о приближающемся или просроченном продлении,
// которое планировщик публикует в очередь.
type RenewalReminder struct {
	AccountID   string  `json:"account_id"`
	Email       string  `json:"email"`
	RenewalDate string  `json:"renewal_date"`
	DaysUntil   int     `json:"days_until"`
	Label       string  `json:"label"`
	Price       float64 `json:"price"`
}
