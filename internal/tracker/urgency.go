package tracker

import "fmt"

// Urgency - уровень срочности продления для подсветки в интерфейсе.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyUrgent
	UrgencyOverdue
)

// UrgentWithinDays - продления не дальше этого числа дней считаются срочными.
const UrgentWithinDays = 2

// UrgencyOf классифицирует число дней до продления.
func UrgencyOf(days int) Urgency {
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= UrgentWithinDays:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// DueLabel возвращает человекочитаемую подпись срока продления.
func DueLabel(days int) string {
	switch {
	case days == 0:
		return "Renews today!"
	case days == 1:
		return "Renews tomorrow!"
	case days == 2:
		return "Renews in 2 days!"
	case days < 0:
		return fmt.Sprintf("Renewal overdue by %d days", -days)
	default:
		return fmt.Sprintf("%d days until renewal", days)
	}
}
