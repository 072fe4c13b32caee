// Package models содержит доменные структуры трекера продлений:
// учётную запись подписки, формы создания и частичного обновления,
// сводную статистику и сообщение-напоминание для очереди.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// StatusActive - единственный статус, который получает запись при создании.
const StatusActive = "active"

// Account представляет отслеживаемую учётную запись подписки.
// Даты продления хранятся строками формата YYYY-MM-DD.
type Account struct {
	ID              string    `json:"id"`                          // Непрозрачный идентификатор, выдаётся хранилищем
	Email           string    `json:"email"`                       // Почта владельца учётной записи
	RenewalDate     string    `json:"renewal_date"`                // Следующая дата продления
	Price           Price     `json:"price,omitempty"`             // Ежемесячная цена
	Notes           string    `json:"notes,omitempty"`             // Произвольные заметки
	Status          string    `json:"status"`                      // Всегда "active"
	LastRenewalDate string    `json:"last_renewal_date,omitempty"` // Дата продления до последнего renew
	CreatedAt       time.Time `json:"created_at"`                  // Момент создания записи
}

// AccountDraft принимает данные формы создания учётной записи.
type AccountDraft struct {
	Email       string `json:"email" validate:"required"`
	RenewalDate string `json:"renewal_date" validate:"required,datetime=2006-01-02"`
	Price       Price  `json:"price,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Normalize убирает пробелы по краям почты и даты продления.
// Проверка обязательных полей выполняется уже над результатом.
func (d AccountDraft) Normalize() AccountDraft {
	d.Email = strings.TrimSpace(d.Email)
	d.RenewalDate = strings.TrimSpace(d.RenewalDate)
	return d
}

// ToAccount собирает новую запись из черновика: статус active,
// дата последнего продления равна текущей дате продления.
func (d AccountDraft) ToAccount(id string, createdAt time.Time) Account {
	return Account{
		ID:              id,
		Email:           d.Email,
		RenewalDate:     d.RenewalDate,
		Price:           d.Price,
		Notes:           d.Notes,
		Status:          StatusActive,
		LastRenewalDate: d.RenewalDate,
		CreatedAt:       createdAt,
	}
}

// AccountPatch описывает частичное обновление: перезаписываются только
// поля, отличные от nil, остальные остаются нетронутыми.
type AccountPatch struct {
	Email           *string `json:"email,omitempty" validate:"omitempty,min=1"`
	RenewalDate     *string `json:"renewal_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Price           *Price  `json:"price,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	LastRenewalDate *string `json:"last_renewal_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// IsEmpty сообщает, что патч ничего не меняет.
func (p AccountPatch) IsEmpty() bool {
	return p.Email == nil && p.RenewalDate == nil && p.Price == nil &&
		p.Notes == nil && p.LastRenewalDate == nil
}

// Normalize убирает пробелы по краям переданных почты и дат.
func (p AccountPatch) Normalize() AccountPatch {
	p.Email = trimmed(p.Email)
	p.RenewalDate = trimmed(p.RenewalDate)
	p.LastRenewalDate = trimmed(p.LastRenewalDate)
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// PatchFromDraft превращает значения формы редактирования в патч,
// перезаписывающий все четыре редактируемых поля.
func PatchFromDraft(d AccountDraft) AccountPatch {
	return AccountPatch{
		Email:       &d.Email,
		RenewalDate: &d.RenewalDate,
		Price:       &d.Price,
		Notes:       &d.Notes,
	}
}

// Price хранит цену в том виде, в котором её ввёл пользователь.
// Из JSON принимается число, строка или null.
type Price string

// Amount возвращает числовое значение цены; пустая или нечисловая цена даёт 0.
func (p Price) Amount() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// UnmarshalJSON принимает как "9.99", так и 9.99.
func (p *Price) UnmarshalJSON(data []byte) error {
	const op = "models.Price.UnmarshalJSON"
	if string(data) == "null" {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*p = Price(n.String())
	return nil
}
