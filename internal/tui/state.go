// Package tui реализует консольный дашборд трекера: явное состояние
// контроллера и bubbletea-модель, которая его отображает.
package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

// Operation - удалённая операция, результат которой применяется к состоянию.
type Operation string

const (
	OpLoad   Operation = "load"
	OpAdd    Operation = "add"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpRenew  Operation = "renew"
)

// FailureMessage возвращает текст, который видит пользователь при ошибке операции.
func (o Operation) FailureMessage() string {
	switch o {
	case OpLoad:
		return "Failed to load accounts. Please try again."
	case OpAdd:
		return "Failed to add account. Please try again."
	case OpUpdate:
		return "Failed to update account. Please try again."
	case OpDelete:
		return "Failed to delete account. Please try again."
	case OpRenew:
		return "Failed to renew account. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// State - состояние контроллера. Меняется только в одной горутине обновления,
// после того как удалённый вызов вернул результат.
type State struct {
	Accounts  []models.Account
	EditingID string
	Draft     models.AccountDraft
	Loading   bool
	Err       string
	Query     tracker.Query
	ShowStats bool

	log *slog.Logger
}

// NewState возвращает состояние на момент запуска: список ещё загружается.
func NewState(log *slog.Logger) *State {
	return &State{
		Accounts: []models.Account{},
		Loading:  true,
		Query:    tracker.DefaultQuery(),
		log:      log,
	}
}

// Visible - записи после поиска, фильтра и сортировки.
func (s *State) Visible(now time.Time) []models.Account {
	return tracker.SelectAndOrder(s.Accounts, s.Query, now)
}

// Stats - сводка по всему кэшированному списку без учёта фильтров.
func (s *State) Stats(now time.Time) models.Stats {
	return tracker.Summarize(s.Accounts, now)
}

// Find ищет запись в кэше по идентификатору.
func (s *State) Find(id string) (models.Account, bool) {
	for _, acc := range s.Accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return models.Account{}, false
}

// CanSubmit сообщает, заполнены ли обязательные поля формы.
func (s *State) CanSubmit() bool {
	return strings.TrimSpace(s.Draft.Email) != "" && strings.TrimSpace(s.Draft.RenewalDate) != ""
}

// Editing сообщает, что форма редактирует существующую запись.
func (s *State) Editing() bool {
	return s.EditingID != ""
}

// BeginLoad отмечает начало загрузки списка.
func (s *State) BeginLoad() {
	s.Loading = true
}

// BeginAdd отмечает начало добавления записи.
func (s *State) BeginAdd() {
	s.Loading = true
}

func (s *State) fail(op Operation, err error) {
	if s.log != nil {
		s.log.Error("remote operation failed", slog.String("operation", string(op)), sl.Err(err))
	}
	s.Err = op.FailureMessage()
}

// ApplyLoaded заменяет кэш загруженным списком.
func (s *State) ApplyLoaded(accounts []models.Account, err error) {
	s.Loading = false
	if err != nil {
		s.fail(OpLoad, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	s.Accounts = accounts
	s.Err = ""
}

// ApplyAdded дописывает созданную запись и очищает форму.
func (s *State) ApplyAdded(acc models.Account, err error) {
	s.Loading = false
	if err != nil {
		s.fail(OpAdd, err)
		return
	}
	s.Accounts = append(s.Accounts, acc)
	s.Draft = models.AccountDraft{}
	s.Err = ""
}

// StartEditing переводит форму в режим редактирования acc.
func (s *State) StartEditing(acc models.Account) {
	s.EditingID = acc.ID
	s.Draft = models.AccountDraft{
		Email:       acc.Email,
		RenewalDate: acc.RenewalDate,
		Price:       acc.Price,
		Notes:       acc.Notes,
	}
}

// CancelEdit выходит из режима редактирования без сохранения.
func (s *State) CancelEdit() {
	s.EditingID = ""
	s.Draft = models.AccountDraft{}
}

// EditPatch - патч, который сохраняет значения формы в редактируемую запись.
func (s *State) EditPatch() models.AccountPatch {
	return models.PatchFromDraft(s.Draft)
}

// ApplyUpdated заменяет запись в кэше версией сервера.
// При ошибке форма остаётся открытой.
func (s *State) ApplyUpdated(acc models.Account, err error) {
	if err != nil {
		s.fail(OpUpdate, err)
		return
	}
	s.replace(acc)
	s.EditingID = ""
	s.Draft = models.AccountDraft{}
	s.Err = ""
}

// ApplyDeleted убирает запись из кэша.
func (s *State) ApplyDeleted(id string, err error) {
	if err != nil {
		s.fail(OpDelete, err)
		return
	}
	kept := s.Accounts[:0:0]
	for _, acc := range s.Accounts {
		if acc.ID != id {
			kept = append(kept, acc)
		}
	}
	s.Accounts = kept
	if s.EditingID == id {
		s.CancelEdit()
	}
	s.Err = ""
}

// ApplyRenewed заменяет запись продлённой версией.
func (s *State) ApplyRenewed(acc models.Account, err error) {
	if err != nil {
		s.fail(OpRenew, err)
		return
	}
	s.replace(acc)
	s.Err = ""
}

func (s *State) replace(acc models.Account) {
	for i := range s.Accounts {
		if s.Accounts[i].ID == acc.ID {
			s.Accounts[i] = acc
			return
		}
	}
}

// SetSearch меняет строку поиска.
func (s *State) SetSearch(term string) {
	s.Query.Search = term
}

// NextBucket переключает фильтр на следующий диапазон.
func (s *State) NextBucket() {
	s.Query.Bucket = s.Query.Bucket.Next()
}

// ToggleSort меняет направление сортировки.
func (s *State) ToggleSort() {
	s.Query.Sort = s.Query.Sort.Toggle()
}

// ToggleStats показывает или скрывает панель сводки.
func (s *State) ToggleStats() {
	s.ShowStats = !s.ShowStats
}
