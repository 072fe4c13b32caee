package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

// Store - удалённое хранилище учётных записей.
type Store interface {
	List(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, draft models.AccountDraft) (models.Account, error)
	Update(ctx context.Context, id string, patch models.AccountPatch) (models.Account, error)
	Delete(ctx context.Context, id string) (string, error)
	Renew(ctx context.Context, acc models.Account) (models.Account, error)
}

type accountsLoadedMsg struct {
	accounts []models.Account
	err      error
}

type accountAddedMsg struct {
	account models.Account
	err     error
}

type accountUpdatedMsg struct {
	account models.Account
	err     error
}

type accountDeletedMsg struct {
	id  string
	err error
}

type accountRenewedMsg struct {
	account models.Account
	err     error
}

type screenMode int

const (
	modeList screenMode = iota
	modeForm
	modeSearch
	modeConfirmDelete
)

const (
	fieldEmail = iota
	fieldRenewalDate
	fieldPrice
	fieldNotes
	fieldCount
)

// Model - bubbletea-модель дашборда.
type Model struct {
	ctx      context.Context
	store    Store
	log      *slog.Logger
	state    *State
	currency string
	now      func() time.Time

	mode      screenMode
	cursor    int
	focus     int
	fields    []textinput.Model
	search    textinput.Model
	spinner   spinner.Model
	confirmID string
	width     int
	height    int
}

// New собирает модель дашборда.
func New(ctx context.Context, store Store, log *slog.Logger, currency string) Model {
	fields := make([]textinput.Model, fieldCount)
	placeholders := []string{"email@example.com", "YYYY-MM-DD", "0.00", "notes"}
	prompts := []string{"Email: ", "Renewal date: ", "Price: ", "Notes: "}
	for i := range fields {
		in := textinput.New()
		in.Prompt = prompts[i]
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		in.Width = 48
		fields[i] = in
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by email or notes"
	search.CharLimit = 128
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:      ctx,
		store:    store,
		log:      log,
		state:    NewState(log),
		currency: currency,
		now:      time.Now,
		fields:   fields,
		search:   search,
		spinner:  sp,
	}
}

// State возвращает состояние контроллера.
func (m Model) State() *State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		accounts, err := m.store.List(m.ctx)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m Model) addCmd(draft models.AccountDraft) tea.Cmd {
	return func() tea.Msg {
		acc, err := m.store.Create(m.ctx, draft)
		return accountAddedMsg{account: acc, err: err}
	}
}

func (m Model) updateCmd(id string, patch models.AccountPatch) tea.Cmd {
	return func() tea.Msg {
		acc, err := m.store.Update(m.ctx, id, patch)
		return accountUpdatedMsg{account: acc, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Delete(m.ctx, id)
		return accountDeletedMsg{id: id, err: err}
	}
}

func (m Model) renewCmd(acc models.Account) tea.Cmd {
	return func() tea.Msg {
		renewed, err := m.store.Renew(m.ctx, acc)
		return accountRenewedMsg{account: renewed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case accountsLoadedMsg:
		m.state.ApplyLoaded(msg.accounts, msg.err)
		m.clampCursor()
		return m, nil

	case accountAddedMsg:
		m.state.ApplyAdded(msg.account, msg.err)
		if msg.err == nil {
			m.closeForm()
		}
		return m, nil

	case accountUpdatedMsg:
		m.state.ApplyUpdated(msg.account, msg.err)
		if msg.err == nil {
			m.closeForm()
		}
		return m, nil

	case accountDeletedMsg:
		m.state.ApplyDeleted(msg.id, msg.err)
		m.clampCursor()
		return m, nil

	case accountRenewedMsg:
		m.state.ApplyRenewed(msg.account, msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.state.Visible(m.now())
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "/":
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		m.state.NextBucket()
		m.cursor = 0
	case "s":
		m.state.ToggleSort()
	case "t":
		m.state.ToggleStats()
	case "l":
		m.state.BeginLoad()
		return m, m.loadCmd()
	case "a":
		m.state.CancelEdit()
		cmd := m.openForm()
		return m, cmd
	case "e":
		if acc, ok := m.selected(visible); ok {
			m.state.StartEditing(acc)
			cmd := m.openForm()
			return m, cmd
		}
	case "d":
		if acc, ok := m.selected(visible); ok {
			m.confirmID = acc.ID
			m.mode = modeConfirmDelete
		}
	case "r":
		if acc, ok := m.selected(visible); ok {
			return m, m.renewCmd(acc)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state.CancelEdit()
		m.closeForm()
		return m, nil
	case "tab", "down":
		cmd := m.focusField((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "enter":
		m.syncDraft()
		if !m.state.CanSubmit() {
			return m, nil
		}
		if m.state.Editing() {
			return m, m.updateCmd(m.state.EditingID, m.state.EditPatch())
		}
		m.state.BeginAdd()
		return m, m.addCmd(m.state.Draft)
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	m.syncDraft()
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.state.SetSearch("")
		m.mode = modeList
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmID
	m.confirmID = ""
	m.mode = modeList
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		return m, m.deleteCmd(id)
	}
	return m, nil
}

func (m *Model) openForm() tea.Cmd {
	m.mode = modeForm
	values := []string{
		m.state.Draft.Email,
		m.state.Draft.RenewalDate,
		string(m.state.Draft.Price),
		m.state.Draft.Notes,
	}
	for i := range m.fields {
		m.fields[i].SetValue(values[i])
	}
	return m.focusField(fieldEmail)
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.fields {
		m.fields[i].Blur()
		m.fields[i].SetValue("")
	}
	m.focus = fieldEmail
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.fields {
		if j == i {
			cmd = m.fields[j].Focus()
			continue
		}
		m.fields[j].Blur()
	}
	return cmd
}

func (m *Model) syncDraft() {
	m.state.Draft = models.AccountDraft{
		Email:       strings.TrimSpace(m.fields[fieldEmail].Value()),
		RenewalDate: strings.TrimSpace(m.fields[fieldRenewalDate].Value()),
		Price:       models.Price(strings.TrimSpace(m.fields[fieldPrice].Value())),
		Notes:       m.fields[fieldNotes].Value(),
	}
}

func (m Model) selected(visible []models.Account) (models.Account, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Account{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible(m.now()))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Run запускает дашборд в альтернативном экране терминала.
func Run(ctx context.Context, store Store, log *slog.Logger, currency string) error {
	p := tea.NewProgram(New(ctx, store, log, currency), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
