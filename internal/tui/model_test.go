package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) List(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]models.Account)
	return accounts, args.Error(1)
}

func (m *StoreMock) Create(ctx context.Context, draft models.AccountDraft) (models.Account, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *StoreMock) Update(ctx context.Context, id string, patch models.AccountPatch) (models.Account, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *StoreMock) Delete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) Renew(ctx context.Context, acc models.Account) (models.Account, error) {
	args := m.Called(ctx, acc)
	return args.Get(0).(models.Account), args.Error(1)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// run выполняет команду и применяет её результат к модели.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	return m
}

func newLoadedModel(t *testing.T, store *StoreMock, accounts []models.Account) Model {
	t.Helper()
	m := New(context.Background(), store, discardLogger(), "PKR")
	m.now = func() time.Time { return testNow }
	store.On("List", mock.Anything).Return(accounts, nil).Once()
	return run(t, m, m.loadCmd())
}

func TestModel_Load(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, []models.Account{acc("a", 3, "")})
	assert.False(t, m.State().Loading)
	assert.Len(t, m.State().Accounts, 1)

	store.On("List", mock.Anything).Return(nil, errors.New("offline")).Once()
	m, cmd := send(t, m, key("l"))
	assert.True(t, m.State().Loading)
	m = run(t, m, cmd)
	assert.Equal(t, "Failed to load accounts. Please try again.", m.State().Err)
	store.AssertExpectations(t)
}

func TestModel_Add(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, nil)

	m, _ = send(t, m, key("a"))
	assert.Equal(t, modeForm, m.mode)
	m, _ = send(t, m, key("b@example.com"))

	m, cmd := send(t, m, key("enter"))
	assert.Nil(t, cmd, "renewal date is required")
	assert.Equal(t, modeForm, m.mode)

	m, _ = send(t, m, key("tab"))
	m, _ = send(t, m, key("2024-06-20"))
	m, _ = send(t, m, key("tab"))
	m, _ = send(t, m, key("9.99"))

	draft := models.AccountDraft{Email: "b@example.com", RenewalDate: "2024-06-20", Price: "9.99"}
	created := draft.ToAccount("b", testNow)
	store.On("Create", mock.Anything, draft).Return(created, nil).Once()

	m, cmd = send(t, m, key("enter"))
	assert.True(t, m.State().Loading)
	m = run(t, m, cmd)

	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.State().Loading)
	assert.Equal(t, []models.Account{created}, m.State().Accounts)
	assert.Equal(t, models.AccountDraft{}, m.State().Draft)
	store.AssertExpectations(t)
}

func TestModel_AddFailureKeepsForm(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, nil)

	m, _ = send(t, m, key("a"))
	m, _ = send(t, m, key("b@example.com"))
	m, _ = send(t, m, key("tab"))
	m, _ = send(t, m, key("2024-06-20"))

	store.On("Create", mock.Anything, mock.Anything).Return(models.Account{}, errors.New("500")).Once()
	m, cmd := send(t, m, key("enter"))
	m = run(t, m, cmd)

	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Failed to add account. Please try again.", m.State().Err)
	assert.Empty(t, m.State().Accounts)
}

func TestModel_EditAndCancel(t *testing.T) {
	store := new(StoreMock)
	a := acc("a", 3, "10")
	m := newLoadedModel(t, store, []models.Account{a})

	m, _ = send(t, m, key("e"))
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "a", m.State().EditingID)
	assert.Equal(t, a.Email, m.fields[fieldEmail].Value())

	m, _ = send(t, m, key("esc"))
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.State().Editing())

	m, _ = send(t, m, key("e"))
	m, _ = send(t, m, key("x"))

	updated := a
	updated.Email = a.Email + "x"
	store.On("Update", mock.Anything, "a", mock.MatchedBy(func(p models.AccountPatch) bool {
		return p.Email != nil && *p.Email == updated.Email && p.LastRenewalDate == nil
	})).Return(updated, nil).Once()

	m, cmd := send(t, m, key("enter"))
	m = run(t, m, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.State().Editing())
	assert.Equal(t, updated.Email, m.State().Accounts[0].Email)
	store.AssertExpectations(t)
}

func TestModel_Renew(t *testing.T) {
	store := new(StoreMock)
	late := acc("late", -3, "")
	soon := acc("soon", 5, "")
	m := newLoadedModel(t, store, []models.Account{soon, late})

	renewed, err := tracker.Renew(late)
	require.NoError(t, err)
	store.On("Renew", mock.Anything, late).Return(renewed, nil).Once()

	m, cmd := send(t, m, key("r"))
	m = run(t, m, cmd)
	got, ok := m.State().Find("late")
	require.True(t, ok)
	assert.Equal(t, renewed.RenewalDate, got.RenewalDate)
	assert.Equal(t, late.RenewalDate, got.LastRenewalDate)

	store.On("Renew", mock.Anything, mock.Anything).Return(models.Account{}, errors.New("boom")).Once()
	m, _ = send(t, m, key("j"))
	m, cmd = send(t, m, key("r"))
	m = run(t, m, cmd)
	assert.Equal(t, "Failed to renew account. Please try again.", m.State().Err)
	store.AssertExpectations(t)
}

func TestModel_DeleteConfirmation(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, []models.Account{acc("a", 1, ""), acc("b", 2, "")})

	m, _ = send(t, m, key("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Are you sure you want to delete a@example.com?")

	m, cmd := send(t, m, key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.State().Accounts, 2)

	store.On("Delete", mock.Anything, "a").Return("a", nil).Once()
	m, _ = send(t, m, key("d"))
	m, cmd = send(t, m, key("y"))
	m = run(t, m, cmd)
	require.Len(t, m.State().Accounts, 1)
	assert.Equal(t, "b", m.State().Accounts[0].ID)
	store.AssertExpectations(t)
}

func TestModel_SearchFilterSort(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, []models.Account{
		acc("alpha", 1, ""),
		acc("beta", 10, ""),
		acc("gamma", -1, ""),
	})

	m, _ = send(t, m, key("/"))
	assert.Equal(t, modeSearch, m.mode)
	m, _ = send(t, m, key("bet"))
	assert.Equal(t, "bet", m.State().Query.Search)
	m, _ = send(t, m, key("enter"))
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.State().Visible(testNow), 1)

	m, _ = send(t, m, key("/"))
	m, _ = send(t, m, key("esc"))
	assert.Empty(t, m.State().Query.Search)

	m, _ = send(t, m, key("f"))
	assert.Equal(t, tracker.BucketOverdue, m.State().Query.Bucket)
	m, _ = send(t, m, key("s"))
	assert.Equal(t, tracker.SortDesc, m.State().Query.Sort)
	m, _ = send(t, m, key("t"))
	assert.True(t, m.State().ShowStats)
}

func TestModel_View(t *testing.T) {
	store := new(StoreMock)
	m := New(context.Background(), store, discardLogger(), "PKR")
	m.now = func() time.Time { return testNow }
	assert.Contains(t, m.View(), "loading accounts")

	store.On("List", mock.Anything).Return([]models.Account{acc("today", 0, "1500"), acc("late", -4, "")}, nil).Once()
	m = run(t, m, m.loadCmd())
	m, _ = send(t, m, key("t"))

	view := m.View()
	assert.Contains(t, view, "Netflix Renewal Tracker")
	assert.Contains(t, view, "today@example.com")
	assert.Contains(t, view, "Renews today!")
	assert.Contains(t, view, "Renewal overdue by 4 days")
	assert.Contains(t, view, "PKR 1500.00")
}

func TestModel_Quit(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, nil)

	_, cmd := send(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = send(t, m, key("a"))
	m, _ = send(t, m, key("q"))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "q", m.fields[fieldEmail].Value())
}

func TestModel_ToolbarShowsBucketCount(t *testing.T) {
	store := new(StoreMock)
	m := newLoadedModel(t, store, []models.Account{acc("a", -1, ""), acc("b", -5, ""), acc("c", 3, "")})

	assert.Contains(t, m.View(), "All Accounts (3)")
	m, _ = send(t, m, key("f"))
	assert.Contains(t, m.View(), "Overdue (2)")
}
