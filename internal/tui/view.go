package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E50914")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E50914"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Bold(true)
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)
	normalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))

	statCard     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6B7280")).Padding(0, 1)
	accountCard  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	selectedCard = accountCard.BorderForeground(lipgloss.Color("#FFD54A"))
	formCard     = accountCard.BorderForeground(lipgloss.Color("#E50914"))
)

func urgencyStyle(u tracker.Urgency) lipgloss.Style {
	switch u {
	case tracker.UrgencyOverdue:
		return overdueStyle
	case tracker.UrgencyUrgent:
		return urgentStyle
	default:
		return normalStyle
	}
}

func (m Model) View() string {
	now := m.now()
	sections := []string{titleStyle.Render("Netflix Renewal Tracker")}

	if m.state.ShowStats {
		sections = append(sections, m.renderStats(m.state.Stats(now)))
	}
	sections = append(sections, m.renderToolbar())

	if m.state.Err != "" {
		sections = append(sections, errorStyle.Render(m.state.Err))
	}

	switch m.mode {
	case modeForm:
		sections = append(sections, m.renderForm())
	case modeConfirmDelete:
		sections = append(sections, errorStyle.Render(m.confirmPrompt()))
	}

	if m.state.Loading {
		sections = append(sections, m.spinner.View()+" loading accounts...")
	} else {
		sections = append(sections, m.renderAccounts(m.state.Visible(now), now))
	}

	sections = append(sections, mutedStyle.Render(m.helpLine()))
	return strings.Join(sections, "\n\n")
}

func (m Model) renderStats(st models.Stats) string {
	cards := []string{
		statCard.Render(labelStyle.Render("Total") + "\n" + strconv.Itoa(st.Total)),
		statCard.Render(overdueStyle.Render("Overdue") + "\n" + strconv.Itoa(st.Overdue)),
		statCard.Render(urgentStyle.Render("Due Today") + "\n" + strconv.Itoa(st.DueToday)),
		statCard.Render(normalStyle.Render("This Week") + "\n" + strconv.Itoa(st.DueThisWeek)),
		statCard.Render(labelStyle.Render("Monthly") + "\n" + m.formatAmount(st.TotalPrice)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderToolbar() string {
	q := m.state.Query
	search := q.Search
	if m.mode == modeSearch {
		search = m.search.View()
	} else if search == "" {
		search = mutedStyle.Render("(no search)")
	} else {
		search = "search: " + search
	}
	counts := tracker.CountByBucket(m.state.Accounts, m.now())
	return fmt.Sprintf("%s   %s %s (%d)   %s %s",
		search,
		labelStyle.Render("filter:"), q.Bucket.Label(), counts[q.Bucket],
		labelStyle.Render("sort:"), q.Sort.Label(),
	)
}

func (m Model) renderForm() string {
	title := "Add New Account"
	if m.state.Editing() {
		title = "Edit Account"
	}
	lines := []string{labelStyle.Render(title)}
	for _, f := range m.fields {
		lines = append(lines, f.View())
	}
	if !m.state.CanSubmit() {
		lines = append(lines, mutedStyle.Render("email and renewal date are required"))
	}
	return formCard.Render(strings.Join(lines, "\n"))
}

func (m Model) confirmPrompt() string {
	email := m.confirmID
	if acc, ok := m.state.Find(m.confirmID); ok {
		email = acc.Email
	}
	return fmt.Sprintf("Are you sure you want to delete %s? (y/n)", email)
}

func (m Model) renderAccounts(accounts []models.Account, now time.Time) string {
	if len(accounts) == 0 {
		if len(m.state.Accounts) == 0 {
			return mutedStyle.Render("No accounts yet. Press a to add one.")
		}
		return mutedStyle.Render("No accounts match the current search and filter.")
	}

	cards := make([]string, 0, len(accounts))
	for i, acc := range accounts {
		due := mutedStyle.Render("invalid renewal date")
		if days, ok := tracker.DaysUntil(acc, now); ok {
			due = urgencyStyle(tracker.UrgencyOf(days)).Render(tracker.DueLabel(days))
		}
		lines := []string{
			labelStyle.Render(acc.Email) + "  " + due,
			"Renewal: " + acc.RenewalDate + "   Price: " + m.formatPrice(acc.Price),
		}
		if acc.LastRenewalDate != "" {
			lines = append(lines, mutedStyle.Render("Last renewed: "+acc.LastRenewalDate))
		}
		if acc.Notes != "" {
			lines = append(lines, mutedStyle.Render(acc.Notes))
		}
		card := accountCard
		if i == m.cursor {
			card = selectedCard
		}
		cards = append(cards, card.Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeForm:
		return "tab next field • enter save • esc cancel"
	case modeSearch:
		return "enter apply • esc clear"
	case modeConfirmDelete:
		return "y delete • any other key cancel"
	default:
		return "↑/↓ move • a add • e edit • r renew • d delete • / search • f filter • s sort • t stats • l reload • q quit"
	}
}

func (m Model) formatPrice(p models.Price) string {
	if strings.TrimSpace(string(p)) == "" {
		return "-"
	}
	return m.formatAmount(p.Amount())
}

func (m Model) formatAmount(v float64) string {
	return fmt.Sprintf("%s %.2f", m.currency, v)
}
