package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/calendar"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

const accountColumns = `id, email, renewal_date, price, notes, status, last_renewal_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		acc         models.Account
		price       string
		renewal     time.Time
		lastRenewal time.Time
	)
	if err := row.Scan(&acc.ID, &acc.Email, &renewal, &price, &acc.Notes,
		&acc.Status, &lastRenewal, &acc.CreatedAt); err != nil {
		return nil, err
	}
	acc.Price = models.Price(price)
	acc.RenewalDate = calendar.FormatDate(renewal)
	acc.LastRenewalDate = calendar.FormatDate(lastRenewal)
	return &acc, nil
}

// CreateAccount вставляет новую запись и возвращает её с выданным идентификатором.
func (s *Storage) CreateAccount(ctx context.Context, draft models.AccountDraft) (*models.Account, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	entry := draft.ToAccount(uuid.NewString(), time.Now().UTC())
	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + accountColumns
	row := s.DB.QueryRowContext(ctx, query,
		entry.ID, entry.Email, entry.RenewalDate, string(entry.Price), entry.Notes,
		entry.Status, entry.LastRenewalDate, entry.CreatedAt)
	acc, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// ListAccounts возвращает все записи в порядке возрастания даты продления.
func (s *Storage) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const op = "storage.ListAccounts"
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  ORDER BY renewal_date, created_at`
	return s.queryAccounts(ctx, op, query)
}

// ListAccountsDueBefore возвращает записи с датой продления не позже date.
func (s *Storage) ListAccountsDueBefore(ctx context.Context, date string) ([]models.Account, error) {
	const op = "storage.ListAccountsDueBefore"
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE renewal_date <= $1
			  ORDER BY renewal_date, created_at`
	return s.queryAccounts(ctx, op, query, date)
}

func (s *Storage) queryAccounts(ctx context.Context, op, query string, args ...any) ([]models.Account, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadAccount возвращает запись по идентификатору.
func (s *Storage) ReadAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.ReadAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// UpdateAccount сливает патч с записью: меняются только переданные поля.
// Возвращает запись в состоянии после обновления.
func (s *Storage) UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.RenewalDate != nil {
		set("renewal_date", *patch.RenewalDate)
	}
	if patch.Price != nil {
		set("price", string(*patch.Price))
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.LastRenewalDate != nil {
		set("last_renewal_date", *patch.LastRenewalDate)
	}
	if len(sets) == 0 {
		return s.ReadAccount(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// RemoveAccount удаляет запись по идентификатору.
func (s *Storage) RemoveAccount(ctx context.Context, id string) error {
	const op = "storage.RemoveAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	return nil
}
