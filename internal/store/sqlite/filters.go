package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

// CreateFilter inserts a filter along with its conditions and actions
// in a single transaction.
func (s *DB) CreateFilter(ctx context.Context, filter *domain.Filter) error {
	if filter.ID == "" {
		filter.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO filters (id, account_id, name, priority, match_all, is_enabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		filter.ID, filter.AccountID, filter.Name, filter.Priority, filter.MatchAll, filter.IsEnabled)
	if err != nil {
		return fmt.Errorf("failed to insert filter: %w", err)
	}

	for i := range filter.Conditions {
		c := &filter.Conditions[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.FilterID = filter.ID
		c.Position = i
		_, err = tx.ExecContext(ctx, `
			INSERT INTO filter_conditions (id, filter_id, field, operator, value, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.FilterID, string(c.Field), string(c.Operator), c.Value, c.Position)
		if err != nil {
			return fmt.Errorf("failed to insert filter condition: %w", err)
		}
	}

	for i := range filter.Actions {
		a := &filter.Actions[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.FilterID = filter.ID
		a.Position = i
		_, err = tx.ExecContext(ctx, `
			INSERT INTO filter_actions (id, filter_id, type, value, position)
			VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.FilterID, string(a.Type), a.Value, a.Position)
		if err != nil {
			return fmt.Errorf("failed to insert filter action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit filter: %w", err)
	}
	return nil
}

// GetFilter retrieves a filter with its conditions and actions.
func (s *DB) GetFilter(ctx context.Context, id string) (*domain.Filter, error) {
	var f domain.Filter
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, priority, match_all, is_enabled, created_at
		FROM filters WHERE id = ?`, id,
	).Scan(&f.ID, &f.AccountID, &f.Name, &f.Priority, &f.MatchAll, &f.IsEnabled, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get filter %s: %w", id, err)
	}
	f.CreatedAt, _ = time.Parse(time.DateTime, createdAt)

	if err := s.loadFilterRules(ctx, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFilters returns filters ordered by priority descending, with
// insertion order breaking ties.
func (s *DB) ListFilters(ctx context.Context, opts store.ListFilterOptions) ([]domain.Filter, error) {
	query := `SELECT id, account_id, name, priority, match_all, is_enabled
		FROM filters WHERE 1=1`
	var args []any
	if opts.AccountID != "" {
		query += ` AND (account_id = ? OR account_id = '')`
		args = append(args, opts.AccountID)
	}
	if opts.EnabledOnly {
		query += ` AND is_enabled = TRUE`
	}
	query += ` ORDER BY priority DESC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	var filters []domain.Filter
	for rows.Next() {
		var f domain.Filter
		if err := rows.Scan(&f.ID, &f.AccountID, &f.Name, &f.Priority, &f.MatchAll, &f.IsEnabled); err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate filters: %w", err)
	}

	for i := range filters {
		if err := s.loadFilterRules(ctx, &filters[i]); err != nil {
			return nil, err
		}
	}
	return filters, nil
}

// CountFilters returns the total and enabled filter counts.
func (s *DB) CountFilters(ctx context.Context) (total, enabled int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_enabled), 0) FROM filters`).Scan(&total, &enabled)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count filters: %w", err)
	}
	return total, enabled, nil
}

// SetFilterEnabled toggles a filter on or off.
func (s *DB) SetFilterEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE filters SET is_enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to set filter %s enabled=%v: %w", id, enabled, err)
	}
	return nil
}

// DeleteFilter removes a filter; conditions and actions cascade.
func (s *DB) DeleteFilter(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", id, err)
	}
	return nil
}

func (s *DB) loadFilterRules(ctx context.Context, f *domain.Filter) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, field, operator, value FROM filter_conditions
		WHERE filter_id = ? ORDER BY position`, f.ID)
	if err != nil {
		return fmt.Errorf("failed to query filter conditions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := domain.Condition{FilterID: f.ID}
		var field, operator string
		var value sql.NullString
		if err := rows.Scan(&c.ID, &field, &operator, &value); err != nil {
			return fmt.Errorf("failed to scan filter condition: %w", err)
		}
		c.Field = domain.Field(field)
		c.Operator = domain.Operator(operator)
		c.Value = value.String
		f.Conditions = append(f.Conditions, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate filter conditions: %w", err)
	}

	actionRows, err := s.db.QueryContext(ctx, `
		SELECT id, type, value FROM filter_actions
		WHERE filter_id = ? ORDER BY position`, f.ID)
	if err != nil {
		return fmt.Errorf("failed to query filter actions: %w", err)
	}
	defer actionRows.Close()

	for actionRows.Next() {
		a := domain.Action{FilterID: f.ID}
		var actionType string
		var value sql.NullString
		if err := actionRows.Scan(&a.ID, &actionType, &value); err != nil {
			return fmt.Errorf("failed to scan filter action: %w", err)
		}
		a.Type = domain.ActionType(actionType)
		a.Value = value.String
		f.Actions = append(f.Actions, a)
	}
	if err := actionRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate filter actions: %w", err)
	}
	return nil
}
