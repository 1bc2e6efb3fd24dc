package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lu-zhengda/mailsift/internal/domain"
)

// CreateAccount inserts a new account.
func (s *DB) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, display_name, imap_host, imap_port, use_tls)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.Email, account.DisplayName,
		account.IMAPHost, account.IMAPPort, account.UseTLS)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *DB) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	var displayName, host sql.NullString
	var port sql.NullInt64
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, imap_host, imap_port, use_tls, created_at
		FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Email, &displayName, &host, &port, &a.UseTLS, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	a.DisplayName = displayName.String
	a.IMAPHost = host.String
	a.IMAPPort = int(port.Int64)
	a.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return &a, nil
}

// ListAccounts returns all accounts ordered by creation time.
func (s *DB) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, display_name, imap_host, imap_port, use_tls, created_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var displayName, host sql.NullString
		var port sql.NullInt64
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Email, &displayName, &host, &port, &a.UseTLS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.DisplayName = displayName.String
		a.IMAPHost = host.String
		a.IMAPPort = int(port.Int64)
		a.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes an account; owned messages cascade.
func (s *DB) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}
