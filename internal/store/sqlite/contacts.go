package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// UpsertContact records a correspondent, bumping the seen counter if
// the address is already known. A later non-empty name replaces an
// empty one but never overwrites an existing name.
func (s *DB) UpsertContact(ctx context.Context, email, name string) error {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, email, name, times_seen, last_seen_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(email) DO UPDATE SET
			times_seen   = times_seen + 1,
			last_seen_at = excluded.last_seen_at,
			name         = CASE WHEN name = '' OR name IS NULL THEN excluded.name ELSE name END`,
		uuid.NewString(), addr, name, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert contact %s: %w", addr, err)
	}
	return nil
}

// ListContacts returns all collected contacts ordered by how often
// they have been seen.
func (s *DB) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, times_seen, last_seen_at FROM contacts
		ORDER BY times_seen DESC, email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		var name, lastSeen sql.NullString
		if err := rows.Scan(&c.ID, &c.Email, &name, &c.TimesSeen, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Name = name.String
		if lastSeen.Valid {
			if t, err := time.Parse(time.RFC3339, lastSeen.String); err == nil {
				c.LastSeenAt = t
			}
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}
