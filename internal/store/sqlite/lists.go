package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// CreateListEntry inserts a blacklist or whitelist entry. The domain
// part is derived from the address if not already set.
func (s *DB) CreateListEntry(ctx context.Context, entry *domain.ListEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Domain == "" {
		derived := domain.NewListEntry(entry.Kind, entry.EmailAddress)
		entry.EmailAddress = derived.EmailAddress
		entry.Domain = derived.Domain
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO list_entries (id, kind, email_address, domain)
		VALUES (?, ?, ?, ?)`,
		entry.ID, string(entry.Kind), entry.EmailAddress, entry.Domain)
	if err != nil {
		return fmt.Errorf("failed to create %s entry: %w", entry.Kind, err)
	}
	return nil
}

// ListEntries returns all entries of the given kind.
func (s *DB) ListEntries(ctx context.Context, kind domain.ListKind) ([]domain.ListEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, email_address, domain FROM list_entries
		WHERE kind = ? ORDER BY email_address`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", kind, err)
	}
	defer rows.Close()

	var entries []domain.ListEntry
	for rows.Next() {
		var e domain.ListEntry
		var k string
		if err := rows.Scan(&e.ID, &k, &e.EmailAddress, &e.Domain); err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		e.Kind = domain.ListKind(k)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list entries: %w", err)
	}
	return entries, nil
}

// IsListed reports whether the address matches an entry of the given
// kind, either by exact address or by domain.
func (s *DB) IsListed(ctx context.Context, kind domain.ListKind, address string) (bool, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	dom := domain.Address{Email: addr}.Domain()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM list_entries
		WHERE kind = ? AND (email_address = ? OR domain = ?)`,
		string(kind), addr, dom).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s for %s: %w", kind, address, err)
	}
	return count > 0, nil
}

// DeleteListEntry removes an entry by exact address.
func (s *DB) DeleteListEntry(ctx context.Context, kind domain.ListKind, address string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM list_entries WHERE kind = ? AND email_address = ?`,
		string(kind), strings.ToLower(strings.TrimSpace(address)))
	if err != nil {
		return fmt.Errorf("failed to delete %s entry %s: %w", kind, address, err)
	}
	return nil
}
