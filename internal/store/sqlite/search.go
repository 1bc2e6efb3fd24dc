package sqlite

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// SearchMessages performs a full-text search across subject, body and
// sender using the FTS5 index.
func (s *DB) SearchMessages(ctx context.Context, query, accountID string) ([]domain.Message, error) {
	sqlQuery := `
		SELECT m.id, m.account_id, m.uid, m.folder, m.message_id, m.thread_id,
			m.from_addr, m.from_name, m.to_addrs, m.cc_addrs, m.subject, m.body_text, m.body_html,
			m.date, m.is_read, m.is_spam, m.is_starred, m.is_flagged, m.is_important,
			m.is_deleted, m.deleted_at
		FROM messages m
		JOIN messages_fts ON messages_fts.rowid = m.rowid
		WHERE messages_fts MATCH ? AND m.is_deleted = FALSE`
	args := []any{query}
	if accountID != "" {
		sqlQuery += ` AND m.account_id = ?`
		args = append(args, accountID)
	}
	sqlQuery += ` ORDER BY rank`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return messages, nil
}
