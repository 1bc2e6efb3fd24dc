package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

const messageColumns = `id, account_id, uid, folder, message_id, thread_id,
	from_addr, from_name, to_addrs, cc_addrs, subject, body_text, body_html,
	date, is_read, is_spam, is_starred, is_flagged, is_important, is_deleted, deleted_at`

// CreateMessage inserts a new message row. The (uid, folder) pair is
// unique; inserting a duplicate returns an error.
func (s *DB) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	toJSON, err := json.Marshal(msg.To)
	if err != nil {
		return fmt.Errorf("failed to marshal To addresses: %w", err)
	}
	ccJSON, err := json.Marshal(msg.CC)
	if err != nil {
		return fmt.Errorf("failed to marshal CC addresses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, account_id, uid, folder, message_id, thread_id,
			from_addr, from_name, to_addrs, cc_addrs, subject, body_text, body_html,
			date, is_read, is_spam, is_starred, is_flagged, is_important)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.AccountID, msg.UID, msg.Folder, msg.MessageID, msg.ThreadID,
		msg.From.Email, msg.From.Name, string(toJSON), string(ccJSON),
		msg.Subject, msg.BodyText, msg.BodyHTML,
		msg.Date.Format(time.RFC3339),
		msg.IsRead, msg.IsSpam, msg.IsStarred, msg.IsFlagged, msg.IsImportant,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetMessage retrieves a single message by row ID, including its
// attachments and tags. Returns an error if the message is missing.
func (s *DB) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	if err := s.loadMessageAssociations(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByUID looks up a message by its (uid, folder) identity.
// Returns (nil, nil) when no such message exists.
func (s *DB) FindByUID(ctx context.Context, uid uint32, folder string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE uid = ? AND folder = ?`, uid, folder)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message by uid %d in %s: %w", uid, folder, err)
	}
	if err := s.loadMessageAssociations(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByMessageID looks up a message by its Message-ID header value,
// in any folder. Returns (nil, nil) when no such message exists.
func (s *DB) FindByMessageID(ctx context.Context, messageID string) (*domain.Message, error) {
	if messageID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE message_id = ? LIMIT 1`, messageID)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message by message-id %s: %w", messageID, err)
	}
	if err := s.loadMessageAssociations(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns messages ordered by date descending.
func (s *DB) ListMessages(ctx context.Context, opts store.ListMessageOptions) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE is_deleted = FALSE`
	var args []any

	if opts.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, opts.AccountID)
	}
	if opts.Folder != "" {
		query += ` AND folder = ?`
		args = append(args, opts.Folder)
	}
	query += ` ORDER BY date DESC, uid DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// MaxUID returns the highest UID persisted for the folder, or 0 when
// the folder has no messages. The sync watermark is derived from this.
func (s *DB) MaxUID(ctx context.Context, folder string) (uint32, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(uid) FROM messages WHERE folder = ?`, folder).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max uid for %s: %w", folder, err)
	}
	if !max.Valid {
		return 0, nil
	}
	return uint32(max.Int64), nil
}

// UpdateFolder rewrites the folder of a message (a move).
func (s *DB) UpdateFolder(ctx context.Context, id, folder string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET folder = ? WHERE id = ?`, folder, id)
	if err != nil {
		return fmt.Errorf("failed to move message %s to %s: %w", id, folder, err)
	}
	return nil
}

// SetRead updates the is_read flag for a message.
func (s *DB) SetRead(ctx context.Context, id string, read bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET is_read = ? WHERE id = ?`, read, id)
	if err != nil {
		return fmt.Errorf("failed to set message %s read=%v: %w", id, read, err)
	}
	return nil
}

// SetStarred updates the is_starred flag for a message.
func (s *DB) SetStarred(ctx context.Context, id string, starred bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET is_starred = ? WHERE id = ?`, starred, id)
	if err != nil {
		return fmt.Errorf("failed to set message %s starred=%v: %w", id, starred, err)
	}
	return nil
}

// SetFlagged updates the is_flagged flag for a message.
func (s *DB) SetFlagged(ctx context.Context, id string, flagged bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET is_flagged = ? WHERE id = ?`, flagged, id)
	if err != nil {
		return fmt.Errorf("failed to set message %s flagged=%v: %w", id, flagged, err)
	}
	return nil
}

// MarkSpam flags a message as spam.
func (s *DB) MarkSpam(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET is_spam = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message %s as spam: %w", id, err)
	}
	return nil
}

// SoftDelete marks a message deleted with a timestamp. The row and its
// attachments remain until an explicit trash-empty removes them.
func (s *DB) SoftDelete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_deleted = TRUE, deleted_at = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete message %s: %w", id, err)
	}
	return nil
}

// CreateAttachment inserts attachment metadata for a message.
func (s *DB) CreateAttachment(ctx context.Context, att *domain.Attachment) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, message_id, filename, mime_type, size, path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		att.ID, att.MessageID, att.Filename, att.MIMEType, att.Size, att.Path)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	var fromAddr, fromName string
	var toJSON, ccJSON, messageID, threadID, subject, bodyText, bodyHTML sql.NullString
	var dateStr string
	var deletedAt sql.NullString

	err := row.Scan(
		&m.ID, &m.AccountID, &m.UID, &m.Folder, &messageID, &threadID,
		&fromAddr, &fromName, &toJSON, &ccJSON, &subject, &bodyText, &bodyHTML,
		&dateStr, &m.IsRead, &m.IsSpam, &m.IsStarred, &m.IsFlagged, &m.IsImportant,
		&m.IsDeleted, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	m.MessageID = messageID.String
	m.ThreadID = threadID.String
	m.Subject = subject.String
	m.BodyText = bodyText.String
	m.BodyHTML = bodyHTML.String
	m.From = domain.Address{Name: fromName, Email: fromAddr}

	if toJSON.String != "" {
		if err := json.Unmarshal([]byte(toJSON.String), &m.To); err != nil {
			return nil, fmt.Errorf("failed to unmarshal To addresses: %w", err)
		}
	}
	if ccJSON.String != "" {
		if err := json.Unmarshal([]byte(ccJSON.String), &m.CC); err != nil {
			return nil, fmt.Errorf("failed to unmarshal CC addresses: %w", err)
		}
	}

	parsedDate, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message date: %w", err)
	}
	m.Date = parsedDate

	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err == nil {
			m.DeletedAt = &t
		}
	}

	return &m, nil
}

// loadMessageAssociations fills in attachments and tags for a message.
func (s *DB) loadMessageAssociations(ctx context.Context, m *domain.Message) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, mime_type, size, path FROM attachments WHERE message_id = ?`, m.ID)
	if err != nil {
		return fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		att := domain.Attachment{MessageID: m.ID}
		var mimeType, path sql.NullString
		if err := rows.Scan(&att.ID, &att.Filename, &mimeType, &att.Size, &path); err != nil {
			return fmt.Errorf("failed to scan attachment: %w", err)
		}
		att.MIMEType = mimeType.String
		att.Path = path.String
		m.Attachments = append(m.Attachments, att)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate attachments: %w", err)
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN message_tags mt ON mt.tag_id = t.id
		WHERE mt.message_id = ?`, m.ID)
	if err != nil {
		return fmt.Errorf("failed to query message tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var name string
		if err := tagRows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan message tag: %w", err)
		}
		m.Tags = append(m.Tags, name)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate message tags: %w", err)
	}
	return nil
}
