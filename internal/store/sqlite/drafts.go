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
)

// CreateDraft inserts a draft row. Drafts carry no pipeline state.
func (s *DB) CreateDraft(ctx context.Context, draft *domain.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	toJSON, err := json.Marshal(draft.To)
	if err != nil {
		return fmt.Errorf("failed to marshal To addresses: %w", err)
	}
	ccJSON, err := json.Marshal(draft.CC)
	if err != nil {
		return fmt.Errorf("failed to marshal CC addresses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, account_id, uid, message_id, to_addrs, cc_addrs, subject, body_text, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.AccountID, draft.UID, draft.MessageID,
		string(toJSON), string(ccJSON), draft.Subject, draft.BodyText,
		draft.Date.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// FindDraftByUID looks up a draft by its UID in the drafts folder.
// Returns (nil, nil) when no such draft exists.
func (s *DB) FindDraftByUID(ctx context.Context, uid uint32) (*domain.Draft, error) {
	var d domain.Draft
	var messageID, toJSON, ccJSON, subject, bodyText, dateStr sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, uid, message_id, to_addrs, cc_addrs, subject, body_text, date
		FROM drafts WHERE uid = ?`, uid,
	).Scan(&d.ID, &d.AccountID, &d.UID, &messageID, &toJSON, &ccJSON, &subject, &bodyText, &dateStr)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draft by uid %d: %w", uid, err)
	}

	d.MessageID = messageID.String
	d.Subject = subject.String
	d.BodyText = bodyText.String
	if toJSON.String != "" {
		if err := json.Unmarshal([]byte(toJSON.String), &d.To); err != nil {
			return nil, fmt.Errorf("failed to unmarshal To addresses: %w", err)
		}
	}
	if ccJSON.String != "" {
		if err := json.Unmarshal([]byte(ccJSON.String), &d.CC); err != nil {
			return nil, fmt.Errorf("failed to unmarshal CC addresses: %w", err)
		}
	}
	if dateStr.Valid {
		if t, err := time.Parse(time.RFC3339, dateStr.String); err == nil {
			d.Date = t
		}
	}
	return &d, nil
}
