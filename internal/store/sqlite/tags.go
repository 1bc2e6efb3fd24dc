package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lu-zhengda/mailsift/internal/store"
)

// CreateTag creates a named tag. Creating an existing tag is a no-op.
func (s *DB) CreateTag(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (id, name) VALUES (?, ?)`, uuid.NewString(), name)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// ListTags returns all tag names.
func (s *DB) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// AddTag associates an existing tag with a message. Returns
// store.ErrTagNotFound if the tag does not exist.
func (s *DB) AddTag(ctx context.Context, messageID, tag string) error {
	tagID, err := s.tagID(ctx, tag)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO message_tags (message_id, tag_id) VALUES (?, ?)`,
		messageID, tagID)
	if err != nil {
		return fmt.Errorf("failed to add tag %s to message %s: %w", tag, messageID, err)
	}
	return nil
}

// RemoveTag removes a tag association from a message. Returns
// store.ErrTagNotFound if the tag does not exist.
func (s *DB) RemoveTag(ctx context.Context, messageID, tag string) error {
	tagID, err := s.tagID(ctx, tag)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM message_tags WHERE message_id = ? AND tag_id = ?`,
		messageID, tagID)
	if err != nil {
		return fmt.Errorf("failed to remove tag %s from message %s: %w", tag, messageID, err)
	}
	return nil
}

func (s *DB) tagID(ctx context.Context, tag string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, tag).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrTagNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up tag %s: %w", tag, err)
	}
	return id, nil
}
