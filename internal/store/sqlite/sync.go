package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lu-zhengda/mailsift/internal/store"
)

// GetFolderSyncState retrieves the sync bookkeeping for a folder.
// If no state exists, it returns an empty state with the folder set.
func (s *DB) GetFolderSyncState(ctx context.Context, folder string) (*store.FolderSyncState, error) {
	var state store.FolderSyncState
	var lastSync string
	err := s.db.QueryRowContext(ctx,
		`SELECT folder, last_sync FROM folder_sync_state WHERE folder = ?`,
		folder,
	).Scan(&state.Folder, &lastSync)

	if errors.Is(err, sql.ErrNoRows) {
		return &store.FolderSyncState{Folder: folder}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state for %s: %w", folder, err)
	}

	if t, err := time.Parse(time.RFC3339, lastSync); err == nil {
		state.LastSync = t
	}
	return &state, nil
}

// UpsertFolderSyncState records the completion time of a folder sync.
func (s *DB) UpsertFolderSyncState(ctx context.Context, folder string, lastSync time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folder_sync_state (folder, last_sync)
		VALUES (?, ?)
		ON CONFLICT(folder) DO UPDATE SET
			last_sync = excluded.last_sync`,
		folder, lastSync.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set sync state for %s: %w", folder, err)
	}
	return nil
}
