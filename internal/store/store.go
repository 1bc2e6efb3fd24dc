package store

import (
	"context"
	"errors"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// ErrTagNotFound is returned by AddTag/RemoveTag when the named tag
// does not exist. Filter actions report it as a per-action failure
// rather than aborting the action list.
var ErrTagNotFound = errors.New("tag not found")

// Store defines the persistence interface for the application.
//
// The Find* methods return (nil, nil) when no row matches; they are
// used for dedup checks where absence is a normal outcome. Get*
// methods return an error when the row is missing.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Messages
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	FindByUID(ctx context.Context, uid uint32, folder string) (*domain.Message, error)
	FindByMessageID(ctx context.Context, messageID string) (*domain.Message, error)
	ListMessages(ctx context.Context, opts ListMessageOptions) ([]domain.Message, error)
	MaxUID(ctx context.Context, folder string) (uint32, error)
	UpdateFolder(ctx context.Context, id, folder string) error
	SetRead(ctx context.Context, id string, read bool) error
	SetStarred(ctx context.Context, id string, starred bool) error
	SetFlagged(ctx context.Context, id string, flagged bool) error
	MarkSpam(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error

	// Attachments
	CreateAttachment(ctx context.Context, att *domain.Attachment) error

	// Tags
	CreateTag(ctx context.Context, name string) error
	ListTags(ctx context.Context) ([]string, error)
	AddTag(ctx context.Context, messageID, tag string) error
	RemoveTag(ctx context.Context, messageID, tag string) error

	// Filters
	CreateFilter(ctx context.Context, filter *domain.Filter) error
	GetFilter(ctx context.Context, id string) (*domain.Filter, error)
	ListFilters(ctx context.Context, opts ListFilterOptions) ([]domain.Filter, error)
	CountFilters(ctx context.Context) (total, enabled int, err error)
	SetFilterEnabled(ctx context.Context, id string, enabled bool) error
	DeleteFilter(ctx context.Context, id string) error

	// Spam rules
	CreateSpamRule(ctx context.Context, rule *domain.SpamRule) error
	ListSpamRules(ctx context.Context, enabledOnly bool) ([]domain.SpamRule, error)

	// Blacklist / whitelist
	CreateListEntry(ctx context.Context, entry *domain.ListEntry) error
	ListEntries(ctx context.Context, kind domain.ListKind) ([]domain.ListEntry, error)
	IsListed(ctx context.Context, kind domain.ListKind, address string) (bool, error)
	DeleteListEntry(ctx context.Context, kind domain.ListKind, address string) error

	// Contacts
	UpsertContact(ctx context.Context, email, name string) error
	ListContacts(ctx context.Context) ([]domain.Contact, error)

	// Drafts
	CreateDraft(ctx context.Context, draft *domain.Draft) error
	FindDraftByUID(ctx context.Context, uid uint32) (*domain.Draft, error)

	// Search
	SearchMessages(ctx context.Context, query, accountID string) ([]domain.Message, error)

	// Folder sync bookkeeping
	GetFolderSyncState(ctx context.Context, folder string) (*FolderSyncState, error)
	UpsertFolderSyncState(ctx context.Context, folder string, lastSync time.Time) error

	// Lifecycle
	Close() error
}

// ListMessageOptions configures message listing queries.
type ListMessageOptions struct {
	AccountID string
	Folder    string
	Limit     int
	Offset    int
}

// ListFilterOptions configures filter listing queries. Results are
// ordered by priority descending with insertion order breaking ties.
type ListFilterOptions struct {
	AccountID   string
	EnabledOnly bool
}

// FolderSyncState records the last completed sync per folder. The
// fetch watermark itself is derived from the highest persisted UID,
// not stored here.
type FolderSyncState struct {
	Folder   string
	LastSync time.Time
}
