package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

func TestIsListed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	exact := domain.NewListEntry(domain.ListBlack, "spammer@junk.example")
	if err := db.CreateListEntry(ctx, &exact); err != nil {
		t.Fatalf("CreateListEntry() error: %v", err)
	}

	tests := []struct {
		name    string
		kind    domain.ListKind
		address string
		want    bool
	}{
		{"exact address match", domain.ListBlack, "spammer@junk.example", true},
		{"case-insensitive match", domain.ListBlack, "Spammer@Junk.Example", true},
		{"domain match", domain.ListBlack, "other@junk.example", true},
		{"different domain", domain.ListBlack, "friend@ok.example", false},
		{"wrong kind", domain.ListWhite, "spammer@junk.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.IsListed(ctx, tt.kind, tt.address)
			if err != nil {
				t.Fatalf("IsListed() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsListed(%s, %s) = %v, want %v", tt.kind, tt.address, got, tt.want)
			}
		})
	}
}

func TestListEntryDomainDerivedAtWriteTime(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	entry := &domain.ListEntry{Kind: domain.ListWhite, EmailAddress: "Friend@Good.Example"}
	if err := db.CreateListEntry(ctx, entry); err != nil {
		t.Fatalf("CreateListEntry() error: %v", err)
	}

	entries, err := db.ListEntries(ctx, domain.ListWhite)
	if err != nil {
		t.Fatalf("ListEntries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].EmailAddress != "friend@good.example" {
		t.Errorf("EmailAddress = %q", entries[0].EmailAddress)
	}
	if entries[0].Domain != "good.example" {
		t.Errorf("Domain = %q", entries[0].Domain)
	}
}

func TestContactsUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertContact(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("UpsertContact() error: %v", err)
	}
	if err := db.UpsertContact(ctx, "Alice@Example.com", "Alice"); err != nil {
		t.Fatalf("UpsertContact() second error: %v", err)
	}

	contacts, err := db.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts() error: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("contacts = %d, want 1 (same address upserted)", len(contacts))
	}
	if contacts[0].TimesSeen != 2 {
		t.Errorf("TimesSeen = %d, want 2", contacts[0].TimesSeen)
	}
	if contacts[0].Name != "Alice" {
		t.Errorf("Name = %q, want Alice (later name fills empty)", contacts[0].Name)
	}
}

func TestFolderSyncState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	state, err := db.GetFolderSyncState(ctx, "INBOX")
	if err != nil {
		t.Fatalf("GetFolderSyncState() error: %v", err)
	}
	if !state.LastSync.IsZero() {
		t.Errorf("LastSync = %v, want zero for unseen folder", state.LastSync)
	}

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if err := db.UpsertFolderSyncState(ctx, "INBOX", now); err != nil {
		t.Fatalf("UpsertFolderSyncState() error: %v", err)
	}

	state, err = db.GetFolderSyncState(ctx, "INBOX")
	if err != nil {
		t.Fatalf("GetFolderSyncState() error: %v", err)
	}
	if !state.LastSync.Equal(now) {
		t.Errorf("LastSync = %v, want %v", state.LastSync, now)
	}
}

func TestDrafts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	draft := &domain.Draft{
		AccountID: "acc-1",
		UID:       12,
		Subject:   "WIP reply",
		BodyText:  "Half-written thoughts",
		To:        []domain.Address{{Email: "bob@example.com"}},
		Date:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := db.CreateDraft(ctx, draft); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	got, err := db.FindDraftByUID(ctx, 12)
	if err != nil {
		t.Fatalf("FindDraftByUID() error: %v", err)
	}
	if got == nil || got.Subject != "WIP reply" {
		t.Fatalf("FindDraftByUID() = %+v", got)
	}
	if len(got.To) != 1 || got.To[0].Email != "bob@example.com" {
		t.Errorf("To = %v", got.To)
	}

	missing, err := db.FindDraftByUID(ctx, 99)
	if err != nil || missing != nil {
		t.Errorf("FindDraftByUID(absent) = (%v, %v), want (nil, nil)", missing, err)
	}
}
