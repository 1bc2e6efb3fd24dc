package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
	"github.com/lu-zhengda/mailsift/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedAccount(t *testing.T, s store.Store) string {
	t.Helper()
	acc := &domain.Account{Email: "me@example.com", IMAPHost: "imap.example.com", IMAPPort: 993}
	if err := s.CreateAccount(context.Background(), acc); err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	return acc.ID
}

func seedMessage(t *testing.T, s store.Store, accountID string, uid uint32, subject string) *domain.Message {
	t.Helper()
	msg := &domain.Message{
		AccountID: accountID,
		UID:       uid,
		Folder:    "INBOX",
		MessageID: subject + "@test.example",
		From:      domain.Address{Email: "sender@example.com"},
		Subject:   subject,
		BodyText:  "body of " + subject,
		Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateMessage(context.Background(), msg); err != nil {
		t.Fatalf("seeding message: %v", err)
	}
	return msg
}

func seedFilter(t *testing.T, s store.Store, f *domain.Filter) {
	t.Helper()
	if err := s.CreateFilter(context.Background(), f); err != nil {
		t.Fatalf("seeding filter: %v", err)
	}
}

func TestExecuteActions_Independent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accID := seedAccount(t, s)
	msg := seedMessage(t, s, accID, 1, "hello")

	e := NewExecutor(s)
	results := e.ExecuteActions(ctx, []domain.Action{
		{Type: domain.ActionAddTag, Value: "no-such-tag"},
		{Type: domain.ActionMarkRead},
	}, msg)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !errors.Is(results[0].Err, store.ErrTagNotFound) {
		t.Errorf("first action error = %v, want ErrTagNotFound", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("second action error = %v, want nil", results[1].Err)
	}

	got, err := s.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("reloading message: %v", err)
	}
	if !got.IsRead {
		t.Error("mark_read did not run after failed add_tag")
	}
}

func TestApplyFilters_PriorityAndReload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accID := seedAccount(t, s)
	msg := seedMessage(t, s, accID, 1, "newsletter digest")

	// Higher priority filter moves the message; the lower priority one
	// only matches the post-move folder, proving the reload between
	// filters.
	seedFilter(t, s, &domain.Filter{
		AccountID: accID,
		Name:      "file newsletters",
		Priority:  100,
		MatchAll:  true,
		IsEnabled: true,
		Conditions: []domain.Condition{
			{Field: domain.FieldSubject, Operator: domain.OpContains, Value: "newsletter"},
		},
		Actions: []domain.Action{
			{Type: domain.ActionMove, Value: "Newsletters"},
		},
	})
	seedFilter(t, s, &domain.Filter{
		AccountID: accID,
		Name:      "mark filed mail read",
		Priority:  10,
		MatchAll:  true,
		IsEnabled: true,
		Conditions: []domain.Condition{
			{Field: domain.FieldFolder, Operator: domain.OpEquals, Value: "Newsletters"},
		},
		Actions: []domain.Action{
			{Type: domain.ActionMarkRead},
		},
	})

	engine := NewEngine(s)
	matched, err := engine.ApplyFilters(ctx, msg)
	if err != nil {
		t.Fatalf("ApplyFilters() error: %v", err)
	}
	if matched != 2 {
		t.Errorf("matched = %d, want 2", matched)
	}

	got, err := s.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("reloading message: %v", err)
	}
	if got.Folder != "Newsletters" {
		t.Errorf("folder = %q, want Newsletters", got.Folder)
	}
	if !got.IsRead {
		t.Error("second filter did not see the moved message")
	}
}

func TestApplyFilters_SkipsDisabled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accID := seedAccount(t, s)
	msg := seedMessage(t, s, accID, 1, "anything")

	seedFilter(t, s, &domain.Filter{
		AccountID: accID,
		Name:      "disabled catch-all",
		Priority:  50,
		IsEnabled: false,
		Actions:   []domain.Action{{Type: domain.ActionStar}},
	})

	engine := NewEngine(s)
	matched, err := engine.ApplyFilters(ctx, msg)
	if err != nil {
		t.Fatalf("ApplyFilters() error: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d, want 0", matched)
	}
}

func TestTestFilter_DryRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accID := seedAccount(t, s)
	seedMessage(t, s, accID, 1, "invoice 42")
	seedMessage(t, s, accID, 2, "lunch plans")

	f := &domain.Filter{
		AccountID: accID,
		Name:      "invoices",
		IsEnabled: true,
		MatchAll:  true,
		Conditions: []domain.Condition{
			{Field: domain.FieldSubject, Operator: domain.OpContains, Value: "invoice"},
		},
		Actions: []domain.Action{{Type: domain.ActionDelete}},
	}
	seedFilter(t, s, f)

	engine := NewEngine(s)
	matches, err := engine.TestFilter(ctx, f.ID, 50)
	if err != nil {
		t.Fatalf("TestFilter() error: %v", err)
	}
	if len(matches) != 1 || matches[0].Subject != "invoice 42" {
		t.Fatalf("matches = %v, want the invoice message only", matches)
	}

	// Dry run must not execute the delete action.
	msgs, err := s.ListMessages(ctx, store.ListMessageOptions{AccountID: accID})
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("message count = %d after dry run, want 2", len(msgs))
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accID := seedAccount(t, s)
	seedFilter(t, s, &domain.Filter{AccountID: accID, Name: "a", IsEnabled: true})
	seedFilter(t, s, &domain.Filter{AccountID: accID, Name: "b", IsEnabled: false})

	engine := NewEngine(s)
	stats, err := engine.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Total != 2 || stats.Enabled != 1 {
		t.Errorf("stats = %+v, want total 2 enabled 1", stats)
	}
}
