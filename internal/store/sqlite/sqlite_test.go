package sqlite

import (
	"context"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_CreatesTables(t *testing.T) {
	db := newTestDB(t)

	ctx := context.Background()
	rows, err := db.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		t.Fatalf("query sqlite_master error: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan error: %v", err)
		}
		tables = append(tables, name)
	}

	expected := []string{
		"accounts", "attachments", "contacts", "drafts", "filter_actions",
		"filter_conditions", "filters", "folder_sync_state", "list_entries",
		"message_tags", "messages", "messages_fts", "spam_rules", "tags",
	}
	for _, exp := range expected {
		found := false
		for _, tbl := range tables {
			if tbl == exp {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected table %q not found in %v", exp, tables)
		}
	}
}

func TestNew_SeedsDefaultSpamRules(t *testing.T) {
	db := newTestDB(t)

	rules, err := db.ListSpamRules(context.Background(), true)
	if err != nil {
		t.Fatalf("ListSpamRules() error: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("expected seeded spam rules, got none")
	}

	foundHeader := false
	for _, r := range rules {
		if r.RuleType == "header" {
			foundHeader = true
		}
	}
	if !foundHeader {
		t.Error("expected a seeded header rule")
	}
}
