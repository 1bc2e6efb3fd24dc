package sqlite

import (
	"context"
	"testing"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

func TestCreateAndGetFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f := &domain.Filter{
		Name:      "Newsletters",
		Priority:  10,
		MatchAll:  true,
		IsEnabled: true,
		Conditions: []domain.Condition{
			{Field: domain.FieldFrom, Operator: domain.OpContains, Value: "newsletter"},
			{Field: domain.FieldSubject, Operator: domain.OpNotContains, Value: "urgent"},
		},
		Actions: []domain.Action{
			{Type: domain.ActionMove, Value: "Newsletters"},
			{Type: domain.ActionMarkRead},
		},
	}
	if err := db.CreateFilter(ctx, f); err != nil {
		t.Fatalf("CreateFilter() error: %v", err)
	}
	if f.ID == "" {
		t.Fatal("CreateFilter() did not assign an ID")
	}

	got, err := db.GetFilter(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFilter() error: %v", err)
	}
	if got.Name != "Newsletters" || got.Priority != 10 || !got.MatchAll {
		t.Errorf("filter = %+v", got)
	}
	if len(got.Conditions) != 2 {
		t.Fatalf("Conditions = %d, want 2", len(got.Conditions))
	}
	if got.Conditions[0].Field != domain.FieldFrom {
		t.Errorf("Conditions[0].Field = %q, want from", got.Conditions[0].Field)
	}
	if len(got.Actions) != 2 {
		t.Fatalf("Actions = %d, want 2", len(got.Actions))
	}
	if got.Actions[0].Type != domain.ActionMove || got.Actions[0].Value != "Newsletters" {
		t.Errorf("Actions[0] = %+v", got.Actions[0])
	}
}

func TestListFilters_PriorityOrderWithInsertionTiebreak(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mk := func(name string, priority int, enabled bool) {
		t.Helper()
		if err := db.CreateFilter(ctx, &domain.Filter{
			Name: name, Priority: priority, IsEnabled: enabled, MatchAll: true,
		}); err != nil {
			t.Fatalf("CreateFilter(%s): %v", name, err)
		}
	}
	mk("low", 1, true)
	mk("high", 10, true)
	mk("tie-first", 5, true)
	mk("tie-second", 5, true)
	mk("disabled", 100, false)

	filters, err := db.ListFilters(ctx, store.ListFilterOptions{EnabledOnly: true})
	if err != nil {
		t.Fatalf("ListFilters() error: %v", err)
	}

	var names []string
	for _, f := range filters {
		names = append(names, f.Name)
	}
	want := []string{"high", "tie-first", "tie-second", "low"}
	if len(names) != len(want) {
		t.Fatalf("filters = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("filters[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCountFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, enabled := range []bool{true, true, false} {
		if err := db.CreateFilter(ctx, &domain.Filter{Name: "f", IsEnabled: enabled}); err != nil {
			t.Fatalf("CreateFilter: %v", err)
		}
	}

	total, enabled, err := db.CountFilters(ctx)
	if err != nil {
		t.Fatalf("CountFilters() error: %v", err)
	}
	if total != 3 || enabled != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", total, enabled)
	}
}
