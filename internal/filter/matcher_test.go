package filter

import (
	"testing"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

func sampleMessage() *domain.Message {
	return &domain.Message{
		ID:      "msg-1",
		Folder:  "INBOX",
		From:    domain.Address{Name: "Ada", Email: "ada@example.com"},
		To:      []domain.Address{{Email: "me@example.com"}, {Email: "team@example.com"}},
		Subject: "Quarterly report attached",
		BodyText: "Please review the numbers before Friday.",
		Date:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Attachments: []domain.Attachment{
			{Filename: "q1.pdf"},
		},
	}
}

func cond(field domain.Field, op domain.Operator, value string) domain.Condition {
	return domain.Condition{Field: field, Operator: op, Value: value}
}

func TestMatchCondition(t *testing.T) {
	msg := sampleMessage()

	tests := []struct {
		name string
		cond domain.Condition
		want bool
	}{
		{"from contains", cond(domain.FieldFrom, domain.OpContains, "@example.com"), true},
		{"from contains case-insensitive", cond(domain.FieldFrom, domain.OpContains, "ADA@"), true},
		{"from equals full address", cond(domain.FieldFrom, domain.OpEquals, "Ada <ada@example.com>"), true},
		{"from not_equals", cond(domain.FieldFrom, domain.OpNotEquals, "someone else"), true},
		{"to list contains", cond(domain.FieldTo, domain.OpContains, "team@"), true},
		{"to list no match", cond(domain.FieldTo, domain.OpContains, "boss@"), false},
		{"subject starts_with", cond(domain.FieldSubject, domain.OpStartsWith, "quarterly"), true},
		{"subject ends_with", cond(domain.FieldSubject, domain.OpEndsWith, "attached"), true},
		{"body not_contains", cond(domain.FieldBody, domain.OpNotContains, "unsubscribe"), true},
		{"regex", cond(domain.FieldSubject, domain.OpMatchesRegex, `(?i)^quarterly\s+report`), true},
		{"invalid regex is false", cond(domain.FieldSubject, domain.OpMatchesRegex, "["), false},
		{"has_attachments true", cond(domain.FieldHasAttachments, domain.OpEquals, "true"), true},
		{"has_attachments false", cond(domain.FieldHasAttachments, domain.OpEquals, "false"), false},
		{"has_attachments garbage value", cond(domain.FieldHasAttachments, domain.OpEquals, "yes please"), false},
		{"size greater_than", cond(domain.FieldSize, domain.OpGreaterThan, "10"), true},
		{"size less_than", cond(domain.FieldSize, domain.OpLessThan, "10"), false},
		{"size non-numeric comparison", cond(domain.FieldSize, domain.OpGreaterThan, "big"), false},
		{"date greater_than", cond(domain.FieldDate, domain.OpGreaterThan, "2026-01-01"), true},
		{"date less_than rfc3339", cond(domain.FieldDate, domain.OpLessThan, "2026-03-10T12:00:00Z"), true},
		{"date unparseable", cond(domain.FieldDate, domain.OpGreaterThan, "last tuesday"), false},
		{"folder equals", cond(domain.FieldFolder, domain.OpEquals, "inbox"), true},
		{"cc is_empty", cond(domain.FieldCC, domain.OpIsEmpty, ""), true},
		{"subject is_not_empty", cond(domain.FieldSubject, domain.OpIsNotEmpty, ""), true},
		{"unknown field is false", cond(domain.Field("x-priority"), domain.OpEquals, "1"), false},
		{"unknown field is_empty", cond(domain.Field("x-priority"), domain.OpIsEmpty, ""), true},
		{"unknown operator is false", domain.Condition{Field: domain.FieldSubject, Operator: "sounds_like", Value: "report"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchCondition(tt.cond, msg); got != tt.want {
				t.Errorf("MatchCondition(%v %v %q) = %v, want %v",
					tt.cond.Field, tt.cond.Operator, tt.cond.Value, got, tt.want)
			}
		})
	}
}

func TestMatch_Combination(t *testing.T) {
	msg := sampleMessage()
	match := cond(domain.FieldFolder, domain.OpEquals, "INBOX")
	noMatch := cond(domain.FieldSubject, domain.OpContains, "invoice")

	tests := []struct {
		name   string
		filter domain.Filter
		want   bool
	}{
		{"empty conditions always match", domain.Filter{MatchAll: true}, true},
		{"AND all match", domain.Filter{MatchAll: true, Conditions: []domain.Condition{match, match}}, true},
		{"AND one fails", domain.Filter{MatchAll: true, Conditions: []domain.Condition{match, noMatch}}, false},
		{"OR one matches", domain.Filter{Conditions: []domain.Condition{noMatch, match}}, true},
		{"OR none match", domain.Filter{Conditions: []domain.Condition{noMatch, noMatch}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(&tt.filter, msg); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}
