package domain

import (
	"strings"
	"time"
)

type SpamRuleType string

const (
	SpamRuleKeyword SpamRuleType = "keyword"
	SpamRuleLink    SpamRuleType = "link"
	SpamRuleHeader  SpamRuleType = "header"
)

// SpamRule is a weighted scoring rule. Priority doubles as the score
// contribution when the rule matches; all enabled rules are evaluated
// and their scores sum.
type SpamRule struct {
	ID          string
	RuleType    SpamRuleType
	Pattern     string
	Priority    int
	IsEnabled   bool
	Description string
	CreatedAt   time.Time
}

type ListKind string

const (
	ListBlack ListKind = "blacklist"
	ListWhite ListKind = "whitelist"
)

// ListEntry is a blacklist or whitelist entry. Domain is derived from
// the address when the entry is written; either an exact address match
// or a domain match qualifies.
type ListEntry struct {
	ID           string
	Kind         ListKind
	EmailAddress string
	Domain       string
	CreatedAt    time.Time
}

// NewListEntry builds an entry for the given address, deriving the
// domain part.
func NewListEntry(kind ListKind, address string) ListEntry {
	addr := Address{Email: strings.ToLower(strings.TrimSpace(address))}
	return ListEntry{
		Kind:         kind,
		EmailAddress: addr.Email,
		Domain:       addr.Domain(),
	}
}
