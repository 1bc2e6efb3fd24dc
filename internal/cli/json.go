package cli

import (
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/sync"
)

// ---------------------------------------------------------------------------
// Account JSON types (account list)
// ---------------------------------------------------------------------------

type jsonAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Server    string `json:"server"`
	Port      int    `json:"port"`
	TLS       bool   `json:"tls"`
	CreatedAt string `json:"created_at"`
}

func toJSONAccounts(accounts []domain.Account) []jsonAccount {
	out := make([]jsonAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, jsonAccount{
			ID:        a.ID,
			Email:     a.Email,
			Server:    a.IMAPHost,
			Port:      a.IMAPPort,
			TLS:       a.UseTLS,
			CreatedAt: a.CreatedAt.Format(time.DateOnly),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Message JSON types (list, search)
// ---------------------------------------------------------------------------

type jsonMessage struct {
	ID        string      `json:"id"`
	UID       uint32      `json:"uid"`
	Folder    string      `json:"folder"`
	From      jsonAddress `json:"from"`
	Subject   string      `json:"subject"`
	Date      string      `json:"date"`
	IsRead    bool        `json:"is_read"`
	IsSpam    bool        `json:"is_spam"`
	IsStarred bool        `json:"is_starred"`
	Tags      []string    `json:"tags,omitempty"`
}

func toJSONMessages(msgs []domain.Message) []jsonMessage {
	out := make([]jsonMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, toJSONMessage(&msgs[i]))
	}
	return out
}

func toJSONMessage(m *domain.Message) jsonMessage {
	return jsonMessage{
		ID:        m.ID,
		UID:       m.UID,
		Folder:    m.Folder,
		From:      toJSONAddress(m.From),
		Subject:   m.Subject,
		Date:      m.Date.Format(time.RFC3339),
		IsRead:    m.IsRead,
		IsSpam:    m.IsSpam,
		IsStarred: m.IsStarred,
		Tags:      m.Tags,
	}
}

// ---------------------------------------------------------------------------
// Message detail JSON type (read)
// ---------------------------------------------------------------------------

type jsonMessageDetail struct {
	jsonMessage
	To          []jsonAddress    `json:"to,omitempty"`
	CC          []jsonAddress    `json:"cc,omitempty"`
	Body        string           `json:"body"`
	Attachments []jsonAttachment `json:"attachments,omitempty"`
}

type jsonAttachment struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Path     string `json:"path"`
}

func toJSONMessageDetail(m *domain.Message) jsonMessageDetail {
	atts := make([]jsonAttachment, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		atts = append(atts, jsonAttachment{
			Filename: a.Filename,
			MIMEType: a.MIMEType,
			Size:     a.Size,
			Path:     a.Path,
		})
	}
	return jsonMessageDetail{
		jsonMessage: toJSONMessage(m),
		To:          toJSONAddresses(m.To),
		CC:          toJSONAddresses(m.CC),
		Body:        m.Body(),
		Attachments: atts,
	}
}

// ---------------------------------------------------------------------------
// Filter JSON types
// ---------------------------------------------------------------------------

type jsonFilter struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Priority   int             `json:"priority"`
	MatchAll   bool            `json:"match_all"`
	IsEnabled  bool            `json:"is_enabled"`
	Conditions []jsonCondition `json:"conditions"`
	Actions    []jsonFilterAct `json:"actions"`
}

type jsonCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value,omitempty"`
}

type jsonFilterAct struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

func toJSONFilters(filters []domain.Filter) []jsonFilter {
	out := make([]jsonFilter, 0, len(filters))
	for i := range filters {
		out = append(out, toJSONFilter(&filters[i]))
	}
	return out
}

func toJSONFilter(f *domain.Filter) jsonFilter {
	conds := make([]jsonCondition, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		conds = append(conds, jsonCondition{
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Value:    c.Value,
		})
	}
	acts := make([]jsonFilterAct, 0, len(f.Actions))
	for _, a := range f.Actions {
		acts = append(acts, jsonFilterAct{Type: string(a.Type), Value: a.Value})
	}
	return jsonFilter{
		ID:         f.ID,
		Name:       f.Name,
		Priority:   f.Priority,
		MatchAll:   f.MatchAll,
		IsEnabled:  f.IsEnabled,
		Conditions: conds,
		Actions:    acts,
	}
}

// ---------------------------------------------------------------------------
// Spam JSON types
// ---------------------------------------------------------------------------

type jsonSpamRule struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Pattern     string `json:"pattern"`
	Priority    int    `json:"priority"`
	IsEnabled   bool   `json:"is_enabled"`
	Description string `json:"description,omitempty"`
}

func toJSONSpamRules(rules []domain.SpamRule) []jsonSpamRule {
	out := make([]jsonSpamRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, jsonSpamRule{
			ID:          r.ID,
			Type:        string(r.RuleType),
			Pattern:     r.Pattern,
			Priority:    r.Priority,
			IsEnabled:   r.IsEnabled,
			Description: r.Description,
		})
	}
	return out
}

type jsonListEntry struct {
	Email  string `json:"email"`
	Domain string `json:"domain,omitempty"`
	Added  string `json:"added"`
}

func toJSONListEntries(entries []domain.ListEntry) []jsonListEntry {
	out := make([]jsonListEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonListEntry{
			Email:  e.EmailAddress,
			Domain: e.Domain,
			Added:  e.CreatedAt.Format(time.DateOnly),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Contact JSON type (contacts)
// ---------------------------------------------------------------------------

type jsonContact struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	TimesSeen int    `json:"times_seen"`
	LastSeen  string `json:"last_seen"`
}

func toJSONContacts(contacts []domain.Contact) []jsonContact {
	out := make([]jsonContact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, jsonContact{
			Email:     c.Email,
			Name:      c.Name,
			TimesSeen: c.TimesSeen,
			LastSeen:  c.LastSeenAt.Format(time.DateOnly),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Sync result JSON type (sync)
// ---------------------------------------------------------------------------

type jsonSyncResult struct {
	NewEmails      int            `json:"new_emails"`
	SpamDetected   int            `json:"spam_detected"`
	FiltersApplied int            `json:"filters_applied"`
	Skipped        int            `json:"skipped"`
	Drafts         int            `json:"drafts,omitempty"`
	PerFolder      map[string]int `json:"per_folder"`
	Errors         []string       `json:"errors,omitempty"`
	Duration       string         `json:"duration"`
}

func toJSONSyncResult(r *sync.Result, drafts int) jsonSyncResult {
	return jsonSyncResult{
		NewEmails:      r.NewEmails,
		SpamDetected:   r.SpamDetected,
		FiltersApplied: r.FiltersApplied,
		Skipped:        r.Skipped,
		Drafts:         drafts,
		PerFolder:      r.PerFolder,
		Errors:         r.Errors,
		Duration:       r.Duration.String(),
	}
}

// ---------------------------------------------------------------------------
// Address JSON type (shared)
// ---------------------------------------------------------------------------

type jsonAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func toJSONAddress(a domain.Address) jsonAddress {
	return jsonAddress{Name: a.Name, Email: a.Email}
}

func toJSONAddresses(addrs []domain.Address) []jsonAddress {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]jsonAddress, len(addrs))
	for i, a := range addrs {
		out[i] = toJSONAddress(a)
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (add, remove, enable, disable, etc.)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	MessageID string `json:"message_id,omitempty"`
	Email     string `json:"email,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	FilterID  string `json:"filter_id,omitempty"`
}
