package domain

import (
	"strings"
	"time"
)

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Domain returns the part of the address after the last "@", lowercased.
// Returns "" for addresses without a domain part.
func (a Address) Domain() string {
	at := strings.LastIndex(a.Email, "@")
	if at < 0 || at == len(a.Email)-1 {
		return ""
	}
	return strings.ToLower(a.Email[at+1:])
}

type Attachment struct {
	ID        string
	MessageID string
	Filename  string
	MIMEType  string
	Size      int64
	Path      string
}

// Message is a mail message as persisted locally. UID, Folder and
// MessageID identify the message and never change after creation;
// the remaining state fields are mutated by filter actions and user
// commands. Folder changes when a move action runs.
type Message struct {
	ID          string
	AccountID   string
	UID         uint32
	Folder      string
	MessageID   string
	ThreadID    string
	From        Address
	To          []Address
	CC          []Address
	Subject     string
	BodyText    string
	BodyHTML    string
	Date        time.Time
	IsRead      bool
	IsSpam      bool
	IsStarred   bool
	IsFlagged   bool
	IsImportant bool
	IsDeleted   bool
	DeletedAt   *time.Time
	Tags        []string
	Attachments []Attachment
}

// Body returns the combined text and HTML bodies.
func (m *Message) Body() string {
	if m.BodyText == "" {
		return m.BodyHTML
	}
	if m.BodyHTML == "" {
		return m.BodyText
	}
	return m.BodyText + "\n" + m.BodyHTML
}

// Size is the combined length of subject and both bodies.
func (m *Message) Size() int {
	return len(m.Subject) + len(m.BodyText) + len(m.BodyHTML)
}

func (m *Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

func (m *Message) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
