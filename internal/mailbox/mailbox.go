package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// Client is the remote mailbox interface consumed by the sync
// orchestrator. Fetch returns raw messages; Parse turns one raw
// message into structured fields. The two are separate so that a
// parse failure is scoped to a single message.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error

	OpenFolder(ctx context.Context, name string, readOnly bool) (*FolderStatus, error)
	Fetch(ctx context.Context, window Window) ([]RawMessage, error)
	Parse(raw RawMessage) (*ParsedMessage, error)

	Append(ctx context.Context, folder string, flags []string, raw []byte) error
}

// FolderStatus describes an opened folder.
type FolderStatus struct {
	Name  string
	Total uint32
}

// RawMessage is one fetched but unparsed message.
type RawMessage struct {
	UID   uint32
	Flags []string
	Body  []byte
}

// ParsedMessage is the structured form of a fetched message.
type ParsedMessage struct {
	UID         uint32
	MessageID   string
	From        domain.Address
	To          []domain.Address
	CC          []domain.Address
	Subject     string
	Date        time.Time
	TextBody    string
	HTMLBody    string
	Attachments []AttachmentData
	Flags       []string
}

// AttachmentData carries attachment metadata plus content for the
// blob store.
type AttachmentData struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// Seen reports whether the message carries the \Seen flag.
func (p *ParsedMessage) Seen() bool {
	return hasFlag(p.Flags, `\Seen`)
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// Window selects which UIDs to fetch from an opened folder. The zero
// value selects everything (a full sync); a non-zero StartUID selects
// StartUID and above (an incremental sync).
type Window struct {
	StartUID uint32
}

// All reports whether the window covers the whole folder.
func (w Window) All() bool {
	return w.StartUID == 0
}

// Criteria renders the window as an IMAP selection criterion string.
func (w Window) Criteria() string {
	if w.All() {
		return "ALL"
	}
	return fmt.Sprintf("UID %d:*", w.StartUID)
}
