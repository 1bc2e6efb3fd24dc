package sync

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/mailbox"
)

// SyncDrafts pulls the drafts folder. Drafts skip the enrichment
// pipeline: no spam scoring, no filters, no notifications. Returns the
// number of drafts stored.
func (s *Syncer) SyncDrafts(ctx context.Context) (int, error) {
	if err := s.client.Connect(ctx); err != nil {
		return 0, fmt.Errorf("failed to connect to mailbox: %w", err)
	}
	defer s.client.Disconnect()

	if _, err := s.client.OpenFolder(ctx, s.draftsFolder, true); err != nil {
		return 0, fmt.Errorf("failed to open drafts folder: %w", err)
	}

	raws, err := s.client.Fetch(ctx, mailbox.Window{})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch drafts: %w", err)
	}

	stored := 0
	for _, raw := range raws {
		existing, err := s.store.FindDraftByUID(ctx, raw.UID)
		if err != nil {
			return stored, fmt.Errorf("failed draft dedup check: %w", err)
		}
		if existing != nil {
			continue
		}

		parsed, err := s.client.Parse(raw)
		if err != nil {
			log.Printf("[sync] draft uid %d skipped: %v", raw.UID, err)
			continue
		}

		draft := &domain.Draft{
			AccountID: s.accountID,
			UID:       raw.UID,
			MessageID: parsed.MessageID,
			To:        parsed.To,
			CC:        parsed.CC,
			Subject:   parsed.Subject,
			BodyText:  parsed.TextBody,
			Date:      parsed.Date,
		}
		if err := s.store.CreateDraft(ctx, draft); err != nil {
			return stored, fmt.Errorf("failed to store draft: %w", err)
		}
		stored++
	}
	return stored, nil
}

// UploadDraft composes an RFC 5322 message from the draft and appends
// it to the drafts folder with the \Draft flag.
func (s *Syncer) UploadDraft(ctx context.Context, draft *domain.Draft) error {
	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to mailbox: %w", err)
	}
	defer s.client.Disconnect()

	raw := composeDraft(draft)
	if err := s.client.Append(ctx, s.draftsFolder, []string{`\Draft`}, raw); err != nil {
		return fmt.Errorf("failed to upload draft: %w", err)
	}
	return nil
}

func composeDraft(draft *domain.Draft) []byte {
	var buf bytes.Buffer
	writeAddressHeader(&buf, "To", draft.To)
	writeAddressHeader(&buf, "Cc", draft.CC)
	fmt.Fprintf(&buf, "Subject: %s\r\n", draft.Subject)
	date := draft.Date
	if date.IsZero() {
		date = time.Now()
	}
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	if draft.MessageID != "" {
		fmt.Fprintf(&buf, "Message-ID: <%s>\r\n", draft.MessageID)
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(draft.BodyText)
	return buf.Bytes()
}

func writeAddressHeader(buf *bytes.Buffer, name string, addrs []domain.Address) {
	if len(addrs) == 0 {
		return
	}
	fmt.Fprintf(buf, "%s: ", name)
	for i, a := range addrs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteString("\r\n")
}
