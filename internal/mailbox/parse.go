package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// parseRaw parses a raw RFC 5322 message using go-message, extracting
// header fields, the text/plain and text/html bodies, and attachment
// metadata plus content.
func parseRaw(raw []byte) (*ParsedMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("failed to parse message: empty body")
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer mr.Close()

	parsed := &ParsedMessage{}
	header := mr.Header

	if id, err := header.MessageID(); err == nil {
		parsed.MessageID = id
	}
	parsed.Subject, _ = header.Subject()
	if date, err := header.Date(); err == nil {
		parsed.Date = date
	}

	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		parsed.From = domain.Address{Name: from[0].Name, Email: from[0].Address}
	}
	if to, err := header.AddressList("To"); err == nil {
		for _, a := range to {
			parsed.To = append(parsed.To, domain.Address{Name: a.Name, Email: a.Address})
		}
	}
	if cc, err := header.AddressList("Cc"); err == nil {
		for _, a := range cc {
			parsed.CC = append(parsed.CC, domain.Address{Name: a.Name, Email: a.Address})
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed part ends body extraction but does not
			// invalidate what was already parsed.
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				parsed.TextBody = string(body)
			case strings.HasPrefix(contentType, "text/html"):
				parsed.HTMLBody = string(body)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			content, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			parsed.Attachments = append(parsed.Attachments, AttachmentData{
				Filename:    filename,
				ContentType: contentType,
				Size:        int64(len(content)),
				Content:     content,
			})
		}
	}

	return parsed, nil
}
