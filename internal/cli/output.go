package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// printJSON encodes v as indented JSON to stdout.
func printJSON(v any) error {
	return fprintJSON(os.Stdout, v)
}

// fprintJSON encodes v as indented JSON to w.
func fprintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// messageFlags renders a message's state as a compact flag column:
// * unread, S spam, + starred, ! flagged.
func messageFlags(m *domain.Message) string {
	var b strings.Builder
	if !m.IsRead {
		b.WriteByte('*')
	}
	if m.IsSpam {
		b.WriteByte('S')
	}
	if m.IsStarred {
		b.WriteByte('+')
	}
	if m.IsFlagged {
		b.WriteByte('!')
	}
	if b.Len() == 0 {
		return " "
	}
	return b.String()
}

func joinAddresses(addrs []domain.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
