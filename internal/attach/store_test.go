package attach

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unsafe characters", `inv<oi>ce:"2026"/q1\|?*.pdf`, "invoice2026q1.pdf"},
		{"whitespace collapsed", "my   report\t\nfinal.pdf", "my report final.pdf"},
		{"leading and trailing space", "  doc.txt  ", "doc.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"
	got := SanitizeFilename(long)
	if len(got) != 255 {
		t.Errorf("len = %d, want 255", len(got))
	}
}

func TestSaveAndRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	path, err := store.Save("msg-1", "re port?.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if filepath.Base(path) != "msg-1_re port.pdf" {
		t.Errorf("stored name = %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored attachment: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("attachment still exists after Remove()")
	}

	// Removing again is not an error.
	if err := store.Remove(path); err != nil {
		t.Errorf("Remove() of missing blob error: %v", err)
	}
}

func TestSave_EmptyFilename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	path, err := store.Save("msg-2", `<>:"?`, []byte("x"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if filepath.Base(path) != "msg-2_attachment" {
		t.Errorf("stored name = %q, want fallback name", filepath.Base(path))
	}
}
