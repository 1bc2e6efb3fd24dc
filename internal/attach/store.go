package attach

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxFilenameLen = 255

// Store writes attachment blobs to the local filesystem. Files are
// named <messageID>_<sanitizedFilename> under the store root so that
// two messages can carry attachments with the same name.
type Store struct {
	root string
}

// NewStore creates the attachment directory if needed.
func NewStore(dataDir string) (*Store, error) {
	root := filepath.Join(dataDir, "attachments")
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes an attachment blob and returns the path it was stored at.
func (s *Store) Save(messageID, filename string, content []byte) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		name = "attachment"
	}
	path := filepath.Join(s.root, messageID+"_"+name)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o640); err != nil {
		return "", fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to finalize attachment %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes a stored attachment blob. Removing a missing blob is
// not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment %s: %w", path, err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
var whitespace = regexp.MustCompile(`\s+`)

// SanitizeFilename strips characters that are unsafe in filenames,
// collapses whitespace, and truncates to the filesystem limit.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}
