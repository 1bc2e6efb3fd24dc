package sync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lu-zhengda/mailsift/internal/attach"
	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/filter"
	"github.com/lu-zhengda/mailsift/internal/mailbox"
	"github.com/lu-zhengda/mailsift/internal/notify"
	"github.com/lu-zhengda/mailsift/internal/spam"
	"github.com/lu-zhengda/mailsift/internal/store"
)

// Syncer pulls messages from the remote mailbox, persists the new
// ones and runs them through the enrichment pipeline (spam scoring,
// filters, contact harvesting, notifications).
type Syncer struct {
	client      mailbox.Client
	store       store.Store
	classifier  *spam.Classifier
	engine      *filter.Engine
	attachments *attach.Store
	notifier    notify.Notifier

	accountID    string
	draftsFolder string
	notifySound  bool
}

// Options configures a Syncer.
type Options struct {
	Client       mailbox.Client
	Store        store.Store
	Attachments  *attach.Store
	Notifier     notify.Notifier
	AccountID    string
	DraftsFolder string
	NotifySound  bool
}

// New creates a Syncer. A nil Notifier disables notifications.
func New(opts Options) *Syncer {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Syncer{
		client:       opts.Client,
		store:        opts.Store,
		classifier:   spam.NewClassifier(opts.Store),
		engine:       filter.NewEngine(opts.Store),
		attachments:  opts.Attachments,
		notifier:     notifier,
		accountID:    opts.AccountID,
		draftsFolder: opts.DraftsFolder,
		notifySound:  opts.NotifySound,
	}
}

// Result summarizes one sync run.
type Result struct {
	NewEmails      int            `json:"new_emails"`
	SpamDetected   int            `json:"spam_detected"`
	FiltersApplied int            `json:"filters_applied"`
	Skipped        int            `json:"skipped"`
	Errors         []string       `json:"errors,omitempty"`
	PerFolder      map[string]int `json:"per_folder"`
	Duration       time.Duration  `json:"duration"`
}

// SyncFolders syncs the given folders in order. Only a connection
// failure aborts the run; per-folder and per-message failures are
// recorded in the result and the sync moves on.
func (s *Syncer) SyncFolders(ctx context.Context, folders []string) (*Result, error) {
	start := time.Now()
	result := &Result{PerFolder: make(map[string]int)}

	if err := s.client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mailbox: %w", err)
	}
	defer s.client.Disconnect()

	for _, folder := range folders {
		n, err := s.syncFolder(ctx, folder, result)
		if err != nil {
			log.Printf("[sync] folder %s failed: %v", folder, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", folder, err))
			continue
		}
		result.PerFolder[folder] = n
	}

	result.Duration = time.Since(start)
	log.Printf("[sync] done: %d new, %d spam, %d filter matches, %d skipped in %s",
		result.NewEmails, result.SpamDetected, result.FiltersApplied, result.Skipped, result.Duration)
	return result, nil
}

func (s *Syncer) syncFolder(ctx context.Context, folder string, result *Result) (int, error) {
	status, err := s.client.OpenFolder(ctx, folder, true)
	if err != nil {
		return 0, fmt.Errorf("failed to open folder: %w", err)
	}
	log.Printf("[sync] %s: %d messages on server", status.Name, status.Total)

	window, err := s.fetchWindow(ctx, folder)
	if err != nil {
		return 0, err
	}

	raws, err := s.client.Fetch(ctx, window)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	stored := 0
	for _, raw := range raws {
		ok, err := s.processMessage(ctx, folder, raw, result)
		if err != nil {
			log.Printf("[sync] message uid %d in %s skipped: %v", raw.UID, folder, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s uid %d: %v", folder, raw.UID, err))
			continue
		}
		if ok {
			stored++
		}
	}

	if err := s.store.UpsertFolderSyncState(ctx, folder, time.Now()); err != nil {
		return stored, fmt.Errorf("failed to record sync state: %w", err)
	}
	return stored, nil
}

// fetchWindow derives the incremental fetch window from the highest
// UID already persisted for the folder. No stored messages means a
// full fetch.
func (s *Syncer) fetchWindow(ctx context.Context, folder string) (mailbox.Window, error) {
	maxUID, err := s.store.MaxUID(ctx, folder)
	if err != nil {
		return mailbox.Window{}, fmt.Errorf("failed to read sync watermark: %w", err)
	}
	if maxUID == 0 {
		return mailbox.Window{}, nil
	}
	return mailbox.Window{StartUID: maxUID + 1}, nil
}

// processMessage runs one fetched message through the pipeline.
// Returns false without error when the message was skipped as a
// duplicate. Enrichment steps past persistence fail soft: their
// errors are logged but the stored message stands.
func (s *Syncer) processMessage(ctx context.Context, folder string, raw mailbox.RawMessage, result *Result) (bool, error) {
	existing, err := s.store.FindByUID(ctx, raw.UID, folder)
	if err != nil {
		return false, fmt.Errorf("failed dedup check: %w", err)
	}
	if existing != nil {
		result.Skipped++
		return false, nil
	}

	parsed, err := s.client.Parse(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse message: %w", err)
	}

	if parsed.MessageID != "" {
		dup, err := s.store.FindByMessageID(ctx, parsed.MessageID)
		if err != nil {
			return false, fmt.Errorf("failed dedup check: %w", err)
		}
		if dup != nil {
			result.Skipped++
			return false, nil
		}
	}

	msg := &domain.Message{
		AccountID: s.accountID,
		UID:       raw.UID,
		Folder:    folder,
		MessageID: parsed.MessageID,
		From:      parsed.From,
		To:        parsed.To,
		CC:        parsed.CC,
		Subject:   parsed.Subject,
		BodyText:  parsed.TextBody,
		BodyHTML:  parsed.HTMLBody,
		Date:      parsed.Date,
		IsRead:    parsed.Seen(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return false, fmt.Errorf("failed to store message: %w", err)
	}
	result.NewEmails++

	s.saveAttachments(ctx, msg, parsed.Attachments)

	isSpam := false
	if folder == "INBOX" {
		isSpam = s.classify(ctx, msg, result)
	}

	s.applyFilters(ctx, msg, result)
	s.harvestContacts(ctx, folder, parsed)

	if folder == "INBOX" && !isSpam {
		s.announce(parsed)
	}
	return true, nil
}

func (s *Syncer) saveAttachments(ctx context.Context, msg *domain.Message, atts []mailbox.AttachmentData) {
	if s.attachments == nil {
		return
	}
	for _, att := range atts {
		path, err := s.attachments.Save(msg.ID, att.Filename, att.Content)
		if err != nil {
			log.Printf("[sync] failed to save attachment %q for %s: %v", att.Filename, msg.ID, err)
			continue
		}
		record := &domain.Attachment{
			MessageID: msg.ID,
			Filename:  att.Filename,
			MIMEType:  att.ContentType,
			Size:      att.Size,
			Path:      path,
		}
		if err := s.store.CreateAttachment(ctx, record); err != nil {
			log.Printf("[sync] failed to record attachment %q for %s: %v", att.Filename, msg.ID, err)
		}
	}
}

func (s *Syncer) classify(ctx context.Context, msg *domain.Message, result *Result) bool {
	verdict, err := s.classifier.Classify(ctx, msg)
	if err != nil {
		log.Printf("[sync] spam check for %s failed: %v", msg.ID, err)
		return false
	}
	if !verdict.IsSpam {
		return false
	}
	if err := s.store.MarkSpam(ctx, msg.ID); err != nil {
		log.Printf("[sync] failed to mark %s as spam: %v", msg.ID, err)
		return false
	}
	log.Printf("[sync] spam (score %d): %q from %s", verdict.Score, msg.Subject, msg.From.Email)
	result.SpamDetected++
	return true
}

func (s *Syncer) applyFilters(ctx context.Context, msg *domain.Message, result *Result) {
	matched, err := s.engine.ApplyFilters(ctx, msg)
	if err != nil {
		log.Printf("[sync] filters for %s failed: %v", msg.ID, err)
	}
	result.FiltersApplied += matched
}

// harvestContacts records the sender of every message, and the
// recipients too for folders holding outgoing mail.
func (s *Syncer) harvestContacts(ctx context.Context, folder string, parsed *mailbox.ParsedMessage) {
	s.recordContact(ctx, parsed.From)
	if !sentLikeFolder(folder) {
		return
	}
	for _, addr := range parsed.To {
		s.recordContact(ctx, addr)
	}
	for _, addr := range parsed.CC {
		s.recordContact(ctx, addr)
	}
}

func (s *Syncer) recordContact(ctx context.Context, addr domain.Address) {
	if addr.Email == "" {
		return
	}
	if err := s.store.UpsertContact(ctx, addr.Email, addr.Name); err != nil {
		log.Printf("[sync] failed to record contact %s: %v", addr.Email, err)
	}
}

func sentLikeFolder(folder string) bool {
	f := strings.ToLower(folder)
	return strings.Contains(f, "sent") || strings.Contains(f, "outbox")
}

func (s *Syncer) announce(parsed *mailbox.ParsedMessage) {
	n := notify.Notification{
		Title:   "New mail from " + parsed.From.String(),
		Message: parsed.Subject,
		Sound:   s.notifySound,
	}
	if err := s.notifier.Notify(n); err != nil {
		log.Printf("[sync] notification failed: %v", err)
	}
}
