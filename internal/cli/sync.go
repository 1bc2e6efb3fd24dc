package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/attach"
	"github.com/lu-zhengda/mailsift/internal/config"
	"github.com/lu-zhengda/mailsift/internal/mailbox"
	"github.com/lu-zhengda/mailsift/internal/notify"
	"github.com/lu-zhengda/mailsift/internal/store"
	"github.com/lu-zhengda/mailsift/internal/sync"
)

func newSyncCmd() *cobra.Command {
	var (
		accountFlag string
		foldersFlag []string
		draftsFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync mail from the IMAP server",
		Long:  "Fetches new messages from the configured folders, stores them locally and runs spam scoring and filters over them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			accountID := accountFlag
			if accountID == "" {
				accountID, err = resolveAccountID(db, cfg)
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			account, err := db.GetAccount(ctx, accountID)
			if err != nil {
				return err
			}

			passwords := store.NewKeyringPasswordStore()
			password, err := passwords.LoadPassword(account.ID)
			if err != nil {
				return err
			}

			attachments, err := attach.NewStore(config.DataDir())
			if err != nil {
				return err
			}

			var notifier notify.Notifier = notify.Nop{}
			if cfg.Notify.Enabled {
				notifier = notify.NewDesktopNotifier()
			}

			client := mailbox.NewIMAPClient(
				account.IMAPHost, account.IMAPPort,
				account.Email, password, account.UseTLS,
			)
			syncer := sync.New(sync.Options{
				Client:       client,
				Store:        db,
				Attachments:  attachments,
				Notifier:     notifier,
				AccountID:    account.ID,
				DraftsFolder: cfg.Sync.DraftsFolder,
				NotifySound:  cfg.Notify.Sound,
			})

			folders := foldersFlag
			if len(folders) == 0 {
				folders = cfg.Sync.Folders
			}

			if !jsonFlag {
				fmt.Printf("Syncing %s...\n", account.Email)
			}
			result, err := syncer.SyncFolders(ctx, folders)
			if err != nil {
				return fmt.Errorf("failed to sync: %w", err)
			}

			drafts := 0
			if draftsFlag {
				drafts, err = syncer.SyncDrafts(ctx)
				if err != nil {
					return fmt.Errorf("failed to sync drafts: %w", err)
				}
			}

			if jsonFlag {
				return printJSON(toJSONSyncResult(result, drafts))
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "New messages\t%d\n", result.NewEmails)
			fmt.Fprintf(w, "Spam detected\t%d\n", result.SpamDetected)
			fmt.Fprintf(w, "Filter matches\t%d\n", result.FiltersApplied)
			fmt.Fprintf(w, "Skipped\t%d\n", result.Skipped)
			if draftsFlag {
				fmt.Fprintf(w, "Drafts\t%d\n", drafts)
			}
			fmt.Fprintf(w, "Duration\t%s\n", result.Duration.Round(time.Millisecond))
			w.Flush()

			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account ID to sync (defaults to config default or first account)")
	cmd.Flags().StringSliceVar(&foldersFlag, "folder", nil, "folders to sync (defaults to sync.folders from config)")
	cmd.Flags().BoolVar(&draftsFlag, "drafts", false, "also sync the drafts folder")
	return cmd
}
