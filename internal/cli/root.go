package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/config"
	"github.com/lu-zhengda/mailsift/internal/store/sqlite"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "mailsift",
		Short:   "IMAP mail sync and filtering",
		Long:    "Syncs mail from an IMAP server into a local database and runs it through spam scoring and user filters.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}
			return cmd.Help()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("mailsift %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newAccountCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newFilterCmd())
	root.AddCommand(newSpamCmd())
	root.AddCommand(newContactsCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB creates the data directory and opens the SQLite database.
func openDB() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mailsift.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveAccountID determines which account to use based on config default
// or falls back to the first account in the database.
func resolveAccountID(db *sqlite.DB, cfg *config.Config) (string, error) {
	if cfg.Accounts.Default != "" {
		return cfg.Accounts.Default, nil
	}

	accounts, err := db.ListAccounts(context.Background())
	if err != nil {
		return "", fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts configured; run 'mailsift account add' first")
	}
	return accounts[0].ID, nil
}

// resolveAccountFlag returns the flag value when set, otherwise the
// configured default account.
func resolveAccountFlag(db *sqlite.DB, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return resolveAccountID(db, cfg)
}
