package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage mail accounts",
	}
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var (
		host     string
		port     int
		noTLS    bool
		password string
	)

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add an IMAP account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.IMAP.Host
			}
			if host == "" {
				return fmt.Errorf("no IMAP host: pass --host or set imap.host in the config file")
			}
			if port == 0 {
				port = cfg.IMAP.Port
			}

			if password == "" {
				password = os.Getenv("MAILSIFT_PASSWORD")
			}
			if password == "" {
				fmt.Fprintf(os.Stderr, "Password for %s: ", email)
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			if password == "" {
				return fmt.Errorf("empty password")
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			account := &domain.Account{
				ID:          email,
				Email:       email,
				DisplayName: email,
				IMAPHost:    host,
				IMAPPort:    port,
				UseTLS:      !noTLS,
				CreatedAt:   time.Now(),
			}
			if err := db.CreateAccount(cmd.Context(), account); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}

			passwords := store.NewKeyringPasswordStore()
			if err := passwords.SavePassword(account.ID, password); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add", Email: email})
			}

			fmt.Printf("Account added: %s (%s:%d)\n", email, host, port)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "IMAP server hostname (defaults to imap.host from config)")
	cmd.Flags().IntVar(&port, "port", 0, "IMAP server port (defaults to imap.port from config)")
	cmd.Flags().BoolVar(&noTLS, "no-tls", false, "connect without TLS, upgrade via STARTTLS")
	cmd.Flags().StringVar(&password, "password", "", "IMAP password (prompted if omitted; MAILSIFT_PASSWORD also works)")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			accounts, err := db.ListAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONAccounts(accounts))
			}

			if len(accounts) == 0 {
				fmt.Println("No accounts configured. Run 'mailsift account add' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tSERVER\tCREATED")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s:%d\t%s\n",
					a.ID,
					a.Email,
					a.IMAPHost,
					a.IMAPPort,
					a.CreatedAt.Format(time.DateOnly),
				)
			}
			return w.Flush()
		},
	}
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			accounts, err := db.ListAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			var target *domain.Account
			for i := range accounts {
				if accounts[i].Email == email || accounts[i].ID == email {
					target = &accounts[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("account not found: %s", email)
			}

			if err := db.DeleteAccount(ctx, target.ID); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			passwords := store.NewKeyringPasswordStore()
			if err := passwords.DeletePassword(target.ID); err != nil {
				// Non-fatal: password may already be gone.
				fmt.Fprintf(os.Stderr, "Warning: could not remove password from keyring: %v\n", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "remove", Email: target.Email})
			}

			fmt.Printf("Account removed: %s\n", target.Email)
			return nil
		},
	}
}
