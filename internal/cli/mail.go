package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/store"
)

func newListCmd() *cobra.Command {
	var accountFlag string
	var folderFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored messages",
		Long:  "List messages in a folder (defaults to INBOX), newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			accountID, err := resolveAccountFlag(db, accountFlag)
			if err != nil {
				return err
			}

			msgs, err := db.ListMessages(cmd.Context(), store.ListMessageOptions{
				AccountID: accountID,
				Folder:    folderFlag,
				Limit:     limitFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to list messages: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONMessages(msgs))
			}

			if len(msgs) == 0 {
				fmt.Println("No messages found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FLAGS\tFROM\tSUBJECT\tDATE\tID")
			for _, m := range msgs {
				flags := messageFlags(&m)
				from := m.From.Name
				if from == "" {
					from = m.From.Email
				}
				if len(from) > 30 {
					from = from[:27] + "..."
				}
				subject := m.Subject
				if len(subject) > 50 {
					subject = subject[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					flags, from, subject,
					m.Date.Format("Jan 2, 2006"),
					m.ID,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account ID (defaults to config default)")
	cmd.Flags().StringVar(&folderFlag, "folder", "INBOX", "folder to list")
	cmd.Flags().IntVar(&limitFlag, "limit", 25, "max messages to show")
	return cmd
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Read a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			msg, err := db.GetMessage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONMessageDetail(msg))
			}

			fmt.Printf("From: %s\n", msg.From)
			if len(msg.To) > 0 {
				fmt.Printf("To: %s\n", joinAddresses(msg.To))
			}
			if len(msg.CC) > 0 {
				fmt.Printf("Cc: %s\n", joinAddresses(msg.CC))
			}
			fmt.Printf("Subject: %s\n", msg.Subject)
			fmt.Printf("Date: %s\n", msg.Date.Format("Mon, Jan 2 2006 15:04"))
			fmt.Printf("Folder: %s\n", msg.Folder)
			if len(msg.Tags) > 0 {
				fmt.Printf("Tags: %s\n", strings.Join(msg.Tags, ", "))
			}
			if len(msg.Attachments) > 0 {
				fmt.Println("Attachments:")
				for _, a := range msg.Attachments {
					fmt.Printf("  %s (%s, %d bytes) -> %s\n", a.Filename, a.MIMEType, a.Size, a.Path)
				}
			}
			fmt.Println()
			fmt.Println(msg.Body())

			if !msg.IsRead {
				if err := db.SetRead(cmd.Context(), msg.ID, true); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not mark as read: %v\n", err)
				}
			}
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	var accountFlag string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over stored messages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			accountID, err := resolveAccountFlag(db, accountFlag)
			if err != nil {
				return err
			}

			msgs, err := db.SearchMessages(cmd.Context(), query, accountID)
			if err != nil {
				return fmt.Errorf("failed to search: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONMessages(msgs))
			}

			if len(msgs) == 0 {
				fmt.Println("No matches.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FROM\tSUBJECT\tDATE\tID")
			for _, m := range msgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					m.From.Email, m.Subject, m.Date.Format("Jan 2, 2006"), m.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account ID (defaults to config default)")
	return cmd
}

func newContactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List harvested contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			contacts, err := db.ListContacts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONContacts(contacts))
			}

			if len(contacts) == 0 {
				fmt.Println("No contacts yet. Run 'mailsift sync' first.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tNAME\tSEEN")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.Email, c.Name, c.TimesSeen)
			}
			return w.Flush()
		},
	}
}
