package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/spam"
)

func newSpamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spam",
		Short: "Manage spam rules and sender lists",
	}
	cmd.AddCommand(newSpamRulesCmd())
	cmd.AddCommand(newSpamRuleAddCmd())
	cmd.AddCommand(newListEntriesCmd(domain.ListBlack))
	cmd.AddCommand(newListEntriesCmd(domain.ListWhite))
	cmd.AddCommand(newSpamMarkCmd(true))
	cmd.AddCommand(newSpamMarkCmd(false))
	return cmd
}

func newSpamRulesCmd() *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List spam rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			rules, err := db.ListSpamRules(cmd.Context(), !allFlag)
			if err != nil {
				return fmt.Errorf("failed to list spam rules: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONSpamRules(rules))
			}

			if len(rules) == 0 {
				fmt.Println("No spam rules.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ON\tSCORE\tTYPE\tPATTERN\tDESCRIPTION")
			for _, r := range rules {
				enabled := " "
				if r.IsEnabled {
					enabled = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					enabled, r.Priority, r.RuleType, r.Pattern, r.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "include disabled rules")
	return cmd
}

func newSpamRuleAddCmd() *cobra.Command {
	var (
		ruleType string
		score    int
		desc     string
	)

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a spam rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			rule := &domain.SpamRule{
				RuleType:    domain.SpamRuleType(ruleType),
				Pattern:     args[0],
				Priority:    score,
				IsEnabled:   true,
				Description: desc,
			}
			if err := db.CreateSpamRule(cmd.Context(), rule); err != nil {
				return fmt.Errorf("failed to create spam rule: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add"})
			}
			fmt.Printf("Spam rule added: %s %q (score %d)\n", ruleType, args[0], score)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleType, "type", "keyword", "rule type (keyword, link, header)")
	cmd.Flags().IntVar(&score, "score", 10, "score added when the rule matches")
	cmd.Flags().StringVar(&desc, "description", "", "optional description")
	return cmd
}

// newListEntriesCmd builds the blacklist/whitelist subcommand tree;
// both lists have identical add/remove/list surfaces.
func newListEntriesCmd(kind domain.ListKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage the sender %s", kind),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <address>",
		Short: fmt.Sprintf("Add an address to the %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entry := domain.NewListEntry(kind, args[0])
			if err := db.CreateListEntry(cmd.Context(), &entry); err != nil {
				return fmt.Errorf("failed to add to %s: %w", kind, err)
			}
			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add", Email: entry.EmailAddress})
			}
			fmt.Printf("Added to %s: %s\n", kind, entry.EmailAddress)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <address>",
		Short: fmt.Sprintf("Remove an address from the %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteListEntry(cmd.Context(), kind, args[0]); err != nil {
				return fmt.Errorf("failed to remove from %s: %w", kind, err)
			}
			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "remove", Email: args[0]})
			}
			fmt.Printf("Removed from %s: %s\n", kind, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("Show the %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.ListEntries(cmd.Context(), kind)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind, err)
			}

			if jsonFlag {
				return printJSON(toJSONListEntries(entries))
			}

			if len(entries) == 0 {
				fmt.Printf("The %s is empty.\n", kind)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ADDRESS\tDOMAIN\tADDED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.EmailAddress, e.Domain, e.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	})

	return cmd
}

// newSpamMarkCmd marks a stored message as spam or ham and feeds the
// decision back into the rule learner.
func newSpamMarkCmd(asSpam bool) *cobra.Command {
	use, short := "mark <message-id>", "Mark a message as spam and learn from it"
	if !asSpam {
		use, short = "unmark <message-id>", "Mark a message as not spam"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			msg, err := db.GetMessage(ctx, args[0])
			if err != nil {
				return err
			}

			if asSpam {
				if err := db.MarkSpam(ctx, msg.ID); err != nil {
					return err
				}
			}

			classifier := spam.NewClassifier(db)
			if err := classifier.LearnFromFeedback(ctx, msg, asSpam); err != nil {
				return err
			}

			if jsonFlag {
				action := "mark-spam"
				if !asSpam {
					action = "mark-ham"
				}
				return printJSON(jsonAction{OK: true, Action: action, MessageID: msg.ID})
			}
			if asSpam {
				fmt.Printf("Marked as spam: %s\n", msg.Subject)
			} else {
				fmt.Printf("Marked as not spam: %s\n", msg.Subject)
			}
			return nil
		},
	}
}
