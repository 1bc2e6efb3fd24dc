package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/filter"
	"github.com/lu-zhengda/mailsift/internal/store"
)

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage message filters",
	}
	cmd.AddCommand(newFilterListCmd())
	cmd.AddCommand(newFilterAddCmd())
	cmd.AddCommand(newFilterEnableCmd(true))
	cmd.AddCommand(newFilterEnableCmd(false))
	cmd.AddCommand(newFilterRemoveCmd())
	cmd.AddCommand(newFilterTestCmd())
	cmd.AddCommand(newFilterStatsCmd())
	return cmd
}

func newFilterListCmd() *cobra.Command {
	var accountFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List filters in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			filters, err := db.ListFilters(cmd.Context(), store.ListFilterOptions{
				AccountID: accountFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to list filters: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONFilters(filters))
			}

			if len(filters) == 0 {
				fmt.Println("No filters defined.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ON\tPRIORITY\tNAME\tCONDITIONS\tACTIONS\tID")
			for i := range filters {
				f := &filters[i]
				enabled := " "
				if f.IsEnabled {
					enabled = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\n",
					enabled, f.Priority, f.Name, len(f.Conditions), len(f.Actions), f.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account ID (defaults to all filters)")
	return cmd
}

func newFilterAddCmd() *cobra.Command {
	var (
		accountFlag string
		priority    int
		matchAny    bool
		conditions  []string
		actions     []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a filter",
		Long: `Add a filter with conditions and actions.

Conditions use the form field:operator:value, e.g.
  --when from:contains:newsletter@ --when subject:matches_regex:'(?i)digest'
Actions use the form type or type:value, e.g.
  --then move:Newsletters --then mark_read`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(actions) == 0 {
				return fmt.Errorf("at least one --then action is required")
			}

			f := &domain.Filter{
				AccountID: accountFlag,
				Name:      args[0],
				Priority:  priority,
				MatchAll:  !matchAny,
				IsEnabled: true,
			}
			for _, spec := range conditions {
				cond, err := parseCondition(spec)
				if err != nil {
					return err
				}
				f.Conditions = append(f.Conditions, cond)
			}
			for _, spec := range actions {
				act, err := parseAction(spec)
				if err != nil {
					return err
				}
				f.Actions = append(f.Actions, act)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.CreateFilter(cmd.Context(), f); err != nil {
				return fmt.Errorf("failed to create filter: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add", FilterID: f.ID})
			}
			fmt.Printf("Filter added: %s (%s)\n", f.Name, f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account the filter applies to (empty = all)")
	cmd.Flags().IntVar(&priority, "priority", 0, "evaluation priority (higher runs first)")
	cmd.Flags().BoolVar(&matchAny, "any", false, "match when any condition holds instead of all")
	cmd.Flags().StringArrayVar(&conditions, "when", nil, "condition as field:operator[:value] (repeatable)")
	cmd.Flags().StringArrayVar(&actions, "then", nil, "action as type[:value] (repeatable)")
	return cmd
}

func parseCondition(spec string) (domain.Condition, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return domain.Condition{}, fmt.Errorf("invalid condition %q, want field:operator[:value]", spec)
	}
	cond := domain.Condition{
		Field:    domain.Field(parts[0]),
		Operator: domain.Operator(parts[1]),
	}
	if len(parts) == 3 {
		cond.Value = parts[2]
	}
	return cond, nil
}

func parseAction(spec string) (domain.Action, error) {
	parts := strings.SplitN(spec, ":", 2)
	act := domain.Action{Type: domain.ActionType(parts[0])}
	if len(parts) == 2 {
		act.Value = parts[1]
	}
	return act, nil
}

func newFilterEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <filter-id>", "Enable a filter"
	if !enable {
		use, short = "disable <filter-id>", "Disable a filter"
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

			if err := db.SetFilterEnabled(cmd.Context(), args[0], enable); err != nil {
				return err
			}
			if jsonFlag {
				action := "enable"
				if !enable {
					action = "disable"
				}
				return printJSON(jsonAction{OK: true, Action: action, FilterID: args[0]})
			}
			fmt.Printf("Filter %s: %s\n", map[bool]string{true: "enabled", false: "disabled"}[enable], args[0])
			return nil
		},
	}
}

func newFilterRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <filter-id>",
		Short: "Remove a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteFilter(cmd.Context(), args[0]); err != nil {
				return err
			}
			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "remove", FilterID: args[0]})
			}
			fmt.Printf("Filter removed: %s\n", args[0])
			return nil
		},
	}
}

func newFilterTestCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "test <filter-id>",
		Short: "Dry-run a filter against stored messages",
		Long:  "Shows which stored messages the filter would match. No actions are executed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := filter.NewEngine(db)
			matches, err := engine.TestFilter(cmd.Context(), args[0], limitFlag)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONMessages(matches))
			}

			if len(matches) == 0 {
				fmt.Println("No matches.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FROM\tSUBJECT\tFOLDER\tID")
			for _, m := range matches {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.From.Email, m.Subject, m.Folder, m.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 100, "max messages to test against")
	return cmd
}

func newFilterStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show filter counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := filter.NewEngine(db)
			stats, err := engine.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(stats)
			}
			fmt.Printf("Filters: %d total, %d enabled\n", stats.Total, stats.Enabled)
			return nil
		},
	}
}
