package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// CreateSpamRule inserts a new spam scoring rule.
func (s *DB) CreateSpamRule(ctx context.Context, rule *domain.SpamRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spam_rules (id, rule_type, pattern, priority, is_enabled, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rule.ID, string(rule.RuleType), rule.Pattern, rule.Priority, rule.IsEnabled, rule.Description)
	if err != nil {
		return fmt.Errorf("failed to create spam rule: %w", err)
	}
	return nil
}

// ListSpamRules returns spam rules ordered by priority descending.
func (s *DB) ListSpamRules(ctx context.Context, enabledOnly bool) ([]domain.SpamRule, error) {
	query := `SELECT id, rule_type, pattern, priority, is_enabled, description FROM spam_rules`
	if enabledOnly {
		query += ` WHERE is_enabled = TRUE`
	}
	query += ` ORDER BY priority DESC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list spam rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.SpamRule
	for rows.Next() {
		var r domain.SpamRule
		var ruleType string
		var description sql.NullString
		if err := rows.Scan(&r.ID, &ruleType, &r.Pattern, &r.Priority, &r.IsEnabled, &description); err != nil {
			return nil, fmt.Errorf("failed to scan spam rule: %w", err)
		}
		r.RuleType = domain.SpamRuleType(ruleType)
		r.Description = description.String
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spam rules: %w", err)
	}
	return rules, nil
}
