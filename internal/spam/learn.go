package spam

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// spamPhrases is the fixed vocabulary mined from subjects when a user
// marks a message as spam.
var spamPhrases = []string{
	"free", "winner", "prize", "click here", "act now", "limited time",
}

const learnedRulePriority = 5

// LearnFromFeedback adjusts the rule set from a user's spam/ham
// decision. Marking spam mines the subject for known spam phrases and
// creates a keyword rule for each phrase not already covered. Marking
// ham is recorded in the log only; no corrective rule removal happens.
func (c *Classifier) LearnFromFeedback(ctx context.Context, msg *domain.Message, isSpam bool) error {
	if !isSpam {
		log.Printf("[spam] message %s marked as not spam; no rule adjustment", msg.ID)
		return nil
	}

	subject := strings.ToLower(msg.Subject)

	rules, err := c.store.ListSpamRules(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to load spam rules: %w", err)
	}

	var created int
	for _, phrase := range spamPhrases {
		if !strings.Contains(subject, phrase) {
			continue
		}
		if covered(rules, phrase) {
			continue
		}
		rule := &domain.SpamRule{
			RuleType:    domain.SpamRuleKeyword,
			Pattern:     phrase,
			Priority:    learnedRulePriority,
			IsEnabled:   true,
			Description: "learned from user feedback",
		}
		if err := c.store.CreateSpamRule(ctx, rule); err != nil {
			return fmt.Errorf("failed to create learned rule for %q: %w", phrase, err)
		}
		created++
	}

	if created > 0 {
		log.Printf("[spam] learned %d new keyword rule(s) from message %s", created, msg.ID)
	}
	return nil
}

func covered(rules []domain.SpamRule, phrase string) bool {
	for _, r := range rules {
		if r.RuleType != domain.SpamRuleKeyword {
			continue
		}
		if strings.Contains(strings.ToLower(r.Pattern), phrase) {
			return true
		}
	}
	return false
}
