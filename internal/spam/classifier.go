package spam

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

// Threshold is the score at or above which a message is spam.
const Threshold = 50

const (
	whitelistScore = 0
	blacklistScore = 100
)

// Verdict is the outcome of classifying one message.
type Verdict struct {
	Score   int
	IsSpam  bool
	Reasons []string
}

// Classifier scores messages against the white/blacklist and the
// enabled spam rules.
type Classifier struct {
	store store.Store
}

// NewClassifier creates a Classifier backed by the given store.
func NewClassifier(s store.Store) *Classifier {
	return &Classifier{store: s}
}

// Classify evaluates a message. The whitelist is checked first and
// short-circuits everything, including the blacklist; a blacklisted
// sender short-circuits rule scoring. Otherwise every enabled rule is
// evaluated and matching rule priorities sum into the score.
func (c *Classifier) Classify(ctx context.Context, msg *domain.Message) (*Verdict, error) {
	sender := msg.From.Email

	whitelisted, err := c.store.IsListed(ctx, domain.ListWhite, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to check whitelist: %w", err)
	}
	if whitelisted {
		return &Verdict{
			Score:   whitelistScore,
			IsSpam:  false,
			Reasons: []string{"sender is whitelisted"},
		}, nil
	}

	blacklisted, err := c.store.IsListed(ctx, domain.ListBlack, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return &Verdict{
			Score:   blacklistScore,
			IsSpam:  true,
			Reasons: []string{"sender is blacklisted"},
		}, nil
	}

	rules, err := c.store.ListSpamRules(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load spam rules: %w", err)
	}

	verdict := &Verdict{}
	for _, rule := range rules {
		matched, reason := matchRule(rule, msg)
		if matched {
			verdict.Score += rule.Priority
			verdict.Reasons = append(verdict.Reasons, reason)
		}
	}
	verdict.IsSpam = verdict.Score >= Threshold
	return verdict, nil
}

func matchRule(rule domain.SpamRule, msg *domain.Message) (bool, string) {
	switch rule.RuleType {
	case domain.SpamRuleKeyword:
		if matchKeyword(rule.Pattern, msg.Subject+" "+msg.Body()) {
			return true, fmt.Sprintf("keyword rule matched: %s", rule.Pattern)
		}
	case domain.SpamRuleLink:
		if reason := matchSuspiciousLinks(rule.Pattern, msg.Body()); reason != "" {
			return true, reason
		}
	case domain.SpamRuleHeader:
		// Header rules are not evaluated against real header data:
		// raw headers are not threaded through to the classifier, so
		// this arm can never match. Kept as-is because stored rule
		// data (e.g. the X-Spam-Flag rule) expects the rule type to
		// exist. See DESIGN.md.
		return false, ""
	default:
		log.Printf("[spam] unknown rule type %q, ignoring", rule.RuleType)
	}
	return false, ""
}

// matchKeyword tries the pattern as a case-insensitive regex and falls
// back to a substring test when the pattern does not compile.
func matchKeyword(pattern, text string) bool {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
	}
	return re.MatchString(text)
}

var (
	shortenerDomains = []string{
		"bit.ly", "tinyurl.com", "goo.gl", "ow.ly", "t.co", "is.gd", "buff.ly",
	}
	suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".top", ".click"}

	ipLinkPattern = regexp.MustCompile(`https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	urlPattern    = regexp.MustCompile(`https?://([^\s/"'<>]+)`)
)

// matchSuspiciousLinks checks the body for URL-shortener domains, bare
// IPv4 link targets and suspicious TLDs. A non-empty custom pattern is
// additionally tried as a regex; a bad custom pattern is ignored.
func matchSuspiciousLinks(customPattern, body string) string {
	lower := strings.ToLower(body)

	for _, host := range urlPattern.FindAllStringSubmatch(lower, -1) {
		hostname := host[1]
		if i := strings.IndexByte(hostname, ':'); i >= 0 {
			hostname = hostname[:i]
		}
		for _, d := range shortenerDomains {
			if hostname == d || strings.HasSuffix(hostname, "."+d) {
				return fmt.Sprintf("link to URL shortener %s", d)
			}
		}
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(hostname, tld) {
				return fmt.Sprintf("link to suspicious TLD %s", tld)
			}
		}
	}

	if ipLinkPattern.MatchString(lower) {
		return "link to bare IP address"
	}

	if customPattern != "" {
		re, err := regexp.Compile("(?i)" + customPattern)
		if err == nil && re.MatchString(body) {
			return fmt.Sprintf("link rule matched: %s", customPattern)
		}
	}
	return ""
}
