package filter

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lu-zhengda/mailsift/internal/domain"
)

// fieldValue is a resolved message attribute. Exactly one of the typed
// slots is meaningful, selected by kind; a missing field has kind
// kindMissing and makes every condition except is_empty unsatisfiable.
type fieldValue struct {
	kind kind
	str  string
	list []string
	b    bool
	n    int
	t    time.Time
}

type kind int

const (
	kindMissing kind = iota
	kindString
	kindList
	kindBool
	kindNumber
	kindTime
)

func resolveField(field domain.Field, msg *domain.Message) fieldValue {
	switch field {
	case domain.FieldFrom:
		return fieldValue{kind: kindString, str: msg.From.String()}
	case domain.FieldTo:
		return fieldValue{kind: kindList, list: addressStrings(msg.To)}
	case domain.FieldCC:
		return fieldValue{kind: kindList, list: addressStrings(msg.CC)}
	case domain.FieldSubject:
		return fieldValue{kind: kindString, str: msg.Subject}
	case domain.FieldBody:
		return fieldValue{kind: kindString, str: msg.Body()}
	case domain.FieldHasAttachments:
		return fieldValue{kind: kindBool, b: msg.HasAttachments()}
	case domain.FieldSize:
		return fieldValue{kind: kindNumber, n: msg.Size()}
	case domain.FieldDate:
		return fieldValue{kind: kindTime, t: msg.Date}
	case domain.FieldFolder:
		return fieldValue{kind: kindString, str: msg.Folder}
	default:
		return fieldValue{kind: kindMissing}
	}
}

func addressStrings(addrs []domain.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

// MatchCondition evaluates one condition against a message. Unknown
// fields and operators never error; they evaluate to false so a bad
// condition disables its filter rather than breaking a sync run.
func MatchCondition(cond domain.Condition, msg *domain.Message) bool {
	val := resolveField(cond.Field, msg)

	switch cond.Operator {
	case domain.OpIsEmpty:
		return isEmpty(val)
	case domain.OpIsNotEmpty:
		return !isEmpty(val)
	}

	if val.kind == kindMissing {
		return false
	}

	switch cond.Operator {
	case domain.OpEquals:
		return equals(val, cond.Value)
	case domain.OpNotEquals:
		return !equals(val, cond.Value)
	case domain.OpContains:
		return stringTest(val, cond.Value, strings.Contains)
	case domain.OpNotContains:
		return !stringTest(val, cond.Value, strings.Contains)
	case domain.OpStartsWith:
		return stringTest(val, cond.Value, strings.HasPrefix)
	case domain.OpEndsWith:
		return stringTest(val, cond.Value, strings.HasSuffix)
	case domain.OpMatchesRegex:
		re, err := regexp.Compile(cond.Value)
		if err != nil {
			log.Printf("[filter] invalid regex %q in condition %s: %v", cond.Value, cond.ID, err)
			return false
		}
		return regexTest(val, re)
	case domain.OpGreaterThan:
		return compareOrdered(val, cond.Value) > 0
	case domain.OpLessThan:
		return compareOrdered(val, cond.Value) < 0
	default:
		log.Printf("[filter] unknown operator %q in condition %s", cond.Operator, cond.ID)
		return false
	}
}

func isEmpty(v fieldValue) bool {
	switch v.kind {
	case kindMissing:
		return true
	case kindString:
		return v.str == ""
	case kindList:
		return len(v.list) == 0
	case kindTime:
		return v.t.IsZero()
	default:
		// Booleans and numbers are always present once resolved.
		return false
	}
}

func equals(v fieldValue, want string) bool {
	switch v.kind {
	case kindBool:
		parsed, err := strconv.ParseBool(strings.TrimSpace(want))
		if err != nil {
			return false
		}
		return v.b == parsed
	case kindNumber:
		parsed, err := strconv.Atoi(strings.TrimSpace(want))
		if err != nil {
			return false
		}
		return v.n == parsed
	case kindTime:
		return strings.EqualFold(v.t.Format(time.RFC3339), want)
	case kindList:
		for _, s := range v.list {
			if strings.EqualFold(s, want) {
				return true
			}
		}
		return false
	default:
		return strings.EqualFold(v.str, want)
	}
}

// stringTest applies a case-insensitive substring-style predicate to a
// string or each element of a list.
func stringTest(v fieldValue, want string, pred func(s, substr string) bool) bool {
	want = strings.ToLower(want)
	switch v.kind {
	case kindList:
		for _, s := range v.list {
			if pred(strings.ToLower(s), want) {
				return true
			}
		}
		return false
	case kindString:
		return pred(strings.ToLower(v.str), want)
	case kindTime:
		return pred(strings.ToLower(v.t.Format(time.RFC3339)), want)
	default:
		return false
	}
}

func regexTest(v fieldValue, re *regexp.Regexp) bool {
	switch v.kind {
	case kindList:
		for _, s := range v.list {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	case kindString:
		return re.MatchString(v.str)
	default:
		return false
	}
}

// compareOrdered returns -1, 0 or 1 for field < value, == or >, and 0
// when the comparison is not meaningful (non-numeric value against a
// size, unparseable date). Callers using strict inequality then get
// false, which is the safe answer.
func compareOrdered(v fieldValue, want string) int {
	switch v.kind {
	case kindNumber:
		parsed, err := strconv.Atoi(strings.TrimSpace(want))
		if err != nil {
			return 0
		}
		switch {
		case v.n > parsed:
			return 1
		case v.n < parsed:
			return -1
		}
		return 0
	case kindTime:
		parsed, err := parseDateValue(want)
		if err != nil {
			return 0
		}
		switch {
		case v.t.After(parsed):
			return 1
		case v.t.Before(parsed):
			return -1
		}
		return 0
	default:
		return 0
	}
}

func parseDateValue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Match reports whether a filter's condition list matches the message.
// An empty condition list matches everything. MatchAll selects AND
// semantics, otherwise any single matching condition suffices.
func Match(f *domain.Filter, msg *domain.Message) bool {
	if len(f.Conditions) == 0 {
		return true
	}
	if f.MatchAll {
		for _, cond := range f.Conditions {
			if !MatchCondition(cond, msg) {
				return false
			}
		}
		return true
	}
	for _, cond := range f.Conditions {
		if MatchCondition(cond, msg) {
			return true
		}
	}
	return false
}
