package domain

import "time"

// Field names a message attribute a filter condition tests against.
// Unknown field names are tolerated at evaluation time and resolve to
// a missing value, never an error.
type Field string

const (
	FieldFrom           Field = "from"
	FieldTo             Field = "to"
	FieldCC             Field = "cc"
	FieldSubject        Field = "subject"
	FieldBody           Field = "body"
	FieldHasAttachments Field = "has_attachments"
	FieldSize           Field = "size"
	FieldDate           Field = "date"
	FieldFolder         Field = "folder"
)

type Operator string

const (
	OpEquals       Operator = "equals"
	OpNotEquals    Operator = "not_equals"
	OpContains     Operator = "contains"
	OpNotContains  Operator = "not_contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
	OpMatchesRegex Operator = "matches_regex"
	OpGreaterThan  Operator = "greater_than"
	OpLessThan     Operator = "less_than"
	OpIsEmpty      Operator = "is_empty"
	OpIsNotEmpty   Operator = "is_not_empty"
)

type ActionType string

const (
	ActionMove       ActionType = "move"
	ActionMarkRead   ActionType = "mark_read"
	ActionMarkUnread ActionType = "mark_unread"
	ActionStar       ActionType = "star"
	ActionUnstar     ActionType = "unstar"
	ActionFlag       ActionType = "flag"
	ActionUnflag     ActionType = "unflag"
	ActionDelete     ActionType = "delete"
	ActionMarkSpam   ActionType = "mark_spam"
	ActionAddTag     ActionType = "add_tag"
	ActionRemoveTag  ActionType = "remove_tag"
)

type Condition struct {
	ID       string
	FilterID string
	Field    Field
	Operator Operator
	Value    string
	Position int
}

type Action struct {
	ID       string
	FilterID string
	Type     ActionType
	Value    string
	Position int
}

// Filter pairs an ordered condition list with an ordered action list.
// Conditions combine with AND when MatchAll is set, OR otherwise; an
// empty condition list always matches.
type Filter struct {
	ID         string
	AccountID  string
	Name       string
	Priority   int
	MatchAll   bool
	IsEnabled  bool
	CreatedAt  time.Time
	Conditions []Condition
	Actions    []Action
}
