package filter

import (
	"context"
	"fmt"
	"log"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

// ActionResult records the outcome of one executed action. Actions are
// independent: one failing does not stop the rest of the list.
type ActionResult struct {
	Action domain.Action
	Err    error
}

// Executor applies filter actions to stored messages.
type Executor struct {
	store store.Store
}

// NewExecutor creates an Executor backed by the given store.
func NewExecutor(s store.Store) *Executor {
	return &Executor{store: s}
}

// ExecuteActions runs every action in order against the message and
// returns one result per action.
func (e *Executor) ExecuteActions(ctx context.Context, actions []domain.Action, msg *domain.Message) []ActionResult {
	results := make([]ActionResult, 0, len(actions))
	for _, action := range actions {
		err := e.ExecuteAction(ctx, action, msg)
		if err != nil {
			log.Printf("[filter] action %s on message %s failed: %v", action.Type, msg.ID, err)
		}
		results = append(results, ActionResult{Action: action, Err: err})
	}
	return results
}

// ExecuteAction applies a single action to the message.
func (e *Executor) ExecuteAction(ctx context.Context, action domain.Action, msg *domain.Message) error {
	switch action.Type {
	case domain.ActionMove:
		if action.Value == "" {
			return fmt.Errorf("move action requires a target folder")
		}
		return e.store.UpdateFolder(ctx, msg.ID, action.Value)
	case domain.ActionMarkRead:
		return e.store.SetRead(ctx, msg.ID, true)
	case domain.ActionMarkUnread:
		return e.store.SetRead(ctx, msg.ID, false)
	case domain.ActionStar:
		return e.store.SetStarred(ctx, msg.ID, true)
	case domain.ActionUnstar:
		return e.store.SetStarred(ctx, msg.ID, false)
	case domain.ActionFlag:
		return e.store.SetFlagged(ctx, msg.ID, true)
	case domain.ActionUnflag:
		return e.store.SetFlagged(ctx, msg.ID, false)
	case domain.ActionDelete:
		return e.store.SoftDelete(ctx, msg.ID)
	case domain.ActionMarkSpam:
		return e.store.MarkSpam(ctx, msg.ID)
	case domain.ActionAddTag:
		return e.store.AddTag(ctx, msg.ID, action.Value)
	case domain.ActionRemoveTag:
		return e.store.RemoveTag(ctx, msg.ID, action.Value)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}
