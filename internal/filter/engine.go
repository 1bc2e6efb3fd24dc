package filter

import (
	"context"
	"fmt"
	"log"

	"github.com/lu-zhengda/mailsift/internal/domain"
	"github.com/lu-zhengda/mailsift/internal/store"
)

// Engine matches stored filters against messages and applies their
// actions in priority order.
type Engine struct {
	store    store.Store
	executor *Executor
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s, executor: NewExecutor(s)}
}

// ApplyFilters runs every enabled filter against the message, highest
// priority first. After each matching filter's actions run, the message
// is re-read so later filters see the effects of earlier ones (a move
// changes the folder field the next filter tests). Returns the number
// of filters that matched.
func (e *Engine) ApplyFilters(ctx context.Context, msg *domain.Message) (int, error) {
	filters, err := e.store.ListFilters(ctx, store.ListFilterOptions{
		AccountID:   msg.AccountID,
		EnabledOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load filters: %w", err)
	}

	matched := 0
	current := msg
	for i := range filters {
		f := &filters[i]
		if !Match(f, current) {
			continue
		}
		matched++
		log.Printf("[filter] %q matched message %s", f.Name, current.ID)
		e.executor.ExecuteActions(ctx, f.Actions, current)

		updated, err := e.store.GetMessage(ctx, current.ID)
		if err != nil {
			return matched, fmt.Errorf("failed to reload message after filter %q: %w", f.Name, err)
		}
		current = updated
	}
	return matched, nil
}

// TestFilter is a dry run: it reports which stored messages a filter
// would match without executing any actions.
func (e *Engine) TestFilter(ctx context.Context, filterID string, limit int) ([]domain.Message, error) {
	f, err := e.store.GetFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}

	msgs, err := e.store.ListMessages(ctx, store.ListMessageOptions{
		AccountID: f.AccountID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var matches []domain.Message
	for i := range msgs {
		if Match(f, &msgs[i]) {
			matches = append(matches, msgs[i])
		}
	}
	return matches, nil
}

// Stats summarizes the stored filter set.
type Stats struct {
	Total   int `json:"total"`
	Enabled int `json:"enabled"`
}

func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	total, enabled, err := e.store.CountFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count filters: %w", err)
	}
	return &Stats{Total: total, Enabled: enabled}, nil
}
