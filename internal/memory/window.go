package memory

import (
	"context"
	"fmt"
	"time"
)

// WindowRequest describes one context-window assembly.
type WindowRequest struct {
	// UserID scopes the scan. When empty the window degrades to the reply
	// seed alone instead of failing the turn.
	UserID string
	// Limit caps how many stored turns are pulled; zero yields a reply-only
	// or empty window.
	Limit int
	// ReplySeed is the content of the replied-to message, when the current
	// turn is a reply. It conceptually occupies the newest slot.
	ReplySeed string
	// Now anchors the partition to scan (current calendar year).
	Now time.Time
}

// BuildWindow reconstructs a bounded window of prior turns in chronological
// order, ready for direct inclusion in a model prompt. The scan pulls the
// store's natural newest-first order and stops as soon as Limit rows are
// collected, independent of how much older history exists.
//
// A store failure is surfaced, not swallowed into an empty window: wrong but
// non-empty context is worse than a clearly degraded reply, so the caller
// decides whether to degrade.
func BuildWindow(ctx context.Context, store Store, req WindowRequest) ([]ConversationTurn, error) {
	var newestFirst []ConversationTurn
	if req.ReplySeed != "" {
		newestFirst = append(newestFirst, ConversationTurn{Type: TypeText, Content: req.ReplySeed})
	}

	if req.UserID != "" && req.Limit > 0 {
		cursor, err := store.List(ctx, ListFilter{PartitionKey: PartitionKeyFor(req.UserID, req.Now)})
		if err != nil {
			return nil, fmt.Errorf("window scan: %w", err)
		}
		defer cursor.Close()

		taken := 0
		for taken < req.Limit && cursor.Next() {
			rec := cursor.Record()
			newestFirst = append(newestFirst, rec.Turn())
			taken++
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("window scan: %w", err)
		}
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	return newestFirst, nil
}
