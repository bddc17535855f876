package brain

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/napatsn/riko/internal/agent"
)

// MockAdapter provides deterministic local completions when no backend is
// configured.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, req Request) (Completion, error) {
	select {
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	default:
	}

	raw, _ := json.Marshal(map[string]any{
		"agentType": "Friend",
		"message":   buildMockReply(req),
	})
	return Completion{Raw: raw}, nil
}

func buildMockReply(req Request) string {
	var last string
	for _, turn := range req.Turns {
		if turn.Role == RoleUser && turn.Text != "" {
			last = turn.Text
		}
	}
	last = strings.TrimSpace(last)
	if last == "" {
		return "I am listening" + agent.SentenceDelimiter
	}
	return "I heard you: " + last + agent.SentenceDelimiter
}
