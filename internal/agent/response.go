package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AgentType is the classified intent of one model completion.
type AgentType string

const (
	AgentFriend         AgentType = "Friend"
	AgentExpenseTracker AgentType = "ExpenseTracker"
	AgentNote           AgentType = "Note"
)

// ErrSchemaValidation reports a completion that does not conform to the
// classified-response schema. Such payloads are never forwarded to the user.
var ErrSchemaValidation = errors.New("agent: completion does not match the classified response schema")

// Response is the closed sum of classified completions. Exactly one variant
// is meaningful per completion; fields belonging to other branches on the
// wire are ignored, not errors.
type Response interface {
	agentType() AgentType
}

// FriendReply is free conversational text.
type FriendReply struct {
	Message string
}

// ExpenseEntry records an expense extracted from the conversation. All
// fields are optional on the wire; missing ones render as empty.
type ExpenseEntry struct {
	Memo       string
	Amount     *float64
	Category   string
	OccurredAt *time.Time
}

// NoteEntry records a note. When the model put the note in the free-text
// message field instead of memo, Inferred carries that text and rendering
// appends a marker showing it was inferred.
type NoteEntry struct {
	Memo     string
	Inferred string
}

func (FriendReply) agentType() AgentType  { return AgentFriend }
func (ExpenseEntry) agentType() AgentType { return AgentExpenseTracker }
func (NoteEntry) agentType() AgentType    { return AgentNote }

// wireResponse is the model-facing single-struct shape with one optional
// field set per branch.
type wireResponse struct {
	AgentType   string   `json:"agentType"`
	Message     string   `json:"message,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    string   `json:"category,omitempty"`
	Memo        string   `json:"memo,omitempty"`
	DateTimeUTC string   `json:"dateTimeUtc,omitempty"`
}

// Parse validates one raw completion and narrows it into the matching
// variant. The agentType tag is required and constrained to the closed set;
// anything else fails with ErrSchemaValidation.
func Parse(raw []byte) (Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	switch normalizeAgentType(wire.AgentType) {
	case AgentNote:
		return NoteEntry{Memo: wire.Memo, Inferred: wire.Message}, nil
	case AgentExpenseTracker:
		entry := ExpenseEntry{
			Memo:     wire.Memo,
			Amount:   wire.Amount,
			Category: wire.Category,
		}
		// An unparsable date renders as empty, not as an error.
		if ts, err := time.Parse(time.RFC3339, wire.DateTimeUTC); err == nil {
			utc := ts.UTC()
			entry.OccurredAt = &utc
		}
		return entry, nil
	case AgentFriend:
		return FriendReply{Message: wire.Message}, nil
	default:
		return nil, fmt.Errorf("%w: unknown agentType %q", ErrSchemaValidation, wire.AgentType)
	}
}

// normalizeAgentType folds the legacy "Expense Tracker" wire spelling into
// the canonical tag so history produced by older deployments still parses.
func normalizeAgentType(tag string) AgentType {
	switch strings.TrimSpace(tag) {
	case "Friend":
		return AgentFriend
	case "ExpenseTracker", "Expense Tracker":
		return AgentExpenseTracker
	case "Note":
		return AgentNote
	default:
		return AgentType("")
	}
}
