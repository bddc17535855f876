package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role tags one prompt turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged prompt entry. ImageURL set means an image turn.
type Turn struct {
	Role     Role
	Text     string
	ImageURL string
}

// Request is one completion request: an ordered list of role-tagged
// text/image turns plus the classified-response schema descriptor, which the
// adapter attaches itself.
type Request struct {
	Turns []Turn
}

// Completion is the model's structured answer, a JSON document expected to
// match the classified-response schema. Validation happens downstream.
type Completion struct {
	Raw []byte
}

// ErrModelTimeout reports that the backend did not answer within the
// configured deadline. The turn degrades to an apology instead of blocking.
var ErrModelTimeout = errors.New("brain: model backend timed out")

// Adapter bridges the chat pipeline with a completion backend.
type Adapter interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// Config controls adapter construction.
type Config struct {
	Mode    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIAdapter(cfg), nil
		}
		return NewMockAdapter(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("brain: api key is required for openai mode")
		}
		return NewOpenAIAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("brain: unsupported adapter mode %q", cfg.Mode)
	}
}
