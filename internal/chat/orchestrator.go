package chat

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/napatsn/riko/internal/agent"
	"github.com/napatsn/riko/internal/brain"
	"github.com/napatsn/riko/internal/memory"
	"github.com/napatsn/riko/internal/observability"
	"github.com/napatsn/riko/internal/policy"
	"github.com/napatsn/riko/internal/reliability"
)

// Transport delivers one text fragment at a time to a conversation. Delivery
// order must match submission order.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// InboundMessage is one normalized incoming chat turn.
type InboundMessage struct {
	ChatID int64
	UserID int64
	Text   string
	// PhotoURL is the resolved image file URL when the turn is a photo.
	PhotoURL string
	// ReplyToText is the content of the quoted message, when the turn is a
	// reply visible in the transport layer.
	ReplyToText string
}

const (
	deliveryRetryMax  = 2
	deliveryRetryBase = 250 * time.Millisecond
	deliveryRetryCap  = 2 * time.Second
	// modelCallBackstop bounds one completion even if the adapter's own
	// client timeout misbehaves.
	modelCallBackstop = 25 * time.Second
)

// Orchestrator runs the per-turn pipeline: gate, persist, assemble context,
// complete, classify, render, segment, persist reply, deliver. Each inbound
// turn is handled in isolation; a failed turn never takes the process down.
type Orchestrator struct {
	store     memory.Store
	adapter   brain.Adapter
	gate      *policy.Gate
	transport Transport
	metrics   *observability.Metrics
	loc       *agent.Locale

	windowSize    int
	naturalPacing bool
	paceDelay     time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewOrchestrator(
	store memory.Store,
	adapter brain.Adapter,
	gate *policy.Gate,
	transport Transport,
	metrics *observability.Metrics,
	loc *agent.Locale,
	windowSize int,
	naturalPacing bool,
	paceDelay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		store:         store,
		adapter:       adapter,
		gate:          gate,
		transport:     transport,
		metrics:       metrics,
		loc:           loc,
		windowSize:    windowSize,
		naturalPacing: naturalPacing,
		paceDelay:     paceDelay,
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

// HandleTurn processes one inbound message end to end. The returned error is
// for the caller's logging only: by the time HandleTurn returns, the user has
// already received either real output or a localized fallback.
func (o *Orchestrator) HandleTurn(ctx context.Context, msg InboundMessage) error {
	turnID := uuid.NewString()

	if !o.gate.Allow(msg.UserID) {
		o.metrics.TurnsTotal.WithLabelValues("rejected").Inc()
		return o.deliver(ctx, msg.ChatID, []string{o.loc.NotAuthorized})
	}

	payload, msgType, ok := classifyPayload(msg)
	if !ok {
		o.metrics.TurnsTotal.WithLabelValues("unsupported").Inc()
		return o.deliver(ctx, msg.ChatID, []string{o.loc.SorryMessageType})
	}

	userID := strconv.FormatInt(msg.UserID, 10)
	now := o.now()

	if err := o.persist(ctx, payload, userID, userID, msgType, now); err != nil {
		// History must not be dropped silently: the turn fails visibly.
		o.metrics.TurnsTotal.WithLabelValues("store_error").Inc()
		o.logError(turnID, "persist inbound", err)
		_ = o.deliver(ctx, msg.ChatID, []string{o.loc.Sorry})
		return err
	}

	window, err := memory.BuildWindow(ctx, o.store, memory.WindowRequest{
		UserID:    userID,
		Limit:     o.windowSize,
		ReplySeed: msg.ReplyToText,
		Now:       now,
	})
	if err != nil {
		// A wrong window is worse than a degraded reply; continue with the
		// reply seed alone rather than failing the whole turn.
		o.logError(turnID, "window scan", err)
		window = nil
		if msg.ReplyToText != "" {
			window = []memory.ConversationTurn{{Type: memory.TypeText, Content: msg.ReplyToText}}
		}
	}

	if msgType == memory.TypePhoto {
		// Tell the user the image is being read before the slow model call.
		_ = o.transport.SendText(ctx, msg.ChatID, o.loc.ReadingImage)
	}

	rendered, renderErr := o.complete(ctx, window, payload, msgType, now)
	if renderErr != nil {
		o.logError(turnID, "completion", renderErr)
	}

	fragments := o.fragments(rendered)
	outcome := "ok"
	if renderErr != nil {
		outcome = "degraded"
	}
	if len(fragments) == 0 {
		fragments = []string{o.loc.Sorry}
		outcome = "degraded"
	}

	// The reply is part of history whether or not delivery succeeds.
	joined := strings.Join(fragments, " ")
	if err := o.persist(ctx, joined, userID, memory.BotSenderID, memory.TypeText, o.now()); err != nil {
		o.logError(turnID, "persist reply", err)
	}

	o.metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	return o.deliver(ctx, msg.ChatID, fragments)
}

// complete runs the model call and turns its completion into display text.
// Model and schema failures come back as an error with empty text, which the
// caller degrades to the canned apology.
func (o *Orchestrator) complete(ctx context.Context, window []memory.ConversationTurn, payload string, msgType memory.MessageType, now time.Time) (string, error) {
	req := brain.Request{Turns: brain.SystemTurns(now)}
	for _, turn := range window {
		req.Turns = append(req.Turns, promptTurn(turn))
	}
	if msgType == memory.TypePhoto {
		req.Turns = append(req.Turns, brain.Turn{Role: brain.RoleUser, ImageURL: payload})
	} else {
		req.Turns = append(req.Turns, brain.Turn{Role: brain.RoleUser, Text: payload})
	}

	modelCtx, cancel := context.WithTimeout(ctx, modelCallBackstop)
	defer cancel()

	started := o.now()
	completion, err := o.adapter.Complete(modelCtx, req)
	o.metrics.ObserveModelLatency(o.now().Sub(started))
	if err != nil {
		if errors.Is(err, brain.ErrModelTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return "", brain.ErrModelTimeout
		}
		return "", err
	}

	resp, err := agent.Parse(completion.Raw)
	if err != nil {
		// A non-conforming completion is never forwarded to the user as-is.
		return "", err
	}
	return agent.RenderTrimmed(resp, o.loc), nil
}

// fragments applies the pacing mode: natural mode splits on the sentence
// delimiter; default mode sends the whole text as one message.
func (o *Orchestrator) fragments(rendered string) []string {
	if rendered == "" {
		return nil
	}
	if o.naturalPacing {
		return agent.Segment(rendered)
	}
	if trimmed := strings.TrimSpace(strings.ReplaceAll(rendered, agent.SentenceDelimiter, " ")); trimmed != "" {
		return []string{trimmed}
	}
	return nil
}

func (o *Orchestrator) persist(ctx context.Context, payload, userID, senderID string, msgType memory.MessageType, now time.Time) error {
	rec := memory.NewMessageRecord(payload, userID, senderID, msgType)
	rec.CreatedAt = now
	if err := rec.DeriveKeys(now); err != nil {
		o.metrics.StoreOps.WithLabelValues("insert", "error").Inc()
		return err
	}
	if err := o.store.Insert(ctx, rec); err != nil {
		o.metrics.StoreOps.WithLabelValues("insert", "error").Inc()
		return err
	}
	o.metrics.StoreOps.WithLabelValues("insert", "ok").Inc()
	return nil
}

// deliver sends fragments in order with the pacing delay between them,
// retrying retryable transport failures with capped backoff. Delivery is
// at-least-once; duplicates are preferable to gaps.
func (o *Orchestrator) deliver(ctx context.Context, chatID int64, fragments []string) error {
	for i, fragment := range fragments {
		if i > 0 && o.paceDelay > 0 {
			o.sleep(ctx, o.paceDelay)
		}

		var err error
		for attempt := 0; ; attempt++ {
			err = o.transport.SendText(ctx, chatID, fragment)
			if err == nil || attempt >= deliveryRetryMax || !isRetryableDelivery(err) {
				break
			}
			o.sleep(ctx, reliability.ExponentialBackoff(attempt, deliveryRetryBase, deliveryRetryCap))
		}
		if err != nil {
			return err
		}
		o.metrics.DeliveredFragments.Inc()
	}
	return nil
}

func (o *Orchestrator) logError(turnID, stage string, err error) {
	masked, _ := policy.MaskSecrets(err.Error())
	log.Printf("turn %s: %s: %s", turnID, stage, masked)
}

func classifyPayload(msg InboundMessage) (payload string, msgType memory.MessageType, ok bool) {
	switch {
	case msg.PhotoURL != "":
		return msg.PhotoURL, memory.TypePhoto, true
	case strings.TrimSpace(msg.Text) != "":
		return msg.Text, memory.TypeText, true
	default:
		return "", "", false
	}
}

// promptTurn replays a stored turn for the prompt. Text turns go back with
// the assistant role as shared conversation memory; photo turns stay user
// image turns.
func promptTurn(turn memory.ConversationTurn) brain.Turn {
	if turn.Type == memory.TypePhoto {
		return brain.Turn{Role: brain.RoleUser, ImageURL: turn.Content}
	}
	return brain.Turn{Role: brain.RoleAssistant, Text: turn.Content}
}

// StatusError exposes an HTTP-ish status code from a transport error.
type StatusError interface {
	error
	StatusCode() int
}

func isRetryableDelivery(err error) bool {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return reliability.IsRetryableHTTPStatus(statusErr.StatusCode())
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
