package memory

import (
	"context"
	"errors"
	"time"
)

// MessageType distinguishes plain text turns from photo turns. Photo turns
// carry an image file URL in the payload, which may expire upstream.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypePhoto MessageType = "photo"
)

// BotSenderID is the sentinel sender for turns authored by the bot itself.
const BotSenderID = "0"

var (
	// ErrKeyNotInitialized reports that a record's partition/row keys were
	// read or required before DeriveKeys ran, or that the record was missing
	// the fields derivation needs.
	ErrKeyNotInitialized = errors.New("memory: partition and row keys are not derived")

	// ErrDuplicateKey reports an insert whose partition+row key pair already
	// exists. The hash tie-break makes this unlikely, but it is surfaced
	// rather than silently dropped.
	ErrDuplicateKey = errors.New("memory: record with this partition and row key already exists")
)

// MessageRecord is one stored conversational turn. Records are append-only:
// created once per inbound or outbound turn, keyed, inserted, never mutated.
type MessageRecord struct {
	Payload   string
	UserID    string
	SenderID  string
	Type      MessageType
	CreatedAt time.Time

	partitionKey string
	rowKey       string
}

// NewMessageRecord builds an unkeyed record stamped with the current time.
func NewMessageRecord(payload, userID, senderID string, typ MessageType) MessageRecord {
	return MessageRecord{
		Payload:   payload,
		UserID:    userID,
		SenderID:  senderID,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
}

// PartitionKey returns the derived partition key, or ErrKeyNotInitialized
// when DeriveKeys has not run yet.
func (r *MessageRecord) PartitionKey() (string, error) {
	if r.partitionKey == "" {
		return "", ErrKeyNotInitialized
	}
	return r.partitionKey, nil
}

// RowKey returns the derived row key, or ErrKeyNotInitialized when
// DeriveKeys has not run yet.
func (r *MessageRecord) RowKey() (string, error) {
	if r.rowKey == "" {
		return "", ErrKeyNotInitialized
	}
	return r.rowKey, nil
}

// Turn is the prompt-facing view of a record: only the payload and its type
// survive. Turns are never persisted directly.
func (r *MessageRecord) Turn() ConversationTurn {
	return ConversationTurn{Type: r.Type, Content: r.Payload}
}

// ConversationTurn is one prior turn as handed to the model backend.
type ConversationTurn struct {
	Type    MessageType
	Content string
}

// ListFilter scopes a List call to one partition.
type ListFilter struct {
	PartitionKey string
}

// Cursor iterates matching rows lazily in ascending row-key order, which by
// the descending-index row key layout is newest-first. Callers may stop
// pulling at any point; Close releases the underlying scan.
type Cursor interface {
	Next() bool
	Record() MessageRecord
	Err() error
	Close()
}

// Store persists and range-scans conversational turns.
type Store interface {
	// CreateTable is idempotent; it fails only on a genuine backend error.
	CreateTable(ctx context.Context) error
	// Insert appends one keyed record. It fails with ErrKeyNotInitialized
	// when the record was never keyed and ErrDuplicateKey on a key collision.
	Insert(ctx context.Context, record MessageRecord) error
	// List opens a fresh cursor over one partition. Calling it again restarts
	// the scan from the top of the partition.
	List(ctx context.Context, filter ListFilter) (Cursor, error)
	Close() error
}
