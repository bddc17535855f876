package memory

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a simple in-process store for local/dev use and tests. It
// keeps every partition sorted by row key so List order matches the postgres
// backend.
type InMemoryStore struct {
	mu         sync.RWMutex
	partitions map[string][]MessageRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{partitions: make(map[string][]MessageRecord)}
}

func (s *InMemoryStore) CreateTable(_ context.Context) error { return nil }

func (s *InMemoryStore) Insert(_ context.Context, record MessageRecord) error {
	partitionKey, err := record.PartitionKey()
	if err != nil {
		return err
	}
	rowKey, err := record.RowKey()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.partitions[partitionKey]
	i := sort.Search(len(rows), func(i int) bool { return rows[i].rowKey >= rowKey })
	if i < len(rows) && rows[i].rowKey == rowKey {
		return ErrDuplicateKey
	}
	rows = append(rows, MessageRecord{})
	copy(rows[i+1:], rows[i:])
	rows[i] = record
	s.partitions[partitionKey] = rows
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) (Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]MessageRecord, len(s.partitions[filter.PartitionKey]))
	copy(rows, s.partitions[filter.PartitionKey])
	return &sliceCursor{rows: rows, pos: -1}, nil
}

func (s *InMemoryStore) Close() error { return nil }

type sliceCursor struct {
	rows []MessageRecord
	pos  int
}

func (c *sliceCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Record() MessageRecord { return c.rows[c.pos] }
func (c *sliceCursor) Err() error            { return nil }
func (c *sliceCursor) Close()                {}
