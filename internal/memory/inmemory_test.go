package memory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func mustInsert(t *testing.T, store Store, payload, userID string, at time.Time) MessageRecord {
	t.Helper()
	rec := NewMessageRecord(payload, userID, userID, TypeText)
	rec.CreatedAt = at
	if err := rec.DeriveKeys(at); err != nil {
		t.Fatalf("DeriveKeys error = %v", err)
	}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert error = %v", err)
	}
	return rec
}

func TestInMemoryStoreNewestFirstScan(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mustInsert(t, store, "first", "42", base)
	mustInsert(t, store, "second", "42", base.Add(10*time.Second))
	mustInsert(t, store, "third", "42", base.Add(20*time.Second))

	cursor, err := store.List(context.Background(), ListFilter{PartitionKey: PartitionKeyFor("42", base)})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	defer cursor.Close()

	var got []string
	for cursor.Next() {
		got = append(got, cursor.Record().Payload)
	}
	if err := cursor.Err(); err != nil {
		t.Fatalf("cursor error = %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("scanned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInMemoryStoreDuplicateKey(t *testing.T) {
	store := NewInMemoryStore()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	rec := mustInsert(t, store, "same second, same payload", "42", at)
	if err := store.Insert(context.Background(), rec); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Insert duplicate error = %v, want ErrDuplicateKey", err)
	}
}

func TestInMemoryStoreInsertUnkeyed(t *testing.T) {
	store := NewInMemoryStore()
	rec := NewMessageRecord("hi", "42", "42", TypeText)
	if err := store.Insert(context.Background(), rec); !errors.Is(err, ErrKeyNotInitialized) {
		t.Fatalf("Insert unkeyed error = %v, want ErrKeyNotInitialized", err)
	}
}

func TestInMemoryStorePartitionIsolation(t *testing.T) {
	store := NewInMemoryStore()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	mustInsert(t, store, "mine", "42", at)
	mustInsert(t, store, "theirs", "7", at)

	cursor, err := store.List(context.Background(), ListFilter{PartitionKey: PartitionKeyFor("42", at)})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	defer cursor.Close()

	count := 0
	for cursor.Next() {
		if cursor.Record().UserID != "42" {
			t.Fatalf("partition scan leaked record for user %q", cursor.Record().UserID)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("scanned %d rows, want 1", count)
	}
}
