package memory

import (
	"strings"
	"testing"
	"time"
)

func TestPartitionKeyFixedWidth(t *testing.T) {
	at := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		userID string
		want   string
	}{
		{"ten digit id", "1234567890", "2024-00000000001234567890"},
		{"short id", "42", "2024-00000000000000000042"},
		{"full width id", "12345678901234567890", "2024-12345678901234567890"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PartitionKeyFor(tc.userID, at)
			if got != tc.want {
				t.Fatalf("PartitionKeyFor(%q) = %q, want %q", tc.userID, got, tc.want)
			}
			if len(got) != 4+1+userIDPadWidth {
				t.Fatalf("partition key length = %d, want %d", len(got), 4+1+userIDPadWidth)
			}
		})
	}
}

func TestPartitionKeySharedWithinYear(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC)
	dec := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	if PartitionKeyFor("77", jan) != PartitionKeyFor("77", dec) {
		t.Fatalf("records from the same user and year must share a partition")
	}
	if PartitionKeyFor("77", jan) == PartitionKeyFor("77", jan.AddDate(1, 0, 0)) {
		t.Fatalf("year rollover must change the partition")
	}
}

func TestDescendingIndexOrdering(t *testing.T) {
	// For t1 < t2 the later timestamp must sort first lexicographically.
	times := []int64{0, 1, 1700000000, 1700000001, maxTimestamp - 1}
	for i := 0; i < len(times)-1; i++ {
		earlier, later := DescendingIndex(times[i]), DescendingIndex(times[i+1])
		if !(later < earlier) {
			t.Fatalf("DescendingIndex(%d) = %q not before DescendingIndex(%d) = %q", times[i+1], later, times[i], earlier)
		}
		if len(earlier) != descendingIndexWidth {
			t.Fatalf("index width = %d, want %d", len(earlier), descendingIndexWidth)
		}
	}
}

func TestParseDescendingIndex(t *testing.T) {
	for _, ts := range []int64{0, 1, 999, 1700000000, maxTimestamp - 1} {
		got, err := ParseDescendingIndex(DescendingIndex(ts))
		if err != nil {
			t.Fatalf("ParseDescendingIndex error = %v", err)
		}
		if got != maxTimestamp-ts {
			t.Fatalf("ParseDescendingIndex round-trip = %d, want %d", got, maxTimestamp-ts)
		}
	}
	if _, err := ParseDescendingIndex("123"); err == nil {
		t.Fatalf("expected width error for short index")
	}
}

func TestDeriveKeys(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

	rec := NewMessageRecord("hello there", "1234567890", "1234567890", TypeText)
	rec.CreatedAt = now
	if err := rec.DeriveKeys(now); err != nil {
		t.Fatalf("DeriveKeys error = %v", err)
	}

	pk, err := rec.PartitionKey()
	if err != nil {
		t.Fatalf("PartitionKey error = %v", err)
	}
	if pk != "2024-00000000001234567890" {
		t.Fatalf("partition key = %q", pk)
	}

	rk, err := rec.RowKey()
	if err != nil {
		t.Fatalf("RowKey error = %v", err)
	}
	parts := strings.SplitN(rk, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("row key %q missing digest separator", rk)
	}
	if len(parts[0]) != descendingIndexWidth {
		t.Fatalf("row key index width = %d, want %d", len(parts[0]), descendingIndexWidth)
	}
	if len(parts[1]) != rowKeyDigestLen {
		t.Fatalf("row key digest length = %d, want %d", len(parts[1]), rowKeyDigestLen)
	}

	// Same payload and second derive identically; different payloads diverge
	// only in the digest suffix.
	other := NewMessageRecord("hello there", "1234567890", "1234567890", TypeText)
	other.CreatedAt = now
	if err := other.DeriveKeys(now); err != nil {
		t.Fatalf("DeriveKeys error = %v", err)
	}
	otherRK, _ := other.RowKey()
	if otherRK != rk {
		t.Fatalf("identical payloads derived different row keys: %q vs %q", rk, otherRK)
	}
}

func TestDeriveKeysMissingFields(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name string
		rec  MessageRecord
	}{
		{"missing payload", NewMessageRecord("", "42", "42", TypeText)},
		{"missing user id", NewMessageRecord("hi", "", "42", TypeText)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.rec.DeriveKeys(now); err != ErrKeyNotInitialized {
				t.Fatalf("DeriveKeys error = %v, want ErrKeyNotInitialized", err)
			}
		})
	}
}

func TestKeyAccessBeforeDerive(t *testing.T) {
	rec := NewMessageRecord("hi", "42", "42", TypeText)
	if _, err := rec.PartitionKey(); err != ErrKeyNotInitialized {
		t.Fatalf("PartitionKey error = %v, want ErrKeyNotInitialized", err)
	}
	if _, err := rec.RowKey(); err != ErrKeyNotInitialized {
		t.Fatalf("RowKey error = %v, want ErrKeyNotInitialized", err)
	}
}
