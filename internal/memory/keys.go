package memory

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// maxTimestamp is the far-future anchor for the log-tail row key layout
// (November 16, 5138). Its decimal width fixes the zero-padded index width;
// changing either silently breaks lexicographic ordering of existing rows.
const maxTimestamp int64 = 100_000_000_000

// descendingIndexWidth is len("100000000000").
const descendingIndexWidth = 12

// userIDPadWidth keeps partition keys fixed-width for any numeric-looking
// Telegram user ID.
const userIDPadWidth = 20

// rowKeyDigestLen is the number of hex digest characters appended to the row
// key. It only disambiguates same-second writes; it is not a uniqueness
// guarantee.
const rowKeyDigestLen = 10

// PartitionKeyFor groups one user's traffic by UTC calendar year:
// "{YYYY}-{userId zero-padded to 20}". Yearly rollover bounds partition
// growth without an explicit archival step.
func PartitionKeyFor(userID string, at time.Time) string {
	return at.UTC().Format("2006") + "-" + padUserID(userID)
}

func padUserID(userID string) string {
	if len(userID) >= userIDPadWidth {
		return userID
	}
	return strings.Repeat("0", userIDPadWidth-len(userID)) + userID
}

// DescendingIndex encodes a unix timestamp as a fixed-width decimal of
// maxTimestamp-t, so ascending lexicographic order equals descending
// chronological order and the newest row sorts first.
func DescendingIndex(unixSeconds int64) string {
	return fmt.Sprintf("%0*d", descendingIndexWidth, maxTimestamp-unixSeconds)
}

// ParseDescendingIndex recovers maxTimestamp-t from an encoded index.
func ParseDescendingIndex(s string) (int64, error) {
	if len(s) != descendingIndexWidth {
		return 0, fmt.Errorf("memory: descending index %q has width %d, want %d", s, len(s), descendingIndexWidth)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("memory: parse descending index %q: %w", s, err)
	}
	return n, nil
}

// payloadDigest is the first rowKeyDigestLen hex characters of the payload's
// SHA3-256 digest.
func payloadDigest(payload string) string {
	sum := sha3.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:rowKeyDigestLen]
}

// DeriveKeys computes the partition and row keys for the record at the given
// wall-clock instant. It must run before the record is insertable and fails
// when payload or user ID are absent.
func (r *MessageRecord) DeriveKeys(now time.Time) error {
	if strings.TrimSpace(r.Payload) == "" || strings.TrimSpace(r.UserID) == "" {
		return ErrKeyNotInitialized
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	r.partitionKey = PartitionKeyFor(r.UserID, r.CreatedAt)
	r.rowKey = DescendingIndex(now.UTC().Unix()) + "-" + payloadDigest(r.Payload)
	return nil
}
