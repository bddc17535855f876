package agent

import (
	"strings"
	"testing"
	"time"
)

func TestRenderNote(t *testing.T) {
	loc := Thai()

	out := Render(NoteEntry{Memo: "buy milk"}, loc)
	if !strings.Contains(out, "buy milk") {
		t.Fatalf("note output missing memo: %q", out)
	}
	if strings.Contains(out, "agentType") {
		t.Fatalf("note output leaks raw wire fields: %q", out)
	}
	if !strings.HasPrefix(out, loc.NotePrefix) {
		t.Fatalf("note output missing prefix: %q", out)
	}
}

func TestRenderNoteInferredFromFreeText(t *testing.T) {
	loc := Thai()
	out := Render(NoteEntry{Inferred: "remember the meeting"}, loc)
	if !strings.Contains(out, "remember the meeting") {
		t.Fatalf("inferred note missing message: %q", out)
	}
	if !strings.HasSuffix(out, loc.InferredMarker) {
		t.Fatalf("inferred note missing marker: %q", out)
	}
}

func TestRenderExpense(t *testing.T) {
	amount := 120.0
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := Render(ExpenseEntry{
		Memo:       "lunch",
		Amount:     &amount,
		Category:   "food",
		OccurredAt: &occurred,
	}, Thai())

	for _, want := range []string{"120", "food", "lunch", "January 01, 2024"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expense output missing %q: %q", want, out)
		}
	}
}

func TestRenderExpenseMissingFieldsEmptyNotError(t *testing.T) {
	out := Render(ExpenseEntry{Memo: "coffee"}, Thai())
	if !strings.Contains(out, "coffee") {
		t.Fatalf("expense output missing memo: %q", out)
	}
	if strings.Contains(out, "<nil>") || strings.Contains(out, "0001") {
		t.Fatalf("missing optional fields leaked zero values: %q", out)
	}
}

func TestRenderFriendVerbatim(t *testing.T) {
	if out := Render(FriendReply{Message: "hi"}, Thai()); out != "hi" {
		t.Fatalf("friend output = %q, want %q", out, "hi")
	}
	if out := Render(FriendReply{}, Thai()); out != "" {
		t.Fatalf("empty friend output = %q, want empty", out)
	}
}
