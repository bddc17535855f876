package agent

import (
	"fmt"
	"strconv"
	"strings"
)

// expenseDateLayout renders the extracted timestamp in UTC as a human
// date/time string, e.g. "January 01, 2024 00:00".
const expenseDateLayout = "January 02, 2006 15:04"

// Render turns one classified response into the display string for the user.
// It is a pure function; missing optional fields render as empty, never as
// errors.
func Render(resp Response, loc *Locale) string {
	switch r := resp.(type) {
	case NoteEntry:
		if r.Memo != "" {
			return loc.NotePrefix + r.Memo
		}
		return loc.NotePrefix + r.Inferred + loc.InferredMarker
	case ExpenseEntry:
		var amount, date string
		if r.Amount != nil {
			amount = strconv.FormatFloat(*r.Amount, 'f', -1, 64)
		}
		if r.OccurredAt != nil {
			date = r.OccurredAt.Format(expenseDateLayout)
		}
		return fmt.Sprintf("%sNote %s, %s %s %s %s %s %s",
			loc.ExpensePrefix, r.Memo, amount, loc.CurrencyUnit, loc.CategoryLabel, r.Category, loc.DateLabel, date)
	case FriendReply:
		return r.Message
	default:
		return ""
	}
}

// RenderTrimmed is Render with outer whitespace dropped, which is what the
// pipeline persists and segments.
func RenderTrimmed(resp Response, loc *Locale) string {
	return strings.TrimSpace(Render(resp, loc))
}
