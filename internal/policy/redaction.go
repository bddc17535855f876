package policy

import "regexp"

var (
	botTokenPattern = regexp.MustCompile(`\b\d{6,12}:[A-Za-z0-9_-]{30,}\b`)
	apiKeyPattern   = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}\b`)
	bearerPattern   = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/-]+=*`)
	dsnCredPattern  = regexp.MustCompile(`(?i)\b(postgres(?:ql)?://[^:/\s]+):[^@\s]+@`)
)

// MaskSecrets masks credential-like values before error text is logged or
// surfaced: Telegram bot tokens, API keys, bearer headers and connection
// string passwords.
func MaskSecrets(input string) (masked string, changed bool) {
	out := input

	next := botTokenPattern.ReplaceAllString(out, "[REDACTED_BOT_TOKEN]")
	changed = changed || next != out
	out = next

	next = apiKeyPattern.ReplaceAllString(out, "[REDACTED_API_KEY]")
	changed = changed || next != out
	out = next

	next = bearerPattern.ReplaceAllString(out, "[REDACTED_BEARER]")
	changed = changed || next != out
	out = next

	next = dsnCredPattern.ReplaceAllString(out, "$1:[REDACTED]@")
	changed = changed || next != out
	out = next

	return out, changed
}
