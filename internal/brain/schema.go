package brain

// responseSchema is the JSON schema descriptor for the classified response,
// sent with every completion request so the backend returns structured
// output instead of free prose.
func responseSchema() map[string]any {
	return map[string]any{
		"name":   "agentType",
		"strict": false,
		"schema": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"agentType"},
			"properties": map[string]any{
				"agentType": map[string]any{
					"type": "string",
					"enum": []string{"Friend", "ExpenseTracker", "Note"},
				},
				"message":     map[string]any{"type": "string"},
				"amount":      map[string]any{"type": "number"},
				"category":    map[string]any{"type": "string"},
				"memo":        map[string]any{"type": "string"},
				"dateTimeUtc": map[string]any{"type": "string"},
			},
		},
	}
}
