package brain

import (
	"fmt"
	"time"

	"github.com/napatsn/riko/internal/agent"
)

// classifierPrompt steers the model into the multi-agent classification the
// formatter expects.
const classifierPrompt = `You need to classify the agent:
	1) ExpenseTracker, when related with expense, income, bill, receipt. Extract memo, amount and category, get dateTimeUtc based on the conversation relative to the current date
	2) Note, when related with note, reminder, to-do list. Extract memo, dateTimeUtc
	3) Friend, when other conversation, response with AI generated message`

const contextPrompt = `Understand the context of the conversation, extract possible context change possibility when compared with the previous conversation`

// characterPrompt is the bot persona. The trailing delimiter instruction is
// what makes paced delivery possible.
const characterPrompt = `I'm Riko, 29-year female with happy, friendly and playful, Speaking Thai, Always use %s at the end of sentence`

// SystemTurns builds the fixed system preamble for one completion: the
// classifier instructions, the persona, the sentence delimiter rule and the
// current UTC date.
func SystemTurns(now time.Time) []Turn {
	return []Turn{
		{Role: RoleSystem, Text: classifierPrompt},
		{Role: RoleSystem, Text: contextPrompt},
		{Role: RoleSystem, Text: fmt.Sprintf(characterPrompt, agent.SentenceDelimiter)},
		{Role: RoleSystem, Text: fmt.Sprintf("Always use %s at the end of sentence", agent.SentenceDelimiter)},
		{Role: RoleSystem, Text: "Current Date (UTC): " + now.UTC().Format(time.RFC1123)},
	}
}
