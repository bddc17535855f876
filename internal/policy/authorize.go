package policy

// Gate is the stateless allow-list consulted before any turn processing. With
// enforcement off every sender is accepted; otherwise only listed Telegram
// user IDs pass, and rejection must leave no other observable effect.
type Gate struct {
	allowed map[int64]struct{}
	enforce bool
}

func NewGate(allowedUserIDs []int64, enforce bool) *Gate {
	allowed := make(map[int64]struct{}, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}
	return &Gate{allowed: allowed, enforce: enforce}
}

// Allow reports whether the sender may use the bot.
func (g *Gate) Allow(userID int64) bool {
	if !g.enforce {
		return true
	}
	_, ok := g.allowed[userID]
	return ok
}
