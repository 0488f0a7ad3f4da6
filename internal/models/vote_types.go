package models

// Vote values accepted by the tally engine. Casting the same value twice
// toggles back to VoteNone.
const (
	VoteUp   = 1
	VoteNone = 0
	VoteDown = -1
)

// ValidVote reports whether value is a castable vote.
func ValidVote(value int) bool {
	return value == VoteUp || value == VoteDown
}
