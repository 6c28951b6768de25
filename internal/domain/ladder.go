package domain

// LadderSize is the number of questions in a full game.
const LadderSize = 15

// PrizeLevel is one rung of the prize ladder.
type PrizeLevel struct {
	Level     int  `json:"level"`
	Amount    int  `json:"amount"`
	Milestone bool `json:"milestone"`
}

var prizeLadder = [LadderSize]PrizeLevel{
	{Level: 1, Amount: 100},
	{Level: 2, Amount: 200},
	{Level: 3, Amount: 300},
	{Level: 4, Amount: 500},
	{Level: 5, Amount: 1000, Milestone: true},
	{Level: 6, Amount: 2000},
	{Level: 7, Amount: 4000},
	{Level: 8, Amount: 8000},
	{Level: 9, Amount: 16000},
	{Level: 10, Amount: 32000, Milestone: true},
	{Level: 11, Amount: 64000},
	{Level: 12, Amount: 125000},
	{Level: 13, Amount: 250000},
	{Level: 14, Amount: 500000},
	{Level: 15, Amount: 1000000, Milestone: true},
}

// PrizeLadder returns a copy of the ladder, level 1 first.
func PrizeLadder() []PrizeLevel {
	out := make([]PrizeLevel, LadderSize)
	copy(out, prizeLadder[:])
	return out
}

// PrizeAt returns the amount for a zero-based position. Positions below
// zero are worth nothing; positions past the top are capped.
func PrizeAt(position int) int {
	if position < 0 {
		return 0
	}
	if position >= LadderSize {
		position = LadderSize - 1
	}
	return prizeLadder[position].Amount
}

// Medal is the tier shown on a finished game.
type Medal string

const (
	MedalNone   Medal = ""
	MedalBronze Medal = "bronze"
	MedalSilver Medal = "silver"
	MedalGold   Medal = "gold"
)

// MedalFor grades a finished game by how many questions were shown.
func MedalFor(outcome Outcome, questionsShown int) Medal {
	switch {
	case outcome == OutcomeWon && questionsShown == LadderSize:
		return MedalGold
	case questionsShown > 10:
		return MedalSilver
	case questionsShown > 5:
		return MedalBronze
	default:
		return MedalNone
	}
}
