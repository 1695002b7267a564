package domain

const (
	InitialRating = 1000
	RatingStep    = 20
	RatingFloor   = 100
)

// ApplyWin credits winner and debits loser. The loser's rating never drops
// below RatingFloor.
func ApplyWin(winner, loser *UserStats) {
	winner.Wins++
	winner.Rating += RatingStep

	loser.Losses++
	loser.Rating = max(loser.Rating-RatingStep, RatingFloor)
}

// ApplyDraw leaves ratings unchanged.
func ApplyDraw(a, b *UserStats) {
	a.Draws++
	b.Draws++
}
