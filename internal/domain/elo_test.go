package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyWin(t *testing.T) {
	winner := NewUserStats("alice", time.Now())
	loser := NewUserStats("bob", time.Now())

	ApplyWin(&winner, &loser)

	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, InitialRating+RatingStep, winner.Rating)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, InitialRating-RatingStep, loser.Rating)
}

func TestApplyWin_FloorsLoserRating(t *testing.T) {
	winner := UserStats{Username: "alice", Rating: 500}
	loser := UserStats{Username: "bob", Rating: 110}

	ApplyWin(&winner, &loser)

	assert.Equal(t, RatingFloor, loser.Rating)

	ApplyWin(&winner, &loser)

	assert.Equal(t, RatingFloor, loser.Rating)
	assert.Equal(t, 540, winner.Rating)
}

func TestApplyDraw(t *testing.T) {
	a := UserStats{Username: "alice", Rating: 1200}
	b := UserStats{Username: "bob", Rating: 900}

	ApplyDraw(&a, &b)

	assert.Equal(t, 1, a.Draws)
	assert.Equal(t, 1, b.Draws)
	assert.Equal(t, 1200, a.Rating)
	assert.Equal(t, 900, b.Rating)
}
