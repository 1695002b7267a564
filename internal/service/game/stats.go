package game

import (
	"context"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
)

// recordResultLocked applies the rating rule to both players and stores the
// match together with their new stats.
func (e *Engine) recordResultLocked(ctx context.Context, rec domain.MatchRecord) error {
	x, err := e.store.FindUser(ctx, rec.PlayerX)
	if err != nil {
		return storageErr(err)
	}
	o, err := e.store.FindUser(ctx, rec.PlayerO)
	if err != nil {
		return storageErr(err)
	}

	switch rec.Winner {
	case "":
		domain.ApplyDraw(x, o)
	case rec.PlayerX:
		domain.ApplyWin(x, o)
	default:
		domain.ApplyWin(o, x)
	}

	if err := e.store.SaveMatch(ctx, rec, []domain.UserStats{*x, *o}); err != nil {
		return storageErr(err)
	}
	return nil
}
