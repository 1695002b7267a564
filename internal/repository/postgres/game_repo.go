package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveMatch writes both players' stats and the match record in one transaction.
func (r *GameRepo) SaveMatch(ctx context.Context, rec domain.MatchRecord, stats []domain.UserStats) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range stats {
		if err := updateStats(ctx, tx, s); err != nil {
			return err
		}
	}

	query := `
	INSERT INTO matches (room_id, player_x, player_o, winner, reason, moves, started_at, ended_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	winner := sql.NullString{String: rec.Winner, Valid: rec.Winner != ""}
	_, err = tx.ExecContext(ctx, query, rec.RoomID, rec.PlayerX, rec.PlayerO, winner, string(rec.Reason), rec.Moves, rec.StartedAt, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MatchHistory returns the most recent matches the user played in, newest first.
func (r *GameRepo) MatchHistory(ctx context.Context, username string, limit int) ([]domain.MatchRecord, error) {
	query := `
	SELECT room_id, player_x, player_o, winner, reason, moves, started_at, ended_at
	FROM matches
	WHERE player_x = $1 OR player_o = $1
	ORDER BY ended_at DESC, id DESC
	LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	history := make([]domain.MatchRecord, 0)
	for rows.Next() {
		var (
			rec    domain.MatchRecord
			winner sql.NullString
			reason string
		)
		err := rows.Scan(&rec.RoomID, &rec.PlayerX, &rec.PlayerO, &winner, &reason, &rec.Moves, &rec.StartedAt, &rec.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		rec.Winner = winner.String
		rec.Reason = domain.EndReason(reason)
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read match history: %w", err)
	}
	return history, nil
}
