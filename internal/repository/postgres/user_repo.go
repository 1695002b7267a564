package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// scanAccount is a helper that scans a row into an Account
func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.Username,
		&acc.PasswordHash,
		&acc.Wins,
		&acc.Losses,
		&acc.Draws,
		&acc.Rating,
		&acc.Banned,
		&acc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

const accountSelectFields = `username, password_hash, wins, losses, draws, rating, banned, created_at`

// CreateUser inserts a player with the starting rating.
func (r *UserRepo) CreateUser(ctx context.Context, username, passwordHash string) (*domain.UserStats, error) {
	query := `
	INSERT INTO players (username, password_hash, rating)
	VALUES ($1, $2, $3)
	RETURNING ` + accountSelectFields + `;
	`
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, query, username, passwordHash, domain.InitialRating))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &acc.UserStats, nil
}

func (r *UserRepo) FindAccount(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectFields + ` FROM players WHERE username = $1;`
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return acc, nil
}

func (r *UserRepo) FindUser(ctx context.Context, username string) (*domain.UserStats, error) {
	acc, err := r.FindAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	return &acc.UserStats, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateStats(ctx context.Context, db execer, s domain.UserStats) error {
	query := `
	UPDATE players
	SET wins = $2, losses = $3, draws = $4, rating = $5
	WHERE username = $1;
	`
	res, err := db.ExecContext(ctx, query, s.Username, s.Wins, s.Losses, s.Draws, s.Rating)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateStats(ctx context.Context, stats domain.UserStats) error {
	return updateStats(ctx, r.DB, stats)
}

// TopByRating ranks players that are not banned.
func (r *UserRepo) TopByRating(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	query := `
	SELECT username, rating, wins, losses, draws
	FROM players
	WHERE NOT banned
	ORDER BY rating DESC, wins DESC, username ASC
	LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, n)
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.Username, &e.Rating, &e.Wins, &e.Losses, &e.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}

func (r *UserRepo) SetBanned(ctx context.Context, username string, banned bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE players SET banned = $2 WHERE username = $1;`, username, banned)
	if err != nil {
		return fmt.Errorf("failed to set ban: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set ban: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
