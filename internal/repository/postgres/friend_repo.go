package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

type FriendRepo struct {
	DB *sql.DB
}

func NewFriendRepo(db *sql.DB) *FriendRepo {
	return &FriendRepo{DB: db}
}

func ordered(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func (r *FriendRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (`+query+`);`, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to query friends: %w", err)
	}
	return ok, nil
}

func (r *FriendRepo) AreFriends(ctx context.Context, a, b string) (bool, error) {
	a, b = ordered(a, b)
	return r.exists(ctx, `SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2`, a, b)
}

func (r *FriendRepo) HasFriendRequest(ctx context.Context, from, to string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM friend_requests WHERE from_user = $1 AND to_user = $2`, from, to)
}

func (r *FriendRepo) AddFriendRequest(ctx context.Context, from, to string) error {
	query := `INSERT INTO friend_requests (from_user, to_user) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	if _, err := r.DB.ExecContext(ctx, query, from, to); err != nil {
		return fmt.Errorf("failed to add friend request: %w", err)
	}
	return nil
}

func (r *FriendRepo) DeleteFriendRequest(ctx context.Context, from, to string) error {
	query := `DELETE FROM friend_requests WHERE from_user = $1 AND to_user = $2;`
	if _, err := r.DB.ExecContext(ctx, query, from, to); err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	return nil
}

func (r *FriendRepo) AddFriends(ctx context.Context, a, b string) error {
	a, b = ordered(a, b)
	query := `INSERT INTO friendships (user_a, user_b) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	if _, err := r.DB.ExecContext(ctx, query, a, b); err != nil {
		return fmt.Errorf("failed to add friends: %w", err)
	}
	return nil
}

func (r *FriendRepo) names(ctx context.Context, query, username string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan friend row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *FriendRepo) ListFriends(ctx context.Context, username string) ([]string, error) {
	query := `
	SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END AS friend
	FROM friendships
	WHERE user_a = $1 OR user_b = $1
	ORDER BY friend;
	`
	return r.names(ctx, query, username)
}

func (r *FriendRepo) ListFriendRequests(ctx context.Context, username string) ([]string, error) {
	query := `SELECT from_user FROM friend_requests WHERE to_user = $1 ORDER BY from_user;`
	return r.names(ctx, query, username)
}
