package postgres

import "database/sql"

// Store is the full persistence surface backed by one database handle.
type Store struct {
	*UserRepo
	*GameRepo
	*FriendRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		UserRepo:   NewUserRepo(db),
		GameRepo:   NewGameRepo(db),
		FriendRepo: NewFriendRepo(db),
	}
}
