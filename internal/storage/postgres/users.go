package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/storage"
)

func (db *DB) GetUser(ctx context.Context, id string) (*core.User, error) {
	var user core.User
	err := db.GetContext(ctx, &user, `SELECT id, username, password FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	var user core.User
	err := db.GetContext(ctx, &user, `SELECT id, username, password FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) CreateUser(ctx context.Context, user *core.User) error {
	_, err := db.NamedExecContext(ctx, `
        INSERT INTO users (id, username, password)
        VALUES (:id, :username, :password)`, user)
	return err
}
