package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/storage"
)

const foreignKeyViolation = "23503"

const connectionColumns = `id, user_id, registrar, api_key, api_secret, is_active, last_sync, created_at`

func (db *DB) GetRegistrarConnections(ctx context.Context, userID string) ([]*core.RegistrarConnection, error) {
	conns := []*core.RegistrarConnection{}
	query := `SELECT ` + connectionColumns + ` FROM registrar_connections
        WHERE user_id = $1
        ORDER BY created_at, id`

	if err := db.SelectContext(ctx, &conns, query, userID); err != nil {
		return nil, err
	}
	return conns, nil
}

func (db *DB) GetActiveConnections(ctx context.Context) ([]*core.RegistrarConnection, error) {
	conns := []*core.RegistrarConnection{}
	query := `SELECT ` + connectionColumns + ` FROM registrar_connections
        WHERE is_active
        ORDER BY created_at, id`

	if err := db.SelectContext(ctx, &conns, query); err != nil {
		return nil, err
	}
	return conns, nil
}

func (db *DB) GetRegistrarConnection(ctx context.Context, id string) (*core.RegistrarConnection, error) {
	var conn core.RegistrarConnection
	query := `SELECT ` + connectionColumns + ` FROM registrar_connections WHERE id = $1`

	err := db.GetContext(ctx, &conn, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (db *DB) CreateRegistrarConnection(ctx context.Context, conn *core.RegistrarConnection) error {
	_, err := db.NamedExecContext(ctx, `
        INSERT INTO registrar_connections (
            id, user_id, registrar, api_key, api_secret,
            is_active, last_sync, created_at
        ) VALUES (
            :id, :user_id, :registrar, :api_key, :api_secret,
            :is_active, :last_sync, :created_at
        )`, conn)
	return err
}

func (db *DB) UpdateRegistrarConnection(ctx context.Context, id string, patch core.ConnectionPatch) (*core.RegistrarConnection, error) {
	var conn core.RegistrarConnection
	query := `
        UPDATE registrar_connections SET
            api_key = COALESCE($2, api_key),
            api_secret = COALESCE($3, api_secret),
            is_active = COALESCE($4, is_active),
            last_sync = COALESCE($5, last_sync)
        WHERE id = $1
        RETURNING ` + connectionColumns

	err := db.GetContext(ctx, &conn, query, id, patch.APIKey, patch.APISecret, patch.IsActive, patch.LastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteRegistrarConnection leaves domain rows alone; the foreign key turns
// a delete of a connection that still owns domains into ErrInUse.
func (db *DB) DeleteRegistrarConnection(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM registrar_connections WHERE id = $1`, id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("connection %s has domains: %w", id, storage.ErrInUse)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
