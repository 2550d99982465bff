package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/storage"
)

const domainColumns = `d.id, d.user_id, d.registrar_connection_id, d.name, d.registrar, d.status,
               d.expiration_date, d.registration_date, d.nameservers, d.auto_renew,
               d.last_updated, d.registrar_domain_id`

// Connection columns are optional because of the LEFT JOIN.
const joinedColumns = domainColumns + `,
               c.id AS c_id, c.user_id AS c_user_id, c.registrar AS c_registrar,
               c.api_key AS c_api_key, c.api_secret AS c_api_secret,
               c.is_active AS c_is_active, c.last_sync AS c_last_sync,
               c.created_at AS c_created_at`

type domainRow struct {
	ID                    string         `db:"id"`
	UserID                string         `db:"user_id"`
	RegistrarConnectionID string         `db:"registrar_connection_id"`
	Name                  string         `db:"name"`
	Registrar             string         `db:"registrar"`
	Status                string         `db:"status"`
	ExpirationDate        time.Time      `db:"expiration_date"`
	RegistrationDate      time.Time      `db:"registration_date"`
	Nameservers           pq.StringArray `db:"nameservers"`
	AutoRenew             bool           `db:"auto_renew"`
	LastUpdated           time.Time      `db:"last_updated"`
	RegistrarDomainID     *string        `db:"registrar_domain_id"`
}

func (r *domainRow) domain() *core.Domain {
	ns := []string(r.Nameservers)
	if ns == nil {
		ns = []string{}
	}
	return &core.Domain{
		ID:                    r.ID,
		UserID:                r.UserID,
		RegistrarConnectionID: r.RegistrarConnectionID,
		Name:                  r.Name,
		Registrar:             core.Registrar(r.Registrar),
		Status:                core.DomainStatus(r.Status),
		ExpirationDate:        r.ExpirationDate,
		RegistrationDate:      r.RegistrationDate,
		Nameservers:           ns,
		AutoRenew:             r.AutoRenew,
		LastUpdated:           r.LastUpdated,
		RegistrarDomainID:     r.RegistrarDomainID,
	}
}

type joinedRow struct {
	domainRow
	ConnID        sql.NullString `db:"c_id"`
	ConnUserID    sql.NullString `db:"c_user_id"`
	ConnRegistrar sql.NullString `db:"c_registrar"`
	ConnAPIKey    sql.NullString `db:"c_api_key"`
	ConnAPISecret *string        `db:"c_api_secret"`
	ConnIsActive  sql.NullBool   `db:"c_is_active"`
	ConnLastSync  *time.Time     `db:"c_last_sync"`
	ConnCreatedAt sql.NullTime   `db:"c_created_at"`
}

func (r *joinedRow) withConnection() *core.DomainWithConnection {
	out := &core.DomainWithConnection{Domain: *r.domain()}
	if r.ConnID.Valid {
		out.RegistrarConnection = &core.RegistrarConnection{
			ID:        r.ConnID.String,
			UserID:    r.ConnUserID.String,
			Registrar: core.Registrar(r.ConnRegistrar.String),
			APIKey:    r.ConnAPIKey.String,
			APISecret: r.ConnAPISecret,
			IsActive:  r.ConnIsActive.Bool,
			LastSync:  r.ConnLastSync,
			CreatedAt: r.ConnCreatedAt.Time,
		}
	}
	return out
}

func (db *DB) GetDomains(ctx context.Context, userID string, filters core.DomainFilters) ([]*core.DomainWithConnection, error) {
	where := []string{"d.user_id = $1"}
	args := []interface{}{userID}

	if filters.Registrar != "" {
		args = append(args, filters.Registrar)
		where = append(where, fmt.Sprintf("d.registrar = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, filters.Search)
		where = append(where, fmt.Sprintf("strpos(lower(d.name), lower($%d)) > 0", len(args)))
	}

	query := `
        SELECT ` + joinedColumns + `
        FROM domains d
        LEFT JOIN registrar_connections c ON c.id = d.registrar_connection_id
        WHERE ` + strings.Join(where, " AND ") + `
        ORDER BY d.name, d.id`

	var rows []joinedRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]*core.DomainWithConnection, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].withConnection())
	}
	return out, nil
}

func (db *DB) GetDomain(ctx context.Context, id string) (*core.DomainWithConnection, error) {
	var row joinedRow
	query := `
        SELECT ` + joinedColumns + `
        FROM domains d
        LEFT JOIN registrar_connections c ON c.id = d.registrar_connection_id
        WHERE d.id = $1`

	err := db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("domain %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.withConnection(), nil
}

func (db *DB) CreateDomain(ctx context.Context, domain *core.Domain) error {
	ns := domain.Nameservers
	if ns == nil {
		ns = []string{}
	}

	query := `
        INSERT INTO domains (
            id, user_id, registrar_connection_id, name, registrar, status,
            expiration_date, registration_date, nameservers, auto_renew,
            last_updated, registrar_domain_id
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        )`

	_, err := db.ExecContext(ctx, query,
		domain.ID, domain.UserID, domain.RegistrarConnectionID, domain.Name,
		string(domain.Registrar), string(domain.Status),
		domain.ExpirationDate, domain.RegistrationDate, pq.Array(ns), domain.AutoRenew,
		domain.LastUpdated, domain.RegistrarDomainID,
	)
	return err
}

// patchSet is shared by the single and bulk updates. Arguments $2..$7 carry
// the patch; nil leaves the column unchanged.
const patchSet = `
            status = COALESCE($2, status),
            expiration_date = COALESCE($3, expiration_date),
            nameservers = COALESCE($4, nameservers),
            auto_renew = COALESCE($5, auto_renew),
            registrar_domain_id = COALESCE($6, registrar_domain_id),
            last_updated = $7`

func patchArgs(patch core.DomainPatch, now time.Time) []interface{} {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	var ns interface{}
	if patch.Nameservers != nil {
		ns = pq.Array(patch.Nameservers)
	}
	return []interface{}{status, patch.ExpirationDate, ns, patch.AutoRenew, patch.RegistrarDomainID, now}
}

func (db *DB) UpdateDomain(ctx context.Context, id string, patch core.DomainPatch) (*core.Domain, error) {
	query := `
        UPDATE domains d SET` + patchSet + `
        WHERE d.id = $1
        RETURNING ` + domainColumns

	var row domainRow
	args := append([]interface{}{id}, patchArgs(patch, db.now())...)
	err := db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("domain %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.domain(), nil
}

func (db *DB) UpdateDomainNameservers(ctx context.Context, id string, nameservers []string) (*core.Domain, error) {
	if nameservers == nil {
		nameservers = []string{}
	}
	return db.UpdateDomain(ctx, id, core.DomainPatch{Nameservers: nameservers})
}

func (db *DB) BulkUpdateDomains(ctx context.Context, ids []string, patch core.DomainPatch) ([]*core.Domain, error) {
	out := []*core.Domain{}
	if len(ids) == 0 {
		return out, nil
	}

	query := `
        UPDATE domains d SET` + patchSet + `
        WHERE d.id = ANY($1)
        RETURNING ` + domainColumns

	var rows []domainRow
	args := append([]interface{}{pq.Array(ids)}, patchArgs(patch, db.now())...)
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	// Keep the caller's order.
	byID := make(map[string]*core.Domain, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].domain()
	}
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
			delete(byID, id)
		}
	}
	return out, nil
}

func (db *DB) GetDomainStats(ctx context.Context, userID string) (core.DomainStats, error) {
	now := db.now()
	monthStart, nextMonth := core.MonthBounds(now)

	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE expiration_date > $2 AND expiration_date <= $3),
            COUNT(*) FILTER (WHERE status = 'active'),
            COUNT(*) FILTER (WHERE registration_date >= $4 AND registration_date < $5)
        FROM domains
        WHERE user_id = $1`

	var stats core.DomainStats
	err := db.QueryRowxContext(ctx, query, userID, now, now.Add(core.ExpiringWindow), monthStart, nextMonth).
		Scan(&stats.TotalDomains, &stats.ExpiringSoon, &stats.ActiveDomains, &stats.ThisMonth)
	if err != nil {
		return core.DomainStats{}, err
	}
	return stats, nil
}
