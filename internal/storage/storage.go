// Package storage defines the persistence contract shared by the in-memory
// and PostgreSQL backends.
package storage

import (
	"context"
	"errors"

	"github.com/leozw/domainhub/internal/core"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when a row is still referenced by others.
	ErrInUse = errors.New("still in use")
)

// Store is safe for concurrent use. Every call is atomic on its own; no
// transaction spans calls.
type Store interface {
	GetUser(ctx context.Context, id string) (*core.User, error)
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
	CreateUser(ctx context.Context, user *core.User) error

	GetRegistrarConnections(ctx context.Context, userID string) ([]*core.RegistrarConnection, error)
	// GetActiveConnections spans every user. The scheduler uses it.
	GetActiveConnections(ctx context.Context) ([]*core.RegistrarConnection, error)
	GetRegistrarConnection(ctx context.Context, id string) (*core.RegistrarConnection, error)
	CreateRegistrarConnection(ctx context.Context, conn *core.RegistrarConnection) error
	UpdateRegistrarConnection(ctx context.Context, id string, patch core.ConnectionPatch) (*core.RegistrarConnection, error)
	// DeleteRegistrarConnection refuses with ErrInUse while domains are still
	// attributed to the connection.
	DeleteRegistrarConnection(ctx context.Context, id string) error

	// GetDomains returns the user's domains ordered by name.
	GetDomains(ctx context.Context, userID string, filters core.DomainFilters) ([]*core.DomainWithConnection, error)
	GetDomain(ctx context.Context, id string) (*core.DomainWithConnection, error)
	CreateDomain(ctx context.Context, domain *core.Domain) error
	UpdateDomain(ctx context.Context, id string, patch core.DomainPatch) (*core.Domain, error)
	UpdateDomainNameservers(ctx context.Context, id string, nameservers []string) (*core.Domain, error)
	// BulkUpdateDomains applies patch to every listed domain that exists and
	// returns the updated rows.
	BulkUpdateDomains(ctx context.Context, ids []string, patch core.DomainPatch) ([]*core.Domain, error)
	GetDomainStats(ctx context.Context, userID string) (core.DomainStats, error)
}
