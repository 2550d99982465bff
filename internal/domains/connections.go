package domains

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
)

func (s *Service) ListConnections(ctx context.Context, userID string) ([]*core.RegistrarConnection, error) {
	return s.store.GetRegistrarConnections(ctx, userID)
}

// CreateConnection stores a connection only after its credentials passed a
// live test.
func (s *Service) CreateConnection(ctx context.Context, in core.NewConnectionInput) (*core.RegistrarConnection, error) {
	if !in.Registrar.Valid() {
		return nil, fmt.Errorf("%w: %q", registrar.ErrUnsupportedRegistrar, in.Registrar)
	}
	if in.APIKey == "" {
		return nil, &core.ValidationError{Field: "apiKey", Message: "api key required"}
	}

	conn := in.Connection(s.now())
	if err := s.testCredentials(ctx, conn); err != nil {
		return nil, err
	}

	if err := s.store.CreateRegistrarConnection(ctx, conn); err != nil {
		return nil, err
	}
	s.logger.Info("Registrar connected",
		zap.String("connection_id", conn.ID),
		zap.String("registrar", string(conn.Registrar)),
	)
	return conn, nil
}

// UpdateConnection re-tests credentials when they change.
func (s *Service) UpdateConnection(ctx context.Context, userID, id string, patch core.ConnectionPatch) (*core.RegistrarConnection, error) {
	conn, err := s.ownedConnection(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.LastSync = nil
	if patch.APIKey != nil || patch.APISecret != nil {
		candidate := *conn
		patch.Apply(&candidate)
		if err := s.testCredentials(ctx, &candidate); err != nil {
			return nil, err
		}
	}

	return s.store.UpdateRegistrarConnection(ctx, id, patch)
}

func (s *Service) DeleteConnection(ctx context.Context, userID, id string) error {
	if _, err := s.ownedConnection(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteRegistrarConnection(ctx, id)
}

func (s *Service) ownedConnection(ctx context.Context, userID, id string) (*core.RegistrarConnection, error) {
	conn, err := s.store.GetRegistrarConnection(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn.UserID != userID {
		return nil, fmt.Errorf("connection %s: %w", id, ErrNotFound)
	}
	return conn, nil
}

func (s *Service) testCredentials(ctx context.Context, conn *core.RegistrarConnection) error {
	client, err := s.clients(conn)
	if err != nil {
		return err
	}

	ok, err := client.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", registrar.ErrUpstream, err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
