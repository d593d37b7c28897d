package admincheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
)

// Service answers "is this user an admin" with a short-lived cache in front
// of the grants table, and manages grants themselves. Grant and revoke
// invalidate the affected user's cached verdict immediately; other users
// converge within the TTL.
type Service struct {
	admins repository.AdminRepository
	cache  *verdictCache
	logger *slog.Logger
}

// NewService constructs the service. now may be nil to use wall-clock time.
func NewService(admins repository.AdminRepository, ttl time.Duration, now func() time.Time, logger *slog.Logger) *Service {
	return &Service{
		admins: admins,
		cache:  newVerdictCache(ttl, now),
		logger: logger,
	}
}

// IsAdmin reports whether the user holds an admin grant. Lookup failures are
// not cached.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if verdict, ok := s.cache.get(userID); ok {
		return verdict, nil
	}
	verdict, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	s.cache.put(userID, verdict)
	return verdict, nil
}

// Require returns ErrNotAdmin unless the user holds an admin grant. Lookup
// failures propagate unchanged so callers can tell an outage from a denial.
func (s *Service) Require(ctx context.Context, userID int64) error {
	verdict, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !verdict {
		return domainErrors.ErrNotAdmin
	}
	return nil
}

// Grant makes the target user an admin on behalf of grantedBy.
func (s *Service) Grant(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error) {
	grant, err := s.admins.Grant(ctx, userID, grantedBy)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(userID)
	s.logger.Info("admin granted",
		slog.Int64("user", userID),
		slog.Int64("granted_by", grantedBy),
	)
	return grant, nil
}

// Revoke removes the target user's grant. A user cannot revoke themselves,
// which keeps the system from locking out its last admin.
func (s *Service) Revoke(ctx context.Context, userID, revokedBy int64) error {
	if userID == revokedBy {
		return domainErrors.ErrSelfRevoke
	}
	if err := s.admins.Revoke(ctx, userID); err != nil {
		return err
	}
	s.cache.invalidate(userID)
	s.logger.Info("admin revoked",
		slog.Int64("user", userID),
		slog.Int64("revoked_by", revokedBy),
	)
	return nil
}

// List returns every active grant.
func (s *Service) List(ctx context.Context) ([]model.AdminGrant, error) {
	return s.admins.List(ctx)
}
