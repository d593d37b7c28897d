package repository

import (
	"context"

	"github.com/playvault/storefront/internal/domain/model"
)

// AdminRepository describes persistence operations with admin grants.
type AdminRepository interface {
	Grant(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error)
	Revoke(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]model.AdminGrant, error)
}
