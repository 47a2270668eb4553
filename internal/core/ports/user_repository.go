package ports

import (
	"context"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

// UserRepository defines persistence operations for principals.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// NamesByIDs resolves display names for a set of user ids. Unknown ids
	// are simply absent from the result.
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	ListBarbers(ctx context.Context) ([]*domain.User, error)
}
