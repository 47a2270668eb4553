package ports

import (
	"context"

	"github.com/barberapp/barbershop-system/internal/core/domain"
)

// AuthService implements registration and login of principals.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
