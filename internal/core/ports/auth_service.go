package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// AuthService resolves credentials to an identity and issues tokens carrying
// the (user_id, is_seller) pair the core operations consume.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, isSeller bool) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
