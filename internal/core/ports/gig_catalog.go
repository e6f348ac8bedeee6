package ports

import (
	"context"

	"github.com/gigbay/marketplace-api/internal/core/domain"
)

// GigCatalog is the read boundary to the gig catalog collaborator. The core
// never creates or deletes gigs; the rating aggregate fields are written only
// through ReviewRepository transactions.
type GigCatalog interface {
	FindByID(ctx context.Context, gigID string) (*domain.Gig, error)
}
