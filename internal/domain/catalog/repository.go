package catalog

import (
	"context"

	"github.com/tierforge/tierforge/internal/types"
)

// Repository persists subscription models. Save/load round-trips must
// reconstruct the concrete model behavior from the stored type
// discriminator, including the designated free tier of freemium models.
type Repository interface {
	Create(ctx context.Context, model *SubscriptionModel) error
	Get(ctx context.Context, id string) (*SubscriptionModel, error)
	Update(ctx context.Context, model *SubscriptionModel) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*SubscriptionModel, error)
	Delete(ctx context.Context, id string) error
}
