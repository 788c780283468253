package port

import (
	"context"

	"activity_checker/internal/domain/entity"
)

// ActivityService defines the interface for assembling a wallet's recent
// activity feed on a given chain.
type ActivityService interface {
	// GetRecentActivity returns the normalized, deduplicated, price-annotated
	// feed for the address on the chain, newest first, bounded in size.
	// Results are served from a TTL cache when fresh.
	GetRecentActivity(ctx context.Context, address string, chain entity.Chain) ([]entity.ActivityRecord, error)
}
