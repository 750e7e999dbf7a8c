package ports

import (
	"context"

	"github.com/ark-network/launchsite/internal/core/domain"
)

// LiveStore holds the latest exported state of every site, to be read by
// processes that do not own the aggregate.
type LiveStore interface {
	Upsert(ctx context.Context, snapshot domain.SiteSnapshot) error
	Get(ctx context.Context, siteId string) (*domain.SiteSnapshot, error)
	Close()
}
