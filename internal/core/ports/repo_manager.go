package ports

import "github.com/ark-network/launchsite/internal/core/domain"

type RepoManager interface {
	Events() domain.SiteEventRepository
	Launches() domain.LaunchRepository
	Close()
}
