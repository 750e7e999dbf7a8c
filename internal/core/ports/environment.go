package ports

import "github.com/ark-network/launchsite/internal/core/domain"

type EnvironmentProvider interface {
	Draw() (domain.Environment, error)
}
