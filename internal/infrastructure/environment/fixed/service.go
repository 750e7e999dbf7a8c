package fixedenv

import (
	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
)

const (
	DefaultWeather      = 0
	DefaultAltitude     = 120000
	DefaultFuelPrice    = 10
	DefaultPayloadValue = 100
)

type service struct {
	env domain.Environment
}

// NewService returns a provider drawing always the same environment.
func NewService(env domain.Environment) ports.EnvironmentProvider {
	return &service{env}
}

func NewDefaultService() ports.EnvironmentProvider {
	return NewService(domain.Environment{
		Weather:      DefaultWeather,
		Altitude:     DefaultAltitude,
		FuelPrice:    DefaultFuelPrice,
		PayloadValue: DefaultPayloadValue,
	})
}

func (s *service) Draw() (domain.Environment, error) {
	return s.env, nil
}
