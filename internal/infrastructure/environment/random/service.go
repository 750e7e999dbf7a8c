package randomenv

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
)

// Range is an inclusive interval of values.
type Range struct {
	Min uint32
	Max uint32
}

type Bounds struct {
	Weather      Range
	Altitude     Range
	FuelPrice    Range
	PayloadValue Range
}

var DefaultBounds = Bounds{
	Weather:      Range{0, 4},
	Altitude:     Range{80000, 160000},
	FuelPrice:    Range{5, 20},
	PayloadValue: Range{50, 150},
}

type service struct {
	bounds  Bounds
	entropy io.Reader
}

func NewService(bounds Bounds) (ports.EnvironmentProvider, error) {
	return newService(bounds, rand.Reader)
}

func newService(bounds Bounds, entropy io.Reader) (ports.EnvironmentProvider, error) {
	for name, r := range map[string]Range{
		"weather":       bounds.Weather,
		"altitude":      bounds.Altitude,
		"fuel price":    bounds.FuelPrice,
		"payload value": bounds.PayloadValue,
	} {
		if r.Min > r.Max {
			return nil, fmt.Errorf("invalid %s range, min %d greater than max %d", name, r.Min, r.Max)
		}
	}
	return &service{bounds, entropy}, nil
}

func (s *service) Draw() (domain.Environment, error) {
	weather, err := s.draw(s.bounds.Weather)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("failed to draw weather: %w", err)
	}
	altitude, err := s.draw(s.bounds.Altitude)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("failed to draw altitude: %w", err)
	}
	fuelPrice, err := s.draw(s.bounds.FuelPrice)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("failed to draw fuel price: %w", err)
	}
	payloadValue, err := s.draw(s.bounds.PayloadValue)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("failed to draw payload value: %w", err)
	}

	return domain.Environment{
		Weather:      weather,
		Altitude:     altitude,
		FuelPrice:    fuelPrice,
		PayloadValue: payloadValue,
	}, nil
}

func (s *service) draw(r Range) (uint32, error) {
	span := new(big.Int).SetUint64(uint64(r.Max) - uint64(r.Min) + 1)
	n, err := rand.Int(s.entropy, span)
	if err != nil {
		return 0, err
	}
	return r.Min + uint32(n.Uint64()), nil
}
