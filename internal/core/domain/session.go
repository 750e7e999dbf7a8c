package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Environment holds the launch conditions drawn when a session opens. They stay
// fixed for the whole session.
type Environment struct {
	Weather      uint32
	Altitude     uint32
	FuelPrice    uint32
	PayloadValue uint32
}

// EnvironmentProvider is the source of launch conditions for new sessions.
type EnvironmentProvider interface {
	Draw() (Environment, error)
}

type Strategy struct {
	FuelAmount    uint32
	PayloadAmount uint32
}

type Session struct {
	Id          string
	Number      uint64
	StartedAt   int64
	Environment Environment
	Strategies  map[ActorId]Strategy
}

func NewSession(number uint64, env Environment) Session {
	return Session{
		Id:          uuid.New().String(),
		Number:      number,
		StartedAt:   time.Now().Unix(),
		Environment: env,
		Strategies:  make(map[ActorId]Strategy),
	}
}

// Participants returns the ids of the registered strategies in ascending order.
func (s Session) Participants() []ActorId {
	ids := make([]ActorId, 0, len(s.Strategies))
	for id := range s.Strategies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

func (s Session) validateRegistration(id ActorId) error {
	if _, ok := s.Strategies[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrDuplicateRegistration)
	}
	return nil
}

// SessionState is either SessionAbsent or SessionOpen.
type SessionState interface {
	isSessionState()
}

type SessionAbsent struct{}

type SessionOpen struct {
	Session Session
}

func (SessionAbsent) isSessionState() {}
func (SessionOpen) isSessionState()   {}

// SettlementInput is the full content of a session handed over to the
// simulation engine when the session settles.
type SettlementInput struct {
	Session
}
