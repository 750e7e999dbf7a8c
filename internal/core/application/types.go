package application

import (
	"context"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
)

type Service interface {
	Start() error
	Stop()
	GetInfo(ctx context.Context) (*Info, error)
	RegisterParticipant(ctx context.Context, caller domain.ActorId, name string) (*NewParticipant, error)
	ChangeParticipantName(ctx context.Context, caller domain.ActorId, name string) (*ParticipantNameChange, error)
	StartNewSession(ctx context.Context, caller domain.ActorId) (*NewLaunch, error)
	RegisterOnLaunch(
		ctx context.Context, caller domain.ActorId, fuelAmount, payloadAmount uint32,
	) (*LaunchRegistration, error)
	ExecuteSession(ctx context.Context, caller domain.ActorId) (*LaunchFinished, error)
	// GetSessionInfo returns nil if there is no current session.
	GetSessionInfo(ctx context.Context) (*SessionInfo, error)
	GetState(ctx context.Context) (*domain.SiteSnapshot, error)
	GetMetaHash(ctx context.Context) (string, error)
	GetLaunchHistory(ctx context.Context) ([]domain.Launch, error)
	GetLaunch(ctx context.Context, sessionId string) (*domain.Launch, error)
	Audit(ctx context.Context) (*AuditReport, error)
	GetEventsChannel(ctx context.Context) (<-chan ports.Notification, error)
}

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type Info struct {
	Name              string
	Owner             domain.ActorId
	HasCurrentSession bool
}

type NewParticipant struct {
	Id   domain.ActorId
	Name string
}

type ParticipantNameChange struct {
	Id   domain.ActorId
	Name string
}

// NewLaunch announces an open session, Id is the launch number.
type NewLaunch struct {
	Id           uint64
	Name         string
	Weather      uint32
	Altitude     uint32
	FuelPrice    uint32
	PayloadValue uint32
}

type LaunchRegistration struct {
	Id          uint64
	Participant domain.ActorId
}

type LaunchFinished struct {
	Id       uint64
	Outcomes []domain.Outcome
}

type SessionInfo struct {
	Id            uint64
	SessionId     string
	StartedAt     int64
	Weather       uint32
	Altitude      uint32
	FuelPrice     uint32
	PayloadValue  uint32
	Registrations int
}

// AuditReport compares the live aggregate with the site rebuilt from its
// journal and with the snapshot held by the live store.
type AuditReport struct {
	SiteId              string
	LiveVersion         uint
	JournalVersion      uint
	JournalConsistent   bool
	LiveStoreConsistent bool
}
