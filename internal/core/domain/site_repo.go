package domain

import "context"

// SiteEventRepository is the append-only journal of the events raised by a
// launch site.
type SiteEventRepository interface {
	Save(ctx context.Context, id string, events ...Event) error
	// Load rebuilds the site from its whole journal.
	Load(ctx context.Context, id string) (*LaunchSite, error)
	Close()
}

// Launch is the record of an executed session.
type Launch struct {
	SessionId   string
	SiteId      string
	Number      uint64
	Environment Environment
	StartedAt   int64
	EndedAt     int64
	Outcomes    []Outcome
}

func NewLaunchFromEvent(e SessionExecuted) Launch {
	outcomes := append([]Outcome{}, e.Outcomes...)
	return Launch{
		SessionId:   e.SessionId,
		SiteId:      e.Id,
		Number:      e.Number,
		Environment: e.Environment,
		StartedAt:   e.StartedAt,
		EndedAt:     e.Timestamp,
		Outcomes:    outcomes,
	}
}

type LaunchRepository interface {
	AddLaunch(ctx context.Context, launch Launch) error
	GetLaunchWithSessionId(ctx context.Context, sessionId string) (*Launch, error)
	GetLaunches(ctx context.Context, siteId string) ([]Launch, error)
	Close()
}
