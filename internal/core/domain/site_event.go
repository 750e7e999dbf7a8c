package domain

const LaunchSiteTopic = "launch_site"

type EventType int

const (
	EventTypeUndefined EventType = iota
	EventTypeSiteCreated
	EventTypeParticipantRegistered
	EventTypeParticipantRenamed
	EventTypeSessionStarted
	EventTypeLaunchRegistered
	EventTypeSessionExecuted
)

func (t EventType) String() string {
	switch t {
	case EventTypeSiteCreated:
		return "SITE_CREATED"
	case EventTypeParticipantRegistered:
		return "PARTICIPANT_REGISTERED"
	case EventTypeParticipantRenamed:
		return "PARTICIPANT_RENAMED"
	case EventTypeSessionStarted:
		return "SESSION_STARTED"
	case EventTypeLaunchRegistered:
		return "LAUNCH_REGISTERED"
	case EventTypeSessionExecuted:
		return "SESSION_EXECUTED"
	default:
		return "UNDEFINED"
	}
}

type Event interface {
	GetTopic() string
	GetType() EventType
}

// SiteEvent is embedded by every event raised by a launch site, Id is the id
// of the site that raised it.
type SiteEvent struct {
	Id   string
	Type EventType
}

func (e SiteEvent) GetTopic() string   { return LaunchSiteTopic }
func (e SiteEvent) GetType() EventType { return e.Type }

type SiteCreated struct {
	SiteEvent
	Name      string
	Owner     ActorId
	Timestamp int64
}

type ParticipantRegistered struct {
	SiteEvent
	Participant ActorId
	Name        string
}

type ParticipantRenamed struct {
	SiteEvent
	Participant ActorId
	Name        string
}

type SessionStarted struct {
	SiteEvent
	SessionId   string
	Number      uint64
	Environment Environment
	Timestamp   int64
}

type LaunchRegistered struct {
	SiteEvent
	SessionId   string
	Number      uint64
	Participant ActorId
	Strategy    Strategy
}

type SessionExecuted struct {
	SiteEvent
	SessionId   string
	Number      uint64
	Environment Environment
	StartedAt   int64
	Outcomes    []Outcome
	Credits     []Credit
	Timestamp   int64
}
