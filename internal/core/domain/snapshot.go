package domain

// SiteSnapshot is the exported state of a launch site: participants are ordered
// by id and strategies by participant.
type SiteSnapshot struct {
	Id               string
	Name             string
	Owner            ActorId
	SessionsExecuted uint64
	Session          *SessionSnapshot
	Participants     []Participant
	Version          uint
}

type SessionSnapshot struct {
	Id            string
	Number        uint64
	StartedAt     int64
	Environment   Environment
	Registrations []Registration
}

type Registration struct {
	Participant ActorId
	Strategy    Strategy
}

func (s *LaunchSite) Snapshot() SiteSnapshot {
	snapshot := SiteSnapshot{
		Id:               s.Id,
		Name:             s.Name,
		Owner:            s.Owner,
		SessionsExecuted: s.SessionsExecuted,
		Participants:     s.Participants.Sorted(),
		Version:          s.Version,
	}
	if session, open := s.CurrentSession(); open {
		registrations := make([]Registration, 0, len(session.Strategies))
		for _, id := range session.Participants() {
			registrations = append(registrations, Registration{
				Participant: id,
				Strategy:    session.Strategies[id],
			})
		}
		snapshot.Session = &SessionSnapshot{
			Id:            session.Id,
			Number:        session.Number,
			StartedAt:     session.StartedAt,
			Environment:   session.Environment,
			Registrations: registrations,
		}
	}
	return snapshot
}
