package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LaunchSite is the root aggregate: it owns the participant registry and the
// current session. Every state change goes through an event so that the site
// can be rebuilt from its journal.
type LaunchSite struct {
	Id               string
	Name             string
	Owner            ActorId
	CreatedAt        int64
	Participants     Participants
	Session          SessionState
	SessionsExecuted uint64
	Version          uint
	changes          []Event
}

type SiteInfo struct {
	Name              string
	Owner             ActorId
	HasCurrentSession bool
}

func NewLaunchSite(name string, owner ActorId) (*LaunchSite, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("invalid site name: %w", err)
	}
	if owner.IsZero() {
		return nil, fmt.Errorf("missing site owner")
	}

	s := &LaunchSite{
		Participants: make(Participants),
		Session:      SessionAbsent{},
		changes:      make([]Event, 0),
	}
	s.raise(SiteCreated{
		SiteEvent: SiteEvent{Id: uuid.New().String(), Type: EventTypeSiteCreated},
		Name:      name,
		Owner:     owner,
		Timestamp: time.Now().Unix(),
	})
	return s, nil
}

func NewLaunchSiteFromEvents(events []Event) *LaunchSite {
	s := &LaunchSite{
		Participants: make(Participants),
		Session:      SessionAbsent{},
	}

	for _, event := range events {
		s.on(event)
	}

	s.changes = append([]Event{}, events...)

	return s
}

func (s *LaunchSite) Events() []Event {
	return s.changes
}

func (s *LaunchSite) Info() SiteInfo {
	_, open := s.CurrentSession()
	return SiteInfo{
		Name:              s.Name,
		Owner:             s.Owner,
		HasCurrentSession: open,
	}
}

func (s *LaunchSite) CurrentSession() (Session, bool) {
	switch state := s.Session.(type) {
	case SessionOpen:
		return state.Session, true
	case SessionAbsent:
		return Session{}, false
	default:
		return Session{}, false
	}
}

func (s *LaunchSite) RegisterParticipant(id ActorId, name string) (ParticipantRegistered, error) {
	if err := s.Participants.validateRegister(id, name); err != nil {
		return ParticipantRegistered{}, err
	}

	event := ParticipantRegistered{
		SiteEvent:   SiteEvent{Id: s.Id, Type: EventTypeParticipantRegistered},
		Participant: id,
		Name:        name,
	}
	s.raise(event)

	return event, nil
}

func (s *LaunchSite) RenameParticipant(id ActorId, name string) (ParticipantRenamed, error) {
	if err := s.Participants.validateRename(id, name); err != nil {
		return ParticipantRenamed{}, err
	}

	event := ParticipantRenamed{
		SiteEvent:   SiteEvent{Id: s.Id, Type: EventTypeParticipantRenamed},
		Participant: id,
		Name:        name,
	}
	s.raise(event)

	return event, nil
}

// StartSession opens a new session on behalf of the owner. The environment is
// drawn only once the request is known to be valid.
func (s *LaunchSite) StartSession(
	requester ActorId, provider EnvironmentProvider,
) (SessionStarted, error) {
	if requester != s.Owner {
		return SessionStarted{}, fmt.Errorf("%s: %w", requester, ErrNotOwner)
	}
	if _, open := s.CurrentSession(); open {
		return SessionStarted{}, ErrSessionAlreadyOpen
	}
	if provider == nil {
		return SessionStarted{}, fmt.Errorf("missing environment provider")
	}

	env, err := provider.Draw()
	if err != nil {
		return SessionStarted{}, fmt.Errorf("failed to draw session environment: %w", err)
	}

	session := NewSession(s.SessionsExecuted+1, env)
	event := SessionStarted{
		SiteEvent:   SiteEvent{Id: s.Id, Type: EventTypeSessionStarted},
		SessionId:   session.Id,
		Number:      session.Number,
		Environment: session.Environment,
		Timestamp:   session.StartedAt,
	}
	s.raise(event)

	return event, nil
}

func (s *LaunchSite) RegisterOnLaunch(
	id ActorId, fuelAmount, payloadAmount uint32,
) (LaunchRegistered, error) {
	session, open := s.CurrentSession()
	if !open {
		return LaunchRegistered{}, ErrNoActiveSession
	}
	if _, ok := s.Participants[id]; !ok {
		return LaunchRegistered{}, fmt.Errorf("%s: %w", id, ErrUnknownParticipant)
	}
	if err := session.validateRegistration(id); err != nil {
		return LaunchRegistered{}, err
	}

	event := LaunchRegistered{
		SiteEvent:   SiteEvent{Id: s.Id, Type: EventTypeLaunchRegistered},
		SessionId:   session.Id,
		Number:      session.Number,
		Participant: id,
		Strategy: Strategy{
			FuelAmount:    fuelAmount,
			PayloadAmount: payloadAmount,
		},
	}
	s.raise(event)

	return event, nil
}

// ExecuteSession simulates the launch of the open session and settles it:
// balances are credited and the site goes back to having no session. If the
// simulation or any credit fails the site is left untouched.
func (s *LaunchSite) ExecuteSession() (SessionExecuted, error) {
	session, open := s.CurrentSession()
	if !open {
		return SessionExecuted{}, ErrNoActiveSession
	}

	outcomes, err := Simulate(session.Environment, session.Strategies)
	if err != nil {
		return SessionExecuted{}, err
	}
	credits, err := prepareCredits(s.Participants, outcomes)
	if err != nil {
		return SessionExecuted{}, fmt.Errorf("failed to settle session %d: %w", session.Number, err)
	}

	event := SessionExecuted{
		SiteEvent:   SiteEvent{Id: s.Id, Type: EventTypeSessionExecuted},
		SessionId:   session.Id,
		Number:      session.Number,
		Environment: session.Environment,
		StartedAt:   session.StartedAt,
		Outcomes:    outcomes,
		Credits:     credits,
		Timestamp:   time.Now().Unix(),
	}
	s.raise(event)

	return event, nil
}

// settle removes the open session and hands its content over.
func (s *LaunchSite) settle() (SettlementInput, error) {
	session, open := s.CurrentSession()
	if !open {
		return SettlementInput{}, ErrNoActiveSession
	}
	s.Session = SessionAbsent{}
	return SettlementInput{session}, nil
}

// on applies the event to the site. Version counts every applied event, either
// raised or replayed.
func (s *LaunchSite) on(event Event) {
	switch e := event.(type) {
	case SiteCreated:
		s.Id = e.Id
		s.Name = e.Name
		s.Owner = e.Owner
		s.CreatedAt = e.Timestamp
	case ParticipantRegistered:
		s.Participants.register(e.Participant, e.Name)
	case ParticipantRenamed:
		s.Participants.rename(e.Participant, e.Name)
	case SessionStarted:
		s.Session = SessionOpen{Session{
			Id:          e.SessionId,
			Number:      e.Number,
			StartedAt:   e.Timestamp,
			Environment: e.Environment,
			Strategies:  make(map[ActorId]Strategy),
		}}
	case LaunchRegistered:
		if open, ok := s.Session.(SessionOpen); ok {
			open.Session.Strategies[e.Participant] = e.Strategy
		}
	case SessionExecuted:
		_, _ = s.settle()
		applyCredits(s.Participants, e.Credits)
		s.SessionsExecuted = e.Number
	}

	s.Version++
}

func (s *LaunchSite) raise(event Event) {
	if s.changes == nil {
		s.changes = make([]Event, 0)
	}
	s.changes = append(s.changes, event)
	s.on(event)
}
