package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type service struct {
	// config
	buildInfo       BuildInfo
	sessionInterval int64

	// services
	repoManager ports.RepoManager
	liveStore   ports.LiveStore
	eventBus    ports.EventBus
	environment ports.EnvironmentProvider
	scheduler   ports.SchedulerService

	// state, only touched by the listener goroutine once started
	site      *domain.LaunchSite
	siteId    string
	owner     domain.ActorId
	committed int

	mailbox  chan request
	done     chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopOnce sync.Once
}

// NewService returns the service owning the given site. With a positive
// session interval the scheduler runs the site on autopilot.
func NewService(
	buildInfo BuildInfo, sessionInterval int64, site *domain.LaunchSite,
	repoManager ports.RepoManager, liveStore ports.LiveStore, eventBus ports.EventBus,
	environment ports.EnvironmentProvider, scheduler ports.SchedulerService,
) (Service, error) {
	if site == nil {
		return nil, fmt.Errorf("missing launch site")
	}
	if repoManager == nil || liveStore == nil || eventBus == nil {
		return nil, fmt.Errorf("missing repo manager, live store or event bus")
	}
	if environment == nil {
		return nil, fmt.Errorf("missing environment provider")
	}
	if sessionInterval < 0 {
		return nil, fmt.Errorf("invalid session interval, must not be negative")
	}
	if sessionInterval > 0 && scheduler == nil {
		return nil, fmt.Errorf("missing scheduler for session interval")
	}

	svc := &service{
		buildInfo:       buildInfo,
		sessionInterval: sessionInterval,
		repoManager:     repoManager,
		liveStore:       liveStore,
		eventBus:        eventBus,
		environment:     environment,
		scheduler:       scheduler,
		site:            site,
		siteId:          site.Id,
		owner:           site.Owner,
		mailbox:         make(chan request),
		done:            make(chan struct{}),
	}

	return svc, nil
}

func (s *service) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("service already started")
	}

	// Events raised before start, like the site creation, are committed
	// before the listener takes over the site.
	s.commitPending()

	s.wg.Add(1)
	go s.listen()

	if s.sessionInterval > 0 {
		log.Debugf("starting autopilot with session interval of %ds", s.sessionInterval)
		s.scheduler.Start()
		if err := s.scheduler.ScheduleTask(
			s.sessionInterval, false, s.runAutopilot,
		); err != nil {
			return fmt.Errorf("failed to schedule autopilot: %w", err)
		}
	}

	log.Infof("launch site %s is open", s.siteId)
	return nil
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		if s.sessionInterval > 0 {
			s.scheduler.Stop()
			log.Debug("stopped autopilot")
		}

		close(s.done)
		s.wg.Wait()

		s.eventBus.Close()
		log.Debug("closed event bus")
		s.liveStore.Close()
		log.Debug("closed live store")
		s.repoManager.Close()
		log.Debug("closed connection to db")
	})
}

func (s *service) GetInfo(ctx context.Context) (*Info, error) {
	res, err := s.submit(ctx, "Info", func(site *domain.LaunchSite) (interface{}, error) {
		info := site.Info()
		return &Info{
			Name:              info.Name,
			Owner:             info.Owner,
			HasCurrentSession: info.HasCurrentSession,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Info), nil
}

func (s *service) RegisterParticipant(
	ctx context.Context, caller domain.ActorId, name string,
) (*NewParticipant, error) {
	res, err := s.submit(ctx, "RegisterParticipant", func(site *domain.LaunchSite) (interface{}, error) {
		event, err := site.RegisterParticipant(caller, name)
		if err != nil {
			return nil, err
		}
		log.Debugf("registered participant %s (%s)", event.Name, event.Participant)
		return &NewParticipant{Id: event.Participant, Name: event.Name}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*NewParticipant), nil
}

func (s *service) ChangeParticipantName(
	ctx context.Context, caller domain.ActorId, name string,
) (*ParticipantNameChange, error) {
	res, err := s.submit(ctx, "ChangeParticipantName", func(site *domain.LaunchSite) (interface{}, error) {
		event, err := site.RenameParticipant(caller, name)
		if err != nil {
			return nil, err
		}
		log.Debugf("renamed participant %s to %s", event.Participant, event.Name)
		return &ParticipantNameChange{Id: event.Participant, Name: event.Name}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*ParticipantNameChange), nil
}

func (s *service) StartNewSession(
	ctx context.Context, caller domain.ActorId,
) (*NewLaunch, error) {
	res, err := s.submit(ctx, "StartNewSession", func(site *domain.LaunchSite) (interface{}, error) {
		event, err := site.StartSession(caller, s.environment)
		if err != nil {
			return nil, err
		}
		log.Debugf("started session %d (%s)", event.Number, event.SessionId)
		return &NewLaunch{
			Id:           event.Number,
			Name:         site.Name,
			Weather:      event.Environment.Weather,
			Altitude:     event.Environment.Altitude,
			FuelPrice:    event.Environment.FuelPrice,
			PayloadValue: event.Environment.PayloadValue,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*NewLaunch), nil
}

func (s *service) RegisterOnLaunch(
	ctx context.Context, caller domain.ActorId, fuelAmount, payloadAmount uint32,
) (*LaunchRegistration, error) {
	res, err := s.submit(ctx, "RegisterOnLaunch", func(site *domain.LaunchSite) (interface{}, error) {
		event, err := site.RegisterOnLaunch(caller, fuelAmount, payloadAmount)
		if err != nil {
			return nil, err
		}
		log.Debugf(
			"participant %s registered on launch %d with fuel %d and payload %d",
			event.Participant, event.Number, fuelAmount, payloadAmount,
		)
		return &LaunchRegistration{Id: event.Number, Participant: event.Participant}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*LaunchRegistration), nil
}

func (s *service) ExecuteSession(
	ctx context.Context, caller domain.ActorId,
) (*LaunchFinished, error) {
	res, err := s.submit(ctx, "ExecuteSession", func(site *domain.LaunchSite) (interface{}, error) {
		event, err := site.ExecuteSession()
		if err != nil {
			return nil, err
		}
		log.Infof(
			"launch %d executed by %s with %d participants",
			event.Number, caller, len(event.Outcomes),
		)
		return &LaunchFinished{Id: event.Number, Outcomes: event.Outcomes}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*LaunchFinished), nil
}

func (s *service) GetSessionInfo(ctx context.Context) (*SessionInfo, error) {
	res, err := s.submit(ctx, "GetSessionInfo", func(site *domain.LaunchSite) (interface{}, error) {
		session, open := site.CurrentSession()
		if !open {
			return (*SessionInfo)(nil), nil
		}
		return &SessionInfo{
			Id:            session.Number,
			SessionId:     session.Id,
			StartedAt:     session.StartedAt,
			Weather:       session.Environment.Weather,
			Altitude:      session.Environment.Altitude,
			FuelPrice:     session.Environment.FuelPrice,
			PayloadValue:  session.Environment.PayloadValue,
			Registrations: len(session.Strategies),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*SessionInfo), nil
}

func (s *service) GetState(ctx context.Context) (*domain.SiteSnapshot, error) {
	res, err := s.submit(ctx, "GetState", func(site *domain.LaunchSite) (interface{}, error) {
		snapshot := site.Snapshot()
		return &snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.SiteSnapshot), nil
}

// GetMetaHash returns the fingerprint of the running build.
func (s *service) GetMetaHash(_ context.Context) (string, error) {
	preimage := strings.Join(
		[]string{s.buildInfo.Version, s.buildInfo.Commit, s.buildInfo.Date}, "|",
	)
	hash := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(hash[:]), nil
}

func (s *service) GetLaunchHistory(ctx context.Context) ([]domain.Launch, error) {
	launches, err := s.repoManager.Launches().GetLaunches(ctx, s.siteId)
	if err != nil {
		return nil, fmt.Errorf("failed to get launch history: %w", err)
	}
	return launches, nil
}

func (s *service) GetLaunch(ctx context.Context, sessionId string) (*domain.Launch, error) {
	launch, err := s.repoManager.Launches().GetLaunchWithSessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	// Repositories may be shared between sites.
	if launch.SiteId != s.siteId {
		return nil, fmt.Errorf("session %s: %w", sessionId, domain.ErrLaunchNotFound)
	}
	return launch, nil
}

func (s *service) Audit(ctx context.Context) (*AuditReport, error) {
	res, err := s.submit(ctx, "Audit", func(site *domain.LaunchSite) (interface{}, error) {
		live := site.Snapshot()

		journal, err := s.repoManager.Events().Load(ctx, site.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to load journal: %w", err)
		}
		stored, err := s.liveStore.Get(ctx, site.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to get live snapshot: %w", err)
		}

		report := &AuditReport{
			SiteId:            site.Id,
			LiveVersion:       live.Version,
			JournalVersion:    journal.Version,
			JournalConsistent: reflect.DeepEqual(journal.Snapshot(), live),
		}
		if stored != nil {
			report.LiveStoreConsistent = reflect.DeepEqual(*stored, live)
		}
		if !report.JournalConsistent || !report.LiveStoreConsistent {
			log.Warnf(
				"site %s diverged from its records, journal: %t, live store: %t",
				site.Id, report.JournalConsistent, report.LiveStoreConsistent,
			)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*AuditReport), nil
}

func (s *service) GetEventsChannel(ctx context.Context) (<-chan ports.Notification, error) {
	return s.eventBus.Subscribe(ctx)
}

func (s *service) isStarted() bool {
	return s.started.Load()
}

func (s *service) commitPending() {
	events := s.site.Events()
	if len(events) <= s.committed {
		return
	}
	changes := events[s.committed:]
	s.committed = len(events)
	s.commit(changes)
}

// commit propagates the given events to the journal, the launch history, the
// live store and the event bus. Failures are only logged, the site is the
// source of truth.
func (s *service) commit(changes []domain.Event) {
	ctx := context.Background()

	if err := s.repoManager.Events().Save(ctx, s.siteId, changes...); err != nil {
		log.WithError(err).Warn("failed to store site events")
	}

	for _, event := range changes {
		e, ok := event.(domain.SessionExecuted)
		if !ok {
			continue
		}
		if err := s.repoManager.Launches().AddLaunch(ctx, domain.NewLaunchFromEvent(e)); err != nil {
			log.WithError(err).Warnf("failed to store launch %d", e.Number)
		}
	}

	if err := s.liveStore.Upsert(ctx, s.site.Snapshot()); err != nil {
		log.WithError(err).Warn("failed to update live snapshot")
	}

	if err := s.eventBus.Publish(ctx, changes...); err != nil {
		log.WithError(err).Warn("failed to publish site events")
	}
}
