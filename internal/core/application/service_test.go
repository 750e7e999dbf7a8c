package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	"github.com/ark-network/launchsite/internal/infrastructure/db"
	watermilldb "github.com/ark-network/launchsite/internal/infrastructure/db/watermill"
	inmemorylivestore "github.com/ark-network/launchsite/internal/infrastructure/live-store/inmemory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner = domain.ActorId{0xff}
	p1    = domain.ActorId{0x01}
	p2    = domain.ActorId{0x02}

	testEnvironment = domain.Environment{
		Weather:      0,
		Altitude:     120000,
		FuelPrice:    10,
		PayloadValue: 100,
	}
)

type mockedEnvironment struct {
	mock.Mock
}

func (m *mockedEnvironment) Draw() (domain.Environment, error) {
	args := m.Called()
	return args.Get(0).(domain.Environment), args.Error(1)
}

type mockedScheduler struct {
	mock.Mock
}

func (m *mockedScheduler) Start() {
	m.Called()
}

func (m *mockedScheduler) Stop() {
	m.Called()
}

func (m *mockedScheduler) ScheduleTask(interval int64, immediate bool, task func()) error {
	args := m.Called(interval, immediate, task)
	return args.Error(0)
}

func newTestService(
	t *testing.T, environment ports.EnvironmentProvider,
	sessionInterval int64, scheduler ports.SchedulerService,
) *service {
	site, err := domain.NewLaunchSite("Cape", owner)
	require.NoError(t, err)

	repoManager, err := db.NewService(db.ServiceConfig{
		EventStoreType:   "badger",
		DataStoreType:    "badger",
		EventStoreConfig: []interface{}{"", nil},
		DataStoreConfig:  []interface{}{"", nil},
	})
	require.NoError(t, err)

	svc, err := NewService(
		BuildInfo{Version: "v0.1.0", Commit: "abc", Date: "2024-01-01"},
		sessionInterval, site, repoManager, inmemorylivestore.NewLiveStore(),
		watermilldb.NewEventBus(), environment, scheduler,
	)
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)

	return svc.(*service)
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("launch scenario", func(t *testing.T) {
		environment := &mockedEnvironment{}
		environment.On("Draw").Return(testEnvironment, nil).Once()
		svc := newTestService(t, environment, 0, nil)

		info, err := svc.GetInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, &Info{Name: "Cape", Owner: owner}, info)

		_, err = svc.RegisterParticipant(ctx, p1, "p1")
		require.NoError(t, err)
		newParticipant, err := svc.RegisterParticipant(ctx, p2, "p2")
		require.NoError(t, err)
		require.Equal(t, &NewParticipant{Id: p2, Name: "p2"}, newParticipant)

		session, err := svc.GetSessionInfo(ctx)
		require.NoError(t, err)
		require.Nil(t, session)

		launch, err := svc.StartNewSession(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, &NewLaunch{
			Id:           1,
			Name:         "Cape",
			Weather:      0,
			Altitude:     120000,
			FuelPrice:    10,
			PayloadValue: 100,
		}, launch)

		registration, err := svc.RegisterOnLaunch(ctx, p1, 300, 100)
		require.NoError(t, err)
		require.Equal(t, &LaunchRegistration{Id: 1, Participant: p1}, registration)
		_, err = svc.RegisterOnLaunch(ctx, p2, 50, 300)
		require.NoError(t, err)

		session, err = svc.GetSessionInfo(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)
		require.Equal(t, uint64(1), session.Id)
		require.Equal(t, 2, session.Registrations)

		finished, err := svc.ExecuteSession(ctx, p1)
		require.NoError(t, err)
		require.Equal(t, uint64(1), finished.Id)
		require.Equal(t, []domain.Outcome{
			{Participant: p1, Survived: true, Altitude: 120000, Earnings: 10000, RoundsSurvived: 3, FuelLeft: 300},
			{Participant: p2, Survived: false, Altitude: 0, Earnings: 30000, FuelLeft: 50},
		}, finished.Outcomes)

		_, err = svc.ExecuteSession(ctx, p1)
		require.ErrorIs(t, err, domain.ErrNoActiveSession)

		state, err := svc.GetState(ctx)
		require.NoError(t, err)
		require.Nil(t, state.Session)
		require.Equal(t, []domain.Participant{
			{Id: p1, Name: "p1", Balance: 10000},
			{Id: p2, Name: "p2", Balance: 30000},
		}, state.Participants)

		history, err := svc.GetLaunchHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, finished.Outcomes, history[0].Outcomes)

		record, err := svc.GetLaunch(ctx, history[0].SessionId)
		require.NoError(t, err)
		require.Equal(t, history[0], *record)

		_, err = svc.GetLaunch(ctx, "unknown")
		require.ErrorIs(t, err, domain.ErrLaunchNotFound)

		environment.AssertExpectations(t)
	})

	t.Run("rejected actions leave the site untouched", func(t *testing.T) {
		environment := &mockedEnvironment{}
		svc := newTestService(t, environment, 0, nil)

		_, err := svc.RegisterParticipant(ctx, p1, "p1")
		require.NoError(t, err)
		before, err := svc.GetState(ctx)
		require.NoError(t, err)

		_, err = svc.RegisterParticipant(ctx, p1, "again")
		require.ErrorIs(t, err, domain.ErrDuplicateParticipant)
		_, err = svc.ChangeParticipantName(ctx, p2, "nobody")
		require.ErrorIs(t, err, domain.ErrUnknownParticipant)
		_, err = svc.StartNewSession(ctx, p1)
		require.ErrorIs(t, err, domain.ErrNotOwner)
		_, err = svc.RegisterOnLaunch(ctx, p1, 1, 1)
		require.ErrorIs(t, err, domain.ErrNoActiveSession)
		_, err = svc.ExecuteSession(ctx, owner)
		require.ErrorIs(t, err, domain.ErrNoActiveSession)

		after, err := svc.GetState(ctx)
		require.NoError(t, err)
		require.Equal(t, before, after)

		environment.AssertNotCalled(t, "Draw")
	})

	t.Run("environment failure", func(t *testing.T) {
		environment := &mockedEnvironment{}
		environment.On("Draw").Return(domain.Environment{}, errors.New("no entropy")).Once()
		svc := newTestService(t, environment, 0, nil)

		_, err := svc.StartNewSession(ctx, owner)
		require.Error(t, err)

		info, err := svc.GetInfo(ctx)
		require.NoError(t, err)
		require.False(t, info.HasCurrentSession)
	})

	t.Run("audit", func(t *testing.T) {
		environment := &mockedEnvironment{}
		environment.On("Draw").Return(testEnvironment, nil)
		svc := newTestService(t, environment, 0, nil)

		_, err := svc.RegisterParticipant(ctx, p1, "p1")
		require.NoError(t, err)
		_, err = svc.StartNewSession(ctx, owner)
		require.NoError(t, err)
		_, err = svc.RegisterOnLaunch(ctx, p1, 300, 100)
		require.NoError(t, err)
		_, err = svc.ExecuteSession(ctx, owner)
		require.NoError(t, err)

		report, err := svc.Audit(ctx)
		require.NoError(t, err)
		require.True(t, report.JournalConsistent)
		require.True(t, report.LiveStoreConsistent)
		require.Equal(t, report.LiveVersion, report.JournalVersion)
		require.Equal(t, uint(5), report.LiveVersion)
	})

	t.Run("events channel", func(t *testing.T) {
		environment := &mockedEnvironment{}
		svc := newTestService(t, environment, 0, nil)

		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		ch, err := svc.GetEventsChannel(subCtx)
		require.NoError(t, err)

		_, err = svc.RegisterParticipant(ctx, p1, "p1")
		require.NoError(t, err)

		select {
		case notification := <-ch:
			require.Equal(t, domain.EventTypeParticipantRegistered.String(), notification.Type)
			var event domain.ParticipantRegistered
			require.NoError(t, json.Unmarshal(notification.Payload, &event))
			require.Equal(t, p1, event.Participant)
			require.Equal(t, "p1", event.Name)
		case <-time.After(5 * time.Second):
			t.Fatal("missing notification")
		}
	})

	t.Run("metahash", func(t *testing.T) {
		svc := newTestService(t, &mockedEnvironment{}, 0, nil)

		hash, err := svc.GetMetaHash(ctx)
		require.NoError(t, err)
		require.Len(t, hash, 64)

		again, err := svc.GetMetaHash(ctx)
		require.NoError(t, err)
		require.Equal(t, hash, again)

		svc.buildInfo.Commit = "def"
		other, err := svc.GetMetaHash(ctx)
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})

	t.Run("stopped", func(t *testing.T) {
		svc := newTestService(t, &mockedEnvironment{}, 0, nil)
		svc.Stop()

		_, err := svc.GetInfo(ctx)
		require.ErrorIs(t, err, ErrServiceStopped)
	})
}

func TestNewService(t *testing.T) {
	site, err := domain.NewLaunchSite("Cape", owner)
	require.NoError(t, err)
	repoManager, err := db.NewService(db.ServiceConfig{
		EventStoreType:   "badger",
		DataStoreType:    "badger",
		EventStoreConfig: []interface{}{"", nil},
		DataStoreConfig:  []interface{}{"", nil},
	})
	require.NoError(t, err)
	defer repoManager.Close()

	liveStore := inmemorylivestore.NewLiveStore()
	eventBus := watermilldb.NewEventBus()
	defer eventBus.Close()

	_, err = NewService(BuildInfo{}, 0, nil, repoManager, liveStore, eventBus, &mockedEnvironment{}, nil)
	require.Error(t, err)
	_, err = NewService(BuildInfo{}, 0, site, repoManager, liveStore, eventBus, nil, nil)
	require.Error(t, err)
	_, err = NewService(BuildInfo{}, 10, site, repoManager, liveStore, eventBus, &mockedEnvironment{}, nil)
	require.Error(t, err)
	_, err = NewService(BuildInfo{}, -1, site, repoManager, liveStore, eventBus, &mockedEnvironment{}, nil)
	require.Error(t, err)

	svc, err := NewService(BuildInfo{}, 0, site, repoManager, liveStore, eventBus, &mockedEnvironment{}, nil)
	require.NoError(t, err)
	_, err = svc.GetInfo(context.Background())
	require.ErrorIs(t, err, ErrServiceNotStarted)
}

func TestAutopilot(t *testing.T) {
	ctx := context.Background()

	scheduler := &mockedScheduler{}
	scheduler.On("Start").Return()
	scheduler.On("Stop").Return()
	scheduler.On("ScheduleTask", int64(30), false, mock.Anything).Return(nil)

	environment := &mockedEnvironment{}
	environment.On("Draw").Return(testEnvironment, nil)

	svc := newTestService(t, environment, 30, scheduler)
	scheduler.AssertCalled(t, "Start")

	// First run opens a session.
	svc.runAutopilot()
	session, err := svc.GetSessionInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, uint64(1), session.Id)

	// An empty session is kept open.
	svc.runAutopilot()
	session, err = svc.GetSessionInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), session.Id)

	// Otherwise it's executed and a new one is opened.
	_, err = svc.RegisterParticipant(ctx, p1, "p1")
	require.NoError(t, err)
	_, err = svc.RegisterOnLaunch(ctx, p1, 300, 100)
	require.NoError(t, err)

	svc.runAutopilot()
	session, err = svc.GetSessionInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), session.Id)
	require.Zero(t, session.Registrations)

	state, err := svc.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(10000), state.Participants[0].Balance)
}
