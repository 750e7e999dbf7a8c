package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/infrastructure/db/postgres/sqlc/queries"
)

type launchRepository struct {
	db      *sql.DB
	querier *queries.Queries
}

func NewLaunchRepository(config ...interface{}) (domain.LaunchRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open launch repository: invalid config")
	}

	return &launchRepository{db, queries.New(db)}, nil
}

// AddLaunch stores the launch and its outcomes in one transaction, replacing
// any previous record of the same session.
func (r *launchRepository) AddLaunch(ctx context.Context, launch domain.Launch) error {
	return execTx(ctx, r.db, func(qtx *queries.Queries) error {
		if err := qtx.UpsertLaunch(ctx, queries.UpsertLaunchParams{
			SessionID:    launch.SessionId,
			SiteID:       launch.SiteId,
			Number:       int64(launch.Number),
			Weather:      int64(launch.Environment.Weather),
			Altitude:     int64(launch.Environment.Altitude),
			FuelPrice:    int64(launch.Environment.FuelPrice),
			PayloadValue: int64(launch.Environment.PayloadValue),
			StartedAt:    launch.StartedAt,
			EndedAt:      launch.EndedAt,
		}); err != nil {
			return err
		}

		for _, o := range launch.Outcomes {
			if err := qtx.UpsertLaunchOutcome(ctx, queries.UpsertLaunchOutcomeParams{
				SessionID:      launch.SessionId,
				Participant:    o.Participant.String(),
				Survived:       o.Survived,
				Altitude:       int64(o.Altitude),
				Earnings:       int64(o.Earnings),
				RoundsSurvived: int64(o.RoundsSurvived),
				FuelLeft:       int64(o.FuelLeft),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *launchRepository) GetLaunchWithSessionId(
	ctx context.Context, sessionId string,
) (*domain.Launch, error) {
	row, err := r.querier.SelectLaunchWithSessionId(ctx, sessionId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionId, domain.ErrLaunchNotFound)
		}
		return nil, err
	}

	outcomes, err := r.querier.SelectLaunchOutcomes(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return rowsToLaunch(row, outcomes)
}

func (r *launchRepository) GetLaunches(
	ctx context.Context, siteId string,
) ([]domain.Launch, error) {
	rows, err := r.querier.SelectLaunchesWithSiteId(ctx, siteId)
	if err != nil {
		return nil, err
	}

	launches := make([]domain.Launch, 0, len(rows))
	for _, row := range rows {
		outcomes, err := r.querier.SelectLaunchOutcomes(ctx, row.SessionID)
		if err != nil {
			return nil, err
		}
		launch, err := rowsToLaunch(row, outcomes)
		if err != nil {
			return nil, err
		}
		launches = append(launches, *launch)
	}
	return launches, nil
}

func (r *launchRepository) Close() {
	_ = r.db.Close()
}

func rowsToLaunch(
	row queries.Launch, outcomeRows []queries.LaunchOutcome,
) (*domain.Launch, error) {
	outcomes := make([]domain.Outcome, 0, len(outcomeRows))
	for _, o := range outcomeRows {
		participant, err := domain.ParseActorId(o.Participant)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, domain.Outcome{
			Participant:    participant,
			Survived:       o.Survived,
			Altitude:       uint64(o.Altitude),
			Earnings:       uint64(o.Earnings),
			RoundsSurvived: uint32(o.RoundsSurvived),
			FuelLeft:       uint64(o.FuelLeft),
		})
	}

	return &domain.Launch{
		SessionId: row.SessionID,
		SiteId:    row.SiteID,
		Number:    uint64(row.Number),
		Environment: domain.Environment{
			Weather:      uint32(row.Weather),
			Altitude:     uint32(row.Altitude),
			FuelPrice:    uint32(row.FuelPrice),
			PayloadValue: uint32(row.PayloadValue),
		},
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
		Outcomes:  outcomes,
	}, nil
}
