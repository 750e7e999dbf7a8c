package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/infrastructure/db/sqlite/sqlc/queries"
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
		return nil, fmt.Errorf("cannot open launch repository: invalid config, expected db at 0")
	}

	return &launchRepository{
		db:      db,
		querier: queries.New(db),
	}, nil
}

func (r *launchRepository) AddLaunch(ctx context.Context, launch domain.Launch) error {
	txBody := func(querierWithTx *queries.Queries) error {
		if err := querierWithTx.UpsertLaunch(ctx, queries.UpsertLaunchParams{
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
			return fmt.Errorf("failed to upsert launch: %w", err)
		}

		for _, outcome := range launch.Outcomes {
			if err := querierWithTx.UpsertLaunchOutcome(ctx, queries.UpsertLaunchOutcomeParams{
				SessionID:      launch.SessionId,
				Participant:    outcome.Participant.String(),
				Survived:       outcome.Survived,
				Altitude:       int64(outcome.Altitude),
				Earnings:       int64(outcome.Earnings),
				RoundsSurvived: int64(outcome.RoundsSurvived),
				FuelLeft:       int64(outcome.FuelLeft),
			}); err != nil {
				return fmt.Errorf("failed to upsert outcome of %s: %w", outcome.Participant, err)
			}
		}
		return nil
	}

	return execTx(ctx, r.db, txBody)
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
	return r.toLaunch(ctx, row)
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
		launch, err := r.toLaunch(ctx, row)
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

func (r *launchRepository) toLaunch(
	ctx context.Context, row queries.Launch,
) (*domain.Launch, error) {
	outcomeRows, err := r.querier.SelectLaunchOutcomes(ctx, row.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes of session %s: %w", row.SessionID, err)
	}

	outcomes := make([]domain.Outcome, 0, len(outcomeRows))
	for _, o := range outcomeRows {
		participant, err := domain.ParseActorId(o.Participant)
		if err != nil {
			return nil, fmt.Errorf("invalid participant in session %s: %w", row.SessionID, err)
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
