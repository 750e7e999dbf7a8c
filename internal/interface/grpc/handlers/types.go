package handlers

import (
	"github.com/ark-network/launchsite/internal/core/application"
	"github.com/ark-network/launchsite/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type registerOnLaunchRequest struct {
	FuelAmount    uint32 `json:"fuelAmount"`
	PayloadAmount uint32 `json:"payloadAmount"`
}

type infoResponse struct {
	Name              string         `json:"name"`
	Owner             domain.ActorId `json:"owner"`
	HasCurrentSession bool           `json:"hasCurrentSession"`
}

type participantResponse struct {
	Id      domain.ActorId `json:"id"`
	Name    string         `json:"name"`
	Balance uint64         `json:"balance"`
}

type environment struct {
	Weather      uint32 `json:"weather"`
	Altitude     uint32 `json:"altitude"`
	FuelPrice    uint32 `json:"fuelPrice"`
	PayloadValue uint32 `json:"payloadValue"`
}

type newLaunchResponse struct {
	Id          uint64      `json:"id"`
	Name        string      `json:"name"`
	Environment environment `json:"environment"`
}

type launchRegistrationResponse struct {
	Id          uint64         `json:"id"`
	Participant domain.ActorId `json:"participant"`
}

type outcome struct {
	Participant    domain.ActorId `json:"participant"`
	Survived       bool           `json:"survived"`
	Altitude       uint64         `json:"altitude"`
	Earnings       uint64         `json:"earnings"`
	RoundsSurvived uint32         `json:"roundsSurvived"`
	FuelLeft       uint64         `json:"fuelLeft"`
}

type launchFinishedResponse struct {
	Id       uint64    `json:"id"`
	Outcomes []outcome `json:"outcomes"`
}

type sessionResponse struct {
	Id            uint64      `json:"id"`
	SessionId     string      `json:"sessionId"`
	StartedAt     int64       `json:"startedAt"`
	Environment   environment `json:"environment"`
	Registrations int         `json:"registrations"`
}

type currentSessionResponse struct {
	Session *sessionResponse `json:"session"`
}

type registration struct {
	Participant   domain.ActorId `json:"participant"`
	FuelAmount    uint32         `json:"fuelAmount"`
	PayloadAmount uint32         `json:"payloadAmount"`
}

type sessionStateResponse struct {
	Id            string         `json:"id"`
	Number        uint64         `json:"number"`
	StartedAt     int64          `json:"startedAt"`
	Environment   environment    `json:"environment"`
	Registrations []registration `json:"registrations"`
}

type stateResponse struct {
	Id               string                `json:"id"`
	Name             string                `json:"name"`
	Owner            domain.ActorId        `json:"owner"`
	SessionsExecuted uint64                `json:"sessionsExecuted"`
	Session          *sessionStateResponse `json:"session"`
	Participants     []participantResponse `json:"participants"`
	Version          uint                  `json:"version"`
}

type launchResponse struct {
	Id          uint64      `json:"id"`
	SessionId   string      `json:"sessionId"`
	Environment environment `json:"environment"`
	StartedAt   int64       `json:"startedAt"`
	EndedAt     int64       `json:"endedAt"`
	Outcomes    []outcome   `json:"outcomes"`
}

type historyResponse struct {
	Launches []launchResponse `json:"launches"`
}

type metaHashResponse struct {
	MetaHash string `json:"metaHash"`
}

type auditResponse struct {
	SiteId              string `json:"siteId"`
	LiveVersion         uint   `json:"liveVersion"`
	JournalVersion      uint   `json:"journalVersion"`
	JournalConsistent   bool   `json:"journalConsistent"`
	LiveStoreConsistent bool   `json:"liveStoreConsistent"`
}

// From app type to interface type

func toEnvironment(env domain.Environment) environment {
	return environment{
		Weather:      env.Weather,
		Altitude:     env.Altitude,
		FuelPrice:    env.FuelPrice,
		PayloadValue: env.PayloadValue,
	}
}

func toOutcomes(outcomes []domain.Outcome) []outcome {
	list := make([]outcome, 0, len(outcomes))
	for _, o := range outcomes {
		list = append(list, outcome{
			Participant:    o.Participant,
			Survived:       o.Survived,
			Altitude:       o.Altitude,
			Earnings:       o.Earnings,
			RoundsSurvived: o.RoundsSurvived,
			FuelLeft:       o.FuelLeft,
		})
	}
	return list
}

func toSessionResponse(session *application.SessionInfo) *sessionResponse {
	if session == nil {
		return nil
	}
	return &sessionResponse{
		Id:        session.Id,
		SessionId: session.SessionId,
		StartedAt: session.StartedAt,
		Environment: environment{
			Weather:      session.Weather,
			Altitude:     session.Altitude,
			FuelPrice:    session.FuelPrice,
			PayloadValue: session.PayloadValue,
		},
		Registrations: session.Registrations,
	}
}

func toStateResponse(snapshot *domain.SiteSnapshot) stateResponse {
	participants := make([]participantResponse, 0, len(snapshot.Participants))
	for _, p := range snapshot.Participants {
		participants = append(participants, participantResponse{
			Id: p.Id, Name: p.Name, Balance: p.Balance,
		})
	}

	var session *sessionStateResponse
	if s := snapshot.Session; s != nil {
		registrations := make([]registration, 0, len(s.Registrations))
		for _, r := range s.Registrations {
			registrations = append(registrations, registration{
				Participant:   r.Participant,
				FuelAmount:    r.Strategy.FuelAmount,
				PayloadAmount: r.Strategy.PayloadAmount,
			})
		}
		session = &sessionStateResponse{
			Id:            s.Id,
			Number:        s.Number,
			StartedAt:     s.StartedAt,
			Environment:   toEnvironment(s.Environment),
			Registrations: registrations,
		}
	}

	return stateResponse{
		Id:               snapshot.Id,
		Name:             snapshot.Name,
		Owner:            snapshot.Owner,
		SessionsExecuted: snapshot.SessionsExecuted,
		Session:          session,
		Participants:     participants,
		Version:          snapshot.Version,
	}
}

func toHistoryResponse(launches []domain.Launch) historyResponse {
	list := make([]launchResponse, 0, len(launches))
	for _, l := range launches {
		list = append(list, toLaunchResponse(l))
	}
	return historyResponse{list}
}

func toLaunchResponse(l domain.Launch) launchResponse {
	return launchResponse{
		Id:          l.Number,
		SessionId:   l.SessionId,
		Environment: toEnvironment(l.Environment),
		StartedAt:   l.StartedAt,
		EndedAt:     l.EndedAt,
		Outcomes:    toOutcomes(l.Outcomes),
	}
}
