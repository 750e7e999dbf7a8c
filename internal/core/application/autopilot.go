package application

import (
	"context"
	"errors"

	"github.com/ark-network/launchsite/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// runAutopilot executes the current session if anyone joined it, then opens a
// new one on behalf of the owner. An empty session is left open.
func (s *service) runAutopilot() {
	ctx := context.Background()
	owner := s.owner

	session, err := s.GetSessionInfo(ctx)
	if err != nil {
		log.WithError(err).Warn("autopilot: failed to get current session")
		return
	}

	if session != nil {
		if session.Registrations <= 0 {
			log.Debugf("autopilot: session %d has no registrations, keeping it open", session.Id)
			return
		}
		finished, err := s.ExecuteSession(ctx, owner)
		if err != nil && !errors.Is(err, domain.ErrNoActiveSession) {
			log.WithError(err).Warn("autopilot: failed to execute session")
			return
		}
		if finished != nil {
			log.Debugf("autopilot: executed launch %d", finished.Id)
		}
	}

	launch, err := s.StartNewSession(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyOpen) {
			return
		}
		log.WithError(err).Warn("autopilot: failed to start session")
		return
	}
	log.Debugf("autopilot: opened launch %d", launch.Id)
}
