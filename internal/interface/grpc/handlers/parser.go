package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ark-network/launchsite/internal/core/application"
	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// ActorIdHeader carries the hex encoded identity of the caller.
const ActorIdHeader = "X-Actor-Id"

var errMalformedRequest = errors.New("malformed request")

// From interface type to app type

func parseCaller(c *gin.Context) (domain.ActorId, error) {
	header := c.GetHeader(ActorIdHeader)
	if len(header) <= 0 {
		return domain.ActorId{}, fmt.Errorf("%w: missing %s header", errMalformedRequest, ActorIdHeader)
	}
	id, err := domain.ParseActorId(header)
	if err != nil {
		return domain.ActorId{}, fmt.Errorf("%w: %s", errMalformedRequest, err)
	}
	return id, nil
}

func parseBody(c *gin.Context, body interface{}) error {
	if err := c.ShouldBindJSON(body); err != nil {
		return fmt.Errorf("%w: invalid body: %s", errMalformedRequest, err)
	}
	return nil
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, errMalformedRequest),
		errors.Is(err, domain.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownParticipant),
		errors.Is(err, domain.ErrLaunchNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateParticipant),
		errors.Is(err, domain.ErrDuplicateRegistration),
		errors.Is(err, domain.ErrSessionAlreadyOpen),
		errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, application.ErrServiceNotStarted),
		errors.Is(err, application.ErrServiceStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorStatus(err), errorResponse{err.Error()})
}
