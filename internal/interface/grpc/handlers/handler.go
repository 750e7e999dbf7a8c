package handlers

import (
	"io"
	"net/http"

	"github.com/ark-network/launchsite/internal/core/application"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type handler struct {
	svc application.Service
}

// NewHandler returns the JSON api of the launch site.
func NewHandler(svc application.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), tracing())

	h := &handler{svc}

	router.GET("/healthz", h.healthz)

	v1 := router.Group("/v1")
	v1.GET("/info", h.getInfo)
	v1.POST("/participants", h.registerParticipant)
	v1.PATCH("/participants", h.changeParticipantName)
	v1.POST("/sessions", h.startNewSession)
	v1.POST("/sessions/registrations", h.registerOnLaunch)
	v1.POST("/sessions/execute", h.executeSession)
	v1.GET("/sessions/current", h.getSessionInfo)
	v1.GET("/sessions/history", h.getLaunchHistory)
	v1.GET("/sessions/history/:id", h.getLaunch)
	v1.GET("/state", h.getState)
	v1.GET("/metahash", h.getMetaHash)
	v1.GET("/audit", h.audit)
	v1.GET("/events", h.getEventStream)

	return router
}

func (h *handler) healthz(c *gin.Context) {
	if _, err := h.svc.GetInfo(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) getInfo(c *gin.Context) {
	info, err := h.svc.GetInfo(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, infoResponse{
		Name:              info.Name,
		Owner:             info.Owner,
		HasCurrentSession: info.HasCurrentSession,
	})
}

func (h *handler) registerParticipant(c *gin.Context) {
	caller, err := parseCaller(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	participant, err := h.svc.RegisterParticipant(c.Request.Context(), caller, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participantResponse{
		Id:   participant.Id,
		Name: participant.Name,
	})
}

func (h *handler) changeParticipantName(c *gin.Context) {
	caller, err := parseCaller(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	change, err := h.svc.ChangeParticipantName(c.Request.Context(), caller, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, participantResponse{
		Id:   change.Id,
		Name: change.Name,
	})
}

func (h *handler) startNewSession(c *gin.Context) {
	caller, err := parseCaller(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	launch, err := h.svc.StartNewSession(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newLaunchResponse{
		Id:   launch.Id,
		Name: launch.Name,
		Environment: environment{
			Weather:      launch.Weather,
			Altitude:     launch.Altitude,
			FuelPrice:    launch.FuelPrice,
			PayloadValue: launch.PayloadValue,
		},
	})
}

func (h *handler) registerOnLaunch(c *gin.Context) {
	caller, err := parseCaller(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req registerOnLaunchRequest
	if err := parseBody(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	registration, err := h.svc.RegisterOnLaunch(
		c.Request.Context(), caller, req.FuelAmount, req.PayloadAmount,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, launchRegistrationResponse{
		Id:          registration.Id,
		Participant: registration.Participant,
	})
}

func (h *handler) executeSession(c *gin.Context) {
	caller, err := parseCaller(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	finished, err := h.svc.ExecuteSession(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, launchFinishedResponse{
		Id:       finished.Id,
		Outcomes: toOutcomes(finished.Outcomes),
	})
}

func (h *handler) getSessionInfo(c *gin.Context) {
	session, err := h.svc.GetSessionInfo(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, currentSessionResponse{toSessionResponse(session)})
}

func (h *handler) getLaunchHistory(c *gin.Context) {
	launches, err := h.svc.GetLaunchHistory(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHistoryResponse(launches))
}

func (h *handler) getLaunch(c *gin.Context) {
	launch, err := h.svc.GetLaunch(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLaunchResponse(*launch))
}

func (h *handler) getState(c *gin.Context) {
	state, err := h.svc.GetState(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(state))
}

func (h *handler) getMetaHash(c *gin.Context) {
	hash, err := h.svc.GetMetaHash(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, metaHashResponse{hash})
}

func (h *handler) audit(c *gin.Context) {
	report, err := h.svc.Audit(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, auditResponse{
		SiteId:              report.SiteId,
		LiveVersion:         report.LiveVersion,
		JournalVersion:      report.JournalVersion,
		JournalConsistent:   report.JournalConsistent,
		LiveStoreConsistent: report.LiveStoreConsistent,
	})
}

// getEventStream forwards every site event as a server-sent event until the
// client goes away.
func (h *handler) getEventStream(c *gin.Context) {
	ctx := c.Request.Context()
	notifications, err := h.svc.GetEventsChannel(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case notification, ok := <-notifications:
			if !ok {
				return false
			}
			c.SSEvent(notification.Type, notification.Payload)
			return true
		}
	})
	log.Debug("event stream closed")
}
