package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sescandon/nevexp/internal/agent"
	"github.com/sescandon/nevexp/internal/db"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/windows"
)

type Handler struct {
	agent  *agent.Agent
	hub    *windows.Hub
	store  *db.DB
	logger *logging.Logger
}

func NewHandler(a *agent.Agent, hub *windows.Hub, store *db.DB, logger *logging.Logger) *Handler {
	return &Handler{agent: a, hub: hub, store: store, logger: logger}
}

// Push injects a raw push message into the agent, exactly as if it had
// arrived from the broker. Meant for manual testing of the push path.
func (h *Handler) Push(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Errorf("Read push body failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.agent.Dispatch(models.Event{Kind: models.EventPush, Payload: raw})
	c.JSON(http.StatusAccepted, gin.H{"message": "Push queued"})
}

// Status reports whether the agent is installed, active, and supported.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.agent.Status())
}

// Events lists recent notification lifecycle records, newest first.
func (h *Handler) Events(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	records, err := h.store.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Get notification events failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get events"})
		return
	}
	if records == nil {
		records = []models.DeliveryRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Window attaches an application window over websocket.
func (h *Handler) Window(c *gin.Context) {
	h.hub.HandleWS(c.Writer, c.Request)
}
