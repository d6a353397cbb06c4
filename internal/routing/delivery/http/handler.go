package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dealership-chat-router/internal/model"
	"dealership-chat-router/internal/routing"
	pkgResponse "dealership-chat-router/pkg/response"
)

// HandleRouteMessage routes one inbound chat message.
// @Summary Route a chat message
// @Description Classify the message, pick the answering agent or escalate to a human, and return the routing decision
// @Tags routing
// @Accept json
// @Produce json
// @Param request body RouteMessageRequest true "Inbound message"
// @Success 200 {object} model.RoutingDecision
// @Router /api/v1/route-message [post]
func (h *handler) HandleRouteMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req RouteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Errorf(ctx, "routing handler: failed to parse request: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	msg := model.Message{
		MessageID:      req.MessageID,
		Text:           req.Text,
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		DealershipID:   req.DealershipID,
		ReceivedAt:     req.ReceivedAt,
	}

	decision, err := h.uc.Route(ctx, msg)
	if err != nil {
		// Only invalid input reaches here; provider failures are
		// absorbed into a degraded decision.
		if errors.Is(err, routing.ErrEmptyMessage) || errors.Is(err, routing.ErrEmptyConversationID) {
			pkgResponse.Error(c, err, nil)
			return
		}
		h.l.Errorf(ctx, "routing handler: Route failed: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}

	pkgResponse.OK(c, decision)
}

// HandleMetrics returns the per-dealership aggregate.
// @Summary Routing metrics
// @Description Aggregate routing outcomes for one dealership over a trailing time range
// @Tags metrics
// @Produce json
// @Param dealership_id query int true "Dealership id"
// @Param range query string false "Trailing range, e.g. 15m or 24h (default 24h)"
// @Success 200 {object} model.MetricsAggregate
// @Router /api/v1/metrics [get]
func (h *handler) HandleMetrics(c *gin.Context) {
	dealershipID, err := strconv.Atoi(c.Query("dealership_id"))
	if err != nil {
		pkgResponse.Error(c, fmt.Errorf("invalid dealership_id: %w", err), nil)
		return
	}

	rng := defaultMetricsRange
	if raw := c.Query("range"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			pkgResponse.Error(c, fmt.Errorf("invalid range %q", raw), nil)
			return
		}
		rng = parsed
	}

	now := time.Now()
	agg := h.collector.Summarize(dealershipID, now.Add(-rng), now)
	pkgResponse.OK(c, agg)
}

// HandleReset clears a conversation's escalation state after a human handoff.
// @Summary Reset conversation state
// @Description Clear escalation state and rolling window for a conversation (human-agent workflow)
// @Tags routing
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/conversations/{id}/reset [post]
func (h *handler) HandleReset(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID := c.Param("id")
	if conversationID == "" {
		pkgResponse.Error(c, routing.ErrEmptyConversationID, nil)
		return
	}

	found := h.uc.ResetConversation(ctx, conversationID)
	pkgResponse.OK(c, gin.H{"conversation_id": conversationID, "reset": found})
}

// HandleHealth reports router and provider health.
// @Summary Health Check
// @Description Reports whether the classifier and sentiment dependencies are reachable
// @Tags Health
// @Produce json
// @Success 200 {object} routing.HealthStatus
// @Router /health [get]
func (h *handler) HandleHealth(c *gin.Context) {
	status := h.uc.Status(c.Request.Context())

	code := http.StatusOK
	if status.Status == "down" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
