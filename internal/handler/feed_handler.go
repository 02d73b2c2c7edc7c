package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hebdo-app/hebdo-api/internal/service"
	"github.com/hebdo-app/hebdo-api/pkg/response"
)

// FeedHandler handles the iCalendar feed endpoints.
type FeedHandler struct {
	feeds *service.FeedService
}

// NewFeedHandler constructs a feed handler.
func NewFeedHandler(feeds *service.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// IssueToken godoc
// @Summary Issue a calendar feed access token
// @Tags Feed
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /feed/token [post]
func (h *FeedHandler) IssueToken(c *gin.Context) {
	token, err := h.feeds.IssueToken(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// Feed godoc
// @Summary Subscribe to the weekly plan as an iCalendar feed
// @Tags Feed
// @Produce plain
// @Param token query string false "Feed access token"
// @Success 200 {string} string
// @Router /calendar/feed.ics [get]
func (h *FeedHandler) Feed(c *gin.Context) {
	rendered, err := h.feeds.Feed(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="weekly-plan.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(rendered))
}
