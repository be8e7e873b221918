package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

// TrackHandler receives fire-and-forget tracking calls from the public
// RoamGenie site. These routes are unauthenticated and rate limited.
type TrackHandler struct {
	searchService  *services.SearchService
	contactService *services.ContactService
}

func NewTrackHandler(db *gorm.DB) *TrackHandler {
	return &TrackHandler{
		searchService:  services.NewSearchService(db),
		contactService: services.NewContactService(db),
	}
}

// TrackSearch records a flight search.
// POST /api/track/search
func (h *TrackHandler) TrackSearch(c *gin.Context) {
	var req services.LogSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	search, err := h.searchService.LogSearch(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	services.LogEvent(services.EventSearchLogged, map[string]interface{}{
		"search_id":   search.ID,
		"origin":      search.Origin,
		"destination": search.Destination,
	}, req.UserSessionID, c.ClientIP(), c.Request.UserAgent())

	services.PublishDashboardEvent("search",
		fmt.Sprintf("%s to %s", search.Origin, search.Destination), search)

	response.Created(c, gin.H{"id": search.ID})
}

// TrackContact creates or refreshes a contact by email.
// POST /api/track/contact
func (h *TrackHandler) TrackContact(c *gin.Context) {
	var req services.UpsertContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contact, created, err := h.contactService.Upsert(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	services.LogEvent(services.EventContactUpserted, map[string]interface{}{
		"contact_id": contact.ID,
		"created":    created,
	}, contact.Email, c.ClientIP(), c.Request.UserAgent())

	services.PublishDashboardEvent("contact", contact.Email, gin.H{
		"id":      contact.ID,
		"email":   contact.Email,
		"created": created,
	})

	response.Success(c, gin.H{"id": contact.ID, "created": created})
}

type trackEventRequest struct {
	EventType      string      `json:"event_type" binding:"required"`
	EventData      interface{} `json:"event_data"`
	UserIdentifier string      `json:"user_identifier"`
}

// TrackEvent records a free-form product event (page views, funnel
// steps). The type is whatever the site sends.
// POST /api/track/event
func (h *TrackHandler) TrackEvent(c *gin.Context) {
	var req trackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	services.LogEvent(req.EventType, req.EventData, req.UserIdentifier,
		c.ClientIP(), c.Request.UserAgent())

	services.PublishDashboardEvent("event", req.EventType, gin.H{
		"event_type":      req.EventType,
		"user_identifier": req.UserIdentifier,
	})

	response.Success(c, gin.H{"tracked": true})
}
