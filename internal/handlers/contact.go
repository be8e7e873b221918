package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/services"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{
		contactService: services.NewContactService(db),
	}
}

// List returns CRM contacts with search, filter and sort options.
// GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	var req services.ContactListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contactService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
