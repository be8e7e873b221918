package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/webisdom/roamgenie-admin/internal/models"
	"github.com/webisdom/roamgenie-admin/pkg/response"
	"gorm.io/gorm"
)

// SearchHandler provides a global search across flight searches and contacts.
type SearchHandler struct {
	db *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

type SearchResult struct {
	Searches []FlightSearchItem  `json:"searches"`
	Contacts []ContactSearchItem `json:"contacts"`
	Total    int                 `json:"total"`
}

type FlightSearchItem struct {
	ID            uint     `json:"id"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	ReturnDate    string   `json:"return_date"`
	FlightClass   string   `json:"flight_class"`
	Price         *float64 `json:"estimated_price"`
	SessionID     string   `json:"user_session_id"`
	CreatedAt     string   `json:"created_at"`
}

type ContactSearchItem struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

// Search performs a global search across flight searches and contacts.
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" || len(q) < 2 {
		response.BadRequest(c, "search query must be at least 2 characters")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	result := SearchResult{}
	pattern := "%" + q + "%"

	// Search flight searches
	var searches []models.FlightSearch
	h.db.Model(&models.FlightSearch{}).
		Where("origin LIKE ? OR destination LIKE ? OR user_session_id LIKE ?",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&searches)

	for _, s := range searches {
		result.Searches = append(result.Searches, FlightSearchItem{
			ID:            s.ID,
			Origin:        s.Origin,
			Destination:   s.Destination,
			DepartureDate: s.DepartureDate,
			ReturnDate:    s.ReturnDate,
			FlightClass:   s.FlightClass,
			Price:         s.EstimatedPrice,
			SessionID:     s.UserSessionID,
			CreatedAt:     s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	// Search contacts
	var contacts []models.Contact
	h.db.Model(&models.Contact{}).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
			pattern, pattern, pattern).
		Limit(10).
		Find(&contacts)

	for _, ct := range contacts {
		result.Contacts = append(result.Contacts, ContactSearchItem{
			ID:        ct.ID,
			FirstName: ct.FirstName,
			LastName:  ct.LastName,
			Email:     ct.Email,
			Status:    ct.Status,
		})
	}

	result.Total = len(result.Searches) + len(result.Contacts)
	response.Success(c, result)
}
