package services

import (
	"errors"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
	"gorm.io/gorm"
)

type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

type UpsertContactRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Source    string `json:"source"`
	Notes     string `json:"notes"`
}

// Upsert inserts a contact, or when the email already exists updates the
// names, phone and last_interaction on the existing row. The source and
// status of a known contact are left alone. Returns the row and whether
// it was newly created.
func (s *ContactService) Upsert(req *UpsertContactRequest) (*models.Contact, bool, error) {
	var existing models.Contact
	err := s.db.Where("email = ?", req.Email).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		contact := &models.Contact{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Phone:           req.Phone,
			Source:          req.Source,
			Status:          "active",
			Notes:           req.Notes,
			LastInteraction: time.Now(),
		}
		if contact.Source == "" {
			contact.Source = "web_form"
		}
		if err := s.db.Create(contact).Error; err != nil {
			return nil, false, err
		}
		return contact, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	updates := map[string]interface{}{
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"phone":            req.Phone,
		"last_interaction": time.Now(),
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

type ContactListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Source   string `form:"source"`
	SortBy   string `form:"sort_by"` // created_at, name, email
	SortDesc bool   `form:"sort_desc"`
}

type ContactListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Contact `json:"items"`
}

// contactSortColumns whitelists sortable columns so user input never
// reaches the ORDER BY clause directly.
var contactSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "first_name",
	"email":      "email",
}

func (s *ContactService) List(req *ContactListRequest) (*ContactListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var contacts []models.Contact
	var total int64

	query := s.db.Model(&models.Contact{})

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}

	query.Count(&total)

	column, ok := contactSortColumns[req.SortBy]
	if !ok {
		column = "created_at"
		req.SortDesc = true
	}
	order := column
	if req.SortDesc {
		order += " DESC"
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order(order).Find(&contacts).Error; err != nil {
		return nil, err
	}

	return &ContactListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    contacts,
	}, nil
}

func (s *ContactService) TotalCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Contact{}).Count(&count).Error
	return count, err
}

// CountSinceHours counts contacts captured in the trailing N hours.
func (s *ContactService) CountSinceHours(hours int) (int64, error) {
	var count int64
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := s.db.Model(&models.Contact{}).Where("created_at >= ?", cutoff).Count(&count).Error
	return count, err
}
