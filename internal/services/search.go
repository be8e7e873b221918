package services

import (
	"errors"
	"math"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
	"gorm.io/gorm"
)

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

type LogSearchRequest struct {
	Origin           string   `json:"origin" binding:"required"`
	Destination      string   `json:"destination" binding:"required"`
	DepartureDate    string   `json:"departure_date" binding:"required"` // YYYY-MM-DD
	ReturnDate       string   `json:"return_date" binding:"required"`    // YYYY-MM-DD
	BudgetPreference string   `json:"budget_preference"`
	FlightClass      string   `json:"flight_class"`
	EstimatedPrice   *float64 `json:"estimated_price"`
	UserSessionID    string   `json:"user_session_id"`
}

// LogSearch records one flight search from the public site. Dates are
// stored as the YYYY-MM-DD strings the product sends; the trip duration
// is derived from them here.
func (s *SearchService) LogSearch(req *LogSearchRequest) (*models.FlightSearch, error) {
	duration, err := durationDays(req.DepartureDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	search := &models.FlightSearch{
		Origin:           req.Origin,
		Destination:      req.Destination,
		DepartureDate:    req.DepartureDate,
		ReturnDate:       req.ReturnDate,
		DurationDays:     duration,
		BudgetPreference: req.BudgetPreference,
		FlightClass:      req.FlightClass,
		EstimatedPrice:   req.EstimatedPrice,
		UserSessionID:    req.UserSessionID,
		SearchStatus:     "completed",
	}

	if err := s.db.Create(search).Error; err != nil {
		return nil, err
	}
	return search, nil
}

// durationDays computes whole days between two YYYY-MM-DD dates.
func durationDays(departureDate, returnDate string) (*int, error) {
	departure, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		return nil, errors.New("invalid departure_date, expected YYYY-MM-DD")
	}
	ret, err := time.Parse("2006-01-02", returnDate)
	if err != nil {
		return nil, errors.New("invalid return_date, expected YYYY-MM-DD")
	}
	if ret.Before(departure) {
		return nil, errors.New("return_date is before departure_date")
	}

	days := int(ret.Sub(departure).Hours() / 24)
	return &days, nil
}

func (s *SearchService) TotalCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.FlightSearch{}).Count(&count).Error
	return count, err
}

// CountSince counts searches in the trailing N days.
func (s *SearchService) CountSince(days int) (int64, error) {
	var count int64
	cutoff := time.Now().AddDate(0, 0, -days)
	err := s.db.Model(&models.FlightSearch{}).Where("created_at >= ?", cutoff).Count(&count).Error
	return count, err
}

// CountSinceHours counts searches in the trailing N hours.
func (s *SearchService) CountSinceHours(hours int) (int64, error) {
	var count int64
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := s.db.Model(&models.FlightSearch{}).Where("created_at >= ?", cutoff).Count(&count).Error
	return count, err
}

// MonthCount counts searches in the calendar month containing now.
// Month boundaries are computed here rather than in SQL so the query
// stays portable across drivers.
func (s *SearchService) MonthCount(now time.Time) (int64, error) {
	start, end := monthBounds(now)
	var count int64
	err := s.db.Model(&models.FlightSearch{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func monthBounds(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// AverageTripDuration averages duration_days where present, rounded to
// one decimal. Returns 0 when no search carries a duration.
func (s *SearchService) AverageTripDuration() (float64, error) {
	var avg float64
	err := s.db.Model(&models.FlightSearch{}).
		Where("duration_days IS NOT NULL").
		Select("COALESCE(AVG(duration_days), 0)").
		Scan(&avg).Error
	return round1(avg), err
}

// WeeklyGrowthRate compares the trailing 7 days against the 7 days
// before that, as a percentage. A quiet previous week yields 0 rather
// than a division blowup.
func (s *SearchService) WeeklyGrowthRate(now time.Time) (float64, error) {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var thisWeek, lastWeek int64
	if err := s.db.Model(&models.FlightSearch{}).
		Where("created_at >= ?", weekAgo).
		Count(&thisWeek).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.FlightSearch{}).
		Where("created_at >= ? AND created_at < ?", twoWeeksAgo, weekAgo).
		Count(&lastWeek).Error; err != nil {
		return 0, err
	}

	return growthRate(thisWeek, lastWeek), nil
}

func growthRate(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ValueCount is one slice of a categorical breakdown (budget tiers,
// cabin classes, cities).
type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// PopularBudget returns the most requested budget tier with its count.
// A zero-value result means no data yet.
func (s *SearchService) PopularBudget() (*ValueCount, error) {
	return s.topValue("budget_preference")
}

// PopularClass returns the most requested cabin class with its count.
func (s *SearchService) PopularClass() (*ValueCount, error) {
	return s.topValue("flight_class")
}

func (s *SearchService) topValue(column string) (*ValueCount, error) {
	var results []ValueCount
	err := s.db.Model(&models.FlightSearch{}).
		Select(column+" as value, COUNT(*) as count").
		Where(column+" <> ''").
		Group(column).
		Order("count DESC").
		Limit(1).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &ValueCount{}, nil
	}
	return &results[0], nil
}

// TopDestinations returns the most searched destination cities.
func (s *SearchService) TopDestinations(limit int) ([]ValueCount, error) {
	return s.groupedCounts("destination", limit)
}

// TopDepartures returns the most common origin cities.
func (s *SearchService) TopDepartures(limit int) ([]ValueCount, error) {
	return s.groupedCounts("origin", limit)
}

// TopDestinationsThisMonth feeds the dashboard summary block.
func (s *SearchService) TopDestinationsThisMonth(limit int, now time.Time) ([]ValueCount, error) {
	start, end := monthBounds(now)
	var results []ValueCount
	err := s.db.Model(&models.FlightSearch{}).
		Select("destination as value, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("destination").
		Order("count DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

// BudgetDistribution returns search counts per budget tier.
func (s *SearchService) BudgetDistribution() ([]ValueCount, error) {
	return s.groupedCounts("budget_preference", 0)
}

// ClassDistribution returns search counts per cabin class.
func (s *SearchService) ClassDistribution() ([]ValueCount, error) {
	return s.groupedCounts("flight_class", 0)
}

func (s *SearchService) groupedCounts(column string, limit int) ([]ValueCount, error) {
	var results []ValueCount
	query := s.db.Model(&models.FlightSearch{}).
		Select(column+" as value, COUNT(*) as count").
		Where(column+" <> ''").
		Group(column).
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&results).Error
	return results, err
}

type SearchListRequest struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	Status      string `form:"status"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
}

type SearchListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.FlightSearch `json:"items"`
}

func (s *SearchService) List(req *SearchListRequest) (*SearchListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var searches []models.FlightSearch
	var total int64

	query := s.db.Model(&models.FlightSearch{})

	if req.Origin != "" {
		query = query.Where("origin = ?", req.Origin)
	}
	if req.Destination != "" {
		query = query.Where("destination = ?", req.Destination)
	}
	if req.Status != "" {
		query = query.Where("search_status = ?", req.Status)
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&searches).Error; err != nil {
		return nil, err
	}

	return &SearchListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    searches,
	}, nil
}

type FlightAnalyticsRequest struct {
	Days     int `form:"days" binding:"omitempty,min=1,max=365"`
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// FlightAnalyticsRow is a flight search enriched with the derived
// columns the analytics page pivots on.
type FlightAnalyticsRow struct {
	models.FlightSearch
	SearchDate  string `json:"search_date"`  // YYYY-MM-DD
	SearchMonth string `json:"search_month"` // YYYY-MM
	DayOfWeek   int    `json:"day_of_week"`  // 0 = Sunday
	HourOfDay   int    `json:"hour_of_day"`  // 0-23
}

type FlightAnalyticsResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Days     int                  `json:"days"`
	Items    []FlightAnalyticsRow `json:"items"`
}

// Analytics returns searches from the trailing N days (default 90),
// newest first, each annotated with date/month/weekday/hour pivots
// computed in Go so the query stays portable.
func (s *SearchService) Analytics(req *FlightAnalyticsRequest) (*FlightAnalyticsResponse, error) {
	if req.Days == 0 {
		req.Days = 90
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 100
	}

	cutoff := time.Now().AddDate(0, 0, -req.Days)
	query := s.db.Model(&models.FlightSearch{}).Where("created_at >= ?", cutoff)

	var total int64
	query.Count(&total)

	var searches []models.FlightSearch
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&searches).Error; err != nil {
		return nil, err
	}

	rows := make([]FlightAnalyticsRow, 0, len(searches))
	for _, search := range searches {
		rows = append(rows, FlightAnalyticsRow{
			FlightSearch: search,
			SearchDate:   search.CreatedAt.Format("2006-01-02"),
			SearchMonth:  search.CreatedAt.Format("2006-01"),
			DayOfWeek:    int(search.CreatedAt.Weekday()),
			HourOfDay:    search.CreatedAt.Hour(),
		})
	}

	return &FlightAnalyticsResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Days:     req.Days,
		Items:    rows,
	}, nil
}
