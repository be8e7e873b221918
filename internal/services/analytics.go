package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
	"gorm.io/gorm"
)

// AnalyticsService assembles the cross-table numbers behind the dashboard:
// KPI summaries, the daily trend series, and the exportable summary sheet.
type AnalyticsService struct {
	db             *gorm.DB
	searches       *SearchService
	contacts       *ContactService
	holidays       *HolidayService
	defaultCountry string
}

func NewAnalyticsService(db *gorm.DB, holidayCountry string) *AnalyticsService {
	if holidayCountry == "" {
		holidayCountry = "US"
	}
	return &AnalyticsService{
		db:             db,
		searches:       NewSearchService(db),
		contacts:       NewContactService(db),
		holidays:       NewHolidayService(),
		defaultCountry: holidayCountry,
	}
}

// Holidays exposes the holiday calendars for the markets endpoint.
func (s *AnalyticsService) Holidays() *HolidayService {
	return s.holidays
}

// TrendPoint is one day of the search volume series.
type TrendPoint struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Count       int64  `json:"count"`
	Weekend     bool   `json:"weekend"`
	Holiday     bool   `json:"holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
}

// SearchTrends returns a continuous daily series over the trailing N
// days (default 30), oldest first, missing days zero-filled so charts
// render gapless. Days are bucketed in Go to keep the query portable,
// and annotated against the market's holiday calendar. An empty country
// uses the configured default market.
func (s *AnalyticsService) SearchTrends(days int, country string) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	if country == "" {
		country = s.defaultCountry
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	var stamps []time.Time
	if err := s.db.Model(&models.FlightSearch{}).
		Where("created_at >= ?", start).
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, days)
	for _, stamp := range stamps {
		counts[stamp.Format("2006-01-02")]++
	}

	points := make([]TrendPoint, 0, days)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		point := TrendPoint{
			Date:    key,
			Count:   counts[key],
			Weekend: s.holidays.IsWeekend(day),
		}
		if name, ok := s.holidays.HolidayName(day, country); ok {
			point.Holiday = true
			point.HolidayName = name
		}
		points = append(points, point)
	}
	return points, nil
}

// SummaryStats is the KPI block at the top of the admin dashboard.
type SummaryStats struct {
	TotalSearches     int64        `json:"total_searches"`
	TotalContacts     int64        `json:"total_contacts"`
	Searches24h       int64        `json:"searches_24h"`
	Contacts24h       int64        `json:"contacts_24h"`
	Searches7d        int64        `json:"searches_7d"`
	SearchesThisMonth int64        `json:"searches_this_month"`
	AvgTripDuration   float64      `json:"avg_trip_duration"`
	WeeklyGrowthPct   float64      `json:"weekly_growth_pct"`
	PopularBudget     ValueCount   `json:"popular_budget"`
	PopularClass      ValueCount   `json:"popular_class"`
	TopDestinations   []ValueCount `json:"top_destinations"` // this month, top 5
}

func (s *AnalyticsService) SummaryStats() (*SummaryStats, error) {
	now := time.Now()
	stats := &SummaryStats{}
	var err error

	if stats.TotalSearches, err = s.searches.TotalCount(); err != nil {
		return nil, err
	}
	if stats.TotalContacts, err = s.contacts.TotalCount(); err != nil {
		return nil, err
	}
	if stats.Searches24h, err = s.searches.CountSinceHours(24); err != nil {
		return nil, err
	}
	if stats.Contacts24h, err = s.contacts.CountSinceHours(24); err != nil {
		return nil, err
	}
	if stats.Searches7d, err = s.searches.CountSince(7); err != nil {
		return nil, err
	}
	if stats.SearchesThisMonth, err = s.searches.MonthCount(now); err != nil {
		return nil, err
	}
	if stats.AvgTripDuration, err = s.searches.AverageTripDuration(); err != nil {
		return nil, err
	}
	if stats.WeeklyGrowthPct, err = s.searches.WeeklyGrowthRate(now); err != nil {
		return nil, err
	}

	budget, err := s.searches.PopularBudget()
	if err != nil {
		return nil, err
	}
	stats.PopularBudget = *budget

	class, err := s.searches.PopularClass()
	if err != nil {
		return nil, err
	}
	stats.PopularClass = *class

	if stats.TopDestinations, err = s.searches.TopDestinationsThisMonth(5, now); err != nil {
		return nil, err
	}

	return stats, nil
}

// SummaryCSV renders the Metric,Value summary sheet. Rows without data
// (no searches yet, no duration recorded) are omitted rather than
// written as zeros.
func (s *AnalyticsService) SummaryCSV() (string, error) {
	rows := [][]string{{"Metric", "Value"}}

	total, err := s.searches.TotalCount()
	if err != nil {
		return "", err
	}
	rows = append(rows, []string{"Total Flight Searches", strconv.FormatInt(total, 10)})

	contacts, err := s.contacts.TotalCount()
	if err != nil {
		return "", err
	}
	rows = append(rows, []string{"Total CRM Contacts", strconv.FormatInt(contacts, 10)})

	if top, err := s.searches.TopDestinations(1); err != nil {
		return "", err
	} else if len(top) > 0 {
		rows = append(rows, []string{"Top Destination", formatCityCount(top[0])})
	}

	if top, err := s.searches.TopDepartures(1); err != nil {
		return "", err
	} else if len(top) > 0 {
		rows = append(rows, []string{"Top Departure City", formatCityCount(top[0])})
	}

	budget, err := s.searches.PopularBudget()
	if err != nil {
		return "", err
	}
	if budget.Value != "" {
		rows = append(rows, []string{"Most Popular Budget", formatCityCount(*budget)})
	}

	avg, err := s.searches.AverageTripDuration()
	if err != nil {
		return "", err
	}
	if avg > 0 {
		rows = append(rows, []string{"Average Trip Duration", fmt.Sprintf("%.1f days", avg)})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatCityCount(v ValueCount) string {
	return fmt.Sprintf("%s (%d searches)", v.Value, v.Count)
}
