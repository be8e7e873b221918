package services

import (
	"testing"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/models"
	"gorm.io/gorm"
)

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name          string
		departureDate string
		returnDate    string
		expected      int
		wantErr       bool
	}{
		{"one week", "2025-07-01", "2025-07-08", 7, false},
		{"same day", "2025-07-01", "2025-07-01", 0, false},
		{"overnight", "2025-07-01", "2025-07-02", 1, false},
		{"across month boundary", "2025-06-28", "2025-07-03", 5, false},
		{"return before departure", "2025-07-10", "2025-07-05", 0, true},
		{"malformed departure", "01/07/2025", "2025-07-08", 0, true},
		{"malformed return", "2025-07-01", "July 8", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := durationDays(tt.departureDate, tt.returnDate)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("durationDays() error = %v", err)
			}
			if *result != tt.expected {
				t.Errorf("durationDays() = %d, expected %d", *result, tt.expected)
			}
		})
	}
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		expected float64
	}{
		{"quiet previous week", 10, 0, 0},
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"rounds to one decimal", 4, 3, 33.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := growthRate(tt.current, tt.previous)
			if result != tt.expected {
				t.Errorf("growthRate(%d, %d) = %v, expected %v", tt.current, tt.previous, result, tt.expected)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			"mid-month",
			time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"december rolls into next year",
			time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := monthBounds(tt.now)
			if !start.Equal(tt.expectedStart) {
				t.Errorf("start = %v, expected %v", start, tt.expectedStart)
			}
			if !end.Equal(tt.expectedEnd) {
				t.Errorf("end = %v, expected %v", end, tt.expectedEnd)
			}
		})
	}
}

func TestLogSearch(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	t.Run("valid search", func(t *testing.T) {
		price := 320.0
		search, err := service.LogSearch(&LogSearchRequest{
			Origin:           "Delhi",
			Destination:      "Singapore",
			DepartureDate:    "2025-07-01",
			ReturnDate:       "2025-07-08",
			BudgetPreference: "economy",
			FlightClass:      "Economy",
			EstimatedPrice:   &price,
			UserSessionID:    "sess-abc",
		})
		if err != nil {
			t.Fatalf("LogSearch() error = %v", err)
		}
		if search.ID == 0 {
			t.Error("expected search to be persisted with an ID")
		}
		if search.DurationDays == nil || *search.DurationDays != 7 {
			t.Errorf("DurationDays = %v, expected 7", search.DurationDays)
		}
		if search.SearchStatus != "completed" {
			t.Errorf("SearchStatus = %q, expected %q", search.SearchStatus, "completed")
		}
	})

	t.Run("price is optional", func(t *testing.T) {
		search, err := service.LogSearch(&LogSearchRequest{
			Origin:        "Mumbai",
			Destination:   "Dubai",
			DepartureDate: "2025-07-10",
			ReturnDate:    "2025-07-12",
		})
		if err != nil {
			t.Fatalf("LogSearch() error = %v", err)
		}
		if search.EstimatedPrice != nil {
			t.Error("expected nil estimated price when omitted")
		}
	})

	t.Run("invalid dates rejected", func(t *testing.T) {
		_, err := service.LogSearch(&LogSearchRequest{
			Origin:        "Delhi",
			Destination:   "Paris",
			DepartureDate: "2025-07-10",
			ReturnDate:    "2025-07-05",
		})
		if err == nil {
			t.Error("expected error when return date precedes departure")
		}
	})
}

func TestWeeklyGrowthRate(t *testing.T) {
	now := time.Now()

	t.Run("empty database", func(t *testing.T) {
		db := newTestDB(t, &models.FlightSearch{})
		service := NewSearchService(db)

		rate, err := service.WeeklyGrowthRate(now)
		if err != nil {
			t.Fatalf("WeeklyGrowthRate() error = %v", err)
		}
		if rate != 0 {
			t.Errorf("rate = %v, expected 0", rate)
		}
	})

	t.Run("quiet previous week", func(t *testing.T) {
		db := newTestDB(t, &models.FlightSearch{})
		service := NewSearchService(db)

		seedSearchAt(t, db, now.AddDate(0, 0, -1))
		seedSearchAt(t, db, now.AddDate(0, 0, -2))

		rate, err := service.WeeklyGrowthRate(now)
		if err != nil {
			t.Fatalf("WeeklyGrowthRate() error = %v", err)
		}
		if rate != 0 {
			t.Errorf("rate = %v, expected 0 when previous week had no searches", rate)
		}
	})

	t.Run("doubled week over week", func(t *testing.T) {
		db := newTestDB(t, &models.FlightSearch{})
		service := NewSearchService(db)

		seedSearchAt(t, db, now.AddDate(0, 0, -10))
		seedSearchAt(t, db, now.AddDate(0, 0, -1))
		seedSearchAt(t, db, now.AddDate(0, 0, -2))

		rate, err := service.WeeklyGrowthRate(now)
		if err != nil {
			t.Fatalf("WeeklyGrowthRate() error = %v", err)
		}
		if rate != 100 {
			t.Errorf("rate = %v, expected 100", rate)
		}
	})
}

// seedSearchAt inserts a minimal search row with an explicit creation
// time. GORM keeps a caller-supplied CreatedAt instead of overwriting it.
func seedSearchAt(t *testing.T, db *gorm.DB, createdAt time.Time) {
	t.Helper()
	search := models.FlightSearch{
		Origin:        "Delhi",
		Destination:   "Singapore",
		DepartureDate: createdAt.AddDate(0, 0, 14).Format("2006-01-02"),
		ReturnDate:    createdAt.AddDate(0, 0, 21).Format("2006-01-02"),
		SearchStatus:  "completed",
		CreatedAt:     createdAt,
	}
	if err := db.Create(&search).Error; err != nil {
		t.Fatalf("seed search: %v", err)
	}
}

func seedSearchRow(t *testing.T, db *gorm.DB, search models.FlightSearch) {
	t.Helper()
	if search.SearchStatus == "" {
		search.SearchStatus = "completed"
	}
	if err := db.Create(&search).Error; err != nil {
		t.Fatalf("seed search row: %v", err)
	}
}

func intPtr(n int) *int { return &n }

func TestAverageTripDuration(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	avg, err := service.AverageTripDuration()
	if err != nil {
		t.Fatalf("AverageTripDuration() error = %v", err)
	}
	if avg != 0 {
		t.Errorf("avg = %v, expected 0 for empty table", avg)
	}

	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "London",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-05",
		DurationDays: intPtr(4),
	})
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Mumbai", Destination: "London",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-07",
		DurationDays: intPtr(6),
	})
	// Legacy row without a duration must not drag the average down.
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "Dubai",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-02",
	})

	avg, err = service.AverageTripDuration()
	if err != nil {
		t.Fatalf("AverageTripDuration() error = %v", err)
	}
	if avg != 5 {
		t.Errorf("avg = %v, expected 5", avg)
	}
}

func TestDistributionsExcludeEmpty(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "Tokyo",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
		BudgetPreference: "economy", FlightClass: "Economy",
	})
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "Tokyo",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
		BudgetPreference: "economy",
	})
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Mumbai", Destination: "Paris",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
	})

	budgets, err := service.BudgetDistribution()
	if err != nil {
		t.Fatalf("BudgetDistribution() error = %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("len(budgets) = %d, expected 1 (empty values excluded)", len(budgets))
	}
	if budgets[0].Value != "economy" || budgets[0].Count != 2 {
		t.Errorf("budgets[0] = %+v, expected economy/2", budgets[0])
	}

	popular, err := service.PopularBudget()
	if err != nil {
		t.Fatalf("PopularBudget() error = %v", err)
	}
	if popular.Value != "economy" {
		t.Errorf("PopularBudget = %+v, expected economy", popular)
	}

	classes, err := service.ClassDistribution()
	if err != nil {
		t.Fatalf("ClassDistribution() error = %v", err)
	}
	if len(classes) != 1 {
		t.Errorf("len(classes) = %d, expected 1", len(classes))
	}
}

func TestTopDestinations(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	for i := 0; i < 3; i++ {
		seedSearchRow(t, db, models.FlightSearch{
			Origin: "Delhi", Destination: "Tokyo",
			DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
		})
	}
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Delhi", Destination: "Paris",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
	})

	top, err := service.TopDestinations(10)
	if err != nil {
		t.Fatalf("TopDestinations() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len(top) = %d, expected 2", len(top))
	}
	if top[0].Value != "Tokyo" || top[0].Count != 3 {
		t.Errorf("top[0] = %+v, expected Tokyo/3", top[0])
	}

	limited, err := service.TopDestinations(1)
	if err != nil {
		t.Fatalf("TopDestinations() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, expected 1", len(limited))
	}
}

func TestSearchList(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	now := time.Now()
	seedSearchAt(t, db, now.AddDate(0, 0, -1))
	seedSearchAt(t, db, now.AddDate(0, 0, -2))
	seedSearchRow(t, db, models.FlightSearch{
		Origin: "Mumbai", Destination: "London",
		DepartureDate: "2025-07-01", ReturnDate: "2025-07-08",
	})

	t.Run("defaults", func(t *testing.T) {
		result, err := service.List(&SearchListRequest{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 3 {
			t.Errorf("Total = %d, expected 3", result.Total)
		}
		if result.Page != 1 || result.PageSize != 20 {
			t.Errorf("Page/PageSize = %d/%d, expected 1/20", result.Page, result.PageSize)
		}
	})

	t.Run("filter by destination", func(t *testing.T) {
		result, err := service.List(&SearchListRequest{Destination: "London"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 1 {
			t.Errorf("Total = %d, expected 1", result.Total)
		}
	})

	t.Run("filter by origin", func(t *testing.T) {
		result, err := service.List(&SearchListRequest{Origin: "Delhi"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, expected 2", result.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := service.List(&SearchListRequest{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(result.Items) != 1 {
			t.Errorf("len(Items) = %d, expected 1", len(result.Items))
		}
	})
}

func TestFlightAnalytics(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{})
	service := NewSearchService(db)

	createdAt := time.Date(time.Now().Year(), time.Now().Month(), 1, 9, 30, 0, 0, time.UTC)
	seedSearchAt(t, db, createdAt)

	result, err := service.Analytics(&FlightAnalyticsRequest{Days: 60})
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total = %d, expected 1", result.Total)
	}
	if len(result.Items) != 1 {
		t.Fatalf("len(Items) = %d, expected 1", len(result.Items))
	}

	row := result.Items[0]
	if row.SearchDate != createdAt.Format("2006-01-02") {
		t.Errorf("SearchDate = %q, expected %q", row.SearchDate, createdAt.Format("2006-01-02"))
	}
	if row.SearchMonth != createdAt.Format("2006-01") {
		t.Errorf("SearchMonth = %q, expected %q", row.SearchMonth, createdAt.Format("2006-01"))
	}
	if row.DayOfWeek != int(createdAt.Weekday()) {
		t.Errorf("DayOfWeek = %d, expected %d", row.DayOfWeek, int(createdAt.Weekday()))
	}
	if row.HourOfDay != 9 {
		t.Errorf("HourOfDay = %d, expected 9", row.HourOfDay)
	}

	if result.Days != 60 {
		t.Errorf("Days = %d, expected 60", result.Days)
	}
}
