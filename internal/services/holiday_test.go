package services

import (
	"testing"
	"time"
)

func TestHolidayService(t *testing.T) {
	service := NewHolidayService()

	christmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	ordinaryTuesday := time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		country string
		holiday bool
	}{
		{"christmas in the US", christmas, "US", true},
		{"christmas in the UK", christmas, "GB", true},
		{"ordinary tuesday", ordinaryTuesday, "US", false},
		{"weekend is not a holiday", saturday, "US", false},
		{"unknown market has no holidays", christmas, "XX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := service.IsHoliday(tt.date, tt.country); got != tt.holiday {
				t.Errorf("IsHoliday(%s, %s) = %v, expected %v",
					tt.date.Format("2006-01-02"), tt.country, got, tt.holiday)
			}
		})
	}

	t.Run("holiday name", func(t *testing.T) {
		name, ok := service.HolidayName(christmas, "US")
		if !ok {
			t.Fatal("HolidayName() ok = false, expected a holiday on Dec 25")
		}
		if name == "" {
			t.Error("HolidayName() returned empty name")
		}

		if _, ok := service.HolidayName(ordinaryTuesday, "US"); ok {
			t.Error("HolidayName() ok = true for an ordinary day")
		}
	})

	t.Run("workday fallback for unknown market", func(t *testing.T) {
		if !service.IsWorkday(ordinaryTuesday, "XX") {
			t.Error("IsWorkday(tuesday, XX) = false, expected weekday fallback true")
		}
		if service.IsWorkday(saturday, "XX") {
			t.Error("IsWorkday(saturday, XX) = true, expected false")
		}
	})

	t.Run("supported countries", func(t *testing.T) {
		countries := service.SupportedCountries()
		if len(countries) != 22 {
			t.Errorf("len(countries) = %d, expected 22", len(countries))
		}
		for _, c := range countries {
			if _, ok := service.calendars[c.Code]; !ok {
				t.Errorf("country %s listed but has no calendar", c.Code)
			}
		}
	})
}
