package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type FlightSearch struct {
	ID               uint   `gorm:"primaryKey"`
	Origin           string `gorm:"size:120"`
	Destination      string `gorm:"size:120"`
	BudgetPreference string `gorm:"size:50"`
}

func (FlightSearch) TableName() string {
	return "flight_searches"
}

// The public site renamed its budget tiers; older rows still carry the
// original labels, which splits the budget-distribution chart.
var renames = map[string]string{
	"cheap":    "budget",
	"mid":      "moderate",
	"expenses": "luxury",
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=roamgenie password=roamgenie dbname=roamgenie port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("Connected to database successfully!")
	fmt.Println("")

	// Show samples before update
	var sampleSearches []FlightSearch
	if err := db.Where("budget_preference IN ?", keys(renames)).Limit(10).Find(&sampleSearches).Error; err != nil {
		log.Fatalf("Failed to query searches: %v", err)
	}

	fmt.Println("Sample searches with legacy labels (showing first 10):")
	fmt.Printf("%-8s %-25s %-25s %-15s\n", "ID", "Origin", "Destination", "Budget")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, s := range sampleSearches {
		fmt.Printf("%-8d %-25s %-25s %-15s\n", s.ID, s.Origin, s.Destination, s.BudgetPreference)
	}
	fmt.Println("")

	var totalCount int64
	db.Model(&FlightSearch{}).Where("budget_preference IN ?", keys(renames)).Count(&totalCount)
	fmt.Printf("Total searches to update: %d\n", totalCount)
	fmt.Println("")

	var updated int64
	for oldLabel, newLabel := range renames {
		result := db.Model(&FlightSearch{}).
			Where("budget_preference = ?", oldLabel).
			Update("budget_preference", newLabel)
		if result.Error != nil {
			log.Fatalf("Failed to update %q rows: %v", oldLabel, result.Error)
		}
		if result.RowsAffected > 0 {
			fmt.Printf("Renamed %q -> %q: %d rows\n", oldLabel, newLabel, result.RowsAffected)
		}
		updated += result.RowsAffected
	}

	fmt.Println("")
	fmt.Printf("✅ Successfully updated %d searches!\n", updated)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
