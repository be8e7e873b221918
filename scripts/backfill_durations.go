package main

import (
	"fmt"
	"os"
	"time"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// FlightSearch rows written before duration derivation landed have a
// NULL duration_days. This recomputes it from the stored dates.
type FlightSearch struct {
	ID            uint   `gorm:"primaryKey"`
	DepartureDate string `gorm:"size:10"`
	ReturnDate    string `gorm:"size:10"`
	DurationDays  *int
}

func (FlightSearch) TableName() string { return "flight_searches" }

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	var searches []FlightSearch
	if err := db.Where("duration_days IS NULL").Order("id").Find(&searches).Error; err != nil {
		fmt.Printf("Failed to read searches: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d searches without duration_days:\n\n", len(searches))

	type fix struct {
		id   uint
		days int
	}
	var fixes []fix
	skipped := 0

	for _, s := range searches {
		dep, depErr := time.Parse("2006-01-02", s.DepartureDate)
		ret, retErr := time.Parse("2006-01-02", s.ReturnDate)
		if depErr != nil || retErr != nil || ret.Before(dep) {
			fmt.Printf("Skipping ID %d: unusable dates %q - %q\n", s.ID, s.DepartureDate, s.ReturnDate)
			skipped++
			continue
		}
		days := int(ret.Sub(dep).Hours() / 24)
		fixes = append(fixes, fix{id: s.ID, days: days})
	}

	fmt.Printf("\n%d rows fixable, %d skipped\n", len(fixes), skipped)

	if len(os.Args) > 1 && os.Args[1] == "--update" {
		fmt.Println("\n>>> Backfilling duration_days...")

		updated := 0
		for _, f := range fixes {
			if err := db.Model(&FlightSearch{}).Where("id = ?", f.id).Update("duration_days", f.days).Error; err != nil {
				fmt.Printf("Failed to update search %d: %v\n", f.id, err)
				continue
			}
			updated++
		}

		fmt.Printf("\n>>> Done! Updated %d rows.\n", updated)
	} else {
		fmt.Println("\nDry run. To apply, run: go run scripts/backfill_durations.go --update")
	}
}
