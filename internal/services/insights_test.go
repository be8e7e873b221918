package services

import (
	"context"
	"strings"
	"testing"

	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/internal/models"
)

func TestInsightsDisabledWithoutKey(t *testing.T) {
	db := newTestDB(t, &models.FlightSearch{}, &models.Contact{})
	service := NewInsightsService(db, &config.OpenAIConfig{})

	if service.Enabled() {
		t.Error("Enabled() = true without an API key")
	}
	if _, err := service.GenerateBriefing(context.Background()); err != ErrInsightsDisabled {
		t.Errorf("GenerateBriefing() error = %v, expected ErrInsightsDisabled", err)
	}
}

func TestBuildInsightsPrompt(t *testing.T) {
	stats := &SummaryStats{
		TotalSearches:   42,
		TotalContacts:   7,
		Searches24h:     3,
		Searches7d:      12,
		AvgTripDuration: 6.5,
		WeeklyGrowthPct: 25.0,
		PopularBudget:   ValueCount{Value: "economy", Count: 20},
		TopDestinations: []ValueCount{{Value: "Tokyo", Count: 10}, {Value: "Bali", Count: 4}},
	}

	prompt := buildInsightsPrompt(stats)

	for _, want := range []string{
		"Total flight searches: 42",
		"Total CRM contacts: 7",
		"Week-over-week growth: 25.0%",
		"Average trip duration: 6.5 days",
		"Most popular budget preference: economy",
		"Tokyo (10), Bali (4)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildInsightsPromptOmitsEmptySections(t *testing.T) {
	prompt := buildInsightsPrompt(&SummaryStats{})

	for _, absent := range []string{"Average trip duration", "Most popular", "Top destinations"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt should omit %q when there is no data:\n%s", absent, prompt)
		}
	}
	if !strings.Contains(prompt, "Total flight searches: 0") {
		t.Errorf("prompt should always carry the totals:\n%s", prompt)
	}
}
