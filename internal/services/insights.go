package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/webisdom/roamgenie-admin/internal/config"
	"github.com/webisdom/roamgenie-admin/pkg/logger"
	"gorm.io/gorm"
)

var ErrInsightsDisabled = errors.New("insights are disabled: no API key configured")

// InsightsService turns the summary stats into a short natural-language
// briefing via any OpenAI-compatible chat endpoint. Without an API key
// the feature reports itself disabled instead of erroring per request.
type InsightsService struct {
	cfg       *config.OpenAIConfig
	analytics *AnalyticsService
}

func NewInsightsService(db *gorm.DB, cfg *config.OpenAIConfig) *InsightsService {
	return &InsightsService{
		cfg:       cfg,
		analytics: NewAnalyticsService(db, ""),
	}
}

func (s *InsightsService) Enabled() bool {
	return s.cfg.APIKey != ""
}

// GenerateBriefing asks the model for a short readout of the current
// dashboard numbers.
func (s *InsightsService) GenerateBriefing(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", ErrInsightsDisabled
	}

	stats, err := s.analytics.SummaryStats()
	if err != nil {
		return "", err
	}

	clientConfig := openai.DefaultConfig(s.cfg.APIKey)
	if s.cfg.BaseURL != "" {
		clientConfig.BaseURL = s.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	model := s.cfg.Model
	if model == "" {
		model = "gpt-4"
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are an analyst for a flight search product. Summarize the " +
					"dashboard numbers you are given in 3-5 short sentences for a " +
					"non-technical operations team. Mention notable trends and skip caveats.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildInsightsPrompt(stats),
			},
		},
		Temperature: float32(0.3),
	})
	if err != nil {
		logger.Error().Err(err).Msg("insights completion failed")
		return "", fmt.Errorf("insights API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from insights API")
	}

	return resp.Choices[0].Message.Content, nil
}

func buildInsightsPrompt(stats *SummaryStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total flight searches: %d\n", stats.TotalSearches)
	fmt.Fprintf(&b, "Total CRM contacts: %d\n", stats.TotalContacts)
	fmt.Fprintf(&b, "Searches in the last 24 hours: %d\n", stats.Searches24h)
	fmt.Fprintf(&b, "Searches in the last 7 days: %d\n", stats.Searches7d)
	fmt.Fprintf(&b, "Searches this month: %d\n", stats.SearchesThisMonth)
	fmt.Fprintf(&b, "Week-over-week growth: %.1f%%\n", stats.WeeklyGrowthPct)
	if stats.AvgTripDuration > 0 {
		fmt.Fprintf(&b, "Average trip duration: %.1f days\n", stats.AvgTripDuration)
	}
	if stats.PopularBudget.Value != "" {
		fmt.Fprintf(&b, "Most popular budget preference: %s\n", stats.PopularBudget.Value)
	}
	if stats.PopularClass.Value != "" {
		fmt.Fprintf(&b, "Most popular flight class: %s\n", stats.PopularClass.Value)
	}
	if len(stats.TopDestinations) > 0 {
		names := make([]string, 0, len(stats.TopDestinations))
		for _, d := range stats.TopDestinations {
			names = append(names, fmt.Sprintf("%s (%d)", d.Value, d.Count))
		}
		fmt.Fprintf(&b, "Top destinations: %s\n", strings.Join(names, ", "))
	}
	return b.String()
}
