// Package model provides data transfer objects for the trending module.
package model

import promptModel "github.com/promptstash/promptstash/internal/prompt/model"

// RankedPrompt is a prompt with its fast-rising score attached.
type RankedPrompt struct {
	Prompt promptModel.Prompt `json:"prompt"`
	Score  float64            `json:"score"`
}

// TrendingResponse represents one ordered trending list.
type TrendingResponse struct {
	Prompts []promptModel.Prompt `json:"prompts"`
	Total   int                  `json:"total"`
}

// FastRisingResponse represents the fast-rising list with scores.
type FastRisingResponse struct {
	Prompts []RankedPrompt `json:"prompts"`
	Total   int            `json:"total"`
}

// OverviewResponse combines the three trending lists at a fixed limit.
type OverviewResponse struct {
	MostFavorited []promptModel.Prompt `json:"most_favorited"`
	FastRising    []RankedPrompt       `json:"fast_rising"`
	Newest        []promptModel.Prompt `json:"newest"`
}
