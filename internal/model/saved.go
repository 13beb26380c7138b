package model

import "time"

// SavedItemType distinguishes stored artifact kinds.
type SavedItemType string

const (
	SavedBusinessPlan  SavedItemType = "business-plan"
	SavedQuestionnaire SavedItemType = "questionnaire"
)

// SavedItem is a persisted generation result. Business plans carry
// Content (and optionally a financial model and competitor analysis);
// questionnaires carry Questions.
type SavedItem struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Type           SavedItemType       `json:"type"`
	Elements       BusinessElements    `json:"elements"`
	Content        string              `json:"content,omitempty"`
	Questions      []Question          `json:"questions,omitempty"`
	FinancialModel *FinancialModel     `json:"financialModel,omitempty"`
	CompetitorData *CompetitorAnalysis `json:"competitorData,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}
