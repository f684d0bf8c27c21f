package models

// AnalystRecommendation represents a concrete follow-up step suggested by the
// artificial analyst.
type AnalystRecommendation struct {
	Title     string   `json:"title"`
	Priority  string   `json:"priority"`
	Rationale string   `json:"rationale"`
	Actions   []string `json:"actions"`
}

// Recommendation priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// AnalystBriefing is the structured explanation generated for a completed
// analysis. It is a pure derivation of one AddressAnalysisResult plus a clock
// reading.
type AnalystBriefing struct {
	Address         string                  `json:"address"`
	Network         Network                 `json:"network"`
	GeneratedAt     int64                   `json:"generated_at"`
	Summary         string                  `json:"summary"`
	Confidence      float64                 `json:"confidence"`
	RiskLevel       RiskLevel               `json:"risk_level"`
	Highlights      []string                `json:"highlights"`
	Recommendations []AnalystRecommendation `json:"recommendations"`
	Alerts          []string                `json:"alerts"`
}
