package models

// TransactionHop represents a single observed movement of funds between two
// addresses within a transaction. Amounts are expressed in the network's
// native display unit. Immutable once constructed.
type TransactionHop struct {
	TxHash      string                 `json:"tx_hash"`
	FromAddress string                 `json:"from_address"`
	ToAddress   string                 `json:"to_address"`
	Amount      float64                `json:"amount"`
	Timestamp   int64                  `json:"timestamp"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// MixerMatch describes a detected association with a known mixing service
type MixerMatch struct {
	MixerName  string                 `json:"mixer_name"`
	Confidence float64                `json:"confidence"`
	Evidence   map[string]interface{} `json:"evidence,omitempty"`
}

// RiskLevel is a four-tier categorical bucketing of the numeric risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskLevelFromScore derives the categorical risk level from a numeric score.
// The thresholds are fixed so that scores remain auditable across releases.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= 0.75:
		return RiskLevelCritical
	case score >= 0.5:
		return RiskLevelHigh
	case score >= 0.25:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// AddressAnalysisResult aggregates every check performed for a wallet address.
// Created once per analysis and owned by the caller thereafter.
type AddressAnalysisResult struct {
	Address   string           `json:"address"`
	Network   Network          `json:"network"`
	RiskScore float64          `json:"risk_score"`
	RiskLevel RiskLevel        `json:"risk_level"`
	Hops      []TransactionHop `json:"hops"`
	Mixers    []MixerMatch     `json:"mixers"`
	Notes     []string         `json:"notes"`
	Sources   []string         `json:"sources"`
}

// TransactionDigest is a compact representation of one hop relative to the
// analyzed address, used for dashboard-style listings.
type TransactionDigest struct {
	AnalysisAddress string  `json:"analysis_address"`
	Network         Network `json:"network"`
	TxHash          string  `json:"tx_hash"`
	Direction       string  `json:"direction"`
	Counterpart     string  `json:"counterpart"`
	Amount          float64 `json:"amount"`
	Timestamp       int64   `json:"timestamp"`
}
