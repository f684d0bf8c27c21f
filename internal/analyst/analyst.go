// File: internal/analyst/analyst.go
package analyst

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/archeblow/riskcore/internal/models"
)

// Analyst provides explainable insights on top of an AddressAnalysisResult.
// The implementation is deliberately deterministic: conclusions derive from
// the heuristics already collected during risk evaluation, which keeps the
// behaviour auditable and the module free of ML dependencies.
type Analyst struct {
	now func() int64
}

// Option customizes an Analyst
type Option func(*Analyst)

// WithClock injects the time source, mainly for tests
func WithClock(now func() int64) Option {
	return func(a *Analyst) {
		a.now = now
	}
}

// New creates an Analyst with the real UTC clock unless overridden
func New(opts ...Option) *Analyst {
	analyst := &Analyst{
		now: func() int64 { return time.Now().UTC().Unix() },
	}
	for _, opt := range opts {
		opt(analyst)
	}
	return analyst
}

// GenerateBriefing returns a briefing that summarises the supplied result.
// Pure given the injected clock.
func (a *Analyst) GenerateBriefing(result *models.AddressAnalysisResult) *models.AnalystBriefing {
	hops := result.Hops
	mixers := result.Mixers

	totalVolume := 0.0
	for _, hop := range hops {
		totalVolume += math.Abs(hop.Amount)
	}

	counterparties := collectCounterparties(result.Address, hops)

	var lastActivity int64
	for _, hop := range hops {
		if hop.Timestamp > lastActivity {
			lastActivity = hop.Timestamp
		}
	}
	ageHours := -1.0
	if lastActivity > 0 {
		ageHours = a.hoursSince(lastActivity)
	}
	recentWindow := ageHours >= 0 && ageHours <= 24

	return &models.AnalystBriefing{
		Address:         result.Address,
		Network:         result.Network,
		GeneratedAt:     a.now(),
		Summary:         buildSummary(result, len(hops), totalVolume, recentWindow),
		Confidence:      estimateConfidence(len(hops), len(mixers) > 0, recentWindow),
		RiskLevel:       result.RiskLevel,
		Highlights:      buildHighlights(result, counterparties, totalVolume, ageHours),
		Recommendations: buildRecommendations(result, recentWindow, totalVolume, counterparties),
		Alerts:          buildAlerts(result, recentWindow),
	}
}

func buildSummary(result *models.AddressAnalysisResult, hopCount int, totalVolume float64, recentWindow bool) string {
	parts := []string{
		fmt.Sprintf("Analysis of address %s on %s complete", result.Address, result.Network.DisplayName()),
		fmt.Sprintf("risk level assessed as %s (%.2f)", result.RiskLevel, result.RiskScore),
	}
	if hopCount > 0 {
		parts = append(parts, fmt.Sprintf("transactions analyzed: %d", hopCount))
	}
	if totalVolume > 0 {
		parts = append(parts, fmt.Sprintf("total observed volume: %.4f", totalVolume))
	}
	if recentWindow {
		parts = append(parts, "fresh activity detected within the last 24 hours")
	}
	return strings.Join(parts, ", ") + "."
}

func buildHighlights(result *models.AddressAnalysisResult, counterparties []string, totalVolume float64, ageHours float64) []string {
	var highlights []string
	if len(result.Mixers) > 0 {
		names := make(map[string]struct{})
		for _, match := range result.Mixers {
			names[match.MixerName] = struct{}{}
		}
		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)
		highlights = append(highlights, "Mixer associations detected: "+strings.Join(sorted, ", "))
	}
	highlights = append(highlights, result.Notes...)
	if totalVolume > 0 {
		highlights = append(highlights, fmt.Sprintf("Estimated wallet volume: %.4f", totalVolume))
	}
	if len(counterparties) >= 10 {
		highlights = append(highlights, fmt.Sprintf("High network interaction: %d unique counterparties observed", len(counterparties)))
	}
	if ageHours >= 0 {
		highlights = append(highlights, fmt.Sprintf("Last activity %.1f hours ago", ageHours))
	}
	return highlights
}

// buildRecommendations evaluates the recommendation rules in a fixed order;
// more than one may apply. Exactly one base-tier recommendation is keyed by
// the risk level.
func buildRecommendations(result *models.AddressAnalysisResult, recentWindow bool, totalVolume float64, counterparties []string) []models.AnalystRecommendation {
	var recs []models.AnalystRecommendation

	switch result.RiskLevel {
	case models.RiskLevelCritical, models.RiskLevelHigh:
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Immediate containment measures",
			Priority:  models.PriorityHigh,
			Rationale: "Elevated risk identified by the primary analysis.",
			Actions: []string{
				"Block related operations until a manual review completes",
				"Open an incident in the compliance monitoring system",
			},
		})
	case models.RiskLevelModerate:
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Extended monitoring",
			Priority:  models.PriorityMedium,
			Rationale: "Moderate risk requires periodic review.",
			Actions: []string{
				"Add the address to the watchlist for 30 days",
				"Collect additional counterparty metadata",
			},
		})
	default:
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Routine review",
			Priority:  models.PriorityLow,
			Rationale: "No indicators of elevated risk were found.",
			Actions: []string{
				"Record the result and continue standard monitoring",
				"Refresh the customer profile data",
			},
		})
	}

	if len(result.Mixers) > 0 {
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Suspicious service review",
			Priority:  models.PriorityHigh,
			Rationale: "The system detected associations with mixing services.",
			Actions: []string{
				"Request additional proof of the origin of funds",
				"Escalate the case to the investigations team",
			},
		})
	}

	if recentWindow {
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Fresh activity monitoring",
			Priority:  models.PriorityMedium,
			Rationale: "Activity was observed within the last 24 hours.",
			Actions: []string{
				"Configure an alert for newly arriving transactions",
				"Reconcile incoming funds against legitimate sources",
			},
		})
	}

	if totalVolume >= 10 {
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Financial audit",
			Priority:  models.PriorityHigh,
			Rationale: "The wallet turned over more than 10 native units.",
			Actions: []string{
				"Gather information on the origin of the large amounts",
				"Reconcile operations against internal limits",
			},
		})
	}

	if len(counterparties) >= 15 {
		recs = append(recs, models.AnalystRecommendation{
			Title:     "Counterparty clustering",
			Priority:  models.PriorityMedium,
			Rationale: "A large number of unique senders/recipients was identified.",
			Actions: []string{
				"Cluster the addresses and isolate related groups",
				"Check overlaps with sanction lists",
			},
		})
	}

	return recs
}

// buildAlerts appends up to three independent short alerts in fixed order
func buildAlerts(result *models.AddressAnalysisResult, recentWindow bool) []string {
	var alerts []string
	if result.RiskLevel == models.RiskLevelCritical || result.RiskLevel == models.RiskLevelHigh {
		alerts = append(alerts, fmt.Sprintf("%s: immediate response required due to high risk level", result.Address))
	}
	if len(result.Mixers) > 0 {
		alerts = append(alerts, fmt.Sprintf("%s: mixer associations detected", result.Address))
	}
	if recentWindow {
		alerts = append(alerts, fmt.Sprintf("%s: fresh activity recorded, monitoring recommended", result.Address))
	}
	return alerts
}

func estimateConfidence(hopCount int, hasMixers, recentWindow bool) float64 {
	base := 0.25
	if hopCount >= 3 {
		base = 0.4
	}
	coverage := math.Min(0.45, float64(hopCount)*0.02)
	confidence := base + coverage
	if hasMixers {
		confidence += 0.1
	}
	if recentWindow {
		confidence += 0.05
	}
	return math.Min(1.0, confidence)
}

// collectCounterparties returns the sorted set of hop endpoints excluding the
// analyzed address (case-insensitive)
func collectCounterparties(address string, hops []models.TransactionHop) []string {
	normalized := strings.ToLower(address)
	parties := make(map[string]struct{})
	for _, hop := range hops {
		if hop.FromAddress != "" && strings.ToLower(hop.FromAddress) != normalized {
			parties[hop.FromAddress] = struct{}{}
		}
		if hop.ToAddress != "" && strings.ToLower(hop.ToAddress) != normalized {
			parties[hop.ToAddress] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(parties))
	for party := range parties {
		sorted = append(sorted, party)
	}
	sort.Strings(sorted)
	return sorted
}

func (a *Analyst) hoursSince(timestamp int64) float64 {
	delta := a.now() - timestamp
	if delta < 0 {
		delta = 0
	}
	return float64(delta) / 3600
}

// Playbook returns a human-readable description of the analyst workflow
func Playbook() string {
	return "The artificial analyst automatically interprets address check results. " +
		"It assesses the current risk level, surfaces the key facts (mixers, " +
		"activity, operation volume) and assembles a set of recommendations, from " +
		"urgent measures to scheduled monitoring. Use its conclusions as the " +
		"starting point for a manual investigation, record the recommended actions " +
		"and update incident statuses in your internal systems."
}
