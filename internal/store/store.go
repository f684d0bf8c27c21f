// File: internal/store/store.go
package store

import (
	"sync"

	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/pkg/utils"
)

// AnalysisStore keeps completed analyses in memory and exposes derived
// aggregates. State is process-lifetime only.
type AnalysisStore struct {
	mu      sync.RWMutex
	results []*models.AddressAnalysisResult
	subs    []func(*models.AddressAnalysisResult)
}

// NewAnalysisStore creates an empty store
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{}
}

// OnResult registers a subscriber invoked for every stored result
func (s *AnalysisStore) OnResult(fn func(*models.AddressAnalysisResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Add stores a result and notifies subscribers
func (s *AnalysisStore) Add(result *models.AddressAnalysisResult) {
	s.mu.Lock()
	s.results = append(s.results, result)
	subs := append([]func(*models.AddressAnalysisResult){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(result)
	}
}

// Results returns a copy of all stored analyses
func (s *AnalysisStore) Results() []*models.AddressAnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.AddressAnalysisResult{}, s.results...)
}

// Metrics returns headline counts for dashboard-style consumers. The "high"
// bucket includes critical results.
func (s *AnalysisStore) Metrics() map[string]int {
	distribution := s.RiskDistribution()
	return map[string]int{
		"total":    distribution[string(models.RiskLevelCritical)] + distribution[string(models.RiskLevelHigh)] + distribution[string(models.RiskLevelModerate)] + distribution[string(models.RiskLevelLow)],
		"critical": distribution[string(models.RiskLevelCritical)],
		"high":     distribution[string(models.RiskLevelHigh)] + distribution[string(models.RiskLevelCritical)],
		"moderate": distribution[string(models.RiskLevelModerate)],
		"low":      distribution[string(models.RiskLevelLow)],
	}
}

// RiskDistribution returns the count of analyses per risk level
func (s *AnalysisStore) RiskDistribution() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	distribution := map[string]int{
		string(models.RiskLevelCritical): 0,
		string(models.RiskLevelHigh):     0,
		string(models.RiskLevelModerate): 0,
		string(models.RiskLevelLow):      0,
	}
	for _, result := range s.results {
		if _, ok := distribution[string(result.RiskLevel)]; ok {
			distribution[string(result.RiskLevel)]++
		}
	}
	return distribution
}

// RecentTransactions returns the latest hops directly related to analyzed
// addresses, newest analyses first. Hops that do not touch the analyzed
// address are skipped.
func (s *AnalysisStore) RecentTransactions(limit int) []models.TransactionDigest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.TransactionDigest
	for i := len(s.results) - 1; i >= 0; i-- {
		result := s.results[i]
		target := utils.NormalizeAddress(result.Address)
		// Hops are already newest first from the explorer boundary
		for _, hop := range result.Hops {
			direction, counterpart := classifyDirection(target, hop)
			if direction == "" {
				continue
			}
			txHash := hop.TxHash
			if txHash == "" {
				txHash = "—"
			}
			records = append(records, models.TransactionDigest{
				AnalysisAddress: result.Address,
				Network:         result.Network,
				TxHash:          txHash,
				Direction:       direction,
				Counterpart:     counterpart,
				Amount:          hop.Amount,
				Timestamp:       hop.Timestamp,
			})
			if len(records) >= limit {
				return records
			}
		}
	}
	return records
}

// RecentNotes returns the latest risk notes across analyses, newest first
func (s *AnalysisStore) RecentNotes(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []string
	for i := len(s.results) - 1; i >= 0; i-- {
		result := s.results[i]
		for _, note := range result.Notes {
			notes = append(notes, result.Address+": "+note)
			if len(notes) >= limit {
				return notes
			}
		}
	}
	return notes
}

// Digest directions
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// classifyDirection determines fund direction relative to the analyzed
// target address
func classifyDirection(target string, hop models.TransactionHop) (string, string) {
	if utils.NormalizeAddress(hop.FromAddress) == target {
		counterpart := hop.ToAddress
		if counterpart == "" {
			counterpart = "—"
		}
		return DirectionOutgoing, counterpart
	}
	if utils.NormalizeAddress(hop.ToAddress) == target {
		counterpart := hop.FromAddress
		if counterpart == "" {
			counterpart = "—"
		}
		return DirectionIncoming, counterpart
	}
	return "", ""
}
