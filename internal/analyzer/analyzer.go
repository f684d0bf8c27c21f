// File: internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/archeblow/riskcore/internal/explorer"
	"github.com/archeblow/riskcore/internal/intel"
	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/internal/risk"
	"github.com/archeblow/riskcore/pkg/utils"
)

// Analyzer coordinates explorer and intelligence sources to produce an
// address assessment. It is stateless across calls: it holds only its
// configured client list and risk model.
type Analyzer struct {
	explorers []explorer.Client
	sources   []intel.Source
	model     *risk.Model
	logger    *logrus.Entry
}

// Option customizes an Analyzer
type Option func(*Analyzer)

// WithRiskModel overrides the default risk model
func WithRiskModel(model *risk.Model) Option {
	return func(a *Analyzer) {
		a.model = model
	}
}

// New creates an Analyzer. At least one explorer client is required; the
// check happens here so misconfiguration fails at construction time, not at
// call time.
func New(explorers []explorer.Client, sources []intel.Source, opts ...Option) (*Analyzer, error) {
	if len(explorers) == 0 {
		return nil, utils.NewAppError(utils.ErrCodeConfiguration, "At least one explorer client is required", "")
	}
	analyzer := &Analyzer{
		explorers: explorers,
		sources:   sources,
		model:     risk.NewModel(nil),
		logger:    utils.ComponentLogger("analyzer"),
	}
	for _, opt := range opts {
		opt(analyzer)
	}
	return analyzer, nil
}

// Analyze assesses one address on one network. Explorer failures propagate
// uncaught: no retry, no automatic fallback to a secondary provider.
// Intelligence sources are queried concurrently with per-source failure
// isolation.
func (a *Analyzer) Analyze(ctx context.Context, address string, network models.Network) (*models.AddressAnalysisResult, error) {
	client, err := a.ExplorerFor(network)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"address":  utils.ShortAddress(address),
		"network":  network.String(),
		"provider": client.ServiceID(),
	}).Debug("Fetching transaction hops")

	hops, err := client.FetchTransactionHops(ctx, address)
	if err != nil {
		return nil, err
	}

	mixers := a.gatherMixerMatches(ctx, address, hops)
	score, notes := a.model.Evaluate(mixers, hops)
	level := models.RiskLevelFromScore(score)

	sources := []string{client.ServiceName()}
	for _, source := range a.sources {
		sources = append(sources, source.ServiceName())
	}

	return &models.AddressAnalysisResult{
		Address:   address,
		Network:   network,
		RiskScore: score,
		RiskLevel: level,
		Hops:      hops,
		Mixers:    mixers,
		Notes:     notes,
		Sources:   dedupe(sources),
	}, nil
}

// ExplorerFor returns the first configured client covering the network.
// Callers use it to attribute provider outcomes to the right service id.
func (a *Analyzer) ExplorerFor(network models.Network) (explorer.Client, error) {
	for _, client := range a.explorers {
		if client.Network() == network {
			return client, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrCodeNotFound, "No explorer client registered for network", network.String())
}

// gatherMixerMatches fans out to every intelligence source concurrently. A
// source that fails contributes nothing and does not abort its siblings or
// the overall analysis; surviving results are concatenated in source order.
func (a *Analyzer) gatherMixerMatches(ctx context.Context, address string, hops []models.TransactionHop) []models.MixerMatch {
	if len(a.sources) == 0 {
		return nil
	}

	results := make([][]models.MixerMatch, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source intel.Source) {
			defer wg.Done()
			matches, err := source.DetectMixers(ctx, address, hops)
			if err != nil {
				a.logger.WithFields(logrus.Fields{
					"source":  source.ServiceID(),
					"address": utils.ShortAddress(address),
				}).WithError(err).Warn("Mixer intelligence source failed")
				return
			}
			results[i] = matches
		}(i, source)
	}
	wg.Wait()

	var matches []models.MixerMatch
	for _, result := range results {
		matches = append(matches, result...)
	}
	return matches
}

// dedupe removes duplicate display names while preserving first-seen order
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
