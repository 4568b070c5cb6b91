package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/config"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/pkg/tabular"
	"github.com/ougirez/injuries/internal/service/aggregation"
	"github.com/ougirez/injuries/internal/service/loader"
	"github.com/ougirez/injuries/internal/service/merger"
	"github.com/ougirez/injuries/internal/service/profiles"
	"golang.org/x/sync/errgroup"
)

// Products is everything one run derives from the tracked years.
type Products struct {
	RunID string
	Years []domain.Year

	Cleaned  map[domain.Year][]*domain.EstablishmentYearRecord
	Reports  map[domain.Year]*loader.Report
	Failures map[domain.Year]error

	Unified  []*domain.EstablishmentYearRecord
	Profiles profiles.Profiles
	Filtered profiles.Profiles

	StateMetrics    []*domain.KeyYearMetric
	IndustryMetrics []*domain.KeyYearMetric
}

// Loaded lists the years that produced a cleaned set, ascending.
func (p *Products) Loaded() []domain.Year {
	years := make([]domain.Year, 0, len(p.Cleaned))
	for y := range p.Cleaned {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Snapshot exposes the products to the read-only store.
func (p *Products) Snapshot() *store.Snapshot {
	return &store.Snapshot{
		RunID:           p.RunID,
		Years:           p.Years,
		Cleaned:         p.Cleaned,
		Unified:         p.Unified,
		Profiles:        p.Profiles,
		Filtered:        p.Filtered,
		StateMetrics:    p.StateMetrics,
		IndustryMetrics: p.IndustryMetrics,
	}
}

// SourceFunc opens the source for one year.
type SourceFunc func(year domain.Year) loader.Source

type Service struct {
	cfg       *config.Config
	cache     *loader.Cache
	sourceFor SourceFunc
}

func NewPipelineService(cfg *config.Config, cache *loader.Cache) *Service {
	return &Service{
		cfg:   cfg,
		cache: cache,
		sourceFor: func(year domain.Year) loader.Source {
			return tabular.FileSource{Path: cfg.SourcePath(year), Encodings: cfg.Data.Encodings}
		},
	}
}

// WithSources replaces the file sources, used to run over in-memory tables.
func (s *Service) WithSources(fn SourceFunc) *Service {
	s.sourceFor = fn
	return s
}

// Clean loads every tracked year in parallel. A year that fails is recorded in
// Failures and does not stop the others.
func (s *Service) Clean(ctx context.Context) (*Products, error) {
	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, "run_id", runID)

	p := &Products{
		RunID:    runID,
		Years:    s.cfg.TrackedYears(),
		Cleaned:  make(map[domain.Year][]*domain.EstablishmentYearRecord),
		Reports:  make(map[domain.Year]*loader.Report),
		Failures: make(map[domain.Year]error),
	}

	mx := sync.Mutex{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Pipeline.Workers)

	for _, year := range p.Years {
		year := year
		eg.Go(func() error {
			records, report, err := s.cache.Load(egCtx, s.sourceFor(year), year)

			mx.Lock()
			defer mx.Unlock()
			if err != nil {
				logger.Warn(egCtx, "year skipped", "year", year, "error", err.Error())
				p.Failures[year] = err
				return nil
			}
			p.Cleaned[year] = records
			p.Reports[year] = report
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("eg.Wait: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.Cleaned) == 0 {
		errs := make([]error, 0, len(p.Failures))
		for _, y := range p.Years {
			errs = append(errs, p.Failures[y])
		}
		return p, fmt.Errorf("no year loaded: %w", errors.Join(append(errs, constants.ErrSourceUnavailable)...))
	}

	logger.Infof(ctx, "cleaned %d of %d years", len(p.Cleaned), len(p.Years))
	return p, nil
}

// Run cleans the tracked years, merges them and computes every aggregate.
func (s *Service) Run(ctx context.Context) (*Products, error) {
	p, err := s.Clean(ctx)
	if err != nil {
		return p, err
	}

	Aggregate(p, s.cfg.Profiles.MinYearsPresent)

	logger.Info(logger.WithFields(ctx, "run_id", p.RunID), "pipeline finished",
		"records", len(p.Unified),
		"establishments", len(p.Profiles),
		"filtered_establishments", len(p.Filtered),
		"failed_years", len(p.Failures),
	)
	return p, nil
}

// Aggregate fills the merged and aggregated products from p.Cleaned.
func Aggregate(p *Products, minYearsPresent int) {
	p.Unified = merger.Merge(p.Cleaned)
	p.Profiles = profiles.Build(p.Unified, p.Years)
	p.Filtered = profiles.FilterSparse(p.Profiles, minYearsPresent)
	p.StateMetrics = aggregation.ByKeyYear(p.Unified, aggregation.StateKey)
	p.IndustryMetrics = aggregation.ByKeyYear(p.Unified, aggregation.IndustryKey)
}
