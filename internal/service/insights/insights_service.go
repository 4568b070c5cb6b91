package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/metrics"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/service/aggregation"
	"github.com/ougirez/injuries/internal/service/profiles"
)

type Service struct {
	store                store.Store
	industryMinEmployees int64
}

func NewInsightsService(store store.Store, industryMinEmployees int64) *Service {
	return &Service{store: store, industryMinEmployees: industryMinEmployees}
}

// ListYears returns the source years that loaded successfully.
func (s *Service) ListYears(ctx context.Context) ([]domain.Year, error) {
	years, err := s.store.Years(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Years: %w", err)
	}
	return years, nil
}

type ListYearRecordsOpts struct {
	Year    domain.Year
	Search  *string
	MinRate *float64
	MaxRate *float64
	Limit   int
}

// ListYearRecords returns the cleaned records of one year with their injury rate.
// With a rate bound set, records without a defined rate are left out.
func (s *Service) ListYearRecords(ctx context.Context, opts ListYearRecordsOpts) ([]*domain.RatedRecord, error) {
	records, err := s.store.ListYearRecords(ctx, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("store.ListYearRecords: %w", err)
	}

	var term string
	if opts.Search != nil {
		term = strings.ToLower(*opts.Search)
	}

	out := make([]*domain.RatedRecord, 0)
	for _, r := range records {
		if term != "" && !strings.Contains(strings.ToLower(r.EstablishmentName), term) {
			continue
		}

		rate := metrics.Rate(float64(r.TotalInjuries), float64(r.AnnualAverageEmployees))
		if opts.MinRate != nil && (rate == nil || *rate < *opts.MinRate) {
			continue
		}
		if opts.MaxRate != nil && (rate == nil || *rate > *opts.MaxRate) {
			continue
		}

		out = append(out, &domain.RatedRecord{EstablishmentYearRecord: r, InjuryRate: rate})
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}

	return out, nil
}

type ListEstablishmentsOpts struct {
	Search *string
	// All includes establishments below the years-present threshold.
	All   bool
	Limit int
}

func (s *Service) ListEstablishments(ctx context.Context, opts ListEstablishmentsOpts) ([]*domain.ProfileSummary, error) {
	all, err := s.store.ListProfiles(ctx, store.ListProfilesOpts{OnlyFiltered: !opts.All})
	if err != nil {
		return nil, fmt.Errorf("store.ListProfiles: %w", err)
	}

	var term string
	if opts.Search != nil {
		term = *opts.Search
	}

	summaries := profiles.Search(all, term)
	if opts.Limit > 0 && len(summaries) > opts.Limit {
		summaries = summaries[:opts.Limit]
	}
	return summaries, nil
}

func (s *Service) GetEstablishment(ctx context.Context, establishmentID string) (*domain.EstablishmentDetail, error) {
	p, err := s.store.GetProfile(ctx, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("store.GetProfile: %w", err)
	}

	rates := make(map[string][]*float64, len(domain.CountFields))
	for _, f := range domain.CountFields {
		if f == domain.ColAnnualAverageEmployees {
			continue
		}
		rates[f] = profiles.RateSeries(p, f)
	}

	return &domain.EstablishmentDetail{
		Summary: profiles.Summarize(p),
		Years:   p.Years,
		Records: p.Slots,
		Rates:   rates,
	}, nil
}

func (s *Service) ListStateMetrics(ctx context.Context) ([]*domain.KeyYearMetric, error) {
	m, err := s.store.ListStateMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListStateMetrics: %w", err)
	}
	return m, nil
}

// GetStatePivot returns avg_injuries_per_employee per state and year. Years
// without data are absent from a state's map.
func (s *Service) GetStatePivot(ctx context.Context) (map[string]domain.YearData, domain.Year, domain.Year, error) {
	m, err := s.store.ListStateMetrics(ctx)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("store.ListStateMetrics: %w", err)
	}
	years, err := s.store.Years(ctx)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("store.Years: %w", err)
	}

	res := make(map[string]domain.YearData)
	for _, row := range aggregation.Pivot(m, years) {
		data := make(domain.YearData)
		for i, v := range row.Values {
			if v != nil {
				data[years[i]] = *v
			}
		}
		res[row.Key] = data
	}

	var minYear, maxYear domain.Year
	if len(years) > 0 {
		minYear, maxYear = years[0], years[len(years)-1]
	}
	return res, minYear, maxYear, nil
}

// ListIndustryMetrics returns industry groups above the employee threshold,
// optionally for one year.
func (s *Service) ListIndustryMetrics(ctx context.Context, year *domain.Year) ([]*domain.KeyYearMetric, error) {
	m, err := s.store.ListIndustryMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListIndustryMetrics: %w", err)
	}

	m = aggregation.FilterMinEmployees(m, s.industryMinEmployees)
	if year != nil {
		m = aggregation.ForYear(m, *year)
	}
	return m, nil
}

// ListZipMetrics aggregates the unified records of one state by ZIP code.
func (s *Service) ListZipMetrics(ctx context.Context, state string) ([]*domain.KeyYearMetric, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if _, ok := domain.ValidStates[state]; !ok {
		return nil, fmt.Errorf("%w: unknown state %q", constants.ErrBadRequest, state)
	}

	records, err := s.store.ListUnified(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListUnified: %w", err)
	}
	return aggregation.ByKeyYear(records, aggregation.ZipKeyInState(state)), nil
}

type CorrelationOpts struct {
	Year domain.Year
	X    string
	Y    string
	// Log correlates log(1+x) with log(1+y).
	Log bool
}

func (s *Service) GetCorrelation(ctx context.Context, opts CorrelationOpts) (*domain.Correlation, error) {
	for _, f := range []string{opts.X, opts.Y} {
		if !isNumeric(f) {
			return nil, fmt.Errorf("%w: %q is not a numeric column", constants.ErrBadRequest, f)
		}
	}

	records, err := s.store.ListYearRecords(ctx, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("store.ListYearRecords: %w", err)
	}

	xs := make([]float64, 0, len(records))
	ys := make([]float64, 0, len(records))
	for _, r := range records {
		x, _ := r.Numeric(opts.X)
		y, _ := r.Numeric(opts.Y)
		if opts.Log {
			lx, ly := metrics.LogOrNil(&x), metrics.LogOrNil(&y)
			if lx == nil || ly == nil {
				continue
			}
			x, y = *lx, *ly
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	return &domain.Correlation{
		Year:        opts.Year,
		X:           opts.X,
		Y:           opts.Y,
		Log:         opts.Log,
		Pairs:       len(xs),
		Coefficient: metrics.Pearson(xs, ys),
	}, nil
}

func isNumeric(field string) bool {
	for _, c := range domain.Columns {
		if c.Name == field {
			return c.Kind != domain.KindText
		}
	}
	return false
}
