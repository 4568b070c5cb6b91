package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/service/aggregation"
	"github.com/ougirez/injuries/internal/service/merger"
	"github.com/ougirez/injuries/internal/service/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, name, state, zip string, year domain.Year, employees, injuries int64) *domain.EstablishmentYearRecord {
	return &domain.EstablishmentYearRecord{
		Year:                   year,
		EstablishmentID:        id,
		EstablishmentName:      name,
		State:                  state,
		ZipCode:                zip,
		NAICSCode:              "493110",
		IndustryDescription:    "General Warehousing",
		AnnualAverageEmployees: employees,
		TotalHoursWorked:       float64(employees) * 2080,
		TotalInjuries:          injuries,
		TotalDAFWDays:          injuries * 10,
	}
}

func newService(t *testing.T) *Service {
	t.Helper()
	years := []domain.Year{2020, 2021}
	cleaned := map[domain.Year][]*domain.EstablishmentYearRecord{
		2020: {
			rec("A", "North Warehouse", "VA", "22030", 2020, 100, 10),
			rec("B", "South Plant", "VA", "23219", 2020, 0, 0),
			rec("C", "Depot", "TX", "73301", 2020, 50, 1),
		},
		2021: {
			rec("A", "North Warehouse", "VA", "22030", 2021, 200, 10),
		},
	}

	unified := merger.Merge(cleaned)
	all := profiles.Build(unified, years)

	st := store.NewStore()
	require.NoError(t, st.Put(context.Background(), &store.Snapshot{
		Years:           years,
		Cleaned:         cleaned,
		Unified:         unified,
		Profiles:        all,
		Filtered:        profiles.FilterSparse(all, 2),
		StateMetrics:    aggregation.ByKeyYear(unified, aggregation.StateKey),
		IndustryMetrics: aggregation.ByKeyYear(unified, aggregation.IndustryKey),
	}))
	return NewInsightsService(st, 120)
}

func ptr[T any](v T) *T {
	return &v
}

func TestListYearRecords(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	all, err := svc.ListYearRecords(ctx, ListYearRecordsOpts{Year: 2020})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.InDelta(t, 0.1, *all[0].InjuryRate, 1e-12)
	assert.Nil(t, all[1].InjuryRate)

	bounded, err := svc.ListYearRecords(ctx, ListYearRecordsOpts{Year: 2020, MinRate: ptr(0.05)})
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "A", bounded[0].EstablishmentID)

	searched, err := svc.ListYearRecords(ctx, ListYearRecordsOpts{Year: 2020, Search: ptr("PLANT")})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "B", searched[0].EstablishmentID)

	limited, err := svc.ListYearRecords(ctx, ListYearRecordsOpts{Year: 2020, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = svc.ListYearRecords(ctx, ListYearRecordsOpts{Year: 2016})
	assert.True(t, errors.Is(err, constants.ErrNotFound))
}

func TestListEstablishments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	filtered, err := svc.ListEstablishments(ctx, ListEstablishmentsOpts{})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].EstablishmentID)

	all, err := svc.ListEstablishments(ctx, ListEstablishmentsOpts{All: true, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetEstablishment(t *testing.T) {
	svc := newService(t)

	detail, err := svc.GetEstablishment(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Summary.YearsPresent)
	require.Len(t, detail.Records, 2)
	assert.NotContains(t, detail.Rates, domain.ColAnnualAverageEmployees)
	require.Len(t, detail.Rates[domain.ColTotalInjuries], 2)
	assert.InDelta(t, 0.05, *detail.Rates[domain.ColTotalInjuries][1], 1e-12)

	_, err = svc.GetEstablishment(context.Background(), "Z")
	assert.True(t, errors.Is(err, constants.ErrNotFound))
}

func TestGetStatePivot(t *testing.T) {
	svc := newService(t)

	data, minYear, maxYear, err := svc.GetStatePivot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2020, minYear)
	assert.Equal(t, 2021, maxYear)

	require.Contains(t, data, "TX")
	assert.InDelta(t, 0.02, data["TX"][2020], 1e-12)
	assert.NotContains(t, data["TX"], 2021)
	assert.InDelta(t, 0.05, data["VA"][2021], 1e-12)
}

func TestListIndustryMetrics(t *testing.T) {
	svc := newService(t)

	all, err := svc.ListIndustryMetrics(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, err := svc.ListIndustryMetrics(context.Background(), ptr(2021))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, int64(200), one[0].TotalEmployees)
}

func TestListZipMetrics(t *testing.T) {
	svc := newService(t)

	m, err := svc.ListZipMetrics(context.Background(), "va")
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.Equal(t, "22030", m[0].Key)
	assert.Equal(t, "23219", m[2].Key)

	_, err = svc.ListZipMetrics(context.Background(), "PR")
	assert.True(t, errors.Is(err, constants.ErrBadRequest))
}

func TestGetCorrelation(t *testing.T) {
	svc := newService(t)

	c, err := svc.GetCorrelation(context.Background(), CorrelationOpts{
		Year: 2020,
		X:    domain.ColAnnualAverageEmployees,
		Y:    domain.ColTotalHoursWorked,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Pairs)
	require.NotNil(t, c.Coefficient)
	assert.InDelta(t, 1.0, *c.Coefficient, 1e-9)

	logged, err := svc.GetCorrelation(context.Background(), CorrelationOpts{
		Year: 2020,
		X:    domain.ColTotalInjuries,
		Y:    domain.ColTotalDAFWDays,
		Log:  true,
	})
	require.NoError(t, err)
	assert.True(t, logged.Log)
	require.NotNil(t, logged.Coefficient)
	assert.Greater(t, *logged.Coefficient, 0.9)

	_, err = svc.GetCorrelation(context.Background(), CorrelationOpts{Year: 2020, X: domain.ColCity, Y: domain.ColTotalInjuries})
	assert.True(t, errors.Is(err, constants.ErrBadRequest))
}
