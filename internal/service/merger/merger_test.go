package merger

import (
	"testing"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(year domain.Year, id string, injuries int64) *domain.EstablishmentYearRecord {
	return &domain.EstablishmentYearRecord{
		Year:                   year,
		EstablishmentID:        id,
		EstablishmentName:      "Site " + id,
		State:                  "OH",
		ZipCode:                "43004",
		NAICSCode:              "493110",
		AnnualAverageEmployees: 40,
		TotalHoursWorked:       83200,
		TotalInjuries:          injuries,
		YearFilingFor:          2019,
	}
}

func clone(r *domain.EstablishmentYearRecord, year domain.Year) *domain.EstablishmentYearRecord {
	c := *r
	c.Year = year
	return &c
}

func TestMergeNewestYearWins(t *testing.T) {
	r := record(2019, "A", 2)

	merged := Merge(map[domain.Year][]*domain.EstablishmentYearRecord{
		2019: {r},
		2021: {clone(r, 2021)},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 2021, merged[0].Year)
}

func TestMergeRemovesExactDuplicates(t *testing.T) {
	r := record(2020, "A", 2)

	merged := Merge(map[domain.Year][]*domain.EstablishmentYearRecord{
		2020: {r, clone(r, 2020)},
	})

	assert.Len(t, merged, 1)
}

func TestMergeIsIdempotent(t *testing.T) {
	in := map[domain.Year][]*domain.EstablishmentYearRecord{
		2018: {record(2018, "A", 1), record(2018, "B", 0)},
		2019: {record(2019, "A", 3)},
	}

	once := Merge(in)
	twice := Merge(map[domain.Year][]*domain.EstablishmentYearRecord{0: once}, WithYearOrder(NewestFirst))
	assert.Equal(t, once, twice)
}

func TestMergeKeepsDistinctRecords(t *testing.T) {
	merged := Merge(map[domain.Year][]*domain.EstablishmentYearRecord{
		2017: {record(2017, "A", 1), record(2017, "B", 0)},
		2018: {record(2018, "A", 2)},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, 2018, merged[0].Year)
	assert.Equal(t, "A", merged[1].EstablishmentID)
	assert.Equal(t, "B", merged[2].EstablishmentID)
}

func TestMergeCustomOrder(t *testing.T) {
	r := record(2016, "A", 2)

	merged := Merge(map[domain.Year][]*domain.EstablishmentYearRecord{
		2016: {r},
		2023: {clone(r, 2023)},
	}, WithYearOrder(func(a, b domain.Year) bool { return a < b }))

	require.Len(t, merged, 1)
	assert.Equal(t, 2016, merged[0].Year)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}
