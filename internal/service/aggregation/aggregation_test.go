package aggregation

import (
	"math"
	"testing"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, state string, year domain.Year, employees, injuries int64) *domain.EstablishmentYearRecord {
	return &domain.EstablishmentYearRecord{
		Year:                   year,
		EstablishmentID:        id,
		State:                  state,
		ZipCode:                "22030",
		NAICSCode:              "311811",
		IndustryDescription:    "Retail Bakeries",
		AnnualAverageEmployees: employees,
		TotalHoursWorked:       float64(employees) * 2000,
		TotalInjuries:          injuries,
		TotalDAFWDays:          injuries * 3,
	}
}

func TestByKeyYearRatioOfSums(t *testing.T) {
	got := ByKeyYear([]*domain.EstablishmentYearRecord{
		rec("A", "TX", 2020, 10, 2),
		rec("B", "TX", 2020, 20, 2),
	}, StateKey)

	require.Len(t, got, 1)
	m := got[0]
	assert.Equal(t, "TX", m.Key)
	assert.Equal(t, 2, m.Establishments)
	assert.Equal(t, int64(30), m.TotalEmployees)
	assert.Equal(t, int64(4), m.TotalInjuries)
	assert.Equal(t, 60000.0, m.TotalHoursWorked)
	assert.Equal(t, int64(12), m.TotalDAFWDays)

	require.NotNil(t, m.AvgInjuriesPerEmployee)
	assert.InDelta(t, 4.0/30.0, *m.AvgInjuriesPerEmployee, 1e-12)
	require.NotNil(t, m.InjuriesPerHour)
	assert.InDelta(t, 4.0/60000.0, *m.InjuriesPerHour, 1e-15)
	require.NotNil(t, m.LogInjuryRate)
	assert.InDelta(t, math.Log1p(4.0/30.0), *m.LogInjuryRate, 1e-12)
	require.NotNil(t, m.LogInjuriesPerHour)
	assert.InDelta(t, math.Log1p(4.0/60000.0), *m.LogInjuriesPerHour, 1e-15)
}

func TestByKeyYearStateFiltering(t *testing.T) {
	got := ByKeyYear([]*domain.EstablishmentYearRecord{
		rec("A", "tx", 2020, 10, 1),
		rec("B", "PR", 2020, 10, 1),
		rec("C", "DC", 2020, 10, 1),
		rec("D", "AK", 2021, 10, 1),
		rec("E", "AK", 2019, 10, 1),
	}, StateKey)

	require.Len(t, got, 3)
	assert.Equal(t, "AK", got[0].Key)
	assert.Equal(t, 2019, got[0].Year)
	assert.Equal(t, 2021, got[1].Year)
	assert.Equal(t, "TX", got[2].Key)
}

func TestByKeyYearZeroEmployees(t *testing.T) {
	got := ByKeyYear([]*domain.EstablishmentYearRecord{rec("A", "OH", 2020, 0, 0)}, StateKey)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].AvgInjuriesPerEmployee)
	assert.Nil(t, got[0].InjuriesPerHour)
	assert.Nil(t, got[0].LogInjuryRate)
	assert.Nil(t, got[0].LogInjuriesPerHour)
}

func TestIndustryKeyAndThreshold(t *testing.T) {
	other := rec("B", "TX", 2020, 50000, 1)
	other.NAICSCode = "493110"
	other.IndustryDescription = "General Warehousing"

	metrics := ByKeyYear([]*domain.EstablishmentYearRecord{
		rec("A", "TX", 2020, 50001, 10),
		other,
	}, IndustryKey)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Retail Bakeries", metrics[0].Label)

	kept := FilterMinEmployees(metrics, 50000)
	require.Len(t, kept, 1)
	assert.Equal(t, "311811", kept[0].Key)
}

func TestZipKeyInState(t *testing.T) {
	va := rec("A", "va", 2020, 10, 1)
	va.ZipCode = "22030-1234"
	short := rec("B", "VA", 2020, 10, 1)
	short.ZipCode = "220"

	got := ByKeyYear([]*domain.EstablishmentYearRecord{va, short, rec("C", "TX", 2020, 10, 1)}, ZipKeyInState("VA"))
	require.Len(t, got, 1)
	assert.Equal(t, "22030", got[0].Key)
	assert.Equal(t, int64(3), got[0].TotalDAFWDays)
}

func TestForYear(t *testing.T) {
	metrics := ByKeyYear([]*domain.EstablishmentYearRecord{
		rec("A", "TX", 2020, 10, 1),
		rec("A", "TX", 2021, 10, 1),
	}, StateKey)
	got := ForYear(metrics, 2021)
	require.Len(t, got, 1)
	assert.Equal(t, 2021, got[0].Year)
}

func TestPivotLeavesAbsentCellsNil(t *testing.T) {
	years := domain.YearRange(2019, 2021)
	metrics := ByKeyYear([]*domain.EstablishmentYearRecord{
		rec("A", "TX", 2019, 10, 1),
		rec("A", "OH", 2021, 10, 0),
		rec("A", "OH", 2015, 10, 5),
	}, StateKey)

	rows := Pivot(metrics, years)
	require.Len(t, rows, 2)

	oh := rows[0]
	assert.Equal(t, "OH", oh.Key)
	assert.Nil(t, oh.Values[0])
	assert.Nil(t, oh.Values[1])
	require.NotNil(t, oh.Values[2])
	assert.Equal(t, 0.0, *oh.Values[2])

	tbl := PivotTable(rows, years, "state")
	assert.Equal(t, []string{"state", "2019", "2020", "2021"}, tbl.Header)
	assert.Equal(t, []string{"OH", "", "", "0"}, tbl.Rows[0])
	assert.Equal(t, []string{"TX", "0.1", "", ""}, tbl.Rows[1])
}

func TestLongTable(t *testing.T) {
	metrics := ByKeyYear([]*domain.EstablishmentYearRecord{rec("A", "TX", 2020, 0, 0)}, StateKey)
	tbl := LongTable(metrics, "state")

	assert.Equal(t, "state", tbl.Header[0])
	assert.Len(t, tbl.Header, len(longHeader))
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "TX", tbl.Rows[0][0])
	assert.Equal(t, "2020", tbl.Rows[0][2])
	assert.Equal(t, "", tbl.Rows[0][8])
	assert.Equal(t, "log_injuries_per_hour", tbl.Header[len(tbl.Header)-1])
	assert.Len(t, tbl.Rows[0], len(tbl.Header))
}
