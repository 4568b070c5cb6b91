package aggregation

import (
	"sort"
	"strconv"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/tabular"
)

// PivotRow is one key of the key × year matrix of avg_injuries_per_employee.
type PivotRow struct {
	Key    string     `json:"key"`
	Values []*float64 `json:"values"`
}

// Pivot reshapes long metrics into one row per key and one cell per year.
// Cells without a group, or with an undefined rate, stay nil.
func Pivot(in []*domain.KeyYearMetric, years []domain.Year) []*PivotRow {
	col := make(map[domain.Year]int, len(years))
	for i, y := range years {
		col[y] = i
	}

	rows := make(map[string]*PivotRow)
	for _, m := range in {
		i, ok := col[m.Year]
		if !ok {
			continue
		}
		row, ok := rows[m.Key]
		if !ok {
			row = &PivotRow{Key: m.Key, Values: make([]*float64, len(years))}
			rows[m.Key] = row
		}
		row.Values[i] = m.AvgInjuriesPerEmployee
	}

	out := make([]*PivotRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

var longHeader = []string{
	"key", "label", "year", "establishments",
	"total_annual_average_employees", "total_injuries", "total_hours_worked", "total_dafw_days",
	"avg_injuries_per_employee", "injuries_per_hour", "log_injury_rate", "log_injuries_per_hour",
}

// LongTable renders metrics one row per (key, year). keyColumn names the first column.
func LongTable(in []*domain.KeyYearMetric, keyColumn string) *tabular.Table {
	header := append([]string{keyColumn}, longHeader[1:]...)
	rows := make([][]string, 0, len(in))
	for _, m := range in {
		rows = append(rows, []string{
			m.Key,
			m.Label,
			strconv.Itoa(m.Year),
			strconv.Itoa(m.Establishments),
			strconv.FormatInt(m.TotalEmployees, 10),
			strconv.FormatInt(m.TotalInjuries, 10),
			formatFloat(&m.TotalHoursWorked),
			strconv.FormatInt(m.TotalDAFWDays, 10),
			formatFloat(m.AvgInjuriesPerEmployee),
			formatFloat(m.InjuriesPerHour),
			formatFloat(m.LogInjuryRate),
			formatFloat(m.LogInjuriesPerHour),
		})
	}
	return &tabular.Table{Header: header, Rows: rows}
}

// PivotTable renders Pivot output with one column per year.
func PivotTable(rows []*PivotRow, years []domain.Year, keyColumn string) *tabular.Table {
	header := make([]string, 0, len(years)+1)
	header = append(header, keyColumn)
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, len(r.Values)+1)
		line = append(line, r.Key)
		for _, v := range r.Values {
			line = append(line, formatFloat(v))
		}
		out = append(out, line)
	}
	return &tabular.Table{Header: header, Rows: out}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
