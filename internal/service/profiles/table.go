package profiles

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/tabular"
)

func SortedIDs(in Profiles) []string {
	ids := make([]string, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WideTable renders one row per establishment and one column group per tracked
// year: every count field and its per-employee rate. Absent years are empty cells.
func WideTable(in Profiles, years []domain.Year) *tabular.Table {
	header := []string{domain.ColEstablishmentID, "establishment_name", "years_present"}
	for _, y := range years {
		for _, f := range domain.CountFields {
			header = append(header, fmt.Sprintf("%s_%d", f, y))
		}
		header = append(header, fmt.Sprintf("injury_rate_%d", y))
	}

	rows := make([][]string, 0, len(in))
	for _, id := range SortedIDs(in) {
		p := in[id]
		summary := Summarize(p)
		row := []string{id, summary.EstablishmentName, strconv.Itoa(summary.YearsPresent)}

		series := make(map[string][]*float64, len(domain.CountFields))
		for _, f := range domain.CountFields {
			series[f] = Series(p, f)
		}
		rates := RateSeries(p, domain.ColTotalInjuries)

		for _, y := range years {
			i := slotIndex(p, y)
			for _, f := range domain.CountFields {
				row = append(row, cell(series[f], i))
			}
			row = append(row, cell(rates, i))
		}
		rows = append(rows, row)
	}

	return &tabular.Table{Header: header, Rows: rows}
}

func slotIndex(p *domain.EstablishmentProfile, year domain.Year) int {
	for i, y := range p.Years {
		if y == year {
			return i
		}
	}
	return -1
}

func cell(values []*float64, i int) string {
	if i < 0 || i >= len(values) || values[i] == nil {
		return ""
	}
	return strconv.FormatFloat(*values[i], 'f', -1, 64)
}
