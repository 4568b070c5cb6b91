package aggregation

import (
	"sort"
	"strings"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/metrics"
	"github.com/shopspring/decimal"
)

// KeyFunc maps a record to its grouping key and an optional display label.
// ok=false drops the record from the aggregation.
type KeyFunc func(r *domain.EstablishmentYearRecord) (key, label string, ok bool)

// StateKey groups by upper-cased state, keeping only the 50 US states.
func StateKey(r *domain.EstablishmentYearRecord) (string, string, bool) {
	state := strings.ToUpper(strings.TrimSpace(r.State))
	if _, ok := domain.ValidStates[state]; !ok {
		return "", "", false
	}
	return state, "", true
}

// IndustryKey groups by NAICS code, labelled with the industry description.
func IndustryKey(r *domain.EstablishmentYearRecord) (string, string, bool) {
	if r.NAICSCode == "" {
		return "", "", false
	}
	return r.NAICSCode, r.IndustryDescription, true
}

// ZipKeyInState groups the records of one state by 5-digit ZIP.
func ZipKeyInState(state string) KeyFunc {
	state = strings.ToUpper(strings.TrimSpace(state))
	return func(r *domain.EstablishmentYearRecord) (string, string, bool) {
		if strings.ToUpper(strings.TrimSpace(r.State)) != state || len(r.ZipCode) < 5 {
			return "", "", false
		}
		return r.ZipCode[:5], "", true
	}
}

type groupKey struct {
	key  string
	year domain.Year
}

type accumulator struct {
	label          string
	establishments map[string]struct{}
	employees      int64
	injuries       int64
	dafwDays       int64
	hours          decimal.Decimal
}

// ByKeyYear aggregates records by (key, source year). Rates are ratios of the
// group sums, never means of per-record rates. The result is sorted by key then year.
func ByKeyYear(records []*domain.EstablishmentYearRecord, keyOf KeyFunc) []*domain.KeyYearMetric {
	groups := make(map[groupKey]*accumulator)
	for _, r := range records {
		key, label, ok := keyOf(r)
		if !ok {
			continue
		}

		gk := groupKey{key: key, year: r.Year}
		acc, ok := groups[gk]
		if !ok {
			acc = &accumulator{establishments: make(map[string]struct{})}
			groups[gk] = acc
		}
		if acc.label == "" {
			acc.label = label
		}
		acc.establishments[r.EstablishmentID] = struct{}{}
		acc.employees += r.AnnualAverageEmployees
		acc.injuries += r.TotalInjuries
		acc.dafwDays += r.TotalDAFWDays
		acc.hours = acc.hours.Add(decimal.NewFromFloat(r.TotalHoursWorked))
	}

	out := make([]*domain.KeyYearMetric, 0, len(groups))
	for gk, acc := range groups {
		hours := acc.hours.InexactFloat64()
		m := &domain.KeyYearMetric{
			Key:              gk.key,
			Label:            acc.label,
			Year:             gk.year,
			Establishments:   len(acc.establishments),
			TotalEmployees:   acc.employees,
			TotalInjuries:    acc.injuries,
			TotalHoursWorked: hours,
			TotalDAFWDays:    acc.dafwDays,
		}
		m.AvgInjuriesPerEmployee = metrics.Rate(float64(acc.injuries), float64(acc.employees))
		m.InjuriesPerHour = metrics.Rate(float64(acc.injuries), hours)
		m.LogInjuryRate = metrics.LogOrNil(m.AvgInjuriesPerEmployee)
		m.LogInjuriesPerHour = metrics.LogOrNil(m.InjuriesPerHour)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Year < out[j].Year
	})

	return out
}

// FilterMinEmployees keeps groups with strictly more than threshold employees.
func FilterMinEmployees(in []*domain.KeyYearMetric, threshold int64) []*domain.KeyYearMetric {
	out := make([]*domain.KeyYearMetric, 0, len(in))
	for _, m := range in {
		if m.TotalEmployees > threshold {
			out = append(out, m)
		}
	}
	return out
}

// ForYear keeps the groups of one source year.
func ForYear(in []*domain.KeyYearMetric, year domain.Year) []*domain.KeyYearMetric {
	out := make([]*domain.KeyYearMetric, 0)
	for _, m := range in {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out
}
