package profiles

import (
	"strconv"
	"strings"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/metrics"
	"github.com/shopspring/decimal"
)

type Profiles = map[string]*domain.EstablishmentProfile

// Build groups records by establishment id into one slot per tracked year.
// Years outside trackedYears are ignored. If an establishment has several
// records for a year the last one in input order is kept.
func Build(records []*domain.EstablishmentYearRecord, trackedYears []domain.Year) Profiles {
	slotOf := make(map[domain.Year]int, len(trackedYears))
	for i, y := range trackedYears {
		slotOf[y] = i
	}

	years := append([]domain.Year(nil), trackedYears...)

	out := make(Profiles)
	for _, r := range records {
		i, ok := slotOf[r.Year]
		if !ok {
			continue
		}

		p, ok := out[r.EstablishmentID]
		if !ok {
			p = &domain.EstablishmentProfile{
				EstablishmentID: r.EstablishmentID,
				Years:           years,
				Slots:           make([]*domain.EstablishmentYearRecord, len(years)),
			}
			out[r.EstablishmentID] = p
		}
		p.Slots[i] = r
	}

	return out
}

// FilterSparse keeps profiles with at least minYearsPresent reported years.
func FilterSparse(in Profiles, minYearsPresent int) Profiles {
	out := make(Profiles, len(in))
	for id, p := range in {
		if p.YearsPresent() >= minYearsPresent {
			out[id] = p
		}
	}
	return out
}

// Series returns field per tracked year, nil where the year is absent.
func Series(p *domain.EstablishmentProfile, field string) []*float64 {
	out := make([]*float64, len(p.Slots))
	for i, s := range p.Slots {
		if s == nil {
			continue
		}
		if v, ok := s.Numeric(field); ok {
			out[i] = &v
		}
	}
	return out
}

// RateSeries returns field / annual_average_employees per tracked year.
func RateSeries(p *domain.EstablishmentProfile, field string) []*float64 {
	values := Series(p, field)
	employees := Series(p, domain.ColAnnualAverageEmployees)

	out := make([]*float64, len(values))
	for i := range values {
		out[i] = metrics.RateOf(values[i], employees[i])
	}
	return out
}

// Summarize reports the first non-empty names and per-year averages over reported years.
func Summarize(p *domain.EstablishmentProfile) *domain.ProfileSummary {
	s := &domain.ProfileSummary{EstablishmentID: p.EstablishmentID, YearsPresent: p.YearsPresent()}

	employees, injuries := decimal.Zero, decimal.Zero
	for _, r := range p.Slots {
		if r == nil {
			continue
		}
		if s.CompanyName == "" {
			s.CompanyName = r.CompanyName
		}
		if s.EstablishmentName == "" {
			s.EstablishmentName = r.EstablishmentName
		}
		employees = employees.Add(decimal.NewFromInt(r.AnnualAverageEmployees))
		injuries = injuries.Add(decimal.NewFromInt(r.TotalInjuries))
	}

	if s.YearsPresent > 0 {
		n := decimal.NewFromInt(int64(s.YearsPresent))
		avgEmployees := employees.Div(n).InexactFloat64()
		avgInjuries := injuries.Div(n).InexactFloat64()
		s.AvgAnnualEmployees = &avgEmployees
		s.AvgAnnualInjuries = &avgInjuries
		s.AvgInjuriesPerEmployee = metrics.Rate(avgInjuries, avgEmployees)
	}
	if s.CompanyName == "" {
		s.CompanyName = "N/A"
	}
	if s.EstablishmentName == "" {
		s.EstablishmentName = "N/A"
	}

	return s
}

// Search returns summaries whose establishment name contains term, case-insensitively.
func Search(in Profiles, term string) []*domain.ProfileSummary {
	term = strings.ToLower(term)
	out := make([]*domain.ProfileSummary, 0)
	for _, id := range SortedIDs(in) {
		s := Summarize(in[id])
		if term == "" || strings.Contains(strings.ToLower(s.EstablishmentName), term) {
			out = append(out, s)
		}
	}
	return out
}

// Columnar is the per-field layout used by the establishment JSON product:
// column name to one value per tracked year.
func Columnar(p *domain.EstablishmentProfile) map[string][]interface{} {
	out := make(map[string][]interface{}, len(domain.Columns)+1)
	out["year"] = make([]interface{}, len(p.Years))
	for _, c := range domain.Columns {
		out[c.Name] = make([]interface{}, len(p.Years))
	}

	for i, r := range p.Slots {
		if r == nil {
			continue
		}
		out["year"][i] = r.Year
		for _, c := range domain.Columns {
			out[c.Name][i] = cellValue(r, c)
		}
	}
	return out
}

// ByYear is the establishment → year → record layout of the aggregated JSON product.
func ByYear(in Profiles) map[string]map[string]*domain.EstablishmentYearRecord {
	out := make(map[string]map[string]*domain.EstablishmentYearRecord, len(in))
	for id, p := range in {
		years := make(map[string]*domain.EstablishmentYearRecord, len(p.Years))
		for i, r := range p.Slots {
			if r != nil {
				years[strconv.Itoa(p.Years[i])] = r
			}
		}
		out[id] = years
	}
	return out
}

func cellValue(r *domain.EstablishmentYearRecord, c domain.Column) interface{} {
	switch c.Kind {
	case domain.KindInt:
		v, _ := r.Numeric(c.Name)
		return int64(v)
	case domain.KindFloat:
		v, _ := r.Numeric(c.Name)
		return v
	default:
		return r.Text(c.Name)
	}
}
