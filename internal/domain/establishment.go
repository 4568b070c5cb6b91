package domain

import (
	"strconv"
	"strings"
)

type Year = int
type YearData = map[Year]float64

// YearRange returns first..last inclusive.
func YearRange(first, last Year) []Year {
	if last < first {
		return nil
	}
	years := make([]Year, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// EstablishmentYearRecord is one establishment's ITA submission for one source year.
// Values are never modified after validation.
type EstablishmentYearRecord struct {
	// Year is the source year the record was loaded from.
	Year Year `json:"year"`

	EstablishmentID     string `json:"establishment_id"`
	EstablishmentName   string `json:"establishment_name"`
	CompanyName         string `json:"company_name"`
	StreetAddress       string `json:"street_address"`
	City                string `json:"city"`
	State               string `json:"state"`
	ZipCode             string `json:"zip_code"`
	NAICSCode           string `json:"naics_code"`
	IndustryDescription string `json:"industry_description"`
	Size                string `json:"size"`

	AnnualAverageEmployees int64   `json:"annual_average_employees"`
	TotalHoursWorked       float64 `json:"total_hours_worked"`

	TotalDeaths    int64 `json:"total_deaths"`
	TotalDAFWCases int64 `json:"total_dafw_cases"`
	TotalDJTRCases int64 `json:"total_djtr_cases"`
	TotalOther     int64 `json:"total_other_cases"`
	TotalDAFWDays  int64 `json:"total_dafw_days"`
	TotalDJTRDays  int64 `json:"total_djtr_days"`
	TotalInjuries  int64 `json:"total_injuries"`

	TotalSkinDisorders         int64 `json:"total_skin_disorders"`
	TotalRespiratoryConditions int64 `json:"total_respiratory_conditions"`
	TotalPoisonings            int64 `json:"total_poisonings"`
	TotalHearingLoss           int64 `json:"total_hearing_loss"`
	TotalOtherIllnesses        int64 `json:"total_other_illnesses"`

	YearFilingFor    Year   `json:"year_filing_for"`
	CreatedTimestamp string `json:"created_timestamp"`
}

// IllnessSubtotal is the sum of the illness subcategory counts.
func (r *EstablishmentYearRecord) IllnessSubtotal() int64 {
	return r.TotalSkinDisorders + r.TotalRespiratoryConditions + r.TotalPoisonings +
		r.TotalHearingLoss + r.TotalOtherIllnesses
}

// Values renders the record in Columns order, the year tag excluded.
func (r *EstablishmentYearRecord) Values() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Text(c.Name)
	}
	return out
}

// ContentKey identifies a record by every column except the source year.
func (r *EstablishmentYearRecord) ContentKey() string {
	return strings.Join(r.Values(), "\x1f")
}

// Key identifies a record by every column and the source year.
func (r *EstablishmentYearRecord) Key() string {
	return strconv.Itoa(r.Year) + "\x1f" + r.ContentKey()
}

// EstablishmentProfile is one establishment's multi-year series, one slot per tracked year.
// A nil slot means the establishment did not report that year.
type EstablishmentProfile struct {
	EstablishmentID string                     `json:"establishment_id"`
	Years           []Year                     `json:"years"`
	Slots           []*EstablishmentYearRecord `json:"slots"`
}

func (p *EstablishmentProfile) YearsPresent() int {
	n := 0
	for _, s := range p.Slots {
		if s != nil {
			n++
		}
	}
	return n
}

func (p *EstablishmentProfile) Slot(year Year) *EstablishmentYearRecord {
	for i, y := range p.Years {
		if y == year {
			return p.Slots[i]
		}
	}
	return nil
}

// ProfileSummary is the per-establishment overview shown in establishment search.
type ProfileSummary struct {
	EstablishmentID        string   `json:"establishment_id"`
	CompanyName            string   `json:"company_name"`
	EstablishmentName      string   `json:"establishment_name"`
	YearsPresent           int      `json:"years_present"`
	AvgAnnualEmployees     *float64 `json:"avg_annual_employees"`
	AvgAnnualInjuries      *float64 `json:"avg_annual_injuries"`
	AvgInjuriesPerEmployee *float64 `json:"avg_annual_injuries_per_employee"`
}

// KeyYearMetric aggregates records sharing a grouping key (state, NAICS code, ZIP) and year.
type KeyYearMetric struct {
	Key            string `json:"key"`
	Label          string `json:"label,omitempty"`
	Year           Year   `json:"year"`
	Establishments int    `json:"establishments"`

	TotalEmployees   int64   `json:"total_annual_average_employees"`
	TotalInjuries    int64   `json:"total_injuries"`
	TotalHoursWorked float64 `json:"total_hours_worked"`
	TotalDAFWDays    int64   `json:"total_dafw_days"`

	AvgInjuriesPerEmployee *float64 `json:"avg_injuries_per_employee"`
	InjuriesPerHour        *float64 `json:"injuries_per_hour"`
	LogInjuryRate          *float64 `json:"log_injury_rate"`
	// LogInjuriesPerHour is log(1+injuries_per_hour), the industry treemap colour scale.
	LogInjuriesPerHour *float64 `json:"log_injuries_per_hour"`
}

// ValidStates are the 50 US state abbreviations accepted for state grouping.
var ValidStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
}
