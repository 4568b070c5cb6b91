package dto

import (
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/injuries/internal/domain"
)

// RawRecord is one source row after type coercion. A nil field is a missing or
// non-coercible cell.
type RawRecord struct {
	EstablishmentID     *string `csv:"establishment_id" validate:"required"`
	EstablishmentName   *string `csv:"establishment_name" validate:"required"`
	CompanyName         *string `csv:"company_name"`
	StreetAddress       *string `csv:"street_address" validate:"required"`
	City                *string `csv:"city" validate:"required"`
	State               *string `csv:"state" validate:"required"`
	ZipCode             *string `csv:"zip_code" validate:"required"`
	NAICSCode           *string `csv:"naics_code" validate:"required"`
	IndustryDescription *string `csv:"industry_description"`
	Size                *string `csv:"size" validate:"required"`

	AnnualAverageEmployees *int64   `csv:"annual_average_employees" validate:"required"`
	TotalHoursWorked       *float64 `csv:"total_hours_worked" validate:"required"`

	TotalDeaths    *int64 `csv:"total_deaths" validate:"required"`
	TotalDAFWCases *int64 `csv:"total_dafw_cases" validate:"required"`
	TotalDJTRCases *int64 `csv:"total_djtr_cases" validate:"required"`
	TotalOther     *int64 `csv:"total_other_cases" validate:"required"`
	TotalDAFWDays  *int64 `csv:"total_dafw_days" validate:"required"`
	TotalDJTRDays  *int64 `csv:"total_djtr_days" validate:"required"`
	TotalInjuries  *int64 `csv:"total_injuries" validate:"required"`

	TotalSkinDisorders         *int64 `csv:"total_skin_disorders" validate:"required"`
	TotalRespiratoryConditions *int64 `csv:"total_respiratory_conditions" validate:"required"`
	TotalPoisonings            *int64 `csv:"total_poisonings" validate:"required"`
	TotalHearingLoss           *int64 `csv:"total_hearing_loss" validate:"required"`
	TotalOtherIllnesses        *int64 `csv:"total_other_illnesses" validate:"required"`

	YearFilingFor    *int64  `csv:"year_filing_for" validate:"required"`
	CreatedTimestamp *string `csv:"created_timestamp" validate:"required"`
}

// NewRawRecord coerces a source row according to domain.Columns. index maps a
// column name to its position in row; absent columns stay nil.
func NewRawRecord(index map[string]int, row []string) *RawRecord {
	cell := func(name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}
	text := func(name string) *string {
		if v, ok := cell(name); ok {
			return &v
		}
		return nil
	}
	integer := func(name string) *int64 {
		v, ok := cell(name)
		if !ok {
			return nil
		}
		return ParseInt(v)
	}
	float := func(name string) *float64 {
		v, ok := cell(name)
		if !ok {
			return nil
		}
		return ParseFloat(v)
	}

	return &RawRecord{
		EstablishmentID:     text(domain.ColEstablishmentID),
		EstablishmentName:   text(domain.ColEstablishmentName),
		CompanyName:         text(domain.ColCompanyName),
		StreetAddress:       text(domain.ColStreetAddress),
		City:                text(domain.ColCity),
		State:               text(domain.ColState),
		ZipCode:             text(domain.ColZipCode),
		NAICSCode:           text(domain.ColNAICSCode),
		IndustryDescription: text(domain.ColIndustryDescription),
		Size:                text(domain.ColSize),

		AnnualAverageEmployees: integer(domain.ColAnnualAverageEmployees),
		TotalHoursWorked:       float(domain.ColTotalHoursWorked),

		TotalDeaths:    integer(domain.ColTotalDeaths),
		TotalDAFWCases: integer(domain.ColTotalDAFWCases),
		TotalDJTRCases: integer(domain.ColTotalDJTRCases),
		TotalOther:     integer(domain.ColTotalOtherCases),
		TotalDAFWDays:  integer(domain.ColTotalDAFWDays),
		TotalDJTRDays:  integer(domain.ColTotalDJTRDays),
		TotalInjuries:  integer(domain.ColTotalInjuries),

		TotalSkinDisorders:         integer(domain.ColTotalSkinDisorders),
		TotalRespiratoryConditions: integer(domain.ColTotalRespiratoryConditions),
		TotalPoisonings:            integer(domain.ColTotalPoisonings),
		TotalHearingLoss:           integer(domain.ColTotalHearingLoss),
		TotalOtherIllnesses:        integer(domain.ColTotalOtherIllnesses),

		YearFilingFor:    integer(domain.ColYearFilingFor),
		CreatedTimestamp: text(domain.ColCreatedTimestamp),
	}
}

// ParseFloat returns nil for text that is not a finite number.
func ParseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// maxCount is the largest accepted count, exact in float64.
const maxCount = 1 << 53

// ParseInt accepts non-negative integers and integral floats such as "12.0".
func ParseInt(s string) *int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 || v > maxCount {
			return nil
		}
		return &v
	}
	f := ParseFloat(s)
	if f == nil || *f != math.Trunc(*f) || *f < 0 || *f > maxCount {
		return nil
	}
	v := int64(*f)
	return &v
}
