package domain

import "strconv"

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
)

type Column struct {
	Name     string
	Kind     ColumnKind
	Required bool
}

const (
	ColEstablishmentID            = "establishment_id"
	ColEstablishmentName          = "establishment_name"
	ColCompanyName                = "company_name"
	ColStreetAddress              = "street_address"
	ColCity                       = "city"
	ColState                      = "state"
	ColZipCode                    = "zip_code"
	ColNAICSCode                  = "naics_code"
	ColIndustryDescription        = "industry_description"
	ColSize                       = "size"
	ColAnnualAverageEmployees     = "annual_average_employees"
	ColTotalHoursWorked           = "total_hours_worked"
	ColTotalDeaths                = "total_deaths"
	ColTotalDAFWCases             = "total_dafw_cases"
	ColTotalDJTRCases             = "total_djtr_cases"
	ColTotalOtherCases            = "total_other_cases"
	ColTotalDAFWDays              = "total_dafw_days"
	ColTotalDJTRDays              = "total_djtr_days"
	ColTotalInjuries              = "total_injuries"
	ColTotalSkinDisorders         = "total_skin_disorders"
	ColTotalRespiratoryConditions = "total_respiratory_conditions"
	ColTotalPoisonings            = "total_poisonings"
	ColTotalHearingLoss           = "total_hearing_loss"
	ColTotalOtherIllnesses        = "total_other_illnesses"
	ColYearFilingFor              = "year_filing_for"
	ColCreatedTimestamp           = "created_timestamp"
)

// Columns is the fixed schema of an ITA summary file. Order is the output column order.
var Columns = []Column{
	{ColEstablishmentID, KindText, true},
	{ColEstablishmentName, KindText, true},
	{ColCompanyName, KindText, false},
	{ColStreetAddress, KindText, true},
	{ColCity, KindText, true},
	{ColState, KindText, true},
	{ColZipCode, KindText, true},
	{ColNAICSCode, KindText, true},
	{ColIndustryDescription, KindText, false},
	{ColSize, KindText, true},
	{ColAnnualAverageEmployees, KindInt, true},
	{ColTotalHoursWorked, KindFloat, true},
	{ColTotalDeaths, KindInt, true},
	{ColTotalDAFWCases, KindInt, true},
	{ColTotalDJTRCases, KindInt, true},
	{ColTotalOtherCases, KindInt, true},
	{ColTotalDAFWDays, KindInt, true},
	{ColTotalDJTRDays, KindInt, true},
	{ColTotalInjuries, KindInt, true},
	{ColTotalSkinDisorders, KindInt, true},
	{ColTotalRespiratoryConditions, KindInt, true},
	{ColTotalPoisonings, KindInt, true},
	{ColTotalHearingLoss, KindInt, true},
	{ColTotalOtherIllnesses, KindInt, true},
	{ColYearFilingFor, KindInt, true},
	{ColCreatedTimestamp, KindText, true},
}

// RequiredColumns lists the names a source header must contain.
func RequiredColumns() []string {
	out := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

// CountFields are the numeric per-establishment measures that can be turned into series.
var CountFields = []string{
	ColAnnualAverageEmployees,
	ColTotalHoursWorked,
	ColTotalDeaths,
	ColTotalDAFWCases,
	ColTotalDJTRCases,
	ColTotalOtherCases,
	ColTotalDAFWDays,
	ColTotalDJTRDays,
	ColTotalInjuries,
	ColTotalSkinDisorders,
	ColTotalRespiratoryConditions,
	ColTotalPoisonings,
	ColTotalHearingLoss,
	ColTotalOtherIllnesses,
}

// Numeric returns the value of a numeric column, false for text or unknown columns.
func (r *EstablishmentYearRecord) Numeric(name string) (float64, bool) {
	switch name {
	case ColAnnualAverageEmployees:
		return float64(r.AnnualAverageEmployees), true
	case ColTotalHoursWorked:
		return r.TotalHoursWorked, true
	case ColTotalDeaths:
		return float64(r.TotalDeaths), true
	case ColTotalDAFWCases:
		return float64(r.TotalDAFWCases), true
	case ColTotalDJTRCases:
		return float64(r.TotalDJTRCases), true
	case ColTotalOtherCases:
		return float64(r.TotalOther), true
	case ColTotalDAFWDays:
		return float64(r.TotalDAFWDays), true
	case ColTotalDJTRDays:
		return float64(r.TotalDJTRDays), true
	case ColTotalInjuries:
		return float64(r.TotalInjuries), true
	case ColTotalSkinDisorders:
		return float64(r.TotalSkinDisorders), true
	case ColTotalRespiratoryConditions:
		return float64(r.TotalRespiratoryConditions), true
	case ColTotalPoisonings:
		return float64(r.TotalPoisonings), true
	case ColTotalHearingLoss:
		return float64(r.TotalHearingLoss), true
	case ColTotalOtherIllnesses:
		return float64(r.TotalOtherIllnesses), true
	case ColYearFilingFor:
		return float64(r.YearFilingFor), true
	}
	return 0, false
}

// Text renders one column as it is written to CSV.
func (r *EstablishmentYearRecord) Text(name string) string {
	switch name {
	case ColEstablishmentID:
		return r.EstablishmentID
	case ColEstablishmentName:
		return r.EstablishmentName
	case ColCompanyName:
		return r.CompanyName
	case ColStreetAddress:
		return r.StreetAddress
	case ColCity:
		return r.City
	case ColState:
		return r.State
	case ColZipCode:
		return r.ZipCode
	case ColNAICSCode:
		return r.NAICSCode
	case ColIndustryDescription:
		return r.IndustryDescription
	case ColSize:
		return r.Size
	case ColCreatedTimestamp:
		return r.CreatedTimestamp
	case ColTotalHoursWorked:
		return strconv.FormatFloat(r.TotalHoursWorked, 'f', -1, 64)
	}
	if v, ok := r.Numeric(name); ok {
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}
