package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/domain/dto"
	"github.com/ougirez/injuries/internal/pkg/constants"
)

const (
	zipWidth   = 5
	naicsWidth = 6

	weeklyHours  = 40
	weeksPerYear = 52

	minHoursFactor = 0.25
	maxHoursFactor = 2.0
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("csv")
	})
	return v
}

// ValidationError lists every rule a row violated. errors.Is matches each reason.
type ValidationError struct {
	EstablishmentID string
	MissingFields   []string
	Reasons         []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		msgs = append(msgs, r.Error())
	}
	msg := strings.Join(msgs, "; ")
	if len(e.MissingFields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.MissingFields, ", "))
	}
	if e.EstablishmentID != "" {
		return fmt.Sprintf("establishment %s: %s", e.EstablishmentID, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	return e.Reasons
}

// PadLeft left-pads s with zeros up to width. Longer values are kept as is.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Validate turns a coerced row into a record, or reports why the row is inadmissible.
func Validate(in *dto.RawRecord) (*domain.EstablishmentYearRecord, error) {
	raw := *in
	if raw.ZipCode != nil {
		zip := PadLeft(*raw.ZipCode, zipWidth)
		raw.ZipCode = &zip
	}
	if raw.NAICSCode != nil {
		naics := PadLeft(*raw.NAICSCode, naicsWidth)
		raw.NAICSCode = &naics
	}

	if missing := missingFields(&raw); len(missing) > 0 {
		return nil, &ValidationError{
			EstablishmentID: deref(raw.EstablishmentID),
			MissingFields:   missing,
			Reasons:         []error{constants.ErrMissingField},
		}
	}

	record := toRecord(&raw)
	if reasons := checkRecord(record); len(reasons) > 0 {
		return nil, &ValidationError{
			EstablishmentID: record.EstablishmentID,
			Reasons:         reasons,
		}
	}

	return record, nil
}

func missingFields(raw *dto.RawRecord) []string {
	err := validate.Struct(raw)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// checkRecord applies the numeric consistency rules in order and returns every violation.
func checkRecord(r *domain.EstablishmentYearRecord) []error {
	var reasons []error

	if r.TotalInjuries > r.AnnualAverageEmployees {
		reasons = append(reasons, constants.ErrInjuryCountExceedsEmployees)
	}

	expected := float64(r.AnnualAverageEmployees) * weeklyHours * weeksPerYear
	if r.TotalHoursWorked < minHoursFactor*expected || r.TotalHoursWorked > maxHoursFactor*expected {
		reasons = append(reasons, constants.ErrImplausibleHoursWorked)
	}

	if r.TotalInjuries < r.IllnessSubtotal() {
		reasons = append(reasons, constants.ErrInconsistentSubcategories)
	}

	if r.TotalHoursWorked <= 0 {
		reasons = append(reasons, constants.ErrNonPositiveHours)
	}

	return reasons
}

func toRecord(raw *dto.RawRecord) *domain.EstablishmentYearRecord {
	return &domain.EstablishmentYearRecord{
		EstablishmentID:     *raw.EstablishmentID,
		EstablishmentName:   *raw.EstablishmentName,
		CompanyName:         deref(raw.CompanyName),
		StreetAddress:       *raw.StreetAddress,
		City:                *raw.City,
		State:               *raw.State,
		ZipCode:             *raw.ZipCode,
		NAICSCode:           *raw.NAICSCode,
		IndustryDescription: deref(raw.IndustryDescription),
		Size:                *raw.Size,

		AnnualAverageEmployees: *raw.AnnualAverageEmployees,
		TotalHoursWorked:       *raw.TotalHoursWorked,

		TotalDeaths:    *raw.TotalDeaths,
		TotalDAFWCases: *raw.TotalDAFWCases,
		TotalDJTRCases: *raw.TotalDJTRCases,
		TotalOther:     *raw.TotalOther,
		TotalDAFWDays:  *raw.TotalDAFWDays,
		TotalDJTRDays:  *raw.TotalDJTRDays,
		TotalInjuries:  *raw.TotalInjuries,

		TotalSkinDisorders:         *raw.TotalSkinDisorders,
		TotalRespiratoryConditions: *raw.TotalRespiratoryConditions,
		TotalPoisonings:            *raw.TotalPoisonings,
		TotalHearingLoss:           *raw.TotalHearingLoss,
		TotalOtherIllnesses:        *raw.TotalOtherIllnesses,

		YearFilingFor:    domain.Year(*raw.YearFilingFor),
		CreatedTimestamp: *raw.CreatedTimestamp,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
